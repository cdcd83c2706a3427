package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/hallsim/internal/solver"
)

const (
	metadataFile = "metadata.json"
	profilesFile = "profiles.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo names the pieces a run was built from.
type RunInfo struct {
	Name       string // preset or law name, used as the run id prefix
	Law        string
	Flux       string
	Integrator string
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Law        string             `json:"law"`
	Flux       string             `json:"flux"`
	Integrator string             `json:"integrator"`
	Species    []string           `json:"species"`
	Timestamp  time.Time          `json:"timestamp"`
	Cells      int                `json:"cells"`
	Left       float64            `json:"left"`
	Right      float64            `json:"right"`
	FinalTime  float64            `json:"final_time"`
	Steps      int                `json:"steps"`
	Rejected   int                `json:"rejected"`
	Snapshots  int                `json:"snapshots"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes the run metadata and every snapshot's primitive profiles to
// a new run directory and returns the run id.
func (s *Store) Save(info RunInfo, result *solver.Result) (string, error) {
	if result.Final == nil {
		return "", fmt.Errorf("storage: result has no final state")
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	g := result.Final.Grid()
	left, right := g.Bounds()
	species := result.Final.Layout().Species()
	names := make([]string, len(species))
	for i, sp := range species {
		names[i] = sp.String()
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       info.Name,
		Law:        info.Law,
		Flux:       info.Flux,
		Integrator: info.Integrator,
		Species:    names,
		Timestamp:  now,
		Cells:      g.Cells(),
		Left:       left,
		Right:      right,
		FinalTime:  result.FinalTime(),
		Steps:      result.Steps,
		Rejected:   result.Rejected,
		Snapshots:  len(result.Snapshots),
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, profilesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"t", "x"}
	for _, name := range names {
		header = append(header, name+"_rho", name+"_u", name+"_T")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	xs := g.Centers()
	for n, snap := range result.Snapshots {
		rows := make([][]string, len(xs))
		for i, x := range xs {
			rows[i] = []string{formatFloat(result.Times[n]), formatFloat(x)}
		}
		for k := range species {
			prof, err := snap.Profile(k)
			if err != nil {
				return "", fmt.Errorf("storage: snapshot %d, %s: %w", n, names[k], err)
			}
			for i, p := range prof {
				rows[i] = append(rows[i], formatFloat(p.Density), formatFloat(p.Velocity), formatFloat(p.Temperature))
			}
		}
		if err := w.WriteAll(rows); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Profile is one stored snapshot. The maps are keyed by species name.
type Profile struct {
	Time        float64              `json:"time"`
	X           []float64            `json:"x"`
	Density     map[string][]float64 `json:"density"`
	Velocity    map[string][]float64 `json:"velocity"`
	Temperature map[string][]float64 `json:"temperature"`
}

// LoadProfiles reads the snapshots of a run in time order.
func (s *Store) LoadProfiles(runID string) ([]Profile, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, profilesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Profile{}, nil
	}

	header := records[0]
	if len(header) < 2 || (len(header)-2)%3 != 0 {
		return nil, fmt.Errorf("storage: malformed header %v", header)
	}
	var species []string
	for j := 2; j < len(header); j += 3 {
		species = append(species, strings.TrimSuffix(header[j], "_rho"))
	}

	var out []Profile
	for n, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: row %d column %s: %w", n+1, header[j], err)
			}
			vals[j] = v
		}

		if len(out) == 0 || out[len(out)-1].Time != vals[0] {
			out = append(out, Profile{
				Time:        vals[0],
				Density:     make(map[string][]float64, len(species)),
				Velocity:    make(map[string][]float64, len(species)),
				Temperature: make(map[string][]float64, len(species)),
			})
		}
		p := &out[len(out)-1]
		p.X = append(p.X, vals[1])
		for k, name := range species {
			p.Density[name] = append(p.Density[name], vals[2+3*k])
			p.Velocity[name] = append(p.Velocity[name], vals[3+3*k])
			p.Temperature[name] = append(p.Temperature[name], vals[4+3*k])
		}
	}

	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
