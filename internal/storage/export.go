package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/hallsim/internal/solver"
)

type ExportProfile struct {
	Time        float64              `json:"time"`
	Density     map[string][]float64 `json:"density"`
	Velocity    map[string][]float64 `json:"velocity"`
	Temperature map[string][]float64 `json:"temperature"`
}

type ExportData struct {
	Law        string             `json:"law"`
	Flux       string             `json:"flux"`
	Integrator string             `json:"integrator"`
	Species    []string           `json:"species"`
	Steps      int                `json:"steps"`
	X          []float64          `json:"x"`
	Profiles   []ExportProfile    `json:"profiles"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewExportData converts every snapshot of result into primitive profiles.
func NewExportData(info RunInfo, result *solver.Result) (*ExportData, error) {
	data := &ExportData{
		Law:        info.Law,
		Flux:       info.Flux,
		Integrator: info.Integrator,
		Steps:      result.Steps,
		Profiles:   make([]ExportProfile, 0, len(result.Snapshots)),
		Metrics:    result.Metrics,
	}
	if len(result.Snapshots) == 0 {
		return data, nil
	}

	layout := result.Snapshots[0].Layout()
	for _, sp := range layout.Species() {
		data.Species = append(data.Species, sp.String())
	}
	data.X = result.Snapshots[0].Grid().Centers()

	for n, snap := range result.Snapshots {
		ep := ExportProfile{
			Time:        result.Times[n],
			Density:     make(map[string][]float64),
			Velocity:    make(map[string][]float64),
			Temperature: make(map[string][]float64),
		}
		for k, name := range data.Species {
			prof, err := snap.Profile(k)
			if err != nil {
				return nil, err
			}
			for _, p := range prof {
				ep.Density[name] = append(ep.Density[name], p.Density)
				ep.Velocity[name] = append(ep.Velocity[name], p.Velocity)
				ep.Temperature[name] = append(ep.Temperature[name], p.Temperature)
			}
		}
		data.Profiles = append(data.Profiles, ep)
	}
	return data, nil
}

func ExportJSON(path string, info RunInfo, result *solver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, info, result)
}

func ExportJSONStdout(info RunInfo, result *solver.Result) error {
	return WriteJSON(os.Stdout, info, result)
}

func WriteJSON(w io.Writer, info RunInfo, result *solver.Result) error {
	data, err := NewExportData(info, result)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
