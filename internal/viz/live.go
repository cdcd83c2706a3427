package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/hallsim/internal/grid"
)

const (
	chartWidth      = 70
	chartHeight     = 14
	historyCapacity = 600
)

// Runner drives a solver, calling fn after every accepted step until fn
// returns false.
type Runner func(ctx context.Context, fn func(step int, t float64, u *grid.Field) bool) error

// Frame is the primitive state of every species at one step.
type Frame struct {
	Step        int
	Time        float64
	Species     []string
	Density     [][]float64
	Velocity    [][]float64
	Temperature [][]float64
	Mass        float64
}

// NewFrame converts a field into per-species primitive profiles.
func NewFrame(step int, t float64, u *grid.Field) (Frame, error) {
	l := u.Layout()
	f := Frame{
		Step:        step,
		Time:        t,
		Density:     make([][]float64, l.NumSpecies()),
		Velocity:    make([][]float64, l.NumSpecies()),
		Temperature: make([][]float64, l.NumSpecies()),
	}
	for k, sp := range l.Species() {
		f.Species = append(f.Species, sp.String())
		prof, err := u.Profile(k)
		if err != nil {
			return Frame{}, fmt.Errorf("%s: %w", sp, err)
		}
		for _, p := range prof {
			f.Density[k] = append(f.Density[k], p.Density)
			f.Velocity[k] = append(f.Velocity[k], p.Velocity)
			f.Temperature[k] = append(f.Temperature[k], p.Temperature)
		}
		f.Mass += u.TotalMass(k)
	}
	return f, nil
}

func (f Frame) series(q Quantity) [][]float64 {
	switch q {
	case Velocity:
		return f.Velocity
	case Temperature:
		return f.Temperature
	}
	return f.Density
}

type frameMsg Frame

type doneMsg struct{ err error }

// LiveModel follows a running solver in the terminal. The solver runs in
// its own goroutine and hands frames over a channel.
type LiveModel struct {
	title    string
	run      Runner
	duration float64
	every    int

	ctx    context.Context
	cancel context.CancelFunc
	frames chan tea.Msg
	paused *atomic.Bool

	frame       Frame
	quantity    Quantity
	massHistory []float64
	done        bool
	err         error
	showHelp    bool
}

// NewLiveModel prepares a live view. every sets how many solver steps pass
// between redraws.
func NewLiveModel(title string, run Runner, duration float64, every int) LiveModel {
	ctx, cancel := context.WithCancel(context.Background())
	return LiveModel{
		title:       title,
		run:         run,
		duration:    duration,
		every:       max(every, 1),
		ctx:         ctx,
		cancel:      cancel,
		frames:      make(chan tea.Msg),
		paused:      &atomic.Bool{},
		massHistory: make([]float64, 0, historyCapacity),
	}
}

func (m LiveModel) Init() tea.Cmd {
	go m.drive()
	return m.wait()
}

func (m LiveModel) drive() {
	err := m.run(m.ctx, func(step int, t float64, u *grid.Field) bool {
		for m.paused.Load() {
			if m.ctx.Err() != nil {
				return false
			}
			time.Sleep(20 * time.Millisecond)
		}
		if step%m.every != 0 && t < m.duration {
			return m.ctx.Err() == nil
		}
		f, err := NewFrame(step, t, u)
		if err != nil {
			// accepted steps always convert; skip the redraw regardless
			return true
		}
		select {
		case m.frames <- frameMsg(f):
			return true
		case <-m.ctx.Done():
			return false
		}
	})
	select {
	case m.frames <- doneMsg{err: err}:
	case <-m.ctx.Done():
	}
}

func (m LiveModel) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.frames:
			return msg
		case <-m.ctx.Done():
			return doneMsg{err: m.ctx.Err()}
		}
	}
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case " ", "space":
			m.paused.Store(!m.paused.Load())
		case "tab":
			m.quantity = m.quantity.Next()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case frameMsg:
		m.frame = Frame(msg)
		if len(m.massHistory) == historyCapacity {
			m.massHistory = m.massHistory[1:]
		}
		m.massHistory = append(m.massHistory, m.frame.Mass)
		return m, m.wait()
	case doneMsg:
		m.done = true
		if !errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}
	}
	return m, nil
}

// Quantity is the variable currently charted.
func (m LiveModel) Quantity() Quantity { return m.quantity }

// Frame is the most recent frame received.
func (m LiveModel) Frame() Frame { return m.frame }

// Err is the error the run ended with, if any.
func (m LiveModel) Err() error { return m.err }

func (m LiveModel) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.frame.Species) > 0 {
		s.WriteString(PlotSpecies(m.frame.Species, m.frame.series(m.quantity), m.quantity, chartWidth, chartHeight) + "\n\n")
	}

	progress := 0.0
	if m.duration > 0 {
		progress = m.frame.Time / m.duration
	}
	s.WriteString(MetricLabel.Render("Progress") + ProgressBar(progress, 30) + "\n")
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.4e s", m.frame.Time)) + "\n")
	s.WriteString(MetricLabel.Render("Step") + MetricValue.Render(fmt.Sprintf("%d", m.frame.Step)) + "\n")
	s.WriteString(MetricLabel.Render("Mass") + MetricValue.Render(fmt.Sprintf("%.6e kg/m^2", m.frame.Mass)) + "\n")
	s.WriteString(MetricLabel.Render("") + SparklineChart(m.massHistory, 30) + "\n")

	s.WriteString("\n" + Separator(40) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause  Tab:Quantity  T:Theme  ?:Help  Q:Quit"))

	view := Panel.Render(s.String())
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, helpText, view)
	}
	return view
}

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED: " + m.err.Error())
	case m.done:
		return StatusRunning.Render("DONE")
	case m.paused.Load():
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume solver      ║
║  Tab      - Next quantity            ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Stop and quit            ║
╚══════════════════════════════════════╝
`
