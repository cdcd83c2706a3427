package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Quantity selects which primitive variable a chart shows.
type Quantity int

const (
	Density Quantity = iota
	Velocity
	Temperature
)

func (q Quantity) String() string {
	switch q {
	case Density:
		return "density"
	case Velocity:
		return "velocity"
	case Temperature:
		return "temperature"
	}
	return "unknown"
}

// Unit is the SI unit of the quantity.
func (q Quantity) Unit() string {
	switch q {
	case Density:
		return "kg/m^3"
	case Velocity:
		return "m/s"
	case Temperature:
		return "K"
	}
	return ""
}

// ParseQuantity accepts the String form or its first letter.
func ParseQuantity(name string) (Quantity, error) {
	switch strings.ToLower(name) {
	case "density", "rho", "d":
		return Density, nil
	case "velocity", "u", "v":
		return Velocity, nil
	case "temperature", "t":
		return Temperature, nil
	}
	return 0, fmt.Errorf("unknown quantity: %s", name)
}

// Next cycles density, velocity, temperature.
func (q Quantity) Next() Quantity {
	return (q + 1) % 3
}

// PlotProfile charts one profile against cell index.
func PlotProfile(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return Subtle.Render("(no data)")
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(precision(values)),
		asciigraph.Caption(caption),
	)
}

// PlotSpecies overlays one profile per species, in the order of names, and
// appends a colored legend.
func PlotSpecies(names []string, series [][]float64, q Quantity, width, height int) string {
	var data [][]float64
	var colors []asciigraph.AnsiColor
	var legend []string
	var all []float64
	for k, s := range series {
		if len(s) == 0 {
			continue
		}
		data = append(data, s)
		colors = append(colors, CurrentTheme.SeriesColor(k))
		legend = append(legend, fmt.Sprintf("%s%s\x1b[0m", colors[len(colors)-1], names[k]))
		all = append(all, s...)
	}
	if len(data) == 0 {
		return Subtle.Render("(no data)")
	}

	chart := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(precision(all)),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("%s (%s)", q, q.Unit())),
	)
	return lipgloss.JoinVertical(lipgloss.Left, chart, strings.Join(legend, "  "))
}

// precision picks enough decimals to tell the extremes of values apart.
func precision(values []float64) uint {
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := math.Max(math.Abs(lo), math.Abs(hi))
	var p uint = 2
	for span > 0 && span < 10 && p < 12 {
		span *= 10
		p++
	}
	return p
}
