package grid

import (
	"fmt"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/gas"
	"gonum.org/v1/gonum/floats"
)

// Field stores the conserved variables of every species in every cell,
// including one ghost cell on each side.
type Field struct {
	grid   *Grid
	layout *Layout
	data   []float64
}

func NewField(g *Grid, l *Layout) *Field {
	return &Field{
		grid:   g,
		layout: l,
		data:   make([]float64, (g.Cells()+2)*l.Width()),
	}
}

func (f *Field) Grid() *Grid     { return f.grid }
func (f *Field) Layout() *Layout { return f.layout }

// Rows is the number of cell rows including ghosts.
func (f *Field) Rows() int { return f.grid.Cells() + 2 }

// Data exposes the row-major backing slice.
func (f *Field) Data() []float64 { return f.data }

// Row returns row i; row 0 is the left ghost, row Cells()+1 the right ghost.
func (f *Field) Row(i int) []float64 {
	w := f.layout.Width()
	return f.data[i*w : (i+1)*w : (i+1)*w]
}

// Cell returns a view of species slot k in row i. Writes through the view
// modify the field.
func (f *Field) Cell(i, k int) conservation.Conserved {
	n := f.layout.Vars()
	row := f.Row(i)
	return conservation.Conserved(row[k*n : (k+1)*n : (k+1)*n])
}

// Primitive converts species slot k of row i.
func (f *Field) Primitive(i, k int) (conservation.Primitive, error) {
	return f.layout.law.PrimitiveFromConserved(f.Cell(i, k), f.layout.species[k])
}

// SetPrimitive stores p in species slot k of row i.
func (f *Field) SetPrimitive(i, k int, p conservation.Primitive) error {
	u, err := f.layout.law.ConservedFromPrimitive(p, f.layout.species[k])
	if err != nil {
		return err
	}
	copy(f.Cell(i, k), u)
	return nil
}

func (f *Field) Clone() *Field {
	c := &Field{grid: f.grid, layout: f.layout, data: make([]float64, len(f.data))}
	copy(c.data, f.data)
	return c
}

// CopyFrom overwrites f with o, which must share f's grid and layout.
func (f *Field) CopyFrom(o *Field) {
	copy(f.data, o.data)
}

// AddScaled sets f = f + alpha*o.
func (f *Field) AddScaled(alpha float64, o *Field) {
	floats.AddScaled(f.data, alpha, o.data)
}

// Scale sets f = c*f.
func (f *Field) Scale(c float64) {
	floats.Scale(c, f.data)
}

// TotalMass integrates the density of species slot k over the interior
// cells, per unit area (kg/m^2).
func (f *Field) TotalMass(k int) float64 {
	n := f.grid.Cells()
	rho := make([]float64, n)
	for i := 1; i <= n; i++ {
		rho[i-1] = f.Cell(i, k)[0]
	}
	return floats.Sum(rho) * f.grid.Dx()
}

// Initialize fills the interior cells from a primitive profile.
func (f *Field) Initialize(profile func(x float64, sp gas.Species) conservation.Primitive) error {
	for i := 0; i < f.grid.Cells(); i++ {
		x := f.grid.Center(i)
		for k, sp := range f.layout.species {
			if err := f.SetPrimitive(i+1, k, profile(x, sp)); err != nil {
				return fmt.Errorf("initialize cell %d (x=%g): %w", i, x, err)
			}
		}
	}
	return nil
}

// Profile returns the primitive state of species slot k at every interior
// cell.
func (f *Field) Profile(k int) ([]conservation.Primitive, error) {
	out := make([]conservation.Primitive, f.grid.Cells())
	for i := range out {
		p, err := f.Primitive(i+1, k)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
