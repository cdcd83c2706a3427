// Package grid holds the structured 1D grid and the per-cell conserved state
// advanced by the solver.
//
// Every species owns a contiguous slot of NumConserved values in each cell
// row. Rows 0 and Cells()+1 are ghost cells filled by boundary conditions.
package grid

import (
	"fmt"
	"math"
)

// Grid is a uniform 1D grid of cells between Left and Right.
type Grid struct {
	cells       int
	left, right float64
	dx          float64
}

func NewUniform(cells int, left, right float64) (*Grid, error) {
	if cells < 2 {
		return nil, fmt.Errorf("grid: need at least 2 cells, got %d", cells)
	}
	if math.IsNaN(left) || math.IsNaN(right) || math.IsInf(left, 0) || math.IsInf(right, 0) || right <= left {
		return nil, fmt.Errorf("grid: invalid bounds [%g, %g]", left, right)
	}
	return &Grid{
		cells: cells,
		left:  left,
		right: right,
		dx:    (right - left) / float64(cells),
	}, nil
}

func (g *Grid) Cells() int                 { return g.cells }
func (g *Grid) Dx() float64                { return g.dx }
func (g *Grid) Bounds() (float64, float64) { return g.left, g.right }

// Center returns the center of interior cell i, 0 <= i < Cells().
func (g *Grid) Center(i int) float64 {
	return g.left + (float64(i)+0.5)*g.dx
}

func (g *Grid) Centers() []float64 {
	xs := make([]float64, g.cells)
	for i := range xs {
		xs[i] = g.Center(i)
	}
	return xs
}
