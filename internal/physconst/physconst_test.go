package physconst

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/unit"
)

func TestGasConstantFromBoltzmann(t *testing.T) {
	r := Boltzmann().Mul(Avogadro())

	if !unit.DimensionsMatch(r, UniversalGasConstant()) {
		t.Errorf("kB*NA dimensions %v, want %v", r.Dimensions(), UniversalGasConstant().Dimensions())
	}
	if math.Abs(r.Value()-R0)/R0 > 1e-12 {
		t.Errorf("kB*NA = %v, want %v", r.Value(), R0)
	}
}

func TestDocumentedValues(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"R0", R0, 8314.46},
		{"NA", NA, 6.022e26},
		{"kB", KB, 1.380649e-23},
		{"e", E, 1.602176634e-19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want)/tt.want > 1e-4 {
				t.Errorf("%s = %v, want ~%v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestElementaryChargeDimensions(t *testing.T) {
	want := unit.Dimensions{unit.CurrentDim: 1, unit.TimeDim: 1}
	if !unit.DimensionsMatch(ElementaryCharge(), unit.New(1, want)) {
		t.Errorf("unexpected dimensions %v", ElementaryCharge().Dimensions())
	}
}
