package gas

import (
	"fmt"
	"strings"

	"github.com/san-kum/hallsim/internal/physconst"
)

var (
	// Xenon gas
	Xenon = MustGas("Xenon", "Xe", 5.0/3.0, 131.293)

	// Krypton gas
	Krypton = MustGas("Krypton", "Kr", 5.0/3.0, 83.798)

	// Argon gas
	Argon = MustGas("Argon", "Ar", 5.0/3.0, 39.948)

	// Air is earth air at standard temperature and pressure.
	Air = MustGas("Air", "Air", 1.4, 28.97)

	// Electron is the free electron fluid. It is the only species with a
	// negative charge.
	Electron = Species{
		gas:    MustGas("Electron", "e", 5.0/3.0, physconst.ElectronMass*physconst.NA),
		charge: -1,
	}
)

// Catalog returns the built-in gases in a fixed order.
func Catalog() []Gas {
	return []Gas{Xenon, Krypton, Argon, Air}
}

// Lookup finds a catalog gas by full or short name, ignoring case.
func Lookup(name string) (Gas, error) {
	for _, g := range Catalog() {
		if strings.EqualFold(g.name, name) || strings.EqualFold(g.shortName, name) {
			return g, nil
		}
	}
	return Gas{}, fmt.Errorf("unknown gas: %s", name)
}
