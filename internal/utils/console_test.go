package utils

import (
	"testing"

	"github.com/fatih/color"
)

func TestStyleHelpersPassThroughWithoutColor(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"StyleTitle", StyleTitle("Configuration:"), "Configuration:"},
		{"StyleCommand", StyleCommand("chemsmart run xtb -f mol.xyz"), "chemsmart run xtb -f mol.xyz"},
		{"StyleAction", StyleAction("Running"), "Running"},
		{"StyleName", StyleName("mol_c1"), "mol_c1"},
		{"StyleNumber", StyleNumber(42), "42"},
		{"StylePath xyz", StylePath("mol_c1.xyz"), "mol_c1.xyz"},
		{"StylePath script", StylePath("chemsmart_sub_mol_c1.sh"), "chemsmart_sub_mol_c1.sh"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q; want %q with color disabled", tt.name, tt.got, tt.want)
		}
	}
}
