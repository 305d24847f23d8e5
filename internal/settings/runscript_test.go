package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScriptRender(t *testing.T) {
	script := NewRunScript("mol_c1", []string{"run", "xtb", "-f", "mol_c1.xyz", "-j", "opt"})

	assert.Equal(t, "chemsmart_run_mol_c1.py", script.Filename())

	content := script.Render()
	assert.Contains(t, content, "#!/usr/bin/env python3")
	assert.Contains(t, content, `["chemsmart", "run", "xtb", "-f", "mol_c1.xyz", "-j", "opt"],`)
	assert.Contains(t, content, "subprocess.call(command)")
	assert.Contains(t, content, "sys.exit(code)")
}

func TestRunScriptMultipleCommands(t *testing.T) {
	script := NewRunScript("mol_c1", []string{"run", "xtb", "-f", "mol_c1.xyz", "-j", "opt"})
	script.Commands = append(script.Commands, []string{"run", "xtb", "-f", "mol_c1.xyz", "-j", "sp"})

	content := script.Render()
	assert.Contains(t, content, `"-j", "opt"`)
	assert.Contains(t, content, `"-j", "sp"`)

	// The opt command must come before the sp follow-up.
	assert.Less(t, strings.Index(content, `"opt"`), strings.Index(content, `"sp"`))
}

func TestRunScriptWrite(t *testing.T) {
	dir := t.TempDir()
	script := NewRunScript("mol_c1", []string{"run", "xtb", "-f", "mol_c1.xyz"})

	path, err := script.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chemsmart_run_mol_c1.py"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, script.Render(), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "run script must be executable")
}
