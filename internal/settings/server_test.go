package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Huiwen-Tan/chemsmart/internal/config"
	"github.com/Huiwen-Tan/chemsmart/internal/scheduler"
)

const cluster1Yaml = `scheduler: SLURM
num_cores: 64
num_gpus: 2
mem_gb: 256
num_hours: 48
queue_name: gpuq
account: chem001
email: user@example.edu
xtb:
  executable_folder: /opt/xtb/bin
  local_run: true
  conda_env: conda activate xtb-env
  modules: module load xtb/6.6.1
`

// useServerDir points the global config at a temp server directory for
// the duration of one test.
func useServerDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	previous := config.Global.ServerDir
	config.Global.ServerDir = dir
	t.Cleanup(func() { config.Global.ServerDir = previous })
	return dir
}

func TestFromServerName(t *testing.T) {
	dir := useServerDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cluster1.yaml"), []byte(cluster1Yaml), 0o644))

	server, err := FromServerName("cluster1")
	require.NoError(t, err)

	assert.Equal(t, "cluster1", server.Name)
	assert.Equal(t, "SLURM", server.Scheduler)
	assert.Equal(t, 64, server.NumCores)
	assert.Equal(t, 2, server.NumGpus)
	assert.Equal(t, 256, server.MemGB)
	assert.Equal(t, 48.0, server.NumHours)
	assert.Equal(t, "gpuq", server.QueueName)
	assert.Equal(t, "chem001", server.Account)
	assert.Equal(t, filepath.Join("/opt/xtb/bin", "xtb"), server.XTB.Binary())
	assert.True(t, server.XTB.LocalRun)
}

func TestFromServerNameYmlExtension(t *testing.T) {
	dir := useServerDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cluster2.yml"),
		[]byte("scheduler: PBS\nnum_cores: 8\nmem_gb: 32\n"), 0o644))

	server, err := FromServerName("cluster2")
	require.NoError(t, err)
	assert.Equal(t, "PBS", server.Scheduler)
}

func TestFromServerNameUnknownListsAvailable(t *testing.T) {
	dir := useServerDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cluster1.yaml"), []byte(cluster1Yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cluster2.yaml"), []byte(cluster1Yaml), 0o644))

	_, err := FromServerName("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster1")
	assert.Contains(t, err.Error(), "cluster2")
}

func TestListServerNamesSorted(t *testing.T) {
	dir := useServerDir(t)
	for _, name := range []string{"zeta.yaml", "alpha.yml", "beta.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("scheduler: SLURM\n"), 0o644))
	}

	assert.Equal(t, []string{"alpha", "beta", "zeta"}, ListServerNames())
}

func TestResourceProfile(t *testing.T) {
	dir := useServerDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cluster1.yaml"), []byte(cluster1Yaml), 0o644))

	server, err := FromServerName("cluster1")
	require.NoError(t, err)

	profile := server.ResourceProfile()
	assert.Equal(t, scheduler.ResourceProfile{
		Cores:     64,
		Gpus:      2,
		MemGB:     256,
		WallHours: 48,
		Queue:     "gpuq",
		Account:   "chem001",
		Email:     "user@example.edu",
	}, profile)
	require.NoError(t, profile.Validate())
}
