package xtb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobConstructorsForceType(t *testing.T) {
	settings := DefaultSettings()

	opt, err := NewOptJob("/work", "mol_c1", settings)
	require.NoError(t, err)
	assert.Equal(t, TypeOpt, opt.Type())
	assert.Equal(t, JobTypeOpt, opt.Settings.JobType)

	freq, err := NewFreqJob("/work", "mol_c1", settings)
	require.NoError(t, err)
	assert.Equal(t, TypeFreq, freq.Type())

	sp, err := NewSinglePointJob("/work", "mol_c1", settings)
	require.NoError(t, err)
	assert.Equal(t, TypeSP, sp.Type())
}

func TestJobFilePaths(t *testing.T) {
	job, err := NewOptJob("/work/conformers", "mol_c42", DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "mol_c42", job.Label())
	assert.Equal(t, "/work/conformers", job.Folder())
	assert.Equal(t, Program, job.Program())
	assert.Equal(t, filepath.Join("/work/conformers", "mol_c42.xyz"), job.InputFile())
	assert.Equal(t, filepath.Join("/work/conformers", "mol_c42.out"), job.OutputFile())
	assert.Equal(t, filepath.Join("/work/conformers", "mol_c42.err"), job.ErrFile())
	assert.Equal(t, filepath.Join("/work/conformers", "xtbopt.xyz"), job.OptimizedFile())
	assert.Equal(t, filepath.Join("/work/conformers", "hessian"), job.HessianFile())
	assert.Equal(t, filepath.Join("/work/conformers", "charges"), job.ChargesFile())
}

func TestNewJobRejectsBadInput(t *testing.T) {
	_, err := NewJob("/work", "", DefaultSettings())
	require.Error(t, err)

	_, err = NewJob("/work", "bad label", DefaultSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not filesystem-safe")

	bad := DefaultSettings()
	bad.Method = "B3LYP"
	_, err = NewJob("/work", "mol", bad)
	require.Error(t, err)
}
