package xtb

import (
	"os"
	"path/filepath"
	"strings"
)

// Folder probes a job directory for the file family one xtb run leaves
// behind.
type Folder struct {
	Path string
}

// NewFolder wraps a job directory for probing.
func NewFolder(path string) *Folder {
	return &Folder{Path: path}
}

// OutputFile returns the first .out file in the folder, or "".
func (f *Folder) OutputFile() string {
	entries, err := os.ReadDir(f.Path)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".out") {
			return filepath.Join(f.Path, entry.Name())
		}
	}
	return ""
}

// ErrFile returns the first .err file in the folder, or "".
func (f *Folder) ErrFile() string {
	entries, err := os.ReadDir(f.Path)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".err") {
			return filepath.Join(f.Path, entry.Name())
		}
	}
	return ""
}

// OptimizedStructureFile returns xtbopt.xyz or xtbopt.coord, whichever
// exists, or "".
func (f *Folder) OptimizedStructureFile() string {
	for _, name := range []string{"xtbopt.xyz", "xtbopt.coord"} {
		if path := f.existing(name); path != "" {
			return path
		}
	}
	return ""
}

// TrajectoryFile returns the optimization trajectory xtbopt.log, or "".
func (f *Folder) TrajectoryFile() string {
	return f.existing("xtbopt.log")
}

// ChargesFile returns the charges sidecar file, or "".
func (f *Folder) ChargesFile() string {
	return f.existing("charges")
}

// GradientFile returns the gradient file, or "".
func (f *Folder) GradientFile() string {
	return f.existing("gradient")
}

// HessianFile returns the hessian file, or "".
func (f *Folder) HessianFile() string {
	return f.existing("hessian")
}

// WibergBondOrderFile returns the wbo file, or "".
func (f *Folder) WibergBondOrderFile() string {
	return f.existing("wbo")
}

// HasOutput reports whether a main output file exists.
func (f *Folder) HasOutput() bool { return f.OutputFile() != "" }

// HasOptimizedStructure reports whether an optimized geometry exists.
func (f *Folder) HasOptimizedStructure() bool { return f.OptimizedStructureFile() != "" }

// HasOptimizationTrajectory reports whether the trajectory log exists.
func (f *Folder) HasOptimizationTrajectory() bool { return f.TrajectoryFile() != "" }

// HasGradient reports whether the gradient file exists.
func (f *Folder) HasGradient() bool { return f.GradientFile() != "" }

// HasHessian reports whether the hessian file exists.
func (f *Folder) HasHessian() bool { return f.HessianFile() != "" }

// Output opens the folder's main output file for parsing.
func (f *Folder) Output() (*Output, error) {
	path := f.OutputFile()
	if path == "" {
		return nil, os.ErrNotExist
	}
	return ReadOutput(path)
}

func (f *Folder) existing(name string) string {
	path := filepath.Join(f.Path, name)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}
