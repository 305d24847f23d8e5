// Package xtb implements the xTB job family: settings that map onto the
// program's command line, job types for single-point, optimization, and
// frequency runs, and runners that execute the xtb binary locally.
package xtb

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// xTB methods accepted by --gfn / --gfnff.
const (
	MethodGFN2  = "GFN2-xTB"
	MethodGFN1  = "GFN1-xTB"
	MethodGFN0  = "GFN0-xTB"
	MethodGFNFF = "GFN-FF"
)

// Job types understood by the settings-to-command mapping.
const (
	JobTypeSP   = "sp"
	JobTypeOpt  = "opt"
	JobTypeFreq = "freq"
)

// Solvation models: generalized Born (GBSA) and its successor ALPB.
const (
	SolventModelGBSA = "gbsa"
	SolventModelALPB = "alpb"
)

// validOptLevels are the convergence levels xTB accepts after --opt.
var validOptLevels = []string{
	"crude", "sloppy", "loose", "lax", "normal", "tight", "vtight", "extreme",
}

// Settings configures one xTB calculation. xTB is command-line driven, so
// settings become flags rather than input-file content; zero values mean
// "not set" and emit no flag.
type Settings struct {
	Method            string  // GFN2-xTB (default), GFN1-xTB, GFN0-xTB, GFN-FF
	Charge            int     // molecular charge; 0 emits no --chrg
	Multiplicity      int     // spin multiplicity; xTB takes unpaired electrons (mult-1)
	SolventModel      string  // "gbsa" or "alpb"; requires SolventID
	SolventID         string  // e.g. "water", "methanol"
	JobType           string  // "sp", "opt", "freq"
	OptimizationLevel string  // convergence level appended after --opt
	MaxIterations     int     // optimization iteration cap; 0 = xTB default
	Accuracy          float64 // SCF accuracy; 0 = xTB default
	ElectronicTemp    float64 // electronic temperature in Kelvin; 0 = xTB default
	Parallel          int     // OMP threads; 0 = xTB default
	AdditionalOptions string  // raw extra flags, whitespace-split
}

// DefaultSettings returns the GFN2-xTB single-point defaults.
func DefaultSettings() Settings {
	return Settings{
		Method:       MethodGFN2,
		Charge:       0,
		Multiplicity: 1,
		JobType:      JobTypeSP,
	}
}

// Validate checks the fields against the values xTB accepts.
func (s Settings) Validate() error {
	switch s.Method {
	case MethodGFN2, MethodGFN1, MethodGFN0, MethodGFNFF:
	default:
		return fmt.Errorf("unknown xTB method %q (valid: %s, %s, %s, %s)",
			s.Method, MethodGFN2, MethodGFN1, MethodGFN0, MethodGFNFF)
	}
	switch s.JobType {
	case JobTypeSP, JobTypeOpt, JobTypeFreq:
	default:
		return fmt.Errorf("unknown xTB job type %q (valid: %s, %s, %s)",
			s.JobType, JobTypeSP, JobTypeOpt, JobTypeFreq)
	}
	if s.SolventModel != "" {
		switch strings.ToLower(s.SolventModel) {
		case SolventModelGBSA, SolventModelALPB:
		default:
			return fmt.Errorf("unknown solvent model %q (valid: %s, %s)",
				s.SolventModel, SolventModelGBSA, SolventModelALPB)
		}
		if s.SolventID == "" {
			return fmt.Errorf("solvent model %q requires a solvent name", s.SolventModel)
		}
	}
	if s.OptimizationLevel != "" {
		found := false
		for _, level := range validOptLevels {
			if s.OptimizationLevel == level {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown optimization level %q (valid: %s)",
				s.OptimizationLevel, strings.Join(validOptLevels, ", "))
		}
	}
	if s.Multiplicity < 1 {
		return fmt.Errorf("multiplicity must be at least 1, got %d", s.Multiplicity)
	}
	return nil
}

// CommandArgs builds the xtb command-line arguments for the settings. The
// input filename is supplied by the runner; these are the flags that
// follow it.
func (s Settings) CommandArgs() []string {
	var args []string

	switch s.JobType {
	case JobTypeOpt:
		args = append(args, "--opt")
		if s.OptimizationLevel != "" {
			args = append(args, s.OptimizationLevel)
		}
	case JobTypeFreq:
		args = append(args, "--hess")
	}

	switch s.Method {
	case MethodGFN2:
		args = append(args, "--gfn", "2")
	case MethodGFN1:
		args = append(args, "--gfn", "1")
	case MethodGFN0:
		args = append(args, "--gfn", "0")
	case MethodGFNFF:
		args = append(args, "--gfnff")
	default:
		log.Warnf("Method %q is not a standard xTB method; emitting no method flag", s.Method)
	}

	if s.Charge != 0 {
		args = append(args, "--chrg", strconv.Itoa(s.Charge))
	}
	if s.Multiplicity > 1 {
		// xTB takes the number of unpaired electrons, not the multiplicity.
		args = append(args, "--uhf", strconv.Itoa(s.Multiplicity-1))
	}

	if s.SolventModel != "" && s.SolventID != "" {
		switch strings.ToLower(s.SolventModel) {
		case SolventModelGBSA:
			args = append(args, "--gbsa", s.SolventID)
		case SolventModelALPB:
			args = append(args, "--alpb", s.SolventID)
		}
	}

	if s.Accuracy > 0 {
		args = append(args, "--acc", formatFloat(s.Accuracy))
	}
	if s.ElectronicTemp > 0 {
		args = append(args, "--etemp", formatFloat(s.ElectronicTemp))
	}
	if s.Parallel > 0 {
		args = append(args, "--parallel", strconv.Itoa(s.Parallel))
	}
	if s.MaxIterations > 0 {
		args = append(args, "--iterations", strconv.Itoa(s.MaxIterations))
	}
	if s.AdditionalOptions != "" {
		args = append(args, strings.Fields(s.AdditionalOptions)...)
	}

	return args
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
