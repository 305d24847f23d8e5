// Package xtb parses the text output the xtb program writes: the main
// .out stream plus the sidecar files (charges, hessian, xtbopt.xyz) it
// leaves in the job folder. Parsing is text-only; no molecular structure
// interpretation happens here.
package xtb

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Output reads properties out of one xtb output file.
type Output struct {
	Filename string
	lines    []string
}

// ReadOutput loads an xtb output file for parsing.
func ReadOutput(filename string) (*Output, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, fmt.Errorf("reading xtb output: %w", err)
	}
	return &Output{Filename: filename, lines: lines}, nil
}

// NormalTermination reports whether the run finished cleanly. xtb prints
// "normal termination of xtb" on success and "finished run" at the end of
// its timing block; the scan runs backwards since both sit near the end.
func (o *Output) NormalTermination() bool {
	for i := len(o.lines) - 1; i >= 0; i-- {
		line := strings.ToLower(o.lines[i])
		if strings.Contains(line, "normal termination of xtb") ||
			strings.Contains(line, "finished run") {
			return true
		}
	}
	return false
}

// energyRe matches the TOTAL ENERGY property line, tolerating scientific
// notation.
var energyRe = regexp.MustCompile(`TOTAL ENERGY\s+([-+]?\d+\.\d+(?:[eE][-+]?\d+)?)\s+Eh`)

// Energies returns every total energy in the output in print order. An
// optimization prints one per property block; the last is the final one.
func (o *Output) Energies() []float64 {
	var energies []float64
	for _, line := range o.lines {
		if match := energyRe.FindStringSubmatch(line); match != nil {
			if v, err := strconv.ParseFloat(match[1], 64); err == nil {
				energies = append(energies, v)
			}
		}
	}
	return energies
}

// Energy returns the final total energy in Hartree.
func (o *Output) Energy() (float64, bool) {
	energies := o.Energies()
	if len(energies) == 0 {
		return 0, false
	}
	return energies[len(energies)-1], true
}

// freqRe matches one row of the vibrational frequency table.
var freqRe = regexp.MustCompile(`^\s*\d+\s+([-+]?\d+\.\d+)\s+cm\*\*-1`)

// Frequencies returns vibrational frequencies in cm**-1 from a frequency
// calculation, or nil when the output has none.
func (o *Output) Frequencies() []float64 {
	var freqs []float64
	inSection := false
	for _, line := range o.lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "mode") && strings.Contains(lower, "cm**-1") {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if match := freqRe.FindStringSubmatch(line); match != nil {
			if v, err := strconv.ParseFloat(match[1], 64); err == nil {
				freqs = append(freqs, v)
			}
		} else if strings.TrimSpace(line) == "" {
			break
		}
	}
	return freqs
}

// Charges collects atomic charges from every source present: the charges
// sidecar file next to the output, plus the Mulliken and CM5 blocks in
// the output text. Keys are "charges", "mulliken", and "cm5".
func (o *Output) Charges() map[string][]float64 {
	charges := make(map[string][]float64)

	chargesFile := filepath.Join(filepath.Dir(o.Filename), "charges")
	if fileCharges := readChargesFile(chargesFile); len(fileCharges) > 0 {
		charges["charges"] = fileCharges
	}
	if mulliken := o.chargesSection("Mulliken"); len(mulliken) > 0 {
		charges["mulliken"] = mulliken
	}
	if cm5 := o.chargesSection("CM5"); len(cm5) > 0 {
		charges["cm5"] = cm5
	}

	if len(charges) == 0 {
		return nil
	}
	return charges
}

// chargesSection parses a "<tag> ... charges" block. Rows read
// "index symbol charge"; the block ends at the first unparsable row.
func (o *Output) chargesSection(tag string) []float64 {
	var values []float64
	inSection := false
	for _, line := range o.lines {
		if strings.Contains(line, tag) && strings.Contains(strings.ToLower(line), "charges") {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 3 {
			if v, err := strconv.ParseFloat(parts[2], 64); err == nil {
				values = append(values, v)
				continue
			}
		}
		if len(values) > 0 {
			break
		}
	}
	return values
}

// readChargesFile parses the sidecar charges file. xtb writes one value
// per line (or "symbol value" in some versions); the last field is the
// charge.
func readChargesFile(path string) []float64 {
	lines, err := readLines(path)
	if err != nil {
		return nil
	}
	var values []float64
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if v, err := strconv.ParseFloat(parts[len(parts)-1], 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

// DipoleMoment returns the total dipole moment in Debye from the
// "molecular dipole" block.
func (o *Output) DipoleMoment() (float64, bool) {
	for i, line := range o.lines {
		if !strings.Contains(strings.ToLower(line), "molecular dipole") {
			continue
		}
		end := i + 10
		if end > len(o.lines) {
			end = len(o.lines)
		}
		for _, candidate := range o.lines[i:end] {
			if !strings.Contains(candidate, "total (Debye)") {
				continue
			}
			parts := strings.Fields(candidate)
			if len(parts) == 0 {
				continue
			}
			if v, err := strconv.ParseFloat(parts[len(parts)-1], 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

func (o *Output) String() string {
	status := "incomplete"
	if o.NormalTermination() {
		status = "complete"
	}
	if energy, ok := o.Energy(); ok {
		return fmt.Sprintf("Output(status=%s, energy=%.6f Eh)", status, energy)
	}
	return fmt.Sprintf("Output(status=%s, energy=N/A)", status)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	// Property tables can exceed the default token size on large systems.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
