package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor builds an ArrayScheduler for a batch. Each registered
// scheduler family supplies one.
type Constructor func(spec BatchSpec) (ArrayScheduler, error)

var (
	registryMu sync.RWMutex
	registry   = map[Family]Constructor{
		FamilySlurm: func(spec BatchSpec) (ArrayScheduler, error) { return NewSlurmScheduler(spec) },
		FamilyPbs:   func(spec BatchSpec) (ArrayScheduler, error) { return NewPbsScheduler(spec) },
		FamilyLsf:   func(spec BatchSpec) (ArrayScheduler, error) { return NewLsfScheduler(spec) },
	}
)

// Register adds or replaces the constructor for a scheduler family.
func Register(family Family, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[family] = ctor
}

// Families returns the registered family names in sorted order.
func Families() []Family {
	registryMu.RLock()
	defer registryMu.RUnlock()

	families := make([]Family, 0, len(registry))
	for family := range registry {
		families = append(families, family)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })
	return families
}

// Resolve builds a scheduler for the named family. Lookup ignores case,
// so "slurm" and "SLURM" select the same backend. Unknown names report
// the registered families.
func Resolve(name string, spec BatchSpec) (ArrayScheduler, error) {
	family := Family(strings.ToUpper(strings.TrimSpace(name)))

	registryMu.RLock()
	ctor, ok := registry[family]
	registryMu.RUnlock()

	if !ok {
		known := Families()
		names := make([]string, len(known))
		for i, f := range known {
			names[i] = string(f)
		}
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownScheduler, name, strings.Join(names, ", "))
	}
	return ctor(spec)
}
