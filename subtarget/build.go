// Completion: 100% - Capability builder complete
package subtarget

import (
	"github.com/xyproto/a64target/feature"
	"github.com/xyproto/a64target/triple"
)

// build.go - Capability table construction
//
// Resolution runs in a fixed order and each step may override the previous:
//
//  1. global defaults
//  2. family overrides: the numeric tuning bundle of the tuning family, then
//     the default features of the processor table entries (architectural and
//     extension features from the CPU, tuning features from the tuning CPU)
//  3. the caller's feature set, in order
//  4. platform reservations required by the OS ABI (x18)
//
// Derived facts such as HasFusion are methods over the stored fields and are
// never stored themselves.

// Build resolves a table from a family and a feature set (steps 1 to 3,
// without processor defaults or platform reservations). Unknown feature
// names are ignored.
func Build(family Family, features feature.Set) Capabilities {
	c, _ := build(family, nil, nil, features)
	return c
}

// build runs steps 1 to 3 and returns the names it did not recognize
func build(family Family, archDefaults, tuneDefaults []string, features feature.Set) (Capabilities, []string) {
	c := DefaultCapabilities()
	applyFamilyTuning(&c, family)

	for _, name := range archDefaults {
		if kind, ok := KindOf(name); ok && (kind == KindArch || kind == KindExtension) {
			applyFeature(&c, name, true)
		}
	}
	for _, name := range tuneDefaults {
		if kind, ok := KindOf(name); ok && kind != KindArch && kind != KindExtension {
			applyFeature(&c, name, true)
		}
	}

	var unknown []string
	features.Apply(func(name string, on bool) {
		if !applyFeature(&c, name, on) {
			unknown = append(unknown, name)
		}
	})
	return c, unknown
}

// IsX18ReservedByDefault returns true if the platform ABI claims x18
// (the platform register) on this triple
func IsX18ReservedByDefault(tt triple.Triple) bool {
	return tt.IsAndroid() || tt.IsOSDarwin() || tt.IsOSFuchsia() || tt.IsOSWindows()
}

// applyPlatformReservations reserves registers the OS ABI owns. It runs after
// the feature set, so a feature string cannot release them.
func applyPlatformReservations(c *Capabilities, tt triple.Triple) {
	if IsX18ReservedByDefault(tt) {
		c.reserveXRegister.Set(18)
	}
}

// resolution is the outcome of resolving the CPU names and building the table
type resolution struct {
	caps         Capabilities
	cpu          Processor
	tune         Processor
	cpuKnown     bool
	tuneKnown    bool
	unknownNames []string
}

// resolve turns the construction inputs into a table. It never fails.
func resolve(cpu, tuneCPU string, features feature.Set, tt triple.Triple) resolution {
	if tuneCPU == "" {
		tuneCPU = cpu
	}

	var r resolution
	r.cpu, r.cpuKnown = lookupOrHost(cpu)
	r.tune, r.tuneKnown = lookupOrHost(tuneCPU)
	// The empty name is not a mistake, it just means generic
	if cpu == "" {
		r.cpuKnown = true
	}
	if tuneCPU == "" {
		r.tuneKnown = true
	}

	r.caps, r.unknownNames = build(r.tune.Family, r.cpu.Features, r.tune.Features, features)
	applyPlatformReservations(&r.caps, tt)
	return r
}

func lookupOrHost(name string) (Processor, bool) {
	if name == NativeCPU {
		return hostProcessor(), true
	}
	return resolveProcessor(name)
}
