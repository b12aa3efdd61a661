// Completion: 100% - Processor table complete
package subtarget

import (
	"sort"
)

// family.go - Processor families and the processor table
//
// A CPU name selects two things: a Family, which picks the numeric tuning
// bundle, and a list of default features. Names are matched exactly. Anything
// not in the table, including the empty string, resolves to the generic
// processor and the Others family, so compilation always has a target to work
// with.

// Family identifies a microarchitecture
type Family uint8

const (
	Others Family = iota
	A64FX
	AppleA7
	AppleA10
	AppleA11
	AppleA12
	AppleA13
	Carmel
	CortexA35
	CortexA53
	CortexA55
	CortexA57
	CortexA65
	CortexA72
	CortexA73
	CortexA75
	CortexA76
	CortexA77
	CortexA78
	CortexR82
	CortexX1
	ExynosM3
	Falkor
	Kryo
	NeoverseE1
	NeoverseN1
	NeoverseV1
	Saphira
	ThunderX2T99
	ThunderX
	ThunderXT81
	ThunderXT83
	ThunderXT88
	ThunderX3T110
	TSV110

	numFamilies
)

var familyNames = [numFamilies]string{
	Others:        "Others",
	A64FX:         "A64FX",
	AppleA7:       "AppleA7",
	AppleA10:      "AppleA10",
	AppleA11:      "AppleA11",
	AppleA12:      "AppleA12",
	AppleA13:      "AppleA13",
	Carmel:        "Carmel",
	CortexA35:     "CortexA35",
	CortexA53:     "CortexA53",
	CortexA55:     "CortexA55",
	CortexA57:     "CortexA57",
	CortexA65:     "CortexA65",
	CortexA72:     "CortexA72",
	CortexA73:     "CortexA73",
	CortexA75:     "CortexA75",
	CortexA76:     "CortexA76",
	CortexA77:     "CortexA77",
	CortexA78:     "CortexA78",
	CortexR82:     "CortexR82",
	CortexX1:      "CortexX1",
	ExynosM3:      "ExynosM3",
	Falkor:        "Falkor",
	Kryo:          "Kryo",
	NeoverseE1:    "NeoverseE1",
	NeoverseN1:    "NeoverseN1",
	NeoverseV1:    "NeoverseV1",
	Saphira:       "Saphira",
	ThunderX2T99:  "ThunderX2T99",
	ThunderX:      "ThunderX",
	ThunderXT81:   "ThunderXT81",
	ThunderXT83:   "ThunderXT83",
	ThunderXT88:   "ThunderXT88",
	ThunderX3T110: "ThunderX3T110",
	TSV110:        "TSV110",
}

func (f Family) String() string {
	if f < numFamilies {
		return familyNames[f]
	}
	return "unknown"
}

// Processor is one entry of the processor table
type Processor struct {
	Name     string
	Family   Family
	Features []string // default features, architectural and tuning mixed
}

// GenericCPU is the processor used for empty and unrecognized names
const GenericCPU = "generic"

// NativeCPU asks for the features of the host processor
const NativeCPU = "native"

var (
	featuresA53 = []string{"balance-fp-ops", "crc", "crypto", "custom-cheap-as-move", "fp-armv8",
		"fuse-aes", "neon", "perfmon", "use-postra-scheduler", "use-aa"}
	featuresA57 = []string{"balance-fp-ops", "crc", "crypto", "custom-cheap-as-move", "fp-armv8",
		"fuse-aes", "fuse-literals", "neon", "perfmon", "use-postra-scheduler",
		"predictable-select-expensive"}
	featuresA72 = []string{"crc", "crypto", "fp-armv8", "fuse-aes", "neon", "perfmon"}
	featuresA55 = []string{"v8.1a", "v8.2a", "crypto", "fp-armv8", "fuse-aes", "neon", "fullfp16",
		"dotprod", "rcpc", "perfmon"}
	featuresA76 = []string{"v8.1a", "v8.2a", "fp-armv8", "neon", "rcpc", "crypto", "fullfp16",
		"dotprod", "ssbs"}
	featuresA78 = []string{"v8.1a", "v8.2a", "crypto", "fp-armv8", "fuse-aes", "neon", "fullfp16",
		"dotprod", "rcpc", "perfmon", "spe", "ssbs"}
	featuresCyclone = []string{"alternate-sextload-cvt-f32-pattern", "arith-bcc-fusion",
		"arith-cbz-fusion", "crypto", "disable-latency-sched-heuristic", "fp-armv8", "fuse-aes",
		"fuse-crypto-eor", "neon", "perfmon", "zcm", "zcz", "zcz-fp-workaround"}
	featuresAppleA10 = []string{"alternate-sextload-cvt-f32-pattern", "arith-bcc-fusion",
		"arith-cbz-fusion", "crc", "crypto", "disable-latency-sched-heuristic", "fp-armv8",
		"fuse-aes", "fuse-crypto-eor", "zcm", "zcz", "lor", "neon", "pan", "perfmon", "rdm", "vh"}
	featuresAppleA11 = []string{"v8.1a", "v8.2a", "alternate-sextload-cvt-f32-pattern",
		"arith-bcc-fusion", "arith-cbz-fusion", "crypto", "disable-latency-sched-heuristic",
		"fp-armv8", "fullfp16", "fuse-aes", "fuse-crypto-eor", "neon", "perfmon", "zcm", "zcz"}
	featuresAppleA12 = []string{"v8.1a", "v8.2a", "v8.3a", "alternate-sextload-cvt-f32-pattern",
		"arith-bcc-fusion", "arith-cbz-fusion", "crypto", "disable-latency-sched-heuristic",
		"fp-armv8", "fullfp16", "fuse-aes", "fuse-crypto-eor", "neon", "perfmon", "zcm", "zcz"}
	featuresAppleA13 = []string{"v8.1a", "v8.2a", "v8.3a", "v8.4a",
		"alternate-sextload-cvt-f32-pattern", "arith-bcc-fusion", "arith-cbz-fusion", "crypto",
		"disable-latency-sched-heuristic", "fp-armv8", "fp16fml", "fullfp16", "fuse-aes",
		"fuse-crypto-eor", "neon", "perfmon", "zcm", "zcz", "sha3"}
	featuresExynos = []string{"crc", "crypto", "exynos-cheap-as-move", "force-32bit-jump-tables",
		"fuse-address", "fuse-aes", "fuse-csel", "fuse-literals", "lsl-fast", "fp-armv8", "neon",
		"perfmon", "use-postra-scheduler", "predictable-select-expensive", "zcz-fp"}
	featuresKryo = []string{"crc", "crypto", "custom-cheap-as-move", "fp-armv8", "neon", "perfmon",
		"use-postra-scheduler", "predictable-select-expensive", "zcz", "lsl-fast"}
	featuresThunderX = []string{"crc", "crypto", "fp-armv8", "perfmon", "use-postra-scheduler",
		"predictable-select-expensive", "neon"}
)

// processors is the table of known CPU names
var processors = map[string]Processor{
	GenericCPU: {GenericCPU, Others, []string{"fp-armv8", "neon", "fuse-aes", "use-postra-scheduler"}},

	"cortex-a34":   {"cortex-a34", CortexA35, []string{"crc", "crypto", "fp-armv8", "neon", "perfmon"}},
	"cortex-a35":   {"cortex-a35", CortexA35, []string{"crc", "crypto", "fp-armv8", "neon", "perfmon"}},
	"cortex-a53":   {"cortex-a53", CortexA53, featuresA53},
	"cortex-a55":   {"cortex-a55", CortexA55, featuresA55},
	"cortex-a57":   {"cortex-a57", CortexA57, featuresA57},
	"cortex-a65":   {"cortex-a65", CortexA65, []string{"v8.1a", "v8.2a", "crypto", "dotprod", "fp-armv8", "fullfp16", "neon", "ras", "rcpc", "ssbs"}},
	"cortex-a65ae": {"cortex-a65ae", CortexA65, []string{"v8.1a", "v8.2a", "crypto", "dotprod", "fp-armv8", "fullfp16", "neon", "ras", "rcpc", "ssbs"}},
	"cortex-a72":   {"cortex-a72", CortexA72, featuresA72},
	"cortex-a73":   {"cortex-a73", CortexA73, featuresA72},
	"cortex-a75":   {"cortex-a75", CortexA75, featuresA55},
	"cortex-a76":   {"cortex-a76", CortexA76, featuresA76},
	"cortex-a76ae": {"cortex-a76ae", CortexA76, featuresA76},
	"cortex-a77":   {"cortex-a77", CortexA77, append([]string{"fuse-aes"}, featuresA76...)},
	"cortex-a78":   {"cortex-a78", CortexA78, featuresA78},
	"cortex-r82":   {"cortex-r82", CortexR82, []string{"v8r"}},
	"cortex-x1":    {"cortex-x1", CortexX1, featuresA78},

	"neoverse-e1": {"neoverse-e1", NeoverseE1, []string{"v8.1a", "v8.2a", "crypto", "dotprod", "fp-armv8", "fullfp16", "neon", "rcpc", "ssbs"}},
	"neoverse-n1": {"neoverse-n1", NeoverseN1, []string{"v8.1a", "v8.2a", "crypto", "dotprod", "fp-armv8", "fullfp16", "neon", "rcpc", "spe", "ssbs"}},
	"neoverse-v1": {"neoverse-v1", NeoverseV1, []string{"v8.1a", "v8.2a", "v8.3a", "v8.4a", "bf16", "ccdp", "crypto", "fp-armv8",
		"fp16fml", "fullfp16", "fuse-aes", "i8mm", "lsl-fast", "neon", "rand", "use-postra-scheduler", "spe", "ssbs", "sve"}},

	"exynos-m3": {"exynos-m3", ExynosM3, featuresExynos},
	"exynos-m4": {"exynos-m4", ExynosM3, append([]string{"v8.1a", "v8.2a", "arith-bcc-fusion", "arith-cbz-fusion", "dotprod", "fullfp16", "fuse-arith-logic", "zcz"}, featuresExynos...)},
	"exynos-m5": {"exynos-m5", ExynosM3, append([]string{"v8.1a", "v8.2a", "arith-bcc-fusion", "arith-cbz-fusion", "dotprod", "fullfp16", "fuse-arith-logic", "zcz"}, featuresExynos...)},

	"falkor":  {"falkor", Falkor, append([]string{"rdm", "zcz", "slow-strqro-store"}, featuresKryo...)},
	"kryo":    {"kryo", Kryo, featuresKryo},
	"saphira": {"saphira", Saphira, []string{"v8.1a", "v8.2a", "v8.3a", "v8.4a", "crypto", "custom-cheap-as-move", "fp-armv8", "neon", "perfmon", "use-postra-scheduler", "predictable-select-expensive", "zcz", "lsl-fast", "spe"}},

	"thunderx":    {"thunderx", ThunderX, featuresThunderX},
	"thunderxt81": {"thunderxt81", ThunderXT81, featuresThunderX},
	"thunderxt83": {"thunderxt83", ThunderXT83, featuresThunderX},
	"thunderxt88": {"thunderxt88", ThunderXT88, featuresThunderX},
	"thunderx2t99": {"thunderx2t99", ThunderX2T99, []string{"v8.1a", "crypto", "crc", "fp-armv8", "arith-bcc-fusion", "neon",
		"use-postra-scheduler", "predictable-select-expensive", "lse"}},
	"thunderx3t110": {"thunderx3t110", ThunderX3T110, []string{"v8.1a", "v8.2a", "v8.3a", "crypto", "crc", "fp-armv8",
		"arith-bcc-fusion", "neon", "use-postra-scheduler", "predictable-select-expensive", "lse", "pauth", "use-aa",
		"balance-fp-ops", "strict-align"}},
	"tsv110": {"tsv110", TSV110, []string{"v8.1a", "v8.2a", "crypto", "custom-cheap-as-move", "fp-armv8", "fuse-aes", "neon",
		"perfmon", "use-postra-scheduler", "spe", "fullfp16", "fp16fml", "dotprod"}},

	"cyclone":      {"cyclone", AppleA7, featuresCyclone},
	"apple-a7":     {"apple-a7", AppleA7, featuresCyclone},
	"apple-a8":     {"apple-a8", AppleA7, featuresCyclone},
	"apple-a9":     {"apple-a9", AppleA7, featuresCyclone},
	"apple-a10":    {"apple-a10", AppleA10, featuresAppleA10},
	"apple-a11":    {"apple-a11", AppleA11, featuresAppleA11},
	"apple-a12":    {"apple-a12", AppleA12, featuresAppleA12},
	"apple-a13":    {"apple-a13", AppleA13, featuresAppleA13},
	"apple-s4":     {"apple-s4", AppleA12, featuresAppleA12},
	"apple-s5":     {"apple-s5", AppleA12, featuresAppleA12},
	"apple-latest": {"apple-latest", AppleA13, featuresAppleA13},

	"a64fx": {"a64fx", A64FX, []string{"v8.1a", "v8.2a", "fp-armv8", "neon", "sha2", "perfmon", "fullfp16", "sve",
		"use-postra-scheduler", "arith-bcc-fusion"}},
	"carmel": {"carmel", Carmel, []string{"v8.1a", "v8.2a", "crypto", "fullfp16"}},
}

// LookupProcessor finds a CPU by exact, case-sensitive name. NativeCPU
// yields the generic processor plus the features detected on the host.
func LookupProcessor(cpu string) (Processor, bool) {
	if cpu == NativeCPU {
		return hostProcessor(), true
	}
	p, ok := processors[cpu]
	return p, ok
}

// ResolveFamily maps a CPU name to its family. Unknown and empty names
// resolve to Others; this never fails.
func ResolveFamily(cpu string) Family {
	if p, ok := processors[cpu]; ok {
		return p.Family
	}
	return Others
}

// resolveProcessor returns the table entry for cpu, falling back to the
// generic processor. The second result reports whether the name was known.
func resolveProcessor(cpu string) (Processor, bool) {
	if p, ok := processors[cpu]; ok {
		return p, true
	}
	return processors[GenericCPU], false
}

// Processors returns every known CPU name, sorted
func Processors() []string {
	names := make([]string, 0, len(processors))
	for name := range processors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
