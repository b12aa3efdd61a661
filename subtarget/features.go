// Completion: 100% - Feature table complete
package subtarget

import (
	"fmt"
	"sort"
)

// features.go - Feature name to field mapping
//
// Each recognized feature name sets exactly the fields listed in its entry,
// to true when enabled and false when disabled. Setters are idempotent, so a
// feature set with duplicate entries resolves to the same table as one
// without.

// FeatureKind groups features by where their defaults come from
type FeatureKind int

const (
	// KindArch marks architecture revisions (v8.1a, v8r, ...)
	KindArch FeatureKind = iota
	// KindExtension marks optional instruction set extensions
	KindExtension
	// KindTuning marks microarchitectural tuning facts
	KindTuning
	// KindCodegen marks ABI and code generation choices no processor implies
	KindCodegen
	// KindRegister marks register reservation and callee-saved overrides
	KindRegister
)

func (k FeatureKind) String() string {
	switch k {
	case KindArch:
		return "arch"
	case KindExtension:
		return "extension"
	case KindTuning:
		return "tuning"
	case KindCodegen:
		return "codegen"
	case KindRegister:
		return "register"
	default:
		return "unknown"
	}
}

// featureDef is one row of the feature table
type featureDef struct {
	kind FeatureKind
	set  func(c *Capabilities, on bool)
}

// flag builds a setter for one or more boolean fields
func flag(kind FeatureKind, fields ...func(c *Capabilities) *bool) featureDef {
	return featureDef{kind: kind, set: func(c *Capabilities, on bool) {
		for _, field := range fields {
			*field(c) = on
		}
	}}
}

func reserveX(i uint) featureDef {
	return featureDef{kind: KindRegister, set: func(c *Capabilities, on bool) {
		c.reserveXRegister.SetTo(i, on)
	}}
}

func callSavedX(i uint) featureDef {
	return featureDef{kind: KindRegister, set: func(c *Capabilities, on bool) {
		c.customCallSavedXRegs.SetTo(i, on)
	}}
}

var featureTable = map[string]featureDef{
	"v8.1a": flag(KindArch, func(c *Capabilities) *bool { return &c.hasV8_1aOps }),
	"v8.2a": flag(KindArch, func(c *Capabilities) *bool { return &c.hasV8_2aOps }),
	"v8.3a": flag(KindArch, func(c *Capabilities) *bool { return &c.hasV8_3aOps }),
	"v8.4a": flag(KindArch, func(c *Capabilities) *bool { return &c.hasV8_4aOps }),
	"v8.5a": flag(KindArch, func(c *Capabilities) *bool { return &c.hasV8_5aOps }),
	"v8.6a": flag(KindArch, func(c *Capabilities) *bool { return &c.hasV8_6aOps }),
	"v8r":   flag(KindArch, func(c *Capabilities) *bool { return &c.hasV8_0rOps }),

	"CONTEXTIDREL2": flag(KindExtension, func(c *Capabilities) *bool { return &c.hasCONTEXTIDREL2 }),
	"fp-armv8":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasFPARMv8 }),
	"neon":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasNEON }),
	"crypto": flag(KindExtension,
		func(c *Capabilities) *bool { return &c.hasCrypto },
		func(c *Capabilities) *bool { return &c.hasAES },
		func(c *Capabilities) *bool { return &c.hasSHA2 }),
	"dotprod":  flag(KindExtension, func(c *Capabilities) *bool { return &c.hasDotProd }),
	"crc":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasCRC }),
	"lse":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasLSE }),
	"ras":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasRAS }),
	"rdm":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasRDM }),
	"perfmon":  flag(KindExtension, func(c *Capabilities) *bool { return &c.hasPerfMon }),
	"fullfp16": flag(KindExtension, func(c *Capabilities) *bool { return &c.hasFullFP16 }),
	"fp16fml":  flag(KindExtension, func(c *Capabilities) *bool { return &c.hasFP16FML }),
	"spe":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSPE }),
	"vh":       flag(KindExtension, func(c *Capabilities) *bool { return &c.hasVH }),
	"pan":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasPAN }),
	"lor":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasLOR }),
	"uaops":    flag(KindExtension, func(c *Capabilities) *bool { return &c.hasPsUAO }),
	"pan-rwv":  flag(KindExtension, func(c *Capabilities) *bool { return &c.hasPAN_RWV }),
	"ccpp":     flag(KindExtension, func(c *Capabilities) *bool { return &c.hasCCPP }),
	"sve":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSVE }),
	"sm4":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSM4 }),
	"sha3":     flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSHA3 }),
	"sha2":     flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSHA2 }),
	"aes":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasAES }),

	"pauth":     flag(KindExtension, func(c *Capabilities) *bool { return &c.hasPA }),
	"jsconv":    flag(KindExtension, func(c *Capabilities) *bool { return &c.hasJS }),
	"ccidx":     flag(KindExtension, func(c *Capabilities) *bool { return &c.hasCCIDX }),
	"complxnum": flag(KindExtension, func(c *Capabilities) *bool { return &c.hasComplxNum }),

	"nv":           flag(KindExtension, func(c *Capabilities) *bool { return &c.hasNV }),
	"rasv8_4":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasRASv8_4 }),
	"mpam":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasMPAM }),
	"dit":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasDIT }),
	"tracev8.4":    flag(KindExtension, func(c *Capabilities) *bool { return &c.hasTRACEV8_4 }),
	"am":           flag(KindExtension, func(c *Capabilities) *bool { return &c.hasAM }),
	"sel2":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSEL2 }),
	"pmu":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasPMU }),
	"tlb-rmi":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasTLB_RMI }),
	"fmi":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasFMI }),
	"rcpc-immo":    flag(KindExtension, func(c *Capabilities) *bool { return &c.hasRCPC_IMMO }),
	"rcpc":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasRCPC }),
	"altnzcv":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasAlternativeNZCV }),
	"fptoint":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasFRInt3264 }),
	"specrestrict": flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSpecRestrict }),
	"ssbs":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSSBS }),
	"sb":           flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSB }),
	"predres":      flag(KindExtension, func(c *Capabilities) *bool { return &c.hasPredRes }),
	"ccdp":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasCCDP }),
	"bti":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasBTI }),
	"rand":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasRandGen }),
	"mte":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasMTE }),
	"tme":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasTME }),
	"bf16":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasBF16 }),
	"i8mm":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasMatMulInt8 }),
	"f32mm":        flag(KindExtension, func(c *Capabilities) *bool { return &c.hasMatMulFP32 }),
	"f64mm":        flag(KindExtension, func(c *Capabilities) *bool { return &c.hasMatMulFP64 }),
	"amvs":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasAMVS }),
	"fgt":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasFineGrainedTraps }),
	"ecv":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasEnhancedCounterVirtualization }),
	"sve2":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSVE2 }),
	"sve2-aes":     flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSVE2AES }),
	"sve2-sm4":     flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSVE2SM4 }),
	"sve2-sha3":    flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSVE2SHA3 }),
	"sve2-bitperm": flag(KindExtension, func(c *Capabilities) *bool { return &c.hasSVE2BitPerm }),
	"ete":          flag(KindExtension, func(c *Capabilities) *bool { return &c.hasETE }),
	"trbe":         flag(KindExtension, func(c *Capabilities) *bool { return &c.hasTRBE }),

	"zcm": flag(KindTuning, func(c *Capabilities) *bool { return &c.hasZeroCycleRegMove }),
	"zcz": flag(KindTuning,
		func(c *Capabilities) *bool { return &c.hasZeroCycleZeroing },
		func(c *Capabilities) *bool { return &c.hasZeroCycleZeroingGP },
		func(c *Capabilities) *bool { return &c.hasZeroCycleZeroingFP }),
	"zcz-gp":                             flag(KindTuning, func(c *Capabilities) *bool { return &c.hasZeroCycleZeroingGP }),
	"zcz-fp":                             flag(KindTuning, func(c *Capabilities) *bool { return &c.hasZeroCycleZeroingFP }),
	"zcz-fp-workaround":                  flag(KindTuning, func(c *Capabilities) *bool { return &c.hasZeroCycleZeroingFPWorkaround }),
	"lsl-fast":                           flag(KindTuning, func(c *Capabilities) *bool { return &c.hasLSLFast }),
	"aggressive-fma":                     flag(KindTuning, func(c *Capabilities) *bool { return &c.hasAggressiveFMA }),
	"use-aa":                             flag(KindTuning, func(c *Capabilities) *bool { return &c.useAA }),
	"predictable-select-expensive":       flag(KindTuning, func(c *Capabilities) *bool { return &c.predictableSelectIsExpensive }),
	"balance-fp-ops":                     flag(KindTuning, func(c *Capabilities) *bool { return &c.balanceFPOps }),
	"custom-cheap-as-move":               flag(KindTuning, func(c *Capabilities) *bool { return &c.customAsCheapAsMove }),
	"exynos-cheap-as-move":               flag(KindTuning, func(c *Capabilities) *bool { return &c.exynosAsCheapAsMove }),
	"use-postra-scheduler":               flag(KindTuning, func(c *Capabilities) *bool { return &c.usePostRAScheduler }),
	"slow-misaligned-128store":           flag(KindTuning, func(c *Capabilities) *bool { return &c.misaligned128StoreIsSlow }),
	"slow-paired-128":                    flag(KindTuning, func(c *Capabilities) *bool { return &c.paired128IsSlow }),
	"slow-strqro-store":                  flag(KindTuning, func(c *Capabilities) *bool { return &c.strQroIsSlow }),
	"alternate-sextload-cvt-f32-pattern": flag(KindTuning, func(c *Capabilities) *bool { return &c.useAlternateSExtLoadCVTF32Pattern }),
	"arith-bcc-fusion":                   flag(KindTuning, func(c *Capabilities) *bool { return &c.hasArithmeticBccFusion }),
	"arith-cbz-fusion":                   flag(KindTuning, func(c *Capabilities) *bool { return &c.hasArithmeticCbzFusion }),
	"fuse-address":                       flag(KindTuning, func(c *Capabilities) *bool { return &c.hasFuseAddress }),
	"fuse-aes":                           flag(KindTuning, func(c *Capabilities) *bool { return &c.hasFuseAES }),
	"fuse-arith-logic":                   flag(KindTuning, func(c *Capabilities) *bool { return &c.hasFuseArithmeticLogic }),
	"fuse-csel":                          flag(KindTuning, func(c *Capabilities) *bool { return &c.hasFuseCCSelect }),
	"fuse-crypto-eor":                    flag(KindTuning, func(c *Capabilities) *bool { return &c.hasFuseCryptoEOR }),
	"fuse-literals":                      flag(KindTuning, func(c *Capabilities) *bool { return &c.hasFuseLiterals }),
	"disable-latency-sched-heuristic":    flag(KindTuning, func(c *Capabilities) *bool { return &c.disableLatencySchedHeuristic }),
	"use-reciprocal-square-root":         flag(KindTuning, func(c *Capabilities) *bool { return &c.useRSqrt }),
	"force-32bit-jump-tables":            flag(KindTuning, func(c *Capabilities) *bool { return &c.force32BitJumpTables }),

	"strict-align":                     flag(KindCodegen, func(c *Capabilities) *bool { return &c.strictAlign }),
	"tpidr-el1":                        flag(KindCodegen, func(c *Capabilities) *bool { return &c.useEL1ForTP }),
	"tpidr-el2":                        flag(KindCodegen, func(c *Capabilities) *bool { return &c.useEL2ForTP }),
	"tpidr-el3":                        flag(KindCodegen, func(c *Capabilities) *bool { return &c.useEL3ForTP }),
	"tagged-globals":                   flag(KindCodegen, func(c *Capabilities) *bool { return &c.allowTaggedGlobals }),
	"harden-sls-retbr":                 flag(KindCodegen, func(c *Capabilities) *bool { return &c.hardenSlsRetBr }),
	"harden-sls-blr":                   flag(KindCodegen, func(c *Capabilities) *bool { return &c.hardenSlsBlr }),
	"use-experimental-zeroing-pseudos": flag(KindCodegen, func(c *Capabilities) *bool { return &c.useExperimentalZeroingPseudos }),
	// Inverted: enabling the feature turns negative immediates off
	"no-neg-immediates": {kind: KindCodegen, set: func(c *Capabilities, on bool) { c.negativeImmediates = !on }},
}

func init() {
	for _, i := range []uint{1, 2, 3, 4, 5, 6, 7, 9, 10, 11, 12, 13, 14, 15, 18,
		20, 21, 22, 23, 24, 25, 26, 27, 28, 30} {
		featureTable[fmt.Sprintf("reserve-x%d", i)] = reserveX(i)
	}
	for _, i := range []uint{8, 9, 10, 11, 12, 13, 14, 15, 18} {
		featureTable[fmt.Sprintf("call-saved-x%d", i)] = callSavedX(i)
	}
}

// applyFeature sets the fields controlled by name. Unknown names are a no-op
// and reported back so the caller can warn.
func applyFeature(c *Capabilities, name string, on bool) bool {
	def, ok := featureTable[name]
	if !ok {
		return false
	}
	def.set(c, on)
	return true
}

// IsKnownFeature returns true if name is in the feature table
func IsKnownFeature(name string) bool {
	_, ok := featureTable[name]
	return ok
}

// KindOf returns the kind of a known feature
func KindOf(name string) (FeatureKind, bool) {
	def, ok := featureTable[name]
	return def.kind, ok
}

// KnownFeatures returns every feature name, sorted
func KnownFeatures() []string {
	names := make([]string, 0, len(featureTable))
	for name := range featureTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
