// Completion: 100% - Capability table complete
package subtarget

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// capabilities.go - The resolved capability table
//
// Every fact the back end may assume about the target processor lives in one
// Capabilities value. Fields are unexported and only the builder writes them,
// so a published table is immutable and safe to read from any goroutine.
//
// Revision flags (v8.1a, v8.2a, ...) are stored independently. Enabling a later
// revision does not set the earlier ones; the feature string or the processor
// defaults must list each revision the target implements.

// NumXRegs is the number of general purpose registers tracked by the register
// sets (x0-x28, fp, lr)
const NumXRegs = 31

// Capabilities is the fully resolved record of target facts
type Capabilities struct {
	family Family

	// Architecture revisions
	hasV8_1aOps bool
	hasV8_2aOps bool
	hasV8_3aOps bool
	hasV8_4aOps bool
	hasV8_5aOps bool
	hasV8_6aOps bool
	hasV8_0rOps bool

	hasCONTEXTIDREL2 bool

	hasFPARMv8  bool
	hasNEON     bool
	hasCrypto   bool
	hasDotProd  bool
	hasCRC      bool
	hasLSE      bool
	hasRAS      bool
	hasRDM      bool
	hasPerfMon  bool
	hasFullFP16 bool
	hasFP16FML  bool
	hasSPE      bool

	// Armv8.1
	hasVH  bool
	hasPAN bool
	hasLOR bool

	// Armv8.2
	hasPsUAO   bool
	hasPAN_RWV bool
	hasCCPP    bool

	// SVE
	hasSVE                        bool
	useExperimentalZeroingPseudos bool

	// Armv8.2 crypto
	hasSM4  bool
	hasSHA3 bool
	hasSHA2 bool
	hasAES  bool

	// Armv8.3
	hasPA        bool
	hasJS        bool
	hasCCIDX     bool
	hasComplxNum bool

	// Armv8.4
	hasNV        bool
	hasRASv8_4   bool
	hasMPAM      bool
	hasDIT       bool
	hasTRACEV8_4 bool
	hasAM        bool
	hasSEL2      bool
	hasPMU       bool
	hasTLB_RMI   bool
	hasFMI       bool
	hasRCPC_IMMO bool

	hasLSLFast       bool
	hasRCPC          bool
	hasAggressiveFMA bool

	// Armv8.5
	hasAlternativeNZCV bool
	hasFRInt3264       bool
	hasSpecRestrict    bool
	hasSSBS            bool
	hasSB              bool
	hasPredRes         bool
	hasCCDP            bool
	hasBTI             bool
	hasRandGen         bool
	hasMTE             bool
	hasTME             bool

	// Armv8.6
	hasBF16                          bool
	hasMatMulInt8                    bool
	hasMatMulFP32                    bool
	hasMatMulFP64                    bool
	hasAMVS                          bool
	hasFineGrainedTraps              bool
	hasEnhancedCounterVirtualization bool

	// SVE2
	hasSVE2        bool
	hasSVE2AES     bool
	hasSVE2SM4     bool
	hasSVE2SHA3    bool
	hasSVE2BitPerm bool

	hasETE  bool
	hasTRBE bool

	// Zero-cycle operations
	hasZeroCycleRegMove             bool
	hasZeroCycleZeroing             bool
	hasZeroCycleZeroingGP           bool
	hasZeroCycleZeroingFP           bool
	hasZeroCycleZeroingFPWorkaround bool

	strictAlign        bool
	negativeImmediates bool

	// Tuning
	useAA                             bool
	predictableSelectIsExpensive      bool
	balanceFPOps                      bool
	customAsCheapAsMove               bool
	exynosAsCheapAsMove               bool
	usePostRAScheduler                bool
	misaligned128StoreIsSlow          bool
	paired128IsSlow                   bool
	strQroIsSlow                      bool
	useAlternateSExtLoadCVTF32Pattern bool
	hasArithmeticBccFusion            bool
	hasArithmeticCbzFusion            bool
	hasFuseAddress                    bool
	hasFuseAES                        bool
	hasFuseArithmeticLogic            bool
	hasFuseCCSelect                   bool
	hasFuseCryptoEOR                  bool
	hasFuseLiterals                   bool
	disableLatencySchedHeuristic      bool
	useRSqrt                          bool
	force32BitJumpTables              bool
	useEL1ForTP                       bool
	useEL2ForTP                       bool
	useEL3ForTP                       bool
	allowTaggedGlobals                bool
	hardenSlsRetBr                    bool
	hardenSlsBlr                      bool

	// Numeric tuning
	minVectorRegisterBitWidth   uint
	maxInterleaveFactor         uint
	vectorInsertExtractBaseCost uint
	cacheLineSize               uint
	prefetchDistance            uint
	minPrefetchStride           uint
	maxPrefetchIterationsAhead  uint
	prefFunctionLogAlignment    uint
	prefLoopLogAlignment        uint
	maxJumpTableSize            uint
	wideningBaseCost            uint

	// reserveXRegister[i]: x<i> is not available to the allocator
	reserveXRegister *bitset.BitSet
	// customCallSavedXRegs[i]: x<i> is callee-saved in addition to the AAPCS set
	customCallSavedXRegs *bitset.BitSet
}

// DefaultCapabilities returns the global defaults: every extension off and
// the numeric tuning fields at values that are safe for any processor
func DefaultCapabilities() Capabilities {
	return Capabilities{
		family:                      Others,
		negativeImmediates:          true,
		minVectorRegisterBitWidth:   64,
		maxInterleaveFactor:         2,
		vectorInsertExtractBaseCost: 3,
		cacheLineSize:               0,
		prefetchDistance:            0,
		minPrefetchStride:           1,
		maxPrefetchIterationsAhead:  math.MaxUint32,
		prefFunctionLogAlignment:    0,
		prefLoopLogAlignment:        0,
		maxJumpTableSize:            0,
		wideningBaseCost:            0,
		reserveXRegister:            bitset.New(NumXRegs),
		customCallSavedXRegs:        bitset.New(NumXRegs),
	}
}

// clone returns a deep copy; the register sets are not shared
func (c *Capabilities) clone() Capabilities {
	out := *c
	out.reserveXRegister = c.reserveXRegister.Clone()
	out.customCallSavedXRegs = c.customCallSavedXRegs.Clone()
	return out
}

// Family returns the processor family the tuning defaults came from.
// Prefer a capability query over switching on this.
func (c *Capabilities) Family() Family { return c.family }

// Architecture revisions
func (c *Capabilities) HasV8_1aOps() bool { return c.hasV8_1aOps }
func (c *Capabilities) HasV8_2aOps() bool { return c.hasV8_2aOps }
func (c *Capabilities) HasV8_3aOps() bool { return c.hasV8_3aOps }
func (c *Capabilities) HasV8_4aOps() bool { return c.hasV8_4aOps }
func (c *Capabilities) HasV8_5aOps() bool { return c.hasV8_5aOps }
func (c *Capabilities) HasV8_6aOps() bool { return c.hasV8_6aOps }
func (c *Capabilities) HasV8_0rOps() bool { return c.hasV8_0rOps }

func (c *Capabilities) HasCONTEXTIDREL2() bool { return c.hasCONTEXTIDREL2 }

// Base extensions
func (c *Capabilities) HasFPARMv8() bool  { return c.hasFPARMv8 }
func (c *Capabilities) HasNEON() bool     { return c.hasNEON }
func (c *Capabilities) HasCrypto() bool   { return c.hasCrypto }
func (c *Capabilities) HasDotProd() bool  { return c.hasDotProd }
func (c *Capabilities) HasCRC() bool      { return c.hasCRC }
func (c *Capabilities) HasLSE() bool      { return c.hasLSE }
func (c *Capabilities) HasRAS() bool      { return c.hasRAS }
func (c *Capabilities) HasRDM() bool      { return c.hasRDM }
func (c *Capabilities) HasPerfMon() bool  { return c.hasPerfMon }
func (c *Capabilities) HasFullFP16() bool { return c.hasFullFP16 }
func (c *Capabilities) HasFP16FML() bool  { return c.hasFP16FML }
func (c *Capabilities) HasSPE() bool      { return c.hasSPE }
func (c *Capabilities) HasSM4() bool      { return c.hasSM4 }
func (c *Capabilities) HasSHA3() bool     { return c.hasSHA3 }
func (c *Capabilities) HasSHA2() bool     { return c.hasSHA2 }
func (c *Capabilities) HasAES() bool      { return c.hasAES }

// Armv8.1 and Armv8.2
func (c *Capabilities) HasVH() bool      { return c.hasVH }
func (c *Capabilities) HasPAN() bool     { return c.hasPAN }
func (c *Capabilities) HasLOR() bool     { return c.hasLOR }
func (c *Capabilities) HasPsUAO() bool   { return c.hasPsUAO }
func (c *Capabilities) HasPAN_RWV() bool { return c.hasPAN_RWV }
func (c *Capabilities) HasCCPP() bool    { return c.hasCCPP }

// SVE and SVE2
func (c *Capabilities) HasSVE() bool         { return c.hasSVE }
func (c *Capabilities) HasSVE2() bool        { return c.hasSVE2 }
func (c *Capabilities) HasSVE2AES() bool     { return c.hasSVE2AES }
func (c *Capabilities) HasSVE2SM4() bool     { return c.hasSVE2SM4 }
func (c *Capabilities) HasSVE2SHA3() bool    { return c.hasSVE2SHA3 }
func (c *Capabilities) HasSVE2BitPerm() bool { return c.hasSVE2BitPerm }
func (c *Capabilities) UseExperimentalZeroingPseudos() bool {
	return c.useExperimentalZeroingPseudos
}

// Armv8.3
func (c *Capabilities) HasPA() bool        { return c.hasPA }
func (c *Capabilities) HasJS() bool        { return c.hasJS }
func (c *Capabilities) HasCCIDX() bool     { return c.hasCCIDX }
func (c *Capabilities) HasComplxNum() bool { return c.hasComplxNum }

// Armv8.4
func (c *Capabilities) HasNV() bool        { return c.hasNV }
func (c *Capabilities) HasRASv8_4() bool   { return c.hasRASv8_4 }
func (c *Capabilities) HasMPAM() bool      { return c.hasMPAM }
func (c *Capabilities) HasDIT() bool       { return c.hasDIT }
func (c *Capabilities) HasTRACEV8_4() bool { return c.hasTRACEV8_4 }
func (c *Capabilities) HasAM() bool        { return c.hasAM }
func (c *Capabilities) HasSEL2() bool      { return c.hasSEL2 }
func (c *Capabilities) HasPMU() bool       { return c.hasPMU }
func (c *Capabilities) HasTLB_RMI() bool   { return c.hasTLB_RMI }
func (c *Capabilities) HasFMI() bool       { return c.hasFMI }
func (c *Capabilities) HasRCPC_IMMO() bool { return c.hasRCPC_IMMO }

func (c *Capabilities) HasLSLFast() bool       { return c.hasLSLFast }
func (c *Capabilities) HasRCPC() bool          { return c.hasRCPC }
func (c *Capabilities) HasAggressiveFMA() bool { return c.hasAggressiveFMA }

// Armv8.5
func (c *Capabilities) HasAlternativeNZCV() bool { return c.hasAlternativeNZCV }
func (c *Capabilities) HasFRInt3264() bool       { return c.hasFRInt3264 }
func (c *Capabilities) HasSpecRestrict() bool    { return c.hasSpecRestrict }
func (c *Capabilities) HasSSBS() bool            { return c.hasSSBS }
func (c *Capabilities) HasSB() bool              { return c.hasSB }
func (c *Capabilities) HasPredRes() bool         { return c.hasPredRes }
func (c *Capabilities) HasCCDP() bool            { return c.hasCCDP }
func (c *Capabilities) HasBTI() bool             { return c.hasBTI }
func (c *Capabilities) HasRandGen() bool         { return c.hasRandGen }
func (c *Capabilities) HasMTE() bool             { return c.hasMTE }
func (c *Capabilities) HasTME() bool             { return c.hasTME }

// Armv8.6
func (c *Capabilities) HasBF16() bool             { return c.hasBF16 }
func (c *Capabilities) HasMatMulInt8() bool       { return c.hasMatMulInt8 }
func (c *Capabilities) HasMatMulFP32() bool       { return c.hasMatMulFP32 }
func (c *Capabilities) HasMatMulFP64() bool       { return c.hasMatMulFP64 }
func (c *Capabilities) HasAMVS() bool             { return c.hasAMVS }
func (c *Capabilities) HasFineGrainedTraps() bool { return c.hasFineGrainedTraps }
func (c *Capabilities) HasEnhancedCounterVirtualization() bool {
	return c.hasEnhancedCounterVirtualization
}

func (c *Capabilities) HasETE() bool  { return c.hasETE }
func (c *Capabilities) HasTRBE() bool { return c.hasTRBE }

// Zero-cycle operations
func (c *Capabilities) HasZeroCycleRegMove() bool   { return c.hasZeroCycleRegMove }
func (c *Capabilities) HasZeroCycleZeroing() bool   { return c.hasZeroCycleZeroing }
func (c *Capabilities) HasZeroCycleZeroingGP() bool { return c.hasZeroCycleZeroingGP }
func (c *Capabilities) HasZeroCycleZeroingFP() bool { return c.hasZeroCycleZeroingFP }
func (c *Capabilities) HasZeroCycleZeroingFPWorkaround() bool {
	return c.hasZeroCycleZeroingFPWorkaround
}

func (c *Capabilities) RequiresStrictAlign() bool { return c.strictAlign }
func (c *Capabilities) NegativeImmediates() bool  { return c.negativeImmediates }

// Tuning
func (c *Capabilities) UseAA() bool        { return c.useAA }
func (c *Capabilities) BalanceFPOps() bool { return c.balanceFPOps }
func (c *Capabilities) PredictableSelectIsExpensive() bool {
	return c.predictableSelectIsExpensive
}
func (c *Capabilities) HasCustomCheapAsMoveHandling() bool { return c.customAsCheapAsMove }
func (c *Capabilities) HasExynosCheapAsMoveHandling() bool { return c.exynosAsCheapAsMove }
func (c *Capabilities) UsePostRAScheduler() bool           { return c.usePostRAScheduler }
func (c *Capabilities) IsMisaligned128StoreSlow() bool     { return c.misaligned128StoreIsSlow }
func (c *Capabilities) IsPaired128Slow() bool              { return c.paired128IsSlow }
func (c *Capabilities) IsSTRQroSlow() bool                 { return c.strQroIsSlow }
func (c *Capabilities) UseAlternateSExtLoadCVTF32Pattern() bool {
	return c.useAlternateSExtLoadCVTF32Pattern
}
func (c *Capabilities) DisableLatencySchedHeuristic() bool {
	return c.disableLatencySchedHeuristic
}
func (c *Capabilities) UseRSqrt() bool             { return c.useRSqrt }
func (c *Capabilities) Force32BitJumpTables() bool { return c.force32BitJumpTables }
func (c *Capabilities) UseEL1ForTP() bool          { return c.useEL1ForTP }
func (c *Capabilities) UseEL2ForTP() bool          { return c.useEL2ForTP }
func (c *Capabilities) UseEL3ForTP() bool          { return c.useEL3ForTP }
func (c *Capabilities) AllowTaggedGlobals() bool   { return c.allowTaggedGlobals }
func (c *Capabilities) HardenSlsRetBr() bool       { return c.hardenSlsRetBr }
func (c *Capabilities) HardenSlsBlr() bool         { return c.hardenSlsBlr }

// Fusion
func (c *Capabilities) HasArithmeticBccFusion() bool { return c.hasArithmeticBccFusion }
func (c *Capabilities) HasArithmeticCbzFusion() bool { return c.hasArithmeticCbzFusion }
func (c *Capabilities) HasFuseAddress() bool         { return c.hasFuseAddress }
func (c *Capabilities) HasFuseAES() bool             { return c.hasFuseAES }
func (c *Capabilities) HasFuseArithmeticLogic() bool { return c.hasFuseArithmeticLogic }
func (c *Capabilities) HasFuseCCSelect() bool        { return c.hasFuseCCSelect }
func (c *Capabilities) HasFuseCryptoEOR() bool       { return c.hasFuseCryptoEOR }
func (c *Capabilities) HasFuseLiterals() bool        { return c.hasFuseLiterals }

// HasFusion returns true if the CPU supports any kind of instruction fusion.
// Address and crypto-EOR fusion are deliberately not part of this set.
func (c *Capabilities) HasFusion() bool {
	return c.hasArithmeticBccFusion || c.hasArithmeticCbzFusion ||
		c.hasFuseAES || c.hasFuseArithmeticLogic ||
		c.hasFuseCCSelect || c.hasFuseLiterals
}

// Numeric tuning. A zero cache line size, prefetch distance or jump table
// size means "unknown"; callers must check before treating it as a limit.
func (c *Capabilities) MinVectorRegisterBitWidth() uint   { return c.minVectorRegisterBitWidth }
func (c *Capabilities) MaxInterleaveFactor() uint         { return c.maxInterleaveFactor }
func (c *Capabilities) VectorInsertExtractBaseCost() uint { return c.vectorInsertExtractBaseCost }
func (c *Capabilities) CacheLineSize() uint               { return c.cacheLineSize }
func (c *Capabilities) PrefetchDistance() uint            { return c.prefetchDistance }
func (c *Capabilities) MinPrefetchStride() uint           { return c.minPrefetchStride }
func (c *Capabilities) MaxPrefetchIterationsAhead() uint  { return c.maxPrefetchIterationsAhead }
func (c *Capabilities) PrefFunctionLogAlignment() uint    { return c.prefFunctionLogAlignment }
func (c *Capabilities) PrefLoopLogAlignment() uint        { return c.prefLoopLogAlignment }
func (c *Capabilities) MaximumJumpTableSize() uint        { return c.maxJumpTableSize }
func (c *Capabilities) WideningBaseCost() uint            { return c.wideningBaseCost }

// IsXRegisterReserved returns true if x<i> is excluded from allocation.
// Out-of-range indices are never reserved.
func (c *Capabilities) IsXRegisterReserved(i uint) bool {
	return i < NumXRegs && c.reserveXRegister.Test(i)
}

// NumXRegisterReserved returns how many general purpose registers are reserved
func (c *Capabilities) NumXRegisterReserved() uint {
	return c.reserveXRegister.Count()
}

// IsXRegCustomCalleeSaved returns true if x<i> is treated as callee-saved
func (c *Capabilities) IsXRegCustomCalleeSaved(i uint) bool {
	return i < NumXRegs && c.customCallSavedXRegs.Test(i)
}

// HasCustomCallingConv returns true if any register was made callee-saved
func (c *Capabilities) HasCustomCallingConv() bool {
	return c.customCallSavedXRegs.Any()
}

// ReservedXRegisters lists the reserved register indices in ascending order
func (c *Capabilities) ReservedXRegisters() []uint {
	return setBits(c.reserveXRegister)
}

// CustomCalleeSavedXRegisters lists the custom callee-saved indices in ascending order
func (c *Capabilities) CustomCalleeSavedXRegisters() []uint {
	return setBits(c.customCallSavedXRegs)
}

func setBits(b *bitset.BitSet) []uint {
	var out []uint
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}
