// Completion: 100% - Scheduling and allocation advice complete
package subtarget

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/xyproto/a64target/triple"
)

// advisor.go - Scheduling and register allocation advice
//
// Everything here is a read of the resolved table plus the construction
// options. The scheduler and the allocator consume the results; they never
// write back.

// SchedPolicy is the region policy handed to the machine scheduler
type SchedPolicy struct {
	OnlyTopDown             bool
	OnlyBottomUp            bool
	DisableLatencyHeuristic bool
}

// SchedulingAdvice is what the scheduler may assume for one region
type SchedulingAdvice struct {
	Policy SchedPolicy
	// UseSimpleOrdering asks for source order when the latency heuristic is off
	UseSimpleOrdering bool
	// RegionSize is the requested size, capped by the configured ceiling
	RegionSize uint

	EnableMachineScheduler    bool
	EnablePostRAScheduler     bool
	EnableEarlyIfConversion   bool
	EnableAdvancedRASplitCost bool
}

// advise derives the scheduling advice for a requested region size
func advise(c *Capabilities, opts Options, requestedRegion uint) SchedulingAdvice {
	region := requestedRegion
	if opts.SchedRegionMax != 0 && region > opts.SchedRegionMax {
		region = opts.SchedRegionMax
	}
	return SchedulingAdvice{
		Policy: SchedPolicy{
			// Bidirectional scheduling is always left enabled
			OnlyTopDown:             false,
			OnlyBottomUp:            false,
			DisableLatencyHeuristic: c.disableLatencySchedHeuristic,
		},
		UseSimpleOrdering:         c.disableLatencySchedHeuristic,
		RegionSize:                region,
		EnableMachineScheduler:    true,
		EnablePostRAScheduler:     c.usePostRAScheduler,
		EnableEarlyIfConversion:   opts.EarlyIfConversion,
		EnableAdvancedRASplitCost: true,
	}
}

// AAPCS64 general purpose register classes, x0-x30. The caller-saved list
// includes the intra-procedure-call scratch registers x16 and x17 and the
// platform register x18; platforms that need x18 reserve it.
var (
	aapcsCallerSaved = []uint{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	aapcsCalleeSaved = []uint{19, 20, 21, 22, 23, 24, 25, 26, 27, 28}
)

// RegisterConstraints are hard constraints for the register allocator.
// The sets are private copies; changing them does not affect the subtarget.
type RegisterConstraints struct {
	reserved          *bitset.BitSet
	customCalleeSaved *bitset.BitSet
	// BalanceFPChains enables the A57 FP chain balancing constraint in the
	// PBQP allocator
	BalanceFPChains bool
}

func registerConstraints(c *Capabilities) RegisterConstraints {
	return RegisterConstraints{
		reserved:          c.reserveXRegister.Clone(),
		customCalleeSaved: c.customCallSavedXRegs.Clone(),
		BalanceFPChains:   c.balanceFPOps,
	}
}

// IsReserved returns true if x<i> must never be allocated
func (rc RegisterConstraints) IsReserved(i uint) bool {
	return i < NumXRegs && rc.reserved.Test(i)
}

// IsCustomCalleeSaved returns true if x<i> must be preserved by the callee
func (rc RegisterConstraints) IsCustomCalleeSaved(i uint) bool {
	return i < NumXRegs && rc.customCalleeSaved.Test(i)
}

// NumReserved returns the number of reserved registers
func (rc RegisterConstraints) NumReserved() uint {
	return rc.reserved.Count()
}

// NumCustomCalleeSaved returns the number of custom callee-saved registers
func (rc RegisterConstraints) NumCustomCalleeSaved() uint {
	return rc.customCalleeSaved.Count()
}

// HasCustomCallingConv returns true if any register was made callee-saved
func (rc RegisterConstraints) HasCustomCallingConv() bool {
	return rc.customCalleeSaved.Any()
}

// Reserved lists the reserved registers in ascending order
func (rc RegisterConstraints) Reserved() []uint {
	return setBits(rc.reserved)
}

// CustomCalleeSaved lists the custom callee-saved registers in ascending order
func (rc RegisterConstraints) CustomCalleeSaved() []uint {
	return setBits(rc.customCalleeSaved)
}

// CallerSaved returns the allocatable registers a call clobbers: the AAPCS
// temporaries minus reserved and custom callee-saved registers
func (rc RegisterConstraints) CallerSaved() []uint {
	var out []uint
	for _, r := range aapcsCallerSaved {
		if rc.IsReserved(r) || rc.IsCustomCalleeSaved(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CalleeSaved returns the allocatable registers a call preserves: the AAPCS
// set plus custom callee-saved registers, minus reserved ones
func (rc RegisterConstraints) CalleeSaved() []uint {
	var out []uint
	for _, r := range aapcsCalleeSaved {
		if !rc.IsReserved(r) {
			out = append(out, r)
		}
	}
	for _, r := range setBits(rc.customCalleeSaved) {
		if !rc.IsReserved(r) && !containsReg(aapcsCalleeSaved, r) {
			out = append(out, r)
		}
	}
	return out
}

// Allocatable returns every register the allocator may assign, callee-saved
// first so long-lived values avoid spills around calls
func (rc RegisterConstraints) Allocatable() []uint {
	return append(rc.CalleeSaved(), rc.CallerSaved()...)
}

func containsReg(regs []uint, r uint) bool {
	for _, x := range regs {
		if x == r {
			return true
		}
	}
	return false
}

// RegName returns the assembler name of x<i>
func RegName(i uint) string {
	switch i {
	case 29:
		return "fp"
	case 30:
		return "lr"
	default:
		return fmt.Sprintf("x%d", i)
	}
}

// VectorCosts feeds the vectorizer's cost model
type VectorCosts struct {
	MinVectorRegisterBitWidth   uint
	MaxInterleaveFactor         uint
	VectorInsertExtractBaseCost uint
	WideningBaseCost            uint
	// MinSVEVectorSizeInBits and MaxSVEVectorSizeInBits are 0 when unknown
	MinSVEVectorSizeInBits uint
	MaxSVEVectorSizeInBits uint
}

func vectorCosts(c *Capabilities, opts Options) VectorCosts {
	return VectorCosts{
		MinVectorRegisterBitWidth:   c.minVectorRegisterBitWidth,
		MaxInterleaveFactor:         c.maxInterleaveFactor,
		VectorInsertExtractBaseCost: c.vectorInsertExtractBaseCost,
		WideningBaseCost:            c.wideningBaseCost,
		MinSVEVectorSizeInBits:      minSVEVectorSizeInBits(c, opts),
		MaxSVEVectorSizeInBits:      maxSVEVectorSizeInBits(c, opts),
	}
}

// SVE registers grow in 128-bit granules
const sveGranule = 128

// maxSVEVectorSizeInBits returns the configured upper bound, or 0 when it is
// unknown or SVE is not available
func maxSVEVectorSizeInBits(c *Capabilities, opts Options) uint {
	if !c.hasSVE || opts.SVEVectorBitsMax == 0 {
		return 0
	}
	max := opts.SVEVectorBitsMax
	if opts.SVEVectorBitsMin > max {
		max = opts.SVEVectorBitsMin
	}
	return max / sveGranule * sveGranule
}

// minSVEVectorSizeInBits returns the configured lower bound, or 0 when it is
// unknown or SVE is not available. It never exceeds a known maximum.
func minSVEVectorSizeInBits(c *Capabilities, opts Options) uint {
	if !c.hasSVE || opts.SVEVectorBitsMin == 0 {
		return 0
	}
	min := opts.SVEVectorBitsMin
	if opts.SVEVectorBitsMax != 0 && opts.SVEVectorBitsMax < min {
		min = opts.SVEVectorBitsMax
	}
	return min / sveGranule * sveGranule
}

// supportsAddressTopByteIgnored returns true if loads and stores may carry a
// tag in the top byte. Only iOS 8 and later guarantee this.
func supportsAddressTopByteIgnored(opts Options, tt triple.Triple) bool {
	if !opts.UseAddressTopByteIgnored {
		return false
	}
	return tt.IsiOS() && tt.IOSVersion() >= 8
}
