// Completion: 100% - Calling convention legality complete
package subtarget

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/xyproto/a64target/triple"
)

// callconv.go - Calling conventions seen at AArch64 call sites
//
// A call site carries one of these. The subtarget answers two questions about
// it: does it follow the Windows x64-compatible rules (varargs and unwind
// handling differ), and which general purpose registers must the callee
// preserve.

// CallingConv identifies the calling convention of a call site
type CallingConv int

const (
	CallConvC CallingConv = iota
	CallConvFast
	CallConvCold
	CallConvSwift
	CallConvWin64
	CallConvPreserveMost
	CallConvPreserveAll
	CallConvAArch64VectorCall
	CallConvAArch64SVEVectorCall
	CallConvCXXFastTLS
)

var callConvNames = map[CallingConv]string{
	CallConvC:                    "c",
	CallConvFast:                 "fast",
	CallConvCold:                 "cold",
	CallConvSwift:                "swift",
	CallConvWin64:                "win64",
	CallConvPreserveMost:         "preserve_most",
	CallConvPreserveAll:          "preserve_all",
	CallConvAArch64VectorCall:    "aarch64_vector_pcs",
	CallConvAArch64SVEVectorCall: "aarch64_sve_vector_pcs",
	CallConvCXXFastTLS:           "cxx_fast_tls",
}

func (cc CallingConv) String() string {
	if name, ok := callConvNames[cc]; ok {
		return name
	}
	return "unknown"
}

// ParseCallingConv looks up a calling convention by its String form
func ParseCallingConv(name string) (CallingConv, bool) {
	for cc, n := range callConvNames {
		if n == name {
			return cc, true
		}
	}
	return CallConvC, false
}

// isCallingConvWin64 returns true if a call with convention cc uses the
// Windows rules on this target
func isCallingConvWin64(cc CallingConv, tt triple.Triple) bool {
	switch cc {
	case CallConvC, CallConvFast, CallConvSwift:
		return tt.IsOSWindows()
	case CallConvWin64:
		return true
	default:
		return false
	}
}

// calleeSavedXRegs returns the registers a callee with convention cc must
// preserve, ascending, including fp and lr. Custom callee-saved registers
// from the feature set are added for every convention.
func calleeSavedXRegs(c *Capabilities, cc CallingConv) []uint {
	saved := bitsetFrom(aapcsCalleeSaved...)
	saved.Set(29)
	saved.Set(30)

	switch cc {
	case CallConvPreserveMost, CallConvPreserveAll:
		// The scratch registers x9-x15 survive the call as well
		for r := uint(9); r <= 15; r++ {
			saved.Set(r)
		}
	case CallConvCXXFastTLS:
		// Everything except the return value in x0
		for r := uint(1); r <= 15; r++ {
			saved.Set(r)
		}
	}

	saved.InPlaceUnion(c.customCallSavedXRegs)
	return setBits(saved)
}

func bitsetFrom(regs ...uint) *bitset.BitSet {
	b := bitset.New(NumXRegs)
	for _, r := range regs {
		b.Set(r)
	}
	return b
}
