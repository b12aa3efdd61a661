package subtarget

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/xyproto/a64target/feature"
	"github.com/xyproto/a64target/triple"
)

func TestAdvisePassesRequestedSizeThrough(t *testing.T) {
	c := Build(Others, feature.Set{})
	advice := advise(&c, DefaultOptions(), 200)

	assert.Check(t, is.Equal(advice.RegionSize, uint(200)))
	assert.Check(t, !advice.UseSimpleOrdering)
	assert.Check(t, !advice.Policy.OnlyTopDown)
	assert.Check(t, !advice.Policy.OnlyBottomUp)
	assert.Check(t, !advice.Policy.DisableLatencyHeuristic)
	assert.Check(t, advice.EnableMachineScheduler)
	assert.Check(t, advice.EnableEarlyIfConversion)
	assert.Check(t, advice.EnableAdvancedRASplitCost)
}

func TestAdviseSimpleOrderingWithoutLatencyHeuristic(t *testing.T) {
	c := resolveCaps("apple-a13", "", feature.Set{})
	for _, size := range []uint{1, 10, 10000} {
		advice := advise(&c, DefaultOptions(), size)
		assert.Check(t, advice.UseSimpleOrdering)
		assert.Check(t, advice.Policy.DisableLatencyHeuristic)
		assert.Check(t, is.Equal(advice.RegionSize, size))
	}
}

func TestAdviseRegionCeiling(t *testing.T) {
	c := Build(Others, feature.Set{})
	opts := DefaultOptions()
	opts.SchedRegionMax = 64

	assert.Check(t, is.Equal(advise(&c, opts, 500).RegionSize, uint(64)))
	assert.Check(t, is.Equal(advise(&c, opts, 32).RegionSize, uint(32)))

	opts.EarlyIfConversion = false
	assert.Check(t, !advise(&c, opts, 1).EnableEarlyIfConversion)
}

func TestAdvisePostRAScheduler(t *testing.T) {
	c := resolveCaps("cortex-a57", "", feature.Set{})
	assert.Check(t, advise(&c, DefaultOptions(), 1).EnablePostRAScheduler)

	c = resolveCaps("cortex-a72", "", feature.Set{})
	assert.Check(t, !advise(&c, DefaultOptions(), 1).EnablePostRAScheduler)
}

func TestRegisterConstraintsExcludeReserved(t *testing.T) {
	c := resolveCaps("", "", feature.Enable("reserve-x18", "reserve-x20"))
	rc := registerConstraints(&c)

	assert.Check(t, rc.IsReserved(18))
	assert.Check(t, rc.IsReserved(20))
	assert.Check(t, !rc.IsReserved(19))
	assert.Check(t, is.Equal(rc.NumReserved(), uint(2)))
	assert.DeepEqual(t, rc.Reserved(), []uint{18, 20})
	assert.Check(t, !rc.HasCustomCallingConv())

	for _, r := range rc.Allocatable() {
		assert.Check(t, r != 18 && r != 20, "x%d is reserved but allocatable", r)
	}
	assert.DeepEqual(t, rc.CalleeSaved(), []uint{19, 21, 22, 23, 24, 25, 26, 27, 28})
}

func TestRegisterConstraintsCustomCalleeSaved(t *testing.T) {
	c := Build(Others, feature.Enable("call-saved-x9", "call-saved-x10", "reserve-x10"))
	rc := registerConstraints(&c)

	assert.Check(t, rc.HasCustomCallingConv())
	assert.Check(t, is.Equal(rc.NumCustomCalleeSaved(), uint(2)))
	assert.Check(t, rc.IsCustomCalleeSaved(9))
	assert.DeepEqual(t, rc.CustomCalleeSaved(), []uint{9, 10})

	// x9 moves from caller-saved to callee-saved, x10 is reserved outright
	assert.Check(t, !containsReg(rc.CallerSaved(), 9))
	assert.Check(t, !containsReg(rc.CallerSaved(), 10))
	assert.Check(t, containsReg(rc.CalleeSaved(), 9))
	assert.Check(t, !containsReg(rc.CalleeSaved(), 10))
	assert.Check(t, is.Len(rc.Allocatable(), 19+10-1))
}

func TestPlatformRegisterFollowsReservation(t *testing.T) {
	c := resolveCaps("", "", feature.Set{})
	rc := registerConstraints(&c)
	assert.Check(t, containsReg(rc.CallerSaved(), 16))
	assert.Check(t, containsReg(rc.CallerSaved(), 17))
	assert.Check(t, containsReg(rc.CallerSaved(), 18))
	assert.Check(t, is.Len(rc.Allocatable(), 29))

	c = resolveCaps("", "", feature.Enable("reserve-x18"))
	reserved := registerConstraints(&c)
	assert.Check(t, !containsReg(reserved.CallerSaved(), 18))
	assert.Check(t, containsReg(reserved.CallerSaved(), 17))
	assert.Check(t, is.Len(reserved.Allocatable(), 28))
}

func TestRegisterConstraintsAreCopies(t *testing.T) {
	c := Build(Others, feature.Enable("reserve-x5"))
	rc := registerConstraints(&c)
	rc.reserved.Set(6)

	assert.Check(t, !c.IsXRegisterReserved(6))
	assert.Check(t, is.Equal(c.NumXRegisterReserved(), uint(1)))
}

func TestBalanceFPChains(t *testing.T) {
	c := resolveCaps("cortex-a57", "", feature.Set{})
	assert.Check(t, registerConstraints(&c).BalanceFPChains)

	c = resolveCaps("cortex-a72", "", feature.Set{})
	assert.Check(t, !registerConstraints(&c).BalanceFPChains)
}

func TestRegName(t *testing.T) {
	assert.Check(t, is.Equal(RegName(0), "x0"))
	assert.Check(t, is.Equal(RegName(18), "x18"))
	assert.Check(t, is.Equal(RegName(29), "fp"))
	assert.Check(t, is.Equal(RegName(30), "lr"))
}

func TestVectorCosts(t *testing.T) {
	c := resolveCaps("kryo", "", feature.Set{})
	vc := vectorCosts(&c, DefaultOptions())
	assert.Check(t, is.Equal(vc.MinVectorRegisterBitWidth, uint(128)))
	assert.Check(t, is.Equal(vc.MaxInterleaveFactor, uint(4)))
	assert.Check(t, is.Equal(vc.VectorInsertExtractBaseCost, uint(2)))
	assert.Check(t, is.Equal(vc.WideningBaseCost, uint(0)))
	assert.Check(t, is.Equal(vc.MinSVEVectorSizeInBits, uint(0)))
	assert.Check(t, is.Equal(vc.MaxSVEVectorSizeInBits, uint(0)))
}

func TestSVEVectorBounds(t *testing.T) {
	sve := Build(Others, feature.Enable("sve"))
	plain := Build(Others, feature.Set{})

	tests := []struct {
		name     string
		caps     Capabilities
		min, max uint
		wantMin  uint
		wantMax  uint
	}{
		{"no sve", plain, 256, 512, 0, 0},
		{"unknown", sve, 0, 0, 0, 0},
		{"rounded down", sve, 300, 520, 256, 512},
		{"min only", sve, 256, 0, 256, 0},
		{"max only", sve, 0, 2048, 0, 2048},
		{"min above max", sve, 1024, 512, 512, 1024},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := Options{SVEVectorBitsMin: tc.min, SVEVectorBitsMax: tc.max}
			assert.Check(t, is.Equal(minSVEVectorSizeInBits(&tc.caps, opts), tc.wantMin))
			assert.Check(t, is.Equal(maxSVEVectorSizeInBits(&tc.caps, opts), tc.wantMax))
		})
	}
}

func TestSupportsAddressTopByteIgnored(t *testing.T) {
	on := Options{UseAddressTopByteIgnored: true}
	assert.Check(t, supportsAddressTopByteIgnored(on, triple.Parse("arm64-apple-ios8.0")))
	assert.Check(t, supportsAddressTopByteIgnored(on, triple.Parse("arm64-apple-ios14.0")))
	assert.Check(t, !supportsAddressTopByteIgnored(on, triple.Parse("arm64-apple-ios7.1")))
	assert.Check(t, !supportsAddressTopByteIgnored(on, triple.Parse("aarch64-unknown-linux-gnu")))
	assert.Check(t, !supportsAddressTopByteIgnored(Options{}, triple.Parse("arm64-apple-ios14.0")))
}

func TestCallingConventions(t *testing.T) {
	linux := triple.Parse("aarch64-unknown-linux-gnu")
	win := triple.Parse("aarch64-pc-windows-msvc")

	assert.Check(t, !isCallingConvWin64(CallConvC, linux))
	assert.Check(t, isCallingConvWin64(CallConvC, win))
	assert.Check(t, isCallingConvWin64(CallConvSwift, win))
	assert.Check(t, isCallingConvWin64(CallConvWin64, linux))
	assert.Check(t, !isCallingConvWin64(CallConvPreserveMost, win))

	cc, ok := ParseCallingConv("preserve_most")
	assert.Check(t, ok)
	assert.Check(t, is.Equal(cc, CallConvPreserveMost))
	_, ok = ParseCallingConv("stdcall")
	assert.Check(t, !ok)

	c := Build(Others, feature.Set{})
	assert.DeepEqual(t, calleeSavedXRegs(&c, CallConvC),
		[]uint{19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30})
	assert.DeepEqual(t, calleeSavedXRegs(&c, CallConvPreserveMost),
		[]uint{9, 10, 11, 12, 13, 14, 15, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30})

	custom := Build(Others, feature.Enable("call-saved-x8"))
	assert.DeepEqual(t, calleeSavedXRegs(&custom, CallConvC),
		[]uint{8, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30})
}
