// Completion: 100% - Host detection complete
package subtarget

import (
	"runtime"

	"github.com/xyproto/a64target/feature"
	"golang.org/x/sys/cpu"
)

// host.go - Feature detection for the "native" CPU name
//
// The host's HWCAP bits are mapped onto feature names. The family is always
// Others since the kernel does not report the microarchitecture in a form we
// can match against the processor table.

// hostFeature pairs an x/sys/cpu flag with the features it implies
type hostFeature struct {
	present  bool
	features []string
}

func hostFeatureTable() []hostFeature {
	a := &cpu.ARM64
	return []hostFeature{
		{a.HasFP, []string{"fp-armv8"}},
		{a.HasASIMD, []string{"neon"}},
		{a.HasAES && a.HasPMULL, []string{"aes"}},
		{a.HasSHA1 && a.HasSHA2, []string{"sha2"}},
		{a.HasAES && a.HasPMULL && a.HasSHA1 && a.HasSHA2, []string{"crypto"}},
		{a.HasSHA3 && a.HasSHA512, []string{"sha3"}},
		{a.HasSM3 && a.HasSM4, []string{"sm4"}},
		{a.HasCRC32, []string{"crc"}},
		{a.HasATOMICS, []string{"lse"}},
		{a.HasFPHP && a.HasASIMDHP, []string{"fullfp16"}},
		{a.HasASIMDRDM, []string{"rdm"}},
		{a.HasJSCVT, []string{"jsconv"}},
		{a.HasFCMA, []string{"complxnum"}},
		{a.HasLRCPC, []string{"rcpc"}},
		{a.HasDCPOP, []string{"ccpp"}},
		{a.HasASIMDDP, []string{"dotprod"}},
		{a.HasSVE, []string{"sve"}},
		{a.HasASIMDFHM, []string{"fp16fml"}},
	}
}

// HostFeatures returns the features reported by the running processor.
// On anything but arm64 the set is empty.
func HostFeatures() feature.Set {
	if runtime.GOARCH != "arm64" {
		return feature.NewSet()
	}
	var names []string
	for _, hf := range hostFeatureTable() {
		if hf.present {
			names = append(names, hf.features...)
		}
	}
	return feature.Enable(names...)
}

// hostProcessor builds a processor entry for "native"
func hostProcessor() Processor {
	generic := processors[GenericCPU]
	features := append([]string(nil), generic.Features...)
	features = append(features, HostFeatures().Names()...)
	return Processor{
		Name:     NativeCPU,
		Family:   Others,
		Features: features,
	}
}
