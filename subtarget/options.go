// Completion: 100% - Configuration complete
package subtarget

import (
	"github.com/sirupsen/logrus"
	"github.com/xyproto/env/v2"
)

// Environment variables read by OptionsFromEnv
const (
	EnvEarlyIfConversion = "A64TARGET_EARLY_IFCVT"
	EnvUseTBI            = "A64TARGET_USE_TBI"
	EnvNonLazyBind       = "A64TARGET_NONLAZYBIND"
	EnvSVEVectorBitsMin  = "A64TARGET_SVE_VECTOR_BITS_MIN"
	EnvSVEVectorBitsMax  = "A64TARGET_SVE_VECTOR_BITS_MAX"
	EnvSchedRegionMax    = "A64TARGET_SCHED_REGION_MAX"
	EnvVerbose           = "A64TARGET_VERBOSE"
)

// Options are the code generator knobs that are not part of the feature
// string. They are fixed at construction time like the table itself.
type Options struct {
	// EarlyIfConversion enables the early if-converter pass
	EarlyIfConversion bool
	// UseAddressTopByteIgnored lets the back end rely on TBI where the OS
	// enables it
	UseAddressTopByteIgnored bool
	// UseNonLazyBind routes nonlazybind calls to non-local functions via the GOT
	UseNonLazyBind bool
	// SVEVectorBitsMin and SVEVectorBitsMax bound the SVE register width.
	// 0 means nothing is known beyond the architecture.
	SVEVectorBitsMin uint
	SVEVectorBitsMax uint
	// SchedRegionMax caps the scheduling region size. 0 means no cap.
	SchedRegionMax uint

	// Logger receives warnings about unknown names and a debug summary of
	// each resolution. Nil means the logrus standard logger.
	Logger logrus.FieldLogger
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		EarlyIfConversion: true,
	}
}

// OptionsFromEnv returns DefaultOptions overridden by A64TARGET_* variables.
// The environment is re-read on every call.
func OptionsFromEnv() Options {
	env.Load()
	o := DefaultOptions()
	if env.Str(EnvEarlyIfConversion) != "" {
		o.EarlyIfConversion = env.Bool(EnvEarlyIfConversion)
	}
	o.UseAddressTopByteIgnored = env.Bool(EnvUseTBI)
	o.UseNonLazyBind = env.Bool(EnvNonLazyBind)
	o.SVEVectorBitsMin = nonNegative(env.Int(EnvSVEVectorBitsMin, 0))
	o.SVEVectorBitsMax = nonNegative(env.Int(EnvSVEVectorBitsMax, 0))
	o.SchedRegionMax = nonNegative(env.Int(EnvSchedRegionMax, 0))
	return o
}

// VerboseFromEnv reports whether A64TARGET_VERBOSE is set to a true value
func VerboseFromEnv() bool {
	env.Load()
	return env.Bool(EnvVerbose)
}

func nonNegative(n int) uint {
	if n < 0 {
		return 0
	}
	return uint(n)
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}
