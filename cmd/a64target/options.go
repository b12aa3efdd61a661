// Completion: 100% - Target flags complete
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/xyproto/a64target/feature"
	"github.com/xyproto/a64target/subtarget"
	"github.com/xyproto/a64target/triple"
)

// targetOptions are the flags shared by every subcommand that resolves a
// subtarget. Flags override the A64TARGET_* environment.
type targetOptions struct {
	cpu        string
	tuneCPU    string
	mattr      string
	triple     string
	codeModel  string
	relocModel string
	pie        bool
	bigEndian  bool
	verbose    bool
	color      bool

	earlyIfConversion bool
	useTBI            bool
	nonLazyBind       bool
	sveBitsMin        uint
	sveBitsMax        uint
	schedRegionMax    uint

	flags *pflag.FlagSet
}

func newTargetOptions() *targetOptions {
	return &targetOptions{}
}

func (o *targetOptions) installFlags(flags *pflag.FlagSet) {
	o.flags = flags

	flags.StringVar(&o.cpu, "cpu", "", "Target CPU (\"native\" for the host, empty for generic)")
	flags.StringVar(&o.tuneCPU, "tune-cpu", "", "CPU to tune for (defaults to --cpu)")
	flags.StringVar(&o.mattr, "mattr", "", "Feature modifiers, e.g. +lse,-fuse-aes")
	flags.StringVar(&o.triple, "triple", triple.Host().String(), "Target triple")
	flags.StringVar(&o.codeModel, "code-model", "small", "Code model: tiny, small, kernel, medium, large")
	flags.StringVar(&o.relocModel, "reloc", "static", "Relocation model: static, pic, dynamic-no-pic")
	flags.BoolVar(&o.pie, "pie", false, "Produce a position independent executable")
	flags.BoolVar(&o.bigEndian, "big-endian", false, "Force big-endian output")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Log resolution details")
	flags.BoolVar(&o.color, "color", false, "Colorize diagnostics")

	flags.BoolVar(&o.earlyIfConversion, "early-ifcvt", true, "Enable the early if-converter")
	flags.BoolVar(&o.useTBI, "use-tbi", false, "Assume top-byte-ignore where the OS provides it")
	flags.BoolVar(&o.nonLazyBind, "enable-nonlazybind", false, "Call nonlazybind functions through the GOT")
	flags.UintVar(&o.sveBitsMin, "sve-vector-bits-min", 0, "Known minimum SVE register width (0 = unknown)")
	flags.UintVar(&o.sveBitsMax, "sve-vector-bits-max", 0, "Known maximum SVE register width (0 = unknown)")
	flags.UintVar(&o.schedRegionMax, "sched-region-max", 0, "Cap on the scheduling region size (0 = none)")
	_ = flags.MarkHidden("early-ifcvt")
	_ = flags.MarkHidden("use-tbi")
	_ = flags.MarkHidden("enable-nonlazybind")
}

// options merges the environment with explicitly set flags
func (o *targetOptions) options() subtarget.Options {
	opts := subtarget.OptionsFromEnv()
	if o.flags == nil {
		return opts
	}
	if o.flags.Changed("early-ifcvt") {
		opts.EarlyIfConversion = o.earlyIfConversion
	}
	if o.flags.Changed("use-tbi") {
		opts.UseAddressTopByteIgnored = o.useTBI
	}
	if o.flags.Changed("enable-nonlazybind") {
		opts.UseNonLazyBind = o.nonLazyBind
	}
	if o.flags.Changed("sve-vector-bits-min") {
		opts.SVEVectorBitsMin = o.sveBitsMin
	}
	if o.flags.Changed("sve-vector-bits-max") {
		opts.SVEVectorBitsMax = o.sveBitsMax
	}
	if o.flags.Changed("sched-region-max") {
		opts.SchedRegionMax = o.schedRegionMax
	}
	opts.Logger = logrus.StandardLogger()
	return opts
}

// config turns the flags into a subtarget configuration. Feature warnings
// are written to diag once; malformed modifiers and unknown model names are
// errors.
func (o *targetOptions) config(diag io.Writer) (subtarget.Config, error) {
	features, diags, err := feature.Parse(o.mattr, subtarget.KnownFeatures())
	if err != nil {
		return subtarget.Config{}, errors.Wrap(err, "invalid --mattr")
	}
	if len(diags) > 0 {
		fmt.Fprint(diag, feature.Report(diags, o.color))
	}

	cm, ok := subtarget.ParseCodeModel(o.codeModel)
	if !ok {
		return subtarget.Config{}, errors.Errorf("unknown code model %q", o.codeModel)
	}
	rm, ok := subtarget.ParseRelocModel(o.relocModel)
	if !ok {
		return subtarget.Config{}, errors.Errorf("unknown relocation model %q", o.relocModel)
	}

	return subtarget.Config{
		CPU:        o.cpu,
		TuneCPU:    o.tuneCPU,
		Features:   features,
		Triple:     triple.Parse(o.triple),
		BigEndian:  o.bigEndian,
		CodeModel:  cm,
		RelocModel: rm,
		PIE:        o.pie,
		Options:    o.options(),

		FeaturesReported: len(diags) > 0,
	}, nil
}

func (o *targetOptions) resolve(diag io.Writer) (*subtarget.Subtarget, error) {
	cfg, err := o.config(diag)
	if err != nil {
		return nil, err
	}
	return subtarget.New(cfg), nil
}

func formatRegs(regs []uint) string {
	if len(regs) == 0 {
		return "none"
	}
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = subtarget.RegName(r)
	}
	return strings.Join(names, " ")
}
