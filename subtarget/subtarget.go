// Completion: 100% - Subtarget facade complete
package subtarget

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/xyproto/a64target/feature"
	"github.com/xyproto/a64target/internal/engine"
	"github.com/xyproto/a64target/triple"
)

// subtarget.go - The resolved target handed to the rest of the back end
//
// A Subtarget is built once from a Config and never changes afterwards, so
// one instance can be shared by every function compiled for the same CPU and
// feature combination, from any number of goroutines.

// Config is everything needed to resolve a subtarget
type Config struct {
	CPU      string
	TuneCPU  string // empty means the same as CPU
	Features feature.Set
	Triple   triple.Triple
	// BigEndian forces big-endian output; aarch64_be triples imply it
	BigEndian  bool
	CodeModel  CodeModel
	RelocModel RelocModel
	PIE        bool
	Options    Options
	// FeaturesReported skips the unknown feature warnings because the
	// caller already diagnosed the modifier string
	FeaturesReported bool
}

// capabilities lets Subtarget embed the table without exposing a writable
// exported field
type capabilities = Capabilities

// Subtarget answers every question the back end asks about the target.
// All capability accessors of the table are available directly on it.
type Subtarget struct {
	*capabilities

	cpu          string
	tuneCPU      string
	features     feature.Set
	ctx          TargetContext
	littleEndian bool
	opts         Options
}

// New resolves a subtarget. It never fails: unknown CPU and feature names
// fall back to the generic processor and no-ops, with a logged warning.
func New(cfg Config) *Subtarget {
	log := cfg.Options.logger()

	r := resolve(cfg.CPU, cfg.TuneCPU, cfg.Features, cfg.Triple)
	if !r.cpuKnown {
		warnUnknown(log, "cpu", cfg.CPU, Processors())
	}
	if !r.tuneKnown && cfg.TuneCPU != cfg.CPU && cfg.TuneCPU != "" {
		warnUnknown(log, "tune-cpu", cfg.TuneCPU, Processors())
	}
	reported := mapset.NewThreadUnsafeSet[string]()
	for _, name := range r.unknownNames {
		if !cfg.FeaturesReported && reported.Add(name) {
			warnUnknown(log, "feature", name, KnownFeatures())
		}
	}

	caps := r.caps
	st := &Subtarget{
		capabilities: &caps,
		cpu:          r.cpu.Name,
		tuneCPU:      r.tune.Name,
		features:     cfg.Features.Clone(),
		ctx: TargetContext{
			Triple:     cfg.Triple,
			CodeModel:  cfg.CodeModel,
			RelocModel: cfg.RelocModel,
			PIE:        cfg.PIE,
		},
		littleEndian: !cfg.BigEndian && cfg.Triple.IsLittleEndian(),
		opts:         cfg.Options,
	}

	log.WithFields(logrus.Fields{
		"cpu":      st.cpu,
		"tune":     st.tuneCPU,
		"family":   caps.Family(),
		"triple":   cfg.Triple.String(),
		"features": cfg.Features.Len(),
		"reserved": caps.NumXRegisterReserved(),
	}).Debug("resolved subtarget")

	return st
}

func warnUnknown(log logrus.FieldLogger, what, name string, candidates []string) {
	entry := log.WithField(what, name)
	if s := engine.Suggest(name, candidates); s != "" {
		entry = entry.WithField("suggestion", s)
	}
	if what == "feature" {
		entry.Warn("unknown feature ignored")
		return
	}
	entry.Warnf("unknown %s, using %q", what, GenericCPU)
}

// CPU returns the resolved processor name ("generic" for unknown names)
func (st *Subtarget) CPU() string { return st.cpu }

// TuneCPU returns the resolved tuning processor name
func (st *Subtarget) TuneCPU() string { return st.tuneCPU }

// Features returns a copy of the feature set the subtarget was built with
func (st *Subtarget) Features() feature.Set { return st.features.Clone() }

// Context returns the target context used by the reference classifier
func (st *Subtarget) Context() TargetContext { return st.ctx }

// Options returns the code generator options
func (st *Subtarget) Options() Options { return st.opts }

// Capabilities returns a deep copy of the resolved table
func (st *Subtarget) Capabilities() Capabilities {
	return st.capabilities.clone()
}

// TargetTriple returns the target triple
func (st *Subtarget) TargetTriple() triple.Triple { return st.ctx.Triple }

func (st *Subtarget) IsLittleEndian() bool { return st.littleEndian }

func (st *Subtarget) IsTargetDarwin() bool     { return st.ctx.Triple.IsOSDarwin() }
func (st *Subtarget) IsTargetIOS() bool        { return st.ctx.Triple.IsiOS() }
func (st *Subtarget) IsTargetLinux() bool      { return st.ctx.Triple.IsOSLinux() }
func (st *Subtarget) IsTargetWindows() bool    { return st.ctx.Triple.IsOSWindows() }
func (st *Subtarget) IsTargetAndroid() bool    { return st.ctx.Triple.IsAndroid() }
func (st *Subtarget) IsTargetFuchsia() bool    { return st.ctx.Triple.IsOSFuchsia() }
func (st *Subtarget) IsTargetCOFF() bool       { return st.ctx.Triple.IsOSBinFormatCOFF() }
func (st *Subtarget) IsTargetELF() bool        { return st.ctx.Triple.IsOSBinFormatELF() }
func (st *Subtarget) IsTargetMachO() bool      { return st.ctx.Triple.IsOSBinFormatMachO() }
func (st *Subtarget) IsTargetILP32() bool      { return st.ctx.Triple.IsArch32Bit() }
func (st *Subtarget) UseSmallAddressing() bool { return st.ctx.UseSmallAddressing() }

// AddrSinkUsingGEPs keeps address computations in inbounds form so ILP32
// can still use the AArch64 addressing modes
func (st *Subtarget) AddrSinkUsingGEPs() bool {
	return st.UseAA() || st.IsTargetILP32()
}

// ClassifyGlobalReference returns how a data reference to sym is materialized
func (st *Subtarget) ClassifyGlobalReference(sym Symbol) ReferenceClass {
	return classifyGlobalReference(st.capabilities, sym, st.ctx)
}

// ClassifyGlobalFunctionReference returns how a call or address-of for the
// function sym is materialized
func (st *Subtarget) ClassifyGlobalFunctionReference(sym Symbol) ReferenceClass {
	return classifyGlobalFunctionReference(st.capabilities, st.opts, sym, st.ctx)
}

// ClassifyTLSReference returns the TLS access model for sym
func (st *Subtarget) ClassifyTLSReference(sym Symbol) TLSModel {
	return classifyTLSReference(sym, st.ctx)
}

// Advise returns the scheduling advice for a region of the requested size
func (st *Subtarget) Advise(requestedRegion uint) SchedulingAdvice {
	return advise(st.capabilities, st.opts, requestedRegion)
}

func (st *Subtarget) EnableMachineScheduler() bool    { return true }
func (st *Subtarget) EnablePostRAScheduler() bool     { return st.UsePostRAScheduler() }
func (st *Subtarget) EnableEarlyIfConversion() bool   { return st.opts.EarlyIfConversion }
func (st *Subtarget) EnableAdvancedRASplitCost() bool { return true }

// RegisterConstraints returns the allocator's hard constraints
func (st *Subtarget) RegisterConstraints() RegisterConstraints {
	return registerConstraints(st.capabilities)
}

// VectorCosts returns the vectorizer cost model inputs
func (st *Subtarget) VectorCosts() VectorCosts {
	return vectorCosts(st.capabilities, st.opts)
}

// MinSVEVectorSizeInBits returns the known lower bound of the SVE register
// width, or 0 if nothing beyond the architecture is known
func (st *Subtarget) MinSVEVectorSizeInBits() uint {
	return minSVEVectorSizeInBits(st.capabilities, st.opts)
}

// MaxSVEVectorSizeInBits returns the known upper bound, or 0
func (st *Subtarget) MaxSVEVectorSizeInBits() uint {
	return maxSVEVectorSizeInBits(st.capabilities, st.opts)
}

// SupportsAddressTopByteIgnored returns true if the top byte of a pointer is
// ignored by loads and stores
func (st *Subtarget) SupportsAddressTopByteIgnored() bool {
	return supportsAddressTopByteIgnored(st.opts, st.ctx.Triple)
}

// IsCallingConvWin64 returns true if cc follows the Windows rules here
func (st *Subtarget) IsCallingConvWin64(cc CallingConv) bool {
	return isCallingConvWin64(cc, st.ctx.Triple)
}

// CalleeSavedXRegs returns the registers a callee using cc must preserve
func (st *Subtarget) CalleeSavedXRegs(cc CallingConv) []uint {
	return calleeSavedXRegs(st.capabilities, cc)
}

func (st *Subtarget) String() string {
	return fmt.Sprintf("%s (tune %s, %s) on %s", st.cpu, st.tuneCPU, st.Family(), st.ctx.Triple)
}
