// Completion: 100% - Subcommands complete
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/xyproto/a64target/subtarget"
)

// commands.go - resolve, classify, advise, cpus and features subcommands

func newResolveCommand(opts *targetOptions) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a subtarget and print its capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.resolve(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runResolve(cmd.OutOrStdout(), st, dump)
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the full capability table")
	return cmd
}

func runResolve(w io.Writer, st *subtarget.Subtarget, dump bool) error {
	if dump {
		caps := st.Capabilities()
		spew.Fdump(w, caps)
		return nil
	}

	endian := "little"
	if !st.IsLittleEndian() {
		endian = "big"
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "cpu\t%s\n", st.CPU())
	fmt.Fprintf(tw, "tune\t%s\n", st.TuneCPU())
	fmt.Fprintf(tw, "family\t%s\n", st.Family())
	fmt.Fprintf(tw, "triple\t%s\n", st.TargetTriple())
	fmt.Fprintf(tw, "endian\t%s\n", endian)
	fmt.Fprintf(tw, "features\t%s\n", orNone(st.Features().String()))
	fmt.Fprintf(tw, "arch\t%s\n", orNone(strings.Join(revisions(st), " ")))
	fmt.Fprintf(tw, "fusion\t%t\n", st.HasFusion())
	fmt.Fprintf(tw, "reserved\t%s\n", formatRegs(st.ReservedXRegisters()))
	fmt.Fprintf(tw, "callee-saved\t%s\n", formatRegs(st.CustomCalleeSavedXRegisters()))
	fmt.Fprintf(tw, "cache-line\t%d\n", st.CacheLineSize())
	fmt.Fprintf(tw, "prefetch\t%d (stride %d, ahead %d)\n",
		st.PrefetchDistance(), st.MinPrefetchStride(), st.MaxPrefetchIterationsAhead())
	fmt.Fprintf(tw, "interleave\t%d\n", st.MaxInterleaveFactor())
	fmt.Fprintf(tw, "alignment\tfunction 2^%d, loop 2^%d\n", st.PrefFunctionLogAlignment(), st.PrefLoopLogAlignment())
	if n := st.MaximumJumpTableSize(); n > 0 {
		fmt.Fprintf(tw, "jump-tables\t%d\n", n)
	}
	return tw.Flush()
}

func revisions(st *subtarget.Subtarget) []string {
	var out []string
	checks := []struct {
		name string
		has  bool
	}{
		{"v8.1a", st.HasV8_1aOps()},
		{"v8.2a", st.HasV8_2aOps()},
		{"v8.3a", st.HasV8_3aOps()},
		{"v8.4a", st.HasV8_4aOps()},
		{"v8.5a", st.HasV8_5aOps()},
		{"v8.6a", st.HasV8_6aOps()},
		{"v8r", st.HasV8_0rOps()},
	}
	for _, c := range checks {
		if c.has {
			out = append(out, c.name)
		}
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

type symbolFlags struct {
	function    bool
	declaration bool
	threadLocal bool
	dllImport   bool
	dsoLocal    bool
	nonLazyBind bool
	linkage     string
	visibility  string
	tlsModel    string
}

func newClassifyCommand(opts *targetOptions) *cobra.Command {
	var sf symbolFlags
	cmd := &cobra.Command{
		Use:   "classify SYMBOL",
		Short: "Classify how a reference to a global symbol is materialized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sym, err := sf.symbol(args[0])
			if err != nil {
				return err
			}
			st, err := opts.resolve(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runClassify(cmd.OutOrStdout(), st, sym)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&sf.function, "function", false, "The symbol is a function")
	flags.BoolVar(&sf.declaration, "declaration", false, "The symbol is only declared in this module")
	flags.BoolVar(&sf.threadLocal, "thread-local", false, "The symbol is thread-local")
	flags.BoolVar(&sf.dllImport, "dllimport", false, "The symbol is imported from a DLL")
	flags.BoolVar(&sf.dsoLocal, "dso-local", false, "The symbol is known to be DSO-local")
	flags.BoolVar(&sf.nonLazyBind, "nonlazybind", false, "The function is bound at load time")
	flags.StringVar(&sf.linkage, "linkage", "external", "Linkage: external, extern_weak, weak, internal, private")
	flags.StringVar(&sf.visibility, "visibility", "default", "Visibility: default, hidden, protected")
	flags.StringVar(&sf.tlsModel, "tls-model", "general-dynamic", "Requested TLS model")
	return cmd
}

var (
	linkageNames = map[string]subtarget.Linkage{
		"external":    subtarget.LinkageExternal,
		"extern_weak": subtarget.LinkageExternalWeak,
		"weak":        subtarget.LinkageWeak,
		"linkonce":    subtarget.LinkageWeak,
		"common":      subtarget.LinkageWeak,
		"internal":    subtarget.LinkageInternal,
		"private":     subtarget.LinkagePrivate,
	}
	visibilityNames = map[string]subtarget.Visibility{
		"default":   subtarget.VisibilityDefault,
		"hidden":    subtarget.VisibilityHidden,
		"protected": subtarget.VisibilityProtected,
	}
	tlsModelNames = map[string]subtarget.TLSModel{
		"general-dynamic": subtarget.TLSGeneralDynamic,
		"local-dynamic":   subtarget.TLSLocalDynamic,
		"initial-exec":    subtarget.TLSInitialExec,
		"local-exec":      subtarget.TLSLocalExec,
	}
)

func (sf symbolFlags) symbol(name string) (subtarget.Symbol, error) {
	linkage, ok := linkageNames[sf.linkage]
	if !ok {
		return subtarget.Symbol{}, errors.Errorf("unknown linkage %q", sf.linkage)
	}
	visibility, ok := visibilityNames[sf.visibility]
	if !ok {
		return subtarget.Symbol{}, errors.Errorf("unknown visibility %q", sf.visibility)
	}
	model, ok := tlsModelNames[sf.tlsModel]
	if !ok {
		return subtarget.Symbol{}, errors.Errorf("unknown TLS model %q", sf.tlsModel)
	}
	return subtarget.Symbol{
		Name:        name,
		Linkage:     linkage,
		Visibility:  visibility,
		Declaration: sf.declaration,
		Function:    sf.function,
		ThreadLocal: sf.threadLocal,
		DLLImport:   sf.dllImport,
		DSOLocal:    sf.dsoLocal,
		NonLazyBind: sf.nonLazyBind,
		TLSModel:    model,
	}, nil
}

func runClassify(w io.Writer, st *subtarget.Subtarget, sym subtarget.Symbol) error {
	var ref subtarget.ReferenceClass
	if sym.Function {
		ref = st.ClassifyGlobalFunctionReference(sym)
	} else {
		ref = st.ClassifyGlobalReference(sym)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "symbol\t%s\n", sym.Name)
	fmt.Fprintf(tw, "dso-local\t%t\n", subtarget.AssumeDSOLocal(sym, st.Context()))
	fmt.Fprintf(tw, "reference\t%s\n", ref)
	fmt.Fprintf(tw, "flags\t%#x\n", uint32(ref.Flags()))
	if sym.ThreadLocal {
		fmt.Fprintf(tw, "tls-model\t%s\n", st.ClassifyTLSReference(sym))
	}
	return tw.Flush()
}

func newAdviseCommand(opts *targetOptions) *cobra.Command {
	var (
		region   uint
		callConv string
	)
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Print scheduling, register and vector cost advice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, ok := subtarget.ParseCallingConv(callConv)
			if !ok {
				return errors.Errorf("unknown calling convention %q", callConv)
			}
			st, err := opts.resolve(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runAdvise(cmd.OutOrStdout(), st, region, cc)
		},
	}
	flags := cmd.Flags()
	flags.UintVar(&region, "region", 100, "Requested scheduling region size")
	flags.StringVar(&callConv, "callconv", "c", "Calling convention for the callee-saved list")
	return cmd
}

func runAdvise(w io.Writer, st *subtarget.Subtarget, region uint, cc subtarget.CallingConv) error {
	advice := st.Advise(region)
	rc := st.RegisterConstraints()
	vc := st.VectorCosts()

	var direction []string
	if advice.Policy.OnlyTopDown {
		direction = append(direction, "top-down")
	}
	if advice.Policy.OnlyBottomUp {
		direction = append(direction, "bottom-up")
	}
	if len(direction) == 0 {
		direction = append(direction, "bidirectional")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "sched.region\t%d\n", advice.RegionSize)
	fmt.Fprintf(tw, "sched.direction\t%s\n", strings.Join(direction, ","))
	fmt.Fprintf(tw, "sched.latency-heuristic\t%t\n", !advice.Policy.DisableLatencyHeuristic)
	fmt.Fprintf(tw, "sched.simple-ordering\t%t\n", advice.UseSimpleOrdering)
	fmt.Fprintf(tw, "sched.machine\t%t\n", advice.EnableMachineScheduler)
	fmt.Fprintf(tw, "sched.post-ra\t%t\n", advice.EnablePostRAScheduler)
	fmt.Fprintf(tw, "early-ifcvt\t%t\n", advice.EnableEarlyIfConversion)
	fmt.Fprintf(tw, "ra.split-cost\t%t\n", advice.EnableAdvancedRASplitCost)
	fmt.Fprintf(tw, "ra.balance-fp\t%t\n", rc.BalanceFPChains)
	fmt.Fprintf(tw, "ra.reserved\t%s\n", formatRegs(rc.Reserved()))
	fmt.Fprintf(tw, "ra.allocatable\t%s\n", formatRegs(rc.Allocatable()))
	fmt.Fprintf(tw, "cc.%s.win64\t%t\n", cc, st.IsCallingConvWin64(cc))
	fmt.Fprintf(tw, "cc.%s.callee-saved\t%s\n", cc, formatRegs(st.CalleeSavedXRegs(cc)))
	fmt.Fprintf(tw, "vec.min-width\t%d\n", vc.MinVectorRegisterBitWidth)
	fmt.Fprintf(tw, "vec.interleave\t%d\n", vc.MaxInterleaveFactor)
	fmt.Fprintf(tw, "vec.insert-extract\t%d\n", vc.VectorInsertExtractBaseCost)
	fmt.Fprintf(tw, "vec.widening\t%d\n", vc.WideningBaseCost)
	fmt.Fprintf(tw, "vec.sve\t%d..%d\n", vc.MinSVEVectorSizeInBits, vc.MaxSVEVectorSizeInBits)
	fmt.Fprintf(tw, "tbi\t%t\n", st.SupportsAddressTopByteIgnored())
	return tw.Flush()
}

func newCPUsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cpus",
		Short: "List known CPUs and their tuning families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range subtarget.Processors() {
				fmt.Fprintf(tw, "%s\t%s\n", name, subtarget.ResolveFamily(name))
			}
			return tw.Flush()
		},
	}
}

func newFeaturesCommand(opts *targetOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List known features, or the defaults of --cpu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeatures(cmd.OutOrStdout(), opts.cpu)
		},
	}
}

func runFeatures(w io.Writer, cpu string) error {
	names := subtarget.KnownFeatures()
	if cpu != "" {
		p, ok := subtarget.LookupProcessor(cpu)
		if !ok {
			return errors.Errorf("unknown CPU %q", cpu)
		}
		names = p.Features
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		kind, _ := subtarget.KindOf(name)
		fmt.Fprintf(tw, "%s\t%s\n", name, kind)
	}
	return tw.Flush()
}
