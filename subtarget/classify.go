// Completion: 100% - Reference classifier complete
package subtarget

import (
	"github.com/xyproto/a64target/triple"
)

// classify.go - Global reference classification
//
// Given a symbol and the target context, decide how the code generator must
// materialize the symbol's address: directly (ADRP+ADD or a literal), through
// the GOT, through a COFF import stub, or as a tagged address. Every legal
// input maps to exactly one class.

// CodeModel is the assumed address-range budget for direct references
type CodeModel int

const (
	CodeModelSmall CodeModel = iota
	CodeModelTiny
	CodeModelKernel
	CodeModelMedium
	CodeModelLarge
)

func (m CodeModel) String() string {
	switch m {
	case CodeModelSmall:
		return "small"
	case CodeModelTiny:
		return "tiny"
	case CodeModelKernel:
		return "kernel"
	case CodeModelMedium:
		return "medium"
	case CodeModelLarge:
		return "large"
	default:
		return "unknown"
	}
}

// ParseCodeModel looks up a code model by its String form
func ParseCodeModel(name string) (CodeModel, bool) {
	for m := CodeModelSmall; m <= CodeModelLarge; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return CodeModelSmall, false
}

// RelocModel is the relocation model the object is produced with
type RelocModel int

const (
	RelocStatic RelocModel = iota
	RelocPIC
	RelocDynamicNoPIC
)

func (m RelocModel) String() string {
	switch m {
	case RelocStatic:
		return "static"
	case RelocPIC:
		return "pic"
	case RelocDynamicNoPIC:
		return "dynamic-no-pic"
	default:
		return "unknown"
	}
}

// ParseRelocModel looks up a relocation model by its String form
func ParseRelocModel(name string) (RelocModel, bool) {
	for m := RelocStatic; m <= RelocDynamicNoPIC; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return RelocStatic, false
}

// TargetContext holds the facts about the output that do not come from the
// feature string. It is shared read-only across subtargets.
type TargetContext struct {
	Triple     triple.Triple
	CodeModel  CodeModel
	RelocModel RelocModel
	PIE        bool
}

// IsPositionIndependent returns true for PIC output
func (ctx TargetContext) IsPositionIndependent() bool {
	return ctx.RelocModel == RelocPIC
}

// UseSmallAddressing returns true when ADRP-based direct addressing is
// guaranteed to reach every symbol. The kernel model behaves like small.
func (ctx TargetContext) UseSmallAddressing() bool {
	return ctx.CodeModel == CodeModelSmall || ctx.CodeModel == CodeModelKernel
}

// Linkage of a global symbol
type Linkage int

const (
	LinkageExternal Linkage = iota
	LinkageExternalWeak
	LinkageWeak // weak, linkonce and common definitions
	LinkageInternal
	LinkagePrivate
)

// IsLocal returns true for linkages that never leave the object
func (l Linkage) IsLocal() bool {
	return l == LinkageInternal || l == LinkagePrivate
}

// Visibility of a global symbol
type Visibility int

const (
	VisibilityDefault Visibility = iota
	VisibilityHidden
	VisibilityProtected
)

// TLSModel is the thread-local storage access model
type TLSModel int

// Ordered from most general to most restrictive
const (
	TLSGeneralDynamic TLSModel = iota
	TLSLocalDynamic
	TLSInitialExec
	TLSLocalExec
)

func (m TLSModel) String() string {
	switch m {
	case TLSGeneralDynamic:
		return "general-dynamic"
	case TLSLocalDynamic:
		return "local-dynamic"
	case TLSInitialExec:
		return "initial-exec"
	case TLSLocalExec:
		return "local-exec"
	default:
		return "unknown"
	}
}

// Symbol describes a global value being referenced
type Symbol struct {
	Name        string
	Linkage     Linkage
	Visibility  Visibility
	Declaration bool // no definition in this module
	Function    bool
	ThreadLocal bool
	DLLImport   bool
	DSOLocal    bool // the producer asserted the symbol is DSO-local
	NonLazyBind bool // function attribute: bind at load time, skip the PLT
	// TLSModel is the model requested by the producer. Only a model more
	// restrictive than the computed one is honored.
	TLSModel TLSModel
}

// isStrongDefinition returns true if the linker cannot replace this definition
func (s Symbol) isStrongDefinition() bool {
	if s.Declaration {
		return false
	}
	return s.Linkage != LinkageWeak && s.Linkage != LinkageExternalWeak
}

// AArch64 operand flags, as consumed by the instruction selector
type OperandFlags uint32

const (
	MONoFlag    OperandFlags = 0
	MOCOFFStub  OperandFlags = 0x8
	MOGOT       OperandFlags = 0x10
	MONC        OperandFlags = 0x20
	MOTLS       OperandFlags = 0x40
	MODLLImport OperandFlags = 0x80
	MOTagged    OperandFlags = 0x400
)

// ReferenceClass is the closed set of outcomes of reference classification
type ReferenceClass int

const (
	RefDirect ReferenceClass = iota
	RefGOT
	RefGOTDLLImport
	RefGOTCOFFStub
	RefTagged
)

func (r ReferenceClass) String() string {
	switch r {
	case RefDirect:
		return "direct"
	case RefGOT:
		return "got"
	case RefGOTDLLImport:
		return "got-dllimport"
	case RefGOTCOFFStub:
		return "got-coffstub"
	case RefTagged:
		return "tagged"
	default:
		return "unknown"
	}
}

// Flags returns the operand flags the instruction selector attaches
func (r ReferenceClass) Flags() OperandFlags {
	switch r {
	case RefGOT:
		return MOGOT
	case RefGOTDLLImport:
		return MOGOT | MODLLImport
	case RefGOTCOFFStub:
		return MOGOT | MOCOFFStub
	case RefTagged:
		return MONC | MOTagged
	default:
		return MONoFlag
	}
}

// IsIndirect returns true if the address is loaded from the GOT
func (r ReferenceClass) IsIndirect() bool {
	return r.Flags()&MOGOT != 0
}

// AssumeDSOLocal returns true if the symbol is known to resolve inside the
// linked image, so no indirection is needed to reach it
func AssumeDSOLocal(sym Symbol, ctx TargetContext) bool {
	if sym.DSOLocal || sym.Linkage.IsLocal() {
		return true
	}
	if sym.DLLImport {
		return false
	}

	tt := ctx.Triple

	// MinGW may auto-import variables the linker finds in another DLL
	if tt.IsOSWindows() && tt.Env == triple.EnvGNU && tt.IsOSBinFormatCOFF() &&
		sym.Declaration && !sym.Function {
		return false
	}
	// Unresolved extern_weak symbols become zero, outside the image
	if tt.IsOSBinFormatCOFF() && sym.Linkage == LinkageExternalWeak {
		return false
	}
	if tt.IsOSBinFormatCOFF() || tt.IsOSWindows() {
		return true
	}

	if ctx.IsPositionIndependent() && sym.Linkage == LinkageExternalWeak {
		return false
	}
	if sym.Visibility != VisibilityDefault {
		return true
	}

	if tt.IsOSBinFormatMachO() {
		if ctx.RelocModel == RelocStatic {
			return true
		}
		return sym.isStrongDefinition()
	}

	// ELF: only an executable can assume its own definitions are not preempted
	executable := ctx.RelocModel != RelocPIC || ctx.PIE
	if !executable {
		return false
	}
	if !sym.Declaration {
		return true
	}
	// A nonlazybind function may turn out to be external; the linker would
	// route a direct call through the PLT
	if sym.Function && sym.NonLazyBind {
		return false
	}
	// Copy relocations make declared data local in static executables
	return !sym.ThreadLocal && ctx.RelocModel != RelocPIC
}

// classifyGlobalReference is the data ladder shared by both entry points
func classifyGlobalReference(c *Capabilities, sym Symbol, ctx TargetContext) ReferenceClass {
	tt := ctx.Triple

	// Mach-O large model always goes via the GOT to get a single 8-byte
	// absolute relocation for every global address
	if ctx.CodeModel == CodeModelLarge && tt.IsOSBinFormatMachO() {
		return RefGOT
	}

	if !AssumeDSOLocal(sym, ctx) {
		if sym.DLLImport {
			return RefGOTDLLImport
		}
		if tt.IsOSWindows() {
			return RefGOTCOFFStub
		}
		return RefGOT
	}

	// ADRP cannot produce 0 when the code is above 4GB, and the tiny model's
	// PC-relative LDR cannot either
	if (ctx.UseSmallAddressing() || ctx.CodeModel == CodeModelTiny) &&
		sym.Linkage == LinkageExternalWeak {
		return RefGOT
	}

	// Tagged globals are materialized with ADRP+MOVK+ADD; functions are not tagged
	if c.allowTaggedGlobals && !sym.Function {
		return RefTagged
	}

	return RefDirect
}

// classifyGlobalFunctionReference is the function ladder
func classifyGlobalFunctionReference(c *Capabilities, opts Options, sym Symbol, ctx TargetContext) ReferenceClass {
	tt := ctx.Triple

	// Mach-O large model has no other relocations available
	if ctx.CodeModel == CodeModelLarge && tt.IsOSBinFormatMachO() && !sym.Linkage.IsLocal() {
		return RefGOT
	}

	if opts.UseNonLazyBind && sym.Function && sym.NonLazyBind && !AssumeDSOLocal(sym, ctx) {
		return RefGOT
	}

	// Windows needs the data ladder for dllimport and COFF stubs
	if tt.IsOSWindows() {
		return classifyGlobalReference(c, sym, ctx)
	}

	return RefDirect
}

// classifyTLSReference picks the TLS access model
func classifyTLSReference(sym Symbol, ctx TargetContext) TLSModel {
	sharedLibrary := ctx.RelocModel == RelocPIC && !ctx.PIE
	local := AssumeDSOLocal(sym, ctx)

	var model TLSModel
	switch {
	case sharedLibrary && local:
		model = TLSLocalDynamic
	case sharedLibrary:
		model = TLSGeneralDynamic
	case local:
		model = TLSLocalExec
	default:
		model = TLSInitialExec
	}

	if sym.TLSModel > model {
		return sym.TLSModel
	}
	return model
}
