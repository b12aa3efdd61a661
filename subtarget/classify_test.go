package subtarget

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"pgregory.net/rapid"

	"github.com/xyproto/a64target/feature"
	"github.com/xyproto/a64target/triple"
)

func ctxFor(tt string, cm CodeModel, rm RelocModel, pie bool) TargetContext {
	return TargetContext{Triple: triple.Parse(tt), CodeModel: cm, RelocModel: rm, PIE: pie}
}

var externalData = Symbol{Name: "counter", Declaration: true}

func TestPICExternalDataUsesGOT(t *testing.T) {
	ctx := ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, false)
	c := Build(Others, feature.Set{})

	class := classifyGlobalReference(&c, externalData, ctx)
	assert.Check(t, is.Equal(class, RefGOT))
	assert.Check(t, is.Equal(class.Flags(), MOGOT))
	assert.Check(t, class.IsIndirect())
}

func TestClassifyGlobalReference(t *testing.T) {
	tests := []struct {
		name string
		sym  Symbol
		ctx  TargetContext
		want ReferenceClass
	}{
		{
			name: "static executable declared data",
			sym:  externalData,
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocStatic, false),
			want: RefDirect,
		},
		{
			name: "pie definition",
			sym:  Symbol{Name: "table"},
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, true),
			want: RefDirect,
		},
		{
			name: "pie declaration",
			sym:  externalData,
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, true),
			want: RefGOT,
		},
		{
			name: "shared library hidden data",
			sym:  Symbol{Name: "h", Visibility: VisibilityHidden, Declaration: true},
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, false),
			want: RefDirect,
		},
		{
			name: "shared library preemptible definition",
			sym:  Symbol{Name: "g"},
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, false),
			want: RefGOT,
		},
		{
			name: "internal linkage",
			sym:  Symbol{Name: "s", Linkage: LinkageInternal},
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, false),
			want: RefDirect,
		},
		{
			name: "static extern weak",
			sym:  Symbol{Name: "w", Linkage: LinkageExternalWeak, Declaration: true},
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocStatic, false),
			want: RefGOT,
		},
		{
			name: "large model extern weak stays direct on ELF",
			sym:  Symbol{Name: "w", Linkage: LinkageExternalWeak, Declaration: true},
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelLarge, RelocStatic, false),
			want: RefDirect,
		},
		{
			name: "macho large model",
			sym:  Symbol{Name: "local", Linkage: LinkageInternal},
			ctx:  ctxFor("arm64-apple-macosx11.0", CodeModelLarge, RelocPIC, false),
			want: RefGOT,
		},
		{
			name: "macho small strong definition",
			sym:  Symbol{Name: "d"},
			ctx:  ctxFor("arm64-apple-ios14.0", CodeModelSmall, RelocPIC, false),
			want: RefDirect,
		},
		{
			name: "macho small weak definition",
			sym:  Symbol{Name: "d", Linkage: LinkageWeak},
			ctx:  ctxFor("arm64-apple-ios14.0", CodeModelSmall, RelocPIC, false),
			want: RefGOT,
		},
		{
			name: "windows dllimport",
			sym:  Symbol{Name: "imp", Declaration: true, DLLImport: true},
			ctx:  ctxFor("aarch64-pc-windows-msvc", CodeModelSmall, RelocStatic, false),
			want: RefGOTDLLImport,
		},
		{
			name: "windows msvc declaration",
			sym:  externalData,
			ctx:  ctxFor("aarch64-pc-windows-msvc", CodeModelSmall, RelocStatic, false),
			want: RefDirect,
		},
		{
			name: "mingw auto-import",
			sym:  externalData,
			ctx:  ctxFor("aarch64-pc-windows-gnu", CodeModelSmall, RelocStatic, false),
			want: RefGOTCOFFStub,
		},
		{
			name: "mingw32 triple auto-import",
			sym:  externalData,
			ctx:  ctxFor("aarch64-w64-mingw32", CodeModelSmall, RelocStatic, false),
			want: RefGOTCOFFStub,
		},
		{
			name: "windows extern weak",
			sym:  Symbol{Name: "w", Linkage: LinkageExternalWeak, Declaration: true, Function: true},
			ctx:  ctxFor("aarch64-pc-windows-msvc", CodeModelSmall, RelocStatic, false),
			want: RefGOTCOFFStub,
		},
		{
			name: "explicit dso_local",
			sym:  Symbol{Name: "l", Declaration: true, DSOLocal: true},
			ctx:  ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, false),
			want: RefDirect,
		},
	}

	c := Build(Others, feature.Set{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Check(t, is.Equal(classifyGlobalReference(&c, tc.sym, tc.ctx), tc.want))
		})
	}
}

func TestTaggedGlobals(t *testing.T) {
	c := Build(Others, feature.Enable("tagged-globals"))
	ctx := ctxFor("aarch64-linux-android", CodeModelSmall, RelocPIC, true)

	data := Symbol{Name: "buf"}
	assert.Check(t, is.Equal(classifyGlobalReference(&c, data, ctx), RefTagged))
	assert.Check(t, is.Equal(RefTagged.Flags(), MONC|MOTagged))

	fn := Symbol{Name: "f", Function: true}
	assert.Check(t, is.Equal(classifyGlobalReference(&c, fn, ctx), RefDirect))

	// Indirection still wins over tagging
	assert.Check(t, is.Equal(classifyGlobalReference(&c, externalData, ctx), RefGOT))
}

func TestClassifyGlobalFunctionReference(t *testing.T) {
	c := Build(Others, feature.Set{})
	elfPIC := ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, false)
	callee := Symbol{Name: "puts", Declaration: true, Function: true}

	// Calls go through the PLT, never the GOT
	assert.Check(t, is.Equal(classifyGlobalFunctionReference(&c, Options{}, callee, elfPIC), RefDirect))

	nonlazy := callee
	nonlazy.NonLazyBind = true
	assert.Check(t, is.Equal(classifyGlobalFunctionReference(&c, Options{}, nonlazy, elfPIC), RefDirect))
	assert.Check(t, is.Equal(classifyGlobalFunctionReference(&c, Options{UseNonLazyBind: true}, nonlazy, elfPIC), RefGOT))

	machoLarge := ctxFor("arm64-apple-macosx11.0", CodeModelLarge, RelocPIC, false)
	assert.Check(t, is.Equal(classifyGlobalFunctionReference(&c, Options{}, callee, machoLarge), RefGOT))
	local := Symbol{Name: "helper", Function: true, Linkage: LinkagePrivate}
	assert.Check(t, is.Equal(classifyGlobalFunctionReference(&c, Options{}, local, machoLarge), RefDirect))

	win := ctxFor("aarch64-pc-windows-msvc", CodeModelSmall, RelocStatic, false)
	imp := Symbol{Name: "MessageBoxW", Declaration: true, Function: true, DLLImport: true}
	assert.Check(t, is.Equal(classifyGlobalFunctionReference(&c, Options{}, imp, win), RefGOTDLLImport))
	assert.Check(t, is.Equal(classifyGlobalFunctionReference(&c, Options{}, callee, win), RefDirect))
}

func TestClassifyTLSReference(t *testing.T) {
	def := Symbol{Name: "tls", ThreadLocal: true}
	decl := Symbol{Name: "errno", ThreadLocal: true, Declaration: true}
	hidden := Symbol{Name: "tls", ThreadLocal: true, Visibility: VisibilityHidden}

	shared := ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, false)
	pie := ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocPIC, true)
	static := ctxFor("aarch64-unknown-linux-gnu", CodeModelSmall, RelocStatic, false)

	tests := []struct {
		name string
		sym  Symbol
		ctx  TargetContext
		want TLSModel
	}{
		{"shared preemptible", def, shared, TLSGeneralDynamic},
		{"shared hidden", hidden, shared, TLSLocalDynamic},
		{"pie definition", def, pie, TLSLocalExec},
		{"pie declaration", decl, pie, TLSInitialExec},
		{"static definition", def, static, TLSLocalExec},
		{"static declaration", decl, static, TLSInitialExec},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Check(t, is.Equal(classifyTLSReference(tc.sym, tc.ctx), tc.want))
		})
	}

	// A more restrictive preference is honored, a weaker one is not
	prefIE := def
	prefIE.TLSModel = TLSInitialExec
	assert.Check(t, is.Equal(classifyTLSReference(prefIE, shared), TLSInitialExec))
	prefGD := def
	prefGD.TLSModel = TLSGeneralDynamic
	assert.Check(t, is.Equal(classifyTLSReference(prefGD, pie), TLSLocalExec))
}

func TestUseSmallAddressing(t *testing.T) {
	for cm, want := range map[CodeModel]bool{
		CodeModelSmall:  true,
		CodeModelKernel: true,
		CodeModelTiny:   false,
		CodeModelMedium: false,
		CodeModelLarge:  false,
	} {
		ctx := TargetContext{CodeModel: cm}
		assert.Check(t, is.Equal(ctx.UseSmallAddressing(), want), cm.String())
	}
}

var testTriples = []string{
	"aarch64-unknown-linux-gnu",
	"aarch64-linux-android",
	"arm64-apple-ios14.0",
	"arm64-apple-macosx11.0",
	"aarch64-pc-windows-msvc",
	"aarch64-pc-windows-gnu",
	"aarch64-unknown-fuchsia",
	"aarch64-none-elf",
}

func TestClassifierIsTotal(t *testing.T) {
	valid := map[ReferenceClass]bool{
		RefDirect: true, RefGOT: true, RefGOTDLLImport: true, RefGOTCOFFStub: true, RefTagged: true,
	}
	rapid.Check(t, func(t *rapid.T) {
		ctx := TargetContext{
			Triple:     triple.Parse(rapid.SampledFrom(testTriples).Draw(t, "triple")),
			CodeModel:  CodeModel(rapid.IntRange(int(CodeModelSmall), int(CodeModelLarge)).Draw(t, "code-model")),
			RelocModel: RelocModel(rapid.IntRange(int(RelocStatic), int(RelocDynamicNoPIC)).Draw(t, "reloc-model")),
			PIE:        rapid.Bool().Draw(t, "pie"),
		}
		sym := Symbol{
			Name:        "sym",
			Linkage:     Linkage(rapid.IntRange(int(LinkageExternal), int(LinkagePrivate)).Draw(t, "linkage")),
			Visibility:  Visibility(rapid.IntRange(int(VisibilityDefault), int(VisibilityProtected)).Draw(t, "visibility")),
			Declaration: rapid.Bool().Draw(t, "declaration"),
			Function:    rapid.Bool().Draw(t, "function"),
			ThreadLocal: rapid.Bool().Draw(t, "thread-local"),
			DLLImport:   rapid.Bool().Draw(t, "dllimport"),
			DSOLocal:    rapid.Bool().Draw(t, "dso-local"),
			NonLazyBind: rapid.Bool().Draw(t, "nonlazybind"),
			TLSModel:    TLSModel(rapid.IntRange(int(TLSGeneralDynamic), int(TLSLocalExec)).Draw(t, "tls-model")),
		}
		c := Build(Others, feature.NewSet(feature.Entry{Name: "tagged-globals", Enabled: rapid.Bool().Draw(t, "tagged")}))
		opts := Options{UseNonLazyBind: rapid.Bool().Draw(t, "opt-nonlazybind")}

		data := classifyGlobalReference(&c, sym, ctx)
		fn := classifyGlobalFunctionReference(&c, opts, sym, ctx)
		if !valid[data] || !valid[fn] {
			t.Fatalf("classes out of range: data=%v fn=%v", data, fn)
		}
		if data.String() == "unknown" || fn.String() == "unknown" {
			t.Fatalf("class without a name: data=%d fn=%d", data, fn)
		}
		// Repeating the query gives the same answer
		if again := classifyGlobalReference(&c, sym, ctx); again != data {
			t.Fatalf("classification changed: %v then %v", data, again)
		}
		if model := classifyTLSReference(sym, ctx); model < sym.TLSModel {
			t.Fatalf("TLS model %v is weaker than the requested %v", model, sym.TLSModel)
		}
	})
}
