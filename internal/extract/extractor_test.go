package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigcat/internal/loader"
)

// Test Plan for Extract:
// - Produces one candidate per top-level `pub fn`, in declaration order
// - Skips private, pub(crate), nested, and non-function items silently
// - Captures the linkage string from `extern "C"` and leaves it empty
//   otherwise
// - Captures const/async/unsafe qualifiers
// - Attaches consecutive preceding attributes, doc comments in between
//   notwithstanding
// - Counts generic type/lifetime/const parameters separately
// - Preserves raw parameter and return type nodes, pointer pointees
//   included
// - Flags variadic declarations
// - FilterIgnored drops exactly the named identifiers, preserving order

func parseSource(t *testing.T, source string) *loader.SourceUnit {
	t.Helper()
	l, err := loader.New(".", nil, nil)
	require.NoError(t, err)
	unit, err := l.Parse("test.rs", []byte(source))
	require.NoError(t, err)
	t.Cleanup(unit.Close)
	return unit
}

func TestExtract_ValidDeclaration(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
#[inline]
#[no_panic]
pub extern "C" fn cos(x: f64) -> f64 {
    x
}
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "cos", c.Ident)
	assert.Equal(t, "C", c.Linkage)
	assert.False(t, c.IsConst)
	assert.False(t, c.IsAsync)
	assert.False(t, c.IsUnsafe)
	assert.Equal(t, []string{"#[inline]", "#[no_panic]"}, c.Attrs)
	assert.Zero(t, c.TypeParams)
	assert.Zero(t, c.LifetimeParams)
	assert.Zero(t, c.ConstParams)
	assert.False(t, c.Variadic())

	require.Len(t, c.Params, 1)
	assert.Equal(t, "f64", c.Params[0].Text)
	assert.Equal(t, "primitive_type", c.Params[0].Kind)

	require.NotNil(t, c.Return)
	assert.Equal(t, "f64", c.Return.Text)
}

func TestExtract_SkipsNonPublicAndNonFunctions(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
pub struct Bits { pub word: u64 }

pub const PI: f64 = 3.141592653589793;

fn private(x: f64) -> f64 { x }

pub(crate) fn restricted(x: f64) -> f64 { x }

mod detail {
    pub fn nested(x: f64) -> f64 { x }
}

pub fn visible(x: f64) -> f64 { x }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 1)
	assert.Equal(t, "visible", candidates[0].Ident)
}

func TestExtract_DeclarationOrder(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
pub fn third_first(x: f64) -> f64 { x }
pub fn alpha(x: f64) -> f64 { x }
pub fn zeta(x: f64) -> f64 { x }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 3)
	assert.Equal(t, "third_first", candidates[0].Ident)
	assert.Equal(t, "alpha", candidates[1].Ident)
	assert.Equal(t, "zeta", candidates[2].Ident)
}

func TestExtract_Qualifiers(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
pub const fn frozen(x: f64) -> f64 { x }
pub async fn eventual(x: f64) -> f64 { x }
pub unsafe fn dangerous(x: f64) -> f64 { x }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 3)

	assert.True(t, candidates[0].IsConst)
	assert.False(t, candidates[0].IsAsync)

	assert.True(t, candidates[1].IsAsync)

	assert.True(t, candidates[2].IsUnsafe)
	assert.Empty(t, candidates[2].Linkage)
}

func TestExtract_LinkageString(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
pub extern "C" fn with_c(x: f64) -> f64 { x }
pub extern "system" fn with_system(x: f64) -> f64 { x }
pub fn without(x: f64) -> f64 { x }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 3)
	assert.Equal(t, "C", candidates[0].Linkage)
	assert.Equal(t, "system", candidates[1].Linkage)
	assert.Empty(t, candidates[2].Linkage)
}

func TestExtract_AttributesSurviveDocComments(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
#[inline]
// implementation detail note
#[no_panic]
pub fn documented(x: f64) -> f64 { x }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 1)
	assert.Equal(t, []string{"#[inline]", "#[no_panic]"}, candidates[0].Attrs)
}

func TestExtract_AttributesDoNotLeakAcrossItems(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
#[inline]
pub struct Carrier;

pub fn bare(x: f64) -> f64 { x }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 1)
	assert.Empty(t, candidates[0].Attrs)
}

func TestExtract_GenericCounts(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
pub fn generic<T>(x: f64) -> f64 { x }
pub fn borrowed<'a>(x: &'a f64) -> f64 { *x }
pub fn sized<const N: usize>(x: f64) -> f64 { x }
pub fn mixed<'a, T, const N: usize>(x: f64) -> f64 { x }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 4)

	assert.Equal(t, 1, candidates[0].TypeParams)
	assert.Equal(t, "<T>", candidates[0].GenericsText)

	assert.Equal(t, 1, candidates[1].LifetimeParams)
	assert.Zero(t, candidates[1].TypeParams)

	assert.Equal(t, 1, candidates[2].ConstParams)

	assert.Equal(t, 1, candidates[3].TypeParams)
	assert.Equal(t, 1, candidates[3].LifetimeParams)
	assert.Equal(t, 1, candidates[3].ConstParams)
}

func TestExtract_PointerTypes(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
pub fn sincos(x: f64, s: *mut f64, c: *const f64) { }
pub fn indirect(x: *mut *mut f64) { }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 2)

	params := candidates[0].Params
	require.Len(t, params, 3)
	assert.Equal(t, "primitive_type", params[0].Kind)

	require.True(t, params[1].Pointer())
	assert.True(t, params[1].Mutable)
	assert.Equal(t, "*mut f64", params[1].Text)
	require.NotNil(t, params[1].Elem)
	assert.Equal(t, "f64", params[1].Elem.Text)

	require.True(t, params[2].Pointer())
	assert.False(t, params[2].Mutable)
	require.NotNil(t, params[2].Elem)
	assert.Equal(t, "f64", params[2].Elem.Text)

	// Pointer-to-pointer keeps its nested shape for the validator.
	nested := candidates[1].Params[0]
	require.True(t, nested.Pointer())
	require.NotNil(t, nested.Elem)
	assert.True(t, nested.Elem.Pointer())

	assert.Nil(t, candidates[0].Return, "unit return must stay nil")
}

func TestExtract_Variadic(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, `
pub fn open_ended(x: f64, ...) -> f64 { x }
`)

	candidates := Extract(unit)
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].Variadic())
	assert.Equal(t, "...", candidates[0].VariadicText)
	require.Len(t, candidates[0].Params, 1)
}

func TestExtract_FileAndLine(t *testing.T) {
	t.Parallel()

	unit := parseSource(t, "\n\npub fn low(x: f64) -> f64 { x }\n")

	candidates := Extract(unit)
	require.Len(t, candidates, 1)
	assert.Equal(t, "test.rs", candidates[0].File)
	assert.Equal(t, 3, candidates[0].Line)
}

func TestFilterIgnored(t *testing.T) {
	t.Parallel()

	candidates := []*FunctionCandidate{
		{Ident: "sin"},
		{Ident: "j0"},
		{Ident: "cos"},
	}

	kept := FilterIgnored(candidates, map[string]struct{}{"j0": {}})
	require.Len(t, kept, 2)
	assert.Equal(t, "sin", kept[0].Ident)
	assert.Equal(t, "cos", kept[1].Ident)

	// Nil set keeps everything.
	assert.Len(t, FilterIgnored(candidates, nil), 3)
}
