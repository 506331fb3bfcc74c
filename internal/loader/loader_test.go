package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Loader:
// - Discovers matching files in lexicographic path order
// - Discovery is stable across repeated runs
// - Files with unrecognized extensions are not discovered
// - Glob ignore patterns exclude paths before extension matching
// - Parses well-formed Rust sources into units with a usable root node
// - Syntax errors produce a LoadError and abort Load entirely
// - Missing root directory produces a LoadError

const libmTree = "../../testdata/rust/libm/src"

func TestLoader_DiscoverOrder(t *testing.T) {
	t.Parallel()

	l, err := New(libmTree, nil, nil)
	require.NoError(t, err)

	paths, err := l.Discover()
	require.NoError(t, err)
	require.Len(t, paths, 5)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"bessel.rs", "cos.rs", "invalid.rs", "scalbn.rs", "support.rs"}, names)

	// Re-running on the unchanged tree yields the identical sequence.
	again, err := l.Discover()
	require.NoError(t, err)
	assert.Equal(t, paths, again)
}

func TestLoader_DiscoverSkipsUnrecognizedExtensions(t *testing.T) {
	t.Parallel()

	l, err := New("../../testdata/rust/libm", nil, []string{"target/**"})
	require.NoError(t, err)

	paths, err := l.Discover()
	require.NoError(t, err)

	for _, p := range paths {
		assert.Equal(t, ".rs", filepath.Ext(p), "non-source file discovered: %s", p)
	}
}

func TestLoader_IgnoreGlobs(t *testing.T) {
	t.Parallel()

	// target/generated.rs is deliberately unparsable; if the ignore glob
	// did not exclude it, Load would abort.
	l, err := New("../../testdata/rust/libm", nil, []string{"target/**"})
	require.NoError(t, err)

	units, err := l.Load()
	require.NoError(t, err)
	defer closeUnits(units)

	require.Len(t, units, 5)
	for _, u := range units {
		assert.NotContains(t, u.RelPath, "target/")
	}
}

func TestLoader_InvalidIgnorePattern(t *testing.T) {
	t.Parallel()

	_, err := New(libmTree, nil, []string{"[unclosed"})
	require.Error(t, err)
}

func TestLoader_ParseProducesTree(t *testing.T) {
	t.Parallel()

	l, err := New(libmTree, nil, nil)
	require.NoError(t, err)

	source := []byte("#[inline]\npub extern \"C\" fn sin(x: f64) -> f64 { x }\n")
	unit, err := l.Parse("sin.rs", source)
	require.NoError(t, err)
	defer unit.Close()

	require.NotNil(t, unit.Root)
	assert.Equal(t, "source_file", unit.Root.Kind())
	assert.Equal(t, source, unit.Source)
}

func TestLoader_ParseSyntaxError(t *testing.T) {
	t.Parallel()

	l, err := New(".", nil, nil)
	require.NoError(t, err)

	_, err = l.Parse("bad.rs", []byte("pub fn broken(x: f64 -> f64 {"))
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "bad.rs", loadErr.Path)
}

func TestLoader_LoadAbortsOnBrokenTree(t *testing.T) {
	t.Parallel()

	l, err := New("../../testdata/rust/broken", nil, nil)
	require.NoError(t, err)

	units, err := l.Load()
	require.Error(t, err)
	assert.Nil(t, units, "no partial result on load failure")

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoader_MissingRoot(t *testing.T) {
	t.Parallel()

	l, err := New(filepath.Join(t.TempDir(), "does-not-exist"), nil, nil)
	require.NoError(t, err)

	_, err = l.Discover()
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoader_ExtensionNormalization(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.rs"), []byte("pub fn f() {}\n"), 0o644))

	// Extensions may be given with or without the leading dot.
	l, err := New(dir, []string{"rs"}, nil)
	require.NoError(t, err)

	paths, err := l.Discover()
	require.NoError(t, err)
	require.Len(t, paths, 1)
}
