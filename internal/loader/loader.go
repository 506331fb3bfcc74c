// Package loader discovers and parses the source files of a library tree.
//
// Discovery is deterministic: matching files are returned in lexicographic
// path order so that downstream catalog output is reproducible across runs
// on an unchanged tree. Any unreadable or unparsable file aborts the whole
// load - a malformed library tree invalidates the entire extraction, so no
// partial result is ever produced.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// DefaultExtensions are the source extensions recognized when the
// configuration does not override them.
var DefaultExtensions = []string{".rs"}

// LoadError is the fatal error class of the loader: an unreadable file or a
// file the grammar cannot parse. It aborts the run before extraction begins.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SourceUnit is a parsed source file. Units are transient: they are consumed
// by signature extraction and must be closed afterwards to release the
// underlying syntax tree.
type SourceUnit struct {
	// Path is the file path as discovered.
	Path string
	// RelPath is the path relative to the loader root, slash-separated.
	RelPath string
	// Source is the raw file content.
	Source []byte
	// Root is the root node of the parsed syntax tree.
	Root *sitter.Node

	tree *sitter.Tree
}

// Close releases the syntax tree backing this unit.
func (u *SourceUnit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Loader walks a root directory and parses every matching source file with
// the tree-sitter Rust grammar.
type Loader struct {
	root       string
	language   *sitter.Language
	extensions map[string]bool
	ignore     []compiledPattern
}

// New creates a Loader rooted at root. extensions lists the recognized file
// extensions (DefaultExtensions when empty); ignoreGlobs are slash-separated
// glob patterns matched against root-relative paths.
func New(root string, extensions []string, ignoreGlobs []string) (*Loader, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[ext] = true
	}

	l := &Loader{
		root:       root,
		language:   sitter.NewLanguage(rust.Language()),
		extensions: extMap,
	}

	for _, pattern := range ignoreGlobs {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		l.ignore = append(l.ignore, compiledPattern{pattern: pattern, glob: g})
	}

	return l, nil
}

// Discover walks the root and returns the matching file paths in
// lexicographic order. Paths are prefixed with the loader root.
func (l *Loader) Discover() ([]string, error) {
	var paths []string

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &LoadError{Path: path, Err: err}
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(l.root, path)
		if err != nil {
			return &LoadError{Path: path, Err: err}
		}
		relPath = filepath.ToSlash(relPath)

		if l.shouldIgnore(relPath) {
			return nil
		}
		if !l.extensions[filepath.Ext(path)] {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// shouldIgnore reports whether a root-relative path matches an ignore glob.
func (l *Loader) shouldIgnore(relPath string) bool {
	for _, p := range l.ignore {
		if p.glob.Match(relPath) {
			return true
		}
	}
	return false
}

// ReadFile reads one discovered file, wrapping failures as LoadError.
func (l *Loader) ReadFile(path string) ([]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return source, nil
}

// Parse parses source into a SourceUnit. A tree the grammar rejects, or one
// containing syntax errors, is a LoadError.
func (l *Loader) Parse(path string, source []byte) (*SourceUnit, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(l.language); err != nil {
		return nil, fmt.Errorf("failed to configure rust grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("parser produced no syntax tree")}
	}

	root := tree.RootNode()
	if root.HasError() {
		tree.Close()
		return nil, &LoadError{Path: path, Err: fmt.Errorf("source contains syntax errors")}
	}

	relPath, err := filepath.Rel(l.root, path)
	if err != nil {
		relPath = path
	}

	return &SourceUnit{
		Path:    path,
		RelPath: filepath.ToSlash(relPath),
		Source:  source,
		Root:    root,
		tree:    tree,
	}, nil
}

// Load discovers, reads, and parses every matching file under the root in
// one pass. The first failure aborts the load and no units are returned;
// the caller owns closing the returned units otherwise.
func (l *Loader) Load() ([]*SourceUnit, error) {
	paths, err := l.Discover()
	if err != nil {
		return nil, err
	}

	units := make([]*SourceUnit, 0, len(paths))
	for _, path := range paths {
		source, err := l.ReadFile(path)
		if err != nil {
			closeUnits(units)
			return nil, err
		}
		unit, err := l.Parse(path, source)
		if err != nil {
			closeUnits(units)
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

func closeUnits(units []*SourceUnit) {
	for _, u := range units {
		u.Close()
	}
}
