// Package pipeline wires the extraction stages into one batch pass:
// loader -> extractor -> validation engine -> catalog. A run is synchronous
// and single-threaded; it terminates with either a complete catalog
// (possibly with recorded validation errors) or an aborting load failure.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/maypok86/otter"

	"sigcat/internal/catalog"
	"sigcat/internal/extract"
	"sigcat/internal/loader"
	"sigcat/internal/validate"
)

// ErrValidationFailed is returned by Run in strict mode when any validation
// error was recorded. The catalog is still fully produced.
var ErrValidationFailed = errors.New("validation errors recorded")

// defaultCacheSize bounds the per-file extraction cache used across watch
// re-runs.
const defaultCacheSize = 4096

// Progress receives pipeline lifecycle notifications. All methods are called
// from the run goroutine; implementations need no locking.
type Progress interface {
	OnDiscoveryComplete(files int)
	OnFileProcessingStart(total int)
	OnFileProcessed(path string)
	OnComplete(signatures, validationErrors int)
}

// noopProgress is used when the caller supplies no reporter.
type noopProgress struct{}

func (noopProgress) OnDiscoveryComplete(int)   {}
func (noopProgress) OnFileProcessingStart(int) {}
func (noopProgress) OnFileProcessed(string)    {}
func (noopProgress) OnComplete(int, int)       {}

// Options configures a Pipeline.
type Options struct {
	// Root is the library source tree to catalog.
	Root string
	// Extensions are the recognized source extensions (".rs" when empty).
	Extensions []string
	// IgnorePaths are glob patterns for paths excluded from discovery.
	IgnorePaths []string
	// IgnoreFunctions are identifiers dropped before validation.
	IgnoreFunctions map[string]struct{}
	// Strict makes Run fail when any validation error was recorded.
	Strict bool
	// Diagnostics enables per-error diagnostic lines.
	Diagnostics bool
	// DiagnosticWriter receives diagnostic lines, os.Stderr when nil.
	DiagnosticWriter io.Writer
	// Progress receives lifecycle notifications, may be nil.
	Progress Progress
}

// Result is the outcome of one pipeline run.
type Result struct {
	Catalog *catalog.Catalog
	Errors  []*validate.Error
}

// Pipeline runs the extraction pass. It is reusable across runs; unchanged
// files are not re-extracted thanks to a content-addressed candidate cache,
// which is what keeps watch-mode re-runs cheap.
type Pipeline struct {
	opts     Options
	loader   *loader.Loader
	engine   *validate.Engine
	progress Progress
	cache    otter.Cache[string, []*extract.FunctionCandidate]
}

// New creates a Pipeline for opts.
func New(opts Options) (*Pipeline, error) {
	l, err := loader.New(opts.Root, opts.Extensions, opts.IgnorePaths)
	if err != nil {
		return nil, fmt.Errorf("failed to create source loader: %w", err)
	}

	cache, err := otter.MustBuilder[string, []*extract.FunctionCandidate](defaultCacheSize).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction cache: %w", err)
	}

	progress := opts.Progress
	if progress == nil {
		progress = noopProgress{}
	}

	return &Pipeline{
		opts:   opts,
		loader: l,
		engine: validate.NewEngine(validate.Options{
			Diagnostics:      opts.Diagnostics,
			DiagnosticWriter: opts.DiagnosticWriter,
		}),
		progress: progress,
		cache:    cache,
	}, nil
}

// Close releases the extraction cache.
func (p *Pipeline) Close() {
	p.cache.Close()
}

// Run executes one complete pass over the source tree. Load failures abort
// immediately with a nil Result: no partial catalog is produced when the
// tree itself is unreadable or unparsable. Validation errors never abort;
// in strict mode they surface as ErrValidationFailed next to the complete
// Result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	paths, err := p.loader.Discover()
	if err != nil {
		return nil, err
	}
	p.progress.OnDiscoveryComplete(len(paths))
	p.progress.OnFileProcessingStart(len(paths))

	var candidates []*extract.FunctionCandidate
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileCands, err := p.extractFile(path)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, fileCands...)
		p.progress.OnFileProcessed(path)
	}

	candidates = extract.FilterIgnored(candidates, p.opts.IgnoreFunctions)

	cat, errs := p.engine.Validate(candidates)
	p.progress.OnComplete(cat.Len(), len(errs))

	result := &Result{Catalog: cat, Errors: errs}
	if p.opts.Strict && len(errs) > 0 {
		return result, fmt.Errorf("%d %w", len(errs), ErrValidationFailed)
	}
	return result, nil
}

// extractFile returns the candidates of one file, reusing the cached result
// when the file content is unchanged.
func (p *Pipeline) extractFile(path string) ([]*extract.FunctionCandidate, error) {
	source, err := p.loader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(source)
	key := path + ":" + hex.EncodeToString(digest[:])
	if cands, ok := p.cache.Get(key); ok {
		return cands, nil
	}

	unit, err := p.loader.Parse(path, source)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	cands := extract.Extract(unit)
	p.cache.Set(key, cands)
	return cands, nil
}
