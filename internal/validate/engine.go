// Package validate decides which extracted candidates are legitimate
// library API entries.
//
// Every candidate is checked against the full rule set - no rule
// short-circuits, so a single candidate can record several violations. A
// candidate failing any rule is excluded from the catalog; its errors are
// still reported. The engine therefore always yields the (possibly empty)
// catalog plus the full error list, and errors alone never halt catalog
// production.
package validate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"sigcat/internal/catalog"
	"sigcat/internal/extract"
)

// foreignABI is the linkage string a catalog entry must declare: the public
// surface must match the C calling convention.
const foreignABI = "C"

// Options configures a validation pass.
type Options struct {
	// Diagnostics enables per-error diagnostic lines on DiagnosticWriter.
	// Reporting only; the recorded error list is unaffected.
	Diagnostics bool
	// DiagnosticWriter receives diagnostic lines, os.Stderr when nil.
	DiagnosticWriter io.Writer
}

// Engine applies the validation rule set to function candidates.
type Engine struct {
	diagnostics bool
	out         io.Writer
}

// NewEngine creates a validation engine.
func NewEngine(opts Options) *Engine {
	out := opts.DiagnosticWriter
	if out == nil {
		out = os.Stderr
	}
	return &Engine{
		diagnostics: opts.Diagnostics,
		out:         out,
	}
}

// Validate runs every rule over every candidate, in order. It returns the
// catalog of passing signatures (discovery order preserved) together with
// every recorded error.
func (e *Engine) Validate(candidates []*extract.FunctionCandidate) (*catalog.Catalog, []*Error) {
	cat := &catalog.Catalog{}
	var all []*Error

	for _, c := range candidates {
		sig, errs := e.validateOne(c)
		if len(errs) > 0 {
			all = append(all, errs...)
			continue
		}
		cat.Append(*sig)
	}

	return cat, all
}

// validateOne applies all rules to a single candidate. A nil signature means
// at least one rule fired.
func (e *Engine) validateOne(c *extract.FunctionCandidate) (*catalog.ValidatedSignature, []*Error) {
	var errs []*Error
	record := func(kind ErrorKind, format string, args ...any) {
		err := &Error{Kind: kind, Ident: c.Ident, Message: fmt.Sprintf(format, args...)}
		errs = append(errs, err)
		if e.diagnostics {
			fmt.Fprintln(e.out, err.Error())
		}
	}

	// ABI: without an explicit C linkage the symbol is not ABI compatible
	// with the C library surface.
	if c.Linkage != foreignABI {
		record(NotForeignAbi, "not `extern \"C\"`")
	}

	if c.IsConst {
		record(IsConst, "is const")
	}
	if c.IsAsync {
		record(IsAsync, "is async")
	}
	if c.IsUnsafe {
		record(IsUnsafe, "is unsafe")
	}

	if c.Variadic() {
		record(HasVariadic, "contains variadic arguments %q", c.VariadicText)
	}

	// Generic parameters of any flavor have no place in a C-shaped API.
	if c.TypeParams != 0 {
		record(HasGenericTypeParam, "contains generic parameters %q", c.GenericsText)
	}
	if c.LifetimeParams != 0 {
		record(HasLifetimeParam, "contains lifetime parameters %q", c.GenericsText)
	}
	if c.ConstParams != 0 {
		record(HasConstParam, "contains const parameters %q", c.GenericsText)
	}

	if len(c.Attrs) == 0 {
		record(MissingInlineMarker, "missing `#[inline]` and `#[no_panic]` attributes")
		record(MissingNoPanicMarker, "missing `#[no_panic]` attributes")
	} else {
		attrs := strings.Join(c.Attrs, ",")
		if !strings.Contains(attrs, "inline") {
			record(MissingInlineMarker, "missing `#[inline]` attribute")
		}
		if !strings.Contains(attrs, "no_panic") {
			record(MissingNoPanicMarker, "missing `#[no_panic]` attributes")
		}
	}

	sig := &catalog.ValidatedSignature{Ident: c.Ident}

	if c.Return != nil {
		if ValidType(c.Return) {
			ret := checkedType(c.Return)
			sig.Ret = &ret
		} else {
			record(UnsupportedReturnType, "returns unsupported type %s", c.Return.Text)
		}
	}

	for _, arg := range c.Params {
		if ValidType(arg) {
			sig.Args = append(sig.Args, checkedType(arg))
		} else {
			record(UnsupportedArgType, "takes unsupported argument type %s", arg.Text)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	kind, err := catalog.Categorize(c.Ident)
	if err != nil {
		// Extraction guarantees non-empty identifiers; reaching this is an
		// internal invariant violation, not a rule failure.
		record(InvalidIdentifier, "has no identifier: %v", err)
		return nil, errs
	}
	sig.APIKind = kind

	return sig, nil
}
