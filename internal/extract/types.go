package extract

// TypeNode is the raw, unvalidated shape of a parameter or return type as it
// appears in source. Pointer types carry their pointee one level down; the
// validator decides whether the shape is acceptable.
type TypeNode struct {
	// Text is the verbatim source text, e.g. "f64" or "*mut f64".
	Text string
	// Kind is the syntax node kind, e.g. "primitive_type", "pointer_type".
	Kind string
	// Mutable is set for "*mut" pointer types.
	Mutable bool
	// Elem is the pointee for pointer types, nil otherwise.
	Elem *TypeNode
}

// Pointer reports whether the node is a raw pointer type.
func (t *TypeNode) Pointer() bool {
	return t.Kind == "pointer_type"
}

// FunctionCandidate is the raw metadata of one top-level public function
// declaration, prior to validation. It exists only within a single
// extraction+validation pass.
type FunctionCandidate struct {
	// Ident is the function identifier.
	Ident string
	// File is the root-relative path of the declaring file.
	File string
	// Line is the 1-based line of the declaration.
	Line int

	// Linkage is the declared ABI string ("C" for `extern "C"`), empty when
	// the declaration carries no linkage string.
	Linkage string

	IsConst  bool
	IsAsync  bool
	IsUnsafe bool

	// Attrs holds the verbatim text of each attribute attached to the
	// declaration, in source order.
	Attrs []string

	// Generic parameter counts by flavor.
	TypeParams     int
	LifetimeParams int
	ConstParams    int
	// GenericsText is the verbatim `<...>` clause, empty when absent.
	GenericsText string

	// Params are the declared parameter types in positional order.
	Params []*TypeNode
	// VariadicText is the verbatim variadic parameter ("..."), empty when
	// the declaration is not variadic.
	VariadicText string
	// Return is the declared return type, nil when the function returns
	// nothing.
	Return *TypeNode
}

// Variadic reports whether the candidate declares a variadic parameter.
func (c *FunctionCandidate) Variadic() bool {
	return c.VariadicText != ""
}
