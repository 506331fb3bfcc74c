// Package catalog holds the validated signature catalog and its emission
// machinery: category derivation, record synthesis, and the pluggable
// generation targets that consume the record stream.
package catalog

// Type is a validated parameter or return type. Every Type is either one of
// the whitelisted primitive numeric types or a single-level raw pointer to
// one; no other shape survives validation.
type Type struct {
	// Repr is the verbatim source representation, e.g. "f64" or "*mut f64".
	Repr string
	// Primitive is the underlying numeric type, equal to Repr for
	// non-pointers.
	Primitive string
	// Pointer is set for single-level pointer types.
	Pointer bool
	// Mutable is set for "*mut" pointers.
	Mutable bool
}

// ValidatedSignature is one public API function that passed every
// validation rule.
type ValidatedSignature struct {
	// Ident is the function identifier.
	Ident string
	// APIKind is the category tag derived from the identifier.
	APIKind string
	// Args are the parameter types in positional order.
	Args []Type
	// Ret is the return type, nil for functions returning nothing.
	Ret *Type
}

// Catalog is the ordered sequence of validated signatures. Order is file
// discovery order (lexicographic path), then in-file declaration order, and
// is byte-identical across runs on unchanged input.
type Catalog struct {
	Signatures []ValidatedSignature
}

// Len returns the number of cataloged signatures.
func (c *Catalog) Len() int {
	return len(c.Signatures)
}

// Append adds a signature, preserving insertion order.
func (c *Catalog) Append(sig ValidatedSignature) {
	c.Signatures = append(c.Signatures, sig)
}
