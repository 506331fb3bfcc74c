package validate

import (
	"sigcat/internal/catalog"
	"sigcat/internal/extract"
)

// primitives is the closed set of numeric types permitted in catalog
// signatures: fixed-width signed/unsigned integers (plus the pointer-width
// pair) and the two IEEE floating-point widths.
var primitives = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "usize": true,
	"f32": true, "f64": true,
}

// ValidType reports whether a raw type node satisfies the whitelist: a
// primitive numeric type, or a pointer with exactly one level of indirection
// whose pointee is itself a primitive. The recursion is bounded to depth two
// by construction.
func ValidType(t *extract.TypeNode) bool {
	if t == nil {
		return false
	}
	if t.Pointer() {
		if t.Elem == nil || t.Elem.Pointer() {
			// Only one layer of pointers allowed.
			return false
		}
		return ValidType(t.Elem)
	}
	return primitives[t.Text]
}

// checkedType converts a whitelisted raw node into a catalog Type, carrying
// the source representation verbatim.
func checkedType(t *extract.TypeNode) catalog.Type {
	ct := catalog.Type{
		Repr:      t.Text,
		Primitive: t.Text,
		Pointer:   t.Pointer(),
		Mutable:   t.Mutable,
	}
	if t.Pointer() && t.Elem != nil {
		ct.Primitive = t.Elem.Text
	}
	return ct
}
