// Package extract scans parsed source units for top-level public function
// declarations and turns them into unvalidated FunctionCandidates.
//
// Only items that are function-shaped and carry plain `pub` visibility
// become candidates; every other top-level item kind is skipped silently.
// All qualifiers, the linkage string, raw attribute text, generic parameter
// counts, and the raw parameter/return type nodes are preserved for the
// validation engine to rule on. Discovery order is preserved.
package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigcat/internal/loader"
)

// Extract returns the function candidates declared at the top level of unit,
// in declaration order.
func Extract(unit *loader.SourceUnit) []*FunctionCandidate {
	var candidates []*FunctionCandidate

	// Attributes are siblings preceding the item they annotate; collect them
	// until the next non-comment item is seen.
	var pendingAttrs []string

	root := unit.Root
	for i := uint(0); i < root.NamedChildCount(); i++ {
		item := root.NamedChild(i)
		switch item.Kind() {
		case "attribute_item":
			pendingAttrs = append(pendingAttrs, nodeText(item, unit.Source))
		case "line_comment", "block_comment":
			// Comments between an attribute and its item do not detach it.
		case "function_item":
			if c := newCandidate(item, unit, pendingAttrs); c != nil {
				candidates = append(candidates, c)
			}
			pendingAttrs = nil
		default:
			pendingAttrs = nil
		}
	}

	return candidates
}

// FilterIgnored drops candidates whose identifier appears in the ignore set.
// Order is preserved. A nil or empty set returns the input unchanged.
func FilterIgnored(candidates []*FunctionCandidate, ignored map[string]struct{}) []*FunctionCandidate {
	if len(ignored) == 0 {
		return candidates
	}
	kept := make([]*FunctionCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := ignored[c.Ident]; skip {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// newCandidate builds a FunctionCandidate from a function_item node, or nil
// when the item is not plain `pub`.
func newCandidate(node *sitter.Node, unit *loader.SourceUnit, attrs []string) *FunctionCandidate {
	if !isPublic(node, unit.Source) {
		return nil
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	c := &FunctionCandidate{
		Ident: nodeText(nameNode, unit.Source),
		File:  unit.RelPath,
		Line:  int(node.StartPosition().Row) + 1,
		Attrs: attrs,
	}

	extractModifiers(node, unit.Source, c)
	extractGenerics(node, unit.Source, c)
	extractParameters(node, unit.Source, c)

	if retNode := node.ChildByFieldName("return_type"); retNode != nil {
		c.Return = newTypeNode(retNode, unit.Source)
	}

	return c
}

// isPublic reports whether the item carries exactly `pub` visibility.
// Restricted forms such as `pub(crate)` are not part of the public API.
func isPublic(node *sitter.Node, source []byte) bool {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "visibility_modifier" {
			return nodeText(child, source) == "pub"
		}
	}
	return false
}

// extractModifiers records const/async/unsafe qualifiers and the declared
// linkage string from the function_modifiers clause.
func extractModifiers(node *sitter.Node, source []byte, c *FunctionCandidate) {
	mods := findChild(node, "function_modifiers")
	if mods == nil {
		return
	}
	for i := uint(0); i < mods.ChildCount(); i++ {
		child := mods.Child(i)
		switch child.Kind() {
		case "const":
			c.IsConst = true
		case "async":
			c.IsAsync = true
		case "unsafe":
			c.IsUnsafe = true
		case "extern_modifier":
			// `extern "C"` carries a string literal; a bare `extern`
			// declares no linkage string at all.
			if lit := findChild(child, "string_literal"); lit != nil {
				c.Linkage = strings.Trim(nodeText(lit, source), `"`)
			}
		}
	}
}

// extractGenerics counts generic parameters by flavor. The node kinds for
// type parameters vary across grammar revisions, so anything that is neither
// a lifetime nor a const parameter counts as a type parameter.
func extractGenerics(node *sitter.Node, source []byte, c *FunctionCandidate) {
	params := node.ChildByFieldName("type_parameters")
	if params == nil {
		return
	}
	c.GenericsText = nodeText(params, source)
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		kind := child.Kind()
		switch {
		case strings.Contains(kind, "lifetime"):
			c.LifetimeParams++
		case kind == "const_parameter":
			c.ConstParams++
		case kind == "attribute_item":
			// Attributes on generic parameters are not parameters.
		default:
			c.TypeParams++
		}
	}
}

// extractParameters collects parameter type nodes in positional order and
// notes a variadic parameter if present.
func extractParameters(node *sitter.Node, source []byte, c *FunctionCandidate) {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "parameter":
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				c.Params = append(c.Params, newTypeNode(typeNode, source))
			}
		case "variadic_parameter":
			c.VariadicText = nodeText(child, source)
		case "attribute_item", "line_comment", "block_comment":
			// Skipped.
		default:
			// self parameters and other unexpected shapes surface to the
			// validator as raw nodes so they fail the whitelist check
			// rather than vanish.
			c.Params = append(c.Params, newTypeNode(child, source))
		}
	}
}

// newTypeNode converts a syntax type node into a raw TypeNode, descending
// one level into pointer types.
func newTypeNode(node *sitter.Node, source []byte) *TypeNode {
	t := &TypeNode{
		Text: nodeText(node, source),
		Kind: node.Kind(),
	}
	if t.Kind == "pointer_type" {
		t.Mutable = findChild(node, "mutable_specifier") != nil
		if elem := node.ChildByFieldName("type"); elem != nil {
			t.Elem = newTypeNode(elem, source)
		}
	}
	return t
}

// nodeText extracts the text content of a syntax node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findChild finds the first child node with the given kind, anonymous
// children included.
func findChild(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}
