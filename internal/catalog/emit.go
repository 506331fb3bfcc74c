package catalog

import (
	"encoding/json"
	"fmt"
	"io"
)

// Record is the structured form of one validated signature handed to
// generation targets. Field names are the contract consumed by the external
// generators (benchmark harness, conformance tests, bindings).
type Record struct {
	ID      string   `json:"id"`
	APIKind string   `json:"api_kind"`
	ArgTys  []string `json:"arg_tys"`
	ArgIDs  []string `json:"arg_ids"`
	RetTy   string   `json:"ret_ty,omitempty"`
}

// Generator consumes the ordered record stream of one extraction pass.
// Several generators can be fed from a single pass without re-parsing.
type Generator interface {
	// Name identifies the target in errors and logs.
	Name() string
	// Generate consumes the full ordered record stream.
	Generate(records []Record) error
}

// Records synthesizes one Record per signature: positional parameter names
// x0, x1, ... are generated; everything else maps through verbatim, order
// preserved exactly.
func (c *Catalog) Records() []Record {
	records := make([]Record, 0, len(c.Signatures))
	for _, sig := range c.Signatures {
		rec := Record{
			ID:      sig.Ident,
			APIKind: sig.APIKind,
			ArgTys:  make([]string, 0, len(sig.Args)),
			ArgIDs:  make([]string, 0, len(sig.Args)),
		}
		for i, arg := range sig.Args {
			rec.ArgTys = append(rec.ArgTys, arg.Repr)
			rec.ArgIDs = append(rec.ArgIDs, fmt.Sprintf("x%d", i))
		}
		if sig.Ret != nil {
			rec.RetTy = sig.Ret.Repr
		}
		records = append(records, rec)
	}
	return records
}

// Emit feeds the catalog's record stream to each generator in turn. The
// first failing generator aborts emission.
func (c *Catalog) Emit(generators ...Generator) error {
	records := c.Records()
	for _, g := range generators {
		if err := g.Generate(records); err != nil {
			return fmt.Errorf("%s target failed: %w", g.Name(), err)
		}
	}
	return nil
}

// jsonDocument is the top-level shape of the JSON generation target.
type jsonDocument struct {
	Functions []Record `json:"functions"`
}

// JSONTarget writes the catalog as a single deterministic JSON document.
type JSONTarget struct {
	W io.Writer
}

// NewJSONTarget creates a JSON generation target writing to w.
func NewJSONTarget(w io.Writer) *JSONTarget {
	return &JSONTarget{W: w}
}

func (t *JSONTarget) Name() string {
	return "json"
}

// Generate writes the record stream as an indented JSON document followed by
// a trailing newline. Identical input yields byte-identical output.
func (t *JSONTarget) Generate(records []Record) error {
	doc := jsonDocument{Functions: records}
	if doc.Functions == nil {
		doc.Functions = []Record{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	data = append(data, '\n')

	if _, err := t.W.Write(data); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
