package docnet

import (
	"fmt"

	derrors "github.com/matzehuels/docnet/pkg/errors"
)

// Vertex is the contract a document must honor to live in a [Store].
//
// Applications define their own vertex types by embedding [*Doc], which
// supplies the field bag, identity and default hooks; the embedded type may
// override OnInsert and ReadyForInsertion to hook into the store's
// insertion protocol. The unexported attach method seals the interface to
// types built on Doc, so the store alone controls place assignment.
type Vertex interface {
	// Place returns the vertex identity. 0 means the vertex is not
	// attached to any store.
	Place() int

	// IsInserted reports whether the vertex is attached to a store.
	IsInserted() bool

	// Pack returns an independent, storage-safe snapshot of all fields.
	Pack() Fields

	// OnInsert is invoked by the store exactly once at the moment of
	// attachment, after place assignment but before the insertion is
	// visible to the caller. The base implementation is a no-op.
	OnInsert()

	// ReadyForInsertion is consulted by the store before committing an
	// insertion. Returning false aborts the insert with no mutation.
	// The base implementation always returns true.
	ReadyForInsertion() bool

	attach(place int)
}

// VertexFactory reconstructs a vertex from its packed fields.
// Stores use it during Load to rebuild application-defined vertex types.
type VertexFactory func(Fields) (Vertex, error)

// Doc is the base vertex: an insertion-ordered bag of named fields plus an
// integer identity assigned by a store. A Doc is created detached (place 0),
// becomes attached when a store inserts it, and is detached again on
// removal. The zero value is usable but [NewDoc] is the normal constructor.
type Doc struct {
	place  int
	fields Fields
}

// NewDoc creates a detached document, optionally seeded from init.
// The document holds an independent deep copy of init.
func NewDoc(init map[string]any) *Doc {
	return &Doc{fields: NewFields(init)}
}

// FromFields creates a detached document from a packed field bag.
// This is the reconstruction half of [Doc.Pack]; the document holds an
// independent copy of f.
func FromFields(f Fields) *Doc {
	return &Doc{fields: f.Copy()}
}

// DefaultVertexFactory reconstructs a plain [Doc] from a pack.
// Stores fall back to it when no custom factory is configured.
func DefaultVertexFactory(f Fields) (Vertex, error) {
	return FromFields(f), nil
}

// Place returns the vertex identity; 0 means detached.
func (d *Doc) Place() int { return d.place }

// IsInserted reports whether the document is attached to a store.
func (d *Doc) IsInserted() bool { return d.place != 0 }

// Get returns the value of the named field.
// Returns a FIELD_NOT_FOUND error if the field is absent.
func (d *Doc) Get(name string) (any, error) { return d.fields.Get(name) }

// Set stores value under name. Set always succeeds on the base type;
// vertex types built on Doc may layer validation on top.
func (d *Doc) Set(name string, value any) { d.fields.Set(name, value) }

// Delete removes the named field.
// Returns a FIELD_NOT_FOUND error if the field is absent.
func (d *Doc) Delete(name string) error { return d.fields.Delete(name) }

// Has reports whether the named field exists.
func (d *Doc) Has(name string) bool { return d.fields.Has(name) }

// Names returns the field names in insertion order.
func (d *Doc) Names() []string { return d.fields.Names() }

// Len returns the number of fields.
func (d *Doc) Len() int { return d.fields.Len() }

// Pack returns an independent snapshot of all fields.
func (d *Doc) Pack() Fields { return d.fields.Copy() }

// OnInsert is the insertion hook; the base implementation does nothing.
func (d *Doc) OnInsert() {}

// ReadyForInsertion reports whether the vertex may be inserted.
// The base implementation always agrees.
func (d *Doc) ReadyForInsertion() bool { return true }

func (d *Doc) attach(place int) { d.place = place }

// String renders the document for debugging.
func (d *Doc) String() string {
	return fmt.Sprintf("Doc(place=%d, fields=%d)", d.place, d.fields.Len())
}

// requireVertex rejects nil vertex arguments with a TYPE_MISMATCH error.
// Typed-nil interface values are indistinguishable from live vertices here;
// static typing covers the rest of the original runtime type check.
func requireVertex(v Vertex) error {
	if v == nil {
		return derrors.New(derrors.ErrCodeTypeMismatch, "vertex must not be nil")
	}
	return nil
}

// Ensure Doc implements Vertex.
var _ Vertex = (*Doc)(nil)
