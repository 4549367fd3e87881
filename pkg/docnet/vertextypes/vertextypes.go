// Package vertextypes ships ready-made vertex types built on the docnet
// extension points. They double as reference implementations for
// applications defining their own types: embed [*docnet.Doc], override the
// hooks you need, and provide a factory so [docnet.Store] can reconstruct
// the type from a snapshot.
package vertextypes

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/docnet/pkg/docnet"
	derrors "github.com/matzehuels/docnet/pkg/errors"
)

// Field names written by StampedVertex on insertion.
const (
	FieldInsertedAt = "inserted_at"
	FieldStampID    = "stamp_id"
)

// IntVertex is a vertex that only accepts integer field values.
// It demonstrates layering validation on top of the base Set.
type IntVertex struct {
	*docnet.Doc
}

// NewIntVertex creates a detached IntVertex.
func NewIntVertex() *IntVertex {
	return &IntVertex{Doc: docnet.NewDoc(nil)}
}

// Set stores value under name if it is an int.
// Returns a TYPE_MISMATCH error otherwise.
func (v *IntVertex) Set(name string, value any) error {
	if _, ok := value.(int); !ok {
		return derrors.New(derrors.ErrCodeTypeMismatch,
			"field %q: %v is not an integer", name, value)
	}
	v.Doc.Set(name, value)
	return nil
}

// StampedVertex records when and under which identifier it was inserted.
// OnInsert stamps two extra fields, which travel inside the regular pack
// and so survive save/load without any codec changes.
type StampedVertex struct {
	*docnet.Doc
}

// NewStampedVertex creates a detached StampedVertex seeded from init.
func NewStampedVertex(init map[string]any) *StampedVertex {
	return &StampedVertex{Doc: docnet.NewDoc(init)}
}

// OnInsert stamps the insertion time (RFC 3339, UTC) and a random UUID.
func (v *StampedVertex) OnInsert() {
	v.Set(FieldInsertedAt, time.Now().UTC().Format(time.RFC3339))
	v.Set(FieldStampID, uuid.NewString())
}

// StampedFactory reconstructs a StampedVertex from its pack. Register it
// with [docnet.WithVertexFactory] on stores holding stamped vertices.
func StampedFactory(f docnet.Fields) (docnet.Vertex, error) {
	return &StampedVertex{Doc: docnet.FromFields(f)}, nil
}

// Ensure both types satisfy the vertex contract.
var (
	_ docnet.Vertex = (*IntVertex)(nil)
	_ docnet.Vertex = (*StampedVertex)(nil)
)
