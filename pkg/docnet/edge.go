package docnet

import (
	"encoding/json"
	"fmt"

	derrors "github.com/matzehuels/docnet/pkg/errors"
)

// Direction expresses how an edge runs relative to an anchor vertex.
type Direction string

// Direction tokens. DirectionAll is only meaningful as a query filter.
const (
	DirectionOut  Direction = "out"  // anchor is the start of a directed edge
	DirectionIn   Direction = "in"   // anchor is the end of a directed edge
	DirectionNone Direction = "none" // the edge is undirected
	DirectionAll  Direction = "all"  // query filter: match any direction
)

// Edge is the contract a relation must honor to live in a [Store].
//
// Applications define their own edge types by embedding [*Link], which
// supplies endpoints, label, orientation and the default insertion hook.
// The unexported markInserted method seals the interface to types built on
// Link, so the store alone controls insertion state.
type Edge interface {
	// Start returns the start endpoint. For undirected edges this is the
	// endpoint with the lower place (canonical form).
	Start() Vertex

	// End returns the end endpoint.
	End() Vertex

	// Label returns the edge label. The empty string is a valid, distinct
	// label, not "no label".
	Label() string

	// Directed reports whether the edge is oriented.
	Directed() bool

	// IsInserted reports whether the edge has been inserted into a store.
	IsInserted() bool

	// Pack returns the canonical storage tuple
	// (start place, end place, label, directed).
	Pack() EdgePack

	// OnInsert is invoked by the store when the edge is inserted.
	// The base implementation is a no-op.
	OnInsert()

	markInserted(on bool)
}

// EdgeFactory reconstructs an edge from its packed tuple, resolving the
// stored places to live vertices through the store. Stores use it during
// Load to rebuild application-defined edge types.
type EdgeFactory func(EdgePack, *Store) (Edge, error)

// Link is the base edge: a labeled, optionally directed relation between
// two vertices attached to the same store.
type Link struct {
	start    Vertex
	end      Vertex
	label    string
	directed bool
	inserted bool
}

// NewLink creates an edge between two attached vertices. An empty label is
// allowed and distinct from any other label. If directed is false the
// endpoints are canonicalized so start holds the lower place, making
// Link(a, b) and Link(b, a) structurally equal.
//
// Returns a NOT_INSERTED error if either endpoint is detached.
func NewLink(start, end Vertex, label string, directed bool) (*Link, error) {
	if err := requireVertex(start); err != nil {
		return nil, err
	}
	if err := requireVertex(end); err != nil {
		return nil, err
	}
	if !start.IsInserted() || !end.IsInserted() {
		return nil, derrors.New(derrors.ErrCodeNotInserted,
			"both endpoints must be inserted to make an edge")
	}
	if !directed && end.Place() < start.Place() {
		start, end = end, start
	}
	return &Link{start: start, end: end, label: label, directed: directed}, nil
}

// FromAnchor creates an edge from an anchor-relative description:
// DirectionOut makes anchor the start, DirectionIn makes anchor the end,
// DirectionNone makes an undirected edge. The anchored view is not stored;
// recompute it on demand with [ViewOf].
//
// Returns an INVALID_DIRECTION error for any other direction token.
func FromAnchor(anchor, other Vertex, label string, direction Direction) (*Link, error) {
	switch direction {
	case DirectionOut:
		return NewLink(anchor, other, label, true)
	case DirectionIn:
		return NewLink(other, anchor, label, true)
	case DirectionNone:
		return NewLink(anchor, other, label, false)
	default:
		return nil, derrors.New(derrors.ErrCodeInvalidDirection,
			"direction must be %q, %q or %q, got %q",
			DirectionOut, DirectionIn, DirectionNone, direction)
	}
}

// DefaultEdgeFactory reconstructs a plain [Link] from a packed tuple,
// resolving both places through the store. Lookup failures propagate as
// NOT_FOUND errors. Stores fall back to it when no custom factory is
// configured.
func DefaultEdgeFactory(p EdgePack, s *Store) (Edge, error) {
	start, err := s.Get(p.Start)
	if err != nil {
		return nil, err
	}
	end, err := s.Get(p.End)
	if err != nil {
		return nil, err
	}
	return NewLink(start, end, p.Label, p.Directed)
}

// Start returns the start endpoint.
func (l *Link) Start() Vertex { return l.start }

// End returns the end endpoint.
func (l *Link) End() Vertex { return l.end }

// Label returns the edge label.
func (l *Link) Label() string { return l.label }

// Directed reports whether the edge is oriented.
func (l *Link) Directed() bool { return l.directed }

// IsInserted reports whether the edge has been inserted into a store.
func (l *Link) IsInserted() bool { return l.inserted }

// HasVertex reports whether v is one of the endpoints (identity test).
func (l *Link) HasVertex(v Vertex) bool {
	return v != nil && (l.start == v || l.end == v)
}

// Pack returns the canonical storage tuple, independent of any anchor view.
func (l *Link) Pack() EdgePack {
	return EdgePack{
		Start:    l.start.Place(),
		End:      l.end.Place(),
		Label:    l.label,
		Directed: l.directed,
	}
}

// OnInsert is the insertion hook; the base implementation does nothing.
func (l *Link) OnInsert() {}

func (l *Link) markInserted(on bool) { l.inserted = on }

// String renders the edge for debugging.
func (l *Link) String() string {
	arrow := "--"
	if l.directed {
		arrow = "->"
	}
	return fmt.Sprintf("Link(%d %s %d, label=%q)",
		l.start.Place(), arrow, l.end.Place(), l.label)
}

// EdgeEqual reports structural equality: same start and end identity, same
// label and same orientation. Anchor views are not part of identity.
func EdgeEqual(a, b Edge) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Start() == b.Start() &&
		a.End() == b.End() &&
		a.Label() == b.Label() &&
		a.Directed() == b.Directed()
}

// hasEndpoint is EdgeEqual's sibling for incidence checks on interface values.
func hasEndpoint(e Edge, v Vertex) bool {
	return v != nil && (e.Start() == v || e.End() == v)
}

// View is the anchor-relative perspective of an edge: the designated anchor
// vertex, the opposite endpoint, and the direction as seen from the anchor.
// Views are immutable values computed on demand; they carry no edge state,
// so the same edge can be viewed from both ends without aliasing.
type View struct {
	Anchor    Vertex
	Other     Vertex
	Direction Direction
}

// ViewOf computes the view of e anchored at anchor.
// For a directed edge the direction is DirectionOut when the anchor is the
// start and DirectionIn when it is the end; undirected edges always view as
// DirectionNone.
//
// Returns an INVALID_ANCHOR error if anchor is not an endpoint of e.
func ViewOf(e Edge, anchor Vertex) (View, error) {
	if e == nil {
		return View{}, derrors.New(derrors.ErrCodeTypeMismatch, "edge must not be nil")
	}
	if err := requireVertex(anchor); err != nil {
		return View{}, err
	}
	if !hasEndpoint(e, anchor) {
		return View{}, derrors.New(derrors.ErrCodeInvalidAnchor,
			"anchor is not an endpoint of the edge")
	}

	other := e.End()
	if anchor == e.End() {
		other = e.Start()
	}
	if !e.Directed() {
		return View{Anchor: anchor, Other: other, Direction: DirectionNone}, nil
	}
	if anchor == e.Start() {
		return View{Anchor: anchor, Other: other, Direction: DirectionOut}, nil
	}
	return View{Anchor: anchor, Other: other, Direction: DirectionIn}, nil
}

// EdgePack is the storage tuple of an edge. It serializes as the JSON array
// [startPlace, endPlace, label, hasDirection].
type EdgePack struct {
	Start    int
	End      int
	Label    string
	Directed bool
}

// MarshalJSON encodes the pack as a 4-element JSON array.
func (p EdgePack) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Start, p.End, p.Label, p.Directed})
}

// UnmarshalJSON decodes a 4-element JSON array.
func (p *EdgePack) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 4 {
		return fmt.Errorf("edge pack: want 4 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Start); err != nil {
		return fmt.Errorf("edge pack: start place: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.End); err != nil {
		return fmt.Errorf("edge pack: end place: %w", err)
	}
	if err := json.Unmarshal(raw[2], &p.Label); err != nil {
		return fmt.Errorf("edge pack: label: %w", err)
	}
	if err := json.Unmarshal(raw[3], &p.Directed); err != nil {
		return fmt.Errorf("edge pack: direction flag: %w", err)
	}
	return nil
}

// Ensure Link implements Edge.
var _ Edge = (*Link)(nil)
