package docnet

import (
	"context"
	"io"
	"iter"

	"github.com/charmbracelet/log"

	derrors "github.com/matzehuels/docnet/pkg/errors"
	"github.com/matzehuels/docnet/pkg/storage"
)

// Store owns a graph of vertices and edges, allocates vertex identities,
// enforces the insertion invariants and runs queries. The whole graph lives
// in memory and persists as a single snapshot through a [storage.Backend].
//
// Vertex lifecycle: Detached -> (Insert) -> Attached at a place ->
// (Remove) -> Detached. A place, once assigned, is permanently retired and
// never reused, even after removal.
//
// Store is single-threaded by design: no internal locking, no protection
// against concurrent external writers of the backend (last save wins).
type Store struct {
	backend    storage.Backend
	log        *log.Logger
	makeVertex VertexFactory
	makeEdge   EdgeFactory

	vertices map[int]Vertex
	edges    []Edge
	next     int // next place to assign; monotonic, starts at 1
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger sets the store's logger. By default the store logs to
// io.Discard, staying silent unless the application opts in.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithVertexFactory sets the factory used to reconstruct vertices on Load,
// enabling application-defined vertex types to round-trip through the
// snapshot without the store knowing their concrete shape.
func WithVertexFactory(f VertexFactory) Option {
	return func(s *Store) {
		if f != nil {
			s.makeVertex = f
		}
	}
}

// WithEdgeFactory sets the factory used to reconstruct edges on Load.
func WithEdgeFactory(f EdgeFactory) Option {
	return func(s *Store) {
		if f != nil {
			s.makeEdge = f
		}
	}
}

// Open creates a store on the given backend and immediately loads the
// existing snapshot, if any. A nil backend defaults to an in-memory one.
//
// A backend without a snapshot yields an empty store; any other load
// failure is returned and the store must be discarded.
func Open(ctx context.Context, backend storage.Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		backend = storage.NewMemory()
	}
	s := &Store{
		backend:    backend,
		log:        log.New(io.Discard),
		makeVertex: DefaultVertexFactory,
		makeEdge:   DefaultEdgeFactory,
		vertices:   make(map[int]Vertex),
		next:       1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Insert attaches a detached vertex to the store, assigning it the next
// unused place (monotonic, starting at 1) and invoking its OnInsert hook.
// Returns the assigned place.
//
// Errors: TYPE_MISMATCH for a nil vertex, ALREADY_INSERTED if the vertex is
// attached to any store, NOT_READY if the vertex's ReadyForInsertion hook
// declines (no mutation happens in that case).
func (s *Store) Insert(v Vertex) (int, error) {
	if err := requireVertex(v); err != nil {
		return 0, err
	}
	if v.IsInserted() {
		return 0, derrors.New(derrors.ErrCodeAlreadyInserted,
			"vertex is already inserted at place %d", v.Place())
	}
	if !v.ReadyForInsertion() {
		return 0, derrors.New(derrors.ErrCodeNotReady, "vertex declined insertion")
	}

	place := s.next
	s.next++
	v.attach(place)
	v.OnInsert()
	s.vertices[place] = v

	s.log.Debug("inserted vertex", "place", place)
	return place, nil
}

// Remove detaches a vertex from the store, resetting its place to 0.
// Returns the place the vertex previously held.
//
// Errors: TYPE_MISMATCH for a nil vertex, NOT_INSERTED if the vertex is not
// a member of this store, STILL_CONNECTED if any inserted edge has the
// vertex as an endpoint.
func (s *Store) Remove(v Vertex) (int, error) {
	if err := requireVertex(v); err != nil {
		return 0, err
	}
	place := v.Place()
	if cur, ok := s.vertices[place]; !ok || cur != v {
		return 0, derrors.New(derrors.ErrCodeNotInserted,
			"vertex is not inserted in this store")
	}
	for _, e := range s.edges {
		if hasEndpoint(e, v) {
			return 0, derrors.New(derrors.ErrCodeStillConnected,
				"vertex at place %d still has incident edges", place)
		}
	}

	delete(s.vertices, place)
	v.attach(0)

	s.log.Debug("removed vertex", "place", place)
	return place, nil
}

// Get returns the vertex stored at the given place.
// Returns a NOT_FOUND error if no vertex holds that place.
func (s *Store) Get(place int) (Vertex, error) {
	v, ok := s.vertices[place]
	if !ok {
		return nil, derrors.New(derrors.ErrCodeNotFound, "no vertex at place %d", place)
	}
	return v, nil
}

// Contains reports whether v is a member of this store: the vertex stored
// at its place must be the same instance, not merely one with an equal
// place.
func (s *Store) Contains(v Vertex) bool {
	return v != nil && s.vertices[v.Place()] == v
}

// Len returns the number of attached vertices.
func (s *Store) Len() int { return len(s.vertices) }

// EdgeCount returns the number of inserted edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// All iterates over the attached vertices in unspecified order.
func (s *Store) All() iter.Seq[Vertex] {
	return func(yield func(Vertex) bool) {
		for _, v := range s.vertices {
			if !yield(v) {
				return
			}
		}
	}
}

// Search lazily filters the attached vertices with pred. A FIELD_NOT_FOUND
// error from the predicate counts as "no" and silently excludes that
// vertex; any other predicate error is yielded once with a nil vertex and
// ends the iteration.
//
//	for v, err := range store.Search(func(v docnet.Vertex) (bool, error) {
//	    name, err := v.Pack().Get("name")
//	    return name == "ada", err
//	}) {
//	    ...
//	}
func (s *Store) Search(pred func(Vertex) (bool, error)) iter.Seq2[Vertex, error] {
	return func(yield func(Vertex, error) bool) {
		for _, v := range s.vertices {
			ok, err := pred(v)
			if err != nil {
				if derrors.Is(err, derrors.ErrCodeFieldNotFound) {
					continue
				}
				yield(nil, err)
				return
			}
			if ok && !yield(v, nil) {
				return
			}
		}
	}
}

// InsertEdge inserts an edge, marking it inserted, invoking its OnInsert
// hook and appending it to the edge collection. Duplicate structural edges
// are allowed.
//
// Errors: TYPE_MISMATCH for a nil edge, ALREADY_INSERTED if the edge is
// already marked inserted, NOT_INSERTED if either endpoint is not a member
// of this store (membership is by instance, so a vertex attached to a
// different store is rejected too).
func (s *Store) InsertEdge(e Edge) error {
	if e == nil {
		return derrors.New(derrors.ErrCodeTypeMismatch, "edge must not be nil")
	}
	if e.IsInserted() {
		return derrors.New(derrors.ErrCodeAlreadyInserted, "edge is already inserted")
	}
	if !s.Contains(e.Start()) || !s.Contains(e.End()) {
		return derrors.New(derrors.ErrCodeNotInserted,
			"both endpoints must be members of this store")
	}

	e.markInserted(true)
	e.OnInsert()
	s.edges = append(s.edges, e)

	s.log.Debug("inserted edge",
		"start", e.Start().Place(), "end", e.End().Place(), "label", e.Label())
	return nil
}

// RemoveEdge removes the first edge structurally equal to e, in collection
// order. If duplicates exist exactly one is removed. The removed edge is
// unmarked, so it may be inserted again.
//
// Errors: TYPE_MISMATCH for a nil edge, NOT_FOUND if no structural match
// exists.
func (s *Store) RemoveEdge(e Edge) error {
	if e == nil {
		return derrors.New(derrors.ErrCodeTypeMismatch, "edge must not be nil")
	}
	for i, cur := range s.edges {
		if EdgeEqual(cur, e) {
			cur.markInserted(false)
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			s.log.Debug("removed edge",
				"start", cur.Start().Place(), "end", cur.End().Place(), "label", cur.Label())
			return nil
		}
	}
	return derrors.New(derrors.ErrCodeNotFound, "no matching edge in store")
}

// Edges iterates over the inserted edges in insertion order.
func (s *Store) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range s.edges {
			if !yield(e) {
				return
			}
		}
	}
}

// EdgeFilter narrows a SearchEdges traversal. Filters see the edge and its
// view anchored at the queried vertex.
type EdgeFilter func(Edge, View) bool

// MatchOther keeps edges whose opposite endpoint is v (identity test).
func MatchOther(v Vertex) EdgeFilter {
	return func(_ Edge, view View) bool { return view.Other == v }
}

// MatchLabel keeps edges whose label is exactly label.
// MatchLabel("") matches only unlabeled edges; omitting the filter
// altogether applies no label restriction.
func MatchLabel(label string) EdgeFilter {
	return func(e Edge, _ View) bool { return e.Label() == label }
}

// MatchDirection keeps edges whose anchored direction equals d.
// DirectionAll keeps everything.
func MatchDirection(d Direction) EdgeFilter {
	return func(_ Edge, view View) bool {
		return d == DirectionAll || view.Direction == d
	}
}

// SearchEdges lazily traverses the edges incident to anchor, yielding each
// edge together with its view anchored at that vertex. Optional filters
// narrow the result; results follow edge-collection order, with no further
// ordering promise. The returned sequence restarts from the beginning on
// every range.
//
//	for e, view := range store.SearchEdges(v, docnet.MatchLabel("knows")) {
//	    fmt.Println(view.Direction, view.Other.Place(), e.Label())
//	}
func (s *Store) SearchEdges(anchor Vertex, filters ...EdgeFilter) iter.Seq2[Edge, View] {
	return func(yield func(Edge, View) bool) {
		for _, e := range s.edges {
			if !hasEndpoint(e, anchor) {
				continue
			}
			view, err := ViewOf(e, anchor)
			if err != nil {
				continue // unreachable: anchor is an endpoint
			}
			keep := true
			for _, f := range filters {
				if !f(e, view) {
					keep = false
					break
				}
			}
			if keep && !yield(e, view) {
				return
			}
		}
	}
}

// Close closes the underlying backend.
func (s *Store) Close() error { return s.backend.Close() }
