package docnet

import (
	"context"
	"encoding/json"
	"testing"

	derrors "github.com/matzehuels/docnet/pkg/errors"
	"github.com/matzehuels/docnet/pkg/storage"
)

// newTestStore opens an empty store on a memory backend.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), storage.NewMemory())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

// insertDocs inserts n fresh documents and returns them.
func insertDocs(t *testing.T, s *Store, n int) []*Doc {
	t.Helper()
	docs := make([]*Doc, n)
	for i := range docs {
		docs[i] = NewDoc(nil)
		if _, err := s.Insert(docs[i]); err != nil {
			t.Fatalf("Insert #%d: %v", i, err)
		}
	}
	return docs
}

func TestNewLink(t *testing.T) {
	s := newTestStore(t)
	docs := insertDocs(t, s, 2)
	detached := NewDoc(nil)

	tests := []struct {
		name     string
		start    Vertex
		end      Vertex
		wantCode derrors.Code
	}{
		{"BothInserted", docs[0], docs[1], ""},
		{"DetachedStart", detached, docs[1], derrors.ErrCodeNotInserted},
		{"DetachedEnd", docs[0], detached, derrors.ErrCodeNotInserted},
		{"NilStart", nil, docs[1], derrors.ErrCodeTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLink(tt.start, tt.end, "", true)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("NewLink: %v", err)
				}
				return
			}
			if !derrors.Is(err, tt.wantCode) {
				t.Errorf("NewLink = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestUndirectedCanonicalization(t *testing.T) {
	s := newTestStore(t)
	docs := insertDocs(t, s, 2)

	ab, err := NewLink(docs[0], docs[1], "", false)
	if err != nil {
		t.Fatalf("NewLink: %v", err)
	}
	ba, err := NewLink(docs[1], docs[0], "", false)
	if err != nil {
		t.Fatalf("NewLink: %v", err)
	}

	if ab.Start() != docs[0] || ba.Start() != docs[0] {
		t.Error("undirected links not canonicalized to the lower place")
	}
	if !EdgeEqual(ab, ba) {
		t.Error("Link(a,b) and Link(b,a) not structurally equal for undirected edges")
	}

	// Directed links keep argument order.
	forward, _ := NewLink(docs[1], docs[0], "", true)
	if forward.Start() != docs[1] {
		t.Error("directed link reordered its endpoints")
	}
}

func TestFromAnchor(t *testing.T) {
	s := newTestStore(t)
	docs := insertDocs(t, s, 2)
	anchor, other := docs[0], docs[1]

	tests := []struct {
		name      string
		direction Direction
		wantStart Vertex
		wantEnd   Vertex
		wantDir   bool
		wantCode  derrors.Code
	}{
		{"Out", DirectionOut, anchor, other, true, ""},
		{"In", DirectionIn, other, anchor, true, ""},
		{"None", DirectionNone, anchor, other, false, ""},
		{"BadToken", Direction("sideways"), nil, nil, false, derrors.ErrCodeInvalidDirection},
		{"AllRejected", DirectionAll, nil, nil, false, derrors.ErrCodeInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := FromAnchor(anchor, other, "rel", tt.direction)
			if tt.wantCode != "" {
				if !derrors.Is(err, tt.wantCode) {
					t.Errorf("FromAnchor = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromAnchor: %v", err)
			}
			if l.Start() != tt.wantStart || l.End() != tt.wantEnd {
				t.Errorf("endpoints = (%v, %v), want (%v, %v)",
					l.Start(), l.End(), tt.wantStart, tt.wantEnd)
			}
			if l.Directed() != tt.wantDir {
				t.Errorf("Directed() = %v, want %v", l.Directed(), tt.wantDir)
			}
		})
	}
}

func TestViewOf(t *testing.T) {
	s := newTestStore(t)
	docs := insertDocs(t, s, 3)
	a, b, c := docs[0], docs[1], docs[2]

	directed, _ := NewLink(a, b, "", true)
	undirected, _ := NewLink(a, b, "", false)

	tests := []struct {
		name      string
		edge      Edge
		anchor    Vertex
		wantOther Vertex
		wantDir   Direction
		wantCode  derrors.Code
	}{
		{"DirectedFromStart", directed, a, b, DirectionOut, ""},
		{"DirectedFromEnd", directed, b, a, DirectionIn, ""},
		{"UndirectedFromLow", undirected, a, b, DirectionNone, ""},
		{"UndirectedFromHigh", undirected, b, a, DirectionNone, ""},
		{"NotAnEndpoint", directed, c, nil, "", derrors.ErrCodeInvalidAnchor},
		{"NilAnchor", directed, nil, nil, "", derrors.ErrCodeTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := ViewOf(tt.edge, tt.anchor)
			if tt.wantCode != "" {
				if !derrors.Is(err, tt.wantCode) {
					t.Errorf("ViewOf = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ViewOf: %v", err)
			}
			if view.Anchor != tt.anchor {
				t.Errorf("Anchor = %v, want %v", view.Anchor, tt.anchor)
			}
			if view.Other != tt.wantOther {
				t.Errorf("Other = %v, want %v", view.Other, tt.wantOther)
			}
			if view.Direction != tt.wantDir {
				t.Errorf("Direction = %v, want %v", view.Direction, tt.wantDir)
			}
		})
	}
}

func TestAnchorSymmetry(t *testing.T) {
	s := newTestStore(t)
	docs := insertDocs(t, s, 2)
	a, b := docs[0], docs[1]

	e, _ := NewLink(a, b, "", true)

	fromA, _ := ViewOf(e, a)
	fromB, _ := ViewOf(e, b)

	if fromA.Direction != DirectionOut || fromA.Other != b {
		t.Errorf("view from start = (%v, other=%v), want (out, b)", fromA.Direction, fromA.Other)
	}
	if fromB.Direction != DirectionIn || fromB.Other != a {
		t.Errorf("view from end = (%v, other=%v), want (in, a)", fromB.Direction, fromB.Other)
	}
}

func TestEdgeEqual(t *testing.T) {
	s := newTestStore(t)
	docs := insertDocs(t, s, 2)
	a, b := docs[0], docs[1]

	base, _ := NewLink(a, b, "knows", true)

	tests := []struct {
		name  string
		other func() Edge
		want  bool
	}{
		{"SameShape", func() Edge { e, _ := NewLink(a, b, "knows", true); return e }, true},
		{"DifferentLabel", func() Edge { e, _ := NewLink(a, b, "likes", true); return e }, false},
		{"EmptyVsNamedLabel", func() Edge { e, _ := NewLink(a, b, "", true); return e }, false},
		{"DifferentOrientation", func() Edge { e, _ := NewLink(a, b, "knows", false); return e }, false},
		{"SwappedEndpoints", func() Edge { e, _ := NewLink(b, a, "knows", true); return e }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EdgeEqual(base, tt.other()); got != tt.want {
				t.Errorf("EdgeEqual = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasVertex(t *testing.T) {
	s := newTestStore(t)
	docs := insertDocs(t, s, 3)

	e, _ := NewLink(docs[0], docs[1], "", true)

	if !e.HasVertex(docs[0]) || !e.HasVertex(docs[1]) {
		t.Error("HasVertex = false for an endpoint")
	}
	if e.HasVertex(docs[2]) {
		t.Error("HasVertex = true for a non-endpoint")
	}
	if e.HasVertex(nil) {
		t.Error("HasVertex(nil) = true")
	}
}

func TestEdgePackJSON(t *testing.T) {
	p := EdgePack{Start: 1, End: 2, Label: "knows", Directed: false}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `[1,2,"knows",false]`; string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}

	var back EdgePack
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != p {
		t.Errorf("round-trip = %+v, want %+v", back, p)
	}

	if err := json.Unmarshal([]byte(`[1,2,"knows"]`), &back); err == nil {
		t.Error("unmarshal of 3-element tuple succeeded, want error")
	}
}

func TestPackIgnoresViews(t *testing.T) {
	s := newTestStore(t)
	docs := insertDocs(t, s, 2)

	e, err := FromAnchor(docs[1], docs[0], "rel", DirectionIn)
	if err != nil {
		t.Fatalf("FromAnchor: %v", err)
	}

	// Anchored at docs[1] as "in", the structural start is docs[0].
	want := EdgePack{Start: docs[0].Place(), End: docs[1].Place(), Label: "rel", Directed: true}
	if got := e.Pack(); got != want {
		t.Errorf("Pack() = %+v, want %+v", got, want)
	}
}
