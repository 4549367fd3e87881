// Package docnet implements an embedded document-plus-graph store: an
// in-process collection of vertices (free-form field bags with integer
// identity) connected by labeled, optionally directed edges, held fully in
// memory and persisted as a single serialized snapshot.
//
// # Core Types
//
//   - [Doc]: the base vertex, an insertion-ordered field bag ([Fields])
//   - [Link]: the base edge, with canonicalized undirected endpoints
//   - [Store]: owns the graph, allocates places, enforces invariants
//   - [View]: an edge seen from one endpoint (anchor, other, direction)
//
// # Identity
//
// A store assigns every inserted vertex a place: a positive integer that is
// never reused, even after the vertex is removed. Place 0 always means
// "not in any store". Edges reference vertex instances, not places, and can
// only be built between vertices attached to the same store.
//
// # Usage
//
//	store, err := docnet.Open(ctx, storage.NewFile("data/db.json"))
//	if err != nil {
//	    return err
//	}
//
//	ada := docnet.NewDoc(map[string]any{"name": "ada"})
//	alan := docnet.NewDoc(map[string]any{"name": "alan"})
//	store.Insert(ada)
//	store.Insert(alan)
//
//	knows, _ := docnet.NewLink(ada, alan, "knows", false)
//	store.InsertEdge(knows)
//
//	for e, view := range store.SearchEdges(ada, docnet.MatchLabel("knows")) {
//	    fmt.Println(view.Other, e.Label())
//	}
//
//	if err := store.Save(ctx); err != nil {
//	    return err
//	}
//
// # Extension Points
//
// Applications define their own vertex and edge types by embedding [*Doc]
// and [*Link], overriding the OnInsert and ReadyForInsertion hooks, and
// registering factories ([WithVertexFactory], [WithEdgeFactory]) so Load
// can reconstruct them polymorphically from the snapshot. The
// vertextypes subpackage ships ready-made examples.
//
// # Concurrency
//
// A Store is single-threaded: no internal locking, and no protection
// against concurrent external writers of the same backend (last save
// wins). Anchor views are immutable values, so reading the same edge from
// two anchors never aliases.
package docnet
