package docnet

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	derrors "github.com/matzehuels/docnet/pkg/errors"
	"github.com/matzehuels/docnet/pkg/storage"
)

// Snapshot document keys. Every other top-level key is a stringified place
// mapping to a vertex pack.
const (
	keyNextPlace = "_next_place"
	keyEdges     = "edges"
)

// Load resets the store to empty and, if the backend holds a snapshot,
// decodes it: vertices are rebuilt through the vertex factory and indexed
// by the integer derived from their key, then edges are rebuilt through the
// edge factory (resolving places against the freshly loaded vertices) and
// marked inserted.
//
// A backend without a snapshot yields an empty store and a nil error. Any
// other failure returns an INVALID_SNAPSHOT (or backend) error; the store's
// state is undefined then and the instance must be discarded.
func (s *Store) Load(ctx context.Context) error {
	s.vertices = make(map[int]Vertex)
	s.edges = nil
	s.next = 1

	data, err := s.backend.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug("no snapshot found, starting empty")
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.decodeSnapshot(data); err != nil {
		return err
	}

	s.log.Info("loaded snapshot",
		"vertices", len(s.vertices), "edges", len(s.edges), "next_place", s.next)
	return nil
}

// Save serializes the whole graph and overwrites the backend snapshot.
// There is no write-atomicity guarantee; concurrent savers follow a
// last-save-wins model.
func (s *Store) Save(ctx context.Context) error {
	data, err := s.encodeSnapshot()
	if err != nil {
		return err
	}
	if err := s.backend.Store(ctx, data); err != nil {
		return err
	}

	s.log.Info("saved snapshot",
		"vertices", len(s.vertices), "edges", len(s.edges), "bytes", len(data))
	return nil
}

func (s *Store) decodeSnapshot(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidSnapshot, err, "decode snapshot document")
	}

	next := 0
	if msg, ok := raw[keyNextPlace]; ok {
		if err := json.Unmarshal(msg, &next); err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidSnapshot, err, "decode %s", keyNextPlace)
		}
	}

	// Vertices first so edge resolution can find its endpoints.
	maxPlace := 0
	for key, msg := range raw {
		if key == keyNextPlace || key == keyEdges {
			continue
		}
		place, err := strconv.Atoi(key)
		if err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidSnapshot, err, "vertex key %q", key)
		}
		var fields Fields
		if err := json.Unmarshal(msg, &fields); err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidSnapshot, err, "vertex pack %q", key)
		}
		v, err := s.makeVertex(fields)
		if err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidSnapshot, err, "construct vertex %q", key)
		}
		v.attach(place)
		s.vertices[place] = v
		if place > maxPlace {
			maxPlace = place
		}
	}

	if msg, ok := raw[keyEdges]; ok {
		var packs []EdgePack
		if err := json.Unmarshal(msg, &packs); err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidSnapshot, err, "decode edges")
		}
		for _, p := range packs {
			e, err := s.makeEdge(p, s)
			if err != nil {
				return err
			}
			e.markInserted(true)
			s.edges = append(s.edges, e)
		}
	}

	// Snapshots from before the counter was persisted lack _next_place;
	// fall back to one past the highest occupied place.
	if next < 1 {
		next = maxPlace + 1
	}
	s.next = next
	return nil
}

func (s *Store) encodeSnapshot() ([]byte, error) {
	doc := make(map[string]any, len(s.vertices)+2)
	doc[keyNextPlace] = s.next

	packs := make([]EdgePack, len(s.edges))
	for i, e := range s.edges {
		packs[i] = e.Pack()
	}
	doc[keyEdges] = packs

	for place, v := range s.vertices {
		doc[strconv.Itoa(place)] = v.Pack()
	}

	return json.MarshalIndent(doc, "", "  ")
}
