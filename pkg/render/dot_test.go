package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/docnet/pkg/docnet"
	"github.com/matzehuels/docnet/pkg/storage"
)

func buildStore(t *testing.T) *docnet.Store {
	t.Helper()
	s, err := docnet.Open(context.Background(), storage.NewMemory())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ada := docnet.NewDoc(map[string]any{"name": "ada"})
	alan := docnet.NewDoc(map[string]any{"name": "alan"})
	for _, v := range []*docnet.Doc{ada, alan} {
		if _, err := s.Insert(v); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	knows, _ := docnet.NewLink(ada, alan, "knows", false)
	cites, _ := docnet.NewLink(alan, ada, "", true)
	for _, e := range []docnet.Edge{knows, cites} {
		if err := s.InsertEdge(e); err != nil {
			t.Fatalf("InsertEdge: %v", err)
		}
	}
	return s
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildStore(t), Options{})

	for _, want := range []string{
		"graph G {",
		`v1 [label="#1"];`,
		`v2 [label="#2"];`,
		`v1 -- v2 [label="knows"];`,
		"v2 -- v1 [dir=forward];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
	// Plain labels omit vertex fields.
	if strings.Contains(dot, "ada") {
		t.Errorf("non-detailed output leaked field values:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildStore(t), Options{Detailed: true})

	if !strings.Contains(dot, "name: ada") {
		t.Errorf("detailed output missing field line:\n%s", dot)
	}
	if !strings.Contains(dot, "#1") {
		t.Errorf("detailed output missing place line:\n%s", dot)
	}
}

func TestToDOTEmptyStore(t *testing.T) {
	s, err := docnet.Open(context.Background(), storage.NewMemory())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	dot := ToDOT(s, Options{})
	if !strings.HasPrefix(dot, "graph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty store produced malformed DOT:\n%s", dot)
	}
}

func TestToSVG(t *testing.T) {
	svg, err := ToSVG(ToDOT(buildStore(t), Options{}))
	if err != nil {
		t.Fatalf("ToSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("output does not look like SVG")
	}
}
