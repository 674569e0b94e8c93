package graph

import (
	"testing"
	"time"
)

func TestNodeID(t *testing.T) {
	urlOnly := NodeID("https://ex.test/a", "")
	withFP := NodeID("https://ex.test/a", "abc123")

	if urlOnly == withFP {
		t.Error("URL-only and fingerprinted ids must differ")
	}
	if NodeID("https://ex.test/a", "") != urlOnly {
		t.Error("NodeID must be deterministic")
	}
	if len(urlOnly) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(urlOnly))
	}
}

func TestElementID(t *testing.T) {
	a := ElementID("div > button", "", "Save", 0)
	b := ElementID("div > button", "", "Save", 1)
	c := ElementID("", "button.primary", "Save", 0)

	if len(a) != 10 {
		t.Errorf("expected 10 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("ordinal must distinguish element ids")
	}
	if a == c {
		t.Error("locator must distinguish element ids")
	}
	if a != ElementID("div > button", "", "Save", 0) {
		t.Error("ElementID must be deterministic")
	}
	// Selector is the fallback locator only when the CSS path is empty.
	if ElementID("div > button", "ignored", "Save", 0) != a {
		t.Error("selector must be ignored when cssPath is present")
	}
}

func TestKindCapabilities(t *testing.T) {
	tests := []struct {
		kind      ElementKind
		clickable bool
	}{
		{KindLink, false},
		{KindButton, true},
		{KindTab, true},
		{KindNavItem, true},
		{KindOther, true},
		{KindDropdown, false},
		{KindInput, false},
	}
	for _, tt := range tests {
		if got := tt.kind.Clickable(); got != tt.clickable {
			t.Errorf("%s.Clickable() = %v, want %v", tt.kind, got, tt.clickable)
		}
	}

	if !(KindTab.Priority() > KindNavItem.Priority() &&
		KindNavItem.Priority() > KindButton.Priority() &&
		KindButton.Priority() > KindOther.Priority()) {
		t.Error("kind priority must order tab > nav-item > button > other")
	}
}

func newTestNode(normURL, fp string, depth int) *Node {
	return &Node{
		ID:             NodeID(normURL, fp),
		URL:            normURL,
		NormalizedURL:  normURL,
		Depth:          depth,
		DOMFingerprint: fp,
		Timestamp:      time.Now(),
	}
}

func TestStore_AddNode(t *testing.T) {
	s := NewStore("Demo App", []string{"https://ex.test/"})

	n := newTestNode("https://ex.test/", "", 0)
	if !s.AddNode(n) {
		t.Fatal("first insert must succeed")
	}
	if s.AddNode(newTestNode("https://ex.test/", "", 0)) {
		t.Error("same state must never be stored twice")
	}
	if s.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", s.NodeCount())
	}

	// Same URL, new fingerprint is a distinct SPA state.
	if !s.AddNode(newTestNode("https://ex.test/", "fp1", 1)) {
		t.Error("distinct fingerprint must create a new node")
	}
	if s.Graph().Metadata.MaxDepthReached != 1 {
		t.Errorf("MaxDepthReached = %d, want 1", s.Graph().Metadata.MaxDepthReached)
	}
}

func TestStore_AddEdge(t *testing.T) {
	s := NewStore("demo", []string{"https://ex.test/"})
	src := newTestNode("https://ex.test/", "", 0)
	dst := newTestNode("https://ex.test/a", "", 1)
	s.AddNode(src)
	s.AddNode(dst)

	el := Element{ID: "abc123def0", Kind: KindLink, Text: "A"}

	if !s.AddEdge(src.ID, dst.ID, el, InteractionNavigate) {
		t.Fatal("first edge must be added")
	}
	if s.AddEdge(src.ID, dst.ID, el, InteractionNavigate) {
		t.Error("duplicate (source, target, element) must be rejected")
	}
	if s.AddEdge(src.ID, "missing", el, InteractionNavigate) {
		t.Error("edge to unknown node must be rejected")
	}
	if s.AddEdge("missing", dst.ID, el, InteractionNavigate) {
		t.Error("edge from unknown node must be rejected")
	}

	// Same pair through a different element is a distinct edge.
	other := Element{ID: "ffff000011", Kind: KindButton, Text: "Go"}
	if !s.AddEdge(src.ID, dst.ID, other, InteractionClick) {
		t.Error("same pair via different element must be allowed")
	}

	if s.EdgeCount() != 2 {
		t.Fatalf("EdgeCount() = %d, want 2", s.EdgeCount())
	}

	e := s.Graph().Edges[0]
	if e.ElementText != "A" || e.ElementKind != KindLink || !e.Verified {
		t.Errorf("edge element snapshot wrong: %+v", e)
	}

	// Every edge endpoint must be resolvable in the node set.
	for _, edge := range s.Graph().Edges {
		if _, ok := s.Node(edge.SourceID); !ok {
			t.Errorf("edge source %s not in node set", edge.SourceID)
		}
		if _, ok := s.Node(edge.TargetID); !ok {
			t.Errorf("edge target %s not in node set", edge.TargetID)
		}
	}
}

func TestStore_NodeByNormalizedURL(t *testing.T) {
	s := NewStore("demo", nil)
	n := newTestNode("https://ex.test/page", "", 1)
	s.AddNode(n)
	s.AddNode(newTestNode("https://ex.test/page", "spafp", 1))

	got, ok := s.NodeByNormalizedURL("https://ex.test/page")
	if !ok || got.ID != n.ID {
		t.Error("NodeByNormalizedURL must resolve the URL-only node")
	}
	if _, ok := s.NodeByNormalizedURL("https://ex.test/nope"); ok {
		t.Error("unknown URL must not resolve")
	}
}
