package graph

import (
	"time"
)

// Store holds the graph under construction. It is touched only by the
// explorer goroutine, so it carries no locking; concurrent observers see
// the graph through snapshots taken at persistence points.
type Store struct {
	graph *Graph
	seen  map[edgeKey]struct{}
}

type edgeKey struct {
	src, dst, element string
}

// NewStore creates an empty graph for the named application.
func NewStore(appName string, entryPoints []string) *Store {
	now := time.Now()
	return &Store{
		graph: &Graph{
			ID:          NodeID(appName, now.Format(time.RFC3339Nano)),
			AppName:     appName,
			AppType:     AppTypeUnknown,
			EntryPoints: append([]string(nil), entryPoints...),
			Nodes:       make(map[string]*Node),
			Edges:       make([]Edge, 0),
			Metadata: Metadata{
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		seen: make(map[edgeKey]struct{}),
	}
}

// AddNode inserts a node unless its identity is already present. Nodes are
// never mutated after insertion; re-adding the same state is a no-op.
// Returns true when the node was inserted.
func (s *Store) AddNode(n *Node) bool {
	if _, exists := s.graph.Nodes[n.ID]; exists {
		return false
	}
	s.graph.Nodes[n.ID] = n
	s.graph.Metadata.TotalNodes++
	s.graph.Metadata.TotalElements += len(n.Elements)
	if n.Depth > s.graph.Metadata.MaxDepthReached {
		s.graph.Metadata.MaxDepthReached = n.Depth
	}
	s.graph.Metadata.UpdatedAt = time.Now()
	return true
}

// Node returns a stored node by id.
func (s *Store) Node(id string) (*Node, bool) {
	n, ok := s.graph.Nodes[id]
	return n, ok
}

// NodeByNormalizedURL finds the URL-only node for a normalized URL.
func (s *Store) NodeByNormalizedURL(normURL string) (*Node, bool) {
	return s.Node(NodeID(normURL, ""))
}

// AddEdge appends a directed edge, idempotent over (source, target,
// element). Both endpoints must already exist in the node set.
func (s *Store) AddEdge(srcID, dstID string, el Element, interaction InteractionType) bool {
	if _, ok := s.graph.Nodes[srcID]; !ok {
		return false
	}
	if _, ok := s.graph.Nodes[dstID]; !ok {
		return false
	}

	key := edgeKey{src: srcID, dst: dstID, element: el.ID}
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}

	s.graph.Edges = append(s.graph.Edges, Edge{
		SourceID:    srcID,
		TargetID:    dstID,
		ElementID:   el.ID,
		ElementText: el.Text,
		ElementKind: el.Kind,
		Interaction: interaction,
		Verified:    true,
	})
	s.graph.Metadata.TotalEdges++
	s.graph.Metadata.UpdatedAt = time.Now()
	return true
}

// SetAppType records the detected application family.
func (s *Store) SetAppType(t AppType) {
	s.graph.AppType = t
}

// SetLoginRequired flags the graph as gated behind authentication.
func (s *Store) SetLoginRequired(required bool) {
	s.graph.LoginRequired = required
}

// Finish stamps the total discovery duration.
func (s *Store) Finish(started time.Time) {
	s.graph.Metadata.DurationMs = time.Since(started).Milliseconds()
	s.graph.Metadata.UpdatedAt = time.Now()
}

// Graph exposes the underlying graph.
func (s *Store) Graph() *Graph {
	return s.graph
}

// NodeCount returns the number of stored nodes.
func (s *Store) NodeCount() int {
	return len(s.graph.Nodes)
}

// EdgeCount returns the number of stored edges.
func (s *Store) EdgeCount() int {
	return len(s.graph.Edges)
}
