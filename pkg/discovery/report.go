package discovery

import "github.com/testweaver/sitegraph/pkg/graph"

// Status summarizes how a discovery run ended.
type Status string

const (
	// StatusSuccess means the run finished within its budgets with no
	// visit failures.
	StatusSuccess Status = "success"
	// StatusPartial means a usable graph was produced but some visits
	// failed or a budget cut the run short.
	StatusPartial Status = "partial"
	// StatusError means no nodes were discovered.
	StatusError Status = "error"
)

// VisitError records a single failed visit for the report.
type VisitError struct {
	URL     string `json:"url"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Report is the result of a discovery run.
type Report struct {
	Graph           *graph.Graph `json:"graph"`
	Status          Status       `json:"status"`
	NodesDiscovered int          `json:"nodesDiscovered"`
	EdgesDiscovered int          `json:"edgesDiscovered"`
	Errors          []VisitError `json:"errors,omitempty"`
	DurationMs      int64        `json:"durationMs"`
	SavedTo         string       `json:"savedTo,omitempty"`
}
