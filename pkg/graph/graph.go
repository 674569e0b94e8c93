// Package graph defines the site graph model: UI states as nodes, the
// interactive elements that transition between them as edges.
package graph

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"time"
)

// ElementKind classifies an interactive element.
type ElementKind string

const (
	KindLink     ElementKind = "link"
	KindButton   ElementKind = "button"
	KindTab      ElementKind = "tab"
	KindNavItem  ElementKind = "nav-item"
	KindDropdown ElementKind = "dropdown"
	KindInput    ElementKind = "input"
	KindOther    ElementKind = "other"
)

// Clickable reports whether exploration should attempt to activate this
// kind. Links are followed by href instead; inputs and dropdowns are
// observed but never driven.
func (k ElementKind) Clickable() bool {
	switch k {
	case KindButton, KindTab, KindNavItem, KindOther:
		return true
	default:
		return false
	}
}

// Priority orders clickable kinds for exploration. Higher first.
func (k ElementKind) Priority() int {
	switch k {
	case KindTab:
		return 3
	case KindNavItem:
		return 2
	case KindButton:
		return 1
	default:
		return 0
	}
}

// InteractionType describes how an edge was traversed.
type InteractionType string

const (
	InteractionClick    InteractionType = "click"
	InteractionNavigate InteractionType = "navigate"
)

// AppType is the detected front-end family.
type AppType string

const (
	AppTypeUnknown   AppType = "unknown"
	AppTypeReact     AppType = "react"
	AppTypeStreamlit AppType = "streamlit"
)

// Element is an interactive DOM element observed on a page.
type Element struct {
	ID        string      `json:"id"`
	Kind      ElementKind `json:"kind"`
	Text      string      `json:"text"`
	Href      string      `json:"href,omitempty"`
	AriaLabel string      `json:"ariaLabel,omitempty"`
	TestID    string      `json:"testId,omitempty"`
	CSSPath   string      `json:"cssPath,omitempty"`
	Selector  string      `json:"selector,omitempty"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`

	// TargetNodeID is filled once the element has been activated and the
	// resulting state identified.
	TargetNodeID string `json:"targetNodeId,omitempty"`
}

// Node is a distinct UI state. Nodes are immutable once stored.
//
// Title is taken from the page title for URL states and from the
// triggering element's text for SPA states; two SPA states reached through
// same-text elements share a title but never an ID.
type Node struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	NormalizedURL  string    `json:"normalizedUrl"`
	Title          string    `json:"title"`
	IsEntryPoint   bool      `json:"isEntryPoint"`
	Depth          int       `json:"depth"`
	Elements       []Element `json:"elements"`
	ConsoleErrors  []string  `json:"consoleErrors,omitempty"`
	LoadTimeMs     int64     `json:"loadTimeMs"`
	StatusCode     int       `json:"statusCode,omitempty"`
	Screenshot     string    `json:"screenshot,omitempty"`
	DOMFingerprint string    `json:"domFingerprint,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Edge is a directed transition between two nodes through an element.
// ElementText and ElementKind snapshot the trigger for observability.
type Edge struct {
	SourceID    string          `json:"sourceId"`
	TargetID    string          `json:"targetId"`
	ElementID   string          `json:"elementId"`
	ElementText string          `json:"elementText"`
	ElementKind ElementKind     `json:"elementKind"`
	Interaction InteractionType `json:"interactionType"`
	Verified    bool            `json:"verified"`
}

// Metadata carries graph-level bookkeeping.
type Metadata struct {
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	DurationMs      int64     `json:"durationMs"`
	TotalNodes      int       `json:"totalNodes"`
	TotalEdges      int       `json:"totalEdges"`
	TotalElements   int       `json:"totalElements"`
	MaxDepthReached int       `json:"maxDepthReached"`
}

// Graph is a named collection of nodes and edges.
type Graph struct {
	ID            string           `json:"id"`
	AppName       string           `json:"appName"`
	AppType       AppType          `json:"appType"`
	EntryPoints   []string         `json:"entryPoints"`
	Nodes         map[string]*Node `json:"nodes"`
	Edges         []Edge           `json:"edges"`
	Metadata      Metadata         `json:"metadata"`
	LoginRequired bool             `json:"loginRequired"`
}

// NodeID derives a node identity from the normalized URL and the DOM
// fingerprint. URL-only nodes pass an empty fingerprint, keying on
// `normalizedURL + "#"`; SPA states key on the full `url#fingerprint`.
// The asymmetry matches graphs persisted by prior runs and must be kept.
func NodeID(normalizedURL, fingerprint string) string {
	sum := md5.Sum([]byte(normalizedURL + "#" + fingerprint))
	return hex.EncodeToString(sum[:])
}

// ElementID derives a stable element identity from its locator, text and
// ordinal position, truncated to 10 hex chars.
func ElementID(cssPath, selector, text string, ordinal int) string {
	locator := cssPath
	if locator == "" {
		locator = selector
	}
	sum := md5.Sum([]byte(locator + "-" + text + "-" + strconv.Itoa(ordinal)))
	return hex.EncodeToString(sum[:])[:10]
}
