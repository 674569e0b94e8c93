// Package discovery explores a running web application breadth-first and
// records what it finds as a site graph: URL states and SPA states as
// nodes, the clicks and links between them as edges.
package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/testweaver/sitegraph/internal/auth"
	"github.com/testweaver/sitegraph/internal/browser"
	"github.com/testweaver/sitegraph/internal/click"
	"github.com/testweaver/sitegraph/internal/dom"
	derrors "github.com/testweaver/sitegraph/internal/errors"
	"github.com/testweaver/sitegraph/internal/events"
	"github.com/testweaver/sitegraph/internal/logger"
	"github.com/testweaver/sitegraph/internal/queue"
	"github.com/testweaver/sitegraph/internal/ratelimit"
	"github.com/testweaver/sitegraph/internal/scope"
	"github.com/testweaver/sitegraph/internal/urlutil"
	"github.com/testweaver/sitegraph/internal/visited"
	"github.com/testweaver/sitegraph/pkg/graph"
)

const (
	// maxClicksPerPage bounds phase-two click probing on a single page.
	maxClicksPerPage = 15

	// maxSPADepth bounds replayed exploration inside a page. A state at
	// depth d is probed for further states while d < maxSPADepth, so
	// states exist at depths 1 through maxSPADepth and the deepest ones
	// are recorded but not probed.
	maxSPADepth = 3

	frontierBound = 10000
)

// spaCandidateCap limits how many clickables are probed per SPA state.
func spaCandidateCap(spaDepth int) int {
	if spaDepth <= 1 {
		return 10
	}
	return 5
}

// exploreFurther reports whether states found at this depth should
// themselves be probed.
func exploreFurther(spaDepth int) bool {
	return spaDepth < maxSPADepth
}

// Explorer drives a full discovery run. Create with New, run once with
// Run; an Explorer is not reusable.
type Explorer struct {
	config *Config
	sink   events.Sink
	log    *logger.Logger

	driver   *browser.Driver
	page     *browser.Page
	settler  *browser.Settler
	clicks   *click.Dispatcher
	pacer    *ratelimit.Pacer
	scope    *scope.Checker
	store    *graph.Store
	tracker  *visited.Tracker
	frontier *queue.Queue
	archive  *graph.BoltArchive

	deadline    time.Time
	visitErrors []VisitError
	timedOut    bool
	fatal       error
}

// New creates an explorer with the given options.
func New(opts ...Option) (*Explorer, error) {
	e := &Explorer{
		config: DefaultConfig(),
		sink:   events.Discard{},
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := e.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if e.log == nil {
		level := logger.WarnLevel
		if e.config.Verbose {
			level = logger.InfoLevel
		}
		e.log = logger.New(logger.Config{
			Level:     level,
			Pretty:    true,
			Component: "explorer",
		})
	}

	return e, nil
}

// Run performs the discovery and returns a report. The graph is
// persisted before returning, including on timeout and on error, so a
// partial run is never lost.
func (e *Explorer) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	e.deadline = start.Add(e.config.Timeout)

	e.sink.Emit(events.New(events.DiscoveryStart, map[string]any{
		"app":         e.config.AppName,
		"entryPoints": e.config.EntryPoints,
	}))

	if err := e.initialize(); err != nil {
		e.sink.Emit(events.New(events.DiscoveryError, map[string]any{"error": err.Error()}))
		return &Report{Status: StatusError, DurationMs: time.Since(start).Milliseconds()}, err
	}
	defer e.cleanup()

	e.seed()
	e.explore(ctx)

	e.store.Finish(start)
	report := e.buildReport(start)

	if savedTo, err := graph.Save(e.store.Graph(), e.config.OutputDir); err != nil {
		e.recordError(derrors.StagePersist, "", err)
		report.Status = StatusPartial
		if report.NodesDiscovered == 0 {
			report.Status = StatusError
		}
	} else {
		report.SavedTo = savedTo
	}

	if e.archive != nil {
		if err := e.archive.Put(e.store.Graph()); err != nil {
			e.log.WithError(err).Warn("graph archive write failed")
		}
	}
	report.Errors = e.visitErrors

	switch {
	case e.timedOut:
		e.sink.Emit(events.New(events.DiscoveryTimeout, map[string]any{
			"nodes": report.NodesDiscovered,
			"edges": report.EdgesDiscovered,
		}))
	case e.fatal != nil:
		e.sink.Emit(events.New(events.DiscoveryError, map[string]any{"error": e.fatal.Error()}))
	default:
		e.sink.Emit(events.New(events.DiscoveryComplete, map[string]any{
			"nodes":      report.NodesDiscovered,
			"edges":      report.EdgesDiscovered,
			"durationMs": report.DurationMs,
			"savedTo":    report.SavedTo,
		}))
	}

	e.log.StatsEvent(map[string]interface{}{
		"nodes":    report.NodesDiscovered,
		"edges":    report.EdgesDiscovered,
		"errors":   len(e.visitErrors),
		"status":   report.Status,
		"duration": report.DurationMs,
	})

	return report, e.fatal
}

func (e *Explorer) initialize() error {
	var err error

	e.scope, err = scope.NewChecker(e.config.EntryPoints[0], e.config.ScopeWhitelist)
	if err != nil {
		return fmt.Errorf("failed to create scope checker: %w", err)
	}

	browserCfg := e.config.Browser
	browserCfg.SlowMo = e.config.SlowMo
	e.driver, err = browser.New(browserCfg)
	if err != nil {
		return derrors.NewFatal(derrors.StageBrowser, err)
	}

	e.page, err = e.driver.OpenPage()
	if err != nil {
		return derrors.NewFatal(derrors.StageBrowser, err)
	}

	e.settler = browser.NewSettler(0, 0)
	e.clicks = click.NewDispatcher(0)
	e.pacer = ratelimit.NewPacer(e.config.SlowMo)
	e.store = graph.NewStore(e.config.AppName, e.config.EntryPoints)
	if e.config.AppType != "" && e.config.AppType != graph.AppTypeUnknown {
		e.store.SetAppType(e.config.AppType)
	}
	e.tracker = visited.NewTracker()
	e.frontier = queue.New(frontierBound)

	if e.config.ArchivePath != "" {
		e.archive, err = graph.OpenBoltArchive(e.config.ArchivePath)
		if err != nil {
			return fmt.Errorf("failed to open graph archive: %w", err)
		}
	}

	return nil
}

// seed runs the login flow against the first entry point and loads the
// frontier. A login redirect rewrites the first entry only; explicit
// extra entry points are visited as given.
func (e *Explorer) seed() {
	entries := append([]string(nil), e.config.EntryPoints...)

	if !e.config.Credentials.Empty() {
		if err := e.page.Navigate(entries[0]); err != nil {
			e.recordError(derrors.StageLogin, entries[0], err)
		} else {
			e.settler.Wait(e.page.Page)
			entries = e.applyLoginResult(entries, auth.Login(e.page.Page, e.config.Credentials, e.sink))
		}
	}

	for _, entry := range entries {
		if err := e.frontier.Push(queue.Item{URL: entry, Depth: 0}); err != nil {
			e.log.WithURL(entry).WithError(err).Warn("could not queue entry point")
		}
	}
}

// applyLoginResult folds the login outcome into the run: the graph is
// flagged, scope re-anchors on the post-login host, and the pre-login
// entry is marked visited so the redirect cannot pull it back in as a
// second node.
func (e *Explorer) applyLoginResult(entries []string, result auth.Result) []string {
	if !result.Performed {
		return entries
	}
	e.store.SetLoginRequired(true)
	if result.FinalURL != "" && result.FinalURL != entries[0] {
		e.tracker.MarkURL(urlutil.Normalize(entries[0]))
		e.scope.Rebase(result.FinalURL)
		entries[0] = result.FinalURL
	}
	return entries
}

func (e *Explorer) explore(ctx context.Context) {
	for {
		if ctx.Err() != nil || time.Now().After(e.deadline) {
			e.timedOut = true
			return
		}
		if e.store.NodeCount() >= e.config.MaxNodes {
			return
		}

		item, err := e.frontier.Pop()
		if err != nil {
			return
		}

		norm := urlutil.Normalize(item.URL)
		if e.tracker.SeenURL(norm) {
			e.linkToExisting(item, norm)
			continue
		}
		if !e.scope.InScope(item.URL) {
			e.sink.Emit(events.New(events.SkipExternal, map[string]any{"url": item.URL}))
			continue
		}

		e.visit(ctx, item, norm)
		if e.fatal != nil {
			return
		}
	}
}

// linkToExisting records the edge to an already-visited node when a
// second path reaches the same URL.
func (e *Explorer) linkToExisting(item queue.Item, norm string) {
	if item.SourceNodeID == "" {
		return
	}
	target, ok := e.store.NodeByNormalizedURL(norm)
	if !ok {
		return
	}
	if el, ok := e.sourceElement(item.SourceNodeID, item.SourceElementID); ok {
		e.store.AddEdge(item.SourceNodeID, target.ID, *el, graph.InteractionNavigate)
		el.TargetNodeID = target.ID
	}
}

func (e *Explorer) sourceElement(nodeID, elementID string) (*graph.Element, bool) {
	node, ok := e.store.Node(nodeID)
	if !ok {
		return nil, false
	}
	for i := range node.Elements {
		if node.Elements[i].ID == elementID {
			return &node.Elements[i], true
		}
	}
	return nil, false
}

// visit loads one URL, records its node and probes it for transitions.
func (e *Explorer) visit(ctx context.Context, item queue.Item, norm string) {
	e.sink.Emit(events.New(events.Visiting, map[string]any{
		"url":   item.URL,
		"depth": item.Depth,
	}))
	e.log.VisitEvent(logger.InfoLevel, item.URL, item.Depth).Msg("visiting")

	e.tracker.MarkURL(norm)
	if err := e.pacer.Wait(ctx); err != nil {
		e.timedOut = true
		return
	}

	loadStart := time.Now()
	if err := e.page.Navigate(item.URL); err != nil {
		cerr := derrors.Categorize(err, derrors.StageNavigate, item.URL)
		e.recordError(cerr.Stage, item.URL, cerr)
		if derrors.IsFatal(cerr) {
			e.fatal = cerr
		}
		return
	}
	e.settler.Wait(e.page.Page)
	loadTime := time.Since(loadStart).Milliseconds()

	finalURL := e.page.CurrentURL()
	if finalURL == "" {
		finalURL = item.URL
	}
	finalNorm := urlutil.Normalize(finalURL)

	// A redirect may land on a page already in the graph.
	if finalNorm != norm {
		e.tracker.MarkURL(finalNorm)
		if existing, ok := e.store.NodeByNormalizedURL(finalNorm); ok {
			e.linkToExisting(queue.Item{
				SourceNodeID:    item.SourceNodeID,
				SourceElementID: item.SourceElementID,
			}, existing.NormalizedURL)
			return
		}
	}

	if e.store.Graph().AppType == graph.AppTypeUnknown {
		if appType := browser.DetectAppType(e.page.Scoped()); appType != graph.AppTypeUnknown {
			e.store.SetAppType(appType)
			e.sink.Emit(events.New(events.AppTypeDetected, map[string]any{"appType": string(appType)}))
		}
	}

	pageHTML, herr := e.page.HTML()
	if herr != nil {
		pageHTML = ""
	}

	elements, err := dom.Extract(e.page.Scoped(), e.config.MaxElementsPerPage)
	if err != nil {
		e.recordError(derrors.StageExtract, finalURL, err)
		// Degrade to parsing the HTML; elements keep selectors and text
		// but lose geometry.
		elements, _ = dom.ExtractStatic(pageHTML, e.config.MaxElementsPerPage)
	}

	node := urlNode(item, finalURL, finalNorm, e.page.Title(), dom.Fingerprint(pageHTML),
		elements, e.page.ConsoleErrors(), loadTime)
	e.captureScreenshot(node)

	if !e.store.AddNode(node) {
		return
	}
	e.tracker.MarkState(node.ID)
	e.sink.Emit(events.New(events.NodeCreated, map[string]any{
		"nodeId": node.ID,
		"url":    node.URL,
		"depth":  node.Depth,
	}))
	e.log.NodeEvent(node.ID, node.URL, len(node.Elements))

	if item.SourceNodeID != "" {
		if el, ok := e.sourceElement(item.SourceNodeID, item.SourceElementID); ok {
			e.store.AddEdge(item.SourceNodeID, node.ID, *el, graph.InteractionNavigate)
			el.TargetNodeID = node.ID
		}
	}

	e.queueLinks(node, item.Depth)
	if e.depthRemaining(item.Depth) {
		e.clickPhase(ctx, node, item.Depth)
	}
}

// urlNode assembles the node for a freshly visited URL state. The node
// id keys on the normalized URL alone; the fingerprint is carried as an
// attribute and as the baseline for same-URL state detection.
func urlNode(item queue.Item, finalURL, finalNorm, title, fp string, elements []graph.Element, consoleErrors []string, loadMs int64) *graph.Node {
	return &graph.Node{
		ID:             graph.NodeID(finalNorm, ""),
		URL:            finalURL,
		NormalizedURL:  finalNorm,
		Title:          title,
		IsEntryPoint:   item.Depth == 0,
		Depth:          item.Depth,
		Elements:       elements,
		ConsoleErrors:  consoleErrors,
		LoadTimeMs:     loadMs,
		DOMFingerprint: fp,
		Timestamp:      time.Now(),
	}
}

// depthRemaining reports whether children of a node at this depth may
// still be discovered, by link or by click.
func (e *Explorer) depthRemaining(depth int) bool {
	return depth < e.config.MaxDepth
}

// queueLinks is phase one: follow hrefs without clicking.
func (e *Explorer) queueLinks(node *graph.Node, depth int) {
	if !e.depthRemaining(depth) {
		return
	}

	for i := range node.Elements {
		el := &node.Elements[i]
		if el.Href == "" {
			continue
		}
		abs := urlutil.Resolve(node.URL, el.Href)
		if abs == "" {
			continue
		}
		// Once logged in, following the login page again only logs us out
		// of context.
		if !e.config.Credentials.Empty() && auth.LooksLikeLoginURL(abs) {
			continue
		}
		if !e.scope.InScope(abs) {
			e.sink.Emit(events.New(events.SkipExternal, map[string]any{"url": abs}))
			continue
		}
		childNorm := urlutil.Normalize(abs)
		if childNorm == node.NormalizedURL {
			continue
		}
		if e.tracker.SeenURL(childNorm) {
			if target, ok := e.store.NodeByNormalizedURL(childNorm); ok {
				e.store.AddEdge(node.ID, target.ID, *el, graph.InteractionNavigate)
				el.TargetNodeID = target.ID
			}
			continue
		}
		err := e.frontier.Push(queue.Item{
			URL:             abs,
			Depth:           depth + 1,
			SourceNodeID:    node.ID,
			SourceElementID: el.ID,
		})
		if err != nil {
			return
		}
	}
}

// clickPhase is phase two: activate non-link clickables, tabs and nav
// items first, and watch what each one does to the URL and the DOM.
func (e *Explorer) clickPhase(ctx context.Context, node *graph.Node, depth int) {
	baseFP := node.DOMFingerprint

	clicked := 0
	for _, i := range clickOrder(node.Elements) {
		if clicked >= maxClicksPerPage {
			break
		}
		if ctx.Err() != nil || time.Now().After(e.deadline) {
			e.timedOut = true
			return
		}
		if e.store.NodeCount() >= e.config.MaxNodes {
			return
		}

		el := &node.Elements[i]

		if err := e.pacer.Wait(ctx); err != nil {
			e.timedOut = true
			return
		}
		clicked++

		if !e.clicks.Click(e.page.Page, *el) {
			continue
		}
		e.settler.Wait(e.page.Page)

		curURL := e.page.CurrentURL()
		curNorm := urlutil.Normalize(curURL)

		if curNorm != node.NormalizedURL {
			e.handleNavigation(node, el, curURL, curNorm, depth)
			e.renavigate(node.URL)
			continue
		}

		html, err := e.page.HTML()
		if err != nil {
			e.renavigate(node.URL)
			continue
		}
		fp := dom.Fingerprint(html)
		if fp != "" && fp != baseFP {
			path := []click.Descriptor{click.DescriptorFor(*el)}
			e.recordSPAState(node, el, fp, baseFP, path, 1)
		}
		e.renavigate(node.URL)
	}
}

// handleNavigation deals with a click that changed the URL.
func (e *Explorer) handleNavigation(node *graph.Node, el *graph.Element, curURL, curNorm string, depth int) {
	e.sink.Emit(events.New(events.NavigationDetected, map[string]any{
		"from": node.NormalizedURL,
		"to":   curNorm,
	}))

	if target, ok := e.store.NodeByNormalizedURL(curNorm); ok {
		e.store.AddEdge(node.ID, target.ID, *el, graph.InteractionClick)
		el.TargetNodeID = target.ID
		return
	}
	if !e.scope.InScope(curURL) {
		e.sink.Emit(events.New(events.SkipExternal, map[string]any{"url": curURL}))
		return
	}
	if e.depthRemaining(depth) && !e.tracker.SeenURL(curNorm) {
		_ = e.frontier.Push(queue.Item{
			URL:             curURL,
			Depth:           depth + 1,
			SourceNodeID:    node.ID,
			SourceElementID: el.ID,
		})
	}
}

// recordSPAState creates a node for a same-URL DOM state and explores it
// deeper through click replay.
func (e *Explorer) recordSPAState(base *graph.Node, el *graph.Element, fp, baseFP string, path []click.Descriptor, spaDepth int) {
	stateID := graph.NodeID(base.NormalizedURL, fp)

	if !e.tracker.MarkState(stateID) {
		if target, ok := e.store.Node(stateID); ok {
			e.store.AddEdge(base.ID, target.ID, *el, graph.InteractionClick)
			el.TargetNodeID = target.ID
		}
		return
	}
	if e.store.NodeCount() >= e.config.MaxNodes {
		return
	}

	elements, err := dom.Extract(e.page.Scoped(), e.config.MaxElementsPerPage)
	if err != nil {
		e.recordError(derrors.StageExtract, base.URL, err)
	}

	state := &graph.Node{
		ID:             stateID,
		URL:            e.page.CurrentURL(),
		NormalizedURL:  base.NormalizedURL,
		Title:          el.Text,
		Depth:          base.Depth,
		Elements:       elements,
		ConsoleErrors:  e.page.ConsoleErrors(),
		DOMFingerprint: fp,
		Timestamp:      time.Now(),
	}
	e.captureScreenshot(state)

	if !e.store.AddNode(state) {
		return
	}
	e.sink.Emit(events.New(events.SPAStateFound, map[string]any{
		"nodeId":   state.ID,
		"url":      base.NormalizedURL,
		"trigger":  el.Text,
		"spaDepth": spaDepth,
	}))
	e.log.NodeEvent(state.ID, state.NormalizedURL, len(state.Elements))

	e.store.AddEdge(base.ID, state.ID, *el, graph.InteractionClick)
	el.TargetNodeID = state.ID

	if exploreFurther(spaDepth) {
		e.exploreSPAState(base, state, baseFP, path, spaDepth)
	}
}

// exploreSPAState probes a freshly found SPA state by replaying the
// click path from a clean page load for each candidate.
func (e *Explorer) exploreSPAState(base, state *graph.Node, baseFP string, path []click.Descriptor, spaDepth int) {
	candidates := spaCandidates(state.Elements, spaCandidateCap(spaDepth))

	for _, cand := range candidates {
		if time.Now().After(e.deadline) {
			e.timedOut = true
			return
		}
		if e.store.NodeCount() >= e.config.MaxNodes {
			return
		}

		// Fresh load, then replay the path to get back into this state.
		if !e.renavigate(base.URL) {
			return
		}
		if !e.replayPath(path) {
			continue
		}

		desc := click.DescriptorFor(cand)
		if !e.clicks.Replay(e.page.Page, desc) {
			continue
		}
		e.settler.Wait(e.page.Page)

		if urlutil.Normalize(e.page.CurrentURL()) != base.NormalizedURL {
			// Replayed click navigated away; treat like phase-two nav.
			candCopy := cand
			e.handleNavigation(state, &candCopy, e.page.CurrentURL(), urlutil.Normalize(e.page.CurrentURL()), base.Depth)
			continue
		}

		html, err := e.page.HTML()
		if err != nil {
			continue
		}
		fp := dom.Fingerprint(html)
		if fp == "" || fp == state.DOMFingerprint || fp == baseFP {
			continue
		}

		candCopy := cand
		nextPath := append(append([]click.Descriptor(nil), path...), desc)
		e.recordSPAStateFrom(base, state, &candCopy, fp, baseFP, nextPath, spaDepth+1)
	}
}

// recordSPAStateFrom is recordSPAState with an explicit source state.
func (e *Explorer) recordSPAStateFrom(base, source *graph.Node, el *graph.Element, fp, baseFP string, path []click.Descriptor, spaDepth int) {
	stateID := graph.NodeID(source.NormalizedURL, fp)

	if !e.tracker.MarkState(stateID) {
		if target, ok := e.store.Node(stateID); ok {
			e.store.AddEdge(source.ID, target.ID, *el, graph.InteractionClick)
		}
		return
	}
	if e.store.NodeCount() >= e.config.MaxNodes {
		return
	}

	elements, err := dom.Extract(e.page.Scoped(), e.config.MaxElementsPerPage)
	if err != nil {
		e.recordError(derrors.StageExtract, source.NormalizedURL, err)
	}

	state := &graph.Node{
		ID:             stateID,
		URL:            e.page.CurrentURL(),
		NormalizedURL:  source.NormalizedURL,
		Title:          el.Text,
		Depth:          source.Depth,
		Elements:       elements,
		ConsoleErrors:  e.page.ConsoleErrors(),
		DOMFingerprint: fp,
		Timestamp:      time.Now(),
	}
	e.captureScreenshot(state)

	if !e.store.AddNode(state) {
		return
	}
	e.sink.Emit(events.New(events.SPAStateFound, map[string]any{
		"nodeId":   state.ID,
		"url":      state.NormalizedURL,
		"trigger":  el.Text,
		"spaDepth": spaDepth,
	}))

	e.store.AddEdge(source.ID, state.ID, *el, graph.InteractionClick)

	if exploreFurther(spaDepth) {
		e.exploreSPAState(base, state, baseFP, path, spaDepth)
	}
}

// clickOrder returns the indices of click candidates (clickable kinds
// without an href), tabs and nav items first, page order within a kind.
func clickOrder(elements []graph.Element) []int {
	order := make([]int, 0, len(elements))
	for i, el := range elements {
		if el.Kind.Clickable() && el.Href == "" {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return elements[order[a]].Kind.Priority() > elements[order[b]].Kind.Priority()
	})
	return order
}

// spaCandidates picks the most promising clickables of a state, bounded
// by the depth cap.
func spaCandidates(elements []graph.Element, limit int) []graph.Element {
	order := clickOrder(elements)
	if len(order) > limit {
		order = order[:limit]
	}
	candidates := make([]graph.Element, 0, len(order))
	for _, i := range order {
		candidates = append(candidates, elements[i])
	}
	return candidates
}

// renavigate reloads a URL and waits for it to settle. Used to restore
// known ground after a click changed the world.
func (e *Explorer) renavigate(url string) bool {
	if err := e.page.Navigate(url); err != nil {
		cerr := derrors.Categorize(err, derrors.StageNavigate, url)
		e.recordError(cerr.Stage, url, cerr)
		if derrors.IsFatal(cerr) {
			e.fatal = cerr
		}
		return false
	}
	e.settler.Wait(e.page.Page)
	return true
}

// replayPath re-executes a recorded click sequence on a fresh page.
func (e *Explorer) replayPath(path []click.Descriptor) bool {
	for _, desc := range path {
		if !e.clicks.Replay(e.page.Page, desc) {
			return false
		}
		e.settler.Wait(e.page.Page)
	}
	return true
}

func (e *Explorer) captureScreenshot(node *graph.Node) {
	if !e.config.Screenshots {
		return
	}
	path := filepath.Join(e.config.OutputDir, "graph-screenshots", "graph-"+node.ID+".png")
	if err := e.page.CaptureScreenshot(path); err != nil {
		e.recordError(derrors.StageScreenshot, node.URL, err)
		return
	}
	node.Screenshot = path
}

func (e *Explorer) recordError(stage, url string, err error) {
	e.visitErrors = append(e.visitErrors, VisitError{
		URL:     url,
		Stage:   stage,
		Message: err.Error(),
	})
	e.sink.Emit(events.New(events.VisitError, map[string]any{
		"url":   url,
		"stage": stage,
		"error": err.Error(),
	}))
	e.log.ErrorEvent(err, url, stage)
}

func (e *Explorer) buildReport(start time.Time) *Report {
	report := &Report{
		Graph:           e.store.Graph(),
		NodesDiscovered: e.store.NodeCount(),
		EdgesDiscovered: e.store.EdgeCount(),
		DurationMs:      time.Since(start).Milliseconds(),
	}

	switch {
	case report.NodesDiscovered == 0:
		report.Status = StatusError
	case e.fatal != nil:
		// A fatal failure still hands back the partial graph, but the
		// run itself is an error.
		report.Status = StatusError
	case e.timedOut || len(e.visitErrors) > 0:
		report.Status = StatusPartial
	default:
		report.Status = StatusSuccess
	}
	return report
}

func (e *Explorer) cleanup() {
	if e.page != nil {
		_ = e.page.Close()
	}
	if e.driver != nil {
		_ = e.driver.Close()
	}
	if e.archive != nil {
		_ = e.archive.Close()
	}
}
