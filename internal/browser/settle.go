package browser

import (
	"time"

	"github.com/go-rod/rod"
)

// Settle defaults. SPA frameworks keep mutating the tree briefly after
// load and after clicks; waiting for a quiet window beats a fixed sleep.
const (
	defaultQuietWindow = 500 * time.Millisecond
	defaultSettleMax   = 8 * time.Second
	renderGrace        = 200 * time.Millisecond
)

// settleJS resolves once no DOM mutations have happened for quietMs, or
// after maxMs regardless. It always resolves, never rejects.
const settleJS = `(quietMs, maxMs) => {
	return new Promise((resolve) => {
		let timer = setTimeout(done, quietMs);
		const hardStop = setTimeout(done, maxMs);
		let observer;

		function done() {
			clearTimeout(timer);
			clearTimeout(hardStop);
			if (observer) observer.disconnect();
			resolve(true);
		}

		try {
			observer = new MutationObserver(() => {
				clearTimeout(timer);
				timer = setTimeout(done, quietMs);
			});
			observer.observe(document.documentElement, {
				childList: true,
				subtree: true,
				attributes: true
			});
		} catch (e) {
			done();
		}
	});
}`

// Settler waits for the DOM to stop mutating after navigations and
// clicks.
type Settler struct {
	quiet time.Duration
	max   time.Duration
}

// NewSettler creates a settler. Non-positive values take the defaults.
func NewSettler(quiet, max time.Duration) *Settler {
	if quiet <= 0 {
		quiet = defaultQuietWindow
	}
	if max <= 0 {
		max = defaultSettleMax
	}
	return &Settler{quiet: quiet, max: max}
}

// Wait blocks until the page has a quiet window with no mutations, or
// the bound elapses. A failed eval degrades to the hard bound rather
// than failing the visit.
func (s *Settler) Wait(page *rod.Page) {
	p := page.Timeout(s.max + time.Second)
	_, err := p.Eval(settleJS, s.quiet.Milliseconds(), s.max.Milliseconds())
	if err != nil {
		time.Sleep(s.max)
		return
	}
	// Let layout and paint catch up with the final mutation.
	time.Sleep(renderGrace)
}
