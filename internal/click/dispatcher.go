// Package click activates page elements through an ordered list of locator
// strategies, so one brittle locator never costs an exploration step.
package click

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/testweaver/sitegraph/pkg/graph"
)

// Descriptor is the minimal locator set recorded for click-path replay.
type Descriptor struct {
	CSSPath string `json:"cssPath"`
	Text    string `json:"text"`
	TestID  string `json:"testId"`
}

// DescriptorFor captures the replayable locators of an element.
func DescriptorFor(el graph.Element) Descriptor {
	return Descriptor{
		CSSPath: el.CSSPath,
		Text:    el.Text,
		TestID:  el.TestID,
	}
}

// Dispatcher clicks elements, trying strategies in order and
// short-circuiting on the first that works. It never panics and never
// aborts a crawl: all failures collapse into a false return.
type Dispatcher struct {
	strategyTimeout time.Duration
}

// NewDispatcher creates a dispatcher with the given per-strategy timeout.
func NewDispatcher(strategyTimeout time.Duration) *Dispatcher {
	if strategyTimeout <= 0 {
		strategyTimeout = 3 * time.Second
	}
	return &Dispatcher{strategyTimeout: strategyTimeout}
}

type strategy struct {
	name string
	run  func(page *rod.Page) error
}

// Click attempts to activate an element. Strategy order: CSS path,
// test-id, exact visible text, aria-label, then a synthetic pointer event
// at the bounding-box center.
func (d *Dispatcher) Click(page *rod.Page, el graph.Element) bool {
	strategies := make([]strategy, 0, 5)

	if el.CSSPath != "" {
		strategies = append(strategies, d.bySelector("css_path", el.CSSPath))
	}
	if el.TestID != "" {
		strategies = append(strategies, d.bySelector("test_id", testIDSelector(el.TestID)))
	}
	if el.Text != "" {
		strategies = append(strategies, d.byText(el.Text))
	}
	if el.AriaLabel != "" {
		strategies = append(strategies, d.bySelector("aria_label", ariaSelector(el.AriaLabel)))
	}
	if el.Width > 0 && el.Height > 0 {
		strategies = append(strategies, d.byCoordinates(el.X+el.Width/2, el.Y+el.Height/2))
	}

	return d.attempt(page, strategies)
}

// Replay activates an element from its recorded descriptor using the
// deterministic strategies only (CSS path, test-id, text). Coordinates
// and aria labels are not replay-safe: the page is freshly rendered and
// layout may have shifted.
func (d *Dispatcher) Replay(page *rod.Page, desc Descriptor) bool {
	strategies := make([]strategy, 0, 3)

	if desc.CSSPath != "" {
		strategies = append(strategies, d.bySelector("css_path", desc.CSSPath))
	}
	if desc.TestID != "" {
		strategies = append(strategies, d.bySelector("test_id", testIDSelector(desc.TestID)))
	}
	if desc.Text != "" {
		strategies = append(strategies, d.byText(desc.Text))
	}

	return d.attempt(page, strategies)
}

func (d *Dispatcher) attempt(page *rod.Page, strategies []strategy) bool {
	for _, s := range strategies {
		if err := s.run(page); err == nil {
			return true
		}
	}
	return false
}

func (d *Dispatcher) bySelector(name, selector string) strategy {
	return strategy{
		name: name,
		run: func(page *rod.Page) error {
			p := page.Timeout(d.strategyTimeout)
			el, err := p.Element(selector)
			if err != nil {
				return err
			}
			return el.Click(proto.InputMouseButtonLeft, 1)
		},
	}
}

func (d *Dispatcher) byText(text string) strategy {
	return strategy{
		name: "text",
		run: func(page *rod.Page) error {
			p := page.Timeout(d.strategyTimeout)
			pattern := "^" + regexp.QuoteMeta(strings.TrimSpace(text)) + "$"
			el, err := p.ElementR("a, button, [role], li, div, span", pattern)
			if err != nil {
				return err
			}
			return el.Click(proto.InputMouseButtonLeft, 1)
		},
	}
}

func (d *Dispatcher) byCoordinates(x, y float64) strategy {
	return strategy{
		name: "coordinates",
		run: func(page *rod.Page) error {
			p := page.Timeout(d.strategyTimeout)
			if err := p.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
				return err
			}
			return p.Mouse.Click(proto.InputMouseButtonLeft, 1)
		},
	}
}

func testIDSelector(testID string) string {
	escaped := strings.ReplaceAll(testID, `"`, `\"`)
	return fmt.Sprintf(`[data-testid="%s"], [data-test-id="%s"]`, escaped, escaped)
}

func ariaSelector(label string) string {
	return fmt.Sprintf(`[aria-label="%s"]`, strings.ReplaceAll(label, `"`, `\"`))
}
