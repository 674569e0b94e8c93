package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/testweaver/sitegraph/pkg/graph"
)

// staticSelectors mirrors the in-page collector's selector family, minus
// the geometry-dependent entries that mean nothing without a layout.
var staticSelectors = []string{
	"a[href]",
	"button",
	`[role="button"]`, `[role="tab"]`, `[role="menuitem"]`, `[role="link"]`,
	`input[type="button"]`, `input[type="submit"]`,
	"nav a", "nav li", ".nav-item", ".nav-link", ".menu-item", ".tab",
	"[data-testid]", "[data-test-id]",
}

// ExtractStatic harvests interactive elements from raw HTML without a
// live page. Used when the in-page collector fails: there is no geometry
// and no visibility gate, so coordinates stay zero and the click
// dispatcher falls back to selector and text strategies.
func ExtractStatic(pageHTML string, maxElements int) ([]graph.Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("static parse failed: %w", err)
	}

	// Selections are fresh wrappers per match; dedup on the underlying node.
	seen := make(map[*html.Node]struct{})
	var raws []rawElement

	// Harvest past the cap; Assemble filters before enforcing it.
	bound := maxElements * collectorOverscan
	for _, selector := range staticSelectors {
		if len(raws) >= bound {
			break
		}
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if len(raws) >= bound {
				return false
			}
			node := s.Get(0)
			if _, dup := seen[node]; dup {
				return true
			}
			seen[node] = struct{}{}

			text := truncateRunes(strings.TrimSpace(s.Text()), maxTextLength)
			ariaLabel := s.AttrOr("aria-label", "")
			if text == "" && ariaLabel == "" {
				return true
			}

			tag := goquery.NodeName(s)
			testID := s.AttrOr("data-testid", "")
			if testID == "" {
				testID = s.AttrOr("data-test-id", "")
			}

			raws = append(raws, rawElement{
				Selector:  selector,
				Tag:       tag,
				Role:      s.AttrOr("role", ""),
				ClassName: s.AttrOr("class", ""),
				InputType: s.AttrOr("type", ""),
				Text:      text,
				Href:      s.AttrOr("href", ""),
				AriaLabel: ariaLabel,
				TestID:    testID,
			})
			return true
		})
	}

	return Assemble(raws, maxElements), nil
}
