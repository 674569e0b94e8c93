package dom

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-rod/rod"

	"github.com/testweaver/sitegraph/pkg/graph"
)

// maxTextLength bounds the visible text captured per element.
const maxTextLength = 100

// maxNonLinkTextLength rejects suspiciously long text on anything that is
// not a link. Long link text is legitimate navigation; long button text is
// almost always a misattributed container.
const maxNonLinkTextLength = 80

// collectorOverscan multiplies the in-page cap so danger filtering and
// dedup on the Go side still leave enough candidates to fill maxElements
// on pages front-loaded with rejects.
const collectorOverscan = 3

// rawElement is the wire form produced by the in-page collector.
type rawElement struct {
	Selector  string  `json:"selector"`
	Tag       string  `json:"tag"`
	Role      string  `json:"role"`
	ClassName string  `json:"className"`
	InputType string  `json:"inputType"`
	Text      string  `json:"text"`
	Href      string  `json:"href"`
	AriaLabel string  `json:"ariaLabel"`
	TestID    string  `json:"testId"`
	CSSPath   string  `json:"cssPath"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// collectorJS runs inside the page. It walks a fixed family of selectors,
// applies visibility gates, computes a CSS path short-circuited at the
// nearest ancestor with an id, and returns at most `limit` candidates as
// JSON. Danger filtering and exact dedup happen on the Go side, so the
// in-page limit is an overscanned bound on the payload, not the final cap.
const collectorJS = `(limit) => {
	const selectors = [
		'a[href]',
		'button',
		'[role="button"]', '[role="tab"]', '[role="menuitem"]', '[role="link"]',
		'input[type="button"]', 'input[type="submit"]',
		'nav a', 'nav li', '.nav-item', '.nav-link', '.menu-item', '.tab',
		'[data-testid]', '[data-test-id]',
		'#root [onclick]', '#root [tabindex]',
		'.stApp [role="tab"]', '.stApp button', '[data-testid="stSidebar"] a'
	];

	const cssPath = (el) => {
		const parts = [];
		let node = el;
		while (node && node.nodeType === Node.ELEMENT_NODE && node.tagName !== 'HTML') {
			if (node.id) {
				parts.unshift('#' + node.id);
				break;
			}
			let part = node.tagName.toLowerCase();
			const parent = node.parentElement;
			if (parent) {
				const siblings = Array.from(parent.children).filter(c => c.tagName === node.tagName);
				if (siblings.length > 1) {
					part += ':nth-of-type(' + (siblings.indexOf(node) + 1) + ')';
				}
			}
			parts.unshift(part);
			node = parent;
		}
		return parts.join(' > ');
	};

	const seen = new Set();
	const out = [];

	for (const selector of selectors) {
		if (out.length >= limit) break;
		let matches;
		try { matches = document.querySelectorAll(selector); } catch (e) { continue; }
		for (const el of matches) {
			if (out.length >= limit) break;
			if (seen.has(el)) continue;
			seen.add(el);

			const rect = el.getBoundingClientRect();
			if (rect.width < 5 || rect.height < 5) continue;

			const style = window.getComputedStyle(el);
			if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') continue;

			const text = (el.innerText || el.textContent || '').trim().slice(0, 100);
			const ariaLabel = el.getAttribute('aria-label') || '';
			if (!text && !ariaLabel) continue;

			out.push({
				selector: selector,
				tag: el.tagName.toLowerCase(),
				role: el.getAttribute('role') || '',
				className: (typeof el.className === 'string') ? el.className : '',
				inputType: el.getAttribute('type') || '',
				text: text,
				href: el.getAttribute('href') || '',
				ariaLabel: ariaLabel.slice(0, 100),
				testId: el.getAttribute('data-testid') || el.getAttribute('data-test-id') || '',
				cssPath: cssPath(el),
				x: rect.x, y: rect.y, width: rect.width, height: rect.height
			});
		}
	}

	return JSON.stringify(out);
}`

// Extract collects the page's interactive elements, bounded by
// maxElements, with danger filtering, dedup and stable ids applied.
func Extract(page *rod.Page, maxElements int) ([]graph.Element, error) {
	res, err := page.Eval(collectorJS, maxElements*collectorOverscan)
	if err != nil {
		return nil, fmt.Errorf("element collection failed: %w", err)
	}

	var raws []rawElement
	if err := json.Unmarshal([]byte(res.Value.Str()), &raws); err != nil {
		return nil, fmt.Errorf("failed to decode collected elements: %w", err)
	}

	return Assemble(raws, maxElements), nil
}

// Assemble turns raw candidates into graph elements: classification,
// danger filtering, long-text rejection, (text, x, y) dedup, id
// assignment and the per-page cap.
func Assemble(raws []rawElement, maxElements int) []graph.Element {
	type dedupKey struct {
		text string
		x, y int
	}
	seen := make(map[dedupKey]struct{})

	elements := make([]graph.Element, 0, len(raws))
	for _, raw := range raws {
		if len(elements) >= maxElements {
			break
		}

		kind := Classify(raw.Tag, raw.Role, raw.ClassName, raw.InputType, raw.Href)

		text := truncateRunes(raw.Text, maxTextLength)
		if kind != graph.KindLink && utf8.RuneCountInString(text) > maxNonLinkTextLength {
			continue
		}
		if Dangerous(text, raw.Href) {
			continue
		}

		key := dedupKey{
			text: text,
			x:    int(math.Round(raw.X)),
			y:    int(math.Round(raw.Y)),
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		elements = append(elements, graph.Element{
			ID:        graph.ElementID(raw.CSSPath, raw.Selector, text, len(elements)),
			Kind:      kind,
			Text:      text,
			Href:      raw.Href,
			AriaLabel: raw.AriaLabel,
			TestID:    raw.TestID,
			CSSPath:   raw.CSSPath,
			Selector:  raw.Selector,
			X:         raw.X,
			Y:         raw.Y,
			Width:     raw.Width,
			Height:    raw.Height,
		})
	}

	return elements
}

// truncateRunes bounds text to limit runes. Cutting at a byte offset
// could split a multibyte character and corrupt locator text.
func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

// Classify maps DOM observations to an element kind.
func Classify(tag, role, className, inputType, href string) graph.ElementKind {
	switch role {
	case "tab":
		return graph.KindTab
	case "menuitem":
		return graph.KindNavItem
	case "button":
		return graph.KindButton
	case "link":
		return graph.KindLink
	}

	lowerClass := strings.ToLower(className)
	switch {
	case tag == "a" && href != "":
		if strings.Contains(lowerClass, "nav") || strings.Contains(lowerClass, "menu") {
			return graph.KindNavItem
		}
		return graph.KindLink
	case tag == "button":
		if strings.Contains(lowerClass, "tab") {
			return graph.KindTab
		}
		return graph.KindButton
	case tag == "input" && (inputType == "button" || inputType == "submit"):
		return graph.KindButton
	case tag == "input" || tag == "textarea":
		return graph.KindInput
	case tag == "select":
		return graph.KindDropdown
	case strings.Contains(lowerClass, "dropdown"):
		return graph.KindDropdown
	case strings.Contains(lowerClass, "nav") || strings.Contains(lowerClass, "menu") || tag == "li":
		return graph.KindNavItem
	case strings.Contains(lowerClass, "tab"):
		return graph.KindTab
	default:
		return graph.KindOther
	}
}
