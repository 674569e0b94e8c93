package dom

import (
	"testing"

	"github.com/testweaver/sitegraph/pkg/graph"
)

const staticFixture = `<!DOCTYPE html>
<html><body>
	<nav>
		<a href="/dashboard" class="nav-link">Dashboard</a>
		<a href="/reports" class="nav-link">Reports</a>
	</nav>
	<main>
		<button>Refresh</button>
		<button aria-label="Close dialog"></button>
		<div role="tab" data-testid="tab-overview">Overview</div>
		<a href="/logout">Logout</a>
		<button></button>
		<input type="submit" value="Go">
	</main>
</body></html>`

func TestExtractStatic(t *testing.T) {
	elements, err := ExtractStatic(staticFixture, 30)
	if err != nil {
		t.Fatalf("ExtractStatic: %v", err)
	}

	byText := make(map[string]graph.Element)
	for _, el := range elements {
		key := el.Text
		if key == "" {
			key = el.AriaLabel
		}
		byText[key] = el
	}

	if el, ok := byText["Dashboard"]; !ok {
		t.Error("Dashboard link missing")
	} else {
		if el.Kind != graph.KindNavItem {
			t.Errorf("Dashboard kind = %s, want nav-item", el.Kind)
		}
		if el.Href != "/dashboard" {
			t.Errorf("Dashboard href = %q", el.Href)
		}
	}

	if el, ok := byText["Overview"]; !ok {
		t.Error("tab missing")
	} else {
		if el.Kind != graph.KindTab {
			t.Errorf("Overview kind = %s, want tab", el.Kind)
		}
		if el.TestID != "tab-overview" {
			t.Errorf("Overview testId = %q", el.TestID)
		}
	}

	if _, ok := byText["Refresh"]; !ok {
		t.Error("button missing")
	}
	if _, ok := byText["Close dialog"]; !ok {
		t.Error("aria-only button missing")
	}

	// Logout matches the danger filter, and the empty button has neither
	// text nor label.
	if _, ok := byText["Logout"]; ok {
		t.Error("dangerous element should be filtered")
	}
	for _, el := range elements {
		if el.Text == "" && el.AriaLabel == "" {
			t.Error("element with no text and no label should be skipped")
		}
	}
}

func TestExtractStaticNoDuplicatesAcrossSelectors(t *testing.T) {
	// nav a matches both "a[href]" and "nav a".
	elements, err := ExtractStatic(staticFixture, 30)
	if err != nil {
		t.Fatalf("ExtractStatic: %v", err)
	}

	count := 0
	for _, el := range elements {
		if el.Text == "Dashboard" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Dashboard extracted %d times, want 1", count)
	}
}

func TestExtractStaticRespectsCap(t *testing.T) {
	elements, err := ExtractStatic(staticFixture, 2)
	if err != nil {
		t.Fatalf("ExtractStatic: %v", err)
	}
	if len(elements) > 2 {
		t.Errorf("got %d elements, cap is 2", len(elements))
	}
}
