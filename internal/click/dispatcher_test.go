package click

import (
	"testing"
	"time"

	"github.com/testweaver/sitegraph/pkg/graph"
)

func TestDescriptorFor(t *testing.T) {
	el := graph.Element{
		ID:      "abc123def0",
		Kind:    graph.KindTab,
		Text:    "Reports",
		TestID:  "tab-reports",
		CSSPath: "#root > nav > button:nth-of-type(2)",
		X:       10, Y: 20, Width: 80, Height: 30,
	}

	desc := DescriptorFor(el)
	if desc.CSSPath != el.CSSPath || desc.Text != el.Text || desc.TestID != el.TestID {
		t.Errorf("descriptor lost locator data: %+v", desc)
	}
}

func TestNewDispatcherDefaultTimeout(t *testing.T) {
	d := NewDispatcher(0)
	if d.strategyTimeout != 3*time.Second {
		t.Errorf("default timeout = %v, want 3s", d.strategyTimeout)
	}

	d = NewDispatcher(500 * time.Millisecond)
	if d.strategyTimeout != 500*time.Millisecond {
		t.Errorf("timeout = %v, want 500ms", d.strategyTimeout)
	}
}

func TestTestIDSelector(t *testing.T) {
	got := testIDSelector("stSidebar")
	want := `[data-testid="stSidebar"], [data-test-id="stSidebar"]`
	if got != want {
		t.Errorf("testIDSelector() = %q, want %q", got, want)
	}

	got = testIDSelector(`say-"hi"`)
	want = `[data-testid="say-\"hi\""], [data-test-id="say-\"hi\""]`
	if got != want {
		t.Errorf("testIDSelector() with quotes = %q, want %q", got, want)
	}
}

func TestAriaSelector(t *testing.T) {
	got := ariaSelector("Open menu")
	if got != `[aria-label="Open menu"]` {
		t.Errorf("ariaSelector() = %q", got)
	}
}
