package browser

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if !c.Headless {
		t.Error("expected headless by default")
	}
	if c.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", c.Timeout)
	}
	if c.ViewportWidth != 1920 || c.ViewportHeight != 1080 {
		t.Errorf("viewport = %dx%d, want 1920x1080", c.ViewportWidth, c.ViewportHeight)
	}
	if !c.IgnoreHTTPSErrors {
		t.Error("expected HTTPS errors ignored by default")
	}
}

// The per-operation deadline must start at the call, not at session
// start. Without a configured timeout Scoped hands back the underlying
// page untouched.
func TestScopedWithoutTimeout(t *testing.T) {
	p := &Page{}
	if got := p.Scoped(); got != p.Page {
		t.Errorf("Scoped() = %v, want the page itself", got)
	}
}
