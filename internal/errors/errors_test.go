package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestTaxonString(t *testing.T) {
	tests := []struct {
		taxon Taxon
		want  string
	}{
		{Transient, "transient"},
		{Recoverable, "recoverable"},
		{Fatal, "fatal"},
		{Taxon(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.taxon.String(); got != tt.want {
			t.Errorf("Taxon(%d).String() = %q, want %q", tt.taxon, got, tt.want)
		}
	}
}

func TestDiscoveryError(t *testing.T) {
	cause := stderrors.New("net::ERR_CONNECTION_REFUSED")
	err := NewTransient(StageNavigate, "https://app.test/x", cause)

	if !stderrors.Is(err, cause) {
		t.Error("Unwrap must expose the cause")
	}

	msg := err.Error()
	for _, part := range []string{"transient", "navigate", "https://app.test/x"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}
}

func TestDiscoveryErrorIsMatchesTaxon(t *testing.T) {
	a := NewTransient(StageNavigate, "https://app.test/a", stderrors.New("x"))
	b := NewTransient(StageSettle, "https://app.test/b", stderrors.New("y"))
	c := NewFatal(StageBrowser, stderrors.New("z"))

	if !stderrors.Is(a, b) {
		t.Error("same-taxon errors must match via Is")
	}
	if stderrors.Is(a, c) {
		t.Error("different taxa must not match")
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		stage string
		want  Taxon
	}{
		{"browser stage is fatal", stderrors.New("boom"), StageBrowser, Fatal},
		{"persist stage is fatal", stderrors.New("disk full"), StagePersist, Fatal},
		{"screenshot is recoverable", stderrors.New("capture failed"), StageScreenshot, Recoverable},
		{"extract is recoverable", stderrors.New("eval failed"), StageExtract, Recoverable},
		{"click is recoverable", stderrors.New("element not found"), StageClick, Recoverable},
		{"timeout is transient", stderrors.New("context deadline exceeded"), StageNavigate, Transient},
		{"connection refused is transient", stderrors.New("dial tcp: connection refused"), StageNavigate, Transient},
		{"dead cdp is fatal", stderrors.New("websocket: close 1006"), StageNavigate, Fatal},
		{"unknown navigate error is transient", stderrors.New("mystery"), StageNavigate, Transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.err, tt.stage, "https://app.test/")
			if got.Taxon != tt.want {
				t.Errorf("Categorize() taxon = %s, want %s", got.Taxon, tt.want)
			}
		})
	}

	if Categorize(nil, StageNavigate, "https://app.test/") != nil {
		t.Error("Categorize(nil) must be nil")
	}
}

func TestCategorizePassesThroughClassified(t *testing.T) {
	orig := NewRecoverable(StageScreenshot, "https://app.test/", stderrors.New("x"))
	wrapped := fmt.Errorf("during visit: %w", orig)

	got := Categorize(wrapped, StageNavigate, "https://app.test/")
	if got != orig {
		t.Error("already-classified errors must pass through unchanged")
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(NewTransient(StageNavigate, "u", stderrors.New("x"))) {
		t.Error("transient must not be fatal")
	}
	if !IsFatal(NewFatal(StageBrowser, stderrors.New("x"))) {
		t.Error("fatal must be fatal")
	}
	if !IsFatal(stderrors.New("use of closed network connection")) {
		t.Error("dead connection must read as fatal")
	}
}

func TestTaxonOf(t *testing.T) {
	if TaxonOf(stderrors.New("plain")) != Transient {
		t.Error("plain errors default to transient")
	}
	if TaxonOf(NewFatal(StagePersist, stderrors.New("x"))) != Fatal {
		t.Error("classified taxon must be reported")
	}
}
