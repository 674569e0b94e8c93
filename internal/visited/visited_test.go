package visited

import (
	"fmt"
	"testing"
)

func TestSetAdd(t *testing.T) {
	s := NewSet()

	if !s.Add("https://app.test/") {
		t.Error("first Add must report new")
	}
	if s.Add("https://app.test/") {
		t.Error("second Add must report already present")
	}
	if !s.Contains("https://app.test/") {
		t.Error("Contains must find added key")
	}
	if s.Contains("https://app.test/other") {
		t.Error("Contains must not find missing key")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSetExactness(t *testing.T) {
	s := NewSet()

	// Enough keys to make bloom false positives plausible; the exact map
	// must keep answers precise regardless.
	for i := 0; i < 5000; i++ {
		s.Add(fmt.Sprintf("https://app.test/page/%d", i))
	}

	for i := 0; i < 5000; i++ {
		if !s.Contains(fmt.Sprintf("https://app.test/page/%d", i)) {
			t.Fatalf("key %d lost", i)
		}
	}
	for i := 5000; i < 10000; i++ {
		if s.Contains(fmt.Sprintf("https://app.test/page/%d", i)) {
			t.Fatalf("phantom membership for key %d", i)
		}
	}
	if s.Len() != 5000 {
		t.Errorf("Len() = %d, want 5000", s.Len())
	}
}

func TestTrackerIndependentSets(t *testing.T) {
	tr := NewTracker()

	if !tr.MarkURL("https://app.test/dash") {
		t.Error("first URL mark must report new")
	}
	if tr.MarkURL("https://app.test/dash") {
		t.Error("repeat URL mark must report seen")
	}

	// A state key equal to a URL key must not collide across sets.
	if !tr.MarkState("https://app.test/dash") {
		t.Error("state set must be independent of URL set")
	}

	if tr.URLCount() != 1 || tr.StateCount() != 1 {
		t.Errorf("counts = %d urls, %d states; want 1, 1", tr.URLCount(), tr.StateCount())
	}
	if !tr.SeenURL("https://app.test/dash") || !tr.SeenState("https://app.test/dash") {
		t.Error("seen checks must reflect marks")
	}
	if tr.SeenState("missing") {
		t.Error("unmarked state reported seen")
	}
}
