package dom

import "testing"

func TestFingerprint(t *testing.T) {
	pageA := `<html><body><main><div><span>Hello</span></div></main></body></html>`
	pageB := `<html><body><main><div><a href="/x">Hello</a></div></main></body></html>`
	pageAText := `<html><body><main><div><span>Different text</span></div></main></body></html>`

	fpA := Fingerprint(pageA)
	fpB := Fingerprint(pageB)
	fpAText := Fingerprint(pageAText)

	if fpA == "" || fpB == "" {
		t.Fatal("expected non-empty fingerprints")
	}
	if fpA == fpB {
		t.Error("structural change must change the fingerprint")
	}
	if fpA != fpAText {
		t.Error("text-only change must not change the fingerprint")
	}
	if len(fpA) != 32 {
		t.Errorf("expected md5 hex digest, got %d chars", len(fpA))
	}
}

func TestFingerprintRoleContributes(t *testing.T) {
	plain := `<html><body><main><div></div></main></body></html>`
	withRole := `<html><body><main><div role="tabpanel"></div></main></body></html>`

	if Fingerprint(plain) == Fingerprint(withRole) {
		t.Error("role attribute must contribute to the fingerprint")
	}
}

func TestFingerprintRootPreference(t *testing.T) {
	// `main` wins over body content around it.
	withMain := `<html><body><header><h1>x</h1></header><main><p>a</p></main></body></html>`
	mainOnly := `<html><body><main><p>a</p></main></body></html>`
	if Fingerprint(withMain) != Fingerprint(mainOnly) {
		t.Error("content outside the main root must not affect the fingerprint")
	}

	// role=main is used when no main tag exists.
	roleMain := `<html><body><div role="main"><p>a</p></div></body></html>`
	if Fingerprint(roleMain) == "" {
		t.Error("role=main root must be fingerprinted")
	}

	// Component root fallback.
	reactRoot := `<html><body><div id="root"><div><p>a</p></div></div></body></html>`
	if Fingerprint(reactRoot) == "" {
		t.Error("#root fallback must be fingerprinted")
	}
}

func TestFingerprintDepthBound(t *testing.T) {
	shallow := `<html><body><main><div><div><div><span></span></div></div></div></main></body></html>`
	// Same structure with extra nesting below the walk depth.
	deep := `<html><body><main><div><div><div><span><b><i></i></b></span></div></div></div></main></body></html>`

	if Fingerprint(shallow) != Fingerprint(deep) {
		t.Error("structure below the depth bound must not affect the fingerprint")
	}
}

func TestFingerprintEmptyInput(t *testing.T) {
	if Fingerprint("") != "" {
		t.Error("empty input must yield an empty digest")
	}
	if Fingerprint("   \n\t ") != "" {
		t.Error("blank input must yield an empty digest")
	}
}
