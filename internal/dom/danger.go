// Package dom observes the rendered page: it extracts interactive elements,
// filters out the ones that could destroy state, and fingerprints the DOM
// structure for SPA state identity.
package dom

import "strings"

// destructiveVerbs mark elements whose activation may permanently remove
// state. Matching is case-insensitive substring over the visible text.
var destructiveVerbs = []string{
	"logout", "log out", "sign out", "signout", "exit",
	"delete", "remove", "destroy", "erase", "purge",
	"cancel subscription", "deactivate", "close account",
	"unsubscribe", "revoke", "terminate",
}

// skippedHrefPrefixes identify hrefs that never lead to a page state.
var skippedHrefPrefixes = []string{"mailto:", "tel:", "javascript:void"}

// documentExtensions are binary-document suffixes that a crawl must not
// follow.
var documentExtensions = []string{
	".pdf", ".zip", ".exe", ".dmg",
	".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".csv",
}

// Dangerous reports whether an element must be excluded from extraction:
// destructive verbs in its text, or an href pointing at a non-page
// resource.
func Dangerous(text, href string) bool {
	lower := strings.ToLower(text)
	for _, verb := range destructiveVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return DangerousHref(href)
}

// DangerousHref reports whether an href must not be followed.
func DangerousHref(href string) bool {
	if href == "" {
		return false
	}
	if href == "#" {
		return true
	}
	lower := strings.ToLower(href)
	for _, prefix := range skippedHrefPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	// Strip query/fragment before the extension check.
	if idx := strings.IndexAny(lower, "?#"); idx >= 0 {
		lower = lower[:idx]
	}
	for _, ext := range documentExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
