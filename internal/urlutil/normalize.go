// Package urlutil provides URL canonicalization for state deduplication.
package urlutil

import (
	"net/url"
	"strings"
)

// trackingParams are query keys stripped during normalization. They identify
// marketing attribution, not distinct application states.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"ref":          {},
	"fbclid":       {},
}

// Normalize returns the canonical form of a URL used as a dedup key.
//
// Scheme and host are lowercased, the fragment is dropped, the trailing
// slash is removed from the path, and tracking query parameters are
// discarded while the order of the remaining parameters is preserved.
// Unparseable input is returned unchanged and treated as an opaque key.
func Normalize(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""

	if len(parsed.Path) > 1 && strings.HasSuffix(parsed.Path, "/") {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
		parsed.RawPath = ""
	}

	if parsed.RawQuery != "" {
		parsed.RawQuery = filterQuery(parsed.RawQuery)
	}

	return parsed.String()
}

// filterQuery drops tracking parameters without re-sorting the rest.
// url.Values.Encode would sort keys, which breaks key stability against
// previously persisted graphs, so the raw query is filtered in place.
func filterQuery(rawQuery string) string {
	pairs := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key := pair
		if idx := strings.Index(pair, "="); idx >= 0 {
			key = pair[:idx]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if _, tracked := trackingParams[strings.ToLower(key)]; tracked {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

// Resolve turns an href found on a page into an absolute URL. Returns
// "" for hrefs that cannot produce a navigable absolute URL.
func Resolve(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

// Host extracts the lowercased host from a URL, or "" if it cannot be parsed.
func Host(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
