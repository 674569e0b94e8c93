// Package scope decides whether a URL belongs to the application under
// exploration.
package scope

import (
	"net/url"
	"strings"
	"sync"

	"github.com/testweaver/sitegraph/internal/urlutil"
)

// Checker validates URLs against the crawl scope.
//
// The default rule admits the base host (taken from the first entry point)
// and any subdomain of it. A caller-supplied whitelist overrides that rule
// entirely: a URL is then in scope when its host contains any whitelisted
// substring.
type Checker struct {
	mu        sync.RWMutex
	baseHost  string
	whitelist []string
}

// NewChecker creates a checker anchored on the first entry point.
func NewChecker(entryURL string, whitelist []string) (*Checker, error) {
	parsed, err := url.Parse(entryURL)
	if err != nil {
		return nil, err
	}

	wl := make([]string, 0, len(whitelist))
	for _, w := range whitelist {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			wl = append(wl, w)
		}
	}

	return &Checker{
		baseHost:  strings.ToLower(parsed.Hostname()),
		whitelist: wl,
	}, nil
}

// InScope reports whether a URL should be explored. Unparseable URLs and
// non-http(s) schemes are out of scope.
func (c *Checker) InScope(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.whitelist) > 0 {
		for _, allowed := range c.whitelist {
			if strings.Contains(host, allowed) {
				return true
			}
		}
		return false
	}

	return host == c.baseHost || strings.HasSuffix(host, "."+c.baseHost)
}

// BaseHost returns the anchor host computed from the first entry point.
func (c *Checker) BaseHost() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseHost
}

// Rebase re-anchors the checker on a new entry URL. Used when a login
// redirect rewrites the declared entry point.
func (c *Checker) Rebase(entryURL string) {
	host := urlutil.Host(entryURL)
	if host == "" {
		return
	}
	c.mu.Lock()
	c.baseHost = host
	c.mu.Unlock()
}
