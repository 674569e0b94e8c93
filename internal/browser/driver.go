// Package browser owns the headless Chrome session used for discovery.
package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Config defines browser configuration.
type Config struct {
	Headless          bool              `json:"headless"`
	SlowMo            time.Duration     `json:"slow_mo"`
	Timeout           time.Duration     `json:"timeout"`
	UserAgent         string            `json:"user_agent"`
	ViewportWidth     int               `json:"viewport_width"`
	ViewportHeight    int               `json:"viewport_height"`
	IgnoreHTTPSErrors bool              `json:"ignore_https_errors"`
	ExtraHeaders      map[string]string `json:"extra_headers"`
}

// DefaultConfig returns default browser configuration.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		Timeout:           30 * time.Second,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		IgnoreHTTPSErrors: true,
	}
}

// Driver wraps a Rod browser instance.
type Driver struct {
	browser *rod.Browser
	config  Config
}

// New launches Chrome and connects to it.
func New(config Config) (*Driver, error) {
	l := launcher.New().Headless(config.Headless)
	if config.IgnoreHTTPSErrors {
		l = l.Set("ignore-certificate-errors", "true")
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	if config.SlowMo > 0 {
		browser = browser.SlowMotion(config.SlowMo)
	}
	// No browser-level Timeout: its deadline starts at connect time and
	// every page inherits it, so a long run would hit a wall mid-crawl.
	// Config.Timeout bounds individual page operations instead.

	return &Driver{browser: browser, config: config}, nil
}

// Page is a browser tab with console-error capture attached before any
// navigation, so errors thrown during initial render are not lost.
type Page struct {
	*rod.Page

	timeout time.Duration
	mu      sync.Mutex
	errors  []string
}

// OpenPage creates a blank tab ready for navigation.
func (d *Driver) OpenPage() (*Page, error) {
	rodPage, err := d.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	p := &Page{Page: rodPage, timeout: d.config.Timeout}

	_ = rodPage.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  d.config.ViewportWidth,
		Height: d.config.ViewportHeight,
	})

	if d.config.UserAgent != "" {
		_ = proto.NetworkSetUserAgentOverride{
			UserAgent: d.config.UserAgent,
		}.Call(rodPage)
	}

	if len(d.config.ExtraHeaders) > 0 {
		networkHeaders := make(proto.NetworkHeaders)
		for k, v := range d.config.ExtraHeaders {
			networkHeaders[k] = gson.New(v)
		}
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: networkHeaders}.Call(rodPage)
	}

	go rodPage.EachEvent(func(e *proto.RuntimeConsoleAPICalled) {
		if e.Type != proto.RuntimeConsoleAPICalledTypeError {
			return
		}
		var parts string
		for i, arg := range e.Args {
			if i > 0 {
				parts += " "
			}
			parts += arg.Value.String()
		}
		p.mu.Lock()
		p.errors = append(p.errors, parts)
		p.mu.Unlock()
	})()

	return p, nil
}

// Scoped returns a clone of the page whose deadline starts now, so each
// operation gets the full configured timeout instead of sharing one
// session-wide deadline.
func (p *Page) Scoped() *rod.Page {
	if p.timeout <= 0 {
		return p.Page
	}
	return p.Page.Timeout(p.timeout)
}

// Navigate loads a URL and waits for the load event.
func (p *Page) Navigate(url string) error {
	pg := p.Scoped()
	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("load of %s failed: %w", url, err)
	}
	return nil
}

// CurrentURL returns the page's URL after any redirects.
func (p *Page) CurrentURL() string {
	info, err := p.Scoped().Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}

// HTML returns the serialized document.
func (p *Page) HTML() (string, error) {
	return p.Scoped().HTML()
}

// Title returns the document title, empty on failure.
func (p *Page) Title() string {
	el, err := p.Scoped().Element("title")
	if err != nil {
		return ""
	}
	title, err := el.Text()
	if err != nil {
		return ""
	}
	return title
}

// ConsoleErrors drains the captured console errors.
func (p *Page) ConsoleErrors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.errors))
	copy(out, p.errors)
	p.errors = p.errors[:0]
	return out
}

// CaptureScreenshot writes a PNG of the viewport to path, creating
// parent directories as needed.
func (p *Page) CaptureScreenshot(path string) error {
	data, err := p.Scoped().Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Close releases the tab.
func (p *Page) Close() error {
	return p.Page.Close()
}

// Close shuts the browser down.
func (d *Driver) Close() error {
	return d.browser.Close()
}
