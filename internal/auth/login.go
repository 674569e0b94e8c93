// Package auth drives a one-shot form login before discovery starts.
package auth

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/testweaver/sitegraph/internal/events"
)

// Credentials for the pre-discovery login step.
type Credentials struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// Empty reports whether no credentials were supplied.
func (c Credentials) Empty() bool {
	return c.Email == "" && c.Password == ""
}

// Field selectors, most specific first. The first match wins.
var (
	emailSelectors = []string{
		"input[type='email']",
		"input[name='email']",
		"input[name='username']",
		"input[name*='user']",
		"input#email",
		"input#username",
		"input[autocomplete='username']",
		"input[type='text']",
	}
	passwordSelectors = []string{
		"input[type='password']",
		"input[name='password']",
		"input#password",
	}
	submitSelectors = []string{
		"button[type='submit']",
		"input[type='submit']",
		"form button",
	}
)

const (
	fieldTimeout    = 3 * time.Second
	redirectTimeout = 10 * time.Second
	redirectPoll    = 250 * time.Millisecond
)

// Result describes what the login attempt did.
type Result struct {
	Performed bool
	// FinalURL is where the app landed after login; discovery should
	// start there instead of the original entry point.
	FinalURL string
}

// Login fills and submits a login form if the current page shows one.
// All failures are soft: discovery proceeds either way, so errors are
// reported through the sink and a zero Result, never returned.
func Login(page *rod.Page, creds Credentials, sink events.Sink) Result {
	if creds.Empty() {
		return Result{}
	}

	sink.Emit(events.New(events.LoginStart, nil))

	passwordEl := findFirst(page, passwordSelectors)
	if passwordEl == nil {
		// No password field, but the page may still be a login wall that
		// renders its form unconventionally. Page text tells the cases
		// apart.
		if containsLoginMarker(pageText(page)) {
			sink.Emit(events.New(events.LoginError, map[string]any{
				"error": "login page detected but no password field found",
			}))
		} else {
			sink.Emit(events.New(events.LoginNotNeeded, nil))
		}
		return Result{}
	}

	startURL := currentURL(page)

	if emailEl := findFirst(page, emailSelectors); emailEl != nil {
		if err := fill(emailEl, creds.Email); err != nil {
			sink.Emit(events.New(events.LoginError, map[string]any{"error": err.Error(), "field": "email"}))
			return Result{}
		}
		sink.Emit(events.New(events.LoginEmailFilled, nil))
	}

	if err := fill(passwordEl, creds.Password); err != nil {
		sink.Emit(events.New(events.LoginError, map[string]any{"error": err.Error(), "field": "password"}))
		return Result{}
	}
	sink.Emit(events.New(events.LoginPasswordFilled, nil))

	if submitEl := findFirst(page, submitSelectors); submitEl != nil {
		if err := submitEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
			sink.Emit(events.New(events.LoginError, map[string]any{"error": err.Error(), "field": "submit"}))
			return Result{}
		}
	} else if err := passwordEl.Type(input.Enter); err != nil {
		sink.Emit(events.New(events.LoginError, map[string]any{"error": err.Error(), "field": "submit"}))
		return Result{}
	}

	finalURL := waitForRedirect(page, startURL)
	sink.Emit(events.New(events.LoginComplete, map[string]any{"url": finalURL}))

	if finalURL != "" && finalURL != startURL {
		sink.Emit(events.New(events.LoginRedirect, map[string]any{
			"from": startURL,
			"to":   finalURL,
		}))
		return Result{Performed: true, FinalURL: finalURL}
	}
	return Result{Performed: true, FinalURL: startURL}
}

func findFirst(page *rod.Page, selectors []string) *rod.Element {
	for _, selector := range selectors {
		el, err := page.Timeout(fieldTimeout).Element(selector)
		if err != nil || el == nil {
			continue
		}
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		return el
	}
	return nil
}

func fill(el *rod.Element, value string) error {
	if err := el.SelectAllText(); err == nil {
		return el.Input(value)
	}
	return el.Input(value)
}

// waitForRedirect polls until the URL stops changing or the bound
// elapses. SPAs often route client-side well after the form submit, so
// a single WaitLoad is not enough.
func waitForRedirect(page *rod.Page, startURL string) string {
	deadline := time.Now().Add(redirectTimeout)
	last := startURL
	stableSince := time.Now()

	for time.Now().Before(deadline) {
		time.Sleep(redirectPoll)
		cur := currentURL(page)
		if cur == "" {
			continue
		}
		if cur != last {
			last = cur
			stableSince = time.Now()
			continue
		}
		// Redirected and stable for two polls: done early.
		if cur != startURL && time.Since(stableSince) >= 2*redirectPoll {
			return cur
		}
	}
	return last
}

func pageText(page *rod.Page) string {
	res, err := page.Timeout(fieldTimeout).Eval(`() => document.body ? document.body.innerText : ''`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// containsLoginMarker reports whether visible page text reads like a
// login wall.
func containsLoginMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range []string{"sign in", "log in", "login", "signin"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func currentURL(page *rod.Page) string {
	info, err := page.Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}

// LooksLikeLoginURL reports whether a URL points at an auth page.
// Used to avoid queueing the login page as a regular node.
func LooksLikeLoginURL(url string) bool {
	lower := strings.ToLower(url)
	for _, marker := range []string{"/login", "/signin", "/sign-in", "/auth"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
