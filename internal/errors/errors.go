// Package errors provides error types and handling for the discovery
// engine.
package errors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Taxon classifies how the explorer should react to a failure.
type Taxon int

const (
	// Transient failures affect one visit; the item is recorded and
	// exploration continues.
	Transient Taxon = iota
	// Recoverable failures degrade one capability (screenshots, a
	// click strategy) but the visit still produces a node.
	Recoverable
	// Fatal failures end the run: browser gone, output unwritable.
	Fatal
)

// String returns the string representation of Taxon.
func (t Taxon) String() string {
	switch t {
	case Transient:
		return "transient"
	case Recoverable:
		return "recoverable"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Stages where failures occur.
const (
	StageNavigate   = "navigate"
	StageSettle     = "settle"
	StageExtract    = "extract"
	StageClick      = "click"
	StageScreenshot = "screenshot"
	StageLogin      = "login"
	StagePersist    = "persist"
	StageBrowser    = "browser"
)

// DiscoveryError is a classified failure with visit context.
type DiscoveryError struct {
	Taxon Taxon
	Stage string
	URL   string
	Cause error
}

// Error implements the error interface.
func (e *DiscoveryError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s error during %s on %s: %v", e.Taxon, e.Stage, e.URL, e.Cause)
	}
	return fmt.Sprintf("%s error during %s: %v", e.Taxon, e.Stage, e.Cause)
}

// Unwrap returns the underlying error.
func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// Is matches on taxon, so callers can test against category sentinels.
func (e *DiscoveryError) Is(target error) bool {
	t, ok := target.(*DiscoveryError)
	if !ok {
		return false
	}
	return e.Taxon == t.Taxon
}

// New creates a classified discovery error.
func New(taxon Taxon, stage, url string, cause error) *DiscoveryError {
	return &DiscoveryError{Taxon: taxon, Stage: stage, URL: url, Cause: cause}
}

// NewTransient creates a per-visit failure.
func NewTransient(stage, url string, cause error) *DiscoveryError {
	return New(Transient, stage, url, cause)
}

// NewRecoverable creates a degraded-capability failure.
func NewRecoverable(stage, url string, cause error) *DiscoveryError {
	return New(Recoverable, stage, url, cause)
}

// NewFatal creates a run-ending failure.
func NewFatal(stage string, cause error) *DiscoveryError {
	return New(Fatal, stage, "", cause)
}

// Categorize classifies a raw error observed at a given stage. Browser
// disconnects and persist failures are fatal; network and timeout
// trouble on a single page is transient; everything else at extract or
// screenshot stages is recoverable.
func Categorize(err error, stage, url string) *DiscoveryError {
	if err == nil {
		return nil
	}

	var de *DiscoveryError
	if errors.As(err, &de) {
		return de
	}

	switch stage {
	case StageBrowser, StagePersist:
		return NewFatal(stage, err)
	case StageScreenshot, StageExtract, StageClick:
		return NewRecoverable(stage, url, err)
	}

	if isTimeout(err) || isNetworkError(err) {
		return NewTransient(stage, url, err)
	}
	if isDisconnect(err) {
		return NewFatal(stage, err)
	}
	return NewTransient(stage, url, err)
}

// IsFatal reports whether the run should stop.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var de *DiscoveryError
	if errors.As(err, &de) {
		return de.Taxon == Fatal
	}
	return isDisconnect(err)
}

// TaxonOf extracts the taxon, defaulting to transient for plain errors.
func TaxonOf(err error) Taxon {
	var de *DiscoveryError
	if errors.As(err, &de) {
		return de.Taxon
	}
	return Transient
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context deadline")
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host")
}

// isDisconnect recognizes a dead CDP session.
func isDisconnect(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "websocket: close") ||
		strings.Contains(errStr, "browser has been closed") ||
		strings.Contains(errStr, "cdp.Client") ||
		strings.Contains(errStr, "use of closed network connection")
}
