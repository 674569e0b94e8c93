package discovery

import (
	"time"

	"github.com/testweaver/sitegraph/internal/auth"
	"github.com/testweaver/sitegraph/internal/events"
	"github.com/testweaver/sitegraph/internal/logger"
	"github.com/testweaver/sitegraph/pkg/graph"
)

// Option is a functional option for configuring the Explorer.
type Option func(*Explorer) error

// WithAppName sets the application name used in output file slugs.
func WithAppName(name string) Option {
	return func(e *Explorer) error {
		e.config.AppName = name
		return nil
	}
}

// WithAppType presets the app family, skipping detection.
func WithAppType(t graph.AppType) Option {
	return func(e *Explorer) error {
		e.config.AppType = t
		return nil
	}
}

// WithEntryPoints sets the URLs where exploration starts.
func WithEntryPoints(urls ...string) Option {
	return func(e *Explorer) error {
		e.config.EntryPoints = append(e.config.EntryPoints, urls...)
		return nil
	}
}

// WithMaxDepth sets the maximum link-following depth.
func WithMaxDepth(depth int) Option {
	return func(e *Explorer) error {
		if depth < 0 {
			depth = 0
		}
		e.config.MaxDepth = depth
		return nil
	}
}

// WithMaxNodes sets the node budget.
func WithMaxNodes(n int) Option {
	return func(e *Explorer) error {
		if n < 1 {
			n = 1
		}
		e.config.MaxNodes = n
		return nil
	}
}

// WithMaxElementsPerPage sets the per-page element cap.
func WithMaxElementsPerPage(n int) Option {
	return func(e *Explorer) error {
		if n < 1 {
			n = 1
		}
		e.config.MaxElementsPerPage = n
		return nil
	}
}

// WithTimeout sets the wall-clock budget for the run.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Explorer) error {
		e.config.Timeout = timeout
		return nil
	}
}

// WithScopeWhitelist adds hosts treated as in scope.
func WithScopeWhitelist(hosts ...string) Option {
	return func(e *Explorer) error {
		e.config.ScopeWhitelist = append(e.config.ScopeWhitelist, hosts...)
		return nil
	}
}

// WithOutputDir sets the directory for graphs and screenshots.
func WithOutputDir(dir string) Option {
	return func(e *Explorer) error {
		e.config.OutputDir = dir
		return nil
	}
}

// WithArchive enables the bbolt graph archive at the given path.
func WithArchive(path string) Option {
	return func(e *Explorer) error {
		e.config.ArchivePath = path
		return nil
	}
}

// WithScreenshots toggles per-node screenshots.
func WithScreenshots(enabled bool) Option {
	return func(e *Explorer) error {
		e.config.Screenshots = enabled
		return nil
	}
}

// WithSlowMo sets the pause between page actions.
func WithSlowMo(d time.Duration) Option {
	return func(e *Explorer) error {
		e.config.SlowMo = d
		return nil
	}
}

// WithCredentials sets login credentials.
func WithCredentials(email, password string) Option {
	return func(e *Explorer) error {
		e.config.Credentials = auth.Credentials{Email: email, Password: password}
		return nil
	}
}

// WithHeadless toggles headless browser mode.
func WithHeadless(headless bool) Option {
	return func(e *Explorer) error {
		e.config.Browser.Headless = headless
		return nil
	}
}

// WithUserAgent sets the browser user agent.
func WithUserAgent(ua string) Option {
	return func(e *Explorer) error {
		e.config.Browser.UserAgent = ua
		return nil
	}
}

// WithExtraHeaders sets headers added to every request.
func WithExtraHeaders(headers map[string]string) Option {
	return func(e *Explorer) error {
		if e.config.Browser.ExtraHeaders == nil {
			e.config.Browser.ExtraHeaders = make(map[string]string)
		}
		for k, v := range headers {
			e.config.Browser.ExtraHeaders[k] = v
		}
		return nil
	}
}

// WithEventSink attaches a consumer for progress events.
func WithEventSink(sink events.Sink) Option {
	return func(e *Explorer) error {
		e.sink = sink
		return nil
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Explorer) error {
		e.log = l
		return nil
	}
}

// WithConfig replaces the whole configuration. Apply before other
// options or they will be overwritten.
func WithConfig(cfg *Config) Option {
	return func(e *Explorer) error {
		e.config = cfg
		return nil
	}
}
