package backend

import (
	"net/http"
	"time"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root (default: http://localhost:8000).
	BaseURL string

	// DisableFallback returns transport failures as errors instead of
	// substituting fallback data.
	DisableFallback bool

	// FallbackDelay is the wait before fallback data is returned.
	// Zero returns it immediately.
	FallbackDelay time.Duration

	// UploadDelay replaces FallbackDelay for file uploads.
	UploadDelay time.Duration

	// Timeout bounds a single request (default: 30s).
	Timeout time.Duration

	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client

	// Now supplies timestamps for fallback data (default: time.Now).
	Now func() time.Time
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:       domain.DefaultBaseURL,
		FallbackDelay: domain.DefaultFallbackDelay,
		UploadDelay:   domain.DefaultUploadDelay,
		Timeout:       domain.DefaultTimeout,
	}
}

// ConfigFromSettings maps application settings onto a Config.
func ConfigFromSettings(s domain.BackendSettings) Config {
	return Config{
		BaseURL:         s.BaseURL,
		DisableFallback: !s.FallbackEnabled,
		FallbackDelay:   s.FallbackDelay,
		UploadDelay:     s.UploadDelay,
		Timeout:         s.Timeout,
	}
}
