package domain

import "time"

const unknownDescription = "Unknown"

// Default setting values.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultFallbackDelay = 800 * time.Millisecond
	DefaultUploadDelay   = 1500 * time.Millisecond
	DefaultTimeout       = 30 * time.Second
	DefaultPollInterval  = 5 * time.Second
	DefaultMaxTasks      = 50
)

// BackendSettings configures how the backend is reached.
type BackendSettings struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string `validate:"required,url,startswith=http"`

	// FallbackEnabled substitutes deterministic data when the backend is
	// unreachable. Server-reported failures are never substituted.
	FallbackEnabled bool

	// FallbackDelay is how long to wait before returning fallback data.
	FallbackDelay time.Duration `validate:"gte=0s,lte=1m"`

	// UploadDelay replaces FallbackDelay for file uploads.
	UploadDelay time.Duration `validate:"gte=0s,lte=1m"`

	// Timeout bounds a single request.
	Timeout time.Duration `validate:"gt=0s"`
}

// TaskSettings configures the task monitor.
type TaskSettings struct {
	// PollInterval is the period between task fetches while active.
	PollInterval time.Duration `validate:"gte=1s"`

	// MaxTasks bounds the number of task records kept from a fetch.
	MaxTasks int `validate:"gte=1,lte=1000"`
}

// ChatSettings configures the assistant conversation.
type ChatSettings struct {
	// Limit is the number of passages requested per query.
	Limit int `validate:"gte=1,lte=50"`

	// History persists chat turns so they can be reviewed later.
	History bool
}

// LogSettings configures log output.
type LogSettings struct {
	// File is where the TUI writes logs. Empty means the default location.
	File string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Backend BackendSettings
	Tasks   TaskSettings
	Chat    ChatSettings
	Log     LogSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Fallback is on so the tool stays usable against an offline backend.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			BaseURL:         DefaultBaseURL,
			FallbackEnabled: true,
			FallbackDelay:   DefaultFallbackDelay,
			UploadDelay:     DefaultUploadDelay,
			Timeout:         DefaultTimeout,
		},
		Tasks: TaskSettings{
			PollInterval: DefaultPollInterval,
			MaxTasks:     DefaultMaxTasks,
		},
		Chat: ChatSettings{
			Limit:   DefaultQueryLimit,
			History: true,
		},
	}
}
