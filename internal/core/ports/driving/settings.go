package driving

import "github.com/custodia-labs/kbadmin/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses value for a single dot-notation key and persists it.
	Set(key, value string) error

	// Validate checks settings against their constraints.
	Validate(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys lists the settable keys.
	Keys() []string

	// Values returns every key with its effective value.
	Values() (map[string]any, error)
}
