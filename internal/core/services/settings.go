package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyBaseURL         = "backend.base_url"
	KeyFallbackEnabled = "backend.fallback_enabled"
	KeyFallbackDelayMS = "backend.fallback_delay_ms"
	KeyUploadDelayMS   = "backend.upload_delay_ms"
	KeyTimeoutSeconds  = "backend.timeout_seconds"
	KeyPollSeconds     = "tasks.poll_interval_seconds"
	KeyMaxTasks        = "tasks.max_tasks"
	KeyChatLimit       = "chat.limit"
	KeyChatHistory     = "chat.history"
	KeyLogFile         = "log.file"
)

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindInt
)

// setting binds a config key to a field of domain.AppSettings.
type setting struct {
	key   string
	field string // struct namespace below AppSettings, used to map validation errors
	kind  valueKind
	get   func(*domain.AppSettings) any
	put   func(*domain.AppSettings, any)
}

var settingsTable = []setting{
	{
		key: KeyBaseURL, field: "Backend.BaseURL", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.Backend.BaseURL },
		put: func(s *domain.AppSettings, v any) { s.Backend.BaseURL = strings.TrimRight(v.(string), "/") },
	},
	{
		key: KeyFallbackEnabled, field: "Backend.FallbackEnabled", kind: kindBool,
		get: func(s *domain.AppSettings) any { return s.Backend.FallbackEnabled },
		put: func(s *domain.AppSettings, v any) { s.Backend.FallbackEnabled = v.(bool) },
	},
	{
		key: KeyFallbackDelayMS, field: "Backend.FallbackDelay", kind: kindInt,
		get: func(s *domain.AppSettings) any { return int(s.Backend.FallbackDelay / time.Millisecond) },
		put: func(s *domain.AppSettings, v any) { s.Backend.FallbackDelay = time.Duration(v.(int)) * time.Millisecond },
	},
	{
		key: KeyUploadDelayMS, field: "Backend.UploadDelay", kind: kindInt,
		get: func(s *domain.AppSettings) any { return int(s.Backend.UploadDelay / time.Millisecond) },
		put: func(s *domain.AppSettings, v any) { s.Backend.UploadDelay = time.Duration(v.(int)) * time.Millisecond },
	},
	{
		key: KeyTimeoutSeconds, field: "Backend.Timeout", kind: kindInt,
		get: func(s *domain.AppSettings) any { return int(s.Backend.Timeout / time.Second) },
		put: func(s *domain.AppSettings, v any) { s.Backend.Timeout = time.Duration(v.(int)) * time.Second },
	},
	{
		key: KeyPollSeconds, field: "Tasks.PollInterval", kind: kindInt,
		get: func(s *domain.AppSettings) any { return int(s.Tasks.PollInterval / time.Second) },
		put: func(s *domain.AppSettings, v any) { s.Tasks.PollInterval = time.Duration(v.(int)) * time.Second },
	},
	{
		key: KeyMaxTasks, field: "Tasks.MaxTasks", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Tasks.MaxTasks },
		put: func(s *domain.AppSettings, v any) { s.Tasks.MaxTasks = v.(int) },
	},
	{
		key: KeyChatLimit, field: "Chat.Limit", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Chat.Limit },
		put: func(s *domain.AppSettings, v any) { s.Chat.Limit = v.(int) },
	},
	{
		key: KeyChatHistory, field: "Chat.History", kind: kindBool,
		get: func(s *domain.AppSettings) any { return s.Chat.History },
		put: func(s *domain.AppSettings, v any) { s.Chat.History = v.(bool) },
	},
	{
		key: KeyLogFile, field: "Log.File", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.Log.File },
		put: func(s *domain.AppSettings, v any) { s.Log.File = v.(string) },
	},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Get retrieves current application settings.
// Keys absent from the store keep their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	for _, st := range settingsTable {
		if _, exists := s.configStore.Get(st.key); !exists {
			continue
		}
		switch st.kind {
		case kindString:
			if v := s.configStore.GetString(st.key); v != "" {
				st.put(&settings, v)
			}
		case kindBool:
			st.put(&settings, s.configStore.GetBool(st.key))
		case kindInt:
			st.put(&settings, s.configStore.GetInt(st.key))
		}
	}

	return &settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.Validate(settings); err != nil {
		return err
	}

	for _, st := range settingsTable {
		if err := s.configStore.Set(st.key, st.get(settings)); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}

	return nil
}

// Set parses value for a single key, validates the result and persists it.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	parsed, err := parseValue(st.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	st.put(settings, parsed)

	if err := s.Validate(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(key, st.get(settings)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks settings against their constraints.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}

	err := s.validate.Struct(settings)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating settings: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys lists the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingsTable))
	for _, st := range settingsTable {
		keys = append(keys, st.key)
	}
	sort.Strings(keys)
	return keys
}

// Values returns every key with its effective value.
func (s *SettingsService) Values() (map[string]any, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(settingsTable))
	for _, st := range settingsTable {
		out[st.key] = st.get(settings)
	}
	return out, nil
}

func lookupSetting(key string) (setting, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

func parseValue(kind valueKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", value)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", value)
		}
		return n, nil
	default:
		return value, nil
	}
}

// describeFieldError renders a validation failure against its config key.
func describeFieldError(fe validator.FieldError) string {
	name := fe.StructNamespace()
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	for _, st := range settingsTable {
		if st.field == name {
			name = st.key
			break
		}
	}

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "url", "startswith":
		return name + " must be an http(s) URL"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}
