package file

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
)

// Ensure EnvStore implements the interface.
var _ driven.ConfigStore = (*EnvStore)(nil)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "KBADMIN_"

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set.
// Missing files are ignored. With no arguments it loads ./.env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// EnvVar returns the environment variable that overrides key,
// e.g. "backend.base_url" becomes KBADMIN_BACKEND_BASE_URL.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// EnvStore overlays environment variables on another ConfigStore.
// Reads check the environment first; writes go to the underlying store.
type EnvStore struct {
	driven.ConfigStore
	lookup func(string) (string, bool)
}

// NewEnvStore wraps base with an environment overlay.
func NewEnvStore(base driven.ConfigStore) *EnvStore {
	return &EnvStore{ConfigStore: base, lookup: os.LookupEnv}
}

// Get retrieves a value, preferring the environment.
func (s *EnvStore) Get(key string) (any, bool) {
	if v, ok := s.lookup(EnvVar(key)); ok {
		return v, true
	}
	return s.ConfigStore.Get(key)
}

// GetString retrieves a string value, preferring the environment.
func (s *EnvStore) GetString(key string) string {
	if v, ok := s.lookup(EnvVar(key)); ok {
		return v
	}
	return s.ConfigStore.GetString(key)
}

// GetInt retrieves an integer value, preferring the environment.
// An unparseable variable is ignored.
func (s *EnvStore) GetInt(key string) int {
	if v, ok := s.lookup(EnvVar(key)); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return s.ConfigStore.GetInt(key)
}

// GetBool retrieves a boolean value, preferring the environment.
// An unparseable variable is ignored.
func (s *EnvStore) GetBool(key string) bool {
	if v, ok := s.lookup(EnvVar(key)); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return s.ConfigStore.GetBool(key)
}
