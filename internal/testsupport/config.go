package testsupport

import (
	"path/filepath"
	"testing"

	"folio/internal/config"
)

// ConfigOption mutates the generated test configuration.
type ConfigOption func(*config.Config)

// WithTemplateDirs replaces the configured template directories.
func WithTemplateDirs(dirs ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.TemplateDirs = append([]string(nil), dirs...)
	}
}

// WithHistoryDisabled turns the publish history database off.
func WithHistoryDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = false
	}
}

// WithNtfyTopic points publish notifications at the given endpoint.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// NewConfig builds a configuration rooted in a temp directory so tests never
// touch the real user state.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.TemplateDirs = []string{filepath.Join(base, "templates")}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}
