package config

const (
	defaultConfigPath     = "~/.config/folio/config.toml"
	defaultStateDir       = "~/.local/share/folio"
	defaultLogDir         = "~/.local/share/folio/logs"
	defaultTemplateDir    = "~/.config/folio/templates"
	defaultTemplate       = "default"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	templatePathEnv       = "FOLIO_TEMPLATE_PATH"
	defaultHistoryEnabled = true
	defaultVerifyCopies   = false
	defaultLogFileEnabled = false
	defaultNtfyTimeout    = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:     defaultStateDir,
			LogDir:       defaultLogDir,
			TemplateDirs: []string{defaultTemplateDir},
		},
		Publish: Publish{
			DefaultTemplate: defaultTemplate,
			VerifyCopies:    defaultVerifyCopies,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			File:   defaultLogFileEnabled,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
	}
}
