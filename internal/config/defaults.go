package config

const (
	defaultTempDir           = "~/.cache/gifpress/tmp"
	defaultLogDir            = "~/.local/share/gifpress/logs"
	defaultHistoryDB         = "~/.local/share/gifpress/history.db"
	defaultTimeoutSeconds    = 120
	defaultOptimizationLevel = 2
	defaultQuality           = 80
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir:   defaultTempDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Gifsicle: Gifsicle{
			TimeoutSeconds:    defaultTimeoutSeconds,
			OptimizationLevel: defaultOptimizationLevel,
			Careful:           true,
		},
		Optimize: Optimize{
			DefaultQuality: defaultQuality,
			StripMetadata:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
