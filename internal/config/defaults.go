package config

const (
	defaultInboundDir  = "~/.local/share/aria/inbound"
	defaultLibraryDir  = "~/music"
	defaultDataDir     = "~/.local/share/aria"
	defaultLogDir      = "~/.local/share/aria/logs"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultParallelism = 4

	defaultRescanPollInterval = 5
	defaultRescanBatchSize    = 10

	// Recorded music predates 1900; wax cylinder catalogs reach back to 1860.
	defaultMinimumYear        = 1860
	defaultMaximumYear        = 2200
	defaultMaximumMediaNumber = 500
	defaultMaximumSongNumber  = 1000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InboundDir: defaultInboundDir,
			LibraryDir: defaultLibraryDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Scan: Scan{
			Parallelism: defaultParallelism,
		},
		Rescan: Rescan{
			PollInterval: defaultRescanPollInterval,
			BatchSize:    defaultRescanBatchSize,
		},
		Validation: Validation{
			MinimumYear:             defaultMinimumYear,
			MaximumYear:             defaultMaximumYear,
			UseCurrentYearAsMaximum: true,
			MaximumMediaNumber:      defaultMaximumMediaNumber,
			MaximumSongNumber:       defaultMaximumSongNumber,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
