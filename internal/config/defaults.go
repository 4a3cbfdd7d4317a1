package config

const (
	defaultDataDir        = "~/.local/share/proofcheck"
	defaultLogDir         = "~/.local/share/proofcheck/logs"
	defaultRateLimitDelay = 2.5
	defaultRetryAttempts  = 3
	defaultFetchTimeout   = 10
	defaultWorkers        = 10
	defaultWordOverlap    = 0.6
	defaultImportMode     = "create-update"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

var defaultProfileHosts = []string{
	"www.cloudskillsboost.google",
	"www.skills.google",
}

var defaultBadgeHosts = []string{
	"www.cloudskillsboost.google",
	"www.skills.google",
	"www.credly.com",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Verification: Verification{
			RateLimitDelay: defaultRateLimitDelay,
			RetryAttempts:  defaultRetryAttempts,
			FetchTimeout:   defaultFetchTimeout,
			Workers:        defaultWorkers,
			UserAgents:     append([]string(nil), defaultUserAgents...),
		},
		Matching: Matching{
			ProfileHosts: append([]string(nil), defaultProfileHosts...),
			BadgeHosts:   append([]string(nil), defaultBadgeHosts...),
			WordOverlap:  defaultWordOverlap,
		},
		Import: Import{
			DefaultMode: defaultImportMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
