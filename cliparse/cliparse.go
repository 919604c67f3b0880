package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Directory backings
const (
	ModeMemory = "memory"
	ModeSQL    = "sql"
)

type Config struct {
	Port             int
	DirectoryMode    string
	DatabaseURL      string
	DatabaseType     string
	DirectoryTimeout time.Duration
	SessionTTL       time.Duration
	MaxSessions      int
	MockVoters       int
	DemoMode         bool
	IPHashSalt       string
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("voter-auth", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DirectoryMode, "m", "", "Directory backing (memory or sql)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Session tuning
	fs.DurationVar(&cfg.DirectoryTimeout, "directory-timeout", 0, "Bound on each directory call")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Idle session lifetime")
	fs.IntVar(&cfg.MaxSessions, "max-sessions", 0, "Maximum live sessions")
	fs.IntVar(&cfg.MockVoters, "mock-voters", -1, "Generated voters (memory mode or empty SQL table)")
	fs.BoolVar(&cfg.DemoMode, "demo", false, "Expose OTPs and demo credentials")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "Salt for hashing client IPs in logs (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DirectoryMode == "" {
		cfg.DirectoryMode = os.Getenv("DIRECTORY_MODE")
		if cfg.DirectoryMode == "" {
			cfg.DirectoryMode = ModeMemory
		}
	}
	if cfg.DirectoryMode != ModeMemory && cfg.DirectoryMode != ModeSQL {
		return Config{}, fmt.Errorf("invalid directory mode %q (use memory or sql)", cfg.DirectoryMode)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DirectoryMode == ModeSQL {
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required in sql mode (use -d or DATABASE_URL env)")
		}
		if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
			return Config{}, fmt.Errorf("invalid database type %q (use sqlite or postgres)", cfg.DatabaseType)
		}
	}

	var err error
	if cfg.DirectoryTimeout == 0 {
		if cfg.DirectoryTimeout, err = envDuration("DIRECTORY_TIMEOUT", 5*time.Second); err != nil {
			return Config{}, err
		}
	}
	if cfg.SessionTTL == 0 {
		if cfg.SessionTTL, err = envDuration("SESSION_TTL", 30*time.Minute); err != nil {
			return Config{}, err
		}
	}
	if cfg.MaxSessions == 0 {
		if cfg.MaxSessions, err = envInt("MAX_SESSIONS", 10000); err != nil {
			return Config{}, err
		}
	}
	if cfg.MockVoters < 0 {
		if cfg.MockVoters, err = envInt("MOCK_VOTERS", 20); err != nil {
			return Config{}, err
		}
	}
	if !cfg.DemoMode {
		if v := os.Getenv("DEMO_MODE"); v != "" {
			if cfg.DemoMode, err = strconv.ParseBool(v); err != nil {
				return Config{}, errors.New("invalid DEMO_MODE env variable")
			}
		}
	}

	if cfg.DirectoryTimeout < 0 || cfg.SessionTTL < 0 {
		return Config{}, errors.New("durations must be positive")
	}
	if cfg.MaxSessions < 0 || cfg.MockVoters < 0 {
		return Config{}, errors.New("counts must not be negative")
	}

	// Optional: main generates a per-process salt when unset
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}

	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
