package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const DefaultGitHubRepo = "crypticpy/third-spaces-gallery"

// DefaultPort is used when neither -p nor PORT is set
const DefaultPort = 3318

type Config struct {
	Port                int
	DatabaseURL         string
	DatabaseType        string
	IPHashSalt          string
	GitHubPAT           string
	GitHubRepo          string
	GitHubIssuesPrivate bool
	LogLevel            string
	LogJSON             bool
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first if present; real
// environment variables win over it.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.New("invalid .env file: " + err.Error())
	}

	fs := flag.NewFlagSet("gallery", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env)")
	fs.StringVar(&cfg.GitHubPAT, "github-pat", "", "GitHub token for moderation issues (prefer env)")
	fs.StringVar(&cfg.GitHubRepo, "github-repo", "", "owner/name of the moderation repository")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.LogJSON, "log-json", false, "Emit JSON logs")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}
	if cfg.IPHashSalt == "" {
		return Config{}, errors.New("IP_HASH_SALT required")
	}

	// Moderation issues are optional; without a token they are skipped
	if cfg.GitHubPAT == "" {
		cfg.GitHubPAT = os.Getenv("GITHUB_PAT")
	}
	if cfg.GitHubRepo == "" {
		cfg.GitHubRepo = os.Getenv("GITHUB_REPO")
		if cfg.GitHubRepo == "" {
			cfg.GitHubRepo = DefaultGitHubRepo
		}
	}
	cfg.GitHubIssuesPrivate = os.Getenv("GITHUB_ISSUES_PRIVATE") == "true"

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}
	if !cfg.LogJSON {
		cfg.LogJSON = os.Getenv("LOG_JSON") == "true"
	}

	return cfg, nil
}
