package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"missingmusic/internal/catalog"
)

const envPrefix = "MISSING_MUSIC_"

// Config contains the program configuration
type Config struct {
	CatalogURL     string        `yaml:"catalog_url"`
	UserAgent      string        `yaml:"user_agent"`
	ContactEmail   string        `yaml:"contact_email"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LiteralQuery   bool          `yaml:"literal_query"`
	MusicDir       string        `yaml:"music_dir"`
	ParallelJobs   int           `yaml:"parallel_jobs"`
	MatchThreshold float64       `yaml:"match_threshold"`
	MissingFile    string        `yaml:"missing_file"`
	Verbose        bool          `yaml:"verbose"`

	// Set from the command line only.
	Artist string `yaml:"-"`
	Album  string `yaml:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		CatalogURL:     catalog.DefaultBaseURL,
		UserAgent:      "missing-music/0.1.0",
		ContactEmail:   "missing-music@example.com",
		RequestTimeout: catalog.DefaultTimeout,
		MusicDir:       filepath.Join(homeDir(), "Music"),
		ParallelJobs:   2,
		MatchThreshold: 0.8,
	}
}

// LoadConfigFile loads configuration from a YAML file, then applies .env and
// environment overrides. If path is empty, searches standard locations.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	// A missing .env is not an error; real environment variables win over it.
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	cfg.MusicDir = ExpandHome(cfg.MusicDir)
	cfg.MissingFile = ExpandHome(cfg.MissingFile)

	return cfg, nil
}

// applyEnv overrides fields from MISSING_MUSIC_* variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	str("CATALOG_URL", &c.CatalogURL)
	str("USER_AGENT", &c.UserAgent)
	str("CONTACT_EMAIL", &c.ContactEmail)
	str("MUSIC_DIR", &c.MusicDir)
	str("MISSING_FILE", &c.MissingFile)

	if v := getenv(envPrefix + "REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sREQUEST_TIMEOUT %q: %w", envPrefix, v, err)
		}
		c.RequestTimeout = d
	}
	if v := getenv(envPrefix + "PARALLEL_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPARALLEL_JOBS %q: %w", envPrefix, v, err)
		}
		c.ParallelJobs = n
	}
	if v := getenv(envPrefix + "MATCH_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sMATCH_THRESHOLD %q: %w", envPrefix, v, err)
		}
		c.MatchThreshold = f
	}
	if v := getenv(envPrefix + "LITERAL_QUERY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sLITERAL_QUERY %q: %w", envPrefix, v, err)
		}
		c.LiteralQuery = b
	}
	if v := getenv(envPrefix + "VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sVERBOSE %q: %w", envPrefix, v, err)
		}
		c.Verbose = b
	}
	return nil
}

// FullUserAgent renders the identifying header the catalog requires:
// "<product>/<version> ( <contact> )".
func (c *Config) FullUserAgent() string {
	if c.ContactEmail == "" {
		return c.UserAgent
	}
	return fmt.Sprintf("%s ( %s )", c.UserAgent, c.ContactEmail)
}

// CatalogConfig returns the catalog client settings.
func (c *Config) CatalogConfig() catalog.Config {
	return catalog.Config{
		BaseURL:      c.CatalogURL,
		UserAgent:    c.FullUserAgent(),
		Timeout:      c.RequestTimeout,
		LiteralQuery: c.LiteralQuery,
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./missing-music.yaml",
		"./missing-music.yml",
		filepath.Join(home, ".config", "missing-music", "config.yaml"),
		filepath.Join(home, ".config", "missing-music", "config.yml"),
		filepath.Join(home, ".missing-music.yaml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "missing-music", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "missing-music", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// IsSingleLookup reports whether an artist/album pair was given on the command line.
func (c *Config) IsSingleLookup() bool {
	return c.Artist != "" || c.Album != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CatalogURL == "" {
		return fmt.Errorf("catalog_url cannot be empty")
	}
	if !strings.HasPrefix(c.CatalogURL, "http://") && !strings.HasPrefix(c.CatalogURL, "https://") {
		return fmt.Errorf("catalog_url must start with http:// or https://")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent cannot be empty (the catalog rejects unidentified clients)")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative, got %s", c.RequestTimeout)
	}

	if c.IsSingleLookup() {
		if c.Artist == "" || c.Album == "" {
			return fmt.Errorf("--artist and --album must be given together")
		}
		return nil
	}

	if c.MusicDir == "" {
		return fmt.Errorf("music_dir cannot be empty")
	}
	if c.ParallelJobs < 1 {
		return fmt.Errorf("parallel jobs must be at least 1, got %d", c.ParallelJobs)
	}
	if c.ParallelJobs > 10 {
		return fmt.Errorf("parallel jobs cannot exceed 10 (to stay polite to the catalog), got %d", c.ParallelJobs)
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("match_threshold must be in (0.0, 1.0], got %.2f", c.MatchThreshold)
	}

	return nil
}
