package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Storage backends understood by store.Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendS3     = "s3"
)

// Config holds the global configuration.
type Config struct {
	Dir string `json:"-"`

	Storage struct {
		// Backend is one of file, sqlite, memory, s3.
		Backend string `json:"backend"`
		// Path is the layouts directory (file) or database file (sqlite).
		// Relative paths resolve against Dir.
		Path string `json:"path"`
		S3   struct {
			Bucket string `json:"bucket"`
			Prefix string `json:"prefix"`
			Region string `json:"region"`
		} `json:"s3"`
	} `json:"storage"`

	Assistant struct {
		// URL is the base URL of the command interpretation service.
		// Empty disables remote interpretation entirely.
		URL     string   `json:"url"`
		Timeout Duration `json:"timeout"`
	} `json:"assistant"`

	Notify struct {
		Debounce Duration `json:"debounce"`
	} `json:"notify"`

	Log struct {
		Level string `json:"level"`
	} `json:"log"`

	Grid struct {
		Columns int `json:"columns"`
	} `json:"grid"`
}

// Duration is a time.Duration that can be unmarshaled from JSON strings like "10s", "100ms"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// Try as number (nanoseconds)
		var n int64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*d = Duration(n)
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no config file exists.
func Default(dir string) *Config {
	cfg := &Config{Dir: dir}
	cfg.Storage.Backend = BackendFile
	cfg.Storage.Path = "layouts"
	cfg.Assistant.URL = "http://localhost:5000"
	cfg.Assistant.Timeout = Duration(10 * time.Second)
	cfg.Notify.Debounce = Duration(100 * time.Millisecond)
	cfg.Log.Level = "info"
	cfg.Grid.Columns = 3
	return cfg
}

// Load loads configuration from DASHTAILOR_DIR/config.json, then applies
// environment overrides.
func Load() (*Config, error) {
	return LoadFrom(Dir())
}

// LoadFrom loads configuration from dir/config.json.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		// Strip JSONC comments
		data = StripJSONComments(data)
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv("DASHTAILOR_ASSISTANT_URL"); ok {
		c.Assistant.URL = v
	}
	if v := os.Getenv("DASHTAILOR_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("DASHTAILOR_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("DASHTAILOR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DASHTAILOR_GRID_COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Grid.Columns = n
		}
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Grid.Columns < 1 {
		return fmt.Errorf("grid.columns must be at least 1, got %d", c.Grid.Columns)
	}
	if c.Assistant.Timeout < 0 {
		return fmt.Errorf("assistant.timeout must not be negative")
	}
	return nil
}

// StoragePath resolves Storage.Path against Dir.
func (c *Config) StoragePath() string {
	if c.Storage.Path == "" || filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(c.Dir, c.Storage.Path)
}

// LogsDir is where the zap log file lives.
func (c *Config) LogsDir() string {
	return filepath.Join(c.Dir, "logs")
}

// Template returns a documented config template.
func Template() string {
	return `{
  // Where layouts are kept: "file", "sqlite", "memory" or "s3".
  "storage": {
    "backend": "file",
    // Directory (file) or database file (sqlite), relative to this folder.
    "path": "layouts",
    "s3": {
      "bucket": "",
      "prefix": "dashtailor/",
      "region": "us-east-1"
    }
  },

  // Remote command interpretation service. Leave url empty to only use
  // the local command parser.
  "assistant": {
    "url": "http://localhost:5000",
    "timeout": "10s"
  },

  // How long to wait for file writes to settle before notifying other windows.
  "notify": {
    "debounce": "100ms"
  },

  "log": {
    "level": "info"
  },

  "grid": {
    "columns": 3
  }
}
`
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// EnsureTemplate creates the config file with template if it doesn't exist.
func EnsureTemplate() (string, error) {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create dashtailor dir: %w", err)
	}

	configPath := ConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(Template()), 0644); err != nil {
			return "", fmt.Errorf("write template: %w", err)
		}
	}

	return configPath, nil
}

// Dir returns the directory where dashtailor configuration and data are stored.
// It uses the DASHTAILOR_DIR environment variable if set, otherwise ~/.dashtailor.
func Dir() string {
	if dir := os.Getenv("DASHTAILOR_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".dashtailor")
}
