package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	defaultFetchTimeout = 30
	defaultTreeWidth    = 20
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"

	// cacheFolder is the application subfolder under the XDG data home
	cacheFolder = "ovos_docs"
)

type Config struct {
	CacheDir            string `json:"cache_dir,omitempty"`
	FetchTimeoutSeconds int    `json:"fetch_timeout_seconds"`
	LogLevel            string `json:"log_level"`
	LogFormat           string `json:"log_format"`
	LogFile             string `json:"log_file,omitempty"`
	TreeWidthPercent    int    `json:"tree_width_percent"`
	ShowTOC             bool   `json:"show_toc"`
	path                string

	// values read from the file before environment overrides
	envApplied   bool
	fileCacheDir string
	fileLogLevel string
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return Load(configPath)
}

// Load reads the config at configPath, writing defaults first when the file
// does not exist. Environment overrides are applied on top.
func Load(configPath string) (*Config, error) {
	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.path = configPath
	config.normalize()
	config.applyEnv()
	return config, nil
}

// Path is the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// CacheRoot is where datasets are extracted
func (c *Config) CacheRoot() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return filepath.Join(xdg.DataHome, cacheFolder)
}

// LogPath is where the log file goes. The terminal belongs to the UI, so
// logs never go to stdout.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.CacheRoot(), "roridocs.log")
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// TreeWidth returns the tree column width for a terminal of the given width
func (c *Config) TreeWidth(total int) int {
	return total * c.TreeWidthPercent / 100
}

// Save writes the config back to its file. Environment overrides are not
// persisted.
func (c *Config) Save() error {
	if c.path == "" {
		configPath, err := getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		c.path = configPath
	}

	out := *c
	if c.envApplied {
		out.CacheDir = c.fileCacheDir
		out.LogLevel = c.fileLogLevel
	}
	return saveConfig(&out, c.path)
}

func (c *Config) normalize() {
	if c.FetchTimeoutSeconds <= 0 {
		c.FetchTimeoutSeconds = defaultFetchTimeout
	}
	if c.TreeWidthPercent <= 0 || c.TreeWidthPercent >= 90 {
		c.TreeWidthPercent = defaultTreeWidth
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
}

func (c *Config) applyEnv() {
	c.envApplied = true
	c.fileCacheDir, c.fileLogLevel = c.CacheDir, c.LogLevel
	if dir := os.Getenv("RORIDOCS_CACHE_DIR"); dir != "" {
		c.CacheDir = dir
	}
	if level := os.Getenv("RORIDOCS_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

func getConfigPath() (string, error) {
	var configDir string

	// Use RORIDOCS_HOME if set, otherwise use user's home directory
	if home := os.Getenv("RORIDOCS_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".roridocs", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		FetchTimeoutSeconds: defaultFetchTimeout,
		LogLevel:            defaultLogLevel,
		LogFormat:           defaultLogFormat,
		TreeWidthPercent:    defaultTreeWidth,
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
