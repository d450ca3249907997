// Package config provides configuration for the search tools with support for command-line flags, environment variables, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/listenupapp/listenup-search/internal/domain"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Index  IndexConfig
	Search SearchConfig
	// Folders are the music folders searches are scoped to.
	Folders []domain.MusicFolder
	// Args are the positional arguments left after the flags.
	Args []string
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// IndexConfig holds index storage configuration.
type IndexConfig struct {
	DataPath string             // Directory holding one bleve index per type
	Scheme   domain.IndexScheme // Reading scheme documents and queries are analyzed with
}

// SearchConfig holds query construction settings.
type SearchConfig struct {
	// SearchComposer queries composer fields even when a request does not ask for them.
	SearchComposer bool
	// MaxHits caps result pages (default: 100).
	MaxHits int
	// UPnPID3 resolves UPnP artist and album classes to the ID3 indexes (default: true).
	UPnPID3 bool
	// FoldersFile is the YAML file the folders were read from.
	FoldersFile string
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags in args (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for search indexes")
	scheme := fs.String("index-scheme", "", "Index scheme (NATIVE_JAPANESE, ROMANIZED_JAPANESE, WITHOUT_JP_LANG_PROCESSING)")
	searchComposer := fs.String("search-composer", "", "Query composer fields (default: false)")
	maxHits := fs.String("max-hits", "", "Maximum hits per page (default: 100)")
	upnpID3 := fs.String("upnp-id3", "", "Resolve UPnP artist/album classes to ID3 indexes (default: true)")
	foldersFile := fs.String("folders-file", "", "YAML file listing music folders")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Missing .env files are fine. Variables already set in the environment win.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Index: IndexConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
			Scheme:   domain.IndexScheme(getConfigValue(*scheme, "INDEX_SCHEME", string(domain.SchemeNativeJapanese))),
		},
		Search: SearchConfig{
			SearchComposer: getBoolConfigValue(*searchComposer, "SEARCH_COMPOSER", false),
			MaxHits:        getIntConfigValue(*maxHits, "SEARCH_MAX_HITS", 100),
			UPnPID3:        getBoolConfigValue(*upnpID3, "UPNP_ID3", true),
			FoldersFile:    getConfigValue(*foldersFile, "FOLDERS_FILE", ""),
		},
		Args: fs.Args(),
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if cfg.Search.FoldersFile != "" {
		folders, err := LoadFolders(cfg.Search.FoldersFile)
		if err != nil {
			return nil, err
		}
		cfg.Folders = folders
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if _, ok := domain.ParseIndexScheme(string(c.Index.Scheme)); !ok {
		return fmt.Errorf("invalid index scheme: %s", c.Index.Scheme)
	}

	if c.Index.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Search.MaxHits <= 0 {
		return fmt.Errorf("max hits must be positive, got %d", c.Search.MaxHits)
	}

	seen := make(map[int]bool, len(c.Folders))
	for _, f := range c.Folders {
		if seen[f.ID] {
			return fmt.Errorf("duplicate music folder id %d", f.ID)
		}
		seen[f.ID] = true
	}

	return nil
}

// EnabledFolders returns the folders searches may use.
func (c *Config) EnabledFolders() []domain.MusicFolder {
	return domain.EnabledFolders(c.Folders)
}

type foldersFile struct {
	Folders []domain.MusicFolder `yaml:"folders"`
}

// LoadFolders reads a YAML file of the form
//
//	folders:
//	  - id: 0
//	    path: /var/music
//	    enabled: true
//
// Folder paths are expanded like the data path.
func LoadFolders(path string) ([]domain.MusicFolder, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- folders file path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("read folders file: %w", err)
	}

	var file foldersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse folders file %s: %w", path, err)
	}

	for i := range file.Folders {
		if file.Folders[i].Path == "" {
			return nil, fmt.Errorf("folder %d has no path", file.Folders[i].ID)
		}
		expanded, err := expandPath(file.Folders[i].Path, "")
		if err != nil {
			return nil, fmt.Errorf("folder %d: %w", file.Folders[i].ID, err)
		}
		file.Folders[i].Path = expanded
	}
	return file.Folders, nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data path to ~/ListenUp/search.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "ListenUp", "search")

	expanded, err := expandPath(c.Index.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Index.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}
