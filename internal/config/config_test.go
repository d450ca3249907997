package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-search/internal/domain"
)

var configKeys = []string{
	"ENV", "LOG_LEVEL", "DATA_PATH", "INDEX_SCHEME", "SEARCH_COMPOSER",
	"SEARCH_MAX_HITS", "UPNP_ID3", "FOLDERS_FILE",
}

// clearEnv unsets the config keys for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Index:  IndexConfig{DataPath: "/some/path", Scheme: domain.SchemeNativeJapanese},
		Search: SearchConfig{MaxHits: 100},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_IndexSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Scheme = "KANJI"
	assert.ErrorContains(t, cfg.Validate(), "invalid index scheme")

	cfg = validConfig()
	cfg.Index.DataPath = ""
	assert.ErrorContains(t, cfg.Validate(), "data path")

	cfg = validConfig()
	cfg.Search.MaxHits = 0
	assert.ErrorContains(t, cfg.Validate(), "max hits")
}

func TestValidate_DuplicateFolderIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Folders = []domain.MusicFolder{
		{ID: 1, Path: "/a", Enabled: true},
		{ID: 1, Path: "/b", Enabled: true},
	}

	assert.ErrorContains(t, cfg.Validate(), "duplicate music folder id 1")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, filepath.Join(homeDir, "ListenUp", "search"), cfg.Index.DataPath)
	assert.Equal(t, domain.SchemeNativeJapanese, cfg.Index.Scheme)
	assert.False(t, cfg.Search.SearchComposer)
	assert.True(t, cfg.Search.UPnPID3)
	assert.Equal(t, 100, cfg.Search.MaxHits)
	assert.Empty(t, cfg.Folders)
	assert.Empty(t, cfg.Args)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	envFile := filepath.Join(tmpDir, ".env")
	content := "DATA_PATH=/from/dotenv\nINDEX_SCHEME=ROMANIZED_JAPANESE\nLOG_LEVEL=error\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	t.Setenv("DATA_PATH", "/from/env")
	t.Setenv("SEARCH_COMPOSER", "yes")

	cfg, err := Load([]string{"-env-file", envFile, "-log-level", "debug", "-max-hits", "20", "query", "-type", "SONG"})
	require.NoError(t, err)
	assert.Equal(t, []string{"query", "-type", "SONG"}, cfg.Args)

	assert.Equal(t, "/from/env", cfg.Index.DataPath, "environment beats .env")
	assert.Equal(t, domain.SchemeRomanizedJapanese, cfg.Index.Scheme, ".env beats default")
	assert.Equal(t, "debug", cfg.Logger.Level, "flag beats .env")
	assert.Equal(t, 20, cfg.Search.MaxHits)
	assert.True(t, cfg.Search.SearchComposer)
}

func TestLoad_FoldersFile(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	foldersPath := filepath.Join(tmpDir, "folders.yaml")
	content := `folders:
  - id: 0
    path: /var/music1
    name: Music
    enabled: true
  - id: 2
    path: /var/music2
    enabled: false
`
	require.NoError(t, os.WriteFile(foldersPath, []byte(content), 0o644))

	cfg, err := Load([]string{
		"-env-file", filepath.Join(tmpDir, "missing.env"),
		"-data-path", tmpDir,
		"-folders-file", foldersPath,
	})
	require.NoError(t, err)

	require.Len(t, cfg.Folders, 2)
	assert.Equal(t, domain.MusicFolder{ID: 0, Path: "/var/music1", Name: "Music", Enabled: true}, cfg.Folders[0])
	assert.Equal(t, []domain.MusicFolder{cfg.Folders[0]}, cfg.EnabledFolders())
}

func TestLoad_InvalidInput(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.env")

	_, err := Load([]string{"-env-file", missing, "-no-such-flag"})
	assert.Error(t, err)

	_, err = Load([]string{"-env-file", missing, "-index-scheme", "KANJI"})
	assert.ErrorContains(t, err, "invalid index scheme")

	_, err = Load([]string{"-env-file", missing, "-folders-file", filepath.Join(t.TempDir(), "none.yaml")})
	assert.ErrorContains(t, err, "read folders file")
}

func TestLoadFolders_RequiresPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folders.yaml")
	require.NoError(t, os.WriteFile(path, []byte("folders:\n  - id: 3\n"), 0o644))

	_, err := LoadFolders(path)
	assert.ErrorContains(t, err, "folder 3 has no path")
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/music", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "music"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("/a/../b", "")
	require.NoError(t, err)
	assert.Equal(t, "/b", got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default"))
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TEST_UNSET_KEY_XYZ", "default"))
}

func TestGetIntConfigValue_InvalidFallsBack(t *testing.T) {
	assert.Equal(t, 7, getIntConfigValue("abc", "TEST_UNSET_KEY_XYZ", 7))
	assert.Equal(t, 12, getIntConfigValue("12", "TEST_UNSET_KEY_XYZ", 7))
	assert.False(t, getBoolConfigValue("no", "TEST_UNSET_KEY_XYZ", true))
	assert.True(t, getBoolConfigValue("", "TEST_UNSET_KEY_XYZ", true))
}
