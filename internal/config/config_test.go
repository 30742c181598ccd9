package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig_Valid(t *testing.T) {
	req := require.New(t)
	cfg := DefaultServerConfig()
	req.NoError(cfg.Validate())
	req.Equal(":memory:", cfg.JournalPath)
	req.Zero(cfg.MaxContainers)
}

func TestLoad_LayersFileThenEnv(t *testing.T) {
	req := require.New(t)

	// Given a config file and an environment overriding one of its fields
	path := filepath.Join(t.TempDir(), "pcontainer.yaml")
	req.NoError(os.WriteFile(path, []byte("addr: \":9090\"\nmax_members: 4\nmax_containers: 2\n"), 0o644))
	environ := []string{"PC_MAX_MEMBERS=8", "PC_LOG_FORMAT=json", "UNRELATED=1"}

	// When the configuration is loaded
	cfg, err := Load(path, environ)

	// Then the environment wins over the file and the file over defaults
	req.NoError(err)
	req.Equal(":9090", cfg.Addr)
	req.Equal(2, cfg.MaxContainers)
	req.Equal(8, cfg.MaxMembers)
	req.Equal("json", cfg.LogFormat)
	req.Equal("info", cfg.LogLevel)
	req.Equal(":memory:", cfg.JournalPath)
}

func TestLoad_NoFile(t *testing.T) {
	req := require.New(t)
	cfg, err := Load("", nil)
	req.NoError(err)
	req.Equal(DefaultServerConfig(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	req := require.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	req.ErrorContains(err, "read config")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	req.NoError(os.WriteFile(bad, []byte("max_members: [1, 2"), 0o644))
	_, err = Load(bad, nil)
	req.ErrorContains(err, "parse config")

	_, err = Load("", []string{"PC_MAX_MEMBERS=lots"})
	req.ErrorContains(err, "load environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"ok", func(*ServerConfig) {}, ""},
		{"empty addr", func(c *ServerConfig) { c.Addr = "" }, "addr is required"},
		{"bad format", func(c *ServerConfig) { c.LogFormat = "xml" }, "log_format"},
		{"bad level", func(c *ServerConfig) { c.LogLevel = "loud" }, "log_level"},
		{"empty journal", func(c *ServerConfig) { c.JournalPath = "" }, "journal_path"},
		{"negative containers", func(c *ServerConfig) { c.MaxContainers = -1 }, "max_containers"},
		{"negative members", func(c *ServerConfig) { c.MaxMembers = -3 }, "max_members"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
