package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[user]
id = "lead@example.com"

[store]
path = "/tmp/plan.db"

[planning]
default_weeks = 8
fr_capacity_days = 2.5
strict_resize = true

[share]
base_url = "https://plan.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"user.id", cfg.User.ID, "lead@example.com"},
		{"store.path", cfg.Store.Path, "/tmp/plan.db"},
		{"planning.default_weeks", cfg.Planning.DefaultWeeks, 8},
		{"planning.working_days default", cfg.Planning.WorkingDays, 5},
		{"planning.fr_capacity_days", cfg.Planning.FRCapacityDays, 2.5},
		{"planning.strict_resize", cfg.Planning.StrictResize, true},
		{"share.base_url", cfg.Share.BaseURL, "https://plan.example.com"},
		{"server.addr default", cfg.Server.Addr, ":8080"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadFileMissingUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("CAPPLAN_ADDR", ":9999")
	t.Setenv("CAPPLAN_OWNER", "ci")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "ci", cfg.User.ID)
	assert.Equal(t, 6, cfg.Planning.DefaultWeeks)
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[planning]\nworking_days = 9\n"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[planning\n"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	t.Setenv("CAPPLAN_CONFIG_DIR", filepath.Join(t.TempDir(), "capplan"))
	path, err := ConfigPath()
	require.NoError(t, err)

	require.NoError(t, WriteDefault(path))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	require.NoError(t, os.WriteFile(path, []byte("[user]\nid = \"kept\"\n"), 0o644))
	require.NoError(t, WriteDefault(path))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "kept", cfg.User.ID)
}
