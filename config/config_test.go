package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, workdir string) string {
	t.Helper()
	cfile := filepath.Join(workdir, "toughstore.yml")
	content := `
system:
  appid: toughstore
  location: UTC
  workdir: ` + workdir + `
web:
  host: 127.0.0.1
  port: 9090
database:
  type: sqlite
  name: store
logger:
  mode: development
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0644))
	return cfile
}

func TestLoadConfigFromFile(t *testing.T) {
	workdir := t.TempDir()
	cfg := LoadConfig(writeConfigFile(t, workdir))

	assert.Equal(t, "127.0.0.1", cfg.Web.Host)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, workdir, cfg.System.Workdir)

	// workdir layout is created on load
	for _, sub := range []string{"logs", "data", "metrics"} {
		info, err := os.Stat(filepath.Join(workdir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.Equal(t, filepath.Join(workdir, "logs"), cfg.GetLogDir())
	assert.Equal(t, filepath.Join(workdir, "data"), cfg.GetDataDir())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("TOUGHSTORE_WEB_PORT", "2816")
	t.Setenv("TOUGHSTORE_DB_TYPE", "postgres")
	t.Setenv("TOUGHSTORE_LOGGER_FILE_ENABLE", "off")

	cfg := LoadConfig(writeConfigFile(t, workdir))

	assert.Equal(t, 2816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.False(t, cfg.Logger.FileEnable)
}
