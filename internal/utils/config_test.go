package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfig_FileEnvAndFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "envcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
php_binary: /usr/bin/php5
ruleset: legacy
app_dir: application
probe_timeout: 3s
`), 0o600))

	t.Setenv("ENVCHECK_PROJECT_DIR", "/srv/site")
	t.Setenv("ENVCHECK_RULESET", "standard")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "text", "")
	flags.String("php-binary", "php", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--format", "json"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/php5", cfg.PHPBinary, "unchanged flag must not override the file")
	assert.Equal(t, "standard", cfg.RuleSet, "env overrides the file")
	assert.Equal(t, "/srv/site", cfg.ProjectDir)
	assert.Equal(t, "application", cfg.AppDir)
	assert.Equal(t, "json", cfg.Format, "changed flag wins")
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout)
}

func TestLoadConfig_HomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".envcheck"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".envcheck", "config.yaml"), []byte("snapshot: /tmp/php.yaml\n"), 0o600))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/php.yaml", cfg.Snapshot)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
