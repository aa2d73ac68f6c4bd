package hostenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raven-betanet/envcheck/internal/requirements"
)

func strPtr(s string) *string { return &s }

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Version:    "5.3.10",
		OS:         "Linux",
		ConfigFile: strPtr("/etc/php5/cli/php.ini"),
		Extensions: map[string]string{"core": "5.3.10", "apc": "3.1.9", "pdo": "1.0.4dev"},
		ExtensionInfo: map[string]string{
			"intl": "ICU version => 4.8.1.1",
		},
		Functions:  []string{"json_encode", "ctype_alpha"},
		Classes:    []string{"DOMDocument", "PDO"},
		Constants:  map[string]string{"PCRE_VERSION": "8.12 2011-01-15"},
		Directives: map[string]requirements.DirectiveValue{"date.timezone": requirements.DirectiveOf("Europe/Paris"), "detect_unicode": requirements.DirectiveOf("")},
		Timezone:   "Europe/Paris",
		Timezones:  []string{"Europe/Paris", "UTC"},
		PDODrivers: []string{"mysql", "sqlite"},
		Collators:  []string{"fr_FR"},
	}
}

func TestHost_Lookups(t *testing.T) {
	h := NewHost(sampleSnapshot(), afero.NewMemMapFs())

	assert.Equal(t, "5.3.10", h.Version())
	assert.Equal(t, "Linux", h.OS())

	assert.True(t, h.ExtensionLoaded("APC"))
	assert.False(t, h.ExtensionLoaded("xdebug"))
	assert.Equal(t, "3.1.9", h.ExtensionVersion("apc"))
	assert.Equal(t, "", h.ExtensionVersion("xdebug"))

	info, ok := h.ExtensionInfo("intl")
	assert.True(t, ok)
	assert.Contains(t, info, "ICU version")

	assert.True(t, h.FunctionExists("JSON_ENCODE"))
	assert.False(t, h.FunctionExists("mb_strlen"))
	assert.True(t, h.ClassExists("DomDocument"))
	assert.False(t, h.ClassExists("Locale"))

	v, ok := h.Constant("PCRE_VERSION")
	assert.True(t, ok)
	assert.Equal(t, "8.12 2011-01-15", v)
	_, ok = h.Constant("PHP_WINDOWS_VERSION_BUILD")
	assert.False(t, ok)

	assert.Equal(t, requirements.DirectiveOf("Europe/Paris"), h.Directive("date.timezone"))
	assert.True(t, h.Directive("detect_unicode").IsSet())
	assert.False(t, h.Directive("suhosin.executor.include.whitelist").IsSet())

	path, ok := h.ConfigFilePath()
	assert.True(t, ok)
	assert.Equal(t, "/etc/php5/cli/php.ini", path)

	assert.Equal(t, "Europe/Paris", h.DefaultTimezone())
	assert.Equal(t, []string{"Europe/Paris", "UTC"}, h.TimezoneIdentifiers())
	assert.Equal(t, []string{"mysql", "sqlite"}, h.PDODrivers())
	assert.True(t, h.CollatorAvailable("fr_FR"))
	assert.False(t, h.CollatorAvailable("de_DE"))
}

func TestHost_NoConfigFile(t *testing.T) {
	for _, cfg := range []*string{nil, strPtr("")} {
		h := NewHost(&Snapshot{ConfigFile: cfg}, afero.NewMemMapFs())
		_, ok := h.ConfigFilePath()
		assert.False(t, ok)
	}
}

func TestHost_NilSnapshot(t *testing.T) {
	h := NewHost(nil, afero.NewMemMapFs())
	assert.Equal(t, "", h.Version())
	assert.False(t, h.Directive("anything").IsSet())
	assert.Empty(t, h.PDODrivers())
}

func TestHost_IsDirAndIsWritable_MemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/project/app/cache", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/project/app/config.yml", []byte("x"), 0o644))

	h := NewHost(&Snapshot{}, fs)

	assert.True(t, h.IsDir("/project/app"))
	assert.False(t, h.IsDir("/project/app/config.yml"))
	assert.False(t, h.IsDir("/project/vendor"))

	assert.True(t, h.IsWritable("/project/app/cache"))
	assert.True(t, h.IsWritable("/project/app/config.yml"))
	assert.False(t, h.IsWritable("/project/app/logs"))

	entries, err := afero.ReadDir(fs, "/project/app/cache")
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestHost_IsWritable_ReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/project/app/cache", 0o755))

	h := NewHost(&Snapshot{}, afero.NewReadOnlyFs(base))

	assert.True(t, h.IsDir("/project/app/cache"))
	assert.False(t, h.IsWritable("/project/app/cache"))
}

func TestHost_IsWritable_OsFs(t *testing.T) {
	dir := t.TempDir()
	h := NewHost(&Snapshot{}, nil)

	assert.True(t, h.IsDir(dir))
	assert.True(t, h.IsWritable(dir))
	assert.False(t, h.IsWritable(filepath.Join(dir, "missing")))

	if os.Geteuid() == 0 {
		t.Skip("root can write to read-only directories")
	}
	ro := filepath.Join(dir, "ro")
	require.NoError(t, os.Mkdir(ro, 0o555))
	assert.False(t, h.IsWritable(ro))
}
