package checks

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/raven-betanet/envcheck/internal/hostenv"
	"github.com/raven-betanet/envcheck/internal/requirements"
)

var testOpts = Options{ProjectDir: "/project", AppDir: "app"}

// healthySnapshot describes a PHP 5.4.7 runtime passing every standard rule.
func healthySnapshot() *hostenv.Snapshot {
	ini := "/etc/php5/cli/php.ini"
	return &hostenv.Snapshot{
		Version:    "5.4.7",
		OS:         "Linux",
		ConfigFile: &ini,
		Extensions: map[string]string{"core": "5.4.7", "apc": "3.1.13", "intl": "1.1.0"},
		Functions: []string{
			"json_encode", "session_start", "ctype_alpha", "token_get_all", "simplexml_import_dom",
			"apc_store", "mb_strlen", "iconv", "utf8_decode", "posix_isatty",
		},
		Classes: []string{"DOMDocument", "Locale", "Collator", "PDO"},
		Constants: map[string]string{
			"PCRE_VERSION":     "8.31 2012-07-06",
			"INTL_ICU_VERSION": "4.8.1.1",
		},
		Directives: map[string]requirements.DirectiveValue{
			"date.timezone":      requirements.DirectiveOf("Europe/Paris"),
			"apc.enabled":        requirements.DirectiveOf("1"),
			"detect_unicode":     requirements.DirectiveOf(""),
			"short_open_tag":     requirements.DirectiveOf(""),
			"session.auto_start": requirements.DirectiveOf("0"),
		},
		Timezone:   "Europe/Paris",
		Timezones:  []string{"Europe/Paris", "UTC"},
		PDODrivers: []string{"mysql", "sqlite"},
		Collators:  []string{"fr_FR"},
	}
}

func projectFs(t *testing.T, dirs ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(d, 0o755))
	}
	return fs
}

func standardFs(t *testing.T) afero.Fs {
	return projectFs(t, "/project/vendor/composer", "/project/app/cache", "/project/app/logs")
}

func buildStandard(t *testing.T, snap *hostenv.Snapshot, fs afero.Fs) *requirements.Collection {
	t.Helper()
	c, err := NewStandardRequirements(hostenv.NewHost(snap, fs), testOpts)
	require.NoError(t, err)
	return c
}

func findResult(t *testing.T, results []requirements.Result, message string) requirements.Result {
	t.Helper()
	for _, r := range results {
		if r.TestMessage() == message {
			return r
		}
	}
	require.Failf(t, "requirement not found", "no requirement with message %q", message)
	return nil
}

func hasMessage(results []requirements.Result, message string) bool {
	for _, r := range results {
		if r.TestMessage() == message {
			return true
		}
	}
	return false
}
