package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raven-betanet/envcheck/internal/hostenv"
	"github.com/raven-betanet/envcheck/internal/requirements"
)

func buildLegacy(t *testing.T, snap *hostenv.Snapshot, dirs ...string) *requirements.Collection {
	t.Helper()
	c, err := NewLegacyRequirements(hostenv.NewHost(snap, projectFs(t, dirs...)), testOpts)
	require.NoError(t, err)
	return c
}

var legacyDirs = []string{"/project/vendor/symfony", "/project/app/cache", "/project/app/logs"}

func TestLegacy_HealthyEnvironment(t *testing.T) {
	c := buildLegacy(t, healthySnapshot(), legacyDirs...)

	assert.Empty(t, c.FailedRequirements())
	assert.Empty(t, c.FailedRecommendations())
	assert.Len(t, c.Requirements(), 13)
	assert.Len(t, c.Recommendations(), 14)
}

func TestLegacy_VendorLayout(t *testing.T) {
	c := buildLegacy(t, healthySnapshot(), "/project/vendor/composer", "/project/app/cache", "/project/app/logs")

	r := findResult(t, c.FailedRequirements(), "Vendor libraries must be installed")
	assert.Contains(t, r.HelpHTML(), "<strong>CRITICAL</strong>: ")
	assert.Contains(t, r.HelpText(), "CRITICAL: Vendor libraries are missing.")
}

func TestLegacy_MinimumVersion(t *testing.T) {
	snap := healthySnapshot()
	snap.Version = "5.3.2"

	legacy := buildLegacy(t, snap, legacyDirs...)
	assert.True(t, findResult(t, legacy.All(), "PHP version must be at least 5.3.2 (5.3.2 installed)").IsFulfilled())

	standard := buildStandard(t, snap, standardFs(t))
	assert.False(t, findResult(t, standard.All(), "PHP version must be at least 5.3.3 (5.3.2 installed)").IsFulfilled())

	snap.Version = "5.3.1"
	legacy = buildLegacy(t, snap, legacyDirs...)
	findResult(t, legacy.FailedRequirements(), "PHP version must be at least 5.3.2 (5.3.1 installed)")
}

func TestLegacy_Suhosin(t *testing.T) {
	const msg = "suhosin.executor.include.whitelist must be configured correctly in php.ini"

	snap := healthySnapshot()
	assert.True(t, findResult(t, buildLegacy(t, snap, legacyDirs...).All(), msg).IsFulfilled(), "absence is approved")

	snap.Directives["suhosin.executor.include.whitelist"] = requirements.DirectiveOf("")
	findResult(t, buildLegacy(t, snap, legacyDirs...).FailedRequirements(), msg)

	snap.Directives["suhosin.executor.include.whitelist"] = requirements.DirectiveOf("phar,tar")
	assert.True(t, findResult(t, buildLegacy(t, snap, legacyDirs...).All(), msg).IsFulfilled())
}

func TestLegacy_APC(t *testing.T) {
	const msg = "APC version must be at least 3.0.17"

	snap := healthySnapshot()
	snap.Extensions["apc"] = "3.0.10"
	findResult(t, buildLegacy(t, snap, legacyDirs...).FailedRequirements(), msg)

	snap.Directives["apc.enabled"] = requirements.DirectiveOf("0")
	assert.True(t, findResult(t, buildLegacy(t, snap, legacyDirs...).All(), msg).IsFulfilled(), "inactive APC passes")
}

func TestLegacy_NoVersionRecommendations(t *testing.T) {
	snap := healthySnapshot()
	snap.Version = "5.4.0"

	c := buildLegacy(t, snap, legacyDirs...)
	assert.False(t, hasMessage(c.All(), "You should not use PHP 5.4.0 due to the PHP bug #61453"))
	assert.False(t, hasMessage(c.All(), "intl extension should be correctly configured"))
}
