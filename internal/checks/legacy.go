package checks

import (
	"fmt"

	"github.com/raven-betanet/envcheck/internal/hostenv"
	"github.com/raven-betanet/envcheck/internal/requirements"
	"github.com/raven-betanet/envcheck/internal/version"
)

// LegacyRequiredPHPVersion is the minimum PHP version of the legacy rule set.
const LegacyRequiredPHPVersion = "5.3.2"

// LegacyRuleSet checks the requirements of Symfony 2.0 projects, which
// shipped their vendors under vendor/symfony.
type LegacyRuleSet struct{}

func (LegacyRuleSet) ID() string { return "legacy" }

func (LegacyRuleSet) Description() string {
	return fmt.Sprintf("Symfony 2.0 requirements (PHP %s+, bundled vendors)", LegacyRequiredPHPVersion)
}

func (LegacyRuleSet) Build(env hostenv.Environment, opts Options) (*requirements.Collection, error) {
	return NewLegacyRequirements(env, opts)
}

// NewLegacyRequirements evaluates the legacy rule set against env.
func NewLegacyRequirements(env hostenv.Environment, opts Options) (*requirements.Collection, error) {
	opts = opts.withDefaults()
	c := requirements.NewCollection()
	installed := env.Version()

	c.AddRequirement(
		version.AtLeast(installed, LegacyRequiredPHPVersion),
		fmt.Sprintf("PHP version must be at least %s (%s installed)", LegacyRequiredPHPVersion, installed),
		fmt.Sprintf(`You are running PHP version "<strong>%s</strong>", but Symfony needs at least PHP "<strong>%s</strong>" to run.`, installed, LegacyRequiredPHPVersion),
		fmt.Sprintf("Install PHP %s or newer (installed version is %s)", LegacyRequiredPHPVersion, installed),
	)

	c.AddRequirement(
		env.IsDir(opts.vendorPath("symfony")),
		"Vendor libraries must be installed",
		"<strong>CRITICAL</strong>: "+vendorHelp,
		"",
	)

	if err := addTimezoneDirective(c, env); err != nil {
		return nil, err
	}

	addWritableDirRequirements(c, env, opts)
	addFunctionRequirements(c, env)

	c.AddRequirement(
		!APCActive(env) || version.AtLeast(env.ExtensionVersion("apc"), minAPCVersion),
		"APC version must be at least "+minAPCVersion,
		"Upgrade your <strong>APC</strong> extension ("+minAPCVersion+"+).",
		"",
	)

	if err := c.AddConfigDirectiveRequirement(env, "detect_unicode", requirements.Expect(false), requirements.DirectiveOptions{}); err != nil {
		return nil, err
	}

	if err := addSuhosinWhitelist(c, env, true); err != nil {
		return nil, err
	}

	addExtensionRecommendations(c, env)
	addICURecommendation(c, env)
	addAcceleratorRecommendation(c, env)

	if err := addOffRecommendations(c, env); err != nil {
		return nil, err
	}

	addPDORecommendations(c, env)

	return c, nil
}
