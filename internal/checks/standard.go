package checks

import (
	"fmt"
	"slices"

	"github.com/raven-betanet/envcheck/internal/hostenv"
	"github.com/raven-betanet/envcheck/internal/requirements"
	"github.com/raven-betanet/envcheck/internal/version"
)

// StandardRequiredPHPVersion is the minimum PHP version of the standard rule set.
const StandardRequiredPHPVersion = "5.3.3"

// StandardRuleSet checks the requirements of a Symfony 2.1+ standard
// edition project.
type StandardRuleSet struct{}

func (StandardRuleSet) ID() string { return "standard" }

func (StandardRuleSet) Description() string {
	return fmt.Sprintf("Symfony standard edition requirements (PHP %s+, composer vendors)", StandardRequiredPHPVersion)
}

func (StandardRuleSet) Build(env hostenv.Environment, opts Options) (*requirements.Collection, error) {
	return NewStandardRequirements(env, opts)
}

// NewStandardRequirements evaluates the standard rule set against env.
func NewStandardRequirements(env hostenv.Environment, opts Options) (*requirements.Collection, error) {
	opts = opts.withDefaults()
	c := requirements.NewCollection()
	installed := env.Version()
	required := StandardRequiredPHPVersion

	c.AddRequirement(
		version.AtLeast(installed, required),
		fmt.Sprintf("PHP version must be at least %s (%s installed)", required, installed),
		fmt.Sprintf(`You are running PHP version "<strong>%s</strong>", but Symfony needs at least PHP "<strong>%s</strong>" to run. `+
			`Before using Symfony, upgrade your PHP installation, preferably to the latest version.`, installed, required),
		fmt.Sprintf("Install PHP %s or newer (installed version is %s)", required, installed),
	)

	c.AddRequirement(
		!version.Equal(installed, "5.3.16"),
		"PHP version must not be 5.3.16 as Symfony won't work properly with it",
		"Install PHP 5.3.17 or newer (or downgrade to an earlier PHP version)",
		"",
	)

	c.AddRequirement(
		env.IsDir(opts.vendorPath("composer")),
		"Vendor libraries must be installed",
		vendorHelp,
		"",
	)

	addWritableDirRequirements(c, env, opts)

	if err := addTimezoneDirective(c, env); err != nil {
		return nil, err
	}

	if version.AtLeast(installed, required) {
		tz := env.DefaultTimezone()
		c.AddRequirement(
			slices.Contains(env.TimezoneIdentifiers(), tz),
			fmt.Sprintf(`Configured default timezone "%s" must be supported by your installation of PHP`, tz),
			`Your default timezone is not supported by PHP. Check for typos in your <strong>php.ini</strong> file and have a look at the list of deprecated timezones at <a href="http://php.net/manual/en/timezones.others.php">http://php.net/manual/en/timezones.others.php</a>.`,
			"",
		)
	}

	addFunctionRequirements(c, env)

	if APCActive(env) {
		c.AddRequirement(
			version.AtLeast(env.ExtensionVersion("apc"), minAPCVersion),
			"APC version must be at least "+minAPCVersion,
			"Upgrade your <strong>APC</strong> extension ("+minAPCVersion+"+).",
			"",
		)
	}

	if err := c.AddConfigDirectiveRequirement(env, "detect_unicode", requirements.Expect(false), requirements.DirectiveOptions{}); err != nil {
		return nil, err
	}

	if env.ExtensionLoaded("suhosin") {
		if err := addSuhosinWhitelist(c, env, false); err != nil {
			return nil, err
		}
	}

	if env.ExtensionLoaded("xdebug") {
		for _, name := range []string{"xdebug.show_exception_trace", "xdebug.scream"} {
			err := c.AddConfigDirectiveRequirement(env, name, requirements.Expect(false),
				requirements.DirectiveOptions{ApproveAbsence: true})
			if err != nil {
				return nil, err
			}
		}
	}

	pcre, hasPCRE := PCREVersion(env)

	c.AddRequirement(
		hasPCRE,
		"PCRE extension must be available",
		"Install the <strong>PCRE</strong> extension (version 8.0+).",
		"",
	)

	// recommendations

	c.AddRecommendation(
		version.AtLeast(installed, "5.3.4"),
		"You should use at least PHP 5.3.4 due to PHP bug #52083 in earlier versions",
		`Your project might malfunction randomly due to PHP bug #52083 ("Notice: Trying to get property of non-object"). Install PHP 5.3.4 or newer.`,
		"",
	)

	c.AddRecommendation(
		version.AtLeast(installed, "5.3.8"),
		"When using annotations you should have at least PHP 5.3.8 due to PHP bug #55156",
		"Install PHP 5.3.8 or newer if your project uses annotations.",
		"",
	)

	c.AddRecommendation(
		!version.Equal(installed, "5.4.0"),
		"You should not use PHP 5.4.0 due to the PHP bug #61453",
		`Your project might not work properly due to the PHP bug #61453 ("Cannot dump definitions which have method calls"). Install PHP 5.4.1 or newer.`,
		"",
	)

	if hasPCRE {
		c.AddRecommendation(
			pcre >= minPCREVersion,
			fmt.Sprintf("PCRE extension should be at least version 8.0 (%g installed)", pcre),
			"<strong>PCRE 8.0+</strong> is preconfigured in PHP since 5.3.2 but you are using an outdated version of it. Symfony probably works anyway but it is recommended to upgrade your PCRE extension.",
			"",
		)
	}

	addExtensionRecommendations(c, env)

	if env.ClassExists("Collator") {
		c.AddRecommendation(
			env.CollatorAvailable("fr_FR"),
			"intl extension should be correctly configured",
			"The intl extension does not behave properly. This problem is typical on PHP 5.3.X x64 WIN builds.",
			"",
		)
	}

	addICURecommendation(c, env)
	addAcceleratorRecommendation(c, env)

	if err := addOffRecommendations(c, env); err != nil {
		return nil, err
	}

	addPDORecommendations(c, env)

	return c, nil
}
