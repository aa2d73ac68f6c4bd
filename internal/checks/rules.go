package checks

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raven-betanet/envcheck/internal/hostenv"
	"github.com/raven-betanet/envcheck/internal/requirements"
	"github.com/raven-betanet/envcheck/internal/version"
)

const (
	minAPCVersion  = "3.0.17"
	minICUVersion  = "4.0"
	minPCREVersion = 8.0

	phpIniAnchor = `php.ini<a href="#phpini">*</a>`

	vendorHelp = `Vendor libraries are missing. Install composer following instructions from <a href="http://getcomposer.org/">http://getcomposer.org/</a>. ` +
		`Then run "<strong>php composer.phar install</strong>" to install them.`
)

// builtinFunctions are the mandatory functions, each with the extension
// providing it.
var builtinFunctions = []struct {
	function  string
	extension string
}{
	{"json_encode", "JSON"},
	{"session_start", "session"},
	{"ctype_alpha", "ctype"},
	{"token_get_all", "Tokenizer"},
	{"simplexml_import_dom", "SimpleXML"},
}

// offDirectives are recommended off; approveAbsence covers settings
// removed in PHP 5.4.
var offDirectives = []struct {
	name           string
	approveAbsence bool
}{
	{"short_open_tag", false},
	{"magic_quotes_gpc", true},
	{"register_globals", true},
	{"session.auto_start", false},
}

func (o Options) withDefaults() Options {
	if o.ProjectDir == "" {
		o.ProjectDir = "."
	}
	if o.AppDir == "" {
		o.AppDir = "app"
	}
	return o
}

func (o Options) vendorPath(name string) string {
	return filepath.Join(o.ProjectDir, "vendor", name)
}

func (o Options) appPath(name string) string {
	return filepath.Join(o.ProjectDir, o.AppDir, name)
}

// appLabel is the app directory name as shown in messages, e.g. "app".
func (o Options) appLabel() string {
	return filepath.Base(filepath.Join(o.ProjectDir, o.AppDir))
}

func addFunctionRequirements(c *requirements.Collection, env hostenv.Environment) {
	for _, f := range builtinFunctions {
		c.AddRequirement(
			env.FunctionExists(f.function),
			fmt.Sprintf("%s() must be available", f.function),
			fmt.Sprintf("Install and enable the <strong>%s</strong> extension.", f.extension),
			"",
		)
	}
}

func addWritableDirRequirements(c *requirements.Collection, env hostenv.Environment, opts Options) {
	label := opts.appLabel()
	for _, dir := range []string{"cache", "logs"} {
		c.AddRequirement(
			env.IsWritable(opts.appPath(dir)),
			fmt.Sprintf("%s/%s/ directory must be writable", label, dir),
			fmt.Sprintf(`Change the permissions of the "<strong>%s/%s/</strong>" directory so that the web server can write into it.`, label, dir),
			"",
		)
	}
}

func addTimezoneDirective(c *requirements.Collection, env hostenv.Environment) error {
	return c.AddConfigDirectiveRequirement(env, "date.timezone", requirements.Expect(true), requirements.DirectiveOptions{
		TestMessage: "date.timezone setting must be set",
		HelpHTML:    `Set the "<strong>date.timezone</strong>" setting in ` + phpIniAnchor + ` (like Europe/Paris).`,
	})
}

// pharWhitelisted reports whether suhosin lets phar archives be included.
func pharWhitelisted(v requirements.DirectiveValue) bool {
	return strings.Contains(strings.ToLower(v.Raw()), "phar")
}

func addSuhosinWhitelist(c *requirements.Collection, env hostenv.Environment, approveAbsence bool) error {
	return c.AddConfigDirectiveRequirement(env, "suhosin.executor.include.whitelist",
		requirements.Predicate(pharWhitelisted),
		requirements.DirectiveOptions{
			ApproveAbsence: approveAbsence,
			TestMessage:    "suhosin.executor.include.whitelist must be configured correctly in php.ini",
			HelpHTML:       `Add "<strong>phar</strong>" to <strong>suhosin.executor.include.whitelist</strong> in ` + phpIniAnchor + `.`,
		})
}

func addOffRecommendations(c *requirements.Collection, env hostenv.Environment) error {
	for _, d := range offDirectives {
		err := c.AddConfigDirectiveRecommendation(env, d.name, requirements.Expect(false),
			requirements.DirectiveOptions{ApproveAbsence: d.approveAbsence})
		if err != nil {
			return err
		}
	}
	return nil
}

func addExtensionRecommendations(c *requirements.Collection, env hostenv.Environment) {
	c.AddRecommendation(
		env.ClassExists("DomDocument"),
		"PHP-XML module should be installed",
		"Install and enable the <strong>PHP-XML</strong> module.",
		"",
	)

	c.AddRecommendation(
		env.FunctionExists("mb_strlen"),
		"mb_strlen() should be available",
		"Install and enable the <strong>mbstring</strong> extension.",
		"",
	)

	c.AddRecommendation(
		env.FunctionExists("iconv"),
		"iconv() should be available",
		"Install and enable the <strong>iconv</strong> extension.",
		"",
	)

	c.AddRecommendation(
		env.FunctionExists("utf8_decode"),
		"utf8_decode() should be available",
		"Install and enable the <strong>XML</strong> extension.",
		"",
	)

	if !isWindows(env) {
		c.AddRecommendation(
			env.FunctionExists("posix_isatty"),
			"posix_isatty() should be available",
			"Install and enable the <strong>php_posix</strong> extension (used to colorize the CLI output).",
			"",
		)
	}

	c.AddRecommendation(
		env.ClassExists("Locale"),
		"intl extension should be available",
		"Install and enable the <strong>intl</strong> extension (used for validators).",
		"",
	)
}

func addICURecommendation(c *requirements.Collection, env hostenv.Environment) {
	if !env.ClassExists("Locale") {
		return
	}
	icu, _ := ICUVersion(env)
	c.AddRecommendation(
		version.AtLeast(icu, minICUVersion),
		"intl ICU version should be at least 4+",
		"Upgrade your <strong>intl</strong> extension with a newer ICU version (4+).",
		"",
	)
}

func addAcceleratorRecommendation(c *requirements.Collection, env hostenv.Environment) {
	c.AddRecommendation(
		AcceleratorAvailable(env),
		"a PHP accelerator should be installed",
		"Install and enable a <strong>PHP accelerator</strong> like APC (highly recommended).",
		"",
	)
}

func addPDORecommendations(c *requirements.Collection, env hostenv.Environment) {
	c.AddRecommendation(
		env.ClassExists("PDO"),
		"PDO should be installed",
		"Install <strong>PDO</strong> (mandatory for Doctrine).",
		"",
	)

	if !env.ClassExists("PDO") {
		return
	}
	drivers := env.PDODrivers()
	available := "none"
	if len(drivers) > 0 {
		available = strings.Join(drivers, ", ")
	}
	c.AddRecommendation(
		len(drivers) > 0,
		fmt.Sprintf("PDO should have some drivers installed (currently available: %s)", available),
		"Install <strong>PDO drivers</strong> (mandatory for Doctrine).",
		"",
	)
}

// APCActive reports whether the APC user cache is loaded and enabled.
func APCActive(env hostenv.Environment) bool {
	return env.FunctionExists("apc_store") && env.Directive("apc.enabled").Truthy()
}

// AcceleratorAvailable reports whether any of APC, eAccelerator or XCache
// is usable.
func AcceleratorAvailable(env hostenv.Environment) bool {
	return APCActive(env) ||
		(env.FunctionExists("eaccelerator_put") && env.Directive("eaccelerator.enable").Truthy()) ||
		env.FunctionExists("xcache_set")
}

// ICUVersion returns the ICU library version of the intl extension. It
// prefers INTL_ICU_VERSION and falls back to scraping the extension's
// diagnostic output, whose layout is not guaranteed to be stable.
func ICUVersion(env hostenv.Environment) (string, bool) {
	if v, ok := env.Constant("INTL_ICU_VERSION"); ok {
		return v, true
	}
	info, ok := env.ExtensionInfo("intl")
	if !ok {
		return "", false
	}
	return version.ICUFromInfo(requirements.StripTags(info))
}

// PCREVersion returns the numeric prefix of PCRE_VERSION.
func PCREVersion(env hostenv.Environment) (float64, bool) {
	raw, ok := env.Constant("PCRE_VERSION")
	if !ok {
		return 0, false
	}
	v, _ := version.LeadingFloat(raw)
	return v, true
}

func isWindows(env hostenv.Environment) bool {
	_, ok := env.Constant("PHP_WINDOWS_VERSION_BUILD")
	return ok
}
