package version

import (
	"regexp"
	"strings"
)

// icuLine matches the "ICU version" row of the intl extension's phpinfo
// block, in both the CLI ("ICU version => 50.1") and the stripped HTML
// ("ICU version 50.1") layouts. The layout is not a committed interface of
// the extension and can change between PHP builds.
var icuLine = regexp.MustCompile(`(?m)^ICU version +(?:=> )?(.*)$`)

// ICUFromInfo extracts the ICU version from the intl extension's diagnostic
// output. Only use it when INTL_ICU_VERSION is not defined.
func ICUFromInfo(info string) (string, bool) {
	m := icuLine.FindStringSubmatch(strings.ReplaceAll(info, "\r\n", "\n"))
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}
