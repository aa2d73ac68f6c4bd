package requirements

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes every tag and comment from s and keeps text content as
// written. Entities are not decoded. Stray '<' runs such as "<<b>b>" are
// removed as a whole, like PHP strip_tags, so the result holds no tag and
// stripping it again returns it unchanged.
func StripTags(s string) string {
	for strings.Contains(s, "<") {
		stripped := stripOnce(s)
		if stripped == s {
			break
		}
		s = stripped
	}
	return s
}

// stripOnce drops the tags the tokenizer recognizes. A '<' that does not
// open a tag comes back as text and may form a new tag with what follows.
func stripOnce(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader produces.
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}
