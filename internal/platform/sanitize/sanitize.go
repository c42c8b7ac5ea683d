// Package sanitize strips markup from user-supplied free text before it is
// interpolated into notification templates.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text reduces s to plain text: all tags and attributes are removed and
// entities are decoded, repeating until the value stops changing so layered
// encodings unwrap completely. Each pass either strips a tag or peels one
// layer of entity encoding, so the loop terminates. The result is a fixpoint:
// Text(Text(s)) == Text(s) for every s.
func Text(s string) string {
	out := s
	for {
		next := strings.TrimSpace(html.UnescapeString(strict.Sanitize(out)))
		if next == out {
			return out
		}
		out = next
	}
}
