package specs

import (
	"regexp"
	"strings"

	"github.com/sells-group/specscout/internal/model"
)

// UnknownProduct is the name sentinel for documents with no non-blank lines.
const UnknownProduct = "Unknown Product"

// charPattern matches one "Label: value" line. The label charset is
// restricted to word characters, blanks and /().- so prose sentences that
// happen to contain a colon do not register as characteristics. Matching is
// strictly line-oriented: space and tab are spelled out instead of \s so a
// label can never swallow a newline.
var charPattern = regexp.MustCompile(`(?m)^([\w \t/().-]+):[ \t]*(.*)$`)

// ParseCharacteristics extracts ordered "Label: value" pairs from document
// text. Values may be empty. The returned slice is never nil so an empty
// result still serializes as a JSON array.
func ParseCharacteristics(text string) []model.Characteristic {
	matches := charPattern.FindAllStringSubmatch(text, -1)
	chars := make([]model.Characteristic, 0, len(matches))
	for _, m := range matches {
		chars = append(chars, model.Characteristic{
			Name:  strings.TrimSpace(m[1]),
			Value: strings.TrimSpace(m[2]),
		})
	}
	return chars
}

// ProductName returns the first non-blank line of the document, trimmed, or
// the UnknownProduct sentinel when the document has none.
func ProductName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			return name
		}
	}
	return UnknownProduct
}
