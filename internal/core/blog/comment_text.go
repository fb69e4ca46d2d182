package blog

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rivo/uniseg"
)

const maxCommentGraphemes = 10000

var commentPolicy = bluemonday.StrictPolicy()

// NormalizeCommentText strips markup and surrounding whitespace from a
// comment and enforces the length limit. Length is counted in grapheme
// clusters so emoji and combining sequences count once.
func NormalizeCommentText(text string) (string, error) {
	clean := strings.TrimSpace(commentPolicy.Sanitize(text))
	if clean == "" {
		return "", ErrCommentEmpty
	}
	if uniseg.GraphemeClusterCount(clean) > maxCommentGraphemes {
		return "", ErrCommentTooLong
	}
	return clean, nil
}
