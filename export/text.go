package export

import (
	"strings"

	"github.com/mathiasimmer/pyocr/ocr"
)

// Text returns the plain text of a result. Engines normally fill
// PlainText themselves; when one does not, the text is assembled from
// the block tree with a blank line between blocks.
func Text(res ocr.Result) string {
	if res.PlainText != "" {
		return res.PlainText
	}
	parts := make([]string, 0, len(res.Blocks))
	for _, b := range res.Blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}
