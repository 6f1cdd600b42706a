// Package export renders recognition results as markdown or plain text.
package export

import (
	"fmt"
	"strings"

	"github.com/mathiasimmer/pyocr/ocr"
)

// MarkdownOption adjusts markdown rendering.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	blockBounds bool
}

// WithBlockBounds prefixes each block with an HTML comment carrying its
// bounding box, so layout survives into a format that has none.
func WithBlockBounds() MarkdownOption {
	return func(c *markdownConfig) { c.blockBounds = true }
}

// Markdown renders the assembled result as markdown. Each recognized
// paragraph becomes one markdown paragraph; the line breaks inside it
// stay as soft breaks.
func Markdown(res ocr.Result, opts ...MarkdownOption) []byte {
	var cfg markdownConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var sb strings.Builder
	for _, b := range res.Blocks {
		if cfg.blockBounds {
			r := b.Bounds.Rect()
			fmt.Fprintf(&sb, "<!-- bbox %d %d %d %d -->\n\n", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
		}
		for _, p := range b.Paragraphs {
			for li, l := range p.Lines {
				if li > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(l.Text)
			}
			sb.WriteString("\n\n")
		}
	}
	return []byte(sb.String())
}
