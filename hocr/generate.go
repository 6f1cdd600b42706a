package hocr

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/net/html"

	"github.com/mathiasimmer/pyocr/ocr"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" lang="en">
 <head>
  <title></title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name='ocr-system' content='pyocr'/>
  <meta name='ocr-capabilities' content='ocr_page ocr_carea ocr_par ocr_line ocrx_word'/>
 </head>
 <body>
`

// Generate renders a recognition result as a single hOCR page. When the
// page rectangle is empty it defaults to the union of the block bounds.
// The input ID is recorded as the page image name.
func Generate(res ocr.Result, page image.Rectangle) []byte {
	if page.Empty() {
		for _, b := range res.Blocks {
			page = page.Union(b.Bounds.Rect())
		}
	}

	var sb strings.Builder
	sb.WriteString(header)
	fmt.Fprintf(&sb, "  <div class='ocr_page' id='page_1' title='image \"%s\"; %s; ppageno 0'>\n",
		html.EscapeString(res.InputID), bbox(page))

	blockN, parN, lineN, wordN := 0, 0, 0, 0
	for _, b := range res.Blocks {
		blockN++
		fmt.Fprintf(&sb, "   <div class='ocr_carea' id='block_1_%d' title='%s'>\n",
			blockN, bbox(b.Bounds.Rect()))
		for _, p := range b.Paragraphs {
			parN++
			fmt.Fprintf(&sb, "    <p class='ocr_par' id='par_1_%d' title='%s'>\n",
				parN, bbox(p.Bounds.Rect()))
			for _, l := range p.Lines {
				lineN++
				fmt.Fprintf(&sb, "     <span class='ocr_line' id='line_1_%d' title='%s'>",
					lineN, bbox(l.Bounds.Rect()))
				for wi, w := range l.Words {
					wordN++
					if wi > 0 {
						sb.WriteString(" ")
					}
					fmt.Fprintf(&sb, "<span class='ocrx_word' id='word_1_%d' title='%s; x_wconf %d'>%s</span>",
						wordN, bbox(w.Bounds.Rect()), wconf(w.Confidence), html.EscapeString(w.Text))
				}
				sb.WriteString("</span>\n")
			}
			sb.WriteString("    </p>\n")
		}
		sb.WriteString("   </div>\n")
	}
	sb.WriteString("  </div>\n </body>\n</html>\n")
	return []byte(sb.String())
}

func bbox(r image.Rectangle) string {
	return fmt.Sprintf("bbox %d %d %d %d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// x_wconf carries whole percent.
func wconf(c float64) int {
	return int(math.Round(c * 100))
}
