// Package hocr reads and writes the hOCR microformat, the HTML-based
// interchange form for OCR output. The element classes mirror the
// grouping hierarchy (ocr_carea for blocks, ocr_par for paragraphs,
// ocr_line for lines, ocrx_word for words), so a parsed document
// converts losslessly into the word stream the assembly pass consumes.
package hocr

import (
	"image"

	"github.com/mathiasimmer/pyocr/ocr"
)

// Document is a parsed hOCR file.
type Document struct {
	Pages []Page
}

// Page is one ocr_page element.
type Page struct {
	ID     string
	Image  string
	Bounds image.Rectangle
	Blocks []Block
}

// Block is one ocr_carea element.
type Block struct {
	Bounds     image.Rectangle
	Paragraphs []Paragraph
}

// Paragraph is one ocr_par element.
type Paragraph struct {
	Bounds image.Rectangle
	Lines  []Line
}

// Line is one ocr_line element.
type Line struct {
	Bounds image.Rectangle
	Words  []Word
}

// Word is one ocrx_word element. Confidence is the x_wconf value
// scaled to [0, 1].
type Word struct {
	Text       string
	Bounds     image.Rectangle
	Confidence float64
}

// WordBoxes flattens the document back into an ordinal-annotated word
// stream in reading order, ready for a word cursor. Blocks are numbered
// continuously across pages so streams never merge at page seams.
func (d *Document) WordBoxes() []ocr.WordBox {
	var out []ocr.WordBox
	blockN := 0
	for _, pg := range d.Pages {
		for _, b := range pg.Blocks {
			for pi, p := range b.Paragraphs {
				for li, l := range p.Lines {
					for wi, w := range l.Words {
						out = append(out, ocr.WordBox{
							Text:       w.Text,
							Confidence: w.Confidence,
							Box:        w.Bounds,
							Block:      blockN,
							Paragraph:  pi,
							Line:       li,
							Word:       wi,
						})
					}
				}
			}
			blockN++
		}
	}
	return out
}
