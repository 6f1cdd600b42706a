package hocr

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Parse reads an hOCR document. Unknown elements are descended into, so
// wrapper markup around the class hierarchy is tolerated; elements
// without a usable bbox keep zero bounds.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse hocr: %w", err)
	}
	doc := &Document{}
	collectPages(root, doc)
	return doc, nil
}

func collectPages(n *html.Node, doc *Document) {
	if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
		doc.Pages = append(doc.Pages, parsePage(n))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectPages(c, doc)
	}
}

func parsePage(n *html.Node) Page {
	title := attr(n, "title")
	pg := Page{
		ID:     attr(n, "id"),
		Image:  imageName(title),
		Bounds: parseBBox(title),
	}
	collectBlocks(n, &pg)
	return pg
}

func collectBlocks(n *html.Node, pg *Page) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, "ocr_carea") {
			pg.Blocks = append(pg.Blocks, parseBlock(c))
			continue
		}
		collectBlocks(c, pg)
	}
}

func parseBlock(n *html.Node) Block {
	b := Block{Bounds: parseBBox(attr(n, "title"))}
	collectParagraphs(n, &b)
	return b
}

func collectParagraphs(n *html.Node, b *Block) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, "ocr_par") {
			b.Paragraphs = append(b.Paragraphs, parseParagraph(c))
			continue
		}
		collectParagraphs(c, b)
	}
}

func parseParagraph(n *html.Node) Paragraph {
	p := Paragraph{Bounds: parseBBox(attr(n, "title"))}
	collectLines(n, &p)
	return p
}

func collectLines(n *html.Node, p *Paragraph) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, "ocr_line") {
			p.Lines = append(p.Lines, parseLine(c))
			continue
		}
		collectLines(c, p)
	}
}

func parseLine(n *html.Node) Line {
	l := Line{Bounds: parseBBox(attr(n, "title"))}
	collectWords(n, &l)
	return l
}

func collectWords(n *html.Node, l *Line) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, "ocrx_word") {
			title := attr(c, "title")
			l.Words = append(l.Words, Word{
				Text:       extractText(c),
				Bounds:     parseBBox(title),
				Confidence: parseWConf(title),
			})
			continue
		}
		collectWords(c, l)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.TrimSpace(sb.String())
}

// titleProp extracts one property from an hOCR title attribute, e.g.
// "bbox 0 0 10 20; x_wconf 96".
func titleProp(title, key string) (string, bool) {
	for _, part := range strings.Split(title, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, key+" ") {
			return strings.TrimSpace(strings.TrimPrefix(part, key+" ")), true
		}
	}
	return "", false
}

func parseBBox(title string) image.Rectangle {
	v, ok := titleProp(title, "bbox")
	if !ok {
		return image.Rectangle{}
	}
	f := strings.Fields(v)
	if len(f) != 4 {
		return image.Rectangle{}
	}
	var n [4]int
	for i, s := range f {
		x, err := strconv.Atoi(s)
		if err != nil {
			return image.Rectangle{}
		}
		n[i] = x
	}
	return image.Rect(n[0], n[1], n[2], n[3])
}

func parseWConf(title string) float64 {
	v, ok := titleProp(title, "x_wconf")
	if !ok {
		return 0
	}
	p, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return p / 100
}

func imageName(title string) string {
	v, ok := titleProp(title, "image")
	if !ok {
		return ""
	}
	return strings.Trim(v, `"`)
}
