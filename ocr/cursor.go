package ocr

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/mathiasimmer/pyocr/nest"
)

var errNoLeaf = errors.New("no current leaf")

// WordBox is one recognized word of a flat page stream, annotated with
// the ordinals of every enclosing element. Boxes must arrive in reading
// order; the cursor derives group boundaries from runs of equal
// ordinals.
type WordBox struct {
	Text       string
	Confidence float64
	Box        image.Rectangle

	// Block, Paragraph and Line number the enclosing elements on the
	// page; Word numbers the word within its line.
	Block     int
	Paragraph int
	Line      int
	Word      int
}

// WordCursor walks a word stream and answers the boundary and content
// queries of an assembly pass at block, paragraph, line and word
// granularity. Group text, bounds and confidence are aggregated once at
// construction; confidence is the mean of the member words' recognition
// scores, never a by-product of a text accessor.
type WordCursor struct {
	words []WordBox
	tiers map[nest.Level]*tier
	pos   int
	done  bool
}

var levelRank = map[nest.Level]int{
	LevelBlock:     0,
	LevelParagraph: 1,
	LevelLine:      2,
	LevelWord:      3,
}

// NewWordCursor builds a cursor over words. The slice is copied; a
// non-empty cursor starts positioned on the first word.
func NewWordCursor(words []WordBox) *WordCursor {
	ws := append([]WordBox(nil), words...)
	return &WordCursor{
		words: ws,
		tiers: map[nest.Level]*tier{
			LevelBlock:     newTier(ws, blockKey, blockSep),
			LevelParagraph: newTier(ws, paraKey, paraSep),
			LevelLine:      newTier(ws, lineKey, lineSep),
		},
	}
}

// Empty reports whether the stream holds no words at all.
func (c *WordCursor) Empty() bool { return len(c.words) == 0 }

// Next advances to the following word, returning false once the stream
// is exhausted.
func (c *WordCursor) Next() bool {
	if c.done || c.pos+1 >= len(c.words) {
		c.done = true
		return false
	}
	c.pos++
	return true
}

// Content describes the element containing the current word at the
// given level; at LevelWord, the word itself.
func (c *WordCursor) Content(level nest.Level) (nest.Content, error) {
	i, err := c.current()
	if err != nil {
		return nest.Content{}, err
	}
	if level == LevelWord {
		w := c.words[i]
		return nest.Content{Text: w.Text, Confidence: w.Confidence, Box: w.Box}, nil
	}
	t, ok := c.tiers[level]
	if !ok {
		return nest.Content{}, fmt.Errorf("%w: %q", nest.ErrUnknownLevel, level)
	}
	return t.content[t.seg[i]], nil
}

// AtStartOf reports whether the current word opens an element at the
// given level.
func (c *WordCursor) AtStartOf(level nest.Level) (bool, error) {
	i, err := c.current()
	if err != nil {
		return false, err
	}
	if level == LevelWord {
		return true, nil
	}
	t, ok := c.tiers[level]
	if !ok {
		return false, fmt.Errorf("%w: %q", nest.ErrUnknownLevel, level)
	}
	return i == 0 || t.seg[i] != t.seg[i-1], nil
}

// AtEndOf reports whether the child element containing the current word
// is the final child element of the enclosing element at level. Like a
// page iterator, this holds for every word inside that final child, not
// only the last one.
func (c *WordCursor) AtEndOf(level, child nest.Level) (bool, error) {
	i, err := c.current()
	if err != nil {
		return false, err
	}
	lr, ok := levelRank[level]
	if !ok {
		return false, fmt.Errorf("%w: %q", nest.ErrUnknownLevel, level)
	}
	cr, ok := levelRank[child]
	if !ok {
		return false, fmt.Errorf("%w: %q", nest.ErrUnknownLevel, child)
	}
	if cr <= lr {
		return false, fmt.Errorf("%w: %q is not finer than %q", nest.ErrUnknownLevel, child, level)
	}
	t := c.tiers[level]
	e := t.end[t.seg[i]]
	if child == LevelWord {
		return i == e, nil
	}
	ct := c.tiers[child]
	return ct.seg[i] == ct.seg[e], nil
}

func (c *WordCursor) current() (int, error) {
	if c.done || len(c.words) == 0 {
		return 0, errNoLeaf
	}
	return c.pos, nil
}

// tier holds the per-word segment assignment for one level plus the
// aggregated content and last word index of each segment.
type tier struct {
	seg     []int
	end     []int
	content []nest.Content
}

func newTier(words []WordBox, key func(WordBox) [3]int, sep func(prev, cur WordBox) string) *tier {
	t := &tier{seg: make([]int, len(words))}
	n := 0
	for i, w := range words {
		if i > 0 && key(w) != key(words[i-1]) {
			n++
		}
		t.seg[i] = n
	}
	if len(words) == 0 {
		return t
	}
	t.end = make([]int, n+1)
	t.content = make([]nest.Content, n+1)
	for start := 0; start < len(words); {
		s := t.seg[start]
		end := start
		for end+1 < len(words) && t.seg[end+1] == s {
			end++
		}
		t.end[s] = end
		t.content[s] = aggregate(words[start:end+1], sep)
		start = end + 1
	}
	return t
}

func aggregate(span []WordBox, sep func(prev, cur WordBox) string) nest.Content {
	var b strings.Builder
	var box image.Rectangle
	conf := 0.0
	for i, w := range span {
		if i > 0 {
			b.WriteString(sep(span[i-1], w))
		}
		b.WriteString(w.Text)
		box = box.Union(w.Box)
		conf += w.Confidence
	}
	return nest.Content{
		Text:       b.String(),
		Confidence: conf / float64(len(span)),
		Box:        box,
	}
}

// Element identity at each level is the ordinal tuple down to that
// level, so ordinals may restart under a new parent.
func blockKey(w WordBox) [3]int { return [3]int{w.Block, 0, 0} }
func paraKey(w WordBox) [3]int  { return [3]int{w.Block, w.Paragraph, 0} }
func lineKey(w WordBox) [3]int  { return [3]int{w.Block, w.Paragraph, w.Line} }

func lineSep(prev, cur WordBox) string { return " " }

func paraSep(prev, cur WordBox) string {
	if cur.Line != prev.Line {
		return "\n"
	}
	return " "
}

func blockSep(prev, cur WordBox) string {
	if cur.Paragraph != prev.Paragraph {
		return "\n\n"
	}
	if cur.Line != prev.Line {
		return "\n"
	}
	return " "
}
