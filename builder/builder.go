// Package builder provides the canonical output assemblies: fixed
// level hierarchies plus the boxers that fold a word stream into the
// ocr result types or into plain text. Callers with custom node types
// can take the level constructors and swap individual boxers.
package builder

import (
	"strings"

	"github.com/mathiasimmer/pyocr/nest"
	"github.com/mathiasimmer/pyocr/ocr"
)

// Document folds a word stream into the full hierarchy of blocks,
// paragraphs, lines and words.
func Document(cur nest.Cursor) ([]ocr.TextBlock, error) {
	nodes, err := nest.Assemble(cur, DocumentLevels())
	if err != nil {
		return nil, err
	}
	out := make([]ocr.TextBlock, len(nodes))
	for i, n := range nodes {
		out[i] = n.(ocr.TextBlock)
	}
	return out, nil
}

// LineBoxes folds a word stream into positioned lines.
func LineBoxes(cur nest.Cursor) ([]ocr.TextLine, error) {
	nodes, err := nest.Assemble(cur, LineBoxLevels())
	if err != nil {
		return nil, err
	}
	out := make([]ocr.TextLine, len(nodes))
	for i, n := range nodes {
		out[i] = n.(ocr.TextLine)
	}
	return out, nil
}

// WordBoxes folds a word stream into positioned words.
func WordBoxes(cur nest.Cursor) ([]ocr.TextWord, error) {
	nodes, err := nest.Assemble(cur, WordBoxLevels())
	if err != nil {
		return nil, err
	}
	out := make([]ocr.TextWord, len(nodes))
	for i, n := range nodes {
		out[i] = n.(ocr.TextWord)
	}
	return out, nil
}

// PlainText folds a word stream into text, one recognized line per
// output line.
func PlainText(cur nest.Cursor) (string, error) {
	nodes, err := nest.Assemble(cur, PlainTextLevels())
	if err != nil {
		return "", err
	}
	lines := make([]string, len(nodes))
	for i, n := range nodes {
		lines[i] = n.(string)
	}
	return strings.Join(lines, "\n"), nil
}

// DocumentLevels declares block/paragraph/line/word with the typed
// boxers Document uses.
func DocumentLevels() *nest.Levels {
	return mustLevels([]nest.Grouping{
		{Level: ocr.LevelBlock, Boxer: boxBlock},
		{Level: ocr.LevelParagraph, Boxer: boxParagraph},
		{Level: ocr.LevelLine, Boxer: boxLine},
	}, ocr.LevelWord, boxWord)
}

// LineBoxLevels declares line/word with the typed boxers LineBoxes
// uses.
func LineBoxLevels() *nest.Levels {
	return mustLevels([]nest.Grouping{
		{Level: ocr.LevelLine, Boxer: boxLine},
	}, ocr.LevelWord, boxWord)
}

// WordBoxLevels declares the single word tier WordBoxes uses.
func WordBoxLevels() *nest.Levels {
	return mustLevels(nil, ocr.LevelWord, boxWord)
}

// PlainTextLevels declares line/word with string boxers, one line text
// per node.
func PlainTextLevels() *nest.Levels {
	return mustLevels([]nest.Grouping{
		{Level: ocr.LevelLine, Boxer: func(children []interface{}, c nest.Content) interface{} {
			return c.Text
		}},
	}, ocr.LevelWord, func(c nest.Content) interface{} { return c.Text })
}

// The canonical declarations are statically valid.
func mustLevels(groups []nest.Grouping, base nest.Level, leaf nest.LeafBoxer) *nest.Levels {
	lv, err := nest.NewLevels(groups, base, leaf)
	if err != nil {
		panic(err)
	}
	return lv
}

func boxWord(c nest.Content) interface{} {
	return ocr.TextWord{
		Text:       c.Text,
		Bounds:     ocr.RegionFromRect(c.Box),
		Confidence: c.Confidence,
	}
}

func boxLine(children []interface{}, c nest.Content) interface{} {
	words := make([]ocr.TextWord, len(children))
	for i, ch := range children {
		words[i] = ch.(ocr.TextWord)
	}
	return ocr.TextLine{
		Text:       c.Text,
		Bounds:     ocr.RegionFromRect(c.Box),
		Words:      words,
		Confidence: c.Confidence,
	}
}

func boxParagraph(children []interface{}, c nest.Content) interface{} {
	lines := make([]ocr.TextLine, len(children))
	for i, ch := range children {
		lines[i] = ch.(ocr.TextLine)
	}
	return ocr.TextParagraph{
		Text:       c.Text,
		Bounds:     ocr.RegionFromRect(c.Box),
		Lines:      lines,
		Confidence: c.Confidence,
	}
}

func boxBlock(children []interface{}, c nest.Content) interface{} {
	paras := make([]ocr.TextParagraph, len(children))
	for i, ch := range children {
		paras[i] = ch.(ocr.TextParagraph)
	}
	return ocr.TextBlock{
		Text:       c.Text,
		Bounds:     ocr.RegionFromRect(c.Box),
		Paragraphs: paras,
		Confidence: c.Confidence,
	}
}
