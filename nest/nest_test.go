package nest

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
)

// scriptLeaf is one leaf of a scripted stream: its content plus the
// levels whose groups begin or end at it.
type scriptLeaf struct {
	text   string
	conf   float64
	box    image.Rectangle
	starts []Level
	ends   []Level
}

// scriptCursor plays back a fixed leaf script and counts how it is
// driven, so tests can check the pass discipline as well as the output.
type scriptCursor struct {
	base   Level
	known  map[Level]bool
	leaves []scriptLeaf

	pos       int
	done      bool
	nextCalls int
	lateCalls int
}

func newScriptCursor(base Level, groups []Level, leaves []scriptLeaf) *scriptCursor {
	known := map[Level]bool{base: true}
	for _, g := range groups {
		known[g] = true
	}
	return &scriptCursor{base: base, known: known, leaves: leaves}
}

func (s *scriptCursor) check(level Level) error {
	if !s.known[level] {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	return nil
}

func (s *scriptCursor) Empty() bool { return len(s.leaves) == 0 }

func (s *scriptCursor) Content(level Level) (Content, error) {
	if s.done {
		s.lateCalls++
	}
	if err := s.check(level); err != nil {
		return Content{}, err
	}
	l := s.leaves[s.pos]
	if level == s.base {
		return Content{Text: l.text, Confidence: l.conf, Box: l.box}, nil
	}
	return Content{Text: string(level) + ":" + l.text, Confidence: 0.9}, nil
}

func (s *scriptCursor) AtStartOf(level Level) (bool, error) {
	if s.done {
		s.lateCalls++
	}
	if err := s.check(level); err != nil {
		return false, err
	}
	return hasLevel(s.leaves[s.pos].starts, level), nil
}

func (s *scriptCursor) AtEndOf(level, child Level) (bool, error) {
	if s.done {
		s.lateCalls++
	}
	if err := s.check(level); err != nil {
		return false, err
	}
	if err := s.check(child); err != nil {
		return false, err
	}
	return hasLevel(s.leaves[s.pos].ends, level), nil
}

func (s *scriptCursor) Next() bool {
	s.nextCalls++
	if s.pos+1 >= len(s.leaves) {
		s.done = true
		return false
	}
	s.pos++
	return true
}

func hasLevel(ls []Level, l Level) bool {
	for _, x := range ls {
		if x == l {
			return true
		}
	}
	return false
}

type groupNode struct {
	level    Level
	content  Content
	children []interface{}
}

func leafText(c Content) interface{} { return c.Text }

func groupOf(level Level) GroupBoxer {
	return func(children []interface{}, c Content) interface{} {
		return groupNode{level: level, content: c, children: children}
	}
}

func childTexts(t *testing.T, n interface{}) []string {
	t.Helper()
	g, ok := n.(groupNode)
	if !ok {
		t.Fatalf("node is %T, want groupNode", n)
	}
	out := make([]string, len(g.children))
	for i, c := range g.children {
		s, ok := c.(string)
		if !ok {
			t.Fatalf("child %d is %T, want string", i, c)
		}
		out[i] = s
	}
	return out
}

func TestAssembleGroupsWordsIntoLines(t *testing.T) {
	leaves := []scriptLeaf{
		{text: "the", starts: []Level{"line"}},
		{text: "quick"},
		{text: "brown", ends: []Level{"line"}},
		{text: "fox", starts: []Level{"line"}},
		{text: "jumps"},
		{text: "over", ends: []Level{"line"}},
	}
	cur := newScriptCursor("word", []Level{"line"}, leaves)
	lv, err := NewLevels([]Grouping{{Level: "line", Boxer: groupOf("line")}}, "word", leafText)
	if err != nil {
		t.Fatalf("NewLevels() error = %v", err)
	}

	got, err := Assemble(cur, lv)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if words := childTexts(t, got[0]); strings.Join(words, " ") != "the quick brown" {
		t.Errorf("first line = %q", words)
	}
	if words := childTexts(t, got[1]); strings.Join(words, " ") != "fox jumps over" {
		t.Errorf("second line = %q", words)
	}
	if cur.nextCalls != len(leaves) {
		t.Errorf("Next called %d times, want %d", cur.nextCalls, len(leaves))
	}
	if cur.lateCalls != 0 {
		t.Errorf("%d queries after exhaustion", cur.lateCalls)
	}
}

// Page iterators report "in the final line of the block" on every word
// of that line. The leaf "c" below carries such a premature block end
// mark; the block must still fold exactly once, with both lines inside.
func TestAssembleDeepHierarchy(t *testing.T) {
	leaves := []scriptLeaf{
		{text: "a", starts: []Level{"block", "line"}},
		{text: "b", ends: []Level{"line"}},
		{text: "c", starts: []Level{"line"}, ends: []Level{"block"}},
		{text: "d", ends: []Level{"line", "block"}},
		{text: "e", starts: []Level{"block", "line"}, ends: []Level{"line", "block"}},
	}
	cur := newScriptCursor("word", []Level{"block", "line"}, leaves)
	lv, err := NewLevels([]Grouping{
		{Level: "block", Boxer: groupOf("block")},
		{Level: "line", Boxer: groupOf("line")},
	}, "word", leafText)
	if err != nil {
		t.Fatalf("NewLevels() error = %v", err)
	}

	got, err := Assemble(cur, lv)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d blocks, want 2", len(got))
	}

	first := got[0].(groupNode)
	if len(first.children) != 2 {
		t.Fatalf("first block has %d lines, want 2", len(first.children))
	}
	if words := childTexts(t, first.children[0]); strings.Join(words, " ") != "a b" {
		t.Errorf("line 1 = %q", words)
	}
	if words := childTexts(t, first.children[1]); strings.Join(words, " ") != "c d" {
		t.Errorf("line 2 = %q", words)
	}

	second := got[1].(groupNode)
	if len(second.children) != 1 {
		t.Fatalf("second block has %d lines, want 1", len(second.children))
	}
	if words := childTexts(t, second.children[0]); strings.Join(words, " ") != "e" {
		t.Errorf("line 3 = %q", words)
	}
}

// A lone leaf can open and close a line and its block at once; the word
// must survive both the reset and the two folds.
func TestAssembleLeafClosingEveryTier(t *testing.T) {
	leaves := []scriptLeaf{
		{text: "only", starts: []Level{"block", "line"}, ends: []Level{"line", "block"}},
	}
	cur := newScriptCursor("word", []Level{"block", "line"}, leaves)
	lv, err := NewLevels([]Grouping{
		{Level: "block", Boxer: groupOf("block")},
		{Level: "line", Boxer: groupOf("line")},
	}, "word", leafText)
	if err != nil {
		t.Fatalf("NewLevels() error = %v", err)
	}

	got, err := Assemble(cur, lv)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d blocks, want 1", len(got))
	}
	block := got[0].(groupNode)
	if len(block.children) != 1 {
		t.Fatalf("block has %d lines, want 1", len(block.children))
	}
	if words := childTexts(t, block.children[0]); len(words) != 1 || words[0] != "only" {
		t.Errorf("line = %q, want [only]", words)
	}
}

func TestAssembleSingleLevelStream(t *testing.T) {
	leaves := []scriptLeaf{{text: "a"}, {text: "b"}, {text: "c"}}
	cur := newScriptCursor("word", nil, leaves)
	lv, err := NewLevels(nil, "word", leafText)
	if err != nil {
		t.Fatalf("NewLevels() error = %v", err)
	}

	got, err := Assemble(cur, lv)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("node %d = %v, want %q", i, got[i], w)
		}
	}
	if cur.nextCalls != len(leaves) {
		t.Errorf("Next called %d times, want %d", cur.nextCalls, len(leaves))
	}
}

func TestAssembleEmptyStream(t *testing.T) {
	cur := newScriptCursor("word", []Level{"line"}, nil)
	boxed := 0
	lv, err := NewLevels([]Grouping{{
		Level: "line",
		Boxer: func(children []interface{}, c Content) interface{} { boxed++; return nil },
	}}, "word", func(c Content) interface{} { boxed++; return nil })
	if err != nil {
		t.Fatalf("NewLevels() error = %v", err)
	}

	got, err := Assemble(cur, lv)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d nodes, want none", len(got))
	}
	if boxed != 0 {
		t.Errorf("%d boxer calls on empty stream", boxed)
	}
	if cur.nextCalls != 0 {
		t.Errorf("Next called %d times on empty stream", cur.nextCalls)
	}
}

func TestAssembleGroupContent(t *testing.T) {
	leaves := []scriptLeaf{
		{text: "hi", conf: 0.75, box: image.Rect(1, 2, 3, 4), starts: []Level{"line"}},
		{text: "there", ends: []Level{"line"}},
	}
	cur := newScriptCursor("word", []Level{"line"}, leaves)

	var leafContents []Content
	lv, err := NewLevels([]Grouping{{Level: "line", Boxer: groupOf("line")}}, "word",
		func(c Content) interface{} {
			leafContents = append(leafContents, c)
			return c.Text
		})
	if err != nil {
		t.Fatalf("NewLevels() error = %v", err)
	}

	got, err := Assemble(cur, lv)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(leafContents) != 2 {
		t.Fatalf("leaf boxer called %d times, want 2", len(leafContents))
	}
	if leafContents[0].Confidence != 0.75 || leafContents[0].Box != image.Rect(1, 2, 3, 4) {
		t.Errorf("leaf content not passed through: %+v", leafContents[0])
	}
	line := got[0].(groupNode)
	if line.content.Text != "line:there" {
		t.Errorf("group content = %q, want the cursor's line content at the fold", line.content.Text)
	}
}

func TestAssembleCursorErrorAborts(t *testing.T) {
	// The cursor only understands words, but a line tier is declared.
	leaves := []scriptLeaf{{text: "a"}, {text: "b"}}
	cur := newScriptCursor("word", nil, leaves)
	lv, err := NewLevels([]Grouping{{Level: "line", Boxer: groupOf("line")}}, "word", leafText)
	if err != nil {
		t.Fatalf("NewLevels() error = %v", err)
	}

	_, err = Assemble(cur, lv)
	if err == nil {
		t.Fatalf("Assemble() succeeded with a level the cursor does not know")
	}
	if !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("error = %v, want ErrUnknownLevel", err)
	}
	if !strings.Contains(err.Error(), "leaf 0") {
		t.Errorf("error %q does not name the failing leaf", err)
	}
}
