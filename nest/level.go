package nest

import (
	"errors"
	"fmt"
)

// Validation and lookup failures. Callers branch on these with errors.Is;
// wrapped forms carry the offending level name.
var (
	ErrNoLevels       = errors.New("no levels declared")
	ErrDuplicateLevel = errors.New("duplicate level")
	ErrUnknownLevel   = errors.New("unknown level")
)

// Level names one granularity tier of a document hierarchy, such as a
// block or a word. The package treats level names as opaque; callers
// declare the tiers they care about and supply a boxer for each.
type Level string

// LeafBoxer builds the node for a single leaf at the finest declared
// level.
type LeafBoxer func(c Content) interface{}

// GroupBoxer folds the child nodes of one completed group, together
// with the group's own content, into a single node. The children slice
// is not reused after the call; boxers may retain it.
type GroupBoxer func(children []interface{}, c Content) interface{}

// Grouping declares one non-base tier and the boxer that folds its
// groups.
type Grouping struct {
	Level Level
	Boxer GroupBoxer
}

// Levels is a validated hierarchy declaration: zero or more grouping
// tiers ordered coarsest first, then a base tier whose leaves seed the
// assembly. Construct with NewLevels.
type Levels struct {
	order []Level
	group map[Level]GroupBoxer
	base  Level
	leaf  LeafBoxer
}

// NewLevels validates a hierarchy declaration. groups run coarsest to
// finest and may be empty; base is the finest tier, the one the cursor
// advances over. Every declared tier needs a boxer and a distinct name.
func NewLevels(groups []Grouping, base Level, leaf LeafBoxer) (*Levels, error) {
	if base == "" || leaf == nil {
		return nil, fmt.Errorf("%w: base level and leaf boxer required", ErrNoLevels)
	}
	lv := &Levels{
		order: make([]Level, 0, len(groups)+1),
		group: make(map[Level]GroupBoxer, len(groups)),
		base:  base,
		leaf:  leaf,
	}
	for _, g := range groups {
		if g.Level == "" || g.Boxer == nil {
			return nil, fmt.Errorf("%w: grouping needs a level name and a boxer", ErrNoLevels)
		}
		if _, ok := lv.group[g.Level]; ok || g.Level == base {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLevel, g.Level)
		}
		lv.group[g.Level] = g.Boxer
		lv.order = append(lv.order, g.Level)
	}
	lv.order = append(lv.order, base)
	return lv, nil
}

// List returns the declared levels, coarsest first, base last.
func (lv *Levels) List() []Level {
	out := make([]Level, len(lv.order))
	copy(out, lv.order)
	return out
}

// Len reports the number of declared levels.
func (lv *Levels) Len() int { return len(lv.order) }

// Base returns the finest declared level.
func (lv *Levels) Base() Level { return lv.base }

// Boxer returns the grouping boxer for a non-base level.
func (lv *Levels) Boxer(level Level) (GroupBoxer, error) {
	b, ok := lv.group[level]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	return b, nil
}

// Child returns the next finer declared level.
func (lv *Levels) Child(level Level) (Level, error) {
	for i, l := range lv.order {
		if l != level {
			continue
		}
		if i == len(lv.order)-1 {
			return "", fmt.Errorf("%w: %q has no finer level", ErrUnknownLevel, level)
		}
		return lv.order[i+1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}
