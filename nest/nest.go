// Package nest reassembles nested document structure from the flat,
// boundary-annotated leaf stream an OCR page iterator exposes.
//
// A Cursor yields base-level leaves (typically words) one at a time
// and answers, for every coarser level, whether the current leaf opens
// or closes a group there. Assemble drives the cursor exactly once and
// folds each completed group through a caller-supplied boxer, so the
// same pass can produce word slices, line boxes, or a full
// block/paragraph/line/word tree depending on the declared Levels.
package nest

import "fmt"

// Assemble drives cur through one forward pass and folds every leaf
// into the declared hierarchy. The returned slice holds the coarsest
// level's nodes in stream order; an empty stream yields no nodes and
// invokes no boxer.
//
// Each leaf is handled in three phases. Accumulators of tiers whose
// group begins at this leaf are reset first (coarsest to finest), then
// the leaf itself is boxed into the base accumulator, then tiers whose
// group ends here are flushed finest to coarsest, so a parent never
// folds before the node for its last child exists.
func Assemble(cur Cursor, lv *Levels) ([]interface{}, error) {
	if lv == nil {
		return nil, ErrNoLevels
	}
	if cur.Empty() {
		return nil, nil
	}

	order := lv.order
	base := len(order) - 1
	acc := make([][]interface{}, len(order))

	for pos := 0; ; pos++ {
		// Whatever a child accumulator still holds when a new group
		// opens belongs to groups that already flushed.
		for i := 0; i < base; i++ {
			start, err := cur.AtStartOf(order[i])
			if err != nil {
				return nil, fmt.Errorf("leaf %d: %w", pos, err)
			}
			if start {
				acc[i+1] = nil
			}
		}

		c, err := cur.Content(lv.base)
		if err != nil {
			return nil, fmt.Errorf("leaf %d: %w", pos, err)
		}
		acc[base] = append(acc[base], lv.leaf(c))

		// Folding cascades from the finest tier: a group closes only at
		// a leaf where every finer group also closes. Page iterators
		// mark "in the final line of the block" on every word of that
		// line; the cascade folds the block once, at its true last
		// leaf.
		for i := base - 1; i >= 0; i-- {
			end, err := cur.AtEndOf(order[i], order[i+1])
			if err != nil {
				return nil, fmt.Errorf("leaf %d: %w", pos, err)
			}
			if !end {
				break
			}
			gc, err := cur.Content(order[i])
			if err != nil {
				return nil, fmt.Errorf("leaf %d: %w", pos, err)
			}
			acc[i] = append(acc[i], lv.group[order[i]](acc[i+1], gc))
		}

		if !cur.Next() {
			break
		}
	}

	return acc[0], nil
}
