package mapping

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dshills/redline/internal/engine/document"
)

// ErrInvalidated is returned when a position or anchor cannot be carried
// forward because a later mutation rewrote the text it pointed into, or
// because the rule history needed to replay it has been evicted.
var ErrInvalidated = errors.New("position invalidated")

// DefaultMaxRules bounds the rule history. With one rule per mutation
// this covers thousands of edits before eviction starts.
const DefaultMaxRules = 8192

type ruleKind uint8

const (
	ruleEdit ruleKind = iota
	ruleMove
	ruleInvalidate
)

// rule is one translation step. Fields are interpreted per kind:
//
//	edit:        offsets in block at or past end shift by delta;
//	             offsets inside [start, end) are invalidated.
//	move:        offsets in block at or past start relocate to toBlock
//	             at toOffset plus their distance from start.
//	invalidate:  offsets in block inside [start, end) are invalidated.
type rule struct {
	rev      document.Revision
	kind     ruleKind
	block    document.BlockID
	start    int
	end      int
	delta    int
	toBlock  document.BlockID
	toOffset int
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithMaxRules bounds the retained rule history.
func WithMaxRules(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.maxRules = n
		}
	}
}

// Mapper records translation rules for every document mutation and
// replays them to carry positions from an older revision to the
// current one. Safe for concurrent use.
type Mapper struct {
	mu       sync.RWMutex
	rules    []rule
	maxRules int

	// floorRev is the highest revision among evicted rules. Queries
	// anchored below it cannot be replayed faithfully.
	floorRev document.Revision
}

// NewMapper creates an empty mapper.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{maxRules: DefaultMaxRules}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RecordEdit derives translation rules from an applied edit.
//
// A plain splice yields one edit rule. Splits and merges additionally
// yield move rules for the relocated text, and a block removed without
// its text moving anywhere yields an invalidate rule covering it.
func (m *Mapper) RecordEdit(res document.EditResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := make(map[document.BlockID]bool, len(res.Removed))
	for _, id := range res.Removed {
		removed[id] = true
	}

	// The target block's own splice, unless the whole block was retired.
	if !removed[res.Block] {
		m.appendLocked(rule{
			rev:   res.Revision,
			kind:  ruleEdit,
			block: res.Block,
			start: res.OldRange.Start,
			end:   res.OldRange.End,
			delta: len(res.NewText) - res.OldRange.Len(),
		})
	}

	for _, mv := range res.Moves {
		m.appendLocked(rule{
			rev:      res.Revision,
			kind:     ruleMove,
			block:    mv.From,
			start:    mv.Start,
			toBlock:  mv.To,
			toOffset: mv.ToOffset,
		})
		delete(removed, mv.From)
	}

	for _, id := range res.Removed {
		if removed[id] {
			m.appendLocked(rule{
				rev:   res.Revision,
				kind:  ruleInvalidate,
				block: id,
				start: 0,
				end:   math.MaxInt,
			})
		}
	}
}

// RecordMutation appends a single edit rule directly: text in block at
// [r.Start, r.End) was replaced, shifting trailing offsets by delta.
// Most callers use RecordEdit; this is the hook for mutations that
// bypass the document's edit path.
func (m *Mapper) RecordMutation(rev document.Revision, block document.BlockID, r document.Range, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLocked(rule{
		rev:   rev,
		kind:  ruleEdit,
		block: block,
		start: r.Start,
		end:   r.End,
		delta: delta,
	})
}

func (m *Mapper) appendLocked(r rule) {
	m.rules = append(m.rules, r)
	for len(m.rules) > m.maxRules {
		if rev := m.rules[0].rev; rev > m.floorRev {
			m.floorRev = rev
		}
		m.rules = m.rules[1:]
	}
}

// RuleCount returns the number of retained rules.
func (m *Mapper) RuleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

// Translate carries a position valid at revision at forward to the
// current revision. It returns ErrInvalidated when a later mutation
// rewrote the text the position pointed into.
func (m *Mapper) Translate(p document.Position, at document.Revision) (document.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if at < m.floorRev {
		return document.Position{}, fmt.Errorf("%w: history evicted past revision %d", ErrInvalidated, m.floorRev)
	}

	for _, r := range m.rules {
		if r.rev <= at || r.block != p.Block {
			continue
		}
		switch r.kind {
		case ruleEdit:
			switch {
			case p.Offset >= r.end:
				p.Offset += r.delta
			case p.Offset >= r.start:
				return document.Position{}, fmt.Errorf("%w: offset %d rewritten at revision %d", ErrInvalidated, p.Offset, r.rev)
			}
		case ruleMove:
			if p.Offset >= r.start {
				p = document.Position{Block: r.toBlock, Offset: r.toOffset + p.Offset - r.start}
			}
		case ruleInvalidate:
			if p.Offset >= r.start && p.Offset < r.end {
				return document.Position{}, fmt.Errorf("%w: block %d retired at revision %d", ErrInvalidated, p.Block, r.rev)
			}
		}
	}
	return p, nil
}

// TranslateRange carries an anchor valid at revision at forward to the
// current revision.
//
// An anchor survives mutations strictly before or after it, and moves
// whole into the destination block when the text containing it is
// relocated by a split or merge. Any mutation intersecting the anchor,
// including an insertion strictly inside it, invalidates it.
func (m *Mapper) TranslateRange(a document.Anchor, at document.Revision) (document.Anchor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if at < m.floorRev {
		return document.Anchor{}, fmt.Errorf("%w: history evicted past revision %d", ErrInvalidated, m.floorRev)
	}

	for _, r := range m.rules {
		if r.rev <= at || r.block != a.Block {
			continue
		}
		switch r.kind {
		case ruleEdit:
			switch {
			case r.end <= a.Range.Start:
				a.Range = a.Range.Shift(r.delta)
			case r.start >= a.Range.End:
				// Fully after the anchor; an insertion at the anchor's
				// exclusive end stays outside it.
			default:
				return document.Anchor{}, fmt.Errorf("%w: anchor %s rewritten at revision %d", ErrInvalidated, a, r.rev)
			}
		case ruleMove:
			switch {
			case a.Range.Start >= r.start:
				a = document.Anchor{
					Block: r.toBlock,
					Range: a.Range.Shift(r.toOffset - r.start),
				}
			case a.Range.End <= r.start:
				// Anchor stays in the source block.
			default:
				return document.Anchor{}, fmt.Errorf("%w: anchor %s split at revision %d", ErrInvalidated, a, r.rev)
			}
		case ruleInvalidate:
			inside := a.Range.Start >= r.start && a.Range.Start < r.end
			if a.Range.Overlaps(document.NewRange(r.start, r.end)) || (a.Range.IsEmpty() && inside) {
				return document.Anchor{}, fmt.Errorf("%w: block %d retired at revision %d", ErrInvalidated, a.Block, r.rev)
			}
		}
	}
	return a, nil
}
