package suggestion

import (
	"log/slog"
	"sync/atomic"

	"github.com/dshills/redline/internal/engine/align"
	"github.com/dshills/redline/internal/engine/document"
	"github.com/dshills/redline/internal/engine/textdiff"
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for consistency warnings.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// Builder converts block-aligned diff ops into suggestions.
// Safe for concurrent use; suggestion IDs are process-unique.
type Builder struct {
	logger *slog.Logger
	nextID atomic.Uint64
}

// NewBuilder creates a suggestion builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build converts aligned ops into a change set for the given group.
//
// Adjacent delete+insert pairs that target the same range consolidate
// into a single replacement, the expected change-tracking semantic.
// Overlapping spans should not occur with a single writer upstream,
// but are defensively merged into one suggestion covering the union
// range, with a consistency warning logged.
func (b *Builder) Build(ops []align.Op, groupID GroupID) *ChangeSet {
	cs := newChangeSet(groupID)

	for i := 0; i < len(ops); i++ {
		op := ops[i]
		s := &Suggestion{
			ID:      ID(b.nextID.Add(1)),
			GroupID: groupID,
			Status:  Pending,
			Anchor:  document.Anchor{Block: op.Block, Range: op.Range},
		}

		switch op.Kind {
		case textdiff.OpInsert:
			s.Kind = Insertion
			s.ProposedText = op.Text
		case textdiff.OpDelete:
			s.Kind = Deletion
			s.OriginalText = op.Text

			// Delete+insert on the same range is one replacement.
			if i+1 < len(ops) && isReplacementPair(op, ops[i+1]) {
				s.Kind = Replacement
				s.ProposedText = ops[i+1].Text
				i++
			}
		default:
			continue
		}

		b.addOrMerge(cs, s)
	}

	return cs
}

// isReplacementPair reports whether ins is the insert half of a
// replacement whose delete half is del.
func isReplacementPair(del, ins align.Op) bool {
	return ins.Kind == textdiff.OpInsert &&
		ins.Block == del.Block &&
		ins.Range.Start == del.Range.Start
}

// addOrMerge appends a suggestion, merging it into the previous one if
// their anchors overlap.
func (b *Builder) addOrMerge(cs *ChangeSet, s *Suggestion) {
	n := len(cs.suggestions)
	if n == 0 {
		cs.add(s)
		return
	}

	prev := cs.suggestions[n-1]
	if prev.Anchor.Block != s.Anchor.Block || !prev.Anchor.Range.Overlaps(s.Anchor.Range) {
		cs.add(s)
		return
	}

	// Overlap consistency warning: never fatal, the merged suggestion
	// still presents adequately for review.
	b.logger.Warn("merging overlapping suggestion spans",
		"group", string(s.GroupID),
		"prev", prev.Anchor.String(),
		"next", s.Anchor.String(),
	)

	// Trim the doubly-covered bytes so the merged original text still
	// matches the union range exactly.
	overlap := prev.Anchor.Range.End - s.Anchor.Range.Start
	original := s.OriginalText
	if overlap > 0 && overlap <= len(original) {
		original = original[overlap:]
	}

	prev.Anchor.Range = prev.Anchor.Range.Union(s.Anchor.Range)
	prev.OriginalText += original
	prev.ProposedText += s.ProposedText
	prev.Kind = mergedKind(prev)
}

// mergedKind recomputes a suggestion's kind from its texts.
func mergedKind(s *Suggestion) Kind {
	switch {
	case s.OriginalText == "":
		return Insertion
	case s.ProposedText == "":
		return Deletion
	default:
		return Replacement
	}
}
