package align

import (
	"errors"
	"fmt"

	"github.com/dshills/redline/internal/engine/document"
	"github.com/dshills/redline/internal/engine/textdiff"
)

// ErrSpanMismatch is returned when an edit script does not cover the
// snapshot text it is being aligned against.
var ErrSpanMismatch = errors.New("diff does not match block structure")

// Op is a block-safe edit operation: a diff op tagged with the block it
// belongs to and an intra-block offset range.
//
// For deletes, Range covers the removed text and may extend one byte
// past the block's text to take the block separator with it. For
// inserts, Range is empty and marks the insertion point.
type Op struct {
	Kind  textdiff.Kind
	Block document.BlockID
	Range document.Range
	Text  string
}

// String returns a human-readable representation of the op.
func (op Op) String() string {
	return fmt.Sprintf("%s b%d%s %q", op.Kind, op.Block, op.Range, op.Text)
}

// Align maps an edit script onto block spans, producing block-safe ops.
// Only inserts and deletes are emitted, in script order; equal runs
// merely advance the cursor. The spans must partition the text the
// script's equal and delete ops cover.
func Align(ops []textdiff.Op, spans []document.BlockSpan) ([]Op, error) {
	total := 0
	for _, op := range ops {
		if op.Kind != textdiff.OpInsert {
			total += op.Len()
		}
	}
	if len(spans) == 0 {
		return nil, ErrSpanMismatch
	}
	if spans[len(spans)-1].End != total {
		return nil, fmt.Errorf("%w: script covers %d bytes, spans cover %d",
			ErrSpanMismatch, total, spans[len(spans)-1].End)
	}

	var out []Op
	pos := 0
	prevDeleteStart := -1
	for _, op := range ops {
		switch op.Kind {
		case textdiff.OpEqual:
			pos += op.Len()
			prevDeleteStart = -1
		case textdiff.OpInsert:
			// An insert directly after a delete is the insert half of a
			// replacement; anchor it where the deleted text began so the
			// two stay adjacent for consolidation.
			at := pos
			if prevDeleteStart >= 0 {
				at = prevDeleteStart
			}
			sp := spanAt(spans, at)
			out = append(out, Op{
				Kind:  textdiff.OpInsert,
				Block: sp.Block,
				Range: document.NewRange(at-sp.Start, at-sp.Start),
				Text:  op.Text,
			})
			prevDeleteStart = -1
		case textdiff.OpDelete:
			out = append(out, splitDelete(op, pos, spans)...)
			prevDeleteStart = pos
			pos += op.Len()
		}
	}

	return remerge(out), nil
}

// spanAt returns the span containing flat offset pos. An offset at the
// document's final boundary belongs to the last span; any other offset
// on a span start belongs to the following block, which is the block
// that will visually contain text inserted there.
func spanAt(spans []document.BlockSpan, pos int) document.BlockSpan {
	for _, sp := range spans {
		if pos < sp.End {
			return sp
		}
	}
	return spans[len(spans)-1]
}

// splitDelete partitions a delete op at every block boundary it
// straddles. Each piece is confined to one span; a piece that covers
// the span's separator byte keeps it, so accepting the piece merges
// the block with its successor.
func splitDelete(op textdiff.Op, pos int, spans []document.BlockSpan) []Op {
	var out []Op
	start := pos
	end := pos + op.Len()

	for _, sp := range spans {
		if sp.End <= start {
			continue
		}
		if sp.Start >= end {
			break
		}
		pieceStart := max(start, sp.Start)
		pieceEnd := min(end, sp.End)
		out = append(out, Op{
			Kind:  textdiff.OpDelete,
			Block: sp.Block,
			Range: document.NewRange(pieceStart-sp.Start, pieceEnd-sp.Start),
			Text:  op.Text[pieceStart-start : pieceEnd-start],
		})
	}
	return out
}

// remerge combines adjacent same-kind ops that landed contiguously in
// the same block. Boundary splitting can leave fragments behind when an
// upstream equal run collapsed to nothing; presenting them as one
// suggestion avoids fragmented review.
func remerge(ops []Op) []Op {
	var out []Op
	for _, op := range ops {
		n := len(out)
		if n > 0 && out[n-1].Kind == op.Kind && out[n-1].Block == op.Block {
			prev := &out[n-1]
			switch {
			case op.Kind == textdiff.OpDelete && prev.Range.End == op.Range.Start:
				prev.Range.End = op.Range.End
				prev.Text += op.Text
				continue
			case op.Kind == textdiff.OpInsert && prev.Range.Start == op.Range.Start:
				prev.Text += op.Text
				continue
			}
		}
		out = append(out, op)
	}
	return out
}
