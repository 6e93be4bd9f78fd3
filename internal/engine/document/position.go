package document

import "fmt"

// BlockID identifies a block by its arena index.
// IDs are stable for the lifetime of the document: removing a block
// retires its slot, it is never reused.
type BlockID int32

// InvalidBlock is the zero value sentinel for "no block".
const InvalidBlock BlockID = -1

// Revision identifies a document state. It starts at zero and increments
// by one on every structural mutation.
type Revision uint64

// Position is a block-relative location: a byte offset within the text of
// a single block.
type Position struct {
	Block  BlockID // Block the offset is relative to
	Offset int     // Byte offset within the block's text
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(b%d:%d)", p.Block, p.Offset)
}

// Range is a half-open byte range [Start, End) within one block.
type Range struct {
	Start int // Inclusive start offset
	End   int // Exclusive end offset
}

// NewRange creates a Range from start and end offsets.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if Start <= End and Start is non-negative.
func (r Range) IsValid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if this range overlaps another range.
// Empty ranges overlap nothing.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Touches returns true if the ranges overlap or share an endpoint.
func (r Range) Touches(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Union returns the smallest range containing both ranges.
func (r Range) Union(other Range) Range {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Range{Start: start, End: end}
}

// Intersect returns the intersection, or an empty range if disjoint.
func (r Range) Intersect(other Range) Range {
	start := r.Start
	if other.Start > start {
		start = other.Start
	}
	end := r.End
	if other.End < end {
		end = other.End
	}
	if start >= end {
		return Range{Start: start, End: start}
	}
	return Range{Start: start, End: end}
}

// Shift returns the range shifted by delta.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// Anchor is a block-relative range: the region of one block a suggestion
// refers to. Expressing anchors relative to block structure lets them
// survive block insertion and removal elsewhere in the document.
type Anchor struct {
	Block BlockID
	Range Range
}

// String returns a human-readable representation of the anchor.
func (a Anchor) String() string {
	return fmt.Sprintf("b%d%s", a.Block, a.Range)
}

// Overlaps returns true if two anchors intersect.
// Anchors in different blocks never overlap.
func (a Anchor) Overlaps(other Anchor) bool {
	return a.Block == other.Block && a.Range.Overlaps(other.Range)
}
