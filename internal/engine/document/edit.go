package document

import "fmt"

// Edit is a block-relative text edit: replace Range of the block's text
// with NewText. An edit whose range ends one byte past the block's text
// consumes the block separator and merges the following block.
type Edit struct {
	Block   BlockID
	Range   Range
	NewText string
}

// NewInsert creates an Edit inserting text at a block offset.
func NewInsert(block BlockID, offset int, text string) Edit {
	return Edit{Block: block, Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit deleting a block-relative range.
func NewDelete(block BlockID, r Range) Edit {
	return Edit{Block: block, Range: r}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(b%d:%d, %q)", e.Block, e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete(b%d%s)", e.Block, e.Range)
	}
	return fmt.Sprintf("Replace(b%d%s, %q)", e.Block, e.Range, e.NewText)
}

// IsNoOp returns true if the edit changes nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Move describes a region of text that was relocated to another block by
// a structural mutation (block split or merge). Offsets at or after
// Start in block From now live in block To, starting at ToOffset.
type Move struct {
	From     BlockID
	Start    int
	To       BlockID
	ToOffset int
}

// EditResult describes an applied edit in enough detail for the position
// mapper to derive translation rules.
type EditResult struct {
	// Block is the block the edit targeted.
	Block BlockID

	// OldRange is the replaced in-block range (separator excluded).
	OldRange Range

	// NewRange is the range of the replacement's first segment in Block.
	NewRange Range

	// OldText is the text that was replaced, including the separator
	// when the edit consumed one.
	OldText string

	// NewText is the replacement text as given.
	NewText string

	// Revision is the document revision after the edit.
	Revision Revision

	// Created lists blocks created by newline insertion, in order.
	Created []BlockID

	// Removed lists blocks retired by separator deletion.
	Removed []BlockID

	// Moves lists text relocations caused by splits and merges,
	// in application order.
	Moves []Move
}

// Delta returns the net byte change of the edit against the flat text.
func (er EditResult) Delta() int {
	return len(er.NewText) - len(er.OldText)
}
