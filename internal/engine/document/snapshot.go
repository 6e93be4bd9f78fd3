package document

import "strings"

// snapshotBlock is the immutable per-block state captured by a snapshot.
type snapshotBlock struct {
	id    BlockID
	kind  BlockKind
	level int
	text  string
}

// BlockSpan locates one block's text within the flat document text.
// The span covers the block's text plus its trailing separator byte;
// the final block has no separator. Spans partition the flat text.
type BlockSpan struct {
	Block BlockID
	Kind  BlockKind

	// Start and End are flat offsets into Snapshot.Text().
	Start int
	End   int

	// TextLen is the block's text length, excluding the separator.
	TextLen int
}

// HasSeparator returns true if the span ends with a block separator.
func (bs BlockSpan) HasSeparator() bool {
	return bs.End-bs.Start > bs.TextLen
}

// Snapshot is an immutable view of a document at one revision.
// Safe for concurrent use without locking.
type Snapshot struct {
	blocks []snapshotBlock
	rev    Revision
}

// Revision returns the revision the snapshot was taken at.
func (s *Snapshot) Revision() Revision {
	return s.rev
}

// BlockCount returns the number of blocks in the snapshot.
func (s *Snapshot) BlockCount() int {
	return len(s.blocks)
}

// Text returns the flat text: block texts joined by LF.
func (s *Snapshot) Text() string {
	var sb strings.Builder
	for i, b := range s.blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.text)
	}
	return sb.String()
}

// BlockText returns the text of the block at the given document order
// index.
func (s *Snapshot) BlockText(i int) string {
	return s.blocks[i].text
}

// BlockID returns the ID of the block at the given order index.
func (s *Snapshot) BlockID(i int) BlockID {
	return s.blocks[i].id
}

// OrderOf returns the order index of a block, or -1 if absent.
func (s *Snapshot) OrderOf(id BlockID) int {
	for i, b := range s.blocks {
		if b.id == id {
			return i
		}
	}
	return -1
}

// BlockSpans returns the flat spans of all blocks in document order.
// Every span except the last includes one trailing separator byte, so
// the spans exactly partition Text().
func (s *Snapshot) BlockSpans() []BlockSpan {
	spans := make([]BlockSpan, len(s.blocks))
	pos := 0
	for i, b := range s.blocks {
		end := pos + len(b.text)
		if i < len(s.blocks)-1 {
			end++ // trailing LF separator
		}
		spans[i] = BlockSpan{
			Block:   b.id,
			Kind:    b.kind,
			Start:   pos,
			End:     end,
			TextLen: len(b.text),
		}
		pos = end
	}
	return spans
}
