package document

import (
	"errors"
	"strings"
	"sync"
)

// Errors returned by document operations.
var (
	ErrBlockNotFound = errors.New("block not found")
	ErrRangeInvalid  = errors.New("invalid range")
)

// Document is an ordered sequence of blocks stored in an index-addressed
// arena. Blocks are addressed by stable BlockID values (arena indices);
// removing a block retires its slot without disturbing other IDs.
// All methods are thread-safe.
type Document struct {
	mu    sync.RWMutex
	arena []Block
	order []BlockID
	rev   Revision
}

// New creates an empty document at revision zero.
func New() *Document {
	return &Document{}
}

// FromText creates a document from plain text, one paragraph block per
// line. Line endings are normalized to LF before splitting.
func FromText(text string) *Document {
	d := New()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, line := range strings.Split(text, "\n") {
		d.appendBlockLocked(BlockParagraph, 0, []Run{{Text: line}})
	}
	return d
}

// appendBlockLocked adds a block to the arena and order list.
// Callers own the lock (or exclusive access during construction).
func (d *Document) appendBlockLocked(kind BlockKind, level int, runs []Run) BlockID {
	id := BlockID(len(d.arena))
	d.arena = append(d.arena, Block{id: id, kind: kind, level: level, runs: runs})
	d.order = append(d.order, id)
	return id
}

// AppendBlock appends a block to the end of the document.
func (d *Document) AppendBlock(kind BlockKind, level int, runs []Run) BlockID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.appendBlockLocked(kind, level, runs)
	d.rev++
	return id
}

// Revision returns the current document revision.
func (d *Document) Revision() Revision {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rev
}

// BlockCount returns the number of live blocks.
func (d *Document) BlockCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Block returns the block with the given ID.
func (d *Document) Block(id BlockID) (*Block, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.blockLocked(id)
}

func (d *Document) blockLocked(id BlockID) (*Block, error) {
	if id < 0 || int(id) >= len(d.arena) || d.arena[id].dead {
		return nil, ErrBlockNotFound
	}
	return &d.arena[id], nil
}

// BlockText returns the text of a block.
func (d *Document) BlockText(id BlockID) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, err := d.blockLocked(id)
	if err != nil {
		return "", err
	}
	return b.Text(), nil
}

// OrderOf returns the position of a block in document order,
// or -1 if the block is not live.
func (d *Document) OrderOf(id BlockID) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.orderOfLocked(id)
}

func (d *Document) orderOfLocked(id BlockID) int {
	for i, bid := range d.order {
		if bid == id {
			return i
		}
	}
	return -1
}

// Text returns the full document text: block texts joined by LF.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.textLocked()
}

func (d *Document) textLocked() string {
	var sb strings.Builder
	for i, id := range d.order {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.arena[id].Text())
	}
	return sb.String()
}

// ApplyEdit applies a block-relative edit and advances the revision.
//
// The edit's range may extend one byte past the block's text; that byte
// is the block separator, and consuming it merges the following block
// into this one. Newlines in the replacement text split the block, with
// the first segment keeping the target block's identity.
func (d *Document) ApplyEdit(e Edit) (EditResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.blockLocked(e.Block)
	if err != nil {
		return EditResult{}, err
	}

	bl := b.Len()
	pos := d.orderOfLocked(e.Block)
	consumesSep := e.Range.End > bl

	if !e.Range.IsValid() || e.Range.Start > bl || e.Range.End > bl+1 {
		return EditResult{}, ErrRangeInvalid
	}
	if consumesSep && pos == len(d.order)-1 {
		// No separator after the final block.
		return EditResult{}, ErrRangeInvalid
	}

	inEnd := e.Range.End
	if inEnd > bl {
		inEnd = bl
	}

	oldText := b.TextRange(Range{Start: e.Range.Start, End: inEnd})
	if consumesSep {
		oldText += "\n"
	}

	d.rev++
	result := EditResult{
		Block:    e.Block,
		OldRange: Range{Start: e.Range.Start, End: inEnd},
		OldText:  oldText,
		NewText:  e.NewText,
		Revision: d.rev,
	}

	// Splice the full replacement in, then split at embedded newlines.
	b.spliceRuns(e.Range.Start, inEnd, e.NewText)

	segs := strings.Split(e.NewText, "\n")
	result.NewRange = Range{Start: e.Range.Start, End: e.Range.Start + len(segs[0])}

	last := e.Block
	if len(segs) > 1 {
		last = d.splitBlockLocked(e.Block, pos, e.Range.Start, segs, &result)
		pos += len(segs) - 1
	}

	if consumesSep {
		d.mergeNextLocked(last, pos, &result)
	}

	return result, nil
}

// splitBlockLocked splits block id at the newlines embedded by a splice.
// spliceStart is the offset where the replacement text begins; segs are
// the newline-separated segments of the replacement. Returns the last
// block of the split.
func (d *Document) splitBlockLocked(id BlockID, pos, spliceStart int, segs []string, result *EditResult) BlockID {
	cur := id
	curPos := pos
	cut := spliceStart + len(segs[0])

	for i := 1; i < len(segs); i++ {
		b := &d.arena[cur]
		head, tail := splitRunsAt(b.runs, cut)
		// Drop the newline that starts the tail.
		tail = trimLeadingNewline(tail)
		b.runs = head

		nid := BlockID(len(d.arena))
		d.arena = append(d.arena, Block{id: nid, kind: b.kind, level: b.level, runs: tail})
		d.order = append(d.order[:curPos+1], append([]BlockID{nid}, d.order[curPos+1:]...)...)

		result.Created = append(result.Created, nid)
		// Text past the newline at cut now lives in nid. The newline
		// itself is consumed by the split, hence cut+1.
		result.Moves = append(result.Moves, Move{From: cur, Start: cut + 1, To: nid, ToOffset: 0})

		cur = nid
		curPos++
		cut = len(segs[i])
	}
	return cur
}

// mergeNextLocked merges the block after pos into block id.
func (d *Document) mergeNextLocked(id BlockID, pos int, result *EditResult) {
	next := d.order[pos+1]
	target := &d.arena[id]
	nb := &d.arena[next]

	at := target.Len()
	for _, r := range nb.runs {
		target.runs = appendRun(target.runs, r)
	}
	nb.dead = true
	nb.runs = nil
	d.order = append(d.order[:pos+1], d.order[pos+2:]...)

	result.Removed = append(result.Removed, next)
	result.Moves = append(result.Moves, Move{From: next, Start: 0, To: id, ToOffset: at})
}

// RemoveBlock retires a block and its separator from the document.
func (d *Document) RemoveBlock(id BlockID) (EditResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.blockLocked(id)
	if err != nil {
		return EditResult{}, err
	}
	pos := d.orderOfLocked(id)

	d.rev++
	result := EditResult{
		Block:    id,
		OldRange: Range{Start: 0, End: b.Len()},
		OldText:  b.Text(),
		Revision: d.rev,
		Removed:  []BlockID{id},
	}

	b.dead = true
	b.runs = nil
	d.order = append(d.order[:pos], d.order[pos+1:]...)
	return result, nil
}

// Snapshot returns an immutable copy of the current document state.
func (d *Document) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	blocks := make([]snapshotBlock, len(d.order))
	for i, id := range d.order {
		b := &d.arena[id]
		blocks[i] = snapshotBlock{
			id:    id,
			kind:  b.kind,
			level: b.level,
			text:  b.Text(),
		}
	}
	return &Snapshot{blocks: blocks, rev: d.rev}
}

// splitRunsAt splits runs at a byte offset into head and tail slices.
func splitRunsAt(runs []Run, at int) ([]Run, []Run) {
	var head, tail []Run
	pos := 0
	for _, r := range runs {
		end := pos + len(r.Text)
		switch {
		case end <= at:
			head = appendRun(head, r)
		case pos >= at:
			tail = appendRun(tail, r)
		default:
			head = appendRun(head, Run{Text: r.Text[:at-pos], Format: r.Format})
			tail = appendRun(tail, Run{Text: r.Text[at-pos:], Format: r.Format})
		}
		pos = end
	}
	return head, tail
}

// trimLeadingNewline drops a single leading LF from the run sequence.
func trimLeadingNewline(runs []Run) []Run {
	if len(runs) == 0 || len(runs[0].Text) == 0 || runs[0].Text[0] != '\n' {
		return runs
	}
	if len(runs[0].Text) == 1 {
		return runs[1:]
	}
	out := make([]Run, len(runs))
	copy(out, runs)
	out[0].Text = out[0].Text[1:]
	return out
}
