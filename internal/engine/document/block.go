package document

import "strings"

// BlockKind categorizes the structural role of a block.
type BlockKind uint8

const (
	// BlockParagraph is a plain paragraph of text.
	BlockParagraph BlockKind = iota

	// BlockHeading is a heading; Level distinguishes depth.
	BlockHeading

	// BlockListItem is a single list item.
	BlockListItem
)

// String returns a human-readable representation of the block kind.
func (bk BlockKind) String() string {
	switch bk {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockListItem:
		return "list-item"
	default:
		return "unknown"
	}
}

// Format is a bitmask of run-level formatting attributes.
type Format uint8

const (
	FormatBold Format = 1 << iota
	FormatItalic
	FormatCode
)

// Run is a contiguous span of text with uniform formatting.
type Run struct {
	Text   string
	Format Format
}

// Len returns the byte length of the run.
func (r Run) Len() int {
	return len(r.Text)
}

// Block is a non-splittable structural unit (paragraph, heading, list
// item). Suggestions never span a block boundary.
type Block struct {
	id    BlockID
	kind  BlockKind
	level int // heading depth or list nesting, 0 otherwise
	runs  []Run
	dead  bool // retired arena slot
}

// ID returns the block's stable identity.
func (b *Block) ID() BlockID {
	return b.id
}

// Kind returns the block's structural kind.
func (b *Block) Kind() BlockKind {
	return b.kind
}

// Level returns the heading depth or list nesting level.
func (b *Block) Level() int {
	return b.level
}

// Runs returns the block's runs. The returned slice must not be mutated.
func (b *Block) Runs() []Run {
	return b.runs
}

// Len returns the byte length of the block's text.
func (b *Block) Len() int {
	n := 0
	for _, r := range b.runs {
		n += len(r.Text)
	}
	return n
}

// Text returns the block's full text.
func (b *Block) Text() string {
	if len(b.runs) == 1 {
		return b.runs[0].Text
	}
	var sb strings.Builder
	for _, r := range b.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// TextRange returns the block text in [start, end).
// Offsets outside the block are clamped.
func (b *Block) TextRange(r Range) string {
	text := b.Text()
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}

// spliceRuns replaces [start, end) of the block's text with newText,
// preserving run formatting on either side of the replaced region.
// Inserted text takes the format of the run it lands in (or the
// preceding run at a run boundary).
func (b *Block) spliceRuns(start, end int, newText string) {
	var out []Run
	pos := 0
	inserted := false

	insertFormat := func() Format {
		// Format of the run containing start, else the last run.
		p := 0
		var last Format
		for _, r := range b.runs {
			if start < p+len(r.Text) {
				return r.Format
			}
			last = r.Format
			p += len(r.Text)
		}
		return last
	}

	for _, r := range b.runs {
		runStart := pos
		runEnd := pos + len(r.Text)
		pos = runEnd

		// Entirely before the splice.
		if runEnd <= start {
			out = appendRun(out, Run{Text: r.Text, Format: r.Format})
			continue
		}
		// Entirely after the splice.
		if runStart >= end {
			if !inserted {
				out = appendRun(out, Run{Text: newText, Format: insertFormat()})
				inserted = true
			}
			out = appendRun(out, Run{Text: r.Text, Format: r.Format})
			continue
		}
		// Overlapping: keep the prefix before start.
		if runStart < start {
			out = appendRun(out, Run{Text: r.Text[:start-runStart], Format: r.Format})
		}
		if !inserted {
			out = appendRun(out, Run{Text: newText, Format: insertFormat()})
			inserted = true
		}
		// Keep the suffix after end.
		if runEnd > end {
			out = appendRun(out, Run{Text: r.Text[end-runStart:], Format: r.Format})
		}
	}

	if !inserted {
		out = appendRun(out, Run{Text: newText, Format: insertFormat()})
	}

	b.runs = out
}

// appendRun appends a run, merging with the previous run when the
// formats match and dropping empty runs.
func appendRun(runs []Run, r Run) []Run {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].Format == r.Format {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}
