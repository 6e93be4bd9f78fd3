package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/redline/internal/engine/document"
)

// edit applies a block edit to doc and records it in m.
func edit(t *testing.T, m *Mapper, doc *document.Document, e document.Edit) document.EditResult {
	t.Helper()
	res, err := doc.ApplyEdit(e)
	require.NoError(t, err)
	m.RecordEdit(res)
	return res
}

func TestTranslateRange(t *testing.T) {
	t.Run("insert before anchor shifts it", func(t *testing.T) {
		doc := document.FromText("hello world")
		m := NewMapper()
		anchor := document.Anchor{Block: 0, Range: document.NewRange(6, 11)}

		edit(t, m, doc, document.NewInsert(0, 0, "XX"))

		got, err := m.TranslateRange(anchor, 0)
		require.NoError(t, err)
		assert.Equal(t, document.Anchor{Block: 0, Range: document.NewRange(8, 13)}, got)
	})

	t.Run("insert at anchor exclusive end leaves it alone", func(t *testing.T) {
		doc := document.FromText("hello world")
		m := NewMapper()
		anchor := document.Anchor{Block: 0, Range: document.NewRange(0, 5)}

		edit(t, m, doc, document.NewInsert(0, 5, "!!"))

		got, err := m.TranslateRange(anchor, 0)
		require.NoError(t, err)
		assert.Equal(t, anchor, got)
	})

	t.Run("replacement shift matches byte delta", func(t *testing.T) {
		doc := document.FromText("0123456789 0123456789 01234")
		m := NewMapper()
		anchor := document.Anchor{Block: 0, Range: document.NewRange(20, 25)}

		// Replace [5,8) with 5 bytes, a net delta of +2.
		edit(t, m, doc, document.Edit{Block: 0, Range: document.NewRange(5, 8), NewText: "ABCDE"})

		got, err := m.TranslateRange(anchor, 0)
		require.NoError(t, err)
		assert.Equal(t, document.NewRange(22, 27), got.Range)
	})

	t.Run("edit intersecting anchor invalidates it", func(t *testing.T) {
		doc := document.FromText("0123456789 0123456789")
		m := NewMapper()
		anchor := document.Anchor{Block: 0, Range: document.NewRange(10, 20)}

		edit(t, m, doc, document.Edit{Block: 0, Range: document.NewRange(15, 16), NewText: "Q"})

		_, err := m.TranslateRange(anchor, 0)
		assert.ErrorIs(t, err, ErrInvalidated)
	})

	t.Run("insert strictly inside anchor invalidates it", func(t *testing.T) {
		doc := document.FromText("abcdefgh")
		m := NewMapper()
		anchor := document.Anchor{Block: 0, Range: document.NewRange(2, 8)}

		edit(t, m, doc, document.NewInsert(0, 5, "zz"))

		_, err := m.TranslateRange(anchor, 0)
		assert.ErrorIs(t, err, ErrInvalidated)
	})

	t.Run("edit after anchor leaves it alone", func(t *testing.T) {
		doc := document.FromText("hello world")
		m := NewMapper()
		anchor := document.Anchor{Block: 0, Range: document.NewRange(0, 5)}

		edit(t, m, doc, document.Edit{Block: 0, Range: document.NewRange(6, 11), NewText: "there"})

		got, err := m.TranslateRange(anchor, 0)
		require.NoError(t, err)
		assert.Equal(t, anchor, got)
	})

	t.Run("edit in another block leaves it alone", func(t *testing.T) {
		doc := document.FromText("alpha\nbeta")
		m := NewMapper()
		anchor := document.Anchor{Block: 1, Range: document.NewRange(0, 4)}

		edit(t, m, doc, document.NewInsert(0, 0, "XXXX"))

		got, err := m.TranslateRange(anchor, 0)
		require.NoError(t, err)
		assert.Equal(t, anchor, got)
	})
}

func TestTranslateAcrossSplit(t *testing.T) {
	doc := document.FromText("abcdef")
	m := NewMapper()

	// Insert "X\nY" at offset 3: block 0 becomes "abcX", the tail
	// "def" moves to a new block prefixed by "Y".
	res := edit(t, m, doc, document.NewInsert(0, 3, "X\nY"))
	require.Len(t, res.Created, 1)
	tail := res.Created[0]

	t.Run("anchor before the cut stays", func(t *testing.T) {
		got, err := m.TranslateRange(document.Anchor{Block: 0, Range: document.NewRange(1, 3)}, 0)
		require.NoError(t, err)
		assert.Equal(t, document.Anchor{Block: 0, Range: document.NewRange(1, 3)}, got)
	})

	t.Run("anchor after the cut follows the tail", func(t *testing.T) {
		got, err := m.TranslateRange(document.Anchor{Block: 0, Range: document.NewRange(4, 6)}, 0)
		require.NoError(t, err)
		assert.Equal(t, document.Anchor{Block: tail, Range: document.NewRange(2, 4)}, got)

		txt, err := doc.BlockText(tail)
		require.NoError(t, err)
		assert.Equal(t, "ef", txt[got.Range.Start:got.Range.End])
	})

	t.Run("anchor straddling the cut invalidates", func(t *testing.T) {
		_, err := m.TranslateRange(document.Anchor{Block: 0, Range: document.NewRange(2, 5)}, 0)
		assert.ErrorIs(t, err, ErrInvalidated)
	})

	t.Run("position after the cut follows the tail", func(t *testing.T) {
		got, err := m.Translate(document.Position{Block: 0, Offset: 4}, 0)
		require.NoError(t, err)
		assert.Equal(t, document.Position{Block: tail, Offset: 2}, got)
	})
}

func TestTranslateAcrossMerge(t *testing.T) {
	doc := document.FromText("abc\ndef")
	m := NewMapper()

	// Delete the separator after block 0, merging block 1 into it.
	edit(t, m, doc, document.Edit{Block: 0, Range: document.NewRange(3, 4)})

	t.Run("anchor in merged block relocates", func(t *testing.T) {
		got, err := m.TranslateRange(document.Anchor{Block: 1, Range: document.NewRange(1, 3)}, 0)
		require.NoError(t, err)
		assert.Equal(t, document.Anchor{Block: 0, Range: document.NewRange(4, 6)}, got)
	})

	t.Run("position at merged block start relocates", func(t *testing.T) {
		got, err := m.Translate(document.Position{Block: 1, Offset: 0}, 0)
		require.NoError(t, err)
		assert.Equal(t, document.Position{Block: 0, Offset: 3}, got)
	})

	t.Run("anchor in target block stays", func(t *testing.T) {
		got, err := m.TranslateRange(document.Anchor{Block: 0, Range: document.NewRange(0, 3)}, 0)
		require.NoError(t, err)
		assert.Equal(t, document.Anchor{Block: 0, Range: document.NewRange(0, 3)}, got)
	})
}

func TestTranslateRemovedBlock(t *testing.T) {
	doc := document.FromText("alpha\nbeta\ngamma")
	m := NewMapper()

	res, err := doc.RemoveBlock(1)
	require.NoError(t, err)
	m.RecordEdit(res)

	_, err = m.TranslateRange(document.Anchor{Block: 1, Range: document.NewRange(0, 4)}, 0)
	assert.ErrorIs(t, err, ErrInvalidated)

	_, err = m.Translate(document.Position{Block: 1, Offset: 0}, 0)
	assert.ErrorIs(t, err, ErrInvalidated)

	// Other blocks are unaffected.
	got, err := m.TranslateRange(document.Anchor{Block: 2, Range: document.NewRange(0, 5)}, 0)
	require.NoError(t, err)
	assert.Equal(t, document.BlockID(2), got.Block)
}

func TestTranslatePoint(t *testing.T) {
	doc := document.FromText("hello world")
	m := NewMapper()

	edit(t, m, doc, document.Edit{Block: 0, Range: document.NewRange(6, 11), NewText: "there!!"})

	t.Run("offset before edit unchanged", func(t *testing.T) {
		got, err := m.Translate(document.Position{Block: 0, Offset: 3}, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Offset)
	})

	t.Run("offset inside replaced range invalidates", func(t *testing.T) {
		_, err := m.Translate(document.Position{Block: 0, Offset: 8}, 0)
		assert.ErrorIs(t, err, ErrInvalidated)
	})

	t.Run("offset at range end shifts by delta", func(t *testing.T) {
		got, err := m.Translate(document.Position{Block: 0, Offset: 11}, 0)
		require.NoError(t, err)
		assert.Equal(t, 13, got.Offset)
	})
}

func TestSequentialEdits(t *testing.T) {
	doc := document.FromText("0123456789")
	m := NewMapper()
	anchor := document.Anchor{Block: 0, Range: document.NewRange(6, 9)}

	edit(t, m, doc, document.NewInsert(0, 0, "aa"))
	edit(t, m, doc, document.NewInsert(0, 2, "bb"))
	edit(t, m, doc, document.Edit{Block: 0, Range: document.NewRange(4, 6), NewText: ""})

	// +2, +2, -2 applied in order, all before the anchor.
	got, err := m.TranslateRange(anchor, 0)
	require.NoError(t, err)
	assert.Equal(t, document.NewRange(8, 11), got.Range)

	// An anchor taken after the first edit replays only later rules.
	later := document.Anchor{Block: 0, Range: document.NewRange(8, 11)}
	got, err = m.TranslateRange(later, 1)
	require.NoError(t, err)
	assert.Equal(t, document.NewRange(8, 11), got.Range)
}

func TestBoundedHistory(t *testing.T) {
	doc := document.FromText("0123456789")
	m := NewMapper(WithMaxRules(2))

	edit(t, m, doc, document.NewInsert(0, 0, "a"))
	edit(t, m, doc, document.NewInsert(0, 0, "b"))
	edit(t, m, doc, document.NewInsert(0, 0, "c"))
	assert.Equal(t, 2, m.RuleCount())

	// The rule for revision 1 was evicted; older queries cannot replay.
	_, err := m.Translate(document.Position{Block: 0, Offset: 5}, 0)
	assert.ErrorIs(t, err, ErrInvalidated)

	got, err := m.Translate(document.Position{Block: 0, Offset: 5}, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Offset)
}
