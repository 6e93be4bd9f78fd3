package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/redline/internal/engine/document"
	"github.com/dshills/redline/internal/engine/textdiff"
)

// spansFor builds block spans for plain text, one block per line.
func spansFor(t *testing.T, text string) []document.BlockSpan {
	t.Helper()
	return document.FromText(text).Snapshot().BlockSpans()
}

func TestAlign(t *testing.T) {
	t.Run("insert within a block", func(t *testing.T) {
		original := "The cat sat."
		ops, err := textdiff.Compute(original, "The big cat sat.", textdiff.DefaultOptions())
		require.NoError(t, err)

		aligned, err := Align(ops, spansFor(t, original))
		require.NoError(t, err)
		require.Len(t, aligned, 1)
		assert.Equal(t, textdiff.OpInsert, aligned[0].Kind)
		assert.Equal(t, "big ", aligned[0].Text)
		assert.Equal(t, document.NewRange(4, 4), aligned[0].Range)
	})

	t.Run("delete split at block boundary", func(t *testing.T) {
		original := "alpha\nbeta"
		spans := spansFor(t, original)

		// Delete "pha\nbe": flat [2, 8) straddles the boundary at 6.
		ops := []textdiff.Op{
			{Kind: textdiff.OpEqual, Text: "al"},
			{Kind: textdiff.OpDelete, Text: "pha\nbe"},
			{Kind: textdiff.OpEqual, Text: "ta"},
		}
		aligned, err := Align(ops, spans)
		require.NoError(t, err)
		require.Len(t, aligned, 2)

		assert.Equal(t, spans[0].Block, aligned[0].Block)
		assert.Equal(t, document.NewRange(2, 6), aligned[0].Range)
		assert.Equal(t, "pha\n", aligned[0].Text)

		assert.Equal(t, spans[1].Block, aligned[1].Block)
		assert.Equal(t, document.NewRange(0, 2), aligned[1].Range)
		assert.Equal(t, "be", aligned[1].Text)
	})

	t.Run("boundary insert attaches to following block", func(t *testing.T) {
		original := "one\ntwo"
		spans := spansFor(t, original)

		// Insert at flat offset 4: the start of block "two".
		ops := []textdiff.Op{
			{Kind: textdiff.OpEqual, Text: "one\n"},
			{Kind: textdiff.OpInsert, Text: "x"},
			{Kind: textdiff.OpEqual, Text: "two"},
		}
		aligned, err := Align(ops, spans)
		require.NoError(t, err)
		require.Len(t, aligned, 1)
		assert.Equal(t, spans[1].Block, aligned[0].Block)
		assert.Equal(t, document.NewRange(0, 0), aligned[0].Range)
	})

	t.Run("final boundary insert attaches to preceding block", func(t *testing.T) {
		original := "one\ntwo"
		spans := spansFor(t, original)

		ops := []textdiff.Op{
			{Kind: textdiff.OpEqual, Text: "one\ntwo"},
			{Kind: textdiff.OpInsert, Text: "!"},
		}
		aligned, err := Align(ops, spans)
		require.NoError(t, err)
		require.Len(t, aligned, 1)
		assert.Equal(t, spans[1].Block, aligned[0].Block)
		assert.Equal(t, document.NewRange(3, 3), aligned[0].Range)
	})

	t.Run("contiguous fragments remerge", func(t *testing.T) {
		original := "abcdef"
		spans := spansFor(t, original)

		ops := []textdiff.Op{
			{Kind: textdiff.OpDelete, Text: "ab"},
			{Kind: textdiff.OpDelete, Text: "cd"},
			{Kind: textdiff.OpEqual, Text: "ef"},
		}
		aligned, err := Align(ops, spans)
		require.NoError(t, err)
		require.Len(t, aligned, 1)
		assert.Equal(t, document.NewRange(0, 4), aligned[0].Range)
		assert.Equal(t, "abcd", aligned[0].Text)
	})

	t.Run("script not covering spans fails", func(t *testing.T) {
		spans := spansFor(t, "full text here")
		ops := []textdiff.Op{{Kind: textdiff.OpEqual, Text: "short"}}
		_, err := Align(ops, spans)
		assert.ErrorIs(t, err, ErrSpanMismatch)
	})

	t.Run("replacement keeps delete and insert adjacent", func(t *testing.T) {
		original := "Hello world"
		ops, err := textdiff.Compute(original, "Hello there", textdiff.DefaultOptions())
		require.NoError(t, err)

		aligned, err := Align(ops, spansFor(t, original))
		require.NoError(t, err)
		require.Len(t, aligned, 2)
		assert.Equal(t, textdiff.OpDelete, aligned[0].Kind)
		assert.Equal(t, textdiff.OpInsert, aligned[1].Kind)
		assert.Equal(t, aligned[0].Range.Start, aligned[1].Range.Start)
		assert.Equal(t, aligned[0].Block, aligned[1].Block)
	})
}
