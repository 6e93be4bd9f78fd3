package textdiff

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	t.Run("identical inputs yield single equal", func(t *testing.T) {
		ops, err := Compute("same text", "same text", DefaultOptions())
		require.NoError(t, err)
		require.Len(t, ops, 1)
		assert.Equal(t, OpEqual, ops[0].Kind)
		assert.Equal(t, "same text", ops[0].Text)
	})

	t.Run("empty inputs yield no ops", func(t *testing.T) {
		ops, err := Compute("", "", DefaultOptions())
		require.NoError(t, err)
		assert.Empty(t, ops)
	})

	t.Run("disjoint inputs yield delete then insert", func(t *testing.T) {
		ops, err := Compute("abc", "xyz", DefaultOptions())
		require.NoError(t, err)
		require.Len(t, ops, 2)
		assert.Equal(t, OpDelete, ops[0].Kind)
		assert.Equal(t, "abc", ops[0].Text)
		assert.Equal(t, OpInsert, ops[1].Kind)
		assert.Equal(t, "xyz", ops[1].Text)
	})

	t.Run("word insertion stays word aligned", func(t *testing.T) {
		ops, err := Compute("The cat sat.", "The big cat sat.", DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, "The big cat sat.", Apply("The cat sat.", ops))

		var inserts []Op
		for _, op := range ops {
			require.NotEqual(t, OpDelete, op.Kind)
			if op.Kind == OpInsert {
				inserts = append(inserts, op)
			}
		}
		require.Len(t, inserts, 1)
		assert.Equal(t, "big ", inserts[0].Text)
	})

	t.Run("word replacement is a single delete insert pair", func(t *testing.T) {
		ops, err := Compute("Hello world", "Hello there", DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, "Hello there", Apply("Hello world", ops))

		var kinds []Kind
		for _, op := range ops {
			if op.Kind != OpEqual {
				kinds = append(kinds, op.Kind)
			}
		}
		assert.Equal(t, []Kind{OpDelete, OpInsert}, kinds)
	})

	t.Run("reconstruction invariant", func(t *testing.T) {
		cases := [][2]string{
			{"", "something"},
			{"something", ""},
			{"a quick brown fox", "a very quick red fox"},
			{"line one\nline two", "line one\nline 2\nline three"},
			{"aaaa", "aaaaa"},
		}
		for _, c := range cases {
			ops, err := Compute(c[0], c[1], DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, c[1], Apply(c[0], ops), "original=%q modified=%q", c[0], c[1])
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		a := "The quick brown fox jumps over the lazy dog"
		b := "A quick red fox leaps over the dog"
		first, err := Compute(a, b, DefaultOptions())
		require.NoError(t, err)
		second, err := Compute(a, b, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("size ceiling", func(t *testing.T) {
		big := strings.Repeat("x", 100)
		_, err := Compute(big, "y", Options{MaxBytes: 10})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDiffTooLarge))

		_, err = Compute("y", big, Options{MaxBytes: 10})
		assert.True(t, errors.Is(err, ErrDiffTooLarge))
	})
}

func TestSlideEdit(t *testing.T) {
	t.Run("insert slides to word boundary", func(t *testing.T) {
		// "The cat sat." -> "The big cat sat." can minimally be
		// expressed as inserting "ig b" after "The b"; the slide must
		// normalize it to "big " after "The ".
		eq1, edit, eq2 := slideEdit("The b", "ig b", "at sat.")
		assert.Equal(t, "The ", eq1)
		assert.Equal(t, "big ", edit)
		assert.Equal(t, "bat sat.", eq2)
	})

	t.Run("no slide when already aligned", func(t *testing.T) {
		eq1, edit, eq2 := slideEdit("The ", "big ", "cat sat.")
		assert.Equal(t, "The ", eq1)
		assert.Equal(t, "big ", edit)
		assert.Equal(t, "cat sat.", eq2)
	})

	t.Run("concatenation invariant", func(t *testing.T) {
		eq1, edit, eq2 := slideEdit("xxa", "bcabca", "bcyy")
		assert.Equal(t, "xxabcabcabcyy", eq1+edit+eq2)
		assert.Len(t, edit, 6)
	})
}

func TestMergeOps(t *testing.T) {
	ops := []Op{
		{Kind: OpEqual, Text: "a"},
		{Kind: OpEqual, Text: "b"},
		{Kind: OpDelete, Text: ""},
		{Kind: OpInsert, Text: "c"},
		{Kind: OpInsert, Text: "d"},
	}
	merged := mergeOps(ops)
	require.Len(t, merged, 2)
	assert.Equal(t, Op{Kind: OpEqual, Text: "ab"}, merged[0])
	assert.Equal(t, Op{Kind: OpInsert, Text: "cd"}, merged[1])
}
