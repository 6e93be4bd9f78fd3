package textdiff

import (
	"fmt"
	"strings"
)

// Kind categorizes a diff op.
type Kind uint8

const (
	// OpEqual is a run of text present in both inputs.
	OpEqual Kind = iota

	// OpInsert is text present only in the modified input.
	OpInsert

	// OpDelete is text present only in the original input.
	OpDelete
)

// String returns a human-readable representation of the op kind.
func (k Kind) String() string {
	switch k {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is a single edit operation. Text carries the affected bytes for
// all kinds; for equals and deletes it is the original text covered,
// for inserts it is the inserted text.
type Op struct {
	Kind Kind
	Text string
}

// Len returns the byte length of the op.
func (op Op) Len() int {
	return len(op.Text)
}

// String returns a human-readable representation of the op.
func (op Op) String() string {
	text := op.Text
	if len(text) > 24 {
		text = text[:21] + "..."
	}
	return fmt.Sprintf("%s(%q)", op.Kind, text)
}

// Apply reconstructs the modified text by replaying ops against the
// original text. It is primarily a verification aid.
func Apply(original string, ops []Op) string {
	var sb strings.Builder
	pos := 0
	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			sb.WriteString(original[pos : pos+len(op.Text)])
			pos += len(op.Text)
		case OpDelete:
			pos += len(op.Text)
		case OpInsert:
			sb.WriteString(op.Text)
		}
	}
	return sb.String()
}

// mergeOps combines adjacent same-kind ops and drops empty ops.
func mergeOps(ops []Op) []Op {
	var out []Op
	for _, op := range ops {
		if op.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Kind == op.Kind {
			out[n-1].Text += op.Text
			continue
		}
		out = append(out, op)
	}
	return out
}
