package suggestion

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/redline/internal/engine/document"
)

// ID uniquely identifies a suggestion within the process.
type ID uint64

// GroupID correlates the suggestions emitted from one AI response.
type GroupID string

// NewGroupID returns a fresh group identifier.
func NewGroupID() GroupID {
	return GroupID(uuid.NewString())
}

// Kind categorizes a suggestion.
type Kind uint8

const (
	// Insertion proposes adding text at a point.
	Insertion Kind = iota

	// Deletion proposes removing a range of text.
	Deletion

	// Replacement proposes substituting a range with new text.
	Replacement
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	case Replacement:
		return "replacement"
	default:
		return "unknown"
	}
}

// Status is the review state of a suggestion.
type Status uint8

const (
	// Pending awaits a user decision.
	Pending Status = iota

	// Accepted was applied to the document. Terminal.
	Accepted

	// Rejected was discarded without touching the document. Terminal.
	Rejected

	// Stale had its anchor text modified by an unrelated mutation
	// before resolution. Terminal; the caller should re-diff.
	Stale
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// IsTerminal returns true once the status can no longer change.
func (s Status) IsTerminal() bool {
	return s != Pending
}

// Suggestion is one proposed edit overlaid on the document.
type Suggestion struct {
	// ID is stable and process-unique.
	ID ID

	// Kind is insertion, deletion, or replacement.
	Kind Kind

	// Anchor is the block-relative region the suggestion targets.
	// For insertions the range is empty and marks the point.
	Anchor document.Anchor

	// OriginalText is the text the anchor covers (empty for insertions).
	OriginalText string

	// ProposedText is the replacement text (empty for deletions).
	ProposedText string

	// GroupID names the batch this suggestion arrived in.
	GroupID GroupID

	// Status is the review state. Transitions exactly once.
	Status Status

	// CreatedAtRevision is the document revision the anchor is valid
	// at, stamped when the change set is attached to the document.
	CreatedAtRevision document.Revision
}

// String returns a human-readable representation of the suggestion.
func (s *Suggestion) String() string {
	return fmt.Sprintf("#%d %s %s %s", s.ID, s.Kind, s.Anchor, s.Status)
}

// IsPending returns true while the suggestion awaits a decision.
func (s *Suggestion) IsPending() bool {
	return s.Status == Pending
}
