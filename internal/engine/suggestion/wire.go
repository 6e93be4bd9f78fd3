package suggestion

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/redline/internal/engine/document"
)

// ErrWireInvalid is returned when a wire-form document cannot be
// decoded into a suggestion.
var ErrWireInvalid = errors.New("invalid suggestion wire form")

// WireJSON encodes the suggestion in its wire form:
//
//	{id, kind, block, anchorStart, anchorEnd,
//	 originalText, proposedText, status, groupId}
func (s *Suggestion) WireJSON() (string, error) {
	out := "{}"
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.Set(out, path, value)
	}

	set("id", uint64(s.ID))
	set("kind", s.Kind.String())
	set("block", int(s.Anchor.Block))
	set("anchorStart", s.Anchor.Range.Start)
	set("anchorEnd", s.Anchor.Range.End)
	set("originalText", s.OriginalText)
	set("proposedText", s.ProposedText)
	set("status", s.Status.String())
	set("groupId", string(s.GroupID))

	if err != nil {
		return "", fmt.Errorf("encode suggestion %d: %w", s.ID, err)
	}
	return out, nil
}

// FromWireJSON decodes a suggestion from its wire form.
func FromWireJSON(data string) (*Suggestion, error) {
	if !gjson.Valid(data) {
		return nil, ErrWireInvalid
	}
	root := gjson.Parse(data)
	for _, field := range []string{"id", "kind", "anchorStart", "anchorEnd", "status", "groupId"} {
		if !root.Get(field).Exists() {
			return nil, fmt.Errorf("%w: missing %q", ErrWireInvalid, field)
		}
	}

	kind, err := parseKind(root.Get("kind").String())
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(root.Get("status").String())
	if err != nil {
		return nil, err
	}

	return &Suggestion{
		ID:   ID(root.Get("id").Uint()),
		Kind: kind,
		Anchor: document.Anchor{
			Block: document.BlockID(root.Get("block").Int()),
			Range: document.NewRange(
				int(root.Get("anchorStart").Int()),
				int(root.Get("anchorEnd").Int()),
			),
		},
		OriginalText: root.Get("originalText").String(),
		ProposedText: root.Get("proposedText").String(),
		Status:       status,
		GroupID:      GroupID(root.Get("groupId").String()),
	}, nil
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "insertion":
		return Insertion, nil
	case "deletion":
		return Deletion, nil
	case "replacement":
		return Replacement, nil
	default:
		return 0, fmt.Errorf("%w: kind %q", ErrWireInvalid, s)
	}
}

func parseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "accepted":
		return Accepted, nil
	case "rejected":
		return Rejected, nil
	case "stale":
		return Stale, nil
	default:
		return 0, fmt.Errorf("%w: status %q", ErrWireInvalid, s)
	}
}
