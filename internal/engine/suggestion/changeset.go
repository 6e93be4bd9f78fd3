package suggestion

import (
	"github.com/dshills/redline/internal/engine/document"
)

// ChangeSet is the ordered collection of suggestions produced from one
// AI response, attached to one document at one revision.
//
// A ChangeSet is built once and then owned by the resolution engine,
// which serializes all access; the type itself performs no locking.
type ChangeSet struct {
	groupID     GroupID
	revision    document.Revision
	suggestions []*Suggestion
	byID        map[ID]*Suggestion
}

// newChangeSet creates an empty change set for a group.
func newChangeSet(groupID GroupID) *ChangeSet {
	return &ChangeSet{
		groupID: groupID,
		byID:    make(map[ID]*Suggestion),
	}
}

// GroupID returns the group the change set was built for.
func (cs *ChangeSet) GroupID() GroupID {
	return cs.groupID
}

// Revision returns the revision the anchors are valid at.
func (cs *ChangeSet) Revision() document.Revision {
	return cs.revision
}

// SetRevision stamps the revision the change set is anchored to.
// Called once at hand-off, when the set is attached to a document.
func (cs *ChangeSet) SetRevision(rev document.Revision) {
	cs.revision = rev
	for _, s := range cs.suggestions {
		s.CreatedAtRevision = rev
	}
}

// add appends a suggestion in document order.
func (cs *ChangeSet) add(s *Suggestion) {
	cs.suggestions = append(cs.suggestions, s)
	cs.byID[s.ID] = s
}

// Len returns the number of suggestions, resolved or not.
func (cs *ChangeSet) Len() int {
	return len(cs.suggestions)
}

// ByID returns the suggestion with the given id.
func (cs *ChangeSet) ByID(id ID) (*Suggestion, bool) {
	s, ok := cs.byID[id]
	return s, ok
}

// All returns the suggestions in document order.
// The returned slice must not be mutated.
func (cs *ChangeSet) All() []*Suggestion {
	return cs.suggestions
}

// Pending returns the pending suggestions in document order.
func (cs *ChangeSet) Pending() []*Suggestion {
	var out []*Suggestion
	for _, s := range cs.suggestions {
		if s.IsPending() {
			out = append(out, s)
		}
	}
	return out
}

// Remove deletes a suggestion from the set. Called when a suggestion
// is resolved, so its id stops resolving on later lookups.
func (cs *ChangeSet) Remove(id ID) {
	s, ok := cs.byID[id]
	if !ok {
		return
	}
	delete(cs.byID, id)
	for i, cur := range cs.suggestions {
		if cur == s {
			cs.suggestions = append(cs.suggestions[:i], cs.suggestions[i+1:]...)
			break
		}
	}
}

// Prune removes resolved suggestions, keeping only pending ones.
func (cs *ChangeSet) Prune() {
	kept := cs.suggestions[:0]
	for _, s := range cs.suggestions {
		if s.IsPending() {
			kept = append(kept, s)
		} else {
			delete(cs.byID, s.ID)
		}
	}
	cs.suggestions = kept
}

// Blocks returns the set of blocks pending suggestions touch.
func (cs *ChangeSet) Blocks() map[document.BlockID]bool {
	blocks := make(map[document.BlockID]bool)
	for _, s := range cs.suggestions {
		if s.IsPending() {
			blocks[s.Anchor.Block] = true
		}
	}
	return blocks
}

// OverlapsPending reports whether any pending suggestion's anchor
// touches any pending anchor of the other change set. Used to decide
// whether a newly arrived change set supersedes this one.
func (cs *ChangeSet) OverlapsPending(other *ChangeSet) bool {
	for _, a := range cs.Pending() {
		for _, b := range other.Pending() {
			if a.Anchor.Block == b.Anchor.Block && a.Anchor.Range.Touches(b.Anchor.Range) {
				return true
			}
		}
	}
	return false
}
