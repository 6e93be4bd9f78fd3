// Package resolve owns the life cycle of attached suggestions.
//
// The Engine pairs one document with its attached change sets, keyed
// by group, and serializes every mutation against both: accepting a
// suggestion, rejecting one, and user edits all pass through it. After
// each mutation the engine re-anchors the remaining pending
// suggestions to the new revision, so a pending suggestion's anchor is
// always valid against the current document text. Suggestions whose
// anchors cannot be carried forward are marked stale rather than being
// silently rebased.
//
// Status transitions are single-shot. A suggestion leaves Pending
// exactly once, for Accepted, Rejected, or Stale. Accepted and
// rejected suggestions are pruned from their change set, so resolving
// an id a second time reports ErrUnknownSuggestion; stale suggestions
// stay attached and report ErrStaleSuggestion.
package resolve
