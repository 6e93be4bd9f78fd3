// Package mapping translates block-relative positions across document
// revisions.
//
// Every document mutation appends one or more translation rules rather
// than recomputing history: a splice shifts trailing offsets by its
// length delta, and a block split or merge relocates a tail of one
// block into another. Translating a position valid at revision r
// replays the rules recorded after r, in order.
//
// A translation fails with [ErrInvalidated] when any rule's range
// covers the position itself: the position sat inside text that a
// later mutation modified, so it can no longer be trusted. This is the
// mechanism that keeps pending suggestions addressable while the user
// types elsewhere, and correctly marks them stale when their anchor
// text is edited out from under them.
//
// The rule history is bounded. Once old rules are evicted, positions
// anchored before the eviction horizon report ErrInvalidated rather
// than silently translating through missing history.
package mapping
