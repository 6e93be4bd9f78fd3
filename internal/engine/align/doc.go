// Package align maps raw character-level diff ops onto a document's
// block structure.
//
// The diff computer knows nothing about blocks; this package walks an
// edit script and the block span list in lockstep, splitting any insert
// or delete that straddles a block boundary so that every resulting op
// is confined to a single block. Downstream, the suggestion builder can
// then rely on the invariant that no suggestion spans a block boundary.
package align
