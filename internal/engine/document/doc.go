// Package document provides the structured document model the suggestion
// engine operates on.
//
// A Document is an ordered sequence of Blocks (paragraph-like units), each
// holding a sequence of Runs (contiguous text with uniform formatting).
// Blocks live in an index-addressed arena and are referred to by stable
// [BlockID] values, never by pointer or list position, so inserting or
// removing a block cannot dangle an anchor held elsewhere.
//
// Every structural mutation increments the document's revision counter.
// Consumers that need to reason about positions across revisions (the
// position mapper, the resolution engine) key their state on [Revision].
//
// # Positions
//
// Offsets are block-relative: a [Position] names a block and a byte offset
// within that block's text. Flat offsets into the concatenated document
// text exist only at the edges (diff computation, block span lookup) and
// are converted through [Snapshot.BlockSpans].
//
// # Thread Safety
//
// Document methods are safe for concurrent use through internal locking.
// Snapshots are immutable and can be freely shared across goroutines.
package document
