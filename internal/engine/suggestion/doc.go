// Package suggestion defines the addressable proposed-edit model and
// the builder that produces it from block-aligned diff ops.
//
// A [Suggestion] is the atomic unit of review: one proposed insertion,
// deletion, or replacement anchored to a block-relative range. A
// [ChangeSet] collects the suggestions emitted from one AI response
// under a shared group ID so they can be accepted or rejected in bulk.
//
// Suggestions transition exactly once, from Pending to Accepted,
// Rejected, or Stale. The builder guarantees that no two pending
// suggestions in a change set have overlapping anchors.
package suggestion
