// Package review is the per-document entry point for suggestion
// workflows.
//
// A Session wires the pipeline together: diff computation, block
// alignment, and suggestion building run as a pure pipeline with no
// locks, so they can run on a background goroutine against a snapshot
// while the user keeps editing. Attach is the single synchronized
// hand-off that anchors the finished change set to the live document.
// Resolution and user edits delegate to the resolution engine.
package review
