// Package textdiff computes minimal edit scripts between two texts.
//
// Compute produces an ordered sequence of [Op] values (equal, insert,
// delete) whose application to the original text reconstructs the
// modified text. The underlying algorithm is Myers' shortest edit
// script; when multiple minimal scripts exist, boundaries are slid
// toward the nearest word boundary so a change never lands mid-word.
//
// The package is pure: no state is shared between calls, and the same
// input pair always yields the same op sequence.
package textdiff
