package textdiff

import (
	"errors"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrDiffTooLarge is returned when an input exceeds the configured size
// ceiling. Callers should chunk the request rather than retry.
var ErrDiffTooLarge = errors.New("diff input too large")

// DefaultMaxBytes is the default per-input size ceiling.
// Inputs are bounded to a selection or document region, not whole
// multi-megabyte documents.
const DefaultMaxBytes = 1 << 20

// Options configures diff computation.
type Options struct {
	// MaxBytes is the per-input size ceiling. Zero means DefaultMaxBytes.
	MaxBytes int
}

// DefaultOptions returns the default diff options.
func DefaultOptions() Options {
	return Options{MaxBytes: DefaultMaxBytes}
}

// Compute returns the shortest edit script turning original into
// modified, with change boundaries aligned to word boundaries.
//
// Identical inputs yield a single equal op. Fully disjoint inputs yield
// one delete followed by one insert. Inputs over the size ceiling fail
// with ErrDiffTooLarge.
func Compute(original, modified string, opts Options) ([]Op, error) {
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(original) > maxBytes || len(modified) > maxBytes {
		return nil, fmt.Errorf("%w: %d/%d bytes exceeds %d",
			ErrDiffTooLarge, len(original), len(modified), maxBytes)
	}

	if original == modified {
		if original == "" {
			return nil, nil
		}
		return []Op{{Kind: OpEqual, Text: original}}, nil
	}

	dmp := diffmatchpatch.New()
	// A deadline would make the script depend on machine load; the size
	// ceiling above bounds the work instead.
	dmp.DiffTimeout = 0

	diffs := dmp.DiffMain(original, modified, false)
	// Collapse coincidental single-character equalities inside a larger
	// rewrite; "world"->"there" must surface as one replacement, not a
	// lattice of shared letters.
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCleanupMerge(diffs)

	ops := make([]Op, 0, len(diffs))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			ops = append(ops, Op{Kind: OpEqual, Text: d.Text})
		case diffmatchpatch.DiffInsert:
			ops = append(ops, Op{Kind: OpInsert, Text: d.Text})
		case diffmatchpatch.DiffDelete:
			ops = append(ops, Op{Kind: OpDelete, Text: d.Text})
		}
	}

	ops = slideToWordBoundaries(ops)
	return mergeOps(ops), nil
}
