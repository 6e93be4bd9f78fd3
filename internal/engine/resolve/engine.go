package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dshills/redline/internal/engine/document"
	"github.com/dshills/redline/internal/engine/mapping"
	"github.com/dshills/redline/internal/engine/suggestion"
)

// Errors returned by resolution operations.
var (
	// ErrUnknownSuggestion covers ids that were never attached and ids
	// already resolved: resolved suggestions are pruned from their
	// change set, so their ids stop resolving.
	ErrUnknownSuggestion = errors.New("unknown suggestion")

	ErrStaleSuggestion = errors.New("suggestion is stale")
	ErrNoChangeSet     = errors.New("no change set attached")
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for resolution events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMapper sets the position mapper the engine records mutations
// with. Used when the caller wants a bounded rule history.
func WithMapper(m *mapping.Mapper) Option {
	return func(e *Engine) {
		e.mapper = m
	}
}

// WithChangeHook registers a callback invoked after every applied
// document mutation, outside the engine's lock. The hook must not
// retain the result past the call.
func WithChangeHook(fn func(document.EditResult)) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// Engine resolves suggestions against a document.
//
// Change sets for disjoint regions coexist, keyed by group; attaching
// a set supersedes only the sets whose pending anchors it overlaps.
// All mutations are serialized with a single lock: each accept,
// reject, and user edit is atomic, including the re-anchoring of the
// remaining pending suggestions. Bulk operations take and release the
// lock per suggestion, so user edits can interleave with a long
// acceptAll.
type Engine struct {
	mu       sync.Mutex
	doc      *document.Document
	mapper   *mapping.Mapper
	sets     []*suggestion.ChangeSet
	logger   *slog.Logger
	onChange func(document.EditResult)
}

// NewEngine creates an engine for the given document.
func NewEngine(doc *document.Document, opts ...Option) *Engine {
	e := &Engine{
		doc:    doc,
		mapper: mapping.NewMapper(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Document returns the engine's document.
func (e *Engine) Document() *document.Document {
	return e.doc
}

// Attach hands a change set to the engine, anchoring it at the current
// revision. Attached sets whose pending anchors the new set overlaps
// are superseded: their pending suggestions are dropped, not marked
// stale, since they were never resolved by the user. Sets for disjoint
// regions stay attached.
func (e *Engine) Attach(cs *suggestion.ChangeSet) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.sets[:0]
	for _, old := range e.sets {
		if old.OverlapsPending(cs) {
			e.logger.Info("superseding overlapping change set",
				"old", string(old.GroupID()),
				"new", string(cs.GroupID()),
				"dropped", len(old.Pending()),
			)
			continue
		}
		kept = append(kept, old)
	}
	cs.SetRevision(e.doc.Revision())
	e.sets = append(kept, cs)
}

// ChangeSet returns the attached change set for a group, or nil.
func (e *Engine) ChangeSet(group suggestion.GroupID) *suggestion.ChangeSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, cs := range e.sets {
		if cs.GroupID() == group {
			return cs
		}
	}
	return nil
}

// Pending returns every pending suggestion in document order, with
// anchors valid against the current document text.
func (e *Engine) Pending() []*suggestion.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingLocked("")
}

// PendingGroup returns the pending suggestions of one group in
// document order.
func (e *Engine) PendingGroup(group suggestion.GroupID) []*suggestion.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingLocked(group)
}

// pendingLocked collects pending suggestions across attached sets.
// A zero group selects every set.
func (e *Engine) pendingLocked(group suggestion.GroupID) []*suggestion.Suggestion {
	var out []*suggestion.Suggestion
	for _, cs := range e.sets {
		if group != "" && cs.GroupID() != group {
			continue
		}
		out = append(out, cs.Pending()...)
	}
	e.sortByDocumentOrder(out)
	return out
}

// Accept applies a suggestion's proposed change to the document and
// prunes it from its change set. The anchors of the remaining pending
// suggestions are shifted to account for the mutation; any pending
// suggestion the mutation collides with becomes stale.
//
// Returns ErrStaleSuggestion if the suggestion's anchor no longer
// matches the document, marking it stale as a side effect.
func (e *Engine) Accept(id suggestion.ID) (document.EditResult, error) {
	e.mu.Lock()
	res, err := e.acceptLocked(id)
	e.mu.Unlock()

	if err == nil && e.onChange != nil {
		e.onChange(res)
	}
	return res, err
}

func (e *Engine) acceptLocked(id suggestion.ID) (document.EditResult, error) {
	cs, s, err := e.findLocked(id)
	if err != nil {
		return document.EditResult{}, err
	}

	anchor, err := e.currentAnchorLocked(s)
	if err != nil {
		e.markStaleLocked(s, err)
		return document.EditResult{}, fmt.Errorf("accept %d: %w", id, ErrStaleSuggestion)
	}

	res, err := e.doc.ApplyEdit(document.Edit{
		Block:   anchor.Block,
		Range:   anchor.Range,
		NewText: s.ProposedText,
	})
	if err != nil {
		e.markStaleLocked(s, err)
		return document.EditResult{}, fmt.Errorf("accept %d: %w", id, ErrStaleSuggestion)
	}

	e.mapper.RecordEdit(res)
	s.Status = suggestion.Accepted
	cs.Remove(id)
	e.reanchorPendingLocked()

	e.logger.Debug("suggestion accepted",
		"id", uint64(id), "kind", s.Kind.String(), "anchor", anchor.String())
	return res, nil
}

// Reject prunes a suggestion without touching the document. No other
// suggestion moves.
func (e *Engine) Reject(id suggestion.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cs, s, err := e.findLocked(id)
	if err != nil {
		return err
	}
	s.Status = suggestion.Rejected
	cs.Remove(id)
	e.logger.Debug("suggestion rejected", "id", uint64(id))
	return nil
}

// BulkResult reports the suggestion ids a bulk resolution touched.
type BulkResult struct {
	Applied      []suggestion.ID
	Rejected     []suggestion.ID
	SkippedStale []suggestion.ID
}

// AcceptAll accepts every pending suggestion of the group in document
// order; a zero group spans every attached set. Suggestions found
// stale along the way are skipped and reported, never aborting the
// batch. The lock is taken per suggestion, not for the whole batch.
func (e *Engine) AcceptAll(group suggestion.GroupID) (BulkResult, error) {
	e.mu.Lock()
	if len(e.sets) == 0 {
		e.mu.Unlock()
		return BulkResult{}, ErrNoChangeSet
	}
	pending := e.pendingLocked(group)
	ids := make([]suggestion.ID, len(pending))
	for i, s := range pending {
		ids[i] = s.ID
	}
	e.mu.Unlock()

	var result BulkResult
	for _, id := range ids {
		_, err := e.Accept(id)
		switch {
		case err == nil:
			result.Applied = append(result.Applied, id)
		case errors.Is(err, ErrStaleSuggestion):
			result.SkippedStale = append(result.SkippedStale, id)
		case errors.Is(err, ErrUnknownSuggestion):
			// Resolved by a concurrent caller between batch planning
			// and this step.
		default:
			return result, err
		}
	}
	return result, nil
}

// RejectAll rejects every pending suggestion of the group; a zero
// group spans every attached set.
func (e *Engine) RejectAll(group suggestion.GroupID) (BulkResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sets) == 0 {
		return BulkResult{}, ErrNoChangeSet
	}

	var result BulkResult
	for _, cs := range e.sets {
		if group != "" && cs.GroupID() != group {
			continue
		}
		for _, s := range cs.Pending() {
			s.Status = suggestion.Rejected
			cs.Remove(s.ID)
			result.Rejected = append(result.Rejected, s.ID)
		}
	}
	return result, nil
}

// ApplyUserEdit applies a user edit to the document and re-anchors the
// pending suggestions around it. Pending suggestions whose anchors the
// edit collides with become stale.
func (e *Engine) ApplyUserEdit(edit document.Edit) (document.EditResult, error) {
	e.mu.Lock()
	res, err := e.doc.ApplyEdit(edit)
	if err == nil {
		e.mapper.RecordEdit(res)
		e.reanchorPendingLocked()
	}
	e.mu.Unlock()

	if err != nil {
		return document.EditResult{}, err
	}
	if e.onChange != nil {
		e.onChange(res)
	}
	return res, nil
}

// RemoveBlock retires a block through the engine, invalidating pending
// suggestions anchored in it.
func (e *Engine) RemoveBlock(id document.BlockID) (document.EditResult, error) {
	e.mu.Lock()
	res, err := e.doc.RemoveBlock(id)
	if err == nil {
		e.mapper.RecordEdit(res)
		e.reanchorPendingLocked()
	}
	e.mu.Unlock()

	if err != nil {
		return document.EditResult{}, err
	}
	if e.onChange != nil {
		e.onChange(res)
	}
	return res, nil
}

// findLocked resolves an id to its change set and suggestion. Only
// pending and stale suggestions remain attached; resolved ones were
// pruned, so their ids report ErrUnknownSuggestion.
func (e *Engine) findLocked(id suggestion.ID) (*suggestion.ChangeSet, *suggestion.Suggestion, error) {
	if len(e.sets) == 0 {
		return nil, nil, ErrNoChangeSet
	}
	for _, cs := range e.sets {
		s, ok := cs.ByID(id)
		if !ok {
			continue
		}
		if s.Status == suggestion.Stale {
			return nil, nil, fmt.Errorf("%w: %d", ErrStaleSuggestion, id)
		}
		return cs, s, nil
	}
	return nil, nil, fmt.Errorf("%w: %d", ErrUnknownSuggestion, id)
}

// currentAnchorLocked translates a suggestion's anchor to the current
// revision and verifies the anchored text still matches what the
// suggestion was built against.
func (e *Engine) currentAnchorLocked(s *suggestion.Suggestion) (document.Anchor, error) {
	anchor, err := e.mapper.TranslateRange(s.Anchor, s.CreatedAtRevision)
	if err != nil {
		return document.Anchor{}, err
	}

	text, err := e.doc.BlockText(anchor.Block)
	if err != nil {
		return document.Anchor{}, err
	}
	got, err := anchoredText(text, anchor.Range)
	if err != nil {
		return document.Anchor{}, err
	}
	if got != s.OriginalText {
		return document.Anchor{}, fmt.Errorf("anchored text %q does not match original %q", got, s.OriginalText)
	}
	return anchor, nil
}

// anchoredText extracts the text an anchor covers. A range extending
// one byte past the block's text covers the block separator.
func anchoredText(blockText string, r document.Range) (string, error) {
	if !r.IsValid() || r.Start > len(blockText) || r.End > len(blockText)+1 {
		return "", fmt.Errorf("range %s out of bounds for block of %d bytes", r, len(blockText))
	}
	if r.End > len(blockText) {
		return blockText[r.Start:] + "\n", nil
	}
	return blockText[r.Start:r.End], nil
}

// reanchorPendingLocked carries every pending anchor forward to the
// current revision, marking suggestions stale when translation fails.
// Afterward every pending anchor is valid at the current revision.
func (e *Engine) reanchorPendingLocked() {
	rev := e.doc.Revision()
	for _, cs := range e.sets {
		for _, s := range cs.Pending() {
			anchor, err := e.mapper.TranslateRange(s.Anchor, s.CreatedAtRevision)
			if err != nil {
				e.markStaleLocked(s, err)
				continue
			}
			s.Anchor = anchor
			s.CreatedAtRevision = rev
		}
	}
}

// markStaleLocked transitions a pending suggestion to stale. Stale
// suggestions stay attached so accepting one reports staleness rather
// than an unknown id.
func (e *Engine) markStaleLocked(s *suggestion.Suggestion, cause error) {
	s.Status = suggestion.Stale
	e.logger.Info("suggestion went stale",
		"id", uint64(s.ID), "anchor", s.Anchor.String(), "cause", cause.Error())
}

// sortByDocumentOrder sorts suggestions by block order, then by anchor
// start within a block. Arena IDs do not track document order after
// splits, so ordering goes through a snapshot.
func (e *Engine) sortByDocumentOrder(ss []*suggestion.Suggestion) {
	snap := e.doc.Snapshot()
	sort.SliceStable(ss, func(i, j int) bool {
		oi, oj := snap.OrderOf(ss[i].Anchor.Block), snap.OrderOf(ss[j].Anchor.Block)
		if oi != oj {
			return oi < oj
		}
		return ss[i].Anchor.Range.Start < ss[j].Anchor.Range.Start
	})
}
