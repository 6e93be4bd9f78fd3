package review

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/redline/internal/engine/align"
	"github.com/dshills/redline/internal/engine/document"
	"github.com/dshills/redline/internal/engine/mapping"
	"github.com/dshills/redline/internal/engine/resolve"
	"github.com/dshills/redline/internal/engine/suggestion"
	"github.com/dshills/redline/internal/engine/textdiff"
)

// ChangeObserver is notified after every applied document mutation,
// whether it came from an accepted suggestion or a user edit.
type ChangeObserver interface {
	OnChange(res document.EditResult)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger shared by the session's components.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMaxDiffBytes bounds the inputs ComputeSuggestions will diff.
func WithMaxDiffBytes(n int) Option {
	return func(s *Session) {
		s.diffOpts.MaxBytes = n
	}
}

// WithMaxRules bounds the position mapper's rule history.
func WithMaxRules(n int) Option {
	return func(s *Session) {
		s.maxRules = n
	}
}

// Session manages the suggestion workflow for one open document.
type Session struct {
	doc      *document.Document
	engine   *resolve.Engine
	builder  *suggestion.Builder
	diffOpts textdiff.Options
	maxRules int
	logger   *slog.Logger

	mu        sync.Mutex
	observers []ChangeObserver
}

// NewSession creates a review session around a document.
func NewSession(doc *document.Document, opts ...Option) *Session {
	s := &Session{doc: doc}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	mapperOpts := []mapping.Option{}
	if s.maxRules > 0 {
		mapperOpts = append(mapperOpts, mapping.WithMaxRules(s.maxRules))
	}
	s.engine = resolve.NewEngine(doc,
		resolve.WithLogger(s.logger),
		resolve.WithMapper(mapping.NewMapper(mapperOpts...)),
		resolve.WithChangeHook(s.notify),
	)
	s.builder = suggestion.NewBuilder(suggestion.WithLogger(s.logger))
	return s
}

// Document returns the session's document.
func (s *Session) Document() *document.Document {
	return s.doc
}

// Subscribe registers an observer for document mutations.
func (s *Session) Subscribe(obs ChangeObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

func (s *Session) notify(res document.EditResult) {
	s.mu.Lock()
	observers := make([]ChangeObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, obs := range observers {
		obs.OnChange(res)
	}
}

// ComputeSuggestions diffs the snapshot text against a proposed
// rewrite and builds an unanchored change set. Pure: it touches no
// session state beyond the suggestion id counter, so it is safe to run
// on a background goroutine while the user edits.
func (s *Session) ComputeSuggestions(original, proposed string, snap *document.Snapshot) (*suggestion.ChangeSet, error) {
	ops, err := textdiff.Compute(original, proposed, s.diffOpts)
	if err != nil {
		return nil, fmt.Errorf("compute suggestions: %w", err)
	}
	aligned, err := align.Align(ops, snap.BlockSpans())
	if err != nil {
		return nil, fmt.Errorf("compute suggestions: %w", err)
	}
	return s.builder.Build(aligned, suggestion.NewGroupID()), nil
}

// Propose computes suggestions for a proposed rewrite of the current
// document text and attaches them in one step.
func (s *Session) Propose(proposed string) (*suggestion.ChangeSet, error) {
	snap := s.doc.Snapshot()
	cs, err := s.ComputeSuggestions(snap.Text(), proposed, snap)
	if err != nil {
		return nil, err
	}
	s.Attach(cs)
	return cs, nil
}

// Attach anchors a change set to the document at its current revision,
// superseding any previously attached set with overlapping pendings.
// Sets for disjoint regions coexist.
func (s *Session) Attach(cs *suggestion.ChangeSet) {
	s.engine.Attach(cs)
}

// Accept applies a suggestion to the document.
func (s *Session) Accept(id suggestion.ID) (document.EditResult, error) {
	return s.engine.Accept(id)
}

// Reject marks a suggestion rejected without touching the document.
func (s *Session) Reject(id suggestion.ID) error {
	return s.engine.Reject(id)
}

// AcceptAll accepts every pending suggestion of the group in document
// order, skipping and reporting any found stale along the way. A zero
// group spans every attached change set.
func (s *Session) AcceptAll(group suggestion.GroupID) (resolve.BulkResult, error) {
	return s.engine.AcceptAll(group)
}

// RejectAll rejects every pending suggestion of the group; a zero
// group spans every attached change set.
func (s *Session) RejectAll(group suggestion.GroupID) (resolve.BulkResult, error) {
	return s.engine.RejectAll(group)
}

// ApplyUserEdit routes a direct user edit through the engine so
// pending suggestions are re-anchored around it.
func (s *Session) ApplyUserEdit(edit document.Edit) (document.EditResult, error) {
	return s.engine.ApplyUserEdit(edit)
}

// GetPending returns every pending suggestion in document order, with
// anchors valid against the current document text.
func (s *Session) GetPending() []*suggestion.Suggestion {
	return s.engine.Pending()
}

// GetPendingGroup returns one group's pending suggestions in document
// order.
func (s *Session) GetPendingGroup(group suggestion.GroupID) []*suggestion.Suggestion {
	return s.engine.PendingGroup(group)
}

// ChangeSet returns the attached change set for a group, or nil.
func (s *Session) ChangeSet(group suggestion.GroupID) *suggestion.ChangeSet {
	return s.engine.ChangeSet(group)
}
