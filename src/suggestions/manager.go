package suggestions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Platform is the chat side of the lifecycle. The Discord module implements it.
type Platform interface {
	PostSuggestion(ctx context.Context, rec *Record) (string, error)
	RetractVote(ctx context.Context, messageID, userID string, mark Mark) error
	DeleteMessage(ctx context.Context, messageID string) error
	PostDecision(ctx context.Context, rec *Record) error
	PostPanel(ctx context.Context) (string, error)
	DeletePanel(ctx context.Context, messageID string) error
}

// Options tune the lifecycle manager.
type Options struct {
	// AllowRedecide lets staff overwrite a decision that was already made.
	AllowRedecide bool
}

// Manager owns every mutation of suggestion records.
type Manager struct {
	store    Store
	platform Platform
	opts     Options
	now      func() time.Time
}

// errUnchanged aborts an Update without saving.
var errUnchanged = errors.New("unchanged")

func NewManager(store Store, platform Platform, opts Options) *Manager {
	return &Manager{
		store:    store,
		platform: platform,
		opts:     opts,
		now:      time.Now,
	}
}

// Submit validates content, posts it and records a new pending suggestion.
// Content is stored exactly as submitted.
func (m *Manager) Submit(ctx context.Context, authorID, content string) (*Record, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	id, err := m.store.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate suggestion id: %w", err)
	}

	rec := &Record{
		ID:        id,
		AuthorID:  authorID,
		Content:   content,
		Votes:     NewVotes(),
		Status:    StatusPending,
		CreatedAt: m.now().UTC(),
	}

	messageID, err := m.platform.PostSuggestion(ctx, rec.Clone())
	if err != nil {
		return nil, fmt.Errorf("post suggestion #%d: %w", id, err)
	}
	rec.MessageID = messageID

	if err := m.store.Update(ctx, func(doc *Document) error {
		doc.Suggestions = append(doc.Suggestions, rec.Clone())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("save suggestion #%d: %w", id, err)
	}
	log.Printf("suggestions: #%d submitted by %s (message %s)", id, authorID, messageID)

	if err := m.RefreshPanel(ctx); err != nil {
		log.Printf("suggestions: refresh panel after #%d: %v", id, err)
	}
	return rec, nil
}

// RegisterVote records mark for userID on the suggestion shown by messageID.
// Holding the opposite mark switches the vote and retracts the old reaction.
func (m *Manager) RegisterVote(ctx context.Context, messageID, userID string, mark Mark) error {
	if !mark.Valid() {
		return fmt.Errorf("%w: unknown mark %q", ErrValidation, mark)
	}

	var retract bool
	err := m.store.Update(ctx, func(doc *Document) error {
		rec := doc.FindByMessage(messageID)
		if rec == nil {
			log.Printf("suggestions: vote on untracked message %s ignored", messageID)
			return errUnchanged
		}
		if rec.Status != StatusPending {
			return errUnchanged
		}
		retract = rec.Votes.Remove(mark.Opposite(), userID)
		added := rec.Votes.Add(mark, userID)
		if !retract && !added {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("register vote: %w", err)
	}

	if retract {
		if err := m.platform.RetractVote(ctx, messageID, userID, mark.Opposite()); err != nil {
			log.Printf("suggestions: retract %s reaction of %s on %s: %v", mark.Opposite(), userID, messageID, err)
		}
	}
	return nil
}

// UnregisterVote drops mark for userID if held.
func (m *Manager) UnregisterVote(ctx context.Context, messageID, userID string, mark Mark) error {
	if !mark.Valid() {
		return fmt.Errorf("%w: unknown mark %q", ErrValidation, mark)
	}

	err := m.store.Update(ctx, func(doc *Document) error {
		rec := doc.FindByMessage(messageID)
		if rec == nil || rec.Status != StatusPending || !rec.Votes.Remove(mark, userID) {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unregister vote: %w", err)
	}
	return nil
}

// Decide approves or rejects a suggestion, removes its message and posts
// the summary to the review channel.
func (m *Manager) Decide(ctx context.Context, id int64, outcome Outcome, staffID, reason string) (*Record, error) {
	if outcome != OutcomeApprove && outcome != OutcomeReject {
		return nil, fmt.Errorf("%w: unknown outcome %q", ErrValidation, outcome)
	}

	var decided *Record
	err := m.store.Update(ctx, func(doc *Document) error {
		rec := doc.Find(id)
		if rec == nil {
			return fmt.Errorf("%w: #%d", ErrNotFound, id)
		}
		if rec.Status != StatusPending && !m.opts.AllowRedecide {
			return fmt.Errorf("%w: #%d is %s", ErrAlreadyDecided, id, rec.Status)
		}

		at := m.now().UTC()
		rec.Status = outcome.Status()
		// A re-decision without a reason keeps the earlier response.
		if reason = strings.TrimSpace(reason); reason != "" {
			rec.StaffResponse = &reason
		}
		rec.DecidedBy = staffID
		rec.DecidedAt = &at
		decided = rec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("suggestions: #%d %s by %s", id, decided.Status, staffID)

	if decided.MessageID != "" {
		if err := m.platform.DeleteMessage(ctx, decided.MessageID); err != nil {
			log.Printf("suggestions: delete message for #%d: %v", id, err)
		}
	}
	if err := m.platform.PostDecision(ctx, decided.Clone()); err != nil {
		log.Printf("suggestions: post decision for #%d: %v", id, err)
	}
	if err := m.RefreshPanel(ctx); err != nil {
		log.Printf("suggestions: refresh panel after decision #%d: %v", id, err)
	}
	return decided, nil
}

// Votes returns a copy of the suggestion so callers can render both vote sets.
func (m *Manager) Votes(ctx context.Context, id int64) (*Record, error) {
	return m.Get(ctx, id)
}

// Get returns a copy of a single suggestion.
func (m *Manager) Get(ctx context.Context, id int64) (*Record, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	rec := doc.Find(id)
	if rec == nil {
		return nil, fmt.Errorf("%w: #%d", ErrNotFound, id)
	}
	return rec.Clone(), nil
}

// List returns copies of all suggestions, optionally filtered by status.
func (m *Manager) List(ctx context.Context, status Status) ([]*Record, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(doc.Suggestions))
	for _, rec := range doc.Suggestions {
		if status != "" && rec.Status != status {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

// IsTracked reports whether messageID displays a suggestion or is the panel.
func (m *Manager) IsTracked(ctx context.Context, messageID string) (bool, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return false, err
	}
	return doc.FindByMessage(messageID) != nil || doc.Panel() == messageID, nil
}

// RefreshPanel keeps exactly one panel at the bottom of the channel: it
// posts a new one, swaps the stored id and retires the previous message.
func (m *Manager) RefreshPanel(ctx context.Context) error {
	messageID, err := m.platform.PostPanel(ctx)
	if err != nil {
		return fmt.Errorf("post panel: %w", err)
	}

	var previous string
	if err := m.store.Update(ctx, func(doc *Document) error {
		previous = doc.Panel()
		doc.SetPanel(messageID)
		return nil
	}); err != nil {
		if delErr := m.platform.DeletePanel(ctx, messageID); delErr != nil {
			log.Printf("suggestions: discard unsaved panel %s: %v", messageID, delErr)
		}
		return fmt.Errorf("save panel id: %w", err)
	}

	if previous != "" && previous != messageID {
		if err := m.platform.DeletePanel(ctx, previous); err != nil {
			log.Printf("suggestions: delete old panel %s: %v", previous, err)
		}
	}
	return nil
}
