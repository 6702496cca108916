// Package ledger owns the workout-session collection and its
// one-session-per-calendar-day invariant. Saving onto an occupied date
// merges body parts, exercise logs, and duration instead of inserting a
// second record.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/claude/liftplan/internal/models"
)

// Store is the persistence collaborator behind the ledger. The ledger
// hydrates from LoadAll at construction and writes through on every
// mutation. Implementations may block; all calls carry a context.
type Store interface {
	LoadAll(ctx context.Context) ([]models.WorkoutSession, error)
	SaveSession(ctx context.Context, s models.WorkoutSession) error
	DeleteSession(ctx context.Context, date string) error
}

// Ledger is the in-process session collection. All methods are safe for
// concurrent use; reads return copies so callers never observe a
// partially merged session.
type Ledger struct {
	mu       sync.Mutex
	store    Store                   // nil means memory-only
	sessions []models.WorkoutSession // insertion order
	byDate   map[string]int          // date -> index into sessions
}

// NewMemory returns a ledger with no backing store. State lives only in
// process memory; used by tests and the reference in-memory mode.
func NewMemory() *Ledger {
	return &Ledger{byDate: make(map[string]int)}
}

// New returns a ledger hydrated from the given store. Sessions load in
// the store's order, which the store preserves from insertion.
func New(ctx context.Context, store Store) (*Ledger, error) {
	l := &Ledger{store: store, byDate: make(map[string]int)}
	if store == nil {
		return l, nil
	}
	sessions, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("hydrating ledger: %w", err)
	}
	for _, s := range sessions {
		l.sessions = append(l.sessions, s)
		l.byDate[s.Date] = len(l.sessions) - 1
	}
	return l, nil
}

// Save inserts the session, or merges it into the existing record for
// its date: body-part union (first-seen order), exercise logs
// concatenated without dedup, durations summed, and the completed flag
// taken from the incoming session. The existing record keeps its ID and
// training type.
//
// A store write failure still applies the change in memory; the error
// tells the caller persistence did not confirm.
func (l *Ledger) Save(ctx context.Context, session models.WorkoutSession) error {
	if _, err := models.ParseDate(session.Date); err != nil {
		return err
	}
	if session.ID == "" {
		session.ID = models.SessionID(session.Date)
	}

	l.mu.Lock()
	var merged models.WorkoutSession
	if i, ok := l.byDate[session.Date]; ok {
		merged = merge(l.sessions[i], session)
		l.sessions[i] = merged
	} else {
		merged = clone(session)
		l.sessions = append(l.sessions, merged)
		l.byDate[session.Date] = len(l.sessions) - 1
	}
	l.mu.Unlock()

	return l.persist(ctx, merged)
}

// Update replaces the record for session.Date wholesale, inserting if
// none exists.
func (l *Ledger) Update(ctx context.Context, session models.WorkoutSession) error {
	if _, err := models.ParseDate(session.Date); err != nil {
		return err
	}
	if session.ID == "" {
		session.ID = models.SessionID(session.Date)
	}

	l.mu.Lock()
	stored := clone(session)
	if i, ok := l.byDate[session.Date]; ok {
		l.sessions[i] = stored
	} else {
		l.sessions = append(l.sessions, stored)
		l.byDate[session.Date] = len(l.sessions) - 1
	}
	l.mu.Unlock()

	return l.persist(ctx, stored)
}

// Delete removes any session on the given date. Deleting a date with no
// session is a no-op, not an error.
func (l *Ledger) Delete(ctx context.Context, date string) error {
	if _, err := models.ParseDate(date); err != nil {
		return err
	}

	l.mu.Lock()
	i, ok := l.byDate[date]
	if ok {
		l.sessions = append(l.sessions[:i], l.sessions[i+1:]...)
		delete(l.byDate, date)
		for j := i; j < len(l.sessions); j++ {
			l.byDate[l.sessions[j].Date] = j
		}
	}
	l.mu.Unlock()

	if !ok || l.store == nil {
		return nil
	}
	if err := l.store.DeleteSession(ctx, date); err != nil {
		return fmt.Errorf("persisting delete: %w", err)
	}
	return nil
}

// MarkCompleted sets the completion flag on the session for a date.
// No-op if none exists.
func (l *Ledger) MarkCompleted(ctx context.Context, date string) error {
	if _, err := models.ParseDate(date); err != nil {
		return err
	}

	l.mu.Lock()
	i, ok := l.byDate[date]
	var updated models.WorkoutSession
	if ok {
		l.sessions[i].Completed = true
		updated = l.sessions[i]
	}
	l.mu.Unlock()

	if !ok {
		return nil
	}
	return l.persist(ctx, updated)
}

// All returns every session in insertion order.
func (l *Ledger) All() []models.WorkoutSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.WorkoutSession, 0, len(l.sessions))
	for _, s := range l.sessions {
		out = append(out, clone(s))
	}
	return out
}

// ByDate returns the session for an exact date. Absence is a normal
// outcome, reported as ok=false.
func (l *Ledger) ByDate(date string) (models.WorkoutSession, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.byDate[date]
	if !ok {
		return models.WorkoutSession{}, false
	}
	return clone(l.sessions[i]), true
}

func (l *Ledger) persist(ctx context.Context, s models.WorkoutSession) error {
	if l.store == nil {
		return nil
	}
	if err := l.store.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("persisting session %s: %w", s.Date, err)
	}
	return nil
}

// merge folds an incoming save into the existing record for the same
// date. The incoming completed flag always wins, so a partial
// add-another-body-part save can move a session back to in-progress.
func merge(existing, incoming models.WorkoutSession) models.WorkoutSession {
	out := clone(existing)

	have := make(map[models.BodyPart]bool, len(out.BodyParts))
	for _, p := range out.BodyParts {
		have[p] = true
	}
	for _, p := range incoming.BodyParts {
		if !have[p] {
			out.BodyParts = append(out.BodyParts, p)
			have[p] = true
		}
	}

	out.Exercises = append(out.Exercises, incoming.Exercises...)

	if existing.Duration != nil || incoming.Duration != nil {
		total := 0
		if existing.Duration != nil {
			total += *existing.Duration
		}
		if incoming.Duration != nil {
			total += *incoming.Duration
		}
		out.Duration = &total
	}

	out.Completed = incoming.Completed
	return out
}

func clone(s models.WorkoutSession) models.WorkoutSession {
	out := s
	out.BodyParts = append([]models.BodyPart(nil), s.BodyParts...)
	out.Exercises = append([]models.ExerciseLog(nil), s.Exercises...)
	if s.Duration != nil {
		d := *s.Duration
		out.Duration = &d
	}
	return out
}
