// Package engine implements the card-selection and progress-tracking engine:
// catalog reconciliation, the rolling activity window, weighted card
// selection and the per-card learning-state machine. The UI layer drives it
// through a Session and never touches the stores directly.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cardwise/cardwise/internal/catalog"
	"github.com/cardwise/cardwise/store"
)

// Clock returns the current instant. Injected so tests can simulate day
// rollovers and cooldown expiry deterministically.
type Clock func() time.Time

// snapshot is the immutable per-course state published on course switch.
type snapshot struct {
	courseID string
	sections []catalog.Section
}

// Session is the engine handle for one device-local user. All state flows
// through the injected store and catalog loader; there are no globals.
type Session struct {
	store  *store.Store
	loader *catalog.Loader
	now    Clock

	current atomic.Pointer[snapshot]

	mu                sync.Mutex
	progressedSection int
	progressedUnit    int
	notice            string
}

// NewSession creates a session over the given store and catalog loader.
// A nil clock defaults to time.Now.
func NewSession(s *store.Store, loader *catalog.Loader, now Clock) *Session {
	if now == nil {
		now = time.Now
	}
	session := &Session{
		store:  s,
		loader: loader,
		now:    now,
	}
	session.current.Store(&snapshot{})
	return session
}

// SwitchCourse loads the course catalog, reconciles the persisted stores
// against it and aligns the activity window to today. The catalog snapshot
// is published atomically; readers never observe a half-swapped catalog.
// Failures degrade to defaults and are logged, never propagated: worst case
// the user sees an empty deck.
func (s *Session) SwitchCourse(ctx context.Context, courseID string) {
	sections := s.loader.LoadCourse(courseID)
	s.current.Store(&snapshot{courseID: courseID, sections: sections})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.runReconciliation(gctx, sections)
		return nil
	})
	g.Go(func() error {
		s.loadProgress(gctx, courseID)
		return nil
	})
	// Both tasks report failure by falling back to defaults internally.
	_ = g.Wait()
}

// Course returns the currently loaded course id.
func (s *Session) Course() string {
	return s.current.Load().courseID
}

// Sections returns the current catalog snapshot.
func (s *Session) Sections() []catalog.Section {
	return s.current.Load().sections
}

// Notice returns the advisory reconciliation notice, or "" if there is none.
// The UI displays it and clears it explicitly.
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// ClearNotice dismisses the advisory reconciliation notice.
func (s *Session) ClearNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = ""
}

func (s *Session) setNotice(notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = notice
}

// ProgressCursor returns the progressed (section, unit) cursor: the furthest
// point the user has banked as learned.
func (s *Session) ProgressCursor() (sectionIdx, unitIdx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressedSection, s.progressedUnit
}

func (s *Session) setProgressCursorLocal(sectionIdx, unitIdx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressedSection = sectionIdx
	s.progressedUnit = unitIdx
}

// SetProgressCursor overwrites the progress cursor, both persisted and
// in-memory.
func (s *Session) SetProgressCursor(ctx context.Context, sectionIdx, unitIdx int) {
	courseID := s.Course()
	if err := s.store.UpdateCourseProgress(ctx, &store.UpdateCourseProgress{
		CourseID:          courseID,
		ProgressedSection: &sectionIdx,
		ProgressedUnit:    &unitIdx,
	}); err != nil {
		slog.Error("failed to persist progress cursor",
			slog.String("course", courseID),
			slog.String("error", err.Error()))
	}
	s.setProgressCursorLocal(sectionIdx, unitIdx)
}
