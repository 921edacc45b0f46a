package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/cardwise/cardwise/store"
)

const (
	windowSize   = 7
	millisPerDay = 24 * 60 * 60 * 1000
)

// epochDay computes days since the Unix epoch, adjusted for the instant's
// timezone offset, so a day boundary is the local midnight.
func epochDay(now time.Time) int64 {
	_, offsetSeconds := now.Zone()
	return (now.UnixMilli() + int64(offsetSeconds)*1000) / millisPerDay
}

// loadProgress fetches (or creates) the course's progress row, rotates the
// activity windows of every course to today, and caches the progress cursor.
// Any storage failure falls back to a default cursor, logged, not propagated.
func (s *Session) loadProgress(ctx context.Context, courseID string) {
	today := epochDay(s.now())

	existing, err := s.store.GetCourseProgress(ctx, courseID)
	if err != nil {
		slog.Error("failed to load course progress, using defaults",
			slog.String("course", courseID),
			slog.String("error", err.Error()))
		s.setProgressCursorLocal(0, 0)
		return
	}

	if existing == nil {
		// First time this course is played.
		if _, err := s.store.UpsertCourseProgress(ctx, &store.CourseProgress{
			CourseID:            courseID,
			LastCheckedEpochDay: today,
		}); err != nil {
			slog.Error("failed to create course progress",
				slog.String("course", courseID),
				slog.String("error", err.Error()))
		}
		s.setProgressCursorLocal(0, 0)
		return
	}

	s.setProgressCursorLocal(existing.ProgressedSection, existing.ProgressedUnit)

	delta := int(today - existing.LastCheckedEpochDay)
	if delta < 0 {
		// Clock moved backward; never rotate backward.
		delta = 0
	}
	s.shiftAllWindows(ctx, delta, today)
}

// shiftAllWindows rotates the 7-day window of every course's progress row by
// delta days. Rotating every row, not just the active course's, keeps
// inactive courses from accumulating phantom gaps while switched away.
func (s *Session) shiftAllWindows(ctx context.Context, delta int, today int64) {
	if delta <= 0 {
		return
	}

	allProgress, err := s.store.ListCourseProgress(ctx, &store.FindCourseProgress{})
	if err != nil {
		slog.Error("failed to list course progress for day shift", slog.String("error", err.Error()))
		return
	}

	for _, progress := range allProgress {
		shifted := shiftWindow(progress.Swipes, delta)
		if err := s.store.UpdateCourseProgress(ctx, &store.UpdateCourseProgress{
			CourseID:            progress.CourseID,
			Swipes:              &shifted,
			LastCheckedEpochDay: &today,
		}); err != nil {
			slog.Error("failed to shift activity window",
				slog.String("course", progress.CourseID),
				slog.String("error", err.Error()))
		}
	}
}

// shiftWindow shifts the window right by delta slots: slot k becomes slot
// k+delta, data older than the window is discarded, and the delta newest
// slots become zero. A delta of windowSize or more clears the whole window.
func shiftWindow(old [windowSize]int, delta int) [windowSize]int {
	var shifted [windowSize]int
	if delta >= windowSize {
		return shifted
	}
	for idx := delta; idx < windowSize; idx++ {
		shifted[idx] = old[idx-delta]
	}
	return shifted
}
