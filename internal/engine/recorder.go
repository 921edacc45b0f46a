package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/cardwise/cardwise/store"
)

// Outcome is the result of one card attempt.
type Outcome int

const (
	OutcomeCorrect Outcome = iota
	OutcomeIncorrect
)

// statusCooldown is the minimum dwell time in Learning before a correct
// answer promotes a card to Known. A card answered correctly twice within
// one sitting should not be banked as mastered.
const statusCooldown = 30 * time.Minute

// RecordSwipe persists one attempt on a card: counters, the learning-state
// transition and the daily activity window. A card with no insight row is
// logged and skipped; swipes are only valid against reconciled cards.
func (s *Session) RecordSwipe(ctx context.Context, flashcardID string, outcome Outcome) {
	insight, err := s.store.GetInsight(ctx, flashcardID)
	if err != nil {
		slog.Warn("failed to load insight for swipe", slog.String("flashcard", flashcardID), slog.String("error", err.Error()))
		return
	}
	if insight == nil {
		slog.Warn("swipe on unknown flashcard ignored", slog.String("flashcard", flashcardID))
		return
	}

	now := s.now()
	nowMillis := now.UnixMilli()

	timesReviewed := insight.TimesReviewed + 1
	update := &store.UpdateInsight{
		FlashcardID:   flashcardID,
		TimesReviewed: &timesReviewed,
		LastReviewed:  &nowMillis,
	}
	if outcome == OutcomeCorrect {
		timesCorrect := insight.TimesCorrect + 1
		update.TimesCorrect = &timesCorrect
	} else {
		timesWrong := insight.TimesWrong + 1
		update.TimesWrong = &timesWrong
	}

	next := nextStatus(insight.LearnStatus, outcome, insight.LastStatusChange, now)
	if next != insight.LearnStatus {
		update.LearnStatus = &next
		update.LastStatusChange = &nowMillis
	}

	if err := s.store.UpdateInsight(ctx, update); err != nil {
		slog.Warn("failed to record swipe", slog.String("flashcard", flashcardID), slog.String("error", err.Error()))
		return
	}

	s.bumpActivity(ctx)
}

// nextStatus applies the learning-state machine for one attempt. A miss
// always demotes to Forgotten. A hit moves Unknown and Forgotten cards into
// Learning; a Learning card is promoted to Known only after the cooldown
// since its last transition has elapsed.
func nextStatus(current store.LearnStatus, outcome Outcome, lastChangeMillis int64, now time.Time) store.LearnStatus {
	if outcome == OutcomeIncorrect {
		return store.LearnStatusForgotten
	}
	switch current {
	case store.LearnStatusUnknown, store.LearnStatusForgotten:
		return store.LearnStatusLearning
	case store.LearnStatusLearning:
		lastChange := time.UnixMilli(lastChangeMillis)
		if now.Sub(lastChange) >= statusCooldown {
			return store.LearnStatusKnown
		}
		return store.LearnStatusLearning
	default:
		return current
	}
}

// bumpActivity increments today's slot of the rolling activity window and
// the lifetime counter for the current course.
func (s *Session) bumpActivity(ctx context.Context) {
	courseID := s.Course()
	progress, err := s.store.GetCourseProgress(ctx, courseID)
	if err != nil || progress == nil {
		slog.Warn("failed to load course progress for swipe", slog.String("course", courseID))
		return
	}

	swipes := progress.Swipes
	swipes[0]++
	totalSwipes := progress.TotalSwipes + 1
	update := &store.UpdateCourseProgress{
		CourseID:    courseID,
		Swipes:      &swipes,
		TotalSwipes: &totalSwipes,
	}
	if err := s.store.UpdateCourseProgress(ctx, update); err != nil {
		slog.Warn("failed to update activity window", slog.String("course", courseID), slog.String("error", err.Error()))
	}
}
