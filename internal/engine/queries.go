package engine

import (
	"context"
	"log/slog"

	"github.com/cardwise/cardwise/internal/catalog"
	"github.com/cardwise/cardwise/store"
)

// defaultDescription is returned for cards without a saved note.
const defaultDescription = "Not found"

// ReviewStats is the per-card attempt summary.
type ReviewStats struct {
	TimesReviewed int
	TimesCorrect  int
	TimesWrong    int
	LastReviewed  int64
}

// GetDescription returns the user's saved note for a card, or a placeholder
// when the card has none.
func (s *Session) GetDescription(ctx context.Context, flashcardID string) string {
	insight, err := s.store.GetInsight(ctx, flashcardID)
	if err != nil || insight == nil || insight.Description == "" {
		return defaultDescription
	}
	return insight.Description
}

// SetDescription saves the user's note for a card. Editing a note counts as
// touching the card, so last_reviewed is refreshed alongside.
func (s *Session) SetDescription(ctx context.Context, flashcardID, description string) {
	nowMillis := s.now().UnixMilli()
	update := &store.UpdateInsight{
		FlashcardID:  flashcardID,
		Description:  &description,
		LastReviewed: &nowMillis,
	}
	if err := s.store.UpdateInsight(ctx, update); err != nil {
		slog.Warn("failed to save description", slog.String("flashcard", flashcardID), slog.String("error", err.Error()))
	}
}

// SetFavorite marks or unmarks a card as a favorite.
func (s *Session) SetFavorite(ctx context.Context, flashcardID string, favorite bool) {
	update := &store.UpdateInsight{
		FlashcardID: flashcardID,
		IsFavorite:  &favorite,
	}
	if err := s.store.UpdateInsight(ctx, update); err != nil {
		slog.Warn("failed to save favorite flag", slog.String("flashcard", flashcardID), slog.String("error", err.Error()))
	}
}

// IsFavorite reports whether a card is marked as a favorite.
func (s *Session) IsFavorite(ctx context.Context, flashcardID string) bool {
	insight, err := s.store.GetInsight(ctx, flashcardID)
	if err != nil || insight == nil {
		return false
	}
	return insight.IsFavorite
}

// LearnStatus returns the card's current learning state. Unseen cards
// report Unknown.
func (s *Session) LearnStatus(ctx context.Context, flashcardID string) store.LearnStatus {
	insight, err := s.store.GetInsight(ctx, flashcardID)
	if err != nil || insight == nil {
		return store.LearnStatusUnknown
	}
	return insight.LearnStatus
}

// Stats returns the card's attempt counters. Unseen cards report zeros.
func (s *Session) Stats(ctx context.Context, flashcardID string) ReviewStats {
	insight, err := s.store.GetInsight(ctx, flashcardID)
	if err != nil || insight == nil {
		return ReviewStats{}
	}
	return ReviewStats{
		TimesReviewed: insight.TimesReviewed,
		TimesCorrect:  insight.TimesCorrect,
		TimesWrong:    insight.TimesWrong,
		LastReviewed:  insight.LastReviewed,
	}
}

// WeekActivity returns the rolling activity window for the current course,
// index 0 being today.
func (s *Session) WeekActivity(ctx context.Context) [7]int {
	progress, err := s.store.GetCourseProgress(ctx, s.Course())
	if err != nil || progress == nil {
		return [7]int{}
	}
	return progress.Swipes
}

// LifetimeSwipes returns the total number of attempts ever recorded for the
// current course.
func (s *Session) LifetimeSwipes(ctx context.Context) int {
	progress, err := s.store.GetCourseProgress(ctx, s.Course())
	if err != nil || progress == nil {
		return 0
	}
	return progress.TotalSwipes
}

// TotalTimesReviewed returns the sum of per-card review counters across all
// cards of the installation.
func (s *Session) TotalTimesReviewed(ctx context.Context) int64 {
	total, err := s.store.SumTimesReviewed(ctx)
	if err != nil {
		slog.Warn("failed to sum review counters", slog.String("error", err.Error()))
		return 0
	}
	return total
}

// ResetSwipes zeroes every card's counters and puts its learning state back
// to Unknown, without deleting rows. Descriptions, favorites and cached
// positions survive.
func (s *Session) ResetSwipes(ctx context.Context) {
	affected, err := s.store.ResetInsightCounters(ctx)
	if err != nil {
		slog.Warn("failed to reset card counters", slog.String("error", err.Error()))
		return
	}
	slog.Info("card counters reset", slog.Int64("affected", affected))
}

// ResetAllCards deletes every insight row outright. The next reconciliation
// pass recreates them fresh; descriptions and favorites are lost with the
// rows, and cross-references cascade away.
func (s *Session) ResetAllCards(ctx context.Context) {
	if err := s.store.DeleteAllInsights(ctx); err != nil {
		slog.Warn("failed to delete insights", slog.String("error", err.Error()))
		return
	}
	slog.Info("all card insights deleted")
}

// ResetActivity zeroes the activity window and lifetime counter for the
// current course. Per-card statistics are untouched.
func (s *Session) ResetActivity(ctx context.Context) {
	courseID := s.Course()
	var swipes [7]int
	totalSwipes := 0
	update := &store.UpdateCourseProgress{
		CourseID:    courseID,
		Swipes:      &swipes,
		TotalSwipes: &totalSwipes,
	}
	if err := s.store.UpdateCourseProgress(ctx, update); err != nil {
		slog.Warn("failed to reset activity window", slog.String("course", courseID), slog.String("error", err.Error()))
	}
}

// ListCardsByCategory returns the cards linked to the named category, in
// catalog order.
func (s *Session) ListCardsByCategory(ctx context.Context, category string) []CardPick {
	return s.listCards(ctx, &store.FindInsight{Category: &category})
}

// ListFavoriteCards returns the cards marked as favorites, in catalog order.
func (s *Session) ListFavoriteCards(ctx context.Context) []CardPick {
	favorite := true
	return s.listCards(ctx, &store.FindInsight{IsFavorite: &favorite})
}

// ListForgottenCards returns the cards whose most recent attempt was a miss,
// in catalog order.
func (s *Session) ListForgottenCards(ctx context.Context) []CardPick {
	status := store.LearnStatusForgotten
	return s.listCards(ctx, &store.FindInsight{LearnStatus: &status})
}

func (s *Session) listCards(ctx context.Context, find *store.FindInsight) []CardPick {
	insights, err := s.store.ListInsights(ctx, find)
	if err != nil {
		slog.Warn("failed to list insights", slog.String("error", err.Error()))
		return nil
	}

	sections := s.current.Load().sections
	picks := make([]CardPick, 0, len(insights))
	for _, insight := range insights {
		if pick := resolvePosition(sections, insight.SectionIdx, insight.UnitIdx, insight.FlashcardID); pick != nil {
			picks = append(picks, *pick)
		}
	}
	return picks
}

// ListRecentCards returns the most recently reviewed cards, newest first.
func (s *Session) ListRecentCards(ctx context.Context, limit int) []CardPick {
	return s.listRecent(ctx, &store.FindRecentInsightPosition{Limit: limit})
}

// ListRecentMisses returns the most recently missed cards, newest first.
func (s *Session) ListRecentMisses(ctx context.Context, limit int) []CardPick {
	return s.listRecent(ctx, &store.FindRecentInsightPosition{OnlyForgotten: true, Limit: limit})
}

func (s *Session) listRecent(ctx context.Context, find *store.FindRecentInsightPosition) []CardPick {
	positions, err := s.store.ListRecentInsightPositions(ctx, find)
	if err != nil {
		slog.Warn("failed to list recent positions", slog.String("error", err.Error()))
		return nil
	}

	sections := s.current.Load().sections
	picks := make([]CardPick, 0, len(positions))
	for _, pos := range positions {
		if pick := resolvePosition(sections, pos.SectionIdx, pos.UnitIdx, pos.FlashcardID); pick != nil {
			picks = append(picks, *pick)
		}
	}
	return picks
}

// resolvePosition maps a cached (section, unit) position and flashcard id to
// the concrete card in the current catalog. Stale positions resolve to nil.
func resolvePosition(sections []catalog.Section, sectionIdx, unitIdx int, flashcardID string) *CardPick {
	if sectionIdx < 0 || sectionIdx >= len(sections) {
		return nil
	}
	section := sections[sectionIdx]
	if unitIdx < 0 || unitIdx >= len(section.Units) {
		return nil
	}
	for cardIdx, card := range section.Units[unitIdx].Cards {
		if card.WordID == flashcardID {
			return &CardPick{
				SectionIdx: sectionIdx,
				UnitIdx:    unitIdx,
				CardIdx:    cardIdx,
				Card:       card,
			}
		}
	}
	return nil
}
