package store

import (
	"context"
)

// LearnStatus is the learning state of a card.
type LearnStatus int

const (
	// LearnStatusUnknown means the card has never been attempted.
	LearnStatusUnknown LearnStatus = iota
	// LearnStatusLearning means at least one correct answer since the last miss.
	LearnStatusLearning
	// LearnStatusKnown means sustained correct performance.
	LearnStatusKnown
	// LearnStatusForgotten means the most recent answer was wrong.
	LearnStatusForgotten
)

func (s LearnStatus) String() string {
	switch s {
	case LearnStatusUnknown:
		return "UNKNOWN"
	case LearnStatusLearning:
		return "LEARNING"
	case LearnStatusKnown:
		return "KNOWN"
	case LearnStatusForgotten:
		return "FORGOTTEN"
	}
	return "UNKNOWN"
}

// Insight is the persisted per-card statistics row, keyed by the card's
// catalog wordId. SectionIdx and UnitIdx cache the card's catalog position
// and are kept in sync by reconciliation.
type Insight struct {
	FlashcardID      string
	TimesReviewed    int
	TimesCorrect     int
	TimesWrong       int
	LastReviewed     int64
	Description      string
	SectionIdx       int
	UnitIdx          int
	LearnStatus      LearnStatus
	LastStatusChange int64
	IsFavorite       bool
}

// FindInsight is the find condition for insights.
type FindInsight struct {
	FlashcardID *string
	LearnStatus *LearnStatus
	IsFavorite  *bool
	// Category restricts results to cards linked to the named category.
	Category *string
}

// UpdateInsight is the update request for an insight.
type UpdateInsight struct {
	FlashcardID      string
	TimesReviewed    *int
	TimesCorrect     *int
	TimesWrong       *int
	LastReviewed     *int64
	Description      *string
	SectionIdx       *int
	UnitIdx          *int
	LearnStatus      *LearnStatus
	LastStatusChange *int64
	IsFavorite       *bool
}

// FindInsightScore selects the candidate pool for a weighted pick. The four
// filters are mutually exclusive: a single (section, unit), a category, a
// progress bound, or a learn status.
type FindInsightScore struct {
	SectionIdx *int
	UnitIdx    *int

	Category *string

	// MaxSectionIdx/MaxUnitIdx bound the pool to catalog positions at or
	// before the progressed (section, unit) cursor.
	MaxSectionIdx *int
	MaxUnitIdx    *int

	LearnStatus *LearnStatus

	Limit int
}

// InsightScore is one weighted-pick candidate: a uniform random component in
// [0, 100) plus a fixed boost when the card's last outcome was a miss.
type InsightScore struct {
	FlashcardID   string
	MistakeWeight float64
	Score         float64
}

// InsightPosition is the cached catalog position of an insight row.
type InsightPosition struct {
	FlashcardID string
	SectionIdx  int
	UnitIdx     int
}

// FindRecentInsightPosition finds recently reviewed positions, newest first.
type FindRecentInsightPosition struct {
	// OnlyForgotten restricts results to cards whose last outcome was a miss.
	OnlyForgotten bool
	Limit         int
}

// CreateInsight creates a new insight row.
func (s *Store) CreateInsight(ctx context.Context, create *Insight) (*Insight, error) {
	return s.driver.CreateInsight(ctx, create)
}

// ListInsights lists insights with filter.
func (s *Store) ListInsights(ctx context.Context, find *FindInsight) ([]*Insight, error) {
	return s.driver.ListInsights(ctx, find)
}

// GetInsight gets a single insight, or nil if none exists.
func (s *Store) GetInsight(ctx context.Context, flashcardID string) (*Insight, error) {
	list, err := s.driver.ListInsights(ctx, &FindInsight{FlashcardID: &flashcardID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateInsight updates an insight row in place.
func (s *Store) UpdateInsight(ctx context.Context, update *UpdateInsight) error {
	return s.driver.UpdateInsight(ctx, update)
}

// ResetInsightCounters zeroes every card's counters and learning state while
// preserving descriptions and favorite flags.
func (s *Store) ResetInsightCounters(ctx context.Context) (int64, error) {
	return s.driver.ResetInsightCounters(ctx)
}

// DeleteAllInsights removes every insight row outright.
func (s *Store) DeleteAllInsights(ctx context.Context) error {
	return s.driver.DeleteAllInsights(ctx)
}

// DeleteDuplicateInsights keeps one canonical row per flashcard id.
func (s *Store) DeleteDuplicateInsights(ctx context.Context) (int64, error) {
	return s.driver.DeleteDuplicateInsights(ctx)
}

// SumTimesReviewed returns the catalog-wide total of reviewed counters.
func (s *Store) SumTimesReviewed(ctx context.Context) (int64, error) {
	return s.driver.SumTimesReviewed(ctx)
}

// ListInsightScores runs the weighted candidate query.
func (s *Store) ListInsightScores(ctx context.Context, find *FindInsightScore) ([]*InsightScore, error) {
	return s.driver.ListInsightScores(ctx, find)
}

// ListRecentInsightPositions lists recently reviewed card positions.
func (s *Store) ListRecentInsightPositions(ctx context.Context, find *FindRecentInsightPosition) ([]*InsightPosition, error) {
	return s.driver.ListRecentInsightPositions(ctx, find)
}
