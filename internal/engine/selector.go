package engine

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/cardwise/cardwise/internal/catalog"
	"github.com/cardwise/cardwise/store"
)

// SelectionMode picks the candidate pool for the next card. The modes are
// mutually exclusive; exactly one is active per selection.
type SelectionMode int

const (
	// ModeUnit restricts the pool to a single pre-chosen (section, unit).
	ModeUnit SelectionMode = iota
	// ModeCategory restricts the pool to cards linked to one category.
	ModeCategory
	// ModeProgress restricts the pool to cards at or before the progress cursor.
	ModeProgress
	// ModeFresh restricts the pool to cards never yet attempted.
	ModeFresh
)

// Selection describes one selection request.
type Selection struct {
	Mode SelectionMode

	// SectionIdx/UnitIdx apply to ModeUnit.
	SectionIdx int
	UnitIdx    int

	// Category applies to ModeCategory.
	Category string
}

// CardPick is a selected card resolved to its concrete catalog position.
type CardPick struct {
	SectionIdx int
	UnitIdx    int
	CardIdx    int
	Card       catalog.Card
}

// SelectNextCard picks the next card to show using the weighted-random
// scheme over the mode's candidate pool. It returns nil when no card is
// available: empty pool, empty catalog, or a winner whose cached position no
// longer resolves against the current catalog.
func (s *Session) SelectNextCard(ctx context.Context, sel Selection) *CardPick {
	snap := s.current.Load()
	if len(snap.sections) == 0 {
		return nil
	}

	find := s.scoreFindForMode(sel)
	picks, err := s.store.ListInsightScores(ctx, find)
	if err != nil {
		slog.Warn("weighted candidate query failed", slog.String("error", err.Error()))
		return nil
	}
	if len(picks) == 0 {
		return nil
	}

	// Only the top-ranked candidate is attempted; a winner that no longer
	// resolves against the catalog means no card, not a retry.
	winner := picks[0]
	return s.resolveCard(ctx, snap.sections, winner.FlashcardID)
}

func (s *Session) scoreFindForMode(sel Selection) *store.FindInsightScore {
	find := &store.FindInsightScore{}
	switch sel.Mode {
	case ModeUnit:
		sectionIdx, unitIdx := sel.SectionIdx, sel.UnitIdx
		find.SectionIdx = &sectionIdx
		find.UnitIdx = &unitIdx
	case ModeCategory:
		category := sel.Category
		find.Category = &category
	case ModeProgress:
		maxSection, maxUnit := s.ProgressCursor()
		find.MaxSectionIdx = &maxSection
		find.MaxUnitIdx = &maxUnit
	case ModeFresh:
		status := store.LearnStatusUnknown
		find.LearnStatus = &status
	}
	return find
}

// resolveCard maps a winning flashcard id back to a concrete catalog
// position via the insight's cached indices and a linear scan of the unit.
// Stale positions (catalog shrank, card removed) resolve to nil, not a crash.
func (s *Session) resolveCard(ctx context.Context, sections []catalog.Section, flashcardID string) *CardPick {
	insight, err := s.store.GetInsight(ctx, flashcardID)
	if err != nil || insight == nil {
		return nil
	}
	return resolvePosition(sections, insight.SectionIdx, insight.UnitIdx, flashcardID)
}

// eligibleUnitCount is the size of the progress-bounded unit pool: every
// unit of the sections before the progressed section, plus units 0 through
// the progressed unit of the progressed section itself.
func eligibleUnitCount(sections []catalog.Section, progressedSection, progressedUnit int) int {
	total := 0
	for idx := 0; idx <= progressedSection && idx < len(sections); idx++ {
		if idx == progressedSection {
			units := progressedUnit + 1
			if units > len(sections[idx].Units) {
				units = len(sections[idx].Units)
			}
			total += units
		} else {
			total += len(sections[idx].Units)
		}
	}
	return total
}

// unitAt walks the sections in order subtracting unit counts until the
// remainder lands inside a section, avoiding a materialized unit list.
func unitAt(sections []catalog.Section, progressedSection, remainder int) (sectionIdx, unitIdx int, ok bool) {
	for idx := 0; idx <= progressedSection && idx < len(sections); idx++ {
		unitCount := len(sections[idx].Units)
		if remainder < unitCount {
			return idx, remainder, true
		}
		remainder -= unitCount
	}
	return 0, 0, false
}

// RandomUnitWithinProgress draws a uniformly random (section, unit) from the
// progress-bounded pool without allocating a flattened unit list.
func (s *Session) RandomUnitWithinProgress() (sectionIdx, unitIdx int, ok bool) {
	sections := s.current.Load().sections
	progressedSection, progressedUnit := s.ProgressCursor()

	count := eligibleUnitCount(sections, progressedSection, progressedUnit)
	if count <= 0 {
		return 0, 0, false
	}
	return unitAt(sections, progressedSection, rand.Intn(count))
}
