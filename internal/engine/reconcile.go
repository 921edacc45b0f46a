package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cardwise/cardwise/internal/catalog"
	"github.com/cardwise/cardwise/store"
)

// runReconciliation brings the insight and cross-reference stores in line
// with the catalog, publishes the advisory notice, then runs the duplicate
// cleanup maintenance pass. Storage errors are handled per card: log and
// continue, so one bad row never aborts the rest of the pass.
func (s *Session) runReconciliation(ctx context.Context, sections []catalog.Section) {
	inserted, updated := s.reconcileInsights(ctx, sections)
	newLinks := s.reconcileCrossRefs(ctx, sections)

	if inserted > 0 || updated > 0 {
		var b strings.Builder
		if inserted > 0 {
			fmt.Fprintf(&b, "%d new flashcard insights were inserted. ", inserted)
		}
		if updated > 0 {
			fmt.Fprintf(&b, "%d flashcard insights were updated.", updated)
		}
		s.setNotice(strings.TrimSpace(b.String()))
	}
	slog.Debug("reconciliation finished",
		slog.Int("inserted", inserted),
		slog.Int("updated", updated),
		slog.Int("newLinks", newLinks))

	s.cleanupDuplicates(ctx)
}

// reconcileInsights ensures an insight row exists for every catalog card and
// that its cached (section, unit) position matches the catalog. Counters and
// learning state of existing rows are preserved.
func (s *Session) reconcileInsights(ctx context.Context, sections []catalog.Section) (inserted, updated int) {
	for sectionIdx, section := range sections {
		for unitIdx, unit := range section.Units {
			for _, card := range unit.Cards {
				existing, err := s.store.GetInsight(ctx, card.WordID)
				if err != nil {
					slog.Warn("failed to load insight during reconciliation",
						slog.String("flashcardId", card.WordID),
						slog.String("error", err.Error()))
					continue
				}
				if existing == nil {
					if _, err := s.store.CreateInsight(ctx, &store.Insight{
						FlashcardID: card.WordID,
						SectionIdx:  sectionIdx,
						UnitIdx:     unitIdx,
					}); err != nil {
						slog.Warn("failed to insert insight during reconciliation",
							slog.String("flashcardId", card.WordID),
							slog.String("error", err.Error()))
						continue
					}
					inserted++
				} else if existing.SectionIdx != sectionIdx || existing.UnitIdx != unitIdx {
					if err := s.store.UpdateInsight(ctx, &store.UpdateInsight{
						FlashcardID: card.WordID,
						SectionIdx:  &sectionIdx,
						UnitIdx:     &unitIdx,
					}); err != nil {
						slog.Warn("failed to update insight position during reconciliation",
							slog.String("flashcardId", card.WordID),
							slog.String("error", err.Error()))
						continue
					}
					updated++
				}
			}
		}
	}
	return inserted, updated
}

// reconcileCrossRefs links every card to the categories it names, limited to
// the master category set. The sync is one-directional: links are added for
// newly desired tags but existing links are never pruned. Unknown tags are
// silently dropped. Re-running against an unchanged catalog inserts nothing.
func (s *Session) reconcileCrossRefs(ctx context.Context, sections []catalog.Section) int {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		slog.Warn("failed to load master category list, skipping cross-reference sync",
			slog.String("error", err.Error()))
		return 0
	}
	master := make(map[string]bool, len(categories))
	for _, category := range categories {
		master[category.Name] = true
	}

	newLinks := 0
	for _, section := range sections {
		for _, unit := range section.Units {
			for _, card := range unit.Cards {
				desired := desiredTags(card, master)
				if len(desired) == 0 {
					continue
				}

				existingRefs, err := s.store.ListCrossRefs(ctx, &store.FindCrossRef{FlashcardID: &card.WordID})
				if err != nil {
					slog.Warn("failed to load cross-references",
						slog.String("flashcardId", card.WordID),
						slog.String("error", err.Error()))
					continue
				}
				existing := make(map[string]bool, len(existingRefs))
				for _, ref := range existingRefs {
					existing[ref.CategoryName] = true
				}

				for tag := range desired {
					if existing[tag] {
						continue
					}
					if err := s.store.UpsertCrossRef(ctx, &store.CrossRef{
						FlashcardID:  card.WordID,
						CategoryName: tag,
					}); err != nil {
						slog.Warn("failed to insert cross-reference",
							slog.String("flashcardId", card.WordID),
							slog.String("category", tag),
							slog.String("error", err.Error()))
						continue
					}
					newLinks++
				}
			}
		}
	}
	return newLinks
}

// desiredTags is the union of a card's topical and grammatical tags,
// intersected with the master category set.
func desiredTags(card catalog.Card, master map[string]bool) map[string]bool {
	desired := map[string]bool{}
	for _, tag := range card.Categories {
		if master[tag] {
			desired[tag] = true
		}
	}
	for _, tag := range card.Grammar {
		if master[tag] {
			desired[tag] = true
		}
	}
	return desired
}

// cleanupDuplicates removes duplicate cross-reference and insight rows that
// past bugs may have accumulated, keeping one canonical row per key.
func (s *Session) cleanupDuplicates(ctx context.Context) {
	if deleted, err := s.store.DeleteDuplicateCrossRefs(ctx); err != nil {
		slog.Warn("failed to delete duplicate cross-references", slog.String("error", err.Error()))
	} else if deleted > 0 {
		slog.Info("deleted duplicate cross-references", slog.Int64("count", deleted))
	}

	if deleted, err := s.store.DeleteDuplicateInsights(ctx); err != nil {
		slog.Warn("failed to delete duplicate insights", slog.String("error", err.Error()))
	} else if deleted > 0 {
		slog.Info("deleted duplicate insights", slog.Int64("count", deleted))
	}
}
