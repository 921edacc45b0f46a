package store

import (
	"context"
)

// Category is one entry of the master tag list. The list is created by seed
// migration data and is read-only in normal operation.
type Category struct {
	Name string
}

// CrossRef links a card to a category. The pair is unique; both referenced
// rows must exist (enforced by cascade-delete foreign keys).
type CrossRef struct {
	FlashcardID  string
	CategoryName string
}

// FindCrossRef is the find condition for cross-references.
type FindCrossRef struct {
	FlashcardID  *string
	CategoryName *string
}

// ListCategories lists the master category set.
func (s *Store) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.driver.ListCategories(ctx)
}

// UpsertCrossRef links a card to a category; linking an already linked pair
// is a no-op.
func (s *Store) UpsertCrossRef(ctx context.Context, upsert *CrossRef) error {
	return s.driver.UpsertCrossRef(ctx, upsert)
}

// ListCrossRefs lists cross-references with filter.
func (s *Store) ListCrossRefs(ctx context.Context, find *FindCrossRef) ([]*CrossRef, error) {
	return s.driver.ListCrossRefs(ctx, find)
}

// DeleteDuplicateCrossRefs keeps exactly one row per (card, category) pair,
// choosing the lowest rowid.
func (s *Store) DeleteDuplicateCrossRefs(ctx context.Context) (int64, error) {
	return s.driver.DeleteDuplicateCrossRefs(ctx)
}
