package teststore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise/store"
)

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	categories, err := ts.ListCategories(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	require.Contains(t, names, "animals")
	require.Contains(t, names, "verb")
	require.Len(t, names, 9)
}

func TestCrossRefs(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	_, err := ts.CreateInsight(ctx, &store.Insight{FlashcardID: "sv-001"})
	require.NoError(t, err)

	require.NoError(t, ts.UpsertCrossRef(ctx, &store.CrossRef{FlashcardID: "sv-001", CategoryName: "animals"}))
	require.NoError(t, ts.UpsertCrossRef(ctx, &store.CrossRef{FlashcardID: "sv-001", CategoryName: "verb"}))
	// Re-linking an existing pair is a no-op, not an error.
	require.NoError(t, ts.UpsertCrossRef(ctx, &store.CrossRef{FlashcardID: "sv-001", CategoryName: "animals"}))

	refs, err := ts.ListCrossRefs(ctx, &store.FindCrossRef{FlashcardID: stringPtr("sv-001")})
	require.NoError(t, err)
	require.Len(t, refs, 2)

	refs, err = ts.ListCrossRefs(ctx, &store.FindCrossRef{CategoryName: stringPtr("animals")})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "sv-001", refs[0].FlashcardID)
}

func TestCrossRefCascadeOnInsightDelete(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	_, err := ts.CreateInsight(ctx, &store.Insight{FlashcardID: "sv-001"})
	require.NoError(t, err)
	require.NoError(t, ts.UpsertCrossRef(ctx, &store.CrossRef{FlashcardID: "sv-001", CategoryName: "food"}))

	require.NoError(t, ts.DeleteAllInsights(ctx))

	refs, err := ts.ListCrossRefs(ctx, &store.FindCrossRef{})
	require.NoError(t, err)
	require.Empty(t, refs)
}

// The composite primary keys keep duplicates out through the public API, so
// on a healthy store the maintenance pass has nothing to remove.
func TestDuplicateCleanupIsNoOpOnHealthyStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	for idx, id := range []string{"sv-001", "sv-002"} {
		_, err := ts.CreateInsight(ctx, &store.Insight{FlashcardID: id, UnitIdx: idx})
		require.NoError(t, err)
		require.NoError(t, ts.UpsertCrossRef(ctx, &store.CrossRef{FlashcardID: id, CategoryName: "food"}))
	}

	deleted, err := ts.DeleteDuplicateCrossRefs(ctx)
	require.NoError(t, err)
	require.Zero(t, deleted)

	deleted, err = ts.DeleteDuplicateInsights(ctx)
	require.NoError(t, err)
	require.Zero(t, deleted)

	insights, err := ts.ListInsights(ctx, &store.FindInsight{})
	require.NoError(t, err)
	require.Len(t, insights, 2)
	refs, err := ts.ListCrossRefs(ctx, &store.FindCrossRef{})
	require.NoError(t, err)
	require.Len(t, refs, 2)
}

func stringPtr(s string) *string {
	return &s
}
