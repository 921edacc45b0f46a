package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise/store"
)

func TestSwitchCourseCreatesInsights(t *testing.T) {
	ctx := context.Background()
	session, testStore := newTestSession(t, nil, testCourse)

	session.SwitchCourse(ctx, "Swedish")

	insights, err := testStore.ListInsights(ctx, &store.FindInsight{})
	require.NoError(t, err)
	require.Len(t, insights, 4)

	byID := map[string]*store.Insight{}
	for _, insight := range insights {
		byID[insight.FlashcardID] = insight
	}
	require.Equal(t, 0, byID["sv-001"].SectionIdx)
	require.Equal(t, 0, byID["sv-001"].UnitIdx)
	require.Equal(t, 0, byID["sv-003"].SectionIdx)
	require.Equal(t, 1, byID["sv-003"].UnitIdx)
	require.Equal(t, 1, byID["sv-004"].SectionIdx)
	require.Equal(t, 0, byID["sv-004"].UnitIdx)

	require.Equal(t, "4 new flashcard insights were inserted.", session.Notice())
	session.ClearNotice()

	// A second pass against the unchanged catalog changes nothing.
	session.SwitchCourse(ctx, "Swedish")
	require.Empty(t, session.Notice())
}

func TestSwitchCourseRepairsStalePositions(t *testing.T) {
	ctx := context.Background()
	session, testStore := newTestSession(t, nil, testCourse)

	// An insight left behind by an older catalog revision, wrong position,
	// counters the user has already earned.
	_, err := testStore.CreateInsight(ctx, &store.Insight{
		FlashcardID:   "sv-004",
		SectionIdx:    0,
		UnitIdx:       5,
		TimesReviewed: 8,
		TimesCorrect:  6,
		LearnStatus:   store.LearnStatusKnown,
	})
	require.NoError(t, err)

	session.SwitchCourse(ctx, "Swedish")

	repaired, err := testStore.GetInsight(ctx, "sv-004")
	require.NoError(t, err)
	require.Equal(t, 1, repaired.SectionIdx)
	require.Equal(t, 0, repaired.UnitIdx)
	require.Equal(t, 8, repaired.TimesReviewed)
	require.Equal(t, store.LearnStatusKnown, repaired.LearnStatus)

	require.Equal(t, "3 new flashcard insights were inserted. 1 flashcard insights were updated.", session.Notice())
}

func TestSwitchCourseLinksCategories(t *testing.T) {
	ctx := context.Background()
	session, testStore := newTestSession(t, nil, testCourse)

	session.SwitchCourse(ctx, "Swedish")

	refs, err := testStore.ListCrossRefs(ctx, &store.FindCrossRef{})
	require.NoError(t, err)

	links := map[string]string{}
	for _, ref := range refs {
		links[ref.FlashcardID] = ref.CategoryName
	}
	require.Len(t, refs, 3)
	require.Equal(t, "animals", links["sv-002"])
	require.Equal(t, "verb", links["sv-003"])
	require.Equal(t, "house & home", links["sv-004"])
	// The "motion" grammar tag is outside the master set.
	require.NotContains(t, links, "sv-001")
}

func TestSwitchCourseEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	session, testStore := newTestSession(t, nil, "")

	session.SwitchCourse(ctx, "Swedish")

	require.Empty(t, session.Sections())
	require.Empty(t, session.Notice())

	insights, err := testStore.ListInsights(ctx, &store.FindInsight{})
	require.NoError(t, err)
	require.Empty(t, insights)
}
