package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise/internal/catalog"
	"github.com/cardwise/cardwise/store"
)

func sectionsWithUnitCounts(counts ...int) []catalog.Section {
	sections := make([]catalog.Section, 0, len(counts))
	for sectionIdx, count := range counts {
		section := catalog.Section{Name: fmt.Sprintf("Section %d", sectionIdx)}
		for unitIdx := 0; unitIdx < count; unitIdx++ {
			section.Units = append(section.Units, catalog.Unit{Name: fmt.Sprintf("Unit %d", unitIdx)})
		}
		sections = append(sections, section)
	}
	return sections
}

func TestEligibleUnitCount(t *testing.T) {
	sections := sectionsWithUnitCounts(3, 5, 2)

	require.Equal(t, 1, eligibleUnitCount(sections, 0, 0))
	require.Equal(t, 3, eligibleUnitCount(sections, 0, 2))
	require.Equal(t, 6, eligibleUnitCount(sections, 1, 2))
	require.Equal(t, 10, eligibleUnitCount(sections, 2, 1))
	// A cursor past the section's last unit clamps to the section size.
	require.Equal(t, 10, eligibleUnitCount(sections, 2, 9))
	// A cursor past the last section never counts units that do not exist.
	require.Equal(t, 10, eligibleUnitCount(sections, 7, 0))
	require.Equal(t, 0, eligibleUnitCount(nil, 0, 0))
}

func TestUnitAt(t *testing.T) {
	sections := sectionsWithUnitCounts(3, 5, 2)

	sectionIdx, unitIdx, ok := unitAt(sections, 2, 0)
	require.True(t, ok)
	require.Equal(t, 0, sectionIdx)
	require.Equal(t, 0, unitIdx)

	sectionIdx, unitIdx, ok = unitAt(sections, 2, 2)
	require.True(t, ok)
	require.Equal(t, 0, sectionIdx)
	require.Equal(t, 2, unitIdx)

	sectionIdx, unitIdx, ok = unitAt(sections, 2, 3)
	require.True(t, ok)
	require.Equal(t, 1, sectionIdx)
	require.Equal(t, 0, unitIdx)

	sectionIdx, unitIdx, ok = unitAt(sections, 2, 9)
	require.True(t, ok)
	require.Equal(t, 2, sectionIdx)
	require.Equal(t, 1, unitIdx)

	_, _, ok = unitAt(sections, 2, 10)
	require.False(t, ok)
}

func TestRandomUnitWithinProgress(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(t, nil, testCourse)
	session.SwitchCourse(ctx, "Swedish")

	// Cursor at the very start: only the first unit is eligible.
	for i := 0; i < 10; i++ {
		sectionIdx, unitIdx, ok := session.RandomUnitWithinProgress()
		require.True(t, ok)
		require.Equal(t, 0, sectionIdx)
		require.Equal(t, 0, unitIdx)
	}

	session.SetProgressCursor(ctx, 1, 0)
	seen := map[[2]int]bool{}
	for i := 0; i < 100; i++ {
		sectionIdx, unitIdx, ok := session.RandomUnitWithinProgress()
		require.True(t, ok)
		seen[[2]int{sectionIdx, unitIdx}] = true
	}
	require.Len(t, seen, 3)
}

func TestRandomUnitWithinProgressEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(t, nil, "")
	session.SwitchCourse(ctx, "Swedish")

	_, _, ok := session.RandomUnitWithinProgress()
	require.False(t, ok)
}

func TestSelectNextCardUnitMode(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(t, nil, testCourse)
	session.SwitchCourse(ctx, "Swedish")

	pick := session.SelectNextCard(ctx, Selection{Mode: ModeUnit, SectionIdx: 0, UnitIdx: 1})
	require.NotNil(t, pick)
	require.Equal(t, "sv-003", pick.Card.WordID)
	require.Equal(t, 0, pick.SectionIdx)
	require.Equal(t, 1, pick.UnitIdx)
	require.Equal(t, 0, pick.CardIdx)
}

func TestSelectNextCardCategoryMode(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(t, nil, testCourse)
	session.SwitchCourse(ctx, "Swedish")

	pick := session.SelectNextCard(ctx, Selection{Mode: ModeCategory, Category: "animals"})
	require.NotNil(t, pick)
	require.Equal(t, "sv-002", pick.Card.WordID)

	require.Nil(t, session.SelectNextCard(ctx, Selection{Mode: ModeCategory, Category: "food"}))
}

func TestSelectNextCardProgressMode(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(t, nil, testCourse)
	session.SwitchCourse(ctx, "Swedish")

	// With the cursor at the start only the first unit's cards are eligible.
	for i := 0; i < 20; i++ {
		pick := session.SelectNextCard(ctx, Selection{Mode: ModeProgress})
		require.NotNil(t, pick)
		require.Equal(t, 0, pick.SectionIdx)
		require.Equal(t, 0, pick.UnitIdx)
	}
}

func TestSelectNextCardFreshMode(t *testing.T) {
	ctx := context.Background()
	session, testStore := newTestSession(t, nil, testCourse)
	session.SwitchCourse(ctx, "Swedish")

	// Everything but sv-004 has been attempted.
	for _, id := range []string{"sv-001", "sv-002", "sv-003"} {
		status := store.LearnStatusLearning
		require.NoError(t, testStore.UpdateInsight(ctx, &store.UpdateInsight{
			FlashcardID: id,
			LearnStatus: &status,
		}))
	}

	pick := session.SelectNextCard(ctx, Selection{Mode: ModeFresh})
	require.NotNil(t, pick)
	require.Equal(t, "sv-004", pick.Card.WordID)
}

func TestSelectNextCardStaleWinner(t *testing.T) {
	ctx := context.Background()
	session, testStore := newTestSession(t, nil, testCourse)
	session.SwitchCourse(ctx, "Swedish")

	// A leftover row pointing past the end of the catalog. Scoping the unit
	// filter to its cached position makes it the only candidate.
	_, err := testStore.CreateInsight(ctx, &store.Insight{
		FlashcardID: "sv-gone",
		SectionIdx:  5,
		UnitIdx:     0,
	})
	require.NoError(t, err)

	require.Nil(t, session.SelectNextCard(ctx, Selection{Mode: ModeUnit, SectionIdx: 5, UnitIdx: 0}))
}

func TestSelectNextCardEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(t, nil, "")
	session.SwitchCourse(ctx, "Swedish")

	require.Nil(t, session.SelectNextCard(ctx, Selection{Mode: ModeProgress}))
}
