package engine

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/cardwise/cardwise/internal/catalog"
	"github.com/cardwise/cardwise/store"
	teststore "github.com/cardwise/cardwise/store/test"
)

// Two sections, three units, four cards. The "motion" grammar tag is not in
// the master category set and must never produce a cross-reference.
const testCourse = `{
  "Basics": {
    "Greetings": [
      {"wordId": "sv-001", "text": "hej", "translations": ["hello"]},
      {"wordId": "sv-002", "text": "hund", "translations": ["dog"], "categories": ["animals"]}
    ],
    "Verbs": [
      {"wordId": "sv-003", "text": "springa", "translations": ["to run"], "grammar": ["verb", "motion"]}
    ]
  },
  "Home": {
    "Rooms": [
      {"wordId": "sv-004", "text": "hus", "translations": ["house"], "categories": ["house & home"]}
    ]
  }
}`

// fakeClock is a manually advanced clock for cooldown and rollover tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func newTestSession(t *testing.T, clock Clock, courseJSON string) (*Session, *store.Store) {
	ctx := context.Background()
	testStore := teststore.NewTestingStore(ctx, t)

	fsys := fstest.MapFS{}
	if courseJSON != "" {
		fsys["flashcards_with_ids.json"] = &fstest.MapFile{Data: []byte(courseJSON)}
	}
	return NewSession(testStore, catalog.NewLoader(fsys), clock), testStore
}
