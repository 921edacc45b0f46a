package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

const sampleCourse = `{
  "Section B": {
    "Unit 2": [
      {"wordId": "sv-001", "text": "hund", "translations": ["dog"], "categories": ["animals"]},
      {"wordId": "sv-002", "text": "katt", "translations": ["cat"], "categories": ["animals"], "grammar": ["noun"]}
    ],
    "Unit 1": [
      {"wordId": "sv-003", "text": "springa", "translations": ["to run"], "grammar": ["verb"]}
    ]
  },
  "Section A": {
    "Unit only": [
      {"wordId": "sv-004", "text": "hus", "translations": ["house", "building"]}
    ]
  }
}`

func TestLoadCoursePreservesDocumentOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"flashcards_with_ids.json": {Data: []byte(sampleCourse)},
	}
	loader := NewLoader(fsys)

	sections := loader.LoadCourse("Swedish")
	require.Len(t, sections, 2)

	// "Section B" comes first in the document even though "Section A" sorts first.
	require.Equal(t, "Section B", sections[0].Name)
	require.Equal(t, "Section A", sections[1].Name)

	require.Len(t, sections[0].Units, 2)
	require.Equal(t, "Unit 2", sections[0].Units[0].Name)
	require.Equal(t, "Unit 1", sections[0].Units[1].Name)

	cards := sections[0].Units[0].Cards
	require.Len(t, cards, 2)
	require.Equal(t, "sv-001", cards[0].WordID)
	require.Equal(t, "hund", cards[0].Text)
	require.Equal(t, []string{"dog"}, cards[0].Translations)
	require.Equal(t, []string{"animals"}, cards[0].Categories)
	require.Equal(t, []string{"noun"}, cards[1].Grammar)
}

func TestLoadCourseUnknownCourseFallsBackToDefaultFile(t *testing.T) {
	fsys := fstest.MapFS{
		"flashcards_with_ids.json": {Data: []byte(sampleCourse)},
	}
	loader := NewLoader(fsys)

	sections := loader.LoadCourse("Klingon")
	require.Len(t, sections, 2)
}

func TestLoadCourseMissingFileYieldsEmptyCatalog(t *testing.T) {
	loader := NewLoader(fstest.MapFS{})

	sections := loader.LoadCourse("Spanish")
	require.NotNil(t, sections)
	require.Empty(t, sections)
}

func TestLoadCourseMalformedFileYieldsEmptyCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"flashcards_with_ids.json": {Data: []byte(`["not", "an", "object"]`)},
	}
	loader := NewLoader(fsys)

	sections := loader.LoadCourse("Swedish")
	require.NotNil(t, sections)
	require.Empty(t, sections)
}

func TestLoadCourseEmptyObjectYieldsEmptyCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"flashcards_with_ids.json": {Data: []byte(`{}`)},
	}
	loader := NewLoader(fsys)

	require.Empty(t, loader.LoadCourse("Swedish"))
}
