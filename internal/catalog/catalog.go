// Package catalog loads the read-only section/unit/card content hierarchy
// for a course from its bundled JSON definition.
package catalog

import (
	"encoding/json"
	"io/fs"
	"log/slog"

	"github.com/pkg/errors"
)

// Card is a single flashcard as defined in the course file.
type Card struct {
	WordID       string   `json:"wordId"`
	Text         string   `json:"text"`
	Translations []string `json:"translations"`
	Categories   []string `json:"categories,omitempty"`
	Grammar      []string `json:"grammar,omitempty"`
}

// Unit is an ordered group of cards.
type Unit struct {
	Name  string
	Cards []Card
}

// Section is an ordered group of units. Section and unit order defines the
// progress semantics and must be stable across reloads of the same course.
type Section struct {
	Name  string
	Units []Unit
}

// Loader reads course definitions from a filesystem.
type Loader struct {
	fsys          fs.FS
	defaultCourse string
}

// NewLoader creates a loader backed by the given filesystem.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:          fsys,
		defaultCourse: "Swedish",
	}
}

func courseFile(course string) string {
	switch course {
	case "Swedish":
		return "flashcards_with_ids.json"
	case "Spanish":
		return "flashcardsEs_with_ids.json"
	case "German":
		return "flashcardsDe_with_ids.json"
	default:
		return "flashcards_with_ids.json"
	}
}

// LoadCourse parses the course definition into ordered sections. A missing or
// unreadable definition yields an empty catalog, never an error: downstream
// components treat zero sections as a valid degenerate state.
func (l *Loader) LoadCourse(course string) []Section {
	if course == "" {
		course = l.defaultCourse
	}
	filename := courseFile(course)

	f, err := l.fsys.Open(filename)
	if err != nil {
		slog.Warn("course definition not readable, using empty catalog",
			slog.String("course", course),
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return []Section{}
	}
	defer f.Close()

	sections, err := parseSections(json.NewDecoder(f))
	if err != nil {
		slog.Warn("course definition malformed, using empty catalog",
			slog.String("course", course),
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return []Section{}
	}
	return sections
}

// parseSections walks the JSON document token by token. The document is an
// object of sections, each an object of units, each an array of cards, and
// the document order of the object keys is the catalog order. A plain
// map[string]... decode would lose that order.
func parseSections(dec *json.Decoder) ([]Section, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, errors.Wrap(err, "expected top-level object")
	}

	sections := []Section{}
	for dec.More() {
		name, err := nextKey(dec)
		if err != nil {
			return nil, errors.Wrap(err, "reading section name")
		}
		units, err := parseUnits(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing section %q", name)
		}
		sections = append(sections, Section{Name: name, Units: units})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, errors.Wrap(err, "expected end of top-level object")
	}
	return sections, nil
}

func parseUnits(dec *json.Decoder) ([]Unit, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, errors.Wrap(err, "expected unit object")
	}

	units := []Unit{}
	for dec.More() {
		name, err := nextKey(dec)
		if err != nil {
			return nil, errors.Wrap(err, "reading unit name")
		}
		var cards []Card
		if err := dec.Decode(&cards); err != nil {
			return nil, errors.Wrapf(err, "decoding cards of unit %q", name)
		}
		units = append(units, Unit{Name: name, Cards: cards})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, errors.Wrap(err, "expected end of unit object")
	}
	return units, nil
}

func nextKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", errors.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return errors.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
