// Package vocabrow maps vocabulary entries to and from the flat row shape
// shared by the SQL stores. Examples and unknown keys travel as JSON text.
package vocabrow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/heartmarshall/vocabmerge/internal/domain"
)

// Table is the collection table name in every SQL store.
const Table = "vocabulary_entries"

// BackupTable names the table a backup taken at t is copied into.
func BackupTable(t time.Time) string {
	return Table + "_backup_" + t.UTC().Format("20060102_150405")
}

// Columns lists the row columns in insert/select order.
var Columns = []string{
	"id", "position", "word", "translation",
	"part_of_speech", "category", "level",
	"examples", "frequency", "difficulty",
	"notes", "notes_bg_to_de", "notes_de_to_bg",
	"linguistic_note_bg_to_de", "linguistic_note_de_to_bg",
	"etymology", "cultural_note",
	"extra",
}

// Row is one stored entry. Position keeps collection order.
type Row struct {
	ID          string `db:"id"`
	Position    int    `db:"position"`
	Word        string `db:"word"`
	Translation string `db:"translation"`

	PartOfSpeech *string `db:"part_of_speech"`
	Category     *string `db:"category"`
	Level        *string `db:"level"`

	Examples   []byte `db:"examples"`
	Frequency  *int   `db:"frequency"`
	Difficulty *int   `db:"difficulty"`

	Notes                *string `db:"notes"`
	NotesBgToDe          *string `db:"notes_bg_to_de"`
	NotesDeToBg          *string `db:"notes_de_to_bg"`
	LinguisticNoteBgToDe *string `db:"linguistic_note_bg_to_de"`
	LinguisticNoteDeToBg *string `db:"linguistic_note_de_to_bg"`
	Etymology            *string `db:"etymology"`
	CulturalNote         *string `db:"cultural_note"`

	Extra []byte `db:"extra"`
}

// Values returns the row values in Columns order.
func (r Row) Values() []any {
	return []any{
		r.ID, r.Position, r.Word, r.Translation,
		r.PartOfSpeech, r.Category, r.Level,
		jsonArg(r.Examples), r.Frequency, r.Difficulty,
		r.Notes, r.NotesBgToDe, r.NotesDeToBg,
		r.LinguisticNoteBgToDe, r.LinguisticNoteDeToBg,
		r.Etymology, r.CulturalNote,
		jsonArg(r.Extra),
	}
}

// jsonArg turns empty JSON into a SQL NULL and everything else into text.
func jsonArg(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

// FromEntry converts e stored at position pos.
func FromEntry(e domain.VocabularyEntry, pos int) (Row, error) {
	r := Row{
		ID:                   e.ID,
		Position:             pos,
		Word:                 e.Word,
		Translation:          e.Translation,
		PartOfSpeech:         e.PartOfSpeech,
		Category:             e.Category,
		Level:                e.Level,
		Frequency:            e.Frequency,
		Difficulty:           e.Difficulty,
		Notes:                e.Notes,
		NotesBgToDe:          e.NotesBgToDe,
		NotesDeToBg:          e.NotesDeToBg,
		LinguisticNoteBgToDe: e.LinguisticNoteBgToDe,
		LinguisticNoteDeToBg: e.LinguisticNoteDeToBg,
		Etymology:            e.Etymology,
		CulturalNote:         e.CulturalNote,
	}

	if e.Examples != nil {
		data, err := json.Marshal(e.Examples)
		if err != nil {
			return Row{}, fmt.Errorf("encode examples of %s: %w", e.ID, err)
		}
		r.Examples = data
	}
	if len(e.Extra) > 0 {
		data, err := json.Marshal(e.Extra)
		if err != nil {
			return Row{}, fmt.Errorf("encode extra of %s: %w", e.ID, err)
		}
		r.Extra = data
	}

	return r, nil
}

// ToEntry converts r back into a domain entry.
func (r Row) ToEntry() (domain.VocabularyEntry, error) {
	e := domain.VocabularyEntry{
		ID:                   r.ID,
		Word:                 r.Word,
		Translation:          r.Translation,
		PartOfSpeech:         r.PartOfSpeech,
		Category:             r.Category,
		Level:                r.Level,
		Frequency:            r.Frequency,
		Difficulty:           r.Difficulty,
		Notes:                r.Notes,
		NotesBgToDe:          r.NotesBgToDe,
		NotesDeToBg:          r.NotesDeToBg,
		LinguisticNoteBgToDe: r.LinguisticNoteBgToDe,
		LinguisticNoteDeToBg: r.LinguisticNoteDeToBg,
		Etymology:            r.Etymology,
		CulturalNote:         r.CulturalNote,
	}

	if len(r.Examples) > 0 && string(r.Examples) != "null" {
		if err := json.Unmarshal(r.Examples, &e.Examples); err != nil {
			return domain.VocabularyEntry{}, fmt.Errorf("decode examples of %s: %w", r.ID, err)
		}
	}
	if len(r.Extra) > 0 && string(r.Extra) != "null" {
		if err := json.Unmarshal(r.Extra, &e.Extra); err != nil {
			return domain.VocabularyEntry{}, fmt.Errorf("decode extra of %s: %w", r.ID, err)
		}
	}

	return e, nil
}

// FromEntries converts a whole collection, numbering positions from 0.
func FromEntries(entries []domain.VocabularyEntry) ([]Row, error) {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		r, err := FromEntry(e, i)
		if err != nil {
			return nil, err
		}
		rows[i] = r
	}
	return rows, nil
}

// ToEntries converts rows in order.
func ToEntries(rows []Row) ([]domain.VocabularyEntry, error) {
	entries := make([]domain.VocabularyEntry, len(rows))
	for i, r := range rows {
		e, err := r.ToEntry()
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}
