package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Example is one usage sentence attached to a vocabulary entry.
type Example struct {
	Sentence    string  `json:"sentence"`
	Translation string  `json:"translation,omitempty"`
	Context     *string `json:"context,omitempty"`
}

// VocabularyEntry is one learnable word pair with its linguistic metadata.
// Word and Translation keep their position: Word is always the source side.
type VocabularyEntry struct {
	ID          string `json:"id"`
	Word        string `json:"word"`
	Translation string `json:"translation"`

	PartOfSpeech *string `json:"part_of_speech,omitempty"`
	Category     *string `json:"category,omitempty"`
	Level        *string `json:"level,omitempty"`

	Examples []Example `json:"examples,omitempty"`

	// Frequency is a commonness signal, higher is better.
	Frequency *int `json:"frequency,omitempty"`
	// Difficulty is lower for easier words.
	Difficulty *int `json:"difficulty,omitempty"`

	Notes                *string `json:"notes,omitempty"`
	NotesBgToDe          *string `json:"notes_bg_to_de,omitempty"`
	NotesDeToBg          *string `json:"notes_de_to_bg,omitempty"`
	LinguisticNoteBgToDe *string `json:"linguistic_note_bg_to_de,omitempty"`
	LinguisticNoteDeToBg *string `json:"linguistic_note_de_to_bg,omitempty"`
	Etymology            *string `json:"etymology,omitempty"`
	CulturalNote         *string `json:"cultural_note,omitempty"`

	// Extra holds JSON keys this model does not know about so they survive a
	// load/save round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

// TextField names one of the free-text annotation fields of an entry.
type TextField string

const (
	FieldNotes                TextField = "notes"
	FieldNotesBgToDe          TextField = "notes_bg_to_de"
	FieldNotesDeToBg          TextField = "notes_de_to_bg"
	FieldLinguisticNoteBgToDe TextField = "linguistic_note_bg_to_de"
	FieldLinguisticNoteDeToBg TextField = "linguistic_note_de_to_bg"
	FieldEtymology            TextField = "etymology"
	FieldCulturalNote         TextField = "cultural_note"
)

// TextFields lists every annotation field in a fixed order.
var TextFields = []TextField{
	FieldNotes,
	FieldNotesBgToDe,
	FieldNotesDeToBg,
	FieldLinguisticNoteBgToDe,
	FieldLinguisticNoteDeToBg,
	FieldEtymology,
	FieldCulturalNote,
}

// IsValid reports whether f is one of the known annotation fields.
func (f TextField) IsValid() bool {
	return slices.Contains(TextFields, f)
}

// Text returns the value of the annotation field f.
func (e *VocabularyEntry) Text(f TextField) *string {
	switch f {
	case FieldNotes:
		return e.Notes
	case FieldNotesBgToDe:
		return e.NotesBgToDe
	case FieldNotesDeToBg:
		return e.NotesDeToBg
	case FieldLinguisticNoteBgToDe:
		return e.LinguisticNoteBgToDe
	case FieldLinguisticNoteDeToBg:
		return e.LinguisticNoteDeToBg
	case FieldEtymology:
		return e.Etymology
	case FieldCulturalNote:
		return e.CulturalNote
	}
	return nil
}

// SetText replaces the value of the annotation field f. Unknown fields are ignored.
func (e *VocabularyEntry) SetText(f TextField, v *string) {
	switch f {
	case FieldNotes:
		e.Notes = v
	case FieldNotesBgToDe:
		e.NotesBgToDe = v
	case FieldNotesDeToBg:
		e.NotesDeToBg = v
	case FieldLinguisticNoteBgToDe:
		e.LinguisticNoteBgToDe = v
	case FieldLinguisticNoteDeToBg:
		e.LinguisticNoteDeToBg = v
	case FieldEtymology:
		e.Etymology = v
	case FieldCulturalNote:
		e.CulturalNote = v
	}
}

// Clone returns a deep copy that shares no memory with e.
func (e VocabularyEntry) Clone() VocabularyEntry {
	out := e
	out.PartOfSpeech = cloneString(e.PartOfSpeech)
	out.Category = cloneString(e.Category)
	out.Level = cloneString(e.Level)
	out.Frequency = cloneInt(e.Frequency)
	out.Difficulty = cloneInt(e.Difficulty)
	for _, f := range TextFields {
		out.SetText(f, cloneString(e.Text(f)))
	}
	if e.Examples != nil {
		out.Examples = make([]Example, len(e.Examples))
		for i, ex := range e.Examples {
			ex.Context = cloneString(ex.Context)
			out.Examples[i] = ex
		}
	}
	if e.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(e.Extra))
		for k, v := range e.Extra {
			out.Extra[k] = slices.Clone(v)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// JSON with unknown-key passthrough
// ---------------------------------------------------------------------------

type entryAlias VocabularyEntry

// knownEntryKeys holds the lowercased json names of all modelled fields.
// encoding/json matches keys case-insensitively, so the comparison must too.
var knownEntryKeys = func() map[string]struct{} {
	t := reflect.TypeOf(entryAlias{})
	keys := make(map[string]struct{}, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys[strings.ToLower(name)] = struct{}{}
	}
	return keys
}()

// UnmarshalJSON decodes the modelled fields and keeps everything else in Extra.
func (e *VocabularyEntry) UnmarshalJSON(data []byte) error {
	var alias entryAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if _, known := knownEntryKeys[strings.ToLower(k)]; known {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		alias.Extra = raw
	}

	*e = VocabularyEntry(alias)
	return nil
}

// MarshalJSON encodes the modelled fields followed by the preserved Extra keys.
// With Extra present the output keys are sorted, which keeps it byte-stable.
// HTML characters are not escaped: notes routinely contain "<" and "&".
func (e VocabularyEntry) MarshalJSON() ([]byte, error) {
	data, err := marshalNoEscape(entryAlias(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for _, k := range slices.Sorted(maps.Keys(e.Extra)) {
		if _, known := knownEntryKeys[strings.ToLower(k)]; known {
			continue
		}
		merged[k] = e.Extra[k]
	}
	return marshalNoEscape(merged)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
