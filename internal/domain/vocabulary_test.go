package domain

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyEntry_UnmarshalKeepsUnknownKeys(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"id": "w1",
		"word": "Hallo",
		"translation": "Здравей",
		"etymology": "greeting root",
		"frequency": 80,
		"source_batch": "batch-7",
		"tags": ["greeting", "a1"]
	}`)

	var e VocabularyEntry
	require.NoError(t, json.Unmarshal(data, &e))

	assert.Equal(t, "w1", e.ID)
	assert.Equal(t, "Hallo", e.Word)
	require.NotNil(t, e.Etymology)
	assert.Equal(t, "greeting root", *e.Etymology)
	require.NotNil(t, e.Frequency)
	assert.Equal(t, 80, *e.Frequency)

	require.Len(t, e.Extra, 2)
	assert.JSONEq(t, `"batch-7"`, string(e.Extra["source_batch"]))
	assert.JSONEq(t, `["greeting","a1"]`, string(e.Extra["tags"]))
}

func TestVocabularyEntry_MarshalRoundTripWithExtra(t *testing.T) {
	t.Parallel()

	in := `{"id":"w1","word":"Haus","translation":"къща","gender":"n","notes":"neuter"}`

	var e VocabularyEntry
	require.NoError(t, json.Unmarshal([]byte(in), &e))

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestVocabularyEntry_MarshalWithoutExtraKeepsFieldOrder(t *testing.T) {
	t.Parallel()

	e := VocabularyEntry{ID: "w1", Word: "Haus", Translation: "къща"}
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"w1","word":"Haus","translation":"къща"}`, string(out))
}

func TestVocabularyEntry_NullNoteDecodesAsAbsent(t *testing.T) {
	t.Parallel()

	var e VocabularyEntry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","word":"x","translation":"y","notes":null}`), &e))
	assert.Nil(t, e.Notes)
	assert.Empty(t, e.Extra)
}

func TestVocabularyEntry_TextAccessors(t *testing.T) {
	t.Parallel()

	var e VocabularyEntry
	for _, f := range TextFields {
		v := string(f) + " value"
		e.SetText(f, &v)
	}
	for _, f := range TextFields {
		got := e.Text(f)
		require.NotNil(t, got, f)
		assert.Equal(t, string(f)+" value", *got)
	}

	assert.Nil(t, e.Text(TextField("unknown")))
	assert.False(t, TextField("unknown").IsValid())
	assert.True(t, FieldEtymology.IsValid())
}

func TestVocabularyEntry_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := VocabularyEntry{
		ID:        "w1",
		Word:      "Hallo",
		Examples:  []Example{{Sentence: "Hallo!", Context: StringPtr("informal")}},
		Frequency: IntPtr(80),
		Notes:     StringPtr("hi"),
		Extra:     map[string]json.RawMessage{"k": json.RawMessage(`1`)},
	}

	c := orig.Clone()
	*c.Frequency = 1
	*c.Notes = "changed"
	c.Examples[0].Sentence = "changed"
	*c.Examples[0].Context = "changed"
	c.Extra["k"][0] = '2'

	assert.Equal(t, 80, *orig.Frequency)
	assert.Equal(t, "hi", *orig.Notes)
	assert.Equal(t, "Hallo!", orig.Examples[0].Sentence)
	assert.Equal(t, "informal", *orig.Examples[0].Context)
	assert.Equal(t, "1", string(orig.Extra["k"]))
}

func TestCheckIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []VocabularyEntry
		wantErr int
	}{
		{name: "unique", entries: []VocabularyEntry{{ID: "a"}, {ID: "b"}}},
		{name: "empty input"},
		{name: "empty id", entries: []VocabularyEntry{{ID: "a"}, {ID: ""}}, wantErr: 1},
		{name: "duplicate", entries: []VocabularyEntry{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "a"}}, wantErr: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckIDs(tt.entries)
			if tt.wantErr == 0 {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Len(t, ve.Errors, tt.wantErr)
		})
	}
}

func TestVocabularyEntry_MarshalDoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	e := VocabularyEntry{ID: "w1", Word: "und", Translation: "и", Notes: StringPtr("A & B <conj>")}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(e))
	assert.Contains(t, buf.String(), `"notes":"A & B <conj>"`)
}
