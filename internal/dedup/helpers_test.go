package dedup

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/heartmarshall/vocabmerge/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMerger(opts Options) *Merger {
	return NewMerger(discardLogger(), opts)
}

func entry(id, word, translation string) domain.VocabularyEntry {
	return domain.VocabularyEntry{ID: id, Word: word, Translation: translation}
}

func examples(sentences ...string) []domain.Example {
	out := make([]domain.Example, len(sentences))
	for i, s := range sentences {
		out[i] = domain.Example{Sentence: s}
	}
	return out
}

var (
	genPairs = [][2]string{
		{"Hallo", "Здравей"},
		{"Haus", "къща"},
		{"laufen", "бягам"},
		{"schön", "красив"},
		{"Straße", "улица"},
		{"", "празно"},
	}
	genSentences = []string{"Hallo!", "Das Haus ist groß.", "Ich laufe.", "Schön!", "Die Straße ist lang.", "Guten Tag."}
	genNotes     = []string{"common", "formal", "regional", "archaic"}
)

// randomCollection builds a reproducible collection with many case-variant
// duplicates. Examples within one entry never repeat a normalized sentence.
func randomCollection(r *rand.Rand, n int) []domain.VocabularyEntry {
	out := make([]domain.VocabularyEntry, n)
	for i := range n {
		pair := genPairs[r.IntN(len(genPairs))]
		e := domain.VocabularyEntry{
			ID:          fmt.Sprintf("e%03d", i),
			Word:        randomCase(r, pair[0]),
			Translation: randomCase(r, pair[1]),
		}

		for _, j := range r.Perm(len(genSentences))[:r.IntN(3)] {
			e.Examples = append(e.Examples, domain.Example{Sentence: randomCase(r, genSentences[j])})
		}
		if r.IntN(3) > 0 {
			e.Frequency = domain.IntPtr(r.IntN(100))
		}
		if r.IntN(2) == 0 {
			e.Difficulty = domain.IntPtr(1 + r.IntN(5))
		}
		for _, f := range domain.TextFields {
			switch r.IntN(5) {
			case 0:
				v := genNotes[r.IntN(len(genNotes))]
				e.SetText(f, &v)
			case 1:
				v := "  " + genNotes[r.IntN(len(genNotes))] + " "
				e.SetText(f, &v)
			case 2:
				e.SetText(f, domain.StringPtr("   "))
			}
		}
		out[i] = e
	}
	return out
}

func randomCase(r *rand.Rand, s string) string {
	switch r.IntN(3) {
	case 0:
		return strings.ToUpper(s)
	case 1:
		return strings.ToLower(s)
	default:
		return s
	}
}
