package dedup

import "github.com/heartmarshall/vocabmerge/internal/domain"

// Weights controls how much each kind of content adds to a completeness score.
type Weights struct {
	// Example is added per example with a non-blank sentence.
	Example float64
	// TextField is added per annotation field with content.
	TextField float64
	// Frequency is multiplied by a positive frequency value. The product is
	// capped at half of TextField, so it only separates otherwise equal entries.
	Frequency float64
}

// DefaultWeights returns the weights used when none are configured.
func DefaultWeights() Weights {
	return Weights{
		Example:   10,
		TextField: 1,
		Frequency: 0.001,
	}
}

// IsZero reports whether no weight is set.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Score evaluates how much enrichment content e carries. The result is
// non-negative and depends on nothing but e and w.
func (w Weights) Score(e domain.VocabularyEntry) float64 {
	var score float64

	for _, ex := range e.Examples {
		if domain.HasContent(&ex.Sentence) {
			score += w.Example
		}
	}

	for _, f := range domain.TextFields {
		if domain.HasContent(e.Text(f)) {
			score += w.TextField
		}
	}

	// Capped below one text field so frequency never outranks content.
	if e.Frequency != nil && *e.Frequency > 0 {
		score += min(w.Frequency*float64(*e.Frequency), w.TextField/2)
	}

	return score
}

// Score evaluates e with DefaultWeights.
func Score(e domain.VocabularyEntry) float64 {
	return DefaultWeights().Score(e)
}
