package dedup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/vocabmerge/internal/domain"
)

// DefaultSeparator joins distinct annotation values coming from different members.
const DefaultSeparator = " | "

// TextStrategy combines the contentful values of one annotation field,
// given in member order. It is only called with at least one value.
type TextStrategy func(field domain.TextField, values []string) (*string, error)

// JoinDistinct keeps every distinct value (compared after trimming) in
// first-seen order. A single distinct value is returned as it was written;
// several are trimmed and joined with sep.
func JoinDistinct(sep string) TextStrategy {
	return func(_ domain.TextField, values []string) (*string, error) {
		if len(values) == 0 {
			return nil, nil
		}

		seen := make(map[string]struct{}, len(values))
		distinct := make([]string, 0, len(values))
		for _, v := range values {
			t := strings.TrimSpace(v)
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			distinct = append(distinct, t)
		}

		if len(distinct) == 1 {
			v := values[0]
			return &v, nil
		}
		joined := strings.Join(distinct, sep)
		return &joined, nil
	}
}

// Options configures a Merger. Zero values fall back to defaults.
type Options struct {
	Weights   Weights
	Separator string
	// Workers bounds how many groups are merged concurrently. Output order
	// never depends on it.
	Workers int
	// TextStrategy overrides JoinDistinct for annotation fields.
	TextStrategy TextStrategy
}

// Merger folds duplicate groups into single entries.
type Merger struct {
	log      *slog.Logger
	weights  Weights
	strategy TextStrategy
	workers  int
}

// NewMerger creates a Merger. A nil log means slog.Default().
func NewMerger(log *slog.Logger, opts Options) *Merger {
	if log == nil {
		log = slog.Default()
	}
	if opts.Weights.IsZero() {
		opts.Weights = DefaultWeights()
	}
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.TextStrategy == nil {
		opts.TextStrategy = JoinDistinct(opts.Separator)
	}

	return &Merger{
		log:      log,
		weights:  opts.Weights,
		strategy: opts.TextStrategy,
		workers:  opts.Workers,
	}
}

// Weights returns the scoring weights in use.
func (m *Merger) Weights() Weights {
	return m.weights
}

// MergedEntry is the single record produced from a DuplicateGroup plus the
// provenance needed to report on it.
type MergedEntry struct {
	Entry domain.VocabularyEntry
	Key   string

	BaseID string
	// MemberIDs lists all group members in input order; Scores is parallel to it.
	MemberIDs []string
	Scores    []float64
	// AbsorbedIDs are the members other than the base, in input order.
	AbsorbedIDs []string
	// FallbackFields names fields whose merge failed and kept the base value.
	FallbackFields []string
}

// MergeResult is the outcome of merging a list of groups.
type MergeResult struct {
	Merged     []MergedEntry
	RemovedIDs []string
}

// MergeDuplicates merges every group with more than one member. Groups are
// independent, so they are merged on up to Workers goroutines; results keep
// the order of groups.
func (m *Merger) MergeDuplicates(groups []DuplicateGroup) MergeResult {
	multi := make([]DuplicateGroup, 0, len(groups))
	for _, g := range groups {
		if g.Count() > 1 {
			multi = append(multi, g)
		}
	}

	merged := make([]MergedEntry, len(multi))

	var eg errgroup.Group
	eg.SetLimit(m.workers)
	for i, g := range multi {
		eg.Go(func() error {
			merged[i] = m.Merge(g)
			return nil
		})
	}
	_ = eg.Wait() // Merge never fails; per-field problems are handled inside.

	var removed []string
	for _, me := range merged {
		removed = append(removed, me.AbsorbedIDs...)
	}

	return MergeResult{Merged: merged, RemovedIDs: removed}
}

// Merge folds all members of g into one entry.
//
// The member with the strictly highest score is the base; on equal scores the
// earliest member wins. The result keeps the base id, word, translation and
// descriptive fields, and combines the rest field by field:
//   - frequency: maximum (missing counts as 0)
//   - difficulty: minimum of the present values
//   - examples: union in member order, deduplicated by normalized sentence
//   - annotation fields: TextStrategy over all contentful values
//
// A group of one member comes back unchanged.
func (m *Merger) Merge(g DuplicateGroup) MergedEntry {
	result := MergedEntry{Key: g.Key}
	if len(g.Members) == 0 {
		return result
	}

	members := g.Members
	result.MemberIDs = make([]string, len(members))
	result.Scores = make([]float64, len(members))

	best := 0
	for i, e := range members {
		result.MemberIDs[i] = e.ID
		result.Scores[i] = m.weights.Score(e)
		if result.Scores[i] > result.Scores[best] {
			best = i
		}
	}

	base := members[best]
	result.BaseID = base.ID
	for i, e := range members {
		if i != best {
			result.AbsorbedIDs = append(result.AbsorbedIDs, e.ID)
		}
	}

	out := base.Clone()
	if len(members) == 1 {
		result.Entry = out
		return result
	}

	var failed []string
	track := func(field string, ok bool) {
		if !ok {
			failed = append(failed, field)
		}
	}

	var ok bool
	out.Frequency, ok = guard(m.log, g.Key, "frequency", out.Frequency, func() (*int, error) {
		return maxFrequency(members), nil
	})
	track("frequency", ok)

	out.Difficulty, ok = guard(m.log, g.Key, "difficulty", out.Difficulty, func() (*int, error) {
		return minDifficulty(members), nil
	})
	track("difficulty", ok)

	out.Examples, ok = guard(m.log, g.Key, "examples", out.Examples, func() ([]domain.Example, error) {
		return mergeExamples(members, out.Examples), nil
	})
	track("examples", ok)

	for _, f := range domain.TextFields {
		v, ok := guard(m.log, g.Key, string(f), out.Text(f), func() (*string, error) {
			return m.mergeText(f, members)
		})
		out.SetText(f, v)
		track(string(f), ok)
	}

	out.PartOfSpeech = firstWithContent(out.PartOfSpeech, members, func(e domain.VocabularyEntry) *string { return e.PartOfSpeech })
	out.Category = firstWithContent(out.Category, members, func(e domain.VocabularyEntry) *string { return e.Category })
	out.Level = firstWithContent(out.Level, members, func(e domain.VocabularyEntry) *string { return e.Level })
	out.Extra = mergeExtra(out.Extra, members)

	result.Entry = out
	result.FallbackFields = failed

	m.log.Debug("merged duplicate group",
		slog.String("key", g.Key),
		slog.Int("members", len(members)),
		slog.String("base_id", base.ID),
	)

	return result
}

// guard runs one field merge. An error or a panic is logged and the
// field keeps fallback, so one bad field never costs the rest of the record.
func guard[T any](log *slog.Logger, key, field string, fallback T, fn func() (T, error)) (out T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("field merge panicked, keeping base value",
				slog.String("key", key),
				slog.String("field", field),
				slog.String("panic", fmt.Sprint(r)),
			)
			out, ok = fallback, false
		}
	}()

	v, err := fn()
	if err != nil {
		log.Warn("field merge failed, keeping base value",
			slog.String("key", key),
			slog.String("field", field),
			slog.String("error", err.Error()),
		)
		return fallback, false
	}
	return v, true
}

func (m *Merger) mergeText(f domain.TextField, members []domain.VocabularyEntry) (*string, error) {
	var values []string
	for i := range members {
		if v := members[i].Text(f); domain.HasContent(v) {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil, nil
	}
	return m.strategy(f, values)
}

// maxFrequency returns nil when no member has a frequency.
func maxFrequency(members []domain.VocabularyEntry) *int {
	present := false
	best := 0
	for i, e := range members {
		v := 0
		if e.Frequency != nil {
			v = *e.Frequency
			present = true
		}
		if i == 0 || v > best {
			best = v
		}
	}
	if !present {
		return nil
	}
	return &best
}

// minDifficulty ignores missing values; nil when no member has one.
func minDifficulty(members []domain.VocabularyEntry) *int {
	var best *int
	for _, e := range members {
		if e.Difficulty == nil {
			continue
		}
		if best == nil || *e.Difficulty < *best {
			v := *e.Difficulty
			best = &v
		}
	}
	return best
}

// mergeExamples concatenates member examples and drops repeats of a
// normalized sentence, keeping the first. An empty union leaves base as is.
func mergeExamples(members []domain.VocabularyEntry, base []domain.Example) []domain.Example {
	seen := make(map[string]struct{})
	var union []domain.Example

	for _, e := range members {
		for _, ex := range e.Examples {
			k := domain.NormalizeText(ex.Sentence)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if ex.Context != nil {
				c := *ex.Context
				ex.Context = &c
			}
			union = append(union, ex)
		}
	}

	if len(union) == 0 {
		return base
	}
	return union
}

func firstWithContent(current *string, members []domain.VocabularyEntry, get func(domain.VocabularyEntry) *string) *string {
	if domain.HasContent(current) {
		return current
	}
	for _, e := range members {
		if v := get(e); domain.HasContent(v) {
			c := *v
			return &c
		}
	}
	return current
}

// mergeExtra keeps the base keys and adds keys only other members carry.
func mergeExtra(base map[string]json.RawMessage, members []domain.VocabularyEntry) map[string]json.RawMessage {
	out := base
	for _, e := range members {
		for k, v := range e.Extra {
			if _, ok := out[k]; ok {
				continue
			}
			if out == nil {
				out = make(map[string]json.RawMessage)
			}
			out[k] = slices.Clone(v)
		}
	}
	return out
}
