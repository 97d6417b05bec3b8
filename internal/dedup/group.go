// Package dedup finds vocabulary entries that share a (word, translation)
// pair and folds each such group into a single entry without dropping any
// enrichment content. Everything here is pure: no I/O, no shared state, and
// input records are never modified.
package dedup

import "github.com/heartmarshall/vocabmerge/internal/domain"

// keySeparator joins the normalized word and translation of a group key.
const keySeparator = "|"

// DuplicateGroup is the set of entries sharing one normalized key, in input order.
type DuplicateGroup struct {
	Key     string
	Members []domain.VocabularyEntry
}

// Count returns the number of members.
func (g DuplicateGroup) Count() int {
	return len(g.Members)
}

// Key returns the grouping key of e. Word and translation are compared in
// place: a swapped pair is a different key. Empty fields yield a degenerate
// but valid key.
func Key(e domain.VocabularyEntry) string {
	return domain.NormalizeText(e.Word) + keySeparator + domain.NormalizeText(e.Translation)
}

// GroupEntries partitions entries by Key. Groups are ordered by the first
// occurrence of their key and members keep their relative input order.
// Singleton groups are included.
func GroupEntries(entries []domain.VocabularyEntry) []DuplicateGroup {
	index := make(map[string]int, len(entries))
	var groups []DuplicateGroup

	for _, e := range entries {
		k := Key(e)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, DuplicateGroup{Key: k})
		}
		groups[i].Members = append(groups[i].Members, e)
	}

	return groups
}

// FindDuplicateGroups returns only the groups with more than one member.
func FindDuplicateGroups(entries []domain.VocabularyEntry) []DuplicateGroup {
	var dups []DuplicateGroup
	for _, g := range GroupEntries(entries) {
		if g.Count() > 1 {
			dups = append(dups, g)
		}
	}
	return dups
}
