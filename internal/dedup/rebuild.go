package dedup

import "github.com/heartmarshall/vocabmerge/internal/domain"

// RebuildCollection produces the deduplicated collection. Entries not
// touched by a merge pass through in their original relative order; each
// merged entry takes the position of its group's first member. Every
// returned record is a fresh copy. Entry ids are assumed unique (see
// domain.CheckIDs).
func RebuildCollection(original []domain.VocabularyEntry, merged []MergedEntry, removedIDs []string) []domain.VocabularyEntry {
	owner := make(map[string]int)
	for i, me := range merged {
		for _, id := range memberIDs(me) {
			owner[id] = i
		}
	}

	removed := make(map[string]struct{}, len(removedIDs))
	for _, id := range removedIDs {
		removed[id] = struct{}{}
	}

	emitted := make([]bool, len(merged))
	out := make([]domain.VocabularyEntry, 0, max(len(original)-len(removed), 0))

	for _, e := range original {
		if i, ok := owner[e.ID]; ok {
			if !emitted[i] {
				out = append(out, merged[i].Entry.Clone())
				emitted[i] = true
			}
			continue
		}
		if _, ok := removed[e.ID]; ok {
			continue
		}
		out = append(out, e.Clone())
	}

	return out
}

// memberIDs tolerates a MergedEntry built without MemberIDs.
func memberIDs(me MergedEntry) []string {
	if len(me.MemberIDs) > 0 {
		return me.MemberIDs
	}
	ids := make([]string, 0, len(me.AbsorbedIDs)+1)
	if me.BaseID != "" {
		ids = append(ids, me.BaseID)
	}
	return append(ids, me.AbsorbedIDs...)
}
