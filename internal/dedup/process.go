package dedup

import (
	"log/slog"

	"github.com/heartmarshall/vocabmerge/internal/domain"
)

// Outcome is the full result of one deduplication pass.
type Outcome struct {
	Entries []domain.VocabularyEntry
	Groups  []DuplicateGroup
	Merge   MergeResult
	Report  Report
}

// Changed reports whether the pass removed anything.
func (o Outcome) Changed() bool {
	return len(o.Merge.RemovedIDs) > 0
}

// Process groups, merges and rebuilds entries in one pass. entries is read only.
func (m *Merger) Process(entries []domain.VocabularyEntry) Outcome {
	groups := FindDuplicateGroups(entries)
	result := m.MergeDuplicates(groups)
	out := RebuildCollection(entries, result.Merged, result.RemovedIDs)

	m.log.Info("deduplication pass complete",
		slog.Int("input", len(entries)),
		slog.Int("duplicate_groups", len(groups)),
		slog.Int("removed", len(result.RemovedIDs)),
		slog.Int("output", len(out)),
	)

	return Outcome{
		Entries: out,
		Groups:  groups,
		Merge:   result,
		Report:  BuildReport(len(entries), result, len(out)),
	}
}
