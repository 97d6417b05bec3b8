package dedup

// Report summarizes a deduplication run for auditing. It has no effect on
// the output collection.
type Report struct {
	DuplicateGroups int           `json:"duplicate_groups" yaml:"duplicate_groups"`
	EntriesRemoved  int           `json:"entries_removed"  yaml:"entries_removed"`
	OriginalSize    int           `json:"original_size"    yaml:"original_size"`
	FinalSize       int           `json:"final_size"       yaml:"final_size"`
	Groups          []GroupReport `json:"groups"           yaml:"groups"`
}

// GroupReport describes one merged group.
type GroupReport struct {
	Key            string         `json:"key"                       yaml:"key"`
	Count          int            `json:"count"                     yaml:"count"`
	Members        []MemberReport `json:"members"                   yaml:"members"`
	BaseID         string         `json:"base_id"                   yaml:"base_id"`
	MergedID       string         `json:"merged_id"                 yaml:"merged_id"`
	AbsorbedIDs    []string       `json:"absorbed_ids"              yaml:"absorbed_ids"`
	FallbackFields []string       `json:"fallback_fields,omitempty" yaml:"fallback_fields,omitempty"`
}

// MemberReport is one group member and its completeness score.
type MemberReport struct {
	ID    string  `json:"id"    yaml:"id"`
	Score float64 `json:"score" yaml:"score"`
}

// BuildReport assembles a Report from a merge result and collection sizes.
func BuildReport(originalSize int, result MergeResult, finalSize int) Report {
	r := Report{
		DuplicateGroups: len(result.Merged),
		EntriesRemoved:  len(result.RemovedIDs),
		OriginalSize:    originalSize,
		FinalSize:       finalSize,
		Groups:          make([]GroupReport, 0, len(result.Merged)),
	}

	for _, me := range result.Merged {
		gr := GroupReport{
			Key:            me.Key,
			Count:          len(me.MemberIDs),
			Members:        make([]MemberReport, len(me.MemberIDs)),
			BaseID:         me.BaseID,
			MergedID:       me.Entry.ID,
			AbsorbedIDs:    me.AbsorbedIDs,
			FallbackFields: me.FallbackFields,
		}
		for i, id := range me.MemberIDs {
			gr.Members[i] = MemberReport{ID: id}
			if i < len(me.Scores) {
				gr.Members[i].Score = me.Scores[i]
			}
		}
		r.Groups = append(r.Groups, gr)
	}

	return r
}
