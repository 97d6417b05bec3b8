package domain

import "strconv"

// CheckIDs verifies every entry has a non-empty id and that no id repeats.
// The rebuild step addresses records by id, so both must hold before merging.
func CheckIDs(entries []VocabularyEntry) error {
	var errs []FieldError
	seen := make(map[string]int, len(entries))

	for i, e := range entries {
		if e.ID == "" {
			errs = append(errs, FieldError{Field: "id", Message: "empty id at position " + strconv.Itoa(i)})
			continue
		}
		if first, dup := seen[e.ID]; dup {
			errs = append(errs, FieldError{
				EntryID: e.ID,
				Field:   "id",
				Message: "duplicate id, first seen at position " + strconv.Itoa(first),
			})
			continue
		}
		seen[e.ID] = i
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
