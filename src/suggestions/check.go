package suggestions

import (
	"fmt"
	"slices"
	"sort"
)

// Violation is one broken invariant found in a document.
type Violation struct {
	ID      int64  `json:"id"`
	Problem string `json:"problem"`
}

func (v Violation) String() string {
	return fmt.Sprintf("#%d: %s", v.ID, v.Problem)
}

// Check reports every record that breaks the document invariants. A nil
// result means the document is consistent.
func Check(doc *Document) []Violation {
	var out []Violation
	add := func(id int64, format string, args ...any) {
		out = append(out, Violation{ID: id, Problem: fmt.Sprintf(format, args...)})
	}

	seen := make(map[int64]int, len(doc.Suggestions))
	for _, rec := range doc.Suggestions {
		if rec == nil {
			add(0, "null suggestion entry")
			continue
		}
		seen[rec.ID]++
		if seen[rec.ID] == 2 {
			add(rec.ID, "duplicate id")
		}
		if rec.ID <= 0 {
			add(rec.ID, "id must be positive")
		}
		if rec.ID > doc.LastID {
			add(rec.ID, "id above last_id %d", doc.LastID)
		}
		if !rec.Status.Valid() {
			add(rec.ID, "unknown status %q", rec.Status)
		}
		if err := ValidateContent(rec.Content); err != nil {
			add(rec.ID, "content length out of range")
		}
		for mark, ids := range rec.Votes {
			if !mark.Valid() {
				add(rec.ID, "unknown vote mark %q", mark)
			}
			sorted := slices.Clone(ids)
			sort.Strings(sorted)
			if len(slices.Compact(sorted)) != len(ids) {
				add(rec.ID, "repeated voter in %s", mark)
			}
		}
		for _, user := range rec.Votes[MarkApprove] {
			if slices.Contains(rec.Votes[MarkReject], user) {
				add(rec.ID, "user %s holds both marks", user)
			}
		}
	}
	return out
}
