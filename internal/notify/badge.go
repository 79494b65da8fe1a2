package notify

import (
	"sort"

	"gradus/internal/domain"
)

// BadgeCounts holds unread counts per segment for one aggregation pass.
type BadgeCounts struct {
	Counts      map[string]int `json:"counts"`
	TotalUnread int            `json:"total_unread"`
}

// GroupBySegment aggregates unread events into per-segment counts in a
// single pass. Events already marked read are skipped entirely.
func GroupBySegment(events []domain.Notification, role domain.UserRole) BadgeCounts {
	out := BadgeCounts{Counts: make(map[string]int)}
	for _, e := range events {
		if e.Read {
			continue
		}
		out.Counts[SegmentFor(e.Category, role)]++
		out.TotalUnread++
	}
	return out
}

// Reconcile diffs the previous cycle's non-zero segment set against new
// counts. Segments that dropped out of the new set are returned as
// cleared so the caller can wipe their badges; segments with a current
// count are returned as set. The returned next set replaces prev for
// the following cycle.
func Reconcile(prev map[string]bool, counts map[string]int) (next map[string]bool, cleared, set []string) {
	next = make(map[string]bool, len(counts))
	for seg, n := range counts {
		if n > 0 {
			next[seg] = true
			set = append(set, seg)
		}
	}
	for seg := range prev {
		if !next[seg] {
			cleared = append(cleared, seg)
		}
	}
	sort.Strings(cleared)
	sort.Strings(set)
	return next, cleared, set
}
