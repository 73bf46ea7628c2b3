package thread

import "time"

// Groups partitions threads into the sidebar's date sections. Buckets are
// decided against local midnight boundaries with half-open intervals, so a
// thread updated exactly at midnight belongs to Today and one updated a
// millisecond earlier to Yesterday.
type Groups struct {
	Today          []Thread
	Yesterday      []Thread
	Previous7Days  []Thread
	Previous30Days []Thread
	Older          []Thread
}

// Section is one non-empty labeled bucket, in display order.
type Section struct {
	Label   string   `json:"label"`
	Threads []Thread `json:"threads"`
}

// GroupByDate buckets threads by UpdatedAt relative to now. Input order
// within a bucket is preserved; callers are expected to pass threads
// already sorted by recency.
func GroupByDate(threads []Thread, now time.Time) Groups {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	sevenDaysAgo := today.AddDate(0, 0, -7)
	thirtyDaysAgo := today.AddDate(0, 0, -30)

	var groups Groups
	for _, t := range threads {
		updated := t.UpdatedAt
		switch {
		case !updated.Before(today):
			groups.Today = append(groups.Today, t)
		case !updated.Before(yesterday):
			groups.Yesterday = append(groups.Yesterday, t)
		case !updated.Before(sevenDaysAgo):
			groups.Previous7Days = append(groups.Previous7Days, t)
		case !updated.Before(thirtyDaysAgo):
			groups.Previous30Days = append(groups.Previous30Days, t)
		default:
			groups.Older = append(groups.Older, t)
		}
	}
	return groups
}

// Sections returns the non-empty buckets in display order. Empty buckets
// are omitted entirely rather than rendered as empty sections.
func (g Groups) Sections() []Section {
	all := []Section{
		{Label: "Today", Threads: g.Today},
		{Label: "Yesterday", Threads: g.Yesterday},
		{Label: "Previous 7 Days", Threads: g.Previous7Days},
		{Label: "Previous 30 Days", Threads: g.Previous30Days},
		{Label: "Older", Threads: g.Older},
	}
	sections := make([]Section, 0, len(all))
	for _, section := range all {
		if len(section.Threads) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}
