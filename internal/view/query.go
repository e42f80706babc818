// Package view derives read-only projections of the task list: the filtered
// and sorted sequence, the bucketed list, the card grid and the month calendar.
// Nothing here mutates tasks.
package view

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"quickdo/internal/task"
)

type SortKey string

const (
	SortDate         SortKey = "date"
	SortPriority     SortKey = "priority"
	SortCreated      SortKey = "created"
	SortAlphabetical SortKey = "alphabetical"
)

// SortKeys lists the sort modes in the order the UI cycles through them.
var SortKeys = []SortKey{SortDate, SortPriority, SortCreated, SortAlphabetical}

// ParseSortKey falls back to SortDate for unknown values.
func ParseSortKey(v string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(v))); k {
	case SortPriority, SortCreated, SortAlphabetical:
		return k
	case "alpha", "title":
		return SortAlphabetical
	default:
		return SortDate
	}
}

// Next returns the sort key after k in SortKeys.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

const AllCategories = "all"

// noDueSentinel sorts after every real YYYY-MM-DD date.
const noDueSentinel = "9999-12-31"

// Query is the filter, search and sort state for one derivation.
type Query struct {
	Category string
	Search   string
	Sort     SortKey
	// Locale drives alphabetical collation. Zero means English.
	Locale language.Tag
}

func (q Query) allCategories() bool {
	c := strings.TrimSpace(q.Category)
	return c == "" || strings.EqualFold(c, AllCategories)
}

// Apply filters by category and search text, then sorts. Completed tasks
// always follow incomplete ones; the sort key orders within each group.
func Apply(tasks []task.Task, q Query) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, t := range tasks {
		if !q.allCategories() && t.Category != q.Category {
			continue
		}
		if needle != "" && !matches(t, needle) {
			continue
		}
		out = append(out, t)
	}
	Sort(out, q)
	return out
}

// Sort orders tasks in place with a stable sort.
func Sort(tasks []task.Task, q Query) {
	secondary := comparator(q)
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		return secondary(a, b)
	})
}

func comparator(q Query) func(a, b task.Task) int {
	switch ParseSortKey(string(q.Sort)) {
	case SortPriority:
		return func(a, b task.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		}
	case SortCreated:
		return func(a, b task.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	case SortAlphabetical:
		tag := q.Locale
		if tag == language.Und {
			tag = language.English
		}
		col := collate.New(tag, collate.IgnoreCase)
		return func(a, b task.Task) int {
			return col.CompareString(a.Title, b.Title)
		}
	default:
		return func(a, b task.Task) int {
			return strings.Compare(dueKey(a), dueKey(b))
		}
	}
}

func dueKey(t task.Task) string {
	if t.DueDate == "" {
		return noDueSentinel
	}
	return t.DueDate
}

func matches(t task.Task, needle string) bool {
	if strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
