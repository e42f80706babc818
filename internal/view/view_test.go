package view

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickdo/internal/task"
)

var today = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func mk(id int, title string, opts ...func(*task.Task)) task.Task {
	t := task.Task{
		ID:        task.ID(id),
		Title:     title,
		Priority:  task.PriorityMedium,
		Category:  task.DefaultCategory,
		Tags:      []string{},
		CreatedAt: today.Add(time.Duration(id) * time.Minute),
	}
	for _, o := range opts {
		o(&t)
	}
	return t
}

func due(d string) func(*task.Task) { return func(t *task.Task) { t.DueDate = d } }
func prio(p task.Priority) func(*task.Task) { return func(t *task.Task) { t.Priority = p } }
func cat(c string) func(*task.Task) { return func(t *task.Task) { t.Category = c } }
func tags(tt ...string) func(*task.Task) { return func(t *task.Task) { t.Tags = tt } }
func desc(d string) func(*task.Task) { return func(t *task.Task) { t.Description = d } }
func done() func(*task.Task) { return func(t *task.Task) { t.Completed = true } }

func titles(ts []task.Task) (out []string) {
	for _, t := range ts {
		out = append(out, t.Title)
	}
	return out
}

func TestApply_CategoryFilter(t *testing.T) {
	in := []task.Task{mk(1, "a", cat("work")), mk(2, "b"), mk(3, "c", cat("work"))}

	assert.Equal(t, []string{"a", "c"}, titles(Apply(in, Query{Category: "work"})))
	assert.Len(t, Apply(in, Query{Category: "all"}), 3)
	assert.Len(t, Apply(in, Query{}), 3)
	assert.Empty(t, Apply(in, Query{Category: "Work"}))
}

func TestApply_Search(t *testing.T) {
	in := []task.Task{
		mk(1, "Buy MILK"),
		mk(2, "call", desc("ask about milk")),
		mk(3, "other", tags("Milkshake")),
		mk(4, "nothing"),
	}
	got := Apply(in, Query{Search: "  milk "})
	assert.Equal(t, []string{"Buy MILK", "call", "other"}, titles(got))
}

func TestApply_SortDateNoDueLast(t *testing.T) {
	in := []task.Task{
		mk(1, "none"),
		mk(2, "late", due("2026-04-01")),
		mk(3, "early", due("2026-03-01")),
		mk(4, "none2"),
	}
	got := Apply(in, Query{})
	assert.Equal(t, []string{"early", "late", "none", "none2"}, titles(got))
}

func TestApply_SortPriority(t *testing.T) {
	in := []task.Task{
		mk(1, "low", prio(task.PriorityLow)),
		mk(2, "high", prio(task.PriorityHigh)),
		mk(3, "med"),
		mk(4, "high-done", prio(task.PriorityHigh), done()),
	}
	got := Apply(in, Query{Sort: SortPriority})
	assert.Equal(t, []string{"high", "med", "low", "high-done"}, titles(got))
}

func TestApply_SortCreatedNewestFirst(t *testing.T) {
	in := []task.Task{mk(1, "old"), mk(3, "new"), mk(2, "mid")}
	got := Apply(in, Query{Sort: SortCreated})
	assert.Equal(t, []string{"new", "mid", "old"}, titles(got))
}

func TestApply_SortAlphabetical(t *testing.T) {
	in := []task.Task{mk(1, "banana"), mk(2, "Apple"), mk(3, "cherry"), mk(4, "Éclair")}
	got := Apply(in, Query{Sort: SortAlphabetical})
	assert.Equal(t, []string{"Apple", "banana", "cherry", "Éclair"}, titles(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := []task.Task{mk(1, "b"), mk(2, "a")}
	_ = Apply(in, Query{Sort: SortAlphabetical})
	assert.Equal(t, []string{"b", "a"}, titles(in))
}

func TestApply_CompletedNeverPrecedeIncomplete(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	prios := []task.Priority{task.PriorityLow, task.PriorityMedium, task.PriorityHigh}
	for round := range 50 {
		var in []task.Task
		for i := range 30 {
			tk := mk(i+1, fmt.Sprintf("t%d", r.IntN(100)), prio(prios[r.IntN(3)]))
			if r.IntN(2) == 0 {
				tk.Completed = true
			}
			if r.IntN(3) > 0 {
				tk.DueDate = task.FormatDate(today.AddDate(0, 0, r.IntN(20)-10))
			}
			in = append(in, tk)
		}
		for _, key := range SortKeys {
			got := Apply(in, Query{Sort: key})
			seenDone := false
			for _, tk := range got {
				if tk.Completed {
					seenDone = true
				} else {
					require.False(t, seenDone, "round %d sort %s", round, key)
				}
			}
		}
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortDate, ParseSortKey(""))
	assert.Equal(t, SortDate, ParseSortKey("bogus"))
	assert.Equal(t, SortPriority, ParseSortKey("Priority"))
	assert.Equal(t, SortAlphabetical, ParseSortKey("alpha"))
	assert.Equal(t, SortPriority, SortDate.Next())
	assert.Equal(t, SortDate, SortAlphabetical.Next())
}

func TestList_Buckets(t *testing.T) {
	in := []task.Task{
		mk(1, "overdue", due("2026-03-13")),
		mk(2, "today", due("2026-03-14")),
		mk(3, "upcoming", due("2026-03-15")),
		mk(4, "nodate"),
		mk(5, "done-overdue", due("2026-03-01"), done()),
		mk(6, "done-nodate", done()),
	}
	v := List(in, today)

	require.Len(t, v.Sections, 5)
	for i, b := range Buckets {
		assert.Equal(t, b, v.Sections[i].Bucket)
	}
	assert.Equal(t, []string{"overdue"}, titles(v.Section(BucketOverdue)))
	assert.Equal(t, []string{"today"}, titles(v.Section(BucketToday)))
	assert.Equal(t, []string{"upcoming"}, titles(v.Section(BucketUpcoming)))
	assert.Equal(t, []string{"nodate"}, titles(v.Section(BucketNoDate)))
	assert.Equal(t, []string{"done-overdue", "done-nodate"}, titles(v.Section(BucketCompleted)))
	assert.Equal(t, 6, v.Len())
}

func TestList_EveryTaskInExactlyOneBucket(t *testing.T) {
	var in []task.Task
	for i := range 40 {
		tk := mk(i+1, fmt.Sprint(i))
		if i%3 != 0 {
			tk.DueDate = task.FormatDate(today.AddDate(0, 0, i%7-3))
		}
		tk.Completed = i%5 == 0
		in = append(in, tk)
	}
	v := List(in, today)

	seen := map[task.ID]int{}
	for _, s := range v.Sections {
		for _, tk := range s.Tasks {
			seen[tk.ID]++
		}
	}
	assert.Len(t, seen, len(in))
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %s", id)
	}
	assert.ElementsMatch(t, in, v.Flatten())
}

func TestBucket_String(t *testing.T) {
	assert.Equal(t, "No date", BucketNoDate.String())
	assert.Equal(t, "Unknown", Bucket(99).String())
}

func TestGrid(t *testing.T) {
	in := []task.Task{mk(1, "a", due("2026-03-20"), tags("x", "y"), prio(task.PriorityHigh)), mk(2, "b")}
	in[0].DueTime = "09:00"

	cards := Grid(in)
	require.Len(t, cards, 2)
	assert.Equal(t, "a", cards[0].Title)
	assert.Equal(t, "high · personal · due 2026-03-20 09:00", cards[0].Meta)
	assert.Equal(t, []string{"#x", "#y"}, cards[0].Badges)
	assert.Equal(t, "medium · personal", cards[1].Meta)
	assert.Empty(t, cards[1].Badges)
}

func TestCalendar_Layout(t *testing.T) {
	// March 2026 starts on a Sunday, April 2026 on a Wednesday.
	m := Calendar(nil, 2026, time.March, today)
	assert.Equal(t, 0, m.Leading)
	assert.Len(t, m.Days, 31)
	assert.Equal(t, "March 2026", m.Title())

	apr := Calendar(nil, 2026, time.April, today)
	assert.Equal(t, 3, apr.Leading)
	assert.Len(t, apr.Days, 30)

	cells := apr.Cells()
	require.Len(t, cells, 33)
	for _, c := range cells[:3] {
		assert.Zero(t, c.Day)
	}
	assert.Equal(t, 1, cells[3].Day)
	assert.Equal(t, "2026-04-01", cells[3].Date)

	weeks := apr.Weeks()
	assert.Len(t, weeks, 5)
	for _, w := range weeks {
		assert.Len(t, w, 7)
	}

	feb := Calendar(nil, 2028, time.February, today)
	assert.Len(t, feb.Days, 29)
}

func TestCalendar_AttachesTasksAndMarksToday(t *testing.T) {
	in := []task.Task{
		mk(1, "a", due("2026-03-14"), cat("work")),
		mk(2, "b", due("2026-03-14"), done()),
		mk(3, "c", due("2026-03-31")),
		mk(4, "outside", due("2026-04-01")),
		mk(5, "nodate"),
	}
	m := Calendar(in, 2026, time.March, today)

	attached := 0
	for _, d := range m.Days {
		attached += len(d.Tasks)
		for _, tk := range d.Tasks {
			assert.Equal(t, d.Date, tk.DueDate)
		}
		assert.Equal(t, d.Day == 14, d.Today)
	}
	assert.Equal(t, 3, attached)
	assert.Equal(t, []string{"a", "b"}, titles(m.Days[13].Tasks))
	assert.Equal(t, []string{"c"}, titles(m.Days[30].Tasks))
}

func TestMonth_PrevNext(t *testing.T) {
	m := Calendar(nil, 2026, time.January, today)
	y, mo := m.Prev()
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.December, mo)

	m = Calendar(nil, 2026, time.December, today)
	y, mo = m.Next()
	assert.Equal(t, 2027, y)
	assert.Equal(t, time.January, mo)
}
