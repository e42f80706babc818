package view

import (
	"time"

	"quickdo/internal/task"
)

type Day struct {
	Date  string
	Day   int
	Today bool
	Tasks []task.Task
}

// Month is a Sunday-first calendar page. Leading counts the blank cells
// before the 1st.
type Month struct {
	Year    int
	Month   time.Month
	Leading int
	Days    []Day
}

// Calendar lays out year/month and attaches every task due on each day.
// Pass the unfiltered list: category and search filters do not apply here.
func Calendar(tasks []task.Task, year int, month time.Month, today time.Time) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	n := daysIn(year, month)
	todayKey := task.FormatDate(today)

	m := Month{
		Year:    first.Year(),
		Month:   first.Month(),
		Leading: int(first.Weekday()),
		Days:    make([]Day, n),
	}
	index := make(map[string]int, n)
	for i := range n {
		date := task.FormatDate(first.AddDate(0, 0, i))
		m.Days[i] = Day{Date: date, Day: i + 1, Today: date == todayKey, Tasks: []task.Task{}}
		index[date] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.DueDate]; ok {
			m.Days[i].Tasks = append(m.Days[i].Tasks, t)
		}
	}
	return m
}

// Cells returns Leading zero-valued blanks followed by the day cells.
func (m Month) Cells() []Day {
	out := make([]Day, 0, m.Leading+len(m.Days))
	out = append(out, make([]Day, m.Leading)...)
	return append(out, m.Days...)
}

// Weeks splits Cells into rows of seven, padding the last row.
func (m Month) Weeks() [][]Day {
	cells := m.Cells()
	for len(cells)%7 != 0 {
		cells = append(cells, Day{})
	}
	var weeks [][]Day
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

func (m Month) Title() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

func (m Month) Prev() (int, time.Month) {
	p := time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return p.Year(), p.Month()
}

func (m Month) Next() (int, time.Month) {
	p := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return p.Year(), p.Month()
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
