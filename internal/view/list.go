package view

import (
	"time"

	"quickdo/internal/task"
)

type Bucket int

const (
	BucketOverdue Bucket = iota
	BucketToday
	BucketUpcoming
	BucketNoDate
	BucketCompleted
)

// Buckets is the fixed display order of the list projection.
var Buckets = []Bucket{BucketOverdue, BucketToday, BucketUpcoming, BucketNoDate, BucketCompleted}

func (b Bucket) String() string {
	switch b {
	case BucketOverdue:
		return "Overdue"
	case BucketToday:
		return "Today"
	case BucketUpcoming:
		return "Upcoming"
	case BucketNoDate:
		return "No date"
	case BucketCompleted:
		return "Completed"
	}
	return "Unknown"
}

// Classify places t in exactly one bucket. today is a YYYY-MM-DD string;
// due dates use the same fixed-width layout so string order is date order.
func Classify(t task.Task, today string) Bucket {
	switch {
	case t.Completed:
		return BucketCompleted
	case t.DueDate == "":
		return BucketNoDate
	case t.DueDate < today:
		return BucketOverdue
	case t.DueDate == today:
		return BucketToday
	default:
		return BucketUpcoming
	}
}

type Section struct {
	Bucket Bucket
	Tasks  []task.Task
}

// ListView holds one section per bucket, in Buckets order, including empty ones.
type ListView struct {
	Sections []Section
}

// List partitions already filtered and sorted tasks, keeping their order
// inside each bucket.
func List(tasks []task.Task, today time.Time) ListView {
	key := task.FormatDate(today)
	sections := make([]Section, len(Buckets))
	for i, b := range Buckets {
		sections[i] = Section{Bucket: b, Tasks: []task.Task{}}
	}
	for _, t := range tasks {
		b := Classify(t, key)
		sections[b].Tasks = append(sections[b].Tasks, t)
	}
	return ListView{Sections: sections}
}

func (v ListView) Section(b Bucket) []task.Task {
	for _, s := range v.Sections {
		if s.Bucket == b {
			return s.Tasks
		}
	}
	return nil
}

func (v ListView) Len() int {
	n := 0
	for _, s := range v.Sections {
		n += len(s.Tasks)
	}
	return n
}

// Flatten returns the tasks in display order, the order a cursor walks them.
func (v ListView) Flatten() []task.Task {
	out := make([]task.Task, 0, v.Len())
	for _, s := range v.Sections {
		out = append(out, s.Tasks...)
	}
	return out
}
