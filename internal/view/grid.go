package view

import (
	"strings"

	"quickdo/internal/task"
)

// Card is one uniform grid cell.
type Card struct {
	ID        task.ID
	Title     string
	Meta      string
	Badges    []string
	Completed bool
	Priority  task.Priority
}

// Grid renders the filtered, sorted sequence as cards without bucketing.
func Grid(tasks []task.Task) []Card {
	out := make([]Card, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewCard(t))
	}
	return out
}

func NewCard(t task.Task) Card {
	meta := []string{string(t.Priority), t.Category}
	if t.DueDate != "" {
		due := t.DueDate
		if t.DueTime != "" {
			due += " " + t.DueTime
		}
		meta = append(meta, "due "+due)
	}
	badges := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		badges = append(badges, "#"+tag)
	}
	return Card{
		ID:        t.ID,
		Title:     t.Title,
		Meta:      strings.Join(meta, " · "),
		Badges:    badges,
		Completed: t.Completed,
		Priority:  t.Priority,
	}
}
