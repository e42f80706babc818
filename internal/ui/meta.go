package ui

import (
	"fmt"
	"strings"

	"quickdo/internal/task"
)

// metaState backs the field-by-field task editor.
type metaState struct {
	taskID      task.ID
	title       string
	description string
	priority    string
	category    string
	due         string
	dueTime     string
	tags        string
	index       int
}

func newMetaState(t task.Task) *metaState {
	return &metaState{
		taskID:      t.ID,
		title:       t.Title,
		description: t.Description,
		priority:    string(t.Priority),
		category:    t.Category,
		due:         t.DueDate,
		dueTime:     t.DueTime,
		tags:        strings.Join(t.Tags, ", "),
	}
}

func metaFields() []string {
	return []string{"title", "description", "priority (low/medium/high)", "category", "due date (YYYY-MM-DD)", "due time (HH:MM)", "tags (comma separated)"}
}

func (ms metaState) currentLabel() string {
	return metaFields()[ms.index]
}

func (ms metaState) values() []string {
	return []string{ms.title, ms.description, ms.priority, ms.category, ms.due, ms.dueTime, ms.tags}
}

func (ms metaState) currentValue() string {
	v := ms.values()
	if ms.index < 0 || ms.index >= len(v) {
		return ""
	}
	return v[ms.index]
}

func (ms *metaState) setCurrentValue(v string) {
	switch ms.index {
	case 0:
		ms.title = v
	case 1:
		ms.description = v
	case 2:
		ms.priority = v
	case 3:
		ms.category = v
	case 4:
		ms.due = v
	case 5:
		ms.dueTime = v
	case 6:
		ms.tags = v
	}
}

// patch converts the edited fields into a store update. Date and time
// format errors are left for the store to report.
func (ms metaState) patch() (task.Patch, error) {
	priority, err := task.ParsePriority(ms.priority)
	if err != nil {
		return task.Patch{}, fmt.Errorf("priority invalid: %w", err)
	}
	title := ms.title
	description := ms.description
	category := ms.category
	due := strings.TrimSpace(ms.due)
	dueTime := strings.TrimSpace(ms.dueTime)
	tags := task.SplitTags(ms.tags)
	return task.Patch{
		Title:       &title,
		Description: &description,
		Priority:    &priority,
		Category:    &category,
		DueDate:     &due,
		DueTime:     &dueTime,
		Tags:        &tags,
	}, nil
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
