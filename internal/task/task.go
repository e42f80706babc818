package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultCategory = "personal"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority is case-insensitive. An empty string yields medium.
func ParsePriority(v string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return PriorityMedium, nil
	case "low", "l", "1":
		return PriorityLow, nil
	case "medium", "med", "m", "2":
		return PriorityMedium, nil
	case "high", "h", "3":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q", v)
}

// Rank orders priorities: high > medium > low. Unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	DueDate     string     `json:"dueDate,omitempty"`
	DueTime     string     `json:"dueTime,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (t Task) HasDue() bool {
	return t.DueDate != ""
}

func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	out := t
	out.Tags = slices.Clone(t.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

func (t *Task) setCompleted(done bool, now time.Time) {
	t.Completed = done
	if done {
		at := now
		t.CompletedAt = &at
		return
	}
	t.CompletedAt = nil
}

// Draft carries the fields a caller supplies when creating a task.
type Draft struct {
	Title       string
	Description string
	Priority    Priority
	Category    string
	DueDate     string
	DueTime     string
	Tags        []string
}

// Patch represents a partial update.
// nil pointer => "no change"
// empty string for DueDate/DueTime => clear
// empty string for Category => reset to the default category
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
	Category    *string
	DueDate     *string
	DueTime     *string
	Tags        *[]string
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.Priority == nil &&
		p.Category == nil && p.DueDate == nil && p.DueTime == nil && p.Tags == nil
}

// NormalizeTags trims every tag, drops empties and duplicates, and keeps first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitTags parses comma separated tag text.
func SplitTags(text string) []string {
	return NormalizeTags(strings.Split(text, ","))
}

func normalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCategory
	}
	return c
}

// ValidDate reports whether v is a YYYY-MM-DD calendar date.
func ValidDate(v string) bool {
	_, err := time.Parse(DateLayout, v)
	return err == nil
}

func ValidTime(v string) bool {
	_, err := time.Parse(TimeLayout, v)
	return err == nil
}

// FormatDate renders t as the date string used for due dates.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
