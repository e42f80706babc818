package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// storedTask mirrors Task with loosely typed fields so that entries written
// by older versions, or edited by hand, can still be read.
type storedTask struct {
	ID          json.RawMessage `json:"id"`
	Title       json.RawMessage `json:"title"`
	Description json.RawMessage `json:"description"`
	Completed   json.RawMessage `json:"completed"`
	Priority    json.RawMessage `json:"priority"`
	Category    json.RawMessage `json:"category"`
	DueDate     json.RawMessage `json:"dueDate"`
	DueTime     json.RawMessage `json:"dueTime"`
	Tags        json.RawMessage `json:"tags"`
	CreatedAt   json.RawMessage `json:"createdAt"`
	CompletedAt json.RawMessage `json:"completedAt"`
}

// decodeTasks parses a stored payload. A payload that is not a JSON array
// is an error; individual entries are repaired or skipped.
func decodeTasks(data []byte, now time.Time) ([]Task, []string, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("decode task list: %w", err)
	}

	var notes []string
	out := make([]Task, 0, len(entries))
	seen := make(map[ID]struct{}, len(entries))
	for i, raw := range entries {
		var st storedTask
		if err := json.Unmarshal(raw, &st); err != nil {
			notes = append(notes, fmt.Sprintf("entry %d skipped: %v", i, err))
			continue
		}
		t, ok := repairTask(st, now)
		if !ok {
			notes = append(notes, fmt.Sprintf("entry %d skipped: empty title", i))
			continue
		}
		if _, dup := seen[t.ID]; dup || t.ID == 0 {
			t.ID = NewID(now)
			notes = append(notes, fmt.Sprintf("entry %d assigned new id %s", i, t.ID))
		}
		seen[t.ID] = struct{}{}
		observeID(t.ID)
		out = append(out, t)
	}
	return out, notes, nil
}

func repairTask(st storedTask, now time.Time) (Task, bool) {
	t := Task{
		Title:       strings.TrimSpace(rawString(st.Title)),
		Description: rawString(st.Description),
		Completed:   rawBool(st.Completed),
		Category:    normalizeCategory(rawString(st.Category)),
		DueDate:     repairDate(rawString(st.DueDate)),
		DueTime:     repairTime(rawString(st.DueTime)),
		Tags:        rawTags(st.Tags),
	}
	if t.Title == "" {
		return Task{}, false
	}
	if id, err := idFromRaw(st.ID); err == nil {
		t.ID = id
	}

	t.Priority = PriorityMedium
	if p, err := ParsePriority(rawString(st.Priority)); err == nil {
		t.Priority = p
	}

	t.CreatedAt = now
	if created, ok := rawTime(st.CreatedAt); ok {
		t.CreatedAt = created
	}
	if t.Completed {
		at := t.CreatedAt
		if completed, ok := rawTime(st.CompletedAt); ok {
			at = completed
		}
		t.CompletedAt = &at
	}
	return t, true
}

func idFromRaw(raw json.RawMessage) (ID, error) {
	var id ID
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing id")
	}
	err := json.Unmarshal(raw, &id)
	return id, err
}

func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func rawBool(raw json.RawMessage) bool {
	var b bool
	if len(raw) == 0 || json.Unmarshal(raw, &b) != nil {
		return false
	}
	return b
}

// rawTags accepts either ["a","b"] or "a, b".
func rawTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return NormalizeTags(list)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return SplitTags(text)
	}
	return []string{}
}

func rawTime(raw json.RawMessage) (time.Time, bool) {
	s := rawString(raw)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// repairDate keeps YYYY-MM-DD dates and truncates full timestamps to their date.
func repairDate(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if ValidDate(v) {
		return v
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return FormatDate(t)
	}
	return ""
}

func repairTime(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if ValidTime(v) {
		return v
	}
	if t, err := time.Parse("15:04:05", v); err == nil {
		return t.Format(TimeLayout)
	}
	return ""
}
