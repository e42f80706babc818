package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"quickdo/internal/task"
)

type Format string

const (
	FormatICS  Format = "ics"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case FormatICS, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "ical":
		return FormatICS, nil
	}
	return "", fmt.Errorf("unknown export format %q (want ics, json or yaml)", v)
}

// Write renders tasks in format f.
func Write(w io.Writer, f Format, tasks []task.Task, now time.Time) error {
	switch f {
	case FormatICS:
		_, err := io.WriteString(w, ICS(tasks, now))
		return err
	case FormatJSON:
		return JSON(w, tasks)
	case FormatYAML:
		return YAML(w, tasks)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// JSON writes tasks in the same shape as the persisted blob, indented.
func JSON(w io.Writer, tasks []task.Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

// yamlTask fixes field names and keeps optional fields out of the output.
type yamlTask struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Completed   bool     `yaml:"completed"`
	Priority    string   `yaml:"priority"`
	Category    string   `yaml:"category"`
	DueDate     string   `yaml:"due_date,omitempty"`
	DueTime     string   `yaml:"due_time,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	CreatedAt   string   `yaml:"created_at"`
	CompletedAt string   `yaml:"completed_at,omitempty"`
}

func YAML(w io.Writer, tasks []task.Task) error {
	out := make([]yamlTask, 0, len(tasks))
	for _, t := range tasks {
		yt := yamlTask{
			ID:          t.ID.String(),
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Priority:    string(t.Priority),
			Category:    t.Category,
			DueDate:     t.DueDate,
			DueTime:     t.DueTime,
			Tags:        t.Tags,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		}
		if t.CompletedAt != nil {
			yt.CompletedAt = t.CompletedAt.Format(time.RFC3339)
		}
		out = append(out, yt)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
