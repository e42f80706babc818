package export

import (
	"fmt"
	"strings"
	"time"

	"quickdo/internal/task"
)

const (
	icsDateLayout     = "20060102"
	icsDateTimeLayout = "20060102T150405"
	timedEventLength  = 30 * time.Minute
)

// ICS builds one calendar with a VEVENT per task that has a due date.
// Tasks with a due time become timed events in local time, the rest are
// all-day events.
func ICS(tasks []task.Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//quickdo//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	for _, t := range tasks {
		lines = append(lines, eventLines(t, now)...)
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func eventLines(t task.Task, now time.Time) []string {
	due, err := time.ParseInLocation(task.DateLayout, t.DueDate, time.Local)
	if err != nil {
		return nil
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(fmt.Sprintf("task-%s@quickdo", t.ID)),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeICSText(t.Title),
	}
	if at, err := time.ParseInLocation(task.TimeLayout, t.DueTime, time.Local); t.DueTime != "" && err == nil {
		start := time.Date(due.Year(), due.Month(), due.Day(), at.Hour(), at.Minute(), 0, 0, time.Local)
		lines = append(lines,
			"DTSTART:"+start.Format(icsDateTimeLayout),
			"DTEND:"+start.Add(timedEventLength).Format(icsDateTimeLayout),
		)
	} else {
		lines = append(lines,
			"DTSTART;VALUE=DATE:"+due.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+due.AddDate(0, 0, 1).Format(icsDateLayout),
		)
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	categories := append([]string{t.Category}, t.Tags...)
	for i, c := range categories {
		categories[i] = escapeICSText(c)
	}
	lines = append(lines,
		"CATEGORIES:"+strings.Join(categories, ","),
		"PRIORITY:"+icsPriority(t.Priority),
	)
	if t.Completed {
		lines = append(lines, "STATUS:COMPLETED")
	}
	return append(lines, "END:VEVENT")
}

// icsPriority maps onto RFC 5545 levels: 1 highest, 5 medium, 9 lowest.
func icsPriority(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "1"
	case task.PriorityLow:
		return "9"
	default:
		return "5"
	}
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
