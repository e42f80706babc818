package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"quickdo/internal/command"
	"quickdo/internal/config"
	"quickdo/internal/task"
	"quickdo/internal/view"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	todayStyle    = lipgloss.NewStyle().Bold(true).Reverse(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(cardWidth)
	cardCursor    = cardStyle.BorderForeground(lipgloss.Color("12"))
	priorityBadge = map[task.Priority]string{
		task.PriorityHigh:   "!!!",
		task.PriorityMedium: "!! ",
		task.PriorityLow:    "!  ",
	}
)

const (
	cardWidth = 28
	dayWidth  = 6
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todo"))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  view:%s  category:%s  sort:%s", m.view, m.query.Category, m.query.Sort)))
	if m.query.Search != "" {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  search:%q", m.query.Search)))
	}
	b.WriteString("\n\n")

	switch {
	case m.view == viewCalendar:
		b.WriteString(m.renderCalendar())
	case len(m.tasks) == 0 && m.store.Len() == 0:
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
	case len(m.tasks) == 0:
		b.WriteString("No tasks match the current filters.")
	case m.view == viewGrid:
		b.WriteString(m.renderGrid())
	default:
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")

	switch m.mode {
	case modeMetadata:
		b.WriteString("Task editor (tab/shift+tab to move, enter to save/next, esc to cancel)")
		b.WriteString("\n\n")
		b.WriteString(m.renderMetaBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.currentMetaLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case modeAdd:
		b.WriteString("Add Task: ")
		b.WriteString(m.input.View())
	case modeSearch:
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderMetadataPanel())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderStatus() string {
	switch m.notice.Level {
	case command.LevelSuccess:
		return successStyle.Render(m.status)
	case command.LevelWarning:
		return warningStyle.Render(m.status)
	case command.LevelError:
		return errorStyle.Render(m.status)
	}
	return m.status
}

func renderHelp(k config.Keymap) string {
	return faintStyle.Render(fmt.Sprintf(
		"%s/%s move • %s add • %s voice • %s detail • %s toggle • %s delete • %s edit • %s search • %s category • %s sort • %s/%s/%s list/grid/calendar • %s/%s month • %s quit",
		k.Up, k.Down, k.Add, k.Voice, k.Detail, displayKey(k.Toggle), k.Delete, k.Edit, k.Search, k.Category, k.Sort,
		k.ViewList, k.ViewGrid, k.ViewCalendar, k.PrevMonth, k.NextMonth, k.Quit))
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (m Model) renderTaskList() string {
	today := task.FormatDate(m.now())
	lv := view.List(m.tasks, m.now())
	var b strings.Builder
	i := 0
	for _, s := range lv.Sections {
		if len(s.Tasks) == 0 {
			continue
		}
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", s.Bucket, len(s.Tasks))))
		b.WriteString("\n")
		for _, t := range s.Tasks {
			b.WriteString(m.renderRow(t, i, today))
			b.WriteString("\n")
			i++
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderRow(t task.Task, i int, today string) string {
	cursor := " "
	if m.cursor == i && m.mode == modeList {
		cursor = ">"
	}
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}

	title := t.Title
	switch {
	case t.Completed:
		title = doneStyle.Render(title)
	case view.Classify(t, today) == view.BucketOverdue:
		title = overdueStyle.Render(title)
	}

	extras := []string{}
	if t.Category != "" {
		extras = append(extras, "C:"+t.Category)
	}
	if len(t.Tags) > 0 {
		extras = append(extras, "T:"+strings.Join(t.Tags, ","))
	}
	if t.DueDate != "" {
		due := "D:" + t.DueDate
		if t.DueTime != "" {
			due += " " + t.DueTime
		}
		extras = append(extras, due)
	}

	body := fmt.Sprintf("%s %s %s %s", cursor, checkbox, priorityBadge[t.Priority], title)
	if len(extras) > 0 {
		body += faintStyle.Render(" [" + strings.Join(extras, " | ") + "]")
	}
	return body
}

func (m Model) renderGrid() string {
	cards := view.Grid(m.tasks)
	perRow := 3
	if m.width > 0 {
		perRow = max(1, m.width/(cardWidth+4))
	}

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		boxes := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			boxes = append(boxes, m.renderCard(cards[i], i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCard(c view.Card, i int) string {
	style := cardStyle
	if i == m.cursor && m.mode == modeList {
		style = cardCursor
	}
	title := c.Title
	if c.Completed {
		title = doneStyle.Render(title)
	}
	lines := []string{priorityBadge[c.Priority] + " " + title, faintStyle.Render(c.Meta)}
	if len(c.Badges) > 0 {
		lines = append(lines, strings.Join(c.Badges, " "))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderCalendar() string {
	month := view.Calendar(m.store.Tasks(), m.calYear, m.calMonth, m.now())
	var b strings.Builder
	b.WriteString(headerStyle.Render(month.Title()))
	b.WriteString("\n")
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		b.WriteString(fmt.Sprintf("%-*s", dayWidth, d))
	}
	b.WriteString("\n")

	for _, week := range month.Weeks() {
		for _, d := range week {
			if d.Day == 0 {
				b.WriteString(strings.Repeat(" ", dayWidth))
				continue
			}
			cell := fmt.Sprintf("%2d", d.Day)
			if n := len(d.Tasks); n > 0 {
				cell += fmt.Sprintf("·%d", n)
			}
			cell = fmt.Sprintf("%-*s", dayWidth-1, cell)
			if d.Today {
				cell = todayStyle.Render(cell)
			}
			b.WriteString(cell + " ")
		}
		b.WriteString("\n")
	}

	if len(m.tasks) > 0 {
		b.WriteString("\n")
		today := task.FormatDate(m.now())
		for i, t := range m.tasks {
			b.WriteString(m.renderRow(t, i, today))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderMetaBox() string {
	if m.meta == nil {
		return ""
	}
	values := m.meta.values()
	var b strings.Builder
	for i, name := range metaFields() {
		prefix := " "
		if i == m.meta.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, name, val))
	}
	return b.String()
}

func (m Model) renderMetadataPanel() string {
	t, ok := m.selected()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Title       : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Status      : %s\n", humanDone(t)))
	b.WriteString(fmt.Sprintf("Description : %s\n", emptyPlaceholder(t.Description)))
	b.WriteString(fmt.Sprintf("Priority    : %s\n", t.Priority))
	b.WriteString(fmt.Sprintf("Category    : %s\n", t.Category))
	b.WriteString(fmt.Sprintf("Tags        : %s\n", emptyPlaceholder(strings.Join(t.Tags, ", "))))
	b.WriteString(fmt.Sprintf("Due         : %s\n", emptyPlaceholder(strings.TrimSpace(t.DueDate+" "+t.DueTime))))
	b.WriteString(fmt.Sprintf("Created     : %s", humanize.Time(t.CreatedAt)))
	return b.String()
}

func detailLine(t task.Task) string {
	info := fmt.Sprintf("Task #%s • %s • %s • %s • %s", t.ID, t.Title, humanDone(t), t.Priority, t.Category)
	if len(t.Tags) > 0 {
		info += " • tags:" + strings.Join(t.Tags, ",")
	}
	if t.DueDate != "" {
		info += " • due:" + strings.TrimSpace(t.DueDate+" "+t.DueTime)
	}
	info += " • created " + humanize.Time(t.CreatedAt)
	return info
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func humanDone(t task.Task) string {
	if !t.Completed {
		return "pending"
	}
	if t.CompletedAt != nil {
		return "done " + humanize.Time(*t.CompletedAt)
	}
	return "done"
}
