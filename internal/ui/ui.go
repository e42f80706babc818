package ui

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"quickdo/internal/command"
	"quickdo/internal/config"
	"quickdo/internal/task"
	"quickdo/internal/view"
	"quickdo/internal/voice"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
	modeMetadata
)

type viewMode int

const (
	viewList viewMode = iota
	viewGrid
	viewCalendar
)

func parseViewMode(v string) viewMode {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "grid":
		return viewGrid
	case "calendar":
		return viewCalendar
	default:
		return viewList
	}
}

func (v viewMode) String() string {
	switch v {
	case viewGrid:
		return "grid"
	case viewCalendar:
		return "calendar"
	default:
		return "list"
	}
}

// transcriptMsg carries the result of an asynchronous voice session.
type transcriptMsg struct {
	text string
	err  error
}

type Model struct {
	store      *task.Store
	dispatcher *command.Dispatcher
	queue      command.Queue
	voice      voice.Recognizer
	cfg        config.Config
	now        func() time.Time

	query     view.Query
	view      viewMode
	calYear   int
	calMonth  time.Month
	tasks     []task.Task
	cursor    int
	mode      mode
	input     textinput.Model
	notice    command.Notification
	status    string
	listening bool
	width     int

	confirmDel bool
	pendingDel *task.Task
	meta       *metaState
}

type Options struct {
	Voice  voice.Recognizer
	Logger *log.Logger
	Now    func() time.Time
}

// New builds the model over an already loaded store.
func New(store *task.Store, cfg config.Config, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		locale = language.English
	}

	ti := textinput.New()
	ti.Placeholder = "Buy milk high priority #shopping today"
	ti.CharLimit = 256
	ti.Width = 40

	today := now()
	m := Model{
		store:      store,
		dispatcher: command.NewDispatcher(store, command.WithLogger(opts.Logger), command.WithClock(now)),
		voice:      opts.Voice,
		cfg:        cfg,
		now:        now,
		query: view.Query{
			Category: cfg.DefaultCategory,
			Sort:     view.ParseSortKey(cfg.DefaultSort),
			Locale:   locale,
		},
		view:     parseViewMode(cfg.DefaultView),
		calYear:  today.Year(),
		calMonth: today.Month(),
		input:    ti,
		mode:     modeList,
		status:   fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
	}
	m.refresh()
	return m
}

func Run(store *task.Store, cfg config.Config, opts Options) error {
	program := tea.NewProgram(New(store, cfg, opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.meta != nil {
			return m.updateMetadataMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case transcriptMsg:
		m.listening = false
		m.dispatch(command.Transcript{Text: msg.text, Err: msg.err})
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}
	return m.updateListMode(key)
}

// dispatch queues cmd, drains the queue against the store and refreshes
// the derived view.
func (m *Model) dispatch(cmds ...command.Command) {
	m.queue.Enqueue(cmds...)
	for _, n := range m.queue.Drain(context.Background(), m.dispatcher) {
		m.notify(n)
	}
	m.refresh()
}

func (m *Model) notify(n command.Notification) {
	m.notice = n
	m.status = n.Message
}

func (m *Model) setStatus(s string) {
	m.notice = command.Notification{}
	m.status = s
}

// refresh recomputes the visible task sequence from the store.
func (m *Model) refresh() {
	all := m.store.Tasks()
	switch m.view {
	case viewCalendar:
		month := view.Calendar(all, m.calYear, m.calMonth, m.now())
		m.tasks = m.tasks[:0:0]
		for _, d := range month.Days {
			m.tasks = append(m.tasks, d.Tasks...)
		}
	case viewGrid:
		m.tasks = view.Apply(all, m.query)
	default:
		m.tasks = view.List(view.Apply(all, m.query), m.now()).Flatten()
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *Model) moveCursorTo(id task.ID) {
	if i := slices.IndexFunc(m.tasks, func(t task.Task) bool { return t.ID == id }); i >= 0 {
		m.cursor = i
	}
}

func (m Model) selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.setStatus("Cancelled")
		return m, nil
	case m.cfg.Keys.Confirm:
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			m.notify(command.Notification{Level: command.LevelError, Message: "Please enter a task title"})
			return m, nil
		}
		m.dispatch(command.QuickAdd{Text: text})
		if m.notice.Task != nil {
			m.moveCursorTo(m.notice.Task.ID)
		}
		if m.notice.Level == command.LevelError {
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.query.Search = ""
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.setStatus("Search cleared")
		m.refresh()
		return m, nil
	case m.cfg.Keys.Confirm:
		m.mode = modeList
		m.input.Blur()
		m.setStatus(fmt.Sprintf("%d matching tasks", len(m.tasks)))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.query.Search = m.input.Value()
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "Buy milk high priority #shopping today"
		m.input.Focus()
		m.setStatus("Add mode: type a task and press Enter")
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.SetValue(m.query.Search)
		m.input.Placeholder = "search title, description, tags"
		m.input.Focus()
		m.setStatus("Search: Enter to keep, Esc to clear")
	case m.cfg.Keys.Category:
		m.query.Category = m.nextCategory()
		m.setStatus("Category: " + m.query.Category)
		m.refresh()
	case m.cfg.Keys.Sort:
		m.query.Sort = m.query.Sort.Next()
		m.setStatus("Sort: " + string(m.query.Sort))
		m.refresh()
	case m.cfg.Keys.ViewList:
		m.switchView(viewList)
	case m.cfg.Keys.ViewGrid:
		m.switchView(viewGrid)
	case m.cfg.Keys.ViewCalendar:
		m.switchView(viewCalendar)
	case m.cfg.Keys.PrevMonth:
		if m.view == viewCalendar {
			month := view.Month{Year: m.calYear, Month: m.calMonth}
			m.calYear, m.calMonth = month.Prev()
			m.refresh()
		}
	case m.cfg.Keys.NextMonth:
		if m.view == viewCalendar {
			month := view.Month{Year: m.calYear, Month: m.calMonth}
			m.calYear, m.calMonth = month.Next()
			m.refresh()
		}
	case m.cfg.Keys.Voice:
		return m.startVoice()
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.dispatch(command.Toggle{ID: t.ID})
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.setStatus(fmt.Sprintf("Delete \"%s\"? y/n", t.Title))
	case m.cfg.Keys.Detail:
		t, ok := m.selected()
		if !ok {
			m.setStatus("No tasks")
			return m, nil
		}
		m.setStatus(detailLine(t))
	case m.cfg.Keys.Edit:
		t, ok := m.selected()
		if !ok {
			m.setStatus("No tasks to edit")
			return m, nil
		}
		return m.startMetadataEdit(t)
	}
	return m, nil
}

func (m *Model) switchView(v viewMode) {
	m.view = v
	m.cursor = 0
	m.setStatus("View: " + v.String())
	m.refresh()
}

func (m Model) nextCategory() string {
	options := append([]string{view.AllCategories}, m.store.Categories()...)
	i := slices.Index(options, m.query.Category)
	return options[wrapIndex(i+1, len(options))]
}

func (m Model) startVoice() (tea.Model, tea.Cmd) {
	if m.listening {
		return m, nil
	}
	if m.voice == nil {
		m.dispatch(command.Transcript{Err: voice.ErrUnavailable})
		return m, nil
	}
	m.listening = true
	m.setStatus("Listening…")
	rec := m.voice
	return m, func() tea.Msg {
		text, err := rec.Listen(context.Background())
		return transcriptMsg{text: text, err: err}
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.setStatus("Delete cancelled")
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.setStatus("Nothing to delete")
			m.confirmDel = false
			return m, nil
		}
		m.dispatch(command.Delete{ID: m.pendingDel.ID, Confirmed: true})
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startMetadataEdit(t task.Task) (tea.Model, tea.Cmd) {
	m.meta = newMetaState(t)
	m.input.SetValue(m.meta.currentValue())
	m.input.Placeholder = m.meta.currentLabel()
	m.input.Focus()
	m.mode = modeMetadata
	m.setStatus("Edit task: tab to move, enter to save/next, esc to cancel")
	return m, nil
}

func (m Model) updateMetadataMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.meta = nil
		m.mode = modeList
		m.input.Blur()
		m.setStatus("Edit cancelled")
		return m, nil
	case "tab", "down":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index+1, len(metaFields()))
		m.input.SetValue(m.meta.currentValue())
		m.input.Placeholder = m.meta.currentLabel()
		m.setStatus(m.metaPrompt())
		return m, nil
	case "shift+tab", "up":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index-1, len(metaFields()))
		m.input.SetValue(m.meta.currentValue())
		m.input.Placeholder = m.meta.currentLabel()
		m.setStatus(m.metaPrompt())
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.meta.setCurrentValue(m.input.Value())
		if m.meta.index >= len(metaFields())-1 {
			return m.saveMetadata()
		}
		m.meta.index++
		m.input.SetValue(m.meta.currentValue())
		m.input.Placeholder = m.meta.currentLabel()
		m.setStatus(m.metaPrompt())
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveMetadata() (tea.Model, tea.Cmd) {
	if m.meta == nil {
		return m, nil
	}
	patch, err := m.meta.patch()
	if err != nil {
		m.notify(command.Notification{Level: command.LevelError, Message: err.Error()})
		return m, nil
	}
	taskID := m.meta.taskID
	m.dispatch(command.Update{ID: taskID, Patch: patch})
	if m.notice.Level == command.LevelError {
		return m, nil
	}
	m.meta = nil
	m.mode = modeList
	m.input.Blur()
	m.moveCursorTo(taskID)
	return m, nil
}

func (m Model) metaPrompt() string {
	if m.meta == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.meta.currentLabel(), m.meta.index+1, len(metaFields()))
}

func (m Model) currentMetaLabel() string {
	if m.meta == nil {
		return ""
	}
	return m.meta.currentLabel()
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
