package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickdo/internal/task"
)

var testNow = time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC)

type harness struct {
	t          *testing.T
	configPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, configPath: filepath.Join(t.TempDir(), "config.toml")}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	a := &app{now: func() time.Time { return testNow }}
	root := newRootCmd(a)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (h *harness) tasks() []task.Task {
	h.t.Helper()
	a := &app{configPath: h.configPath, now: func() time.Time { return testNow }}
	s, err := a.open(context.Background(), io.Discard)
	require.NoError(h.t, err)
	defer s.Close()
	return s.store.Tasks()
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("add", "Buy", "milk", "high", "priority", "#shopping", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Task added")
	assert.Contains(t, out, "Buy milk")

	_, _, err = h.run("add", "Plan trip #travel")
	require.NoError(t, err)

	tasks := h.tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "shopping", tasks[0].Category)
	assert.Equal(t, "2026-03-15", tasks[0].DueDate)

	out, _, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Today (1)")
	assert.Contains(t, out, "No date (1)")

	out, _, err = h.run("list", "--category", "travel")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan trip")
	assert.NotContains(t, out, "Buy milk")

	out, _, err = h.run("list", "--search", "MILK", "--view", "grid")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] Buy milk")
	assert.Contains(t, out, "#shopping")
}

func TestAddWithoutTitleFails(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("add", "#work", "today")

	require.Error(t, err)
	assert.Equal(t, "Please enter a task title", err.Error())
	assert.Empty(t, h.tasks())
}

func TestListEmpty(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("list")

	require.NoError(t, err)
	assert.Equal(t, "No tasks.\n", out)
}

func TestDoneToggles(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("add", "Water plants")
	require.NoError(t, err)
	id := h.tasks()[0].ID.String()

	out, _, err := h.run("done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Task completed")
	assert.True(t, h.tasks()[0].Completed)

	out, _, err = h.run("done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Task reopened")
	assert.False(t, h.tasks()[0].Completed)
}

func TestDoneUnknownID(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("done", "42")
	assert.ErrorIs(t, err, task.ErrNotFound)

	_, _, err = h.run("done", "abc")
	assert.Error(t, err)
}

func TestRmRequiresYes(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("add", "Old task")
	require.NoError(t, err)
	id := h.tasks()[0].ID.String()

	_, _, err = h.run("rm", id)
	require.Error(t, err)
	assert.Len(t, h.tasks(), 1)

	out, _, err := h.run("rm", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted")
	assert.Empty(t, h.tasks())

	_, _, err = h.run("rm", id, "--yes")
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestCalendar(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("add", "Dentist tomorrow")
	require.NoError(t, err)

	out, _, err := h.run("calendar")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2026")
	assert.Contains(t, out, "[15]")
	assert.Contains(t, out, " 16*")
	assert.Contains(t, out, "2026-03-16 [ ] Dentist")

	out, _, err = h.run("calendar", "--month", "2026-04")
	require.NoError(t, err)
	assert.Contains(t, out, "April 2026")
	assert.NotContains(t, out, "Dentist")

	_, _, err = h.run("calendar", "--month", "April")
	assert.Error(t, err)
}

func TestExportFormats(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("add", "Dentist tomorrow #health")
	require.NoError(t, err)

	out, _, err := h.run("export")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Dentist")

	out, _, err = h.run("export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Dentist")

	path := filepath.Join(t.TempDir(), "tasks.json")
	_, _, err = h.run("export", "-f", "json", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Dentist"`)

	_, _, err = h.run("export", "--format", "pdf")
	assert.Error(t, err)
}

func TestCorruptStoreStartsEmpty(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("add", "Something")
	require.NoError(t, err)

	a := &app{configPath: h.configPath, now: time.Now}
	s, err := a.open(context.Background(), io.Discard)
	require.NoError(t, err)
	require.NoError(t, s.db.Put(context.Background(), s.cfg.StorageKey, []byte("{not json")))
	require.NoError(t, s.Close())

	out, errOut, err := h.run("list")
	require.NoError(t, err)
	assert.Equal(t, "No tasks.\n", out)
	assert.Contains(t, errOut, "warning:")
}
