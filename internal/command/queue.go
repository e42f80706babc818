package command

import (
	"context"

	"quickdo/internal/task"
)

type Level int

const (
	// LevelNone means there is nothing to tell the user.
	LevelNone Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "none"
}

// Notification is a transient message for the user. Task is set when the
// command produced or touched a task.
type Notification struct {
	Level   Level
	Message string
	Task    *task.Task
}

func (n Notification) Silent() bool { return n.Level == LevelNone }

// Queue is a FIFO of commands drained on a single goroutine.
type Queue struct {
	pending []Command
}

func (q *Queue) Enqueue(cmds ...Command) {
	q.pending = append(q.pending, cmds...)
}

func (q *Queue) Len() int { return len(q.pending) }

// Drain dispatches every queued command in order, including commands
// enqueued while draining, and returns the non-silent notifications.
func (q *Queue) Drain(ctx context.Context, d *Dispatcher) []Notification {
	var out []Notification
	for len(q.pending) > 0 {
		if ctx.Err() != nil {
			break
		}
		cmd := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		if n := d.Dispatch(ctx, cmd); !n.Silent() {
			out = append(out, n)
		}
	}
	return out
}
