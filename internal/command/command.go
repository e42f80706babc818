// Package command turns user intents into store mutations. Intents are
// queued and run one at a time, so the store never sees overlapping writes;
// a voice transcript is just another queued command.
package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"quickdo/internal/quickadd"
	"quickdo/internal/task"
)

type Command interface {
	isCommand()
}

type Add struct{ Draft task.Draft }

// QuickAdd parses Text with the quick-add rules before adding.
type QuickAdd struct{ Text string }

type Update struct {
	ID    task.ID
	Patch task.Patch
}

type Toggle struct{ ID task.ID }

// Delete only runs when Confirmed is set; asking the user is the caller's job.
type Delete struct {
	ID        task.ID
	Confirmed bool
}

// Transcript is the result of a voice session.
type Transcript struct {
	Text string
	Err  error
}

func (Add) isCommand()        {}
func (QuickAdd) isCommand()   {}
func (Update) isCommand()     {}
func (Toggle) isCommand()     {}
func (Delete) isCommand()     {}
func (Transcript) isCommand() {}

// Store is the subset of *task.Store the dispatcher drives.
type Store interface {
	Add(ctx context.Context, d task.Draft) (task.Task, error)
	Update(ctx context.Context, id task.ID, p task.Patch) (task.Task, error)
	Delete(ctx context.Context, id task.ID) (bool, error)
	ToggleComplete(ctx context.Context, id task.ID) (task.Task, error)
}

type Dispatcher struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

type Option func(*Dispatcher)

func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

func NewDispatcher(store Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{store: store, logger: log.Default(), now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs cmd to completion and describes the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) Notification {
	switch c := cmd.(type) {
	case Add:
		return d.add(ctx, c.Draft)
	case QuickAdd:
		return d.add(ctx, quickadd.Parse(c.Text, d.now()).Draft())
	case Transcript:
		if c.Err != nil {
			d.logger.Printf("voice input: %v", c.Err)
			return warn(fmt.Sprintf("Voice input failed: %v", c.Err))
		}
		return d.add(ctx, quickadd.Parse(c.Text, d.now()).Draft())
	case Update:
		t, err := d.store.Update(ctx, c.ID, c.Patch)
		return d.result(t, err, "Task updated")
	case Toggle:
		t, err := d.store.ToggleComplete(ctx, c.ID)
		msg := "Task reopened"
		if t.Completed {
			msg = "Task completed"
		}
		return d.result(t, err, msg)
	case Delete:
		if !c.Confirmed {
			return Notification{}
		}
		ok, err := d.store.Delete(ctx, c.ID)
		if !ok && err == nil {
			return Notification{}
		}
		return d.result(task.Task{ID: c.ID}, err, "Task deleted")
	}
	return Notification{Level: LevelError, Message: fmt.Sprintf("unknown command %T", cmd)}
}

func (d *Dispatcher) add(ctx context.Context, draft task.Draft) Notification {
	t, err := d.store.Add(ctx, draft)
	return d.result(t, err, "Task added")
}

func (d *Dispatcher) result(t task.Task, err error, okMsg string) Notification {
	switch {
	case err == nil:
		return Notification{Level: LevelSuccess, Message: okMsg, Task: &t}
	case task.IsPersistence(err):
		n := warn(okMsg + ", but it could not be saved; changes last until you quit")
		n.Task = &t
		return n
	case errors.Is(err, task.ErrNotFound):
		d.logger.Printf("ignored: %v", err)
		return Notification{}
	case errors.Is(err, task.ErrValidation):
		return Notification{Level: LevelError, Message: validationMessage(err)}
	default:
		d.logger.Printf("command failed: %v", err)
		return Notification{Level: LevelError, Message: err.Error()}
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), task.ErrValidation.Error()+": ")
	if msg == "title is required" {
		return "Please enter a task title"
	}
	return msg
}

func warn(msg string) Notification {
	return Notification{Level: LevelWarning, Message: msg}
}
