package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"
)

// Blobs is the key-value substrate the store persists into. A single key
// holds the whole task list.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store owns the canonical task list. It is not safe for concurrent use;
// callers serialise access (see the command package).
type Store struct {
	blobs  Blobs
	key    string
	tasks  []Task
	logger *log.Logger
	now    func() time.Time
}

func NewStore(blobs Blobs, key string, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		key:    key,
		tasks:  []Task{},
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Key() string { return s.key }

func (s *Store) clock() time.Time {
	return s.now().UTC()
}

// Load replaces the in-memory list with the persisted one. A missing key is
// an empty list. A corrupt payload empties the store and returns *LoadError.
func (s *Store) Load(ctx context.Context) ([]Task, error) {
	data, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		s.tasks = []Task{}
		lerr := &LoadError{Key: s.key, Err: err}
		s.logger.Printf("warning: %v", lerr)
		return s.Tasks(), lerr
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		s.tasks = []Task{}
		return s.Tasks(), nil
	}

	tasks, notes, err := decodeTasks(data, s.clock())
	if err != nil {
		s.tasks = []Task{}
		lerr := &LoadError{Key: s.key, Err: err}
		s.logger.Printf("warning: %v", lerr)
		return s.Tasks(), lerr
	}
	for _, n := range notes {
		s.logger.Printf("repair %q: %s", s.key, n)
	}
	s.tasks = tasks
	return s.Tasks(), nil
}

// Save overwrites the persisted list with the in-memory one.
func (s *Store) Save(ctx context.Context) error {
	data, err := json.Marshal(s.tasks)
	if err == nil {
		err = s.blobs.Put(ctx, s.key, data)
	}
	if err != nil {
		perr := &PersistenceError{Key: s.key, Err: err}
		s.logger.Printf("warning: %v", perr)
		return perr
	}
	return nil
}

// Tasks returns a copy of every task in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) Get(id ID) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Categories lists every category in use, first-seen order.
func (s *Store) Categories() []string {
	var out []string
	for _, t := range s.tasks {
		if !slices.Contains(out, t.Category) {
			out = append(out, t.Category)
		}
	}
	return out
}

// Add creates a task from d. An empty title is rejected with ErrValidation
// and nothing changes. If the task was added but could not be written the
// task is returned together with a *PersistenceError.
func (s *Store) Add(ctx context.Context, d Draft) (Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := validateSchedule(d.DueDate, d.DueTime); err != nil {
		return Task{}, err
	}
	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	now := s.clock()
	t := Task{
		ID:          NewID(now),
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Priority:    priority,
		Category:    normalizeCategory(d.Category),
		DueDate:     strings.TrimSpace(d.DueDate),
		DueTime:     strings.TrimSpace(d.DueTime),
		Tags:        NormalizeTags(d.Tags),
		CreatedAt:   now,
	}
	s.tasks = append(s.tasks, t)
	return t.Clone(), s.Save(ctx)
}

// Update merges p into the task with the given id.
func (s *Store) Update(ctx context.Context, id ID, p Patch) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	t := s.tasks[i].Clone()
	if err := s.applyPatch(&t, p); err != nil {
		return Task{}, err
	}
	s.tasks[i] = t
	return t.Clone(), s.Save(ctx)
}

// Delete removes the task. Confirmation is the caller's job. It reports
// false, and changes nothing, when the id is unknown.
func (s *Store) Delete(ctx context.Context, id ID) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true, s.Save(ctx)
}

func (s *Store) ToggleComplete(ctx context.Context, id ID) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	t := &s.tasks[i]
	t.setCompleted(!t.Completed, s.clock())
	return t.Clone(), s.Save(ctx)
}

func (s *Store) index(id ID) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func (s *Store) applyPatch(t *Task, p Patch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", ErrValidation)
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return fmt.Errorf("%w: unknown priority %q", ErrValidation, *p.Priority)
		}
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = normalizeCategory(*p.Category)
	}

	due, at := t.DueDate, t.DueTime
	if p.DueDate != nil {
		due = strings.TrimSpace(*p.DueDate)
	}
	if p.DueTime != nil {
		at = strings.TrimSpace(*p.DueTime)
	}
	if err := validateSchedule(due, at); err != nil {
		return err
	}
	t.DueDate, t.DueTime = due, at

	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
	if p.Completed != nil && *p.Completed != t.Completed {
		t.setCompleted(*p.Completed, s.clock())
	}
	return nil
}

func validateSchedule(date, at string) error {
	date, at = strings.TrimSpace(date), strings.TrimSpace(at)
	if date != "" && !ValidDate(date) {
		return fmt.Errorf("%w: due date %q must be YYYY-MM-DD", ErrValidation, date)
	}
	if at != "" && !ValidTime(at) {
		return fmt.Errorf("%w: due time %q must be HH:MM", ErrValidation, at)
	}
	return nil
}
