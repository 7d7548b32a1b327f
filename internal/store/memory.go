package store

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dori/ticklist/internal/model"
	"github.com/google/uuid"
)

// Memory is the in-memory store. Every effective mutation replaces the
// collection with a new slice (copy-on-write), so a snapshot returned by
// Tasks or Tags never changes after it is handed out.
type Memory struct {
	mu    sync.RWMutex
	tasks []model.Task
	tags  []string
	rev   uint64

	now         func() time.Time
	newID       func() string
	logger      *log.Logger
	subscribers []func(rev uint64)
}

// Option configures a Memory store
type Option func(*Memory)

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// WithIDGenerator sets the identifier source. It must never repeat.
func WithIDGenerator(newID func() string) Option {
	return func(m *Memory) { m.newID = newID }
}

// WithTags seeds the tag universe.
func WithTags(tags []string) Option {
	return func(m *Memory) { m.tags = model.MergeTags(nil, tags) }
}

// WithLogger sets the logger for mutation traces.
func WithLogger(logger *log.Logger) Option {
	return func(m *Memory) { m.logger = logger }
}

// NewMemory creates an empty in-memory store
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to be called after every effective mutation with
// the new revision. Callbacks run synchronously on the mutating goroutine,
// after the store lock is released.
func (m *Memory) Subscribe(fn func(rev uint64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *Memory) Add(draft model.Draft) (model.Task, error) {
	priority := draft.Priority.OrDefault()

	m.mu.Lock()
	task := model.Task{
		ID:          m.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Completed:   false,
		CreatedAt:   m.now(),
		Priority:    priority,
		Tags:        model.NormalizeTags(draft.Tags),
	}
	if draft.DueDate != nil {
		due := *draft.DueDate
		task.DueDate = &due
	}

	next := make([]model.Task, len(m.tasks), len(m.tasks)+1)
	copy(next, m.tasks)
	m.tasks = append(next, task)
	m.tags = model.MergeTags(m.tags, task.Tags)
	rev := m.bump()
	m.mu.Unlock()

	m.logger.Debug("task added", "id", task.ID, "rev", rev)
	m.notify(rev)
	return task.Clone(), nil
}

func (m *Memory) Toggle(id string) error {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		m.logger.Debug("toggle miss", "id", id)
		return nil
	}

	next := make([]model.Task, len(m.tasks))
	copy(next, m.tasks)
	next[i].Completed = !next[i].Completed
	m.tasks = next
	completed := next[i].Completed
	rev := m.bump()
	m.mu.Unlock()

	m.logger.Debug("task toggled", "id", id, "completed", completed, "rev", rev)
	m.notify(rev)
	return nil
}

func (m *Memory) Update(task model.Task) error {
	m.mu.Lock()
	i := m.indexOf(task.ID)
	if i < 0 {
		m.mu.Unlock()
		m.logger.Debug("update miss", "id", task.ID)
		return nil
	}

	updated := task.Clone()
	updated.CreatedAt = m.tasks[i].CreatedAt
	updated.Tags = model.NormalizeTags(updated.Tags)
	updated.Priority = updated.Priority.OrDefault()

	next := make([]model.Task, len(m.tasks))
	copy(next, m.tasks)
	next[i] = updated
	m.tasks = next
	m.tags = model.MergeTags(m.tags, updated.Tags)
	rev := m.bump()
	m.mu.Unlock()

	m.logger.Debug("task updated", "id", task.ID, "rev", rev)
	m.notify(rev)
	return nil
}

func (m *Memory) Remove(id string) error {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		m.logger.Debug("remove miss", "id", id)
		return nil
	}

	next := make([]model.Task, 0, len(m.tasks)-1)
	next = append(next, m.tasks[:i]...)
	next = append(next, m.tasks[i+1:]...)
	m.tasks = next
	rev := m.bump()
	m.mu.Unlock()

	m.logger.Debug("task removed", "id", id, "rev", rev)
	m.notify(rev)
	return nil
}

func (m *Memory) Tasks() []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tasks
}

func (m *Memory) Tags() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tags
}

func (m *Memory) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rev
}

// Get returns a copy of the task with the given id.
func (m *Memory) Get(id string) (model.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// indexOf must be called with the lock held.
func (m *Memory) indexOf(id string) int {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// bump must be called with the write lock held.
func (m *Memory) bump() uint64 {
	m.rev++
	return m.rev
}

func (m *Memory) notify(rev uint64) {
	m.mu.RLock()
	subs := m.subscribers
	m.mu.RUnlock()
	for _, fn := range subs {
		fn(rev)
	}
}
