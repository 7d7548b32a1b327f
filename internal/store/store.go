// Package store owns the task collection and the tag universe.
package store

import (
	"github.com/dori/ticklist/internal/model"
)

// Store is the task store contract. Lookups by identifier never fail: an
// unknown id turns Toggle, Update and Remove into no-ops. Empty or unknown
// priorities are stored as medium. Errors are only returned by backends
// that do I/O.
type Store interface {
	// Add creates a task from the draft with a fresh id, completed=false
	// and the current time as its creation time.
	Add(draft model.Draft) (model.Task, error)
	// Toggle flips the completion flag.
	Toggle(id string) error
	// Update replaces the stored task with the same id. The creation time
	// of the stored task is kept.
	Update(task model.Task) error
	// Remove deletes the task.
	Remove(id string) error

	// Tasks returns the collection in insertion order. The slice must be
	// treated as read-only.
	Tasks() []model.Task
	// Tags returns the tag universe in first-use order.
	Tags() []string
	// Revision increases on every mutation that changed something.
	Revision() uint64
}

// Subscriber is implemented by stores that report effective mutations as
// they happen.
type Subscriber interface {
	Subscribe(fn func(rev uint64))
}
