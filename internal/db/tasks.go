package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dori/ticklist/internal/model"
)

// Add inserts a new task built from the draft
func (db *DB) Add(draft model.Draft) (model.Task, error) {
	task := model.Task{
		ID:          db.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		CreatedAt:   db.now(),
		Priority:    draft.Priority.OrDefault(),
		Tags:        model.NormalizeTags(draft.Tags),
	}
	if draft.DueDate != nil {
		due := *draft.DueDate
		task.DueDate = &due
	}

	err := db.Transaction(func(tx *sql.Tx) error {
		return insertTask(tx, task)
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	rev := db.bump()
	db.logger.Debug("task added", "id", task.ID, "rev", rev, "backend", "sqlite")
	return task, nil
}

// Toggle flips a task between active and completed
func (db *DB) Toggle(id string) error {
	res, err := db.Exec(`UPDATE tasks SET completed = 1 - completed WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		db.logger.Debug("toggle miss", "id", id)
		return nil
	}

	rev := db.bump()
	db.logger.Debug("task toggled", "id", id, "rev", rev, "backend", "sqlite")
	return nil
}

// Update overwrites every field except the creation time
func (db *DB) Update(task model.Task) error {
	priority := task.Priority.OrDefault()

	err := db.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE tasks
			SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?
			WHERE id = ?
		`, task.Title, task.Description, boolToInt(task.Completed), priority, dueValue(task), task.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errNoRow
		}

		if _, err := tx.Exec(`DELETE FROM task_tags WHERE task_id = ?`, task.ID); err != nil {
			return err
		}
		return insertTaskTags(tx, task.ID, model.NormalizeTags(task.Tags))
	})
	if errors.Is(err, errNoRow) {
		db.logger.Debug("update miss", "id", task.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rev := db.bump()
	db.logger.Debug("task updated", "id", task.ID, "rev", rev, "backend", "sqlite")
	return nil
}

// Remove deletes a task; its tag links cascade
func (db *DB) Remove(id string) error {
	res, err := db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		db.logger.Debug("remove miss", "id", id)
		return nil
	}

	rev := db.bump()
	db.logger.Debug("task removed", "id", id, "rev", rev, "backend", "sqlite")
	return nil
}

// Load inserts prepared tasks keeping their ids and creation times. Tasks
// whose id already exists are skipped.
func (db *DB) Load(tasks []model.Task, tags []string) error {
	err := db.Transaction(func(tx *sql.Tx) error {
		if err := insertTags(tx, tags); err != nil {
			return err
		}
		for _, t := range tasks {
			var exists int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE id = ?`, t.ID).Scan(&exists); err != nil {
				return err
			}
			if exists > 0 {
				continue
			}
			c := t.Clone()
			c.Tags = model.NormalizeTags(c.Tags)
			c.Priority = c.Priority.OrDefault()
			if err := insertTask(tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	rev := db.bump()
	db.logger.Debug("tasks loaded", "count", len(tasks), "rev", rev, "backend", "sqlite")
	return nil
}

// Tasks returns all tasks in insertion order. The result is cached per
// revision, so repeated calls without mutations return the same slice.
func (db *DB) Tasks() []model.Task {
	rev := db.Revision()

	db.mu.Lock()
	if db.snapshot != nil && db.snapRev == rev {
		defer db.mu.Unlock()
		return db.snapshot
	}
	db.mu.Unlock()

	tasks, err := db.ListTasks()
	if err != nil {
		db.logger.Error("failed to load tasks", "err", err)
		db.mu.Lock()
		defer db.mu.Unlock()
		return db.snapshot
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.snapshot = tasks
	db.snapRev = rev
	return tasks
}

// ListTasks queries every task with its tags
func (db *DB) ListTasks() ([]model.Task, error) {
	rows, err := db.Query(`
		SELECT id, title, description, completed, priority, due_date, created_at
		FROM tasks
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}

	// Collect rows first and close them before querying tags: the pool has
	// a single connection and a nested query would block on it.
	tasks := []model.Task{}
	index := make(map[string]int)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	tagRows, err := db.Query(`SELECT task_id, tag FROM task_tags ORDER BY task_id, position`)
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var taskID, tag string
		if err := tagRows.Scan(&taskID, &tag); err != nil {
			return nil, err
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Tags = append(tasks[i].Tags, tag)
		}
	}
	return tasks, tagRows.Err()
}

// Get returns a single task by ID, or nil if there is none
func (db *DB) Get(id string) (*model.Task, error) {
	row := db.QueryRow(`
		SELECT id, title, description, completed, priority, due_date, created_at
		FROM tasks WHERE id = ?
	`, id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tags, err := db.TaskTags(id)
	if err != nil {
		return nil, err
	}
	t.Tags = tags
	return &t, nil
}

// Helper functions

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	var completed int
	var dueDate *string
	var createdAt string

	err := s.Scan(&t.ID, &t.Title, &t.Description, &completed, &t.Priority, &dueDate, &createdAt)
	if err != nil {
		return model.Task{}, err
	}

	t.Completed = completed == 1
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Task{}, fmt.Errorf("task %s: bad created_at: %w", t.ID, err)
	}
	if dueDate != nil {
		parsed, err := parseTime(*dueDate)
		if err != nil {
			return model.Task{}, fmt.Errorf("task %s: bad due_date: %w", t.ID, err)
		}
		t.DueDate = &parsed
	}
	return t, nil
}

func insertTask(tx *sql.Tx, t model.Task) error {
	_, err := tx.Exec(`
		INSERT INTO tasks (id, title, description, completed, priority, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Description, boolToInt(t.Completed), t.Priority, dueValue(t), formatTime(t.CreatedAt))
	if err != nil {
		return err
	}
	return insertTaskTags(tx, t.ID, t.Tags)
}

func dueValue(t model.Task) interface{} {
	if t.DueDate == nil {
		return nil
	}
	return formatTime(*t.DueDate)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
