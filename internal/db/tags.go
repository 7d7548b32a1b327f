package db

import (
	"database/sql"
)

// Tags returns the tag universe in first-use order. Tags are never deleted.
func (db *DB) Tags() []string {
	rev := db.Revision()

	db.mu.Lock()
	if db.tags != nil && db.tagsRev == rev {
		defer db.mu.Unlock()
		return db.tags
	}
	db.mu.Unlock()

	tags, err := db.ListTags()
	if err != nil {
		db.logger.Error("failed to load tags", "err", err)
		db.mu.Lock()
		defer db.mu.Unlock()
		return db.tags
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.tags = tags
	db.tagsRev = rev
	return tags
}

// ListTags queries all tag names
func (db *DB) ListTags() ([]string, error) {
	rows, err := db.Query(`SELECT name FROM tags ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// TaskTags returns tags for a task in the order they were given
func (db *DB) TaskTags(taskID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT tag FROM task_tags
		WHERE task_id = ?
		ORDER BY position
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// insertTags adds names to the universe, ignoring ones already present
func insertTags(tx *sql.Tx, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
			return err
		}
	}
	return nil
}

// insertTaskTags links tags to a task, creating unknown tags first
func insertTaskTags(tx *sql.Tx, taskID string, tags []string) error {
	if err := insertTags(tx, tags); err != nil {
		return err
	}
	for i, tag := range tags {
		_, err := tx.Exec(`INSERT INTO task_tags (task_id, tag, position) VALUES (?, ?, ?)`, taskID, tag, i)
		if err != nil {
			return err
		}
	}
	return nil
}
