package sqlite

import (
	"fmt"
	"time"

	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// InsertMessage appends a chat message and trims history to the cap.
func (d *DB) InsertMessage(m domain.Message) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO messages (id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Role, m.Content, m.Timestamp.UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	// Keep only the newest MaxHistoryMessages rows.
	if _, err := tx.Exec(
		`DELETE FROM messages WHERE id NOT IN (
			SELECT id FROM messages ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, domain.MaxHistoryMessages,
	); err != nil {
		return fmt.Errorf("trim messages: %w", err)
	}

	return tx.Commit()
}

// ListMessages returns the persisted history, oldest first.
func (d *DB) ListMessages() ([]domain.Message, error) {
	rows, err := d.db.Query(
		`SELECT id, role, content, created_at FROM messages ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var created int64
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &created); err != nil {
			return nil, err
		}
		m.Timestamp = time.UnixMilli(created).UTC()
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ClearMessages deletes the whole chat history.
func (d *DB) ClearMessages() error {
	_, err := d.db.Exec(`DELETE FROM messages`)
	return err
}
