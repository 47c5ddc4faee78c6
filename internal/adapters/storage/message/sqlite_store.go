package message

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/message"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Message by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, sender_id, receiver_id, content, read_at, created_at
		 FROM message WHERE id = ?`, id)
	m, err := scanMessage(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Message{}, fmt.Errorf("message not found: %w", err)
	}
	return m, err
}

// Save persists a Message to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO message (id, sender_id, receiver_id, content, read_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   sender_id=excluded.sender_id, receiver_id=excluded.receiver_id,
		   content=excluded.content, read_at=excluded.read_at,
		   created_at=excluded.created_at`,
		m.ID, m.SenderID, m.ReceiverID, m.Content,
		nullTime(m.ReadAt), m.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Message from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM message WHERE id = ?`, id)
	return err
}

// ListBetween retrieves the conversation between two users, oldest first.
// Direction does not matter: messages sent either way are included.
// PRE: userA and userB are non-empty
// POST: Returns the pair's messages ordered by created_at ascending
func (s *SQLiteStore) ListBetween(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sender_id, receiver_id, content, read_at, created_at
		 FROM message
		 WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		 ORDER BY created_at ASC, id ASC`,
		userA, userB, userB, userA)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListInvolving retrieves every message a user sent or received, newest first.
// PRE: userID is non-empty
// POST: Returns messages ordered by created_at descending
func (s *SQLiteStore) ListInvolving(ctx context.Context, userID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sender_id, receiver_id, content, read_at, created_at
		 FROM message
		 WHERE sender_id = ? OR receiver_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// CountUnread counts unread messages for a receiver.
// PRE: receiverID is non-empty
// POST: Returns count of unread messages
func (s *SQLiteStore) CountUnread(ctx context.Context, receiverID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM message WHERE receiver_id = ? AND read_at IS NULL`, receiverID).Scan(&count)
	return count, err
}

func scanMessage(scan func(dest ...interface{}) error) (domain.Message, error) {
	var m domain.Message
	var readAt sql.NullString
	var createdAt string
	err := scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &readAt, &createdAt)
	if err != nil {
		return domain.Message{}, err
	}
	m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if readAt.Valid {
		m.ReadAt, _ = time.Parse(timeLayout, readAt.String)
	}
	return m, nil
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
