package contact

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Zachkp/portfolio/internal/storage"
)

// ErrNotFound is returned when a message id does not exist.
var ErrNotFound = errors.New("message not found")

// Store persists messages in the site database.
type Store struct {
	db *storage.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *storage.DB) *Store {
	return &Store{db: db}
}

// Save inserts m.
func (s *Store) Save(ctx context.Context, m Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, body, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.Name, m.Email, m.Body, m.Status, m.CreatedAt.UTC().Format(storage.TimeFormat),
	)
	return errors.Wrap(err, "inserting message")
}

// SetStatus updates the delivery status of a message.
func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET status = ? WHERE id = ?`, status, id.String())
	if err != nil {
		return errors.Wrap(err, "updating message status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns a single message.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, body, status, created_at
		FROM messages WHERE id = ?`, id.String())
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return m, err
}

// List returns messages newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, body, status, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Delete removes a message.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id.String())
	if err != nil {
		return errors.Wrap(err, "deleting message")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (Message, error) {
	var (
		m         Message
		id        string
		createdAt string
	)
	if err := row.Scan(&id, &m.Name, &m.Email, &m.Body, &m.Status, &createdAt); err != nil {
		return Message{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Message{}, errors.Wrapf(err, "parsing message id %q", id)
	}
	m.ID = parsed
	m.CreatedAt = storage.ParseTime(createdAt)
	return m, nil
}
