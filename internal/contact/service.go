package contact

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Service validates, stores and delivers contact messages.
type Service struct {
	store  *Store
	sender Sender
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a Service.
func NewService(store *Store, sender Sender, logger *slog.Logger) *Service {
	return &Service{store: store, sender: sender, logger: logger, now: time.Now}
}

// Submit validates the message, stores it and attempts delivery. A
// *ValidationError means nothing was stored. A delivery failure is returned
// after the message has been stored with StatusFailed, so it stays visible
// on the admin dashboard.
func (s *Service) Submit(ctx context.Context, name, email, body string) (Message, error) {
	m := Message{Name: name, Email: email, Body: body}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	m.ID = uuid.New()
	m.Status = StatusPending
	m.CreatedAt = s.now().UTC()

	if err := s.store.Save(ctx, m); err != nil {
		return Message{}, err
	}

	if err := s.sender.Send(ctx, m); err != nil {
		s.logger.Error("delivering contact message", "id", m.ID, "error", err)
		m.Status = StatusFailed
		if serr := s.store.SetStatus(ctx, m.ID, m.Status); serr != nil {
			s.logger.Error("updating message status", "id", m.ID, "error", serr)
		}
		return m, errors.Wrap(err, "delivery failed")
	}

	m.Status = StatusDelivered
	if err := s.store.SetStatus(ctx, m.ID, m.Status); err != nil {
		return m, err
	}
	s.logger.Info("contact message delivered", "id", m.ID)
	return m, nil
}

// Messages returns the most recent messages.
func (s *Service) Messages(ctx context.Context, limit int) ([]Message, error) {
	return s.store.List(ctx, limit)
}

// Delete removes a message by id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}
