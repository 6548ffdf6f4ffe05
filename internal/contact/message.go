// Package contact handles messages sent through the site's contact form.
package contact

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxBodyLength bounds a message body, in characters.
const MaxBodyLength = 5000

// Delivery states of a stored message.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Message is a contact form submission.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationError lists the form fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range []string{"name", "email", "message"} {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return "invalid contact message: " + strings.Join(parts, ", ")
}

// Validate trims the fields and checks them.
func (m *Message) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Body = strings.TrimSpace(m.Body)

	fields := map[string]string{}
	switch {
	case m.Name == "":
		fields["name"] = "required"
	case strings.ContainsAny(m.Name, "\r\n"):
		fields["name"] = "must be a single line"
	}
	if m.Email == "" {
		fields["email"] = "required"
	} else if addr, err := mail.ParseAddress(m.Email); err != nil || addr.Address != m.Email {
		fields["email"] = "not a valid address"
	}
	switch {
	case m.Body == "":
		fields["message"] = "required"
	case utf8.RuneCountInString(m.Body) > MaxBodyLength:
		fields["message"] = fmt.Sprintf("longer than %d characters", MaxBodyLength)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
