package contact

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"

	"github.com/pkg/errors"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Sender delivers a message to the site owner.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTPSender delivers messages by email.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	To   string

	// sendMail is smtp.SendMail; replaced in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender returns a sender for the given server and recipient.
func NewSMTPSender(host string, port int, user, pass, to string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, User: user, Pass: pass, To: to, sendMail: smtp.SendMail}
}

// Send emails m to the configured recipient with Reply-To set to the sender.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if s.User == "" || s.Pass == "" || s.To == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	addr := s.Host + ":" + strconv.Itoa(s.Port)
	if err := s.sendMail(addr, auth, s.User, []string{s.To}, s.compose(m)); err != nil {
		return errors.Wrapf(err, "sending mail via %s", addr)
	}
	return nil
}

func (s *SMTPSender) compose(m Message) []byte {
	// Header values never carry raw CR or LF from the form.
	subject := mime.QEncoding.Encode("utf-8", "Portfolio Contact: "+m.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form (ref %s)
`, m.Name, m.Email, m.Body, m.ID)

	return []byte("To: " + s.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + s.User + "\r\n" +
		"Reply-To: " + mime.QEncoding.Encode("utf-8", m.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
