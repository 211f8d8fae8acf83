package mailer

import (
	"errors"
	"io"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Attachment is an in-memory file to attach to an outgoing mail.
type Attachment struct {
	Name string
	Data []byte
}

// Send delivers one mail through the configured SMTP account. Every
// caller treats a returned error as non-fatal: mail is fire-and-forget
// in this system and must never roll back a committed sale.
var Send = send

func send(to, subject, body string, attachments ...Attachment) error {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if host == "" || user == "" {
		return errors.New("SMTP is not configured")
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, "Vivero NCJ")
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	for _, att := range attachments {
		data := att.Data
		m.Attach(att.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	d := gomail.NewDialer(host, port, user, pass)
	return d.DialAndSend(m)
}
