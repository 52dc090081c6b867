package core

import "net/mail"

type (
	// EmailMessage is a plain-text email. The portal only sends operational
	// alerts (e.g. login lockouts); there is no templated mail.
	EmailMessage struct {
		To      []mail.Address
		Subject string
		Body    string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently; it must never block the caller.
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.Subject != "" || m.Body != ""
}
