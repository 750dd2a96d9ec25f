// Package mailer отправляет транзакционные письма через SMTP-провайдера.
// С точки зрения рабочего процесса отправка fire-and-forget: ошибки
// провайдера логируются вызывающим и никогда не ретраятся.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message - одно письмо
type Message struct {
	To      string
	Subject string
	HTML    string
	BCC     []string
}

// Sender - контракт отправки для notifier; в тестах подменяется фейком
type Sender interface {
	Send(msg Message) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	bcc    []string
}

func NewSMTPMailer(host string, port int, user, password, from string, bcc []string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		bcc:    bcc,
	}
}

func (m *SMTPMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	bcc := append(append([]string{}, m.bcc...), msg.BCC...)
	if len(bcc) > 0 {
		gm.SetHeader("Bcc", bcc...)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	return nil
}
