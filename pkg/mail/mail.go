// Package mail sends email over SMTP with a fluent builder.
//
//	err := mail.New().
//	    To(order.Email).
//	    Subject("Your FashionHub order").
//	    HTML(body).
//	    Send()
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/fashionhub/storefront/config"
	"github.com/fashionhub/storefront/pkg/logger"
)

// Message is a fluent email builder.
type Message struct {
	from    string
	to      []string
	cc      []string
	subject string
	body    string
	html    bool
}

// New creates a message with the configured default sender.
func New() *Message {
	return &Message{
		from: config.Get("MAIL_FROM", "no-reply@fashionhub.local"),
	}
}

// From overrides the sender address.
func (m *Message) From(addr string) *Message {
	m.from = addr
	return m
}

// To adds recipient addresses.
func (m *Message) To(addrs ...string) *Message {
	m.to = append(m.to, addrs...)
	return m
}

// Cc adds carbon-copy addresses.
func (m *Message) Cc(addrs ...string) *Message {
	m.cc = append(m.cc, addrs...)
	return m
}

// Subject sets the subject line.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(body string) *Message {
	m.body = body
	m.html = false
	return m
}

// HTML sets an HTML body.
func (m *Message) HTML(body string) *Message {
	m.body = body
	m.html = true
	return m
}

// Send delivers the message through the configured SMTP server. When no
// MAIL_HOST is configured the message is logged instead, which keeps
// development environments working without a mail server.
func (m *Message) Send() error {
	if len(m.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	host := config.Get("MAIL_HOST", "")
	if host == "" {
		logger.Info("mail: no MAIL_HOST configured, logging message",
			"to", strings.Join(m.to, ","), "subject", m.subject)
		return nil
	}

	port := config.Get("MAIL_PORT", "587")
	addr := host + ":" + port

	var auth smtp.Auth
	if user := config.Get("MAIL_USERNAME", ""); user != "" {
		auth = smtp.PlainAuth("", user, config.Get("MAIL_PASSWORD", ""), host)
	}

	recipients := append(append([]string{}, m.to...), m.cc...)
	if err := smtp.SendMail(addr, auth, m.from, recipients, m.build()); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func (m *Message) build() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.to, ", "))
	if len(m.cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(m.cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", m.subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	if m.html {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}
