package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTP sends plain-text mail through a relay. Auth is skipped when no
// user is configured (local relays).
type SMTP struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTP(host string, port int, user, password, from string) *SMTP {
	return &SMTP{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
	}
}

func (n *SMTP) Send(_ context.Context, m Message) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.password, n.host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(m.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Text)

	return smtp.SendMail(addr, auth, n.from, []string{m.To}, []byte(b.String()))
}

// sanitizeHeader strips CR/LF so user-provided text cannot inject
// extra headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
