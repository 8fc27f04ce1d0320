package mailservice

import (
	"fmt"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/postbook/internal/common"
)

// NewMailer sends post notifications from sender through the SMTP server at
// host:port.
func NewMailer(host string, port int, username, password, sender string, r Renderer) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer:   dialer,
		renderer: r,
		sender:   sender,
	}
}

func (m *Mail) send(recipient string, event common.PostCreatedEvent) error {
	n, err := m.renderer.Render(event)
	if err != nil {
		return fmt.Errorf("could not render notification for %q: %w", event.Title, err)
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", n.Subject)
	msg.SetBody("text/plain", n.PlainBody)
	msg.AddAlternative("text/html", n.HTMLBody)

	return m.dialer.DialAndSend(msg)
}
