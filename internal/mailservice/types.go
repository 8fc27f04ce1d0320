package mailservice

import (
	"context"
	htmltemplate "html/template"
	"text/template"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/postbook/internal/common"
)

const postCreatedTemplate = "post_created.html"

type MailService struct {
	mb        common.MessageConsumer
	m         Mailer
	logger    MailLogger
	recipient string
	ctx       context.Context
	cancel    context.CancelFunc
}

// MailLogger takes a message followed by alternating keys and values.
type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	dialer   Dialer
	renderer Renderer
	sender   string
}

type Mailer interface {
	send(recipient string, event common.PostCreatedEvent) error
}

type Template struct {
	text *template.Template
	html *htmltemplate.Template
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type Renderer interface {
	Render(event common.PostCreatedEvent) (*Notification, error)
}
