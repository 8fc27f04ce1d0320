package mailservice

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"text/template"

	"github.com/sushihentaime/postbook/internal/common"
)

//go:embed templates/*.html
var templateFS embed.FS

// Notification is a rendered post notification.
type Notification struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

// NewTemplate parses the post notification. The subject and plain body go
// through text/template so titles are not HTML escaped outside the html part.
func NewTemplate() *Template {
	name := "templates/" + postCreatedTemplate
	return &Template{
		text: template.Must(template.New(postCreatedTemplate).ParseFS(templateFS, name)),
		html: htmltemplate.Must(htmltemplate.New(postCreatedTemplate).ParseFS(templateFS, name)),
	}
}

func (tp *Template) Render(event common.PostCreatedEvent) (*Notification, error) {
	var subject, plainBody, htmlBody bytes.Buffer

	if err := tp.text.ExecuteTemplate(&subject, "subject", event); err != nil {
		return nil, err
	}
	if err := tp.text.ExecuteTemplate(&plainBody, "plainBody", event); err != nil {
		return nil, err
	}
	if err := tp.html.ExecuteTemplate(&htmlBody, "htmlBody", event); err != nil {
		return nil, err
	}

	return &Notification{
		Subject:   subject.String(),
		PlainBody: plainBody.String(),
		HTMLBody:  htmlBody.String(),
	}, nil
}
