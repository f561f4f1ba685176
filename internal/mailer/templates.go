package mailer

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// subjects maps each kind to its subject line template. Subjects are plain
// strings today; none of them interpolate user input.
var subjects = map[Kind]string{
	KindLoginNotice:            "New login to your eventyfast account",
	KindPasswordChangedNotice:  "Your eventyfast password was changed",
	KindContactForm:            "New contact form message",
	KindContactConfirmation:    "We received your message",
	KindParticipationTicket:    "Your ticket is confirmed",
	KindParticipationCancelled: "Your participation was cancelled",
	KindVerificationCode:       "Your eventyfast verification code",
}

// render produces the subject and HTML body for a message.
func render(kind Kind, data Data) (subject, body string, err error) {
	subject, ok := subjects[kind]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, string(kind)+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", kind, err)
	}
	return subject, buf.String(), nil
}
