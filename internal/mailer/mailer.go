package mailer

import (
	"context"
	"errors"
	"sync"
)

// Kind selects which template a message is rendered from.
type Kind string

const (
	KindLoginNotice            Kind = "login-notice"
	KindPasswordChangedNotice  Kind = "password-changed-notice"
	KindContactForm            Kind = "contact-form"
	KindContactConfirmation    Kind = "contact-confirmation"
	KindParticipationTicket    Kind = "participation-ticket"
	KindParticipationCancelled Kind = "participation-cancelled"
	KindVerificationCode       Kind = "verification-code"
)

// ErrUnknownKind is returned when no template exists for the requested kind.
var ErrUnknownKind = errors.New("mailer: unknown message kind")

// Data carries the template values for a single message.
type Data map[string]any

// Mailer renders and delivers a single templated message.
type Mailer interface {
	Send(ctx context.Context, kind Kind, to string, data Data) error
}

// Nop discards every message. Used when SMTP is not configured.
type Nop struct{}

func (Nop) Send(ctx context.Context, kind Kind, to string, data Data) error { return nil }

// Sent is one message captured by a Recorder.
type Sent struct {
	Kind Kind
	To   string
	Data Data
}

// Recorder captures messages instead of delivering them. Safe for
// concurrent use since login notices are sent from a goroutine.
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
}

func (r *Recorder) Send(ctx context.Context, kind Kind, to string, data Data) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{Kind: kind, To: to, Data: data})
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}

// ByKind returns recorded messages of one kind.
func (r *Recorder) ByKind(kind Kind) []Sent {
	var out []Sent
	for _, m := range r.Messages() {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
