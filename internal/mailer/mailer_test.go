package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderKnownKinds(t *testing.T) {
	t.Parallel()

	cases := map[Kind]Data{
		KindLoginNotice:            {"Username": "alice", "Time": "2026-08-30 10:00", "IPAddress": "203.0.113.7", "Device": "Firefox"},
		KindPasswordChangedNotice:  {"Username": "alice", "Time": "2026-08-30 10:00"},
		KindVerificationCode:       {"Code": "123456", "TTL": "10 minutes"},
		KindContactForm:            {"Username": "bob", "Email": "bob@example.com", "Subject": "hi", "Message": "hello"},
		KindContactConfirmation:    {"Username": "bob", "Subject": "hi"},
		KindParticipationTicket:    {"Username": "alice", "EventTitle": "Picnic", "TicketID": "T-1"},
		KindParticipationCancelled: {"Username": "alice", "EventTitle": "Picnic"},
	}

	for kind, data := range cases {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			subject, body, err := render(kind, data)
			require.NoError(t, err)
			require.NotEmpty(t, subject)
			require.NotEmpty(t, body)
		})
	}
}

func TestRenderEscapesUserInput(t *testing.T) {
	t.Parallel()

	_, body, err := render(KindContactForm, Data{
		"Username": "bob",
		"Email":    "bob@example.com",
		"Subject":  "hi",
		"Message":  "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
}

func TestRenderUnknownKind(t *testing.T) {
	t.Parallel()

	_, _, err := render(Kind("no-such-kind"), nil)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	ctx := context.Background()

	require.NoError(t, rec.Send(ctx, KindLoginNotice, "a@example.com", Data{"Username": "a"}))
	require.NoError(t, rec.Send(ctx, KindVerificationCode, "b@example.com", Data{"Code": "111111"}))

	require.Len(t, rec.Messages(), 2)
	notices := rec.ByKind(KindLoginNotice)
	require.Len(t, notices, 1)
	require.Equal(t, "a@example.com", notices[0].To)
}
