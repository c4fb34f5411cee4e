package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsapp/internal/domain"
)

type recordingMailer struct {
	to, subject, html, text string
	err                     error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, html, text string) error {
	m.to, m.subject, m.html, m.text = to, subject, html, text
	return m.err
}

type stubRenderer struct {
	name string
	err  error
}

func (r *stubRenderer) Render(name string, _ any) (string, string, string, error) {
	r.name = name
	if r.err != nil {
		return "", "", "", r.err
	}
	return "Welcome", "<p>hi</p>", "hi", nil
}

func TestEmailService_SendWelcomeMessage(t *testing.T) {
	ctx := context.Background()
	data := &domain.WelcomeMessageEmailData{Email: "ana@example.com", Name: "Ana", UserID: "user-1"}

	t.Run("success", func(t *testing.T) {
		mailer := &recordingMailer{}
		renderer := &stubRenderer{}
		svc := NewEmailService(mailer, renderer, testLogger())

		require.NoError(t, svc.SendWelcomeMessage(ctx, data))
		assert.Equal(t, "welcome", renderer.name)
		assert.Equal(t, "ana@example.com", mailer.to)
		assert.Equal(t, "Welcome", mailer.subject)
		assert.Equal(t, "hi", mailer.text)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&recordingMailer{}, &stubRenderer{}, testLogger())
		require.Error(t, svc.SendWelcomeMessage(ctx, nil))
	})

	t.Run("render error", func(t *testing.T) {
		mailer := &recordingMailer{}
		svc := NewEmailService(mailer, &stubRenderer{err: errors.New("bad template")}, testLogger())
		require.Error(t, svc.SendWelcomeMessage(ctx, data))
		assert.Empty(t, mailer.to)
	})

	t.Run("send error", func(t *testing.T) {
		sendErr := errors.New("ses unavailable")
		svc := NewEmailService(&recordingMailer{err: sendErr}, &stubRenderer{}, testLogger())
		require.ErrorIs(t, svc.SendWelcomeMessage(ctx, data), sendErr)
	})
}
