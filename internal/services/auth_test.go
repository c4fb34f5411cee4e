package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsapp/internal/domain"
)

type authFixture struct {
	svc      *authService
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	mail     *fakeEmailService
	now      time.Time
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newFakeUserRepo(),
		sessions: newFakeSessionRepo(),
		mail:     &fakeEmailService{},
		now:      time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	svc := NewAuthService(f.users, f.sessions, fakeHasher{}, fakeTokens{}, f.mail, testLogger(), AuthOptions{
		SessionTTL:     12 * time.Hour,
		RememberTTL:    30 * 24 * time.Hour,
		ContextTimeout: time.Second,
	}).(*authService)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		userName string
		password string
		wantErr  error
	}{
		{name: "success", email: " Ana@Example.com ", userName: "Ana", password: "pw"},
		{name: "missing email", email: "", userName: "Ana", password: "pw", wantErr: domain.ErrValidation},
		{name: "missing name", email: "ana@example.com", userName: " ", password: "pw", wantErr: domain.ErrValidation},
		{name: "missing password", email: "ana@example.com", userName: "Ana", password: "", wantErr: domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			user, err := f.svc.SignUp(ctx, tt.email, tt.userName, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, f.mail.sent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", user.Email)
			assert.Equal(t, "hashed:saltpw", user.PasswordHash)
			assert.Equal(t, f.now, user.CreatedAt)

			stored, err := f.users.GetByEmail(ctx, "ana@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, stored.ID)

			require.Len(t, f.mail.sent, 1)
			assert.Equal(t, user.ID, f.mail.sent[0].UserID)
		})
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	_, err := f.svc.SignUp(ctx, "ana@example.com", "Ana", "pw")
	require.NoError(t, err)
	_, err = f.svc.SignUp(ctx, "ANA@example.com", "Other", "pw2")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_SignUp_EmailFailureIsNotFatal(t *testing.T) {
	f := newAuthFixture()
	f.mail.err = errors.New("smtp down")

	user, err := f.svc.SignUp(context.Background(), "ana@example.com", "Ana", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		email       string
		password    string
		remember    bool
		wantErr     error
		wantExpires time.Duration
	}{
		{name: "session login", email: "ana@example.com", password: "pw", wantExpires: 12 * time.Hour},
		{name: "remember me", email: "ANA@example.com", password: "pw", remember: true, wantExpires: 30 * 24 * time.Hour},
		{name: "wrong password", email: "ana@example.com", password: "nope", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "bob@example.com", password: "pw", wantErr: domain.ErrInvalidCredentials},
		{name: "empty password", email: "ana@example.com", password: "", wantErr: domain.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			_, err := f.svc.SignUp(ctx, "ana@example.com", "Ana", "pw")
			require.NoError(t, err)

			res, err := f.svc.Login(ctx, tt.email, tt.password, tt.remember)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, f.sessions.count())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", res.User.Email)
			assert.Equal(t, tt.remember, res.Remember)
			assert.Equal(t, f.now.Add(tt.wantExpires), res.ExpiresAt)
			assert.Equal(t, 1, f.sessions.count())

			current, err := f.svc.CurrentUser(ctx, res.Token)
			require.NoError(t, err)
			assert.Equal(t, res.User.ID, current.ID)
		})
	}
}

func TestAuthService_Login_RepoFailure(t *testing.T) {
	f := newAuthFixture()
	f.users.findErr = &domain.PersistenceError{Op: "get user", Err: errors.New("conn reset")}

	_, err := f.svc.Login(context.Background(), "ana@example.com", "pw", false)
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.SignUp(ctx, "ana@example.com", "Ana", "pw")
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, "ana@example.com", "pw", false)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, res.Token))
	assert.Zero(t, f.sessions.count())

	_, err = f.svc.CurrentUser(ctx, res.Token)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	require.NoError(t, f.svc.Logout(ctx, res.Token), "logout is idempotent")
	require.NoError(t, f.svc.Logout(ctx, ""))
	require.NoError(t, f.svc.Logout(ctx, "garbage"))
}

func TestAuthService_CurrentUser_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.SignUp(ctx, "ana@example.com", "Ana", "pw")
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, "ana@example.com", "pw", false)
	require.NoError(t, err)

	claims, err := fakeTokens{}.Verify(res.Token)
	require.NoError(t, err)
	forged, _ := fakeTokens{}.Issue(claims.SessionID, "user-999", claims.ExpiresAt)

	t.Run("empty", func(t *testing.T) {
		_, err := f.svc.CurrentUser(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := f.svc.CurrentUser(ctx, "x")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
	t.Run("session belongs to another user", func(t *testing.T) {
		_, err := f.svc.CurrentUser(ctx, forged)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
	t.Run("expired", func(t *testing.T) {
		f.now = f.now.Add(13 * time.Hour)
		_, err := f.svc.CurrentUser(ctx, res.Token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}
