package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"eventsapp/internal/delivery/http/middleware"
	"eventsapp/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	events    []*domain.Event
	event     *domain.Event
	err       error
	lastOwner string
	lastID    string
	lastInput domain.EventInput
	lastPatch domain.EventPatch
}

func (f *fakeEventService) ListEvents(_ context.Context, ownerID string) ([]*domain.Event, error) {
	f.lastOwner = ownerID
	return f.events, f.err
}

func (f *fakeEventService) CreateEvent(_ context.Context, ownerID string, in domain.EventInput) (*domain.Event, error) {
	f.lastOwner, f.lastInput = ownerID, in
	return f.event, f.err
}

func (f *fakeEventService) GetEvent(_ context.Context, id, callerID string) (*domain.Event, error) {
	f.lastID, f.lastOwner = id, callerID
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id, callerID string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastID, f.lastOwner, f.lastPatch = id, callerID, patch
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id, callerID string) error {
	f.lastID, f.lastOwner = id, callerID
	return f.err
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	user         *domain.User
	login        *domain.LoginResult
	err          error
	lastRemember bool
	lastToken    string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, name, _ string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: "u-1", Email: email, Name: name, PasswordHash: "secret-hash", Salt: "secret-salt"}, nil
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string, remember bool) (*domain.LoginResult, error) {
	f.lastRemember = remember
	return f.login, f.err
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.lastToken = token
	return f.err
}

func (f *fakeAuthService) CurrentUser(context.Context, string) (*domain.User, error) {
	return f.user, f.err
}

// asUser attaches an authenticated user to the request as LoadSession would.
func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), &domain.User{ID: userID}, "token"))
}
