package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventsapp/internal/domain"
)

// SessionTokens issues and verifies the tokens that reference login sessions.
type SessionTokens interface {
	domain.TokenIssuer
	domain.TokenVerifier
}

// AuthOptions configures session lifetimes.
type AuthOptions struct {
	SessionTTL     time.Duration
	RememberTTL    time.Duration
	ContextTimeout time.Duration
}

type authService struct {
	userRepo       domain.UserRepository
	sessionRepo    domain.LoginSessionRepository
	hasher         domain.PasswordHasher
	tokens         SessionTokens
	emailService   domain.EmailService
	logger         *slog.Logger
	sessionTTL     time.Duration
	rememberTTL    time.Duration
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAuthService creates an AuthService. emailService may be nil, in which case no welcome mail is sent.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.LoginSessionRepository,
	hasher domain.PasswordHasher,
	tokens SessionTokens,
	emailService domain.EmailService,
	logger *slog.Logger,
	opts AuthOptions,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		hasher:         hasher,
		tokens:         tokens,
		emailService:   emailService,
		logger:         logger,
		sessionTTL:     opts.SessionTTL,
		rememberTTL:    opts.RememberTTL,
		contextTimeout: opts.ContextTimeout,
		now:            time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *authService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *authService) SignUp(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	switch {
	case email == "":
		return nil, &domain.ValidationError{Field: "email", Message: "is required"}
	case name == "":
		return nil, &domain.ValidationError{Field: "name", Message: "is required"}
	case password == "":
		return nil, &domain.ValidationError{Field: "password", Message: "is required"}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(email, name, s.now().UTC())
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeMessageEmailData{Email: user.Email, Name: user.Name, UserID: user.ID}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

// Login verifies credentials and opens a login session. Unknown emails and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string, remember bool) (*domain.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	session := domain.NewLoginSession(user.ID, remember, s.now().UTC(), ttl)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create login session: %w", err)
	}
	token, err := s.tokens.Issue(session.ID, user.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Remember:  remember,
	}, nil
}

// Logout deletes the login session referenced by token. Missing or invalid tokens are ignored.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.sessionRepo.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("delete login session: %w", err)
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get login session: %w", err)
	}
	if session.UserID != claims.UserID || session.Expired(s.now()) {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
