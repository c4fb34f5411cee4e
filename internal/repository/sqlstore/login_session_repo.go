package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"eventsapp/internal/domain"
)

type loginSessionRepository struct {
	DB *sql.DB
}

func NewLoginSessionRepository(db *sql.DB) domain.LoginSessionRepository {
	return &loginSessionRepository{DB: db}
}

func (r *loginSessionRepository) Create(ctx context.Context, s *domain.LoginSession) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO login_sessions (id, user_id, remember, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.DB.ExecContext(ctx, query, s.ID, s.UserID, s.Remember, s.CreatedAt, s.ExpiresAt); err != nil {
		return persistenceError("insert login session", err)
	}
	return nil
}

func (r *loginSessionRepository) GetByID(ctx context.Context, id string) (*domain.LoginSession, error) {
	query := `
		SELECT id, user_id, remember, created_at, expires_at
		FROM login_sessions
		WHERE id = $1
	`
	s := &domain.LoginSession{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.Remember, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, persistenceError("get login session", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (r *loginSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM login_sessions WHERE id = $1`, id); err != nil {
		return persistenceError("delete login session", err)
	}
	return nil
}
