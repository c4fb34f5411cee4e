package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"eventsapp/internal/domain"
)

const eventColumns = `id, name, category, place, address, start_date, end_date, event_type, created_at, updated_at, owner_id`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var category string
	err := row.Scan(
		&e.ID, &e.Name, &category, &e.Place, &e.Address,
		&e.StartDate, &e.EndDate, &e.Type, &e.CreatedAt, &e.UpdatedAt, &e.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	e.Category = domain.Category(category)
	e.StartDate = e.StartDate.UTC()
	e.EndDate = e.EndDate.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Name, string(e.Category), e.Place, e.Address,
		e.StartDate, e.EndDate, e.Type, e.CreatedAt, e.UpdatedAt, e.OwnerID,
	)
	if err != nil {
		return persistenceError("insert event", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, persistenceError("get event", err)
	}
	return e, nil
}

// ListByOwnerID returns the owner's events, newest first.
func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, persistenceError("list events", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, persistenceError("scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("list events", err)
	}
	return events, nil
}

// Update overwrites every mutable column. created_at and owner_id are never changed.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $1, category = $2, place = $3, address = $4,
			start_date = $5, end_date = $6, event_type = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.Name, string(e.Category), e.Place, e.Address,
		e.StartDate, e.EndDate, e.Type, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return persistenceError("update event", err)
	}
	return requireAffected(res, "update event")
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return persistenceError("delete event", err)
	}
	return requireAffected(res, "delete event")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return persistenceError(op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
