package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventsapp/internal/domain"
)

var eventCols = []string{"id", "name", "category", "place", "address", "start_date", "end_date", "event_type", "created_at", "updated_at", "owner_id"}

func sampleEvent() *domain.Event {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Event{
		Name:      "GopherCon",
		Category:  domain.CategoryConference,
		Place:     "Centro",
		Address:   "Calle 1",
		StartDate: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC),
		Type:      true,
		CreatedAt: ts,
		UpdatedAt: ts,
		OwnerID:   "user-1",
	}
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock, e *domain.Event)
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock, e *domain.Event) {
				mock.ExpectExec(`INSERT INTO events \(id, name, category, place, address, start_date, end_date, event_type, created_at, updated_at, owner_id\)`).
					WithArgs(sqlmock.AnyArg(), e.Name, "Conferencia", e.Place, e.Address, e.StartDate, e.EndDate, true, e.CreatedAt, e.UpdatedAt, "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock, _ *domain.Event) {
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			e := sampleEvent()
			tt.mock(mock, e)
			err = NewEventRepository(db).Create(ctx, e)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrPersistence)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, e.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	want := sampleEvent()
	want.ID = "ev-1"

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, category, place, address, start_date, end_date, event_type, created_at, updated_at, owner_id\s+FROM events\s+WHERE id =`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventCols).AddRow(
						"ev-1", want.Name, "Conferencia", want.Place, want.Address,
						want.StartDate, want.EndDate, true, want.CreatedAt, want.UpdatedAt, "user-1"))
			},
			want: want,
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: domain.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ListByOwnerID(t *testing.T) {
	ctx := context.Background()
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("newest first", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events\s+WHERE owner_id = \$1\s+ORDER BY created_at DESC`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow("ev-2", "B", "Curso", "", "", newer, newer, false, newer, newer, "user-1").
				AddRow("ev-1", "A", "Seminario", "", "", older, older, true, older, older, "user-1"))

		got, err := NewEventRepository(db).ListByOwnerID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "ev-2", got[0].ID)
		require.Equal(t, domain.CategoryCourse, got[0].Category)
		require.Equal(t, "ev-1", got[1].ID)
		require.True(t, got[1].Type)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events`).
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows(eventCols))

		got, err := NewEventRepository(db).ListByOwnerID(ctx, "user-2")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events`).WillReturnError(sql.ErrConnDone)
		_, err = NewEventRepository(db).ListByOwnerID(ctx, "user-1")
		require.ErrorIs(t, err, domain.ErrPersistence)
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock, e *domain.Event)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock, e *domain.Event) {
				mock.ExpectExec(`UPDATE events\s+SET name = \$1, category = \$2`).
					WithArgs(e.Name, "Conferencia", e.Place, e.Address, e.StartDate, e.EndDate, true, e.UpdatedAt, "ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock, _ *domain.Event) {
				mock.ExpectExec(`UPDATE events`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock, _ *domain.Event) {
				mock.ExpectExec(`UPDATE events`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: domain.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			e := sampleEvent()
			e.ID = "ev-1"
			tt.mock(mock, e)
			err = NewEventRepository(db).Update(ctx, e)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		result  driverResult
		err     error
		wantErr error
	}{
		{name: "success", result: driverResult{affected: 1}},
		{name: "not found", result: driverResult{affected: 0}, wantErr: domain.ErrNotFound},
		{name: "db error", err: sql.ErrConnDone, wantErr: domain.ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			exp := mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).WithArgs("ev-1")
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.result.affected))
			}

			err = NewEventRepository(db).Delete(ctx, "ev-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

type driverResult struct {
	affected int64
}
