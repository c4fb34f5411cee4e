package domain

import (
	"context"
	"strings"
	"time"
)

// DateLayout is the textual format of event start and end dates on every surface
// (the value of an HTML datetime-local input). Dates are interpreted as UTC.
const DateLayout = "2006-01-02T15:04"

// Category classifies an event. Values are the labels shown to users.
type Category string

const (
	CategoryConference Category = "Conferencia"
	CategorySeminar    Category = "Seminario"
	CategoryCongress   Category = "Congreso"
	CategoryCourse     Category = "Curso"
)

// Categories returns the fixed category list in display order.
func Categories() []Category {
	return []Category{CategoryConference, CategorySeminar, CategoryCongress, CategoryCourse}
}

// Event represents a conference, seminar, congress or course owned by one user.
// swagger:model Event
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Place     string    `json:"place"`
	Address   string    `json:"address"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Type      bool      `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerID   string    `json:"owner_id"`
}

// OwnedBy reports whether userID owns the event.
func (e *Event) OwnedBy(userID string) bool {
	return e != nil && userID != "" && e.OwnerID == userID
}

// ParseEventType coerces the submitted "type" value: only "True" means true.
func ParseEventType(s string) bool {
	return strings.TrimSpace(s) == "True"
}

// ParseEventDate parses a DateLayout value for the named field.
func ParseEventDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &DateError{Field: field, Value: value}
	}
	return t, nil
}

// EventInput carries the raw fields of a create request. Dates are unparsed DateLayout strings.
type EventInput struct {
	Name      string
	Category  string
	Place     string
	Address   string
	StartDate string
	EndDate   string
	Type      bool
}

// EventPatch carries the fields of an update request; nil fields are left unchanged.
type EventPatch struct {
	Name      *string
	Category  *string
	Place     *string
	Address   *string
	StartDate *string
	EndDate   *string
	Type      *bool
}

// FullPatch turns a complete input into a patch that sets every field.
func (in EventInput) FullPatch() EventPatch {
	return EventPatch{
		Name:      &in.Name,
		Category:  &in.Category,
		Place:     &in.Place,
		Address:   &in.Address,
		StartDate: &in.StartDate,
		EndDate:   &in.EndDate,
		Type:      &in.Type,
	}
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the owner-scoped event operations shared by the HTML and JSON surfaces.
type EventService interface {
	ListEvents(ctx context.Context, ownerID string) ([]*Event, error)
	CreateEvent(ctx context.Context, ownerID string, in EventInput) (*Event, error)
	GetEvent(ctx context.Context, id, callerID string) (*Event, error)
	UpdateEvent(ctx context.Context, id, callerID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id, callerID string) error
}
