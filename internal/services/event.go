package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventsapp/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *eventService) ListEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) CreateEvent(ctx context.Context, ownerID string, in domain.EventInput) (*domain.Event, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	event := &domain.Event{OwnerID: ownerID}
	if err := applyPatch(event, in.FullPatch()); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id, callerID string) (*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.ownedEvent(ctx, id, callerID)
}

// UpdateEvent applies the non-nil fields of patch. The patch is validated in full
// before anything is written.
func (s *eventService) UpdateEvent(ctx context.Context, id, callerID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.ownedEvent(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	updated := *current
	if err := applyPatch(&updated, patch); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.eventRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id, callerID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.ownedEvent(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ownedEvent(ctx context.Context, id, callerID string) (*domain.Event, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if id == "" {
		return nil, domain.ErrNotFound
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.OwnedBy(callerID) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// applyPatch copies the set fields of p onto e. e is only modified when every
// set field is valid.
func applyPatch(e *domain.Event, p domain.EventPatch) error {
	next := *e
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return &domain.ValidationError{Field: "name", Message: "is required"}
		}
		next.Name = name
	}
	if p.Category != nil {
		next.Category = domain.Category(strings.TrimSpace(*p.Category))
	}
	if p.Place != nil {
		next.Place = strings.TrimSpace(*p.Place)
	}
	if p.Address != nil {
		next.Address = strings.TrimSpace(*p.Address)
	}
	if p.StartDate != nil {
		t, err := domain.ParseEventDate("start_date", *p.StartDate)
		if err != nil {
			return err
		}
		next.StartDate = t
	}
	if p.EndDate != nil {
		t, err := domain.ParseEventDate("end_date", *p.EndDate)
		if err != nil {
			return err
		}
		next.EndDate = t
	}
	if p.Type != nil {
		next.Type = *p.Type
	}
	*e = next
	return nil
}
