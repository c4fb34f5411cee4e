package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventsapp/internal/delivery/http/helpers"
	"eventsapp/internal/delivery/http/middleware"
	"eventsapp/internal/domain"
)

// FormBool decodes the event "type" flag from either a JSON boolean or a string,
// where only "True" is true.
type FormBool bool

func (b *FormBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = false
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*b = FormBool(bytes.Equal(data, []byte("true")))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("type must be a boolean or a string")
	}
	*b = FormBool(domain.ParseEventType(s))
	return nil
}

// EventResponse is the JSON shape of an event. Dates use the YYYY-MM-DDTHH:MM layout.
type EventResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  domain.Category `json:"category"`
	Place     string          `json:"place"`
	Address   string          `json:"address"`
	StartDate string          `json:"start_date" example:"2024-05-01T10:00"`
	EndDate   string          `json:"end_date" example:"2024-05-01T12:00"`
	Type      bool            `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	OwnerID   string          `json:"owner_id"`
}

func NewEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:        e.ID,
		Name:      e.Name,
		Category:  e.Category,
		Place:     e.Place,
		Address:   e.Address,
		StartDate: e.StartDate.UTC().Format(domain.DateLayout),
		EndDate:   e.EndDate.UTC().Format(domain.DateLayout),
		Type:      e.Type,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		OwnerID:   e.OwnerID,
	}
}

// CreateEventRequest is the request body for POST /api/events/create.
type CreateEventRequest struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Place     string   `json:"place"`
	Address   string   `json:"address"`
	StartDate string   `json:"start_date" example:"2024-05-01T10:00"`
	EndDate   string   `json:"end_date" example:"2024-05-01T12:00"`
	Type      FormBool `json:"type" swaggertype:"boolean"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.StartDate) == "" {
		errs = append(errs, "start_date is required")
	}
	if strings.TrimSpace(c.EndDate) == "" {
		errs = append(errs, "end_date is required")
	}
	return errs
}

func (c CreateEventRequest) input() domain.EventInput {
	return domain.EventInput{
		Name:      c.Name,
		Category:  c.Category,
		Place:     c.Place,
		Address:   c.Address,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Type:      bool(c.Type),
	}
}

// UpdateEventRequest is the request body for PUT /api/events/{id}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Name      *string   `json:"name"`
	Category  *string   `json:"category"`
	Place     *string   `json:"place"`
	Address   *string   `json:"address"`
	StartDate *string   `json:"start_date" example:"2024-05-01T10:00"`
	EndDate   *string   `json:"end_date" example:"2024-05-01T12:00"`
	Type      *FormBool `json:"type" swaggertype:"boolean"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	return errs
}

func (u UpdateEventRequest) patch() domain.EventPatch {
	p := domain.EventPatch{
		Name:      u.Name,
		Category:  u.Category,
		Place:     u.Place,
		Address:   u.Address,
		StartDate: u.StartDate,
		EndDate:   u.EndDate,
	}
	if u.Type != nil {
		v := bool(*u.Type)
		p.Type = &v
	}
	return p
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success envelope for GET /api/events.
type EventListSuccessResponse struct {
	Data  []EventResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CategoryListSuccessResponse is the success envelope for GET /api/categories.
type CategoryListSuccessResponse struct {
	Data  []domain.Category `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List my events
// @Description Returns every event owned by the caller, newest first.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	events, err := c.Service.ListEvents(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event owned by the caller. Dates use YYYY-MM-DDTHH:MM (UTC). "type" accepts a boolean or the string "True".
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/create [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	event, err := c.Service.CreateEvent(r.Context(), userID, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, NewEventResponse(event))
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns one of the caller's events.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (also when not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	event, err := c.Service.GetEvent(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NewEventResponse(event))
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Applies the supplied fields to one of the caller's events; omitted fields are unchanged.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (also when not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	event, err := c.Service.UpdateEvent(r.Context(), r.PathValue("id"), userID, req.patch())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NewEventResponse(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes one of the caller's events.
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (also when not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := c.Service.DeleteEvent(r.Context(), r.PathValue("id"), userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories godoc
// @Summary List event categories
// @Tags events
// @Produce json
// @Success 200 {object} controllers.CategoryListSuccessResponse
// @Router /categories [get]
func (c *EventController) ListCategories(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, domain.Categories())
}
