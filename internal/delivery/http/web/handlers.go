package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventsapp/internal/delivery/http/middleware"
	"eventsapp/internal/domain"
)

const eventsPath = "/events/"

// Handler serves the server-rendered HTML surface.
type Handler struct {
	Logger        *slog.Logger
	Auth          domain.AuthService
	Events        domain.EventService
	Pages         *Renderer
	SecureCookies bool
	now           func() time.Time
}

func NewHandler(logger *slog.Logger, auth domain.AuthService, events domain.EventService, pages *Renderer, secureCookies bool) *Handler {
	return &Handler{
		Logger:        logger,
		Auth:          auth,
		Events:        events,
		Pages:         pages,
		SecureCookies: secureCookies,
		now:           time.Now,
	}
}

func (h *Handler) page(r *http.Request, title string) *pageData {
	user, _ := middleware.UserFromContext(r.Context())
	return &pageData{
		Title:      title,
		User:       user,
		CSRFToken:  middleware.CSRFToken(r),
		Categories: domain.Categories(),
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	var buf bytes.Buffer
	if err := h.Pages.Render(&buf, name, data); err != nil {
		h.Logger.ErrorContext(r.Context(), "template error", "page", name, "path", r.URL.Path, "err", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderFailure(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	data := h.page(r, "Error")
	data.Message = message
	h.render(w, r, http.StatusInternalServerError, pageError, data)
}

// eventError renders the page matching an event lookup or mutation failure.
func (h *Handler) eventError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		h.render(w, r, http.StatusForbidden, pageUnauthorized, h.page(r, "No autorizado"))
	case errors.Is(err, domain.ErrNotFound):
		h.render(w, r, http.StatusNotFound, pageNotFound, h.page(r, "No encontrado"))
	case errors.Is(err, domain.ErrUnauthenticated):
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
	default:
		h.renderFailure(w, r, failure, err)
	}
}

// formMessage returns the flash for a rejected event form, or "" when err is not a form error.
func formMessage(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr) && verr.Field == "name":
		return msgNameRequired
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, domain.ErrInvalidDate):
		return msgInvalidDate
	}
	return ""
}

func callerID(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); ok {
		http.Redirect(w, r, eventsPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}

// NotFound renders the 404 page for unmatched paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, pageNotFound, h.page(r, "No encontrado"))
}

// CSRFFailure is the gorilla/csrf error handler for rejected form posts.
func (h *Handler) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	h.Logger.WarnContext(r.Context(), "csrf validation failed", "path", r.URL.Path, "reason", middleware.CSRFFailureReason(r))
	data := h.page(r, "Error")
	data.Message = msgFormExpired
	h.render(w, r, http.StatusForbidden, pageError, data)
}

// LoginPage handles GET /login/.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := middleware.SafeNext(r.URL.Query().Get("next"), "")
	if _, ok := middleware.UserFromContext(r.Context()); ok {
		http.Redirect(w, r, middleware.SafeNext(next, eventsPath), http.StatusFound)
		return
	}
	data := h.page(r, "Ingresar")
	data.Next = next
	h.render(w, r, http.StatusOK, pageLogin, data)
}

// Login handles POST /login/.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	remember := r.PostFormValue("remember") != ""
	next := middleware.SafeNext(r.PostFormValue("next"), "")

	res, err := h.Auth.Login(r.Context(), email, password, remember)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) && !errors.Is(err, domain.ErrValidation) {
			h.renderFailure(w, r, msgGenericFailure, err)
			return
		}
		data := h.page(r, "Ingresar")
		data.Flashes = []string{msgCheckCredentials}
		data.Email = email
		data.Next = next
		h.render(w, r, http.StatusBadRequest, pageLogin, data)
		return
	}
	middleware.SetSessionCookie(w, res, h.SecureCookies)
	http.Redirect(w, r, middleware.SafeNext(next, eventsPath), http.StatusSeeOther)
}

// SignupPage handles GET /signup/.
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageSignup, h.page(r, "Registrarse"))
}

// Signup handles POST /signup/.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	name := r.PostFormValue("name")

	_, err := h.Auth.SignUp(r.Context(), email, name, r.PostFormValue("password"))
	if err != nil {
		var flash string
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			flash = msgEmailRegistered
		case errors.Is(err, domain.ErrValidation):
			flash = msgSignupFieldsNeeded
		default:
			h.renderFailure(w, r, msgGenericFailure, err)
			return
		}
		data := h.page(r, "Registrarse")
		data.Flashes = []string{flash}
		data.Email = email
		data.Name = name
		h.render(w, r, http.StatusBadRequest, pageSignup, data)
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// Logout handles GET /logout/.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), middleware.SessionToken(r)); err != nil {
		h.Logger.ErrorContext(r.Context(), "logout failed", "path", r.URL.Path, "err", err)
	}
	middleware.ClearSessionCookie(w, h.SecureCookies)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ListEvents handles GET /events/.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ListEvents(r.Context(), callerID(r))
	if err != nil {
		h.eventError(w, r, err, msgGenericFailure)
		return
	}
	data := h.page(r, "Mis eventos")
	data.Events = events
	h.render(w, r, http.StatusOK, pageIndex, data)
}

// CreatePage handles GET /events/create/.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "Nuevo evento")
	data.Form = blankEventForm(h.now())
	h.render(w, r, http.StatusOK, pageCreate, data)
}

// Create handles POST /events/create/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form := eventFormFromRequest(r)
	if _, err := h.Events.CreateEvent(r.Context(), callerID(r), form.input()); err != nil {
		if msg := formMessage(err); msg != "" {
			data := h.page(r, "Nuevo evento")
			data.Form = form
			data.Flashes = []string{msg}
			h.render(w, r, http.StatusBadRequest, pageCreate, data)
			return
		}
		h.eventError(w, r, err, msgCreateFailed)
		return
	}
	http.Redirect(w, r, eventsPath, http.StatusSeeOther)
}

// Detail handles GET /events/{id}/.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.GetEvent(r.Context(), r.PathValue("id"), callerID(r))
	if err != nil {
		h.eventError(w, r, err, msgGenericFailure)
		return
	}
	data := h.page(r, event.Name)
	data.Event = event
	h.render(w, r, http.StatusOK, pageDetail, data)
}

// UpdatePage handles GET /events/{id}/update/.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.GetEvent(r.Context(), r.PathValue("id"), callerID(r))
	if err != nil {
		h.eventError(w, r, err, msgGenericFailure)
		return
	}
	data := h.page(r, "Editar evento")
	data.Event = event
	data.Form = eventFormFromEvent(event)
	h.render(w, r, http.StatusOK, pageUpdate, data)
}

// Update handles POST /events/{id}/update/. The form carries every field.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	form := eventFormFromRequest(r)
	_, err := h.Events.UpdateEvent(r.Context(), id, callerID(r), form.input().FullPatch())
	if err != nil {
		if msg := formMessage(err); msg != "" {
			data := h.page(r, "Editar evento")
			data.Event = &domain.Event{ID: id}
			data.Form = form
			data.Flashes = []string{msg}
			h.render(w, r, http.StatusBadRequest, pageUpdate, data)
			return
		}
		h.eventError(w, r, err, msgUpdateFailed)
		return
	}
	http.Redirect(w, r, eventsPath, http.StatusSeeOther)
}

// Delete handles GET /events/{id}/delete/.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Events.DeleteEvent(r.Context(), r.PathValue("id"), callerID(r)); err != nil {
		h.eventError(w, r, err, msgDeleteFailed)
		return
	}
	http.Redirect(w, r, eventsPath, http.StatusFound)
}
