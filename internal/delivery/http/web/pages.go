package web

import (
	"net/http"
	"time"

	"eventsapp/internal/domain"
)

// Flash messages shown on forms.
const (
	msgNameRequired       = "Ingrese un nombre"
	msgInvalidDate        = "Ingrese fechas válidas (AAAA-MM-DDTHH:MM)"
	msgCheckCredentials   = "Verifique sus credenciales"
	msgEmailRegistered    = "Email ya registrado"
	msgCreateFailed       = "Hubo un problema agregando el nuevo evento"
	msgUpdateFailed       = "Hubo un problema actualizando el evento."
	msgDeleteFailed       = "Hubo un problema al borrar el evento"
	msgGenericFailure     = "Hubo un problema procesando la solicitud"
	msgFormExpired        = "El formulario expiró. Vuelva a intentarlo."
	msgSignupFieldsNeeded = "Complete email, nombre y contraseña"
)

// eventForm holds the raw values of the create and update forms.
type eventForm struct {
	Name      string
	Category  string
	Place     string
	Address   string
	StartDate string
	EndDate   string
	Type      bool
}

func eventFormFromRequest(r *http.Request) eventForm {
	return eventForm{
		Name:      r.PostFormValue("name"),
		Category:  r.PostFormValue("category"),
		Place:     r.PostFormValue("place"),
		Address:   r.PostFormValue("address"),
		StartDate: r.PostFormValue("start_date"),
		EndDate:   r.PostFormValue("end_date"),
		Type:      domain.ParseEventType(r.PostFormValue("type")),
	}
}

func eventFormFromEvent(e *domain.Event) eventForm {
	return eventForm{
		Name:      e.Name,
		Category:  string(e.Category),
		Place:     e.Place,
		Address:   e.Address,
		StartDate: e.StartDate.UTC().Format(domain.DateLayout),
		EndDate:   e.EndDate.UTC().Format(domain.DateLayout),
		Type:      e.Type,
	}
}

// blankEventForm prefills both dates with the current time, as the browser date picker expects.
func blankEventForm(now time.Time) eventForm {
	date := now.UTC().Format(domain.DateLayout)
	return eventForm{
		Category:  string(domain.CategoryConference),
		StartDate: date,
		EndDate:   date,
	}
}

func (f eventForm) input() domain.EventInput {
	return domain.EventInput{
		Name:      f.Name,
		Category:  f.Category,
		Place:     f.Place,
		Address:   f.Address,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Type:      f.Type,
	}
}

type pageData struct {
	Title      string
	User       *domain.User
	CSRFToken  string
	Flashes    []string
	Message    string
	Events     []*domain.Event
	Event      *domain.Event
	Form       eventForm
	Categories []domain.Category
	Next       string
	Email      string
	Name       string
}
