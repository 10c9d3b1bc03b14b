package reminders

import (
	"net/http"
	"strings"
	"time"

	"vet-backoffice/internal/middleware"
	"vet-backoffice/internal/platform/httpx"
	"vet-backoffice/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/golang-sql/civil"
)

func RegisterRoutes(r chi.Router, svc *Service, pass *Pass, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	today := func() civil.Date { return civil.DateOf(svc.now().In(loc)) }

	r.Get("/clients/{clientID}/reminders", listUpcomingHandler(svc, today))
	r.Post("/reminders/{reminderID}/deactivate", deactivateHandler(svc))
	r.Post("/admin/reminder-pass", runPassHandler(pass, today))
}

type reminderResponse struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	Category    Category   `json:"category"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Link        string     `json:"link,omitempty"`
	TargetAt    time.Time  `json:"target_at"`
	LeadDays    int        `json:"lead_days"`
	Active      bool       `json:"active"`
	Sent        bool       `json:"sent"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	RelatedID   string     `json:"related_id,omitempty"`
	RelatedKind string     `json:"related_kind,omitempty"`
}

// listUpcomingHandler godoc
// @Summary Próximos recordatorios del cliente
// @Description Recordatorios activos y no enviados desde hoy, más el próximo cumpleaños de cada mascota.
// @Tags reminders
// @Produce json
// @Param clientID path string true "ID del cliente"
// @Success 200 {array} reminderResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /clients/{clientID}/reminders [get]
func listUpcomingHandler(svc *Service, today func() civil.Date) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientID")
		if !middleware.CanAccessClient(r.Context(), clientID) {
			httpx.Forbidden(w)
			return
		}
		items, err := svc.ListUpcoming(r.Context(), clientID, today())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]reminderResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toReminderResponse(it))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func deactivateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "reminderID")
		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !middleware.CanAccessClient(r.Context(), current.ClientID) {
			httpx.Forbidden(w)
			return
		}
		rem, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toReminderResponse(rem))
	}
}

// runPassHandler godoc
// @Summary Ejecutar la pasada de recordatorios
// @Description Solo administradores. Dispara los recordatorios vencidos y los cumpleaños del día. Es idempotente para una misma fecha.
// @Tags reminders
// @Produce json
// @Param date query string false "YYYY-MM-DD; por defecto hoy en la zona de la clínica"
// @Success 200 {object} PassResult
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /admin/reminder-pass [post]
func runPassHandler(pass *Pass, today func() civil.Date) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if claims.Role != auth.RoleAdmin {
			httpx.Forbidden(w)
			return
		}

		day := today()
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			d, err := civil.ParseDate(raw)
			if err != nil {
				httpx.BadRequest(w, "date must be YYYY-MM-DD")
				return
			}
			day = d
		}

		res, err := pass.Run(r.Context(), day)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, res)
	}
}

func toReminderResponse(r Reminder) reminderResponse {
	return reminderResponse{
		ID:          r.ID,
		ClientID:    r.ClientID,
		Category:    r.Category,
		Title:       r.Title,
		Message:     r.Message,
		Link:        r.Link,
		TargetAt:    r.TargetAt,
		LeadDays:    r.LeadDays,
		Active:      r.Active,
		Sent:        r.Sent,
		SentAt:      r.SentAt,
		RelatedID:   r.RelatedID,
		RelatedKind: r.RelatedKind,
	}
}
