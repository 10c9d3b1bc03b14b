package appointments

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vet-backoffice/internal/middleware"
	"vet-backoffice/internal/platform/httpx"
	"vet-backoffice/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

type petOwners interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners petOwners) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", bookHandler(svc, owners))
		ar.Get("/{appointmentID}", getHandler(svc, owners))
		ar.Post("/{appointmentID}/status", changeStatusHandler(svc, owners))
		ar.Post("/{appointmentID}/reschedule", rescheduleHandler(svc, owners))
	})

	r.Get("/pets/{petID}/appointments", listByPetHandler(svc, owners))
}

type bookRequest struct {
	PetID           string `json:"pet_id" validate:"required"`
	ScheduledAt     string `json:"scheduled_at" validate:"required"` // RFC3339
	Category        string `json:"category" validate:"required,oneof=consulta vacunacion desparasitacion urgencia cirugia estetica"`
	Priority        string `json:"priority" validate:"omitempty,oneof=normal urgent emergency"`
	Reason          string `json:"reason" validate:"required"`
	Symptoms        string `json:"symptoms"`
	Notes           string `json:"notes"`
	StaffID         string `json:"staff_id"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0,lte=480"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type rescheduleRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required"` // RFC3339
}

type appointmentResponse struct {
	ID              string    `json:"id"`
	PetID           string    `json:"pet_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Category        Category  `json:"category"`
	CategoryLabel   string    `json:"category_label"`
	Priority        Priority  `json:"priority"`
	Status          Status    `json:"status"`
	Channel         Channel   `json:"channel"`
	StaffID         string    `json:"staff_id,omitempty"`
	Reason          string    `json:"reason"`
	Symptoms        string    `json:"symptoms,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// bookHandler godoc
// @Summary Reservar cita
// @Description Reserva una cita para una mascota. Valida horario de atención, día de cierre, que sea futura y el horizonte máximo. Un cliente que reserva por autoservicio obtiene la cita ya confirmada.
// @Tags appointments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body bookRequest true "Datos de la cita; scheduled_at en RFC3339"
// @Success 201 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorResponse "regla violada en details[].rule"
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse "pet not found"
// @Router /appointments [post]
func bookHandler(svc *Service, owners petOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			httpx.BadRequest(w, "scheduled_at must be RFC3339")
			return
		}

		if !authorizePet(w, r, owners, req.PetID) {
			return
		}

		channel := ChannelStaff
		if claims, ok := middleware.GetClaims(r.Context()); ok && claims.Role == auth.RoleClient {
			channel = ChannelSelfService
		}

		a, err := svc.Book(r.Context(), middleware.Actor(r.Context()), BookInput{
			PetID:           req.PetID,
			ScheduledAt:     at,
			Category:        Category(req.Category),
			Priority:        Priority(req.Priority),
			Channel:         channel,
			StaffID:         req.StaffID,
			DurationMinutes: req.DurationMinutes,
			Reason:          req.Reason,
			Symptoms:        req.Symptoms,
			Notes:           req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

func getHandler(svc *Service, owners petOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !authorizePet(w, r, owners, a.PetID) {
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// changeStatusHandler godoc
// @Summary Cambiar estado de una cita
// @Description Aplica una transición del ciclo de vida. completed y cancelled son terminales.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Param payload body changeStatusRequest true "Nuevo estado"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorResponse "unknown status"
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse "invalid transition"
// @Router /appointments/{appointmentID}/status [post]
func changeStatusHandler(svc *Service, owners petOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "appointmentID")
		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !authorizePet(w, r, owners, current.PetID) {
			return
		}

		var req changeStatusRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		a, err := svc.ChangeStatus(r.Context(), id, Status(strings.TrimSpace(req.Status)), middleware.Actor(r.Context()))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func rescheduleHandler(svc *Service, owners petOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "appointmentID")
		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !authorizePet(w, r, owners, current.PetID) {
			return
		}

		var req rescheduleRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			httpx.BadRequest(w, "scheduled_at must be RFC3339")
			return
		}

		a, err := svc.Reschedule(r.Context(), id, at, middleware.Actor(r.Context()))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// listByPetHandler godoc
// @Summary Listar citas de una mascota
// @Tags appointments
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param status query string false "Estados separados por coma"
// @Param from query string false "RFC3339"
// @Param to query string false "RFC3339"
// @Param limit query int false "Máximo (1-200). Por defecto 50"
// @Success 200 {array} appointmentResponse
// @Router /pets/{petID}/appointments [get]
func listByPetHandler(svc *Service, owners petOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if !authorizePet(w, r, owners, petID) {
			return
		}

		q := r.URL.Query()
		var filter ListFilter
		if raw := strings.TrimSpace(q.Get("status")); raw != "" {
			for _, s := range strings.Split(raw, ",") {
				st := Status(strings.TrimSpace(s))
				if !st.Valid() {
					httpx.BadRequest(w, "unknown status: "+string(st))
					return
				}
				filter.Statuses = append(filter.Statuses, st)
			}
		}
		for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
			if raw := strings.TrimSpace(q.Get(key)); raw != "" {
				t, err := time.Parse(time.RFC3339, raw)
				if err != nil {
					httpx.BadRequest(w, key+" must be RFC3339")
					return
				}
				*dst = &t
			}
		}
		if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 200 {
				httpx.BadRequest(w, "limit must be between 1 and 200")
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListByPet(r.Context(), petID, filter)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// authorizePet escribe la respuesta de error y devuelve false si no hay acceso.
func authorizePet(w http.ResponseWriter, r *http.Request, owners petOwners, petID string) bool {
	clientID, err := owners.OwnerOf(r.Context(), petID)
	if err != nil {
		httpx.WriteError(w, err)
		return false
	}
	if !middleware.CanAccessClient(r.Context(), clientID) {
		httpx.Forbidden(w)
		return false
	}
	return true
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              a.ID,
		PetID:           a.PetID,
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Category:        a.Category,
		CategoryLabel:   a.Category.Label(),
		Priority:        a.Priority,
		Status:          a.Status,
		Channel:         a.Channel,
		StaffID:         a.StaffID,
		Reason:          a.Reason,
		Symptoms:        a.Symptoms,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
