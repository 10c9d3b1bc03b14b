package vaccines

import (
	"context"
	"net/http"
	"time"

	"vet-backoffice/internal/domain/pets"
	"vet-backoffice/internal/middleware"
	"vet-backoffice/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/golang-sql/civil"
)

type petOwners interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

var _ petOwners = (*pets.Service)(nil)

func RegisterRoutes(r chi.Router, svc *Service, owners petOwners) {
	r.Route("/pets/{petID}/vaccines", func(vr chi.Router) {
		vr.Post("/", recordVaccineHandler(svc, owners))
		vr.Get("/", listVaccinesHandler(svc, owners))
	})
}

// recordVaccineRequest es el cuerpo para registrar una vacuna aplicada.
type recordVaccineRequest struct {
	Name       string `json:"name" validate:"required"`
	Batch      string `json:"batch"`
	AppliedOn  string `json:"applied_on" validate:"required,datetime=2006-01-02"`
	NextDoseOn string `json:"next_dose_on" validate:"omitempty,datetime=2006-01-02"`
	StaffID    string `json:"staff_id"`
	Notes      string `json:"notes"`
}

type vaccineResponse struct {
	ID         string    `json:"id"`
	PetID      string    `json:"pet_id"`
	Name       string    `json:"name"`
	Batch      string    `json:"batch,omitempty"`
	AppliedOn  string    `json:"applied_on"`
	NextDoseOn *string   `json:"next_dose_on,omitempty"`
	StaffID    string    `json:"staff_id,omitempty"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// recordVaccineHandler godoc
// @Summary Registrar vacuna
// @Description Registra una vacuna aplicada. Si trae próxima dosis con más de un día de margen, se arma un recordatorio para el dueño.
// @Tags vaccines
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body recordVaccineRequest true "Vacuna; fechas en formato YYYY-MM-DD"
// @Success 201 {object} vaccineResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse "pet not found"
// @Router /pets/{petID}/vaccines [post]
func recordVaccineHandler(svc *Service, owners petOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		clientID, err := owners.OwnerOf(r.Context(), petID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !middleware.CanAccessClient(r.Context(), clientID) {
			httpx.Forbidden(w)
			return
		}

		var req recordVaccineRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		// El formato ya lo garantizó el validator.
		applied, _ := civil.ParseDate(req.AppliedOn)
		in := RecordInput{
			Name:      req.Name,
			Batch:     req.Batch,
			AppliedOn: applied,
			StaffID:   req.StaffID,
			Notes:     req.Notes,
		}
		if req.NextDoseOn != "" {
			next, _ := civil.ParseDate(req.NextDoseOn)
			in.NextDoseOn = &next
		}

		v, err := svc.Record(r.Context(), petID, middleware.Actor(r.Context()), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toVaccineResponse(v))
	}
}

func listVaccinesHandler(svc *Service, owners petOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		clientID, err := owners.OwnerOf(r.Context(), petID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !middleware.CanAccessClient(r.Context(), clientID) {
			httpx.Forbidden(w)
			return
		}

		items, err := svc.ListByPet(r.Context(), petID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]vaccineResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVaccineResponse(v))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toVaccineResponse(v Vaccine) vaccineResponse {
	out := vaccineResponse{
		ID:        v.ID,
		PetID:     v.PetID,
		Name:      v.Name,
		Batch:     v.Batch,
		AppliedOn: civil.DateOf(v.AppliedOn.UTC()).String(),
		StaffID:   v.StaffID,
		Notes:     v.Notes,
		CreatedAt: v.CreatedAt,
	}
	if next, ok := v.NextDose(); ok {
		s := next.String()
		out.NextDoseOn = &s
	}
	return out
}
