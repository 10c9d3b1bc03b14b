package pets

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vet-backoffice/internal/middleware"
	"vet-backoffice/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
	})

	r.Get("/clients/{clientID}/pets", listClientPetsHandler(svc))
}

type createPetRequest struct {
	ClientID  string `json:"client_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Species   string `json:"species" validate:"required,oneof=dog cat bird rabbit other"`
	Breed     string `json:"breed"`
	Sex       string `json:"sex" validate:"omitempty,oneof=male female unknown"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD opcional
	Microchip string `json:"microchip"`
	Notes     string `json:"notes"`
}

type petResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	Species   Species   `json:"species"`
	Breed     string    `json:"breed"`
	Sex       Sex       `json:"sex"`
	BirthDate *string   `json:"birth_date,omitempty"`
	Microchip string    `json:"microchip,omitempty"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string `json:"name"`
	Species   *string `json:"species"`
	Breed     *string `json:"breed"`
	Sex       *string `json:"sex"`
	Microchip *string `json:"microchip"`
	Notes     *string `json:"notes"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Registra una mascota para un cliente. Si trae fecha de nacimiento, queda considerada por el generador de cumpleaños.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse "client not found"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !middleware.CanAccessClient(r.Context(), req.ClientID) {
			httpx.Forbidden(w)
			return
		}

		var bd *time.Time
		if req.BirthDate != "" {
			t, _ := time.Parse("2006-01-02", req.BirthDate)
			bd = &t
		}

		p, err := svc.Create(r.Context(), middleware.Actor(r.Context()), CreateInput{
			ClientID:  req.ClientID,
			Name:      req.Name,
			Species:   Species(req.Species),
			Breed:     req.Breed,
			Sex:       Sex(req.Sex),
			BirthDate: bd,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !middleware.CanAccessClient(r.Context(), p.ClientID) {
			httpx.Forbidden(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar perfil de mascota
// @Description PATCH parcial. `birth_date: null` limpia la fecha de nacimiento.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		current, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !middleware.CanAccessClient(r.Context(), current.ClientID) {
			httpx.Forbidden(w)
			return
		}

		// Para soportar birth_date: null decodificamos primero a map y detectamos presencia.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			httpx.BadRequest(w, "invalid json")
			return
		}

		bd := PatchBirthDate{}
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			delete(raw, "birth_date")
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					httpx.BadRequest(w, "birth_date must be YYYY-MM-DD or null")
					return
				}
				t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
				if err != nil {
					httpx.BadRequest(w, "birth_date must be YYYY-MM-DD or null")
					return
				}
				bd.Value = &t
			}
		}

		var req updatePetRequest
		b, _ := json.Marshal(raw)
		if err := json.Unmarshal(b, &req); err != nil {
			httpx.BadRequest(w, "invalid json")
			return
		}

		in := UpdateProfileInput{
			Name:      req.Name,
			Breed:     req.Breed,
			BirthDate: bd,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		}
		if req.Species != nil {
			sp := Species(*req.Species)
			in.Species = &sp
		}
		if req.Sex != nil {
			sx := Sex(*req.Sex)
			in.Sex = &sx
		}

		updated, err := svc.UpdateProfile(r.Context(), petID, in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func listClientPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientID")
		if !middleware.CanAccessClient(r.Context(), clientID) {
			httpx.Forbidden(w)
			return
		}

		items, err := svc.ListByClient(r.Context(), clientID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toPetResponse(p Pet) petResponse {
	out := petResponse{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Sex:       p.Sex,
		Microchip: p.Microchip,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if bd, ok := p.Birthday(); ok {
		s := bd.String()
		out.BirthDate = &s
	}
	return out
}
