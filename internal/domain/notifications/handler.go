package notifications

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"vet-backoffice/internal/middleware"
	"vet-backoffice/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	inbox := func(kind RecipientKind, param string) func(chi.Router) {
		return func(ir chi.Router) {
			ir.Get("/", listHandler(svc, kind, param))
			ir.Get("/unread-count", unreadCountHandler(svc, kind, param))
			ir.Post("/read-all", markAllReadHandler(svc, kind, param))
		}
	}
	r.Route("/clients/{clientID}/notifications", inbox(RecipientClient, "clientID"))
	r.Route("/staff/{staffID}/notifications", inbox(RecipientStaff, "staffID"))

	r.Post("/notifications/{notificationID}/read", markReadHandler(svc))
	r.Post("/notifications/broadcast", broadcastHandler(svc))
}

type notificationResponse struct {
	ID            string        `json:"id"`
	RecipientKind RecipientKind `json:"recipient_kind"`
	RecipientID   string        `json:"recipient_id"`
	Category      Category      `json:"category"`
	Priority      Priority      `json:"priority"`
	Title         string        `json:"title"`
	Message       string        `json:"message"`
	Link          string        `json:"link,omitempty"`
	RelatedID     string        `json:"related_id,omitempty"`
	RelatedKind   string        `json:"related_kind,omitempty"`
	Read          bool          `json:"read"`
	ReadAt        *time.Time    `json:"read_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type broadcastRequest struct {
	Audience string `json:"audience" validate:"required,oneof=single_client all_clients admins"`
	ClientID string `json:"client_id" validate:"required_if=Audience single_client"`
	Category string `json:"category" validate:"omitempty,oneof=general appointment vaccine deworming medication emergency system birthday checkup"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Title    string `json:"title" validate:"required,max=200"`
	Message  string `json:"message" validate:"required"`
	Link     string `json:"link"`
}

type broadcastResponse struct {
	Delivered int `json:"delivered"`
}

type unreadCountResponse struct {
	Unread int `json:"unread"`
}

// listHandler godoc
// @Summary Bandeja de notificaciones
// @Description Lista las notificaciones del destinatario, más recientes primero.
// @Tags notifications
// @Produce json
// @Param clientID path string true "ID del cliente"
// @Param unread query bool false "Solo no leídas"
// @Param limit query int false "Máximo (1-200). Por defecto 50"
// @Success 200 {array} notificationResponse
// @Router /clients/{clientID}/notifications [get]
func listHandler(svc *Service, kind RecipientKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rcp, ok := recipientFrom(w, r, kind, param)
		if !ok {
			return
		}

		var filter ListFilter
		q := r.URL.Query()
		if raw := strings.TrimSpace(q.Get("unread")); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				httpx.BadRequest(w, "unread must be a boolean")
				return
			}
			filter.UnreadOnly = b
		}
		if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 200 {
				httpx.BadRequest(w, "limit must be between 1 and 200")
				return
			}
			filter.Limit = n
		}

		items, err := svc.List(r.Context(), rcp, filter)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(n))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func unreadCountHandler(svc *Service, kind RecipientKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rcp, ok := recipientFrom(w, r, kind, param)
		if !ok {
			return
		}
		n, err := svc.CountUnread(r.Context(), rcp)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, unreadCountResponse{Unread: n})
	}
}

func markAllReadHandler(svc *Service, kind RecipientKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rcp, ok := recipientFrom(w, r, kind, param)
		if !ok {
			return
		}
		n, err := svc.MarkAllRead(r.Context(), rcp)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]int{"marked": n})
	}
}

// markReadHandler godoc
// @Summary Marcar notificación como leída
// @Description Idempotente: una notificación ya leída no cambia.
// @Tags notifications
// @Produce json
// @Param notificationID path string true "ID de la notificación"
// @Success 200 {object} notificationResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /notifications/{notificationID}/read [post]
func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "notificationID")
		n, err := svc.GetByID(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !canRead(r, n.Recipient) {
			httpx.Forbidden(w)
			return
		}
		if err := svc.MarkRead(r.Context(), id); err != nil {
			httpx.WriteError(w, err)
			return
		}
		n, err = svc.GetByID(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toNotificationResponse(n))
	}
}

// broadcastHandler godoc
// @Summary Publicar notificación
// @Description Solo personal. Materializa una fila por destinatario al momento de publicar.
// @Tags notifications
// @Accept json
// @Produce json
// @Param payload body broadcastRequest true "Audiencia y contenido"
// @Success 201 {object} broadcastResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /notifications/broadcast [post]
func broadcastHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if !claims.IsStaff() {
			httpx.Forbidden(w)
			return
		}

		var req broadcastRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		cat := Category(req.Category)
		if cat == "" {
			cat = CategoryGeneral
		}
		out, err := svc.Publish(r.Context(), Draft{
			Audience: Audience{Kind: AudienceKind(req.Audience), ClientID: req.ClientID},
			Category: cat,
			Priority: Priority(req.Priority),
			Title:    req.Title,
			Message:  req.Message,
			Link:     req.Link,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, broadcastResponse{Delivered: len(out)})
	}
}

func recipientFrom(w http.ResponseWriter, r *http.Request, kind RecipientKind, param string) (Recipient, bool) {
	rcp := Recipient{Kind: kind, ID: chi.URLParam(r, param)}
	if !canRead(r, rcp) {
		httpx.Forbidden(w)
		return Recipient{}, false
	}
	return rcp, true
}

// canRead: un cliente solo accede a su bandeja; el personal a la propia y a la de clientes.
func canRead(r *http.Request, rcp Recipient) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		return false
	}
	if rcp.Kind == RecipientClient {
		return middleware.CanAccessClient(r.Context(), rcp.ID)
	}
	return claims.IsStaff()
}

func toNotificationResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:            n.ID,
		RecipientKind: n.Recipient.Kind,
		RecipientID:   n.Recipient.ID,
		Category:      n.Category,
		Priority:      n.Priority,
		Title:         n.Title,
		Message:       n.Message,
		Link:          n.Link,
		RelatedID:     n.RelatedID,
		RelatedKind:   n.RelatedKind,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}
