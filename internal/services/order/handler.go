package order

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/auth"
	"restaurant-api/internal/logger"
	"restaurant-api/internal/models"
)

// Handler serves the order administration endpoints. All routes sit
// behind the authentication requirement; the per-role rules live in the
// service and access layer.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates an order handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Orders handles GET on /orders/: the list is scoped to the caller's role.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
		return
	}
	user, _ := auth.UserFromContext(r.Context())

	orders, err := h.service.List(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	h.writeJSON(w, http.StatusOK, orders)
}

// OrderDetail handles GET, PATCH and DELETE on /orders/{id}/.
func (h *Handler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, r, apperror.NotFound("Order not found."))
		return
	}

	switch r.Method {
	case http.MethodGet:
		o, err := h.service.Get(r.Context(), user, id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, o)

	case http.MethodPatch:
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			h.writeError(w, r, apperror.Validation("Invalid JSON format"))
			return
		}
		o, err := h.service.Patch(r.Context(), user, id, &models.OrderPatch{Fields: fields})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.logger.Info("order_updated", "Order patched", logger.GenerateRequestID(), map[string]any{
			"order_id": id,
			"user_id":  user.ID,
		})
		h.writeJSON(w, http.StatusOK, o)

	case http.MethodDelete:
		if err := h.service.Delete(r.Context(), user, id); err != nil {
			h.writeError(w, r, err)
			return
		}
		h.logger.Info("order_deleted", "Order removed", logger.GenerateRequestID(), map[string]any{
			"order_id": id,
			"user_id":  user.ID,
		})
		w.WriteHeader(http.StatusNoContent)

	default:
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request_failed", "Unhandled order error", logger.GenerateRequestID(), err, map[string]any{
			"path": r.URL.Path,
		})
	}
	h.writeJSON(w, status, map[string]string{"detail": apperror.Detail(err)})
}
