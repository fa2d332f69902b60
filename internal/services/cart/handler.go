package cart

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

// Handler serves the cart and checkout endpoints. Every route here sits
// behind the authentication requirement.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a cart handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// CartItems handles GET (list), POST (add or update) and DELETE (clear)
// on /cart-items/.
func (h *Handler) CartItems(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		lines, err := h.service.List(r.Context(), user)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, lines)

	case http.MethodPost:
		var req models.CartLineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.Validation("Invalid JSON format"))
			return
		}
		line, err := h.service.Add(r.Context(), user, &req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, line)

	case http.MethodDelete:
		if err := h.service.Clear(r.Context(), user); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
	}
}

// CartItemDetail handles GET, PUT, PATCH and DELETE on /cart-items/{id}/.
// Lines belonging to other users read as 404.
func (h *Handler) CartItemDetail(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, r, apperror.NotFound("Cart item not found."))
		return
	}

	switch r.Method {
	case http.MethodGet:
		line, err := h.service.Get(r.Context(), user, id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, line)

	case http.MethodPut, http.MethodPatch:
		var req models.CartLineUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.Validation("Invalid JSON format"))
			return
		}
		line, err := h.service.UpdateQuantity(r.Context(), user, id, &req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, line)

	case http.MethodDelete:
		if err := h.service.Remove(r.Context(), user, id); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
	}
}

// Checkout handles POST on /cart-items/checkout/.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
		return
	}
	requestID := logger.GenerateRequestID()
	user, _ := auth.UserFromContext(r.Context())

	resp, err := h.service.Checkout(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("order_created", "Cart checked out", requestID, map[string]any{
		"order_id": resp.OrderID,
		"user_id":  user.ID,
	})
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request_failed", "Unhandled cart error", logger.GenerateRequestID(), err, map[string]any{
			"path": r.URL.Path,
		})
	}
	h.writeJSON(w, status, map[string]string{"detail": apperror.Detail(err)})
}
