package rating

import (
	"encoding/json"
	"net/http"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/auth"
	"restaurant-api/internal/logger"
	"restaurant-api/internal/models"
)

// Handler serves the ratings endpoint. The route sits behind the
// authentication requirement.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a ratings handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Ratings handles GET (list own) and POST (create) on /ratings/.
func (h *Handler) Ratings(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		ratings, err := h.service.List(r.Context(), user)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, ratings)

	case http.MethodPost:
		var req models.RatingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.Validation("Invalid JSON format"))
			return
		}
		rating, err := h.service.Create(r.Context(), user, &req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, rating)

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
		h.logger.Error("request_failed", "Unhandled rating error", logger.GenerateRequestID(), err, map[string]any{
			"path": r.URL.Path,
		})
	}
	h.writeJSON(w, status, map[string]string{"detail": apperror.Detail(err)})
}
