package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/auth"
	"restaurant-api/internal/logger"
	"restaurant-api/internal/models"
)

// Handler serves the menu item and category endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// MenuItems handles GET (anyone) and POST (managers) on /menu-items/.
func (h *Handler) MenuItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := filterFromQuery(r)
		items, err := h.service.ListMenuItems(r.Context(), filter)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		user, ok := auth.UserFromContext(r.Context())
		if !ok || !user.IsManager() {
			h.writeError(w, r, apperror.Forbidden("managers only."))
			return
		}
		var req models.MenuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.Validation("Invalid JSON format"))
			return
		}
		item, err := h.service.CreateMenuItem(r.Context(), &req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, item)

	default:
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
	}
}

// MenuItemDetail handles GET (anyone) and PUT/PATCH/DELETE (staff) on
// /menu-items/{id}/.
func (h *Handler) MenuItemDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, r, apperror.NotFound("Menu item not found."))
		return
	}

	if r.Method != http.MethodGet {
		user, ok := auth.UserFromContext(r.Context())
		if !ok || !user.IsStaff {
			h.writeError(w, r, apperror.Forbidden("Admin only."))
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		item, err := h.service.GetMenuItem(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, item)

	case http.MethodPut, http.MethodPatch:
		var req models.MenuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.Validation("Invalid JSON format"))
			return
		}
		item, err := h.service.UpdateMenuItem(r.Context(), id, &req, r.Method == http.MethodPatch)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, item)

	case http.MethodDelete:
		if err := h.service.DeleteMenuItem(r.Context(), id); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
	}
}

// Featured handles GET (anyone) and POST (staff) on /menu-items/featured/.
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		item, err := h.service.Featured(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, item)

	case http.MethodPost:
		user, ok := auth.UserFromContext(r.Context())
		if !ok || !user.IsStaff {
			h.writeError(w, r, apperror.Forbidden("Admin only."))
			return
		}
		var body struct {
			ItemID int64 `json:"item_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ItemID == 0 {
			h.writeError(w, r, apperror.Validation("Item ID is required."))
			return
		}
		item, err := h.service.SetFeatured(r.Context(), body.ItemID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.logger.Info("featured_changed", "Featured menu item changed", logger.GenerateRequestID(), map[string]any{
			"item_id":    item.ID,
			"changed_by": user.Username,
		})
		h.writeJSON(w, http.StatusOK, item)

	default:
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
	}
}

// Categories handles GET (anyone) and POST (managers) on /categories/.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := h.service.ListCategories(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, categories)

	case http.MethodPost:
		if err := h.requireManager(r); err != nil {
			h.writeError(w, r, err)
			return
		}
		var req models.CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.Validation("Invalid JSON format"))
			return
		}
		c, err := h.service.CreateCategory(r.Context(), &req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, c)

	default:
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
	}
}

// CategoryDetail handles GET (anyone) and PUT/PATCH/DELETE (managers) on
// /categories/{id}/.
func (h *Handler) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, r, apperror.NotFound("Category not found."))
		return
	}

	if r.Method != http.MethodGet {
		if err := h.requireManager(r); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.service.GetCategory(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, c)

	case http.MethodPut, http.MethodPatch:
		var req models.CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.Validation("Invalid JSON format"))
			return
		}
		c, err := h.service.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		if err := h.service.DeleteCategory(r.Context(), id); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		h.writeError(w, r, apperror.MethodNotAllowed(r.Method))
	}
}

// Category mutations distinguish missing identity (401) from a known
// non-manager (403).
func (h *Handler) requireManager(r *http.Request) error {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return apperror.Unauthorized("Authentication credentials were not provided.")
	}
	if !user.IsManager() {
		return apperror.Forbidden("managers only.")
	}
	return nil
}

func filterFromQuery(r *http.Request) *models.MenuItemFilter {
	q := r.URL.Query()
	filter := &models.MenuItemFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if v := q.Get("to_price"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.ToPrice = &price
		}
	}
	if v := q.Get("ordering"); v != "" {
		filter.Ordering = strings.Split(v, ",")
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PerPage, _ = strconv.Atoi(q.Get("perpage"))
	return filter
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request_failed", "Unhandled catalog error", logger.GenerateRequestID(), err, map[string]any{
			"path": r.URL.Path,
		})
	}
	h.writeJSON(w, status, map[string]string{"detail": apperror.Detail(err)})
}
