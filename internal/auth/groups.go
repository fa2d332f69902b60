package auth

import (
	"encoding/json"
	"net/http"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/logger"
	"restaurant-api/internal/models"
)

// GroupsHandler serves the manager group membership endpoints.
type GroupsHandler struct {
	store  Store
	logger *logger.Logger
}

// NewGroupsHandler creates a groups handler.
func NewGroupsHandler(store Store, log *logger.Logger) *GroupsHandler {
	return &GroupsHandler{store: store, logger: log}
}

// Managers handles GET and POST on /groups/manager/users/. Managers can
// list the group; only staff can grow it.
func (h *GroupsHandler) Managers(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		if !user.IsManager() {
			h.writeError(w, apperror.Forbidden("managers only."))
			return
		}
		members, err := h.store.GroupMembers(r.Context(), models.RoleManager)
		if err != nil {
			h.writeError(w, err)
			return
		}
		out := make([]map[string]any, 0, len(members))
		for _, m := range members {
			out = append(out, map[string]any{"id": m.ID, "username": m.Username})
		}
		h.writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		if !user.IsStaff {
			h.writeError(w, apperror.Forbidden("Only 'staff' users can add managers."))
			return
		}
		var body struct {
			Username string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
			h.writeError(w, apperror.Validation("Username is required."))
			return
		}
		target, err := h.store.UserByUsername(r.Context(), body.Username)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if err := h.store.AddToGroup(r.Context(), target.ID, models.RoleManager); err != nil {
			h.writeError(w, err)
			return
		}
		h.logger.Info("manager_added", "User added to manager group", logger.GenerateRequestID(), map[string]any{
			"username": target.Username,
			"added_by": user.Username,
		})
		h.writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})

	default:
		h.writeError(w, apperror.MethodNotAllowed(r.Method))
	}
}

func (h *GroupsHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *GroupsHandler) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, apperror.StatusCode(err), map[string]string{"detail": apperror.Detail(err)})
}
