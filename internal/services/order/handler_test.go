package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-api/internal/auth"
	"restaurant-api/internal/logger"
	"restaurant-api/internal/models"
)

func newTestRouter(repo Repository) *chi.Mux {
	h := NewHandler(NewService(repo), logger.New("test"))
	r := chi.NewRouter()
	r.HandleFunc("/orders/", h.Orders)
	r.HandleFunc("/orders/{id}/", h.OrderDetail)
	return r
}

func doRequest(t *testing.T, router http.Handler, user *models.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOrdersListScopedByRole(t *testing.T) {
	router := newTestRouter(seed())

	rec := doRequest(t, router, manager, http.MethodGet, "/orders/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)

	rec = doRequest(t, router, alice, http.MethodGet, "/orders/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}

func TestOrdersListRejectsPost(t *testing.T) {
	router := newTestRouter(seed())

	rec := doRequest(t, router, manager, http.MethodPost, "/orders/", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestOrderDetailOwner(t *testing.T) {
	router := newTestRouter(seed())

	rec := doRequest(t, router, alice, http.MethodGet, "/orders/10/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var o models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, int64(10), o.ID)
}

func TestOrderDetailForbiddenBody(t *testing.T) {
	router := newTestRouter(seed())

	rec := doRequest(t, router, bob, http.MethodGet, "/orders/10/", "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "You do not have permission to view this order.", body["detail"])
}

func TestOrderDetailPatchDeliveryCrew(t *testing.T) {
	repo := seed()
	router := newTestRouter(repo)

	rec := doRequest(t, router, manager, http.MethodPatch, "/orders/11/", `{"delivery_crew": 9}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.orders[11].DeliveryCrewID)
	assert.Equal(t, int64(9), *repo.orders[11].DeliveryCrewID)
}

func TestOrderDetailPatchRejectsBadJSON(t *testing.T) {
	router := newTestRouter(seed())

	rec := doRequest(t, router, manager, http.MethodPatch, "/orders/11/", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderDetailDelete(t *testing.T) {
	repo := seed()
	router := newTestRouter(repo)

	rec := doRequest(t, router, manager, http.MethodDelete, "/orders/10/", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, repo.orders, int64(10))

	rec = doRequest(t, router, alice, http.MethodDelete, "/orders/11/", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderDetailUnknownVerb(t *testing.T) {
	router := newTestRouter(seed())

	rec := doRequest(t, router, manager, http.MethodPut, "/orders/10/", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
