package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/models"
)

type fakeOrderRepo struct {
	orders map[int64]*models.Order
	roles  map[int64][]models.Role

	deleted []int64
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{
		orders: make(map[int64]*models.Order),
		roles:  make(map[int64][]models.Role),
	}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (f *fakeOrderRepo) ListAll(context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByOwner(_ context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByCrew(_ context.Context, crewID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.DeliveryCrewID != nil && *o.DeliveryCrewID == crewID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperror.NotFound("Order not found.")
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderRepo) UpdateDeliveryCrew(_ context.Context, orderID, crewID int64) error {
	o, ok := f.orders[orderID]
	if !ok {
		return apperror.NotFound("Order not found.")
	}
	o.DeliveryCrewID = &crewID
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, orderID int64, status bool) error {
	o, ok := f.orders[orderID]
	if !ok {
		return apperror.NotFound("Order not found.")
	}
	o.Status = status
	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return apperror.NotFound("Order not found.")
	}
	delete(f.orders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeOrderRepo) HasRole(_ context.Context, userID int64, role models.Role) (bool, error) {
	for _, r := range f.roles[userID] {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

// manager and courier come from the access tests.
var (
	alice    = &models.User{ID: 30, Username: "alice"}
	bob      = &models.User{ID: 31, Username: "bob"}
	courier2 = int64(9)
)

func seed() *fakeOrderRepo {
	repo := newFakeOrderRepo(
		&models.Order{ID: 10, UserID: alice.ID, DeliveryCrewID: &courier.ID},
		&models.Order{ID: 11, UserID: bob.ID},
	)
	repo.roles[courier.ID] = []models.Role{models.RoleDelivery}
	repo.roles[courier2] = []models.Role{models.RoleDelivery}
	return repo
}

func TestListScoping(t *testing.T) {
	repo := seed()
	svc := NewService(repo)
	ctx := context.Background()

	all, err := svc.List(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, all, 2, "manager sees every order")

	assigned, err := svc.List(ctx, courier)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, int64(10), assigned[0].ID)

	own, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, int64(10), own[0].ID)
}

func TestGetOwnerAndManager(t *testing.T) {
	svc := NewService(seed())
	ctx := context.Background()

	o, err := svc.Get(ctx, alice, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), o.ID)

	_, err = svc.Get(ctx, manager, 11)
	require.NoError(t, err)
}

func TestGetForbiddenForOthers(t *testing.T) {
	svc := NewService(seed())
	ctx := context.Background()

	// Couriers read orders through the list, never one by one.
	_, err := svc.Get(ctx, courier, 10)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.StatusCode(err))
	assert.Equal(t, "You do not have permission to view this order.", apperror.Detail(err))

	_, err = svc.Get(ctx, bob, 10)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.StatusCode(err))
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(seed())

	_, err := svc.Get(context.Background(), manager, 999)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.StatusCode(err))
}

func TestPatchManagerAssignsCrew(t *testing.T) {
	repo := seed()
	svc := NewService(repo)

	o, err := svc.Patch(context.Background(), manager, 11, &models.OrderPatch{
		Fields: map[string]any{"delivery_crew": float64(courier2)},
	})
	require.NoError(t, err)
	require.NotNil(t, o.DeliveryCrewID)
	assert.Equal(t, courier2, *o.DeliveryCrewID)
	assert.Equal(t, courier2, *repo.orders[11].DeliveryCrewID)
}

func TestPatchRejectsNonDeliveryCrewID(t *testing.T) {
	svc := NewService(seed())

	_, err := svc.Patch(context.Background(), manager, 11, &models.OrderPatch{
		Fields: map[string]any{"delivery_crew": float64(alice.ID)},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusCode(err))
	assert.Equal(t, "delivery_crew must be a delivery user", apperror.Detail(err))
}

func TestPatchCourierFlipsStatus(t *testing.T) {
	repo := seed()
	svc := NewService(repo)

	o, err := svc.Patch(context.Background(), courier, 10, &models.OrderPatch{
		Fields: map[string]any{"status": true},
	})
	require.NoError(t, err)
	assert.True(t, o.Status)
	assert.True(t, repo.orders[10].Status)
}

func TestPatchStatusAcceptsNumericForm(t *testing.T) {
	repo := seed()
	svc := NewService(repo)

	o, err := svc.Patch(context.Background(), courier, 10, &models.OrderPatch{
		Fields: map[string]any{"status": float64(1)},
	})
	require.NoError(t, err)
	assert.True(t, o.Status)
}

func TestPatchFieldRules(t *testing.T) {
	svc := NewService(seed())
	ctx := context.Background()

	_, err := svc.Patch(ctx, courier, 10, &models.OrderPatch{
		Fields: map[string]any{"delivery_crew": float64(courier2)},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusCode(err))

	_, err = svc.Patch(ctx, manager, 10, &models.OrderPatch{
		Fields: map[string]any{"status": true},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusCode(err))

	_, err = svc.Patch(ctx, alice, 10, &models.OrderPatch{
		Fields: map[string]any{"status": true},
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperror.StatusCode(err))
}

func TestPatchTotalNeverChanges(t *testing.T) {
	repo := seed()
	svc := NewService(repo)

	_, err := svc.Patch(context.Background(), courier, 10, &models.OrderPatch{
		Fields: map[string]any{"total": "99.99"},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusCode(err))
}

func TestDeleteManagerOnly(t *testing.T) {
	repo := seed()
	svc := NewService(repo)
	ctx := context.Background()

	err := svc.Delete(ctx, alice, 10)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.StatusCode(err))
	assert.Equal(t, "You do not have permission to delete orders.", apperror.Detail(err))

	err = svc.Delete(ctx, courier, 10)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.StatusCode(err))

	require.NoError(t, svc.Delete(ctx, manager, 10))
	assert.Equal(t, []int64{10}, repo.deleted)
}

func TestDeleteNotFound(t *testing.T) {
	svc := NewService(seed())

	err := svc.Delete(context.Background(), manager, 999)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.StatusCode(err))
}
