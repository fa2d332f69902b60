package graph

import (
	"context"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-api/internal/models"
)

type fakeStore struct {
	orders     []OrderRecord
	orderItems []models.OrderItem
	menuItems  []models.MenuItem
	categories []models.Category
	cartItems  []models.CartLine
}

func (f *fakeStore) Orders(context.Context) ([]OrderRecord, error)          { return f.orders, nil }
func (f *fakeStore) OrderItems(context.Context) ([]models.OrderItem, error) { return f.orderItems, nil }
func (f *fakeStore) MenuItems(context.Context) ([]models.MenuItem, error)   { return f.menuItems, nil }
func (f *fakeStore) Categories(context.Context) ([]models.Category, error)  { return f.categories, nil }
func (f *fakeStore) CartItems(context.Context) ([]models.CartLine, error)   { return f.cartItems, nil }

func run(t *testing.T, store Store, query string) map[string]any {
	t.Helper()
	schema, err := NewSchema(store)
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       context.Background(),
	})
	require.Empty(t, result.Errors)
	return result.Data.(map[string]any)
}

func TestOrdersQuery(t *testing.T) {
	crewID := int64(7)
	crewName := "courier"
	store := &fakeStore{
		orders: []OrderRecord{
			{
				Order: models.Order{
					ID:             1,
					UserID:         3,
					DeliveryCrewID: &crewID,
					Status:         true,
					Total:          decimal.RequireFromString("25.00"),
					Date:           time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				},
				DeliveryCrewUsername: &crewName,
			},
			{
				Order: models.Order{
					ID:     2,
					UserID: 4,
					Total:  decimal.RequireFromString("9.50"),
					Date:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	data := run(t, store, `{
		orders { id userId status total date deliveryCrewUsername }
	}`)

	orders := data["orders"].([]any)
	require.Len(t, orders, 2)

	first := orders[0].(map[string]any)
	assert.Equal(t, 1, first["id"])
	assert.Equal(t, 3, first["userId"])
	assert.Equal(t, true, first["status"])
	assert.Equal(t, "25.00", first["total"])
	assert.Equal(t, "2024-05-01", first["date"])
	assert.Equal(t, "courier", first["deliveryCrewUsername"])

	second := orders[1].(map[string]any)
	assert.Equal(t, "No delivery crew assigned", second["deliveryCrewUsername"])
}

func TestMenuItemsQuery(t *testing.T) {
	inv := 12
	store := &fakeStore{
		menuItems: []models.MenuItem{
			{
				ID:        5,
				Title:     "Pizza",
				Price:     decimal.RequireFromString("12.5"),
				Inventory: &inv,
				Featured:  true,
				Category:  &models.Category{ID: 1, Slug: "mains", Title: "Mains"},
			},
		},
	}

	data := run(t, store, `{
		menuItems { id title price inventory featured category { slug } }
	}`)

	items := data["menuItems"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Pizza", item["title"])
	assert.Equal(t, "12.50", item["price"], "price renders with two decimals")
	assert.Equal(t, 12, item["inventory"])
	assert.Equal(t, true, item["featured"])
	assert.Equal(t, "mains", item["category"].(map[string]any)["slug"])
}

func TestCartAndOrderItemsQuery(t *testing.T) {
	store := &fakeStore{
		cartItems: []models.CartLine{
			{ID: 1, UserID: 3, MenuItemID: 5, UnitPrice: decimal.RequireFromString("4.25"), Quantity: 2},
		},
		orderItems: []models.OrderItem{
			{ID: 1, OrderID: 1, MenuItemID: 5, Quantity: 2},
		},
	}

	data := run(t, store, `{
		cartItems { id userId menuitemId quantity unitPrice }
		orderItems { id orderId menuitemId quantity }
	}`)

	cart := data["cartItems"].([]any)[0].(map[string]any)
	assert.Equal(t, 3, cart["userId"])
	assert.Equal(t, 5, cart["menuitemId"])
	assert.Equal(t, "4.25", cart["unitPrice"])

	item := data["orderItems"].([]any)[0].(map[string]any)
	assert.Equal(t, 1, item["orderId"])
	assert.Equal(t, 5, item["menuitemId"])
}

func TestCategoriesQuery(t *testing.T) {
	store := &fakeStore{
		categories: []models.Category{{ID: 2, Slug: "desserts", Title: "Desserts"}},
	}

	data := run(t, store, `{ categories { id slug title } }`)

	categories := data["categories"].([]any)
	require.Len(t, categories, 1)
	assert.Equal(t, "desserts", categories[0].(map[string]any)["slug"])
}
