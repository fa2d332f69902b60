// Package graph exposes a read-only GraphQL view over the same entities
// the REST endpoints serve. It carries no mutations.
package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"restaurant-api/internal/models"
)

// OrderRecord is an order with its delivery crew's username preloaded so
// the resolver never goes back to storage per row.
type OrderRecord struct {
	models.Order
	DeliveryCrewUsername *string
}

// Store is the read surface the schema resolves against.
type Store interface {
	Orders(ctx context.Context) ([]OrderRecord, error)
	OrderItems(ctx context.Context) ([]models.OrderItem, error)
	MenuItems(ctx context.Context) ([]models.MenuItem, error)
	Categories(ctx context.Context) ([]models.Category, error)
	CartItems(ctx context.Context) ([]models.CartLine, error)
}

const noCrewAssigned = "No delivery crew assigned"

// NewSchema builds the query schema over the given store.
func NewSchema(store Store) (graphql.Schema, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.Int},
			"slug":  &graphql.Field{Type: graphql.String},
			"title": &graphql.Field{Type: graphql.String},
		},
	})

	menuItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MenuItem",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.Int},
			"title": &graphql.Field{Type: graphql.String},
			"price": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.MenuItem).Price.StringFixed(2), nil
				},
			},
			"inventory": &graphql.Field{Type: graphql.Int},
			"featured":  &graphql.Field{Type: graphql.Boolean},
			"category":  &graphql.Field{Type: categoryType},
		},
	})

	cartItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CartItem",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.Int},
			"userId": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.CartLine).UserID, nil
				},
			},
			"menuitemId": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.CartLine).MenuItemID, nil
				},
			},
			"quantity": &graphql.Field{Type: graphql.Int},
			"unitPrice": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.CartLine).UnitPrice.StringFixed(2), nil
				},
			},
		},
	})

	orderItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.Int},
			"orderId": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.OrderItem).OrderID, nil
				},
			},
			"menuitemId": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.OrderItem).MenuItemID, nil
				},
			},
			"quantity": &graphql.Field{Type: graphql.Int},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(OrderRecord).ID, nil
				},
			},
			"userId": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(OrderRecord).UserID, nil
				},
			},
			"status": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(OrderRecord).Status, nil
				},
			},
			"total": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(OrderRecord).Total.StringFixed(2), nil
				},
			},
			"date": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(OrderRecord).Date.Format("2006-01-02"), nil
				},
			},
			"deliveryCrewId": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if id := p.Source.(OrderRecord).DeliveryCrewID; id != nil {
						return *id, nil
					}
					return nil, nil
				},
			},
			"deliveryCrewUsername": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if name := p.Source.(OrderRecord).DeliveryCrewUsername; name != nil {
						return *name, nil
					}
					return noCrewAssigned, nil
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return store.Orders(p.Context)
				},
			},
			"menuItems": &graphql.Field{
				Type: graphql.NewList(menuItemType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return store.MenuItems(p.Context)
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return store.Categories(p.Context)
				},
			},
			"cartItems": &graphql.Field{
				Type: graphql.NewList(cartItemType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return store.CartItems(p.Context)
				},
			},
			"orderItems": &graphql.Field{
				Type: graphql.NewList(orderItemType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return store.OrderItems(p.Context)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}
