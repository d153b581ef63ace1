package usecase_test

import (
	"context"
	"math"
	"net/http"
	"testing"

	"ekathu/internal/domain/model"
	"ekathu/internal/infra/memory"
	"ekathu/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreate_PlaceholderImage(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUsecase(store, store.Products(), &seqIDGen{}, fixedClock{testNow})

	p, err := uc.Create(context.Background(), usecase.CreateProductInput{Name: " Mug ", Price: 100, Retail: 150, Category: "Kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	assert.Equal(t, model.PlaceholderImageURL, p.Img)
	assert.Equal(t, testNow, p.CreatedAt)

	got, err := uc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProductCreate_Validation(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUsecase(store, store.Products(), &seqIDGen{}, fixedClock{testNow})

	_, err := uc.Create(context.Background(), usecase.CreateProductInput{Name: ""})
	requireHTTPError(t, err, http.StatusBadRequest, "name required")

	_, err = uc.Create(context.Background(), usecase.CreateProductInput{Name: "Mug", Price: -1})
	requireHTTPError(t, err, http.StatusBadRequest, "price must be >= 0")
}

func TestProductSearchAndDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store, "p1", "Blue Mug", 100)
	seedProduct(t, store, "p2", "Pen", 10)
	uc := usecase.NewProductUsecase(store, store.Products(), &seqIDGen{}, fixedClock{testNow})

	found, err := uc.Search(ctx, usecase.SearchProductsInput{Search: "mug"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p1", found[0].ID)

	require.NoError(t, uc.Delete(ctx, "p1"))
	require.NoError(t, uc.Delete(ctx, "p1"))

	_, err = uc.Get(ctx, "p1")
	requireHTTPError(t, err, http.StatusNotFound, "Product not found")
}

func TestOrderCreate_RecomputesTotal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	events := &recordingPublisher{}
	uc := usecase.NewOrderUsecase(store.Orders(), &seqIDGen{}, fixedClock{testNow}, events)

	o, err := uc.Create(ctx, usecase.CreateOrderInput{
		CustomerName: "Alice",
		Email:        "A@x.com",
		Items: []usecase.CreateOrderItemInput{
			{ProductID: "p1", ProductName: "Mug", Price: 100, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300), o.Total)
	assert.Equal(t, "a@x.com", o.Email)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, []string{usecase.SubjectOrderCreated}, events.subjects())

	list, err := uc.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)

	other, err := uc.List(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestOrderCreate_Validation(t *testing.T) {
	uc := usecase.NewOrderUsecase(memory.NewStore().Orders(), &seqIDGen{}, fixedClock{testNow}, nil)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{Email: "a@x.com"})
	requireHTTPError(t, err, http.StatusBadRequest, "items required")

	_, err = uc.Create(context.Background(), usecase.CreateOrderInput{
		Email: "a@x.com",
		Items: []usecase.CreateOrderItemInput{{ProductID: "p1", Price: 10, Quantity: 0}},
	})
	requireHTTPError(t, err, http.StatusBadRequest, "quantity must be >= 1")
}

func TestOrderCreate_RejectsOverflowingTotal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	events := &recordingPublisher{}
	uc := usecase.NewOrderUsecase(store.Orders(), &seqIDGen{}, fixedClock{testNow}, events)

	_, err := uc.Create(ctx, usecase.CreateOrderInput{
		Email: "a@x.com",
		Items: []usecase.CreateOrderItemInput{{ProductID: "p1", Price: math.MaxInt64 / 2, Quantity: 3}},
	})
	requireHTTPError(t, err, http.StatusBadRequest, "order total too large")

	_, err = uc.Create(ctx, usecase.CreateOrderInput{
		Email: "a@x.com",
		Items: []usecase.CreateOrderItemInput{
			{ProductID: "p1", Price: math.MaxInt64 - 10, Quantity: 1},
			{ProductID: "p2", Price: 20, Quantity: 1},
		},
	})
	requireHTTPError(t, err, http.StatusBadRequest, "order total too large")

	list, err := uc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, events.subjects())
}

// ステータスは任意の文字列を受け付ける
func TestOrderUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewOrderUsecase(store.Orders(), &seqIDGen{}, fixedClock{testNow}, nil)

	o, err := uc.Create(ctx, usecase.CreateOrderInput{
		Email: "a@x.com",
		Items: []usecase.CreateOrderItemInput{{ProductID: "p1", Price: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := uc.UpdateStatus(ctx, o.ID, "Packed")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatus("Packed"), updated.Status)

	_, err = uc.UpdateStatus(ctx, "missing", "Shipped")
	requireHTTPError(t, err, http.StatusNotFound, "Order not found")

	_, err = uc.UpdateStatus(ctx, o.ID, "")
	requireHTTPError(t, err, http.StatusBadRequest, "status required")
}
