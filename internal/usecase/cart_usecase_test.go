package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"ekathu/internal/domain/model"
	"ekathu/internal/infra/memory"
	"ekathu/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartUsecase(store *memory.Store) *usecase.CartUsecase {
	return usecase.NewCartUsecase(store.Users(), store.Products(), store.CartItems(), &seqIDGen{}, fixedClock{testNow})
}

func TestCartAddItem_SameProductTwice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedUser(t, store, "u1", "a@x.com", model.RoleCustomer)
	seedProduct(t, store, "p1", "Mug", 100)
	uc := newCartUsecase(store)

	count, err := uc.AddItem(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = uc.AddItem(ctx, "A@X.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	out, err := uc.ListCart(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.Equal(t, "Mug", out.Items[0].Product.Name)
	assert.Equal(t, int64(200), out.Total)
}

func TestCartAddItem_Errors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedUser(t, store, "u1", "a@x.com", model.RoleCustomer)
	uc := newCartUsecase(store)

	_, err := uc.AddItem(ctx, "nobody@x.com", "p1")
	requireHTTPError(t, err, http.StatusNotFound, "User not found")

	_, err = uc.AddItem(ctx, "a@x.com", "missing")
	requireHTTPError(t, err, http.StatusNotFound, "Product not found")
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	_, err = uc.AddItem(ctx, "", "p1")
	requireHTTPError(t, err, http.StatusBadRequest, "email required")
}

func TestCartListCart_UnknownEmailIsEmpty(t *testing.T) {
	out, err := newCartUsecase(memory.NewStore()).ListCart(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Zero(t, out.Total)
}

func TestCartListCart_DeletedProductIsNull(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedUser(t, store, "u1", "a@x.com", model.RoleCustomer)
	seedProduct(t, store, "p1", "Mug", 100)
	seedProduct(t, store, "p2", "Pen", 10)
	uc := newCartUsecase(store)

	_, err := uc.AddItem(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "a@x.com", "p2")
	require.NoError(t, err)
	require.NoError(t, store.Products().Delete(ctx, "p1"))

	out, err := uc.ListCart(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	var nullCount int
	for _, it := range out.Items {
		if it.Product == nil {
			nullCount++
		}
	}
	assert.Equal(t, 1, nullCount)
	assert.Equal(t, int64(10), out.Total)
}

func TestCartRemoveItem(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedUser(t, store, "u1", "a@x.com", model.RoleCustomer)
	seedProduct(t, store, "p1", "Mug", 100)
	uc := newCartUsecase(store)

	_, err := uc.AddItem(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	require.NoError(t, uc.RemoveItem(ctx, "a@x.com", "p1"))
	// 無くても成功
	require.NoError(t, uc.RemoveItem(ctx, "a@x.com", "p1"))

	out, err := uc.ListCart(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}
