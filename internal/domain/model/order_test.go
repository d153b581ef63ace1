package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOrder_ComputesTotals(t *testing.T) {
	now := time.Now()
	o := NewOrder("o1", "Alice", "a@x.com", []OrderItem{
		{ProductID: "p1", ProductName: "Mug", Price: 100, Quantity: 2},
		{ProductID: "p2", ProductName: "Pen", Price: 30, Quantity: 1},
	}, OrderStatusPending, now)

	assert.Equal(t, int64(230), o.Total)
	assert.Equal(t, int64(200), o.Items[0].LineTotal)
	assert.Equal(t, int64(30), o.Items[1].LineTotal)
	for _, it := range o.Items {
		assert.Equal(t, "o1", it.OrderID)
	}
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, now, o.Date)
}

func TestNewOrder_NoItems(t *testing.T) {
	o := NewOrder("o1", "", "a@x.com", nil, OrderStatusPending, time.Now())
	assert.Zero(t, o.Total)
	assert.NotNil(t, o.Items)
}

func TestOrderTotal(t *testing.T) {
	total, err := OrderTotal([]OrderItem{{Price: 100, Quantity: 2}, {Price: 30, Quantity: 1}})
	assert.NoError(t, err)
	assert.Equal(t, int64(230), total)

	_, err = OrderTotal([]OrderItem{{Price: math.MaxInt64 / 2, Quantity: 3}})
	assert.ErrorIs(t, err, ErrAmountOverflow)

	_, err = OrderTotal([]OrderItem{{Price: math.MaxInt64 - 1, Quantity: 1}, {Price: 2, Quantity: 1}})
	assert.ErrorIs(t, err, ErrAmountOverflow)

	total, err = OrderTotal([]OrderItem{{Price: 0, Quantity: math.MaxInt64}})
	assert.NoError(t, err)
	assert.Zero(t, total)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}
