package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"
)

type OrderUsecase struct {
	orders repo.OrderRepository
	idGen  IDGenerator
	clock  Clock
	events EventPublisher
}

func NewOrderUsecase(orders repo.OrderRepository, idGen IDGenerator, clock Clock, events EventPublisher) *OrderUsecase {
	return &OrderUsecase{orders: orders, idGen: idGen, clock: clock, events: events}
}

type CreateOrderItemInput struct {
	ProductID   string
	ProductName string
	Price       int64
	Quantity    int64
}

type CreateOrderInput struct {
	CustomerName string
	Email        string
	Items        []CreateOrderItemInput
	// 空なら Pending
	Status string
}

// 新しい順。email があればその人の注文だけ
func (u *OrderUsecase) List(ctx context.Context, email string) ([]model.Order, error) {
	orders, err := u.orders.List(ctx, repo.OrderListFilter{Email: model.NormalizeEmail(email)})
	if err != nil {
		return nil, internalError(ctx, err, "list orders")
	}
	return orders, nil
}

// Create は注文を直接作る。合計はサーバ側で計算し直す。
func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (model.Order, error) {
	email := model.NormalizeEmail(in.Email)
	if email == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "email required")
	}
	if len(in.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "items required")
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "productId required")
		}
		if it.Price < 0 {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
		if it.Quantity < 1 {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
		}
		items = append(items, model.OrderItem{
			ProductID:   it.ProductID,
			ProductName: strings.TrimSpace(it.ProductName),
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}

	if _, err := model.OrderTotal(items); err != nil {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "order total too large")
	}

	status := model.OrderStatus(strings.TrimSpace(in.Status))
	if status == "" {
		status = model.OrderStatusPending
	}

	order := model.NewOrder(u.idGen.NewID(), strings.TrimSpace(in.CustomerName), email, items, status, u.clock.Now())
	if err := u.orders.Create(ctx, order); err != nil {
		return model.Order{}, internalError(ctx, err, "create order")
	}

	publishBestEffort(ctx, u.events, SubjectOrderCreated, orderCreatedEvent(order))
	return order, nil
}

// ステータスは空でなければ何でも受け付ける
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID string, status string) (model.Order, error) {
	newStatus, err := parseOrderStatus(orderID, status)
	if err != nil {
		return model.Order{}, err
	}

	if err := u.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
		}
		return model.Order{}, internalError(ctx, err, "update order status")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return model.Order{}, internalError(ctx, err, "find order")
	}
	return o, nil
}

func parseOrderStatus(orderID, status string) (model.OrderStatus, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	s := strings.TrimSpace(status)
	if s == "" {
		return "", NewHTTPError(http.StatusBadRequest, "status required")
	}
	if len(s) > 50 {
		return "", NewHTTPError(http.StatusBadRequest, "status too long")
	}
	return model.OrderStatus(s), nil
}
