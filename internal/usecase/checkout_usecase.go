package usecase

import (
	"context"
	"errors"
	"net/http"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"github.com/rs/zerolog/log"
)

type CheckoutUsecase struct {
	tx     repo.TransactionManager
	idGen  IDGenerator
	clock  Clock
	events EventPublisher
}

func NewCheckoutUsecase(tx repo.TransactionManager, idGen IDGenerator, clock Clock, events EventPublisher) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, idGen: idGen, clock: clock, events: events}
}

// Checkout はカートを1件の注文にしてカートを空にする。
// 注文作成とカート削除は同じトランザクション。空なら何も変えずに EmptyCart。
func (u *CheckoutUsecase) Checkout(ctx context.Context, email string) (model.Order, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "email required")
	}

	var order model.Order

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByEmail(ctx, email)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "User not found")
		}
		if err != nil {
			return internalError(ctx, err, "find user")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByUserID(ctx, user.ID)
		if err != nil {
			return internalError(ctx, err, "list cart items")
		}
		if len(cartItems) == 0 {
			return emptyCart()
		}

		products, err := r.Products().FindByIDs(ctx, productIDsOf(cartItems))
		if err != nil {
			return internalError(ctx, err, "find products")
		}

		//スナップショット。消えた商品は飛ばす
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			p, ok := products[ci.ProductID]
			if !ok {
				log.Ctx(ctx).Warn().
					Str("user_id", user.ID).
					Str("product_id", ci.ProductID).
					Msg("checkout skipped deleted product")
				continue
			}
			orderItems = append(orderItems, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Price:       p.Price,
				Quantity:    ci.Quantity,
			})
		}
		if len(orderItems) == 0 {
			return emptyCart()
		}

		if _, err := model.OrderTotal(orderItems); err != nil {
			return NewHTTPError(http.StatusBadRequest, "order total too large")
		}

		// 注文作成
		order = model.NewOrder(u.idGen.NewID(), user.Name, user.Email, orderItems, model.OrderStatusPending, u.clock.Now())
		if err := r.Orders().Create(ctx, order); err != nil {
			return internalError(ctx, err, "create order")
		}

		//注文ができてからカートを空にする
		if err := r.CartItems().DeleteByUserID(ctx, user.ID); err != nil {
			return internalError(ctx, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	log.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Int64("total", order.Total).
		Msg("checkout completed")

	publishBestEffort(ctx, u.events, SubjectOrderCreated, orderCreatedEvent(order))
	return order, nil
}

func emptyCart() error {
	return NewKindError(ErrEmptyCart, http.StatusBadRequest, "Cart empty")
}

func orderCreatedEvent(o model.Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:   o.ID,
		Email:     o.Email,
		Total:     o.Total,
		ItemCount: len(o.Items),
		CreatedAt: o.Date,
	}
}
