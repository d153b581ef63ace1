package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"
)

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	idGen IDGenerator
	clock Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, idGen IDGenerator, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, idGen: idGen, clock: clock}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧（email/status で絞り込み）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	f.Email = model.NormalizeEmail(f.Email)
	f.Status = strings.TrimSpace(f.Status)

	var orders []model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		orders, err = r.Orders().List(ctx, f)
		if err != nil {
			return internalError(ctx, err, "list orders")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ステータス更新。変更前後を監査ログに残す
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID string, orderID string, in AdminUpdateOrderStatusInput) (model.Order, error) {
	if actorAdminUserID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	newStatus, err := parseOrderStatus(orderID, in.Status)
	if err != nil {
		return model.Order{}, err
	}

	var out model.Order
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return internalError(ctx, err, "find order")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			out = o
			return nil
		}

		// ステータス更新
		beforeStatus := o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Order not found")
			}
			return internalError(ctx, err, "update order status")
		}
		o.Status = newStatus
		out = o

		// ★監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON, _ := json.Marshal(map[string]model.OrderStatus{"status": beforeStatus})
		afterJSON, _ := json.Marshal(map[string]model.OrderStatus{"status": newStatus})
		return writeAudit(ctx, r, u.idGen.NewID(), model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    u.clock.Now(),
		})
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) Delete(ctx context.Context, actorAdminUserID string, orderID string) error {
	if actorAdminUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return internalError(ctx, err, "find order")
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Order not found")
			}
			return internalError(ctx, err, "delete order")
		}

		before, _ := json.Marshal(o)
		return writeAudit(ctx, r, u.idGen.NewID(), model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(before),
			AfterJSON:    "null",
			CreatedAt:    u.clock.Now(),
		})
	})
}
