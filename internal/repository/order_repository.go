package repository

import (
	"context"

	"ekathu/internal/domain/model"
)

// 注文一覧の絞り込み。空文字は条件なし
type OrderListFilter struct {
	Email  string
	Status string
}

type OrderRepository interface {
	// 明細も一緒に保存する
	Create(ctx context.Context, order model.Order) error
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// 新しい順
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	Delete(ctx context.Context, orderID string) error
	Count(ctx context.Context) (int64, error)
	// 全注文の合計金額（注文がなければ0）
	SumTotal(ctx context.Context) (int64, error)
}
