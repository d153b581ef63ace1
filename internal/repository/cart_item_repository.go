package repository

import (
	"context"
	"time"

	"ekathu/internal/domain/model"
)

type CartItemRepository interface {
	// 追加順
	ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error)
	// 同一商品はプラス、なければ数量 qty で作る（1回の原子的な upsert）
	IncrementOrCreate(ctx context.Context, item model.CartItem, qty int64, now time.Time) error
	// 無くてもエラーにしない
	DeleteByUserAndProduct(ctx context.Context, userID, productID string) error
	// まとめて削除
	DeleteByUserID(ctx context.Context, userID string) error
	// 明細の件数（商品の種類数）
	CountByUserID(ctx context.Context, userID string) (int64, error)
}
