package repository

import (
	"context"
	"errors"
	"time"

	"ekathu/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	items := []model.CartItem{}

	q := r.db.WithContext(ctx)
	if r.forUpdate {
		//チェックアウト中は明細をロック
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 同一商品は数量加算
// (user_id, product_id) のユニーク制約に ON CONFLICT で乗る
func (r *CartItemGormRepository) IncrementOrCreate(ctx context.Context, item model.CartItem, qty int64, now time.Time) error {
	if qty <= 0 {
		return errors.New("invalid quantity")
	}

	item.Quantity = qty
	item.CreatedAt = now
	item.UpdatedAt = now

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", qty),
				"updated_at": now,
			}),
		}).
		Create(&item).Error
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByUserAndProduct(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
}

// 指定ユーザーの明細を全削除
func (r *CartItemGormRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}
