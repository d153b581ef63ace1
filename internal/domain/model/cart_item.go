package model

import "time"

// カートの明細
// (user_id, product_id) で1件だけ。数量は1以上。
type CartItem struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product" bson:"user_id" json:"userId"`
	ProductID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product" bson:"product_id" json:"productId"`
	Quantity  int64     `gorm:"not null" bson:"quantity" json:"quantity"`
	CreatedAt time.Time `gorm:"not null" bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" bson:"updated_at" json:"updatedAt"`
}
