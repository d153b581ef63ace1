package model

import "time"

// 画像が無いときの代替URL
const PlaceholderImageURL = "https://via.placeholder.com/400"

// カテゴリ絞り込みをしない指定
const CategoryAll = "All"

type Product struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" bson:"name" json:"name"`
	Price     int64     `gorm:"not null" bson:"price" json:"price"`
	Retail    int64     `gorm:"not null;default:0" bson:"retail" json:"retail"`
	Category  string    `gorm:"type:varchar(100);index" bson:"category" json:"category"`
	Img       string    `gorm:"type:text" bson:"img" json:"img"`
	UserAd    bool      `gorm:"not null;default:false" bson:"user_ad" json:"userAd"`
	CreatedAt time.Time `gorm:"not null;index" bson:"created_at" json:"createdAt"`
}
