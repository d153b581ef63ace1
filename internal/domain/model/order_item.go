package model

// 注文明細（注文時点の商品名と単価のスナップショット）
type OrderItem struct {
	ID          string `gorm:"type:varchar(36);primaryKey" bson:"id" json:"-"`
	OrderID     string `gorm:"type:varchar(36);not null;index" bson:"-" json:"-"`
	ProductID   string `gorm:"type:varchar(36);not null" bson:"product_id" json:"productId"`
	ProductName string `gorm:"type:varchar(255);not null" bson:"product_name" json:"productName"`
	Price       int64  `gorm:"not null" bson:"price" json:"price"`
	Quantity    int64  `gorm:"not null" bson:"quantity" json:"quantity"`
	LineTotal   int64  `gorm:"not null" bson:"line_total" json:"lineTotal"`
}
