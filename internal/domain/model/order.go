package model

import (
	"errors"
	"math"
	"time"
)

// ステータスは開いた列挙。下の3つ以外の文字列もそのまま保存する。
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

var ErrAmountOverflow = errors.New("order amount too large")

type Order struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	CustomerName string      `gorm:"type:varchar(255)" bson:"customer_name" json:"customerName"`
	Email        string      `gorm:"type:varchar(255);index" bson:"email" json:"email"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"items" json:"items"`
	Total        int64       `gorm:"not null" bson:"total" json:"total"`
	Status       OrderStatus `gorm:"type:varchar(50);not null;index" bson:"status" json:"status"`
	Date         time.Time   `gorm:"not null;index" bson:"date" json:"date"`
}

// 明細を作り直して合計を計算する
func NewOrder(id, customerName, email string, items []OrderItem, status OrderStatus, now time.Time) Order {
	o := Order{
		ID:           id,
		CustomerName: customerName,
		Email:        email,
		Status:       status,
		Date:         now,
		Items:        make([]OrderItem, 0, len(items)),
	}
	for _, it := range items {
		it.OrderID = id
		it.LineTotal = it.Price * it.Quantity
		o.Total += it.LineTotal
		o.Items = append(o.Items, it)
	}
	return o
}

// 単価×数量とその合計が int64 に収まるか確かめる
func OrderTotal(items []OrderItem) (int64, error) {
	var total int64
	for _, it := range items {
		if it.Price < 0 || it.Quantity < 0 {
			return 0, ErrAmountOverflow
		}
		if it.Price > 0 && it.Quantity > math.MaxInt64/it.Price {
			return 0, ErrAmountOverflow
		}
		line := it.Price * it.Quantity
		if total > math.MaxInt64-line {
			return 0, ErrAmountOverflow
		}
		total += line
	}
	return total, nil
}
