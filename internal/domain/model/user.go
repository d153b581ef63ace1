package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" bson:"password_hash" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'customer'" bson:"role" json:"role"`
	TokenVersion int       `gorm:"not null;default:0" bson:"token_version" json:"-"`
	CreatedAt    time.Time `gorm:"not null;index" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" bson:"updated_at" json:"updatedAt"`
}

// メールは小文字・前後空白なしで保存して比較する
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
