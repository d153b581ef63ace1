package model

import (
	"errors"
	"time"
)

type GroupStatus string

const (
	GroupStatusOpen      GroupStatus = "Open"
	GroupStatusCompleted GroupStatus = "Completed"
)

// 共同購入グループの既定人数
const DefaultGroupMaxMembers = 5

var (
	ErrAlreadyMember = errors.New("already joined")
	ErrGroupFull     = errors.New("group full")
)

// 共同購入グループ
// members は重複なし・参加順。Version は楽観ロック用。
type Group struct {
	ID         string      `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	ProductID  string      `gorm:"type:varchar(36);not null;index" bson:"product_id" json:"productId"`
	Members    []string    `gorm:"type:text;serializer:json;not null" bson:"members" json:"members"`
	MaxMembers int         `gorm:"not null;default:5" bson:"max_members" json:"maxMembers"`
	Status     GroupStatus `gorm:"type:varchar(20);not null;index" bson:"status" json:"status"`
	Version    int64       `gorm:"not null;default:0" bson:"version" json:"-"`
	CreatedAt  time.Time   `gorm:"not null" bson:"created_at" json:"createdAt"`
}

func (Group) TableName() string { return "buy_groups" }

func NewGroup(id, productID, creatorEmail string, maxMembers int, now time.Time) Group {
	if maxMembers <= 0 {
		maxMembers = DefaultGroupMaxMembers
	}
	g := Group{
		ID:         id,
		ProductID:  productID,
		Members:    []string{creatorEmail},
		MaxMembers: maxMembers,
		CreatedAt:  now,
	}
	g.Status = g.statusForMembers()
	return g
}

func (g Group) HasMember(email string) bool {
	for _, m := range g.Members {
		if m == email {
			return true
		}
	}
	return false
}

func (g Group) IsFull() bool {
	return len(g.Members) >= g.MaxMembers
}

// Join はメンバーを追加して状態を更新する。
// Completed に遷移したら true を返す。
func (g *Group) Join(email string) (bool, error) {
	if g.HasMember(email) {
		return false, ErrAlreadyMember
	}
	if g.IsFull() {
		return false, ErrGroupFull
	}

	g.Members = append(g.Members, email)
	before := g.Status
	g.Status = g.statusForMembers()
	return before != GroupStatusCompleted && g.Status == GroupStatusCompleted, nil
}

func (g Group) statusForMembers() GroupStatus {
	if len(g.Members) >= g.MaxMembers {
		return GroupStatusCompleted
	}
	return GroupStatusOpen
}
