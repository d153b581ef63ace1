package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// ドメインイベントの送信。失敗しても業務処理は巻き戻さない
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

const (
	SubjectOrderCreated   = "order.created"
	SubjectGroupCompleted = "group.completed"
)

type OrderCreatedEvent struct {
	OrderID   string    `json:"orderId"`
	Email     string    `json:"email"`
	Total     int64     `json:"total"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type GroupCompletedEvent struct {
	GroupID     string    `json:"groupId"`
	ProductID   string    `json:"productId"`
	Members     []string  `json:"members"`
	CompletedAt time.Time `json:"completedAt"`
}

// イベント送信に使える時間。過ぎたら諦めてレスポンスを返す
const publishTimeout = 500 * time.Millisecond

// 送れなくても警告だけ
func publishBestEffort(ctx context.Context, events EventPublisher, subject string, payload any) {
	if events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := events.Publish(ctx, subject, payload); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("subject", subject).Msg("publish event failed")
	}
}
