package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// 1回の操作にかける上限
const opTimeout = 5 * time.Second

// コレクション共通。トランザクション中は sess にセッションが入る
type base struct {
	coll *mongo.Collection
	sess mongo.Session
}

func (b base) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	if b.sess != nil {
		return mongo.NewSessionContext(ctx, b.sess), cancel
	}
	return ctx, cancel
}
