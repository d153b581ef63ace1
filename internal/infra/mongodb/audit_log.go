package mongodb

import (
	"context"
	"fmt"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditLogRepositoryMongo struct {
	base
}

func (r *AuditLogRepositoryMongo) Create(ctx context.Context, log model.AuditLog) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func (r *AuditLogRepositoryMongo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{}
	if f.ActorUserID != "" {
		filter["actor_user_id"] = f.ActorUserID
	}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	if f.ResourceType != "" {
		filter["resource_type"] = f.ResourceType
	}
	if f.ResourceID != "" {
		filter["resource_id"] = f.ResourceID
	}

	limit, offset := repo.NormalizePage(f.Limit, f.Offset)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs: %w", err)
	}
	logs := []model.AuditLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode audit logs: %w", err)
	}
	return logs, nil
}
