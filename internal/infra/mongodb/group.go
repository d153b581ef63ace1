package mongodb

import (
	"context"
	"errors"
	"fmt"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type GroupRepositoryMongo struct {
	base
}

func (r *GroupRepositoryMongo) Create(ctx context.Context, g model.Group) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, g); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrDuplicate
		}
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

func (r *GroupRepositoryMongo) FindByID(ctx context.Context, groupID string) (model.Group, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var g model.Group
	err := r.coll.FindOne(ctx, bson.M{"_id": groupID}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Group{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Group{}, fmt.Errorf("failed to find group: %w", err)
	}
	return g, nil
}

// version をフィルタに入れた条件付き更新
func (r *GroupRepositoryMongo) UpdateMembers(ctx context.Context, g model.Group, expectedVersion int64) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": g.ID, "version": expectedVersion},
		bson.M{
			"$set": bson.M{"members": g.Members, "status": g.Status},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": g.ID})
	if err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return repo.ErrVersionConflict
}
