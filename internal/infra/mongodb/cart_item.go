package mongodb

import (
	"context"
	"fmt"
	"time"

	"ekathu/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartItemRepositoryMongo struct {
	base
}

func (r *CartItemRepositoryMongo) ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find cart items: %w", err)
	}
	items := []model.CartItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

// (user_id, product_id) の upsert。同時に初回追加が来たときは
// ユニークインデックスで片方が弾かれるので、もう一度だけ $inc する。
func (r *CartItemRepositoryMongo) IncrementOrCreate(ctx context.Context, item model.CartItem, qty int64, now time.Time) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{"user_id": item.UserID, "product_id": item.ProductID}
	update := bson.M{
		"$inc":         bson.M{"quantity": qty},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"_id": item.ID, "created_at": now},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		_, err = r.coll.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return nil
}

func (r *CartItemRepositoryMongo) DeleteByUserAndProduct(ctx context.Context, userID, productID string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID}); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func (r *CartItemRepositoryMongo) DeleteByUserID(ctx context.Context, userID string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *CartItemRepositoryMongo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
}
