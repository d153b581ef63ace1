package mongodb

import (
	"context"
	"errors"
	"fmt"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepositoryMongo struct {
	base
}

func (r *UserRepositoryMongo) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepositoryMongo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID})
}

func (r *UserRepositoryMongo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepositoryMongo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var u model.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepositoryMongo) List(ctx context.Context) ([]model.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *UserRepositoryMongo) Delete(ctx context.Context, userID string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryMongo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{})
}
