package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepositoryMongo struct {
	base
}

func (r *ProductRepositoryMongo) Search(ctx context.Context, q repo.ProductSearchQuery) ([]model.Product, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{}
	if s := strings.TrimSpace(q.Search); s != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	}
	if c := strings.TrimSpace(q.Category); c != "" && c != model.CategoryAll {
		filter["category"] = c
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	products := []model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *ProductRepositoryMongo) FindByID(ctx context.Context, id string) (model.Product, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var p model.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

func (r *ProductRepositoryMongo) FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	out := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	var products []model.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepositoryMongo) Create(ctx context.Context, p model.Product) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrDuplicate
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *ProductRepositoryMongo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *ProductRepositoryMongo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{})
}
