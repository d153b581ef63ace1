package mongodb

import (
	"context"
	"errors"
	"fmt"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepositoryMongo struct {
	base
}

// 明細は注文ドキュメントに埋め込む
func (r *OrderRepositoryMongo) Create(ctx context.Context, order model.Order) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
	}

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrDuplicate
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepositoryMongo) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var o model.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": orderID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to find order: %w", err)
	}
	fillOrderIDs(&o)
	return o, nil
}

func (r *OrderRepositoryMongo) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{}
	if f.Email != "" {
		filter["email"] = f.Email
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	orders := []model.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	for i := range orders {
		fillOrderIDs(&orders[i])
	}
	return orders, nil
}

func (r *OrderRepositoryMongo) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderRepositoryMongo) Delete(ctx context.Context, orderID string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": orderID})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderRepositoryMongo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *OrderRepositoryMongo) SumTotal(ctx context.Context) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum orders: %w", err)
	}

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode order sum: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// order_id は埋め込みなので保存していない
func fillOrderIDs(o *model.Order) {
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
}
