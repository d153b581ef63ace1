package mongodb

import (
	"context"
	"fmt"
	"time"

	repo "ekathu/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collProducts  = "products"
	collUsers     = "users"
	collCartItems = "cart_items"
	collOrders    = "orders"
	collGroups    = "groups"
	collAuditLogs = "audit_logs"
)

type repos struct {
	products  *ProductRepositoryMongo
	users     *UserRepositoryMongo
	cartItems *CartItemRepositoryMongo
	orders    *OrderRepositoryMongo
	groups    *GroupRepositoryMongo
	auditLogs *AuditLogRepositoryMongo
}

func newRepos(db *mongo.Database, sess mongo.Session) *repos {
	b := func(name string) base { return base{coll: db.Collection(name), sess: sess} }
	return &repos{
		products:  &ProductRepositoryMongo{b(collProducts)},
		users:     &UserRepositoryMongo{b(collUsers)},
		cartItems: &CartItemRepositoryMongo{b(collCartItems)},
		orders:    &OrderRepositoryMongo{b(collOrders)},
		groups:    &GroupRepositoryMongo{b(collGroups)},
		auditLogs: &AuditLogRepositoryMongo{b(collAuditLogs)},
	}
}

func (r *repos) Products() repo.ProductRepository   { return r.products }
func (r *repos) Users() repo.UserRepository         { return r.users }
func (r *repos) CartItems() repo.CartItemRepository { return r.cartItems }
func (r *repos) Orders() repo.OrderRepository       { return r.orders }
func (r *repos) Groups() repo.GroupRepository       { return r.groups }
func (r *repos) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

// MongoDB のストア
// transactions が false のとき WithinTx は順番に実行するだけ（単体構成のMongoDB向け）
type Store struct {
	*repos

	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

var _ repo.Store = (*Store)(nil)

// NewStore はインデックスを作ってストアを返す。
func NewStore(ctx context.Context, client *mongo.Client, dbName string, transactions bool) (*Store, error) {
	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}
	return &Store{
		repos:        newRepos(db, nil),
		client:       client,
		db:           db,
		transactions: transactions,
	}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collCartItems: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		collProducts: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collOrders: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "date", Value: -1}}},
		},
		collAuditLogs: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if !s.transactions {
		return fn(s.repos)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(newRepos(s.db, sess))
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
