package repository

import (
	"context"

	repo "ekathu/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	products  repo.ProductRepository
	users     repo.UserRepository
	cartItems repo.CartItemRepository
	orders    repo.OrderRepository
	groups    repo.GroupRepository
	auditLogs repo.AuditLogRepository
}

// inTx のときは読み取りで行ロックを取る
func newTxReposGorm(db *gorm.DB, inTx bool) *txReposGorm {
	return &txReposGorm{
		products:  NewProductGormRepository(db),
		users:     NewUserGormRepository(db),
		cartItems: &CartItemGormRepository{db: db, forUpdate: inTx},
		orders:    &OrderGormRepository{db: db, forUpdate: inTx},
		groups:    NewGroupGormRepository(db),
		auditLogs: NewAuditLogGormRepository(db),
	}
}

func (r *txReposGorm) Products() repo.ProductRepository   { return r.products }
func (r *txReposGorm) Users() repo.UserRepository         { return r.users }
func (r *txReposGorm) CartItems() repo.CartItemRepository { return r.cartItems }
func (r *txReposGorm) Orders() repo.OrderRepository       { return r.orders }
func (r *txReposGorm) Groups() repo.GroupRepository       { return r.groups }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(newTxReposGorm(tx, true))
	})
}
