package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"
)

// メモリ上のストア（開発・テスト用）
// 1つのロックで全体を守る。WithinTx はロックを持ったまま fn を実行し、
// エラーならスナップショットに戻す。
type Store struct {
	mu   sync.Mutex
	data data
}

type data struct {
	products  map[string]model.Product
	users     map[string]model.User
	cartItems map[string]model.CartItem
	orders    map[string]model.Order
	groups    map[string]model.Group
	auditLogs []model.AuditLog
}

var _ repo.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		data: data{
			products:  map[string]model.Product{},
			users:     map[string]model.User{},
			cartItems: map[string]model.CartItem{},
			orders:    map[string]model.Order{},
			groups:    map[string]model.Group{},
		},
	}
}

// スライスを持つ値もコピーする
func (d data) clone() data {
	out := data{
		products:  maps.Clone(d.products),
		users:     maps.Clone(d.users),
		cartItems: maps.Clone(d.cartItems),
		orders:    make(map[string]model.Order, len(d.orders)),
		groups:    make(map[string]model.Group, len(d.groups)),
		auditLogs: slices.Clone(d.auditLogs),
	}
	for k, o := range d.orders {
		out.orders[k] = cloneOrder(o)
	}
	for k, g := range d.groups {
		out.groups[k] = cloneGroup(g)
	}
	return out
}

func cloneOrder(o model.Order) model.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func cloneGroup(g model.Group) model.Group {
	g.Members = slices.Clone(g.Members)
	return g
}

// ロック付きで d を操作する
type handle struct {
	s      *Store
	locked bool
}

func (h handle) do(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.locked {
		h.s.mu.Lock()
		defer h.s.mu.Unlock()
	}
	return fn(&h.s.data)
}

type txRepos struct {
	h handle
}

func (r txRepos) Products() repo.ProductRepository   { return productRepo{r.h} }
func (r txRepos) Users() repo.UserRepository         { return userRepo{r.h} }
func (r txRepos) CartItems() repo.CartItemRepository { return cartItemRepo{r.h} }
func (r txRepos) Orders() repo.OrderRepository       { return orderRepo{r.h} }
func (r txRepos) Groups() repo.GroupRepository       { return groupRepo{r.h} }
func (r txRepos) AuditLogs() repo.AuditLogRepository { return auditLogRepo{r.h} }

func (s *Store) repos() txRepos { return txRepos{h: handle{s: s}} }

func (s *Store) Products() repo.ProductRepository   { return s.repos().Products() }
func (s *Store) Users() repo.UserRepository         { return s.repos().Users() }
func (s *Store) CartItems() repo.CartItemRepository { return s.repos().CartItems() }
func (s *Store) Orders() repo.OrderRepository       { return s.repos().Orders() }
func (s *Store) Groups() repo.GroupRepository       { return s.repos().Groups() }
func (s *Store) AuditLogs() repo.AuditLogRepository { return s.repos().AuditLogs() }

// fn の中では渡された r だけを使うこと（ストア本体を呼ぶとデッドロックする）
func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(txRepos{h: handle{s: s, locked: true}}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close(context.Context) error { return nil }
