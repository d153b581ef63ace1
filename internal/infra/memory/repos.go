package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"
)

type productRepo struct{ h handle }

func (r productRepo) Search(ctx context.Context, q repo.ProductSearchQuery) ([]model.Product, error) {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)

	out := []model.Product{}
	err := r.h.do(ctx, func(d *data) error {
		for _, p := range d.products {
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			if category != "" && category != model.CategoryAll && p.Category != category {
				continue
			}
			out = append(out, p)
		}
		return nil
	})

	// 新しい順
	slices.SortFunc(out, func(a, b model.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, err
}

func (r productRepo) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.h.do(ctx, func(d *data) error {
		found, ok := d.products[id]
		if !ok {
			return repo.ErrNotFound
		}
		p = found
		return nil
	})
	return p, err
}

func (r productRepo) FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	out := make(map[string]model.Product, len(ids))
	err := r.h.do(ctx, func(d *data) error {
		for _, id := range ids {
			if p, ok := d.products[id]; ok {
				out[id] = p
			}
		}
		return nil
	})
	return out, err
}

func (r productRepo) Create(ctx context.Context, p model.Product) error {
	return r.h.do(ctx, func(d *data) error {
		if _, ok := d.products[p.ID]; ok {
			return repo.ErrDuplicate
		}
		d.products[p.ID] = p
		return nil
	})
}

func (r productRepo) Delete(ctx context.Context, id string) error {
	return r.h.do(ctx, func(d *data) error {
		delete(d.products, id)
		return nil
	})
}

func (r productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.h.do(ctx, func(d *data) error {
		n = int64(len(d.products))
		return nil
	})
	return n, err
}

type userRepo struct{ h handle }

func (r userRepo) Create(ctx context.Context, user *model.User) error {
	return r.h.do(ctx, func(d *data) error {
		for _, u := range d.users {
			if u.Email == user.Email {
				return repo.ErrDuplicate
			}
		}
		if _, ok := d.users[user.ID]; ok {
			return repo.ErrDuplicate
		}
		d.users[user.ID] = *user
		return nil
	})
}

func (r userRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var out *model.User
	err := r.h.do(ctx, func(d *data) error {
		u, ok := d.users[userID]
		if !ok {
			return repo.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var out *model.User
	err := r.h.do(ctx, func(d *data) error {
		for _, u := range d.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r userRepo) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	err := r.h.do(ctx, func(d *data) error {
		for _, u := range d.users {
			out = append(out, u)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, err
}

func (r userRepo) Delete(ctx context.Context, userID string) error {
	return r.h.do(ctx, func(d *data) error {
		if _, ok := d.users[userID]; !ok {
			return repo.ErrNotFound
		}
		delete(d.users, userID)
		return nil
	})
}

func (r userRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.h.do(ctx, func(d *data) error {
		n = int64(len(d.users))
		return nil
	})
	return n, err
}

type cartItemRepo struct{ h handle }

func (r cartItemRepo) ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	out := []model.CartItem{}
	err := r.h.do(ctx, func(d *data) error {
		for _, it := range d.cartItems {
			if it.UserID == userID {
				out = append(out, it)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.CartItem) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, err
}

func (r cartItemRepo) IncrementOrCreate(ctx context.Context, item model.CartItem, qty int64, now time.Time) error {
	if qty <= 0 {
		return errors.New("invalid quantity")
	}
	return r.h.do(ctx, func(d *data) error {
		for id, it := range d.cartItems {
			if it.UserID == item.UserID && it.ProductID == item.ProductID {
				it.Quantity += qty
				it.UpdatedAt = now
				d.cartItems[id] = it
				return nil
			}
		}
		item.Quantity = qty
		item.CreatedAt = now
		item.UpdatedAt = now
		d.cartItems[item.ID] = item
		return nil
	})
}

func (r cartItemRepo) DeleteByUserAndProduct(ctx context.Context, userID, productID string) error {
	return r.h.do(ctx, func(d *data) error {
		for id, it := range d.cartItems {
			if it.UserID == userID && it.ProductID == productID {
				delete(d.cartItems, id)
			}
		}
		return nil
	})
}

func (r cartItemRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return r.h.do(ctx, func(d *data) error {
		for id, it := range d.cartItems {
			if it.UserID == userID {
				delete(d.cartItems, id)
			}
		}
		return nil
	})
}

func (r cartItemRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.h.do(ctx, func(d *data) error {
		for _, it := range d.cartItems {
			if it.UserID == userID {
				n++
			}
		}
		return nil
	})
	return n, err
}

type orderRepo struct{ h handle }

func (r orderRepo) Create(ctx context.Context, order model.Order) error {
	return r.h.do(ctx, func(d *data) error {
		if _, ok := d.orders[order.ID]; ok {
			return repo.ErrDuplicate
		}
		d.orders[order.ID] = cloneOrder(order)
		return nil
	})
}

func (r orderRepo) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var out model.Order
	err := r.h.do(ctx, func(d *data) error {
		o, ok := d.orders[orderID]
		if !ok {
			return repo.ErrNotFound
		}
		out = cloneOrder(o)
		return nil
	})
	return out, err
}

func (r orderRepo) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	out := []model.Order{}
	err := r.h.do(ctx, func(d *data) error {
		for _, o := range d.orders {
			if f.Email != "" && o.Email != f.Email {
				continue
			}
			if f.Status != "" && string(o.Status) != f.Status {
				continue
			}
			out = append(out, cloneOrder(o))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.Order) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, err
}

func (r orderRepo) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	return r.h.do(ctx, func(d *data) error {
		o, ok := d.orders[orderID]
		if !ok {
			return repo.ErrNotFound
		}
		o.Status = status
		d.orders[orderID] = o
		return nil
	})
}

func (r orderRepo) Delete(ctx context.Context, orderID string) error {
	return r.h.do(ctx, func(d *data) error {
		if _, ok := d.orders[orderID]; !ok {
			return repo.ErrNotFound
		}
		delete(d.orders, orderID)
		return nil
	})
}

func (r orderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.h.do(ctx, func(d *data) error {
		n = int64(len(d.orders))
		return nil
	})
	return n, err
}

func (r orderRepo) SumTotal(ctx context.Context) (int64, error) {
	var sum int64
	err := r.h.do(ctx, func(d *data) error {
		for _, o := range d.orders {
			sum += o.Total
		}
		return nil
	})
	return sum, err
}

type groupRepo struct{ h handle }

func (r groupRepo) Create(ctx context.Context, g model.Group) error {
	return r.h.do(ctx, func(d *data) error {
		if _, ok := d.groups[g.ID]; ok {
			return repo.ErrDuplicate
		}
		d.groups[g.ID] = cloneGroup(g)
		return nil
	})
}

func (r groupRepo) FindByID(ctx context.Context, groupID string) (model.Group, error) {
	var out model.Group
	err := r.h.do(ctx, func(d *data) error {
		g, ok := d.groups[groupID]
		if !ok {
			return repo.ErrNotFound
		}
		out = cloneGroup(g)
		return nil
	})
	return out, err
}

func (r groupRepo) UpdateMembers(ctx context.Context, g model.Group, expectedVersion int64) error {
	return r.h.do(ctx, func(d *data) error {
		cur, ok := d.groups[g.ID]
		if !ok {
			return repo.ErrNotFound
		}
		if cur.Version != expectedVersion {
			return repo.ErrVersionConflict
		}
		cur.Members = slices.Clone(g.Members)
		cur.Status = g.Status
		cur.Version = expectedVersion + 1
		d.groups[g.ID] = cur
		return nil
	})
}

type auditLogRepo struct{ h handle }

func (r auditLogRepo) Create(ctx context.Context, log model.AuditLog) error {
	return r.h.do(ctx, func(d *data) error {
		d.auditLogs = append(d.auditLogs, log)
		return nil
	})
}

func (r auditLogRepo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	out := []model.AuditLog{}
	err := r.h.do(ctx, func(d *data) error {
		// 追加順に入っているので後ろから読む
		for i := len(d.auditLogs) - 1; i >= 0; i-- {
			l := d.auditLogs[i]
			if f.ActorUserID != "" && l.ActorUserID != f.ActorUserID {
				continue
			}
			if f.Action != "" && l.Action != f.Action {
				continue
			}
			if f.ResourceType != "" && l.ResourceType != f.ResourceType {
				continue
			}
			if f.ResourceID != "" && l.ResourceID != f.ResourceID {
				continue
			}
			out = append(out, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	limit, offset := repo.NormalizePage(f.Limit, f.Offset)
	if offset >= len(out) {
		return []model.AuditLog{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
