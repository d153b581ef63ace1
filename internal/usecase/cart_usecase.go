package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"
)

// CartUsecase は /api/cart の業務ロジック。
// カートはメールで指すユーザーごとの CartItem の集まり。
type CartUsecase struct {
	users     repo.UserRepository
	products  repo.ProductRepository
	cartItems repo.CartItemRepository
	idGen     IDGenerator
	clock     Clock
}

func NewCartUsecase(
	users repo.UserRepository,
	products repo.ProductRepository,
	cartItems repo.CartItemRepository,
	idGen IDGenerator,
	clock Clock,
) *CartUsecase {
	return &CartUsecase{
		users:     users,
		products:  products,
		cartItems: cartItems,
		idGen:     idGen,
		clock:     clock,
	}
}

// 商品が消えていたら product は null
type CartEntry struct {
	ProductID string         `json:"productId"`
	Quantity  int64          `json:"quantity"`
	Product   *model.Product `json:"product"`
}

// total は商品が残っている明細だけで計算
type CartOutput struct {
	Items []CartEntry `json:"items"`
	Total int64       `json:"total"`
}

// AddItem はカートに1つ追加（同一商品は数量加算）。明細の種類数を返す。
func (u *CartUsecase) AddItem(ctx context.Context, email string, productID string) (int64, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "email required")
	}
	if strings.TrimSpace(productID) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "productId required")
	}

	user, err := u.findUser(ctx, email)
	if err != nil {
		return 0, err
	}

	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return 0, internalError(ctx, err, "find product")
	}

	item := model.CartItem{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		ProductID: productID,
	}
	if err := u.cartItems.IncrementOrCreate(ctx, item, 1, u.clock.Now()); err != nil {
		return 0, internalError(ctx, err, "add cart item")
	}

	count, err := u.cartItems.CountByUserID(ctx, user.ID)
	if err != nil {
		return 0, internalError(ctx, err, "count cart items")
	}
	return count, nil
}

// ListCart はカートの中身。知らないメールなら空。
func (u *CartUsecase) ListCart(ctx context.Context, email string) (CartOutput, error) {
	out := CartOutput{Items: []CartEntry{}}

	email = model.NormalizeEmail(email)
	if email == "" {
		return out, NewHTTPError(http.StatusBadRequest, "email required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, internalError(ctx, err, "find user")
	}

	items, err := u.cartItems.ListByUserID(ctx, user.ID)
	if err != nil {
		return out, internalError(ctx, err, "list cart items")
	}

	products, err := u.products.FindByIDs(ctx, productIDsOf(items))
	if err != nil {
		return out, internalError(ctx, err, "find products")
	}

	for _, it := range items {
		entry := CartEntry{ProductID: it.ProductID, Quantity: it.Quantity}
		if p, ok := products[it.ProductID]; ok {
			entry.Product = &p
			out.Total += p.Price * it.Quantity
		}
		out.Items = append(out.Items, entry)
	}
	return out, nil
}

// RemoveItem は明細を消す。無ければ何もしない。
func (u *CartUsecase) RemoveItem(ctx context.Context, email string, productID string) error {
	email = model.NormalizeEmail(email)
	if email == "" {
		return NewHTTPError(http.StatusBadRequest, "email required")
	}
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "productId required")
	}

	user, err := u.findUser(ctx, email)
	if err != nil {
		return err
	}

	if err := u.cartItems.DeleteByUserAndProduct(ctx, user.ID, productID); err != nil {
		return internalError(ctx, err, "remove cart item")
	}
	return nil
}

func (u *CartUsecase) findUser(ctx context.Context, email string) (*model.User, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return nil, internalError(ctx, err, "find user")
	}
	return user, nil
}

func productIDsOf(items []model.CartItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
