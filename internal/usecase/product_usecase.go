package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"
)

type ProductUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	idGen    IDGenerator
	clock    Clock
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	idGen IDGenerator,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		tx:       tx,
		products: products,
		idGen:    idGen,
		clock:    clock,
	}
}

// GET /api/products の入力
type SearchProductsInput struct {
	Search   string
	Category string
}

func (u *ProductUsecase) Search(ctx context.Context, in SearchProductsInput) ([]model.Product, error) {
	if len(in.Search) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "search too long")
	}

	items, err := u.products.Search(ctx, repo.ProductSearchQuery{
		Search:   strings.TrimSpace(in.Search),
		Category: strings.TrimSpace(in.Category),
	})
	if err != nil {
		return nil, internalError(ctx, err, "search products")
	}
	return items, nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID string) (model.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, internalError(ctx, err, "find product")
	}
	return p, nil
}

type CreateProductInput struct {
	Name     string
	Price    int64
	Retail   int64
	Category string
	UserAd   bool
	// アップロード画像の公開URL。空ならプレースホルダ
	Img string
}

func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Retail < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "retail must be >= 0")
	}

	img := strings.TrimSpace(in.Img)
	if img == "" {
		img = model.PlaceholderImageURL
	}

	p := model.Product{
		ID:        u.idGen.NewID(),
		Name:      strings.TrimSpace(in.Name),
		Price:     in.Price,
		Retail:    in.Retail,
		Category:  strings.TrimSpace(in.Category),
		Img:       img,
		UserAd:    in.UserAd,
		CreatedAt: u.clock.Now(),
	}
	if err := u.products.Create(ctx, p); err != nil {
		return model.Product{}, internalError(ctx, err, "create product")
	}
	return p, nil
}

// 無くても成功
func (u *ProductUsecase) Delete(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := u.products.Delete(ctx, productID); err != nil {
		return internalError(ctx, err, "delete product")
	}
	return nil
}

// 管理者の削除。監査ログを残すので対象が無ければ404
func (u *ProductUsecase) AdminDelete(ctx context.Context, actorAdminUserID string, productID string) error {
	if actorAdminUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		if err != nil {
			return internalError(ctx, err, "find product")
		}

		if err := r.Products().Delete(ctx, productID); err != nil {
			return internalError(ctx, err, "delete product")
		}

		before, _ := json.Marshal(p)
		return writeAudit(ctx, r, u.idGen.NewID(), model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   string(before),
			AfterJSON:    "null",
			CreatedAt:    u.clock.Now(),
		})
	})
}
