package repository

import (
	"context"
	"errors"
	"strings"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 名前の部分一致とカテゴリで絞り込み、新しい順で返す。
func (r *ProductGormRepository) Search(ctx context.Context, q repo.ProductSearchQuery) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{})

	// q nameを対象。% と _ は文字として扱う
	if s := strings.TrimSpace(q.Search); s != "" {
		tx = tx.Where("name ILIKE ?", "%"+escapeLike(s)+"%")
	}

	if c := strings.TrimSpace(q.Category); c != "" && c != model.CategoryAll {
		tx = tx.Where("category = ?", c)
	}

	products := []model.Product{}
	if err := tx.Order("created_at desc").Order("id desc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	out := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) error {
	return r.db.WithContext(ctx).Create(&p).Error
}

// 商品削除（無くてもOK）
func (r *ProductGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
