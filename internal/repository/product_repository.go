package repository

import (
	"context"

	"ekathu/internal/domain/model"
)

// 一覧検索
// Search は商品名の部分一致（大文字小文字無視・正規表現としては扱わない）
// Category は空または "All" なら絞り込まない
type ProductSearchQuery struct {
	Search   string
	Category string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// 新しい順
	Search(ctx context.Context, q ProductSearchQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	// IDからまとめて取得。見つからないIDは結果に含めない
	FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error)

	Create(ctx context.Context, p model.Product) error
	// 存在しなくてもエラーにしない
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
