package repository

import (
	"context"

	"ekathu/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。メール重複は ErrDuplicate
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 新しい順
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
}
