package auth

import (
	"context"
	"errors"

	"ekathu/internal/domain/model"
)

// 起動時の管理者作成の入力
type EnsureAdminInput struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin は管理者アカウントが無ければ作る。
// 既にあればそのまま（パスワードやロールは変えない）。作ったら true。
func (u *RegisterUserUsecase) EnsureAdmin(ctx context.Context, in EnsureAdminInput) (bool, error) {
	_, err := u.create(ctx, RegisterUserInput(in), model.RoleAdmin)
	if errors.Is(err, ErrEmailAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
