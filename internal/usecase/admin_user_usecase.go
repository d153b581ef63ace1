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

type AdminUserUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
	idGen IDGenerator
	clock Clock
}

func NewAdminUserUsecase(tx repo.TransactionManager, users repo.UserRepository, idGen IDGenerator, clock Clock) *AdminUserUsecase {
	return &AdminUserUsecase{tx: tx, users: users, idGen: idGen, clock: clock}
}

// パスワードハッシュは json:"-" なので出ない
func (u *AdminUserUsecase) List(ctx context.Context) ([]model.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, internalError(ctx, err, "list users")
	}
	return users, nil
}

// ユーザーとそのカートを消す。自分自身は消せない
func (u *AdminUserUsecase) Delete(ctx context.Context, actorAdminUserID string, userID string) error {
	if actorAdminUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(userID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if userID == actorAdminUserID {
		return NewHTTPError(http.StatusBadRequest, "cannot delete yourself")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		target, err := r.Users().FindByID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "User not found")
		}
		if err != nil {
			return internalError(ctx, err, "find user")
		}

		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return internalError(ctx, err, "clear cart")
		}
		if err := r.Users().Delete(ctx, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "User not found")
			}
			return internalError(ctx, err, "delete user")
		}

		before, _ := json.Marshal(target)
		return writeAudit(ctx, r, u.idGen.NewID(), model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionDeleteUser,
			ResourceType: model.AuditResourceUser,
			ResourceID:   userID,
			BeforeJSON:   string(before),
			AfterJSON:    "null",
			CreatedAt:    u.clock.Now(),
		})
	})
}
