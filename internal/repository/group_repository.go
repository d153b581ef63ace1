package repository

import (
	"context"

	"ekathu/internal/domain/model"
)

type GroupRepository interface {
	Create(ctx context.Context, g model.Group) error
	FindByID(ctx context.Context, groupID string) (model.Group, error)
	// 読んだ時点の version と一致するときだけ members/status を書き換える。
	// 一致しなければ ErrVersionConflict。成功すると version は +1 される
	UpdateMembers(ctx context.Context, g model.Group, expectedVersion int64) error
}
