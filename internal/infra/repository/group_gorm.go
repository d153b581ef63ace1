package repository

import (
	"context"
	"errors"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"gorm.io/gorm"
)

type GroupGormRepository struct {
	db *gorm.DB
}

func NewGroupGormRepository(db *gorm.DB) *GroupGormRepository {
	return &GroupGormRepository{db: db}
}

func (r *GroupGormRepository) Create(ctx context.Context, g model.Group) error {
	return r.db.WithContext(ctx).Create(&g).Error
}

func (r *GroupGormRepository) FindByID(ctx context.Context, groupID string) (model.Group, error) {
	var g model.Group
	err := r.db.WithContext(ctx).Where("id = ?", groupID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Group{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Group{}, err
	}
	return g, nil
}

// version が読んだときのままなら更新（楽観ロック）
func (r *GroupGormRepository) UpdateMembers(ctx context.Context, g model.Group, expectedVersion int64) error {
	next := g
	next.Version = expectedVersion + 1

	res := r.db.WithContext(ctx).
		Model(&model.Group{ID: g.ID}).
		Where("version = ?", expectedVersion).
		Select("members", "status", "version").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// 0件なら「無い」のか「先を越された」のかを見分ける
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Group{}).Where("id = ?", g.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return repo.ErrVersionConflict
}
