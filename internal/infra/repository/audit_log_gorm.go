package repository

import (
	"context"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}

func (r *auditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.ActorUserID != "" {
		q = q.Where("actor_user_id = ?", filter.ActorUserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		q = q.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		q = q.Where("resource_id = ?", filter.ResourceID)
	}

	//新しい順
	q = q.Order("created_at DESC").Order("id DESC")

	// limit/offset
	limit, offset := repo.NormalizePage(filter.Limit, filter.Offset)
	q = q.Limit(limit).Offset(offset)

	logs := []model.AuditLog{}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
