package repository

import (
	"context"
	"fmt"

	repo "ekathu/internal/repository"

	"gorm.io/gorm"
)

// PostgreSQL(GORM) のストア
type GormStore struct {
	*txReposGorm
	*TxManagerGorm

	db *gorm.DB
}

var _ repo.Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		txReposGorm:   newTxReposGorm(db, false),
		TxManagerGorm: NewTxManagerGorm(db),
		db:            db,
	}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}
