package repository

import (
	"context"

	"ekathu/internal/domain/model"
)

//監査ログの絞り込み条件。

type AuditLogFilter struct {
	ActorUserID  string
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   string
	Limit        int
	Offset       int
}

// 監査ログの保存・一覧取得の約束。
type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//監査ログを条件で一覧取得。新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}

// limit は 1..200（既定50）、offset は 0 以上にそろえる
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
