package usecase

import (
	"context"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"
)

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, internalError(ctx, err, "list audit logs")
	}
	return logs, nil
}

// 監査ログを作成
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す
func writeAudit(ctx context.Context, r repo.TxRepos, id string, entry model.AuditLog) error {
	entry.ID = id
	if err := r.AuditLogs().Create(ctx, entry); err != nil {
		return internalError(ctx, err, "create audit log")
	}
	return nil
}
