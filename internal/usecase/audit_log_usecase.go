package usecase

import (
	"context"
	"net/http"
	"time"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// 監査ログの閲覧（管理者のみ）。
type AuditLogUsecase struct {
	audit repo.AuditLogRepository
}

func NewAuditLogUsecase(audit repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{audit: audit}
}

type AuditLogListInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

func (u *AuditLogUsecase) List(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	if in.Limit < 0 || in.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid paging")
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		f.ResourceType = &rt
	}

	logs, err := u.audit.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}
