package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// 管理者向けの会員操作。
type AdminUserUsecase struct {
	users repo.UserRepository
	audit repo.AuditLogRepository
}

func NewAdminUserUsecase(users repo.UserRepository, audit repo.AuditLogRepository) *AdminUserUsecase {
	return &AdminUserUsecase{users: users, audit: audit}
}

type AdminUserListInput struct {
	Page  int
	Limit int
	Q     string
}

type AdminUserListOutput struct {
	Items []UserDTO `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

func (u *AdminUserUsecase) List(ctx context.Context, in AdminUserListInput) (AdminUserListOutput, error) {
	if in.Page < 1 {
		return AdminUserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return AdminUserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return AdminUserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid q")
	}

	users, total, err := u.users.List(ctx, repo.UserListQuery{Page: in.Page, Limit: in.Limit, Q: in.Q})
	if err != nil {
		return AdminUserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]UserDTO, 0, len(users))
	for i := range users {
		items = append(items, toUserDTO(&users[i]))
	}
	return AdminUserListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// SetActive は会員の有効・停止を切り替える。自分自身の停止は不可。
func (u *AdminUserUsecase) SetActive(ctx context.Context, adminUserID int64, targetUserID int64, active bool) (UserDTO, error) {
	if adminUserID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if targetUserID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	if targetUserID == adminUserID && !active {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "cannot deactivate yourself")
	}

	user, err := u.users.FindByID(ctx, targetUserID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if user.IsActive == active {
		return toUserDTO(user), nil
	}

	before := user.IsActive
	user.IsActive = active
	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//監査ログ
	beforeJSON, _ := json.Marshal(map[string]bool{"is_active": before})
	afterJSON, _ := json.Marshal(map[string]bool{"is_active": active})
	_ = u.audit.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateUser,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetUserID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
	})

	return toUserDTO(user), nil
}
