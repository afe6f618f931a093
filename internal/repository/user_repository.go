package repository

import (
	"context"

	"tyretrust/internal/domain/model"
)

type UserListQuery struct {
	Page  int
	Limit int
	Q     string
}

// ユーザーの保存・取得を約束
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// アクティブ状態・ロール・最終ログインなどの更新
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
	//管理者用の一覧
	List(ctx context.Context, q UserListQuery) ([]model.User, int64, error)
}
