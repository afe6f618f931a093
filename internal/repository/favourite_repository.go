package repository

import (
	"context"

	"tyretrust/internal/domain/model"
)

// お気に入りの保存・削除・一覧。
type FavouriteRepository interface {
	// 既に登録済みなら何もしない
	Add(ctx context.Context, fav model.Favourite) error
	Remove(ctx context.Context, userID int64, kind model.ProductKind, variantID int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Favourite, error)
}
