package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

type FavouriteGormRepository struct {
	db *gorm.DB
}

func NewFavouriteGormRepository(db *gorm.DB) *FavouriteGormRepository {
	return &FavouriteGormRepository{db: db}
}

// 登録済みなら何もしない（ユニーク制約に任せる）
func (r *FavouriteGormRepository) Add(ctx context.Context, fav model.Favourite) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
}

func (r *FavouriteGormRepository) Remove(ctx context.Context, userID int64, kind model.ProductKind, variantID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_kind = ? AND variant_id = ?", userID, kind, variantID).
		Delete(&model.Favourite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *FavouriteGormRepository) ListByUser(ctx context.Context, userID int64) ([]model.Favourite, error) {
	var favs []model.Favourite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	return favs, nil
}

var _ repo.FavouriteRepository = (*FavouriteGormRepository)(nil)
