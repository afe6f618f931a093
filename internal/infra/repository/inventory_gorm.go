package repository

import (
	"context"

	"gorm.io/gorm"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) variantModel(kind model.ProductKind) interface{} {
	if kind == model.ProductKindRim {
		return &model.RimVariant{}
	}
	return &model.TyreVariant{}
}

func (r *InventoryGormRepository) SetStock(ctx context.Context, kind model.ProductKind, variantID int64, newStock int64) error {
	res := r.db.WithContext(ctx).Model(r.variantModel(kind)).
		Where("id = ?", variantID).
		Update("stock", newStock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件付きUPDATEで在庫を減らす。更新0行 = 在庫不足か対象なし。
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, kind model.ProductKind, variantID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(r.variantModel(kind)).
		Where("id = ? AND stock >= ?", variantID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, kind model.ProductKind, variantID int64, qty int64) error {
	res := r.db.WithContext(ctx).Model(r.variantModel(kind)).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(&adjustment).Error
}

var _ repo.InventoryRepository = (*InventoryGormRepository)(nil)
