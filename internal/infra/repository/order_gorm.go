package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Order{}, repo.ErrNotFound
		}
		return model.Order{}, err
	}
	return order, nil
}

// 新しい注文が先
func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var orders []model.Order
	offset := (page - 1) * limit
	err := base.Order("created_at desc, id desc").Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return []model.Order{}, 0, err
	}
	return orders, total, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Order{}, orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Order{}, false, nil
		}
		return model.Order{}, false, err
	}
	return order, true, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Order{})

	if f.Status != "" {
		base = base.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		base = base.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		base = base.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		base = base.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var orders []model.Order
	offset := (f.Page - 1) * f.Limit
	err := base.Order("created_at desc, id desc").Limit(f.Limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return []model.Order{}, 0, err
	}
	return orders, total, nil
}

var _ repo.OrderRepository = (*OrderGormRepository)(nil)
