package model

import "time"

//在庫調整の履歴（管理者による手動変更の差分）

type InventoryAdjustment struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductKind ProductKind `gorm:"type:varchar(10);not null;index:idx_adjustment_product" json:"product_kind"`
	VariantID   int64       `gorm:"not null;index:idx_adjustment_product" json:"variant_id"`
	AdminUserID int64       `gorm:"not null;index" json:"admin_user_id"`
	Delta       int64       `gorm:"not null" json:"delta"`
	Reason      string      `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
