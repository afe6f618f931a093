package model

import "time"

// ユーザーのお気に入りSKU。(user, kind, variant) で一意。
type Favourite struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;uniqueIndex:idx_fav_user_variant" json:"user_id"`
	ProductKind ProductKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_fav_user_variant" json:"product_kind"`
	VariantID   int64       `gorm:"not null;uniqueIndex:idx_fav_user_variant" json:"variant_id"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
