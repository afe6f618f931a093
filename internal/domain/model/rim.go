package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ホイール（ディスク）のモデル
type RimModel struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Brand       string       `gorm:"type:varchar(100);not null;index:idx_rim_brand_name" json:"brand"`
	Name        string       `gorm:"type:varchar(200);not null;index:idx_rim_brand_name" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	ImageURL    string       `gorm:"type:varchar(500)" json:"image_url"`
	Variants    []RimVariant `gorm:"foreignKey:RimModelID" json:"variants,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 購入可能なホイールのSKU
type RimVariant struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RimModelID  int64           `gorm:"not null;index" json:"rim_model_id"`
	Diameter    float64         `gorm:"not null;index" json:"diameter"`
	Width       float64         `gorm:"not null" json:"width"`
	BoltPattern string          `gorm:"type:varchar(20);not null;index" json:"bolt_pattern"`
	Offset      string          `gorm:"type:varchar(10);not null" json:"offset"`
	Dia         string          `gorm:"type:varchar(10);not null" json:"dia"`
	Color       string          `gorm:"type:varchar(100)" json:"color"`
	Material    string          `gorm:"type:varchar(50)" json:"material"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;index" json:"price"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 表示名（例: BBS CH-R R18 8x18 5x112）
func (v RimVariant) DisplayName(m RimModel) string {
	return fmt.Sprintf("%s %s R%g %gx%g %s", m.Brand, m.Name, v.Diameter, v.Width, v.Diameter, v.BoltPattern)
}

func (v RimVariant) AsVariant(m RimModel) Variant {
	return Variant{
		Kind:    ProductKindRim,
		ID:      v.ID,
		ModelID: v.RimModelID,
		Name:    v.DisplayName(m),
		Price:   v.Price,
		Stock:   v.Stock,
	}
}
