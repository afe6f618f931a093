package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TyreSeason string

const (
	SeasonSummer    TyreSeason = "summer"
	SeasonWinter    TyreSeason = "winter"
	SeasonAllSeason TyreSeason = "all_season"
)

func (s TyreSeason) Valid() bool {
	switch s {
	case SeasonSummer, SeasonWinter, SeasonAllSeason:
		return true
	}
	return false
}

// タイヤのモデル（ブランド＋商品名のまとまり）
type TyreModel struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Brand       string        `gorm:"type:varchar(100);not null;index:idx_tyre_brand_name" json:"brand"`
	Name        string        `gorm:"type:varchar(200);not null;index:idx_tyre_brand_name" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	ImageURL    string        `gorm:"type:varchar(500)" json:"image_url"`
	Variants    []TyreVariant `gorm:"foreignKey:TyreModelID" json:"variants,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 購入可能なタイヤのSKU（サイズ・季節・価格・在庫）
// stock >= 0、priceは小数2桁のnumeric。
type TyreVariant struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TyreModelID int64           `gorm:"not null;index" json:"tyre_model_id"`
	Width       int             `gorm:"not null;index:idx_tyre_size" json:"width"`
	Profile     int             `gorm:"not null;index:idx_tyre_size" json:"profile"`
	Radius      int             `gorm:"not null;index:idx_tyre_size" json:"radius"`
	Season      TyreSeason      `gorm:"type:varchar(20);not null;index" json:"season"`
	Studded     bool            `gorm:"not null;default:false" json:"studded"`
	SpeedIndex  string          `gorm:"type:varchar(4);not null" json:"speed_index"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;index" json:"price"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 表示名（例: Michelin X-Ice 205/55 R16 H）
func (v TyreVariant) DisplayName(m TyreModel) string {
	return fmt.Sprintf("%s %s %d/%d R%d %s", m.Brand, m.Name, v.Width, v.Profile, v.Radius, v.SpeedIndex)
}

func (v TyreVariant) AsVariant(m TyreModel) Variant {
	return Variant{
		Kind:    ProductKindTyre,
		ID:      v.ID,
		ModelID: v.TyreModelID,
		Name:    v.DisplayName(m),
		Price:   v.Price,
		Stock:   v.Stock,
	}
}
