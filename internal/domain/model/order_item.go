package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。商品参照は (kind, product_id) のタグ付きペアで、
// タイヤかホイールのどちらか一方しか指せない。
// 名前と単価は確定時点のスナップショットを直接持つので、
// 商品が後から削除されても注文履歴は消えない。
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductKind         ProductKind     `gorm:"type:varchar(10);not null;index:idx_order_item_product" json:"product_kind"`
	ProductID           int64           `gorm:"not null;index:idx_order_item_product" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price_snapshot"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 明細の小計
func (it OrderItem) Cost() decimal.Decimal {
	return it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity))
}
