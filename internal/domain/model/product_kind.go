package model

import "github.com/shopspring/decimal"

// 商品種別（タイヤ / ホイール）
type ProductKind string

const (
	ProductKindTyre ProductKind = "tyre"
	ProductKindRim  ProductKind = "rim"
)

func (k ProductKind) Valid() bool {
	return k == ProductKindTyre || k == ProductKindRim
}

// Variant はカタログ側の購入可能SKUを種別共通で見るためのビュー。
// tyre_variants / rim_variants のどちらかから作られる。
// price / stock は常にDBの現在値（1リクエストを越えてキャッシュしない）。
type Variant struct {
	Kind    ProductKind     `json:"kind"`
	ID      int64           `json:"id"`
	ModelID int64           `json:"model_id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int64           `json:"stock"`
}

func (v Variant) InStock() bool {
	return v.Stock > 0
}

func (v Variant) CanOrder(qty int64) bool {
	return v.Stock >= qty
}
