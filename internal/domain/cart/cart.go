// Package cart はセッション常駐のカートを純粋な値型として持つ。
// I/Oは一切せず、永続化はセッションストア側（repository.CartSessionStore）に任せる。
package cart

import (
	"github.com/shopspring/decimal"

	"tyretrust/internal/domain/model"
)

// カートの1行。(kind, product_id) ごとに最大1行。
// UnitPrice は追加時点の価格スナップショット。表示時は
// カタログの現在値で引き直すが、商品が消えた場合のフォールバックとして残す。
type Line struct {
	Kind      model.ProductKind `json:"kind"`
	ProductID int64             `json:"product_id"`
	Quantity  int64             `json:"quantity"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
}

func (l Line) TotalPrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart は挿入順を保つ行のリスト。JSONでセッションストアに丸ごと入る。
type Cart struct {
	Lines []Line `json:"lines"`
}

func New() Cart {
	return Cart{Lines: []Line{}}
}

func (c *Cart) find(kind model.ProductKind, productID int64) *Line {
	for i := range c.Lines {
		if c.Lines[i].Kind == kind && c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Add は行を追加または数量変更する。
// updateQuantity=true なら qty をそのまま設定、false なら既存数量に加算。
// 初回追加時は数量0の行を作ってから加算する。確定数量が1未満になったら1に丸める。
func (c *Cart) Add(kind model.ProductKind, productID int64, qty int64, unitPrice decimal.Decimal, updateQuantity bool) {
	l := c.find(kind, productID)
	if l == nil {
		c.Lines = append(c.Lines, Line{
			Kind:      kind,
			ProductID: productID,
			Quantity:  0,
			UnitPrice: unitPrice,
		})
		l = &c.Lines[len(c.Lines)-1]
	}

	if updateQuantity {
		l.Quantity = qty
	} else {
		l.Quantity += qty
	}

	//不正入力は拒否せず1に丸める
	if l.Quantity < 1 {
		l.Quantity = 1
	}
}

// Remove は行を削除する。無ければ何もしない（エラーにもしない）。
func (c *Cart) Remove(kind model.ProductKind, productID int64) {
	for i := range c.Lines {
		if c.Lines[i].Kind == kind && c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) Len() int {
	return len(c.Lines)
}

// 全行の数量合計
func (c Cart) TotalQuantity() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.Quantity
	}
	return sum
}

// 保存済みスナップショット価格での合計。
// 表示用の合計はカタログの現在値から別途計算される点に注意。
func (c Cart) TotalPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.TotalPrice())
	}
	return sum
}

// 種別ごとの商品IDを挿入順で返す（カタログの一括取得用）。
func (c Cart) ProductIDsByKind() map[model.ProductKind][]int64 {
	out := make(map[model.ProductKind][]int64)
	for _, l := range c.Lines {
		out[l.Kind] = append(out[l.Kind], l.ProductID)
	}
	return out
}
