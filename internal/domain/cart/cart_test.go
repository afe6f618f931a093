package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tyretrust/internal/domain/cart"
	"tyretrust/internal/domain/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCart_Add_Accumulates(t *testing.T) {
	c := cart.New()

	c.Add(model.ProductKindTyre, 1, 2, d("10000.00"), false)
	c.Add(model.ProductKindTyre, 1, 3, d("10000.00"), false)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(5), c.Lines[0].Quantity)
}

func TestCart_Add_OverwritesWhenUpdateQuantity(t *testing.T) {
	c := cart.New()

	c.Add(model.ProductKindTyre, 1, 2, d("10000.00"), false)
	c.Add(model.ProductKindTyre, 1, 7, d("10000.00"), true)

	assert.Equal(t, int64(7), c.Lines[0].Quantity)
}

// 数量が1未満になったら1に丸める
func TestCart_Add_ClampsQuantityToOne(t *testing.T) {
	c := cart.New()

	c.Add(model.ProductKindTyre, 1, 0, d("10000.00"), true)
	assert.Equal(t, int64(1), c.Lines[0].Quantity)

	c.Add(model.ProductKindTyre, 1, -5, d("10000.00"), true)
	assert.Equal(t, int64(1), c.Lines[0].Quantity)

	c.Add(model.ProductKindRim, 2, -1, d("45000.00"), false)
	assert.Equal(t, int64(1), c.Lines[1].Quantity)
}

// 種別が違えば同じIDでも別の行
func TestCart_Add_KindsAreSeparateLines(t *testing.T) {
	c := cart.New()

	c.Add(model.ProductKindTyre, 1, 1, d("10000.00"), false)
	c.Add(model.ProductKindRim, 1, 1, d("45000.00"), false)

	assert.Equal(t, 2, c.Len())
}

func TestCart_Remove_AbsentIsNoop(t *testing.T) {
	c := cart.New()
	c.Add(model.ProductKindTyre, 1, 2, d("10000.00"), false)

	c.Remove(model.ProductKindTyre, 999)
	c.Remove(model.ProductKindRim, 1)

	assert.Equal(t, 1, c.Len())
}

func TestCart_Remove_DeletesLine(t *testing.T) {
	c := cart.New()
	c.Add(model.ProductKindTyre, 1, 2, d("10000.00"), false)
	c.Add(model.ProductKindRim, 2, 1, d("45000.00"), false)

	c.Remove(model.ProductKindTyre, 1)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, model.ProductKindRim, c.Lines[0].Kind)
}

func TestCart_Clear_Idempotent(t *testing.T) {
	c := cart.New()
	c.Add(model.ProductKindTyre, 1, 2, d("10000.00"), false)

	c.Clear()
	assert.True(t, c.IsEmpty())

	c.Clear()
	assert.True(t, c.IsEmpty())
}

// 保存スナップショットでの合計: 10000.00×2 + 45000.00×1 = 65000.00, 数量3
func TestCart_Totals(t *testing.T) {
	c := cart.New()
	c.Add(model.ProductKindTyre, 1, 2, d("10000.00"), false)
	c.Add(model.ProductKindRim, 5, 1, d("45000.00"), false)

	assert.True(t, c.TotalPrice().Equal(d("65000.00")))
	assert.Equal(t, int64(3), c.TotalQuantity())
}

// 行は挿入順を保つ
func TestCart_InsertionOrder(t *testing.T) {
	c := cart.New()
	c.Add(model.ProductKindRim, 3, 1, d("45000.00"), false)
	c.Add(model.ProductKindTyre, 1, 1, d("10000.00"), false)
	c.Add(model.ProductKindTyre, 2, 1, d("12000.00"), false)

	//途中の数量変更で順序は変わらない
	c.Add(model.ProductKindTyre, 1, 4, d("10000.00"), true)

	assert.Equal(t, int64(3), c.Lines[0].ProductID)
	assert.Equal(t, int64(1), c.Lines[1].ProductID)
	assert.Equal(t, int64(2), c.Lines[2].ProductID)
}

func TestCart_ProductIDsByKind(t *testing.T) {
	c := cart.New()
	c.Add(model.ProductKindTyre, 1, 1, d("10000.00"), false)
	c.Add(model.ProductKindRim, 5, 1, d("45000.00"), false)
	c.Add(model.ProductKindTyre, 2, 1, d("12000.00"), false)

	byKind := c.ProductIDsByKind()
	assert.Equal(t, []int64{1, 2}, byKind[model.ProductKindTyre])
	assert.Equal(t, []int64{5}, byKind[model.ProductKindRim])
}
