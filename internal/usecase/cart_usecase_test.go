package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
	"tyretrust/internal/usecase"
)

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func tyreVariant(id int64, name string, p string, stock int64) model.Variant {
	return model.Variant{
		Kind:  model.ProductKindTyre,
		ID:    id,
		Name:  name,
		Price: price(p),
		Stock: stock,
	}
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
}

func TestCartUsecase_AddToCart_Success(t *testing.T) {
	sessions := newFakeSessionStore()
	catalog := new(CatalogRepoMock)
	uc := usecase.NewCartUsecase(sessions, catalog)

	v := tyreVariant(10, "Blizzak WS90 205/55R16", "7500.00", 20)
	catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(v, nil)
	catalog.On("ListVariantsByIDs", mock.Anything, model.ProductKindTyre, []int64{10}).
		Return([]model.Variant{v}, nil)

	res, err := uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind:      model.ProductKindTyre,
		ProductID: 10,
		Quantity:  4,
	})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(4), res.Items[0].Quantity)
	assert.True(t, res.Total.Equal(price("30000.00")), "got %s", res.Total)
	assert.True(t, sessions.has("sess-1"))
	catalog.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_InvalidKind(t *testing.T) {
	sessions := newFakeSessionStore()
	uc := usecase.NewCartUsecase(sessions, new(CatalogRepoMock))

	_, err := uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind:      "engine",
		ProductID: 10,
		Quantity:  1,
	})
	assertHTTPStatus(t, err, 400)
}

func TestCartUsecase_AddToCart_ProductNotFound(t *testing.T) {
	sessions := newFakeSessionStore()
	catalog := new(CatalogRepoMock)
	uc := usecase.NewCartUsecase(sessions, catalog)

	catalog.On("FindVariant", mock.Anything, model.ProductKindRim, int64(99)).
		Return(model.Variant{}, repo.ErrNotFound)

	_, err := uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind:      model.ProductKindRim,
		ProductID: 99,
		Quantity:  1,
	})
	assertHTTPStatus(t, err, 404)
	assert.False(t, sessions.has("sess-1"))
}

func TestCartUsecase_AddToCart_NotEnoughStock(t *testing.T) {
	sessions := newFakeSessionStore()
	catalog := new(CatalogRepoMock)
	uc := usecase.NewCartUsecase(sessions, catalog)

	v := tyreVariant(10, "Blizzak WS90 205/55R16", "7500.00", 3)
	catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(v, nil)

	_, err := uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind:      model.ProductKindTyre,
		ProductID: 10,
		Quantity:  4,
	})
	assertHTTPStatus(t, err, 409)
	assert.Contains(t, err.Error(), "only 3 left in stock")
	// 拒否時はカートを書き換えない
	assert.False(t, sessions.has("sess-1"))
}

func TestCartUsecase_AddToCart_AccumulateHitsStockLimit(t *testing.T) {
	sessions := newFakeSessionStore()
	catalog := new(CatalogRepoMock)
	uc := usecase.NewCartUsecase(sessions, catalog)

	v := tyreVariant(10, "Blizzak WS90 205/55R16", "7500.00", 4)
	catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(v, nil)
	catalog.On("ListVariantsByIDs", mock.Anything, model.ProductKindTyre, []int64{10}).
		Return([]model.Variant{v}, nil)

	_, err := uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind: model.ProductKindTyre, ProductID: 10, Quantity: 3,
	})
	require.NoError(t, err)

	// 既存3 + 追加2 = 5 > 在庫4 で拒否。既存の3本は残る。
	_, err = uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind: model.ProductKindTyre, ProductID: 10, Quantity: 2,
	})
	assertHTTPStatus(t, err, 409)

	res, err := uc.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(3), res.Items[0].Quantity)
}

func TestCartUsecase_AddToCart_ClampsQuantity(t *testing.T) {
	sessions := newFakeSessionStore()
	catalog := new(CatalogRepoMock)
	uc := usecase.NewCartUsecase(sessions, catalog)

	v := tyreVariant(10, "Blizzak WS90 205/55R16", "7500.00", 20)
	catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(v, nil)
	catalog.On("ListVariantsByIDs", mock.Anything, model.ProductKindTyre, []int64{10}).
		Return([]model.Variant{v}, nil)

	res, err := uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind:      model.ProductKindTyre,
		ProductID: 10,
		Quantity:  -5,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(1), res.Items[0].Quantity)
}

func TestCartUsecase_GetCart_UsesLivePrices(t *testing.T) {
	sessions := newFakeSessionStore()
	catalog := new(CatalogRepoMock)
	uc := usecase.NewCartUsecase(sessions, catalog)

	old := tyreVariant(10, "Blizzak WS90 205/55R16", "10000.00", 20)
	catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(old, nil).Once()
	catalog.On("ListVariantsByIDs", mock.Anything, model.ProductKindTyre, []int64{10}).
		Return([]model.Variant{old}, nil).Once()

	_, err := uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind: model.ProductKindTyre, ProductID: 10, Quantity: 2,
	})
	require.NoError(t, err)

	// 値上げ後の再表示。表示合計は現在値、スナップショット合計は追加時点のまま。
	raised := tyreVariant(10, "Blizzak WS90 205/55R16", "12000.00", 20)
	catalog.On("ListVariantsByIDs", mock.Anything, model.ProductKindTyre, []int64{10}).
		Return([]model.Variant{raised}, nil).Once()

	res, err := uc.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].UnitPrice.Equal(price("12000.00")))
	assert.True(t, res.Total.Equal(price("24000.00")), "got %s", res.Total)
	assert.True(t, res.SnapshotTotal.Equal(price("20000.00")), "got %s", res.SnapshotTotal)
}

func TestCartUsecase_GetCart_DropsDeletedProducts(t *testing.T) {
	sessions := newFakeSessionStore()
	catalog := new(CatalogRepoMock)
	uc := usecase.NewCartUsecase(sessions, catalog)

	v := tyreVariant(10, "Blizzak WS90 205/55R16", "7500.00", 20)
	catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(v, nil).Once()
	catalog.On("ListVariantsByIDs", mock.Anything, model.ProductKindTyre, []int64{10}).
		Return([]model.Variant{v}, nil).Once()

	_, err := uc.AddToCart(context.Background(), "sess-1", usecase.AddCartInput{
		Kind: model.ProductKindTyre, ProductID: 10, Quantity: 2,
	})
	require.NoError(t, err)

	// 商品が消えたら表示から落とすが、行自体は残しておく
	catalog.On("ListVariantsByIDs", mock.Anything, model.ProductKindTyre, []int64{10}).
		Return([]model.Variant{}, nil).Once()

	res, err := uc.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(2), res.TotalQuantity)
	assert.True(t, res.Total.Equal(decimal.Zero))
}

func TestCartUsecase_RemoveFromCart_AbsentIsNoop(t *testing.T) {
	sessions := newFakeSessionStore()
	catalog := new(CatalogRepoMock)
	uc := usecase.NewCartUsecase(sessions, catalog)

	res, err := uc.RemoveFromCart(context.Background(), "sess-1", model.ProductKindTyre, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	// セッションが無ければ書き込みもしない
	assert.False(t, sessions.has("sess-1"))
}

func TestCartUsecase_ClearCart_Idempotent(t *testing.T) {
	sessions := newFakeSessionStore()
	uc := usecase.NewCartUsecase(sessions, new(CatalogRepoMock))

	require.NoError(t, uc.ClearCart(context.Background(), "sess-1"))
	require.NoError(t, uc.ClearCart(context.Background(), "sess-1"))
}
