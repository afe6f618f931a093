package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tyretrust/internal/domain/cart"
	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
	"tyretrust/internal/usecase"
	"tyretrust/internal/validator"
)

func validShipping() usecase.ShippingForm {
	return usecase.ShippingForm{
		FirstName:  "Ivan",
		LastName:   "Petrov",
		Email:      "ivan@example.com",
		Phone:      "+79161234567",
		Address:    "Lenina st. 10, apt 5",
		PostalCode: "101000",
		City:       "Moscow",
	}
}

type orderTestEnv struct {
	sessions  *fakeSessionStore
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	catalog   *CatalogRepoMock
	inventory *InventoryRepoMock
	uc        *usecase.OrderUsecase
}

func newOrderTestEnv() *orderTestEnv {
	env := &orderTestEnv{
		sessions:  newFakeSessionStore(),
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		catalog:   new(CatalogRepoMock),
		inventory: new(InventoryRepoMock),
	}
	tx := &fakeTxManager{repos: fakeTxRepos{
		orders:     env.orders,
		orderItems: env.items,
		catalog:    env.catalog,
		inventory:  env.inventory,
	}}
	env.uc = usecase.NewOrderUsecase(tx, env.sessions, env.orders, env.items,
		validator.NewOrderValidator(), slog.New(slog.DiscardHandler))
	return env
}

// セッションに直接カートを積んでおくヘルパー
func (e *orderTestEnv) seedCart(t *testing.T, sessionID string, lines ...cart.Line) {
	t.Helper()
	c := cart.New()
	for _, l := range lines {
		c.Add(l.Kind, l.ProductID, l.Quantity, l.UnitPrice, true)
	}
	require.NoError(t, e.sessions.Save(context.Background(), sessionID, c))
}

func TestOrderUsecase_PlaceOrder_InvalidPhone(t *testing.T) {
	env := newOrderTestEnv()
	env.seedCart(t, "sess-1", cart.Line{Kind: model.ProductKindTyre, ProductID: 10, Quantity: 4, UnitPrice: price("7500.00")})

	form := validShipping()
	form.Phone = "12345"

	_, err := env.uc.PlaceOrder(context.Background(), 1, "sess-1", usecase.PlaceOrderInput{Shipping: form})
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "invalid phone number", he.Fields["phone"])

	// 注文は作られず、カートも残る
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.True(t, env.sessions.has("sess-1"))
}

func TestOrderUsecase_PlaceOrder_InvalidAddress(t *testing.T) {
	env := newOrderTestEnv()
	env.seedCart(t, "sess-1", cart.Line{Kind: model.ProductKindTyre, ProductID: 10, Quantity: 4, UnitPrice: price("7500.00")})

	form := validShipping()
	form.Address = "12345"

	_, err := env.uc.PlaceOrder(context.Background(), 1, "sess-1", usecase.PlaceOrderInput{Shipping: form})
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid address", he.Fields["address"])
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	env := newOrderTestEnv()

	_, err := env.uc.PlaceOrder(context.Background(), 1, "sess-1", usecase.PlaceOrderInput{Shipping: validShipping()})
	assertHTTPStatus(t, err, 400)
	assert.Contains(t, err.Error(), "cart empty")
}

func TestOrderUsecase_PlaceOrder_Unauthorized(t *testing.T) {
	env := newOrderTestEnv()

	_, err := env.uc.PlaceOrder(context.Background(), 0, "sess-1", usecase.PlaceOrderInput{Shipping: validShipping()})
	assertHTTPStatus(t, err, 401)
}

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	env := newOrderTestEnv()
	env.seedCart(t, "sess-1",
		cart.Line{Kind: model.ProductKindTyre, ProductID: 10, Quantity: 4, UnitPrice: price("7000.00")},
		cart.Line{Kind: model.ProductKindRim, ProductID: 3, Quantity: 4, UnitPrice: price("12000.00")},
	)

	tyre := tyreVariant(10, "Blizzak WS90 205/55R16", "7500.00", 10)
	rim := model.Variant{Kind: model.ProductKindRim, ID: 3, Name: "Enkei RPF1 16x7", Price: price("12000.00"), Stock: 8}
	env.catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(tyre, nil)
	env.catalog.On("FindVariant", mock.Anything, model.ProductKindRim, int64(3)).Return(rim, nil)
	env.inventory.On("DecreaseStockIfEnough", mock.Anything, model.ProductKindTyre, int64(10), int64(4)).Return(true, nil)
	env.inventory.On("DecreaseStockIfEnough", mock.Anything, model.ProductKindRim, int64(3), int64(4)).Return(true, nil)

	env.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		// 合計は確定時点の現在値ベース: 4*7500 + 4*12000 = 78000
		return o.UserID == 1 && o.Status == model.OrderStatusNew && o.TotalPrice.Equal(price("78000.00"))
	})).Return(int64(55), nil)
	env.items.On("CreateBulk", mock.Anything, int64(55), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 && items[0].ProductNameSnapshot == "Blizzak WS90 205/55R16"
	})).Return(nil)

	out, err := env.uc.PlaceOrder(context.Background(), 1, "sess-1", usecase.PlaceOrderInput{Shipping: validShipping()})
	require.NoError(t, err)

	assert.Equal(t, int64(55), out.ID)
	assert.Equal(t, "new", out.Status)
	require.Len(t, out.Items, 2)
	assert.True(t, out.Items[0].UnitPrice.Equal(price("7500.00")))

	// コミット後にカートは消える
	assert.False(t, env.sessions.has("sess-1"))
	env.orders.AssertExpectations(t)
	env.items.AssertExpectations(t)
	env.inventory.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_NotEnoughStockAbortsWholeOrder(t *testing.T) {
	env := newOrderTestEnv()
	env.seedCart(t, "sess-1",
		cart.Line{Kind: model.ProductKindTyre, ProductID: 10, Quantity: 4, UnitPrice: price("7500.00")},
		cart.Line{Kind: model.ProductKindTyre, ProductID: 11, Quantity: 4, UnitPrice: price("8200.00")},
	)

	first := tyreVariant(10, "Blizzak WS90 205/55R16", "7500.00", 10)
	second := tyreVariant(11, "X-Ice Snow 205/55R16", "8200.00", 2)
	env.catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(first, nil)
	env.catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(11)).Return(second, nil)
	env.inventory.On("DecreaseStockIfEnough", mock.Anything, model.ProductKindTyre, int64(10), int64(4)).Return(true, nil)
	env.inventory.On("DecreaseStockIfEnough", mock.Anything, model.ProductKindTyre, int64(11), int64(4)).Return(false, nil)

	_, err := env.uc.PlaceOrder(context.Background(), 1, "sess-1", usecase.PlaceOrderInput{Shipping: validShipping()})
	assertHTTPStatus(t, err, 409)
	assert.Contains(t, err.Error(), "only 2 left in stock")

	// 注文ごとロールバック。カートはそのまま。
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.True(t, env.sessions.has("sess-1"))
}

func TestOrderUsecase_PlaceOrder_DeletedProductAborts(t *testing.T) {
	env := newOrderTestEnv()
	env.seedCart(t, "sess-1", cart.Line{Kind: model.ProductKindRim, ProductID: 3, Quantity: 4, UnitPrice: price("12000.00")})

	env.catalog.On("FindVariant", mock.Anything, model.ProductKindRim, int64(3)).
		Return(model.Variant{}, repo.ErrNotFound)

	_, err := env.uc.PlaceOrder(context.Background(), 1, "sess-1", usecase.PlaceOrderInput{Shipping: validShipping()})
	assertHTTPStatus(t, err, 400)
	assert.True(t, env.sessions.has("sess-1"))
}

func TestOrderUsecase_PlaceOrder_IdempotencyKeyReturnsExisting(t *testing.T) {
	env := newOrderTestEnv()
	env.seedCart(t, "sess-1", cart.Line{Kind: model.ProductKindTyre, ProductID: 10, Quantity: 4, UnitPrice: price("7500.00")})

	existing := model.Order{ID: 55, UserID: 1, Status: model.OrderStatusNew, TotalPrice: price("30000.00")}
	env.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-abc").Return(existing, true, nil)
	env.items.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{
		{ProductKind: model.ProductKindTyre, ProductID: 10, ProductNameSnapshot: "Blizzak WS90 205/55R16", UnitPriceSnapshot: price("7500.00"), Quantity: 4},
	}, nil)

	out, err := env.uc.PlaceOrder(context.Background(), 1, "sess-1", usecase.PlaceOrderInput{
		Shipping:       validShipping(),
		IdempotencyKey: "key-abc",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(55), out.ID)
	// 二重注文にならない
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	env.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_ListMyOrders_InvalidPage(t *testing.T) {
	env := newOrderTestEnv()

	_, _, err := env.uc.ListMyOrders(context.Background(), 1, 0, 20)
	assertHTTPStatus(t, err, 400)
}

func TestOrderUsecase_GetMyOrderDetail_OtherUsersOrderHidden(t *testing.T) {
	env := newOrderTestEnv()

	env.orders.On("FindByID", mock.Anything, int64(55)).
		Return(model.Order{ID: 55, UserID: 2, Status: model.OrderStatusNew}, nil)

	_, err := env.uc.GetMyOrderDetail(context.Background(), 1, 55)
	assertHTTPStatus(t, err, 404)
}

// コミット後のセッション削除に失敗しても注文は成立し、痕跡がログに残る
func TestOrderUsecase_PlaceOrder_SessionDeleteFailureDoesNotFailOrder(t *testing.T) {
	env := newOrderTestEnv()

	var logBuf bytes.Buffer
	tx := &fakeTxManager{repos: fakeTxRepos{
		orders:     env.orders,
		orderItems: env.items,
		catalog:    env.catalog,
		inventory:  env.inventory,
	}}
	uc := usecase.NewOrderUsecase(tx, env.sessions, env.orders, env.items,
		validator.NewOrderValidator(), slog.New(slog.NewTextHandler(&logBuf, nil)))

	env.seedCart(t, "sess-1", cart.Line{Kind: model.ProductKindTyre, ProductID: 10, Quantity: 4, UnitPrice: price("7500.00")})
	env.sessions.deleteErr = errors.New("redis down")

	v := tyreVariant(10, "Blizzak WS90 205/55R16", "7500.00", 10)
	env.catalog.On("FindVariant", mock.Anything, model.ProductKindTyre, int64(10)).Return(v, nil)
	env.inventory.On("DecreaseStockIfEnough", mock.Anything, model.ProductKindTyre, int64(10), int64(4)).Return(true, nil)
	env.orders.On("Create", mock.Anything, mock.Anything).Return(int64(55), nil)
	env.items.On("CreateBulk", mock.Anything, int64(55), mock.Anything).Return(nil)

	out, err := uc.PlaceOrder(context.Background(), 1, "sess-1", usecase.PlaceOrderInput{Shipping: validShipping()})
	require.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)

	assert.Contains(t, logBuf.String(), "cart session delete failed after order commit")
	assert.Contains(t, logBuf.String(), "order_id=55")
}
