package usecase_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"tyretrust/internal/domain/cart"
	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// =====================
// Mocks
// =====================

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) FindVariant(ctx context.Context, kind model.ProductKind, id int64) (model.Variant, error) {
	args := m.Called(ctx, kind, id)
	v, _ := args.Get(0).(model.Variant)
	return v, args.Error(1)
}

func (m *CatalogRepoMock) ListVariantsByIDs(ctx context.Context, kind model.ProductKind, ids []int64) ([]model.Variant, error) {
	args := m.Called(ctx, kind, ids)
	vs, _ := args.Get(0).([]model.Variant)
	return vs, args.Error(1)
}

func (m *CatalogRepoMock) ListTyreModels(ctx context.Context, q repo.TyreListQuery) ([]model.TyreModel, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.TyreModel)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CatalogRepoMock) FindTyreModelByID(ctx context.Context, id int64) (model.TyreModel, error) {
	args := m.Called(ctx, id)
	tm, _ := args.Get(0).(model.TyreModel)
	return tm, args.Error(1)
}

func (m *CatalogRepoMock) TyreFacets(ctx context.Context) (repo.TyreFacets, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).(repo.TyreFacets)
	return f, args.Error(1)
}

func (m *CatalogRepoMock) ListRimModels(ctx context.Context, q repo.RimListQuery) ([]model.RimModel, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.RimModel)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CatalogRepoMock) FindRimModelByID(ctx context.Context, id int64) (model.RimModel, error) {
	args := m.Called(ctx, id)
	rm, _ := args.Get(0).(model.RimModel)
	return rm, args.Error(1)
}

func (m *CatalogRepoMock) RimFacets(ctx context.Context) (repo.RimFacets, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).(repo.RimFacets)
	return f, args.Error(1)
}

func (m *CatalogRepoMock) CreateTyreModel(ctx context.Context, tm model.TyreModel) (int64, error) {
	args := m.Called(ctx, tm)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepoMock) UpdateTyreModel(ctx context.Context, tm model.TyreModel) error {
	args := m.Called(ctx, tm)
	return args.Error(0)
}

func (m *CatalogRepoMock) DeleteTyreModel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CatalogRepoMock) CreateTyreVariant(ctx context.Context, v model.TyreVariant) (int64, error) {
	args := m.Called(ctx, v)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepoMock) UpdateTyreVariant(ctx context.Context, v model.TyreVariant) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *CatalogRepoMock) DeleteTyreVariant(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CatalogRepoMock) CreateRimModel(ctx context.Context, rm model.RimModel) (int64, error) {
	args := m.Called(ctx, rm)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepoMock) UpdateRimModel(ctx context.Context, rm model.RimModel) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

func (m *CatalogRepoMock) DeleteRimModel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CatalogRepoMock) CreateRimVariant(ctx context.Context, v model.RimVariant) (int64, error) {
	args := m.Called(ctx, v)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepoMock) UpdateRimVariant(ctx context.Context, v model.RimVariant) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *CatalogRepoMock) DeleteRimVariant(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, kind model.ProductKind, variantID int64, newStock int64) error {
	args := m.Called(ctx, kind, variantID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, kind model.ProductKind, variantID int64, qty int64) (bool, error) {
	args := m.Called(ctx, kind, variantID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, kind model.ProductKind, variantID int64, qty int64) error {
	args := m.Called(ctx, kind, variantID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepoMock) List(ctx context.Context, q repo.UserListQuery) ([]model.User, int64, error) {
	args := m.Called(ctx, q)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteByID(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// =====================
// Fakes
// =====================

// セッションストアのインメモリ版（mapにJSONで保存）
type fakeSessionStore struct {
	data map[string][]byte
	// Deleteを失敗させたいテスト用
	deleteErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: map[string][]byte{}}
}

func (s *fakeSessionStore) Load(ctx context.Context, sessionID string) (cart.Cart, bool, error) {
	raw, ok := s.data[sessionID]
	if !ok {
		return cart.New(), false, nil
	}
	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return cart.New(), false, nil
	}
	return c, true, nil
}

func (s *fakeSessionStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.data[sessionID] = raw
	return nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, sessionID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.data, sessionID)
	return nil
}

func (s *fakeSessionStore) has(sessionID string) bool {
	_, ok := s.data[sessionID]
	return ok
}

// Txを開かずにそのままmockへ流す
type fakeTxRepos struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	catalog    repo.CatalogRepository
	inventory  repo.InventoryRepository
}

func (r fakeTxRepos) Orders() repo.OrderRepository         { return r.orders }
func (r fakeTxRepos) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r fakeTxRepos) Catalog() repo.CatalogRepository      { return r.catalog }
func (r fakeTxRepos) Inventory() repo.InventoryRepository  { return r.inventory }

type fakeTxManager struct {
	repos fakeTxRepos
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}
