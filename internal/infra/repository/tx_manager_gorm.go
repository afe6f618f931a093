package repository

import (
	"context"

	"gorm.io/gorm"

	repo "tyretrust/internal/repository"
)

// Txハンドル上にリポジトリを組み直して渡す
type txRepos struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	catalog    repo.CatalogRepository
	inventory  repo.InventoryRepository
}

func (r txRepos) Orders() repo.OrderRepository         { return r.orders }
func (r txRepos) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r txRepos) Catalog() repo.CatalogRepository      { return r.catalog }
func (r txRepos) Inventory() repo.InventoryRepository  { return r.inventory }

type GormTransactionManager struct {
	db *gorm.DB
}

func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// fnがエラーを返したらロールバック、nilならコミット
func (m *GormTransactionManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos{
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			catalog:    NewCatalogGormRepository(tx),
			inventory:  NewInventoryGormRepository(tx),
		})
	})
}

var _ repo.TransactionManager = (*GormTransactionManager)(nil)
