package repository

import (
	"context"

	"tyretrust/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, kind model.ProductKind, variantID int64, newStock int64) error

	// 在庫が足りるときだけ減算（条件付きUPDATE）。足りなければ false。
	DecreaseStockIfEnough(ctx context.Context, kind model.ProductKind, variantID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, kind model.ProductKind, variantID int64, qty int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
