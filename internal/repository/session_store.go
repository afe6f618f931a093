package repository

import (
	"context"

	"tyretrust/internal/domain/cart"
)

// CartSessionStore はセッションIDをキーにカートを出し入れする約束。
// Loadはキーが無ければ空カートを返す（found=false）。
// 保存はSaveで必ず明示する（書かなければ変更は消える）。
type CartSessionStore interface {
	Load(ctx context.Context, sessionID string) (cart.Cart, bool, error)
	Save(ctx context.Context, sessionID string, c cart.Cart) error
	// Deleteはキーが無くてもエラーにしない
	Delete(ctx context.Context, sessionID string) error
}
