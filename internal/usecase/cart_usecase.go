package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"tyretrust/internal/domain/cart"
	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// CartUsecase はセッション常駐カートの業務ロジック。
// カート本体は値型（domain/cart）で、出し入れはセッションストア経由。
type CartUsecase struct {
	sessions repo.CartSessionStore
	catalog  repo.CatalogRepository
}

func NewCartUsecase(sessions repo.CartSessionStore, catalog repo.CatalogRepository) *CartUsecase {
	return &CartUsecase{sessions: sessions, catalog: catalog}
}

type CartLineResponse struct {
	Kind       model.ProductKind `json:"kind"`
	ProductID  int64             `json:"product_id"`
	Name       string            `json:"name"`
	UnitPrice  decimal.Decimal   `json:"unit_price"`
	Quantity   int64             `json:"quantity"`
	TotalPrice decimal.Decimal   `json:"total_price"`
}

type CartResponse struct {
	Items         []CartLineResponse `json:"items"`
	TotalQuantity int64              `json:"total_quantity"`
	// カタログ現在値ベースの合計（表示・請求用）
	Total decimal.Decimal `json:"total"`
	// 追加時スナップショットベースの合計（バッジ用）
	SnapshotTotal decimal.Decimal `json:"snapshot_total"`
}

type AddCartInput struct {
	Kind      model.ProductKind
	ProductID int64
	Quantity  int64
	// trueなら数量を上書き、falseなら加算
	UpdateQuantity bool
}

func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) (CartResponse, error) {
	c, _, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return u.buildCartResponse(ctx, c)
}

// AddToCart は行を追加または数量変更してセッションに書き戻す。
// 数量はドメイン側で1未満→1に丸める。在庫超過は現在庫数を添えて409。
func (u *CartUsecase) AddToCart(ctx context.Context, sessionID string, in AddCartInput) (CartResponse, error) {
	if !in.Kind.Valid() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid kind")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	v, err := u.catalog.FindVariant(ctx, in.Kind, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c, _, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	// 丸めと同じ規則で確定後の数量を先に求めて在庫と比べる
	qty := in.Quantity
	requested := qty
	if !in.UpdateQuantity {
		requested = existingQuantity(c, in.Kind, in.ProductID) + qty
	}
	if requested < 1 {
		requested = 1
	}
	if requested > v.Stock {
		return CartResponse{}, NewHTTPError(http.StatusConflict, fmt.Sprintf("only %d left in stock", v.Stock))
	}

	// スナップショット価格は追加時点のカタログ現在値
	c.Add(in.Kind, in.ProductID, qty, v.Price, in.UpdateQuantity)

	if err := u.sessions.Save(ctx, sessionID, c); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return u.buildCartResponse(ctx, c)
}

// UpdateItem は数量の上書き（set semantics）。
func (u *CartUsecase) UpdateItem(ctx context.Context, sessionID string, kind model.ProductKind, productID int64, qty int64) (CartResponse, error) {
	return u.AddToCart(ctx, sessionID, AddCartInput{
		Kind:           kind,
		ProductID:      productID,
		Quantity:       qty,
		UpdateQuantity: true,
	})
}

// RemoveFromCart は行の削除。無くても成功扱い。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, sessionID string, kind model.ProductKind, productID int64) (CartResponse, error) {
	if !kind.Valid() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid kind")
	}

	c, found, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	if !found {
		return u.buildCartResponse(ctx, c)
	}

	c.Remove(kind, productID)

	if err := u.sessions.Save(ctx, sessionID, c); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return u.buildCartResponse(ctx, c)
}

// ClearCart はセッションキーごと消す。何度呼んでも同じ。
func (u *CartUsecase) ClearCart(ctx context.Context, sessionID string) error {
	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return nil
}

// buildCartResponse は表示用レスポンスを組み立てる。
// 単価はカタログの現在値で引き直し、消えた商品は表示から落とす。
// セッション内の行とスナップショットはそのまま残る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, c cart.Cart) (CartResponse, error) {
	variants := make(map[model.ProductKind]map[int64]model.Variant)
	for kind, ids := range c.ProductIDsByKind() {
		list, err := u.catalog.ListVariantsByIDs(ctx, kind, ids)
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		m := make(map[int64]model.Variant, len(list))
		for _, v := range list {
			m[v.ID] = v
		}
		variants[kind] = m
	}

	res := CartResponse{
		Items:         []CartLineResponse{},
		TotalQuantity: c.TotalQuantity(),
		Total:         decimal.Zero,
		SnapshotTotal: c.TotalPrice(),
	}

	for _, l := range c.Lines {
		v, ok := variants[l.Kind][l.ProductID]
		if !ok {
			continue
		}
		lineTotal := v.Price.Mul(decimal.NewFromInt(l.Quantity))
		res.Items = append(res.Items, CartLineResponse{
			Kind:       l.Kind,
			ProductID:  l.ProductID,
			Name:       v.Name,
			UnitPrice:  v.Price,
			Quantity:   l.Quantity,
			TotalPrice: lineTotal,
		})
		res.Total = res.Total.Add(lineTotal)
	}

	return res, nil
}

func existingQuantity(c cart.Cart, kind model.ProductKind, productID int64) int64 {
	for _, l := range c.Lines {
		if l.Kind == kind && l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}
