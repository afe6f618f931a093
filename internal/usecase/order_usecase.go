package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// usecaseがValidatorInterfaceに依存する約束
type OrderValidator interface {
	// 空mapなら合格。項目名→メッセージ。
	ValidateShippingForm(ctx context.Context, form ShippingForm) map[string]string
}

// 配送先フォーム。注文にスナップショットとして焼き込まれる。
type ShippingForm struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Note       string `json:"note"`
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	sessions  repo.CartSessionStore
	orders    repo.OrderRepository
	items     repo.OrderItemRepository
	validator OrderValidator
	log       *slog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	sessions repo.CartSessionStore,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	validator OrderValidator,
	log *slog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		sessions:  sessions,
		orders:    orders,
		items:     items,
		validator: validator,
		log:       log,
	}
}

type PlaceOrderInput struct {
	Shipping ShippingForm
	// 任意。空なら重複チェックなし。
	IdempotencyKey string
}

type OrderItemOutput struct {
	Kind      model.ProductKind `json:"kind"`
	ProductID int64             `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int64             `json:"quantity"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Status     string            `json:"status"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Address    string            `json:"address"`
	PostalCode string            `json:"postal_code"`
	City       string            `json:"city"`
	Note       string            `json:"note"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []OrderItemOutput `json:"items"`
}

// PlaceOrder はセッションのカートを注文に確定する。
// フォーム検証→カート読込→Tx内で在庫減算と注文作成→成功後にカート削除。
// 途中で失敗したら全部ロールバックし、カートはそのまま残る。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, sessionID string, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if fieldErrs := u.validator.ValidateShippingForm(ctx, in.Shipping); len(fieldErrs) > 0 {
		return OrderOutput{}, NewValidationError(fieldErrs)
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	// 同じキーなら同じ結果
	if key != "" {
		existing, found, err := u.orders.FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := u.items.ListByOrderID(ctx, existing.ID)
			if err != nil {
				return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return toOrderOutput(existing, items), nil
		}
	}

	c, _, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	if c.IsEmpty() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderItems := make([]model.OrderItem, 0, c.Len())
		total := decimal.Zero

		// 在庫を確定時に再チェックして減らす。価格も確定時点の現在値を採る。
		for _, l := range c.Lines {
			v, err := r.Catalog().FindVariant(ctx, l.Kind, l.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "invalid")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.Kind, l.ProductID, l.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, fmt.Sprintf("only %d left in stock", v.Stock))
			}

			//スナップショット
			orderItems = append(orderItems, model.OrderItem{
				ProductKind:         l.Kind,
				ProductID:           l.ProductID,
				ProductNameSnapshot: v.Name,
				UnitPriceSnapshot:   v.Price,
				Quantity:            l.Quantity,
			})
			total = total.Add(v.Price.Mul(decimal.NewFromInt(l.Quantity)))
		}

		var idemKey *string
		if key != "" {
			idemKey = &key
		}

		now := time.Now()
		order := model.Order{
			UserID:         userID,
			FirstName:      strings.TrimSpace(in.Shipping.FirstName),
			LastName:       strings.TrimSpace(in.Shipping.LastName),
			Email:          strings.TrimSpace(in.Shipping.Email),
			Phone:          strings.TrimSpace(in.Shipping.Phone),
			Address:        strings.TrimSpace(in.Shipping.Address),
			PostalCode:     strings.TrimSpace(in.Shipping.PostalCode),
			City:           strings.TrimSpace(in.Shipping.City),
			Note:           in.Shipping.Note,
			Status:         model.OrderStatusNew,
			TotalPrice:     total,
			IdempotencyKey: idemKey,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			//競合（同時で同じキーが入った等）はもう一回検索して同じ結果を返す
			if key != "" {
				ex, found, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
				if err2 == nil && found {
					items, err3 := r.OrderItems().ListByOrderID(ctx, ex.ID)
					if err3 != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
					out = toOrderOutput(ex, items)
					return nil
				}
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	// コミット後にカートを消す。注文は確定済みなので削除失敗で注文は失敗にしない。
	// 消し損ねたカートは次の画面で復活して見えるため、調査用に痕跡だけ残す。
	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		u.log.Warn("cart session delete failed after order commit",
			"session_id", sessionID, "order_id", out.ID, "error", err)
	}

	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, int64, error) {
	if userID <= 0 {
		return nil, 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		// 一覧では明細は付けない
		outs = append(outs, toOrderOutput(o, nil))
	}
	return outs, total, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	// 他人の注文は存在しない扱い
	if order.UserID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(order, items), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, OrderItemOutput{
			Kind:      it.ProductKind,
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}
	return OrderOutput{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		FirstName:  o.FirstName,
		LastName:   o.LastName,
		Email:      o.Email,
		Phone:      o.Phone,
		Address:    o.Address,
		PostalCode: o.PostalCode,
		City:       o.City,
		Note:       o.Note,
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		Items:      outs,
	}
}
