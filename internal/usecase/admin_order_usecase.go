package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// 管理者向けの注文操作。全操作が監査ログを残す。
type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	audit repo.AuditLogRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, audit repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, audit: audit}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if in.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Status != "" && !model.OrderStatus(in.Status).Valid() {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items = append(items, toOrderOutput(o, nil))
		}
		out = AdminOrderListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}
		return nil
	})
	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) Detail(ctx context.Context, orderID int64) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// UpdateStatus はステータスを遷移させる。
// delivered / cancelled からの遷移は拒否。同じ値への更新は何もしない。
// cancelled への遷移は明細分の在庫を戻す。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminUserID int64, orderID int64, status model.OrderStatus) (OrderOutput, error) {
	if adminUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !status.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput
	var before, after model.OrderStatus

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//同じ値なら何もしない
		if order.Status == status {
			out = toOrderOutput(order, items)
			return nil
		}
		//終端からは動かせない
		if order.Status.Terminal() {
			return NewHTTPError(http.StatusConflict, "order is in a terminal status")
		}

		if status == model.OrderStatusCancelled {
			//キャンセルは在庫を戻す
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductKind, it.ProductID, it.Quantity); err != nil {
					// 商品がもう消えていたら在庫は戻せない。注文のキャンセル自体は通す。
					if !errors.Is(err, repo.ErrNotFound) {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, status); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before, after = order.Status, status
		order.Status = status
		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	//監査ログ（失敗しても本処理は成功扱い）
	if after != "" {
		u.writeAudit(ctx, adminUserID, model.AuditActionUpdateOrderStatus, orderID, before, after)
	}
	return out, nil
}

// Delete は注文を明細ごと削除する。
func (u *AdminOrderUsecase) Delete(ctx context.Context, adminUserID int64, orderID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var before model.OrderStatus
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		before = order.Status

		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionDeleteOrder, orderID, before, "")
	return nil
}

func (u *AdminOrderUsecase) writeAudit(ctx context.Context, adminUserID int64, action model.AuditAction, orderID int64, before, after model.OrderStatus) {
	beforeJSON, _ := json.Marshal(map[string]string{"status": string(before)})
	afterJSON, _ := json.Marshal(map[string]string{"status": string(after)})
	_ = u.audit.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
	})
}
