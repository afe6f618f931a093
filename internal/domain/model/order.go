package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// delivered / cancelled は終端
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// 確定済みの注文。配送先は注文自身がスナップショットとして持つ。
type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;index" json:"user_id"`
	FirstName  string          `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName   string          `gorm:"type:varchar(50);not null" json:"last_name"`
	Email      string          `gorm:"type:varchar(255);not null" json:"email"`
	Phone      string          `gorm:"type:varchar(20);not null" json:"phone"`
	Address    string          `gorm:"type:varchar(250);not null" json:"address"`
	PostalCode string          `gorm:"type:varchar(20);not null" json:"postal_code"`
	City       string          `gorm:"type:varchar(100);not null" json:"city"`
	Note       string          `gorm:"type:varchar(150)" json:"note"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null;index;default:'new'" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	//二重送信防止キー（任意。空=NULLなら重複チェックなし）
	IdempotencyKey *string   `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
