package model

import "time"

// 在庫更新、注文ステータス更新など。
type AuditAction string

const (
	AuditActionUpdateStock       AuditAction = "UPDATE_STOCK"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionDeleteOrder       AuditAction = "DELETE_ORDER"
	AuditActionUpdateUser        AuditAction = "UPDATE_USER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceTyreVariant AuditResourceType = "tyre_variant"
	AuditResourceRimVariant  AuditResourceType = "rim_variant"
	AuditResourceOrder       AuditResourceType = "order"
	AuditResourceUser        AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	//変更前後はJSON文字列で保存する
	BeforeJSON string    `gorm:"type:text" json:"before_json"`
	AfterJSON  string    `gorm:"type:text" json:"after_json"`
	CreatedAt  time.Time `gorm:"not null;index;autoCreateTime" json:"created_at"`
}

// 監査対象の種別を商品種別から引く
func AuditResourceForKind(kind ProductKind) AuditResourceType {
	if kind == ProductKindRim {
		return AuditResourceRimVariant
	}
	return AuditResourceTyreVariant
}
