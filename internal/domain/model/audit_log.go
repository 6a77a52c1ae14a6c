package model

import "time"

// 管理者が何をしたか
type AuditAction string

const (
	AuditActionCreateProduct AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct AuditAction = "DELETE_PRODUCT"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreateProduct, AuditActionUpdateProduct, AuditActionDeleteProduct:
		return true
	}
	return false
}

// 何に対する操作か
type AuditResourceType string

const AuditResourceProduct AuditResourceType = "product"

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
// Before/AfterはJSON文字列。作成時のBefore、削除時のAfterは空。
type AuditLog struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	ActorUserID  string            `gorm:"type:uuid;not null;index" json:"actorUserId"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`
	ResourceID   string            `gorm:"type:varchar(50);not null;index" json:"resourceId"`
	BeforeJSON   string            `gorm:"type:text" json:"beforeJson,omitempty"`
	AfterJSON    string            `gorm:"type:text" json:"afterJson,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"createdAt"`
}
