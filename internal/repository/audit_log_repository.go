package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧の件数
const (
	DefaultAuditLogLimit = 50
	MaxAuditLogLimit     = 200
)

// 監査ログの絞り込み条件。nilは条件なし
type AuditLogFilter struct {
	ActorUserID *string
	Action      *model.AuditAction
	ResourceID  *string
	Limit       int
	Offset      int
}

// Normalizeはlimit/offsetを範囲内に収める
func (f AuditLogFilter) Normalize() AuditLogFilter {
	if f.Limit <= 0 || f.Limit > MaxAuditLogLimit {
		f.Limit = DefaultAuditLogLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// 監査ログの保存・一覧取得の約束。
type AuditLogRepository interface {
	//監査ログを1件保存（IDと作成時刻は空なら埋める）
	Create(ctx context.Context, log *model.AuditLog) error

	//条件で一覧取得。新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
