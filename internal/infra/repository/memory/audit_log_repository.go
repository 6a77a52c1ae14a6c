package memory

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
)

type AuditLogRepository struct {
	base
}

func NewAuditLogRepository(s *Store) *AuditLogRepository {
	return &AuditLogRepository{base{s: s}}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *model.AuditLog) error {
	defer r.lock()()

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = r.s.now()
	}
	r.s.auditLogs = append(r.s.auditLogs, *log)
	return nil
}

func (r *AuditLogRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	defer r.lock()()

	filter = filter.Normalize()
	out := []model.AuditLog{}
	skipped := 0
	for i := len(r.s.auditLogs) - 1; i >= 0 && len(out) < filter.Limit; i-- {
		l := r.s.auditLogs[i]
		if filter.ActorUserID != nil && l.ActorUserID != *filter.ActorUserID {
			continue
		}
		if filter.Action != nil && l.Action != *filter.Action {
			continue
		}
		if filter.ResourceID != nil && l.ResourceID != *filter.ResourceID {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
