package memory

import (
	"context"
	"sync"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/audit"
)

// AuditLog is the in-memory append-only transition log.
type AuditLog struct {
	mu      sync.RWMutex
	records []audit.Record
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Append(ctx context.Context, record audit.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

func (l *AuditLog) Trail(ctx context.Context, entityKind string, entityID common.UUID) ([]audit.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var trail []audit.Record
	for _, record := range l.records {
		if record.EntityKind == entityKind && record.EntityID == entityID {
			trail = append(trail, record)
		}
	}
	return trail, nil
}
