package postgres

import (
	"context"
	"database/sql"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/audit"
)

// AuditRepository persists the append-only transition log. Rows are never
// updated or deleted.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, record audit.Record) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO audit_log (id, entity_kind, entity_id, from_status, to_status, actor_id, actor_role, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.EntityKind, record.EntityID, record.FromStatus, record.ToStatus, record.ActorID, record.ActorRole, record.OccurredAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to append audit record", err)
	}
	return nil
}

func (r *AuditRepository) Trail(ctx context.Context, entityKind string, entityID common.UUID) ([]audit.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, entity_kind, entity_id, from_status, to_status, actor_id, actor_role, occurred_at
		FROM audit_log WHERE entity_kind = $1 AND entity_id = $2 ORDER BY occurred_at, id`, entityKind, entityID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load audit trail", err)
	}
	defer rows.Close()
	var records []audit.Record
	for rows.Next() {
		var record audit.Record
		if err := rows.Scan(&record.ID, &record.EntityKind, &record.EntityID, &record.FromStatus, &record.ToStatus, &record.ActorID, &record.ActorRole, &record.OccurredAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan audit record", err)
		}
		records = append(records, record)
	}
	return records, nil
}
