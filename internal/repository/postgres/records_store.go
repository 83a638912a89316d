package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

// RecordStore is the postgres EntityStore. Every entity lives in a single
// records table keyed by (kind, id) with an optimistic version column; the
// payload is the JSON-encoded domain struct and tags mirrors the entity's
// searchable list so List can push tag filters into SQL.
type RecordStore struct {
	db *sql.DB
}

func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) Get(ctx context.Context, kind store.Kind, id common.UUID) (any, int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload, version FROM records WHERE kind = $1 AND id = $2`, kind, id)
	var payload []byte
	var version int64
	if err := row.Scan(&payload, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, store.ErrNotFound(kind)
		}
		return nil, 0, common.NewError(common.CodeInternal, "failed to load record", err)
	}
	entity, err := store.Decode(kind, payload)
	if err != nil {
		return nil, 0, err
	}
	return entity, version, nil
}

func (s *RecordStore) List(ctx context.Context, kind store.Kind, filter store.Filter) ([]any, error) {
	var rows *sql.Rows
	var err error
	if len(filter.Tags) > 0 {
		rows, err = s.db.QueryContext(ctx, `SELECT payload FROM records WHERE kind = $1 AND tags && $2 ORDER BY created_at`, kind, pq.Array(filter.Tags))
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT payload FROM records WHERE kind = $1 ORDER BY created_at`, kind)
	}
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list records", err)
	}
	defer rows.Close()
	var items []any
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan record", err)
		}
		entity, err := store.Decode(kind, payload)
		if err != nil {
			return nil, err
		}
		if filter.Match != nil && !filter.Match(entity) {
			continue
		}
		items = append(items, entity)
	}
	return items, nil
}

func (s *RecordStore) Insert(ctx context.Context, kind store.Kind, entity any) error {
	id, err := store.IDOf(kind, entity)
	if err != nil {
		return err
	}
	status, err := store.StatusOf(kind, entity)
	if err != nil {
		return err
	}
	payload, err := store.Encode(entity)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `INSERT INTO records (kind, id, version, status, tags, payload, created_at, updated_at)
		VALUES ($1, $2, 1, $3, $4, $5, $6, $7)`,
		kind, id, status, pq.Array(store.TagsOf(entity)), payload, now, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.NewError(common.CodeConflict, string(kind)+" already exists", err)
		}
		return common.NewError(common.CodeInternal, "failed to insert record", err)
	}
	return nil
}

func (s *RecordStore) CASUpdate(ctx context.Context, write store.Write) (int64, error) {
	return s.apply(ctx, s.db, write)
}

func (s *RecordStore) CASUpdateAll(ctx context.Context, writes []store.Write) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, write := range writes {
		if _, err := s.apply(ctx, tx, write); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return common.NewError(common.CodeInternal, "failed to commit transaction", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *RecordStore) apply(ctx context.Context, db execer, write store.Write) (int64, error) {
	status, err := store.StatusOf(write.Kind, write.Entity)
	if err != nil {
		return 0, err
	}
	payload, err := store.Encode(write.Entity)
	if err != nil {
		return 0, err
	}
	result, err := db.ExecContext(ctx, `UPDATE records
		SET version = version + 1, status = $1, tags = $2, payload = $3, updated_at = $4
		WHERE kind = $5 AND id = $6 AND version = $7`,
		status, pq.Array(store.TagsOf(write.Entity)), payload, time.Now().UTC(), write.Kind, write.ID, write.ExpectedVersion)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to update record", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to read update result", err)
	}
	if affected == 0 {
		// Either the record is gone or another writer won the race.
		row := s.db.QueryRowContext(ctx, `SELECT 1 FROM records WHERE kind = $1 AND id = $2`, write.Kind, write.ID)
		var one int
		if scanErr := row.Scan(&one); errors.Is(scanErr, sql.ErrNoRows) {
			return 0, store.ErrNotFound(write.Kind)
		}
		return 0, store.ErrVersionConflict(write.Kind)
	}
	return write.ExpectedVersion + 1, nil
}
