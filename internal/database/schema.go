package database

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	kind       text        NOT NULL,
	id         uuid        NOT NULL,
	version    bigint      NOT NULL,
	status     text        NOT NULL,
	tags       text[]      NOT NULL DEFAULT '{}',
	payload    jsonb       NOT NULL,
	created_at timestamptz NOT NULL,
	updated_at timestamptz NOT NULL,
	PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS records_kind_status_idx ON records (kind, status);
CREATE INDEX IF NOT EXISTS records_tags_idx ON records USING gin (tags);

CREATE TABLE IF NOT EXISTS audit_log (
	id          uuid        PRIMARY KEY,
	entity_kind text        NOT NULL,
	entity_id   uuid        NOT NULL,
	from_status text        NOT NULL,
	to_status   text        NOT NULL,
	actor_id    uuid        NOT NULL,
	actor_role  text        NOT NULL,
	occurred_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_log_entity_idx ON audit_log (entity_kind, entity_id, occurred_at);
`

func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
