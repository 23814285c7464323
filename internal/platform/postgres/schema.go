package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is the engine's relational shape. Idempotent DDL keeps bootstrap
// simple for deployments and test containers alike.
//
// Decisions are insert-only with a revision per (cycle, revision) so prior
// decisions stay inspectable by the external audit subsystem; the API serves
// the highest revision.
const schema = `
CREATE TABLE IF NOT EXISTS cycles (
	id                      UUID PRIMARY KEY,
	profile_id              UUID        NOT NULL,
	state                   TEXT        NOT NULL,
	disqualified            BOOLEAN     NOT NULL DEFAULT FALSE,
	disqualification_reason TEXT,
	opened_at               TIMESTAMPTZ NOT NULL,
	closed_at               TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS cycles_one_active_per_profile
	ON cycles (profile_id) WHERE state <> 'closed';

CREATE TABLE IF NOT EXISTS criterion_scores (
	cycle_id      UUID        NOT NULL,
	pillar_number INT         NOT NULL,
	code          TEXT        NOT NULL,
	rating        TEXT        NOT NULL,
	notes         TEXT        NOT NULL DEFAULT '',
	updated_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (cycle_id, pillar_number, code)
);

CREATE TABLE IF NOT EXISTS decisions (
	cycle_id                UUID        NOT NULL,
	profile_id              UUID        NOT NULL,
	revision                INT         NOT NULL,
	outcome                 TEXT        NOT NULL,
	overall_weighted_score  DOUBLE PRECISION,
	global_auto_fail        BOOLEAN     NOT NULL DEFAULT FALSE,
	global_auto_fail_reason TEXT,
	decided_at              TIMESTAMPTZ,
	created_at              TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (cycle_id, revision)
);

CREATE TABLE IF NOT EXISTS audit_outbox (
	id           UUID        PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	payload      JSONB       NOT NULL,
	published    BOOLEAN     NOT NULL DEFAULT FALSE,
	published_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS audit_outbox_unpublished
	ON audit_outbox (created_at) WHERE published = FALSE;
`

// EnsureSchema applies the engine schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
