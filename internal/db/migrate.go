package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS org_units (
		id           TEXT PRIMARY KEY,
		designation  TEXT NOT NULL,
		abbreviation TEXT NOT NULL,
		kind         TEXT NOT NULL
		             CHECK(kind IN ('company','battalion','brigade','command','root')),
		parent_id    TEXT REFERENCES org_units(id),
		created_at   TEXT NOT NULL,
		CHECK(parent_id IS NULL OR parent_id != id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_org_units_parent ON org_units(parent_id)`,
	// At most one row may have a NULL parent.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_org_units_root ON org_units((parent_id IS NULL)) WHERE parent_id IS NULL`,

	`CREATE TABLE IF NOT EXISTS operations (
		id           TEXT PRIMARY KEY,
		owner_org_id TEXT NOT NULL REFERENCES org_units(id),
		name         TEXT NOT NULL,
		start_date   TEXT NOT NULL,
		end_date     TEXT NOT NULL,
		headcount    INTEGER NOT NULL DEFAULT 0 CHECK(headcount >= 0),
		created_at   TEXT NOT NULL,
		CHECK(end_date >= start_date)
	)`,

	`CREATE TABLE IF NOT EXISTS operation_participants (
		operation_id TEXT NOT NULL REFERENCES operations(id) ON DELETE CASCADE,
		org_id       TEXT NOT NULL REFERENCES org_units(id),
		ceiling      TEXT NOT NULL,
		PRIMARY KEY (operation_id, org_id)
	)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id                  TEXT PRIMARY KEY,
		operation_id        TEXT NOT NULL REFERENCES operations(id),
		org_id              TEXT NOT NULL REFERENCES org_units(id),
		title               TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'DRAFT'
		                    CHECK(status IN ('DRAFT','IN_REVIEW','APPROVED','REJECTED')),
		current_level       INTEGER CHECK(current_level IS NULL OR current_level >= 1),
		version             INTEGER NOT NULL DEFAULT 1,
		previous_version_id TEXT REFERENCES plans(id),
		created_by          TEXT NOT NULL DEFAULT '',
		submitted_at        TEXT,
		completed_at        TEXT,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL,
		CHECK((status = 'IN_REVIEW') = (current_level IS NOT NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_operation ON plans(operation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_org ON plans(org_id)`,

	`CREATE TABLE IF NOT EXISTS plan_chain (
		plan_id      TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		level        INTEGER NOT NULL CHECK(level >= 1),
		org_id       TEXT NOT NULL,
		designation  TEXT NOT NULL,
		abbreviation TEXT NOT NULL,
		kind         TEXT NOT NULL,
		PRIMARY KEY (plan_id, level)
	)`,

	`CREATE TABLE IF NOT EXISTS expenses (
		id            TEXT PRIMARY KEY,
		plan_id       TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		class         TEXT NOT NULL
		              CHECK(class IN ('I','II','III','IV','V','VI','VII','VIII','IX','X')),
		type          TEXT NOT NULL DEFAULT '',
		params        TEXT NOT NULL DEFAULT '{}',
		total         TEXT NOT NULL,
		quantity      TEXT,
		quantity_unit TEXT NOT NULL DEFAULT '',
		trace         TEXT NOT NULL DEFAULT '',
		position      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_expenses_plan ON expenses(plan_id)`,

	`CREATE TABLE IF NOT EXISTS expense_shares (
		expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
		dimension  TEXT NOT NULL CHECK(dimension IN ('org','nature')),
		key        TEXT NOT NULL,
		percentage TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (expense_id, dimension, key)
	)`,

	`CREATE TABLE IF NOT EXISTS approval_decisions (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES plans(id),
		level      INTEGER NOT NULL CHECK(level >= 1),
		org_id     TEXT NOT NULL,
		actor_id   TEXT NOT NULL,
		action     TEXT NOT NULL CHECK(action IN ('APPROVE','REJECT')),
		reason     TEXT NOT NULL DEFAULT '',
		decided_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_decisions_plan ON approval_decisions(plan_id, decided_at)`,
	// One decision per plan level.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_decisions_plan_level ON approval_decisions(plan_id, level)`,

	`CREATE TRIGGER IF NOT EXISTS trg_decisions_no_update
	BEFORE UPDATE ON approval_decisions
	BEGIN
		SELECT RAISE(ABORT, 'approval decisions are append-only');
	END`,

	`CREATE TRIGGER IF NOT EXISTS trg_decisions_no_delete
	BEFORE DELETE ON approval_decisions
	BEGIN
		SELECT RAISE(ABORT, 'approval decisions are append-only');
	END`,

	// Budget codes were added after the first release.
	`ALTER TABLE org_units ADD COLUMN budget_code TEXT NOT NULL DEFAULT ''`,

	// Optimistic concurrency token for workflow transitions.
	`ALTER TABLE plans ADD COLUMN revision INTEGER NOT NULL DEFAULT 0`,
}
