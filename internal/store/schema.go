package store

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS alumni (
	id          TEXT PRIMARY KEY,
	alumni_id   TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	dob         TEXT NOT NULL,
	department  TEXT NOT NULL,
	batch       TEXT NOT NULL,
	contact     TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_alumni_batch ON alumni(batch);
CREATE INDEX IF NOT EXISTS idx_alumni_department ON alumni(department);

CREATE TABLE IF NOT EXISTS postings (
	id                   TEXT PRIMARY KEY,
	kind                 TEXT NOT NULL,
	title                TEXT NOT NULL,
	company              TEXT NOT NULL,
	company_website      TEXT NOT NULL DEFAULT '',
	experience_from      TEXT NOT NULL DEFAULT '',
	experience_to        TEXT NOT NULL DEFAULT '',
	duration             TEXT NOT NULL DEFAULT '',
	locations            JSONB NOT NULL DEFAULT '[]',
	contact_email        TEXT NOT NULL,
	job_area             TEXT NOT NULL DEFAULT '',
	skills               JSONB NOT NULL DEFAULT '[]',
	pay                  TEXT NOT NULL DEFAULT '',
	application_deadline TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL,
	posted_by            TEXT NOT NULL,
	posted_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_postings_kind ON postings(kind);
CREATE INDEX IF NOT EXISTS idx_postings_posted_by ON postings(posted_by);
`

// Migrate creates the tables used by the alumni and job board repositories.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
