package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database schema. All repository
// tests load it via GetSchemaSQL() so test and production schemas cannot
// drift: a repository referencing a missing column fails immediately with
// "no such column".
//
// The MoU aggregate is stored as one row per MoU with the nested collections
// (parties, deliverables, metrics, alerts) serialized into a JSON document
// column. Fields the engine queries on are promoted to real columns.
const SchemaSQL = `
-- MoUs (aggregate roots, document column carries the full JSON)
CREATE TABLE IF NOT EXISTS mous (
	id TEXT PRIMARY KEY,
	reference_number TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('bilateral', 'multilateral', 'framework', 'technical', 'cooperation')),
	status TEXT NOT NULL CHECK(status IN ('draft', 'negotiation', 'signed', 'active', 'expired', 'terminated', 'renewed')) DEFAULT 'draft',
	expiry_date DATETIME,
	document TEXT NOT NULL,
	created_by TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_mous_status ON mous(status);
CREATE INDEX IF NOT EXISTS idx_mous_type ON mous(type);
CREATE INDEX IF NOT EXISTS idx_mous_expiry ON mous(expiry_date);
CREATE INDEX IF NOT EXISTS idx_mous_created ON mous(created_at);

-- Renewals (workflow records attached to an MoU)
CREATE TABLE IF NOT EXISTS renewals (
	id TEXT PRIMARY KEY,
	mou_id TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'initiated', 'negotiation', 'approved', 'signed', 'completed', 'declined', 'expired')) DEFAULT 'initiated',
	proposed_expiry_date TEXT,
	renewal_period_months INTEGER NOT NULL DEFAULT 0,
	renewed_mou_id TEXT,
	notes TEXT,
	decline_reason TEXT,
	initiated_by TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (mou_id) REFERENCES mous(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_renewals_mou ON renewals(mou_id);
CREATE INDEX IF NOT EXISTS idx_renewals_status ON renewals(status);

-- Audit log (append-only trail of mutations)
CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL,
	changes TEXT,
	user_id TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_logs(entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_logs(created_at);

-- Jobs (scheduled background work, drained by a dispatcher)
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	job_type TEXT NOT NULL,
	payload TEXT,
	run_at DATETIME NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('queued', 'done', 'failed')) DEFAULT 'queued',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_run_at ON jobs(status, run_at);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (1)")
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
