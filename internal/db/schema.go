package db

// SchemaSQL is the complete schema for fresh renewbot installs.
//
// This is the single source of truth for the database schema. Tests use
// it via GetSchemaSQL() so the schema they run against cannot drift from
// the one production creates. If repository code references a column
// that does not exist here, tests fail immediately with "no such
// column".
const SchemaSQL = `
-- Renewal runs (one row per attempted extension)
CREATE TABLE IF NOT EXISTS renewal_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	contract_id TEXT NOT NULL,
	outcome TEXT NOT NULL CHECK(outcome IN ('confirmed', 'uncertain', 'failed')),
	new_expiry TEXT,
	note TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_renewal_history_created_at ON renewal_history(created_at);
CREATE INDEX IF NOT EXISTS idx_renewal_history_contract ON renewal_history(contract_id);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	_, err = db.Exec(SchemaSQL)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
