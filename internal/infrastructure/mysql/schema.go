package mysql

import (
	"context"
	"database/sql"
)

const createListingsTable = `
    CREATE TABLE IF NOT EXISTS listings (
        id VARCHAR(36) PRIMARY KEY,
        title TEXT NOT NULL,
        price INT NOT NULL,
        lat DOUBLE NOT NULL,
        lng DOUBLE NOT NULL,
        status VARCHAR(16) NOT NULL DEFAULT 'AVAILABLE',
        user_id TEXT NULL,
        user_name TEXT NULL,
        user_photo TEXT NULL,
        client_id TEXT NULL,
        created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
    )
`

// Columns added after the first deployments. MySQL has no ADD COLUMN IF NOT
// EXISTS, so these fail harmlessly on tables that already carry them.
var upgradeListingsTable = []string{
	`ALTER TABLE listings ADD COLUMN client_id TEXT NULL`,
	`ALTER TABLE listings ADD COLUMN created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP`,
	`ALTER TABLE listings ADD COLUMN updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP`,
}

// EnsureSchema creates the listings table and applies best-effort column
// upgrades for databases provisioned by older builds.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createListingsTable); err != nil {
		return err
	}

	for _, stmt := range upgradeListingsTable {
		_, _ = db.ExecContext(ctx, stmt)
	}

	return nil
}
