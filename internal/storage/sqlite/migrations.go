package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// schema contains the SQL statements to set up the database schema.
// Columns are loosely typed: cost is TEXT so any decimal notation survives.
// The clients table must be created before history due to the foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS clients (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT,
    phone TEXT
);

CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    client_id INTEGER NOT NULL,
    description TEXT,
    cost TEXT,
    date TEXT,
    FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS company (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nameCompany TEXT,
    mainColor TEXT,
    logoUrl TEXT
);

CREATE INDEX IF NOT EXISTS idx_history_client_id ON history(client_id);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
