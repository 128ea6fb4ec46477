package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

// INSERT OR REPLACE is deliberately avoided below: REPLACE deletes the
// conflicting row first, which would fire ON DELETE CASCADE on history.

// UpsertClient writes a client under its own ID.
func (s *SQLiteStore) UpsertClient(ctx context.Context, client *models.Client) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, phone) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, phone = excluded.phone`,
		client.ID, nullString(client.Name), nullString(client.Phone),
	)
	return storage.NewError("upsert client", err)
}

// UpsertHistory writes a history entry under its own ID. The referenced
// client must already exist.
func (s *SQLiteStore) UpsertHistory(ctx context.Context, entry *models.HistoryEntry) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireClient(ctx, tx, entry.ClientID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO history (id, client_id, description, cost, date) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			     client_id = excluded.client_id,
			     description = excluded.description,
			     cost = excluded.cost,
			     date = excluded.date`,
			entry.ID, entry.ClientID, nullString(entry.Description), nullString(entry.Cost), nullString(entry.Date),
		)
		return err
	})
	return storage.NewError("upsert history", err)
}
