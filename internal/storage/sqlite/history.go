package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

const historyColumns = "id, client_id, description, cost, date"

type historyRow struct {
	ID          int64          `db:"id"`
	ClientID    int64          `db:"client_id"`
	Description sql.NullString `db:"description"`
	Cost        sql.NullString `db:"cost"`
	Date        sql.NullString `db:"date"`
}

func (r historyRow) toModel() *models.HistoryEntry {
	return &models.HistoryEntry{
		ID:          r.ID,
		ClientID:    r.ClientID,
		Description: r.Description.String,
		Cost:        r.Cost.String,
		Date:        r.Date.String,
	}
}

func toHistory(rows []historyRow) []*models.HistoryEntry {
	entries := make([]*models.HistoryEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.toModel()
	}
	return entries
}

// requireClient fails with storage.ErrUnknownClient unless the client exists.
func requireClient(ctx context.Context, tx *sqlx.Tx, clientID int64) error {
	found, err := exists(ctx, tx, "clients", clientID)
	if err != nil {
		return err
	}
	if !found {
		return storage.ErrUnknownClient
	}
	return nil
}

// CreateHistory inserts a history entry for an existing client and sets entry.ID.
func (s *SQLiteStore) CreateHistory(ctx context.Context, entry *models.HistoryEntry) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireClient(ctx, tx, entry.ClientID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO history (client_id, description, cost, date) VALUES (?, ?, ?, ?)",
			entry.ClientID, nullString(entry.Description), nullString(entry.Cost), nullString(entry.Date),
		)
		if err != nil {
			return err
		}

		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		entry.ID = id
		return nil
	})
	return storage.NewError("insert history", err)
}

// ListHistory retrieves the entries of a client, most recent first.
// Entries without a date sort last; equal dates fall back to newest ID first.
func (s *SQLiteStore) ListHistory(ctx context.Context, clientID int64) ([]*models.HistoryEntry, error) {
	var rows []historyRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+historyColumns+" FROM history WHERE client_id = ? ORDER BY date DESC, id DESC",
		clientID,
	)
	if err != nil {
		return nil, storage.NewError("list history", err)
	}
	return toHistory(rows), nil
}

// ListHistoryByID retrieves every history entry ordered by ID.
func (s *SQLiteStore) ListHistoryByID(ctx context.Context) ([]*models.HistoryEntry, error) {
	var rows []historyRow
	err := s.db.SelectContext(ctx, &rows, "SELECT "+historyColumns+" FROM history ORDER BY id ASC")
	if err != nil {
		return nil, storage.NewError("list history", err)
	}
	return toHistory(rows), nil
}

// GetHistory retrieves an entry by ID. Returns nil, nil if it does not exist.
func (s *SQLiteStore) GetHistory(ctx context.Context, id int64) (*models.HistoryEntry, error) {
	var row historyRow
	err := s.db.GetContext(ctx, &row, "SELECT "+historyColumns+" FROM history WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storage.NewError("get history", err)
	}
	return row.toModel(), nil
}

// UpdateHistory replaces every field of an existing entry.
func (s *SQLiteStore) UpdateHistory(ctx context.Context, entry *models.HistoryEntry) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireClient(ctx, tx, entry.ClientID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE history SET client_id = ?, description = ?, cost = ?, date = ? WHERE id = ?",
			entry.ClientID, nullString(entry.Description), nullString(entry.Cost), nullString(entry.Date), entry.ID,
		)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	return storage.NewError("update history", err)
}

// DeleteHistory removes a single entry.
func (s *SQLiteStore) DeleteHistory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return storage.NewError("delete history", err)
	}
	return storage.NewError("delete history", requireAffected(res))
}
