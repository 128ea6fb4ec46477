package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

const clientColumns = "id, name, phone"

type clientRow struct {
	ID    int64          `db:"id"`
	Name  sql.NullString `db:"name"`
	Phone sql.NullString `db:"phone"`
}

func (r clientRow) toModel() *models.Client {
	return &models.Client{
		ID:    r.ID,
		Name:  r.Name.String,
		Phone: r.Phone.String,
	}
}

func toClients(rows []clientRow) []*models.Client {
	clients := make([]*models.Client, len(rows))
	for i, r := range rows {
		clients[i] = r.toModel()
	}
	return clients
}

// CreateClient inserts a new client and sets client.ID.
func (s *SQLiteStore) CreateClient(ctx context.Context, client *models.Client) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO clients (name, phone) VALUES (?, ?)",
		nullString(client.Name), nullString(client.Phone),
	)
	if err != nil {
		return storage.NewError("insert client", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storage.NewError("insert client", err)
	}
	client.ID = id

	return nil
}

// ListClients retrieves clients ordered by name, narrowed by filter.
func (s *SQLiteStore) ListClients(ctx context.Context, filter storage.ClientFilter) ([]*models.Client, error) {
	var rows []clientRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+clientColumns+" FROM clients ORDER BY name ASC, id ASC",
	)
	if err != nil {
		return nil, storage.NewError("list clients", err)
	}

	clients := toClients(rows)
	if filter.Search == "" {
		return clients, nil
	}

	// SQLite's LOWER and LIKE only fold ASCII; names are often accented.
	search := strings.ToLower(filter.Search)
	matched := clients[:0]
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), search) ||
			strings.Contains(strings.ToLower(c.Phone), search) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// ListClientsByID retrieves every client ordered by ID.
func (s *SQLiteStore) ListClientsByID(ctx context.Context) ([]*models.Client, error) {
	var rows []clientRow
	err := s.db.SelectContext(ctx, &rows, "SELECT "+clientColumns+" FROM clients ORDER BY id ASC")
	if err != nil {
		return nil, storage.NewError("list clients", err)
	}
	return toClients(rows), nil
}

// GetClient retrieves a client by ID. Returns nil, nil if it does not exist.
func (s *SQLiteStore) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var row clientRow
	err := s.db.GetContext(ctx, &row, "SELECT "+clientColumns+" FROM clients WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storage.NewError("get client", err)
	}
	return row.toModel(), nil
}

// UpdateClient replaces the name and phone of an existing client.
func (s *SQLiteStore) UpdateClient(ctx context.Context, client *models.Client) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE clients SET name = ?, phone = ? WHERE id = ?",
		nullString(client.Name), nullString(client.Phone), client.ID,
	)
	if err != nil {
		return storage.NewError("update client", err)
	}
	return storage.NewError("update client", requireAffected(res))
}

// DeleteClient removes a client and its history entries atomically.
// The cascade is explicit rather than left to the foreign key action.
func (s *SQLiteStore) DeleteClient(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		found, err := exists(ctx, tx, "clients", id)
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM history WHERE client_id = ?", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id); err != nil {
			return err
		}
		return nil
	})
	return storage.NewError("delete client", err)
}
