// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/salonbook/internal/models"
)

// ClientFilter narrows ListClients. The zero value lists every client.
type ClientFilter struct {
	// Search matches, case-insensitively, any client whose name or phone
	// contains it.
	Search string
}

// ClientStore defines client operations.
type ClientStore interface {
	// CreateClient inserts a client and populates client.ID.
	CreateClient(ctx context.Context, client *models.Client) error

	// ListClients returns clients ordered by name ascending.
	ListClients(ctx context.Context, filter ClientFilter) ([]*models.Client, error)

	// GetClient returns the client with the given ID, or nil if there is none.
	GetClient(ctx context.Context, id int64) (*models.Client, error)

	// UpdateClient replaces every field of an existing client.
	// Returns ErrNotFound if the client does not exist.
	UpdateClient(ctx context.Context, client *models.Client) error

	// DeleteClient removes the client and all of its history entries in one
	// transaction. Returns ErrNotFound if the client does not exist.
	DeleteClient(ctx context.Context, id int64) error
}

// HistoryStore defines history entry operations.
type HistoryStore interface {
	// CreateHistory inserts an entry and populates entry.ID.
	// Returns ErrUnknownClient if entry.ClientID does not exist.
	CreateHistory(ctx context.Context, entry *models.HistoryEntry) error

	// ListHistory returns the entries of a client ordered by date descending.
	ListHistory(ctx context.Context, clientID int64) ([]*models.HistoryEntry, error)

	// GetHistory returns the entry with the given ID, or nil if there is none.
	GetHistory(ctx context.Context, id int64) (*models.HistoryEntry, error)

	// UpdateHistory replaces every field of an existing entry.
	UpdateHistory(ctx context.Context, entry *models.HistoryEntry) error

	// DeleteHistory removes a single entry.
	DeleteHistory(ctx context.Context, id int64) error
}

// CompanyStore defines company profile operations.
type CompanyStore interface {
	CreateCompany(ctx context.Context, company *models.Company) error

	// ListCompanies returns every company ordered by ID ascending. Callers
	// treat the first element as the active company.
	ListCompanies(ctx context.Context) ([]*models.Company, error)

	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	DeleteCompany(ctx context.Context, id int64) error
}

// BackupStore is the raw access used by the backup/restore engine.
type BackupStore interface {
	// ListClientsByID returns every client ordered by ID.
	ListClientsByID(ctx context.Context) ([]*models.Client, error)

	// ListHistoryByID returns every history entry ordered by ID.
	ListHistoryByID(ctx context.Context) ([]*models.HistoryEntry, error)

	// UpsertClient writes the client under its own ID, replacing any existing
	// row with that ID. History rows of a replaced client are kept.
	UpsertClient(ctx context.Context, client *models.Client) error

	// UpsertHistory writes the entry under its own ID, replacing any existing
	// row with that ID. Returns ErrUnknownClient if entry.ClientID does not
	// exist, so history can never be restored ahead of its clients.
	UpsertHistory(ctx context.Context, entry *models.HistoryEntry) error
}

// Store is the full data layer. This abstraction keeps the service layer and
// the backup engine independent of the SQL engine behind it.
type Store interface {
	ClientStore
	HistoryStore
	CompanyStore
	BackupStore

	// Close releases any resources held by the store.
	Close() error
}
