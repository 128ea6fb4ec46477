package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
	"github.com/mmynk/salonbook/internal/storage/sqlite"
)

// setupStore creates a store backed by a temp database.
func setupStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, field, verr.Field)
}

func TestClientService(t *testing.T) {
	store := setupStore(t)
	svc := NewClientService(store)
	ctx := context.Background()

	t.Run("Create trims and requires a name", func(t *testing.T) {
		_, err := svc.Create(ctx, "   ", "555")
		requireValidation(t, err, "name")

		c, err := svc.Create(ctx, "  Ana ", " 555-1111 ")
		require.NoError(t, err)
		assert.Equal(t, "Ana", c.Name)
		assert.Equal(t, "555-1111", c.Phone)
	})

	t.Run("List searches", func(t *testing.T) {
		_, err := svc.Create(ctx, "Beatriz", "600")
		require.NoError(t, err)

		all, err := svc.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		found, err := svc.List(ctx, " bea ")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Beatriz", found[0].Name)
	})

	t.Run("Delete of missing client surfaces ErrNotFound", func(t *testing.T) {
		err := svc.Delete(ctx, 999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestHistoryService(t *testing.T) {
	store := setupStore(t)
	clients := NewClientService(store)
	svc := NewHistoryService(store)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local) }
	ctx := context.Background()

	ana, err := clients.Create(ctx, "Ana", "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		entry   models.HistoryEntry
		wantErr string
	}{
		{"missing description", models.HistoryEntry{Cost: "100"}, "description"},
		{"zero cost", models.HistoryEntry{Description: "Corte", Cost: "0"}, "cost"},
		{"text cost", models.HistoryEntry{Description: "Corte", Cost: "mucho"}, "cost"},
		{"bad date", models.HistoryEntry{Description: "Corte", Cost: "100", Date: "01/03/2024"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := tt.entry
			entry.ClientID = ana.ID
			requireValidation(t, svc.Add(ctx, &entry), tt.wantErr)
		})
	}

	t.Run("Add defaults date to today and keeps cost text", func(t *testing.T) {
		entry := &models.HistoryEntry{ClientID: ana.ID, Description: "Corte", Cost: "1500,50"}
		require.NoError(t, svc.Add(ctx, entry))

		got, err := svc.Get(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", got.Date)
		assert.Equal(t, "1500,50", got.Cost)
	})

	t.Run("Add for unknown client fails", func(t *testing.T) {
		err := svc.Add(ctx, &models.HistoryEntry{ClientID: 404, Description: "Corte", Cost: "10"})
		assert.ErrorIs(t, err, storage.ErrUnknownClient)
	})

	t.Run("List returns entries with summary", func(t *testing.T) {
		require.NoError(t, svc.Add(ctx, &models.HistoryEntry{
			ClientID: ana.ID, Description: "Color", Cost: "2000", Date: "2024-04-01",
		}))

		entries, summary, err := svc.List(ctx, ana.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Color", entries[0].Description)
		assert.Equal(t, 2, summary.Visits)
		assert.InDelta(t, 3500.5, summary.Total, 0.001)
		assert.Equal(t, "2024-04-01", summary.LastVisit)
	})
}

func TestCompanyService(t *testing.T) {
	store := setupStore(t)
	svc := NewCompanyService(store)
	ctx := context.Background()

	t.Run("Load without a company yields the default profile", func(t *testing.T) {
		p, err := svc.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultProfile(), p)
		assert.False(t, p.Registered)
	})

	t.Run("Save before Register fails", func(t *testing.T) {
		err := svc.Save(ctx, &models.Company{NameCompany: "Sol"})
		assert.ErrorIs(t, err, ErrNotRegistered)
	})

	t.Run("Register validates input", func(t *testing.T) {
		requireValidation(t, svc.Register(ctx, &models.Company{}), "name")
		requireValidation(t, svc.Register(ctx, &models.Company{NameCompany: "Sol", MainColor: "pink"}), "color")
		requireValidation(t, svc.Register(ctx, &models.Company{NameCompany: "Sol", LogoURL: "logo.png"}), "logo")
	})

	t.Run("Register applies default color and sets profile", func(t *testing.T) {
		company := &models.Company{NameCompany: "Peluquería Sol"}
		require.NoError(t, svc.Register(ctx, company))

		p := svc.Profile()
		assert.True(t, p.Registered)
		assert.Equal(t, company.ID, p.CompanyID)
		assert.Equal(t, DefaultColor, p.Color)

		assert.ErrorIs(t, svc.Register(ctx, &models.Company{NameCompany: "Otra"}), ErrAlreadyRegistered)
	})

	t.Run("Save refreshes the profile", func(t *testing.T) {
		require.NoError(t, svc.Save(ctx, &models.Company{
			NameCompany: "Sol Estilistas",
			MainColor:   "#123",
			LogoURL:     "file:///sdcard/logo.png",
		}))

		p := svc.Profile()
		assert.Equal(t, "Sol Estilistas", p.Name)
		assert.Equal(t, "#123", p.Color)

		fresh := NewCompanyService(store)
		loaded, err := fresh.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, p, loaded)
	})

	t.Run("first company by id is the active one", func(t *testing.T) {
		require.NoError(t, store.CreateCompany(ctx, &models.Company{NameCompany: "Segunda"}))

		p, err := svc.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Sol Estilistas", p.Name)
	})
}
