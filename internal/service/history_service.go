package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/salonbook/internal/calculator"
	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

// HistoryService manages service-history entries.
type HistoryService struct {
	store storage.HistoryStore
	now   func() time.Time
}

// NewHistoryService creates a new HistoryService with the given storage backend.
func NewHistoryService(store storage.HistoryStore) *HistoryService {
	return &HistoryService{store: store, now: time.Now}
}

// validateHistory normalizes and checks an entry. An empty date becomes today.
func (s *HistoryService) validateHistory(e *models.HistoryEntry) error {
	e.Description = strings.TrimSpace(e.Description)
	e.Cost = strings.TrimSpace(e.Cost)
	e.Date = strings.TrimSpace(e.Date)

	if e.Description == "" {
		return invalid("description", "required")
	}
	if v, ok := calculator.ParseCost(e.Cost); !ok || v <= 0 {
		return invalid("cost", "must be a number greater than 0")
	}
	if e.Date == "" {
		e.Date = s.now().Format(models.DateLayout)
	}
	if _, err := time.Parse(models.DateLayout, e.Date); err != nil {
		return invalid("date", "must be YYYY-MM-DD")
	}
	return nil
}

// Add records a service for a client. The cost is kept as typed.
func (s *HistoryService) Add(ctx context.Context, entry *models.HistoryEntry) error {
	if err := s.validateHistory(entry); err != nil {
		return err
	}

	if err := s.store.CreateHistory(ctx, entry); err != nil {
		slog.Error("CreateHistory failed", "client_id", entry.ClientID, "error", err)
		return err
	}

	slog.Info("History entry added", "history_id", entry.ID, "client_id", entry.ClientID)
	return nil
}

// List returns a client's entries, newest first, and their summary.
func (s *HistoryService) List(ctx context.Context, clientID int64) ([]*models.HistoryEntry, calculator.Summary, error) {
	entries, err := s.store.ListHistory(ctx, clientID)
	if err != nil {
		return nil, calculator.Summary{}, err
	}
	return entries, calculator.SummarizeHistory(entries), nil
}

// Get returns an entry, or nil if it does not exist.
func (s *HistoryService) Get(ctx context.Context, id int64) (*models.HistoryEntry, error) {
	return s.store.GetHistory(ctx, id)
}

// Update replaces every field of an entry.
func (s *HistoryService) Update(ctx context.Context, entry *models.HistoryEntry) error {
	if err := s.validateHistory(entry); err != nil {
		return err
	}

	if err := s.store.UpdateHistory(ctx, entry); err != nil {
		slog.Error("UpdateHistory failed", "history_id", entry.ID, "error", err)
		return err
	}

	slog.Info("History entry updated", "history_id", entry.ID)
	return nil
}

// Delete removes one entry.
func (s *HistoryService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteHistory(ctx, id); err != nil {
		slog.Error("DeleteHistory failed", "history_id", id, "error", err)
		return err
	}

	slog.Info("History entry deleted", "history_id", id)
	return nil
}
