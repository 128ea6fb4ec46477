// Package backup exports the whole dataset to CSV artifacts and restores it
// from them with upsert-by-id semantics.
package backup

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/salonbook/internal/csvcodec"
	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

// State is a step of the backup or restore state machine.
type State string

const (
	StateIdle                 State = "idle"
	StateExporting            State = "exporting"
	StateSelectingClientsFile State = "selecting clients file"
	StateSelectingHistoryFile State = "selecting history file"
	StateRestoringClients     State = "restoring clients"
	StateRestoringHistory     State = "restoring history"
	StateDone                 State = "done"
	StateCancelled            State = "cancelled"
	StateFailed               State = "failed"
)

// Fixed artifact headers.
var (
	ClientsHeader = []string{"id", "name", "phone"}
	HistoryHeader = []string{"id", "client_id", "description", "cost", "date"}
)

// timestampLayout keeps artifact names sortable and free of ':'.
const timestampLayout = "2006-01-02T15-04-05.000"

// Artifacts describes the files produced by one backup run.
type Artifacts struct {
	// GenerationID identifies the run in logs.
	GenerationID string

	ClientsLocation string
	HistoryLocation string

	ClientsCount int
	HistoryCount int

	// Shared is false when no Sharer is configured; callers then report the
	// locations themselves.
	Shared bool
}

// Engine runs backups and restores. It holds no per-run state, and it does
// not guard against concurrent runs; callers run one at a time.
type Engine struct {
	store    storage.BackupStore
	writer   ArtifactWriter
	sharer   Sharer
	metrics  *Metrics
	now      func() time.Time
	observer func(State)
}

// Option configures an Engine.
type Option func(*Engine)

// WithSharer hands every written artifact to s.
func WithSharer(s Sharer) Option {
	return func(e *Engine) { e.sharer = s }
}

// WithMetrics records runs in m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock replaces time.Now for artifact names.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithObserver calls fn on every state transition.
func WithObserver(fn func(State)) Option {
	return func(e *Engine) { e.observer = fn }
}

// New creates an Engine over store that writes artifacts through writer.
func New(store storage.BackupStore, writer ArtifactWriter, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		writer:  writer,
		metrics: NewMetrics(nil),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) transition(s State) {
	slog.Debug("Backup engine state", "state", s)
	if e.observer != nil {
		e.observer(s)
	}
}

// RunBackup exports every client and history entry to two CSV artifacts.
func (e *Engine) RunBackup(ctx context.Context) (*Artifacts, error) {
	start := time.Now()
	e.transition(StateIdle)
	e.transition(StateExporting)

	arts, err := e.export(ctx)
	if err != nil {
		e.transition(StateFailed)
		e.metrics.observeRun("backup", StateFailed, start)
		slog.Error("Backup failed", "error", err)
		return nil, &BackupFailed{Stage: StateExporting, Err: err}
	}

	e.transition(StateDone)
	e.metrics.observeRun("backup", StateDone, start)
	slog.Info("Backup completed",
		"generation_id", arts.GenerationID,
		"clients", arts.ClientsCount,
		"history", arts.HistoryCount,
		"clients_file", arts.ClientsLocation,
		"history_file", arts.HistoryLocation,
		"shared", arts.Shared,
	)
	return arts, nil
}

func (e *Engine) export(ctx context.Context) (*Artifacts, error) {
	clients, err := e.store.ListClientsByID(ctx)
	if err != nil {
		return nil, err
	}
	history, err := e.store.ListHistoryByID(ctx)
	if err != nil {
		return nil, err
	}

	clientRecords := make([]csvcodec.Record, len(clients))
	for i, c := range clients {
		clientRecords[i] = clientRecord(c)
	}
	historyRecords := make([]csvcodec.Record, len(history))
	for i, h := range history {
		historyRecords[i] = historyRecord(h)
	}

	stamp := strings.ReplaceAll(e.now().UTC().Format(timestampLayout), ".", "-")
	arts := &Artifacts{
		GenerationID: uuid.New().String(),
		ClientsCount: len(clients),
		HistoryCount: len(history),
	}
	slog.Info("Backup started", "generation_id", arts.GenerationID)

	arts.ClientsLocation, err = e.writer.Write(ctx, "clients_backup_"+stamp+".csv",
		csvcodec.Encode(ClientsHeader, clientRecords))
	if err != nil {
		return nil, err
	}
	arts.HistoryLocation, err = e.writer.Write(ctx, "history_backup_"+stamp+".csv",
		csvcodec.Encode(HistoryHeader, historyRecords))
	if err != nil {
		return nil, err
	}

	if e.sharer == nil {
		return arts, nil
	}
	for _, loc := range []string{arts.ClientsLocation, arts.HistoryLocation} {
		if err := e.sharer.Share(ctx, loc); err != nil {
			return nil, err
		}
	}
	arts.Shared = true

	return arts, nil
}

func clientRecord(c *models.Client) csvcodec.Record {
	return csvcodec.Record{
		"id":    csvcodec.String(strconv.FormatInt(c.ID, 10)),
		"name":  optional(c.Name),
		"phone": optional(c.Phone),
	}
}

func historyRecord(h *models.HistoryEntry) csvcodec.Record {
	return csvcodec.Record{
		"id":          csvcodec.String(strconv.FormatInt(h.ID, 10)),
		"client_id":   csvcodec.String(strconv.FormatInt(h.ClientID, 10)),
		"description": optional(h.Description),
		"cost":        optional(h.Cost),
		"date":        optional(h.Date),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return csvcodec.String(s)
}
