package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmynk/salonbook/internal/csvcodec"
	"github.com/mmynk/salonbook/internal/models"
)

// Report summarizes a restore.
type Report struct {
	ClientsUpserted int
	HistoryUpserted int

	// Failures lists the rows that were skipped, clients first.
	Failures []*RowUpsertError
}

// Restore asks picker for the clients file and then the history file, and
// restores them. If either selection is cancelled it returns ErrCancelled
// without writing anything.
func (e *Engine) Restore(ctx context.Context, picker FilePicker) (*Report, error) {
	start := time.Now()
	e.transition(StateIdle)

	e.transition(StateSelectingClientsFile)
	clientsText, err := picker.Pick(ctx, ClientsFile)
	if err != nil {
		return nil, e.selectionFailed(StateSelectingClientsFile, err, start)
	}

	e.transition(StateSelectingHistoryFile)
	historyText, err := picker.Pick(ctx, HistoryFile)
	if err != nil {
		return nil, e.selectionFailed(StateSelectingHistoryFile, err, start)
	}

	return e.restore(ctx, clientsText, historyText, start)
}

func (e *Engine) selectionFailed(stage State, err error, start time.Time) error {
	if errors.Is(err, ErrCancelled) {
		e.transition(StateCancelled)
		e.metrics.observeRun("restore", StateCancelled, start)
		slog.Info("Restore cancelled", "stage", stage)
		return ErrCancelled
	}

	e.transition(StateFailed)
	e.metrics.observeRun("restore", StateFailed, start)
	slog.Error("Restore failed", "stage", stage, "error", err)
	return &RestoreFailed{Stage: stage, Err: err}
}

// RunRestore restores a clients CSV and a history CSV. Both files are decoded
// before anything is written, so malformed input leaves the store untouched.
// Clients are always written before history so foreign keys resolve; history
// rows whose client still does not exist are reported as row failures.
func (e *Engine) RunRestore(ctx context.Context, clientsText, historyText []byte) (*Report, error) {
	e.transition(StateIdle)
	return e.restore(ctx, clientsText, historyText, time.Now())
}

func (e *Engine) restore(ctx context.Context, clientsText, historyText []byte, start time.Time) (*Report, error) {
	fail := func(stage State, err error) (*Report, error) {
		e.transition(StateFailed)
		e.metrics.observeRun("restore", StateFailed, start)
		slog.Error("Restore failed", "stage", stage, "error", err)
		return nil, &RestoreFailed{Stage: stage, Err: err}
	}

	clients, err := decode(clientsText, "clients", "id")
	if err != nil {
		return fail(StateRestoringClients, err)
	}
	history, err := decode(historyText, "history", "id", "client_id")
	if err != nil {
		return fail(StateRestoringHistory, err)
	}

	report := &Report{}

	e.transition(StateRestoringClients)
	report.ClientsUpserted, report.Failures = e.upsertAll(ctx, "clients", clients, report.Failures,
		func(rec csvcodec.Record) error {
			c, err := clientFromRecord(rec)
			if err != nil {
				return err
			}
			return e.store.UpsertClient(ctx, c)
		})
	if err := ctx.Err(); err != nil {
		return fail(StateRestoringClients, err)
	}

	e.transition(StateRestoringHistory)
	report.HistoryUpserted, report.Failures = e.upsertAll(ctx, "history", history, report.Failures,
		func(rec csvcodec.Record) error {
			h, err := historyFromRecord(rec)
			if err != nil {
				return err
			}
			return e.store.UpsertHistory(ctx, h)
		})
	if err := ctx.Err(); err != nil {
		return fail(StateRestoringHistory, err)
	}

	e.transition(StateDone)
	e.metrics.observeRun("restore", StateDone, start)
	slog.Info("Restore completed",
		"clients_upserted", report.ClientsUpserted,
		"history_upserted", report.HistoryUpserted,
		"failed_rows", len(report.Failures),
	)
	return report, nil
}

// upsertAll folds records through upsert, counting successes and appending
// one RowUpsertError per failed record to failures. It stops early only if
// ctx is done.
func (e *Engine) upsertAll(
	ctx context.Context,
	table string,
	records []csvcodec.Record,
	failures []*RowUpsertError,
	upsert func(csvcodec.Record) error,
) (int, []*RowUpsertError) {
	upserted, failed := 0, 0
	for i, rec := range records {
		if ctx.Err() != nil {
			break
		}
		if err := upsert(rec); err != nil {
			rowErr := &RowUpsertError{Table: table, Row: i + 1, Record: rec, Err: err}
			slog.Warn("Restore row skipped", "table", table, "row", rowErr.Row, "error", err)
			failures = append(failures, rowErr)
			failed++
			continue
		}
		upserted++
	}

	e.metrics.observeRows(table, upserted, failed)
	return upserted, failures
}

// decode parses a restore file and checks that its header has every column
// in required.
func decode(data []byte, table string, required ...string) ([]csvcodec.Record, error) {
	header, records, err := csvcodec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s file: %w", table, err)
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	for _, name := range required {
		if !present[name] {
			return nil, fmt.Errorf("%s file: %w %q", table, ErrMissingColumn, name)
		}
	}

	return records, nil
}

func clientFromRecord(rec csvcodec.Record) (*models.Client, error) {
	id, err := parseID(rec, "id")
	if err != nil {
		return nil, err
	}
	return &models.Client{
		ID:    id,
		Name:  rec.Get("name"),
		Phone: rec.Get("phone"),
	}, nil
}

func historyFromRecord(rec csvcodec.Record) (*models.HistoryEntry, error) {
	id, err := parseID(rec, "id")
	if err != nil {
		return nil, err
	}
	clientID, err := parseID(rec, "client_id")
	if err != nil {
		return nil, err
	}
	return &models.HistoryEntry{
		ID:          id,
		ClientID:    clientID,
		Description: rec.Get("description"),
		Cost:        rec.Get("cost"),
		Date:        rec.Get("date"),
	}, nil
}

func parseID(rec csvcodec.Record, field string) (int64, error) {
	v := rec[field]
	if v == nil {
		return 0, fmt.Errorf("%w: %s is empty", ErrInvalidRecord, field)
	}
	id, err := strconv.ParseInt(*v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s %q is not a positive integer", ErrInvalidRecord, field, *v)
	}
	return id, nil
}
