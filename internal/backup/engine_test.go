package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
	"github.com/mmynk/salonbook/internal/storage/sqlite"
)

// memWriter keeps artifacts in memory, keyed by name.
type memWriter struct {
	files map[string][]byte
	err   error
}

func newMemWriter() *memWriter {
	return &memWriter{files: make(map[string][]byte)}
}

func (w *memWriter) Write(_ context.Context, name string, data []byte) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.files[name] = data
	return "mem://" + name, nil
}

type recordingSharer struct {
	shared []string
}

func (s *recordingSharer) Share(_ context.Context, location string) error {
	s.shared = append(s.shared, location)
	return nil
}

type stubPicker map[FileKind][]byte

func (p stubPicker) Pick(_ context.Context, kind FileKind) ([]byte, error) {
	data, ok := p[kind]
	if !ok {
		return nil, ErrCancelled
	}
	return data, nil
}

func newStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "salon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var fixedClock = func() time.Time {
	return time.Date(2024, 3, 1, 10, 20, 30, 456_000_000, time.UTC)
}

func TestBackupRestoreEndToEnd(t *testing.T) {
	ctx := context.Background()
	source := newStore(t)

	ana := &models.Client{Name: "Ana", Phone: "555-1111"}
	require.NoError(t, source.CreateClient(ctx, ana))
	require.Equal(t, int64(1), ana.ID)
	corte := &models.HistoryEntry{ClientID: ana.ID, Description: "Corte", Cost: "1500", Date: "2024-03-01"}
	require.NoError(t, source.CreateHistory(ctx, corte))
	require.Equal(t, int64(1), corte.ID)

	writer := newMemWriter()
	arts, err := New(source, writer, WithClock(fixedClock)).RunBackup(ctx)
	require.NoError(t, err)

	clientsName := "clients_backup_2024-03-01T10-20-30-456.csv"
	historyName := "history_backup_2024-03-01T10-20-30-456.csv"
	assert.Equal(t, "mem://"+clientsName, arts.ClientsLocation)
	assert.Equal(t, "mem://"+historyName, arts.HistoryLocation)
	assert.False(t, arts.Shared)
	assert.NotEmpty(t, arts.GenerationID)

	clientsCSV := writer.files[clientsName]
	historyCSV := writer.files[historyName]
	assert.Equal(t, "id,name,phone\n1,Ana,555-1111\n", string(clientsCSV))
	assert.Equal(t, "id,client_id,description,cost,date\n1,1,Corte,1500,2024-03-01\n", string(historyCSV))

	target := newStore(t)
	report, err := New(target, newMemWriter()).RunRestore(ctx, clientsCSV, historyCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ClientsUpserted)
	assert.Equal(t, 1, report.HistoryUpserted)
	assert.Empty(t, report.Failures)

	gotClient, err := target.GetClient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ana, gotClient)

	gotHistory, err := target.GetHistory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, corte, gotHistory)
}

func TestRunBackup(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store writes header-only files", func(t *testing.T) {
		writer := newMemWriter()
		arts, err := New(newStore(t), writer).RunBackup(ctx)
		require.NoError(t, err)
		assert.Zero(t, arts.ClientsCount)

		for name, data := range writer.files {
			if strings.HasPrefix(name, "clients_") {
				assert.Equal(t, "id,name,phone\n", string(data))
			} else {
				assert.Equal(t, "id,client_id,description,cost,date\n", string(data))
			}
		}
		assert.Len(t, writer.files, 2)
	})

	t.Run("escapes values and orders rows by id", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertClient(ctx, &models.Client{ID: 7, Name: "Zoe, \"Z\""}))
		require.NoError(t, store.UpsertClient(ctx, &models.Client{ID: 3, Name: "Ana"}))

		writer := newMemWriter()
		_, err := New(store, writer, WithClock(fixedClock)).RunBackup(ctx)
		require.NoError(t, err)

		got := string(writer.files["clients_backup_2024-03-01T10-20-30-456.csv"])
		assert.Equal(t, "id,name,phone\n3,Ana,\n7,\"Zoe, \"\"Z\"\"\",\n", got)
	})

	t.Run("shares both artifacts when a sharer is set", func(t *testing.T) {
		sharer := &recordingSharer{}
		arts, err := New(newStore(t), newMemWriter(), WithSharer(sharer)).RunBackup(ctx)
		require.NoError(t, err)
		assert.True(t, arts.Shared)
		assert.Equal(t, []string{arts.ClientsLocation, arts.HistoryLocation}, sharer.shared)
	})

	t.Run("writer failure is BackupFailed", func(t *testing.T) {
		writer := newMemWriter()
		writer.err = errors.New("disk full")

		var states []State
		_, err := New(newStore(t), writer, WithObserver(func(s State) { states = append(states, s) })).RunBackup(ctx)
		require.Error(t, err)

		var failed *BackupFailed
		require.True(t, errors.As(err, &failed))
		assert.Equal(t, StateExporting, failed.Stage)
		assert.Equal(t, []State{StateIdle, StateExporting, StateFailed}, states)
	})

	t.Run("DirWriter never overwrites", func(t *testing.T) {
		dir := t.TempDir()
		engine := New(newStore(t), DirWriter{Dir: dir}, WithClock(fixedClock))

		arts, err := engine.RunBackup(ctx)
		require.NoError(t, err)
		data, err := os.ReadFile(arts.ClientsLocation)
		require.NoError(t, err)
		assert.Equal(t, "id,name,phone\n", string(data))

		_, err = engine.RunBackup(ctx)
		assert.ErrorIs(t, err, os.ErrExist)
	})
}

func TestRunRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("existing id is overwritten in place", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.CreateClient(ctx, &models.Client{Name: "Ana", Phone: "111"}))

		report, err := New(store, newMemWriter()).RunRestore(ctx,
			[]byte("id,name,phone\n1,Ana María,222\n"),
			[]byte("id,client_id,description,cost,date\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, report.ClientsUpserted)

		clients, err := store.ListClientsByID(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, &models.Client{ID: 1, Name: "Ana María", Phone: "222"}, clients[0])
	})

	t.Run("new id is inserted with that exact id", func(t *testing.T) {
		store := newStore(t)

		_, err := New(store, newMemWriter()).RunRestore(ctx,
			[]byte("id,name,phone\n42,Rosa,\n"),
			[]byte("id,client_id,description,cost,date\n"))
		require.NoError(t, err)

		got, err := store.GetClient(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Rosa", got.Name)
	})

	t.Run("short history line restores with empty date", func(t *testing.T) {
		store := newStore(t)

		report, err := New(store, newMemWriter()).RunRestore(ctx,
			[]byte("id,name,phone\n1,Ana,\n"),
			[]byte("id,client_id,description,cost,date\n5,1,Corte,1500\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, report.HistoryUpserted)

		got, err := store.GetHistory(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, &models.HistoryEntry{ID: 5, ClientID: 1, Description: "Corte", Cost: "1500"}, got)
	})

	t.Run("bad rows are reported and the rest continue", func(t *testing.T) {
		store := newStore(t)
		reg := prometheus.NewRegistry()
		metrics := NewMetrics(reg)

		report, err := New(store, newMemWriter(), WithMetrics(metrics)).RunRestore(ctx,
			[]byte("id,name,phone\n1,Ana,\nabc,Bad,\n2,Bea,\n"),
			[]byte("id,client_id,description,cost,date\n1,1,Corte,,\n2,99,Huérfano,,\n3,2,Color,,\n"))
		require.NoError(t, err)

		assert.Equal(t, 2, report.ClientsUpserted)
		assert.Equal(t, 2, report.HistoryUpserted)
		require.Len(t, report.Failures, 2)

		assert.Equal(t, "clients", report.Failures[0].Table)
		assert.Equal(t, 2, report.Failures[0].Row)
		assert.ErrorIs(t, report.Failures[0], ErrInvalidRecord)

		assert.Equal(t, "history", report.Failures[1].Table)
		assert.Equal(t, 2, report.Failures[1].Row)
		assert.ErrorIs(t, report.Failures[1], storage.ErrUnknownClient)

		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.rows.WithLabelValues("clients", "upserted")))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rows.WithLabelValues("history", "failed")))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues("restore", string(StateDone))))
	})

	t.Run("history before its clients is rejected per row", func(t *testing.T) {
		store := newStore(t)

		// No clients restored, so client 1 never resolves.
		report, err := New(store, newMemWriter()).RunRestore(ctx,
			[]byte("id,name,phone\n"),
			[]byte("id,client_id,description,cost,date\n1,1,Corte,,\n"))
		require.NoError(t, err)
		assert.Zero(t, report.HistoryUpserted)
		require.Len(t, report.Failures, 1)
		assert.ErrorIs(t, report.Failures[0], storage.ErrUnknownClient)
	})

	t.Run("swapped files fail before any write", func(t *testing.T) {
		store := newStore(t)

		_, err := New(store, newMemWriter()).RunRestore(ctx,
			[]byte("id,name,phone\n1,Ana,\n"),
			[]byte("id,name,phone\n1,Ana,\n"))
		require.Error(t, err)

		var failed *RestoreFailed
		require.True(t, errors.As(err, &failed))
		assert.Equal(t, StateRestoringHistory, failed.Stage)
		assert.ErrorIs(t, err, ErrMissingColumn)

		clients, err := store.ListClientsByID(ctx)
		require.NoError(t, err)
		assert.Empty(t, clients)
	})

	t.Run("malformed CSV fails before any write", func(t *testing.T) {
		store := newStore(t)

		_, err := New(store, newMemWriter()).RunRestore(ctx,
			[]byte("id,name,phone\n1,Ana,\n"),
			[]byte("id,client_id,description,cost,date\n1,1,\"Corte,,\n"))
		require.Error(t, err)

		var failed *RestoreFailed
		require.True(t, errors.As(err, &failed))

		clients, err := store.ListClientsByID(ctx)
		require.NoError(t, err)
		assert.Empty(t, clients)
	})
}

func TestRestoreFileSelection(t *testing.T) {
	ctx := context.Background()
	clientsCSV := []byte("id,name,phone\n1,Ana,\n")
	historyCSV := []byte("id,client_id,description,cost,date\n1,1,Corte,1500,2024-03-01\n")

	t.Run("walks every state in order", func(t *testing.T) {
		var states []State
		engine := New(newStore(t), newMemWriter(), WithObserver(func(s State) { states = append(states, s) }))

		report, err := engine.Restore(ctx, stubPicker{ClientsFile: clientsCSV, HistoryFile: historyCSV})
		require.NoError(t, err)
		assert.Equal(t, 1, report.HistoryUpserted)
		assert.Equal(t, []State{
			StateIdle,
			StateSelectingClientsFile,
			StateSelectingHistoryFile,
			StateRestoringClients,
			StateRestoringHistory,
			StateDone,
		}, states)
	})

	t.Run("cancelling the second file writes nothing", func(t *testing.T) {
		store := newStore(t)
		var last State
		engine := New(store, newMemWriter(), WithObserver(func(s State) { last = s }))

		_, err := engine.Restore(ctx, stubPicker{ClientsFile: clientsCSV})
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, StateCancelled, last)

		clients, err := store.ListClientsByID(ctx)
		require.NoError(t, err)
		assert.Empty(t, clients)
	})

	t.Run("PathPicker reads files and treats empty paths as cancel", func(t *testing.T) {
		dir := t.TempDir()
		clientsPath := filepath.Join(dir, "clients.csv")
		require.NoError(t, os.WriteFile(clientsPath, clientsCSV, 0o644))

		data, err := PathPicker{ClientsPath: clientsPath}.Pick(ctx, ClientsFile)
		require.NoError(t, err)
		assert.Equal(t, clientsCSV, data)

		_, err = PathPicker{ClientsPath: clientsPath}.Pick(ctx, HistoryFile)
		assert.ErrorIs(t, err, ErrCancelled)
	})
}
