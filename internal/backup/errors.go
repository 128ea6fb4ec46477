package backup

import (
	"errors"
	"fmt"

	"github.com/mmynk/salonbook/internal/csvcodec"
)

var (
	// ErrCancelled is returned when file selection is aborted before both
	// files are chosen. Nothing has been written when it is returned.
	ErrCancelled = errors.New("restore cancelled")

	// ErrInvalidRecord marks a restore row whose fields cannot be turned into
	// a model (missing or non-numeric id, for example).
	ErrInvalidRecord = errors.New("invalid record")

	// ErrMissingColumn marks a restore file whose header lacks a column the
	// table needs.
	ErrMissingColumn = errors.New("missing column")
)

// BackupFailed wraps whatever aborted a backup. No data is mutated by a backup,
// so nothing needs cleaning up after it.
type BackupFailed struct {
	Stage State
	Err   error
}

func (e *BackupFailed) Error() string {
	return fmt.Sprintf("backup failed while %s: %v", e.Stage, e.Err)
}

func (e *BackupFailed) Unwrap() error {
	return e.Err
}

// RestoreFailed wraps whatever aborted a restore as a whole. Rows upserted
// before the failure stay in place.
type RestoreFailed struct {
	Stage State
	Err   error
}

func (e *RestoreFailed) Error() string {
	return fmt.Sprintf("restore failed while %s: %v", e.Stage, e.Err)
}

func (e *RestoreFailed) Unwrap() error {
	return e.Err
}

// RowUpsertError describes one restore row that could not be written. It does
// not stop the restore.
type RowUpsertError struct {
	Table string

	// Row is the 1-based position of the record among the data rows.
	Row    int
	Record csvcodec.Record
	Err    error
}

func (e *RowUpsertError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Table, e.Row, e.Err)
}

func (e *RowUpsertError) Unwrap() error {
	return e.Err
}
