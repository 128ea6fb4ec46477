package backup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ArtifactWriter persists a generated backup file and returns where it went.
type ArtifactWriter interface {
	Write(ctx context.Context, name string, data []byte) (location string, err error)
}

// Sharer hands a written artifact to something outside the process.
type Sharer interface {
	Share(ctx context.Context, location string) error
}

// DirWriter writes artifacts into a directory. It refuses to overwrite an
// existing file.
type DirWriter struct {
	Dir string
}

// Write creates Dir/name exclusively and writes data to it.
func (w DirWriter) Write(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(w.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}

	return path, nil
}

// CommandSharer shares an artifact by running an external program with the
// artifact location appended to Args (e.g. "xdg-open").
type CommandSharer struct {
	Name string
	Args []string
}

func (s CommandSharer) Share(ctx context.Context, location string) error {
	args := append(append([]string(nil), s.Args...), location)
	out, err := exec.CommandContext(ctx, s.Name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to run %s: %w (%s)", s.Name, err, out)
	}
	return nil
}

// FileKind identifies which restore input a FilePicker is asked for.
type FileKind string

const (
	ClientsFile FileKind = "clients"
	HistoryFile FileKind = "history"
)

// FilePicker supplies restore inputs, typically by asking the user.
// Returning ErrCancelled aborts the restore without writes.
type FilePicker interface {
	Pick(ctx context.Context, kind FileKind) ([]byte, error)
}

// PathPicker reads restore inputs from fixed paths. An empty path counts as
// a cancelled selection.
type PathPicker struct {
	ClientsPath string
	HistoryPath string
}

func (p PathPicker) Pick(_ context.Context, kind FileKind) ([]byte, error) {
	path := p.ClientsPath
	if kind == HistoryFile {
		path = p.HistoryPath
	}
	if path == "" {
		return nil, ErrCancelled
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	return data, nil
}
