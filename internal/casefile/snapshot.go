package casefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/specialistvlad/statscheck/internal/compiler"
)

// ErrSnapshotMismatch is returned when stats differ from the stored snapshot.
var ErrSnapshotMismatch = errors.New("snapshot mismatch")

// SnapshotJSON renders the deterministic part of report: build time and
// output path are dropped.
func SnapshotJSON(report *compiler.StatsCompilation) ([]byte, error) {
	normalized := *report
	normalized.Time = 0
	normalized.OutputPath = ""
	out, err := json.MarshalIndent(&normalized, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// MatchSnapshot compares report with the snapshot stored at path. A missing
// snapshot is written; with update set, the snapshot is always rewritten.
func MatchSnapshot(fsys afero.Fs, path string, report *compiler.StatsCompilation, update bool) error {
	got, err := SnapshotJSON(report)
	if err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}

	want, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist) || update:
		return writeSnapshot(fsys, path, got)
	case err != nil:
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}

	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		return fmt.Errorf("%w: %s (-want +got):\n%s", ErrSnapshotMismatch, path, diff)
	}
	return nil
}

func writeSnapshot(fsys afero.Fs, path string, content []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := afero.WriteFile(fsys, path, content, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}
