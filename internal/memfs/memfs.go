// Package memfs provides the ephemeral filesystem substituted for a
// compiler's output target so that test runs leave no durable artifacts.
package memfs

import (
	"io/fs"
	"sort"

	"github.com/spf13/afero"
)

// New returns a fresh, empty in-memory filesystem. Every call returns an
// independent instance; nothing is shared between callers.
func New() afero.Fs {
	return afero.NewMemMapFs()
}

// IsMemory reports whether fsys is backed by process memory.
func IsMemory(fsys afero.Fs) bool {
	_, ok := fsys.(*afero.MemMapFs)
	return ok
}

// FromMap returns an in-memory filesystem populated with files, keyed by path.
func FromMap(files map[string]string) (afero.Fs, error) {
	fsys := New()
	for name, content := range files {
		if err := afero.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			return nil, err
		}
	}
	return fsys, nil
}

// Files lists every regular file under root, sorted.
func Files(fsys afero.Fs, root string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
