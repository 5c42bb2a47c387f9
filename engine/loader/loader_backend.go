package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoaderBackendType identifies where texture files are read from.
type LoaderBackendType int

const (
	// BackendTypeDirectory reads files from a directory on disk. Supports hot reload.
	BackendTypeDirectory LoaderBackendType = iota
	// BackendTypeFS reads files from an fs.FS, such as an embedded asset bundle.
	BackendTypeFS
)

// loaderBackend abstracts the storage texture files are read from.
type loaderBackend interface {
	// Read returns the raw bytes of the named file.
	//
	// Parameters:
	//   - name: the file name relative to the backend root
	//
	// Returns:
	//   - []byte: the file contents
	//   - error: error if the file cannot be read
	Read(name string) ([]byte, error)

	// Dir returns the on-disk directory the backend reads from, or "" if it is not disk-backed.
	//
	// Returns:
	//   - string: the directory path
	Dir() string
}

type directoryLoaderBackend struct {
	dir string
}

var _ loaderBackend = &directoryLoaderBackend{}

func newDirectoryLoaderBackend(dir string) loaderBackend {
	return &directoryLoaderBackend{dir: dir}
}

func (b *directoryLoaderBackend) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func (b *directoryLoaderBackend) Dir() string {
	return b.dir
}

type fsLoaderBackend struct {
	fsys fs.FS
}

var _ loaderBackend = &fsLoaderBackend{}

func newFSLoaderBackend(fsys fs.FS) loaderBackend {
	return &fsLoaderBackend{fsys: fsys}
}

func (b *fsLoaderBackend) Read(name string) ([]byte, error) {
	data, err := fs.ReadFile(b.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func (b *fsLoaderBackend) Dir() string {
	return ""
}
