package loader

import "io/fs"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithAssetDir is an option builder that sets the directory texture names are resolved against.
// Used by BackendTypeDirectory.
//
// Parameters:
//   - dir: the asset directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the directory option to a loader
func WithAssetDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.assetDir = dir
	}
}

// WithFS is an option builder that sets the file system texture names are resolved against.
// Used by BackendTypeFS.
//
// Parameters:
//   - fsys: the file system
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithWorkers is an option builder that sets the maximum number of concurrent decode workers.
//
// Parameters:
//   - n: worker count, values below 1 are raised to 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithWatch is an option builder that enables texture hot reload: writes to a loaded
// texture's file re-run the load and swap the image in place. Directory backend only.
//
// Parameters:
//   - watch: true to enable
//
// Returns:
//   - LoaderBuilderOption: a function that applies the watch option to a loader
func WithWatch(watch bool) LoaderBuilderOption {
	return func(l *loader) {
		l.watch = watch
	}
}

// WithOnLoad is an option builder that registers a callback invoked after every load attempt,
// on the worker goroutine. err is nil on success.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - LoaderBuilderOption: a function that applies the callback option to a loader
func WithOnLoad(fn func(name string, err error)) LoaderBuilderOption {
	return func(l *loader) {
		l.onLoad = fn
	}
}
