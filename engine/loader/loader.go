package loader

import (
	"fmt"
	"io/fs"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/material"
	"github.com/fsnotify/fsnotify"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	assetDir string
	fsys     fs.FS
	workers  int
	watch    bool
	onLoad   func(name string, err error)

	backend  loaderBackend
	textures map[string]material.Texture

	pool     worker.DynamicWorkerPool
	inflight sync.WaitGroup
	taskID   int

	watcher   *fsnotify.Watcher
	closeOnce sync.Once
	closed    chan struct{}
}

// Loader defines the public-facing interface for loading and caching textures.
//
// Loads are asynchronous: LoadTexture returns a Texture immediately, exposing a
// 1x1 white default image, and a worker decodes the file in the background.
// When the decode finishes the image is published on the Texture. A failed
// load logs a warning and leaves the default image in place; it is not retried.
type Loader interface {
	// LoadTexture returns the texture for a file name, starting a background load the first
	// time the name is seen. Later calls with the same name return the same Texture, so
	// meshes that share an image share one texture.
	//
	// Parameters:
	//   - name: the file name relative to the asset root
	//   - options: texture options applied when the texture is first created
	//
	// Returns:
	//   - material.Texture: the texture, possibly still showing the default image
	LoadTexture(name string, options ...material.TextureBuilderOption) material.Texture

	// Get retrieves a cached texture by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - material.Texture: the cached texture or nil
	Get(name string) material.Texture

	// Textures returns a copy of the texture cache.
	//
	// Returns:
	//   - map[string]material.Texture: all cached textures keyed by name
	Textures() map[string]material.Texture

	// Reload schedules a fresh background load of a cached texture.
	//
	// Parameters:
	//   - name: the cache key of the texture
	//
	// Returns:
	//   - error: error if the texture is not cached
	Reload(name string) error

	// Wait blocks until every load scheduled so far has finished.
	Wait()

	// Close stops the hot-reload watcher, if any, and waits for in-flight loads.
	//
	// Returns:
	//   - error: error from closing the watcher
	Close() error
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
// If hot reload is requested but the watcher cannot start, a warning is logged and
// the loader runs without it.
//
// Parameters:
//   - backendType: where texture files are read from (BackendTypeDirectory or BackendTypeFS)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		assetDir: ".",
		workers:  max(runtime.NumCPU()-1, 1),
		textures: make(map[string]material.Texture),
		closed:   make(chan struct{}),
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeFS:
		if l.fsys == nil {
			panic("loader: BackendTypeFS requires WithFS")
		}
		l.backend = newFSLoaderBackend(l.fsys)
	default:
		l.backend = newDirectoryLoaderBackend(l.assetDir)
	}

	// Idle workers exit after a second; texture loads come in bursts.
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)

	if l.watch {
		if err := l.startWatcher(); err != nil {
			log.Printf("[Loader] warning: hot reload disabled: %v", err)
		}
	}

	return l
}

func (l *loader) LoadTexture(name string, options ...material.TextureBuilderOption) material.Texture {
	l.mu.Lock()
	if cached, ok := l.textures[name]; ok {
		l.mu.Unlock()
		return cached
	}
	tex := material.NewTexture(name, options...)
	l.textures[name] = tex
	l.mu.Unlock()

	l.schedule(tex)
	return tex
}

func (l *loader) Get(name string) material.Texture {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.textures[name]
}

func (l *loader) Textures() map[string]material.Texture {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]material.Texture, len(l.textures))
	for k, v := range l.textures {
		result[k] = v
	}
	return result
}

func (l *loader) Reload(name string) error {
	tex := l.Get(name)
	if tex == nil {
		return fmt.Errorf("loader: texture %q is not loaded", name)
	}
	l.schedule(tex)
	return nil
}

func (l *loader) Wait() {
	l.inflight.Wait()
}

func (l *loader) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.mu.Lock()
		close(l.closed)
		l.mu.Unlock()
		if l.watcher != nil {
			err = l.watcher.Close()
		}
	})
	l.inflight.Wait()
	return err
}

// schedule submits a decode task for tex to the worker pool. It is a no-op once the loader is closed.
// The closed check and inflight.Add share l.mu with Close so no task is added after Close starts waiting.
func (l *loader) schedule(tex material.Texture) {
	l.mu.Lock()
	select {
	case <-l.closed:
		l.mu.Unlock()
		return
	default:
	}
	l.inflight.Add(1)
	id := l.taskID
	l.taskID++
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer l.inflight.Done()
			err := l.load(tex)
			if err != nil {
				log.Printf("[Loader] warning: texture %q not loaded, keeping default image: %v", tex.Name(), err)
			}
			if l.onLoad != nil {
				l.onLoad(tex.Name(), err)
			}
			return nil, nil
		},
	})
}

// load reads, decodes, and publishes one texture image.
func (l *loader) load(tex material.Texture) error {
	data, err := l.backend.Read(tex.Name())
	if err != nil {
		return err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return fmt.Errorf("%s: %w", tex.Name(), err)
	}
	tex.SetImage(img)
	return nil
}
