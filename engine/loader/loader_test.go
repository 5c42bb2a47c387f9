package loader

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

type loadLog struct {
	mu   sync.Mutex
	errs map[string]error
}

func (l *loadLog) record(name string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.errs == nil {
		l.errs = map[string]error{}
	}
	l.errs[name] = err
}

func (l *loadLog) get(name string) (error, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	err, ok := l.errs[name]
	return err, ok
}

func TestDecodeImagePNG(t *testing.T) {
	img, err := DecodeImage(encodePNG(t, 4, 2, color.NRGBA{R: 255, A: 255}))
	require.NoError(t, err)

	require.Len(t, img.Levels, 3)
	assert.Equal(t, uint32(4), img.Width())
	assert.Equal(t, uint32(2), img.Height())
	assert.Len(t, img.Levels[0].Pixels, 4*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Levels[0].Pixels[:4])

	last := img.Levels[len(img.Levels)-1]
	assert.Equal(t, uint32(1), last.Width)
	assert.Equal(t, uint32(1), last.Height)
	assert.Equal(t, []byte{255, 0, 0, 255}, last.Pixels)
}

func TestDecodeImageBMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	img, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(2), img.Width())
	assert.Len(t, img.Levels, 2)
}

func TestDecodeImageRejectsNonImages(t *testing.T) {
	_, err := DecodeImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	// a PDF header sniffs as a known, non-image type
	_, err = DecodeImage([]byte("%PDF-1.4\n%...."))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestMipLevelCount(t *testing.T) {
	assert.Equal(t, 1, MipLevelCount(1, 1))
	assert.Equal(t, 3, MipLevelCount(4, 2))
	assert.Equal(t, 11, MipLevelCount(1024, 512))
	assert.Equal(t, 3, MipLevelCount(5, 5))
}

func TestLoadTextureDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blade.png", encodePNG(t, 8, 8, color.White))
	writeFile(t, dir, "guardhilt.png", encodePNG(t, 4, 4, color.Black))

	var events loadLog
	l := NewLoader(BackendTypeDirectory, WithAssetDir(dir), WithWorkers(2), WithOnLoad(events.record))
	defer l.Close()

	blade := l.LoadTexture("blade.png", material.WithAnisotropy(16))
	guard := l.LoadTexture("guardhilt.png")
	hilt := l.LoadTexture("guardhilt.png")
	l.Wait()

	assert.Same(t, guard, hilt, "same file shares one texture")
	assert.Len(t, l.Textures(), 2)
	assert.Same(t, blade, l.Get("blade.png"))
	assert.Nil(t, l.Get("pommel.png"))

	require.True(t, blade.Loaded())
	assert.Equal(t, uint64(1), blade.Version())
	assert.Equal(t, uint16(16), blade.Anisotropy())
	img, _ := blade.Image()
	assert.Equal(t, uint32(8), img.Width())

	err, ok := events.get("blade.png")
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestLoadTextureFailureKeepsDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.png", []byte("plain text with a png name"))

	var events loadLog
	l := NewLoader(BackendTypeDirectory, WithAssetDir(dir), WithOnLoad(events.record))
	defer l.Close()

	missing := l.LoadTexture("pommel.png")
	bogus := l.LoadTexture("notes.png")
	l.Wait()

	for _, tex := range []material.Texture{missing, bogus} {
		assert.False(t, tex.Loaded())
		img, version := tex.Image()
		assert.Equal(t, uint64(0), version)
		assert.Equal(t, material.DefaultImage(), img)
	}

	err, _ := events.get("pommel.png")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	err, _ = events.get("notes.png")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestLoadTextureFS(t *testing.T) {
	fsys := fstest.MapFS{
		"pommel.png": &fstest.MapFile{Data: encodePNG(t, 2, 2, color.White)},
	}
	l := NewLoader(BackendTypeFS, WithFS(fsys))
	defer l.Close()

	tex := l.LoadTexture("pommel.png")
	l.Wait()
	assert.True(t, tex.Loaded())
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blade.png", encodePNG(t, 2, 2, color.White))

	l := NewLoader(BackendTypeDirectory, WithAssetDir(dir))
	defer l.Close()

	tex := l.LoadTexture("blade.png")
	l.Wait()
	require.Equal(t, uint64(1), tex.Version())

	writeFile(t, dir, "blade.png", encodePNG(t, 4, 4, color.White))
	require.NoError(t, l.Reload("blade.png"))
	l.Wait()

	img, version := tex.Image()
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, uint32(4), img.Width())

	assert.Error(t, l.Reload("unknown.png"))
}

func TestWatchReloadsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blade.png", encodePNG(t, 2, 2, color.White))

	l := NewLoader(BackendTypeDirectory, WithAssetDir(dir), WithWatch(true))
	defer l.Close()

	tex := l.LoadTexture("blade.png")
	l.Wait()
	require.True(t, tex.Loaded())

	writeFile(t, dir, "blade.png", encodePNG(t, 16, 16, color.White))

	assert.Eventually(t, func() bool {
		img, version := tex.Image()
		return version >= 2 && img.Width() == 16
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCloseIsIdempotent(t *testing.T) {
	l := NewLoader(BackendTypeDirectory, WithAssetDir(t.TempDir()), WithWatch(true))
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func TestReloadDuringCloseIsDropped(t *testing.T) {
	fsys := fstest.MapFS{"blade.png": {Data: encodePNG(t, 2, 2, color.White)}}

	for range 50 {
		l := NewLoader(BackendTypeFS, WithFS(fsys), WithWorkers(2))
		l.LoadTexture("blade.png")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 20 {
				_ = l.Reload("blade.png")
			}
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Close())
		}()
		wg.Wait()

		// Once closed, reloads are accepted but never scheduled.
		require.NoError(t, l.Reload("blade.png"))
		l.Wait()
	}
}
