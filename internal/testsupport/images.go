package testsupport

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// Format selects the encoder used by WriteImage.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

// WriteImage encodes a solid width x height image in the requested format at
// path, creating parent directories as needed.
func WriteImage(t testing.TB, path string, format Format, width, height int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := encode(f, format, width, height); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func encode(w io.Writer, format Format, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: 0x42, G: 0x80, B: 0xc0, A: 0xff}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	switch format {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 80})
	case GIF:
		return gif.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

// WriteFile writes raw content to path, creating parent directories. Useful
// for non-image files that must be excluded from albums.
func WriteFile(t testing.TB, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// NewAlbumDir creates a directory named name under a fresh temp dir and fills
// it with PNG images for each filename in images.
func NewAlbumDir(t testing.TB, name string, images ...string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir album %s: %v", dir, err)
	}
	for _, img := range images {
		WriteImage(t, filepath.Join(dir, img), PNG, 4, 3)
	}
	return dir
}
