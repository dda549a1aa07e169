package imagemeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"folio/internal/fileutil"
)

// SidecarSuffix is appended to an image path to form its sidecar path.
const SidecarSuffix = ".json"

var (
	// ErrNotFound indicates the image file does not exist.
	ErrNotFound = errors.New("image not found")
	// ErrUnrecognizedFormat indicates the file header matches no supported image format.
	ErrUnrecognizedFormat = errors.New("unrecognized image format")
	// ErrRelativePath indicates Load was given a path that is not absolute.
	ErrRelativePath = errors.New("image path must be absolute")
)

// Info holds the attributes derived from the file itself.
type Info struct {
	Kind   Kind
	Width  int
	Height int
}

// Extract reads the image header at path and reports its format and geometry.
func Extract(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Info{}, fmt.Errorf("open image %s: %w", path, err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrUnrecognizedFormat, path, err)
	}
	kind := kindFromFormat(format)
	if !kind.Recognized() {
		return Info{}, fmt.Errorf("%w: %s: format %q", ErrUnrecognizedFormat, path, format)
	}
	return Info{Kind: kind, Width: cfg.Width, Height: cfg.Height}, nil
}

// SidecarPath returns the sidecar record location for the image at path.
func SidecarPath(path string) string {
	return path + SidecarSuffix
}

// Image is one album image: immutable identity and derived attributes plus
// the editable title and description.
type Image struct {
	path        string
	info        Info
	title       string
	description string
}

// Load extracts the image at path and applies sidecar overrides when a valid
// sidecar exists. path must be absolute.
func Load(path string) (*Image, error) {
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: %s", ErrRelativePath, path)
	}
	abs := filepath.Clean(path)
	info, err := Extract(abs)
	if err != nil {
		return nil, err
	}
	img := &Image{
		path:  abs,
		info:  info,
		title: filepath.Base(abs),
	}
	if sc, ok := readSidecar(SidecarPath(abs)); ok {
		if sc.Title != nil {
			img.title = *sc.Title
		}
		if sc.Description != nil {
			img.description = *sc.Description
		}
	}
	return img, nil
}

// Path returns the absolute image path.
func (i *Image) Path() string { return i.path }

// Name returns the image basename.
func (i *Image) Name() string { return filepath.Base(i.path) }

// SidecarPath returns the sidecar record location for this image.
func (i *Image) SidecarPath() string { return SidecarPath(i.path) }

func (i *Image) Kind() Kind { return i.info.Kind }

func (i *Image) Width() int { return i.info.Width }

func (i *Image) Height() int { return i.info.Height }

func (i *Image) Title() string { return i.title }

func (i *Image) Description() string { return i.description }

func (i *Image) SetTitle(title string) { i.title = title }

func (i *Image) SetDescription(description string) { i.description = description }

// Record returns the full persisted form of the image metadata.
func (i *Image) Record() Sidecar {
	return Sidecar{
		Title:       i.title,
		Type:        i.info.Kind.String(),
		Description: i.description,
		Width:       i.info.Width,
		Height:      i.info.Height,
	}
}

// Persist writes the full metadata to the sidecar path, replacing any
// existing sidecar atomically.
func (i *Image) Persist() error {
	payload, err := json.MarshalIndent(i.Record(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	payload = append(payload, '\n')
	if err := fileutil.WriteFileAtomic(i.SidecarPath(), payload, 0o644); err != nil {
		return fmt.Errorf("write sidecar %s: %w", i.SidecarPath(), err)
	}
	return nil
}
