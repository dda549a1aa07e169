package album

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"folio/internal/fileutil"
	"folio/internal/imagemeta"
	"folio/internal/logging"
)

// Album is an album directory with its in-memory record. It is not safe for
// concurrent use.
type Album struct {
	path   string
	record Record
	logger *slog.Logger

	lock      *flock.Flock
	lockDepth int
}

// Option customizes an Album.
type Option func(*Album)

// WithLogger sets the logger used for reconciliation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Album) {
		a.logger = logger
	}
}

// InitialValues are caller-supplied album fields for Create. Empty strings
// leave the current value in place.
type InitialValues struct {
	Title       string
	Subtitle    string
	Description string
}

// Open loads the album at dir, reconciling any persisted record against the
// directory contents. No files are written. dir must be absolute; resolving
// user input against the working directory is the caller's job.
func Open(dir string, opts ...Option) (*Album, error) {
	if !filepath.IsAbs(dir) {
		return nil, fmt.Errorf("%w: %s", ErrRelativePath, dir)
	}
	abs := filepath.Clean(dir)
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return nil, fmt.Errorf("stat album directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("album path %s is not a directory", abs)
	}

	a := &Album{path: abs}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.logger = logging.NewComponentLogger(a.logger, "album")

	rec, err := LoadRecord(abs, a.logger)
	if err != nil {
		return nil, err
	}
	a.record = rec
	return a, nil
}

// Path returns the absolute album directory.
func (a *Album) Path() string { return a.path }

// StateDir returns the hidden state folder of the album.
func (a *Album) StateDir() string { return filepath.Join(a.path, StateDirName) }

// RecordPath returns the album record location.
func (a *Album) RecordPath() string { return RecordPath(a.path) }

// Exists reports whether a record has been persisted for the album.
func (a *Album) Exists() bool {
	_, err := os.Stat(a.RecordPath())
	return err == nil
}

// Record returns a copy of the in-memory record.
func (a *Album) Record() Record { return a.record.Clone() }

func (a *Album) Title() string { return a.record.Title }

func (a *Album) Subtitle() string { return a.record.Subtitle }

func (a *Album) Description() string { return a.record.Description }

// ImageNames returns the ordered image filenames.
func (a *Album) ImageNames() []string { return a.record.Clone().Images }

// Template returns the persisted template identifier, or "" when unset.
func (a *Album) Template() string { return deref(a.record.Template) }

// Destination returns the persisted destination, or "" when unset.
func (a *Album) Destination() string { return deref(a.record.Destination) }

func (a *Album) SetTitle(title string) { a.record.Title = title }

func (a *Album) SetSubtitle(subtitle string) { a.record.Subtitle = subtitle }

func (a *Album) SetDescription(description string) { a.record.Description = description }

// SetTemplate sets the template identifier; "" clears it.
func (a *Album) SetTemplate(template string) { a.record.Template = optional(template) }

// SetDestination sets the publish destination; "" clears it.
func (a *Album) SetDestination(destination string) { a.record.Destination = optional(destination) }

// Reconcile re-reads the directory and merges it into the in-memory image list.
func (a *Album) Reconcile() error {
	onDisk, err := ListCandidates(a.path, a.logger, nil)
	if err != nil {
		return err
	}
	a.record.Images = Reconcile(a.record.Images, onDisk)
	return nil
}

// Images materializes image metadata for the record's filenames in order.
func (a *Album) Images(ctx context.Context) ([]*imagemeta.Image, error) {
	return CollectImages(ctx, a.path, a.record.Images, a.logger, nil)
}

// Create merges values over the current fields, writes the record, and then
// persists every image's sidecar. The in-memory fields change only once the
// record has been written. Calling it again with unchanged inputs
// rewrites identical content.
func (a *Album) Create(ctx context.Context, values InitialValues) error {
	return a.withLock(func() error {
		previous := a.record
		if values.Title != "" {
			a.record.Title = values.Title
		}
		if values.Subtitle != "" {
			a.record.Subtitle = values.Subtitle
		}
		if values.Description != "" {
			a.record.Description = values.Description
		}
		if err := a.writeRecord(); err != nil {
			a.record = previous
			return err
		}
		images, err := a.Images(ctx)
		if err != nil {
			return err
		}
		for _, img := range images {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := img.Persist(); err != nil {
				return &PersistenceError{Op: "write image sidecar", Path: img.SidecarPath(), Err: err}
			}
		}
		a.logger.Info("album created",
			logging.String(logging.FieldAlbum, a.path),
			logging.String("title", a.record.Title),
			logging.Int("images", len(images)))
		return nil
	})
}

// Write persists the album-level fields and image list. Sidecars are untouched.
func (a *Album) Write() error {
	return a.withLock(a.writeRecord)
}

func (a *Album) writeRecord() error {
	payload, err := encodeRecord(a.record)
	if err != nil {
		return &PersistenceError{Op: "encode album record", Path: a.RecordPath(), Err: err}
	}
	if err := os.MkdirAll(a.StateDir(), 0o755); err != nil {
		return &PersistenceError{Op: "create state dir", Path: a.StateDir(), Err: err}
	}
	if err := fileutil.WriteFileAtomic(a.RecordPath(), payload, 0o644); err != nil {
		return &PersistenceError{Op: "write album record", Path: a.RecordPath(), Err: err}
	}
	a.logger.Debug("album record written",
		logging.String(logging.FieldAlbum, a.path),
		logging.Int("images", len(a.record.Images)))
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
