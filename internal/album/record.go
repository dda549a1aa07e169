package album

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"folio/internal/logging"
)

const (
	// StateDirName is the hidden per-album state folder.
	StateDirName = ".folio"
	// RecordFileName is the album record file inside the state folder.
	RecordFileName = "record.json"
)

// Record is the persisted album state. Template and Destination are nil when
// unset so they round-trip as JSON null.
type Record struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	Template    *string  `json:"template"`
	Destination *string  `json:"destination"`
	Images      []string `json:"images"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.Images = slices.Clone(r.Images)
	if out.Images == nil {
		out.Images = []string{}
	}
	if r.Template != nil {
		v := *r.Template
		out.Template = &v
	}
	if r.Destination != nil {
		v := *r.Destination
		out.Destination = &v
	}
	return out
}

// storedRecord distinguishes absent keys from empty values while decoding.
type storedRecord struct {
	Title       *string  `json:"title"`
	Subtitle    *string  `json:"subtitle"`
	Description *string  `json:"description"`
	Template    *string  `json:"template"`
	Destination *string  `json:"destination"`
	Images      []string `json:"images"`
}

// RecordPath returns the record location for the album at dir.
func RecordPath(dir string) string {
	return filepath.Join(dir, StateDirName, RecordFileName)
}

func defaultRecord(dir string) Record {
	return Record{
		Title:  filepath.Base(dir),
		Images: []string{},
	}
}

// NewRecord builds a record from scratch for dir: defaults plus the images
// currently on disk. Any persisted record is ignored.
func NewRecord(dir string, logger *slog.Logger) (Record, error) {
	onDisk, err := ListCandidates(dir, logger, nil)
	if err != nil {
		return Record{}, err
	}
	rec := defaultRecord(dir)
	rec.Images = Reconcile(nil, onDisk)
	return rec, nil
}

// LoadRecord reads the persisted record for dir and reconciles its image list
// against disk. A missing record behaves like NewRecord.
func LoadRecord(dir string, logger *slog.Logger) (Record, error) {
	stored, found, err := readRecord(RecordPath(dir))
	if err != nil {
		return Record{}, err
	}
	if !found {
		return NewRecord(dir, logger)
	}

	onDisk, err := ListCandidates(dir, logger, nil)
	if err != nil {
		return Record{}, err
	}

	rec := defaultRecord(dir)
	if stored.Title != nil {
		rec.Title = *stored.Title
	}
	if stored.Subtitle != nil {
		rec.Subtitle = *stored.Subtitle
	}
	if stored.Description != nil {
		rec.Description = *stored.Description
	}
	rec.Template = stored.Template
	rec.Destination = stored.Destination
	rec.Images = Reconcile(stored.Images, onDisk)

	if dropped := len(stored.Images) - countKept(stored.Images, rec.Images); dropped > 0 {
		logging.NewComponentLogger(logger, "album").Debug("dropped vanished images from record",
			logging.String(logging.FieldAlbum, dir),
			logging.Int("dropped", dropped))
	}
	return rec, nil
}

func countKept(previous, merged []string) int {
	kept := 0
	for _, name := range previous {
		if slices.Contains(merged, name) {
			kept++
		}
	}
	return kept
}

func readRecord(path string) (storedRecord, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storedRecord{}, false, nil
		}
		return storedRecord{}, false, fmt.Errorf("read album record: %w", err)
	}
	var stored storedRecord
	if err := json.Unmarshal(bytes.TrimSpace(data), &stored); err != nil {
		return storedRecord{}, false, fmt.Errorf("decode album record %s: %w", path, err)
	}
	return stored, true, nil
}

func encodeRecord(rec Record) ([]byte, error) {
	rec = rec.Clone()
	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}
