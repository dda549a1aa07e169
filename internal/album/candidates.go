package album

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"folio/internal/imagemeta"
	"folio/internal/logging"
)

// FoundFunc is invoked once for every file recognized as an image.
type FoundFunc func(name string, info imagemeta.Info)

// Candidates yields, in lexicographic order, the names of files in dir whose
// image header can be read. Each range re-reads the directory. Hidden files,
// subdirectories and sidecars are skipped silently; files failing extraction
// are logged at debug level and skipped. A directory read failure is
// yielded once as an error and ends the sequence.
func Candidates(dir string, logger *slog.Logger, found FoundFunc) iter.Seq2[string, error] {
	logger = logging.NewComponentLogger(logger, "album")
	return func(yield func(string, error) bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				err = fmt.Errorf("%w: %s", ErrNotFound, dir)
			} else {
				err = fmt.Errorf("list album directory: %w", err)
			}
			yield("", err)
			return
		}
		for _, entry := range entries {
			name := entry.Name()
			if skipEntry(entry) {
				continue
			}
			info, err := imagemeta.Extract(filepath.Join(dir, name))
			if err != nil {
				logger.Debug("skipping non-image file",
					logging.String(logging.FieldImage, name),
					logging.Error(err))
				continue
			}
			if found != nil {
				found(name, info)
			}
			if !yield(name, nil) {
				return
			}
		}
	}
}

func skipEntry(entry os.DirEntry) bool {
	name := entry.Name()
	if strings.HasPrefix(name, ".") {
		return true
	}
	if entry.IsDir() {
		return true
	}
	return strings.HasSuffix(name, imagemeta.SidecarSuffix)
}

// ListCandidates collects Candidates into a slice.
func ListCandidates(dir string, logger *slog.Logger, found FoundFunc) ([]string, error) {
	names := []string{}
	for name, err := range Candidates(dir, logger, found) {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// CollectImages loads image metadata for each name in dir, in the given order.
// Names that no longer exist or are not images are skipped. found is invoked
// for every image loaded. ctx is checked before each image.
func CollectImages(ctx context.Context, dir string, names []string, logger *slog.Logger, found func(*imagemeta.Image)) ([]*imagemeta.Image, error) {
	logger = logging.NewComponentLogger(logger, "album")
	images := make([]*imagemeta.Image, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := imagemeta.Load(filepath.Join(dir, name))
		if err != nil {
			logger.Debug("skipping unreadable image",
				logging.String(logging.FieldImage, name),
				logging.Error(err))
			continue
		}
		if found != nil {
			found(img)
		}
		images = append(images, img)
	}
	return images, nil
}
