package templates

import (
	"path/filepath"
	"strconv"
	"strings"

	"folio/internal/imagemeta"
	"folio/internal/textutil"
)

// ImageData is one image as seen by template pages.
type ImageData struct {
	// File is the image filename inside <dest>/images.
	File string
	// Source is the absolute path of the original image.
	Source      string
	Title       string
	Description string
	Type        string
	Width       int
	Height      int
	// Page is the per-image page filename inside <dest>/images.
	Page  string
	Index int
}

// AlbumData is the root value handed to album-level pages.
type AlbumData struct {
	Title       string
	Subtitle    string
	Description string
	Images      []ImageData
}

// ImagePageData is the value handed to the per-image page.
type ImagePageData struct {
	Album *AlbumData
	Image ImageData
	Prev  *ImageData
	Next  *ImageData
}

// NewAlbumData builds template data from album fields and materialized images.
// Page names are derived from image filenames and made unique, never reusing
// an image's own filename since both live under ImagesDir.
func NewAlbumData(title, subtitle, description string, images []*imagemeta.Image) AlbumData {
	data := AlbumData{
		Title:       title,
		Subtitle:    subtitle,
		Description: description,
		Images:      make([]ImageData, 0, len(images)),
	}
	used := make(map[string]bool, 2*len(images))
	for _, img := range images {
		used[img.Name()] = true
	}
	for idx, img := range images {
		data.Images = append(data.Images, ImageData{
			File:        img.Name(),
			Source:      img.Path(),
			Title:       img.Title(),
			Description: img.Description(),
			Type:        img.Kind().String(),
			Width:       img.Width(),
			Height:      img.Height(),
			Page:        pageName(img.Name(), used),
			Index:       idx,
		})
	}
	return data
}

func pageName(file string, used map[string]bool) string {
	base := textutil.SanitizeToken(strings.TrimSuffix(file, filepath.Ext(file)))
	page := base + ".html"
	for n := 2; used[page]; n++ {
		page = base + "-" + strconv.Itoa(n) + ".html"
	}
	used[page] = true
	return page
}
