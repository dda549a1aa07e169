package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"folio/internal/fileutil"
	"folio/internal/textutil"
)

// ImagesDir is the destination subdirectory holding image copies and pages.
const ImagesDir = "images"

// Request describes one render of a template into a destination.
type Request struct {
	Destination string
	Album       AlbumData
	// Force rewrites every image and asset even when the destination copy is current.
	Force bool
	// Verify checksums image copies.
	Verify bool
	// Progress receives one message per step. The image argument is empty for
	// album-level steps.
	Progress func(image, message string)
}

// Report summarizes what a render wrote.
type Report struct {
	Copied  int
	Skipped int
	Assets  int
	Pages   int
}

type layout struct {
	partials []string
	pages    []string
	assets   []string
}

type rootData struct {
	Root string
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"title":       textutil.TitleCase,
		"displayName": textutil.DisplayName,
		"lower":       strings.ToLower,
		"sanitize":    textutil.SanitizeToken,
		"inc":         func(i int) int { return i + 1 },
		"root":        func(prefix string) rootData { return rootData{Root: prefix} },
	}
}

// PublishTo renders the template into req.Destination. Images are copied to
// <dest>/images, assets are copied beside the pages, and every page is
// rendered on each call. ctx is checked between images.
func (t *Template) PublishTo(ctx context.Context, req Request) (Report, error) {
	var report Report
	if strings.TrimSpace(req.Destination) == "" {
		return report, errors.New("render: destination is empty")
	}
	progress := req.Progress
	if progress == nil {
		progress = func(string, string) {}
	}

	files, err := t.layout()
	if err != nil {
		return report, err
	}
	partials, err := t.readPartials(files.partials)
	if err != nil {
		return report, err
	}

	imagesDir := filepath.Join(req.Destination, ImagesDir)
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return report, fmt.Errorf("create destination %s: %w", imagesDir, err)
	}

	var imagePage *template.Template
	if t.hasFile(t.imagePage) {
		imagePage, err = t.parse(t.imagePage, partials)
		if err != nil {
			return report, err
		}
	}

	album := req.Album
	for idx := range album.Images {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		img := album.Images[idx]
		dst := filepath.Join(imagesDir, img.File)
		if !req.Force && fileutil.UpToDate(img.Source, dst) {
			report.Skipped++
			progress(img.File, "unchanged")
		} else {
			if err := copyImage(img.Source, dst, req.Verify); err != nil {
				return report, fmt.Errorf("copy image %s: %w", img.File, err)
			}
			report.Copied++
			progress(img.File, "copied")
		}

		if imagePage == nil {
			continue
		}
		page := ImagePageData{Album: &album, Image: img}
		if idx > 0 {
			page.Prev = &album.Images[idx-1]
		}
		if idx+1 < len(album.Images) {
			page.Next = &album.Images[idx+1]
		}
		if err := execute(imagePage, page, filepath.Join(imagesDir, img.Page)); err != nil {
			return report, err
		}
		report.Pages++
	}

	for _, asset := range files.assets {
		written, err := t.copyAsset(asset, filepath.Join(req.Destination, filepath.FromSlash(asset)), req.Force)
		if err != nil {
			return report, err
		}
		if written {
			report.Assets++
			progress("", "asset "+asset)
		}
	}

	for _, name := range files.pages {
		if name == t.imagePage {
			continue
		}
		tpl, err := t.parse(name, partials)
		if err != nil {
			return report, err
		}
		out := filepath.Join(req.Destination, filepath.FromSlash(strings.TrimSuffix(name, templateSuffix)))
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return report, fmt.Errorf("create page dir: %w", err)
		}
		if err := execute(tpl, &album, out); err != nil {
			return report, err
		}
		report.Pages++
		progress("", "rendered "+strings.TrimSuffix(name, templateSuffix))
	}
	return report, nil
}

func (t *Template) layout() (layout, error) {
	var out layout
	err := fs.WalkDir(t.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || p == manifestFileName {
			return nil
		}
		switch {
		case strings.HasSuffix(p, templateSuffix) && isPartial(p):
			out.partials = append(out.partials, p)
		case strings.HasSuffix(p, templateSuffix):
			out.pages = append(out.pages, p)
		default:
			out.assets = append(out.assets, p)
		}
		return nil
	})
	if err != nil {
		return layout{}, fmt.Errorf("scan template %s: %w", t.name, err)
	}
	return out, nil
}

type partial struct {
	name string
	body string
}

func (t *Template) readPartials(names []string) ([]partial, error) {
	out := make([]partial, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(t.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read partial %s: %w", name, err)
		}
		out = append(out, partial{name: name, body: string(data)})
	}
	return out, nil
}

func (t *Template) parse(name string, partials []partial) (*template.Template, error) {
	data, err := fs.ReadFile(t.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", name, err)
	}
	tpl, err := template.New(name).Funcs(funcMap()).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	for _, p := range partials {
		if _, err := tpl.New(p.name).Parse(p.body); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p.name, err)
		}
	}
	return tpl, nil
}

func (t *Template) hasFile(name string) bool {
	info, err := fs.Stat(t.fsys, name)
	return err == nil && !info.IsDir()
}

func (t *Template) copyAsset(name, dst string, force bool) (bool, error) {
	data, err := fs.ReadFile(t.fsys, name)
	if err != nil {
		return false, fmt.Errorf("read asset %s: %w", name, err)
	}
	if !force {
		if existing, err := os.ReadFile(dst); err == nil && bytes.Equal(existing, data) {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, fmt.Errorf("create asset dir: %w", err)
	}
	if err := fileutil.WriteFileAtomic(dst, data, 0o644); err != nil {
		return false, fmt.Errorf("write asset %s: %w", path.Base(name), err)
	}
	return true, nil
}

func execute(tpl *template.Template, data any, out string) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %s: %w", tpl.Name(), err)
	}
	if err := fileutil.WriteFileAtomic(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(out), err)
	}
	return nil
}

func copyImage(src, dst string, verify bool) error {
	if verify {
		return fileutil.CopyFileVerified(src, dst)
	}
	return fileutil.CopyFile(src, dst)
}
