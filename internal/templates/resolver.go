package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed all:builtin
var builtinFS embed.FS

const (
	manifestFileName = "template.toml"
	defaultImagePage = "image.html.tmpl"
	templateSuffix   = ".tmpl"
	builtinSource    = "builtin"
)

// ErrTemplateNotFound indicates no template matches an identifier.
var ErrTemplateNotFound = errors.New("template not found")

// Manifest is the optional template.toml at a template root.
type Manifest struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	ImagePage   string `toml:"image_page"`
}

// Template is a resolved, renderable template.
type Template struct {
	name        string
	description string
	imagePage   string
	source      string
	fsys        fs.FS
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Description returns the manifest description, if any.
func (t *Template) Description() string { return t.description }

// Source returns the template directory, or "builtin" for embedded templates.
func (t *Template) Source() string { return t.source }

// Resolver looks templates up by identifier.
type Resolver struct {
	dirs    []string
	builtin fs.FS
}

// NewResolver returns a resolver searching dirs in order before the built-ins.
func NewResolver(dirs []string) *Resolver {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("templates: embedded builtin tree: %v", err))
	}
	return &Resolver{dirs: slices.Clone(dirs), builtin: sub}
}

// Find resolves identifier. An identifier that is absolute or contains a path
// separator is treated as a template directory; anything else is a name.
func (r *Resolver) Find(identifier string) (*Template, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrTemplateNotFound)
	}

	if filepath.IsAbs(identifier) || strings.ContainsRune(identifier, filepath.Separator) || strings.HasPrefix(identifier, ".") {
		return loadDir(identifier)
	}

	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, identifier)
		if isDir(candidate) {
			return loadDir(candidate)
		}
	}

	if info, err := fs.Stat(r.builtin, identifier); err == nil && info.IsDir() {
		sub, err := fs.Sub(r.builtin, identifier)
		if err != nil {
			return nil, fmt.Errorf("open builtin template %s: %w", identifier, err)
		}
		return newTemplate(identifier, builtinSource, sub)
	}

	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, identifier)
}

// Summary describes an available template.
type Summary struct {
	Name        string
	Description string
	Source      string
}

// List returns the templates reachable by name, in lookup order. A name found
// in several places is reported once, from the location Find would use.
func (r *Resolver) List() ([]Summary, error) {
	seen := map[string]struct{}{}
	var out []Summary
	add := func(name string, tpl *Template) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, Summary{Name: name, Description: tpl.description, Source: tpl.source})
	}

	for _, dir := range r.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("list template dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			tpl, err := loadDir(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			add(entry.Name(), tpl)
		}
	}

	entries, err := fs.ReadDir(r.builtin, ".")
	if err != nil {
		return nil, fmt.Errorf("list builtin templates: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tpl, err := r.Find(entry.Name())
		if err != nil {
			continue
		}
		add(entry.Name(), tpl)
	}
	return out, nil
}

func loadDir(dir string) (*Template, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve template path %s: %w", dir, err)
	}
	if !isDir(abs) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, dir)
	}
	return newTemplate(filepath.Base(abs), abs, os.DirFS(abs))
}

func newTemplate(name, source string, fsys fs.FS) (*Template, error) {
	tpl := &Template{name: name, source: source, fsys: fsys, imagePage: defaultImagePage}

	data, err := fs.ReadFile(fsys, manifestFileName)
	switch {
	case err == nil:
		var manifest Manifest
		if err := toml.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("parse %s manifest: %w", name, err)
		}
		if strings.TrimSpace(manifest.Name) != "" {
			tpl.name = strings.TrimSpace(manifest.Name)
		}
		tpl.description = strings.TrimSpace(manifest.Description)
		if page := strings.TrimSpace(manifest.ImagePage); page != "" {
			tpl.imagePage = path.Clean(filepath.ToSlash(page))
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s manifest: %w", name, err)
	}

	if !hasPages(fsys) {
		return nil, fmt.Errorf("%w: %s has no %s pages", ErrTemplateNotFound, source, templateSuffix)
	}
	return tpl, nil
}

func hasPages(fsys fs.FS) bool {
	found := false
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return fs.SkipAll
		}
		if !d.IsDir() && strings.HasSuffix(p, templateSuffix) && !isPartial(p) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

func isPartial(p string) bool {
	return strings.HasPrefix(path.Base(p), "_")
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
