package imagemeta_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"folio/internal/imagemeta"
	"folio/internal/testsupport"
)

func TestExtractRecognizesFormats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		format testsupport.Format
		want   imagemeta.Kind
	}{
		{name: "a.png", format: testsupport.PNG, want: imagemeta.KindPNG},
		{name: "b.jpg", format: testsupport.JPEG, want: imagemeta.KindJPEG},
		{name: "c.gif", format: testsupport.GIF, want: imagemeta.KindGIF},
		// Detection is by content, never by extension.
		{name: "d.txt", format: testsupport.PNG, want: imagemeta.KindPNG},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			testsupport.WriteImage(t, path, tc.format, 7, 5)

			info, err := imagemeta.Extract(path)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if info.Kind != tc.want {
				t.Fatalf("kind = %q, want %q", info.Kind, tc.want)
			}
			if info.Width != 7 || info.Height != 5 {
				t.Fatalf("geometry = %dx%d, want 7x5", info.Width, info.Height)
			}
		})
	}
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := imagemeta.Extract(filepath.Join(dir, "missing.jpg"))
	if !errors.Is(err, imagemeta.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	notes := filepath.Join(dir, "notes.jpg")
	testsupport.WriteFile(t, notes, "definitely not a jpeg")
	_, err = imagemeta.Extract(notes)
	if !errors.Is(err, imagemeta.ErrUnrecognizedFormat) {
		t.Fatalf("expected ErrUnrecognizedFormat, got %v", err)
	}

	empty := filepath.Join(dir, "empty.png")
	testsupport.WriteFile(t, empty, "")
	if _, err := imagemeta.Extract(empty); !errors.Is(err, imagemeta.ErrUnrecognizedFormat) {
		t.Fatalf("expected ErrUnrecognizedFormat for empty file, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2004-04-12 09-10-15 6928.jpg")
	testsupport.WriteImage(t, path, testsupport.JPEG, 8, 6)

	img, err := imagemeta.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Title() != "2004-04-12 09-10-15 6928.jpg" {
		t.Fatalf("unexpected default title %q", img.Title())
	}
	if img.Description() != "" {
		t.Fatalf("unexpected default description %q", img.Description())
	}
	if img.Kind() != imagemeta.KindJPEG || img.Width() != 8 || img.Height() != 6 {
		t.Fatalf("unexpected derived attributes: %v %dx%d", img.Kind(), img.Width(), img.Height())
	}
	if img.SidecarPath() != path+".json" {
		t.Fatalf("unexpected sidecar path %q", img.SidecarPath())
	}
}

func TestLoadAppliesSidecarOverridesOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat.png")
	testsupport.WriteImage(t, path, testsupport.PNG, 4, 3)

	// Stale geometry and type must be ignored.
	testsupport.WriteFile(t, path+".json", `{"title":"Cat","description":"On the sofa","type":"gif","width":999,"height":1}`)

	img, err := imagemeta.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Title() != "Cat" || img.Description() != "On the sofa" {
		t.Fatalf("sidecar overrides not applied: %q / %q", img.Title(), img.Description())
	}
	if img.Kind() != imagemeta.KindPNG || img.Width() != 4 || img.Height() != 3 {
		t.Fatalf("derived attributes taken from sidecar: %v %dx%d", img.Kind(), img.Width(), img.Height())
	}
}

func TestLoadIgnoresMalformedSidecar(t *testing.T) {
	sidecars := map[string]string{
		"garbage":       "{{{ not json",
		"array":         `["title"]`,
		"string":        `"title"`,
		"numeric_title": `{"title": 12, "description": "kept?"}`,
		"null_title":    `{"title": null}`,
	}
	for name, content := range sidecars {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "dog.png")
			testsupport.WriteImage(t, path, testsupport.PNG, 2, 2)
			testsupport.WriteFile(t, path+".json", content)

			img, err := imagemeta.Load(path)
			if err != nil {
				t.Fatalf("Load must not fail on malformed sidecar: %v", err)
			}
			if img.Title() != "dog.png" || img.Description() != "" {
				t.Fatalf("malformed sidecar should be treated as absent, got %q / %q", img.Title(), img.Description())
			}
		})
	}
}

func TestLoadPartialSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bird.gif")
	testsupport.WriteImage(t, path, testsupport.GIF, 3, 3)
	testsupport.WriteFile(t, path+".json", `{"description":"Only a description"}`)

	img, err := imagemeta.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Title() != "bird.gif" {
		t.Fatalf("title should keep default, got %q", img.Title())
	}
	if img.Description() != "Only a description" {
		t.Fatalf("unexpected description %q", img.Description())
	}
}

func TestPersistWritesFullRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fox.jpg")
	testsupport.WriteImage(t, path, testsupport.JPEG, 10, 4)

	img, err := imagemeta.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	img.SetTitle("Fox")
	img.SetDescription("Red")
	if err := img.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	// Second persist overwrites with identical content.
	if err := img.Persist(); err != nil {
		t.Fatalf("Persist again: %v", err)
	}

	data, err := os.ReadFile(path + ".json")
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	var got imagemeta.Sidecar
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode sidecar: %v", err)
	}
	want := imagemeta.Sidecar{Title: "Fox", Type: "jpeg", Description: "Red", Width: 10, Height: 4}
	if got != want {
		t.Fatalf("sidecar = %+v, want %+v", got, want)
	}

	reloaded, err := imagemeta.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Title() != "Fox" || reloaded.Description() != "Red" {
		t.Fatalf("persisted overrides not reloaded: %q / %q", reloaded.Title(), reloaded.Description())
	}
}

func TestLoadRejectsRelativePath(t *testing.T) {
	if _, err := imagemeta.Load("a.png"); !errors.Is(err, imagemeta.ErrRelativePath) {
		t.Fatalf("expected ErrRelativePath, got %v", err)
	}
}
