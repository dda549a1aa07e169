package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"folio/internal/imagemeta"
	"folio/internal/testsupport"
)

func TestInitShowAndSet(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewAlbumDir(t, "trip", "b.png", "a.png")
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), "not an image")

	out, _, err := runCLI(t, []string{"init", dir, "--title", "Pony"}, env.configPath)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	requireContains(t, out, `Initialized "Pony" with 2 images`)
	if _, err := os.Stat(imagemeta.SidecarPath(filepath.Join(dir, "a.png"))); err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}

	if _, _, err := runCLI(t, []string{"set", dir, "--subtitle", "Summer", "--destination", "site"}, env.configPath); err != nil {
		t.Fatalf("set album: %v", err)
	}
	if _, _, err := runCLI(t, []string{"set", dir, "--image", "b.png", "--title", "Beach"}, env.configPath); err != nil {
		t.Fatalf("set image: %v", err)
	}

	out, _, err = runCLI(t, []string{"show", dir, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("show --json: %v", err)
	}
	var view showOutput
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}
	if view.Title != "Pony" || view.Subtitle != "Summer" || !view.Persisted {
		t.Fatalf("unexpected album fields: %+v", view)
	}
	if view.Destination == nil || *view.Destination != "site" || view.Template != nil {
		t.Fatalf("unexpected template/destination: %+v", view)
	}
	if len(view.Images) != 2 || view.Images[0].File != "a.png" || view.Images[1].Title != "Beach" {
		t.Fatalf("unexpected images: %+v", view.Images)
	}

	out, _, err = runCLI(t, []string{"show", dir}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Pony")
	requireContains(t, out, "Beach")
	requireContains(t, out, "4x3")
}

func TestSetRejectsEmptyAndUnknownImage(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewAlbumDir(t, "trip", "a.png")

	if _, _, err := runCLI(t, []string{"set", dir}, env.configPath); err == nil {
		t.Fatal("expected error when no field flags are passed")
	}
	if _, _, err := runCLI(t, []string{"set", dir, "--image", "missing.png", "--title", "x"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown image")
	}
	if _, _, err := runCLI(t, []string{"set", dir, "--image", "a.png", "--template", "x"}, env.configPath); err == nil {
		t.Fatal("expected error mixing --image with album flags")
	}
}

func TestShowMissingAlbum(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"show", filepath.Join(env.baseDir, "nope")}, env.configPath); err == nil {
		t.Fatal("expected error for missing album directory")
	}
}

func TestShowResolvesRelativeAlbumDir(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewAlbumDir(t, "trip", "a.png")
	t.Chdir(filepath.Dir(dir))

	out, _, err := runCLI(t, []string{"show", "trip", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("show relative: %v", err)
	}
	requireContains(t, out, `"title": "trip"`)
}
