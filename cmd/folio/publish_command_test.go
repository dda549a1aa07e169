package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"folio/internal/album"
	"folio/internal/history"
	"folio/internal/testsupport"
)

func TestPublishSaveAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewAlbumDir(t, "trip", "a.png", "b.png")

	out, _, err := runCLI(t, []string{"publish", dir, "--to", "site", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	requireContains(t, out, "Published 2 images")
	requireContains(t, out, "saved")
	if _, err := os.Stat(filepath.Join(dir, "site", "index.html")); err != nil {
		t.Fatalf("index not rendered: %v", err)
	}

	rec, err := album.LoadRecord(dir, nil)
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	if rec.Destination == nil || *rec.Destination != "site" || rec.Template == nil || *rec.Template != "default" {
		t.Fatalf("publish --save did not persist choices: %+v", rec)
	}

	// The saved record is enough for the next run.
	out, _, err = runCLI(t, []string{"publish", dir, "--quiet"}, env.configPath)
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	requireContains(t, out, "0 copied, 2 unchanged")

	out, _, err = runCLI(t, []string{"history", dir, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 2 || runs[0].Copied != 0 || runs[1].Copied != 2 {
		t.Fatalf("unexpected history: %+v", runs)
	}

	out, _, err = runCLI(t, []string{"history", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("history --all: %v", err)
	}
	requireContains(t, out, "succeeded")
}

func TestPublishConfigurationErrorsExitWithTwo(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewAlbumDir(t, "trip", "a.png")

	_, _, err := runCLI(t, []string{"publish", dir}, env.configPath)
	if err == nil {
		t.Fatal("expected missing destination error")
	}
	if code := exitCode(err); code != exitConfiguration {
		t.Fatalf("exit code = %d, want %d (%v)", code, exitConfiguration, err)
	}

	_, _, err = runCLI(t, []string{"publish", dir, "--to", "site", "--template", "nope"}, env.configPath)
	if err == nil {
		t.Fatal("expected template resolution error")
	}
	if code := exitCode(err); code != exitConfiguration {
		t.Fatalf("exit code = %d, want %d (%v)", code, exitConfiguration, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "site")); !os.IsNotExist(err) {
		t.Fatalf("destination created despite template error: %v", err)
	}
}

func TestPublishWithoutHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())
	dir := testsupport.NewAlbumDir(t, "trip", "a.png")

	if _, _, err := runCLI(t, []string{"publish", dir, "--to", filepath.Join(env.baseDir, "out")}, env.configPath); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := os.Stat(env.cfg.HistoryPath()); !os.IsNotExist(err) {
		t.Fatalf("history database created while disabled: %v", err)
	}
	if _, _, err := runCLI(t, []string{"history", dir}, env.configPath); err == nil {
		t.Fatal("expected history command to report disabled history")
	}
}

func TestTemplatesAndDoctor(t *testing.T) {
	env := setupCLITestEnv(t)
	custom := filepath.Join(env.cfg.Paths.TemplateDirs[0], "strip")
	testsupport.WriteFile(t, filepath.Join(custom, "index.html.tmpl"), "{{.Title}}")

	out, _, err := runCLI(t, []string{"templates"}, env.configPath)
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	requireContains(t, out, "strip")
	requireContains(t, out, "default")
	requireContains(t, out, "builtin")

	dir := testsupport.NewAlbumDir(t, "trip", "a.png")
	out, _, err = runCLI(t, []string{"doctor", dir}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "[OK]")
	requireContains(t, out, "1 recognized")

	if _, _, err := runCLI(t, []string{"set", dir, "--template", "nope"}, env.configPath); err != nil {
		t.Fatalf("set template: %v", err)
	}
	out, _, err = runCLI(t, []string{"doctor", dir}, env.configPath)
	if err == nil {
		t.Fatalf("expected doctor to flag unknown album template\n%s", out)
	}
	requireContains(t, out, "[ERROR]")
}
