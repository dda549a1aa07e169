package album_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"folio/internal/album"
	"folio/internal/imagemeta"
	"folio/internal/testsupport"
)

const (
	imgA = "2004-04-12 09-10-15 6928.jpg"
	imgB = "2004-06-20 11-07-53 6931.jpg"
)

func readRecordFile(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return obj
}

func imagesOf(t *testing.T, obj map[string]any) []string {
	t.Helper()
	raw, ok := obj["images"].([]any)
	if !ok {
		t.Fatalf("images key missing or not a list: %v", obj["images"])
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.(string))
	}
	return out
}

func TestNewRecordDefaultsForEmptyDirectory(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "myalbum")

	rec, err := album.NewRecord(dir, nil)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if rec.Title != "myalbum" || rec.Subtitle != "" || rec.Description != "" {
		t.Fatalf("unexpected defaults: %+v", rec)
	}
	if rec.Template != nil || rec.Destination != nil {
		t.Fatalf("expected unset template/destination: %+v", rec)
	}
	if rec.Images == nil || len(rec.Images) != 0 {
		t.Fatalf("expected empty non-nil images, got %#v", rec.Images)
	}
}

func TestNewRecordIgnoresPersistedRecord(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "trip", imgA)
	testsupport.WriteFile(t, album.RecordPath(dir), `{"title":"Persisted"}`)

	rec, err := album.NewRecord(dir, nil)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if rec.Title != "trip" {
		t.Fatalf("NewRecord must not read the persisted record, got title %q", rec.Title)
	}
	if !slices.Equal(rec.Images, []string{imgA}) {
		t.Fatalf("unexpected images %v", rec.Images)
	}
}

func TestOpenLoadsExistingRecord(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "testalbum2", imgA, imgB)
	testsupport.WriteFile(t, album.RecordPath(dir), `{
		"title": "My test album",
		"subtitle": "A subtitle",
		"description": "A description",
		"template": "minimal",
		"images": ["`+imgA+`", "`+imgB+`"]
	}`)

	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Title() != "My test album" || a.Subtitle() != "A subtitle" || a.Description() != "A description" {
		t.Fatalf("unexpected fields: %+v", a.Record())
	}
	if a.Template() != "minimal" {
		t.Fatalf("unexpected template %q", a.Template())
	}
	if a.Destination() != "" {
		t.Fatalf("destination should default to unset, got %q", a.Destination())
	}
	names := a.ImageNames()
	if len(names) != 2 || names[0] != imgA {
		t.Fatalf("unexpected images %v", names)
	}
}

func TestLoadRecordMergesDiskChanges(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "merge", "A.png", "B.png", "C.png")
	testsupport.WriteFile(t, album.RecordPath(dir), `{"title":"Merge","images":["B.png","gone.png","A.png"]}`)

	rec, err := album.LoadRecord(dir, nil)
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	if want := []string{"B.png", "A.png", "C.png"}; !slices.Equal(rec.Images, want) {
		t.Fatalf("images = %v, want %v", rec.Images, want)
	}
	if rec.Subtitle != "" || rec.Description != "" {
		t.Fatalf("absent keys should default to empty: %+v", rec)
	}
}

func TestLoadRecordRejectsMalformedRecord(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "broken", imgA)
	testsupport.WriteFile(t, album.RecordPath(dir), `{"title": [}`)

	if _, err := album.LoadRecord(dir, nil); err == nil {
		t.Fatal("expected error for malformed album record")
	}
}

func TestOpenMissingDirectory(t *testing.T) {
	_, err := album.Open(filepath.Join(t.TempDir(), "unknown", "path"))
	if !errors.Is(err, album.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRejectsRelativePath(t *testing.T) {
	_, err := album.Open(filepath.Join("photos", "trip"))
	if !errors.Is(err, album.ErrRelativePath) {
		t.Fatalf("expected ErrRelativePath, got %v", err)
	}
}

func TestCreateWritesDefaults(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "testalbum1", imgB, imgA)

	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := a.Create(context.Background(), album.InitialValues{}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if a.RecordPath() != filepath.Join(dir, ".folio", "record.json") {
		t.Fatalf("unexpected record path %q", a.RecordPath())
	}
	obj := readRecordFile(t, a.RecordPath())
	if obj["title"] != "testalbum1" || obj["subtitle"] != "" || obj["description"] != "" {
		t.Fatalf("unexpected defaults: %v", obj)
	}
	if obj["template"] != nil || obj["destination"] != nil {
		t.Fatalf("expected null template/destination: %v", obj)
	}
	if got := imagesOf(t, obj); !slices.Equal(got, []string{imgA, imgB}) {
		t.Fatalf("images = %v", got)
	}

	images, err := a.Images(context.Background())
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	for _, img := range images {
		if _, err := os.Stat(img.SidecarPath()); err != nil {
			t.Fatalf("expected sidecar for %s: %v", img.Name(), err)
		}
	}
}

func TestCreateWithInitialValuesRoundTrip(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "pony", imgA, imgB)

	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	values := album.InitialValues{Title: "Pony", Subtitle: "subpony", Description: "descpony"}
	if err := a.Create(context.Background(), values); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reopened, err := album.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Title() != "Pony" || reopened.Subtitle() != "subpony" || reopened.Description() != "descpony" {
		t.Fatalf("round trip mismatch: %+v", reopened.Record())
	}
	if !slices.Equal(reopened.ImageNames(), []string{imgA, imgB}) {
		t.Fatalf("unexpected images %v", reopened.ImageNames())
	}
}

func TestCreateIsIdempotentAndKeepsEdits(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "idem", "a.png", "b.png")
	testsupport.WriteFile(t, filepath.Join(dir, "b.png.json"), `{"title":"Bee","description":"buzz"}`)

	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	if err := a.Create(ctx, album.InitialValues{Title: "Idem"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	first, err := os.ReadFile(a.RecordPath())
	if err != nil {
		t.Fatal(err)
	}
	firstSidecar, err := os.ReadFile(filepath.Join(dir, "b.png.json"))
	if err != nil {
		t.Fatal(err)
	}

	again, err := album.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := again.Create(ctx, album.InitialValues{}); err != nil {
		t.Fatalf("second Create: %v", err)
	}
	second, err := os.ReadFile(again.RecordPath())
	if err != nil {
		t.Fatal(err)
	}
	secondSidecar, err := os.ReadFile(filepath.Join(dir, "b.png.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatalf("record changed between identical creates:\n%s\n%s", first, second)
	}
	if string(firstSidecar) != string(secondSidecar) {
		t.Fatalf("sidecar changed between identical creates:\n%s\n%s", firstSidecar, secondSidecar)
	}

	var sc imagemeta.Sidecar
	if err := json.Unmarshal(secondSidecar, &sc); err != nil {
		t.Fatal(err)
	}
	if sc.Title != "Bee" || sc.Description != "buzz" {
		t.Fatalf("user edits lost: %+v", sc)
	}
}

func TestUnrecognizedFilesAreExcluded(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "mixed", "photo.png")
	testsupport.WriteFile(t, filepath.Join(dir, "README.txt"), "not an image")
	testsupport.WriteFile(t, filepath.Join(dir, "fake.jpg"), "still not an image")
	testsupport.WriteFile(t, filepath.Join(dir, ".hidden.png"), "hidden")
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := a.Create(context.Background(), album.InitialValues{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := a.ImageNames(); !slices.Equal(got, []string{"photo.png"}) {
		t.Fatalf("images = %v", got)
	}

	// The sidecar written by Create must not turn into a candidate.
	if err := a.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := a.ImageNames(); !slices.Equal(got, []string{"photo.png"}) {
		t.Fatalf("images after reconcile = %v", got)
	}
}

func TestReconcileAfterDiskChanges(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "evolving", "b.png", "c.png")
	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := a.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}

	testsupport.WriteImage(t, filepath.Join(dir, "a.png"), testsupport.PNG, 1, 1)
	if err := os.Remove(filepath.Join(dir, "c.png")); err != nil {
		t.Fatal(err)
	}

	reopened, err := album.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.ImageNames(); !slices.Equal(got, []string{"b.png", "a.png"}) {
		t.Fatalf("images = %v", got)
	}
}

func TestWriteOnlyTouchesAlbumFields(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "edits")

	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	a.SetTitle("My little pony")
	a.SetSubtitle("subisub")
	a.SetDescription("desci")
	a.SetTemplate("minimal")
	a.SetDestination("../public")
	if err := a.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}

	obj := readRecordFile(t, a.RecordPath())
	if obj["title"] != "My little pony" || obj["subtitle"] != "subisub" || obj["description"] != "desci" {
		t.Fatalf("unexpected fields: %v", obj)
	}
	if obj["template"] != "minimal" || obj["destination"] != "../public" {
		t.Fatalf("unexpected template/destination: %v", obj)
	}
	if got := imagesOf(t, obj); len(got) != 0 {
		t.Fatalf("expected empty images, got %v", got)
	}

	a.SetTemplate("")
	if err := a.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if obj := readRecordFile(t, a.RecordPath()); obj["template"] != nil {
		t.Fatalf("cleared template should be null, got %v", obj["template"])
	}
}

func TestWriteDoesNotCreateSidecars(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "nosidecar", "a.png")
	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := a.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.png.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Write must not create sidecars, stat err = %v", err)
	}
}

func TestCandidatesCallbackAndRestart(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "seq", "b.png", "a.png")
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), "text")

	var found []string
	seq := album.Candidates(dir, nil, func(name string, info imagemeta.Info) {
		if info.Kind != imagemeta.KindPNG {
			t.Errorf("unexpected kind %v for %s", info.Kind, name)
		}
		found = append(found, name)
	})

	for pass := 0; pass < 2; pass++ {
		var names []string
		for name, err := range seq {
			if err != nil {
				t.Fatalf("pass %d: %v", pass, err)
			}
			names = append(names, name)
		}
		if !slices.Equal(names, []string{"a.png", "b.png"}) {
			t.Fatalf("pass %d: names = %v", pass, names)
		}
	}
	if len(found) != 4 {
		t.Fatalf("callback should run once per recognized file per pass, got %v", found)
	}

	// Early break stops discovery.
	count := 0
	for range seq {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected a single iteration, got %d", count)
	}
}

func TestCandidatesMissingDirectory(t *testing.T) {
	_, err := album.ListCandidates(filepath.Join(t.TempDir(), "nope"), nil, nil)
	if !errors.Is(err, album.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCollectImagesSkipsMissing(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "collect", imgA, imgB)

	counter := 0
	images, err := album.CollectImages(context.Background(), dir, []string{imgA, imgB, "2005-01-30 11-10-00 6933.jpg"}, nil, func(*imagemeta.Image) {
		counter++
	})
	if err != nil {
		t.Fatalf("CollectImages: %v", err)
	}
	if len(images) != 2 || counter != 2 {
		t.Fatalf("expected 2 images and 2 callbacks, got %d / %d", len(images), counter)
	}
	if images[0].Name() != imgA {
		t.Fatalf("order not preserved: %s", images[0].Name())
	}
}

func TestCollectImagesHonoursCancellation(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "cancel", "a.png")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := album.CollectImages(ctx, dir, []string{"a.png"}, nil, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLockPreventsConcurrentWrites(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "locked", "a.png")

	holder, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := holder.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}

	other, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open other: %v", err)
	}
	if err := other.Write(); !errors.Is(err, album.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	// The holder can still write while it holds the lock.
	if err := holder.Write(); err != nil {
		t.Fatalf("holder Write: %v", err)
	}
	if err := holder.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if err := other.Write(); err != nil {
		t.Fatalf("Write after unlock: %v", err)
	}
}

func TestCreateUnderContentionLeavesFieldsUnchanged(t *testing.T) {
	dir := testsupport.NewAlbumDir(t, "contended", "a.png")

	holder, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := holder.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer func() { _ = holder.Unlock() }()

	other, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open other: %v", err)
	}
	err = other.Create(context.Background(), album.InitialValues{Title: "Pony", Subtitle: "sub"})
	if !errors.Is(err, album.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if other.Title() != "contended" || other.Subtitle() != "" {
		t.Fatalf("failed Create changed fields: title=%q subtitle=%q", other.Title(), other.Subtitle())
	}
}

func TestWriteFailureIsPersistenceError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
	dir := testsupport.NewAlbumDir(t, "readonly", "a.png")
	a, err := album.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err = a.Write()
	var perr *album.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}
