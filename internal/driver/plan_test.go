package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"msgc/internal/driver"
)

const personSchema = `
[[message]]
name = "Person"

[[message.field]]
name = "id"
number = 1
kind = "int32"
label = "required"

[[message.field]]
name = "name"
number = 2
kind = "string"
`

const badSchema = `
[[message]]
name = "Broken"

[[message.field]]
name = "x"
number = 1
kind = "quaternion"
`

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestPlanFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "person.toml", personSchema)

	res := driver.PlanFile(filepath.Join(dir, "person.toml"), nil)
	if res.Err != nil {
		t.Fatalf("PlanFile: %v", res.Err)
	}
	if len(res.Exports) != 1 || res.Exports[0].Name != "Person" {
		t.Fatalf("unexpected exports: %+v", res.Exports)
	}
	export := res.Exports[0]
	if export.Size.Size32 != 16 || export.Size.Size64 != 32 {
		t.Fatalf("Person size = %+v, want {16 32}", export.Size)
	}
	if export.RequiredCount != 1 || export.HasbitCount != 2 {
		t.Fatalf("Person hasbits = %d required = %d", export.HasbitCount, export.RequiredCount)
	}
}

func TestPlanDirIsolatesFailingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "person.toml", personSchema)
	writeFile(t, dir, "broken.toml", badSchema)

	results, err := driver.PlanDir(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatalf("PlanDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Files are processed in sorted order.
	if results[0].Path != "broken.toml" || results[1].Path != "person.toml" {
		t.Fatalf("unexpected result order: %s, %s", results[0].Path, results[1].Path)
	}
	if results[0].Err == nil {
		t.Fatal("expected error for broken.toml")
	}
	if results[1].Err != nil {
		t.Fatalf("person.toml failed: %v", results[1].Err)
	}
}

func TestPlanDirEmitsEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "person.toml", personSchema)

	ch := make(chan driver.Event, 64)
	_, err := driver.PlanDir(context.Background(), dir, driver.Options{
		Jobs:     1,
		Progress: driver.ChannelSink{Ch: ch},
	})
	if err != nil {
		t.Fatalf("PlanDir: %v", err)
	}
	close(ch)

	var statuses []driver.Status
	for evt := range ch {
		if evt.File != "person.toml" {
			t.Errorf("event for unexpected file %q", evt.File)
		}
		statuses = append(statuses, evt.Status)
	}
	want := []driver.Status{driver.StatusQueued, driver.StatusWorking, driver.StatusWorking, driver.StatusDone}
	if !reflect.DeepEqual(statuses, want) {
		t.Fatalf("event statuses = %v, want %v", statuses, want)
	}
}

func TestPlanDirEmptyDir(t *testing.T) {
	_, err := driver.PlanDir(context.Background(), t.TempDir(), driver.Options{})
	if err == nil {
		t.Fatal("expected error for directory without schema files")
	}
}

func TestPlanFileUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "person.toml", personSchema)
	cache, err := driver.OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	path := filepath.Join(dir, "person.toml")
	first := driver.PlanFile(path, cache)
	if first.Err != nil {
		t.Fatalf("first plan: %v", first.Err)
	}
	if first.FromCache {
		t.Fatal("first plan unexpectedly served from cache")
	}

	second := driver.PlanFile(path, cache)
	if second.Err != nil {
		t.Fatalf("second plan: %v", second.Err)
	}
	if !second.FromCache {
		t.Fatal("second plan not served from cache")
	}
	if !reflect.DeepEqual(first.Exports, second.Exports) {
		t.Fatal("cached exports differ from planned exports")
	}

	// A content change must miss the cache.
	writeFile(t, dir, "person.toml", personSchema+`
[[message.field]]
name = "age"
number = 3
kind = "int32"
`)
	third := driver.PlanFile(path, cache)
	if third.Err != nil {
		t.Fatalf("third plan: %v", third.Err)
	}
	if third.FromCache {
		t.Fatal("changed file served from cache")
	}
	if reflect.DeepEqual(first.Exports, third.Exports) {
		t.Fatal("changed schema produced identical exports")
	}
}
