// Package driver plans whole schema files and directories. Planning one
// message is synchronous; the driver adds the caller-side concerns around
// it: file discovery, parallelism, progress reporting and the disk cache.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"msgc/internal/descriptor"
	"msgc/internal/layout"
)

// Stage describes a high-level planning phase.
type Stage string

const (
	// StageLoad is schema file loading and validation.
	StageLoad Stage = "load"
	// StagePlan is layout computation.
	StagePlan Stage = "plan"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one schema file.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Err    error
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Options configures directory planning.
type Options struct {
	// Jobs caps parallel workers. Zero or negative means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
	Cache    *DiskCache
}

// FileResult holds the outcome for one schema file. A failed file records
// its error here; other files keep planning.
type FileResult struct {
	Path      string
	Exports   []*layout.MessageExport
	FromCache bool
	Err       error
}

// PlanSchema plans every message of a schema and returns name-sorted
// exports. The first failing message aborts the schema: downstream
// consumers never see a partial layout set.
func PlanSchema(schema *descriptor.Schema) ([]*layout.MessageExport, error) {
	exports := make([]*layout.MessageExport, 0, len(schema.Messages()))
	for _, msg := range schema.Messages() {
		l, err := layout.New(msg)
		if err != nil {
			return nil, err
		}
		exports = append(exports, l.Export())
	}
	sort.Slice(exports, func(i, j int) bool { return exports[i].Name < exports[j].Name })
	return exports, nil
}

// PlanFile loads and plans one schema file, going through the cache when
// one is configured.
func PlanFile(path string, cache *DiskCache) FileResult {
	res := FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	digest := DigestOf(data)

	if cache != nil {
		var payload DiskPayload
		if ok, err := cache.Get(digest, &payload); err == nil && ok && payload.Schema == diskCacheSchemaVersion {
			res.Exports = make([]*layout.MessageExport, 0, len(payload.Messages))
			for i := range payload.Messages {
				res.Exports = append(res.Exports, &payload.Messages[i])
			}
			res.FromCache = true
			return res
		}
	}

	schema, err := descriptor.Parse(string(data))
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	exports, err := PlanSchema(schema)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	res.Exports = exports

	if cache != nil {
		payload := DiskPayload{
			Schema:      diskCacheSchemaVersion,
			Path:        path,
			ContentHash: digest,
			Messages:    make([]layout.MessageExport, 0, len(exports)),
		}
		for _, export := range exports {
			payload.Messages = append(payload.Messages, *export)
		}
		// A failed cache write only costs a replan next time.
		_ = cache.Put(digest, &payload)
	}
	return res
}

// ListSchemaFiles returns the sorted relative paths of all *.toml files
// under dir.
func ListSchemaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// PlanDir plans every schema file under dir in parallel. Per-file failures
// land in the corresponding FileResult; the returned error reports only
// traversal problems or context cancellation.
func PlanDir(ctx context.Context, dir string, opts Options) ([]FileResult, error) {
	files, err := ListSchemaFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files (*.toml) found in %s", dir)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	emit := func(evt Event) {
		if opts.Progress != nil {
			opts.Progress.OnEvent(evt)
		}
	}
	for _, path := range files {
		emit(Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// One result slot per file: indexes are goroutine-unique, no mutex.
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			emit(Event{File: path, Stage: StageLoad, Status: StatusWorking})
			emit(Event{File: path, Stage: StagePlan, Status: StatusWorking})
			res := PlanFile(filepath.Join(dir, path), opts.Cache)
			res.Path = path
			results[i] = res

			if res.Err != nil {
				emit(Event{File: path, Stage: StagePlan, Status: StatusError, Err: res.Err})
			} else {
				emit(Event{File: path, Stage: StagePlan, Status: StatusDone})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
