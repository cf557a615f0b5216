package remit

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"
)

// remittanceExtensions are the file suffixes batch discovery accepts.
var remittanceExtensions = map[string]bool{
	".835": true,
	".txt": true,
	".dat": true,
}

// FileResult is the outcome of parsing one file in a batch run. A
// failed file carries its error and a nil document; other files in the
// run are unaffected.
type FileResult struct {
	Path     string
	Document *TransactionSet
	Err      error
}

// BatchOptions tunes a batch run. Zero values mean defaults.
type BatchOptions struct {
	Workers int
}

// DiscoverFiles walks dir and returns the remittance files under it
// (.835, .txt and .DAT, case-insensitive), sorted by path.
func DiscoverFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if remittanceExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ParseDir discovers and parses every remittance file under dir with a
// bounded worker pool. Results come back in discovery order, one per
// file, failures included.
func ParseDir(ctx context.Context, dir string, opts BatchOptions) ([]FileResult, error) {
	paths, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}
	return ParseFiles(ctx, paths, opts), nil
}

// ParseFiles parses the given files concurrently. Each file is
// isolated: a parse failure is recorded in its FileResult and the
// remaining files proceed.
func ParseFiles(ctx context.Context, paths []string, opts BatchOptions) []FileResult {
	runID := xid.New().String()
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	log.Printf("[Batch %s] Parsing %d files with %d workers", runID, len(paths), workers)

	results := make([]FileResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = parseOne(runID, paths[i])
			}
		}()
	}

	for i := range paths {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(paths); j++ {
				results[j] = FileResult{Path: paths[j], Err: err}
			}
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Printf("[Batch %s] Done: %d parsed, %d failed", runID, len(results)-failed, failed)
	return results
}

func parseOne(runID, path string) FileResult {
	doc, err := ParseFile(path)
	if err != nil {
		log.Printf("[Batch %s] %s: %v", runID, path, err)
		return FileResult{Path: path, Err: err}
	}
	return FileResult{Path: path, Document: doc}
}
