package scan

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/db"
	"github.com/agentscan/agentscan/pkg/scanner"
)

// Job defines a task for a worker to perform. Index is the job's position
// in the input so duplicate URLs keep distinct slots.
type Job struct {
	Index int
	URL   string
}

// Result holds the outcome of one scanned URL.
type Result struct {
	Index  int
	URL    string
	ScanID string
	Scan   models.ScanResult
}

// run fans the URLs out over a worker pool and collects results in input
// order. database may be nil, in which case nothing is persisted.
func run(ctx context.Context, logger *slog.Logger, s *scanner.Scanner, database *db.DB, urls []string, workerCount int) []Result {
	logger.Info("Starting concurrent scan phase", "url_count", len(urls), "workers", workerCount)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(urls))
	results := make(chan Result, len(urls))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, s, database, &wg, jobs, results)
	}

	for i, rawURL := range urls {
		jobs <- Job{Index: i, URL: rawURL}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All scan workers finished")

	all := make([]Result, 0, len(urls))
	for result := range results {
		all = append(all, result)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Index < all[j].Index
	})
	return all
}

// worker processes jobs from the jobs channel and sends results to the
// results channel. Persistence failures are logged, never fatal.
func worker(ctx context.Context, id int, logger *slog.Logger, s *scanner.Scanner, database *db.DB, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Debug("worker started job", "worker", id, "url", job.URL)

		result := Result{
			Index: job.Index,
			URL:   job.URL,
			Scan:  s.Scan(ctx, job.URL),
		}

		if database != nil && !result.Scan.Failed() {
			id, err := database.SaveScan(result.Scan)
			if err != nil {
				logger.Warn("failed to persist scan", "url", job.URL, "error", err)
			} else {
				result.ScanID = id
			}
		}

		results <- result
		logger.Debug("worker finished job", "worker", id, "url", job.URL, "overall", result.Scan.Overall)
	}
}
