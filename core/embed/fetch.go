package embed

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/gaurav-prasanna/wikimirror/core"
	"github.com/gaurav-prasanna/wikimirror/logger"
)

type outcome struct {
	data []byte
	err  error
}

// fetchAll downloads every distinct resolved URL in refs, at most
// e.concurrency at a time. Each URL gets one attempt; a failure is logged
// and stored as that URL's outcome without affecting the others.
func (e *OfflineEmbedder) fetchAll(ctx context.Context, refs []core.ResourceReference) map[string]outcome {
	var urls []string
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if !seen[ref.Resolved] {
			seen[ref.Resolved] = true
			urls = append(urls, ref.Resolved)
		}
	}

	results := make([]outcome, len(urls))
	sem := semaphore.NewWeighted(int64(e.concurrency))
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = outcome{err: fmt.Errorf("acquiring fetch slot: %w", err)}
				return
			}
			defer sem.Release(1)

			data, err := e.fetcher.FetchBytes(ctx, u)
			if err != nil {
				logger.Warn("Could not download %s: %v", logger.Truncate(u, 120), err)
			}
			results[i] = outcome{data: data, err: err}
		}(i, u)
	}
	wg.Wait()

	byURL := make(map[string]outcome, len(urls))
	for i, u := range urls {
		byURL[u] = results[i]
	}
	return byURL
}
