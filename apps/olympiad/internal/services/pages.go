package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"olympiad.xdoubleu.com/apps/olympiad/internal/cache"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
	"olympiad.xdoubleu.com/internal/metrics"
)

const maxConcurrentFetches = 4

// PageService fetches source pages through a per-URL cache.
type PageService struct {
	logger *slog.Logger
	client olymp.Client
	cache  *cache.Cache[*olymp.Page]
}

func (service *PageService) Get(ctx context.Context, url string) (*olymp.Page, error) {
	return service.cache.Get(ctx, url, service.loader(url))
}

func (service *PageService) Refresh(ctx context.Context, url string) error {
	_, err := service.cache.Refresh(ctx, url, service.loader(url))
	return err
}

func (service *PageService) loader(url string) cache.LoadFunc[*olymp.Page] {
	return func(ctx context.Context) (*olymp.Page, error) {
		start := time.Now()
		page, err := service.client.Fetch(ctx, url)
		metrics.RecordFetch(url, time.Since(start), err)
		return page, err
	}
}

type fetchResult struct {
	page *olymp.Page
	err  error
}

// fetchAll fetches every source concurrently. Results keep the order of
// sources and a failing source only affects its own result.
func (service *PageService) fetchAll(
	ctx context.Context,
	sources []olymp.Source,
) []fetchResult {
	results := make([]fetchResult, len(sources))

	var group errgroup.Group
	group.SetLimit(maxConcurrentFetches)

	for i, source := range sources {
		group.Go(func() error {
			page, err := service.Get(ctx, source.URL)
			results[i] = fetchResult{page: page, err: err}
			return nil
		})
	}

	//nolint:errcheck //fetch errors are kept per result
	group.Wait()

	return results
}
