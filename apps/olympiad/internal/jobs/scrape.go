package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"olympiad.xdoubleu.com/apps/olympiad/internal/services"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
)

// ScrapeJob refreshes the cached page of every source so requests rarely
// hit an expired entry.
type ScrapeJob struct {
	pageService *services.PageService
	sources     []olymp.Source
	interval    time.Duration
}

func NewScrapeJob(
	pageService *services.PageService,
	sources []olymp.Source,
	interval time.Duration,
) ScrapeJob {
	return ScrapeJob{
		pageService: pageService,
		sources:     uniqueSources(sources),
		interval:    interval,
	}
}

func (j ScrapeJob) ID() string {
	return "scrape"
}

func (j ScrapeJob) RunEvery() time.Duration {
	return j.interval
}

// Run never fails on a single source, failures are logged and the previous
// page stays cached.
func (j ScrapeJob) Run(ctx context.Context, logger *slog.Logger) error {
	failed := 0

	for _, source := range j.sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := j.pageService.Refresh(ctx, source.URL)
		if err != nil {
			failed++
			logger.Warn(
				"refreshing source failed",
				slog.String("source", source.URL),
				logging.ErrAttr(err),
			)
		}
	}

	logger.Debug(fmt.Sprintf("refreshed %d/%d sources", len(j.sources)-failed, len(j.sources)))
	return nil
}

func uniqueSources(sources []olymp.Source) []olymp.Source {
	seen := map[string]bool{}
	unique := []olymp.Source{}

	for _, source := range sources {
		if seen[source.URL] {
			continue
		}

		seen[source.URL] = true
		unique = append(unique, source)
	}

	return unique
}
