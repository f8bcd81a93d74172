package services

import (
	"context"
	"log/slog"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/dates"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
)

type NewsService struct {
	logger  *slog.Logger
	pages   *PageService
	sources []olymp.Source
}

// GetNews returns one item per news source, in source order. Sources that
// can't be fetched yield a placeholder item.
func (service *NewsService) GetNews(ctx context.Context) []models.NewsItem {
	results := service.pages.fetchAll(ctx, service.sources)

	items := make([]models.NewsItem, 0, len(service.sources))
	for i, source := range service.sources {
		if results[i].err != nil {
			service.logger.Warn(
				"fetching news source failed",
				slog.String("source", source.URL),
				logging.ErrAttr(results[i].err),
			)
			items = append(items, placeholderNewsItem(source))
			continue
		}

		items = append(items, newsItem(source, results[i].page))
	}

	return items
}

func (service *NewsService) Sources() []olymp.Source {
	return service.sources
}

func newsItem(source olymp.Source, page *olymp.Page) models.NewsItem {
	title := page.Title
	if title == "" {
		title = source.Label
	}

	summary := page.Summary
	if summary == "" {
		summary = source.Summary
	}
	if summary == "" {
		summary = models.PlaceholderSummary
	}

	return models.NewsItem{
		Title:   title,
		Subject: source.Label,
		Date:    dateLabel(page.Text, source.URL),
		Summary: summary,
		Source:  source.URL,
	}
}

func placeholderNewsItem(source olymp.Source) models.NewsItem {
	return models.NewsItem{
		Title:   models.PlaceholderTitle,
		Subject: source.Label,
		Date:    models.PlaceholderDate,
		Summary: models.PlaceholderSummary,
		Source:  source.URL,
	}
}

func dateLabel(text string, url string) string {
	date, ok := dates.Extract(text, url)
	if !ok {
		return models.PlaceholderDate
	}

	return dates.Format(date)
}
