package job

import (
	"context"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// Backend is the external scraping service the controller dispatches to
type Backend interface {
	// Scrape runs one search. Transport-level failures are returned as
	// *domain.TransportError; success=false comes back in the result.
	Scrape(ctx context.Context, req domain.ScrapeRequest) (domain.ScrapeResult, error)

	// Sources lists the advertised source identifiers
	Sources(ctx context.Context) ([]string, error)
}
