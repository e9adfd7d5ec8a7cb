package job

import (
	"context"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// Archive persists completed result sets for later inspection
type Archive interface {
	// SaveResultSet stores a query and what it returned, in order
	SaveResultSet(ctx context.Context, q domain.ArchivedQuery) error

	// RecentQueries lists the most recently completed queries
	RecentQueries(ctx context.Context, limit int) ([]domain.QuerySummary, error)
}

// NopArchive discards result sets and has no history
type NopArchive struct{}

func (NopArchive) SaveResultSet(context.Context, domain.ArchivedQuery) error {
	return nil
}

func (NopArchive) RecentQueries(context.Context, int) ([]domain.QuerySummary, error) {
	return []domain.QuerySummary{}, nil
}
