package backend

import (
	"context"
	"fmt"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	jobdomain "github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/backend"
)

// apiClient describes the subset of the backend client used by the provider.
type apiClient interface {
	Scrape(ctx context.Context, body backend.ScrapeRequest) (backend.ScrapeResponse, error)
	Sources(ctx context.Context) (backend.SourcesResponse, error)
}

// Provider implements job.Backend on top of the HTTP API
type Provider struct {
	client apiClient
}

// NewProvider builds a backend provider
func NewProvider(client apiClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("backend provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Scrape sends the request and maps the answer to domain records
func (p *Provider) Scrape(ctx context.Context, req domain.ScrapeRequest) (domain.ScrapeResult, error) {
	resp, err := p.client.Scrape(ctx, backend.ScrapeRequest{
		SearchQuery: req.Text,
		Location:    req.Location,
		JobType:     req.JobType,
		Sources:     req.Sources,
	})
	if err != nil {
		return domain.ScrapeResult{}, &domain.TransportError{Cause: err}
	}

	if !resp.Success {
		return domain.ScrapeResult{Success: false, Error: resp.Error}, nil
	}

	out := make(domain.ResultSet, 0, len(resp.Data))
	for _, j := range resp.Data {
		out = append(out, domain.JobRecord{
			Title:    j.Title,
			Company:  j.Company,
			Location: j.Location,
			Posted:   j.Posted,
			Source:   j.Source,
			Link:     j.Link,
		})
	}

	return domain.ScrapeResult{Success: true, Records: out}, nil
}

// Sources returns the advertised source list
func (p *Provider) Sources(ctx context.Context) ([]string, error) {
	resp, err := p.client.Sources(ctx)
	if err != nil {
		return nil, &domain.TransportError{Cause: err}
	}
	if !resp.Success {
		return nil, &domain.BackendError{Message: resp.Error}
	}
	return resp.Data, nil
}

var _ jobdomain.Backend = (*Provider)(nil)
