package mcp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/export/csvexport"
	"github.com/honeycarbs/job-aggregator/internal/storage/memory"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

type stubBackend struct{}

func (stubBackend) Scrape(context.Context, domain.ScrapeRequest) (domain.ScrapeResult, error) {
	return domain.ScrapeResult{Success: true, Records: domain.ResultSet{{Title: "Go Dev", Company: "Acme"}}}, nil
}

func (stubBackend) Sources(context.Context) ([]string, error) {
	return []string{domain.SourceLinkedIn}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	exp, err := csvexport.NewExporter(csvexport.DirSaver{Dir: t.TempDir()}, domain.SingleSource)
	require.NoError(t, err)
	svc, err := job.NewService(
		job.WithBackend(stubBackend{}),
		job.WithStore(memory.NewStore()),
		job.WithCSVExporter(exp),
	)
	require.NoError(t, err)

	srv, err := NewServer(logging.NewNop(), config.Config{Host: "127.0.0.1", Port: "0"}, newResources(svc))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewServer_RequiresJobService(t *testing.T) {
	_, err := NewServer(logging.NewNop(), config.Config{}, &Resources{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + healthPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestStreamEndpoint_JobSearch(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.URL + streamPath}, nil)
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "job_search",
		Arguments: map[string]any{"session_id": "s1", "query": "golang"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)

	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, tc.Text, "1. Go Dev | Acme")
}
