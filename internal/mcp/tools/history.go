package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// QueryHistoryParams defines the arguments for the query_history tool
type QueryHistoryParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of queries to list, 20 by default"`
}

// QueryHistoryResult lists archived queries
type QueryHistoryResult struct {
	Queries []domain.QuerySummary `json:"queries" jsonschema:"Archived queries, newest first"`
}

type historyTool struct {
	service job.Service
	logger  *logging.Logger
}

// WithQueryHistory registers the query_history tool
func WithQueryHistory() Option {
	return func(reg *registry) {
		handler := historyTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "query_history",
			Description: "List recently completed searches from the archive",
		}, handler.handle)
		reg.add("query_history")
	}
}

func (t historyTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params *QueryHistoryParams) (*sdkmcp.CallToolResult, any, error) {
	limit := 0
	if params != nil {
		limit = params.Limit
	}

	queries, err := t.service.History(ctx, limit)
	if err != nil {
		t.logger.Error("query_history: failed", "err", err)
		return nil, nil, fmt.Errorf("query_history failed: %w", err)
	}

	result := QueryHistoryResult{Queries: queries}
	if len(queries) == 0 {
		return textResult("no archived queries"), result, nil
	}

	var b strings.Builder
	for _, q := range queries {
		fmt.Fprintf(&b, "%s  %q", q.CompletedAt.Format(time.RFC3339), q.Text)
		if q.Location != "" {
			fmt.Fprintf(&b, " in %s", q.Location)
		}
		fmt.Fprintf(&b, " [%s] %d result(s)\n", strings.Join(q.Sources, ","), q.ResultCount)
	}
	return textResult(b.String()), result, nil
}
