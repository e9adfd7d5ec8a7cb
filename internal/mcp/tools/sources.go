package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// SourcesParams defines the arguments for the job_sources tool
type SourcesParams struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session to inspect; a new one is created when empty"`
}

// SelectSourcesParams defines the arguments for the select_sources tool
type SelectSourcesParams struct {
	SessionID string   `json:"session_id,omitempty" jsonschema:"Session to configure; a new one is created when empty"`
	Sources   []string `json:"sources" jsonschema:"Sources to enable; every other advertised source is disabled"`
}

// SourcesResult lists the advertised sources of a session
type SourcesResult struct {
	SessionID string             `json:"session_id" jsonschema:"Session identifier"`
	Mode      string             `json:"mode" jsonschema:"single or multi"`
	Sources   []job.SourceStatus `json:"sources" jsonschema:"Advertised sources and whether each is enabled"`
}

type sourcesTool struct {
	service job.Service
	logger  *logging.Logger
}

// WithJobSources registers the job_sources tool
func WithJobSources() Option {
	return func(reg *registry) {
		handler := sourcesTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_sources",
			Description: "List the job sources the backend advertises and which are enabled",
		}, handler.list)
		reg.add("job_sources")
	}
}

// WithSelectSources registers the select_sources tool
func WithSelectSources() Option {
	return func(reg *registry) {
		handler := sourcesTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "select_sources",
			Description: "Choose which sources later searches use (multi-source mode only)",
		}, handler.selectSources)
		reg.add("select_sources")
	}
}

func (t sourcesTool) list(ctx context.Context, req *sdkmcp.CallToolRequest, params *SourcesParams) (*sdkmcp.CallToolResult, any, error) {
	id := ""
	if params != nil {
		id = params.SessionID
	}
	id = sessionOrNew(id)

	statuses, err := t.service.Sources(ctx, id)
	return t.respond("job_sources", id, statuses, err)
}

func (t sourcesTool) selectSources(ctx context.Context, req *sdkmcp.CallToolRequest, params *SelectSourcesParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil {
		params = &SelectSourcesParams{}
	}
	id := sessionOrNew(params.SessionID)

	t.logger.Info("select_sources request", "session_id", id, "sources", params.Sources)

	statuses, err := t.service.SelectSources(ctx, id, params.Sources)
	return t.respond("select_sources", id, statuses, err)
}

func (t sourcesTool) respond(tool, id string, statuses []job.SourceStatus, err error) (*sdkmcp.CallToolResult, any, error) {
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			t.logger.Error(tool+": request failed", "session_id", id, "err", err)
			return nil, nil, fmt.Errorf("%s failed: %w", tool, err)
		}
		return errorResult(msg), nil, nil
	}

	result := SourcesResult{
		SessionID: id,
		Mode:      string(t.service.Mode()),
		Sources:   statuses,
	}
	return textResult(renderSources(result)), result, nil
}

func renderSources(r SourcesResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "session: %s\nmode: %s\n", r.SessionID, r.Mode)
	for _, s := range r.Sources {
		mark := " "
		if s.Enabled {
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %s\n", mark, s.Name)
	}
	return b.String()
}
