package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/domain/session"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// JobSearchParams defines the arguments for the job_search tool
type JobSearchParams struct {
	SessionID string   `json:"session_id,omitempty" jsonschema:"Session to search in; a new one is created when empty"`
	Query     string   `json:"query" jsonschema:"Job search text"`
	Location  string   `json:"location,omitempty" jsonschema:"Optional location filter"`
	JobType   string   `json:"job_type,omitempty" jsonschema:"One of all, internship, fulltime, contract"`
	Sources   []string `json:"sources,omitempty" jsonschema:"Sources to search in multi-source mode; defaults to the enabled ones"`
}

// SessionParams identifies a session
type SessionParams struct {
	SessionID string `json:"session_id" jsonschema:"Session identifier returned by job_search"`
}

// PageGotoParams defines the arguments for the page_goto tool
type PageGotoParams struct {
	SessionID string `json:"session_id" jsonschema:"Session identifier returned by job_search"`
	Page      int    `json:"page" jsonschema:"1-based page number; out of range requests leave the page unchanged"`
}

// PageSizeParams defines the arguments for the page_size tool
type PageSizeParams struct {
	SessionID string `json:"session_id" jsonschema:"Session identifier returned by job_search"`
	PageSize  int    `json:"page_size" jsonschema:"Rows per page: 5, 10, 25 or 50"`
}

type viewTool struct {
	service job.Service
	logger  *logging.Logger
}

// WithJobSearch registers the job_search tool
func WithJobSearch() Option {
	return func(reg *registry) {
		handler := viewTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_search",
			Description: "Run a job search and show the first page of results",
		}, handler.search)
		reg.add("job_search")
	}
}

// WithPageView registers the page_view tool
func WithPageView() Option {
	return func(reg *registry) {
		handler := viewTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "page_view",
			Description: "Show the current page of a session's results",
		}, handler.view)
		reg.add("page_view")
	}
}

// WithPageGoto registers the page_goto tool
func WithPageGoto() Option {
	return func(reg *registry) {
		handler := viewTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "page_goto",
			Description: "Move to another page of a session's results",
		}, handler.gotoPage)
		reg.add("page_goto")
	}
}

// WithPageSize registers the page_size tool
func WithPageSize() Option {
	return func(reg *registry) {
		handler := viewTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "page_size",
			Description: "Change how many results are shown per page and return to page 1",
		}, handler.pageSize)
		reg.add("page_size")
	}
}

func (t viewTool) search(ctx context.Context, req *sdkmcp.CallToolRequest, params *JobSearchParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil {
		params = &JobSearchParams{}
	}
	id := sessionOrNew(params.SessionID)

	t.logger.Info("job_search request",
		"session_id", id,
		"query", params.Query,
		"location", params.Location,
		"job_type", params.JobType,
		"sources", params.Sources,
	)

	view, err := t.service.Submit(ctx, id, domain.Query{
		Text:     params.Query,
		Location: params.Location,
		JobType:  params.JobType,
		Sources:  params.Sources,
	})
	return t.respond("job_search", view, err)
}

func (t viewTool) view(ctx context.Context, req *sdkmcp.CallToolRequest, params *SessionParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil || params.SessionID == "" {
		return errorResult("session_id is required"), nil, nil
	}
	view, err := t.service.View(ctx, params.SessionID)
	return t.respond("page_view", view, err)
}

func (t viewTool) gotoPage(ctx context.Context, req *sdkmcp.CallToolRequest, params *PageGotoParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil || params.SessionID == "" {
		return errorResult("session_id is required"), nil, nil
	}
	view, err := t.service.GoToPage(ctx, params.SessionID, params.Page)
	return t.respond("page_goto", view, err)
}

func (t viewTool) pageSize(ctx context.Context, req *sdkmcp.CallToolRequest, params *PageSizeParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil || params.SessionID == "" {
		return errorResult("session_id is required"), nil, nil
	}
	view, err := t.service.SetPageSize(ctx, params.SessionID, params.PageSize)
	return t.respond("page_size", view, err)
}

// respond turns a View and an optional failure into a tool result. Failures
// the user should see become tool errors carrying the view; anything else is
// returned to the SDK.
func (t viewTool) respond(tool string, view session.View, err error) (*sdkmcp.CallToolResult, any, error) {
	if err == nil {
		return textResult(renderView(view)), view, nil
	}

	msg, ok := userMessage(err)
	if !ok {
		t.logger.Error(tool+": request failed", "session_id", view.SessionID, "err", err)
		return nil, nil, fmt.Errorf("%s failed: %w", tool, err)
	}

	t.logger.Info(tool+": request rejected", "session_id", view.SessionID, "kind", domain.ErrorKind(err), "message", msg)
	res := errorResult(msg + "\n" + renderView(view))
	return res, view, nil
}
