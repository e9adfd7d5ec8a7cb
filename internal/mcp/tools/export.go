package tools

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/export/csvexport"
	"github.com/honeycarbs/job-aggregator/internal/export/sheets"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// ExportCSVParams defines the arguments for the export_csv tool
type ExportCSVParams struct {
	SessionID      string `json:"session_id" jsonschema:"Session whose full result set is exported"`
	IncludeContent bool   `json:"include_content,omitempty" jsonschema:"Return the CSV text in the result as well"`
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	SessionID string `json:"session_id" jsonschema:"Session whose full result set is exported"`
	Sheet     struct {
		SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
		Tab           string `json:"tab,omitempty" jsonschema:"Tab to overwrite, Sheet1 by default"`
	} `json:"sheet" jsonschema:"Destination sheet information"`
}

type exportTool struct {
	service job.Service
	logger  *logging.Logger
}

// WithExportCSV registers the export_csv tool
func WithExportCSV() Option {
	return func(reg *registry) {
		handler := exportTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "export_csv",
			Description: "Export every result of the session's last search to a CSV file",
		}, handler.handleCSV)
		reg.add("export_csv")
	}
}

// WithSheetsExport registers the sheets_export tool
func WithSheetsExport() Option {
	return func(reg *registry) {
		handler := exportTool{service: reg.service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Write every result of the session's last search to a Google Sheets tab",
		}, handler.handleSheets)
		reg.add("sheets_export")
	}
}

func (t exportTool) handleCSV(ctx context.Context, req *sdkmcp.CallToolRequest, params *ExportCSVParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil || params.SessionID == "" {
		return errorResult("session_id is required"), nil, nil
	}

	res, err := t.service.ExportCSV(ctx, params.SessionID)
	if errors.Is(err, csvexport.ErrNothingToExport) {
		return errorResult("There are no results to export."), nil, nil
	}
	if err != nil {
		t.logger.Error("export_csv: failed", "session_id", params.SessionID, "err", err)
		return nil, nil, fmt.Errorf("export_csv failed: %w", err)
	}

	if !params.IncludeContent {
		res.Content = ""
	}

	msg := fmt.Sprintf("exported %d row(s) to %s", res.Rows, res.Filename)
	if res.Location != "" {
		msg += " (" + res.Location + ")"
	}
	return textResult(msg), res, nil
}

func (t exportTool) handleSheets(ctx context.Context, req *sdkmcp.CallToolRequest, params *SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil || params.SessionID == "" {
		return errorResult("session_id is required"), nil, nil
	}

	t.logger.Info("sheets_export request",
		"session_id", params.SessionID,
		"spreadsheet_id", params.Sheet.SpreadsheetID,
		"tab", params.Sheet.Tab,
	)

	res, err := t.service.ExportSheets(ctx, params.SessionID, sheets.Target{
		SpreadsheetID: params.Sheet.SpreadsheetID,
		Tab:           params.Sheet.Tab,
	})
	if errors.Is(err, job.ErrSheetsDisabled) {
		return errorResult("Google Sheets export is not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)"), nil, nil
	}
	if err != nil {
		t.logger.Error("sheets_export: failed", "session_id", params.SessionID, "err", err)
		return nil, nil, fmt.Errorf("sheets_export failed: %w", err)
	}

	return textResult(res.Message), res, nil
}
