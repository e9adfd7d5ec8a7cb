// Package sheets writes a ResultSet to a Google Sheets tab using the same
// column layout as the CSV export.
package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/export/csvexport"
)

const defaultTab = "Sheet1"

// valuesClient describes the subset of the Sheets client used by the exporter.
type valuesClient interface {
	ClearValues(ctx context.Context, spreadsheetID, range_ string) error
	UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
}

// Target names the destination spreadsheet and tab
type Target struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Tab           string `json:"tab,omitempty"`
}

// Result describes a finished Sheets export
type Result struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab"`
	WrittenRows   int       `json:"written_rows"`
	CompletedAt   time.Time `json:"completed_at"`
	Message       string    `json:"message,omitempty"`
}

// Exporter replaces a tab's contents with the header and one row per record
type Exporter struct {
	client  valuesClient
	columns []csvexport.Column
	clock   func() time.Time
}

// NewExporter builds an Exporter for mode
func NewExporter(client valuesClient, mode domain.SourceMode) (*Exporter, error) {
	if client == nil {
		return nil, fmt.Errorf("sheets exporter: client is required")
	}
	return &Exporter{
		client:  client,
		columns: csvexport.ColumnsFor(mode),
		clock:   time.Now,
	}, nil
}

// Export clears the tab and writes the full ResultSet starting at A1
func (e *Exporter) Export(ctx context.Context, target Target, rs domain.ResultSet) (Result, error) {
	if target.SpreadsheetID == "" {
		return Result{}, fmt.Errorf("sheets exporter: spreadsheet id is required")
	}

	tab := target.Tab
	if tab == "" {
		tab = defaultTab
	}

	result := Result{
		SpreadsheetID: target.SpreadsheetID,
		Tab:           tab,
	}

	if len(rs) == 0 {
		result.CompletedAt = e.clock().UTC()
		result.Message = "no rows to export"
		return result, nil
	}

	if err := e.client.ClearValues(ctx, target.SpreadsheetID, fmt.Sprintf("%s!A:Z", tab)); err != nil {
		return result, fmt.Errorf("sheets exporter: failed to clear tab: %w", err)
	}

	values := buildValues(e.columns, rs)
	if err := e.client.UpdateValues(ctx, target.SpreadsheetID, fmt.Sprintf("%s!A1", tab), values); err != nil {
		return result, fmt.Errorf("sheets exporter: failed to write rows: %w", err)
	}

	result.WrittenRows = len(rs)
	result.CompletedAt = e.clock().UTC()
	result.Message = fmt.Sprintf("successfully exported %d row(s)", result.WrittenRows)

	return result, nil
}

func buildValues(cols []csvexport.Column, rs domain.ResultSet) [][]interface{} {
	values := make([][]interface{}, 0, len(rs)+1)

	header := make([]interface{}, len(cols))
	for i, name := range csvexport.Header(cols) {
		header[i] = name
	}
	values = append(values, header)

	for _, rec := range rs {
		row := make([]interface{}, len(cols))
		for i, c := range cols {
			row[i] = c.Value(rec)
		}
		values = append(values, row)
	}

	return values
}
