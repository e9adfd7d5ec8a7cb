package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/pagination"
	"github.com/honeycarbs/job-aggregator/internal/domain/session"
)

const msgSuperseded = "This search was replaced by a newer one in the same session."

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

// errorResult returns a ToolResult flagged as a tool-level error
func errorResult(msg string) *sdkmcp.CallToolResult {
	res := textResult(msg)
	res.IsError = true
	return res
}

// userMessage reports the message shown for err and whether err belongs to
// the user-facing failure kinds
func userMessage(err error) (string, bool) {
	if errors.Is(err, session.ErrStale) {
		return msgSuperseded, true
	}
	if domain.ErrorKind(err) != "" {
		return err.Error(), true
	}
	return "", false
}

// sessionOrNew returns id, or a fresh session id when the caller has none yet
func sessionOrNew(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// renderView formats a View as plain text for the model
func renderView(v session.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "session: %s\n", v.SessionID)

	switch {
	case v.Loading:
		b.WriteString("Searching...\n")
		return b.String()
	case v.Error != nil:
		fmt.Fprintf(&b, "Error: %s\n", v.Error.Message)
	case v.NoResults:
		b.WriteString("No jobs found.\n")
		return b.String()
	}

	if v.Total == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "Page %d of %d (%d jobs)\n", v.Page, v.DisplayTotal, v.Total)

	offset := (v.Page - 1) * v.PageSize
	for i, rec := range v.Items {
		fmt.Fprintf(&b, "%d. %s | %s | %s | %s", offset+i+1, rec.Title, rec.Company, rec.Location, rec.Posted)
		if rec.Source != "" {
			fmt.Fprintf(&b, " | %s", rec.Source)
		}
		fmt.Fprintf(&b, " | %s", rec.DisplayLink())
		b.WriteByte('\n')
	}

	if len(v.Window) > 0 {
		b.WriteString("Pages:")
		for _, it := range v.Window {
			switch {
			case it.Kind == pagination.KindEllipsis:
				b.WriteString(" ...")
			case it.N == v.Page:
				fmt.Fprintf(&b, " [%d]", it.N)
			default:
				fmt.Fprintf(&b, " %d", it.N)
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}
