package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain/pagination"
	"github.com/honeycarbs/job-aggregator/internal/domain/session"
	"github.com/honeycarbs/job-aggregator/internal/export/csvexport"
	"github.com/honeycarbs/job-aggregator/internal/mcp/tools"
)

type options struct {
	endpoint  string
	sessionID string
	query     string
	location  string
	jobType   string
	sources   string
	page      int
	pageSize  int
	export    bool
	outDir    string
	history   int
	listSrc   bool
	timeout   time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.endpoint, "endpoint", "http://localhost:8080/mcp/stream", "MCP stream endpoint")
	flag.StringVar(&opts.sessionID, "session", "", "session id to continue; a new one is created by -query when empty")
	flag.StringVar(&opts.query, "query", "", "search text")
	flag.StringVar(&opts.location, "location", "", "location filter")
	flag.StringVar(&opts.jobType, "type", "", "job type: all, internship, fulltime, contract")
	flag.StringVar(&opts.sources, "sources", "", "comma separated sources (multi-source mode)")
	flag.IntVar(&opts.page, "page", 0, "page to show")
	flag.IntVar(&opts.pageSize, "page-size", 0, "rows per page: 5, 10, 25 or 50")
	flag.BoolVar(&opts.export, "export", false, "export the full result set to CSV")
	flag.StringVar(&opts.outDir, "out", ".", "directory for exported CSV files")
	flag.IntVar(&opts.history, "history", 0, "list the N most recent archived searches and exit")
	flag.BoolVar(&opts.listSrc, "list-sources", false, "list advertised sources for the session and exit")
	flag.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) error {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "jobcli",
		Version: "0.2.0",
	}, nil)

	cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: opts.endpoint,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = cs.Close() }()

	if opts.history > 0 {
		res, err := callTool(ctx, cs, "query_history", map[string]any{"limit": opts.history})
		if err != nil {
			return err
		}
		printText(res)
		return nil
	}

	if opts.listSrc {
		return listSources(ctx, cs, opts.sessionID)
	}

	var view session.View
	id := opts.sessionID

	if opts.query != "" {
		args := map[string]any{
			"session_id": id,
			"query":      opts.query,
			"location":   opts.location,
			"job_type":   opts.jobType,
		}
		if opts.sources != "" {
			args["sources"] = splitList(opts.sources)
		}
		if view, err = callView(ctx, cs, "job_search", args); err != nil {
			return err
		}
		id = view.SessionID
	}

	if id == "" {
		return fmt.Errorf("either -query or -session is required")
	}

	if opts.pageSize > 0 {
		if view, err = callView(ctx, cs, "page_size", map[string]any{"session_id": id, "page_size": opts.pageSize}); err != nil {
			return err
		}
	}

	if opts.page > 0 {
		if view, err = callView(ctx, cs, "page_goto", map[string]any{"session_id": id, "page": opts.page}); err != nil {
			return err
		}
	}

	if view.SessionID == "" {
		if view, err = callView(ctx, cs, "page_view", map[string]any{"session_id": id}); err != nil {
			return err
		}
	}

	printView(os.Stdout, view)

	if opts.export {
		return exportCSV(ctx, cs, id, opts.outDir)
	}
	return nil
}

func callTool(ctx context.Context, cs *mcp.ClientSession, name string, args map[string]any) (*mcp.CallToolResult, error) {
	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return res, nil
}

// callView calls a tool that answers with a session view. Tool errors are
// printed and the view they carry is still returned.
func callView(ctx context.Context, cs *mcp.ClientSession, name string, args map[string]any) (session.View, error) {
	res, err := callTool(ctx, cs, name, args)
	if err != nil {
		return session.View{}, err
	}

	var view session.View
	if res.StructuredContent != nil {
		if err := decode(res.StructuredContent, &view); err != nil {
			return view, fmt.Errorf("%s: decode view: %w", name, err)
		}
	}

	if res.IsError {
		printText(res)
		if view.SessionID == "" {
			return view, fmt.Errorf("%s was rejected", name)
		}
	}
	return view, nil
}

func listSources(ctx context.Context, cs *mcp.ClientSession, id string) error {
	res, err := callTool(ctx, cs, "job_sources", map[string]any{"session_id": id})
	if err != nil {
		return err
	}
	if res.IsError {
		printText(res)
		return nil
	}

	var out tools.SourcesResult
	if err := decode(res.StructuredContent, &out); err != nil {
		return fmt.Errorf("job_sources: decode result: %w", err)
	}

	fmt.Printf("session: %s (%s mode)\n", out.SessionID, out.Mode)
	for _, s := range out.Sources {
		state := "disabled"
		if s.Enabled {
			state = "enabled"
		}
		fmt.Printf("  %-12s %s\n", s.Name, state)
	}
	return nil
}

func exportCSV(ctx context.Context, cs *mcp.ClientSession, id, outDir string) error {
	res, err := callTool(ctx, cs, "export_csv", map[string]any{"session_id": id, "include_content": true})
	if err != nil {
		return err
	}
	if res.IsError {
		printText(res)
		return nil
	}

	var out csvexport.Result
	if err := decode(res.StructuredContent, &out); err != nil {
		return fmt.Errorf("export_csv: decode result: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("export_csv: %w", err)
	}
	path := filepath.Join(outDir, filepath.Base(out.Filename))
	if err := os.WriteFile(path, []byte(out.Content), 0o644); err != nil {
		return fmt.Errorf("export_csv: %w", err)
	}

	fmt.Printf("wrote %d row(s) to %s\n", out.Rows, path)
	return nil
}

func printView(w io.Writer, v session.View) {
	fmt.Fprintf(w, "session: %s\n", v.SessionID)
	if v.Error != nil {
		fmt.Fprintf(w, "error: %s\n", v.Error.Message)
	}
	if v.NoResults {
		fmt.Fprintln(w, "No jobs found.")
		return
	}
	if v.Total == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tCOMPANY\tLOCATION\tPOSTED\tSOURCE\tLINK")
	offset := (v.Page - 1) * v.PageSize
	for i, rec := range v.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			offset+i+1, rec.Title, rec.Company, rec.Location, rec.Posted, rec.Source, rec.DisplayLink())
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "page %d of %d, %d jobs\n", v.Page, v.DisplayTotal, v.Total)

	var b strings.Builder
	if v.HasPrevious {
		b.WriteString("< ")
	}
	for _, it := range v.Window {
		switch {
		case it.Kind == pagination.KindEllipsis:
			b.WriteString("... ")
		case it.N == v.Page:
			fmt.Fprintf(&b, "[%d] ", it.N)
		default:
			fmt.Fprintf(&b, "%d ", it.N)
		}
	}
	if v.HasNext {
		b.WriteString(">")
	}
	fmt.Fprintln(w, strings.TrimSpace(b.String()))
}

func printText(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}

func decode(in any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
