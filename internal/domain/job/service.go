package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/session"
	"github.com/honeycarbs/job-aggregator/internal/export/csvexport"
	"github.com/honeycarbs/job-aggregator/internal/export/sheets"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// ErrSheetsDisabled is returned when no Sheets exporter is configured
var ErrSheetsDisabled = errors.New("job.Service: sheets export is not configured")

// ErrSessionRequired is returned for calls without a session id
var ErrSessionRequired = errors.New("job.Service: session id is required")

// DefaultHistoryLimit bounds History when the caller passes no limit
const DefaultHistoryLimit = 20

// SourceStatus is one advertised source and whether it is enabled
type SourceStatus struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// SheetsExporter writes a ResultSet to a spreadsheet tab
type SheetsExporter interface {
	Export(ctx context.Context, target sheets.Target, rs domain.ResultSet) (sheets.Result, error)
}

// CSVExporter writes a ResultSet to a CSV download
type CSVExporter interface {
	Export(ctx context.Context, rs domain.ResultSet) (csvexport.Result, error)
}

// Service drives the query lifecycle of every session
type Service interface {
	Submit(ctx context.Context, sessionID string, q domain.Query) (session.View, error)
	View(ctx context.Context, sessionID string) (session.View, error)
	GoToPage(ctx context.Context, sessionID string, page int) (session.View, error)
	SetPageSize(ctx context.Context, sessionID string, size int) (session.View, error)
	Sources(ctx context.Context, sessionID string) ([]SourceStatus, error)
	SelectSources(ctx context.Context, sessionID string, names []string) ([]SourceStatus, error)
	ExportCSV(ctx context.Context, sessionID string) (csvexport.Result, error)
	ExportSheets(ctx context.Context, sessionID string, target sheets.Target) (sheets.Result, error)
	History(ctx context.Context, limit int) ([]domain.QuerySummary, error)
	Mode() domain.SourceMode
}

// Option configures Service
type Option func(*config)

type config struct {
	backend Backend
	store   session.Store
	archive Archive
	csv     CSVExporter
	sheets  SheetsExporter
	mode    domain.SourceMode
	clock   func() time.Time
	log     *logging.Logger
}

// WithBackend sets the job backend
func WithBackend(b Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithStore sets the session store
func WithStore(s session.Store) Option {
	return func(c *config) {
		c.store = s
	}
}

// WithArchive sets the result set archive
func WithArchive(a Archive) Option {
	return func(c *config) {
		c.archive = a
	}
}

// WithCSVExporter sets the CSV exporter
func WithCSVExporter(e CSVExporter) Option {
	return func(c *config) {
		c.csv = e
	}
}

// WithSheetsExporter sets the Sheets exporter
func WithSheetsExporter(e SheetsExporter) Option {
	return func(c *config) {
		c.sheets = e
	}
}

// WithMode sets the source mode
func WithMode(m domain.SourceMode) Option {
	return func(c *config) {
		c.mode = m
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(log *logging.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		mode:  domain.SingleSource,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.backend == nil {
		return nil, fmt.Errorf("job.Service: backend is required")
	}
	if cfg.store == nil {
		return nil, fmt.Errorf("job.Service: session store is required")
	}
	if cfg.csv == nil {
		return nil, fmt.Errorf("job.Service: csv exporter is required")
	}
	if cfg.mode != domain.SingleSource && cfg.mode != domain.MultiSource {
		return nil, fmt.Errorf("job.Service: unknown source mode %q", cfg.mode)
	}
	if cfg.archive == nil {
		cfg.archive = NopArchive{}
	}
	if cfg.log == nil {
		cfg.log = logging.NewNop()
	}

	return &service{
		backend: cfg.backend,
		store:   cfg.store,
		archive: cfg.archive,
		csv:     cfg.csv,
		sheets:  cfg.sheets,
		mode:    cfg.mode,
		clock:   cfg.clock,
		log:     cfg.log,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible).
// sheetsExp may be nil when Sheets export is disabled.
func NewServiceWithDeps(
	log *logging.Logger,
	mode domain.SourceMode,
	backend Backend,
	store session.Store,
	archive Archive,
	csvExp *csvexport.Exporter,
	sheetsExp *sheets.Exporter,
) (Service, error) {
	opts := []Option{
		WithLogger(log),
		WithMode(mode),
		WithBackend(backend),
		WithStore(store),
		WithArchive(archive),
		WithCSVExporter(csvExp),
	}
	if sheetsExp != nil {
		opts = append(opts, WithSheetsExporter(sheetsExp))
	}
	return NewService(opts...)
}

type service struct {
	backend Backend
	store   session.Store
	archive Archive
	csv     CSVExporter
	sheets  SheetsExporter
	mode    domain.SourceMode
	clock   func() time.Time
	log     *logging.Logger
}

func (s *service) Mode() domain.SourceMode {
	return s.mode
}

// Submit validates q, clears the session and runs the query. Only the latest
// query of a session may write its outcome.
func (s *service) Submit(ctx context.Context, sessionID string, q domain.Query) (session.View, error) {
	if sessionID == "" {
		return session.View{}, ErrSessionRequired
	}
	log := s.log.With("session_id", sessionID)

	if strings.TrimSpace(q.Text) == "" {
		return s.reject(ctx, sessionID, &domain.ValidationError{Message: domain.MsgEmptyQuery})
	}

	if s.mode == domain.MultiSource {
		if _, err := s.loadSources(ctx, sessionID); err != nil {
			log.Warn("failed to load sources", "err", err)
			return s.reject(ctx, sessionID, err)
		}
	}

	var (
		req     domain.ScrapeRequest
		seq     uint64
		invalid error
	)
	st, err := s.store.Update(ctx, sessionID, func(st session.State) (session.State, error) {
		norm, verr := s.normalize(q, st)
		invalid = verr
		if verr != nil {
			return session.Reject(st, verr), nil
		}
		req = domain.ScrapeRequest(norm)
		var next session.State
		next, seq = session.Begin(st, norm)
		next.UpdatedAt = s.clock()
		return next, nil
	})
	if err != nil {
		return session.View{}, fmt.Errorf("job.Service: begin query: %w", err)
	}
	if invalid != nil {
		log.Info("query rejected", "reason", invalid.Error())
		return session.Render(st), invalid
	}

	log.Info("query started", "seq", seq, "text", req.Text, "sources", req.Sources)

	res, callErr := s.backend.Scrape(ctx, req)
	outcome := classify(res, callErr)
	if outcome != nil {
		log.Error("query failed", "seq", seq, "kind", domain.ErrorKind(outcome), "err", describe(outcome))
	}

	// the caller may have gone away; the outcome must still land so the
	// session does not stay in the loading state
	saveCtx := context.WithoutCancel(ctx)
	st, err = s.store.Update(saveCtx, sessionID, func(st session.State) (session.State, error) {
		var (
			next session.State
			err  error
		)
		if outcome != nil {
			next, err = session.Fail(st, seq, outcome)
		} else {
			next, err = session.Complete(st, seq, res.Records)
		}
		if err != nil {
			return st, err
		}
		next.UpdatedAt = s.clock()
		return next, nil
	})
	if errors.Is(err, session.ErrStale) {
		log.Info("discarding stale response", "seq", seq, "latest_seq", st.Seq)
		return session.Render(st), session.ErrStale
	}
	if err != nil {
		return session.View{}, fmt.Errorf("job.Service: finish query: %w", err)
	}

	if outcome != nil {
		return session.Render(st), outcome
	}

	log.Info("query completed", "seq", seq, "results", len(res.Records))
	s.archiveResults(saveCtx, sessionID, req, res.Records)

	return session.Render(st), nil
}

func (s *service) View(ctx context.Context, sessionID string) (session.View, error) {
	if sessionID == "" {
		return session.View{}, ErrSessionRequired
	}
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return session.View{}, fmt.Errorf("job.Service: load session: %w", err)
	}
	return session.Render(st), nil
}

func (s *service) GoToPage(ctx context.Context, sessionID string, page int) (session.View, error) {
	return s.update(ctx, sessionID, func(st session.State) (session.State, error) {
		return session.GoToPage(st, page), nil
	})
}

func (s *service) SetPageSize(ctx context.Context, sessionID string, size int) (session.View, error) {
	return s.update(ctx, sessionID, func(st session.State) (session.State, error) {
		return session.SetPageSize(st, size)
	})
}

// Sources lists the advertised sources with their enabled flags. In single
// source mode the list is fixed and no request is made.
func (s *service) Sources(ctx context.Context, sessionID string) ([]SourceStatus, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if s.mode == domain.SingleSource {
		return []SourceStatus{{Name: domain.SourceLinkedIn, Enabled: true}}, nil
	}
	st, err := s.loadSources(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return statuses(st), nil
}

func (s *service) SelectSources(ctx context.Context, sessionID string, names []string) ([]SourceStatus, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if s.mode == domain.SingleSource {
		return nil, domain.NewValidationError("source selection is only available in %s mode", domain.MultiSource)
	}
	if _, err := s.loadSources(ctx, sessionID); err != nil {
		return nil, err
	}

	st, err := s.store.Update(ctx, sessionID, func(st session.State) (session.State, error) {
		return session.SelectSources(st, dedupe(names))
	})
	if err != nil {
		return statuses(st), err
	}
	return statuses(st), nil
}

// ExportCSV exports the full current ResultSet of the session
func (s *service) ExportCSV(ctx context.Context, sessionID string) (csvexport.Result, error) {
	if sessionID == "" {
		return csvexport.Result{}, ErrSessionRequired
	}
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return csvexport.Result{}, fmt.Errorf("job.Service: load session: %w", err)
	}

	res, err := s.csv.Export(ctx, st.Results)
	if err != nil {
		if !errors.Is(err, csvexport.ErrNothingToExport) {
			s.log.Warn("csv export failed", "session_id", sessionID, "filename", res.Filename, "err", err)
		}
		return res, err
	}

	s.log.Info("csv exported", "session_id", sessionID, "filename", res.Filename, "rows", res.Rows)
	return res, nil
}

func (s *service) ExportSheets(ctx context.Context, sessionID string, target sheets.Target) (sheets.Result, error) {
	if sessionID == "" {
		return sheets.Result{}, ErrSessionRequired
	}
	if s.sheets == nil {
		return sheets.Result{}, ErrSheetsDisabled
	}
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return sheets.Result{}, fmt.Errorf("job.Service: load session: %w", err)
	}

	res, err := s.sheets.Export(ctx, target, st.Results)
	if err != nil {
		s.log.Warn("sheets export failed", "session_id", sessionID, "spreadsheet_id", target.SpreadsheetID, "err", err)
		return res, err
	}

	s.log.Info("sheets exported", "session_id", sessionID, "spreadsheet_id", res.SpreadsheetID, "rows", res.WrittenRows)
	return res, nil
}

// History lists recently archived queries, newest first
func (s *service) History(ctx context.Context, limit int) ([]domain.QuerySummary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	out, err := s.archive.RecentQueries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("job.Service: query history: %w", err)
	}
	return out, nil
}

func (s *service) update(ctx context.Context, sessionID string, fn session.UpdateFunc) (session.View, error) {
	if sessionID == "" {
		return session.View{}, ErrSessionRequired
	}
	st, err := s.store.Update(ctx, sessionID, fn)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return session.Render(st), err
		}
		return session.View{}, fmt.Errorf("job.Service: update session: %w", err)
	}
	return session.Render(st), nil
}

func (s *service) reject(ctx context.Context, sessionID string, cause error) (session.View, error) {
	st, err := s.store.Update(ctx, sessionID, func(st session.State) (session.State, error) {
		return session.Reject(st, cause), nil
	})
	if err != nil {
		return session.View{}, fmt.Errorf("job.Service: record rejection: %w", err)
	}
	return session.Render(st), cause
}

// loadSources fetches the source list once per session
func (s *service) loadSources(ctx context.Context, sessionID string) (session.State, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return st, fmt.Errorf("job.Service: load session: %w", err)
	}
	if len(st.Advertised) > 0 {
		return st, nil
	}

	names, err := s.backend.Sources(ctx)
	if err != nil {
		return st, err
	}
	names = dedupe(names)
	if len(names) == 0 {
		return st, &domain.BackendError{Message: "No sources available"}
	}

	return s.store.Update(ctx, sessionID, func(st session.State) (session.State, error) {
		if len(st.Advertised) > 0 {
			return st, nil
		}
		return session.Advertise(st, names), nil
	})
}

// normalize trims the query and resolves the job type and sources for the mode
func (s *service) normalize(q domain.Query, st session.State) (domain.Query, error) {
	out := domain.Query{
		Text:     strings.TrimSpace(q.Text),
		Location: strings.TrimSpace(q.Location),
		JobType:  strings.ToLower(strings.TrimSpace(q.JobType)),
	}
	if out.Text == "" {
		return out, &domain.ValidationError{Message: domain.MsgEmptyQuery}
	}
	if out.JobType == domain.JobTypeAll {
		out.JobType = ""
	}
	if out.JobType != "" && !domain.IsKnownJobType(out.JobType) {
		return out, domain.NewValidationError("unknown job type %q", q.JobType)
	}

	if s.mode == domain.SingleSource {
		out.Sources = []string{domain.SourceLinkedIn}
		return out, nil
	}

	sources := dedupe(q.Sources)
	if len(sources) == 0 {
		sources = st.Sources.Enabled(st.Advertised)
	}
	if len(sources) == 0 {
		return out, &domain.ValidationError{Message: domain.MsgNoSources}
	}
	for _, name := range sources {
		if _, ok := st.Sources[name]; !ok {
			return out, domain.NewValidationError("unknown source %q", name)
		}
	}
	out.Sources = sources

	return out, nil
}

func (s *service) archiveResults(ctx context.Context, sessionID string, req domain.ScrapeRequest, records domain.ResultSet) {
	entry := domain.ArchivedQuery{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Query:       req,
		Records:     records,
		CompletedAt: s.clock().UTC(),
	}
	if err := s.archive.SaveResultSet(ctx, entry); err != nil {
		s.log.Warn("failed to archive result set", "session_id", sessionID, "query_id", entry.ID, "err", err)
	}
}

func classify(res domain.ScrapeResult, err error) error {
	if err != nil {
		if domain.ErrorKind(err) != "" {
			return err
		}
		return &domain.TransportError{Cause: err}
	}
	if !res.Success {
		return &domain.BackendError{Message: res.Error}
	}
	return nil
}

// describe keeps the transport cause in logs while users see the generic message
func describe(err error) string {
	var te *domain.TransportError
	if errors.As(err, &te) && te.Cause != nil {
		return te.Cause.Error()
	}
	return err.Error()
}

func statuses(st session.State) []SourceStatus {
	out := make([]SourceStatus, 0, len(st.Advertised))
	for _, name := range st.Advertised {
		out = append(out, SourceStatus{Name: name, Enabled: st.Sources[name]})
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
