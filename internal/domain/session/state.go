// Package session holds the explicit per-user state of the presentation
// pipeline. Every event is a pure function from one State to the next.
package session

import (
	"errors"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/pagination"
)

// Pagination is the page cursor over the current ResultSet
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// SourceSelection maps advertised source identifiers to their enabled flag
type SourceSelection map[string]bool

// Enabled returns the enabled sources in the advertised order
func (s SourceSelection) Enabled(order []string) []string {
	out := make([]string, 0, len(s))
	for _, name := range order {
		if s[name] {
			out = append(out, name)
		}
	}
	return out
}

// Failure is the last error surfaced to the user
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// State is everything one user sees: query, results, cursor and status
type State struct {
	ID         string           `json:"id"`
	Query      domain.Query     `json:"query"`
	Results    domain.ResultSet `json:"results"`
	Pagination Pagination       `json:"pagination"`

	// Advertised keeps the backend's source order, Sources the user's selection
	Advertised []string        `json:"advertised,omitempty"`
	Sources    SourceSelection `json:"sources,omitempty"`

	Seq       uint64    `json:"seq"`
	Loading   bool      `json:"loading"`
	Searched  bool      `json:"searched"`
	Error     *Failure  `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrStale reports that an outcome belongs to a request that is no longer the latest
var ErrStale = errors.New("session: stale response discarded")

// New returns an empty state with default pagination
func New(id string) State {
	return State{
		ID:      id,
		Results: domain.ResultSet{},
		Pagination: Pagination{
			CurrentPage: 1,
			PageSize:    pagination.DefaultPageSize,
		},
	}
}

// Begin starts a query: results are cleared, the cursor returns to page 1 and
// a new sequence number is issued. The returned seq must be passed to
// Complete or Fail.
func Begin(s State, q domain.Query) (State, uint64) {
	s.Seq++
	s.Query = q
	s.Results = domain.ResultSet{}
	s.Pagination.CurrentPage = 1
	s.Loading = true
	s.Error = nil
	return s, s.Seq
}

// Complete replaces the ResultSet with records if seq is still the latest
func Complete(s State, seq uint64, records domain.ResultSet) (State, error) {
	if seq != s.Seq {
		return s, ErrStale
	}
	if records == nil {
		records = domain.ResultSet{}
	}
	s.Results = records
	s.Pagination.CurrentPage = 1
	s.Loading = false
	s.Searched = true
	s.Error = nil
	return s, nil
}

// Fail records err as the outcome of seq, leaving the ResultSet empty
func Fail(s State, seq uint64, err error) (State, error) {
	if seq != s.Seq {
		return s, ErrStale
	}
	s.Results = domain.ResultSet{}
	s.Pagination.CurrentPage = 1
	s.Loading = false
	s.Error = failureFrom(err)
	return s, nil
}

// Reject records a validation failure without touching the current results
func Reject(s State, err error) State {
	s.Error = failureFrom(err)
	return s
}

// GoToPage moves the cursor when n is in range and is a no-op otherwise
func GoToPage(s State, n int) State {
	total := pagination.TotalPages(len(s.Results), s.Pagination.PageSize)
	s.Pagination.CurrentPage = pagination.GoToPage(s.Pagination.CurrentPage, n, total)
	return s
}

// SetPageSize changes the page size and returns to page 1
func SetPageSize(s State, size int) (State, error) {
	if !pagination.ValidPageSize(size) {
		return s, domain.NewValidationError("page size must be one of %v", pagination.PageSizes)
	}
	s.Pagination.PageSize = size
	s.Pagination.CurrentPage = 1
	return s, nil
}

// Advertise stores the backend's source list. Sources seen for the first time
// start enabled; existing choices are kept, unknown ones dropped.
func Advertise(s State, sources []string) State {
	sel := make(SourceSelection, len(sources))
	for _, name := range sources {
		enabled, ok := s.Sources[name]
		if !ok {
			enabled = true
		}
		sel[name] = enabled
	}
	s.Advertised = append([]string(nil), sources...)
	s.Sources = sel
	return s
}

// SelectSources enables exactly the named sources. Every name must have been
// advertised and at least one must be given.
func SelectSources(s State, names []string) (State, error) {
	if len(names) == 0 {
		return s, &domain.ValidationError{Message: domain.MsgNoSources}
	}
	sel := make(SourceSelection, len(s.Advertised))
	for _, name := range s.Advertised {
		sel[name] = false
	}
	for _, name := range names {
		if _, ok := sel[name]; !ok {
			return s, domain.NewValidationError("unknown source %q", name)
		}
		sel[name] = true
	}
	s.Sources = sel
	return s, nil
}

func failureFrom(err error) *Failure {
	if err == nil {
		return nil
	}
	kind := domain.ErrorKind(err)
	if kind == "" {
		kind = domain.KindTransport
	}
	return &Failure{Kind: kind, Message: err.Error()}
}
