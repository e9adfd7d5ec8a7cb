package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source identifiers known to the backend
const (
	SourceLinkedIn = "linkedin"
)

// Job type filters understood by the backend. JobTypeAll means no filter.
const (
	JobTypeAll        = "all"
	JobTypeInternship = "internship"
	JobTypeFullTime   = "fulltime"
	JobTypeContract   = "contract"
)

// JobTypes lists the accepted job type values in display order
var JobTypes = []string{JobTypeAll, JobTypeInternship, JobTypeFullTime, JobTypeContract}

// SourceMode selects between the LinkedIn-only client and the multi-source client
type SourceMode string

const (
	SingleSource SourceMode = "single"
	MultiSource  SourceMode = "multi"
)

// JobRecord is one listing as returned by the backend
type JobRecord struct {
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Location string  `json:"location"`
	Posted   string  `json:"posted"`
	Source   string  `json:"source,omitempty"`
	Link     *string `json:"link,omitempty"`
}

// LinkOrEmpty returns the canonical URL or "" when the record has none
func (j JobRecord) LinkOrEmpty() string {
	if j.Link == nil {
		return ""
	}
	return *j.Link
}

// NoLinkLabel is shown in place of a missing link
const NoLinkLabel = "No link"

// DisplayLink returns the URL, or NoLinkLabel when the record has none
func (j JobRecord) DisplayLink() string {
	if !j.HasLink() {
		return NoLinkLabel
	}
	return *j.Link
}

// HasLink reports whether the record carries a non-empty URL
func (j JobRecord) HasLink() bool {
	return j.Link != nil && *j.Link != ""
}

// ResultSet is the ordered result of one query, kept exactly as received
type ResultSet []JobRecord

// Len returns the number of records
func (rs ResultSet) Len() int {
	return len(rs)
}

// Query is a search request as entered by the user
type Query struct {
	Text     string   `json:"text"`
	Location string   `json:"location,omitempty"`
	JobType  string   `json:"job_type,omitempty"`
	Sources  []string `json:"sources,omitempty"`
}

// ScrapeRequest is a validated query ready to be sent to the backend.
// Empty Location and JobType mean the field is omitted.
type ScrapeRequest struct {
	Text     string
	Location string
	JobType  string
	Sources  []string
}

// ScrapeResult is the backend's answer to a scrape request
type ScrapeResult struct {
	Success bool
	Records ResultSet
	Error   string
}

// ArchivedQuery is a completed query together with what it returned
type ArchivedQuery struct {
	ID          uuid.UUID
	SessionID   string
	Query       ScrapeRequest
	Records     ResultSet
	CompletedAt time.Time
}

// QuerySummary describes a past query for history listings
type QuerySummary struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Location    string    `json:"location,omitempty"`
	JobType     string    `json:"job_type,omitempty"`
	Sources     []string  `json:"sources"`
	ResultCount int       `json:"result_count"`
	CompletedAt time.Time `json:"completed_at"`
}

// IsKnownJobType reports whether v is one of JobTypes (case-insensitive)
func IsKnownJobType(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, t := range JobTypes {
		if t == v {
			return true
		}
	}
	return false
}
