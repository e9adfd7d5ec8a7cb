package backend

import (
	"fmt"
	"net/http"
	"time"
)

// Config defines job backend client settings
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the scraping backend's JSON API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ScrapeRequest is the body of POST /jobs/scrape. Empty Location and JobType
// are omitted from the payload.
type ScrapeRequest struct {
	SearchQuery string   `json:"searchQuery"`
	Location    string   `json:"location,omitempty"`
	JobType     string   `json:"jobType,omitempty"`
	Sources     []string `json:"sources"`
}

// Job is one listing on the wire
type Job struct {
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Location string  `json:"location"`
	Posted   string  `json:"posted"`
	Source   string  `json:"source"`
	Link     *string `json:"link"`
}

// ScrapeResponse is the body returned by POST /jobs/scrape
type ScrapeResponse struct {
	Success bool   `json:"success"`
	Data    []Job  `json:"data"`
	Error   string `json:"error"`
}

// SourcesResponse is the body returned by GET /jobs/sources
type SourcesResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
	Error   string   `json:"error"`
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: API error (%d): %s", e.StatusCode, e.Body)
}
