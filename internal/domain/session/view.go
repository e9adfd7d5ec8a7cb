package session

import (
	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/pagination"
)

// View is what a front end renders for a State. It is derived on every call.
type View struct {
	SessionID    string            `json:"session_id"`
	Query        domain.Query      `json:"query"`
	Items        domain.ResultSet  `json:"items"`
	Total        int               `json:"total"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	TotalPages   int               `json:"total_pages"`
	DisplayTotal int               `json:"display_total"`
	Window       []pagination.Item `json:"window"`
	HasPrevious  bool              `json:"has_previous"`
	HasNext      bool              `json:"has_next"`
	Loading      bool              `json:"loading"`
	NoResults    bool              `json:"no_results"`
	Error        *Failure          `json:"error,omitempty"`
}

// Render derives the visible page and page-number control from s
func Render(s State) View {
	size := s.Pagination.PageSize
	total := pagination.TotalPages(len(s.Results), size)
	current := max(s.Pagination.CurrentPage, 1)

	return View{
		SessionID:    s.ID,
		Query:        s.Query,
		Items:        pagination.VisibleItems(s.Results, current, size),
		Total:        len(s.Results),
		Page:         current,
		PageSize:     size,
		TotalPages:   total,
		DisplayTotal: pagination.DisplayTotal(total),
		Window:       pagination.PageWindow(current, total, pagination.DefaultWindowSize),
		HasPrevious:  pagination.HasPrevious(current),
		HasNext:      pagination.HasNext(current, total),
		Loading:      s.Loading,
		NoResults:    !s.Loading && s.Searched && s.Error == nil && len(s.Results) == 0 && s.Query.Text != "",
		Error:        s.Error,
	}
}
