// Package csvexport turns a ResultSet into a CSV document and hands it to a
// host-specific FileSaver.
package csvexport

import (
	"strings"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

const (
	MimeType = "text/csv;charset=utf-8"

	PrefixSingleSource = "linkedin_jobs"
	PrefixMultiSource  = "jobs"
)

// Column names one CSV column and extracts its value from a record
type Column struct {
	Name  string
	Value func(domain.JobRecord) string
}

var (
	colTitle    = Column{Name: "Title", Value: func(j domain.JobRecord) string { return j.Title }}
	colCompany  = Column{Name: "Company", Value: func(j domain.JobRecord) string { return j.Company }}
	colLocation = Column{Name: "Location", Value: func(j domain.JobRecord) string { return j.Location }}
	colPosted   = Column{Name: "Posted", Value: func(j domain.JobRecord) string { return j.Posted }}
	colSource   = Column{Name: "Source", Value: func(j domain.JobRecord) string { return j.Source }}
	colLink     = Column{Name: "Link", Value: domain.JobRecord.LinkOrEmpty}
)

// SingleSourceColumns is the LinkedIn-only layout
func SingleSourceColumns() []Column {
	return []Column{colTitle, colCompany, colLocation, colPosted, colLink}
}

// MultiSourceColumns adds Source between Posted and Link
func MultiSourceColumns() []Column {
	return []Column{colTitle, colCompany, colLocation, colPosted, colSource, colLink}
}

// ColumnsFor picks the layout for mode
func ColumnsFor(mode domain.SourceMode) []Column {
	if mode == domain.MultiSource {
		return MultiSourceColumns()
	}
	return SingleSourceColumns()
}

// PrefixFor picks the filename prefix for mode
func PrefixFor(mode domain.SourceMode) string {
	if mode == domain.MultiSource {
		return PrefixMultiSource
	}
	return PrefixSingleSource
}

// EscapeField doubles embedded quotes and wraps the value in quotes when it
// contains a quote, a comma or a newline.
func EscapeField(v string) string {
	if v == "" {
		return ""
	}
	escaped := strings.ReplaceAll(v, `"`, `""`)
	if strings.ContainsAny(escaped, "\",\n") {
		return `"` + escaped + `"`
	}
	return escaped
}

// ToCSV renders the header and one line per record in ResultSet order.
// Lines end with "\n" and no BOM is written.
func ToCSV(rs domain.ResultSet, cols []Column) string {
	var b strings.Builder

	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.Name)
	}
	b.WriteByte('\n')

	for _, rec := range rs {
		for i, c := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(EscapeField(c.Value(rec)))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// Header returns the column names in order
func Header(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// Filename returns {prefix}_{YYYY-MM-DD}.csv using the UTC date of now
func Filename(prefix string, now time.Time) string {
	return prefix + "_" + now.UTC().Format(time.DateOnly) + ".csv"
}
