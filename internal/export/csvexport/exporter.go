package csvexport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// ErrNothingToExport is returned for an empty ResultSet
var ErrNothingToExport = errors.New("csvexport: no results to export")

// FileSaver delivers a finished file to wherever the host keeps downloads
type FileSaver interface {
	Save(ctx context.Context, data []byte, filename, mimeType string) (string, error)
}

// Result describes a finished export
type Result struct {
	Filename string `json:"filename"`
	Location string `json:"location,omitempty"`
	Rows     int    `json:"rows"`
	Content  string `json:"content"`
}

// Exporter builds the CSV for a ResultSet and saves it
type Exporter struct {
	saver   FileSaver
	columns []Column
	prefix  string
	clock   func() time.Time
}

// Option configures Exporter
type Option func(*Exporter)

// WithClock sets the clock used for the filename date
func WithClock(clock func() time.Time) Option {
	return func(e *Exporter) {
		e.clock = clock
	}
}

// WithColumns overrides the column layout
func WithColumns(cols []Column) Option {
	return func(e *Exporter) {
		e.columns = cols
	}
}

// NewExporter builds an Exporter for mode that saves through saver
func NewExporter(saver FileSaver, mode domain.SourceMode, opts ...Option) (*Exporter, error) {
	if saver == nil {
		return nil, fmt.Errorf("csvexport: file saver is required")
	}
	e := &Exporter{
		saver:   saver,
		columns: ColumnsFor(mode),
		prefix:  PrefixFor(mode),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Columns returns the layout used by the exporter
func (e *Exporter) Columns() []Column {
	return e.columns
}

// Export writes the full ResultSet, not only the visible page
func (e *Exporter) Export(ctx context.Context, rs domain.ResultSet) (Result, error) {
	if len(rs) == 0 {
		return Result{}, ErrNothingToExport
	}

	content := ToCSV(rs, e.columns)
	res := Result{
		Filename: Filename(e.prefix, e.clock()),
		Rows:     len(rs),
		Content:  content,
	}

	loc, err := e.saver.Save(ctx, []byte(content), res.Filename, MimeType)
	if err != nil {
		return res, fmt.Errorf("csvexport: save %s: %w", res.Filename, err)
	}
	res.Location = loc

	return res, nil
}

// DirSaver writes files into a local directory
type DirSaver struct {
	Dir string
}

// maxNameAttempts bounds the " (n)" suffixes tried for a taken filename
const maxNameAttempts = 1000

// Save writes data to Dir/filename, creating Dir if needed. An existing file
// is never overwritten: the name gets a " (1)", " (2)", ... suffix instead.
func (s DirSaver) Save(_ context.Context, data []byte, filename, _ string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := range maxNameAttempts {
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		path := filepath.Join(s.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return path, nil
	}

	return "", fmt.Errorf("csvexport: no free filename for %s in %s", base, s.Dir)
}
