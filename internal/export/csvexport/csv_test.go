package csvexport_test

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/export/csvexport"
)

func strPtr(s string) *string { return &s }

func TestEscapeField(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"has space", "has space"},
		{`Engineer, Sr."`, `"Engineer, Sr."""`},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line1\nline2", "\"line1\nline2\""},
		{`"`, `""""`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, csvexport.EscapeField(tc.in), "in=%q", tc.in)
	}
}

func TestToCSV_SingleSourceLayout(t *testing.T) {
	rs := domain.ResultSet{
		{Title: "Go Developer", Company: "Acme", Location: "Berlin", Posted: "2 days ago", Source: "linkedin", Link: strPtr("https://example.com/1")},
		{Title: "Engineer, Sr.", Company: "Initech", Location: "Austin, TX", Posted: "1 week ago"},
	}

	got := csvexport.ToCSV(rs, csvexport.SingleSourceColumns())

	want := "Title,Company,Location,Posted,Link\n" +
		"Go Developer,Acme,Berlin,2 days ago,https://example.com/1\n" +
		"\"Engineer, Sr.\",Initech,\"Austin, TX\",1 week ago,\n"
	assert.Equal(t, want, got)
}

func TestToCSV_MultiSourceInsertsSourceBeforeLink(t *testing.T) {
	rs := domain.ResultSet{
		{Title: "SRE", Company: "Globex", Location: "Remote", Posted: "today", Source: "indeed", Link: strPtr("https://example.com/2")},
	}

	got := csvexport.ToCSV(rs, csvexport.MultiSourceColumns())

	assert.Equal(t, "Title,Company,Location,Posted,Source,Link\nSRE,Globex,Remote,today,indeed,https://example.com/2\n", got)
}

func TestToCSV_EmptyResultSetIsHeaderOnly(t *testing.T) {
	assert.Equal(t, "Title,Company,Location,Posted,Link\n", csvexport.ToCSV(nil, csvexport.SingleSourceColumns()))
}

func TestToCSV_NoCRLFNoBOM(t *testing.T) {
	got := csvexport.ToCSV(domain.ResultSet{{Title: "a"}}, csvexport.SingleSourceColumns())

	assert.NotContains(t, got, "\r")
	assert.False(t, strings.HasPrefix(got, "\ufeff"))
}

func TestToCSV_RoundTripsThroughStandardParser(t *testing.T) {
	tricky := []string{
		`Engineer, Sr."`,
		"multi\nline",
		`"quoted"`,
		`a,"b",c`,
		"plain",
		"",
		"trailing,",
	}

	rs := make(domain.ResultSet, 0, len(tricky))
	for _, v := range tricky {
		rs = append(rs, domain.JobRecord{Title: v, Company: v, Location: v, Posted: v, Source: v, Link: strPtr(v)})
	}

	out := csvexport.ToCSV(rs, csvexport.MultiSourceColumns())
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(tricky)+1)

	assert.Equal(t, []string{"Title", "Company", "Location", "Posted", "Source", "Link"}, rows[0])
	for i, v := range tricky {
		for _, field := range rows[i+1] {
			assert.Equal(t, v, field)
		}
	}
}

func TestToCSV_PreservesOrder(t *testing.T) {
	rs := domain.ResultSet{{Title: "z"}, {Title: "a"}, {Title: "m"}}

	rows, err := csv.NewReader(strings.NewReader(csvexport.ToCSV(rs, csvexport.SingleSourceColumns()))).ReadAll()

	require.NoError(t, err)
	assert.Equal(t, "z", rows[1][0])
	assert.Equal(t, "a", rows[2][0])
	assert.Equal(t, "m", rows[3][0])
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))

	assert.Equal(t, "linkedin_jobs_2025-03-10.csv", csvexport.Filename(csvexport.PrefixSingleSource, now))
	assert.Equal(t, "jobs_2025-03-10.csv", csvexport.Filename(csvexport.PrefixMultiSource, now))
}

type recordingSaver struct {
	data     []byte
	filename string
	mime     string
	err      error
}

func (s *recordingSaver) Save(_ context.Context, data []byte, filename, mimeType string) (string, error) {
	s.data, s.filename, s.mime = data, filename, mimeType
	if s.err != nil {
		return "", s.err
	}
	return "memory://" + filename, nil
}

func fixedClock() time.Time {
	return time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
}

func TestExporter_ExportsFullResultSet(t *testing.T) {
	saver := &recordingSaver{}
	exp, err := csvexport.NewExporter(saver, domain.MultiSource, csvexport.WithClock(fixedClock))
	require.NoError(t, err)

	rs := make(domain.ResultSet, 37)
	for i := range rs {
		rs[i] = domain.JobRecord{Title: "t", Source: "indeed"}
	}

	res, err := exp.Export(context.Background(), rs)

	require.NoError(t, err)
	assert.Equal(t, "jobs_2025-01-02.csv", res.Filename)
	assert.Equal(t, 37, res.Rows)
	assert.Equal(t, "memory://jobs_2025-01-02.csv", res.Location)
	assert.Equal(t, csvexport.MimeType, saver.mime)
	assert.Equal(t, res.Content, string(saver.data))
	assert.Equal(t, 38, strings.Count(res.Content, "\n"))
}

func TestExporter_EmptyResultSet(t *testing.T) {
	saver := &recordingSaver{}
	exp, err := csvexport.NewExporter(saver, domain.SingleSource)
	require.NoError(t, err)

	_, err = exp.Export(context.Background(), domain.ResultSet{})

	assert.ErrorIs(t, err, csvexport.ErrNothingToExport)
	assert.Nil(t, saver.data, "saver must not be called")
}

func TestExporter_SaverFailure(t *testing.T) {
	boom := errors.New("blocked by host")
	exp, err := csvexport.NewExporter(&recordingSaver{err: boom}, domain.SingleSource, csvexport.WithClock(fixedClock))
	require.NoError(t, err)

	res, err := exp.Export(context.Background(), domain.ResultSet{{Title: "x"}})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "linkedin_jobs_2025-01-02.csv", res.Filename)
}

func TestNewExporter_RequiresSaver(t *testing.T) {
	_, err := csvexport.NewExporter(nil, domain.SingleSource)
	assert.Error(t, err)
}

func TestDirSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	saver := csvexport.DirSaver{Dir: dir}

	path, err := saver.Save(context.Background(), []byte("a,b\n"), "../jobs_2025-01-02.csv", csvexport.MimeType)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jobs_2025-01-02.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestDirSaver_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	saver := csvexport.DirSaver{Dir: dir}
	ctx := context.Background()

	first, err := saver.Save(ctx, []byte("first\n"), "jobs_2025-01-02.csv", csvexport.MimeType)
	require.NoError(t, err)
	second, err := saver.Save(ctx, []byte("second\n"), "jobs_2025-01-02.csv", csvexport.MimeType)
	require.NoError(t, err)
	third, err := saver.Save(ctx, []byte("third\n"), "jobs_2025-01-02.csv", csvexport.MimeType)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "jobs_2025-01-02.csv"), first)
	assert.Equal(t, filepath.Join(dir, "jobs_2025-01-02 (1).csv"), second)
	assert.Equal(t, filepath.Join(dir, "jobs_2025-01-02 (2).csv"), third)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
	data, err = os.ReadFile(third)
	require.NoError(t, err)
	assert.Equal(t, "third\n", string(data))
}
