package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

type fakeValues struct {
	cleared  []string
	updated  string
	values   [][]interface{}
	clearErr error
}

func (f *fakeValues) ClearValues(_ context.Context, _ string, range_ string) error {
	f.cleared = append(f.cleared, range_)
	return f.clearErr
}

func (f *fakeValues) UpdateValues(_ context.Context, _ string, range_ string, values [][]interface{}) error {
	f.updated = range_
	f.values = values
	return nil
}

func TestExport_WritesHeaderAndRows(t *testing.T) {
	link := "https://example.com/1"
	client := &fakeValues{}
	exp, err := NewExporter(client, domain.MultiSource)
	require.NoError(t, err)

	res, err := exp.Export(context.Background(), Target{SpreadsheetID: "sheet-id", Tab: "Jobs"}, domain.ResultSet{
		{Title: "Go Dev", Company: "Acme", Location: "Berlin", Posted: "today", Source: "linkedin", Link: &link},
		{Title: "SRE, Sr.", Company: "Globex", Location: "Remote", Posted: "1d", Source: "indeed"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.WrittenRows)
	assert.Equal(t, "Jobs", res.Tab)
	assert.Equal(t, []string{"Jobs!A:Z"}, client.cleared)
	assert.Equal(t, "Jobs!A1", client.updated)
	require.Len(t, client.values, 3)
	assert.Equal(t, []interface{}{"Title", "Company", "Location", "Posted", "Source", "Link"}, client.values[0])
	assert.Equal(t, []interface{}{"SRE, Sr.", "Globex", "Remote", "1d", "indeed", ""}, client.values[2])
}

func TestExport_DefaultTabAndEmptyResultSet(t *testing.T) {
	client := &fakeValues{}
	exp, err := NewExporter(client, domain.SingleSource)
	require.NoError(t, err)

	res, err := exp.Export(context.Background(), Target{SpreadsheetID: "sheet-id"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Sheet1", res.Tab)
	assert.Zero(t, res.WrittenRows)
	assert.Empty(t, client.cleared, "nothing is touched for an empty result set")
}

func TestExport_RequiresSpreadsheetID(t *testing.T) {
	exp, err := NewExporter(&fakeValues{}, domain.SingleSource)
	require.NoError(t, err)

	_, err = exp.Export(context.Background(), Target{}, domain.ResultSet{{Title: "x"}})

	assert.Error(t, err)
}

func TestExport_ClearFailure(t *testing.T) {
	boom := errors.New("permission denied")
	exp, err := NewExporter(&fakeValues{clearErr: boom}, domain.SingleSource)
	require.NoError(t, err)

	_, err = exp.Export(context.Background(), Target{SpreadsheetID: "id"}, domain.ResultSet{{Title: "x"}})

	assert.ErrorIs(t, err, boom)
}
