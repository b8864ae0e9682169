package camtrapdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableColumns(t *testing.T) {
	tb := NewTable("deployments")
	require.NoError(t, tb.AddColumn("deploymentID", TypeString, []string{"d1", "d2"}))
	require.NoError(t, tb.AddColumn("latitude", TypeNumber, []string{"4.5", "-1.2"}))

	assert.Equal(t, 2, tb.Len())
	assert.Equal(t, []string{"deploymentID", "latitude"}, tb.Header())
	assert.Equal(t, []string{"d2", "-1.2"}, tb.Row(1))
	assert.True(t, tb.HasColumn("latitude"))
	assert.False(t, tb.HasColumn("longitude"))
}

func TestTableRejectsLengthMismatch(t *testing.T) {
	tb := NewTable("media")
	require.NoError(t, tb.AddColumn("mediaID", TypeString, []string{"a", "b"}))
	assert.Error(t, tb.AddColumn("timestamp", TypeDatetime, []string{"only one"}))
}

func TestOptionalColumn(t *testing.T) {
	res := OptionalColumn("habitat", TypeString, []string{"", "  ", ""})
	assert.Nil(t, res.Column)
	assert.Equal(t, SkipAllEmpty, res.Skip)

	res = OptionalColumn("habitat", TypeString, []string{"", "forest", ""})
	require.NotNil(t, res.Column)
	assert.Equal(t, SkipNone, res.Skip)

	tb := NewTable("deployments")
	require.NoError(t, tb.AddColumn("deploymentID", TypeString, []string{"d1", "d2", "d3"}))
	assert.True(t, tb.Include(res))
	assert.False(t, tb.Include(SkippedColumn(SkipNoSource)))
	assert.Equal(t, []string{"deploymentID", "habitat"}, tb.Header())
}

func TestRequireComplete(t *testing.T) {
	tb := NewTable("deployments")
	require.NoError(t, tb.AddColumn("deploymentID", TypeString, []string{"d1", "", "d3"}))
	require.NoError(t, tb.AddColumn("latitude", TypeNumber, []string{"4.5", "5.0", ""}))

	err := tb.RequireComplete(map[string]string{
		"deploymentID": "fill in deployment ids",
		"latitude":     "fill in latitudes",
	})
	require.Error(t, err)

	var ce *CompletenessError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "deploymentID", ce.Field)
	assert.Equal(t, 1, ce.Missing)
	assert.Equal(t, 3, ce.Total)
	msg := err.Error()
	assert.Contains(t, msg, "deploymentID")
	assert.Contains(t, msg, "fill in deployment ids")
}

func TestRequireCompleteMissingColumn(t *testing.T) {
	tb := NewTable("media")
	require.NoError(t, tb.AddColumn("mediaID", TypeString, []string{"m1"}))
	err := tb.RequireComplete(map[string]string{"timestamp": "fill in timestamps"})
	assert.Error(t, err)
}

func TestCheckUnique(t *testing.T) {
	tb := NewTable("media")
	require.NoError(t, tb.AddColumn("mediaID", TypeString, []string{"m1", "m2", "m1"}))
	err := tb.CheckUnique("mediaID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m1")

	tb2 := NewTable("media")
	require.NoError(t, tb2.AddColumn("mediaID", TypeString, []string{"m1", "m2"}))
	assert.NoError(t, tb2.CheckUnique("mediaID"))
}
