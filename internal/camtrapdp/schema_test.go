package camtrapdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchema(t *testing.T) {
	for _, name := range []string{"deployments", "media", "observations"} {
		s, err := LoadSchema(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name)
		assert.NotEmpty(t, s.Fields)
		assert.NotEmpty(t, s.PrimaryKey)
	}

	_, err := LoadSchema("nonsense")
	assert.Error(t, err)
}

func TestAlignReordersToSchemaOrder(t *testing.T) {
	s, err := LoadSchema("media")
	require.NoError(t, err)

	// columns added in builder order, not schema order
	tb := NewTable("media")
	require.NoError(t, tb.AddColumn("timestamp", TypeDatetime, []string{"2024-01-15T10:30:00Z"}))
	require.NoError(t, tb.AddColumn("mediaID", TypeString, []string{"m1"}))
	require.NoError(t, tb.AddColumn("deploymentID", TypeString, []string{"d1"}))
	require.NoError(t, tb.AddColumn("filePath", TypeString, []string{"gs://b/x.jpg"}))

	aligned := s.Align(tb)
	want := []string{
		"mediaID", "deploymentID", "captureMethod", "timestamp", "filePath",
		"filePublic", "fileName", "fileMediatype", "exifData", "favorite",
		"mediaComments",
	}
	assert.Equal(t, want, aligned.Header())
	assert.Equal(t, 1, aligned.Len())
	// fields the builder never produced come back all-null
	assert.Equal(t, []string{""}, aligned.Column("mediaComments").Values)
	assert.Equal(t, "m1", aligned.Column("mediaID").Values[0])
	// input untouched
	assert.Equal(t, "timestamp", tb.Header()[0])
}

func TestAlignDropsUndeclaredColumns(t *testing.T) {
	s, err := LoadSchema("media")
	require.NoError(t, err)

	tb := NewTable("media")
	require.NoError(t, tb.AddColumn("mediaID", TypeString, []string{"m1"}))
	require.NoError(t, tb.AddColumn("customField", TypeString, []string{"7"}))

	aligned := s.Align(tb)
	assert.Nil(t, aligned.Column("customField"))
	assert.Len(t, aligned.Columns, len(s.Fields))

	fields := s.FieldsFor(aligned)
	require.Len(t, fields, len(s.Fields))
	assert.Equal(t, "mediaID", fields[0].Name)
}

func TestInferSchema(t *testing.T) {
	tb := NewTable("extras")
	require.NoError(t, tb.AddColumn("id", TypeString, []string{"a", "b"}))
	require.NoError(t, tb.AddColumn("count", TypeString, []string{"1", "2"}))

	s := InferSchema(tb)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "string", s.Fields[0].Type)
	assert.Equal(t, "integer", s.Fields[1].Type)
	assert.Equal(t, tb.Header(), s.Align(tb).Header())
}

func TestInferType(t *testing.T) {
	tests := []struct {
		values []string
		want   FieldType
	}{
		{[]string{"1", "42", ""}, TypeInteger},
		{[]string{"1.5", "2"}, TypeNumber},
		{[]string{"true", "false", ""}, TypeBoolean},
		{[]string{"2024-01-15T10:30:00Z"}, TypeDatetime},
		{[]string{"abc", "1"}, TypeString},
		{[]string{"", ""}, TypeString},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferType(tt.values), "%v", tt.values)
	}
}
