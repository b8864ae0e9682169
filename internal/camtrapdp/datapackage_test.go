package camtrapdp

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redotus/camtrapflow/internal/wi"
)

func builtTables(t *testing.T) (map[string]*Table, map[string]*ResourceSchema) {
	t.Helper()
	ex := fixtureExport()
	tz := TimezoneByDeployment(ex.Deployments, "UTC")

	deployments, err := BuildDeployments(ex, tz)
	require.NoError(t, err)
	rows := AssignMediaRows(ex.Images, tz, "UTC")
	media, err := BuildMedia(rows, "activityDetection")
	require.NoError(t, err)
	observations, err := BuildObservations(rows, tz, "UTC")
	require.NoError(t, err)

	tables := map[string]*Table{
		"deployments":  deployments,
		"media":        media,
		"observations": observations,
	}
	schemas := make(map[string]*ResourceSchema, 3)
	for name, tb := range tables {
		s, err := LoadSchema(name)
		require.NoError(t, err)
		schemas[name] = s
		tables[name] = s.Align(tb)
	}
	return tables, schemas
}

func TestBuildDataPackage(t *testing.T) {
	ex := fixtureExport()
	tables, schemas := builtTables(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	dp := BuildDataPackage(ex, tables, schemas, "America/Bogota", now)

	assert.Equal(t, CamtrapDPProfile, dp.Profile)
	assert.Equal(t, "sierra-monitoring-2024", dp.Name)
	assert.Equal(t, "2024-06-01T12:00:00Z", dp.Created)
	_, err := uuid.Parse(dp.ID)
	assert.NoError(t, err)

	require.Len(t, dp.Contributors, 1)
	c := dp.Contributors[0]
	assert.Equal(t, "María García", c.Title)
	assert.Equal(t, "María", c.FirstName)
	assert.Equal(t, "García", c.LastName)
	assert.Equal(t, "contact", c.Role)

	require.NotNil(t, dp.Project)
	assert.Equal(t, "systematicRandom", dp.Project.SamplingDesign)
	assert.Equal(t, []string{"media"}, dp.Project.ObservationLevel)
	assert.Equal(t, []string{"Image"}, dp.Project.CaptureMethod)
	assert.Equal(t, "America/Bogota", dp.Extras["timezone_hint"])

	require.Len(t, dp.Licenses, 2)
	assert.Equal(t, License{Name: "CC-BY-4.0", Scope: "data"}, dp.Licenses[0])
	assert.Equal(t, License{Name: "CC0-1.0", Scope: "media"}, dp.Licenses[1])

	require.NotNil(t, dp.Temporal)
	assert.Equal(t, "2024-01-15", dp.Temporal.Start)
	assert.Equal(t, "2024-01-16", dp.Temporal.End)

	require.Len(t, dp.Resources, 3)
	assert.Equal(t, "deployments", dp.Resources[0].Name)
	assert.Equal(t, "deployments.csv", dp.Resources[0].Path)
	assert.Equal(t, "text/csv", dp.Resources[0].Mediatype)
	// resource schema fields mirror the written CSV exactly
	assert.Len(t, dp.Resources[1].Schema.Fields, len(tables["media"].Columns))
}

func TestBuildDataPackageNoProjectRow(t *testing.T) {
	ex := fixtureExport()
	ex.Projects = nil
	tables, schemas := builtTables(t)

	dp := BuildDataPackage(ex, tables, schemas, "UTC", time.Now())

	assert.Equal(t, "wi-project", dp.Name) // slug fallback
	require.Len(t, dp.Contributors, 1)
	assert.Equal(t, "Unknown", dp.Contributors[0].Title)
	assert.Empty(t, dp.BibliographicCitation)
	// missing licenses default rather than vanish
	assert.Equal(t, "CC-BY-4.0", dp.Licenses[0].Name)
}

func TestCaptureMethods(t *testing.T) {
	assert.Equal(t, []string{"Image"}, captureMethods(wi.Project{SensorMethod: "Image"}))
	assert.Equal(t, []string{"Image", "Grid"},
		captureMethods(wi.Project{SensorMethod: "Image", SensorLayout: "Grid"}))
	assert.Equal(t, []string{"Image"},
		captureMethods(wi.Project{SensorMethod: "Image", SensorLayout: "Image"}))
	assert.Equal(t, []string{"activityDetection"}, captureMethods(wi.Project{}))
}

func TestSplitPersonName(t *testing.T) {
	first, last := splitPersonName("Ana María Díaz Vargas")
	assert.Equal(t, "Ana", first)
	assert.Equal(t, "María Díaz Vargas", last)

	first, last = splitPersonName("Cher")
	assert.Equal(t, "", first)
	assert.Equal(t, "Cher", last)

	first, last = splitPersonName("  ")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
