package camtrapdp

import (
	"archive/zip"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkDirFor(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 15, 0, time.UTC)
	assert.Equal(t, "WI2CamtrapDP_llanos_export_20240601_093015",
		WorkDirFor("/data/in/llanos_export.zip", now))
	assert.Equal(t, "WI2CamtrapDP_export_20240601_093015", WorkDirFor("export.zip", now))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tb := NewTable("media")
	require.NoError(t, tb.AddColumn("mediaID", TypeString, []string{"m1", "m2"}))
	require.NoError(t, tb.AddColumn("fileName", TypeString, []string{`with,comma`, `with "quotes"`}))

	require.NoError(t, WriteCSV(dir, tb))

	f, err := os.Open(filepath.Join(dir, "media.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"mediaID", "fileName"}, records[0])
	assert.Equal(t, []string{"m1", "with,comma"}, records[1])
	assert.Equal(t, []string{"m2", `with "quotes"`}, records[2])
}

func TestMakeResultZipStoresMembersUnderOutput(t *testing.T) {
	work := t.TempDir()
	out := filepath.Join(work, "output")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "media.csv"), []byte("mediaID\n"), 0o644))

	zp, err := MakeResultZip(work, out, "bundle.zip")
	require.NoError(t, err)

	zr, err := zip.OpenReader(zp)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "output/media.csv", zr.File[0].Name)
}

func TestCheckArtifacts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.csv"), []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0o644))

	assert.NoError(t, CheckArtifacts(dir, []string{"ok.csv"}))

	err := CheckArtifacts(dir, []string{"ok.csv", "empty.csv", "absent.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty.csv")
	assert.Contains(t, err.Error(), "absent.csv")
	assert.False(t, strings.Contains(err.Error(), "ok.csv,"))
}

func TestEnsureWorkDir(t *testing.T) {
	base := t.TempDir()
	out, err := EnsureWorkDir(base, "WI2CamtrapDP_x_20240601_093015")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "WI2CamtrapDP_x_20240601_093015", "output"), out)
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
