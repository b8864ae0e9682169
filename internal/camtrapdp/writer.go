package camtrapdp

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WorkDirFor returns the run directory name for an input archive:
// WI2CamtrapDP_<input stem>_<YYYYMMDD_HHMMSS>. A fresh timestamp per run
// keeps reruns from clobbering earlier output.
func WorkDirFor(zipPath string, now time.Time) string {
	stem := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
	return fmt.Sprintf("WI2CamtrapDP_%s_%s", stem, now.Format("20060102_150405"))
}

// EnsureWorkDir creates <base>/<workdir>/output and returns the output
// directory path.
func EnsureWorkDir(base, workDir string) (string, error) {
	out := filepath.Join(base, workDir, "output")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return out, nil
}

// WriteCSV writes a table as <dir>/<table name>.csv with a header row.
func WriteCSV(dir string, t *Table) error {
	path := filepath.Join(dir, t.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", t.Name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header()); err != nil {
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	for i := 0; i < t.Len(); i++ {
		if err := w.Write(t.Row(i)); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.Name, i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", t.Name, err)
	}
	return f.Close()
}

// WriteJSON writes v as pretty-printed JSON at <dir>/<name>.
func WriteJSON(dir, name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// CheckArtifacts verifies that every named artifact exists in dir and is
// non-empty. Run after the write phase so a partial crash cannot pass
// for success.
func CheckArtifacts(dir string, names []string) error {
	var missing []string
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.Size() == 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("output incomplete, missing or empty: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MakeResultZip bundles the output directory into <workPath>/<zipName>,
// storing members under output/ so the archive unpacks to the same
// layout as the run directory.
func MakeResultZip(workPath, outDir, zipName string) (string, error) {
	zipPath := filepath.Join(workPath, zipName)
	f, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("create result zip: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	err = filepath.Walk(outDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create("output/" + filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		return "", fmt.Errorf("bundle result zip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize result zip: %w", err)
	}
	return zipPath, f.Close()
}
