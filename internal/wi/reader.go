package wi

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/jszwec/csvutil"
)

// OpenExport reads a Wildlife Insights project export zip and decodes its
// four CSV tables. Members are located by case-insensitive substring match
// on filename; the deployments and images members are mandatory, projects
// and cameras may be absent. Initiative exports (more than one images_*.csv
// member, one per bundled project) are rejected.
func OpenExport(zipPath string) (*Export, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open export zip %s: %w", zipPath, err)
	}
	defer zr.Close()

	if n := countImagesMembers(&zr.Reader); n > 1 {
		return nil, fmt.Errorf(
			"export contains %d images_*.csv files: this is an INITIATIVE export, which bundles "+
				"multiple projects and is not supported. Export a single PROJECT from Wildlife Insights "+
				"and retry", n)
	}

	ex := &Export{}

	if f := findMember(&zr.Reader, "projects"); f != nil {
		if err := decodeMember(f, &ex.Projects); err != nil {
			return nil, fmt.Errorf("read projects table: %w", err)
		}
	}
	if f := findMember(&zr.Reader, "cameras"); f != nil {
		if err := decodeMember(f, &ex.Cameras); err != nil {
			return nil, fmt.Errorf("read cameras table: %w", err)
		}
	}

	dep := findMember(&zr.Reader, "deploy")
	if dep == nil {
		return nil, fmt.Errorf("export zip has no deployments CSV (no member matching %q)", "deploy")
	}
	if err := decodeMember(dep, &ex.Deployments); err != nil {
		return nil, fmt.Errorf("read deployments table: %w", err)
	}

	img := findMember(&zr.Reader, "images")
	if img == nil {
		return nil, fmt.Errorf("export zip has no images CSV (no member matching %q)", "images")
	}
	ex.ImagesFile = img.Name
	if err := decodeMember(img, &ex.Images); err != nil {
		return nil, fmt.Errorf("read images table %s: %w", img.Name, err)
	}

	return ex, nil
}

// findMember returns the first CSV member whose name contains sub,
// case-insensitive, or nil.
func findMember(zr *zip.Reader, sub string) *zip.File {
	sub = strings.ToLower(sub)
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if strings.HasSuffix(name, ".csv") && strings.Contains(name, sub) {
			return f
		}
	}
	return nil
}

func countImagesMembers(zr *zip.Reader) int {
	n := 0
	for _, f := range zr.File {
		base := strings.ToLower(path.Base(f.Name))
		if strings.HasPrefix(base, "images_") && strings.HasSuffix(base, ".csv") {
			n++
		}
	}
	return n
}

// decodeMember streams one archive member through csvutil into a slice of
// typed rows. Unknown columns are ignored; absent columns decode to their
// zero values.
func decodeMember(f *zip.File, out any) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open member %s: %w", f.Name, err)
	}
	defer rc.Close()
	return decodeCSV(rc, out)
}

func decodeCSV(r io.Reader, out any) error {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if err == io.EOF {
			return nil // empty member decodes to an empty table
		}
		return fmt.Errorf("csv header: %w", err)
	}
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("csv rows: %w", err)
	}
	return nil
}
