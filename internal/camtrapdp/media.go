package camtrapdp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/redotus/camtrapflow/internal/timeutil"
	"github.com/redotus/camtrapflow/internal/wi"
)

// MediaRow is one image after timestamp normalization and media-ID
// assignment. The observations builder consumes the same rows so the two
// tables agree on ordering and identifiers.
type MediaRow struct {
	Image     wi.Image
	MediaID   string
	Timestamp string
}

// AssignMediaRows sorts the images deterministically, normalizes their
// timestamps through the per-deployment timezone join and assigns unique
// media IDs. Duplicate image_id values get _01, _02... suffixes in sort
// order; rows without an image_id get a positional m<NNNNNN> identifier.
func AssignMediaRows(images []wi.Image, tzByDep map[string]string, defaultTZ string) []MediaRow {
	rows := make([]MediaRow, len(images))
	for i, img := range images {
		tz, ok := tzByDep[img.DeploymentID]
		if !ok {
			tz = defaultTZ
		}
		ts, _ := timeutil.ToISOUTC(img.Timestamp, tz)
		rows[i] = MediaRow{Image: img, Timestamp: ts}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Image.ImageID != b.Image.ImageID {
			return a.Image.ImageID < b.Image.ImageID
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		if a.Image.Filename != b.Image.Filename {
			return a.Image.Filename < b.Image.Filename
		}
		return a.Image.DeploymentID < b.Image.DeploymentID
	})

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		if id := strings.TrimSpace(r.Image.ImageID); id != "" {
			counts[id]++
		}
	}

	seen := make(map[string]int, len(counts))
	for i := range rows {
		id := strings.TrimSpace(rows[i].Image.ImageID)
		switch {
		case id == "":
			rows[i].MediaID = fmt.Sprintf("m%06d", i+1)
		case counts[id] > 1:
			seen[id]++
			rows[i].MediaID = fmt.Sprintf("%s_%02d", id, seen[id])
		default:
			rows[i].MediaID = id
		}
	}
	return rows
}

// BuildMedia constructs the media table from prepared rows. captureMethod
// is the project-level method applied to every row.
func BuildMedia(rows []MediaRow, captureMethod string) (*Table, error) {
	n := len(rows)
	t := NewTable("media")

	ids := make([]string, n)
	depIDs := make([]string, n)
	timestamps := make([]string, n)
	filePaths := make([]string, n)
	filePublics := make([]string, n)
	fileNames := make([]string, n)
	mediatypes := make([]string, n)
	favorites := make([]string, n)
	methods := make([]string, n)

	for i, r := range rows {
		img := r.Image
		ids[i] = r.MediaID
		depIDs[i] = strings.TrimSpace(img.DeploymentID)
		timestamps[i] = r.Timestamp
		filePaths[i] = strings.TrimSpace(img.Location)
		filePublics[i] = "false"
		fileNames[i] = strings.TrimSpace(img.Filename)
		mediatypes[i] = ExtToMediaType(img.Filename)
		favorites[i] = ParseBool(img.Highlighted)
		methods[i] = captureMethod
	}

	if err := t.AddColumn("mediaID", TypeString, ids); err != nil {
		return nil, err
	}
	if err := t.AddColumn("deploymentID", TypeString, depIDs); err != nil {
		return nil, err
	}
	if err := t.AddColumn("timestamp", TypeDatetime, timestamps); err != nil {
		return nil, err
	}
	if err := t.AddColumn("filePath", TypeString, filePaths); err != nil {
		return nil, err
	}
	if err := t.AddColumn("filePublic", TypeBoolean, filePublics); err != nil {
		return nil, err
	}
	if err := t.AddColumn("fileMediatype", TypeString, mediatypes); err != nil {
		return nil, err
	}
	t.Include(OptionalColumn("captureMethod", TypeString, methods))
	t.Include(OptionalColumn("fileName", TypeString, fileNames))
	t.Include(OptionalColumn("favorite", TypeBoolean, favorites))

	if err := t.RequireComplete(map[string]string{
		"mediaID":      "Assign an image_id to every row of the images CSV in Wildlife Insights and re-export",
		"deploymentID": "Assign a deployment_id to every row of the images CSV and re-export",
		"timestamp": "Fill in a valid timestamp (YYYY-MM-DD HH:MM:SS) for every image and re-export; " +
			"check the deployment timezone if values look parseable",
		"filePath":      "Fill in the location (download URL or relative path) for every image and re-export",
		"filePublic":    "Report this as a converter bug: filePublic is a constant",
		"fileMediatype": "Report this as a converter bug: every filename maps to a media type",
	}); err != nil {
		return nil, err
	}
	if err := t.CheckUnique("mediaID"); err != nil {
		return nil, err
	}
	return t, nil
}
