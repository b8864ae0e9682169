package camtrapdp

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redotus/camtrapflow/internal/textnorm"
	"github.com/redotus/camtrapflow/internal/timeutil"
	"github.com/redotus/camtrapflow/internal/wi"
)

// CamtrapDPProfile identifies the Camtrap-DP release the output targets.
const CamtrapDPProfile = "https://raw.githubusercontent.com/tdwg/camtrap-dp/1.0.2/camtrap-dp-profile.json"

// Contributor is one datapackage.json contributors entry.
type Contributor struct {
	Title        string `json:"title"`
	Email        string `json:"email,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
}

// License is one datapackage.json licenses entry.
type License struct {
	Name  string `json:"name"`
	Scope string `json:"scope"`
}

// ProjectInfo is the Camtrap-DP project block.
type ProjectInfo struct {
	ID                string   `json:"id,omitempty"`
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	SamplingDesign    string   `json:"samplingDesign"`
	CaptureMethod     []string `json:"captureMethod"`
	IndividualAnimals bool     `json:"individualAnimals"`
	ObservationLevel  []string `json:"observationLevel"`
}

// Resource describes one CSV resource of the package.
type Resource struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Profile   string          `json:"profile"`
	Format    string          `json:"format"`
	Mediatype string          `json:"mediatype"`
	Encoding  string          `json:"encoding"`
	Schema    *ResourceSchema `json:"schema"`
}

// Temporal is the package's observation date range.
type Temporal struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DataPackage is the datapackage.json document.
type DataPackage struct {
	Profile               string         `json:"profile"`
	Name                  string         `json:"name"`
	ID                    string         `json:"id"`
	Created               string         `json:"created"`
	Title                 string         `json:"title,omitempty"`
	Description           string         `json:"description,omitempty"`
	Contributors          []Contributor  `json:"contributors"`
	Project               *ProjectInfo   `json:"project"`
	BibliographicCitation string         `json:"bibliographicCitation,omitempty"`
	Licenses              []License      `json:"licenses"`
	Temporal              *Temporal      `json:"temporal,omitempty"`
	Resources             []Resource     `json:"resources"`
	Extras                map[string]any `json:"extras,omitempty"`
}

// captureMethods builds the manifest captureMethod list from the declared
// sensor method and layout, deduplicated, with the camera-trap default
// when the project declares neither.
func captureMethods(p wi.Project) []string {
	var methods []string
	if m := strings.TrimSpace(p.SensorMethod); m != "" {
		methods = append(methods, m)
	}
	if l := strings.TrimSpace(p.SensorLayout); l != "" && (len(methods) == 0 || methods[0] != l) {
		methods = append(methods, l)
	}
	if len(methods) == 0 {
		methods = []string{"activityDetection"}
	}
	return methods
}

// splitPersonName splits a display name on whitespace into first and
// last parts. A single token becomes the last name.
func splitPersonName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// BuildDataPackage assembles the manifest from WI project metadata and
// the aligned tables. now is injected so runs are reproducible in tests.
func BuildDataPackage(ex *wi.Export, tables map[string]*Table, schemas map[string]*ResourceSchema, tzHint string, now time.Time) *DataPackage {
	p := ex.Project0()

	name := textnorm.Slugify(p.Name)
	title := textnorm.CleanText(p.Name)

	var contributors []Contributor
	if admin := textnorm.CleanText(p.Admin); admin != "" {
		first, last := splitPersonName(admin)
		contributors = append(contributors, Contributor{
			Title:        admin,
			Email:        strings.TrimSpace(p.AdminEmail),
			Organization: textnorm.CleanText(p.AdminOrganization),
			Role:         "contact",
			FirstName:    first,
			LastName:     last,
		})
	}
	if len(contributors) == 0 {
		contributors = append(contributors, Contributor{Title: "Unknown", Role: "contact"})
	}

	var citation string
	if title != "" {
		citation = fmt.Sprintf("%s. Camera trap data from Wildlife Insights project %s (%d).",
			contributors[0].Title, title, now.Year())
	}

	dp := &DataPackage{
		Profile:      CamtrapDPProfile,
		Name:         name,
		ID:           uuid.NewString(),
		Created:      now.UTC().Format(timeutil.ISOFormat),
		Title:        title,
		Description:  textnorm.CleanText(p.Objectives),
		Contributors: contributors,
		Project: &ProjectInfo{
			ID:                strings.TrimSpace(p.ProjectID),
			Title:             title,
			Description:       textnorm.CleanText(p.Objectives),
			SamplingDesign:    MapSamplingDesign(p.SamplingDesign),
			CaptureMethod:     captureMethods(p),
			IndividualAnimals: strings.EqualFold(strings.TrimSpace(p.IndividualAnimals), "yes"),
			ObservationLevel:  []string{MapSensorMethod(p.SensorMethod)},
		},
		BibliographicCitation: citation,
		Licenses: []License{
			{Name: NormalizeLicense(p.MetadataLicense), Scope: "data"},
			{Name: NormalizeLicense(p.ImageLicense), Scope: "media"},
		},
		Temporal: temporalRange(tables["media"]),
		Extras: map[string]any{
			"timezone_hint": tzHint,
		},
	}

	for _, resource := range []string{"deployments", "media", "observations"} {
		t := tables[resource]
		s := schemas[resource]
		dp.Resources = append(dp.Resources, Resource{
			Name:      resource,
			Path:      resource + ".csv",
			Profile:   "tabular-data-resource",
			Format:    "csv",
			Mediatype: "text/csv",
			Encoding:  "utf-8",
			Schema: &ResourceSchema{
				Name:       s.Name,
				PrimaryKey: s.PrimaryKey,
				Fields:     s.FieldsFor(t),
			},
		})
	}
	return dp
}

// temporalRange scans media timestamps for the min and max. Nil when the
// table has no parseable timestamps.
func temporalRange(media *Table) *Temporal {
	if media == nil {
		return nil
	}
	col := media.Column("timestamp")
	if col == nil {
		return nil
	}
	var min, max string
	for _, v := range col.Values {
		if v == "" {
			continue
		}
		if min == "" || v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == "" {
		return nil
	}
	return &Temporal{Start: min[:10], End: max[:10]}
}
