package camtrapdp

import (
	"strconv"
	"strings"

	"github.com/redotus/camtrapflow/internal/timeutil"
	"github.com/redotus/camtrapflow/internal/wi"
)

// TimezoneByDeployment builds the deployment_id -> IANA zone join used
// before any timestamp conversion. Deployments without their own zone
// inherit the run's hint.
func TimezoneByDeployment(deployments []wi.Deployment, defaultTZ string) map[string]string {
	m := make(map[string]string, len(deployments))
	for _, d := range deployments {
		tz := strings.TrimSpace(d.Timezone)
		if tz == "" {
			tz = defaultTZ
		}
		m[d.DeploymentID] = tz
	}
	return m
}

// sanitizeCoordinate parses a coordinate and nulls anything outside
// [-limit, limit]. Out-of-range values are nulled rather than clamped so
// the completeness check treats them exactly like missing ones.
func sanitizeCoordinate(raw string, limit float64) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < -limit || f > limit {
		return ""
	}
	return s
}

// BuildDeployments constructs the deployments table from the WI
// deployments rows, joining cameras for the model column. The returned
// table satisfies the Camtrap-DP required-field contract or an error is
// returned and nothing is written.
func BuildDeployments(ex *wi.Export, tzByDep map[string]string) (*Table, error) {
	n := len(ex.Deployments)
	t := NewTable("deployments")

	ids := make([]string, n)
	lats := make([]string, n)
	lons := make([]string, n)
	starts := make([]string, n)
	ends := make([]string, n)

	locationNames := make([]string, n)
	locationIDs := make([]string, n)
	cameraIDs := make([]string, n)
	cameraModels := make([]string, n)
	cameraHeights := make([]string, n)
	cameraTilts := make([]string, n)
	timestampIssues := make([]string, n)
	baitUses := make([]string, n)
	featureTypes := make([]string, n)
	habitats := make([]string, n)
	setupBys := make([]string, n)
	tags := make([]string, n)
	comments := make([]string, n)

	camByID := make(map[string]wi.Camera, len(ex.Cameras))
	for _, c := range ex.Cameras {
		camByID[c.CameraID] = c
	}

	anyFunctioning := false
	anyBait := false

	for i, d := range ex.Deployments {
		tz := tzByDep[d.DeploymentID]

		ids[i] = strings.TrimSpace(d.DeploymentID)
		lats[i] = sanitizeCoordinate(d.Latitude, 90)
		lons[i] = sanitizeCoordinate(d.Longitude, 180)
		starts[i], _ = timeutil.ToISOUTC(d.StartDate, tz)
		ends[i], _ = timeutil.ToISOUTC(d.EndDate, tz)

		locationNames[i] = strings.TrimSpace(d.Placename)
		locationIDs[i] = LocationID(d.Placename)
		cameraIDs[i] = strings.TrimSpace(d.CameraID)
		if cam, ok := camByID[d.CameraID]; ok {
			cameraModels[i] = strings.Trim(cam.Vendor()+"-"+cam.Model, "-")
		}
		cameraHeights[i] = CameraHeight(d.SensorHeight, d.HeightOther)
		cameraTilts[i] = CameraTilt(d.SensorOrientation)

		if strings.TrimSpace(d.CameraFunctioning) != "" {
			anyFunctioning = true
		}
		timestampIssues[i] = TimestampIssue(d.CameraFunctioning)

		if strings.TrimSpace(d.BaitType) != "" {
			anyBait = true
		}
		baitUses[i] = BaitUse(d.BaitType)
		if baitUses[i] == "true" {
			bait := strings.TrimSpace(d.BaitDescription)
			if bait == "" {
				bait = strings.TrimSpace(d.BaitType)
			}
			tags[i] = appendTag(tags[i], "bait:"+bait)
		}
		if s := strings.TrimSpace(d.Subproject); s != "" {
			tags[i] = appendTag(tags[i], "subproject:"+s)
		}

		featureTypes[i] = FeatureType(d.FeatureType)
		habitats[i] = strings.TrimSpace(d.Habitat)
		setupBys[i] = strings.TrimSpace(d.RecordedBy)
		comments[i] = strings.TrimSpace(d.Remarks)
	}

	if err := t.AddColumn("deploymentID", TypeString, ids); err != nil {
		return nil, err
	}
	if err := t.AddColumn("latitude", TypeNumber, lats); err != nil {
		return nil, err
	}
	if err := t.AddColumn("longitude", TypeNumber, lons); err != nil {
		return nil, err
	}
	if err := t.AddColumn("deploymentStart", TypeDatetime, starts); err != nil {
		return nil, err
	}
	if err := t.AddColumn("deploymentEnd", TypeDatetime, ends); err != nil {
		return nil, err
	}

	t.Include(OptionalColumn("locationID", TypeString, locationIDs))
	t.Include(OptionalColumn("locationName", TypeString, locationNames))
	t.Include(OptionalColumn("setupBy", TypeString, setupBys))
	t.Include(OptionalColumn("cameraID", TypeString, cameraIDs))
	t.Include(OptionalColumn("cameraModel", TypeString, cameraModels))
	t.Include(OptionalColumn("cameraHeight", TypeNumber, cameraHeights))
	t.Include(OptionalColumn("cameraTilt", TypeNumber, cameraTilts))
	if anyFunctioning {
		t.Include(OptionalColumn("timestampIssues", TypeBoolean, timestampIssues))
	}
	if anyBait {
		t.Include(OptionalColumn("baitUse", TypeBoolean, baitUses))
	}
	t.Include(OptionalColumn("featureType", TypeString, featureTypes))
	t.Include(OptionalColumn("habitat", TypeString, habitats))
	t.Include(OptionalColumn("deploymentTags", TypeString, tags))
	t.Include(OptionalColumn("deploymentComments", TypeString, comments))

	if err := t.RequireComplete(map[string]string{
		"deploymentID": "Assign a deployment_id to every row of deployments.csv in Wildlife Insights and re-export",
		"latitude": "Fill in decimal latitudes between -90 and 90 for every deployment and re-export " +
			"(out-of-range coordinates count as missing)",
		"longitude": "Fill in decimal longitudes between -180 and 180 for every deployment and re-export " +
			"(out-of-range coordinates count as missing)",
		"deploymentStart": "Fill in a valid start_date (YYYY-MM-DD HH:MM:SS) for every deployment and re-export",
		"deploymentEnd": "Fill in a valid end_date for every deployment (assign an estimated end for still-active " +
			"deployments) and re-export",
	}); err != nil {
		return nil, err
	}

	return t, nil
}

func appendTag(existing, tag string) string {
	if existing == "" {
		return tag
	}
	return existing + " | " + tag
}
