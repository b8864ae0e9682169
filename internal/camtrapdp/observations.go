package camtrapdp

import (
	"strings"

	"github.com/redotus/camtrapflow/internal/timeutil"
)

// BuildObservations derives the observations table from the prepared
// media rows, one media-level observation per image. Event bounds fall
// back to the image timestamp when WI start/end times are absent.
func BuildObservations(rows []MediaRow, tzByDep map[string]string, defaultTZ string) (*Table, error) {
	n := len(rows)
	t := NewTable("observations")

	ids := make([]string, n)
	depIDs := make([]string, n)
	mediaIDs := make([]string, n)
	eventStarts := make([]string, n)
	eventEnds := make([]string, n)
	levels := make([]string, n)
	obsTypes := make([]string, n)
	sciNames := make([]string, n)

	counts := make([]string, n)
	lifeStages := make([]string, n)
	sexes := make([]string, n)
	behaviors := make([]string, n)
	classifiedBys := make([]string, n)
	probabilities := make([]string, n)
	bboxX := make([]string, n)
	bboxY := make([]string, n)
	bboxW := make([]string, n)
	bboxH := make([]string, n)
	vernaculars := make([]string, n)

	for i, r := range rows {
		img := r.Image
		tz, ok := tzByDep[img.DeploymentID]
		if !ok {
			tz = defaultTZ
		}

		ids[i] = "obs_" + r.MediaID
		depIDs[i] = strings.TrimSpace(img.DeploymentID)
		mediaIDs[i] = r.MediaID

		if start, ok := timeutil.ToISOUTC(img.StartTime, tz); ok {
			eventStarts[i] = start
		} else {
			eventStarts[i] = r.Timestamp
		}
		if end, ok := timeutil.ToISOUTC(img.EndTime, tz); ok {
			eventEnds[i] = end
		} else {
			eventEnds[i] = r.Timestamp
		}

		levels[i] = "media"
		obsTypes[i], sciNames[i] = Classify(img)

		counts[i] = strings.TrimSpace(img.NumberOfObjects)
		lifeStages[i] = strings.ToLower(strings.TrimSpace(img.Age))
		sexes[i] = strings.ToLower(strings.TrimSpace(img.Sex))
		behaviors[i] = strings.TrimSpace(img.Behavior)
		classifiedBys[i] = strings.TrimSpace(img.IdentifiedBy)
		probabilities[i] = ClassificationProbability(img.CVConfidence)
		bboxX[i], bboxY[i], bboxW[i], bboxH[i] = BBox(img.BoundingBoxes)
		if cn := strings.TrimSpace(img.CommonName); cn != "" && obsTypes[i] == ObsAnimal {
			vernaculars[i] = cn
		}
	}

	if err := t.AddColumn("observationID", TypeString, ids); err != nil {
		return nil, err
	}
	if err := t.AddColumn("deploymentID", TypeString, depIDs); err != nil {
		return nil, err
	}
	if err := t.AddColumn("mediaID", TypeString, mediaIDs); err != nil {
		return nil, err
	}
	if err := t.AddColumn("eventStart", TypeDatetime, eventStarts); err != nil {
		return nil, err
	}
	if err := t.AddColumn("eventEnd", TypeDatetime, eventEnds); err != nil {
		return nil, err
	}
	if err := t.AddColumn("observationLevel", TypeString, levels); err != nil {
		return nil, err
	}
	if err := t.AddColumn("observationType", TypeString, obsTypes); err != nil {
		return nil, err
	}
	if err := t.AddColumn("scientificName", TypeString, sciNames); err != nil {
		return nil, err
	}

	t.Include(OptionalColumn("count", TypeInteger, counts))
	t.Include(OptionalColumn("lifeStage", TypeString, lifeStages))
	t.Include(OptionalColumn("sex", TypeString, sexes))
	t.Include(OptionalColumn("behavior", TypeString, behaviors))
	t.Include(OptionalColumn("classifiedBy", TypeString, classifiedBys))
	t.Include(OptionalColumn("classificationProbability", TypeNumber, probabilities))
	t.Include(OptionalColumn("bboxX", TypeNumber, bboxX))
	t.Include(OptionalColumn("bboxY", TypeNumber, bboxY))
	t.Include(OptionalColumn("bboxWidth", TypeNumber, bboxW))
	t.Include(OptionalColumn("bboxHeight", TypeNumber, bboxH))
	t.Include(OptionalColumn("vernacularName", TypeString, vernaculars))

	if err := t.RequireComplete(map[string]string{
		"observationID":    "Assign an image_id to every row of the images CSV and re-export",
		"deploymentID":     "Assign a deployment_id to every row of the images CSV and re-export",
		"mediaID":          "Assign an image_id to every row of the images CSV and re-export",
		"eventStart":       "Fill in a valid timestamp for every image and re-export",
		"eventEnd":         "Fill in a valid timestamp for every image and re-export",
		"observationLevel": "Report this as a converter bug: observationLevel is a constant",
		"observationType":  "Fill in class/genus/species or a sentinel common_name for every image and re-export",
		"scientificName":   "Fill in class/genus/species or a sentinel common_name for every image and re-export",
	}); err != nil {
		return nil, err
	}
	if err := t.CheckUnique("observationID"); err != nil {
		return nil, err
	}
	return t, nil
}
