package camtrapdp

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/redotus/camtrapflow/internal/textnorm"
)

// Field mapping rules. Each rule is a pure function from a raw WI value
// (plus, sometimes, a companion field) to a Camtrap-DP value. Rules never
// fail: unusable input degrades to the empty string, which the table
// layer treats as null.

var mediatypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
}

// ExtToMediaType maps a filename extension to its MIME type.
// Unrecognized extensions get the generic binary type.
func ExtToMediaType(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndex(lower, "."); i >= 0 {
		if mt, ok := mediatypes[lower[i+1:]]; ok {
			return mt
		}
	}
	return "application/octet-stream"
}

// CaptureMethodFromText infers a Camtrap-DP captureMethod from free text.
// The PIR motion sensor is the default for camera traps.
func CaptureMethodFromText(txt string) string {
	s := strings.ToLower(txt)
	if strings.Contains(s, "manual") || strings.Contains(s, "bait") || strings.Contains(s, "lure") {
		return "manual"
	}
	if strings.Contains(s, "time") && strings.Contains(s, "lapse") {
		return "timeLapse"
	}
	return "activityDetection"
}

// MapSensorMethod is the vocabulary-controlled mapping for the declared
// project_sensor_method field, feeding the manifest's observationLevel.
func MapSensorMethod(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image":
		return "media"
	case "sequence":
		return "event"
	case "":
		return "media"
	default:
		return strings.TrimSpace(s)
	}
}

var samplingDesigns = map[string]string{
	"simple random":     "simpleRandom",
	"systematic":        "systematicRandom",
	"systematic random": "systematicRandom",
	"clustered":         "clusteredRandom",
	"clustered random":  "clusteredRandom",
	"experimental":      "experimental",
	"targeted":          "targeted",
	"opportunistic":     "opportunistic",
}

// MapSamplingDesign maps WI sampling design labels to the Camtrap-DP
// samplingDesign vocabulary; unrecognized input maps to empty.
func MapSamplingDesign(s string) string {
	return samplingDesigns[strings.ToLower(strings.TrimSpace(s))]
}

var firstInt = regexp.MustCompile(`\d+`)

// CameraHeight maps the WI sensor_height category to centimeters.
// "Other" falls back to the first integer found in the free-text
// height_other companion; anything else degrades to empty.
func CameraHeight(sensorHeight, heightOther string) string {
	switch strings.ToLower(strings.TrimSpace(sensorHeight)) {
	case "chest height":
		return "100"
	case "knee height":
		return "50"
	case "other":
		if m := firstInt.FindString(heightOther); m != "" {
			return m
		}
		return ""
	default:
		return ""
	}
}

// CameraTilt maps the WI sensor_orientation category to degrees.
// Unknown categories pass through a numeric coercion and, failing that,
// are handed on as-is.
func CameraTilt(orientation string) string {
	s := strings.TrimSpace(orientation)
	switch strings.ToLower(s) {
	case "parallel":
		return "0"
	case "pointed downward":
		return "-10"
	case "", "unknown":
		return ""
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s
	}
	return s
}

// BaitUse derives the Camtrap-DP baitUse boolean from the WI bait_type
// text. "None"-like values mean unbaited; any other non-empty text means
// baited (the description itself is preserved as a deployment tag by the
// builder, not here).
func BaitUse(baitType string) string {
	s := strings.ToLower(strings.TrimSpace(baitType))
	switch s {
	case "", "none", "no", "n/a", "na", "n.a.":
		return "false"
	default:
		return "true"
	}
}

var featureTypes = map[string]string{
	"road paved":         "roadPaved",
	"road - paved":       "roadPaved",
	"road dirt":          "roadDirt",
	"road - dirt":        "roadDirt",
	"trail hiking":       "trailHiking",
	"hiking trail":       "trailHiking",
	"trail game":         "trailGame",
	"game trail":         "trailGame",
	"road underpass":     "roadUnderpass",
	"road overpass":      "roadOverpass",
	"road bridge":        "roadBridge",
	"culvert":            "culvert",
	"burrow":             "burrow",
	"nest site":          "nestSite",
	"carcass":            "carcass",
	"water source":       "waterSource",
	"fruiting tree":      "fruitingTree",
	"none":               "none",
	// already-canonical values pass through
	"roadpaved":     "roadPaved",
	"roaddirt":      "roadDirt",
	"trailhiking":   "trailHiking",
	"trailgame":     "trailGame",
	"roadunderpass": "roadUnderpass",
	"roadoverpass":  "roadOverpass",
	"roadbridge":    "roadBridge",
	"nestsite":      "nestSite",
	"watersource":   "waterSource",
	"fruitingtree":  "fruitingTree",
}

// FeatureType validates the WI feature_type against the Camtrap-DP enum,
// resolving common synonyms. Values outside the enum map to empty rather
// than leaking an invalid enum member downstream.
func FeatureType(s string) string {
	return featureTypes[strings.ToLower(strings.TrimSpace(s))]
}

var timestampIssueKeywords = []string{
	"timestamp", "time stamp", "date/time", "datetime", "clock", "timezone", "time zone", "wrong time",
}

// TimestampIssue reports whether the camera_functioning text names an
// explicit clock/timestamp problem. General malfunction text (battery,
// vandalism, memory card) must not trip this flag; false is the
// deliberate default because WI has no reliable upstream signal.
func TimestampIssue(functioning string) string {
	s := strings.ToLower(functioning)
	for _, kw := range timestampIssueKeywords {
		if strings.Contains(s, kw) {
			return "true"
		}
	}
	return "false"
}

var bboxArray = regexp.MustCompile(`\[\s*([0-9.eE+-]+)\s*,\s*([0-9.eE+-]+)\s*,\s*([0-9.eE+-]+)\s*,\s*([0-9.eE+-]+)\s*\]`)

// BBox extracts the first [xmin,ymin,xmax,ymax] array embedded in the WI
// bounding_boxes fragment (a doubly-quoted JSON-like blob) and converts it
// to Camtrap-DP (x, y, width, height) in normalized [0,1] coordinates.
// Any parse failure or out-of-range value yields four empty strings.
func BBox(fragment string) (x, y, w, h string) {
	m := bboxArray.FindStringSubmatch(fragment)
	if m == nil {
		return "", "", "", ""
	}
	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return "", "", "", ""
		}
		vals[i] = f
	}
	xmin, ymin, xmax, ymax := vals[0], vals[1], vals[2], vals[3]
	if xmin < 0 || ymin < 0 || xmax > 1 || ymax > 1 || xmax <= xmin || ymax <= ymin {
		return "", "", "", ""
	}
	return formatFloat(xmin), formatFloat(ymin), formatFloat(xmax - xmin), formatFloat(ymax - ymin)
}

// formatFloat rounds to ten decimal places first: subtracting decimal
// box corners leaves binary noise (0.6-0.2 is 0.39999999999999997).
func formatFloat(f float64) string {
	f = math.Round(f*1e10) / 1e10
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ClassificationProbability normalizes a confidence value to [0,1].
// Percentages in (1,100] are scaled down; negative or >100 input is
// rejected as empty.
func ClassificationProbability(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return ""
	}
	if f < 0 || f > 100 {
		return ""
	}
	if f > 1 {
		f /= 100
	}
	return formatFloat(f)
}

var licenseSynonyms = map[string]string{
	"cc-by":         "CC-BY-4.0",
	"cc by":         "CC-BY-4.0",
	"cc-by-nc":      "CC-BY-NC-4.0",
	"cc-by-sa":      "CC-BY-SA-4.0",
	"cc-by-nc-sa":   "CC-BY-NC-SA-4.0",
	"cc0":           "CC0-1.0",
	"public domain": "CC0-1.0",
}

// NormalizeLicense maps short license codes to full SPDX identifiers.
// Empty or unrecognized-but-empty-ish input defaults to CC-BY-4.0;
// an unrecognized non-empty value passes through untouched.
func NormalizeLicense(s string) string {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, "nan") || strings.EqualFold(v, "none") {
		return "CC-BY-4.0"
	}
	if full, ok := licenseSynonyms[strings.ToLower(v)]; ok {
		return full
	}
	return v
}

// LocationID derives a stable location identifier from a placename:
// "loc-" plus a slug, capped at 64 characters. Empty placenames yield
// empty.
func LocationID(placename string) string {
	p := strings.TrimSpace(placename)
	if p == "" {
		return ""
	}
	id := "loc-" + textnorm.Slugify(p)
	if len(id) > 64 {
		id = id[:64]
	}
	return id
}

// ParseBool relaxes WI's assorted truthy spellings to a CSV boolean.
func ParseBool(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "t":
		return "true"
	case "false", "0", "no", "n", "f":
		return "false"
	default:
		return ""
	}
}
