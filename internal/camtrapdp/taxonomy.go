package camtrapdp

import (
	"strings"

	"github.com/redotus/camtrapflow/internal/wi"
)

// Observation types of the Camtrap-DP vocabulary.
const (
	ObsAnimal       = "animal"
	ObsHuman        = "human"
	ObsBlank        = "blank"
	ObsVehicle      = "vehicle"
	ObsUnknown      = "unknown"
	ObsUnclassified = "unclassified"
)

// ScientificNameNorm builds the "Genus species" composite: genus
// capitalized, species lowercased. Either part may be absent.
func ScientificNameNorm(genus, species string) string {
	g := strings.TrimSpace(genus)
	if g != "" {
		g = strings.ToUpper(g[:1]) + strings.ToLower(g[1:])
	}
	s := strings.ToLower(strings.TrimSpace(species))
	return strings.TrimSpace(g + " " + s)
}

// Classify resolves observationType and scientificName for one image row.
//
// Sentinel common names (human, blank, animal, vehicle, unknown,
// unclassified) short-circuit the taxonomy. Otherwise the scientific name
// comes from a strict cascade over taxonomic ranks only. A common name is
// never used as a scientific name; it is carried in vernacularName
// instead. Downstream publication workflows depend on both the precedence
// and the exact sentinel strings.
func Classify(img wi.Image) (obsType, scientificName string) {
	common := strings.ToLower(strings.TrimSpace(img.CommonName))
	sciNorm := ScientificNameNorm(img.Genus, img.Species)

	switch common {
	case "human", "human-camera trapper":
		if sciNorm != "" {
			return ObsHuman, sciNorm
		}
		return ObsHuman, "Homo sapiens"
	case "blank":
		return ObsBlank, "blank"
	case "animal":
		return ObsAnimal, "Animalia"
	case "vehicle":
		return ObsVehicle, "blank"
	case "unknown":
		return ObsUnknown, "blank"
	case "unclassified":
		return ObsUnclassified, "blank"
	}

	// Rank cascade: binomial, then genus, family, order, class.
	if strings.Contains(sciNorm, " ") {
		return ObsAnimal, sciNorm
	}
	for _, rank := range []string{sciNorm, clean(img.Family), clean(img.Order), clean(img.Class)} {
		if rank != "" {
			return ObsAnimal, rank
		}
	}
	return ObsAnimal, "Animalia"
}

func clean(s string) string {
	t := strings.TrimSpace(s)
	if strings.EqualFold(t, "nan") || strings.EqualFold(t, "none") {
		return ""
	}
	return t
}
