package camtrapdp

import (
	"fmt"
	"strings"

	"github.com/redotus/camtrapflow/internal/wi"
)

// noCVSentinel is what Wildlife Insights writes into taxonomic fields
// when computer-vision identification never ran or was never reviewed.
const noCVSentinel = "no cv result"

// maxGateExamples caps how many offending rows are enumerated per field.
const maxGateExamples = 8

// gateFields are the taxonomic fields scanned by the completeness gate,
// in report order.
var gateFields = []string{"common_name", "genus", "species", "family", "order"}

// TaxonomyGateError is the fatal precondition raised when any image row
// still carries the "No CV Result" sentinel: the upstream identification
// work is incomplete and converting would publish bad taxonomy. The whole
// run aborts; there is no per-row quarantine.
type TaxonomyGateError struct {
	ImagesFile string
	Total      int
	ByField    map[string][]GateExample
}

// GateExample points at one offending source row.
type GateExample struct {
	Row      int // 1-indexed data row
	Filename string
}

func (e *TaxonomyGateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "taxonomy validation failed: %d records in %s carry 'No CV Result', "+
		"meaning identifications are incomplete in Wildlife Insights.\n", e.Total, e.ImagesFile)
	for _, field := range gateFields {
		examples := e.ByField[field]
		if len(examples) == 0 {
			continue
		}
		fmt.Fprintf(&b, "field %q:\n", field)
		for i, ex := range examples {
			if i == maxGateExamples {
				fmt.Fprintf(&b, "  ... and more\n")
				break
			}
			fmt.Fprintf(&b, "  row %d: %s\n", ex.Row, ex.Filename)
		}
	}
	b.WriteString("Complete the identifications in Wildlife Insights, re-export the project, and retry.")
	return b.String()
}

// CheckTaxonomyComplete scans the images table for the sentinel and
// returns a TaxonomyGateError enumerating every hit, or nil.
func CheckTaxonomyComplete(images []wi.Image, imagesFile string) error {
	byField := make(map[string][]GateExample)
	total := 0

	for i, img := range images {
		values := map[string]string{
			"common_name": img.CommonName,
			"genus":       img.Genus,
			"species":     img.Species,
			"family":      img.Family,
			"order":       img.Order,
		}
		for _, field := range gateFields {
			if strings.ToLower(strings.TrimSpace(values[field])) == noCVSentinel {
				total++
				if len(byField[field]) <= maxGateExamples {
					name := img.Filename
					if name == "" {
						name = "N/A"
					}
					byField[field] = append(byField[field], GateExample{Row: i + 1, Filename: name})
				}
			}
		}
	}

	if total == 0 {
		return nil
	}
	return &TaxonomyGateError{ImagesFile: imagesFile, Total: total, ByField: byField}
}
