package camtrapdp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxReportedIssues caps the validation report. Past ten lines the
// report stops informing and starts scrolling.
const MaxReportedIssues = 10

// Issue is one validation finding. Validation never fails a run: the
// output is already written, findings are advisory.
type Issue struct {
	Resource string
	Type     string
	Field    string
	Row      int
	Note     string
}

func (i Issue) String() string {
	loc := ""
	if i.Field != "" {
		loc = " field=" + i.Field
	}
	if i.Row > 0 {
		loc += fmt.Sprintf(" row=%d", i.Row)
	}
	return fmt.Sprintf("%s: %s%s: %s", i.Resource, i.Type, loc, i.Note)
}

// ValidatePackage checks the aligned tables against their schemas and
// each other: cell types, primary key integrity, and the foreign keys
// tying media and observations back to deployments.
func ValidatePackage(tables map[string]*Table, schemas map[string]*ResourceSchema) []Issue {
	var issues []Issue

	for _, name := range []string{"deployments", "media", "observations"} {
		t, s := tables[name], schemas[name]
		if t == nil || s == nil {
			issues = append(issues, Issue{Resource: name, Type: "missing-resource", Note: "resource not built"})
			continue
		}
		issues = append(issues, validateTypes(t, s)...)
		issues = append(issues, validateDomains(t)...)
		issues = append(issues, validatePrimaryKey(t, s)...)
	}

	issues = append(issues, validateForeignKey(tables, "media", "deploymentID", "deployments", "deploymentID")...)
	issues = append(issues, validateForeignKey(tables, "observations", "deploymentID", "deployments", "deploymentID")...)
	issues = append(issues, validateForeignKey(tables, "observations", "mediaID", "media", "mediaID")...)
	return issues
}

// FormatIssues renders at most MaxReportedIssues lines plus a truncation
// note.
func FormatIssues(issues []Issue) []string {
	lines := make([]string, 0, MaxReportedIssues+1)
	for i, issue := range issues {
		if i == MaxReportedIssues {
			lines = append(lines, fmt.Sprintf("... and %d more issues", len(issues)-MaxReportedIssues))
			break
		}
		lines = append(lines, issue.String())
	}
	return lines
}

func validateTypes(t *Table, s *ResourceSchema) []Issue {
	var issues []Issue
	for _, f := range s.Fields {
		col := t.Column(f.Name)
		if col == nil {
			continue
		}
		for row, v := range col.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if err := checkCell(v, f.Type); err != nil {
				issues = append(issues, Issue{
					Resource: t.Name, Type: "type-error", Field: f.Name, Row: row + 1,
					Note: err.Error(),
				})
			}
		}
	}
	return issues
}

func checkCell(v, typ string) error {
	switch typ {
	case "integer":
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("%q is not an integer", v)
		}
	case "number":
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("%q is not a number", v)
		}
	case "boolean":
		if v != "true" && v != "false" {
			return fmt.Errorf("%q is not true or false", v)
		}
	case "datetime":
		if _, err := time.Parse("2006-01-02T15:04:05Z", v); err != nil {
			return fmt.Errorf("%q is not an ISO 8601 UTC datetime", v)
		}
	}
	return nil
}

// spot checks on fields with a closed vocabulary or a numeric range
var (
	observationTypes = map[string]bool{
		"animal": true, "human": true, "vehicle": true, "blank": true,
		"unknown": true, "unclassified": true,
	}
	observationLevels = map[string]bool{"media": true, "event": true}
)

func validateDomains(t *Table) []Issue {
	var issues []Issue
	checkRange := func(field string, lo, hi float64) {
		col := t.Column(field)
		if col == nil {
			return
		}
		for row, v := range col.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err == nil && (f < lo || f > hi) {
				issues = append(issues, Issue{Resource: t.Name, Type: "out-of-range", Field: field,
					Row: row + 1, Note: fmt.Sprintf("%s outside [%g, %g]", v, lo, hi)})
			}
		}
	}
	checkVocab := func(field string, allowed map[string]bool) {
		col := t.Column(field)
		if col == nil {
			return
		}
		for row, v := range col.Values {
			v = strings.TrimSpace(v)
			if v == "" || allowed[v] {
				continue
			}
			issues = append(issues, Issue{Resource: t.Name, Type: "not-in-vocabulary", Field: field,
				Row: row + 1, Note: fmt.Sprintf("%q is not an accepted value", v)})
		}
	}

	switch t.Name {
	case "deployments":
		checkRange("latitude", -90, 90)
		checkRange("longitude", -180, 180)
	case "observations":
		checkVocab("observationType", observationTypes)
		checkVocab("observationLevel", observationLevels)
	}
	return issues
}

func validatePrimaryKey(t *Table, s *ResourceSchema) []Issue {
	if s.PrimaryKey == "" {
		return nil
	}
	col := t.Column(s.PrimaryKey)
	if col == nil {
		return []Issue{{Resource: t.Name, Type: "missing-primary-key", Field: s.PrimaryKey,
			Note: "primary key column absent"}}
	}
	var issues []Issue
	seen := make(map[string]int, len(col.Values))
	for row, v := range col.Values {
		if strings.TrimSpace(v) == "" {
			issues = append(issues, Issue{Resource: t.Name, Type: "empty-primary-key",
				Field: s.PrimaryKey, Row: row + 1, Note: "primary key is empty"})
			continue
		}
		if prev, dup := seen[v]; dup {
			issues = append(issues, Issue{Resource: t.Name, Type: "duplicate-primary-key",
				Field: s.PrimaryKey, Row: row + 1,
				Note: fmt.Sprintf("%q already used at row %d", v, prev)})
			continue
		}
		seen[v] = row + 1
	}
	return issues
}

func validateForeignKey(tables map[string]*Table, from, fromField, to, toField string) []Issue {
	ft, tt := tables[from], tables[to]
	if ft == nil || tt == nil {
		return nil
	}
	fcol, tcol := ft.Column(fromField), tt.Column(toField)
	if fcol == nil || tcol == nil {
		return nil
	}
	known := make(map[string]bool, len(tcol.Values))
	for _, v := range tcol.Values {
		known[v] = true
	}
	var issues []Issue
	for row, v := range fcol.Values {
		if v == "" || known[v] {
			continue
		}
		issues = append(issues, Issue{Resource: from, Type: "foreign-key", Field: fromField, Row: row + 1,
			Note: fmt.Sprintf("%q not found in %s.%s", v, to, toField)})
	}
	return issues
}
