package camtrapdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePackageClean(t *testing.T) {
	tables, schemas := builtTables(t)
	assert.Empty(t, ValidatePackage(tables, schemas))
}

func TestValidatePackageFindsTypeErrors(t *testing.T) {
	tables, schemas := builtTables(t)
	tables["deployments"].Column("latitude").Values[0] = "north-ish"

	issues := ValidatePackage(tables, schemas)
	require.NotEmpty(t, issues)
	assert.Equal(t, "type-error", issues[0].Type)
	assert.Equal(t, "latitude", issues[0].Field)
	assert.Equal(t, 1, issues[0].Row)
	assert.Contains(t, issues[0].String(), "deployments")
}

func TestValidatePackageFindsDomainViolations(t *testing.T) {
	tables, schemas := builtTables(t)
	tables["deployments"].Column("latitude").Values[0] = "123.4"
	tables["observations"].Column("observationType").Values[0] = "ghost"

	issues := ValidatePackage(tables, schemas)
	types := make(map[string]bool)
	for _, i := range issues {
		types[i.Type] = true
	}
	assert.True(t, types["out-of-range"])
	assert.True(t, types["not-in-vocabulary"])
}

func TestValidatePackageFindsBrokenForeignKey(t *testing.T) {
	tables, schemas := builtTables(t)
	tables["media"].Column("deploymentID").Values[0] = "dep-missing"

	issues := ValidatePackage(tables, schemas)
	var fk []Issue
	for _, i := range issues {
		if i.Type == "foreign-key" {
			fk = append(fk, i)
		}
	}
	require.NotEmpty(t, fk)
	assert.Equal(t, "media", fk[0].Resource)
	assert.Contains(t, fk[0].Note, "dep-missing")
}

func TestValidatePackageFindsDuplicatePK(t *testing.T) {
	tables, schemas := builtTables(t)
	ids := tables["observations"].Column("observationID").Values
	ids[1] = ids[0]

	issues := ValidatePackage(tables, schemas)
	found := false
	for _, i := range issues {
		if i.Type == "duplicate-primary-key" && i.Resource == "observations" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFormatIssuesCaps(t *testing.T) {
	var issues []Issue
	for i := 0; i < 25; i++ {
		issues = append(issues, Issue{Resource: "media", Type: "type-error", Row: i + 1, Note: "bad"})
	}
	lines := FormatIssues(issues)
	require.Len(t, lines, MaxReportedIssues+1)
	assert.Contains(t, lines[MaxReportedIssues], "15 more issues")

	assert.Len(t, FormatIssues(issues[:3]), 3)
	assert.Empty(t, FormatIssues(nil))
}
