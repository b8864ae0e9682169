package camtrapdp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redotus/camtrapflow/internal/wi"
)

func TestCheckTaxonomyCompletePasses(t *testing.T) {
	images := []wi.Image{
		{CommonName: "Jaguar", Genus: "Panthera", Species: "onca"},
		{CommonName: "Blank"},
		{}, // fully empty taxonomy is allowed; only the sentinel gates
	}
	assert.NoError(t, CheckTaxonomyComplete(images, "images_1.csv"))
}

func TestCheckTaxonomyCompleteFails(t *testing.T) {
	images := []wi.Image{
		{Filename: "IMG_0001.JPG", CommonName: "No CV Result"},
		{Filename: "IMG_0002.JPG", Genus: "no cv result", Species: "No CV Result"},
		{Filename: "IMG_0003.JPG", CommonName: "Jaguar", Genus: "Panthera", Species: "onca"},
	}
	err := CheckTaxonomyComplete(images, "images_1.csv")
	require.Error(t, err)

	var gateErr *TaxonomyGateError
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, 3, gateErr.Total) // one common_name hit plus two on row 2
	assert.Equal(t, "images_1.csv", gateErr.ImagesFile)
	assert.Len(t, gateErr.ByField["common_name"], 1)
	assert.Len(t, gateErr.ByField["genus"], 1)
	assert.Equal(t, 2, gateErr.ByField["genus"][0].Row)

	msg := err.Error()
	assert.Contains(t, msg, "No CV Result")
	assert.Contains(t, msg, "IMG_0001.JPG")
	assert.Contains(t, msg, "re-export")
}

func TestCheckTaxonomyCompleteCapsExamples(t *testing.T) {
	var images []wi.Image
	for i := 0; i < 50; i++ {
		images = append(images, wi.Image{
			Filename:   fmt.Sprintf("IMG_%04d.JPG", i),
			CommonName: "No CV Result",
		})
	}
	err := CheckTaxonomyComplete(images, "images_1.csv")
	require.Error(t, err)

	var gateErr *TaxonomyGateError
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, 50, gateErr.Total)
	assert.Contains(t, err.Error(), "and more")
	// the report stays short even with 50 hits
	assert.Less(t, len(err.Error()), 800)
}

func TestCheckTaxonomyCompleteMissingFilename(t *testing.T) {
	err := CheckTaxonomyComplete([]wi.Image{{CommonName: "No CV Result"}}, "images_1.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "N/A")
}
