// Package wi models a Wildlife Insights project export: a zip archive of
// four CSV tables (projects, cameras, deployments, images).
package wi

// Project is one row of projects.csv. WI project exports carry zero or
// one row; initiative exports are rejected at read time.
type Project struct {
	ProjectID         string `csv:"project_id"`
	Name              string `csv:"project_name"`
	ShortName         string `csv:"project_short_name"`
	Objectives        string `csv:"project_objectives"`
	Type              string `csv:"project_type"`
	Admin             string `csv:"project_admin"`
	AdminEmail        string `csv:"project_admin_email"`
	AdminOrganization string `csv:"project_admin_organization"`
	CountryCode       string `csv:"country_code"`
	SensorLayout      string `csv:"project_sensor_layout"`
	SensorMethod      string `csv:"project_sensor_method"`
	SamplingDesign    string `csv:"project_sampling_design"`
	BaitUse           string `csv:"project_bait_use"`
	BaitType          string `csv:"project_bait_type"`
	IndividualAnimals string `csv:"project_individual_animals"`
	BlanksRemoved     string `csv:"project_blank_images_removed"`
	MetadataLicense   string `csv:"metadata_license"`
	ImageLicense      string `csv:"image_license"`
}

// Camera is one row of cameras.csv.
type Camera struct {
	CameraID     string `csv:"camera_id"`
	Make         string `csv:"make"`
	Manufacturer string `csv:"manufacturer"`
	Model        string `csv:"model"`
	SerialNumber string `csv:"serial_number"`
}

// Vendor returns the manufacturer, whichever of the two WI header
// spellings carried it.
func (c Camera) Vendor() string {
	if c.Manufacturer != "" {
		return c.Manufacturer
	}
	return c.Make
}

// Deployment is one row of deployments.csv: a single camera placement
// over a date range.
type Deployment struct {
	DeploymentID      string `csv:"deployment_id"`
	Placename         string `csv:"placename"`
	Latitude          string `csv:"latitude"`
	Longitude         string `csv:"longitude"`
	StartDate         string `csv:"start_date"`
	EndDate           string `csv:"end_date"`
	CameraID          string `csv:"camera_id"`
	CameraFunctioning string `csv:"camera_functioning"`
	SensorHeight      string `csv:"sensor_height"`
	HeightOther       string `csv:"height_other"`
	SensorOrientation string `csv:"sensor_orientation"`
	OrientationOther  string `csv:"orientation_other"`
	BaitType          string `csv:"bait_type"`
	BaitDescription   string `csv:"bait_description"`
	FeatureType       string `csv:"feature_type"`
	FeatureMethod     string `csv:"feature_type_methodology"`
	Habitat           string `csv:"habitat"`
	Subproject        string `csv:"subproject_name"`
	QuietPeriod       string `csv:"quiet_period"`
	RecordedBy        string `csv:"recorded_by"`
	Remarks           string `csv:"remarks"`
	Timezone          string `csv:"timezone"`
}

// Image is one row of images_*.csv: one capture event with its taxonomy
// and optional computer-vision detection metadata.
type Image struct {
	ProjectID       string `csv:"project_id"`
	DeploymentID    string `csv:"deployment_id"`
	ImageID         string `csv:"image_id"`
	Filename        string `csv:"filename"`
	Location        string `csv:"location"`
	Timestamp       string `csv:"timestamp"`
	StartTime       string `csv:"start_time"`
	EndTime         string `csv:"end_time"`
	Class           string `csv:"class"`
	Order           string `csv:"order"`
	Family          string `csv:"family"`
	Genus           string `csv:"genus"`
	Species         string `csv:"species"`
	CommonName      string `csv:"common_name"`
	IdentifiedBy    string `csv:"identified_by"`
	NumberOfObjects string `csv:"number_of_objects"`
	Age             string `csv:"age"`
	Sex             string `csv:"sex"`
	Behavior        string `csv:"behavior"`
	Highlighted     string `csv:"highlighted"`
	CVConfidence    string `csv:"cv_confidence"`
	BoundingBoxes   string `csv:"bounding_boxes"`
	License         string `csv:"license"`
}

// Export is one fully loaded WI project export.
type Export struct {
	Projects    []Project
	Cameras     []Camera
	Deployments []Deployment
	Images      []Image

	// ImagesFile is the archive member the images table came from,
	// kept for error reporting.
	ImagesFile string
}

// Project0 returns the first projects row, or a zero value when the
// projects table is absent or empty.
func (e *Export) Project0() Project {
	if len(e.Projects) == 0 {
		return Project{}
	}
	return e.Projects[0]
}
