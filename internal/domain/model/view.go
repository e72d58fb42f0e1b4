package model

// ProjectCard is a project prepared for display: the record plus every value
// the receipt layout derives from it.
type ProjectCard struct {
	Project     ProjectRecord     `json:"project"`
	Artifacts   []DerivedArtifact `json:"artifacts"`
	ReadMinutes int               `json:"readMinutes"`
	// Barcode is the card footer value, "<id>-<year>".
	Barcode string `json:"barcode"`
	// Stub is the tear-off stub value, "STUB-<id>".
	Stub string `json:"stub"`
}

// About is the about-section payload.
type About struct {
	Profile     Profile      `json:"profile"`
	Skills      []SkillGroup `json:"skills"`
	Experiences []Experience `json:"experiences"`
}
