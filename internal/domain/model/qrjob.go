package model

import "strconv"

// QRJob asks for a QR image of Data at Size pixels.
type QRJob struct {
	Data string `json:"data"`
	Size int    `json:"size"`
}

// Key identifies the job for caching and dedupe.
func (j QRJob) Key() string {
	return j.Data + "@" + strconv.Itoa(j.Size)
}

// Image is an encoded image body with its content type.
type Image struct {
	ContentType string
	Body        []byte
}

// IsZero reports whether the image has no body.
func (i Image) IsZero() bool { return len(i.Body) == 0 }

// ImageSource tells where a served QR image came from.
type ImageSource string

// Image sources, also used as metric labels.
const (
	SourcePlaceholder ImageSource = "placeholder"
	SourceCache       ImageSource = "cache"
	SourceRemote      ImageSource = "remote"
	SourceFallback    ImageSource = "fallback"
)
