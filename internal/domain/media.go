package domain

import (
	"net/url"
	"strings"
)

// Limits enforced on media metadata.
const (
	MaxMediaTitle       = 100
	MaxMediaDescription = 500
	MaxImageAlt         = 300
	MaxBlobName         = 100
	MaxMimeType         = 50
)

// Audio is an audio track stored in the blob store. BlobName references the
// encoded bytes; the content itself never lives in the relational store.
type Audio struct {
	ID       int
	Title    string
	BlobName string
	MimeType string
}

// Validate checks if the Audio has valid data.
func (a *Audio) Validate() error {
	if err := firstError(
		maxLen("title", a.Title, MaxMediaTitle),
		required("blob_name", a.BlobName),
		maxLen("blob_name", a.BlobName, MaxBlobName),
	); err != nil {
		return err
	}
	return validateMimeType(a.MimeType, "audio/")
}

// Image is a picture stored in the blob store.
type Image struct {
	ID       int
	Alt      string
	Title    string
	BlobName string
	MimeType string
}

// Validate checks if the Image has valid data.
func (i *Image) Validate() error {
	if err := firstError(
		maxLen("alt", i.Alt, MaxImageAlt),
		maxLen("title", i.Title, MaxMediaTitle),
		required("blob_name", i.BlobName),
		maxLen("blob_name", i.BlobName, MaxBlobName),
	); err != nil {
		return err
	}
	return validateMimeType(i.MimeType, "image/")
}

// Video is an externally hosted video attached to a streetcode.
type Video struct {
	ID           int
	Title        string
	Description  string
	URL          string
	StreetcodeID int
}

// Validate checks if the Video has valid data.
func (v *Video) Validate() error {
	if err := firstError(
		maxLen("title", v.Title, MaxMediaTitle),
		maxLen("description", v.Description, MaxMediaDescription),
		required("url", v.URL),
	); err != nil {
		return err
	}
	if !IsValidURL(v.URL) {
		return NewValidationError("url", "must be an absolute http(s) URL", ErrInvalidFormat)
	}
	return positiveID("streetcode_id", v.StreetcodeID)
}

// Art is an artwork built on top of an image.
type Art struct {
	ID          int
	Title       string
	Description string
	ImageID     int
}

// Validate checks if the Art has valid data.
func (a *Art) Validate() error {
	return firstError(
		maxLen("title", a.Title, MaxMediaTitle),
		maxLen("description", a.Description, MaxMediaDescription),
		positiveID("image_id", a.ImageID),
	)
}

// StreetcodeArt places an art on a streetcode at the given position.
type StreetcodeArt struct {
	ID           int
	Index        int
	StreetcodeID int
	ArtID        int
}

// StreetcodeImage links an image to a streetcode.
type StreetcodeImage struct {
	ID           int
	StreetcodeID int
	ImageID      int
}

// IsValidURL reports whether raw is an absolute http or https URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateMimeType(mimeType, prefix string) error {
	if mimeType == "" {
		return NewValidationError("mime_type", "is required", nil)
	}
	if len(mimeType) > MaxMimeType {
		return NewValidationError("mime_type", "is too long", nil)
	}
	if !strings.HasPrefix(mimeType, prefix) || len(mimeType) == len(prefix) {
		return NewValidationError("mime_type", "must start with "+prefix, ErrInvalidFormat)
	}
	return nil
}
