package domain

import (
	"fmt"
	"math"
)

// Limits enforced on location records.
const (
	MaxStatisticAddress = 150
	MaxToponymField     = 150
	MaxToponymOblast    = 30
	MaxToponymStreet    = 50
)

// StreetcodeCoordinate is a point on the map associated with a streetcode.
type StreetcodeCoordinate struct {
	ID           int
	Latitude     float64
	Longitude    float64
	StreetcodeID int
}

// Validate checks if the StreetcodeCoordinate has valid data.
func (c *StreetcodeCoordinate) Validate() error {
	if err := ValidateLatLng(c.Latitude, c.Longitude); err != nil {
		return err
	}
	return positiveID("streetcode_id", c.StreetcodeID)
}

// ValidateLatLng checks that latitude and longitude are within range.
func ValidateLatLng(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return NewValidationError("latitude", "must be between -90 and 90", nil)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return NewValidationError("longitude", "must be between -180 and 180", nil)
	}
	return nil
}

// StatisticRecord counts scans of a physical QR plate placed at a coordinate
// of a streetcode.
type StatisticRecord struct {
	ID                     int
	QrID                   int
	Count                  int
	Address                string
	StreetcodeID           int
	StreetcodeCoordinateID int
}

// Validate checks if the StatisticRecord has valid data.
func (r *StatisticRecord) Validate() error {
	if r.Count < 0 {
		return NewValidationError("count", "must not be negative", nil)
	}
	return firstError(
		positiveID("qr_id", r.QrID),
		required("address", r.Address),
		maxLen("address", r.Address, MaxStatisticAddress),
		positiveID("streetcode_id", r.StreetcodeID),
		positiveID("streetcode_coordinate_id", r.StreetcodeCoordinateID),
	)
}

// Toponym is a street or place name from the national address register.
// Coordinates are filled by geocoding when the source data lacks them.
type Toponym struct {
	ID             int
	Oblast         string
	AdminRegionOld string
	AdminRegionNew string
	Gromada        string
	Community      string
	StreetType     string
	StreetName     string
	Latitude       *float64
	Longitude      *float64
}

// Validate checks if the Toponym has valid data.
func (t *Toponym) Validate() error {
	if err := firstError(
		required("oblast", t.Oblast),
		maxLen("oblast", t.Oblast, MaxToponymOblast),
		maxLen("admin_region_old", t.AdminRegionOld, MaxToponymField),
		maxLen("admin_region_new", t.AdminRegionNew, MaxToponymField),
		maxLen("gromada", t.Gromada, MaxToponymField),
		required("community", t.Community),
		maxLen("community", t.Community, MaxToponymField),
		maxLen("street_type", t.StreetType, MaxToponymStreet),
		required("street_name", t.StreetName),
		maxLen("street_name", t.StreetName, MaxToponymField),
	); err != nil {
		return err
	}
	if (t.Latitude == nil) != (t.Longitude == nil) {
		return NewValidationError("latitude", "must be set together with longitude", nil)
	}
	if t.Latitude != nil {
		return ValidateLatLng(*t.Latitude, *t.Longitude)
	}
	return nil
}

// HasCoordinates reports whether the toponym has been geocoded.
func (t *Toponym) HasCoordinates() bool {
	return t.Latitude != nil && t.Longitude != nil
}

// StreetcodeToponym links a toponym to a streetcode.
type StreetcodeToponym struct {
	ID           int
	StreetcodeID int
	ToponymID    int
}

// Key identifies a toponym for duplicate detection during imports.
func (t *Toponym) Key() string {
	return t.Community + "\x00" + t.StreetType + "\x00" + t.StreetName
}

// ToponymImportReport summarizes one import run.
type ToponymImportReport struct {
	Rows     int      `json:"rows"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Geocoded int      `json:"geocoded"`
	Invalid  int      `json:"invalid"`
	Errors   []string `json:"errors,omitempty"`
}

// MaxImportReportErrors caps the row errors kept in a report.
const MaxImportReportErrors = 50

// AddError records a problem with the given CSV line. Errors past
// MaxImportReportErrors are counted by the other fields only.
func (r *ToponymImportReport) AddError(line int, err error) {
	if len(r.Errors) >= MaxImportReportErrors {
		return
	}
	r.Errors = append(r.Errors, fmt.Sprintf("line %d: %v", line, err))
}
