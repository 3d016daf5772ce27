package kernel

import (
	"errors"
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const (
	// LatitudeMin and LatitudeMax bound Coordinates.Latitude in degrees.
	LatitudeMin = -90.0
	LatitudeMax = 90.0
	// LongitudeMin and LongitudeMax bound Coordinates.Longitude in degrees.
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Coordinates is an optional geographic position attached to a Location.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Location is an immutable postal address used for load origins and
// destinations, pickup sites and tracking events. City and a two-letter
// country code are mandatory; everything else is free text.
//
//	origin, err := kernel.NewLocation("Dock 4", "1 Harbor Way", "Oakland", "CA", "94607", "US")
type Location struct { //nolint:recvcheck //using for validation
	name        string
	addressLine string
	city        string
	region      string
	postalCode  string
	countryCode string
	coordinates Coordinates
	hasCoords   bool
	guard       guard.ConstructorGuard
}

// NewLocation validates and builds a Location. Values are trimmed and the
// country code is upper-cased.
func NewLocation(name, addressLine, city, region, postalCode, countryCode string) (Location, error) {
	loc := Location{
		name:        strings.TrimSpace(name),
		addressLine: strings.TrimSpace(addressLine),
		region:      strings.TrimSpace(region),
		postalCode:  strings.TrimSpace(postalCode),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setCity(city), loc.setCountryCode(countryCode)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// WithCoordinates returns a copy of the location carrying a geographic position.
func (l Location) WithCoordinates(latitude, longitude float64) (Location, error) {
	if err := l.Validate(); err != nil {
		return Location{}, err
	}
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return Location{}, errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return Location{}, errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	l.coordinates = Coordinates{Latitude: latitude, Longitude: longitude}
	l.hasCoords = true
	return l, nil
}

// Validate fails for locations not created through NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Name() string        { return l.name }
func (l Location) AddressLine() string { return l.addressLine }
func (l Location) City() string        { return l.city }
func (l Location) Region() string      { return l.region }
func (l Location) PostalCode() string  { return l.postalCode }
func (l Location) CountryCode() string { return l.countryCode }

// Coordinates returns the geographic position and whether one is set.
func (l Location) Coordinates() (Coordinates, bool) {
	return l.coordinates, l.hasCoords
}

// String renders "City, REGION, CC" for logs.
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.city, l.region, l.countryCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return fmt.Sprintf("Location(%s)", strings.Join(parts, ", "))
}

// LocationSnapshot is the plain, serializable form of a Location used by
// event payloads, persistence DTOs and HTTP bodies.
type LocationSnapshot struct {
	Name        string   `json:"name,omitempty"`
	AddressLine string   `json:"addressLine,omitempty"`
	City        string   `json:"city"`
	Region      string   `json:"region,omitempty"`
	PostalCode  string   `json:"postalCode,omitempty"`
	CountryCode string   `json:"countryCode"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Snapshot returns the serializable form of the location.
func (l Location) Snapshot() LocationSnapshot {
	s := LocationSnapshot{
		Name:        l.name,
		AddressLine: l.addressLine,
		City:        l.city,
		Region:      l.region,
		PostalCode:  l.postalCode,
		CountryCode: l.countryCode,
	}
	if l.hasCoords {
		lat, lon := l.coordinates.Latitude, l.coordinates.Longitude
		s.Latitude, s.Longitude = &lat, &lon
	}
	return s
}

// LocationFromSnapshot validates and rebuilds a Location. Coordinates are
// applied only when both latitude and longitude are present.
func LocationFromSnapshot(s LocationSnapshot) (Location, error) {
	loc, err := NewLocation(s.Name, s.AddressLine, s.City, s.Region, s.PostalCode, s.CountryCode)
	if err != nil {
		return Location{}, err
	}
	if s.Latitude != nil && s.Longitude != nil {
		return loc.WithCoordinates(*s.Latitude, *s.Longitude)
	}
	return loc, nil
}

// IsEqual compares two constructed locations field by field.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

func (l *Location) setCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	l.city = city
	return nil
}

func (l *Location) setCountryCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return errs.NewValueIsRequiredError("countryCode")
	}
	if len(code) != 2 {
		return errs.NewValueIsInvalidErrorWithCause("countryCode", fmt.Errorf("%q is not an ISO 3166 alpha-2 code", code))
	}
	l.countryCode = code
	return nil
}
