package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	lat           float64
	lng           float64
	isConstructed bool
}

// NewGeoPoint validates both coordinates and returns the point.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	var problems []error
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		problems = append(problems, errs.NewValueIsOutOfRangeError("lat", fmt.Sprint(lat), MinLatitude, MaxLatitude))
	}
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		problems = append(problems, errs.NewValueIsOutOfRangeError("lng", fmt.Sprint(lng), MinLongitude, MaxLongitude))
	}
	if err := errors.Join(problems...); err != nil {
		return GeoPoint{}, err
	}
	return GeoPoint{lat: lat, lng: lng, isConstructed: true}, nil
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lng() float64 {
	return p.lng
}

func (p GeoPoint) Validate() error {
	if !p.isConstructed {
		return ErrGeoPointIsNotConstructed
	}
	return nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// DistanceKm returns the great-circle distance between p and other:
//
//	a = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlng/2)
//	d = 2·R·atan2(√a, √(1−a))
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(p.lat)
	lat2 := toRadians(other.lat)
	dLat := toRadians(other.lat - p.lat)
	dLng := toRadians(other.lng - p.lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a)), nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
