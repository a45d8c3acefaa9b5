// Package geo parses the "lat,lng" strings submitted by report forms.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BOBWANDATI/backend/pkg/e"
)

// Point is an ordered (longitude, latitude) pair, the storage order for
// geospatial columns. Note this is swapped relative to the "lat,lng" input.
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// ParsePoint splits a "lat,lng" string into a validated Point.
// Longitude must be within [-180,180] and latitude within [-90,90].
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("expected \"lat,lng\": %w", e.ErrInvalidCoordinates)
	}

	lat, err := parseFinite(parts[0])
	if err != nil {
		return Point{}, fmt.Errorf("latitude %q: %w", strings.TrimSpace(parts[0]), e.ErrInvalidCoordinates)
	}
	lng, err := parseFinite(parts[1])
	if err != nil {
		return Point{}, fmt.Errorf("longitude %q: %w", strings.TrimSpace(parts[1]), e.ErrInvalidCoordinates)
	}

	if lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("latitude %v out of range: %w", lat, e.ErrInvalidCoordinates)
	}
	if lng < -180 || lng > 180 {
		return Point{}, fmt.Errorf("longitude %v out of range: %w", lng, e.ErrInvalidCoordinates)
	}

	return Point{Lng: lng, Lat: lat}, nil
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %v", f)
	}
	return f, nil
}
