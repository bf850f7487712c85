package models

import (
	"fmt"
	"math"
)

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Round returns the coordinate rounded to the given number of decimal places.
// Rounded coordinates are what the schedule cache keys on, so small GPS jitter
// maps to the same key.
func (c Coordinate) Round(places int) Coordinate {
	factor := math.Pow(10, float64(places))
	return Coordinate{
		Latitude:  math.Round(c.Latitude*factor) / factor,
		Longitude: math.Round(c.Longitude*factor) / factor,
	}
}

// SameCell reports whether both coordinates round to the same cache key at the
// given precision.
func (c Coordinate) SameCell(other Coordinate, places int) bool {
	return c.Round(places) == other.Round(places)
}

// IsZero reports whether the coordinate is the unset zero value.
func (c Coordinate) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}
