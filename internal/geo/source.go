package geo

import (
	"time"

	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/models"
)

// Origin identifies where a resolved coordinate came from.
type Origin string

const (
	OriginConfigured Origin = "configured"
	OriginCached     Origin = "cached"
	OriginDefault    Origin = "default"
)

// SnapshotCoordinate is the cache's view of the last stored coordinate.
type SnapshotCoordinate interface {
	LastCoordinate() (models.Coordinate, time.Duration, bool)
}

// Resolve picks the coordinate to compute against: an explicitly configured
// one, then the last cached one if younger than the age bound, then the fixed
// default so the schedule is never empty.
func Resolve(configured models.Coordinate, cache SnapshotCoordinate) (models.Coordinate, Origin) {
	if !configured.IsZero() {
		return configured, OriginConfigured
	}
	if cache != nil {
		if coord, age, ok := cache.LastCoordinate(); ok && !coord.IsZero() && age <= constants.LastKnownMaxAge {
			return coord, OriginCached
		}
	}
	return models.Coordinate{
		Latitude:  constants.DefaultLatitude,
		Longitude: constants.DefaultLongitude,
	}, OriginDefault
}
