// Package classify maps raw yardage and field position onto the categorical
// bands and zones used by every situational filter and cross-tab.
package classify

import (
	"strings"

	"github.com/pable/go-playcall/internal/model"
)

// DistanceBand buckets yards-to-gain: short ≤2, medium ≤6, long ≤9, very_long beyond.
func DistanceBand(distance float64) model.DistanceBand {
	switch {
	case distance <= 2:
		return model.BandShort
	case distance <= 6:
		return model.BandMedium
	case distance <= 9:
		return model.BandLong
	default:
		return model.BandVeryLong
	}
}

// FieldZone buckets a starting position (1-99, toward the opponent goal at 100).
// Rules are checked in order; goal-to-go wins over red zone.
func FieldZone(position, distance float64) model.FieldZone {
	switch {
	case distance <= 10 && position >= 90:
		return model.ZoneGoalToGo
	case position >= 80:
		return model.ZoneRedZone
	case position >= 51:
		return model.ZoneOpp49To21
	case position >= 21:
		return model.ZoneOwn21To50
	default:
		return model.ZoneOwn1To20
	}
}

// DownDistanceKey returns the cross-tab key for a down and raw distance, e.g. "3Long".
func DownDistanceKey(down int, distance float64) string {
	return model.DownDistanceKey(down, DistanceBand(distance))
}

// ParseBand accepts a band name in any case; ok is false for unknown names.
func ParseBand(s string) (model.DistanceBand, bool) {
	for _, b := range model.Bands {
		if strings.EqualFold(string(b), s) {
			return b, true
		}
	}
	return "", false
}

// ParseZone accepts a zone name in any case; ok is false for unknown names.
func ParseZone(s string) (model.FieldZone, bool) {
	for _, z := range model.Zones {
		if strings.EqualFold(string(z), s) {
			return z, true
		}
	}
	return "", false
}
