// Package metrics holds the pure numeric building blocks of play effectiveness:
// success and explosiveness rules, z-scores, empirical-Bayes smoothing and the
// composite ranking score.
package metrics

import (
	"math"
	"strings"
)

// Composite score weights. Turnovers are charged at half weight inside the
// explosiveness term.
const (
	WeightSuccess   = 0.55
	WeightYardsZ    = 0.20
	WeightExplosive = 0.15
	WeightTouchdown = 0.10
	TurnoverPenalty = 0.5
)

// IsSuccess reports whether a play gained enough of the distance for its down:
// 50% on 1st, 70% on 2nd, all of it on 3rd and 4th. Touchdowns always succeed.
func IsSuccess(down int, distance, yards float64, touchdown bool) bool {
	if touchdown {
		return true
	}
	var need float64
	switch down {
	case 1:
		need = 0.5
	case 2:
		need = 0.7
	case 3, 4:
		need = 1.0
	default:
		return false
	}
	return yards >= need*distance
}

// IsRun reports whether a play family is treated as a run.
func IsRun(family string) bool {
	return strings.Contains(strings.ToLower(family), "run")
}

// IsExplosive reports whether yards meets the run or pass threshold for the family.
func IsExplosive(family string, yards, runThreshold, passThreshold float64) bool {
	threshold := passThreshold
	if IsRun(family) {
		threshold = runThreshold
	}
	return yards >= threshold
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation.
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// ZScore normalizes value against population. Returns 0 for an empty population
// or one with zero spread.
func ZScore(value float64, population []float64) float64 {
	sd := StdDev(population)
	if len(population) == 0 || sd == 0 {
		return 0
	}
	return (value - Mean(population)) / sd
}

// SmoothSuccessRate shrinks rawRate toward priorRate with priorWeight pseudo-samples.
func SmoothSuccessRate(rawRate float64, n int, priorRate, priorWeight float64) float64 {
	denom := float64(n) + priorWeight
	if denom == 0 {
		return priorRate
	}
	return (rawRate*float64(n) + priorRate*priorWeight) / denom
}

// CompositeScore combines the adjusted success rate, yardage z-score, net
// explosiveness and touchdown rate into one ranking value.
func CompositeScore(adjSuccess, zYards, explosiveRate, turnoverRate, tdRate float64) float64 {
	return WeightSuccess*adjSuccess +
		WeightYardsZ*zYards +
		WeightExplosive*(explosiveRate-TurnoverPenalty*turnoverRate) +
		WeightTouchdown*tdRate
}

// Rate returns count/n, or 0 when n is 0.
func Rate(count, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(count) / float64(n)
}
