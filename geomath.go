package heatnet

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// findDistance returns distance between two points (Euclidean space)
func findDistance(p, q orb.Point) float64 {
	return planar.Distance(p, q)
}

// getLength returns length for given line (Euclidean space)
func getLength(line orb.LineString) float64 {
	return planar.Length(line)
}

// pointOnSegmentByFraction returns a point on given segment using fraction of its length
func pointOnSegmentByFraction(p, q orb.Point, fraction float64) orb.Point {
	return orb.Point{
		(1-fraction)*p.X() + (fraction * q.X()),
		(1-fraction)*p.Y() + (fraction * q.Y()),
	}
}

// closestPointOnSegment returns the point of segment [a, b] closest to p.
// The projection is clamped to the segment ends.
func closestPointOnSegment(a, b, p orb.Point) orb.Point {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}
	fraction := ((p.X()-a.X())*dx + (p.Y()-a.Y())*dy) / lenSq
	switch {
	case fraction <= 0:
		return a
	case fraction >= 1:
		return b
	}
	return pointOnSegmentByFraction(a, b, fraction)
}

// nearestSegment returns index i of segment [line[i-1], line[i]] closest to p and the distance to it.
// First segment wins on equal distances.
//
// Note: returns (-1, +Inf) for lines with less than 2 points
func nearestSegment(line orb.LineString, p orb.Point) (int, float64) {
	idx := -1
	minDistance := math.Inf(1)
	for i := 1; i < len(line); i++ {
		distance := planar.DistanceFromSegment(line[i-1], line[i], p)
		if distance < minDistance {
			minDistance = distance
			idx = i
		}
	}
	return idx, minDistance
}

// middlePointSegment returns middle point for given segment
func middlePointSegment(p, q orb.Point) orb.Point {
	return pointOnSegmentByFraction(p, q, 0.5)
}

// removeConsecutiveDuplicates returns copy of the line without repeated adjacent vertices
func removeConsecutiveDuplicates(line orb.LineString) orb.LineString {
	output := make(orb.LineString, 0, len(line))
	for i, pt := range line {
		if i > 0 && pt.Equal(line[i-1]) {
			continue
		}
		output = append(output, pt)
	}
	return output
}

func isFinitePoint(pt orb.Point) bool {
	return !math.IsNaN(pt.X()) && !math.IsNaN(pt.Y()) && !math.IsInf(pt.X(), 0) && !math.IsInf(pt.Y(), 0)
}
