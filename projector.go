package heatnet

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
	"github.com/pkg/errors"
)

const (
	projectorNearestCandidates = 8
	projectorBoundEpsilon      = 1e-9
)

// Connection is the point where a building or the source attaches to the street network
type Connection struct {
	LineID   int
	Point    orb.Point
	Distance float64
}

// segmentRef is an entry of the spatial index: middle point of a street segment
type segmentRef struct {
	middle  orb.Point
	lineIdx int
	// index of segment's end vertex in line
	segIdx int
}

func (ref *segmentRef) Point() orb.Point {
	return ref.middle
}

// Projector finds connection points on snapshot of street network.
// The spatial index is only used to narrow candidate lines: exact distances are always computed.
type Projector struct {
	lines         []*StreetLine
	index         *quadtree.Quadtree
	segmentsNum   int
	maxHalfLength float64
}

// NewProjector indexes every segment of the network. The network must not be spliced while projector is in use.
func NewProjector(network *StreetNetwork) (*Projector, error) {
	lines := network.Lines()
	projector := &Projector{
		lines: lines,
	}
	if len(lines) == 0 {
		return projector, nil
	}
	bound := lines[0].Geom.Bound()
	for _, line := range lines[1:] {
		bound = bound.Union(line.Geom.Bound())
	}
	projector.index = quadtree.New(bound.Pad(1.0))
	for lineIdx, line := range lines {
		for i := 1; i < len(line.Geom); i++ {
			ref := &segmentRef{
				middle:  middlePointSegment(line.Geom[i-1], line.Geom[i]),
				lineIdx: lineIdx,
				segIdx:  i,
			}
			err := projector.index.Add(ref)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't index segment %d of line %d", i, line.ID)
			}
			projector.segmentsNum++
			halfLength := findDistance(line.Geom[i-1], line.Geom[i]) / 2.0
			if halfLength > projector.maxHalfLength {
				projector.maxHalfLength = halfLength
			}
		}
	}
	return projector, nil
}

// Project returns the closest point lying on the street network for given point
func (projector *Projector) Project(entity EntityType, id string, p orb.Point) (Connection, error) {
	if projector.segmentsNum == 0 {
		return Connection{}, &ProjectionError{Entity: entity, ID: id, Reason: "street network has no segments"}
	}
	if !isFinitePoint(p) {
		return Connection{}, &ProjectionError{Entity: entity, ID: id, Reason: "non-finite coordinates"}
	}
	lineIdx := projector.closestLine(p)
	if lineIdx < 0 {
		return Connection{}, &ProjectionError{Entity: entity, ID: id, Reason: "no owning line found"}
	}
	line := projector.lines[lineIdx]
	segIdx, distance := nearestSegment(line.Geom, p)
	if segIdx < 1 {
		return Connection{}, &ProjectionError{Entity: entity, ID: id, Reason: "owning line has no segments"}
	}
	return Connection{
		LineID:   line.ID,
		Point:    closestPointOnSegment(line.Geom[segIdx-1], line.Geom[segIdx], p),
		Distance: distance,
	}, nil
}

// closestLine returns position of line closest to p.
// K nearest middle points give an upper bound of the distance; every segment which could beat that bound
// has its middle point within (bound + longest half segment), so bound query over padded box is exact.
func (projector *Projector) closestLine(p orb.Point) int {
	k := projectorNearestCandidates
	if projector.segmentsNum < k {
		k = projector.segmentsNum
	}
	candidates := projector.index.KNearest(nil, p, k)
	upper := math.Inf(1)
	for _, candidate := range candidates {
		distance := projector.segmentDistance(candidate.(*segmentRef), p)
		if distance < upper {
			upper = distance
		}
	}
	if math.IsInf(upper, 1) {
		return -1
	}
	searchBound := p.Bound().Pad(upper + projector.maxHalfLength + projectorBoundEpsilon)
	inBound := projector.index.InBound(nil, searchBound)

	bestLine := -1
	bestSegment := -1
	best := math.Inf(1)
	for _, item := range inBound {
		ref := item.(*segmentRef)
		distance := projector.segmentDistance(ref, p)
		// Ties are broken by line order and then by segment order to keep projection deterministic
		if distance < best || (distance == best && (ref.lineIdx < bestLine || (ref.lineIdx == bestLine && ref.segIdx < bestSegment))) {
			best = distance
			bestLine = ref.lineIdx
			bestSegment = ref.segIdx
		}
	}
	return bestLine
}

func (projector *Projector) segmentDistance(ref *segmentRef, p orb.Point) float64 {
	line := projector.lines[ref.lineIdx].Geom
	return planar.DistanceFromSegment(line[ref.segIdx-1], line[ref.segIdx], p)
}
