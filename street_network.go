package heatnet

import (
	"fmt"

	"github.com/paulmach/orb"
)

// StreetLine is a single polyline of the street network
type StreetLine struct {
	ID int
	// Identifier of the line in input data, used in error messages
	Ref  string
	Name string
	Geom orb.LineString
}

// StreetNetwork holds street lines which buildings and the source get spliced into
type StreetNetwork struct {
	lines   []*StreetLine
	linesID map[int]int
	// distance measures edges of the network in meters
	distance func(p, q orb.Point) float64
}

// WithGeodesicLengths makes the network measure lengths on the sphere.
// It has to be set when coordinates are EPSG:3857 projected from WGS84 (lon/lat or OSM inputs).
func WithGeodesicLengths(geodesic bool) func(*StreetNetwork) {
	return func(network *StreetNetwork) {
		if geodesic {
			network.distance = geodesicDistance
		} else {
			network.distance = findDistance
		}
	}
}

// NewStreetNetwork validates given lines and prepares network for projections.
// Adjacent duplicated vertices are collapsed. Lines are copied, so caller's geometries are never modified.
func NewStreetNetwork(lines []StreetLine, options ...func(*StreetNetwork)) (*StreetNetwork, error) {
	if len(lines) == 0 {
		return nil, &InvalidTopologyError{LineID: -1, Reason: "street network is empty"}
	}
	network := &StreetNetwork{
		lines:    make([]*StreetLine, 0, len(lines)),
		linesID:  make(map[int]int, len(lines)),
		distance: findDistance,
	}
	for _, option := range options {
		option(network)
	}
	for i := range lines {
		line := lines[i]
		if _, ok := network.linesID[line.ID]; ok {
			return nil, &InvalidTopologyError{LineID: line.ID, Ref: line.Ref, Reason: "duplicated line identifier"}
		}
		for _, pt := range line.Geom {
			if !isFinitePoint(pt) {
				return nil, &InvalidTopologyError{LineID: line.ID, Ref: line.Ref, Reason: fmt.Sprintf("non-finite coordinate %v", pt)}
			}
		}
		geom := removeConsecutiveDuplicates(line.Geom)
		if len(geom) < 2 {
			return nil, &InvalidTopologyError{LineID: line.ID, Ref: line.Ref, Reason: fmt.Sprintf("line has %d distinct vertices", len(geom))}
		}
		if getLength(geom) == 0 {
			return nil, &InvalidTopologyError{LineID: line.ID, Ref: line.Ref, Reason: "zero-length line"}
		}
		network.linesID[line.ID] = len(network.lines)
		network.lines = append(network.lines, &StreetLine{
			ID:   line.ID,
			Ref:  line.Ref,
			Name: line.Name,
			Geom: geom,
		})
	}
	return network, nil
}

// Lines returns current state of street lines (including spliced vertices)
func (network *StreetNetwork) Lines() []*StreetLine {
	return network.lines
}

// Distance returns length of segment between two points in meters
func (network *StreetNetwork) Distance(p, q orb.Point) float64 {
	return network.distance(p, q)
}

// Line returns line by its identifier
func (network *StreetNetwork) Line(id int) (*StreetLine, bool) {
	idx, ok := network.linesID[id]
	if !ok {
		return nil, false
	}
	return network.lines[idx], true
}

// Splice inserts connection point into its owning line as a new vertex.
// The vertex goes right before the end of the nearest segment. Returns false if point is a vertex of the line already.
func (network *StreetNetwork) Splice(conn Connection) (bool, error) {
	line, ok := network.Line(conn.LineID)
	if !ok {
		return false, &InvalidTopologyError{LineID: conn.LineID, Reason: "no such line"}
	}
	for _, pt := range line.Geom {
		if pt.Equal(conn.Point) {
			return false, nil
		}
	}
	insertionPosition, _ := nearestSegment(line.Geom, conn.Point)
	if insertionPosition < 1 {
		return false, &InvalidTopologyError{LineID: conn.LineID, Reason: "line has no segments"}
	}
	geom := make(orb.LineString, 0, len(line.Geom)+1)
	geom = append(geom, line.Geom[:insertionPosition]...)
	geom = append(geom, conn.Point)
	geom = append(geom, line.Geom[insertionPosition:]...)
	line.Geom = geom
	return true, nil
}
