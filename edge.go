package heatnet

import (
	"github.com/paulmach/orb"
)

type EdgeKind uint16

const (
	EDGE_STREET = EdgeKind(iota + 1)
	EDGE_HOUSE_CONNECTION
	EDGE_SOURCE_CONNECTION
)

func (iotaIdx EdgeKind) String() string {
	return [...]string{"street", "house_connection", "source_connection"}[iotaIdx-1]
}

// EdgeKey identifies undirected edge: Source is always the smaller node identifier
type EdgeKey struct {
	Source NodeID
	Target NodeID
}

func newEdgeKey(u, v NodeID) EdgeKey {
	if u > v {
		u, v = v, u
	}
	return EdgeKey{Source: u, Target: v}
}

// isStub reports whether edge is a zero-length house connection of a building located on a street node
func (key EdgeKey) isStub() bool {
	return key.Source == key.Target
}

// Edge is a pipe candidate between two nodes
type Edge struct {
	Key    EdgeKey
	Kind   EdgeKind
	Length float64
	Geom   orb.LineString

	// Accumulated over every building which shortest path uses the edge
	AttachedPower float64
	BuildingCount int

	// Filled by sizing only
	Hydraulics *Hydraulics
}

func newEdge(key EdgeKey, kind EdgeKind, from, to orb.Point, length float64) *Edge {
	return &Edge{
		Key:    key,
		Kind:   kind,
		Length: length,
		Geom:   orb.LineString{from, to},
	}
}

// accumulate adds demand of buildings using the edge
func (edge *Edge) accumulate(power float64, count int) {
	edge.AttachedPower += power
	edge.BuildingCount += count
}

// clone returns copy of the edge. Geometry is shared since it is never modified after creation
func (edge *Edge) clone() *Edge {
	cp := *edge
	if edge.Hydraulics != nil {
		hydraulics := *edge.Hydraulics
		cp.Hydraulics = &hydraulics
	}
	return &cp
}
