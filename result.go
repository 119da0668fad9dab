package heatnet

import (
	"sort"
)

// ResultNetwork is the subgraph of street graph serving at least one building.
// Edges are copies of street graph edges: accumulation never touches street graph.
type ResultNetwork struct {
	edges       map[EdgeKey]*Edge
	connected   []string
	unreachable []UnreachableBuildingWarning
	sized       bool
}

func newResultNetwork() *ResultNetwork {
	return &ResultNetwork{
		edges: make(map[EdgeKey]*Edge),
	}
}

// merge copies edges of a path (if they are absent) and accumulates demand of single building on them
func (result *ResultNetwork) merge(graph *StreetGraph, contrib contribution) error {
	for _, key := range contrib.path {
		edge, ok := result.edges[key]
		if !ok {
			streetEdge, ok := graph.Edge(key.Source, key.Target)
			if !ok {
				return &InvalidTopologyError{LineID: -1, Reason: "path refers to edge absent in street graph"}
			}
			edge = streetEdge.clone()
			result.edges[key] = edge
		}
		edge.accumulate(contrib.power, 1)
	}
	result.connected = append(result.connected, contrib.buildingID)
	return nil
}

// Edges returns edges sorted by key, so output doesn't depend on routing order
func (result *ResultNetwork) Edges() []*Edge {
	edges := make([]*Edge, 0, len(result.edges))
	for _, edge := range result.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Key.Source != edges[j].Key.Source {
			return edges[i].Key.Source < edges[j].Key.Source
		}
		return edges[i].Key.Target < edges[j].Key.Target
	})
	return edges
}

// Edge returns result edge between two nodes
func (result *ResultNetwork) Edge(u, v NodeID) (*Edge, bool) {
	edge, ok := result.edges[newEdgeKey(u, v)]
	return edge, ok
}

// EdgesNum returns number of edges in network
func (result *ResultNetwork) EdgesNum() int {
	return len(result.edges)
}

// Connected returns identifiers of buildings served by the network
func (result *ResultNetwork) Connected() []string {
	return result.connected
}

// Unreachable returns buildings which have been excluded from the network
func (result *ResultNetwork) Unreachable() []UnreachableBuildingWarning {
	return result.unreachable
}

// Sized reports whether hydraulic attributes have been calculated
func (result *ResultNetwork) Sized() bool {
	return result.sized
}

// TotalPower returns sum of attached power over house connection edges
func (result *ResultNetwork) TotalPower() float64 {
	total := 0.0
	for _, edge := range result.edges {
		if edge.Kind == EDGE_HOUSE_CONNECTION {
			total += edge.AttachedPower
		}
	}
	return total
}
