package heatnet

import (
	"fmt"
	"time"

	"github.com/LdDl/ch"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// HouseConnection is a building attached to the street network
type HouseConnection struct {
	BuildingID string
	Centroid   orb.Point
	Connection Connection
}

// SourceConnection is the heat source attached to the street network
type SourceConnection struct {
	SourceID   string
	Geom       orb.Point
	Connection Connection
}

// StreetGraph is undirected graph of street segments, house connections and the source connection.
// It is read-only once assembled.
type StreetGraph struct {
	nodes      nodeArena
	edges      map[EdgeKey]*Edge
	edgesOrder []EdgeKey
	router     ch.Graph
	sourceNode NodeID
	distance   func(p, q orb.Point) float64
}

// AssembleStreetGraph builds graph from spliced street network and connections.
// Every connection point has to be spliced into the network already, otherwise house connection would dangle.
// A building located on a street node (or at the source) gets a zero-length house connection stub, so its demand
// is still carried by a house connection.
func AssembleStreetGraph(network *StreetNetwork, source SourceConnection, houses []HouseConnection, verbose bool) (*StreetGraph, error) {
	if verbose {
		fmt.Printf("Assembling street graph...")
	}
	st := time.Now()
	lines := network.Lines()
	capacity := 2 * len(houses)
	for _, line := range lines {
		capacity += len(line.Geom)
	}
	graph := &StreetGraph{
		nodes:    newNodeArena(capacity),
		edges:    make(map[EdgeKey]*Edge, capacity),
		distance: network.Distance,
	}

	duplicates := 0
	for _, line := range lines {
		for i := 1; i < len(line.Geom); i++ {
			if !graph.addEdge(line.Geom[i-1], line.Geom[i], EDGE_STREET) {
				duplicates++
			}
		}
	}
	if _, ok := graph.nodes.find(source.Connection.Point); !ok {
		return nil, &InvalidTopologyError{LineID: source.Connection.LineID, Reason: fmt.Sprintf("connection point of source '%s' has not been spliced", source.SourceID)}
	}
	graph.addEdge(source.Geom, source.Connection.Point, EDGE_SOURCE_CONNECTION)
	graph.sourceNode = graph.nodes.getOrCreate(source.Geom)

	// Nodes created so far belong to streets and the source
	networkNodes := NodeID(graph.nodes.len())
	stubs := 0
	for _, house := range houses {
		if _, ok := graph.nodes.find(house.Connection.Point); !ok {
			return nil, &InvalidTopologyError{LineID: house.Connection.LineID, Reason: fmt.Sprintf("connection point of building '%s' has not been spliced", house.BuildingID)}
		}
		if node, ok := graph.nodes.find(house.Centroid); ok && node < networkNodes {
			graph.addHouseStub(node)
			stubs++
			continue
		}
		graph.addEdge(house.Centroid, house.Connection.Point, EDGE_HOUSE_CONNECTION)
	}

	if verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n\tEdges: %d (duplicated street segments skipped: %d, buildings on street nodes: %d)\n", time.Since(st), graph.nodes.len(), len(graph.edges), duplicates, stubs)
	}

	err := graph.prepareRouter(verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare router")
	}
	return graph, nil
}

// addEdge adds edge between two points. Returns false if edge has not been added: zero-length or duplicate
func (graph *StreetGraph) addEdge(from, to orb.Point, kind EdgeKind) bool {
	source := graph.nodes.getOrCreate(from)
	target := graph.nodes.getOrCreate(to)
	if source == target {
		return false
	}
	key := newEdgeKey(source, target)
	if _, ok := graph.edges[key]; ok {
		return false
	}
	from, to = graph.nodes.get(key.Source).Geom, graph.nodes.get(key.Target).Geom
	graph.edges[key] = newEdge(key, kind, from, to, graph.distance(from, to))
	graph.edgesOrder = append(graph.edgesOrder, key)
	return true
}

// addHouseStub adds zero-length house connection at given node. Buildings sharing the node share the stub
func (graph *StreetGraph) addHouseStub(node NodeID) {
	key := newEdgeKey(node, node)
	if _, ok := graph.edges[key]; ok {
		return
	}
	pt := graph.nodes.get(node).Geom
	graph.edges[key] = newEdge(key, EDGE_HOUSE_CONNECTION, pt, pt, 0)
	graph.edgesOrder = append(graph.edgesOrder, key)
}

// houseStub returns stub of building located at given node
func (graph *StreetGraph) houseStub(node NodeID) (EdgeKey, bool) {
	key := newEdgeKey(node, node)
	_, ok := graph.edges[key]
	return key, ok
}

// prepareRouter builds contraction hierarchies over both directions of every edge
func (graph *StreetGraph) prepareRouter(verbose bool) error {
	if verbose {
		fmt.Printf("Preparing contraction hierarchies...")
	}
	st := time.Now()
	for _, node := range graph.nodes.nodes {
		err := graph.router.CreateVertex(int64(node.ID))
		if err != nil {
			return errors.Wrapf(err, "Can't create vertex %d", node.ID)
		}
	}
	for _, key := range graph.edgesOrder {
		if key.isStub() {
			continue
		}
		edge := graph.edges[key]
		err := graph.router.AddEdge(int64(key.Source), int64(key.Target), edge.Length)
		if err != nil {
			return errors.Wrapf(err, "Can't add edge %d->%d", key.Source, key.Target)
		}
		err = graph.router.AddEdge(int64(key.Target), int64(key.Source), edge.Length)
		if err != nil {
			return errors.Wrapf(err, "Can't add edge %d->%d", key.Target, key.Source)
		}
	}
	graph.router.PrepareContractionHierarchies()
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	return nil
}

// shortestPath returns sequence of nodes from source to target and total length.
// Returns false when target is not reachable.
func (graph *StreetGraph) shortestPath(source, target NodeID) ([]NodeID, float64, bool) {
	if source == target {
		return []NodeID{source}, 0, true
	}
	cost, path := graph.router.ShortestPath(int64(source), int64(target))
	if cost < 0 || len(path) == 0 {
		return nil, -1, false
	}
	nodes := make([]NodeID, len(path))
	for i := range path {
		nodes[i] = NodeID(path[i])
	}
	return nodes, cost, true
}

// Node returns identifier of node located exactly at given point
func (graph *StreetGraph) Node(pt orb.Point) (NodeID, bool) {
	return graph.nodes.find(pt)
}

// SourceNode returns node of the heat source
func (graph *StreetGraph) SourceNode() NodeID {
	return graph.sourceNode
}

// Edge returns edge between two nodes
func (graph *StreetGraph) Edge(u, v NodeID) (*Edge, bool) {
	edge, ok := graph.edges[newEdgeKey(u, v)]
	return edge, ok
}

// Edges returns edges in order of creation
func (graph *StreetGraph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(graph.edgesOrder))
	for _, key := range graph.edgesOrder {
		edges = append(edges, graph.edges[key])
	}
	return edges
}

// NodesNum returns number of nodes in graph
func (graph *StreetGraph) NodesNum() int {
	return graph.nodes.len()
}
