package heatnet

import (
	"github.com/paulmach/orb"
)

type NodeID int64

// Node is a vertex of street graph. Two nodes are the same node if and only if coordinates are equal.
type Node struct {
	ID   NodeID
	Geom orb.Point
}

// nodeArena owns every node of the graph. Nodes are created lazily and never deleted
type nodeArena struct {
	nodes []Node
	index map[orb.Point]NodeID
}

func newNodeArena(capacity int) nodeArena {
	return nodeArena{
		nodes: make([]Node, 0, capacity),
		index: make(map[orb.Point]NodeID, capacity),
	}
}

func (arena *nodeArena) getOrCreate(pt orb.Point) NodeID {
	if id, ok := arena.index[pt]; ok {
		return id
	}
	id := NodeID(len(arena.nodes))
	arena.nodes = append(arena.nodes, Node{ID: id, Geom: pt})
	arena.index[pt] = id
	return id
}

func (arena *nodeArena) find(pt orb.Point) (NodeID, bool) {
	id, ok := arena.index[pt]
	return id, ok
}

func (arena *nodeArena) get(id NodeID) Node {
	return arena.nodes[id]
}

func (arena *nodeArena) len() int {
	return len(arena.nodes)
}
