package heatnet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Demand is a building attached to the street graph
type Demand struct {
	BuildingID string
	Node       NodeID
	Power      float64
}

// contribution is what a single building adds to the result network
type contribution struct {
	buildingID string
	power      float64
	path       []EdgeKey
}

// RouteDemands finds shortest path from the source to every building and merges paths into result network.
//
// Paths are computed independently (fan-out) and then reduced through single accumulation pass (fan-in),
// so result doesn't depend on order of demands. When there are several shortest paths of equal length any of them is taken.
// Buildings without path are reported as unreachable. Once context is done remaining buildings are reported as unreachable too.
func RouteDemands(ctx context.Context, graph *StreetGraph, demands []Demand, verbose bool) (*ResultNetwork, error) {
	if verbose {
		fmt.Printf("Routing %d buildings...", len(demands))
	}
	st := time.Now()
	result := newResultNetwork()
	contributions := make([]contribution, 0, len(demands))
	source := graph.SourceNode()
	for i, demand := range demands {
		if ctx.Err() != nil {
			for _, rest := range demands[i:] {
				result.unreachable = append(result.unreachable, UnreachableBuildingWarning{BuildingID: rest.BuildingID, Power: rest.Power, Reason: REASON_DEADLINE})
			}
			break
		}
		contrib, ok := buildContribution(graph, source, demand)
		if !ok {
			result.unreachable = append(result.unreachable, UnreachableBuildingWarning{BuildingID: demand.BuildingID, Power: demand.Power, Reason: REASON_NO_PATH})
			continue
		}
		contributions = append(contributions, contrib)
	}
	for _, contrib := range contributions {
		err := result.merge(graph, contrib)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't merge path of building '%s'", contrib.buildingID)
		}
	}
	sort.Strings(result.connected)
	if verbose {
		fmt.Printf("Done in %v\n\tConnected: %d\n\tUnreachable: %d\n\tNetwork edges: %d\n", time.Since(st), len(result.connected), len(result.unreachable), len(result.edges))
		for _, warn := range result.unreachable {
			fmt.Printf("\t[WARNING]: %s\n", warn)
		}
	}
	return result, nil
}

// buildContribution converts shortest path of single building to list of edge keys.
// Every edge is listed once even if path would visit it twice. Buildings located on street nodes have their
// house connection stub appended.
func buildContribution(graph *StreetGraph, source NodeID, demand Demand) (contribution, bool) {
	path, _, ok := graph.shortestPath(source, demand.Node)
	if !ok {
		return contribution{}, false
	}
	keys := make([]EdgeKey, 0, len(path))
	seen := make(map[EdgeKey]struct{}, len(path))
	for i := 1; i < len(path); i++ {
		key := newEdgeKey(path[i-1], path[i])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if stub, ok := graph.houseStub(demand.Node); ok {
		keys = append(keys, stub)
	}
	return contribution{
		buildingID: demand.BuildingID,
		power:      demand.Power,
		path:       keys,
	}, true
}
