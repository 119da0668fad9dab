package heatnet

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// Designer runs the whole pipeline: projection, graph assembly, routing, sizing and summary
type Designer struct {
	cfg              Config
	verbose          bool
	strictProjection bool
	workers          int
}

func (designer *Designer) String() string {
	return fmt.Sprintf(`
Network designer parameters:
	supply_temperature: %g
	return_temperature: %g
	exact_temperatures: %t
	pipe_classes: %v
	strict_projection enabled?: %t
	workers: %d
	`,
		designer.cfg.SupplyTemperature,
		designer.cfg.ReturnTemperature,
		designer.cfg.ExactTemperatures,
		designer.cfg.PipeCatalog.DNs(),
		designer.strictProjection,
		designer.workers,
	)
}

func NewDesigner(cfg Config, options ...func(*Designer)) *Designer {
	designer := &Designer{
		cfg:              cfg,
		verbose:          false,
		strictProjection: false,
		workers:          cfg.Workers,
	}
	for _, option := range options {
		option(designer)
	}
	return designer
}

func WithVerbose(verbose bool) func(*Designer) {
	return func(designer *Designer) {
		designer.verbose = verbose
	}
}

// WithStrictProjection makes projection failure of any building fatal
func WithStrictProjection(strictProjection bool) func(*Designer) {
	return func(designer *Designer) {
		designer.strictProjection = strictProjection
	}
}

func WithWorkers(workers int) func(*Designer) {
	return func(designer *Designer) {
		designer.workers = workers
	}
}

// Design is the outcome of a designer run
type Design struct {
	Graph   *StreetGraph
	Network *ResultNetwork
	Summary Summary
	// Buildings skipped since they could not be attached to streets
	ProjectionErrors []*ProjectionError
}

// Design computes network for given inputs.
// Buildings with non-positive power are ignored. Context limits routing only: buildings left when it is done are
// reported unreachable while sizing still covers everything routed so far.
func (designer *Designer) Design(ctx context.Context, streets []StreetLine, source Source, buildings []Building) (*Design, error) {
	err := designer.cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "Bad configuration")
	}
	demandBearing, err := designer.filterBuildings(buildings)
	if err != nil {
		return nil, err
	}

	network, err := NewStreetNetwork(streets, WithGeodesicLengths(designer.cfg.Input.LonLat))
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare street network")
	}

	sourceConn, houses, skipped, err := designer.project(network, source, demandBearing)
	if err != nil {
		return nil, err
	}

	graph, err := AssembleStreetGraph(network, sourceConn, houses, designer.verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't assemble street graph")
	}

	demands := make([]Demand, 0, len(houses))
	powerByID := make(map[string]float64, len(demandBearing))
	for _, building := range demandBearing {
		powerByID[building.ID] = building.Power
	}
	for _, house := range houses {
		node, ok := graph.Node(house.Centroid)
		if !ok {
			return nil, fmt.Errorf("Building '%s' is missing in street graph", house.BuildingID)
		}
		demands = append(demands, Demand{BuildingID: house.BuildingID, Node: node, Power: powerByID[house.BuildingID]})
	}

	result, err := RouteDemands(ctx, graph, demands, designer.verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't route demands")
	}
	for _, projErr := range skipped {
		result.unreachable = append(result.unreachable, UnreachableBuildingWarning{BuildingID: projErr.ID, Power: powerByID[projErr.ID], Reason: REASON_NOT_PROJECTED})
	}

	// Sizing has to cover whatever has been routed even if routing deadline is exceeded
	err = SizeNetwork(context.WithoutCancel(ctx), result, designer.cfg.Hydraulics(), designer.workers, designer.verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't size network")
	}

	return &Design{
		Graph:            graph,
		Network:          result,
		Summary:          Summarize(result, demandBearing, designer.cfg),
		ProjectionErrors: skipped,
	}, nil
}

// filterBuildings drops buildings without demand and rejects malformed ones
func (designer *Designer) filterBuildings(buildings []Building) ([]Building, error) {
	demandBearing := make([]Building, 0, len(buildings))
	seen := make(map[string]struct{}, len(buildings))
	for _, building := range buildings {
		if math.IsNaN(building.Power) || math.IsInf(building.Power, 0) {
			return nil, fmt.Errorf("Building '%s' has non-finite power", building.ID)
		}
		if !building.isDemandBearing() {
			continue
		}
		if _, ok := seen[building.ID]; ok {
			return nil, fmt.Errorf("Duplicated building identifier '%s'", building.ID)
		}
		seen[building.ID] = struct{}{}
		demandBearing = append(demandBearing, building)
	}
	if designer.verbose && len(demandBearing) != len(buildings) {
		fmt.Printf("[WARNING]: %d of %d buildings have no demand and are ignored\n", len(buildings)-len(demandBearing), len(buildings))
	}
	return demandBearing, nil
}

// project finds connection points for the source and buildings and then splices all of them into streets.
// Splicing happens after every projection is done: projections are computed on unspliced street geometry.
func (designer *Designer) project(network *StreetNetwork, source Source, buildings []Building) (SourceConnection, []HouseConnection, []*ProjectionError, error) {
	if designer.verbose {
		fmt.Printf("Projecting source and %d buildings...", len(buildings))
	}
	st := time.Now()
	projector, err := NewProjector(network)
	if err != nil {
		return SourceConnection{}, nil, nil, errors.Wrap(err, "Can't prepare projector")
	}
	conn, err := projector.Project(ENTITY_SOURCE, source.ID, source.Geom)
	if err != nil {
		return SourceConnection{}, nil, nil, errors.Wrap(err, "Can't attach source")
	}
	sourceConn := SourceConnection{SourceID: source.ID, Geom: source.Geom, Connection: conn}

	houses := make([]HouseConnection, 0, len(buildings))
	skipped := []*ProjectionError{}
	for _, building := range buildings {
		conn, err := projector.Project(ENTITY_BUILDING, building.ID, building.Centroid)
		if err != nil {
			var projErr *ProjectionError
			if designer.strictProjection || !errors.As(err, &projErr) {
				return SourceConnection{}, nil, nil, errors.Wrap(err, "Can't attach building")
			}
			skipped = append(skipped, projErr)
			continue
		}
		houses = append(houses, HouseConnection{BuildingID: building.ID, Centroid: building.Centroid, Connection: conn})
	}

	spliced := 0
	connections := make([]Connection, 0, len(houses)+1)
	connections = append(connections, sourceConn.Connection)
	for _, house := range houses {
		connections = append(connections, house.Connection)
	}
	for _, conn := range connections {
		inserted, err := network.Splice(conn)
		if err != nil {
			return SourceConnection{}, nil, nil, errors.Wrap(err, "Can't splice connection point")
		}
		if inserted {
			spliced++
		}
	}
	if designer.verbose {
		fmt.Printf("Done in %v\n\tConnection points inserted: %d\n\tSkipped buildings: %d\n", time.Since(st), spliced, len(skipped))
		for _, projErr := range skipped {
			fmt.Printf("\t[WARNING]: %s\n", projErr)
		}
	}
	return sourceConn, houses, skipped, nil
}
