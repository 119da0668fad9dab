package heatnet

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Simultaneity factor constants: GLF(n) = a + b / (1 + (n/c)^d)
const (
	glfA = 0.4497
	glfB = 0.5512
	glfC = 53.8483
	glfD = 1.7627
)

const (
	// Ground temperature for buried pipes, °C
	groundTemperature = 10.0
	hoursPerYear      = 8760.0
	// Supply and return pipes run in parallel
	pipesPerTrench = 2.0
)

// Hydraulics is the sizing result of a single edge
type Hydraulics struct {
	SimultaneityFactor float64
	// kW
	PeakPower float64
	// l/s
	VolumetricFlow float64
	// Nominal diameter, mm
	DiameterClass int
	// mm
	InnerDiameter float64
	CatalogIndex  int
	// m/s
	Velocity float64
	// kWh/a
	AnnualLoss                float64
	AnnualLossExtraInsulation float64
}

// HydraulicConfig is everything sizing depends on besides accumulated edge state
type HydraulicConfig struct {
	SupplyTemperature float64
	ReturnTemperature float64
	// Do not truncate temperatures to integers for water properties lookup and flow temperature difference
	ExactTemperatures bool
	Catalog           PipeCatalog
}

// Validate checks that temperatures and catalog allow sizing
func (cfg HydraulicConfig) Validate() error {
	if cfg.flowTemperatureDifference() <= 0 {
		return &ConfigError{Field: "temperatures", Reason: fmt.Sprintf("supply temperature (%g) must exceed return temperature (%g)", cfg.SupplyTemperature, cfg.ReturnTemperature)}
	}
	return cfg.Catalog.Validate()
}

// SimultaneityFactor returns de-rating factor for n buildings. Strictly decreasing, bounded by (a, a+b].
func SimultaneityFactor(n int) float64 {
	return glfA + glfB/(1+math.Pow(float64(n)/glfC, glfD))
}

func (cfg HydraulicConfig) lookupTemperature() float64 {
	if cfg.ExactTemperatures {
		return cfg.SupplyTemperature
	}
	return float64(int(cfg.SupplyTemperature))
}

func (cfg HydraulicConfig) flowTemperatureDifference() float64 {
	if cfg.ExactTemperatures {
		return cfg.SupplyTemperature - cfg.ReturnTemperature
	}
	return float64(int(cfg.SupplyTemperature) - int(cfg.ReturnTemperature))
}

// VolumetricFlow returns flow (l/s) needed to transfer given power (kW)
func (cfg HydraulicConfig) VolumetricFlow(peakPower float64) float64 {
	t := cfg.lookupTemperature()
	return peakPower / (waterDensityAt(t) * waterSpecificHeatAt(t) * cfg.flowTemperatureDifference())
}

// AnnualLoss returns heat loss (kWh/a) of supply and return pipes with given heat transfer coefficient
func (cfg HydraulicConfig) AnnualLoss(uValue, length float64) float64 {
	meanTemperature := (cfg.SupplyTemperature + cfg.ReturnTemperature) / 2
	deltaT := meanTemperature - groundTemperature
	return hoursPerYear * pipesPerTrench * uValue * deltaT * length / 1000
}

// SizeEdge calculates hydraulic attributes from accumulated state of an edge. It is a pure function.
func (cfg HydraulicConfig) SizeEdge(kind EdgeKind, length, attachedPower float64, buildingCount int) Hydraulics {
	glf := SimultaneityFactor(buildingCount)
	peakPower := attachedPower * glf
	flow := cfg.VolumetricFlow(peakPower)
	idx := cfg.Catalog.selectClass(flow, kind)
	class := cfg.Catalog[idx]
	r := class.InnerDiameter / 2
	return Hydraulics{
		SimultaneityFactor:        glf,
		PeakPower:                 peakPower,
		VolumetricFlow:            flow,
		DiameterClass:             class.DN,
		InnerDiameter:             class.InnerDiameter,
		CatalogIndex:              idx,
		Velocity:                  flow * 1000 / (math.Pi * r * r), // l/s over mm^2 to m/s
		AnnualLoss:                cfg.AnnualLoss(class.UValue, length),
		AnnualLossExtraInsulation: cfg.AnnualLoss(class.UValueExtraInsulation, length),
	}
}

// SizeNetwork calculates hydraulic attributes of every edge of final result network.
// Edges are independent, so they are sized by a pool of workers; each worker writes to its own edges only.
// It must not run while demands are still being merged.
func SizeNetwork(ctx context.Context, result *ResultNetwork, cfg HydraulicConfig, workers int, verbose bool) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "Can't size network")
	}
	if verbose {
		fmt.Printf("Sizing %d edges...", result.EdgesNum())
	}
	st := time.Now()
	if workers < 1 {
		workers = 1
	}
	edges := result.Edges()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, edge := range edges {
		edge := edge
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			hydraulics := cfg.SizeEdge(edge.Kind, edge.Length, edge.AttachedPower, edge.BuildingCount)
			edge.Hydraulics = &hydraulics
			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		return errors.Wrap(err, "Sizing has been interrupted")
	}
	result.sized = true
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	return nil
}
