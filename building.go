package heatnet

import (
	"github.com/paulmach/orb"
)

// Building is a heat consumer
type Building struct {
	ID       string
	Centroid orb.Point
	// Thermal power, kW
	Power float64
	// Heat demand, kWh/a. Used for summary only
	AnnualDemand float64
	LoadProfile  string
}

// isDemandBearing reports whether building has to be connected at all
func (building *Building) isDemandBearing() bool {
	return building.Power > 0
}

// Source is the heat source
type Source struct {
	ID   string
	Geom orb.Point
}
