package heatnet

import (
	"sort"
)

// DiameterSummary aggregates network edges of single diameter class
type DiameterSummary struct {
	DN                     int
	HouseConnections       int
	HouseConnectionsLength float64
	// Length of street and source connection pipes, m
	TrenchLength float64
	// MWh/a
	Loss                float64
	LossExtraInsulation float64
}

// ProfileSummary aggregates connected buildings of single load profile
type ProfileSummary struct {
	LoadProfile string
	Buildings   int
	// MWh/a
	AnnualDemand float64
	// kW
	Power float64
}

// Summary is the overview of designed network
type Summary struct {
	SupplyTemperature float64
	ReturnTemperature float64
	Diameters         []DiameterSummary
	Profiles          []ProfileSummary
	// MW, the largest peak power over all edges
	MaxPeakPower float64
	// Simultaneity factor for total number of connected buildings
	SimultaneityFactor float64
	ConnectedBuildings int
	Unreachable        int
	TotalDiameters     DiameterSummary
	TotalProfiles      ProfileSummary
}

// Summarize groups sized network by diameter classes and connected buildings by load profiles.
// Every diameter class of catalog and every configured load profile is listed even if nothing falls into it.
func Summarize(result *ResultNetwork, buildings []Building, cfg Config) Summary {
	summary := Summary{
		SupplyTemperature:  cfg.SupplyTemperature,
		ReturnTemperature:  cfg.ReturnTemperature,
		Diameters:          make([]DiameterSummary, len(cfg.PipeCatalog)),
		ConnectedBuildings: len(result.Connected()),
		Unreachable:        len(result.Unreachable()),
	}
	for i, class := range cfg.PipeCatalog {
		summary.Diameters[i].DN = class.DN
	}
	for _, edge := range result.Edges() {
		if edge.Hydraulics == nil {
			continue
		}
		if peak := edge.Hydraulics.PeakPower / 1000; peak > summary.MaxPeakPower {
			summary.MaxPeakPower = peak
		}
		row := &summary.Diameters[edge.Hydraulics.CatalogIndex]
		if edge.Kind == EDGE_HOUSE_CONNECTION {
			row.HouseConnections++
			row.HouseConnectionsLength += edge.Length
		} else {
			row.TrenchLength += edge.Length
		}
		row.Loss += edge.Hydraulics.AnnualLoss / 1000
		row.LossExtraInsulation += edge.Hydraulics.AnnualLossExtraInsulation / 1000
	}
	for _, row := range summary.Diameters {
		summary.TotalDiameters.HouseConnections += row.HouseConnections
		summary.TotalDiameters.HouseConnectionsLength += row.HouseConnectionsLength
		summary.TotalDiameters.TrenchLength += row.TrenchLength
		summary.TotalDiameters.Loss += row.Loss
		summary.TotalDiameters.LossExtraInsulation += row.LossExtraInsulation
	}

	connected := make(map[string]struct{}, len(result.Connected()))
	for _, id := range result.Connected() {
		connected[id] = struct{}{}
	}
	profiles := make(map[string]*ProfileSummary, len(cfg.LoadProfiles))
	order := make([]string, 0, len(cfg.LoadProfiles))
	for _, profile := range cfg.LoadProfiles {
		if _, ok := profiles[profile]; ok {
			continue
		}
		profiles[profile] = &ProfileSummary{LoadProfile: profile}
		order = append(order, profile)
	}
	extra := []string{}
	for _, building := range buildings {
		if _, ok := connected[building.ID]; !ok {
			continue
		}
		row, ok := profiles[building.LoadProfile]
		if !ok {
			row = &ProfileSummary{LoadProfile: building.LoadProfile}
			profiles[building.LoadProfile] = row
			extra = append(extra, building.LoadProfile)
		}
		row.Buildings++
		row.AnnualDemand += building.AnnualDemand / 1000
		row.Power += building.Power
	}
	sort.Strings(extra)
	order = append(order, extra...)
	summary.Profiles = make([]ProfileSummary, 0, len(order))
	for _, profile := range order {
		row := *profiles[profile]
		summary.Profiles = append(summary.Profiles, row)
		summary.TotalProfiles.Buildings += row.Buildings
		summary.TotalProfiles.AnnualDemand += row.AnnualDemand
		summary.TotalProfiles.Power += row.Power
	}
	summary.SimultaneityFactor = SimultaneityFactor(summary.TotalProfiles.Buildings)
	return summary
}
