package heatnet

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	buildings := tJunctionBuildings()
	buildings[0].LoadProfile = "EFH"
	buildings[0].AnnualDemand = 20000
	buildings[1].LoadProfile = "ZZZ"
	buildings[1].AnnualDemand = 50000
	graph, demands := buildTestGraph(t, tJunctionStreets(), Source{ID: "plant", Geom: orb.Point{0, 0}}, buildings)
	result, err := RouteDemands(context.Background(), graph, demands, false)
	require.NoError(t, err)
	cfg := DefaultConfig()
	require.NoError(t, SizeNetwork(context.Background(), result, cfg.Hydraulics(), 2, false))

	summary := Summarize(result, buildings, cfg)
	assert.Equal(t, 90.0, summary.SupplyTemperature)
	assert.Equal(t, 60.0, summary.ReturnTemperature)
	assert.Equal(t, 2, summary.ConnectedBuildings)
	assert.Equal(t, 0, summary.Unreachable)
	assert.InDelta(t, SimultaneityFactor(2), summary.SimultaneityFactor, 1e-12)
	assert.InDelta(t, 30*SimultaneityFactor(2)/1000, summary.MaxPeakPower, 1e-12)

	require.Len(t, summary.Diameters, len(cfg.PipeCatalog))
	dn20 := summary.Diameters[0]
	assert.Equal(t, 20, dn20.DN)
	assert.Equal(t, 2, dn20.HouseConnections)
	assert.InDelta(t, 4.0, dn20.HouseConnectionsLength, 1e-9)
	assert.Zero(t, dn20.TrenchLength)
	dn32 := summary.Diameters[2]
	assert.Equal(t, 32, dn32.DN)
	assert.Zero(t, dn32.HouseConnections)
	assert.InDelta(t, 20.0, dn32.TrenchLength, 1e-9)
	assert.InDelta(t, cfg.Hydraulics().AnnualLoss(cfg.PipeCatalog[2].UValue, 20)/1000, dn32.Loss, 1e-9)

	assert.Equal(t, 2, summary.TotalDiameters.HouseConnections)
	assert.InDelta(t, 20.0, summary.TotalDiameters.TrenchLength, 1e-9)
	assert.InDelta(t, dn20.Loss+dn32.Loss, summary.TotalDiameters.Loss, 1e-9)

	// Configured profiles go first, unknown ones are appended
	require.Len(t, summary.Profiles, len(cfg.LoadProfiles)+1)
	assert.Equal(t, "EFH", summary.Profiles[0].LoadProfile)
	assert.Equal(t, 1, summary.Profiles[0].Buildings)
	assert.InDelta(t, 20.0, summary.Profiles[0].AnnualDemand, 1e-9)
	assert.InDelta(t, 10.0, summary.Profiles[0].Power, 1e-9)
	last := summary.Profiles[len(summary.Profiles)-1]
	assert.Equal(t, "ZZZ", last.LoadProfile)
	assert.Equal(t, 1, last.Buildings)
	assert.Equal(t, "MFH", summary.Profiles[1].LoadProfile)
	assert.Zero(t, summary.Profiles[1].Buildings)

	assert.Equal(t, 2, summary.TotalProfiles.Buildings)
	assert.InDelta(t, 70.0, summary.TotalProfiles.AnnualDemand, 1e-9)
	assert.InDelta(t, 30.0, summary.TotalProfiles.Power, 1e-9)
}

func TestSummarizeIgnoresUnreachable(t *testing.T) {
	streets := append(tJunctionStreets(), StreetLine{ID: 3, Geom: orb.LineString{{100, 100}, {110, 100}}})
	buildings := append(tJunctionBuildings(), Building{ID: "C", Centroid: orb.Point{112, 100}, Power: 5, LoadProfile: "EFH"})
	graph, demands := buildTestGraph(t, streets, Source{ID: "plant", Geom: orb.Point{0, 0}}, buildings)
	result, err := RouteDemands(context.Background(), graph, demands, false)
	require.NoError(t, err)
	cfg := DefaultConfig()
	require.NoError(t, SizeNetwork(context.Background(), result, cfg.Hydraulics(), 1, false))

	summary := Summarize(result, buildings, cfg)
	assert.Equal(t, 2, summary.ConnectedBuildings)
	assert.Equal(t, 1, summary.Unreachable)
	assert.Equal(t, 2, summary.TotalProfiles.Buildings)
	assert.InDelta(t, 30.0, summary.TotalProfiles.Power, 1e-9)
	assert.Zero(t, summary.Profiles[0].Buildings)
}

func TestSummarizeBuildingOnStreetNode(t *testing.T) {
	buildings := append(tJunctionBuildings(), Building{ID: "C", Centroid: orb.Point{5, 0}, Power: 7})
	graph, demands := buildTestGraph(t, tJunctionStreets(), Source{ID: "plant", Geom: orb.Point{0, 0}}, buildings)
	result, err := RouteDemands(context.Background(), graph, demands, false)
	require.NoError(t, err)
	cfg := DefaultConfig()
	require.NoError(t, SizeNetwork(context.Background(), result, cfg.Hydraulics(), 1, false))

	summary := Summarize(result, buildings, cfg)
	assert.Equal(t, 3, summary.ConnectedBuildings)
	assert.Equal(t, 3, summary.TotalDiameters.HouseConnections)
	assert.InDelta(t, 4.0, summary.TotalDiameters.HouseConnectionsLength, 1e-9)
	assert.InDelta(t, 20.0, summary.TotalDiameters.TrenchLength, 1e-9)
	assert.InDelta(t, 37.0, summary.TotalProfiles.Power, 1e-9)
}
