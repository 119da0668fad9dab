package heatnet

import (
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomStreets(rng *rand.Rand, linesNum int) []StreetLine {
	lines := make([]StreetLine, 0, linesNum)
	for i := 0; i < linesNum; i++ {
		verticesNum := 2 + rng.Intn(5)
		geom := make(orb.LineString, 0, verticesNum)
		start := orb.Point{rng.Float64() * 1000, rng.Float64() * 1000}
		geom = append(geom, start)
		for j := 1; j < verticesNum; j++ {
			prev := geom[len(geom)-1]
			// Mix of short and long segments
			step := 5 + rng.Float64()*200
			angle := rng.Float64() * 2 * math.Pi
			geom = append(geom, orb.Point{prev.X() + step*math.Cos(angle), prev.Y() + step*math.Sin(angle)})
		}
		lines = append(lines, StreetLine{ID: i + 1, Geom: geom})
	}
	return lines
}

func bruteForceDistance(lines []*StreetLine, p orb.Point) float64 {
	best := math.Inf(1)
	for _, line := range lines {
		for i := 1; i < len(line.Geom); i++ {
			if d := planar.DistanceFromSegment(line.Geom[i-1], line.Geom[i], p); d < best {
				best = d
			}
		}
	}
	return best
}

func TestProjectMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	network, err := NewStreetNetwork(randomStreets(rng, 60))
	require.NoError(t, err)
	projector, err := NewProjector(network)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		p := orb.Point{rng.Float64()*1400 - 200, rng.Float64()*1400 - 200}
		conn, err := projector.Project(ENTITY_BUILDING, "b", p)
		require.NoError(t, err)

		expected := bruteForceDistance(network.Lines(), p)
		assert.InDelta(t, expected, conn.Distance, 1e-9, "point %v", p)
		assert.InDelta(t, expected, findDistance(p, conn.Point), 1e-6, "connection point %v of %v", conn.Point, p)

		line, ok := network.Line(conn.LineID)
		require.True(t, ok)
		_, onLine := nearestSegment(line.Geom, conn.Point)
		assert.InDelta(t, 0.0, onLine, 1e-6, "connection point must lie on its owning line")
	}
}

func TestProjectClampsToEndpoint(t *testing.T) {
	network, err := NewStreetNetwork([]StreetLine{
		{ID: 1, Geom: orb.LineString{{0, 0}, {10, 0}}},
	})
	require.NoError(t, err)
	projector, err := NewProjector(network)
	require.NoError(t, err)

	conn, err := projector.Project(ENTITY_BUILDING, "far", orb.Point{-3, 4})
	require.NoError(t, err)
	assert.Equal(t, orb.Point{0, 0}, conn.Point)
	assert.InDelta(t, 5.0, conn.Distance, 1e-12)
	assert.Equal(t, 1, conn.LineID)

	conn, err = projector.Project(ENTITY_BUILDING, "inner", orb.Point{7, -2})
	require.NoError(t, err)
	assert.Equal(t, orb.Point{7, 0}, conn.Point)
}

func TestProjectTieBreakByLineOrder(t *testing.T) {
	network, err := NewStreetNetwork([]StreetLine{
		{ID: 5, Geom: orb.LineString{{0, 2}, {10, 2}}},
		{ID: 3, Geom: orb.LineString{{0, -2}, {10, -2}}},
	})
	require.NoError(t, err)
	projector, err := NewProjector(network)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		conn, err := projector.Project(ENTITY_BUILDING, "mid", orb.Point{5, 0})
		require.NoError(t, err)
		assert.Equal(t, 5, conn.LineID)
		assert.Equal(t, orb.Point{5, 2}, conn.Point)
	}
}

func TestProjectErrors(t *testing.T) {
	network, err := NewStreetNetwork([]StreetLine{
		{ID: 1, Geom: orb.LineString{{0, 0}, {10, 0}}},
	})
	require.NoError(t, err)
	projector, err := NewProjector(network)
	require.NoError(t, err)

	_, err = projector.Project(ENTITY_SOURCE, "plant", orb.Point{math.NaN(), 0})
	var projErr *ProjectionError
	require.ErrorAs(t, err, &projErr)
	assert.Equal(t, ENTITY_SOURCE, projErr.Entity)
	assert.Equal(t, "plant", projErr.ID)

	empty := &Projector{}
	_, err = empty.Project(ENTITY_BUILDING, "b1", orb.Point{0, 0})
	require.ErrorAs(t, err, &projErr)
	assert.Equal(t, ENTITY_BUILDING, projErr.Entity)
	assert.Contains(t, projErr.Error(), "b1")
}
