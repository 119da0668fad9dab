package heatnet

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestMiddlePoint(t *testing.T) {
	p1 := orb.Point{2, 4}
	p2 := orb.Point{6, -2}
	res := orb.Point{4, 1}
	mpt := middlePointSegment(p1, p2)
	if mpt != res {
		t.Errorf("Middle point must be %v, but got %v", res, mpt)
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{10, 0}
	cases := []struct {
		p        orb.Point
		expected orb.Point
	}{
		{orb.Point{3, 5}, orb.Point{3, 0}},
		{orb.Point{-4, 1}, orb.Point{0, 0}},
		{orb.Point{14, -2}, orb.Point{10, 0}},
		{orb.Point{10, 0}, orb.Point{10, 0}},
	}
	for i, c := range cases {
		got := closestPointOnSegment(a, b, c.p)
		if got != c.expected {
			t.Errorf("Case %d: closest point must be %v, but got %v", i, c.expected, got)
		}
	}
	degenerated := closestPointOnSegment(a, a, orb.Point{1, 1})
	if degenerated != a {
		t.Errorf("Closest point on degenerated segment must be %v, but got %v", a, degenerated)
	}
}

func TestNearestSegment(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}, {10, 10}}
	idx, dist := nearestSegment(line, orb.Point{12, 6})
	if idx != 2 {
		t.Errorf("Nearest segment must be 2, but got %d", idx)
	}
	if math.Abs(dist-2) > 1e-9 {
		t.Errorf("Distance must be 2, but got %f", dist)
	}
	// Equally close to both segments: the first one wins
	idx, _ = nearestSegment(line, orb.Point{11, -1})
	if idx != 1 {
		t.Errorf("Nearest segment on tie must be 1, but got %d", idx)
	}
	idx, dist = nearestSegment(orb.LineString{{0, 0}}, orb.Point{1, 1})
	if idx != -1 || !math.IsInf(dist, 1) {
		t.Errorf("Single point line must give (-1, +Inf), but got (%d, %f)", idx, dist)
	}
}

func TestRemoveConsecutiveDuplicates(t *testing.T) {
	line := orb.LineString{{0, 0}, {0, 0}, {1, 0}, {1, 0}, {1, 1}, {0, 0}}
	res := removeConsecutiveDuplicates(line)
	expected := orb.LineString{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	if !res.Equal(expected) {
		t.Errorf("Line must be %v, but got %v", expected, res)
	}
	if len(line) != 6 {
		t.Errorf("Source line must be untouched")
	}
}

func TestWebMercatorRoundTrip(t *testing.T) {
	pt := orb.Point{37.6417350769043, 55.751849391735284}
	back := pointToLonLat(pointToEuclidean(pt))
	if math.Abs(back.Lon()-pt.Lon()) > 1e-9 || math.Abs(back.Lat()-pt.Lat()) > 1e-9 {
		t.Errorf("Point must be %v after round trip, but got %v", pt, back)
	}
}
