package heatnet

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	earthR = 20037508.34
)

func epsg3857To4326(x, y float64) (float64, float64) {
	lon := x * 180 / earthR
	lat := math.Atan(math.Exp(y*math.Pi/earthR))*360/math.Pi - 90
	return lon, lat
}

func epsg4326To3857(lon, lat float64) (float64, float64) {
	x := lon * earthR / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * earthR / 180
	return x, y
}

// pointToEuclidean converts WGS84 point to EPSG:3857 (meters)
func pointToEuclidean(pt orb.Point) orb.Point {
	euclideanX, euclideanY := epsg4326To3857(pt.Lon(), pt.Lat())
	return orb.Point{euclideanX, euclideanY}
}

// pointToLonLat converts EPSG:3857 point back to WGS84
func pointToLonLat(pt orb.Point) orb.Point {
	lon, lat := epsg3857To4326(pt.X(), pt.Y())
	return orb.Point{lon, lat}
}

// geodesicDistance returns distance in meters between two EPSG:3857 points measured on the sphere.
// Planar distance in EPSG:3857 is stretched by 1/cos(latitude).
func geodesicDistance(p, q orb.Point) float64 {
	return geo.Distance(pointToLonLat(p), pointToLonLat(q))
}

func lineToEuclidean(line orb.LineString) orb.LineString {
	newLine := make(orb.LineString, len(line))
	for i, pt := range line {
		newLine[i] = pointToEuclidean(pt)
	}
	return newLine
}

func polygonToEuclidean(polygon orb.Polygon) orb.Polygon {
	newPolygon := make(orb.Polygon, len(polygon))
	for i, ring := range polygon {
		newPolygon[i] = orb.Ring(lineToEuclidean(orb.LineString(ring)))
	}
	return newPolygon
}

func lineToLonLat(line orb.LineString) orb.LineString {
	newLine := make(orb.LineString, len(line))
	for i, pt := range line {
		newLine[i] = pointToLonLat(pt)
	}
	return newLine
}
