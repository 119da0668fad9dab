package heatnet

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts orb.LineString) string {
	b, err := geojson.NewLineStringGeometry(lineToCoordinates(pts)).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

func lineToCoordinates(pts orb.LineString) [][]float64 {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].X(), pts[i].Y()}
	}
	return pts2d
}

func coordinatesToLine(coords [][]float64) (orb.LineString, error) {
	line := make(orb.LineString, len(coords))
	for i := range coords {
		if len(coords[i]) < 2 {
			return nil, fmt.Errorf("Coordinate %d has %d dimensions", i, len(coords[i]))
		}
		line[i] = orb.Point{coords[i][0], coords[i][1]}
	}
	return line, nil
}

func coordinatesToPolygon(coords [][][]float64) (orb.Polygon, error) {
	polygon := make(orb.Polygon, len(coords))
	for i := range coords {
		ring, err := coordinatesToLine(coords[i])
		if err != nil {
			return nil, err
		}
		polygon[i] = orb.Ring(ring)
	}
	return polygon, nil
}

func readFeatureCollection(fname string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read file")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't parse GeoJSON file '%s'", fname)
	}
	return fc, nil
}

// propertyFloat extracts numeric property which could be stored as a number or as a string
func propertyFloat(feature *geojson.Feature, key string) (float64, bool) {
	value, ok := feature.Properties[key]
	if !ok || value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func propertyString(feature *geojson.Feature, key string) string {
	if key == "" {
		return ""
	}
	value, ok := feature.Properties[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}

// featureID returns identifier from given property, feature ID or index of feature
func featureID(feature *geojson.Feature, key string, idx int) string {
	if id := propertyString(feature, key); id != "" {
		return id
	}
	if feature.ID != nil {
		return fmt.Sprintf("%v", feature.ID)
	}
	return strconv.Itoa(idx)
}

// ReadStreetsGeoJSON reads LineString and MultiLineString features as street lines.
// Every part of MultiLineString becomes a separate line. Lines are numbered sequentially and keep reference
// to input data: value of street identifier attribute (or feature ID), suffixed with '#<part>' for MultiLineString parts.
func ReadStreetsGeoJSON(fname string, cfg InputConfig) ([]StreetLine, error) {
	fc, err := readFeatureCollection(fname)
	if err != nil {
		return nil, err
	}
	lines := []StreetLine{}
	nextID := 0
	for idx, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		ref := featureID(feature, cfg.StreetIDAttribute, idx)
		var parts [][][]float64
		switch feature.Geometry.Type {
		case geojson.GeometryLineString:
			parts = [][][]float64{feature.Geometry.LineString}
		case geojson.GeometryMultiLineString:
			parts = feature.Geometry.MultiLineString
		default:
			return nil, &InvalidTopologyError{LineID: nextID, Ref: ref, Reason: fmt.Sprintf("unexpected geometry type '%s'", feature.Geometry.Type)}
		}
		name := propertyString(feature, cfg.StreetNameAttribute)
		for part, coords := range parts {
			partRef := ref
			if feature.Geometry.Type == geojson.GeometryMultiLineString {
				partRef = fmt.Sprintf("%s#%d", ref, part)
			}
			geom, err := coordinatesToLine(coords)
			if err != nil {
				return nil, &InvalidTopologyError{LineID: nextID, Ref: partRef, Reason: err.Error()}
			}
			if cfg.LonLat {
				geom = lineToEuclidean(geom)
			}
			lines = append(lines, StreetLine{
				ID:   nextID,
				Ref:  partRef,
				Name: name,
				Geom: geom,
			})
			nextID++
		}
	}
	return lines, nil
}

// ReadBuildingsGeoJSON reads building footprints (or points) with their demand.
// Footprints are represented by their area centroid, which is taken after projection to EPSG:3857.
// Buildings without power attribute get zero power: it is an error if none of buildings has it.
func ReadBuildingsGeoJSON(fname string, cfg InputConfig) ([]Building, error) {
	fc, err := readFeatureCollection(fname)
	if err != nil {
		return nil, err
	}
	buildings := make([]Building, 0, len(fc.Features))
	withoutPower := 0
	for idx, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		id := featureID(feature, cfg.BuildingIDAttribute, idx)
		var centroid orb.Point
		switch feature.Geometry.Type {
		case geojson.GeometryPoint:
			if len(feature.Geometry.Point) < 2 {
				return nil, fmt.Errorf("Building '%s' has bad point geometry", id)
			}
			centroid = orb.Point{feature.Geometry.Point[0], feature.Geometry.Point[1]}
			if cfg.LonLat {
				centroid = pointToEuclidean(centroid)
			}
		case geojson.GeometryPolygon:
			polygon, err := coordinatesToPolygon(feature.Geometry.Polygon)
			if err != nil {
				return nil, errors.Wrapf(err, "Building '%s'", id)
			}
			if cfg.LonLat {
				polygon = polygonToEuclidean(polygon)
			}
			centroid, _ = planar.CentroidArea(polygon)
		case geojson.GeometryMultiPolygon:
			multiPolygon := make(orb.MultiPolygon, 0, len(feature.Geometry.MultiPolygon))
			for _, coords := range feature.Geometry.MultiPolygon {
				polygon, err := coordinatesToPolygon(coords)
				if err != nil {
					return nil, errors.Wrapf(err, "Building '%s'", id)
				}
				if cfg.LonLat {
					polygon = polygonToEuclidean(polygon)
				}
				multiPolygon = append(multiPolygon, polygon)
			}
			centroid, _ = planar.CentroidArea(multiPolygon)
		default:
			return nil, fmt.Errorf("Building '%s' has unexpected geometry type '%s'", id, feature.Geometry.Type)
		}
		power, ok := propertyFloat(feature, cfg.PowerAttribute)
		if !ok {
			withoutPower++
		}
		annualDemand, _ := propertyFloat(feature, cfg.AnnualDemandAttribute)
		buildings = append(buildings, Building{
			ID:           id,
			Centroid:     centroid,
			Power:        power,
			AnnualDemand: annualDemand,
			LoadProfile:  propertyString(feature, cfg.LoadProfileAttribute),
		})
	}
	if len(buildings) > 0 && withoutPower == len(buildings) {
		return nil, fmt.Errorf("None of %d buildings has numeric power attribute '%s'. Check heat attribute in configuration", len(buildings), cfg.PowerAttribute)
	}
	if withoutPower > 0 {
		fmt.Printf("[WARNING]: %d of %d buildings have no numeric power attribute '%s' and will be ignored\n", withoutPower, len(buildings), cfg.PowerAttribute)
	}
	return buildings, nil
}

// ReadSourceGeoJSON reads the heat source. Only the first Point feature is used.
func ReadSourceGeoJSON(fname string, cfg InputConfig) (Source, error) {
	fc, err := readFeatureCollection(fname)
	if err != nil {
		return Source{}, err
	}
	for idx, feature := range fc.Features {
		if feature.Geometry == nil || feature.Geometry.Type != geojson.GeometryPoint || len(feature.Geometry.Point) < 2 {
			continue
		}
		geom := orb.Point{feature.Geometry.Point[0], feature.Geometry.Point[1]}
		if cfg.LonLat {
			geom = pointToEuclidean(geom)
		}
		return Source{
			ID:   featureID(feature, cfg.SourceIDAttribute, idx),
			Geom: geom,
		}, nil
	}
	return Source{}, fmt.Errorf("No point features in file '%s'", fname)
}

// PrepareGeoJSONNetwork returns result network as a collection of LineString features with every edge attribute.
// If lonlat is set geometries are converted back to WGS84.
func PrepareGeoJSONNetwork(result *ResultNetwork, lonlat bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, edge := range result.Edges() {
		geom := edge.Geom
		if lonlat {
			geom = lineToLonLat(geom)
		}
		feature := geojson.NewLineStringFeature(lineToCoordinates(geom))
		feature.SetProperty("type", edge.Kind.String())
		feature.SetProperty("length_m", edge.Length)
		feature.SetProperty("power_th_kw", edge.AttachedPower)
		feature.SetProperty("n_buildings", edge.BuildingCount)
		if edge.Hydraulics != nil {
			feature.SetProperty("glf", edge.Hydraulics.SimultaneityFactor)
			feature.SetProperty("power_th_glf_kw", edge.Hydraulics.PeakPower)
			feature.SetProperty("volume_flow_ls", edge.Hydraulics.VolumetricFlow)
			feature.SetProperty("dn_mm", edge.Hydraulics.DiameterClass)
			feature.SetProperty("velocity_ms", edge.Hydraulics.Velocity)
			feature.SetProperty("loss_kwh_a", edge.Hydraulics.AnnualLoss)
			feature.SetProperty("loss_extra_insulation_kwh_a", edge.Hydraulics.AnnualLossExtraInsulation)
		}
		fc.AddFeature(feature)
	}
	return fc
}

// ExportToGeoJSON writes result network to file
func ExportToGeoJSON(result *ResultNetwork, fname string, lonlat bool) error {
	b, err := PrepareGeoJSONNetwork(result, lonlat).MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can't marshal network")
	}
	err = os.WriteFile(fname, b, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}
