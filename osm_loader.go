package heatnet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

type osmWay struct {
	ID    osm.WayID
	Name  string
	Nodes []osm.NodeID
}

// newOSMScanner guesses file extension and prepares correct scanner
func newOSMScanner(ctx context.Context, filename string, file io.Reader) (OSMScanner, error) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml":
		return osmxml.New(ctx, file), nil
	case ".pbf":
		return osmpbf.New(ctx, file, 4), nil
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}

// ImportStreetsFromOSM reads ways matching configuration and returns them as street lines in EPSG:3857 (meters).
// The street network has to measure such lines with WithGeodesicLengths.
// Ways are not split at intersections: shared vertices become the same graph node anyway.
func ImportStreetsFromOSM(ctx context.Context, filename string, cfg *OsmConfiguration, verbose bool) ([]StreetLine, error) {
	if verbose {
		fmt.Printf("Opening file: '%s'...\n", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer file.Close()

	/* Process ways */
	if verbose {
		fmt.Printf("\tProcessing ways... ")
	}
	st := time.Now()
	ways := []osmWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	{
		scannerWays, err := newOSMScanner(ctx, filename, file)
		if err != nil {
			return nil, err
		}
		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != "way" {
				continue
			}
			way := obj.(*osm.Way)
			tag := way.Tags.Find(cfg.EntityName)
			if tag == "" || !cfg.CheckTag(tag) {
				continue
			}
			area := way.Tags.Find("area")
			if area != "" && area != "no" {
				continue
			}
			preparedWay := osmWay{
				ID:    way.ID,
				Name:  way.Tags.Find("name"),
				Nodes: make([]osm.NodeID, 0, len(way.Nodes)),
			}
			for _, node := range way.Nodes {
				preparedWay.Nodes = append(preparedWay.Nodes, node.ID)
				nodesSeen[node.ID] = struct{}{}
			}
			ways = append(ways, preparedWay)
		}
		err = scannerWays.Err()
		scannerWays.Close()
		if err != nil {
			return nil, errors.Wrap(err, "Scanner error on Ways")
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n\t\tWays: %d\n", time.Since(st), len(ways))
	}

	// Seek file to start
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking")
	}

	/* Process nodes */
	if verbose {
		fmt.Printf("\tProcessing nodes... ")
	}
	st = time.Now()
	nodes := make(map[osm.NodeID]orb.Point, len(nodesSeen))
	{
		scannerNodes, err := newOSMScanner(ctx, filename, file)
		if err != nil {
			return nil, err
		}
		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != "node" {
				continue
			}
			node := obj.(*osm.Node)
			if _, ok := nodesSeen[node.ID]; ok {
				delete(nodesSeen, node.ID)
				nodes[node.ID] = pointToEuclidean(orb.Point{node.Lon, node.Lat})
			}
		}
		err = scannerNodes.Err()
		scannerNodes.Close()
		if err != nil {
			return nil, errors.Wrap(err, "Scanner error on Nodes")
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n\t\tNodes: %d\n", time.Since(st), len(nodes))
	}

	lines := make([]StreetLine, 0, len(ways))
	for _, way := range ways {
		geom := make(orb.LineString, 0, len(way.Nodes))
		for _, nodeID := range way.Nodes {
			pt, ok := nodes[nodeID]
			if !ok {
				return nil, fmt.Errorf("Missing node with id: %d (way %d)", nodeID, way.ID)
			}
			geom = append(geom, pt)
		}
		geom = removeConsecutiveDuplicates(geom)
		if len(geom) < 2 {
			if verbose {
				fmt.Printf("\t[WARNING]: Way with %d distinct nodes met. Way ID: '%d'\n", len(geom), way.ID)
			}
			continue
		}
		lines = append(lines, StreetLine{
			ID:   int(way.ID),
			Ref:  fmt.Sprintf("way/%d", way.ID),
			Name: strings.TrimSpace(way.Name),
			Geom: geom,
		})
	}
	return lines, nil
}
