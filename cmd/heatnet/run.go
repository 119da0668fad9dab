package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/LdDl/heatnet"
	"github.com/pkg/errors"
)

type designOptions struct {
	out        string
	geojsonOut string
	geomFormat string
	strict     bool
	timeout    time.Duration
	workers    int
}

type inputs struct {
	cfg       heatnet.Config
	streets   []heatnet.StreetLine
	buildings []heatnet.Building
	source    heatnet.Source
}

func loadConfig(fname string) (heatnet.Config, error) {
	if fname == "" {
		return heatnet.DefaultConfig(), nil
	}
	return heatnet.LoadConfig(fname)
}

// loadInputs reads configuration and input files. Context limits OSM import.
func loadInputs(ctx context.Context, flags *inputFlags) (*inputs, error) {
	cfg, err := loadConfig(flags.configFile)
	if err != nil {
		return nil, errors.Wrap(err, "Can't load configuration")
	}
	if flags.lonlat {
		cfg.Input.LonLat = true
	}
	in := &inputs{cfg: cfg}
	if flags.osmFile != "" {
		// OSM coordinates are always WGS84
		cfg.Input.LonLat = true
		in.cfg = cfg
		in.streets, err = heatnet.ImportStreetsFromOSM(ctx, flags.osmFile, &cfg.OSM, flags.verbose)
	} else {
		in.streets, err = heatnet.ReadStreetsGeoJSON(flags.streetsFile, cfg.Input)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't read streets")
	}
	in.buildings, err = heatnet.ReadBuildingsGeoJSON(flags.buildingsFile, cfg.Input)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read buildings")
	}
	in.source, err = heatnet.ReadSourceGeoJSON(flags.sourceFile, cfg.Input)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read source")
	}
	return in, nil
}

// designerOptions maps command line flags to designer options. Workers from configuration are kept unless flag is set.
func designerOptions(flags *inputFlags, opts designOptions) []func(*heatnet.Designer) {
	options := []func(*heatnet.Designer){
		heatnet.WithVerbose(flags.verbose),
		heatnet.WithStrictProjection(opts.strict),
	}
	if opts.workers > 0 {
		options = append(options, heatnet.WithWorkers(opts.workers))
	}
	return options
}

func runDesign(flags *inputFlags, opts designOptions) error {
	ctx := context.Background()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	in, err := loadInputs(ctx, flags)
	if err != nil {
		return err
	}
	designer := heatnet.NewDesigner(in.cfg, designerOptions(flags, opts)...)
	if flags.verbose {
		fmt.Println(designer)
	}

	design, err := designer.Design(ctx, in.streets, in.source, in.buildings)
	if err != nil {
		return err
	}

	err = design.ExportToCSV(opts.out, opts.geomFormat)
	if err != nil {
		return err
	}
	if opts.geojsonOut != "" {
		err = heatnet.ExportToGeoJSON(design.Network, opts.geojsonOut, in.cfg.Input.LonLat)
		if err != nil {
			return err
		}
	}
	printSummary(design.Summary)
	return nil
}

func runCheck(flags *inputFlags) error {
	in, err := loadInputs(context.Background(), flags)
	if err != nil {
		return err
	}
	network, err := heatnet.NewStreetNetwork(in.streets, heatnet.WithGeodesicLengths(in.cfg.Input.LonLat))
	if err != nil {
		return err
	}
	projector, err := heatnet.NewProjector(network)
	if err != nil {
		return err
	}
	_, err = projector.Project(heatnet.ENTITY_SOURCE, in.source.ID, in.source.Geom)
	if err != nil {
		return err
	}
	failed := 0
	withDemand := 0
	for _, building := range in.buildings {
		if building.Power <= 0 {
			continue
		}
		withDemand++
		if _, err := projector.Project(heatnet.ENTITY_BUILDING, building.ID, building.Centroid); err != nil {
			fmt.Printf("[WARNING]: %s\n", err)
			failed++
		}
	}
	fmt.Printf("Street lines: %d\nBuildings with demand: %d (not attachable: %d)\nSource: '%s'\n", len(network.Lines()), withDemand, failed, in.source.ID)
	return nil
}

func runCatalog(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DN\tdi [mm]\tU [W/mK]\tU extra [W/mK]\tmax flow [l/s]")
	for _, class := range cfg.PipeCatalog {
		fmt.Fprintf(w, "%d\t%.1f\t%.4f\t%.4f\t%.3f\n", class.DN, class.InnerDiameter, class.UValue, class.UValueExtraInsulation, class.MaxVolumetricFlow)
	}
	return w.Flush()
}

func printSummary(summary heatnet.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Supply / return temperature:\t%g / %g °C\n", summary.SupplyTemperature, summary.ReturnTemperature)
	fmt.Fprintf(w, "Connected buildings:\t%d\n", summary.ConnectedBuildings)
	fmt.Fprintf(w, "Unreachable buildings:\t%d\n", summary.Unreachable)
	fmt.Fprintf(w, "Max. peak power (incl. GLF):\t%.3f MW\n", summary.MaxPeakPower)
	fmt.Fprintf(w, "GLF:\t%.4f\n", summary.SimultaneityFactor)
	fmt.Fprintf(w, "Trench length:\t%.1f m\n", summary.TotalDiameters.TrenchLength)
	fmt.Fprintf(w, "House connections length:\t%.1f m\n", summary.TotalDiameters.HouseConnectionsLength)
	fmt.Fprintf(w, "Loss:\t%.3f MWh/a\n", summary.TotalDiameters.Loss)
	fmt.Fprintf(w, "Loss with extra insulation:\t%.3f MWh/a\n", summary.TotalDiameters.LossExtraInsulation)
	w.Flush()
}
