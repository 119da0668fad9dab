package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

type inputFlags struct {
	configFile    string
	streetsFile   string
	osmFile       string
	buildingsFile string
	sourceFile    string
	lonlat        bool
	verbose       bool
}

func (flags *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "YAML configuration file (defaults are used if omitted)")
	cmd.Flags().StringVar(&flags.streetsFile, "streets", "", "GeoJSON file with street lines")
	cmd.Flags().StringVar(&flags.osmFile, "osm", "", "OSM file (*.osm / *.osm.pbf) to take streets from instead of GeoJSON")
	cmd.Flags().StringVar(&flags.buildingsFile, "buildings", "", "GeoJSON file with buildings (polygons or points)")
	cmd.Flags().StringVar(&flags.sourceFile, "source", "", "GeoJSON file with heat source point")
	cmd.Flags().BoolVar(&flags.lonlat, "lonlat", false, "Input GeoJSON coordinates are WGS84 longitude/latitude")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print progress")
	cmd.MarkFlagsOneRequired("streets", "osm")
	cmd.MarkFlagsMutuallyExclusive("streets", "osm")
	_ = cmd.MarkFlagRequired("buildings")
	_ = cmd.MarkFlagRequired("source")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "heatnet",
		Short: "District heating network design along streets",
	}

	rootCmd.AddCommand(designCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(catalogCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func designCmd() *cobra.Command {
	flags := &inputFlags{}
	var out, geojsonOut, geomFormat string
	var strict bool
	var timeout time.Duration
	var workers int

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Route buildings to the source and size every pipe",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDesign(flags, designOptions{
				out:        out,
				geojsonOut: geojsonOut,
				geomFormat: geomFormat,
				strict:     strict,
				timeout:    timeout,
				workers:    workers,
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "network.csv", "Base name of 'Comma-Separated Values' (CSV) output. E.g.: 'net.csv' produces 'net_edges.csv', 'net_unreachable.csv', 'net_summary_dn.csv', 'net_summary_profiles.csv'")
	cmd.Flags().StringVar(&geojsonOut, "geojson", "", "Write network as GeoJSON to this file as well")
	cmd.Flags().StringVar(&geomFormat, "geomf", "wkt", "Format of output geometry in CSV. Expected values: wkt / geojson")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if any building can not be attached to streets")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Deadline for OSM import and routing. Buildings left after it are reported unreachable (0 = no deadline)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of sizing workers (0 = value from configuration)")
	return cmd
}

func checkCmd() *cobra.Command {
	flags := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and inputs without designing a network",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCheck(flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func catalogCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print pipe catalog in use",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCatalog(configFile)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file (defaults are used if omitted)")
	return cmd
}
