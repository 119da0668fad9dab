package heatnet

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ExportToCSV writes network edges, unreachable buildings and summary tables.
// If fname is 'net.csv' then 'net_edges.csv', 'net_unreachable.csv', 'net_summary_dn.csv' and 'net_summary_profiles.csv' are produced.
// geomFormat is either 'wkt' or 'geojson'.
func (design *Design) ExportToCSV(fname string, geomFormat string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameEdges := fmt.Sprintf(fnameParts[0] + "_edges.csv")
	fnameUnreachable := fmt.Sprintf(fnameParts[0] + "_unreachable.csv")
	fnameDiameters := fmt.Sprintf(fnameParts[0] + "_summary_dn.csv")
	fnameProfiles := fmt.Sprintf(fnameParts[0] + "_summary_profiles.csv")

	err := design.exportEdgesToCSV(fnameEdges, geomFormat)
	if err != nil {
		return errors.Wrap(err, "Can't export edges")
	}

	err = design.exportUnreachableToCSV(fnameUnreachable)
	if err != nil {
		return errors.Wrap(err, "Can't export unreachable buildings")
	}

	err = design.exportDiametersToCSV(fnameDiameters)
	if err != nil {
		return errors.Wrap(err, "Can't export diameters summary")
	}

	err = design.exportProfilesToCSV(fnameProfiles)
	if err != nil {
		return errors.Wrap(err, "Can't export load profiles summary")
	}
	return nil
}

func createCSV(fname string) (*os.File, *csv.Writer, error) {
	file, err := os.Create(fname)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't create file")
	}
	writer := csv.NewWriter(file)
	writer.Comma = ';'
	return file, writer, nil
}

// flushCSV writes buffered records and reports any error met while writing
func flushCSV(writer *csv.Writer) error {
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush records")
}

func (design *Design) exportEdgesToCSV(fname string, geomFormat string) error {
	file, writer, err := createCSV(fname)
	if err != nil {
		return err
	}
	defer file.Close()

	err = writer.Write([]string{"source_node", "target_node", "type", "length_m", "power_th_kw", "n_buildings", "glf", "power_th_glf_kw", "volume_flow_ls", "dn_mm", "velocity_ms", "loss_kwh_a", "loss_extra_insulation_kwh_a", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, edge := range design.Network.Edges() {
		geomStr := ""
		if strings.ToLower(geomFormat) == "geojson" {
			geomStr = PrepareGeoJSONLinestring(edge.Geom)
		} else {
			geomStr = PrepareWKTLinestring(edge.Geom)
		}
		hydraulics := Hydraulics{}
		if edge.Hydraulics != nil {
			hydraulics = *edge.Hydraulics
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", edge.Key.Source),
			fmt.Sprintf("%d", edge.Key.Target),
			edge.Kind.String(),
			fmt.Sprintf("%f", edge.Length),
			fmt.Sprintf("%f", edge.AttachedPower),
			fmt.Sprintf("%d", edge.BuildingCount),
			fmt.Sprintf("%f", hydraulics.SimultaneityFactor),
			fmt.Sprintf("%f", hydraulics.PeakPower),
			fmt.Sprintf("%f", hydraulics.VolumetricFlow),
			fmt.Sprintf("%d", hydraulics.DiameterClass),
			fmt.Sprintf("%f", hydraulics.Velocity),
			fmt.Sprintf("%f", hydraulics.AnnualLoss),
			fmt.Sprintf("%f", hydraulics.AnnualLossExtraInsulation),
			geomStr,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}
	return flushCSV(writer)
}

func (design *Design) exportUnreachableToCSV(fname string) error {
	file, writer, err := createCSV(fname)
	if err != nil {
		return err
	}
	defer file.Close()

	err = writer.Write([]string{"building_id", "power_th_kw", "reason"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, warn := range design.Network.Unreachable() {
		err = writer.Write([]string{
			warn.BuildingID,
			fmt.Sprintf("%f", warn.Power),
			warn.Reason.String(),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write building")
		}
	}
	return flushCSV(writer)
}

func (design *Design) exportDiametersToCSV(fname string) error {
	file, writer, err := createCSV(fname)
	if err != nil {
		return err
	}
	defer file.Close()

	err = writer.Write([]string{"dn_mm", "house_connections", "house_connections_length_m", "trench_length_m", "loss_mwh_a", "loss_extra_insulation_mwh_a"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	rows := make([]DiameterSummary, 0, len(design.Summary.Diameters)+1)
	rows = append(rows, design.Summary.Diameters...)
	rows = append(rows, design.Summary.TotalDiameters)
	for i, row := range rows {
		dn := fmt.Sprintf("%d", row.DN)
		if i == len(rows)-1 {
			dn = "total"
		}
		err = writer.Write([]string{
			dn,
			fmt.Sprintf("%d", row.HouseConnections),
			fmt.Sprintf("%f", row.HouseConnectionsLength),
			fmt.Sprintf("%f", row.TrenchLength),
			fmt.Sprintf("%f", row.Loss),
			fmt.Sprintf("%f", row.LossExtraInsulation),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write diameter class")
		}
	}
	return flushCSV(writer)
}

func (design *Design) exportProfilesToCSV(fname string) error {
	file, writer, err := createCSV(fname)
	if err != nil {
		return err
	}
	defer file.Close()

	err = writer.Write([]string{"load_profile", "buildings", "heat_demand_mwh_a", "power_th_kw"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	rows := make([]ProfileSummary, 0, len(design.Summary.Profiles)+1)
	rows = append(rows, design.Summary.Profiles...)
	rows = append(rows, design.Summary.TotalProfiles)
	for i, row := range rows {
		profile := row.LoadProfile
		if i == len(rows)-1 {
			profile = "total"
		}
		err = writer.Write([]string{
			profile,
			fmt.Sprintf("%d", row.Buildings),
			fmt.Sprintf("%f", row.AnnualDemand),
			fmt.Sprintf("%f", row.Power),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write load profile")
		}
	}
	return flushCSV(writer)
}
