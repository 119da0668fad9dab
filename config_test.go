package heatnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))
	return fname
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	hydraulics := cfg.Hydraulics()
	assert.Equal(t, 90.0, hydraulics.SupplyTemperature)
	assert.Equal(t, 60.0, hydraulics.ReturnTemperature)
	assert.False(t, hydraulics.ExactTemperatures)
	assert.Len(t, hydraulics.Catalog, 13)
}

func TestLoadConfig(t *testing.T) {
	fname := writeTestFile(t, "config.yaml", `
supply_temperature: 80
return_temperature: 50.5
exact_temperatures: true
workers: 2
load_profiles: [EFH, MFH]
input:
  lonlat: true
  power_attribute: peak_kw
  source_id_attribute: name
pipe_catalog:
  - {dn: 25, inner_diameter: 28.5, u_value: 0.15, u_value_extra_insulation: 0.12, max_volumetric_flow: 0.6}
  - {dn: 32, inner_diameter: 37.2, u_value: 0.15, u_value_extra_insulation: 0.13, max_volumetric_flow: 1.3}
  - {dn: 40, inner_diameter: 43.1, u_value: 0.17, u_value_extra_insulation: 0.14, max_volumetric_flow: 1.9}
  - {dn: 50, inner_diameter: 54.5, u_value: 0.18, u_value_extra_insulation: 0.16, max_volumetric_flow: 3.5}
osm:
  entity_name: highway
  tags: [residential]
`)
	cfg, err := LoadConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.SupplyTemperature)
	assert.Equal(t, 50.5, cfg.ReturnTemperature)
	assert.True(t, cfg.ExactTemperatures)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"EFH", "MFH"}, cfg.LoadProfiles)
	assert.True(t, cfg.Input.LonLat)
	assert.Equal(t, "peak_kw", cfg.Input.PowerAttribute)
	assert.Equal(t, "name", cfg.Input.SourceIDAttribute)
	// Untouched values come from defaults
	assert.Equal(t, "heat_demand", cfg.Input.AnnualDemandAttribute)
	assert.Equal(t, "id", cfg.Input.BuildingIDAttribute)
	assert.Equal(t, []int{25, 32, 40, 50}, cfg.PipeCatalog.DNs())
	assert.True(t, cfg.OSM.CheckTag("residential"))
	assert.False(t, cfg.OSM.CheckTag("primary"))
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		field   string
	}{
		{"return above supply", "supply_temperature: 60\nreturn_temperature: 70\n", "Config.ReturnTemperature"},
		{"too hot", "supply_temperature: 200\n", "Config.SupplyTemperature"},
		{"short catalog", "pipe_catalog:\n  - {dn: 25, inner_diameter: 28.5, u_value: 0.15, u_value_extra_insulation: 0.12, max_volumetric_flow: 0.6}\n", "Config.PipeCatalog"},
		{"bad class", "pipe_catalog:\n  - {dn: 25, inner_diameter: 28.5, u_value: 0.15, u_value_extra_insulation: 0.12, max_volumetric_flow: 0.6}\n  - {dn: 32, inner_diameter: 0, u_value: 0.15, u_value_extra_insulation: 0.13, max_volumetric_flow: 1.3}\n  - {dn: 40, inner_diameter: 43.1, u_value: 0.17, u_value_extra_insulation: 0.14, max_volumetric_flow: 1.9}\n", "Config.PipeCatalog[1].InnerDiameter"},
		{"unsorted catalog", "pipe_catalog:\n  - {dn: 25, inner_diameter: 28.5, u_value: 0.15, u_value_extra_insulation: 0.12, max_volumetric_flow: 2.6}\n  - {dn: 32, inner_diameter: 37.2, u_value: 0.15, u_value_extra_insulation: 0.13, max_volumetric_flow: 1.3}\n  - {dn: 40, inner_diameter: 43.1, u_value: 0.17, u_value_extra_insulation: 0.14, max_volumetric_flow: 1.9}\n", "pipe_catalog"},
		{"truncated temperatures", "supply_temperature: 60.9\nreturn_temperature: 60.2\n", "temperatures"},
		{"no power attribute", "input:\n  power_attribute: \"\"\n", "Config.Input.PowerAttribute"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fname := writeTestFile(t, "config.yaml", c.content)
			_, err := LoadConfig(fname)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, c.field, cfgErr.Field)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	fname := writeTestFile(t, "broken.yaml", "supply_temperature: [\n")
	_, err = LoadConfig(fname)
	require.Error(t, err)
}
