package heatnet

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	validate = validator.New()
)

// Config is the configuration of a design run
type Config struct {
	// °C
	SupplyTemperature float64 `yaml:"supply_temperature" validate:"gte=0,lte=150"`
	// °C
	ReturnTemperature float64 `yaml:"return_temperature" validate:"gte=0,ltfield=SupplyTemperature"`
	// Do not truncate temperatures to integers before water properties lookup
	ExactTemperatures bool        `yaml:"exact_temperatures"`
	PipeCatalog       PipeCatalog `yaml:"pipe_catalog" validate:"required,min=3,dive"`
	// Load profiles which are always listed in summary
	LoadProfiles []string `yaml:"load_profiles" validate:"dive,required"`
	// Number of workers for sizing. Zero means single worker
	Workers int              `yaml:"workers" validate:"gte=0"`
	Input   InputConfig      `yaml:"input"`
	OSM     OsmConfiguration `yaml:"osm"`
}

// InputConfig describes attributes of input files
type InputConfig struct {
	// Input coordinates are WGS84 and have to be projected to EPSG:3857
	LonLat                bool   `yaml:"lonlat"`
	BuildingIDAttribute   string `yaml:"building_id_attribute"`
	SourceIDAttribute     string `yaml:"source_id_attribute"`
	PowerAttribute        string `yaml:"power_attribute" validate:"required"`
	AnnualDemandAttribute string `yaml:"annual_demand_attribute"`
	LoadProfileAttribute  string `yaml:"load_profile_attribute"`
	StreetIDAttribute     string `yaml:"street_id_attribute"`
	StreetNameAttribute   string `yaml:"street_name_attribute"`
}

// DefaultConfig returns configuration with typical values
func DefaultConfig() Config {
	return Config{
		SupplyTemperature: 90,
		ReturnTemperature: 60,
		PipeCatalog:       DefaultPipeCatalog(),
		LoadProfiles:      []string{"EFH", "MFH", "GKO", "GHA", "GMK", "GBD", "GBH", "GWA", "GGA", "GBA", "GGB", "GPD", "GMF", "GHD"},
		Workers:           4,
		Input: InputConfig{
			BuildingIDAttribute:   "id",
			SourceIDAttribute:     "id",
			PowerAttribute:        "power_th",
			AnnualDemandAttribute: "heat_demand",
			LoadProfileAttribute:  "load_profile",
			StreetIDAttribute:     "id",
			StreetNameAttribute:   "name",
		},
		OSM: DefaultOsmConfiguration(),
	}
}

// LoadConfig reads YAML file on top of defaults and validates the result
func LoadConfig(fname string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(fname)
	if err != nil {
		return cfg, errors.Wrap(err, "Can't read config file")
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "Can't parse config file")
	}
	err = cfg.Validate()
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks struct constraints and cross-field rules
func (cfg Config) Validate() error {
	err := validate.Struct(cfg)
	if err != nil {
		return formatValidationError(err)
	}
	return cfg.Hydraulics().Validate()
}

// Hydraulics returns part of config needed for sizing
func (cfg Config) Hydraulics() HydraulicConfig {
	return HydraulicConfig{
		SupplyTemperature: cfg.SupplyTemperature,
		ReturnTemperature: cfg.ReturnTemperature,
		ExactTemperatures: cfg.ExactTemperatures,
		Catalog:           cfg.PipeCatalog,
	}
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "Can't validate config")
	}
	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return &ConfigError{Field: field, Reason: "field is required"}
		case "min":
			return &ConfigError{Field: field, Reason: "must contain at least " + e.Param() + " elements"}
		case "ltfield":
			return &ConfigError{Field: field, Reason: "must be less than " + e.Param()}
		default:
			return &ConfigError{Field: field, Reason: "validation failed (" + e.Tag() + " " + e.Param() + ")"}
		}
	}
	return nil
}
