package heatnet

// OsmConfiguration allows to filter ways by certain tags from OSM data
type OsmConfiguration struct {
	EntityName string   `yaml:"entity_name" validate:"required"` // Currrently we support 'highway' only
	Tags       []string `yaml:"tags" validate:"min=1"`
}

// DefaultOsmConfiguration returns street types along which pipes are usually laid
func DefaultOsmConfiguration() OsmConfiguration {
	return OsmConfiguration{
		EntityName: "highway",
		Tags:       []string{"primary", "secondary", "tertiary", "residential", "unclassified", "living_street", "service", "pedestrian", "road", "primary_link", "secondary_link", "tertiary_link"},
	}
}

// CheckTag checks if incoming tag is represented in configuration
func (cfg *OsmConfiguration) CheckTag(tag string) bool {
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}
