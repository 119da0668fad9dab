package heatnet

import (
	"fmt"
	"sort"
)

const (
	// Anything but house connections has to be at least catalog[minTrunkClassIndex]
	minTrunkClassIndex = 2
)

// PipeClass is a single diameter class of pipe catalog
type PipeClass struct {
	// Nominal diameter, mm
	DN int `yaml:"dn" validate:"gt=0"`
	// Inner diameter, mm
	InnerDiameter float64 `yaml:"inner_diameter" validate:"gt=0"`
	// Heat transfer coefficient, W/(m*K)
	UValue float64 `yaml:"u_value" validate:"gt=0"`
	// Heat transfer coefficient with extra insulation, W/(m*K)
	UValueExtraInsulation float64 `yaml:"u_value_extra_insulation" validate:"gt=0"`
	// Upper limit of volumetric flow, l/s
	MaxVolumetricFlow float64 `yaml:"max_volumetric_flow" validate:"gt=0"`
}

// PipeCatalog is ordered ascending by MaxVolumetricFlow. The last class is the ceiling.
type PipeCatalog []PipeClass

// DefaultPipeCatalog returns plastic jacket pipes DN20..DN300 (insulation series 1 / series 2)
func DefaultPipeCatalog() PipeCatalog {
	return PipeCatalog{
		{DN: 20, InnerDiameter: 21.7, UValue: 0.1281, UValueExtraInsulation: 0.1090, MaxVolumetricFlow: 0.370},
		{DN: 25, InnerDiameter: 28.5, UValue: 0.1505, UValueExtraInsulation: 0.1261, MaxVolumetricFlow: 0.638},
		{DN: 32, InnerDiameter: 37.2, UValue: 0.1509, UValueExtraInsulation: 0.1317, MaxVolumetricFlow: 1.304},
		{DN: 40, InnerDiameter: 43.1, UValue: 0.1747, UValueExtraInsulation: 0.1474, MaxVolumetricFlow: 1.897},
		{DN: 50, InnerDiameter: 54.5, UValue: 0.1874, UValueExtraInsulation: 0.1603, MaxVolumetricFlow: 3.499},
		{DN: 65, InnerDiameter: 70.3, UValue: 0.2164, UValueExtraInsulation: 0.1812, MaxVolumetricFlow: 6.599},
		{DN: 80, InnerDiameter: 82.5, UValue: 0.2182, UValueExtraInsulation: 0.1866, MaxVolumetricFlow: 9.622},
		{DN: 100, InnerDiameter: 107.1, UValue: 0.2410, UValueExtraInsulation: 0.2043, MaxVolumetricFlow: 18.017},
		{DN: 125, InnerDiameter: 132.5, UValue: 0.2853, UValueExtraInsulation: 0.2343, MaxVolumetricFlow: 30.335},
		{DN: 150, InnerDiameter: 160.3, UValue: 0.2934, UValueExtraInsulation: 0.2487, MaxVolumetricFlow: 48.436},
		{DN: 200, InnerDiameter: 210.1, UValue: 0.3224, UValueExtraInsulation: 0.2639, MaxVolumetricFlow: 90.140},
		{DN: 250, InnerDiameter: 263.0, UValue: 0.3250, UValueExtraInsulation: 0.2728, MaxVolumetricFlow: 152.111},
		{DN: 300, InnerDiameter: 312.7, UValue: 0.3625, UValueExtraInsulation: 0.2933, MaxVolumetricFlow: 230.393},
	}
}

// Validate checks ordering and size of catalog
func (catalog PipeCatalog) Validate() error {
	if len(catalog) <= minTrunkClassIndex {
		return &ConfigError{Field: "pipe_catalog", Reason: fmt.Sprintf("at least %d classes are needed, got %d", minTrunkClassIndex+1, len(catalog))}
	}
	for i := 1; i < len(catalog); i++ {
		if catalog[i].MaxVolumetricFlow < catalog[i-1].MaxVolumetricFlow {
			return &ConfigError{Field: "pipe_catalog", Reason: fmt.Sprintf("classes must be sorted ascending by max_volumetric_flow (DN%d goes after DN%d)", catalog[i].DN, catalog[i-1].DN)}
		}
	}
	return nil
}

// selectClass returns index of the first class able to carry given flow.
// House connections may use any class, other edges start from minTrunkClassIndex.
// Flow above the ceiling is clamped to the last class.
func (catalog PipeCatalog) selectClass(flow float64, kind EdgeKind) int {
	start := 0
	if kind != EDGE_HOUSE_CONNECTION {
		start = minTrunkClassIndex
	}
	if start >= len(catalog) {
		return len(catalog) - 1
	}
	idx := start + sort.Search(len(catalog)-start, func(i int) bool {
		return catalog[start+i].MaxVolumetricFlow >= flow
	})
	if idx >= len(catalog) {
		idx = len(catalog) - 1
	}
	return idx
}

// DNs returns nominal diameters in catalog order
func (catalog PipeCatalog) DNs() []int {
	dns := make([]int, len(catalog))
	for i := range catalog {
		dns[i] = catalog[i].DN
	}
	return dns
}
