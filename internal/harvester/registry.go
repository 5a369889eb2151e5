// Package harvester dispatches raw configuration mappings to registered
// harvester implementations and runs them.
package harvester

import (
	"errors"
	"fmt"
	"sort"

	"github.com/noaa-psd/score-hv/internal/domain"
	"github.com/noaa-psd/score-hv/internal/harvester/innovstats"
)

// Registered harvester names.
const (
	InnovTemperatureNetCDF = "innov_temperature_netcdf"
	InnovStatsNetCDF       = "innov_stats_netcdf"
)

// ErrUnknownHarvester reports a harvester_name with no registry entry.
var ErrUnknownHarvester = errors.New("unknown harvester")

// ConfigHandler validates a raw configuration mapping for one harvester.
type ConfigHandler interface {
	SetConfig(data map[string]any) error
}

// DataParser extracts a dataset using its validated configuration.
type DataParser interface {
	GetData() (*domain.Dataset, error)
}

// Harvester pairs a registered name and human-readable description with
// constructors for its configuration handler and data parser.
type Harvester struct {
	Name        string
	Description string
	NewConfig   func() ConfigHandler
	NewParser   func(ConfigHandler) DataParser
}

var registry = map[string]Harvester{
	InnovTemperatureNetCDF: {
		Name:        InnovTemperatureNetCDF,
		Description: "innovation statistics for temperature from netcdf files",
		NewConfig:   func() ConfigHandler { return &innovstats.TemperatureConfig{} },
		NewParser: func(c ConfigHandler) DataParser {
			return innovstats.NewTemperatureHarvester(c.(*innovstats.TemperatureConfig))
		},
	},
	InnovStatsNetCDF: {
		Name:        InnovStatsNetCDF,
		Description: "innovation statistics for temperature, spechumid, and uvwind from netcdf files",
		NewConfig:   func() ConfigHandler { return &innovstats.Config{} },
		NewParser: func(c ConfigHandler) DataParser {
			return innovstats.NewHarvester(c.(*innovstats.Config))
		},
	},
}

// Lookup returns the registry entry for name.
func Lookup(name string) (Harvester, error) {
	h, ok := registry[name]
	if !ok {
		return Harvester{}, fmt.Errorf("%w: %q, valid harvesters: %v", ErrUnknownHarvester, name, Names())
	}
	return h, nil
}

// Names lists the registered harvester names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptions maps every registered harvester name to its human-readable
// description.
func Descriptions() map[string]string {
	descs := make(map[string]string, len(registry))
	for name, h := range registry {
		descs[name] = h.Description
	}
	return descs
}
