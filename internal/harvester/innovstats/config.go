// Package innovstats harvests innovation statistics (bias, count, rmsd) of
// temperature, specific humidity, and uv wind from NetCDF files grouped by
// geographic region. Two harvester generations live here: the original
// temperature-era generation and the current innov_stats generation with a
// configurable elevation unit and optional tabular output.
package innovstats

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/noaa-psd/score-hv/internal/domain"
)

// Output shapes for harvested data.
const (
	OutputTuplesList = "tuples_list"
	OutputDataFrame  = "pandas_dataframe"
)

// DefaultElevationUnit names the vertical coordinate variable read when a
// configuration does not specify one.
const DefaultElevationUnit = "plevs"

// ErrConfig reports an invalid or incomplete harvest configuration.
var ErrConfig = errors.New("invalid harvest configuration")

// rawConfig is the wire shape of a raw configuration mapping.
type rawConfig struct {
	HarvesterName string               `yaml:"harvester_name"`
	Metrics       []string             `yaml:"metrics"`
	Stats         []string             `yaml:"stats"`
	Regions       map[string]rawRegion `yaml:"regions"`
	FileMeta      domain.FileMeta      `yaml:"file_meta"`
	ElevationUnit string               `yaml:"elevation_unit"`
	OutputFormat  string               `yaml:"output_format"`
}

type rawRegion struct {
	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
}

// decodeRaw binds a raw configuration mapping onto rawConfig. Weak typing
// lets YAML scalars arrive as strings or numbers; RFC 3339 strings decode
// into the cycletime field.
func decodeRaw(data map[string]any) (rawConfig, error) {
	var raw rawConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return rawConfig{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := dec.Decode(data); err != nil {
		return rawConfig{}, fmt.Errorf("%w: cannot decode configuration mapping: %v", ErrConfig, err)
	}
	return raw, nil
}

// HarvestConfig is the validated, immutable form of a raw configuration
// mapping. It dictates which metrics and statistics to extract and where
// the backing NetCDF files live. The extraction engine is its only consumer.
type HarvestConfig struct {
	metrics       []string
	stats         []string
	regions       []domain.Region
	metricsMeta   []domain.MetricMeta
	elevationUnit string
	outputFormat  string
}

// newHarvestConfig runs the validation phases in sequence, each wrapping
// its own failures with the phase that produced them.
func newHarvestConfig(data map[string]any) (*HarvestConfig, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return nil, err
	}

	hc := &HarvestConfig{}
	if err := hc.setStats(raw.Stats); err != nil {
		return nil, fmt.Errorf("parsing stats: %w", err)
	}
	if err := hc.setRegions(data, raw.Regions); err != nil {
		return nil, fmt.Errorf("parsing regions: %w", err)
	}
	if err := hc.setMetricsMeta(raw.Metrics, raw.FileMeta); err != nil {
		return nil, fmt.Errorf("parsing metrics: %w", err)
	}
	if err := hc.setOutputOptions(raw.ElevationUnit, raw.OutputFormat); err != nil {
		return nil, fmt.Errorf("parsing output options: %w", err)
	}
	return hc, nil
}

func (hc *HarvestConfig) setStats(stats []string) error {
	if len(stats) == 0 {
		return fmt.Errorf("%w: 'stats' key missing, must be one of %v", ErrConfig, domain.ValidStats)
	}
	for _, stat := range stats {
		if !domain.IsValidStat(stat) {
			return fmt.Errorf("%w: invalid stat %q, must be one of %v", ErrConfig, stat, domain.ValidStats)
		}
	}
	hc.stats = stats
	return nil
}

// setRegions builds one Region per configured entry, or substitutes the
// default five-region set when the key is absent altogether. User-supplied
// regions arrive as a mapping, so they are ordered by name to keep record
// order deterministic.
func (hc *HarvestConfig) setRegions(data map[string]any, regions map[string]rawRegion) error {
	if _, present := data["regions"]; !present {
		hc.regions = domain.DefaultRegions()
		return nil
	}
	if len(regions) == 0 {
		return fmt.Errorf("%w: 'regions' key present but empty; omit it to harvest the default regions", ErrConfig)
	}

	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)

	hc.regions = make([]domain.Region, 0, len(names))
	for _, name := range names {
		r, err := domain.NewRegion(name, regions[name].LatMin, regions[name].LatMax)
		if err != nil {
			return fmt.Errorf("%w: region %q: %w", ErrConfig, name, err)
		}
		hc.regions = append(hc.regions, r)
	}
	return nil
}

func (hc *HarvestConfig) setMetricsMeta(metrics []string, fileMeta domain.FileMeta) error {
	if len(metrics) == 0 {
		return fmt.Errorf("%w: 'metrics' key missing, must be one of %v", ErrConfig, domain.ValidMetrics)
	}

	hc.metrics = metrics
	hc.metricsMeta = make([]domain.MetricMeta, 0, len(metrics))
	for _, metric := range metrics {
		if !domain.IsValidMetric(metric) {
			return fmt.Errorf("%w: invalid metric %q, must be one of %v", ErrConfig, metric, domain.ValidMetrics)
		}
		meta, err := domain.NewMetricMeta(metric, fileMeta)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
		hc.metricsMeta = append(hc.metricsMeta, meta)
	}
	return nil
}

func (hc *HarvestConfig) setOutputOptions(elevationUnit, outputFormat string) error {
	hc.elevationUnit = elevationUnit
	if hc.elevationUnit == "" {
		hc.elevationUnit = DefaultElevationUnit
	}

	switch outputFormat {
	case "", OutputTuplesList:
		hc.outputFormat = OutputTuplesList
	case OutputDataFrame:
		hc.outputFormat = OutputDataFrame
	default:
		return fmt.Errorf("%w: unknown output_format %q, must be %q or %q",
			ErrConfig, outputFormat, OutputTuplesList, OutputDataFrame)
	}
	return nil
}

// Metrics returns the configured metric names in order.
func (hc *HarvestConfig) Metrics() []string { return hc.metrics }

// Stats returns the configured statistic names in order.
func (hc *HarvestConfig) Stats() []string { return hc.stats }

// Regions returns the configured regions in order.
func (hc *HarvestConfig) Regions() []domain.Region { return hc.regions }

// MetricsMeta returns one resolved file location per configured metric.
func (hc *HarvestConfig) MetricsMeta() []domain.MetricMeta { return hc.metricsMeta }

// ElevationUnit names the vertical coordinate variable to read.
func (hc *HarvestConfig) ElevationUnit() string { return hc.elevationUnit }

// OutputFormat returns the requested output shape.
func (hc *HarvestConfig) OutputFormat() string { return hc.outputFormat }

// Config holds the validated configuration of the innov_stats_netcdf
// harvester generation.
type Config struct {
	harvest *HarvestConfig
}

// NewConfig validates and normalizes a raw configuration mapping.
func NewConfig(data map[string]any) (*Config, error) {
	c := &Config{}
	if err := c.SetConfig(data); err != nil {
		return nil, err
	}
	return c, nil
}

// SetConfig builds the underlying HarvestConfig from a raw mapping.
func (c *Config) SetConfig(data map[string]any) error {
	hc, err := newHarvestConfig(data)
	if err != nil {
		return err
	}
	c.harvest = hc
	return nil
}

// HarvestConfig exposes the validated configuration to the extraction engine.
func (c *Config) HarvestConfig() *HarvestConfig { return c.harvest }

// TemperatureConfig holds the validated configuration of the original
// innov_temperature_netcdf harvester generation. It shares the validation
// phases with Config but always reads the fixed plevs coordinate and always
// produces the flat record sequence.
type TemperatureConfig struct {
	harvest *HarvestConfig
}

// NewTemperatureConfig validates and normalizes a raw configuration mapping.
func NewTemperatureConfig(data map[string]any) (*TemperatureConfig, error) {
	c := &TemperatureConfig{}
	if err := c.SetConfig(data); err != nil {
		return nil, err
	}
	return c, nil
}

// SetConfig builds the underlying HarvestConfig from a raw mapping.
func (c *TemperatureConfig) SetConfig(data map[string]any) error {
	hc, err := newHarvestConfig(data)
	if err != nil {
		return err
	}
	c.harvest = hc
	return nil
}

// HarvestConfig exposes the validated configuration to the extraction engine.
func (c *TemperatureConfig) HarvestConfig() *HarvestConfig { return c.harvest }
