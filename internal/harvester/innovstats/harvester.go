package innovstats

import (
	"errors"
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/noaa-psd/score-hv/internal/domain"
)

// ErrExtraction reports a failure while reading statistics out of a
// resolved NetCDF file.
var ErrExtraction = errors.New("extraction failed")

// recordNamePrefix prefixes generation-2 record names, e.g.
// innov_stats_temperature_bias.
const recordNamePrefix = "innov_stats"

// Harvester is the innov_stats_netcdf generation. It reads the vertical
// coordinate named by the configured elevation unit, labels records with a
// harvester-qualified name and the region bounds, and can reshape the
// output into columnar form.
type Harvester struct {
	cfg *Config
}

// NewHarvester builds a harvester over a validated configuration.
func NewHarvester(cfg *Config) *Harvester {
	return &Harvester{cfg: cfg}
}

// GetData extracts every configured metric, stat, region, and level
// combination and flattens the result into records. When the configuration
// asks for columnar output the records are also reshaped into a table.
func (h *Harvester) GetData() (*domain.Dataset, error) {
	hc := h.cfg.HarvestConfig()

	var records []domain.Record
	for _, meta := range hc.MetricsMeta() {
		recs, err := harvestMetricFile(meta, hc, hc.ElevationUnit(), true)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	ds := &domain.Dataset{Records: records}
	if hc.OutputFormat() == OutputDataFrame {
		ds.Table = domain.NewTable(records)
	}
	return ds, nil
}

// TemperatureHarvester is the original innov_temperature_netcdf generation.
// It always reads the plevs coordinate and emits unnamed records carrying
// the region's latitude band instead of a bounds string.
type TemperatureHarvester struct {
	cfg *TemperatureConfig
}

// NewTemperatureHarvester builds a harvester over a validated configuration.
func NewTemperatureHarvester(cfg *TemperatureConfig) *TemperatureHarvester {
	return &TemperatureHarvester{cfg: cfg}
}

// GetData extracts every configured metric, stat, region, and level
// combination and flattens the result into records.
func (h *TemperatureHarvester) GetData() (*domain.Dataset, error) {
	hc := h.cfg.HarvestConfig()

	var records []domain.Record
	for _, meta := range hc.MetricsMeta() {
		recs, err := harvestMetricFile(meta, hc, DefaultElevationUnit, false)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return &domain.Dataset{Records: records}, nil
}

// harvestMetricFile opens the NetCDF file resolved for one metric and reads
// one variable per stat and region pair, named "{stat}_{region}". Every
// stat/region array must line up with the vertical coordinate element for
// element; a length mismatch aborts the whole harvest rather than emitting
// a truncated record set.
func harvestMetricFile(meta domain.MetricMeta, hc *HarvestConfig, elevationVar string, named bool) ([]domain.Record, error) {
	nc, err := netcdf.Open(meta.Filename())
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %v", ErrExtraction, meta.Filename(), err)
	}
	defer nc.Close()

	levels, err := readFloats(nc, elevationVar)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, meta.Filename(), err)
	}

	unitLabel := domain.PressureUnit
	if named && elevationVar != DefaultElevationUnit {
		unitLabel = elevationVar
	}

	records := make([]domain.Record, 0, len(hc.Regions())*len(hc.Stats())*len(levels))
	for _, region := range hc.Regions() {
		for _, stat := range hc.Stats() {
			varname := fmt.Sprintf("%s_%s", stat, region.Name())
			values, err := readFloats(nc, varname)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, meta.Filename(), err)
			}
			if len(values) != len(levels) {
				return nil, fmt.Errorf("%w: %s: variable %q has %d values but %q has %d levels",
					ErrExtraction, meta.Filename(), varname, len(values), elevationVar, len(levels))
			}

			minLat, maxLat := region.MinLat(), region.MaxLat()
			for i, level := range levels {
				rec := domain.Record{
					Cycletime:     meta.Cycletime(),
					RegionName:    region.Name(),
					Elevation:     level,
					ElevationUnit: unitLabel,
					Metric:        meta.Name(),
					Stat:          stat,
					Value:         values[i],
				}
				if named {
					rec.Name = fmt.Sprintf("%s_%s_%s", recordNamePrefix, meta.Name(), stat)
					rec.RegionBounds = region.Bounds()
				} else {
					rec.RegionMinLat = &minLat
					rec.RegionMaxLat = &maxLat
				}
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

// readFloats reads a one-dimensional numeric variable and widens it to
// float64 regardless of its on-disk type.
func readFloats(nc api.Group, name string) ([]float64, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %v", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("variable %q: %v", name, err)
	}

	switch vals := v.(type) {
	case []float64:
		return vals, nil
	case []float32:
		return widen(vals), nil
	case []int64:
		return widen(vals), nil
	case []int32:
		return widen(vals), nil
	case []int16:
		return widen(vals), nil
	case []int8:
		return widen(vals), nil
	default:
		return nil, fmt.Errorf("variable %q: unsupported type %T", name, v)
	}
}

func widen[T float32 | int64 | int32 | int16 | int8](vals []T) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}
