package innovstats

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noaa-psd/score-hv/internal/domain"
	"github.com/noaa-psd/score-hv/internal/fileutil"
	"github.com/noaa-psd/score-hv/internal/nctest"
)

var testNow = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { domain.SetClock(nil) })
}

// writeMetricFiles writes one fixture file per metric for the string-cycle
// naming scheme and returns a matching raw configuration mapping.
func writeMetricFiles(t *testing.T, metrics, stats, regions []string, levels []float64) map[string]any {
	t.Helper()
	dir := t.TempDir()
	for _, metric := range metrics {
		path := filepath.Join(dir, fmt.Sprintf("innov_stats_%s_2015120206.nc", metric))
		require.NoError(t, nctest.WriteInnovStatsFile(path, DefaultElevationUnit, levels, regions, stats))
	}
	return map[string]any{
		"harvester_name": "innov_stats_netcdf",
		"metrics":        metrics,
		"stats":          stats,
		"file_meta": map[string]any{
			"filepath":      dir,
			"cycletime_str": "%Y%m%d%H",
			"cycle":         "2015120206",
			"filename_str":  "innov_stats_metric_%Y%m%d%H.nc",
		},
	}
}

func defaultRegionNames() []string {
	regions := domain.DefaultRegions()
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name()
	}
	return names
}

func TestNewConfigDefaults(t *testing.T) {
	freezeClock(t)
	data := writeMetricFiles(t,
		[]string{"temperature"}, []string{"bias"}, defaultRegionNames(), nctest.Levels(3))

	cfg, err := NewConfig(data)
	require.NoError(t, err)

	hc := cfg.HarvestConfig()
	assert.Equal(t, []string{"temperature"}, hc.Metrics())
	assert.Equal(t, []string{"bias"}, hc.Stats())
	assert.Equal(t, DefaultElevationUnit, hc.ElevationUnit())
	assert.Equal(t, OutputTuplesList, hc.OutputFormat())

	names := make([]string, 0, len(hc.Regions()))
	for _, r := range hc.Regions() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"equatorial", "global", "north_hemis", "tropics", "south_hemis"}, names)

	require.Len(t, hc.MetricsMeta(), 1)
	meta := hc.MetricsMeta()[0]
	assert.Equal(t, "temperature", meta.Name())
	assert.Equal(t, time.Date(2015, 12, 2, 6, 0, 0, 0, time.UTC), meta.Cycletime())
}

func TestNewConfigUserRegionsSortedByName(t *testing.T) {
	freezeClock(t)
	data := writeMetricFiles(t,
		[]string{"temperature"}, []string{"bias"}, []string{"alpha", "zulu", "mid"}, nctest.Levels(2))
	data["regions"] = map[string]any{
		"zulu":  map[string]any{"lat_min": -10.0, "lat_max": 10.0},
		"alpha": map[string]any{"lat_min": 20.0, "lat_max": 60.0},
		"mid":   map[string]any{"lat_min": -45.0, "lat_max": 45.0},
	}

	cfg, err := NewConfig(data)
	require.NoError(t, err)

	regions := cfg.HarvestConfig().Regions()
	require.Len(t, regions, 3)
	assert.Equal(t, "alpha", regions[0].Name())
	assert.Equal(t, "mid", regions[1].Name())
	assert.Equal(t, "zulu", regions[2].Name())
	assert.Equal(t, 20.0, regions[0].MinLat())
	assert.Equal(t, 60.0, regions[0].MaxLat())
}

func TestNewConfigRejectsBadInput(t *testing.T) {
	freezeClock(t)

	valid := func(t *testing.T) map[string]any {
		return writeMetricFiles(t,
			[]string{"temperature"}, []string{"bias"}, defaultRegionNames(), nctest.Levels(2))
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing stats", func(m map[string]any) { delete(m, "stats") }},
		{"invalid stat", func(m map[string]any) { m["stats"] = []string{"median"} }},
		{"missing metrics", func(m map[string]any) { delete(m, "metrics") }},
		{"invalid metric", func(m map[string]any) { m["metrics"] = []string{"pressure"} }},
		{"bad output format", func(m map[string]any) { m["output_format"] = "csv" }},
		{"inverted region band", func(m map[string]any) {
			m["regions"] = map[string]any{"upside": map[string]any{"lat_min": 30.0, "lat_max": -30.0}}
		}},
		{"empty regions mapping", func(m map[string]any) { m["regions"] = map[string]any{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := valid(t)
			tt.mutate(data)
			_, err := NewConfig(data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	freezeClock(t)
	data := writeMetricFiles(t,
		[]string{"temperature"}, []string{"bias"}, defaultRegionNames(), nctest.Levels(2))
	fm := data["file_meta"].(map[string]any)
	fm["cycle"] = "2015120212" // no fixture written for this cycle

	_, err := NewConfig(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, fileutil.ErrInvalidPath)
}

func TestNewConfigCycletimeOutsideWindow(t *testing.T) {
	freezeClock(t)
	data := writeMetricFiles(t,
		[]string{"temperature"}, []string{"bias"}, defaultRegionNames(), nctest.Levels(2))
	fm := data["file_meta"].(map[string]any)
	fm["cycle"] = "1987063000"

	_, err := NewConfig(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeRange)
}

func TestNewTemperatureConfig(t *testing.T) {
	freezeClock(t)
	data := writeMetricFiles(t,
		[]string{"temperature"}, []string{"bias", "count"}, defaultRegionNames(), nctest.Levels(2))
	data["harvester_name"] = "innov_temperature_netcdf"

	cfg, err := NewTemperatureConfig(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"bias", "count"}, cfg.HarvestConfig().Stats())
}
