// Package nctest writes small innovation-statistics NetCDF files. It backs
// the test suites and the genmock command; production code never imports it.
package nctest

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
)

// Value returns the deterministic sample value stored at level index i of a
// variable. Tests assert against it instead of hard-coding fixtures.
func Value(varname string, i int) float64 {
	h := fnv.New32a()
	h.Write([]byte(varname))
	return float64(h.Sum32()%1000)/10 + float64(i)
}

// Levels returns n descending pressure levels starting at 1000 mb.
func Levels(n int) []float64 {
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = 1000 - float64(i)*150
	}
	return levels
}

// WriteInnovStatsFile writes a classic NetCDF file holding the elevation
// coordinate variable plus one "{stat}_{region}" variable per combination,
// all sharing the elevation dimension.
func WriteInnovStatsFile(path, elevationVar string, levels []float64, regions, stats []string) error {
	vars := map[string][]float64{elevationVar: levels}
	for _, region := range regions {
		for _, stat := range stats {
			name := fmt.Sprintf("%s_%s", stat, region)
			values := make([]float64, len(levels))
			for i := range values {
				values[i] = Value(name, i)
			}
			vars[name] = values
		}
	}
	return WriteFile(path, vars)
}

// WriteFile writes a classic NetCDF file with one one-dimensional float64
// variable per map entry. Variables of equal length share a dimension, so
// deliberately mismatched lengths can be written for negative tests.
func WriteFile(path string, vars map[string][]float64) error {
	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("open netcdf writer %q: %w", path, err)
	}

	// Sorted for a deterministic file layout.
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := vars[name]
		v := api.Variable{
			Values:     values,
			Dimensions: []string{fmt.Sprintf("level%d", len(values))},
			Attributes: nil,
		}
		if err := cw.AddVar(name, v); err != nil {
			cw.Close()
			return fmt.Errorf("add variable %q to %q: %w", name, path, err)
		}
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("close netcdf writer %q: %w", path, err)
	}
	return nil
}
