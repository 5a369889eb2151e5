package domain

import "time"

// Record is one flattened innovation-statistics observation: a single
// (metric, region, stat, level) combination read out of a NetCDF file.
// Name and RegionBounds are populated by the innov_stats_netcdf generation;
// RegionMinLat/RegionMaxLat by the innov_temperature_netcdf generation.
// The latitude bounds are pointers so a legitimate 0 degree bound still
// serializes while the other generation's records omit the fields entirely.
// Records are never mutated after the extraction engine emits them.
type Record struct {
	Name          string    `json:"name,omitempty"`
	Cycletime     time.Time `json:"cycletime"`
	RegionName    string    `json:"region_name"`
	RegionBounds  string    `json:"region_bounds,omitempty"`
	RegionMinLat  *float64  `json:"region_min_lat,omitempty"`
	RegionMaxLat  *float64  `json:"region_max_lat,omitempty"`
	Elevation     float64   `json:"elevation"`
	ElevationUnit string    `json:"elevation_unit"`
	Metric        string    `json:"metric"`
	Stat          string    `json:"stat"`
	Value         float64   `json:"value"`
}

// Dataset is the complete output of one harvest: the ordered flat record
// sequence and, when tabular output was requested, its column-oriented form.
type Dataset struct {
	Records []Record
	Table   *Table
}
