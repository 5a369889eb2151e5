// Package domain models innovation-statistics harvest data.
//
// # Data Source
//
// Innovation statistics are produced upstream by comparing model forecasts
// against observations during data assimilation. Each cycle writes one
// NetCDF file per metric (temperature, spechumid, uvwind) containing
// precomputed bias, count, and rmsd arrays grouped by geographic region,
// one value per vertical pressure level.
//
// # File Naming Conventions
//
// File locations are templated. Two naming schemes are supported:
//
//	String cycle:
//	  The configuration carries a cycle string (e.g. "2015120206") and a
//	  strptime-style pattern (e.g. "%Y%m%d%H") to parse it. The filename
//	  template has its literal "metric" token replaced by the metric name
//	  and is then rendered through strftime at the cycle time, e.g.
//	  "innov_stats_metric_%Y%m%d%H.nc" -> "innov_stats_uvwind_2015120206.nc".
//
//	Datetime cycle:
//	  The configuration carries the cycle time directly. The directory is
//	  rendered from a path format at the cycle time; the filename and the
//	  reported observation time use cycle time + 6 hours, the valid time
//	  of the first-guess forecast the innovations were computed against.
//
// Both schemes require the resolved time to fall inside the allowed
// historical window (1988-01-01 through now) and the resolved path to pass
// [fileutil.CheckReadableFile] before a MetricMeta is considered valid.
//
// # Regions
//
// A region is a named latitude band spanning the full longitude range.
// Statistics variables inside a file are keyed "{stat}_{region}", e.g.
// "bias_north_hemis". When a configuration names no regions, the canonical
// five-region set is used: equatorial, global, north_hemis, tropics,
// south_hemis.
package domain
