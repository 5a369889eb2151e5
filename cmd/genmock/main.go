// Command genmock writes small innovation-statistics NetCDF fixtures. It
// uses the same writer as the test suites, so generated files match what
// the harvesters expect to read.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -dir data/mock \
//	  -cycle 2015120206 \
//	  -metrics temperature,spechumid,uvwind \
//	  -stats bias,count,rmsd \
//	  -levels 7
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/noaa-psd/score-hv/internal/domain"
	"github.com/noaa-psd/score-hv/internal/nctest"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dir := flag.String("dir", "", "output directory for generated NetCDF files")
	cycle := flag.String("cycle", "2015120206", "cycle string embedded in generated filenames")
	metrics := flag.String("metrics", strings.Join(domain.ValidMetrics, ","), "comma-separated metrics to generate")
	stats := flag.String("stats", strings.Join(domain.ValidStats, ","), "comma-separated statistics per file")
	regions := flag.String("regions", "", "comma-separated region names (default: the standard five)")
	levels := flag.Int("levels", 7, "number of pressure levels per variable")
	elevationVar := flag.String("elevation-var", "plevs", "name of the vertical coordinate variable")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -dir")
	}
	if *levels <= 0 {
		return fmt.Errorf("-levels must be positive")
	}

	regionNames := splitList(*regions)
	if len(regionNames) == 0 {
		for _, r := range domain.DefaultRegions() {
			regionNames = append(regionNames, r.Name())
		}
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, metric := range splitList(*metrics) {
		if !domain.IsValidMetric(metric) {
			return fmt.Errorf("unknown metric %q, must be one of %v", metric, domain.ValidMetrics)
		}
		path := filepath.Join(*dir, fmt.Sprintf("innov_stats_%s_%s.nc", metric, *cycle))
		err := nctest.WriteInnovStatsFile(path, *elevationVar, nctest.Levels(*levels), regionNames, splitList(*stats))
		if err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
