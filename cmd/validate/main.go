// Command validate checks a harvest request YAML file phase by phase: file
// access, document structure, harvester dispatch, configuration validity,
// and a trial extraction. It reports PASS/FAIL per phase without printing
// any records, so operators can vet a request before wiring it into a
// workflow.
//
// Usage:
//
//	go run ./cmd/validate -config request.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/noaa-psd/score-hv/internal/domain"
	"github.com/noaa-psd/score-hv/internal/fileutil"
	"github.com/noaa-psd/score-hv/internal/harvester"
	"github.com/noaa-psd/score-hv/internal/yamlutil"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	configPath := flag.String("config", "", "path to a harvest request YAML file")
	flag.Parse()

	if *configPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*configPath); code != 0 {
		os.Exit(code)
	}
}

func run(configPath string) int {
	fmt.Println("=== Harvest Request Validation ===")
	fmt.Println()

	phases, records := validate(configPath)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-24s %s\n", p.name, status)
	}

	fmt.Println()
	for _, p := range phases {
		for _, e := range p.errors {
			fmt.Printf("  [%s] %s\n", p.name, e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Printf("OK: %d records would be harvested\n", records)
	return 0
}

// validate runs the phases in dependency order, stopping at the first
// failed phase since later ones cannot produce meaningful results.
func validate(configPath string) ([]*phase, int) {
	var phases []*phase
	addPhase := func(name string) *phase {
		p := &phase{name: name}
		phases = append(phases, p)
		return p
	}

	p := addPhase("file access")
	if err := fileutil.CheckReadableFile(configPath); err != nil {
		p.errorf("%v", err)
		return phases, 0
	}

	p = addPhase("yaml document")
	data, err := yamlutil.LoadConfigFile(configPath)
	if err != nil {
		p.errorf("%v", err)
		return phases, 0
	}

	p = addPhase("harvester dispatch")
	name, _ := data["harvester_name"].(string)
	h, err := harvester.Lookup(name)
	if err != nil {
		p.errorf("%v", err)
		return phases, 0
	}
	fmt.Printf("  harvester: %s (%s)\n", h.Name, h.Description)

	p = addPhase("configuration")
	cfg := h.NewConfig()
	if err := cfg.SetConfig(data); err != nil {
		p.errorf("%v", err)
		return phases, 0
	}

	p = addPhase("extraction")
	ds, err := h.NewParser(cfg).GetData()
	if err != nil {
		p.errorf("%v", err)
		return phases, 0
	}
	if len(ds.Records) == 0 {
		p.errorf("request yields no records")
	}
	checkRecords(p, ds.Records)

	return phases, len(ds.Records)
}

// checkRecords sanity-checks the trial extraction.
func checkRecords(p *phase, records []domain.Record) {
	for i, rec := range records {
		if rec.Cycletime.IsZero() {
			p.errorf("record %d has no cycle time", i)
		}
		if rec.RegionName == "" {
			p.errorf("record %d has no region", i)
		}
		if !domain.IsValidMetric(rec.Metric) || !domain.IsValidStat(rec.Stat) {
			p.errorf("record %d carries unknown metric/stat %q/%q", i, rec.Metric, rec.Stat)
		}
	}
}
