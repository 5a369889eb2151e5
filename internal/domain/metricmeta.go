package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/noaa-psd/score-hv/internal/fileutil"
)

// Metric and statistic allow-lists. Statistics outside ValidStats and
// metrics outside ValidMetrics fail configuration construction.
var (
	ValidMetrics = []string{"temperature", "spechumid", "uvwind"}
	ValidStats   = []string{"bias", "count", "rmsd"}
)

// ErrTimeRange reports a resolved cycle time outside the allowed historical
// window [MinCycletime, now].
var ErrTimeRange = errors.New("cycle time out of range")

// MinCycletime is the earliest cycle time a configuration may reference.
var MinCycletime = time.Date(1988, time.January, 1, 0, 0, 0, 0, time.UTC)

// PressureUnit labels pressure-level elevation values in harvested records.
const PressureUnit = "mb"

// metricToken is the literal placeholder in a filename template that gets
// replaced by the metric's own name.
const metricToken = "metric"

// forecastOffset separates the analysis cycle time from the valid time of
// the first-guess forecast under the datetime-cycle naming scheme.
const forecastOffset = 6 * time.Hour

// IsValidMetric reports whether name is a recognized metric.
func IsValidMetric(name string) bool { return contains(ValidMetrics, name) }

// IsValidStat reports whether name is a recognized statistic.
func IsValidStat(name string) bool { return contains(ValidStats, name) }

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// FileMeta carries the templated file-naming parameters of a configuration's
// file_meta block. Cycletime selects the datetime-cycle scheme when set;
// otherwise Cycle and CycletimeStr drive the string-cycle scheme.
type FileMeta struct {
	Filepath       string    `yaml:"filepath" json:"filepath"`
	FilepathFormat string    `yaml:"filepath_format" json:"filepath_format,omitempty"`
	Cycle          string    `yaml:"cycle" json:"cycle,omitempty"`
	CycletimeStr   string    `yaml:"cycletime_str" json:"cycletime_str,omitempty"`
	Cycletime      time.Time `yaml:"cycletime" json:"cycletime,omitempty"`
	FilenameStr    string    `yaml:"filename_str" json:"filename_str"`
}

// MetricMeta locates the file holding one metric's innovation statistics.
// Construction resolves the templated file-naming parameters to a single
// concrete path and observation time, validates the time against the
// allowed historical window, and runs the path through the validity
// checker. Immutable once constructed.
type MetricMeta struct {
	name      string
	fileMeta  FileMeta
	filename  string
	cycletime time.Time
}

// NewMetricMeta resolves meta into a validated metric file location.
// All failures carry the metric name and the file_meta used.
func NewMetricMeta(name string, meta FileMeta) (MetricMeta, error) {
	m := MetricMeta{name: name, fileMeta: meta}

	var err error
	if meta.Cycletime.IsZero() {
		err = m.resolveStringCycle()
	} else {
		err = m.resolveDatetimeCycle()
	}
	if err == nil {
		err = checkCycletimeWindow(m.cycletime)
	}
	if err == nil {
		err = fileutil.CheckReadableFile(m.filename)
	}
	if err != nil {
		return MetricMeta{}, fmt.Errorf(
			"netcdf file could not be resolved for metric %q, file_meta: %+v: %w", name, meta, err)
	}
	return m, nil
}

// resolveStringCycle parses the cycle string against its strptime-style
// pattern and renders the filename template at the parsed time.
func (m *MetricMeta) resolveStringCycle() error {
	if m.fileMeta.Cycle == "" || m.fileMeta.CycletimeStr == "" {
		return fmt.Errorf("file_meta must carry either cycletime, or cycle with cycletime_str")
	}
	cycletime, err := strftime.Parse(m.fileMeta.CycletimeStr, m.fileMeta.Cycle)
	if err != nil {
		return fmt.Errorf("cannot parse cycle %q with pattern %q: %w",
			m.fileMeta.Cycle, m.fileMeta.CycletimeStr, err)
	}
	m.cycletime = cycletime.UTC()
	m.filename = m.fileMeta.Filepath + "/" + m.renderFilename(m.cycletime)
	return nil
}

// resolveDatetimeCycle renders the directory at the supplied cycle time and
// the filename at cycle time + 6 hours, which also becomes the reported
// observation time.
func (m *MetricMeta) resolveDatetimeCycle() error {
	if m.fileMeta.FilenameStr == "" {
		return fmt.Errorf("file_meta is missing filename_str")
	}
	cycle := m.fileMeta.Cycletime.UTC()

	dir := m.fileMeta.Filepath
	if m.fileMeta.FilepathFormat != "" {
		dir = strftime.Format(m.fileMeta.FilepathFormat, cycle)
	}

	m.cycletime = cycle.Add(forecastOffset)
	m.filename = dir + "/" + m.renderFilename(m.cycletime)
	return nil
}

// renderFilename substitutes the metric token in the filename template and
// formats any date directives at t.
func (m *MetricMeta) renderFilename(t time.Time) string {
	name := strings.ReplaceAll(m.fileMeta.FilenameStr, metricToken, m.name)
	return strftime.Format(name, t)
}

func checkCycletimeWindow(t time.Time) error {
	now := clock.Now().UTC()
	if t.Before(MinCycletime) || t.After(now) {
		return fmt.Errorf("%w: cycle time %s must be later than %s and earlier than %s",
			ErrTimeRange,
			t.Format(time.RFC3339),
			MinCycletime.Format(time.RFC3339),
			now.Format(time.RFC3339))
	}
	return nil
}

// Name returns the metric name.
func (m MetricMeta) Name() string { return m.name }

// Filename returns the resolved, validated absolute file path.
func (m MetricMeta) Filename() string { return m.filename }

// Cycletime returns the observation time carried into harvested records.
func (m MetricMeta) Cycletime() time.Time { return m.cycletime }

// FileMeta returns the template parameters the location was resolved from.
func (m MetricMeta) FileMeta() FileMeta { return m.fileMeta }
