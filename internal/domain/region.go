package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrValidation reports a malformed domain value, such as region bounds out
// of range or an empty region name.
var ErrValidation = errors.New("validation failed")

// Full longitude span covered by every region.
const (
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Region is a named latitude band used to select which per-region
// statistics variables to read. Immutable once constructed.
type Region struct {
	name   string
	minLat float64
	maxLat float64
	bounds string
}

// NewRegion validates name and latitude bounds and derives the region's
// boundary ring. Construction either succeeds completely or fails with a
// descriptive error; a Region is never partially built.
func NewRegion(name string, minLat, maxLat float64) (Region, error) {
	if name == "" {
		return Region{}, fmt.Errorf("%w: region name must be a non-empty string", ErrValidation)
	}
	if math.IsNaN(minLat) || math.IsNaN(maxLat) {
		return Region{}, fmt.Errorf("%w: min and max lat must be real numbers - min_lat: %v, max_lat: %v",
			ErrValidation, minLat, maxLat)
	}
	if minLat > maxLat {
		return Region{}, fmt.Errorf("%w: min_lat must not exceed max_lat - min_lat: %v, max_lat: %v",
			ErrValidation, minLat, maxLat)
	}
	if math.Abs(minLat) > 90 || math.Abs(maxLat) > 90 {
		return Region{}, fmt.Errorf("%w: min_lat and max_lat must be within [-90, 90] - min_lat: %v, max_lat: %v",
			ErrValidation, minLat, maxLat)
	}

	return Region{
		name:   name,
		minLat: minLat,
		maxLat: maxLat,
		bounds: boundsRing(minLat, maxLat),
	}, nil
}

// boundsRing renders the closed rectangular boundary of a latitude band:
// NW, NE, SE, SW corners over the full longitude span, closed by repeating
// the first vertex.
func boundsRing(minLat, maxLat float64) string {
	return fmt.Sprintf("((%g,%g),(%g,%g),(%g,%g),(%g,%g),(%g,%g))",
		minLongitude, maxLat,
		maxLongitude, maxLat,
		maxLongitude, minLat,
		minLongitude, minLat,
		minLongitude, maxLat)
}

// Name returns the region name.
func (r Region) Name() string { return r.name }

// MinLat returns the southern latitude bound.
func (r Region) MinLat() float64 { return r.minLat }

// MaxLat returns the northern latitude bound.
func (r Region) MaxLat() float64 { return r.maxLat }

// Bounds returns the closed boundary ring derived at construction. It is
// carried through to every record touching this region, not recomputed per
// record.
func (r Region) Bounds() string { return r.bounds }

// DefaultRegions returns the canonical five-region set substituted when a
// configuration supplies no regions of its own.
func DefaultRegions() []Region {
	defaults := []struct {
		name   string
		minLat float64
		maxLat float64
	}{
		{"equatorial", -5, 5},
		{"global", -90, 90},
		{"north_hemis", 20, 60},
		{"tropics", -20, 20},
		{"south_hemis", -60, -20},
	}

	regions := make([]Region, 0, len(defaults))
	for _, d := range defaults {
		r, err := NewRegion(d.name, d.minLat, d.maxLat)
		if err != nil {
			// The default bounds are static and always valid.
			panic(err)
		}
		regions = append(regions, r)
	}
	return regions
}
