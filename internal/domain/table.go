package domain

// recordColumns is the fixed column order of the tabular output shape, one
// column per record field.
var recordColumns = []string{
	"name",
	"cycletime",
	"region_name",
	"region_bounds",
	"elevation",
	"elevation_unit",
	"metric",
	"stat",
	"value",
}

// Table is the column-oriented form of a harvested record sequence.
// Reshaping preserves record order within every column.
type Table struct {
	columns []string
	data    map[string][]any
}

// NewTable regroups a flat record sequence into one column per field.
func NewTable(records []Record) *Table {
	t := &Table{
		columns: append([]string(nil), recordColumns...),
		data:    make(map[string][]any, len(recordColumns)),
	}
	for _, col := range t.columns {
		t.data[col] = make([]any, 0, len(records))
	}
	for _, r := range records {
		t.data["name"] = append(t.data["name"], r.Name)
		t.data["cycletime"] = append(t.data["cycletime"], r.Cycletime)
		t.data["region_name"] = append(t.data["region_name"], r.RegionName)
		t.data["region_bounds"] = append(t.data["region_bounds"], r.RegionBounds)
		t.data["elevation"] = append(t.data["elevation"], r.Elevation)
		t.data["elevation_unit"] = append(t.data["elevation_unit"], r.ElevationUnit)
		t.data["metric"] = append(t.data["metric"], r.Metric)
		t.data["stat"] = append(t.data["stat"], r.Stat)
		t.data["value"] = append(t.data["value"], r.Value)
	}
	return t
}

// Columns returns the column names in their fixed order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Column returns the values for one named column, nil if the column does
// not exist.
func (t *Table) Column(name string) []any { return t.data[name] }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.data["value"]) }
