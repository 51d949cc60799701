package core

// sort.go provides the deterministic row ordering used before pagination.
// Sorting exists solely to make repeated requests reproducible; it is not
// a user-facing feature and has no direction or multi-column controls.

import (
	"sort"

	"github.com/haulstack/logistics-api/internal/table"
)

// identifierColumns are common primary-identifier names checked after the
// date candidates when picking a sort column.
var identifierColumns = []string{
	"trip_id",
	"purchase_id",
	"incident_id",
	"maintenance_id",
	"vehicle_id",
	"id",
}

// sortColumn scans the fixed priority list — derived timestamp columns,
// then raw date columns, then identifier columns — and returns the first
// one present in the table.
func sortColumn(t *table.Table) (*table.Column, bool) {
	for _, name := range table.DateCandidates() {
		if c, ok := t.Column(name + "_ts"); ok {
			return c, true
		}
	}
	for _, name := range table.DateCandidates() {
		if c, ok := t.Column(name); ok {
			return c, true
		}
	}
	for _, name := range identifierColumns {
		if c, ok := t.Column(name); ok {
			return c, true
		}
	}
	return nil, false
}

// sortedIndex returns the row indices of t ordered ascending by col.
// The sort is stable and missing values order last, so unchanged tables
// always paginate identically.
func sortedIndex(t *table.Table, col *table.Column) []int {
	idx := seq(0, t.NumRows())
	sort.SliceStable(idx, func(a, b int) bool {
		return cellLess(col, idx[a], idx[b])
	})
	return idx
}

// cellLess orders two cells of the same column: present before missing,
// then by the column's native type.
func cellLess(c *table.Column, i, j int) bool {
	if !c.Valid[i] || !c.Valid[j] {
		return c.Valid[i] && !c.Valid[j]
	}
	switch c.Type {
	case table.TypeNumeric:
		return c.Nums[i] < c.Nums[j]
	case table.TypeTimestamp:
		return c.Times[i].Before(c.Times[j])
	default:
		return c.Strs[i] < c.Strs[j]
	}
}
