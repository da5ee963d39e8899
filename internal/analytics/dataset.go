// ABOUTME: Immutable set of enriched nights and the filters over it.
// ABOUTME: Every report is a fresh aggregate computed from a Dataset.
package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/harperreed/sleepdash/internal/models"
)

// GroupBy names a grouping key for aggregates.
type GroupBy string

const (
	ByYear      GroupBy = "year"
	ByYearMonth GroupBy = "year_month"
	ByWeekday   GroupBy = "weekday"
)

// ParseGroupBy validates a group-by name. "month" is accepted for year_month.
func ParseGroupBy(s string) (GroupBy, error) {
	switch s {
	case "year":
		return ByYear, nil
	case "year_month", "month":
		return ByYearMonth, nil
	case "weekday":
		return ByWeekday, nil
	default:
		return "", fmt.Errorf("unknown group-by %q (use year, year_month or weekday)", s)
	}
}

// Dataset is an immutable, ordered collection of enriched nights.
type Dataset struct {
	records []models.EnrichedRecord
}

// NewDataset copies records into a new Dataset, keeping their order.
func NewDataset(records []models.EnrichedRecord) *Dataset {
	cp := make([]models.EnrichedRecord, len(records))
	copy(cp, records)
	return &Dataset{records: cp}
}

// Len returns the number of nights.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of the nights in their original order.
func (d *Dataset) Records() []models.EnrichedRecord {
	cp := make([]models.EnrichedRecord, len(d.records))
	copy(cp, d.records)
	return cp
}

// Recent returns the first n nights in export order.
func (d *Dataset) Recent(n int) []models.EnrichedRecord {
	if n < 0 {
		n = 0
	}
	if n > len(d.records) {
		n = len(d.records)
	}
	cp := make([]models.EnrichedRecord, n)
	copy(cp, d.records[:n])
	return cp
}

// Days returns the distinct night dates, ascending.
func (d *Dataset) Days() []string {
	return d.distinct(func(r models.EnrichedRecord) string { return r.Date })
}

// Months returns the distinct year-month buckets, ascending.
func (d *Dataset) Months() []string {
	return d.distinct(func(r models.EnrichedRecord) string { return r.YearMonth })
}

func (d *Dataset) distinct(key func(models.EnrichedRecord) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range d.records {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ValidateDate checks s is empty or a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return nil
}

// ValidateMonth checks s is empty or a YYYY-MM bucket.
func ValidateMonth(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01", s); err != nil {
		return fmt.Errorf("invalid month %q (use YYYY-MM)", s)
	}
	return nil
}

// FilterByDateRange returns the nights whose date lies in [start, end].
// An empty bound is open. Order is preserved.
func (d *Dataset) FilterByDateRange(start, end string) (*Dataset, error) {
	if err := ValidateDate(start); err != nil {
		return nil, err
	}
	if err := ValidateDate(end); err != nil {
		return nil, err
	}
	return d.filter(func(r models.EnrichedRecord) bool {
		return inRange(r.Date, start, end)
	}), nil
}

// FilterByMonthRange returns the nights whose year-month lies in [from, to].
func (d *Dataset) FilterByMonthRange(from, to string) (*Dataset, error) {
	if err := ValidateMonth(from); err != nil {
		return nil, err
	}
	if err := ValidateMonth(to); err != nil {
		return nil, err
	}
	return d.filter(func(r models.EnrichedRecord) bool {
		return inRange(r.YearMonth, from, to)
	}), nil
}

func (d *Dataset) filter(keep func(models.EnrichedRecord) bool) *Dataset {
	out := &Dataset{records: make([]models.EnrichedRecord, 0, len(d.records))}
	for _, r := range d.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}

// inRange compares zero-padded keys lexicographically, which is chronological.
func inRange(key, lo, hi string) bool {
	if lo != "" && key < lo {
		return false
	}
	if hi != "" && key > hi {
		return false
	}
	return true
}

// bucket groups nights under a key and returns the keys in first-seen order.
func (d *Dataset) bucket(key func(models.EnrichedRecord) string) ([]string, map[string][]models.EnrichedRecord) {
	groups := make(map[string][]models.EnrichedRecord)
	var keys []string
	for _, r := range d.records {
		k := key(r)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	return keys, groups
}

// grouping is a bucket key and the ordering of its keys.
type grouping struct {
	key   func(models.EnrichedRecord) string
	order func(keys []string)
}

var groupings = map[GroupBy]grouping{
	ByYear: {
		key: func(r models.EnrichedRecord) string { return strconv.Itoa(r.Year) },
		order: func(keys []string) {
			sort.Slice(keys, func(i, j int) bool {
				a, _ := strconv.Atoi(keys[i])
				b, _ := strconv.Atoi(keys[j])
				return a < b
			})
		},
	},
	ByYearMonth: {
		key:   func(r models.EnrichedRecord) string { return r.YearMonth },
		order: sort.Strings,
	},
	ByWeekday: {
		key: func(r models.EnrichedRecord) string { return r.Weekday },
		order: func(keys []string) {
			sort.Slice(keys, func(i, j int) bool {
				return models.WeekdayIndex(keys[i]) < models.WeekdayIndex(keys[j])
			})
		},
	},
}

// groups buckets the nights and returns the keys in sorted order.
func (d *Dataset) groups(g grouping) ([]string, map[string][]models.EnrichedRecord) {
	keys, groups := d.bucket(g.key)
	g.order(keys)
	return keys, groups
}
