// ABOUTME: Counts and proportional shares of Good/Okay/Bad nights per bucket.
// ABOUTME: Also counts the six granular night scores per bucket.
package analytics

import (
	"fmt"

	"github.com/harperreed/sleepdash/internal/models"
)

// Share column names, in display order.
const (
	ColShareGood = "1) Share of Good Nights"
	ColShareOkay = "2) Share of Okay Nights"
	ColShareBad  = "3) Share of Bad Nights"
)

// ShareColumns lists the share columns in fixed order.
var ShareColumns = []string{ColShareGood, ColShareOkay, ColShareBad}

// ShareRow holds night-score counts and shares for one bucket.
type ShareRow struct {
	Key       string  `json:"key" yaml:"key"`
	Good      int     `json:"good" yaml:"good"`
	Okay      int     `json:"okay" yaml:"okay"`
	Bad       int     `json:"bad" yaml:"bad"`
	Total     int     `json:"total" yaml:"total"`
	GoodShare float64 `json:"good_share" yaml:"good_share"`
	OkayShare float64 `json:"okay_share" yaml:"okay_share"`
	BadShare  float64 `json:"bad_share" yaml:"bad_share"`
}

// Count returns the count for a coarse score.
func (r ShareRow) Count(s models.NightScore) int {
	switch s {
	case models.NightGood:
		return r.Good
	case models.NightOkay:
		return r.Okay
	case models.NightBad:
		return r.Bad
	}
	return 0
}

// Share returns the share for a coarse score.
func (r ShareRow) Share(s models.NightScore) float64 {
	switch s {
	case models.NightGood:
		return r.GoodShare
	case models.NightOkay:
		return r.OkayShare
	case models.NightBad:
		return r.BadShare
	}
	return 0
}

// ScoreShares counts night scores per year or year-month bucket. Buckets
// are sorted like the matching overview; empty buckets never appear.
func (d *Dataset) ScoreShares(by GroupBy) ([]ShareRow, error) {
	if by != ByYear && by != ByYearMonth {
		return nil, fmt.Errorf("score shares group by year or year_month, not %q", by)
	}
	keys, groups := d.groups(groupings[by])

	rows := make([]ShareRow, 0, len(keys))
	for _, k := range keys {
		row := ShareRow{Key: k}
		for _, r := range groups[k] {
			switch r.NightScore {
			case models.NightGood:
				row.Good++
			case models.NightOkay:
				row.Okay++
			case models.NightBad:
				row.Bad++
			}
		}
		row.Total = row.Good + row.Okay + row.Bad
		if row.Total == 0 {
			continue
		}
		total := float64(row.Total)
		row.GoodShare = float64(row.Good) / total
		row.OkayShare = float64(row.Okay) / total
		row.BadShare = float64(row.Bad) / total
		rows = append(rows, row)
	}
	return rows, nil
}

// GranularRow counts granular night scores for one bucket. Counts align
// with models.GranularNightScores.
type GranularRow struct {
	Key    string `json:"key" yaml:"key"`
	Counts []int  `json:"counts" yaml:"counts"`
	Total  int    `json:"total" yaml:"total"`
}

// GranularCounts counts granular night scores per bucket.
func (d *Dataset) GranularCounts(by GroupBy) ([]GranularRow, error) {
	g, ok := groupings[by]
	if !ok {
		return nil, fmt.Errorf("unknown group-by %q", by)
	}
	keys, groups := d.groups(g)

	index := make(map[models.GranularNightScore]int, len(models.GranularNightScores))
	for i, s := range models.GranularNightScores {
		index[s] = i
	}

	rows := make([]GranularRow, 0, len(keys))
	for _, k := range keys {
		row := GranularRow{Key: k, Counts: make([]int, len(models.GranularNightScores))}
		for _, r := range groups[k] {
			if i, ok := index[r.GranularNightScore]; ok {
				row.Counts[i]++
				row.Total++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
