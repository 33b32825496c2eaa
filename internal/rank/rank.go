// Package rank computes the derived name→total mappings the ranking pages
// display. Totals are recomputed from the full log on every regeneration;
// nothing here is incremental or cached.
package rank

import (
	"sort"
	"time"

	"github.com/dukerupert/ouenpt/internal/model"
)

// Predicate selects the events that belong to one ranking window.
type Predicate func(time.Time) bool

// Daily keeps events falling on now's JST calendar date. An event stamped
// exactly at midnight belongs to the new day.
func Daily(now time.Time) Predicate {
	y, m, d := now.In(model.JST).Date()
	return func(ts time.Time) bool {
		ty, tm, td := ts.In(model.JST).Date()
		return ty == y && tm == m && td == d
	}
}

// Monthly keeps events falling in now's JST calendar month.
func Monthly(now time.Time) Predicate {
	y, m, _ := now.In(model.JST).Date()
	return func(ts time.Time) bool {
		ty, tm, _ := ts.In(model.JST).Date()
		return ty == y && tm == m
	}
}

// AllTime keeps everything.
func AllTime() Predicate {
	return func(time.Time) bool { return true }
}

// Totals sums points per name over the events keep selects. Events with an
// empty name or non-positive points are skipped; the store should never hold
// them, but the aggregator does not trust upstream. The returned slice is
// ordered by total descending, ties broken by first appearance in the
// filtered subset, so a single regeneration always ranks deterministically.
func Totals(events []model.Event, keep Predicate) []model.Total {
	sums := make(map[string]int)
	var order []string

	for _, ev := range events {
		if !ev.Valid() {
			continue
		}
		if !keep(ev.Timestamp) {
			continue
		}
		if _, seen := sums[ev.Name]; !seen {
			order = append(order, ev.Name)
		}
		sums[ev.Name] += ev.Points
	}

	totals := make([]model.Total, 0, len(order))
	for _, name := range order {
		totals = append(totals, model.Total{Name: name, Points: sums[name]})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Points > totals[j].Points
	})
	return totals
}
