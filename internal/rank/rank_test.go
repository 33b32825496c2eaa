package rank

import (
	"testing"
	"time"

	"github.com/dukerupert/ouenpt/internal/model"
)

func jst(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, model.JST)
}

func TestTotalsGroupsAndRanks(t *testing.T) {
	events := []model.Event{
		{Name: "Alice", Points: 5, Timestamp: jst(2026, 1, 15, 9, 0, 0)},
		{Name: "Bob", Points: 3, Timestamp: jst(2026, 1, 15, 10, 0, 0)},
		{Name: "Alice", Points: 2, Timestamp: jst(2026, 1, 15, 11, 0, 0)},
	}

	totals := Totals(events, Daily(jst(2026, 1, 15, 12, 0, 0)))
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	if totals[0].Name != "Alice" || totals[0].Points != 7 {
		t.Errorf("totals[0] = %+v, want Alice/7", totals[0])
	}
	if totals[1].Name != "Bob" || totals[1].Points != 3 {
		t.Errorf("totals[1] = %+v, want Bob/3", totals[1])
	}
}

func TestTotalsTieBreakFirstSeen(t *testing.T) {
	events := []model.Event{
		{Name: "Zoe", Points: 4, Timestamp: jst(2026, 3, 1, 8, 0, 0)},
		{Name: "Ann", Points: 4, Timestamp: jst(2026, 3, 1, 9, 0, 0)},
	}

	totals := Totals(events, AllTime())
	if totals[0].Name != "Zoe" {
		t.Errorf("totals[0].Name = %q, want %q (first seen wins ties)", totals[0].Name, "Zoe")
	}
	if totals[1].Name != "Ann" {
		t.Errorf("totals[1].Name = %q, want %q", totals[1].Name, "Ann")
	}
}

func TestTotalsSkipsInvalidEvents(t *testing.T) {
	events := []model.Event{
		{Name: "", Points: 5, Timestamp: jst(2026, 1, 1, 0, 0, 1)},
		{Name: "Alice", Points: 0, Timestamp: jst(2026, 1, 1, 0, 0, 2)},
		{Name: "Alice", Points: -3, Timestamp: jst(2026, 1, 1, 0, 0, 3)},
		{Name: "Bob", Points: 1, Timestamp: jst(2026, 1, 1, 0, 0, 4)},
	}

	totals := Totals(events, AllTime())
	if len(totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(totals))
	}
	if totals[0].Name != "Bob" || totals[0].Points != 1 {
		t.Errorf("totals[0] = %+v, want Bob/1", totals[0])
	}
}

func TestTotalsPure(t *testing.T) {
	events := []model.Event{
		{Name: "Alice", Points: 5, Timestamp: jst(2026, 1, 15, 9, 0, 0)},
		{Name: "Bob", Points: 3, Timestamp: jst(2026, 1, 15, 10, 0, 0)},
	}
	pred := Daily(jst(2026, 1, 15, 23, 0, 0))

	first := Totals(events, pred)
	second := Totals(events, pred)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("totals[%d] differ: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDailyMidnightBoundary(t *testing.T) {
	midnight := jst(2026, 1, 16, 0, 0, 0)
	justBefore := jst(2026, 1, 15, 23, 59, 59)

	day15 := Daily(jst(2026, 1, 15, 12, 0, 0))
	day16 := Daily(jst(2026, 1, 16, 12, 0, 0))

	if day15(midnight) {
		t.Error("midnight event counted on the previous day")
	}
	if !day16(midnight) {
		t.Error("midnight event not counted on the new day")
	}
	if !day15(justBefore) {
		t.Error("23:59:59 event not counted on its own day")
	}
	if day16(justBefore) {
		t.Error("23:59:59 event leaked into the next day")
	}
}

func TestDailyConvertsZones(t *testing.T) {
	// 2026-01-15 20:00 UTC is 2026-01-16 05:00 JST.
	utcEvent := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)

	if Daily(jst(2026, 1, 15, 12, 0, 0))(utcEvent) {
		t.Error("UTC event assigned to the wrong JST day")
	}
	if !Daily(jst(2026, 1, 16, 12, 0, 0))(utcEvent) {
		t.Error("UTC event missing from its JST day")
	}
}

func TestMonthlyFilter(t *testing.T) {
	events := []model.Event{
		{Name: "Alice", Points: 5, Timestamp: jst(2026, 1, 31, 23, 59, 59)},
		{Name: "Alice", Points: 3, Timestamp: jst(2026, 2, 1, 0, 0, 0)},
		{Name: "Bob", Points: 2, Timestamp: jst(2025, 2, 10, 12, 0, 0)},
	}

	totals := Totals(events, Monthly(jst(2026, 2, 14, 12, 0, 0)))
	if len(totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(totals))
	}
	if totals[0].Name != "Alice" || totals[0].Points != 3 {
		t.Errorf("totals[0] = %+v, want Alice/3 (February 2026 only)", totals[0])
	}
}

func TestTotalsEmptyInput(t *testing.T) {
	totals := Totals(nil, AllTime())
	if len(totals) != 0 {
		t.Errorf("expected no totals, got %d", len(totals))
	}
}
