package week

import (
    "errors"
    "testing"
    "time"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_Week45Of2026(t *testing.T) {
    w, err := Resolve(45, 2026)
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if !w.Start.Equal(date(2026, time.November, 9)) {
        t.Fatalf("start = %v, want 2026-11-09", w.Start)
    }
    if !w.End.Equal(date(2026, time.November, 15)) {
        t.Fatalf("end = %v, want 2026-11-15", w.End)
    }
}

func TestResolve_AlwaysMondayToSundaySevenDays(t *testing.T) {
    for _, tc := range []struct{ week, year int }{
        {1, 2024}, {1, 2026}, {52, 2025}, {53, 2024}, {22, 2027},
    } {
        w, err := Resolve(tc.week, tc.year)
        if err != nil { t.Fatalf("Resolve(%d,%d): %v", tc.week, tc.year, err) }
        if w.Start.Weekday() != time.Monday {
            t.Errorf("Resolve(%d,%d) starts on %v", tc.week, tc.year, w.Start.Weekday())
        }
        if got := w.End.Sub(w.Start); got != 6*24*time.Hour {
            t.Errorf("Resolve(%d,%d) spans %v", tc.week, tc.year, got)
        }
    }
}

func TestResolve_InvalidWeeks(t *testing.T) {
    for _, tc := range []struct{ week, year int }{
        {0, 2026}, {-3, 2026}, {54, 2026},
        {53, 2025}, // 2025 has 52 report weeks
        {53, 2026},
    } {
        _, err := Resolve(tc.week, tc.year)
        var iw domain.InvalidWeekError
        if !errors.As(err, &iw) {
            t.Errorf("Resolve(%d,%d) = %v, want InvalidWeekError", tc.week, tc.year, err)
        }
    }
    // 2024 starts on a Monday and holds 53
    if _, err := Resolve(53, 2024); err != nil {
        t.Fatalf("Resolve(53,2024): %v", err)
    }
}

func TestResolve_WindowContains(t *testing.T) {
    w, err := Resolve(45, 2026)
    if err != nil { t.Fatal(err) }
    in := time.Date(2026, time.November, 11, 14, 30, 0, 0, time.UTC)
    if !w.Contains(in) { t.Errorf("window should contain %v", in) }
    sundayNight := time.Date(2026, time.November, 15, 23, 59, 59, 0, time.UTC)
    if !w.Contains(sundayNight) { t.Errorf("window should contain %v", sundayNight) }
    nextMonday := time.Date(2026, time.November, 16, 0, 0, 0, 0, time.UTC)
    if w.Contains(nextMonday) { t.Errorf("window should not contain %v", nextMonday) }
}

func TestCurrent_BeforeFirstMondayBelongsToPreviousYear(t *testing.T) {
    // 2026-01-01 falls before the first Monday (Jan 5)
    y, w := Current(time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC))
    if y != 2025 || w != WeeksInYear(2025) {
        t.Fatalf("Current = (%d,%d), want (2025,%d)", y, w, WeeksInYear(2025))
    }
    y, w = Current(time.Date(2026, time.November, 11, 0, 0, 0, 0, time.UTC))
    if y != 2026 || w != 45 {
        t.Fatalf("Current = (%d,%d), want (2026,45)", y, w)
    }
}

func TestParseArg(t *testing.T) {
    cases := []struct {
        raw        string
        year, week int
        ok         bool
    }{
        {"45", 0, 45, true},
        {"W45", 0, 45, true},
        {"w7", 0, 7, true},
        {"2026-45", 2026, 45, true},
        {"2026-W45", 2026, 45, true},
        {"2026_W05", 2026, 5, true},
        {"", 0, 0, false},
        {"week45", 0, 0, false},
    }
    for _, tc := range cases {
        y, w, err := ParseArg(tc.raw)
        if tc.ok != (err == nil) {
            t.Errorf("ParseArg(%q) err = %v", tc.raw, err)
            continue
        }
        if err == nil && (y != tc.year || w != tc.week) {
            t.Errorf("ParseArg(%q) = (%d,%d), want (%d,%d)", tc.raw, y, w, tc.year, tc.week)
        }
    }
}
