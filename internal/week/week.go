// Package week maps week numbers onto Monday..Sunday calendar windows.
package week

import (
    "fmt"
    "regexp"
    "time"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

// Resolve maps a (week, year) pair onto its Monday..Sunday window.
// Week 1 begins on the first Monday of the year. Returns
// domain.InvalidWeekError when the pair does not denote a valid week.
func Resolve(weekNum, year int) (domain.WeekWindow, error) {
    if weekNum < 1 || weekNum > WeeksInYear(year) {
        return domain.WeekWindow{}, domain.InvalidWeekError{Week: weekNum, Year: year}
    }
    start := firstMonday(year).AddDate(0, 0, (weekNum-1)*7)
    return domain.WeekWindow{
        Year:  year,
        Week:  weekNum,
        Start: start,
        End:   start.AddDate(0, 0, 6),
    }, nil
}

// WeeksInYear counts the Mondays of the year: 52 or 53.
func WeeksInYear(year int) int {
    first := firstMonday(year)
    last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
    for last.Weekday() != time.Monday {
        last = last.AddDate(0, 0, -1)
    }
    return int(last.Sub(first).Hours()/(24*7)) + 1
}

func firstMonday(year int) time.Time {
    d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
    for d.Weekday() != time.Monday {
        d = d.AddDate(0, 0, 1)
    }
    return d
}

// Current returns the year and week number containing now. Days before the
// year's first Monday belong to the previous year's last week.
func Current(now time.Time) (year, weekNum int) {
    d := now.UTC()
    day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
    year = day.Year()
    first := firstMonday(year)
    if day.Before(first) {
        year--
        return year, WeeksInYear(year)
    }
    return year, int(day.Sub(first).Hours()/(24*7)) + 1
}

var (
    yearWeekRe = regexp.MustCompile(`^(\d{4})[-_ ]*[Ww]?(\d{1,2})$`)
    weekOnlyRe = regexp.MustCompile(`^[Ww]?(\d{1,2})$`)
)

// ParseArg parses a user-supplied week argument. Accepted forms: "45", "W45",
// "2026-45", "2026-W45". Year is 0 when the argument carries no year.
func ParseArg(raw string) (year, weekNum int, err error) {
    if m := yearWeekRe.FindStringSubmatch(raw); m != nil {
        fmt.Sscanf(m[1], "%d", &year)
        fmt.Sscanf(m[2], "%d", &weekNum)
        return year, weekNum, nil
    }
    if m := weekOnlyRe.FindStringSubmatch(raw); m != nil {
        fmt.Sscanf(m[1], "%d", &weekNum)
        return 0, weekNum, nil
    }
    return 0, 0, fmt.Errorf("cannot parse week argument %q", raw)
}
