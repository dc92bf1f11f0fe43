package history

import (
    "testing"
    "time"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

func at(day, hour int) time.Time {
    return time.Date(2026, time.November, day, hour, 0, 0, 0, time.UTC)
}

func TestFirstReleaseTime_FirstTransitionWins(t *testing.T) {
    changes := []domain.StatusChange{
        {Status: "Open", At: at(9, 8)},
        {Status: "In production", At: at(11, 10)},
        {Status: "Open", At: at(12, 9)},
        {Status: "In production", At: at(14, 16)},
    }
    got, ok := FirstReleaseTime(changes, "In production")
    if !ok { t.Fatal("expected a release time") }
    if !got.Equal(at(11, 10)) {
        t.Fatalf("got %v, want first transition %v", got, at(11, 10))
    }
}

func TestFirstReleaseTime_CaseInsensitive(t *testing.T) {
    changes := []domain.StatusChange{
        {Status: "Deploying To PROD", At: at(10, 12)},
    }
    got, ok := FirstReleaseTime(changes, "Deploying to PROD")
    if !ok || !got.Equal(at(10, 12)) {
        t.Fatalf("got (%v, %v)", got, ok)
    }
}

func TestFirstReleaseTime_NeverReleased(t *testing.T) {
    changes := []domain.StatusChange{
        {Status: "Open", At: at(9, 8)},
        {Status: "In review", At: at(10, 9)},
    }
    if _, ok := FirstReleaseTime(changes, "In production"); ok {
        t.Fatal("expected no release time")
    }
    if _, ok := FirstReleaseTime(nil, "In production"); ok {
        t.Fatal("expected no release time for empty changelog")
    }
}
