package domain

import (
    "fmt"
    "regexp"
    "strconv"
    "time"
)

// WeekWindow is the Monday..Sunday calendar span of a report week.
// Start and End are midnight UTC dates; the window is inclusive on both ends.
type WeekWindow struct {
    Year  int
    Week  int
    Start time.Time
    End   time.Time
}

// Contains reports whether the calendar date of t falls inside the window.
func (w WeekWindow) Contains(t time.Time) bool {
    d := t.UTC()
    day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
    return !day.Before(w.Start) && !day.After(w.End)
}

// Label renders the canonical week key, e.g. "2026-W45".
func (w WeekWindow) Label() string {
    return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// InvalidWeekError marks a week/year pair that does not denote a valid week.
type InvalidWeekError struct {
    Week int
    Year int
}

func (e InvalidWeekError) Error() string {
    return fmt.Sprintf("week %d is not valid for year %d", e.Week, e.Year)
}

// StatusChange is one entry of an issue's status changelog.
type StatusChange struct {
    Status string
    At     time.Time
}

// IssueLink is one edge of an issue's link set.
type IssueLink struct {
    Key      string
    LinkType string
}

// RawIssue is the tracker-side representation of an issue. The engine only
// reads it; StatusHistory is ordered oldest first.
type RawIssue struct {
    Key           string
    Summary       string
    Type          string
    Status        string
    Assignee      string
    Created       time.Time
    Links         []IssueLink
    StatusHistory []StatusChange
}

// MatchRule selects how a ComponentSpec's tokens are tested against a summary.
type MatchRule string

const (
    RuleContains   MatchRule = "contains-substring"
    RulePrefix     MatchRule = "starts-with-prefix"
    RulePrefixDash MatchRule = "starts-with-prefix-with-trailing-dash"
)

// ComponentSpec is the static per-component matching configuration.
// New components are data additions, not code additions.
type ComponentSpec struct {
    Name           string    `json:"name"`
    Rule           MatchRule `json:"rule"`
    Tokens         []string  `json:"tokens"`
    ReleasedStatus string    `json:"released_status"`
}

// ComponentMatch is the result of classifying a raw issue's summary.
// Version is empty when no version token was found.
type ComponentMatch struct {
    Spec    ComponentSpec
    Version string
}

// LinkCategory buckets a linked issue for the report.
type LinkCategory string

const (
    CategoryFeature LinkCategory = "FEATURE"
    CategoryCode    LinkCategory = "CODE"
    CategoryBug     LinkCategory = "BUG"
    CategoryOther   LinkCategory = "OTHER"
)

// CategorizedLink is one linked work item attached to a report entry.
type CategorizedLink struct {
    Key      string
    Summary  string
    Type     string
    Status   string
    Assignee string
    Category LinkCategory
}

// ReleaseReportEntry is one component release inside a weekly report.
// DeployDate anchors the entry to the Monday of its window; ReleasedAt is the
// first transition into the component's released status.
type ReleaseReportEntry struct {
    Component  string
    Version    string
    IssueKey   string
    Summary    string
    Status     string
    Assignee   string
    DeployDate time.Time
    ReleasedAt time.Time
    Links      []CategorizedLink
}

// LinksByCategory filters the entry's links preserving their order.
func (e ReleaseReportEntry) LinksByCategory(cat LinkCategory) []CategorizedLink {
    var out []CategorizedLink
    for _, l := range e.Links {
        if l.Category == cat { out = append(out, l) }
    }
    return out
}

// ReleaseReport is the terminal artifact of a weekly aggregation run.
// Entries are sorted by component name ascending; two releases of the same
// component in one window are retained as separate entries.
type ReleaseReport struct {
    Window  WeekWindow
    Entries []ReleaseReportEntry
}

// VersionsByComponent collapses the report into the component -> version
// mapping persisted as the publish record. Multiple versions of one component
// are comma-joined in ascending version order.
func (r ReleaseReport) VersionsByComponent() map[string]string {
    byComp := map[string][]string{}
    for _, e := range r.Entries {
        v := e.Version
        if v == "" { v = "unknown" }
        dup := false
        for _, x := range byComp[e.Component] {
            if x == v { dup = true; break }
        }
        if !dup { byComp[e.Component] = append(byComp[e.Component], v) }
    }
    out := make(map[string]string, len(byComp))
    for c, vs := range byComp {
        SortVersions(vs)
        joined := vs[0]
        for _, v := range vs[1:] { joined += "," + v }
        out[c] = joined
    }
    return out
}

// PublishRecord is the persisted component -> version mapping for one week.
type PublishRecord struct {
    Year     int
    Week     int
    Versions map[string]string
}

// PublishAction says whether a publish run creates a new page or updates one.
type PublishAction string

const (
    ActionCreate PublishAction = "CREATE"
    ActionUpdate PublishAction = "UPDATE"
)

// PublishDecision is the outcome of comparing a new report against history.
type PublishDecision struct {
    Action PublishAction
    Notify bool
}

var versionDigits = regexp.MustCompile(`\d+`)

// CompareVersions orders version strings by their numeric segments, so that
// "3.10.0" sorts after "3.9.1".
func CompareVersions(a, b string) int {
    as := versionDigits.FindAllString(a, -1)
    bs := versionDigits.FindAllString(b, -1)
    for i := 0; i < len(as) && i < len(bs); i++ {
        ai, _ := strconv.Atoi(as[i])
        bi, _ := strconv.Atoi(bs[i])
        if ai != bi {
            if ai < bi { return -1 }
            return 1
        }
    }
    switch {
    case len(as) < len(bs):
        return -1
    case len(as) > len(bs):
        return 1
    }
    return 0
}

// SortVersions sorts in place by numeric segment order.
func SortVersions(vs []string) {
    for i := 1; i < len(vs); i++ {
        for j := i; j > 0 && CompareVersions(vs[j], vs[j-1]) < 0; j-- {
            vs[j], vs[j-1] = vs[j-1], vs[j]
        }
    }
}
