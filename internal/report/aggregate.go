// Package report builds and renders the weekly release report.
package report

import (
    "context"
    "sort"

    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/history"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/links"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/match"
)

// Aggregator turns a pile of candidate issues into one weekly report.
type Aggregator struct {
    log     zerolog.Logger
    matcher *match.Matcher
    links   *links.Collector
}

func NewAggregator(log zerolog.Logger, matcher *match.Matcher) *Aggregator {
    return &Aggregator{
        log:     log,
        matcher: matcher,
        links:   links.NewCollector(log),
    }
}

// Aggregate classifies every candidate, resolves its first release transition
// and keeps the ones released inside the window. Running it twice over the
// same inputs yields the same report. Two releases of the same component in
// one window stay as separate entries.
func (a *Aggregator) Aggregate(ctx context.Context, window domain.WeekWindow, candidates []domain.RawIssue, fetch links.Fetcher) domain.ReleaseReport {
    rep := domain.ReleaseReport{Window: window}
    for _, iss := range candidates {
        m, ok := a.matcher.Match(iss.Summary)
        if !ok { continue }
        releasedAt, ok := history.FirstReleaseTime(iss.StatusHistory, m.Spec.ReleasedStatus)
        if !ok {
            a.log.Debug().Str("issue", iss.Key).Str("component", m.Spec.Name).
                Msg("matched but never released, skipping")
            continue
        }
        if !window.Contains(releasedAt) { continue }
        rep.Entries = append(rep.Entries, domain.ReleaseReportEntry{
            Component:  m.Spec.Name,
            Version:    m.Version,
            IssueKey:   iss.Key,
            Summary:    iss.Summary,
            Status:     iss.Status,
            Assignee:   iss.Assignee,
            DeployDate: window.Start,
            ReleasedAt: releasedAt,
            Links:      a.links.Collect(ctx, iss, fetch),
        })
    }
    sort.SliceStable(rep.Entries, func(i, j int) bool {
        ei, ej := rep.Entries[i], rep.Entries[j]
        if ei.Component != ej.Component { return ei.Component < ej.Component }
        return domain.CompareVersions(ei.Version, ej.Version) < 0
    })
    a.log.Info().Str("week", window.Label()).Int("entries", len(rep.Entries)).
        Int("candidates", len(candidates)).Msg("weekly report aggregated")
    return rep
}
