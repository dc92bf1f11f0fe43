// Package links walks the one-hop link neighborhood of a release issue and
// buckets each linked item for the report.
package links

import (
    "context"
    "errors"
    "strings"

    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

// Fetcher resolves one issue key into its raw form. Returns
// domain.ErrIssueNotFound when the key does not exist or is not visible.
type Fetcher interface {
    FetchByKey(ctx context.Context, key string) (domain.RawIssue, error)
}

// Collector materializes link edges into categorized report rows.
type Collector struct {
    log zerolog.Logger
}

func NewCollector(log zerolog.Logger) *Collector {
    return &Collector{log: log}
}

// Collect fetches every directly linked issue of the release issue and
// categorizes it. Depth is exactly one hop. A link that cannot be fetched is
// skipped with a warning, never failing the run.
func (c *Collector) Collect(ctx context.Context, issue domain.RawIssue, fetch Fetcher) []domain.CategorizedLink {
    var out []domain.CategorizedLink
    for _, l := range issue.Links {
        if strings.HasPrefix(strings.ToLower(l.LinkType), "cloner") { continue }
        linked, err := fetch.FetchByKey(ctx, l.Key)
        if err != nil {
            ev := c.log.Warn().Str("issue", issue.Key).Str("link", l.Key)
            if errors.Is(err, domain.ErrIssueNotFound) {
                ev.Msg("linked issue not found, skipping")
            } else {
                ev.Err(err).Msg("linked issue fetch failed, skipping")
            }
            continue
        }
        out = append(out, domain.CategorizedLink{
            Key:      linked.Key,
            Summary:  linked.Summary,
            Type:     linked.Type,
            Status:   linked.Status,
            Assignee: linked.Assignee,
            Category: Categorize(linked.Type),
        })
    }
    return out
}

// Categorize buckets an issue type. Bug-like types come first so that
// "Bug Technical" never lands in CODE.
func Categorize(issueType string) domain.LinkCategory {
    t := strings.ToLower(issueType)
    switch {
    case strings.Contains(t, "bug") || strings.Contains(t, "defect"):
        return domain.CategoryBug
    case strings.Contains(t, "technical") || strings.Contains(t, "task") || strings.Contains(t, "improvement"):
        return domain.CategoryCode
    case strings.Contains(t, "story") || strings.Contains(t, "epic") || strings.Contains(t, "feature"):
        return domain.CategoryFeature
    }
    return domain.CategoryOther
}
