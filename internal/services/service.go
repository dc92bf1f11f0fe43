/* SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "fmt"
    "time"

    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/match"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/publish"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/repo"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/report"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/week"
)

// IssueSource is the tracker side: a board scan for candidates plus per-key
// fetches for link traversal.
type IssueSource interface {
    BoardIssues(ctx context.Context) ([]domain.RawIssue, error)
    FetchByKey(ctx context.Context, key string) (domain.RawIssue, error)
}

// PublishStore persists per-week publish records and job runs.
type PublishStore interface {
    ReadPublishRecord(ctx context.Context, year, weekNum int) (*domain.PublishRecord, error)
    WritePublishRecord(ctx context.Context, rec domain.PublishRecord, replace bool) error
    LastVersions(ctx context.Context, year, weekNum int) (map[string]string, error)
    StartJobRun(ctx context.Context, year, weekNum int) (int64, error)
    FinishJobRun(ctx context.Context, id int64, entries int, action string, success bool, errStr string) error
    GetLastRun(ctx context.Context) (*repo.LastRun, error)
}

// PagePublisher writes the rendered page to the wiki.
type PagePublisher interface {
    FindPage(ctx context.Context, title string) (string, error)
    Publish(ctx context.Context, title, body string) (string, error)
}

// Notifier announces a first publish. Failures are logged, never fatal.
type Notifier interface {
    NotifyPublished(ctx context.Context, weekLabel, pageURL string) error
}

type Service struct {
    cfg      config.Config
    log      zerolog.Logger
    source   IssueSource
    store    PublishStore
    pages    PagePublisher
    notify   Notifier
    agg      *report.Aggregator
    renderer *report.Renderer
    order    []string
    now      func() time.Time
}

func New(cfg config.Config, log zerolog.Logger, source IssueSource, store PublishStore, pages PagePublisher, notify Notifier) *Service {
    specs := match.DefaultSpecs()
    if cfg.ComponentsFile != "" {
        loaded, err := match.LoadSpecs(cfg.ComponentsFile)
        if err != nil {
            log.Warn().Err(err).Str("file", cfg.ComponentsFile).Msg("component spec file rejected, using defaults")
        } else {
            specs = loaded
        }
    }
    order := make([]string, 0, len(specs))
    for _, s := range specs { order = append(order, s.Name) }
    return &Service{
        cfg:    cfg,
        log:    log,
        source: source,
        store:  store,
        pages:  pages,
        notify: notify,
        agg:    report.NewAggregator(log, match.New(specs)),
        renderer: &report.Renderer{
            JiraBrowseURL:       jiraBrowseURL(cfg.JiraBaseURL),
            SwaggerChangelogURL: cfg.SwaggerChangelogURL,
        },
        order: order,
        now:   time.Now,
    }
}

func jiraBrowseURL(base string) string {
    if base == "" { return "" }
    return base + "/browse"
}

// WeekResult is the outcome for one processed week.
type WeekResult struct {
    Week    string `json:"week"`
    PageURL string `json:"url,omitempty"`
    Message string `json:"message,omitempty"`
    Action  string `json:"action,omitempty"`
    Entries int    `json:"entries"`
}

// RunResult is the outcome of a full run: gap weeks first, target week last.
type RunResult struct {
    Success      bool         `json:"success"`
    PageURL      string       `json:"page_url,omitempty"`
    Message      string       `json:"message,omitempty"`
    AllPublished []WeekResult `json:"all_published"`
    FilledGaps   int          `json:"filled_gaps"`
}

// RunForWeek builds, publishes and records the report for one week.
// A week with no releases yields a result without a page. Rerunning a
// published week updates the page silently; force replaces the stored record
// instead of merging into it.
func (s *Service) RunForWeek(ctx context.Context, year, weekNum int, force bool) (WeekResult, error) {
    window, err := week.Resolve(weekNum, year)
    if err != nil { return WeekResult{}, err }
    label := window.Label()
    log := s.log.With().Str("week", label).Logger()

    jobID, err := s.store.StartJobRun(ctx, year, weekNum)
    if err != nil { log.Warn().Err(err).Msg("cannot record job run") }
    fail := func(err error) (WeekResult, error) {
        if jobID != 0 {
            _ = s.store.FinishJobRun(ctx, jobID, 0, "", false, err.Error())
        }
        return WeekResult{}, err
    }

    candidates, err := s.source.BoardIssues(ctx)
    if err != nil { return fail(fmt.Errorf("board scan: %w", err)) }

    rep := s.agg.Aggregate(ctx, window, candidates, s.source)
    if len(rep.Entries) == 0 {
        log.Info().Msg("no releases this week, skipping page")
        if jobID != 0 { _ = s.store.FinishJobRun(ctx, jobID, 0, "", true, "") }
        return WeekResult{Week: label, Message: "No releases this week"}, nil
    }

    // Without publish history we cannot tell CREATE from UPDATE, so stop
    // rather than notify twice or never.
    prior, err := s.store.ReadPublishRecord(ctx, year, weekNum)
    if err != nil { return fail(err) }
    decision := publish.Decide(prior)

    prev, err := s.store.LastVersions(ctx, year, weekNum)
    if err != nil {
        log.Warn().Err(err).Msg("no version history for summary table")
        prev = nil
    }

    title := report.PageTitle(window)
    body := s.renderer.Render(rep, prev, s.order)
    pageURL, err := s.pages.Publish(ctx, title, body)
    if err != nil { return fail(fmt.Errorf("publish page: %w", err)) }

    if decision.Notify {
        if err := s.notify.NotifyPublished(ctx, label, pageURL); err != nil {
            log.Error().Err(err).Msg("publish notification failed")
        }
    }

    rec := publish.Merge(prior, year, weekNum, rep.VersionsByComponent())
    if force {
        rec = domain.PublishRecord{Year: year, Week: weekNum, Versions: rep.VersionsByComponent()}
    }
    if err := s.store.WritePublishRecord(ctx, rec, force); err != nil { return fail(err) }

    if jobID != 0 {
        _ = s.store.FinishJobRun(ctx, jobID, len(rep.Entries), string(decision.Action), true, "")
    }
    log.Info().Str("action", string(decision.Action)).Bool("notified", decision.Notify).
        Int("entries", len(rep.Entries)).Str("page", pageURL).Msg("week published")
    return WeekResult{
        Week:    label,
        PageURL: pageURL,
        Action:  string(decision.Action),
        Entries: len(rep.Entries),
    }, nil
}

// Run resolves the requested week (current week when rawWeek is empty), fills
// unpublished prior weeks first, then processes the target week.
func (s *Service) Run(ctx context.Context, rawWeek string, force bool) (RunResult, error) {
    curYear, curWeek := week.Current(s.now())
    year, weekNum := curYear, curWeek
    if rawWeek != "" {
        y, w, err := week.ParseArg(rawWeek)
        if err != nil { return RunResult{}, err }
        weekNum = w
        if y != 0 { year = y }
    }
    if _, err := week.Resolve(weekNum, year); err != nil {
        return RunResult{}, err
    }

    gaps := s.findGaps(ctx, year, weekNum)
    var results []WeekResult
    for _, g := range gaps {
        res, err := s.RunForWeek(ctx, g.year, g.week, false)
        if err != nil {
            s.log.Error().Err(err).Int("year", g.year).Int("week", g.week).Msg("gap week failed")
            return RunResult{AllPublished: results}, err
        }
        results = append(results, res)
    }

    target, err := s.RunForWeek(ctx, year, weekNum, force)
    if err != nil { return RunResult{AllPublished: results}, err }
    results = append(results, target)

    return RunResult{
        Success:      true,
        PageURL:      target.PageURL,
        Message:      target.Message,
        AllPublished: results,
        FilledGaps:   len(gaps),
    }, nil
}

type yearWeek struct{ year, week int }

// findGaps walks the lookback range before the target week and returns the
// weeks whose page is missing from the wiki, oldest first. Lookup failures
// skip the week rather than blocking the target run.
func (s *Service) findGaps(ctx context.Context, year, weekNum int) []yearWeek {
    lookback := s.cfg.MaxLookbackWeeks
    if lookback <= 0 { return nil }
    var out []yearWeek
    y, w := year, weekNum
    for i := 0; i < lookback; i++ {
        w--
        if w < 1 {
            y--
            w = week.WeeksInYear(y)
        }
        window, err := week.Resolve(w, y)
        if err != nil { break }
        pageID, err := s.pages.FindPage(ctx, report.PageTitle(window))
        if err != nil {
            s.log.Warn().Err(err).Str("week", window.Label()).Msg("gap check failed, skipping week")
            continue
        }
        if pageID == "" {
            out = append(out, yearWeek{year: y, week: w})
        }
    }
    for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 { out[i], out[j] = out[j], out[i] }
    return out
}

// GetLastRun exposes the most recent job run for the admin endpoint.
func (s *Service) GetLastRun(ctx context.Context) (*repo.LastRun, error) {
    return s.store.GetLastRun(ctx)
}
