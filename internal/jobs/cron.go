package jobs

import (
    "context"
    "time"

    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/repo"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/services"
)

type service interface {
    Run(ctx context.Context, rawWeek string, force bool) (services.RunResult, error)
}

type Cron struct {
    cfg  config.Config
    log  zerolog.Logger
    svc  service
    repo *repo.Repository
    c    *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service, r *repo.Repository) *Cron {
    loc, _ := time.LoadLocation(cfg.TZ)
    c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, svc: svc, repo: r, c: c}
    _, _ = c.AddFunc(cfg.ReportCron, cr.weekly)
    return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

// weekly publishes the current week's notes, gap filling included. An
// advisory lock keeps multiple replicas from racing the same run.
func (cr *Cron) weekly() {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute); defer cancel()
    const lockKey int64 = 787878
    ok, err := cr.repo.TryAdvisoryLock(ctx, lockKey)
    if err != nil { cr.log.Error().Err(err).Msg("cron: lock error"); return }
    if !ok { cr.log.Info().Msg("cron: already running elsewhere"); return }
    defer func() { _ = cr.repo.AdvisoryUnlock(context.Background(), lockKey) }()
    cr.log.Info().Msg("cron: weekly release notes")
    if res, err := cr.svc.Run(ctx, "", false); err != nil {
        cr.log.Error().Err(err).Msg("cron: weekly run failed")
    } else {
        cr.log.Info().Int("filled_gaps", res.FilledGaps).Str("page", res.PageURL).Msg("cron: weekly run done")
    }
}
