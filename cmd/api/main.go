/* SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/adapters/confluence"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/adapters/jira"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/adapters/mailer"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
    httpx "github.com/RitikaPC/SSDP-Release-Notes/internal/http"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/jobs"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/logger"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/repo"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/services"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    // DB
    db := repo.MustOpen(ctx, cfg, log)
    defer db.Close()
    repository := repo.NewRepository(db, log)
    if err := repository.EnsureSchema(ctx); err != nil {
        log.Fatal().Err(err).Msg("schema setup failed")
    }

    // Adapters
    jc := jira.NewClient(cfg, log)
    cc := confluence.NewClient(cfg, log)
    mc := mailer.NewClient(cfg, log)

    svc := services.New(cfg, log, jc, repository, cc, mc)

    // HTTP server (Gin)
    router := httpx.NewRouter(cfg, log, svc)

    // Cron
    cron := jobs.NewCron(cfg, log, svc, repository)
    cron.Start()
    defer cron.Stop()

    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
