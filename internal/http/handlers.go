/* SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/repo"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/services"
)

type service interface {
    Run(ctx context.Context, rawWeek string, force bool) (services.RunResult, error)
    GetLastRun(ctx context.Context) (*repo.LastRun, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) Index(c *gin.Context) {
    c.Header("Content-Type", "text/html; charset=utf-8")
    c.String(http.StatusOK, indexHTML)
}

// Run generates and publishes release notes. Query parameters: week ("45" or
// "2026-W45"), year (merged into week when given alone) and force.
func (h *Handlers) Run(c *gin.Context) {
    rawWeek := strings.TrimSpace(c.Query("week"))
    rawYear := strings.TrimSpace(c.Query("year"))
    if rawWeek != "" && rawYear != "" && !strings.Contains(rawWeek, "-") {
        rawWeek = rawYear + "-W" + strings.TrimLeft(strings.ToUpper(rawWeek), "W")
    }
    force := c.Query("force") == "true" || c.Query("force") == "1"

    res, err := h.svc.Run(c.Request.Context(), rawWeek, force)
    if err != nil {
        var iw domain.InvalidWeekError
        status := http.StatusInternalServerError
        if errors.As(err, &iw) || strings.Contains(err.Error(), "cannot parse week") {
            status = http.StatusBadRequest
        }
        h.log.Error().Err(err).Str("week", rawWeek).Msg("run failed")
        c.JSON(status, gin.H{"success": false, "error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, res)
}

func (h *Handlers) LastRun(c *gin.Context) {
    lr, err := h.svc.GetLastRun(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, lr)
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>SSDP Release Notes</title>
<style>
    body { margin: 0; height: 100vh; display: flex; align-items: center; justify-content: center;
           font-family: "Segoe UI", Inter, system-ui, sans-serif; background: #f3f4f6; color: #111827; }
    .panel { width: 440px; background: #fff; border-radius: 14px; border: 1px solid #e5e7eb;
             box-shadow: 0 25px 50px rgba(0,0,0,0.08); padding: 28px 32px 36px; text-align: center; }
    h1 { font-size: 21px; font-weight: 600; margin: 0 0 6px; }
    .subtitle { font-size: 13px; color: #6b7280; margin-bottom: 24px; }
    label { display: block; font-size: 13px; margin-bottom: 6px; color: #6b7280; text-align: left; }
    input { width: 100%; box-sizing: border-box; padding: 12px 14px; font-size: 14px; border-radius: 8px;
            border: 1px solid #e5e7eb; outline: none; margin-bottom: 18px; }
    button { width: 100%; padding: 12px; font-size: 14px; font-weight: 600; border-radius: 8px;
             border: none; background: #2f5bea; color: #fff; cursor: pointer; }
    button:disabled { opacity: 0.6; cursor: default; }
    .status { font-size: 13px; color: #6b7280; margin-top: 18px; display: none; }
</style>
</head>
<body>
<div class="panel">
    <h1>SSDP Release Notes</h1>
    <div class="subtitle">Generate weekly release documentation</div>
    <label for="week">Release Week</label>
    <input id="week" placeholder="e.g. 45" />
    <label for="year">Year (optional)</label>
    <input id="year" placeholder="e.g. 2026" />
    <button id="start">Generate &amp; Open</button>
    <div class="status" id="status"></div>
</div>
<script>
    const start = document.getElementById("start");
    const status = document.getElementById("status");
    start.onclick = async () => {
        start.disabled = true;
        status.style.display = "block";
        status.innerText = "Generating...";
        const params = new URLSearchParams();
        const week = document.getElementById("week").value.trim();
        const year = document.getElementById("year").value.trim();
        if (week) params.set("week", week);
        if (year) params.set("year", year);
        try {
            const resp = await fetch("/run?" + params.toString());
            const data = await resp.json();
            if (data.success && data.page_url) {
                if (data.filled_gaps > 0) {
                    status.innerText = "Published " + data.filled_gaps + " missing week(s) + target week";
                    setTimeout(() => window.location.replace(data.page_url), 2000);
                } else {
                    window.location.replace(data.page_url);
                }
                return;
            }
            status.innerText = data.message || data.error || "No page URL returned";
        } catch (e) {
            status.innerText = "Error while generating release notes";
        } finally {
            start.disabled = false;
        }
    };
</script>
</body>
</html>
`
