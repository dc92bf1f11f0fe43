/* SPDX-License-Identifier: BSD-3-Clause */
package mailer

import (
    "context"
    "fmt"
    "net/smtp"
    "strings"

    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
)

// Client sends the first-publish notification mail. Notification failures are
// reported but must never fail a publish run.
type Client struct {
    host string
    port int
    from string
    to   []string
    log  zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        host: cfg.SMTPHost,
        port: cfg.SMTPPort,
        from: cfg.SMTPFrom,
        to:   cfg.SMTPTo,
        log:  log,
    }
}

// NotifyPublished announces a freshly created weekly page.
func (c *Client) NotifyPublished(ctx context.Context, weekLabel, pageURL string) error {
    if c.host == "" || c.from == "" || len(c.to) == 0 {
        c.log.Debug().Msg("mailer not configured, skipping notification")
        return nil
    }
    subject := fmt.Sprintf("SSDP Release Notes %s published", weekLabel)
    var b strings.Builder
    fmt.Fprintf(&b, "From: %s\r\n", c.from)
    fmt.Fprintf(&b, "To: %s\r\n", strings.Join(c.to, ", "))
    fmt.Fprintf(&b, "Subject: %s\r\n", subject)
    b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
    fmt.Fprintf(&b, "The release notes page for %s is online:\r\n\r\n%s\r\n", weekLabel, pageURL)

    done := make(chan error, 1)
    go func() {
        addr := fmt.Sprintf("%s:%d", c.host, c.port)
        done <- smtp.SendMail(addr, nil, c.from, c.to, []byte(b.String()))
    }()
    select {
    case err := <-done:
        if err != nil { return fmt.Errorf("smtp send: %w", err) }
        c.log.Info().Str("week", weekLabel).Msg("publish notification sent")
        return nil
    case <-ctx.Done():
        return ctx.Err()
    }
}
