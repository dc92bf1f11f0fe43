/* SPDX-License-Identifier: BSD-3-Clause */
package confluence

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
)

// Client talks to the Confluence content REST API. Pages are written in
// storage representation.
type Client struct {
    baseURL  string
    user     string
    token    string
    space    string
    parentID string
    http     *http.Client
    log      zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL:  strings.TrimRight(cfg.ConfluenceBaseURL, "/"),
        user:     cfg.ConfluenceUser,
        token:    cfg.ConfluenceToken,
        space:    cfg.ConfluenceSpaceKey,
        parentID: cfg.ConfluenceParentID,
        http:     &http.Client{Timeout: 20 * time.Second},
        log:      log,
    }
}

func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
    if c.baseURL == "" { return fmt.Errorf("confluence: empty baseURL") }
    var r io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return err }
        r = bytes.NewReader(b)
    }
    req, err := http.NewRequestWithContext(ctx, method, u, r)
    if err != nil { return err }
    if body != nil { req.Header.Set("Content-Type", "application/json") }
    req.SetBasicAuth(c.user, c.token)
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        return fmt.Errorf("confluence %s status=%d body=%s", method, resp.StatusCode, strings.TrimSpace(string(b)))
    }
    if out == nil { return nil }
    return json.NewDecoder(resp.Body).Decode(out)
}

type pageLinks struct {
    Base  string `json:"base"`
    WebUI string `json:"webui"`
}

type pageDTO struct {
    ID      string `json:"id"`
    Title   string `json:"title"`
    Version struct {
        Number int `json:"number"`
    } `json:"version"`
    Links pageLinks `json:"_links"`
}

// FindPage looks a page up by exact title in the configured space.
// Returns ("", nil) when no page carries the title.
func (c *Client) FindPage(ctx context.Context, title string) (string, error) {
    q := url.Values{}
    q.Set("spaceKey", c.space)
    q.Set("title", title)
    var res struct {
        Results []pageDTO `json:"results"`
    }
    if err := c.do(ctx, http.MethodGet, c.baseURL+"/rest/api/content?"+q.Encode(), nil, &res); err != nil {
        return "", err
    }
    if len(res.Results) == 0 { return "", nil }
    return res.Results[0].ID, nil
}

// CreatePage creates the page under the configured parent and returns its URL.
func (c *Client) CreatePage(ctx context.Context, title, body string) (string, error) {
    data := map[string]any{
        "type":  "page",
        "title": title,
        "space": map[string]string{"key": c.space},
        "body": map[string]any{
            "storage": map[string]string{"value": wrap(body), "representation": "storage"},
        },
    }
    if c.parentID != "" {
        data["ancestors"] = []map[string]string{{"id": c.parentID}}
    }
    var res pageDTO
    if err := c.do(ctx, http.MethodPost, c.baseURL+"/rest/api/content", data, &res); err != nil {
        return "", err
    }
    c.log.Info().Str("title", title).Str("page", res.ID).Msg("confluence page created")
    return res.Links.Base + res.Links.WebUI, nil
}

// UpdatePage overwrites an existing page's body, bumping its version.
func (c *Client) UpdatePage(ctx context.Context, pageID, title, body string) (string, error) {
    var info pageDTO
    if err := c.do(ctx, http.MethodGet, c.baseURL+"/rest/api/content/"+url.PathEscape(pageID), nil, &info); err != nil {
        return "", err
    }
    data := map[string]any{
        "id":      pageID,
        "type":    "page",
        "title":   title,
        "space":   map[string]string{"key": c.space},
        "version": map[string]int{"number": info.Version.Number + 1},
        "body": map[string]any{
            "storage": map[string]string{"value": wrap(body), "representation": "storage"},
        },
    }
    var res pageDTO
    if err := c.do(ctx, http.MethodPut, c.baseURL+"/rest/api/content/"+url.PathEscape(pageID), data, &res); err != nil {
        return "", err
    }
    c.log.Info().Str("title", title).Str("page", pageID).Int("version", info.Version.Number+1).Msg("confluence page updated")
    return res.Links.Base + res.Links.WebUI, nil
}

// Publish finds-or-creates the page for a title and writes the body.
func (c *Client) Publish(ctx context.Context, title, body string) (string, error) {
    pageID, err := c.FindPage(ctx, title)
    if err != nil { return "", err }
    if pageID == "" {
        return c.CreatePage(ctx, title, body)
    }
    return c.UpdatePage(ctx, pageID, title, body)
}

func wrap(body string) string { return "<div>" + body + "</div>" }
