/* SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "golang.org/x/time/rate"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

const issueFields = "summary,status,issuetype,assignee,created,issuelinks"

type Client struct {
    baseURL string
    token   string
    basic   string
    user    string
    pass    string
    http    *http.Client
    log     zerolog.Logger
    apiVer  string
    boardID int64
    jql     string
    limiter *rate.Limiter
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: cfg.JiraBaseURL,
        token:   cfg.JiraPAT,
        basic:   getenvBasic(),
        user:    cfg.JiraUsername,
        pass:    cfg.JiraPassword,
        http:    &http.Client{Timeout: cfg.HTTPTimeout},
        log:     log,
        apiVer:  cfg.JiraAPIVersion,
        boardID: cfg.JiraBoardID,
        jql:     cfg.JiraQuickFilter,
        limiter: rate.NewLimiter(rate.Limit(cfg.JiraRPS), cfg.JiraBurst),
    }
}

// getenvBasic reads JIRA_BASIC_AUTH from environment if present (format: user:pass base64), optional
func getenvBasic() string {
    v := ""
    if s := strings.TrimSpace(os.Getenv("JIRA_BASIC_AUTH")); s != "" { v = s }
    return v
}

type apiError struct {
    Status int
    Body   string
}

func (e *apiError) Error() string {
    return fmt.Sprintf("jira api status=%d body=%s", e.Status, e.Body)
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.baseURL, "/")
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := base + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) doJSON(ctx context.Context, method, u string, out any) error {
    if c.baseURL == "" { return errors.New("jira: empty baseURL") }
    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        if err := c.limiter.Wait(ctx); err != nil { return err }
        req, err := http.NewRequestWithContext(ctx, method, u, nil)
        if err != nil { return err }
        if c.token != "" {
            req.Header.Set("Authorization", "Bearer "+c.token)
        } else if c.user != "" && c.pass != "" {
            req.SetBasicAuth(c.user, c.pass)
        } else if c.basic != "" {
            req.Header.Set("Authorization", "Basic "+c.basic)
        }
        resp, err := c.http.Do(req)
        if err != nil {
            lastErr = err
        } else {
            b, rerr := io.ReadAll(resp.Body)
            resp.Body.Close()
            if rerr != nil { return rerr }
            if resp.StatusCode >= 300 {
                ae := &apiError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
                // retry on 429/5xx only
                if resp.StatusCode == 429 || resp.StatusCode >= 500 {
                    lastErr = ae
                } else {
                    return ae
                }
            } else {
                return json.Unmarshal(b, out)
            }
        }
        time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
    }
    return lastErr
}

type issueDTO struct {
    Key    string `json:"key"`
    Fields struct {
        Summary string `json:"summary"`
        Status  struct {
            Name string `json:"name"`
        } `json:"status"`
        IssueType struct {
            Name string `json:"name"`
        } `json:"issuetype"`
        Assignee *struct {
            DisplayName string `json:"displayName"`
            Name        string `json:"name"`
        } `json:"assignee"`
        Created    string `json:"created"`
        IssueLinks []struct {
            Type struct {
                Name string `json:"name"`
            } `json:"type"`
            OutwardIssue *struct {
                Key string `json:"key"`
            } `json:"outwardIssue"`
            InwardIssue *struct {
                Key string `json:"key"`
            } `json:"inwardIssue"`
        } `json:"issuelinks"`
    } `json:"fields"`
    Changelog *struct {
        Histories []struct {
            Created string `json:"created"`
            Items   []struct {
                Field    string `json:"field"`
                ToString string `json:"toString"`
            } `json:"items"`
        } `json:"histories"`
    } `json:"changelog"`
}

func (d issueDTO) toDomain() domain.RawIssue {
    iss := domain.RawIssue{
        Key:     d.Key,
        Summary: d.Fields.Summary,
        Type:    d.Fields.IssueType.Name,
        Status:  d.Fields.Status.Name,
        Created: parseTimeUTC(d.Fields.Created),
    }
    if a := d.Fields.Assignee; a != nil {
        iss.Assignee = a.DisplayName
        if iss.Assignee == "" { iss.Assignee = a.Name }
    }
    for _, l := range d.Fields.IssueLinks {
        switch {
        case l.OutwardIssue != nil:
            iss.Links = append(iss.Links, domain.IssueLink{Key: l.OutwardIssue.Key, LinkType: l.Type.Name})
        case l.InwardIssue != nil:
            iss.Links = append(iss.Links, domain.IssueLink{Key: l.InwardIssue.Key, LinkType: l.Type.Name})
        }
    }
    if d.Changelog != nil {
        for _, h := range d.Changelog.Histories {
            at := parseTimeUTC(h.Created)
            for _, it := range h.Items {
                if strings.EqualFold(it.Field, "status") && it.ToString != "" {
                    iss.StatusHistory = append(iss.StatusHistory, domain.StatusChange{Status: it.ToString, At: at})
                }
            }
        }
    }
    return iss
}

// FetchByKey loads one issue with its links and status changelog.
// Returns domain.ErrIssueNotFound for 404s so link traversal can skip.
func (c *Client) FetchByKey(ctx context.Context, key string) (domain.RawIssue, error) {
    if key == "" { return domain.RawIssue{}, errors.New("jira: empty issue key") }
    q := url.Values{}
    q.Set("fields", issueFields)
    q.Set("expand", "changelog")
    path := "/rest/api/3/issue/" + url.PathEscape(key)
    if c.apiVer == "2" { path = "/rest/api/2/issue/" + url.PathEscape(key) }
    var dto issueDTO
    if err := c.doJSON(ctx, http.MethodGet, c.apiURL(path, q), &dto); err != nil {
        var ae *apiError
        if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
            return domain.RawIssue{}, fmt.Errorf("%w: %s", domain.ErrIssueNotFound, key)
        }
        return domain.RawIssue{}, err
    }
    return dto.toDomain(), nil
}

type searchPage struct {
    StartAt    int        `json:"startAt"`
    MaxResults int        `json:"maxResults"`
    Total      int        `json:"total"`
    Issues     []issueDTO `json:"issues"`
}

// BoardIssues pages through the release board (Agile API) and returns every
// issue with links and changelog attached. The configured quick filter JQL
// narrows the scan server side.
func (c *Client) BoardIssues(ctx context.Context) ([]domain.RawIssue, error) {
    if c.boardID <= 0 { return nil, errors.New("jira: invalid board id") }
    path := "/rest/agile/1.0/board/" + strconv.FormatInt(c.boardID, 10) + "/issue"
    var out []domain.RawIssue
    start := 0
    for {
        q := url.Values{}
        q.Set("startAt", fmt.Sprint(start))
        q.Set("maxResults", "50")
        q.Set("fields", issueFields)
        q.Set("expand", "changelog")
        if strings.TrimSpace(c.jql) != "" { q.Set("jql", c.jql) }
        var page searchPage
        if err := c.doJSON(ctx, http.MethodGet, c.apiURL(path, q), &page); err != nil {
            return nil, err
        }
        for _, dto := range page.Issues {
            out = append(out, dto.toDomain())
        }
        start += len(page.Issues)
        if len(page.Issues) == 0 || start >= page.Total { break }
    }
    c.log.Info().Int64("board", c.boardID).Int("issues", len(out)).Msg("board scan complete")
    return out, nil
}

// parseTimeUTC handles the timestamp formats Jira emits.
func parseTimeUTC(s string) time.Time {
    for _, layout := range []string{
        "2006-01-02T15:04:05.000-0700",
        time.RFC3339,
        "2006-01-02T15:04:05-0700",
    } {
        if t, err := time.Parse(layout, s); err == nil { return t.UTC() }
    }
    return time.Time{}
}
