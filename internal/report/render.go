package report

import (
    "fmt"
    "html"
    "strings"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

// Renderer produces the Confluence storage-format body of a weekly page.
type Renderer struct {
    JiraBrowseURL       string
    SwaggerChangelogURL string
}

// PageTitle is the canonical page title for a week, e.g.
// "SSDP Release Notes Week 2026-W45".
func PageTitle(window domain.WeekWindow) string {
    return "SSDP Release Notes Week " + window.Label()
}

// Render builds the page body: a Release Summary table comparing previous and
// current versions, one section per component with a per-version table, and a
// combined linked issues table. prev holds the last known version per
// component; order fixes the component row order.
func (r *Renderer) Render(rep domain.ReleaseReport, prev map[string]string, order []string) string {
    curr := rep.VersionsByComponent()

    var b strings.Builder
    fmt.Fprintf(&b, "<h1 style=\"color:#0747A6;\">%s</h1>\n", html.EscapeString(PageTitle(rep.Window)))

    r.renderSummaryTable(&b, prev, curr, order)

    for _, comp := range order {
        entries := entriesFor(rep, comp)
        if len(entries) == 0 { continue }
        fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(comp))
        for _, e := range entries {
            r.renderVersionTable(&b, e)
        }
    }

    r.renderLinkedTable(&b, rep)
    return b.String()
}

func (r *Renderer) renderSummaryTable(b *strings.Builder, prev, curr map[string]string, order []string) {
    b.WriteString("<h2>Release Summary</h2>\n")
    b.WriteString("<table style=\"width:100%;border-collapse:collapse;\">\n")
    b.WriteString("<tr style=\"background:#0747A6;color:white;\">" +
        "<th>Enabler/Application</th><th>Last Version</th><th>New Version</th></tr>\n")
    for _, comp := range order {
        fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
            html.EscapeString(comp), html.EscapeString(orNone(prev[comp])), html.EscapeString(orNone(curr[comp])))
    }
    b.WriteString("</table>\n")
}

func (r *Renderer) renderVersionTable(b *strings.Builder, e domain.ReleaseReportEntry) {
    label := e.Component
    if e.Version != "" { label += "-" + e.Version }

    var boxes strings.Builder
    writePanel(&boxes, "Features", "#E3FCEF", e.LinksByCategory(domain.CategoryFeature))
    writePanel(&boxes, "Code Refactoring", "#DEEBFF", e.LinksByCategory(domain.CategoryCode))
    writePanel(&boxes, "Bug Fixes", "#FFEBE6", e.LinksByCategory(domain.CategoryBug))

    extra := ""
    if r.SwaggerChangelogURL != "" && (e.Component == "APIM" || e.Component == "EAH") {
        extra = fmt.Sprintf("<a href='%s' target='_blank'>Swagger Changelog</a>", r.SwaggerChangelogURL)
    }

    b.WriteString("<table style=\"width:100%;border-collapse:collapse;margin:12px 0;\">\n")
    fmt.Fprintf(b, "<tr><th style=\"background:#F4F5F7;width:200px;\">Version</th><td>%s</td></tr>\n", html.EscapeString(label))
    fmt.Fprintf(b, "<tr><th style=\"background:#F4F5F7;\">Status</th><td>%s</td></tr>\n", html.EscapeString(e.Status))
    fmt.Fprintf(b, "<tr><th style=\"background:#F4F5F7;\">Deploy Date</th><td>%s</td></tr>\n", e.DeployDate.Format("2006-01-02"))
    b.WriteString("<tr><th style=\"background:#F4F5F7;\">Dependencies</th><td></td></tr>\n")
    b.WriteString("<tr><th style=\"background:#F4F5F7;\">INDUS configuration</th><td></td></tr>\n")
    fmt.Fprintf(b, "<tr><th style=\"background:#F4F5F7;\">Swagger Release</th><td>%s</td></tr>\n", extra)
    fmt.Fprintf(b, "<tr><th style=\"background:#F4F5F7;\">Main Changes</th><td>%s</td></tr>\n", boxes.String())
    b.WriteString("</table>\n")
}

func writePanel(b *strings.Builder, title, color string, items []domain.CategorizedLink) {
    if len(items) == 0 { return }
    b.WriteString("<ac:structured-macro ac:name=\"panel\">")
    fmt.Fprintf(b, "<ac:parameter ac:name=\"title\">%s</ac:parameter>", title)
    fmt.Fprintf(b, "<ac:parameter ac:name=\"bgColor\">%s</ac:parameter>", color)
    b.WriteString("<ac:rich-text-body><ul>")
    for _, it := range items {
        fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(it.Summary))
    }
    b.WriteString("</ul></ac:rich-text-body></ac:structured-macro>")
}

func (r *Renderer) renderLinkedTable(b *strings.Builder, rep domain.ReleaseReport) {
    b.WriteString("<h2>Combined Linked Issues</h2>\n")
    b.WriteString("<table style=\"width:100%;border-collapse:collapse;border:1px solid #ccc;\">\n")
    b.WriteString("<tr style=\"background:#eee;\">" +
        "<th>System</th><th>Version</th><th>Key</th><th>Summary</th>" +
        "<th>Owner</th><th>Status</th><th>Issue Type</th></tr>\n")
    for _, e := range rep.Entries {
        for _, l := range e.Links {
            key := html.EscapeString(l.Key)
            link := key
            if r.JiraBrowseURL != "" {
                link = fmt.Sprintf("<a target='_blank' href='%s/%s'>%s</a>",
                    strings.TrimRight(r.JiraBrowseURL, "/"), key, key)
            }
            fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
                html.EscapeString(e.Component), html.EscapeString(e.Version), link,
                html.EscapeString(l.Summary), html.EscapeString(l.Assignee),
                html.EscapeString(l.Status), html.EscapeString(l.Type))
        }
    }
    b.WriteString("</table>\n")
}

func orNone(v string) string {
    if v == "" { return "None" }
    return v
}

func entriesFor(rep domain.ReleaseReport, component string) []domain.ReleaseReportEntry {
    var out []domain.ReleaseReportEntry
    for _, e := range rep.Entries {
        if e.Component == component { out = append(out, e) }
    }
    return out
}
