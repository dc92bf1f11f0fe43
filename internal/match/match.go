// Package match classifies issue summaries into release components.
package match

import (
    "encoding/json"
    "fmt"
    "os"
    "regexp"
    "strings"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

// versionRe extracts a dotted version token, with or without a leading v.
var versionRe = regexp.MustCompile(`(?i)\bv?(\d+\.\d+(?:\.\d+)?)\b`)

// Matcher tests summaries against an ordered list of component specs.
// Order is priority: the first spec that matches wins.
type Matcher struct {
    specs []domain.ComponentSpec
}

// DefaultSpecs returns the built-in component set. New components are added
// here or through a spec file, never as new code paths.
func DefaultSpecs() []domain.ComponentSpec {
    return []domain.ComponentSpec{
        {Name: "APIM", Rule: domain.RuleContains, Tokens: []string{"APIM"}, ReleasedStatus: "In production"},
        {Name: "EAH", Rule: domain.RuleContains, Tokens: []string{"EAH"}, ReleasedStatus: "In production"},
        {Name: "DOCG", Rule: domain.RulePrefix, Tokens: []string{"DOCG"}, ReleasedStatus: "In production"},
        {Name: "VDR", Rule: domain.RulePrefix, Tokens: []string{"VDR"}, ReleasedStatus: "Deploying to PROD"},
        {Name: "PATRIC-SSDP", Rule: domain.RulePrefixDash, Tokens: []string{"PATRIC-SSDP"}, ReleasedStatus: "In production"},
    }
}

// New builds a matcher over the given specs, or the defaults when none given.
func New(specs []domain.ComponentSpec) *Matcher {
    if len(specs) == 0 { specs = DefaultSpecs() }
    return &Matcher{specs: specs}
}

// LoadSpecs reads a JSON array of component specs from path.
func LoadSpecs(path string) ([]domain.ComponentSpec, error) {
    b, err := os.ReadFile(path)
    if err != nil { return nil, fmt.Errorf("read component specs: %w", err) }
    var specs []domain.ComponentSpec
    if err := json.Unmarshal(b, &specs); err != nil {
        return nil, fmt.Errorf("parse component specs %s: %w", path, err)
    }
    for _, s := range specs {
        switch s.Rule {
        case domain.RuleContains, domain.RulePrefix, domain.RulePrefixDash:
        default:
            return nil, fmt.Errorf("component %s: unknown rule %q", s.Name, s.Rule)
        }
        if s.Name == "" || len(s.Tokens) == 0 {
            return nil, fmt.Errorf("component spec missing name or tokens")
        }
    }
    return specs, nil
}

// Match classifies a summary. Contains rules require both a token and a
// version in the summary; prefix rules match on the token alone and report an
// empty version when none is present.
func (m *Matcher) Match(summary string) (domain.ComponentMatch, bool) {
    trimmed := strings.TrimSpace(summary)
    version := ExtractVersion(summary)
    for _, spec := range m.specs {
        for _, tok := range spec.Tokens {
            if !m.tokenMatches(spec.Rule, trimmed, tok) { continue }
            if spec.Rule == domain.RuleContains && version == "" { continue }
            return domain.ComponentMatch{Spec: spec, Version: version}, true
        }
    }
    return domain.ComponentMatch{}, false
}

func (m *Matcher) tokenMatches(rule domain.MatchRule, summary, tok string) bool {
    switch rule {
    case domain.RuleContains:
        return strings.Contains(strings.ToUpper(summary), strings.ToUpper(tok))
    case domain.RulePrefix:
        return hasPrefixFold(summary, tok)
    case domain.RulePrefixDash:
        return hasPrefixFold(summary, tok+"-")
    }
    return false
}

func hasPrefixFold(s, prefix string) bool {
    return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// ExtractVersion pulls the first dotted version token out of a summary,
// without any leading v. Returns "" when the summary carries no version.
func ExtractVersion(summary string) string {
    m := versionRe.FindStringSubmatch(summary)
    if m == nil { return "" }
    return m[1]
}
