package match

import (
    "os"
    "path/filepath"
    "testing"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

func TestMatch_Defaults(t *testing.T) {
    m := New(nil)
    cases := []struct {
        summary   string
        component string
        version   string
        ok        bool
    }{
        {"APIM v3.5.2 Production Release", "APIM", "3.5.2", true},
        {"Deploy APIM 3.10.0 to prod", "APIM", "3.10.0", true},
        {"EAH v1.2 rollout", "EAH", "1.2", true},
        {"DOCG - Release v2.1.0", "DOCG", "2.1.0", true},
        {"DOCG maintenance window", "DOCG", "", true},
        {"VDR release 4.0.1", "VDR", "4.0.1", true},
        {"PATRIC-SSDP-2210 prod deployment", "PATRIC-SSDP", "", true},
        {"Unrelated ticket about invoices", "", "", false},
        // contains rules need a version to count as a release
        {"APIM incident postmortem", "", "", false},
        // prefix means prefix, not substring
        {"Fix DOCG typo in handbook", "", "", false},
        // dash required after the token
        {"PATRIC-SSDPX cleanup", "", "", false},
    }
    for _, tc := range cases {
        got, ok := m.Match(tc.summary)
        if ok != tc.ok {
            t.Errorf("Match(%q) ok = %v, want %v", tc.summary, ok, tc.ok)
            continue
        }
        if !ok { continue }
        if got.Spec.Name != tc.component || got.Version != tc.version {
            t.Errorf("Match(%q) = (%s, %q), want (%s, %q)",
                tc.summary, got.Spec.Name, got.Version, tc.component, tc.version)
        }
    }
}

func TestMatch_PriorityOrderIsStable(t *testing.T) {
    m := New(nil)
    // Mentions both APIM and EAH; APIM is declared first and must win.
    got, ok := m.Match("APIM and EAH joint release v9.9.9")
    if !ok || got.Spec.Name != "APIM" {
        t.Fatalf("got (%v, %v), want APIM", got.Spec.Name, ok)
    }
}

func TestExtractVersion(t *testing.T) {
    cases := map[string]string{
        "APIM v3.5.2 Production Release": "3.5.2",
        "bump to 2.1":                    "2.1",
        "V10.0.3 hotfix":                 "10.0.3",
        "no version here":                "",
        "ticket ABC-1234":                "",
    }
    for in, want := range cases {
        if got := ExtractVersion(in); got != want {
            t.Errorf("ExtractVersion(%q) = %q, want %q", in, got, want)
        }
    }
}

func TestLoadSpecs(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "components.json")
    body := `[
        {"name": "XYZ", "rule": "contains-substring", "tokens": ["XYZ"], "released_status": "In production"},
        {"name": "ABC", "rule": "starts-with-prefix", "tokens": ["ABC"], "released_status": "Deploying to PROD"}
    ]`
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil { t.Fatal(err) }

    specs, err := LoadSpecs(path)
    if err != nil { t.Fatalf("LoadSpecs: %v", err) }
    if len(specs) != 2 || specs[0].Name != "XYZ" || specs[1].Rule != domain.RulePrefix {
        t.Fatalf("unexpected specs: %+v", specs)
    }

    bad := filepath.Join(dir, "bad.json")
    if err := os.WriteFile(bad, []byte(`[{"name":"Q","rule":"regex","tokens":["Q"]}]`), 0o644); err != nil { t.Fatal(err) }
    if _, err := LoadSpecs(bad); err == nil {
        t.Fatal("expected error for unknown rule")
    }
}
