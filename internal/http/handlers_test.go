package http

import (
    "context"
    "encoding/json"
    "errors"
    "net/http/httptest"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/repo"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/services"
)

type fakeService struct {
    gotWeek  string
    gotForce bool
    result   services.RunResult
    err      error
}

func (f *fakeService) Run(_ context.Context, rawWeek string, force bool) (services.RunResult, error) {
    f.gotWeek = rawWeek
    f.gotForce = force
    if f.err != nil { return services.RunResult{}, f.err }
    return f.result, nil
}

func (f *fakeService) GetLastRun(_ context.Context) (*repo.LastRun, error) {
    return &repo.LastRun{Year: 2026, Week: 45, Success: true}, nil
}

func testRouter(svc service) *gin.Engine {
    return NewRouter(config.Config{AppEnv: "test"}, zerolog.Nop(), svc)
}

func TestRun_WeekAndYearMerged(t *testing.T) {
    svc := &fakeService{result: services.RunResult{Success: true, PageURL: "https://wiki/x"}}
    w := httptest.NewRecorder()
    req := httptest.NewRequest("GET", "/run?week=45&year=2026", nil)
    testRouter(svc).ServeHTTP(w, req)

    if w.Code != 200 { t.Fatalf("status = %d, body = %s", w.Code, w.Body.String()) }
    if svc.gotWeek != "2026-W45" { t.Errorf("week arg = %q", svc.gotWeek) }

    var res services.RunResult
    if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil { t.Fatal(err) }
    if !res.Success || res.PageURL != "https://wiki/x" { t.Errorf("res = %+v", res) }
}

func TestRun_ForceFlag(t *testing.T) {
    svc := &fakeService{result: services.RunResult{Success: true}}
    w := httptest.NewRecorder()
    req := httptest.NewRequest("POST", "/run?week=2026-W45&force=true", nil)
    testRouter(svc).ServeHTTP(w, req)
    if w.Code != 200 { t.Fatalf("status = %d", w.Code) }
    if !svc.gotForce { t.Error("force not passed through") }
}

func TestRun_InvalidWeekIs400(t *testing.T) {
    svc := &fakeService{err: domain.InvalidWeekError{Week: 54, Year: 2026}}
    w := httptest.NewRecorder()
    req := httptest.NewRequest("GET", "/run?week=54&year=2026", nil)
    testRouter(svc).ServeHTTP(w, req)
    if w.Code != 400 { t.Fatalf("status = %d, want 400", w.Code) }
}

func TestRun_BackendFailureIs500(t *testing.T) {
    svc := &fakeService{err: errors.New("store down")}
    w := httptest.NewRecorder()
    req := httptest.NewRequest("GET", "/run", nil)
    testRouter(svc).ServeHTTP(w, req)
    if w.Code != 500 { t.Fatalf("status = %d, want 500", w.Code) }
}

func TestHealthzAndIndex(t *testing.T) {
    svc := &fakeService{}
    r := testRouter(svc)

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
    if w.Code != 200 { t.Fatalf("healthz status = %d", w.Code) }

    w = httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
    if w.Code != 200 || w.Header().Get("Content-Type") != "text/html; charset=utf-8" {
        t.Fatalf("index status = %d type = %s", w.Code, w.Header().Get("Content-Type"))
    }
}
