package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/etnz/inflation/cache"
	"github.com/etnz/inflation/config"
	"github.com/etnz/inflation/store"
)

const testKey = "secret"

func init() { gin.SetMode(gin.TestMode) }

// fakeRepo serves one index, id 1, with values for 2020 and 2021.
type fakeRepo struct {
	pingErr error
	calls   int
}

func (f *fakeRepo) ListCPIs(ctx context.Context) ([]store.CPISummary, error) {
	f.calls++
	return []store.CPISummary{{ID: 1, Name: "CPI-U", CountryName: "United States"}}, nil
}

func (f *fakeRepo) GetCPI(ctx context.Context, id int64) (*store.CPIDetail, error) {
	f.calls++
	if id != 1 {
		return nil, store.ErrNotFound
	}
	return &store.CPIDetail{ID: 1, Name: "CPI-U", CountryName: "United States", InstitutionName: "BLS", CurrencySymbol: "USD"}, nil
}

func (f *fakeRepo) ListCPIValues(ctx context.Context, id int64, years ...int) ([]store.CPIValue, error) {
	f.calls++
	all := []store.CPIValue{{CPIID: 1, Year: 2020, Value: 100}, {CPIID: 1, Year: 2021, Value: 110}}
	if len(years) == 0 {
		return all, nil
	}
	var res []store.CPIValue
	for _, v := range all {
		for _, y := range years {
			if v.Year == y {
				res = append(res, v)
			}
		}
	}
	return res, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return f.pingErr }

func newTestServer(repo *fakeRepo, c cache.Store) *gin.Engine {
	return New(Options{
		Config: config.ServerConfig{
			APIKeys:      []string{testKey},
			AllowOrigins: []string{"https://app.example.org"},
		},
		Repo:     repo,
		Cache:    c,
		CacheTTL: time.Minute,
	})
}

func get(t *testing.T, h http.Handler, target string, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json.Unmarshal(%s) unexpected error: %v", w.Body.String(), err)
	}
	return res
}

func TestHealth(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestServer(repo, nil)
	if w := get(t, h, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want %d", w.Code, http.StatusOK)
	}
	if w := get(t, h, "/readyz", ""); w.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want %d", w.Code, http.StatusOK)
	}
	repo.pingErr = errors.New("connection refused")
	if w := get(t, h, "/readyz", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /readyz = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestAPIKey(t *testing.T) {
	h := newTestServer(&fakeRepo{}, nil)
	for _, key := range []string{"", "wrong"} {
		w := get(t, h, "/cpis", key)
		if w.Code != http.StatusForbidden {
			t.Errorf("GET /cpis with key %q = %d, want %d", key, w.Code, http.StatusForbidden)
		}
		if got := decode(t, w)["detail"]; got != "Invalid API Key" {
			t.Errorf("GET /cpis detail = %v, want %q", got, "Invalid API Key")
		}
	}
}

func TestCPIs(t *testing.T) {
	h := newTestServer(&fakeRepo{}, nil)

	w := get(t, h, "/cpis", testKey)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /cpis = %d, want %d", w.Code, http.StatusOK)
	}
	want := `{"1":{"cpi_name":"CPI-U","country_name":"United States"}}`
	if got := w.Body.String(); got != want {
		t.Errorf("GET /cpis = %s, want %s", got, want)
	}
}

func TestCPI(t *testing.T) {
	h := newTestServer(&fakeRepo{}, nil)

	testCases := []struct {
		name   string
		target string
		want   int
	}{
		{"found", "/cpis/1", http.StatusOK},
		{"unknown", "/cpis/9", http.StatusNotFound},
		{"zero", "/cpis/0", http.StatusUnprocessableEntity},
		{"not a number", "/cpis/abc", http.StatusUnprocessableEntity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if w := get(t, h, tc.target, testKey); w.Code != tc.want {
				t.Errorf("GET %s = %d, want %d", tc.target, w.Code, tc.want)
			}
		})
	}

	res := decode(t, get(t, h, "/cpis/1", testKey))
	if got := res["cpi_values"].(map[string]any)["2021"]; got != 110.0 {
		t.Errorf("cpi_values[2021] = %v, want 110", got)
	}
	rates := res["annual_inflation_rates"].(map[string]any)
	if len(rates) != 1 || rates["2021"] != 10.0 {
		t.Errorf("annual_inflation_rates = %v, want {2021: 10}", rates)
	}
	if got := res["currency_symbol"]; got != "USD" {
		t.Errorf("currency_symbol = %v, want USD", got)
	}
}

func TestCorrection(t *testing.T) {
	repo := &fakeRepo{}
	engine := gin.New()
	handler := &CPIHandler{Repo: repo, Now: func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }}
	handler.Register(engine.Group("/cpis"))

	testCases := []struct {
		name  string
		query string
		want  int
	}{
		{"ok", "year_a=2020&year_b=2021&amount=100", http.StatusOK},
		{"missing year", "year_a=2019&year_b=2021&amount=100", http.StatusNotFound},
		{"future year", "year_a=2020&year_b=2030&amount=100", http.StatusUnprocessableEntity},
		{"too old", "year_a=1900&year_b=2021&amount=100", http.StatusUnprocessableEntity},
		{"no amount", "year_a=2020&year_b=2021", http.StatusUnprocessableEntity},
		{"negative amount", "year_a=2020&year_b=2021&amount=-1", http.StatusUnprocessableEntity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if w := get(t, engine, "/cpis/1/correction?"+tc.query, ""); w.Code != tc.want {
				t.Errorf("GET correction?%s = %d, want %d: %s", tc.query, w.Code, tc.want, w.Body.String())
			}
		})
	}

	w := get(t, engine, "/cpis/1/correction?year_a=2020&year_b=2021&amount=100", "")
	want := `{"corrected_amount":110,"inflation_rate":10,"currency":"USD"}`
	if got := w.Body.String(); got != want {
		t.Errorf("GET correction = %s, want %s", got, want)
	}
}

func TestProjection(t *testing.T) {
	h := newTestServer(&fakeRepo{}, nil)
	golden := url.Values{
		"initial_amount_invested":        {"0"},
		"recurring_investment_frequency": {"monthly"},
		"recurring_investment_amount":    {"1000"},
		"investment_duration_yrs":        {"26"},
		"annual_gross_yield":             {"8"},
		"annual_inflation_rate":          {"2"},
		"investment_buy_in_fee_pct":      {"0.35"},
		"annual_custody_fee_pct":         {"0.2"},
		"investment_sell_out_fee_pct":    {"0.5"},
		"tax_on_gains_pct":               {"17.2"},
		"currency":                       {"€"},
	}

	w := get(t, h, "/project_personal_finances?"+golden.Encode(), testKey)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /project_personal_finances = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	res := decode(t, w)
	summary := res["summary"].(map[string]any)
	if got := summary["net_post_tax_final_gain"]; got != 562703.49 {
		t.Errorf("summary.net_post_tax_final_gain = %v, want 562703.49", got)
	}
	if got := summary["total_spending"]; got != 312000.0 {
		t.Errorf("summary.total_spending = %v, want 312000", got)
	}
	if got := summary["currency"]; got != "€" {
		t.Errorf("summary.currency = %v, want €", got)
	}
	details := res["details"].(map[string]any)
	if got := details["total_custodian_fees"]; got != 24.93 {
		t.Errorf("details.total_custodian_fees = %v, want 24.93", got)
	}

	testCases := []struct {
		name  string
		key   string
		value string
		want  int
	}{
		{"cumulative custody", "custody_accrual", "cumulative", http.StatusOK},
		{"unknown custody", "custody_accrual", "daily", http.StatusUnprocessableEntity},
		{"tax above 100", "tax_on_gains_pct", "101", http.StatusUnprocessableEntity},
		{"zero years", "investment_duration_yrs", "0", http.StatusUnprocessableEntity},
		{"negative amount", "recurring_investment_amount", "-5", http.StatusUnprocessableEntity},
		{"unknown frequency", "recurring_investment_frequency", "daily", http.StatusUnprocessableEntity},
		{"total loss", "annual_gross_yield", "-100", http.StatusUnprocessableEntity},
		{"missing yield", "annual_gross_yield", "", http.StatusUnprocessableEntity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := url.Values{}
			for k, v := range golden {
				q[k] = v
			}
			if tc.value == "" {
				q.Del(tc.key)
			} else {
				q.Set(tc.key, tc.value)
			}
			if w := get(t, h, "/project_personal_finances?"+q.Encode(), testKey); w.Code != tc.want {
				t.Errorf("GET with %s=%q = %d, want %d: %s", tc.key, tc.value, w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestCache(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestServer(repo, cache.NewMemoryStore())

	first := get(t, h, "/cpis/1", testKey)
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}
	calls := repo.calls
	second := get(t, h, "/cpis/1", testKey)
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	if repo.calls != calls {
		t.Errorf("repository called %d times on a cache hit", repo.calls-calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached body = %s, want %s", second.Body.String(), first.Body.String())
	}
	// errors are not cached
	get(t, h, "/cpis/9", testKey)
	if w := get(t, h, "/cpis/9", testKey); w.Header().Get("X-Cache") == "HIT" {
		t.Error("a not found response was served from the cache")
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(&fakeRepo{}, nil)
	testCases := []struct {
		name   string
		origin string
		want   string
	}{
		{"allowed", "https://app.example.org", "https://app.example.org"},
		{"other", "https://evil.example.com", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/cpis", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", "GET")
			req.Header.Set("Access-Control-Request-Headers", "x-api-key")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tc.want)
			}
			if tc.want != "" && w.Code != http.StatusNoContent {
				t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
			}
		})
	}
}
