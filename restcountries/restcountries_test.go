package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/inflation/provider"
)

const sample = `[
  {"name": {"common": "France", "official": "French Republic"}, "cca2": "FR", "status": "officially-assigned",
   "currencies": {"EUR": {"name": "Euro", "symbol": "€"}}},
  {"name": {"common": "Panama", "official": "Republic of Panama"}, "cca2": "PA", "status": "officially-assigned",
   "currencies": {"USD": {"name": "United States dollar", "symbol": "$"}, "PAB": {"name": "Panamanian balboa", "symbol": "B/."}}},
  {"name": {"common": "Antarctica", "official": "Antarctica"}, "cca2": "AQ", "status": "officially-assigned"}
]`

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestParse(t *testing.T) {
	var jobj any
	if err := json.Unmarshal([]byte(sample), &jobj); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(jobj)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Parse() returned %d countries, want 3", len(got))
	}

	testCases := []struct {
		i                      int
		common, official, cca2 string
		codes, names, symbols  string
		count                  int
	}{
		{0, "France", "French Republic", "FR", "EUR", "Euro", "€", 1},
		{1, "Panama", "Republic of Panama", "PA", "PAB, USD", "Panamanian balboa, United States dollar", "B/., $", 2},
		{2, "Antarctica", "Antarctica", "AQ", "<nil>", "<nil>", "<nil>", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.common, func(t *testing.T) {
			c := got[tc.i]
			if c.CommonName != tc.common || c.OfficialName != tc.official || c.CCA2 != tc.cca2 || c.Status != "officially-assigned" {
				t.Errorf("Parse()[%d] = %+v, want %s %s %s", tc.i, c, tc.common, tc.official, tc.cca2)
			}
			if got := deref(c.CurrenciesCode); got != tc.codes {
				t.Errorf("CurrenciesCode = %q, want %q", got, tc.codes)
			}
			if got := deref(c.CurrenciesName); got != tc.names {
				t.Errorf("CurrenciesName = %q, want %q", got, tc.names)
			}
			if got := deref(c.CurrenciesSymbol); got != tc.symbols {
				t.Errorf("CurrenciesSymbol = %q, want %q", got, tc.symbols)
			}
			if c.CurrenciesCount != tc.count {
				t.Errorf("CurrenciesCount = %d, want %d", c.CurrenciesCount, tc.count)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	testCases := []string{
		`{"name": "not an array"}`,
		`[{"cca2": "FR"}]`,
		`[{"name": {"common": "France", "official": "French Republic"}, "cca2": "FR", "status": "x", "currencies": ["EUR"]}]`,
	}
	for _, doc := range testCases {
		var jobj any
		if err := json.Unmarshal([]byte(doc), &jobj); err != nil {
			t.Fatal(err)
		}
		if _, err := Parse(jobj); err == nil {
			t.Errorf("Parse(%s) expected an error", doc)
		}
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sample)
	}))
	defer srv.Close()

	got, err := Fetch(context.Background(), provider.New(provider.Options{Timeout: time.Second}), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if len(got) != 3 || got[1].CCA2 != "PA" {
		t.Errorf("Fetch() = %+v, want the 3 sample countries", got)
	}
}
