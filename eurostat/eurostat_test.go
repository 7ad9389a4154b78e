package eurostat

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/inflation/provider"
)

const dataset = `<?xml version="1.0" encoding="UTF-8"?>
<message:StructureSpecificData xmlns:message="http://www.sdmx.org/resources/sdmxml/schemas/v3_0/message">
  <message:Header><message:ID>ID1</message:ID></message:Header>
  <message:DataSet>
    <Series coicop="CP00" freq="A" geo="FR" unit="INX_A_AVG">
      <Obs TIME_PERIOD="2015" OBS_VALUE="100"/>
      <Obs TIME_PERIOD="2016" OBS_VALUE="100.31"/>
    </Series>
    <Series coicop="CP00" freq="A" geo="DE" unit="RCH_A_AVG">
      <Obs TIME_PERIOD="2016" OBS_VALUE="0.4"/>
      <Obs TIME_PERIOD="2017"/>
    </Series>
  </message:DataSet>
</message:StructureSpecificData>`

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func check(t *testing.T, got []Observation) {
	t.Helper()
	if len(got) != 4 {
		t.Fatalf("Parse() returned %d observations, want 4", len(got))
	}
	testCases := []struct {
		i    int
		geo  string
		unit string
		year int
		want float64 // 0 for a missing value
	}{
		{0, "FR", "INX_A_AVG", 2015, 100},
		{1, "FR", "INX_A_AVG", 2016, 100.31},
		{2, "DE", "RCH_A_AVG", 2016, 0.4},
		{3, "DE", "RCH_A_AVG", 2017, 0},
	}
	for _, tc := range testCases {
		o := got[tc.i]
		if o.Coicop != "CP00" || o.Freq != "A" || o.Geo != tc.geo || o.Unit != tc.unit || o.TimePeriod != tc.year {
			t.Errorf("Parse()[%d] = %+v, want %s %s %d", tc.i, o, tc.geo, tc.unit, tc.year)
		}
		switch {
		case tc.want == 0 && o.Value != nil:
			t.Errorf("Parse()[%d].Value = %v, want nil", tc.i, *o.Value)
		case tc.want != 0 && (o.Value == nil || *o.Value != tc.want):
			t.Errorf("Parse()[%d].Value = %v, want %v", tc.i, o.Value, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(dataset))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	check(t, got)
}

func TestParse_Gzip(t *testing.T) {
	got, err := Parse(bytes.NewReader(gzipped(t, dataset)))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	check(t, got)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"bad year", `<DataSet><Series geo="FR"><Obs TIME_PERIOD="20x5" OBS_VALUE="1"/></Series></DataSet>`},
		{"bad value", `<DataSet><Series geo="FR"><Obs TIME_PERIOD="2015" OBS_VALUE="one"/></Series></DataSet>`},
		{"truncated", `<DataSet><Series geo="FR"><Obs TIME_PERIOD="2015"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.doc)); err == nil {
				t.Errorf("Parse(%q) expected an error", tc.doc)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gzipped(t, dataset))
	}))
	defer srv.Close()

	c := provider.New(provider.Options{Timeout: time.Second})
	got, err := Fetch(context.Background(), c, srv.URL)
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	check(t, got)
}
