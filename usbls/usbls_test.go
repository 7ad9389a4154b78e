package usbls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/etnz/inflation/provider"
)

func TestChunks(t *testing.T) {
	testCases := []struct {
		start, end, size int
		want             [][2]int
	}{
		{1913, 1913, 19, [][2]int{{1913, 1913}}},
		{2000, 2018, 19, [][2]int{{2000, 2018}}},
		{2000, 2019, 19, [][2]int{{2000, 2018}, {2019, 2019}}},
		{1913, 1960, 19, [][2]int{{1913, 1931}, {1932, 1950}, {1951, 1960}}},
		{2010, 2000, 19, nil},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d-%d", tc.start, tc.end), func(t *testing.T) {
			if got := Chunks(tc.start, tc.end, tc.size); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Chunks(%d, %d, %d) = %v, want %v", tc.start, tc.end, tc.size, got, tc.want)
			}
		})
	}
}

const sample = `{
  "status": "REQUEST_SUCCEEDED",
  "message": [],
  "Results": {"series": [{
    "seriesID": "CUUR0000SA0",
    "data": [
      {"year": "2023", "period": "M13", "periodName": "Annual", "value": "304.702", "footnotes": [{}]},
      {"year": "2023", "period": "M12", "periodName": "December", "value": "306.746", "footnotes": [{"code": "P", "text": "Preliminary"}, {"code": "X", "text": "Revised"}]},
      {"year": "2022", "period": "M13", "periodName": "Annual", "value": "-", "footnotes": []}
    ]
  }]}
}`

func TestParse(t *testing.T) {
	got, err := Parse([]json.RawMessage{json.RawMessage(sample)})
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	f := func(x float64) *float64 { return &x }
	want := []Observation{
		{SeriesID: "CUUR0000SA0", Year: 2023, Period: "M13", Value: f(304.702)},
		{SeriesID: "CUUR0000SA0", Year: 2023, Period: "M12", Value: f(306.746), Footnotes: "Preliminary, Revised"},
		{SeriesID: "CUUR0000SA0", Year: 2022, Period: "M13"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestFetch(t *testing.T) {
	var got []payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		json.NewDecoder(r.Body).Decode(&p)
		got = append(got, p)
		fmt.Fprint(w, sample)
	}))
	defer srv.Close()

	c := provider.New(provider.Options{Timeout: time.Second})
	req := Request{URL: srv.URL, SeriesID: "CUUR0000SA0", StartYear: 1990, EndYear: 2023, APIKey: "key"}
	responses, err := Fetch(context.Background(), c, req, nil)
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if len(responses) != 2 {
		t.Errorf("Fetch() returned %d responses, want 2", len(responses))
	}
	want := []payload{
		{SeriesID: []string{"CUUR0000SA0"}, StartYear: "1990", EndYear: "2008", AnnualAverage: true, RegistrationKey: "key"},
		{SeriesID: []string{"CUUR0000SA0"}, StartYear: "2009", EndYear: "2023", AnnualAverage: true, RegistrationKey: "key"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fetch() posted %+v, want %+v", got, want)
	}
}

func TestFetch_Incomplete(t *testing.T) {
	testCases := []struct {
		message string
		wantErr bool
	}{
		{"No Data Available for Series CUUR0000SA0 Year: 1912", false},
		{"Year range has been reduced to the system limit of 10 years.", true},
		{"Request could not be serviced, as the daily threshold for total number of requests allocated to the user has been reached.", true},
	}
	for _, tc := range testCases {
		t.Run(tc.message, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"status": "REQUEST_SUCCEEDED", "message": []string{tc.message}})
			}))
			defer srv.Close()

			c := provider.New(provider.Options{Timeout: time.Second})
			_, err := Fetch(context.Background(), c, Request{URL: srv.URL, SeriesID: "CUUR0000SA0", StartYear: 2000, EndYear: 2001}, nil)
			if gotErr := errors.Is(err, ErrIncomplete); gotErr != tc.wantErr {
				t.Errorf("Fetch() error = %v, want ErrIncomplete %v", err, tc.wantErr)
			}
		})
	}
}
