// Package usbls reads consumer price index series from the US Bureau of Labor
// Statistics timeseries API (v2).
//
// CUUR0000SA0 is the "Consumer Price Index for All Urban Consumers (CPI-U)",
// see https://data.bls.gov/timeseries/CUUR0000SA0.
package usbls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"

	"github.com/etnz/inflation/provider"
)

// URL of the timeseries endpoint.
const URL = "https://api.bls.gov/publicAPI/v2/timeseries/data/"

// MaxYearsPerRequest is the widest range the API serves with a registration
// key. Without a key it is 9 years.
const MaxYearsPerRequest = 19

// ErrIncomplete is returned when the API announces it reduced or did not
// serve the requested range.
var ErrIncomplete = errors.New("incomplete usbls response")

// Request selects a series and a range of years, both ends included.
type Request struct {
	URL       string // URL if empty
	SeriesID  string
	StartYear int
	EndYear   int
	APIKey    string
	// MaxYears per request, MaxYearsPerRequest if zero.
	MaxYears int
}

// Observation is a value of a series. Period is "M01" to "M12" for months and
// "M13" for the annual average.
type Observation struct {
	SeriesID  string
	Year      int
	Period    string
	Value     *float64
	Footnotes string
}

// Chunks splits the years from start to end into consecutive ranges of at most
// size years. Ranges do not overlap.
func Chunks(start, end, size int) [][2]int {
	if size < 1 {
		size = 1
	}
	var res [][2]int
	for y := start; y <= end; y += size {
		res = append(res, [2]int{y, min(y+size-1, end)})
	}
	return res
}

type payload struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	AnnualAverage   bool     `json:"annualaverage"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

// Fetch requests the series, one chunk of years at a time, and returns the
// raw responses.
func Fetch(ctx context.Context, c *provider.Client, req Request, log *zap.Logger) ([]json.RawMessage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	addr := req.URL
	if addr == "" {
		addr = URL
	}
	size := req.MaxYears
	if size == 0 {
		size = MaxYearsPerRequest
	}

	var res []json.RawMessage
	for _, years := range Chunks(req.StartYear, req.EndYear, size) {
		log.Info("requesting usbls series", zap.String("series_id", req.SeriesID), zap.Int("from", years[0]), zap.Int("to", years[1]))
		p := payload{
			SeriesID:        []string{req.SeriesID},
			StartYear:       strconv.Itoa(years[0]),
			EndYear:         strconv.Itoa(years[1]),
			AnnualAverage:   true,
			RegistrationKey: req.APIKey,
		}
		var jobj any
		body, err := c.PostJSON(ctx, addr, p, &jobj)
		if err != nil {
			return nil, fmt.Errorf("cannot fetch usbls %s %d-%d: %w", req.SeriesID, years[0], years[1], err)
		}
		if msg := messages(jobj); msg != "" {
			log.Info("usbls request message", zap.String("message", msg))
			if strings.Contains(msg, "range has been reduced") || strings.Contains(msg, "could not be serviced") {
				return nil, fmt.Errorf("%w for %d-%d: %s", ErrIncomplete, years[0], years[1], msg)
			}
		}
		res = append(res, json.RawMessage(body))
	}
	return res, nil
}

// messages returns the messages of a response joined with ", ".
func messages(jobj any) string {
	jval, err := jsonpath.Get("$.message[*]", jobj)
	if err != nil {
		return ""
	}
	list, ok := jval.([]any)
	if !ok {
		return ""
	}
	var msgs []string
	for _, m := range list {
		if s, ok := m.(string); ok && s != "" {
			msgs = append(msgs, s)
		}
	}
	return strings.Join(msgs, ", ")
}

type response struct {
	Results struct {
		Series []struct {
			SeriesID string `json:"seriesID"`
			Data     []struct {
				Year      string              `json:"year"`
				Period    string              `json:"period"`
				Value     string              `json:"value"`
				Footnotes []map[string]string `json:"footnotes"`
			} `json:"data"`
		} `json:"series"`
	} `json:"Results"`
}

// Parse flattens the responses of Fetch into observations. Footnotes are
// joined with ", ".
func Parse(responses []json.RawMessage) ([]Observation, error) {
	var res []Observation
	for _, raw := range responses {
		var r response
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("cannot parse usbls response: %w", err)
		}
		for _, s := range r.Results.Series {
			for _, item := range s.Data {
				year, err := strconv.Atoi(item.Year)
				if err != nil {
					return nil, fmt.Errorf("invalid year %q in series %s: %w", item.Year, s.SeriesID, err)
				}
				o := Observation{SeriesID: s.SeriesID, Year: year, Period: item.Period}
				// unavailable values are published as "-"
				if f, err := strconv.ParseFloat(strings.TrimSpace(item.Value), 64); err == nil {
					o.Value = &f
				}
				var notes []string
				for _, fn := range item.Footnotes {
					if text := fn["text"]; text != "" {
						notes = append(notes, text)
					}
				}
				o.Footnotes = strings.Join(notes, ", ")
				res = append(res, o)
			}
		}
	}
	return res, nil
}
