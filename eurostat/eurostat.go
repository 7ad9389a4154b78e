// Package eurostat reads the harmonised indices of consumer prices published
// by Eurostat.
//
// The dataset is prc_hicp_aind (annual indices), served as gzip compressed
// SDMX 3.0 XML. Each Series element holds the dimensions as attributes, its
// Obs children hold one year each:
//
//	<Series coicop="CP00" freq="A" geo="FR" unit="INX_A_AVG">
//	  <Obs TIME_PERIOD="2015" OBS_VALUE="100"/>
//	</Series>
//
// coicop CP00 is "all items"; unit INX_A_AVG is the annual average index and
// RCH_A_AVG the annual average rate of change.
package eurostat

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/inflation/provider"
)

// URL of the latest version of the annual HICP dataset.
const URL = "https://ec.europa.eu/eurostat/api/dissemination/sdmx/3.0/data/dataflow/ESTAT/prc_hicp_aind/+"

// Observation is the value of a series for one year.
type Observation struct {
	Coicop     string
	Freq       string
	Geo        string
	Unit       string
	TimePeriod int
	// Value is nil when Eurostat publishes the period without a value.
	Value *float64
}

// Fetch downloads the dataset at addr, usually URL, and parses it.
func Fetch(ctx context.Context, c *provider.Client, addr string) ([]Observation, error) {
	body, err := c.Get(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch eurostat dataset: %w", err)
	}
	return Parse(bytes.NewReader(body))
}

type series struct {
	Coicop string `xml:"coicop,attr"`
	Freq   string `xml:"freq,attr"`
	Geo    string `xml:"geo,attr"`
	Unit   string `xml:"unit,attr"`
	Obs    []struct {
		TimePeriod string `xml:"TIME_PERIOD,attr"`
		Value      string `xml:"OBS_VALUE,attr"`
	} `xml:"Obs"`
}

// Parse reads the SDMX document from r, gzip compressed or not. Series are
// decoded one at a time.
func Parse(r io.Reader) ([]Observation, error) {
	br := bufio.NewReader(r)
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("cannot decompress eurostat dataset: %w", err)
		}
		defer gz.Close()
		r = gz
	} else {
		r = br
	}

	var res []Observation
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse eurostat dataset: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Series" {
			continue
		}
		var s series
		if err := dec.DecodeElement(&s, &start); err != nil {
			return nil, fmt.Errorf("cannot parse eurostat series: %w", err)
		}
		for _, obs := range s.Obs {
			year, err := strconv.Atoi(strings.TrimSpace(obs.TimePeriod))
			if err != nil {
				return nil, fmt.Errorf("invalid TIME_PERIOD %q in series %s/%s/%s: %w", obs.TimePeriod, s.Coicop, s.Geo, s.Unit, err)
			}
			o := Observation{Coicop: s.Coicop, Freq: s.Freq, Geo: s.Geo, Unit: s.Unit, TimePeriod: year}
			if v := strings.TrimSpace(obs.Value); v != "" {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid OBS_VALUE %q in series %s/%s/%s: %w", obs.Value, s.Coicop, s.Geo, s.Unit, err)
				}
				o.Value = &f
			}
			res = append(res, o)
		}
	}
}
