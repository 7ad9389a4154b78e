// Package restcountries reads the countries and their currencies from
// https://restcountries.com.
package restcountries

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/etnz/inflation/provider"
)

// URL lists every country with the fields Parse reads.
const URL = "https://restcountries.com/v3.1/all?fields=name,cca2,status,currencies"

// Separator joins the currencies of a country.
const Separator = ", "

// Country is a country and its currencies. A country may have several
// currencies, their codes, names and symbols are joined with Separator, in
// the same order.
type Country struct {
	CommonName       string
	OfficialName     string
	CCA2             string
	Status           string
	CurrenciesCode   *string // nil for countries without currency
	CurrenciesName   *string
	CurrenciesSymbol *string
	CurrenciesCount  int
}

// Fetch downloads the countries at addr, usually URL, and parses them.
func Fetch(ctx context.Context, c *provider.Client, addr string) ([]Country, error) {
	var jobj any
	if err := c.GetJSON(ctx, addr, &jobj); err != nil {
		return nil, fmt.Errorf("cannot fetch restcountries: %w", err)
	}
	return Parse(jobj)
}

// Parse reads the countries from the decoded JSON array.
func Parse(jobj any) ([]Country, error) {
	list, ok := jobj.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot parse restcountries: want an array got %T", jobj)
	}
	res := make([]Country, 0, len(list))
	for i, item := range list {
		var c Country
		var err error
		for path, dst := range map[string]*string{
			"$.name.common":   &c.CommonName,
			"$.name.official": &c.OfficialName,
			"$.cca2":          &c.CCA2,
			"$.status":        &c.Status,
		} {
			if *dst, err = text(path, item); err != nil {
				return nil, fmt.Errorf("cannot parse restcountries item #%d: %w", i, err)
			}
		}
		if err := c.currencies(item); err != nil {
			return nil, fmt.Errorf("cannot parse currencies of %q: %w", c.CommonName, err)
		}
		res = append(res, c)
	}
	return res, nil
}

// currencies reads the "currencies" object, keyed by ISO 4217 code.
func (c *Country) currencies(item any) error {
	jval, err := jsonpath.Get("$.currencies", item)
	if err != nil {
		// missing for countries without a currency (Antarctica)
		return nil
	}
	currencies, ok := jval.(map[string]any)
	if !ok {
		return fmt.Errorf("want an object got %T", jval)
	}
	if len(currencies) == 0 {
		return nil
	}
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	names := make([]string, 0, len(codes))
	symbols := make([]string, 0, len(codes))
	for _, code := range codes {
		name, _ := text("$.name", currencies[code])
		symbol, _ := text("$.symbol", currencies[code])
		names = append(names, name)
		symbols = append(symbols, symbol)
	}
	join := func(s []string) *string {
		j := strings.Join(s, Separator)
		return &j
	}
	c.CurrenciesCode = join(codes)
	c.CurrenciesName = join(names)
	c.CurrenciesSymbol = join(symbols)
	c.CurrenciesCount = len(codes)
	return nil
}

// text returns the string at path in jobj.
func text(path string, jobj any) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%s: want a string got %T", path, jval)
	}
	return s, nil
}
