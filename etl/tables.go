package etl

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/etnz/inflation/eurostat"
	"github.com/etnz/inflation/restcountries"
	"github.com/etnz/inflation/usbls"
)

// Column of a raw table.
type Column struct {
	Name string
	Type string
}

// Table is a raw table loaded by a job.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

func (t Table) String() string { return t.Schema + "." + t.Name }

// Identifier returns the quoted name of the table.
func (t Table) Identifier() pgx.Identifier { return pgx.Identifier{t.Schema, t.Name} }

// ColumnNames in table order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// createSQL returns the CREATE TABLE statement of t.
func (t Table) createSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(t.Identifier().Sanitize())
	b.WriteString(" (")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgx.Identifier{c.Name}.Sanitize())
		b.WriteString(" ")
		b.WriteString(c.Type)
	}
	b.WriteString(")")
	return b.String()
}

// EurostatTable holds the annual HICP observations.
func EurostatTable(schema string) Table {
	return Table{Schema: schema, Name: "eurostat_hicp", Columns: []Column{
		{"coicop", "text"},
		{"freq", "text"},
		{"geo", "text"},
		{"unit", "text"},
		{"time_period", "integer"},
		{"obs_value", "double precision"},
	}}
}

func EurostatRows(obs []eurostat.Observation) [][]any {
	rows := make([][]any, len(obs))
	for i, o := range obs {
		rows[i] = []any{o.Coicop, o.Freq, o.Geo, o.Unit, int32(o.TimePeriod), o.Value}
	}
	return rows
}

// USBLSTable holds the BLS series observations.
func USBLSTable(schema string) Table {
	return Table{Schema: schema, Name: "usbls_cpi", Columns: []Column{
		{"series_id", "text"},
		{"year", "integer"},
		{"period", "text"},
		{"value", "double precision"},
		{"footnotes", "text"},
	}}
}

func USBLSRows(obs []usbls.Observation) [][]any {
	rows := make([][]any, len(obs))
	for i, o := range obs {
		rows[i] = []any{o.SeriesID, int32(o.Year), o.Period, o.Value, o.Footnotes}
	}
	return rows
}

// RestCountriesTable holds the countries and their currencies.
func RestCountriesTable(schema string) Table {
	return Table{Schema: schema, Name: "restcountries", Columns: []Column{
		{"common_name", "text"},
		{"official_name", "text"},
		{"cca2", "text"},
		{"status", "text"},
		{"currencies_code", "text"},
		{"currencies_name", "text"},
		{"currencies_symbol", "text"},
		{"currencies_count", "integer"},
	}}
}

func RestCountriesRows(countries []restcountries.Country) [][]any {
	rows := make([][]any, len(countries))
	for i, c := range countries {
		rows[i] = []any{c.CommonName, c.OfficialName, c.CCA2, c.Status, c.CurrenciesCode, c.CurrenciesName, c.CurrenciesSymbol, int32(c.CurrenciesCount)}
	}
	return rows
}
