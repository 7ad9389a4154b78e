package store

// Country is a row of enriched.dim_countries.
type Country struct {
	ID             int64  `gorm:"primaryKey;column:id"`
	Name           string `gorm:"column:name"`
	CCA2           string `gorm:"column:cca2"`
	CurrencyCode   string `gorm:"column:currency_code"`
	CurrencySymbol string `gorm:"column:currency_symbol"`
}

func (Country) TableName() string { return "enriched.dim_countries" }

// CPI is a row of enriched.dim_cpis: one consumer price index published by an
// institution for a country.
type CPI struct {
	ID                int64  `gorm:"primaryKey;column:id"`
	Name              string `gorm:"column:name"`
	CountryID         int64  `gorm:"column:country_id"`
	InstitutionName   string `gorm:"column:institution_name"`
	DocumentationLink string `gorm:"column:documentation_link"`
	LegalMentions     string `gorm:"column:legal_mentions"`
}

func (CPI) TableName() string { return "enriched.dim_cpis" }

// CPIValue is a row of enriched.fact_cpi_values: the annual value of an index.
type CPIValue struct {
	CPIID int64   `gorm:"primaryKey;column:cpi_id"`
	Year  int     `gorm:"primaryKey;column:year"`
	Value float64 `gorm:"column:value"`
}

func (CPIValue) TableName() string { return "enriched.fact_cpi_values" }

// CPISummary is an index listed by ListCPIs.
type CPISummary struct {
	ID          int64  `gorm:"column:cpi_id"`
	Name        string `gorm:"column:cpi_name"`
	CountryName string `gorm:"column:country_name"`
}

// CPIDetail is an index joined with its country.
type CPIDetail struct {
	ID                int64  `gorm:"column:cpi_id"`
	Name              string `gorm:"column:cpi_name"`
	CountryName       string `gorm:"column:country_name"`
	InstitutionName   string `gorm:"column:institution_name"`
	CurrencySymbol    string `gorm:"column:currency_symbol"`
	DocumentationLink string `gorm:"column:documentation_link"`
	LegalMentions     string `gorm:"column:legal_mentions"`
}
