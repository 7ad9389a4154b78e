package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etnz/inflation"
	"github.com/etnz/inflation/store"
)

// CPIHandler serves the consumer price indices.
type CPIHandler struct {
	Repo   store.Repository
	Logger *zap.Logger
	// Now returns the current time, used to bound the correction years.
	Now func() time.Time
}

func (h *CPIHandler) Register(r gin.IRoutes) {
	r.GET("", h.list)
	r.GET("/:cpi_id", h.get)
	r.GET("/:cpi_id/correction", h.correction)
}

type cpiEntry struct {
	Name        string `json:"cpi_name"`
	CountryName string `json:"country_name"`
}

func (h *CPIHandler) list(c *gin.Context) {
	items, err := h.Repo.ListCPIs(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	res := make(map[int64]cpiEntry, len(items))
	for _, item := range items {
		res[item.ID] = cpiEntry{Name: item.Name, CountryName: item.CountryName}
	}
	c.JSON(http.StatusOK, res)
}

type cpiResponse struct {
	ID                   int64               `json:"cpi_id"`
	Name                 string              `json:"cpi_name"`
	CountryName          string              `json:"country_name"`
	InstitutionName      string              `json:"institution_name"`
	CurrencySymbol       string              `json:"currency_symbol"`
	DocumentationLink    string              `json:"documentation_link"`
	LegalMentions        string              `json:"legal_mentions"`
	Values               map[int]float64     `json:"cpi_values"`
	AnnualInflationRates map[int]json.Number `json:"annual_inflation_rates"`
}

func (h *CPIHandler) get(c *gin.Context) {
	id, ok := cpiID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cpi, err := h.Repo.GetCPI(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	values, err := h.Repo.ListCPIValues(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	res := cpiResponse{
		ID:                   cpi.ID,
		Name:                 cpi.Name,
		CountryName:          cpi.CountryName,
		InstitutionName:      cpi.InstitutionName,
		CurrencySymbol:       cpi.CurrencySymbol,
		DocumentationLink:    cpi.DocumentationLink,
		LegalMentions:        cpi.LegalMentions,
		Values:               make(map[int]float64, len(values)),
		AnnualInflationRates: make(map[int]json.Number),
	}
	for _, v := range values {
		res.Values[v.Year] = v.Value
	}
	for year, rate := range inflation.AnnualRates(res.Values) {
		res.AnnualInflationRates[year] = json.Number(rate.String())
	}
	c.JSON(http.StatusOK, res)
}

type correctionQuery struct {
	YearA  *int     `form:"year_a" binding:"required,gt=1900"`
	YearB  *int     `form:"year_b" binding:"required,gt=1900"`
	Amount *float64 `form:"amount" binding:"required,gt=0"`
}

type correctionResponse struct {
	CorrectedAmount json.Number `json:"corrected_amount"`
	InflationRate   json.Number `json:"inflation_rate"`
	Currency        string      `json:"currency"`
}

func (h *CPIHandler) correction(c *gin.Context) {
	id, ok := cpiID(c)
	if !ok {
		return
	}
	var q correctionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	for _, year := range []int{*q.YearA, *q.YearB} {
		if year > now().Year() {
			detail(c, http.StatusUnprocessableEntity, fmt.Sprintf("year %d is in the future", year))
			return
		}
	}

	ctx := c.Request.Context()
	cpi, err := h.Repo.GetCPI(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	values, err := h.Repo.ListCPIValues(ctx, id, *q.YearA, *q.YearB)
	if err != nil {
		h.fail(c, err)
		return
	}
	byYear := make(map[int]float64, len(values))
	for _, v := range values {
		byYear[v.Year] = v.Value
	}
	a, okA := byYear[*q.YearA]
	b, okB := byYear[*q.YearB]
	if !okA || !okB {
		detail(c, http.StatusNotFound, "CPI value not found for the requested years")
		return
	}

	c.JSON(http.StatusOK, correctionResponse{
		CorrectedAmount: json.Number(inflation.Round(inflation.Correct(*q.Amount, a, b), 2).String()),
		InflationRate:   json.Number(inflation.Round(inflation.InflationRate(a, b), 2).String()),
		Currency:        cpi.CurrencySymbol,
	})
}

// cpiID parses the cpi_id path parameter, it must be a positive integer.
func cpiID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("cpi_id"), 10, 64)
	if err != nil || id <= 0 {
		detail(c, http.StatusUnprocessableEntity, "cpi_id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *CPIHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		detail(c, http.StatusNotFound, "CPI not found")
		return
	}
	logger(h.Logger).Error("cpi query failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	detail(c, http.StatusInternalServerError, "Internal Server Error")
}
