package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etnz/inflation"
	"github.com/etnz/inflation/date"
)

// ProjectionHandler runs the projection calculator.
type ProjectionHandler struct {
	Baseline *inflation.Baseline // nil uses the default baseline
	Logger   *zap.Logger
}

func (h *ProjectionHandler) Register(r gin.IRoutes) {
	r.GET("/project_personal_finances", h.project)
}

type projectionQuery struct {
	InitialAmount   *int     `form:"initial_amount_invested" binding:"required,gte=0"`
	Frequency       string   `form:"recurring_investment_frequency" binding:"required,oneof=weekly monthly annual"`
	RecurringAmount *int     `form:"recurring_investment_amount" binding:"required,gte=0"`
	Years           *int     `form:"investment_duration_yrs" binding:"required,gt=0"`
	GrossYield      *float64 `form:"annual_gross_yield" binding:"required"`
	InflationRate   *float64 `form:"annual_inflation_rate" binding:"required"`
	BuyInFee        *float64 `form:"investment_buy_in_fee_pct" binding:"required,gte=0,lte=100"`
	CustodyFee      *float64 `form:"annual_custody_fee_pct" binding:"required,gte=0,lte=100"`
	SellOutFee      *float64 `form:"investment_sell_out_fee_pct" binding:"required,gte=0,lte=100"`
	Tax             *float64 `form:"tax_on_gains_pct" binding:"required,gte=0,lte=100"`
	Currency        string   `form:"currency"`
	CustodyAccrual  string   `form:"custody_accrual" binding:"omitempty,oneof=first_year cumulative"`
}

// params converts the query into projection parameters.
func (q projectionQuery) params() (inflation.Params, error) {
	frequency, err := date.ParsePeriod(q.Frequency)
	if err != nil {
		return inflation.Params{}, err
	}
	custody, err := inflation.ParseCustodyAccrual(q.CustodyAccrual)
	if err != nil {
		return inflation.Params{}, err
	}
	p := inflation.Params{
		InitialAmount:   float64(*q.InitialAmount),
		Frequency:       frequency,
		RecurringAmount: float64(*q.RecurringAmount),
		Years:           *q.Years,
		GrossYield:      inflation.Percent(*q.GrossYield),
		InflationRate:   inflation.Percent(*q.InflationRate),
		BuyInFee:        inflation.Percent(*q.BuyInFee),
		CustodyFee:      inflation.Percent(*q.CustodyFee),
		SellOutFee:      inflation.Percent(*q.SellOutFee),
		Tax:             inflation.Percent(*q.Tax),
		Currency:        q.Currency,
		Custody:         custody,
	}
	return p, p.Validate()
}

func (h *ProjectionHandler) project(c *gin.Context) {
	var q projectionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	p, err := q.params()
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	baseline := inflation.DefaultBaseline()
	if h.Baseline != nil {
		baseline = *h.Baseline
	}
	proj, err := baseline.Project(p)
	if err != nil {
		if !errors.Is(err, inflation.ErrInvariant) {
			detail(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger(h.Logger).Error("projection failed", zap.Error(err))
		_ = c.Error(err)
		detail(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, proj.Report)
}
