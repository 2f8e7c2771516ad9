package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

type Budget struct {
	Base
	UserID       string
	CategoryID   string
	CategoryName string
	CategoryType string
	Amount       decimal.Decimal
	PeriodType   string
	StartDate    time.Time
	EndDate      *time.Time
}
