package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const DateLayout = "2006-01-02"

const (
	maxNameLen        = 100
	maxTagNameLen     = 50
	maxDescriptionLen = 255
	colorLen          = 7
	currencyLen       = 3
	amountPlaces      = 2
)

// amountLimit is the first value a numeric(15,2) column cannot hold.
var amountLimit = decimal.New(1, 13)

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errs.NewFieldValidationError(field, fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return t, nil
}

func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewFieldValidationError(field, "Amount must be greater than zero.")
	}
	if !amount.Equal(amount.Round(amountPlaces)) {
		return errs.NewFieldValidationError(field, "Amount must have at most 2 decimal places.")
	}
	if amount.GreaterThanOrEqual(amountLimit) {
		return errs.NewFieldValidationError(field, "Amount must have at most 13 digits before the decimal point.")
	}
	return nil
}

func ValidateTransactionDate(date, today time.Time) error {
	if DateOf(date).After(DateOf(today)) {
		return errs.NewFieldValidationError("transactionDate", "Transaction date cannot be in the future.")
	}
	return nil
}

func ValidateBudgetWindow(start time.Time, end *time.Time) error {
	if end != nil && DateOf(*end).Before(DateOf(start)) {
		return errs.NewFieldValidationError("endDate", "End date must be after start date.")
	}
	return nil
}

func ValidateEntryType(field, t string) error {
	if t != models.TypeIncome && t != models.TypeExpense {
		return errs.NewFieldValidationError(field, "Type must be either 'income' or 'expense'.")
	}
	return nil
}

func ValidateAccountType(t string) error {
	for _, v := range models.AccountTypes {
		if v == t {
			return nil
		}
	}
	return errs.NewFieldValidationError("accountType",
		"Account type must be one of: "+strings.Join(models.AccountTypes, ", "))
}

func ValidatePeriodType(p string) error {
	if p != models.PeriodMonthly && p != models.PeriodYearly {
		return errs.NewFieldValidationError("periodType", "Period type must be either 'monthly' or 'yearly'.")
	}
	return nil
}

// CheckCategoryType enforces that a transaction and its category agree.
func CheckCategoryType(cat *models.Category, txType string) error {
	if cat.Type != txType {
		return errs.NewFieldValidationError("category",
			fmt.Sprintf("Category type (%s) must match transaction type (%s).", cat.Type, txType))
	}
	return nil
}

// NormalizeName trims the value and enforces presence and length.
func NormalizeName(field, value string) (string, error) {
	return normalizeText(field, value, maxNameLen)
}

func NormalizeDescription(value string) (string, error) {
	return normalizeText("description", value, maxDescriptionLen)
}

// NormalizeTagName trims and lower-cases a tag name.
func NormalizeTagName(value string) (string, error) {
	name, err := normalizeText("name", value, maxTagNameLen)
	if err != nil {
		return "", err
	}
	return strings.ToLower(name), nil
}

func normalizeText(field, value string, max int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", errs.NewFieldValidationError(field, fmt.Sprintf("%s is required.", field))
	}
	if len([]rune(v)) > max {
		return "", errs.NewFieldValidationError(field, fmt.Sprintf("%s must be at most %d characters.", field, max))
	}
	return v, nil
}

// NormalizeColor accepts "#RRGGBB" and returns it upper-cased. Empty input
// means no color.
func NormalizeColor(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil, nil
	}
	if !strings.HasPrefix(v, "#") {
		return nil, errs.NewFieldValidationError("color", "Color must start with # (e.g., #FF5733)")
	}
	if len(v) != colorLen {
		return nil, errs.NewFieldValidationError("color", "Color must be 7 characters including # (e.g., #FF5733)")
	}
	if _, err := strconv.ParseUint(v[1:], 16, 32); err != nil {
		return nil, errs.NewFieldValidationError("color", "Color must contain valid hex characters (0-9, A-F)")
	}
	v = strings.ToUpper(v)
	return &v, nil
}

// NormalizeCurrency upper-cases a 3-letter code, falling back to def when empty.
func NormalizeCurrency(value, def string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		v = def
	}
	if len(v) != currencyLen {
		return "", errs.NewFieldValidationError("currency", "Currency code must be 3 characters (e.g., USD, EUR, XAF)")
	}
	for _, r := range v {
		if r < 'A' || r > 'Z' {
			return "", errs.NewFieldValidationError("currency", "Currency code must contain letters only")
		}
	}
	return v, nil
}
