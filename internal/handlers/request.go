package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into v. Malformed bodies become a
// ValidationError so they are reported as 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}

// Query helpers return nil for absent or malformed values, which the list
// endpoints treat as "no filter".

func queryString(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryDate(q url.Values, key string) *time.Time {
	v := queryString(q, key)
	if v == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil
	}
	return &t
}

func queryDecimal(q url.Values, key string) *decimal.Decimal {
	v := queryString(q, key)
	if v == nil {
		return nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return nil
	}
	return &d
}

var orderingFields = map[string]bool{
	dto.OrderTransactionDate: true,
	dto.OrderAmount:          true,
	dto.OrderCreatedAt:       true,
}

// parseOrdering reads "field,-field" lists. Unknown fields are dropped and
// an empty result means the default ordering.
func parseOrdering(v string) []dto.OrderField {
	var out []dto.OrderField
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")
		if orderingFields[field] {
			out = append(out, dto.OrderField{Field: field, Desc: desc})
		}
	}
	return out
}

func transactionQuery(q url.Values) dto.TransactionQuery {
	return dto.TransactionQuery{
		Type:       queryString(q, "type"),
		CategoryID: queryString(q, "category"),
		AccountID:  queryString(q, "account"),
		TagID:      queryString(q, "tag"),
		DateFrom:   queryDate(q, "dateFrom"),
		DateTo:     queryDate(q, "dateTo"),
		AmountMin:  queryDecimal(q, "amountMin"),
		AmountMax:  queryDecimal(q, "amountMax"),
		Search:     queryString(q, "search"),
		Ordering:   parseOrdering(q.Get("ordering")),
	}
}
