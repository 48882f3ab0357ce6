package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductNameMaxLen = 100
	// PriceScale is the number of fractional digits a price may carry.
	PriceScale = 2
)

var ErrProductNotFound = errors.New("product not found")

// priceLimit is the exclusive upper bound of a price, matching NUMERIC(18,2).
var priceLimit = decimal.New(1, 16)

// Product is a catalog item.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate checks the field invariants shared by create and update.
func (p *Product) Validate() error {
	ve := &ValidationError{}
	switch n := len([]rune(p.Name)); {
	case n == 0:
		ve.Add("name", "is required")
	case n > ProductNameMaxLen:
		ve.Add("name", "must be at most 100 characters")
	}
	switch {
	case !p.Price.IsPositive():
		ve.Add("price", "must be greater than 0")
	case p.Price.GreaterThanOrEqual(priceLimit):
		ve.Add("price", "must be less than "+priceLimit.String())
	case !p.Price.Equal(p.Price.Round(PriceScale)):
		ve.Add("price", "must have at most 2 decimal places")
	}
	return ve.OrNil()
}

// Page is one slice of a larger ordered collection.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	PageNumber int
	PageSize   int
}
