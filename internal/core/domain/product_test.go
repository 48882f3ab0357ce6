package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name      string
		product   Product
		wantField string
	}{
		{name: "valid", product: Product{Name: "Laptop", Price: decimal.RequireFromString("1200.00")}},
		{name: "largest price", product: Product{Name: "Laptop", Price: decimal.RequireFromString("9999999999999999.99")}},
		{name: "empty name", product: Product{Price: decimal.NewFromInt(1)}, wantField: "name"},
		{name: "long name", product: Product{Name: strings.Repeat("x", ProductNameMaxLen+1), Price: decimal.NewFromInt(1)}, wantField: "name"},
		{name: "zero price", product: Product{Name: "Laptop"}, wantField: "price"},
		{name: "negative price", product: Product{Name: "Laptop", Price: decimal.NewFromInt(-5)}, wantField: "price"},
		{name: "three decimals", product: Product{Name: "Laptop", Price: decimal.RequireFromString("1.005")}, wantField: "price"},
		{name: "price at limit", product: Product{Name: "Laptop", Price: decimal.New(1, 16)}, wantField: "price"},
		{name: "price past column range", product: Product{Name: "Laptop", Price: decimal.New(1, 17)}, wantField: "price"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.product.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid product, got %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.wantField]; !ok {
				t.Fatalf("expected a reason for %q, got %v", tc.wantField, ve.Fields)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatal("validation error must match ErrValidation")
			}
		})
	}
}
