package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// productRequest is the body of create and update calls. ID is ignored on
// create and must match the path on update.
type productRequest struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price" validate:"gt=0"`
}

type productResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price" swaggertype:"number"`
	CreatedAt time.Time   `json:"createdAt"`
}

type productListResponse struct {
	Items      []productResponse `json:"items"`
	TotalCount int64             `json:"totalCount"`
	PageNumber int               `json:"pageNumber"`
	PageSize   int               `json:"pageSize"`
}
