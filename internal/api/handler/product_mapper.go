package handler

import (
	"encoding/json"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// --- Request → domain ---

func toDomainProduct(req productRequest) domain.Product {
	return domain.Product{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
	}
}

// --- domain → Response ---

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     json.Number(p.Price.StringFixed(domain.PriceScale)),
		CreatedAt: p.CreatedAt.UTC(),
	}
}

func toProductListResponse(page *domain.Page[domain.Product]) productListResponse {
	items := make([]productResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toProductResponse(p))
	}
	return productListResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
