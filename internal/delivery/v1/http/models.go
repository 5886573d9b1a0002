package http

import (
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// RegisterProductResponse — ответ регистрации товара.
type RegisterProductResponse struct {
	ProductID int64  `json:"product_id"`
	EventID   string `json:"event_id"`
	NoChanges bool   `json:"no_changes"`
}

// ProductResponse — карточка товара в ответах API. Цена отдаётся строкой
// с двумя знаками после запятой, чтобы не терять точность в JSON.
type ProductResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Company      string  `json:"company"`
	Category     string  `json:"category"`
	Price        string  `json:"price"`
	Stock        int32   `json:"stock"`
	Description  string  `json:"description,omitempty"`
	Features     string  `json:"features,omitempty"`
	ImageKey     *string `json:"image_key,omitempty"`
	HasEmbedding bool    `json:"has_embedding"`
}

// ProductListResponse — ответ витрины каталога.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// InsightResponse — пояснение к рекомендованному товару.
type InsightResponse struct {
	Reason          string `json:"reason"`
	PriceComparison string `json:"priceComparison"`
	KeyDifferences  string `json:"keyDifferences"`
	BestFor         string `json:"bestFor"`
}

// RecommendationItem — один кандидат с похожестью и пояснением.
type RecommendationItem struct {
	Product  ProductResponse `json:"product"`
	Score    float32         `json:"score"`
	Insights InsightResponse `json:"insights"`
}

// RecommendationResponse — ответ пайплайна рекомендаций.
type RecommendationResponse struct {
	CurrentProduct  ProductResponse      `json:"current_product"`
	Recommendations []RecommendationItem `json:"recommendations"`
	TotalFound      int                  `json:"total_found"`
}

// GenerateEmbeddingsRequest — тело запроса на генерацию векторов.
// product_id не задан — генерация для всех товаров без вектора.
type GenerateEmbeddingsRequest struct {
	ProductID *int64 `json:"product_id"`
}

// GenerateEmbeddingsResponse — агрегированный результат генерации.
type GenerateEmbeddingsResponse struct {
	ProcessedCount int `json:"processed_count"`
	ErrorCount     int `json:"error_count"`
	TotalProducts  int `json:"total_products"`
}

func toProductResponse(rec *usecase.ProductRecord) ProductResponse {
	return ProductResponse{
		ID:           rec.ID,
		Name:         rec.Name,
		Company:      rec.Company,
		Category:     rec.CategoryName,
		Price:        formatCents(rec.Price),
		Stock:        rec.Stock,
		Description:  rec.Description,
		Features:     rec.Features,
		ImageKey:     rec.ImageKey,
		HasEmbedding: rec.HasEmbedding(),
	}
}

func toProductListResponse(res *usecase.ListProductsRes) *ProductListResponse {
	products := make([]ProductResponse, 0, len(res.Products))
	for i := range res.Products {
		products = append(products, toProductResponse(&res.Products[i]))
	}

	return &ProductListResponse{
		Products: products,
		Total:    len(products),
	}
}

func toRecommendationResponse(res *usecase.GetRecommendationsRes) *RecommendationResponse {
	items := make([]RecommendationItem, 0, len(res.Recommendations))
	for i := range res.Recommendations {
		rec := &res.Recommendations[i]
		items = append(items, RecommendationItem{
			Product: toProductResponse(&rec.Product),
			Score:   rec.Score,
			Insights: InsightResponse{
				Reason:          rec.Insights.Reason,
				PriceComparison: rec.Insights.PriceComparison,
				KeyDifferences:  rec.Insights.KeyDifferences,
				BestFor:         rec.Insights.BestFor,
			},
		})
	}

	return &RecommendationResponse{
		CurrentProduct:  toProductResponse(&res.CurrentProduct),
		Recommendations: items,
		TotalFound:      res.TotalFound,
	}
}

// formatCents переводит цену из копеек в строку с двумя знаками после запятой.
func formatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
