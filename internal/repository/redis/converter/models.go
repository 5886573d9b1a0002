package converter

import "time"

type ProductInfoRedisModel struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Company      string `json:"company"`
	CategoryName string `json:"category_name"`
	Price        int64  `json:"price"`
	Stock        int32  `json:"stock"`
}

// ProductRecordRedisModel — полная карточка товара в кэше рекомендаций.
type ProductRecordRedisModel struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Company        string     `json:"company"`
	CategoryID     int64      `json:"category_id"`
	CategoryName   string     `json:"category_name"`
	Price          int64      `json:"price"`
	Stock          int32      `json:"stock"`
	Description    string     `json:"description"`
	Features       string     `json:"features"`
	ImageKey       *string    `json:"image_key,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	EmbeddedAt     *time.Time `json:"embedded_at,omitempty"`
	EmbeddingModel *string    `json:"embedding_model,omitempty"`
}

type InsightRedisModel struct {
	Reason          string `json:"reason"`
	PriceComparison string `json:"price_comparison"`
	KeyDifferences  string `json:"key_differences"`
	BestFor         string `json:"best_for"`
}

type RecommendationRedisModel struct {
	Product  ProductRecordRedisModel `json:"product"`
	Score    float32                 `json:"score"`
	Insights InsightRedisModel       `json:"insights"`
}

// RecommendationsRedisModel — закэшированный ответ пайплайна рекомендаций.
type RecommendationsRedisModel struct {
	CurrentProduct  ProductRecordRedisModel    `json:"current_product"`
	Recommendations []RecommendationRedisModel `json:"recommendations"`
	TotalFound      int                        `json:"total_found"`
}
