package usecase

import "context"

type ProductUC interface {
	RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*RegisterProductRes, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
	ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error)
}

type EmbeddingUC interface {
	Generate(ctx context.Context, req *GenerateEmbeddingsReq) (*GenerateEmbeddingsRes, error)
}

// ProductEmbedder обеспечивает синхронную генерацию вектора для одного товара.
// Используется оркестратором рекомендаций, когда у текущего товара вектора ещё нет.
type ProductEmbedder interface {
	EnsureProductEmbedding(ctx context.Context, rec *ProductRecord) ([]float32, error)
}

type RecommendationUC interface {
	GetRecommendations(ctx context.Context, req *GetRecommendationsReq) (*GetRecommendationsRes, error)
}
