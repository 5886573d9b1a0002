package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
)

type ProductRepository interface {
	// Upsert идемпотентно создаёт или обновляет товар (внутри транзакции).
	Upsert(ctx context.Context, product *domain.Product) (*UpsertProductRes, error)
	// SetImageKey привязывает к товару ключ изображения в S3 (внутри транзакции).
	SetImageKey(ctx context.Context, productID int64, key string) error
	// MarkEmbedded фиксирует факт генерации вектора (внутри транзакции).
	MarkEmbedded(ctx context.Context, productID int64, modelVersion string) error
	// GetProductRecord возвращает товар с названием категории.
	// Возвращает e.ErrProductNotFound, если товара нет.
	GetProductRecord(ctx context.Context, id int64) (*ProductRecord, error)
	// GetProductRecords возвращает товары по списку ID; отсутствующие молча пропускаются.
	GetProductRecords(ctx context.Context, ids []int64) ([]ProductRecord, error)
	GetProductsInfo(ctx context.Context, ids []int64) ([]ProductInfo, error)
	ListProducts(ctx context.Context, req *ListProductsReq) ([]ProductRecord, error)
	// ListMissingEmbedding возвращает только товары без вектора.
	ListMissingEmbedding(ctx context.Context) ([]ProductRecord, error)
	// ListByCategory — запасной путь похожести: товары той же категории без текущего.
	ListByCategory(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]ProductRecord, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

type EmbeddingRepository interface {
	// Upsert сохраняет или обновляет вектор товара.
	Upsert(ctx context.Context, embedding *domain.Embedding) error
	// GetVector возвращает вектор товара; found == false — штатное состояние «вектора нет».
	GetVector(ctx context.Context, productID int64) (vector []float32, found bool, err error)
	// Search возвращает ближайших соседей с score не ниже threshold,
	// упорядоченных по убыванию похожести.
	Search(ctx context.Context, vector []float32, threshold float32, limit uint64) ([]SimilarProduct, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
	// GetRecommendations возвращает nil без ошибки при промахе кэша.
	GetRecommendations(ctx context.Context, productID int64) (*GetRecommendationsRes, error)
	SetRecommendations(ctx context.Context, res *GetRecommendationsRes) error
	DeleteRecommendations(ctx context.Context, ids []int64) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
