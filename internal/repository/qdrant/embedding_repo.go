package qdrant

import (
	"context"

	"github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// EmbeddingRepo репозиторий для работы с embedding-векторами в Qdrant.
// ID точки совпадает с ID товара: один товар — один вектор.
type EmbeddingRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewEmbeddingRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *EmbeddingRepo {
	return &EmbeddingRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет вектор товара в коллекции Qdrant.
func (q *EmbeddingRepo) Upsert(ctx context.Context, embedding *domain.Embedding) error {
	points := []*qdrant.PointStruct{
		{
			Id:      qdrant.NewIDNum(uint64(embedding.ProductID)),
			Vectors: qdrant.NewVectors(embedding.Vector...),
			Payload: qdrant.NewValueMap(embedding.Payload),
		},
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Points:         points,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetVector возвращает вектор товара; found == false — вектора в коллекции нет.
func (q *EmbeddingRepo) GetVector(ctx context.Context, productID int64) ([]float32, bool, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(uint64(productID))},
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(points) == 0 {
		return nil, false, nil
	}

	vectors := points[0].GetVectors().GetVector()
	if vectors == nil || len(vectors.GetData()) == 0 {
		return nil, false, nil
	}

	return vectors.GetData(), true, nil
}

// Search возвращает ближайших соседей с похожестью не ниже threshold,
// упорядоченных по убыванию score.
func (q *EmbeddingRepo) Search(ctx context.Context, vector []float32, threshold float32, limit uint64) ([]usecase.SimilarProduct, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		ScoreThreshold: qdrant.PtrOf(threshold),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]usecase.SimilarProduct, 0, len(points))
	for _, point := range points {
		result = append(result, usecase.SimilarProduct{
			ProductID: int64(point.GetId().GetNum()),
			Score:     point.GetScore(),
		})
	}

	return result, nil
}
