package usecase

import (
	"context"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

// RecommendationUseCase — оркестратор подбора похожих товаров:
// вектор текущего товара -> поиск соседей -> пояснения генеративной модели.
// Каждый шаг деградирует независимо; наружу уходит только NotFound текущего товара.
type RecommendationUseCase struct {
	productRepo   ProductRepository
	embeddingRepo EmbeddingRepository
	cacheRepo     CacheRepository
	embedder      ProductEmbedder
	insights      InsightProvider
	cfg           *config.RecsCfg
	logger        logger.Logger
}

func NewRecommendationUC(
	productRepo ProductRepository,
	embeddingRepo EmbeddingRepository,
	cacheRepo CacheRepository,
	embedder ProductEmbedder,
	insights InsightProvider,
	cfg *config.RecsCfg,
	logger logger.Logger,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		productRepo:   productRepo,
		embeddingRepo: embeddingRepo,
		cacheRepo:     cacheRepo,
		embedder:      embedder,
		insights:      insights,
		cfg:           cfg,
		logger:        logger,
	}
}

func (u *RecommendationUseCase) GetRecommendations(ctx context.Context, req *GetRecommendationsReq) (*GetRecommendationsRes, error) {
	const op = "RecommendationUseCase.GetRecommendations"

	current, err := u.productRepo.GetProductRecord(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if cached, err := u.cacheRepo.GetRecommendations(ctx, req.ProductID); err != nil {
		u.logger.Warnf("recommendations cache read failed for product %d: %v", req.ProductID, err)
	} else if cached != nil {
		return cached, nil
	}

	vector := u.getOrCreateVector(ctx, current)

	candidates := u.findSimilar(ctx, current, vector)

	u.synthesizeInsights(ctx, current, candidates)

	res := &GetRecommendationsRes{
		CurrentProduct:  *current,
		Recommendations: candidates,
		TotalFound:      len(candidates),
	}

	if err := u.cacheRepo.SetRecommendations(ctx, res); err != nil {
		u.logger.Warnf("recommendations cache write failed for product %d: %v", req.ProductID, err)
	}

	return res, nil
}

// getOrCreateVector достаёт вектор текущего товара, при отсутствии генерирует его
// на месте. Любой сбой деградирует в nil: дальше сработает поиск по категории.
func (u *RecommendationUseCase) getOrCreateVector(ctx context.Context, current *ProductRecord) []float32 {
	vector, found, err := u.embeddingRepo.GetVector(ctx, current.ID)
	if err != nil {
		u.logger.Warnf("vector lookup failed for product %d: %v", current.ID, err)
		return nil
	}
	if found {
		return vector
	}

	vector, err = u.embedder.EnsureProductEmbedding(ctx, current)
	if err != nil {
		u.logger.Warnf("on-demand embedding failed for product %d: %v", current.ID, err)
		return nil
	}

	return vector
}

// findSimilar возвращает кандидатов по убыванию похожести. Основной путь —
// векторный поиск; при nil-векторе или сбое поиска — товары той же категории
// со score 0. Текущий товар исключается, список ограничен MaxRecommendations.
func (u *RecommendationUseCase) findSimilar(ctx context.Context, current *ProductRecord, vector []float32) []Recommendation {
	if vector == nil {
		return u.fallbackByCategory(ctx, current)
	}

	hits, err := u.embeddingRepo.Search(ctx, vector, u.cfg.SimilarityThreshold, u.cfg.SearchLimit)
	if err != nil {
		u.logger.Warnf("vector search failed for product %d: %v", current.ID, err)
		return u.fallbackByCategory(ctx, current)
	}

	scores := make(map[int64]float32, len(hits))
	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		// Товар похож сам на себя: точка с ID текущего товара всегда рядом.
		if hit.ProductID == current.ID {
			continue
		}
		if len(ids) >= u.cfg.MaxRecommendations {
			break
		}
		ids = append(ids, hit.ProductID)
		scores[hit.ProductID] = hit.Score
	}

	if len(ids) == 0 {
		return u.fallbackByCategory(ctx, current)
	}

	records, err := u.productRepo.GetProductRecords(ctx, ids)
	if err != nil {
		u.logger.Warnf("candidate hydration failed for product %d: %v", current.ID, err)
		return []Recommendation{}
	}

	byID := make(map[int64]ProductRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	// Порядок кандидатов повторяет порядок выдачи поиска, а не порядок строк из БД.
	recommendations := make([]Recommendation, 0, len(ids))
	for _, id := range ids {
		rec, ok := byID[id]
		if !ok {
			continue
		}
		recommendations = append(recommendations, Recommendation{Product: rec, Score: scores[id]})
	}

	return recommendations
}

// fallbackByCategory — запасной путь без векторов: товары той же категории, score 0.
func (u *RecommendationUseCase) fallbackByCategory(ctx context.Context, current *ProductRecord) []Recommendation {
	records, err := u.productRepo.ListByCategory(ctx, current.CategoryID, current.ID, u.cfg.MaxRecommendations)
	if err != nil {
		u.logger.Warnf("category fallback failed for product %d: %v", current.ID, err)
		return []Recommendation{}
	}

	recommendations := make([]Recommendation, 0, len(records))
	for _, rec := range records {
		recommendations = append(recommendations, Recommendation{Product: rec, Score: 0})
	}

	return recommendations
}

// synthesizeInsights заполняет пояснения кандидатов in-place: одним обращением
// к модели для всех кандидатов, со сверкой ответа по ID и имени. Сбой модели
// или непригодный ответ заменяются детерминированными пояснениями.
func (u *RecommendationUseCase) synthesizeInsights(ctx context.Context, current *ProductRecord, candidates []Recommendation) {
	if len(candidates) == 0 {
		return
	}

	var parsed []parsedInsight

	prompt := buildInsightPrompt(current, candidates, u.cfg.MaxInsights)
	raw, err := u.insights.GenerateInsights(ctx, prompt)
	if err != nil {
		u.logger.Warnf("insight generation failed for product %d: %v", current.ID, err)
	} else {
		parsed = parseInsights(raw)
	}

	for i := range candidates {
		if match, ok := matchInsight(&candidates[i].Product, parsed); ok {
			candidates[i].Insights = toInsight(match)
			continue
		}
		candidates[i].Insights = defaultInsight(&candidates[i].Product, current.Price)
	}
}
