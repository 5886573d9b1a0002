//go:generate goverter gen github.com/DRSN-tech/storefront-backend/internal/repository/redis/converter

package converter

import (
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
)

// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
type ProductInfoConverter interface {
	ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel
	ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo
	ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel
	ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo
}

// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertPointerString
type RecommendationsConverter interface {
	ToRedisModel(entity *usecase.GetRecommendationsRes) *RecommendationsRedisModel
	ToUseCase(model *RecommendationsRedisModel) *usecase.GetRecommendationsRes
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertPointerString(s *string) *string {
	return s
}
