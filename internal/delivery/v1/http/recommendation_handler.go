package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

type RecommendationHandler struct {
	recUsecase usecase.RecommendationUC
	logger     logger.Logger
}

func NewRecommendationHandler(recUsecase usecase.RecommendationUC, logger logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recUsecase: recUsecase, logger: logger}
}

// getRecommendations
//
//	@Summary		Рекомендации похожих товаров
//	@Description	Векторный поиск похожих товаров с пояснениями генеративной модели
//	@Tags			recommendations
//	@Produce		json
//	@Param			id	path		integer	true	"ID товара"
//	@Success		200	{object}	RecommendationResponse
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Router			/products/{id}/recommendations [get]
func (h *RecommendationHandler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.recUsecase.GetRecommendations(r.Context(), &usecase.GetRecommendationsReq{ProductID: id})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRecommendationResponse(res))
}
