package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

type EmbeddingHandler struct {
	embUsecase usecase.EmbeddingUC
	logger     logger.Logger
}

func NewEmbeddingHandler(embUsecase usecase.EmbeddingUC, logger logger.Logger) *EmbeddingHandler {
	return &EmbeddingHandler{embUsecase: embUsecase, logger: logger}
}

// generateEmbeddings
//
//	@Summary		Генерация векторов товаров
//	@Description	Генерирует вектор для указанного товара или для всех товаров без вектора
//	@Tags			embeddings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateEmbeddingsRequest	false	"ID товара (опционально)"
//	@Success		200		{object}	GenerateEmbeddingsResponse
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Router			/embeddings/generate [post]
func (h *EmbeddingHandler) generateEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req GenerateEmbeddingsRequest

	// Пустое тело равносильно генерации для всех товаров без вектора.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
	}

	if req.ProductID != nil && *req.ProductID <= 0 {
		WriteError(w, e.ErrInvalidProductID)
		return
	}

	res, err := h.embUsecase.Generate(r.Context(), &usecase.GenerateEmbeddingsReq{ProductID: req.ProductID})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, GenerateEmbeddingsResponse{
		ProcessedCount: res.ProcessedCount,
		ErrorCount:     res.ErrorCount,
		TotalProducts:  res.TotalProducts,
	})
}
