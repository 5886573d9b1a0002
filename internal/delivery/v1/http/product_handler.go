package http

import (
	"errors"
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// registerNewProduct
//
//	@Summary		Регистрация нового товара
//	@Description	Создаёт или обновляет товар каталога с изображениями
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string	true	"Название товара"
//	@Param			company		formData	string	false	"Производитель"
//	@Param			category	formData	string	true	"Категория"
//	@Param			price		formData	number	true	"Цена"
//	@Param			stock		formData	integer	false	"Остаток на складе"
//	@Param			description	formData	string	false	"Описание"
//	@Param			features	formData	string	false	"Характеристики"
//	@Param			images		formData	file	false	"Изображения товара"
//	@Success		201			{object}	RegisterProductResponse	"Товар создан или обновлён"
//	@Failure		400			{object}	ErrorResponse			"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) registerNewProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	prMeta, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	// Изображения необязательны: товар без них регистрируется штатно.
	images, err := parseImages(r.MultipartForm.File["images"])
	if err != nil && !errors.Is(err, e.ErrNoImages) {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.RegisterNewProduct(r.Context(), usecase.NewAddNewProductReq(
		prMeta.Name, prMeta.Company, prMeta.CategoryName,
		prMeta.Price, prMeta.Stock, prMeta.Description, prMeta.Features, images,
	))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if res.NoChanges {
		status = http.StatusOK
	}

	WriteSuccess(w, status, RegisterProductResponse{
		ProductID: res.ProductID,
		EventID:   res.EventID,
		NoChanges: res.NoChanges,
	})
}

// listProducts
//
//	@Summary	Витрина каталога
//	@Tags		products
//	@Produce	json
//	@Param		category	query		string	false	"Фильтр по категории"
//	@Param		search		query		string	false	"Поиск по названию, производителю и описанию"
//	@Success	200			{object}	ProductListResponse
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req := &usecase.ListProductsReq{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	res, err := p.productUsecase.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductListResponse(res))
}

// getProduct
//
//	@Summary	Карточка товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		integer	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.GetProductsInfo(r.Context(), usecase.NewGetProductsReq([]int64{id}))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	if len(res.Products) == 0 {
		WriteError(w, e.ErrProductNotFound)
		return
	}

	info := res.Products[0]
	WriteSuccess(w, http.StatusOK, ProductResponse{
		ID:       info.ID,
		Name:     info.Name,
		Company:  info.Company,
		Category: info.CategoryName,
		Price:    formatCents(info.Price),
		Stock:    info.Stock,
	})
}
