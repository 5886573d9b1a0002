package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// ProductUseCase реализует бизнес-логику каталога товаров.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	dbPool       transaction.Transactional
	imagesInfra  ImagesInfra
	cacheRepo    CacheRepository
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		dbPool:       dbPool,
		imagesInfra:  imagesInfra,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// RegisterNewProduct обрабатывает добавление или обновление товара: категория,
// сам товар, изображения и outbox-событие фиксируются в одной транзакции.
func (p *ProductUseCase) RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*RegisterProductRes, error) {
	const op = "ProductUseCase.RegisterNewProduct"

	// Валидация данных
	var err error
	err = p.validateProduct(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imagesRes *UploadImagesRes
		uploaded  bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженных изображений
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imagesRes != nil {
				p.logger.Warnf(
					"Cleaning up orphaned images after transaction failure. product_name: %s, error: %v",
					req.Name,
					e.Wrap(op, err),
				)

				p.imagesInfra.CleanupImages(imagesRes.ImagesKeys)
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	// идемпотентное создание категории
	category, err := p.createCategory(ctx, req.CategoryName)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// идемпотентное создание товара
	upsertRes, err := p.upsertProduct(ctx, req, category.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Сохранение изображений в MinIO и привязка ключа к товару
	if len(req.Images) > 0 {
		imagesRes, err = p.uploadImages(ctx, req.Name, req.Images)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = true

		if err = p.productRepo.SetImageKey(ctx, upsertRes.ProductID, imagesRes.ImagesKeys[0]); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	// Outbox-событие об изменении товара в той же транзакции
	event, err := p.createUpsertEvent(ctx, upsertRes.ProductID, req, category.Name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Коммит изменений в бд
	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша старых данных товара и его рекомендаций
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{upsertRes.ProductID}); err != nil {
		p.logger.Warnf("Failed to delete products from cache: %v", e.Wrap(op, err))
	}
	if err := p.cacheRepo.DeleteRecommendations(ctx, []int64{upsertRes.ProductID}); err != nil {
		p.logger.Warnf("Failed to delete recommendations from cache: %v", e.Wrap(op, err))
	}

	return &RegisterProductRes{
		ProductID: upsertRes.ProductID,
		EventID:   event.EventID,
		NoChanges: upsertRes.NoChanges,
	}, nil
}

// GetProductsInfo возвращает информацию о товарах по их идентификаторам.
func (p *ProductUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "ProductUseCase.GetProductsInfo"

	// Валидация
	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	// Поиск товаров в кэше
	cacheProductsMap, err := p.cacheRepo.GetProducts(ctx, req.IDs)
	var (
		nonCacheable []int64
		cacheable    []ProductInfo
	)
	if err != nil {
		nonCacheable = append(nonCacheable, req.IDs...)
	} else {
		for _, productId := range req.IDs {
			if product, ok := cacheProductsMap[productId]; ok {
				cacheable = append(cacheable, product)
			} else {
				nonCacheable = append(nonCacheable, productId)
			}
		}
	}

	// Получение товаров из БД
	var productsInfoFromDB []ProductInfo
	if len(nonCacheable) > 0 {
		productsInfoFromDB, err = p.productRepo.GetProductsInfo(ctx, nonCacheable)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Фоновое добавление товаров в кэш
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := p.cacheRepo.SetProducts(bgCtx, productsInfoFromDB); err != nil {
				p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	dbProductsMap := make(map[int64]ProductInfo, len(productsInfoFromDB))
	for _, productInfo := range productsInfoFromDB {
		dbProductsMap[productInfo.ID] = productInfo
	}

	// Формирование результата в порядке запрошенных ID
	result := make([]ProductInfo, 0, len(req.IDs))
	notFoundProducts := make([]int64, 0)
	for _, id := range req.IDs {
		if pr, ok := cacheProductsMap[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbProductsMap[id]; ok {
			result = append(result, pr)
		} else {
			notFoundProducts = append(notFoundProducts, id)
		}
	}

	return NewGetProductsRes(result, notFoundProducts), nil
}

// ListProducts возвращает витрину каталога с фильтром по категории и поиском.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error) {
	const op = "ProductUseCase.ListProducts"

	records, err := p.productRepo.ListProducts(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &ListProductsRes{Products: records}, nil
}

// upsertProduct идемпотентно создаёт или обновляет товар.
func (p *ProductUseCase) upsertProduct(ctx context.Context, req *AddNewProductReq, categoryID int64) (*UpsertProductRes, error) {
	product := domain.NewProduct(req.Name, req.Company, req.Price, req.Stock, req.Description, req.Features, categoryID)
	return p.productRepo.Upsert(ctx, product)
}

// createCategory идемпотентно создаёт категорию.
func (p *ProductUseCase) createCategory(ctx context.Context, categoryName string) (*domain.Category, error) {
	return p.categoryRepo.Create(ctx, domain.NewCategory(categoryName))
}

// uploadImages сохраняет изображения товара в MinIO.
func (p *ProductUseCase) uploadImages(ctx context.Context, name string, images []ProductImage) (*UploadImagesRes, error) {
	return p.imagesInfra.UploadImages(ctx, NewUploadImagesReq(name, images))
}

// createUpsertEvent кладёт в outbox событие product_upserted (внутри транзакции).
func (p *ProductUseCase) createUpsertEvent(ctx context.Context, productID int64, req *AddNewProductReq, categoryName string) (*OutboxEvent, error) {
	rec := &ProductRecord{
		ID:           productID,
		Name:         req.Name,
		CategoryName: categoryName,
		Price:        req.Price,
	}

	event, err := NewProductUpsertedEvent(rec)
	if err != nil {
		return nil, err
	}

	return p.outboxRepo.Create(ctx, event)
}

// validateProduct проверяет корректность входных данных запроса на добавление товара.
func (p *ProductUseCase) validateProduct(req *AddNewProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if strings.TrimSpace(req.CategoryName) == "" {
		return e.ErrCategoryRequired
	}

	if req.Price <= 0 {
		return e.ErrInvalidPrice
	}

	if req.Stock < 0 {
		return e.ErrInvalidStock
	}

	return nil
}
