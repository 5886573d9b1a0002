package usecase

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PRODUCT USECASE

// AddNewProductReq — запрос на добавление нового товара.
type AddNewProductReq struct {
	Name         string
	Company      string
	CategoryName string
	Price        int64
	Stock        int32
	Description  string
	Features     string
	Images       []ProductImage
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// RegisterProductRes — результат регистрации товара.
type RegisterProductRes struct {
	ProductID int64
	EventID   string
	NoChanges bool
}

// GetProductsReq запрос информации о товарах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes — ответ с данными запрошенных товаров.
type GetProductsRes struct {
	Products         []ProductInfo
	NotFoundProducts []int64
}

// ProductInfo — DTO с краткой информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID           int64
	Name         string
	Company      string
	CategoryName string
	Price        int64
	Stock        int32
}

// ListProductsReq — запрос витрины: фильтр по категории и поисковая строка.
type ListProductsReq struct {
	Category string
	Search   string
}

// ListProductsRes — товары витрины, отсортированные от новых к старым.
type ListProductsRes struct {
	Products []ProductRecord
}

// ProductRecord — read-модель товара с названием категории.
type ProductRecord struct {
	ID             int64
	Name           string
	Company        string
	CategoryID     int64
	CategoryName   string
	Price          int64
	Stock          int32
	Description    string
	Features       string
	ImageKey       *string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	EmbeddedAt     *time.Time
	EmbeddingModel *string
}

// HasEmbedding сообщает, сгенерирован ли вектор для товара.
func (p *ProductRecord) HasEmbedding() bool {
	return p.EmbeddedAt != nil
}

// EMBEDDING USECASE

// GenerateEmbeddingsReq — запрос на генерацию эмбеддингов.
// ProductID == nil означает «все товары без вектора».
type GenerateEmbeddingsReq struct {
	ProductID *int64
}

// GenerateEmbeddingsRes — агрегированный результат генерации.
type GenerateEmbeddingsRes struct {
	ProcessedCount int
	ErrorCount     int
	TotalProducts  int
}

// RECOMMENDATION USECASE

// GetRecommendationsReq — запрос рекомендаций для товара.
type GetRecommendationsReq struct {
	ProductID int64
}

// GetRecommendationsRes — ответ пайплайна рекомендаций.
// Recommendations упорядочены по убыванию похожести.
type GetRecommendationsRes struct {
	CurrentProduct  ProductRecord
	Recommendations []Recommendation
	TotalFound      int
}

// Recommendation — кандидат похожести с пояснением.
type Recommendation struct {
	Product  ProductRecord
	Score    float32
	Insights Insight
}

// Insight — пояснение к рекомендованному товару: либо сгенерировано моделью,
// либо детерминированное значение по умолчанию.
type Insight struct {
	Reason          string
	PriceComparison string
	KeyDifferences  string
	BestFor         string
}

// SimilarProduct — результат векторного поиска: ID товара и score похожести.
type SimilarProduct struct {
	ProductID int64
	Score     float32
}

// INFRASTRUCTURE

// EmbedTextRes — результат векторизации текста.
type EmbedTextRes struct {
	Vector       []float32
	ModelVersion string
}

// WriteRawMessageReq — запрос на публикацию готового payload в Kafka.
type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// UploadImagesReq — запрос на загрузку изображений товара.
type UploadImagesReq struct {
	Name   string
	Images []ProductImage
}

// UploadImagesRes — результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductUpserted    OutboxEventType = "product_upserted"
	EmbeddingRefreshed OutboxEventType = "embedding_refreshed"
)

// OutboxEvent — запись транзакционного outbox с JSON-payload события каталога.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// productUpsertedPayload — тело события product_upserted.
type productUpsertedPayload struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Timestamp int64  `json:"timestamp"`
}

// embeddingRefreshedPayload — тело события embedding_refreshed.
type embeddingRefreshedPayload struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	ProductID    int64  `json:"product_id"`
	ModelVersion string `json:"model_version"`
	Dimensions   int    `json:"dimensions"`
	Timestamp    int64  `json:"timestamp"`
}

// MAPPERS

func NewAddNewProductReq(name, company, categoryName string, price int64, stock int32,
	description, features string, images []ProductImage) *AddNewProductReq {
	return &AddNewProductReq{
		Name:         name,
		Company:      company,
		CategoryName: categoryName,
		Price:        price,
		Stock:        stock,
		Description:  description,
		Features:     features,
		Images:       images,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewGetProductsRes(pr []ProductInfo, notFoundProducts []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewEmbedTextRes(vector []float32, modelVersion string) *EmbedTextRes {
	return &EmbedTextRes{
		Vector:       vector,
		ModelVersion: modelVersion,
	}
}

func NewUploadImagesReq(name string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Name:   name,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}

func NewGenerateEmbeddingsRes(processed, errors, total int) *GenerateEmbeddingsRes {
	return &GenerateEmbeddingsRes{
		ProcessedCount: processed,
		ErrorCount:     errors,
		TotalProducts:  total,
	}
}

// NewProductUpsertedEvent собирает outbox-событие об изменении товара.
func NewProductUpsertedEvent(rec *ProductRecord) (*OutboxEvent, error) {
	eventID := uuid.NewString()
	payload, err := json.Marshal(productUpsertedPayload{
		EventID:   eventID,
		EventType: string(ProductUpserted),
		ProductID: rec.ID,
		Name:      rec.Name,
		Category:  rec.CategoryName,
		Price:     rec.Price,
		Timestamp: time.Now().UTC().UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: ProductUpserted,
		ProductID: rec.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewEmbeddingRefreshedEvent собирает outbox-событие об обновлении вектора товара.
func NewEmbeddingRefreshedEvent(productID int64, modelVersion string, dimensions int) (*OutboxEvent, error) {
	eventID := uuid.NewString()
	payload, err := json.Marshal(embeddingRefreshedPayload{
		EventID:      eventID,
		EventType:    string(EmbeddingRefreshed),
		ProductID:    productID,
		ModelVersion: modelVersion,
		Dimensions:   dimensions,
		Timestamp:    time.Now().UTC().UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: EmbeddingRefreshed,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UpsertProductRes — результат идемпотентного upsert товара.
type UpsertProductRes struct {
	ProductID int64
	NoChanges bool
}

func NewUpsertProductRes(productID int64, noChanges bool) *UpsertProductRes {
	return &UpsertProductRes{
		ProductID: productID,
		NoChanges: noChanges,
	}
}

func NewProductInfo(id int64, name string, company string, category string, price int64, stock int32) ProductInfo {
	return ProductInfo{
		ID:           id,
		Name:         name,
		Company:      company,
		CategoryName: category,
		Price:        price,
		Stock:        stock,
	}
}
