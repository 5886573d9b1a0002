package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// EmbeddingUseCase реализует генерацию семантических векторов товаров.
type EmbeddingUseCase struct {
	productRepo   ProductRepository
	embeddingRepo EmbeddingRepository
	outboxRepo    OutboxRepository
	provider      EmbeddingProvider
	dbPool        transaction.Transactional
	vectorSize    uint64
	generateDelay time.Duration
	logger        logger.Logger
}

func NewEmbeddingUC(
	productRepo ProductRepository,
	embeddingRepo EmbeddingRepository,
	outboxRepo OutboxRepository,
	provider EmbeddingProvider,
	dbPool transaction.Transactional,
	qdrantCfg *config.QdrantCfg,
	recsCfg *config.RecsCfg,
	logger logger.Logger,
) *EmbeddingUseCase {
	return &EmbeddingUseCase{
		productRepo:   productRepo,
		embeddingRepo: embeddingRepo,
		outboxRepo:    outboxRepo,
		provider:      provider,
		dbPool:        dbPool,
		vectorSize:    qdrantCfg.VectorSize,
		generateDelay: recsCfg.GenerateDelay,
		logger:        logger,
	}
}

// Generate генерирует векторы для одного товара или для всех товаров без вектора.
// Ошибки отдельных товаров считаются и не прерывают цикл; наружу уходит ошибка
// только при невозможности получить сам список целей (включая NotFound для явного ID).
func (u *EmbeddingUseCase) Generate(ctx context.Context, req *GenerateEmbeddingsReq) (*GenerateEmbeddingsRes, error) {
	const op = "EmbeddingUseCase.Generate"

	targets, err := u.loadTargets(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var processed, failed int
	for i := range targets {
		// Пауза между обращениями к провайдеру — защита от rate limit, не корректность.
		if i > 0 && u.generateDelay > 0 {
			select {
			case <-time.After(u.generateDelay):
			case <-ctx.Done():
				return NewGenerateEmbeddingsRes(processed, failed, len(targets)), e.Wrap(op, ctx.Err())
			}
		}

		if _, err := u.EnsureProductEmbedding(ctx, &targets[i]); err != nil {
			u.logger.Warnf("embedding generation failed for product %d: %v", targets[i].ID, e.Wrap(op, err))
			failed++
			continue
		}

		processed++
	}

	u.logger.Infof("embedding generation finished: processed=%d errors=%d total=%d", processed, failed, len(targets))
	return NewGenerateEmbeddingsRes(processed, failed, len(targets)), nil
}

// EnsureProductEmbedding генерирует и сохраняет вектор товара независимо от того,
// был ли вектор раньше. Возвращает свежий вектор.
func (u *EmbeddingUseCase) EnsureProductEmbedding(ctx context.Context, rec *ProductRecord) ([]float32, error) {
	const op = "EmbeddingUseCase.EnsureProductEmbedding"

	text := buildProductText(rec)

	res, err := u.provider.EmbedText(ctx, text)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(res.Vector) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	// Инвариант сравнимости: все векторы коллекции обязаны совпадать по размерности.
	if u.vectorSize > 0 && uint64(len(res.Vector)) != u.vectorSize {
		return nil, e.Wrap(op, fmt.Errorf("%w: got %d, want %d", e.ErrVectorSizeMismatch, len(res.Vector), u.vectorSize))
	}

	payload := domain.NewPayload(rec.ID, rec.CategoryName, res.ModelVersion)
	if err := u.embeddingRepo.Upsert(ctx, domain.NewEmbedding(rec.ID, res.Vector, payload)); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := u.persistEmbeddedMark(ctx, rec.ID, res.ModelVersion, len(res.Vector)); err != nil {
		return nil, e.Wrap(op, err)
	}

	return res.Vector, nil
}

// loadTargets возвращает цели генерации: ровно один товар при явном ID
// (независимо от текущего состояния вектора), иначе — только товары без вектора.
func (u *EmbeddingUseCase) loadTargets(ctx context.Context, req *GenerateEmbeddingsReq) ([]ProductRecord, error) {
	if req.ProductID != nil {
		rec, err := u.productRepo.GetProductRecord(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		return []ProductRecord{*rec}, nil
	}

	return u.productRepo.ListMissingEmbedding(ctx)
}

// persistEmbeddedMark в одной транзакции фиксирует отметку о векторизации
// и кладёт outbox-событие embedding_refreshed.
func (u *EmbeddingUseCase) persistEmbeddedMark(ctx context.Context, productID int64, modelVersion string, dimensions int) error {
	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = u.productRepo.MarkEmbedded(ctx, productID, modelVersion); err != nil {
		return err
	}

	event, err := NewEmbeddingRefreshedEvent(productID, modelVersion, dimensions)
	if err != nil {
		return err
	}

	if _, err = u.outboxRepo.Create(ctx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// buildProductText строит каноническое текстовое представление товара.
// Порядок и формат полей фиксированы: векторы, построенные по разным кодировкам,
// несравнимы между собой.
func buildProductText(rec *ProductRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Company: %s\n", rec.Company)
	fmt.Fprintf(&b, "Type: %s\n", rec.CategoryName)
	fmt.Fprintf(&b, "Description: %s\n", rec.Description)
	fmt.Fprintf(&b, "Features: %s\n", rec.Features)
	fmt.Fprintf(&b, "Stock: %d units\n", rec.Stock)
	fmt.Fprintf(&b, "Price: $%s", formatPrice(rec.Price))

	return b.String()
}

// formatPrice переводит цену из копеек в строку с двумя знаками после запятой.
func formatPrice(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
