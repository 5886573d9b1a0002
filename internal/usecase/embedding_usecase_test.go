package usecase

import (
	"context"
	"errors"
	"testing"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embFixture struct {
	productRepo   *fakeProductRepo
	embeddingRepo *fakeEmbeddingRepo
	outboxRepo    *fakeOutboxRepo
	provider      *fakeEmbeddingProvider
	db            *fakeDB
	uc            *EmbeddingUseCase
}

func newEmbFixture(vectorSize uint64) *embFixture {
	f := &embFixture{
		productRepo:   newFakeProductRepo(),
		embeddingRepo: newFakeEmbeddingRepo(),
		outboxRepo:    &fakeOutboxRepo{},
		provider: &fakeEmbeddingProvider{
			vector:       []float32{0.1, 0.2, 0.3},
			modelVersion: "text-embedding-3-small",
		},
		db: &fakeDB{},
	}
	f.uc = NewEmbeddingUC(
		f.productRepo, f.embeddingRepo, f.outboxRepo, f.provider, f.db,
		&config.QdrantCfg{VectorSize: vectorSize},
		&config.RecsCfg{GenerateDelay: 0},
		nopLogger{},
	)
	return f
}

func missingRecord(id int64, name string) ProductRecord {
	return ProductRecord{
		ID: id, Name: name, Company: "Acme", CategoryID: 1,
		CategoryName: "laptops", Price: 100_000, Stock: 3,
		Description: "thin and light", Features: "16GB RAM",
	}
}

func TestGenerate_AllMissing(t *testing.T) {
	f := newEmbFixture(3)
	f.productRepo.missing = []ProductRecord{
		missingRecord(1, "Laptop X"),
		missingRecord(2, "Laptop Y"),
	}

	res, err := f.uc.Generate(context.Background(), &GenerateEmbeddingsReq{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.ProcessedCount)
	assert.Equal(t, 0, res.ErrorCount)
	assert.Equal(t, 2, res.TotalProducts)

	// Векторы положены в хранилище с ID товара в качестве ключа точки.
	require.Len(t, f.embeddingRepo.upserted, 2)
	assert.Equal(t, int64(1), f.embeddingRepo.upserted[0].ProductID)
	assert.Equal(t, int64(2), f.embeddingRepo.upserted[1].ProductID)

	// Отметка о векторизации и outbox-событие зафиксированы для каждого товара.
	assert.Equal(t, "text-embedding-3-small", f.productRepo.marked[1])
	assert.Equal(t, "text-embedding-3-small", f.productRepo.marked[2])
	require.Len(t, f.outboxRepo.events, 2)
	assert.Equal(t, EmbeddingRefreshed, f.outboxRepo.events[0].EventType)
	assert.True(t, f.db.tx.committed)
}

func TestGenerate_TargetedRegeneratesExisting(t *testing.T) {
	f := newEmbFixture(3)
	f.productRepo.records[7] = missingRecord(7, "Laptop X")
	// Вектор уже есть, явный запрос всё равно перегенерирует.
	f.embeddingRepo.vectors[7] = []float32{0.9, 0.9, 0.9}

	id := int64(7)
	res, err := f.uc.Generate(context.Background(), &GenerateEmbeddingsReq{ProductID: &id})

	require.NoError(t, err)
	assert.Equal(t, 1, res.ProcessedCount)
	assert.Equal(t, 1, res.TotalProducts)
	require.Len(t, f.provider.calls, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, f.embeddingRepo.vectors[7])
}

func TestGenerate_TargetedNotFound(t *testing.T) {
	f := newEmbFixture(3)

	id := int64(404)
	_, err := f.uc.Generate(context.Background(), &GenerateEmbeddingsReq{ProductID: &id})

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
	assert.Empty(t, f.provider.calls)
}

func TestGenerate_CountsPerProductErrors(t *testing.T) {
	f := newEmbFixture(3)
	f.productRepo.missing = []ProductRecord{
		missingRecord(1, "Laptop X"),
		missingRecord(2, "Laptop Y"),
		missingRecord(3, "Laptop Z"),
	}
	f.provider.failFor = map[string]error{"Laptop Y": errors.New("rate limited")}

	res, err := f.uc.Generate(context.Background(), &GenerateEmbeddingsReq{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.ProcessedCount)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, 3, res.TotalProducts)
	// Сбой одного товара не прерывает цикл.
	assert.Len(t, f.provider.calls, 3)
}

func TestEnsureProductEmbedding_VectorSizeMismatch(t *testing.T) {
	f := newEmbFixture(1536)
	rec := missingRecord(1, "Laptop X")

	_, err := f.uc.EnsureProductEmbedding(context.Background(), &rec)

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrVectorSizeMismatch)
	assert.Empty(t, f.embeddingRepo.upserted)
	assert.Empty(t, f.productRepo.marked)
}

func TestEnsureProductEmbedding_EmptyVector(t *testing.T) {
	f := newEmbFixture(3)
	f.provider.vector = []float32{}
	rec := missingRecord(1, "Laptop X")

	_, err := f.uc.EnsureProductEmbedding(context.Background(), &rec)

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrEmptyVector)
}

func TestBuildProductText(t *testing.T) {
	rec := missingRecord(1, "Laptop X")

	text := buildProductText(&rec)

	// Формат канонический: от его стабильности зависит сравнимость векторов.
	want := "Name: Laptop X\n" +
		"Company: Acme\n" +
		"Type: laptops\n" +
		"Description: thin and light\n" +
		"Features: 16GB RAM\n" +
		"Stock: 3 units\n" +
		"Price: $1000.00"
	assert.Equal(t, want, text)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "999.99", formatPrice(99_999))
	assert.Equal(t, "0.05", formatPrice(5))
	assert.Equal(t, "10.00", formatPrice(1_000))
}
