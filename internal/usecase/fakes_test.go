package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ручные фейки зависимостей usecase-слоя.

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}
func (t *fakeTx) CopyFrom(ctx context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, _ string, _ ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                          { return nil }

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) BeginTx(ctx context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	d.tx = &fakeTx{}
	return d.tx, nil
}

type fakeProductRepo struct {
	records    map[int64]ProductRecord
	missing    []ProductRecord
	byCategory []ProductRecord
	infos      []ProductInfo
	listed     []ProductRecord

	marked           map[int64]string
	imageKeys        map[int64]string
	upsertRes        *UpsertProductRes
	upserted         []*domain.Product
	recordsErr       error
	byCategoryCalled bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		records:   make(map[int64]ProductRecord),
		marked:    make(map[int64]string),
		imageKeys: make(map[int64]string),
	}
}

func (f *fakeProductRepo) Upsert(ctx context.Context, product *domain.Product) (*UpsertProductRes, error) {
	f.upserted = append(f.upserted, product)
	if f.upsertRes != nil {
		return f.upsertRes, nil
	}
	return NewUpsertProductRes(1, false), nil
}

func (f *fakeProductRepo) SetImageKey(ctx context.Context, productID int64, key string) error {
	f.imageKeys[productID] = key
	return nil
}

func (f *fakeProductRepo) MarkEmbedded(ctx context.Context, productID int64, modelVersion string) error {
	f.marked[productID] = modelVersion
	return nil
}

func (f *fakeProductRepo) GetProductRecord(ctx context.Context, id int64) (*ProductRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &rec, nil
}

func (f *fakeProductRepo) GetProductRecords(ctx context.Context, ids []int64) ([]ProductRecord, error) {
	if f.recordsErr != nil {
		return nil, f.recordsErr
	}

	result := make([]ProductRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := f.records[id]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]ProductInfo, error) {
	return f.infos, nil
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, req *ListProductsReq) ([]ProductRecord, error) {
	return f.listed, nil
}

func (f *fakeProductRepo) ListMissingEmbedding(ctx context.Context) ([]ProductRecord, error) {
	return f.missing, nil
}

func (f *fakeProductRepo) ListByCategory(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]ProductRecord, error) {
	f.byCategoryCalled = true
	return f.byCategory, nil
}

type fakeCategoryRepo struct {
	created []*domain.Category
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	f.created = append(f.created, category)
	return &domain.Category{ID: 7, Name: category.Name}, nil
}

type fakeEmbeddingRepo struct {
	vectors  map[int64][]float32
	upserted []*domain.Embedding

	hits      []SimilarProduct
	searchErr error
	getErr    error

	lastVector    []float32
	lastThreshold float32
	lastLimit     uint64
	searchCalled  bool
}

func newFakeEmbeddingRepo() *fakeEmbeddingRepo {
	return &fakeEmbeddingRepo{vectors: make(map[int64][]float32)}
}

func (f *fakeEmbeddingRepo) Upsert(ctx context.Context, embedding *domain.Embedding) error {
	f.upserted = append(f.upserted, embedding)
	f.vectors[embedding.ProductID] = embedding.Vector
	return nil
}

func (f *fakeEmbeddingRepo) GetVector(ctx context.Context, productID int64) ([]float32, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.vectors[productID]
	return v, ok, nil
}

func (f *fakeEmbeddingRepo) Search(ctx context.Context, vector []float32, threshold float32, limit uint64) ([]SimilarProduct, error) {
	f.searchCalled = true
	f.lastVector = vector
	f.lastThreshold = threshold
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

type fakeCacheRepo struct {
	products map[int64]ProductInfo
	recs     map[int64]*GetRecommendationsRes

	setRecs     []*GetRecommendationsRes
	deletedIDs  []int64
	deletedRecs []int64
	getErr      error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{
		products: make(map[int64]ProductInfo),
		recs:     make(map[int64]*GetRecommendationsRes),
	}
}

func (f *fakeCacheRepo) GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.products, nil
}

func (f *fakeCacheRepo) SetProducts(ctx context.Context, products []ProductInfo) error { return nil }

func (f *fakeCacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	f.deletedIDs = append(f.deletedIDs, ids...)
	return nil
}

func (f *fakeCacheRepo) GetRecommendations(ctx context.Context, productID int64) (*GetRecommendationsRes, error) {
	return f.recs[productID], nil
}

func (f *fakeCacheRepo) SetRecommendations(ctx context.Context, res *GetRecommendationsRes) error {
	f.setRecs = append(f.setRecs, res)
	return nil
}

func (f *fakeCacheRepo) DeleteRecommendations(ctx context.Context, ids []int64) error {
	f.deletedRecs = append(f.deletedRecs, ids...)
	return nil
}

type fakeOutboxRepo struct {
	events    []*OutboxEvent
	createErr error
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error { return nil }

type fakeEmbeddingProvider struct {
	vector       []float32
	modelVersion string
	failFor      map[string]error
	calls        []string
}

func (f *fakeEmbeddingProvider) EmbedText(ctx context.Context, text string) (*EmbedTextRes, error) {
	f.calls = append(f.calls, text)
	for substr, err := range f.failFor {
		if substr != "" && strings.Contains(text, substr) {
			return nil, err
		}
	}
	return NewEmbedTextRes(f.vector, f.modelVersion), nil
}

type fakeInsightProvider struct {
	response string
	err      error

	called     bool
	lastPrompt string
}

func (f *fakeInsightProvider) GenerateInsights(ctx context.Context, prompt string) (string, error) {
	f.called = true
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	called bool
}

func (f *fakeEmbedder) EnsureProductEmbedding(ctx context.Context, rec *ProductRecord) ([]float32, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeImagesInfra struct {
	keys       []string
	err        error
	cleaned    [][]string
	lastUpload *UploadImagesReq
}

func (f *fakeImagesInfra) UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	f.lastUpload = req
	if f.err != nil {
		return nil, f.err
	}
	return NewUploadImagesRes(f.keys), nil
}

func (f *fakeImagesInfra) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys)
}

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}
