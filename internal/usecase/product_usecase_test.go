package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	productRepo  *fakeProductRepo
	categoryRepo *fakeCategoryRepo
	outboxRepo   *fakeOutboxRepo
	imagesInfra  *fakeImagesInfra
	cacheRepo    *fakeCacheRepo
	db           *fakeDB
	uc           *ProductUseCase
}

func newProductFixture() *productFixture {
	f := &productFixture{
		productRepo:  newFakeProductRepo(),
		categoryRepo: &fakeCategoryRepo{},
		outboxRepo:   &fakeOutboxRepo{},
		imagesInfra:  &fakeImagesInfra{keys: []string{"products/laptop-x/1.jpg"}},
		cacheRepo:    newFakeCacheRepo(),
		db:           &fakeDB{},
	}
	f.uc = NewProductUC(
		f.productRepo, f.categoryRepo, f.outboxRepo, f.db,
		f.imagesInfra, f.cacheRepo, nopLogger{},
	)
	return f
}

func validAddReq() *AddNewProductReq {
	return NewAddNewProductReq(
		"Laptop X", "Acme", "laptops", 99_999, 5,
		"thin and light", "16GB RAM", nil,
	)
}

func TestRegisterNewProduct_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*AddNewProductReq)
		wantErr error
	}{
		{"пустое имя", func(r *AddNewProductReq) { r.Name = "  " }, e.ErrProductNameRequired},
		{"пустая категория", func(r *AddNewProductReq) { r.CategoryName = "" }, e.ErrCategoryRequired},
		{"нулевая цена", func(r *AddNewProductReq) { r.Price = 0 }, e.ErrInvalidPrice},
		{"отрицательная цена", func(r *AddNewProductReq) { r.Price = -100 }, e.ErrInvalidPrice},
		{"отрицательный остаток", func(r *AddNewProductReq) { r.Stock = -1 }, e.ErrInvalidStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newProductFixture()
			req := validAddReq()
			tc.mutate(req)

			_, err := f.uc.RegisterNewProduct(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, f.productRepo.upserted)
		})
	}
}

func TestRegisterNewProduct_HappyPath(t *testing.T) {
	f := newProductFixture()

	res, err := f.uc.RegisterNewProduct(context.Background(), validAddReq())

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ProductID)
	assert.NotEmpty(t, res.EventID)
	assert.False(t, res.NoChanges)

	// Категория и товар созданы, outbox-событие записано, транзакция закоммичена.
	require.Len(t, f.categoryRepo.created, 1)
	require.Len(t, f.productRepo.upserted, 1)
	assert.Equal(t, int64(7), f.productRepo.upserted[0].CategoryID)
	require.Len(t, f.outboxRepo.events, 1)
	assert.Equal(t, ProductUpserted, f.outboxRepo.events[0].EventType)
	assert.True(t, f.db.tx.committed)

	// Без изображений в MinIO не ходим.
	assert.Nil(t, f.imagesInfra.lastUpload)
	assert.Empty(t, f.productRepo.imageKeys)

	// Старые данные товара и его рекомендации выброшены из кэша.
	assert.Equal(t, []int64{1}, f.cacheRepo.deletedIDs)
	assert.Equal(t, []int64{1}, f.cacheRepo.deletedRecs)
}

func TestRegisterNewProduct_BindsFirstImageKey(t *testing.T) {
	f := newProductFixture()
	f.imagesInfra.keys = []string{"products/laptop-x/1.jpg", "products/laptop-x/2.jpg"}

	req := validAddReq()
	req.Images = []ProductImage{
		{Data: []byte("a"), MimeType: "image/jpeg", Size: 1, Name: "1.jpg"},
		{Data: []byte("b"), MimeType: "image/jpeg", Size: 1, Name: "2.jpg"},
	}

	_, err := f.uc.RegisterNewProduct(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, f.imagesInfra.lastUpload)
	assert.Equal(t, "Laptop X", f.imagesInfra.lastUpload.Name)
	assert.Equal(t, "products/laptop-x/1.jpg", f.productRepo.imageKeys[1])
}

func TestRegisterNewProduct_CleansUpImagesOnFailure(t *testing.T) {
	f := newProductFixture()
	f.outboxRepo.createErr = errors.New("db down")

	req := validAddReq()
	req.Images = []ProductImage{{Data: []byte("a"), MimeType: "image/jpeg", Size: 1, Name: "1.jpg"}}

	_, err := f.uc.RegisterNewProduct(context.Background(), req)

	require.Error(t, err)
	assert.True(t, f.db.tx.rolledBack)
	assert.False(t, f.db.tx.committed)
	// Загруженные изображения подчищены после отката.
	require.Len(t, f.imagesInfra.cleaned, 1)
	assert.Equal(t, []string{"products/laptop-x/1.jpg"}, f.imagesInfra.cleaned[0])
}

func TestRegisterNewProduct_NoChanges(t *testing.T) {
	f := newProductFixture()
	f.productRepo.upsertRes = NewUpsertProductRes(3, true)

	res, err := f.uc.RegisterNewProduct(context.Background(), validAddReq())

	require.NoError(t, err)
	assert.True(t, res.NoChanges)
	assert.Equal(t, int64(3), res.ProductID)
}

func TestGetProductsInfo_EmptyIDs(t *testing.T) {
	f := newProductFixture()

	_, err := f.uc.GetProductsInfo(context.Background(), NewGetProductsReq(nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrNoProducts)
}

func TestGetProductsInfo_MergesCacheAndDB(t *testing.T) {
	f := newProductFixture()
	f.cacheRepo.products[1] = NewProductInfo(1, "Laptop X", "Acme", "laptops", 99_999, 5)
	f.productRepo.infos = []ProductInfo{
		NewProductInfo(2, "Laptop Y", "Acme", "laptops", 89_999, 2),
	}

	res, err := f.uc.GetProductsInfo(context.Background(), NewGetProductsReq([]int64{1, 2, 3}))

	require.NoError(t, err)
	// Порядок результата повторяет порядок запрошенных ID.
	require.Len(t, res.Products, 2)
	assert.Equal(t, int64(1), res.Products[0].ID)
	assert.Equal(t, int64(2), res.Products[1].ID)
	assert.Equal(t, []int64{3}, res.NotFoundProducts)
}

func TestGetProductsInfo_CacheFailureFallsBackToDB(t *testing.T) {
	f := newProductFixture()
	f.cacheRepo.getErr = errors.New("redis down")
	f.productRepo.infos = []ProductInfo{
		NewProductInfo(1, "Laptop X", "Acme", "laptops", 99_999, 5),
	}

	res, err := f.uc.GetProductsInfo(context.Background(), NewGetProductsReq([]int64{1}))

	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Empty(t, res.NotFoundProducts)

	// Даём фоновому кэшированию завершиться до выхода из теста.
	time.Sleep(10 * time.Millisecond)
}

func TestListProducts(t *testing.T) {
	f := newProductFixture()
	f.productRepo.listed = []ProductRecord{
		{ID: 2, Name: "Laptop Y"},
		{ID: 1, Name: "Laptop X"},
	}

	res, err := f.uc.ListProducts(context.Background(), &ListProductsReq{Category: "laptops"})

	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Equal(t, int64(2), res.Products[0].ID)
}
