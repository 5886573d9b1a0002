package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

const productRecordColumns = `
	pr.id, pr.name, pr.company, pr.price, pr.stock,
	pr.description, pr.features, pr.category_id, cat.name,
	pr.image_key, pr.created_at, pr.updated_at,
	pr.embedded_at, pr.embedding_model
`

// Upsert идемпотентно создаёт или обновляет товар по уникальному имени.
// Запись обновляется только при фактическом изменении полей; при обновлении
// сбрасывается отметка о векторизации, так как старый вектор устаревает.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// VALUES ($1..$7) name, company, price, stock, description, features, category_id
	query := `
		WITH upsert AS (
		INSERT INTO products (name, company, price, stock, description, features, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name)
		DO UPDATE SET
			company = EXCLUDED.company,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			description = EXCLUDED.description,
			features = EXCLUDED.features,
			category_id = EXCLUDED.category_id,
			embedded_at = NULL,
			embedding_model = NULL,
			updated_at = NOW()
		WHERE
			products.company IS DISTINCT FROM EXCLUDED.company OR
			products.price IS DISTINCT FROM EXCLUDED.price OR
			products.stock IS DISTINCT FROM EXCLUDED.stock OR
			products.description IS DISTINCT FROM EXCLUDED.description OR
			products.features IS DISTINCT FROM EXCLUDED.features OR
			products.category_id IS DISTINCT FROM EXCLUDED.category_id
		RETURNING
			id, name, company, price, stock, description, features, category_id,
			image_key, created_at, updated_at, embedded_at, embedding_model, is_archived
		)
		SELECT
			id, name, company, price, stock, description, features, category_id,
			image_key, created_at, updated_at, embedded_at, embedding_model, is_archived,
			false AS no_changes
		FROM upsert

		UNION ALL

		SELECT
			id, name, company, price, stock, description, features, category_id,
			image_key, created_at, updated_at, embedded_at, embedding_model, is_archived,
			true AS no_changes
		FROM products
		WHERE name = $1
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var model converter.ProductModel
	var noChanges bool
	err = tx.QueryRow(ctx, query,
		product.Name, product.Company, product.Price, product.Stock,
		product.Description, product.Features, product.CategoryID,
	).Scan(
		&model.ID, &model.Name, &model.Company, &model.Price, &model.Stock,
		&model.Description, &model.Features, &model.CategoryID,
		&model.ImageKey, &model.CreatedAt, &model.UpdatedAt,
		&model.EmbeddedAt, &model.EmbeddingModel, &model.IsArchived, &noChanges,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUpsertProductRes(p.conv.ToEntity(&model).ID, noChanges), nil
}

// SetImageKey привязывает к товару ключ изображения в MinIO.
func (p *ProductRepo) SetImageKey(ctx context.Context, productID int64, key string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `UPDATE products SET image_key = $1, updated_at = NOW() WHERE id = $2`

	result, err := tx.Exec(ctx, query, key, productID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// MarkEmbedded фиксирует факт генерации вектора и версию модели.
func (p *ProductRepo) MarkEmbedded(ctx context.Context, productID int64, modelVersion string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `UPDATE products SET embedded_at = NOW(), embedding_model = $1, updated_at = NOW() WHERE id = $2`

	result, err := tx.Exec(ctx, query, modelVersion, productID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// GetProductRecord возвращает товар с названием категории.
func (p *ProductRepo) GetProductRecord(ctx context.Context, id int64) (*usecase.ProductRecord, error) {
	query := `
		SELECT ` + productRecordColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = $1 AND NOT pr.is_archived
	`

	var rec usecase.ProductRecord
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Name, &rec.Company, &rec.Price, &rec.Stock,
		&rec.Description, &rec.Features, &rec.CategoryID, &rec.CategoryName,
		&rec.ImageKey, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmbeddedAt, &rec.EmbeddingModel,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &rec, nil
}

// GetProductRecords возвращает товары по списку ID; отсутствующие молча пропускаются.
func (p *ProductRepo) GetProductRecords(ctx context.Context, ids []int64) ([]usecase.ProductRecord, error) {
	query := `
		SELECT ` + productRecordColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1) AND NOT pr.is_archived
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanProductRecords(rows)
}

// GetProductsInfo возвращает краткую информацию о товарах, включая название категории.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]usecase.ProductInfo, error) {
	query := `
		SELECT pr.id, pr.name, pr.company, cat.name, pr.price, pr.stock
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1) AND NOT pr.is_archived
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var product usecase.ProductInfo
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Company,
			&product.CategoryName, &product.Price, &product.Stock,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// ListProducts возвращает витрину каталога: фильтр по названию категории,
// поиск по названию, производителю и описанию, сортировка от новых к старым.
func (p *ProductRepo) ListProducts(ctx context.Context, req *usecase.ListProductsReq) ([]usecase.ProductRecord, error) {
	query := `
		SELECT ` + productRecordColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE NOT pr.is_archived
		  AND ($1 = '' OR cat.name = $1)
		  AND ($2 = '' OR pr.name ILIKE '%' || $2 || '%'
		       OR pr.company ILIKE '%' || $2 || '%'
		       OR pr.description ILIKE '%' || $2 || '%')
		ORDER BY pr.created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, req.Category, req.Search)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanProductRecords(rows)
}

// ListMissingEmbedding возвращает товары, для которых вектор ещё не сгенерирован.
func (p *ProductRepo) ListMissingEmbedding(ctx context.Context) ([]usecase.ProductRecord, error) {
	query := `
		SELECT ` + productRecordColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.embedded_at IS NULL AND NOT pr.is_archived
		ORDER BY pr.id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanProductRecords(rows)
}

// ListByCategory возвращает товары категории без указанного (запасной путь похожести).
func (p *ProductRepo) ListByCategory(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]usecase.ProductRecord, error) {
	query := `
		SELECT ` + productRecordColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.category_id = $1 AND pr.id <> $2 AND NOT pr.is_archived
		ORDER BY pr.created_at DESC
		LIMIT $3
	`

	rows, err := p.pool.Query(ctx, query, categoryID, excludeID, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanProductRecords(rows)
}

func scanProductRecords(rows pgx.Rows) ([]usecase.ProductRecord, error) {
	result := make([]usecase.ProductRecord, 0)
	for rows.Next() {
		var rec usecase.ProductRecord
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Company, &rec.Price, &rec.Stock,
			&rec.Description, &rec.Features, &rec.CategoryID, &rec.CategoryName,
			&rec.ImageKey, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmbeddedAt, &rec.EmbeddingModel,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
