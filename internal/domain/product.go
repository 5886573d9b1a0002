package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID          int64
	Name        string
	Company     string
	Price       int64 // Цена хранится в копейках
	Stock       int32
	Description string
	Features    string
	CategoryID  int64
	ImageKey    *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	// EmbeddedAt == nil означает, что вектор для товара ещё не сгенерирован.
	// Это штатное состояние, а не нулевой вектор.
	EmbeddedAt     *time.Time
	EmbeddingModel *string
	IsArchived     bool
}

func NewProduct(name string, company string, price int64, stock int32, description string, features string, categoryID int64) *Product {
	return &Product{
		Name:        name,
		Company:     company,
		Price:       price,
		Stock:       stock,
		Description: description,
		Features:    features,
		CategoryID:  categoryID,
	}
}

// HasEmbedding сообщает, сгенерирован ли вектор для товара.
func (p *Product) HasEmbedding() bool {
	return p.EmbeddedAt != nil
}
