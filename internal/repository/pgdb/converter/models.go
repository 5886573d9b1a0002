package converter

import (
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID             int64      `db:"id"`
	Name           string     `db:"name"`
	Company        string     `db:"company"`
	Price          int64      `db:"price"`
	Stock          int32      `db:"stock"`
	Description    string     `db:"description"`
	Features       string     `db:"features"`
	CategoryID     int64      `db:"category_id"`
	ImageKey       *string    `db:"image_key"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      *time.Time `db:"updated_at"`
	EmbeddedAt     *time.Time `db:"embedded_at"`
	EmbeddingModel *string    `db:"embedding_model"`
	IsArchived     bool       `db:"is_archived"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
	IsActive  bool       `db:"is_active"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64                   `db:"id"`
	EventID     string                  `db:"event_id"`
	EventType   usecase.OutboxEventType `db:"event_type"`
	ProductID   int64                   `db:"product_id"`
	Payload     []byte                  `db:"payload"`
	Status      usecase.OutboxStatus    `db:"status"`
	CreatedAt   time.Time               `db:"created_at"`
	ProcessedAt *time.Time              `db:"processed_at"`
}
