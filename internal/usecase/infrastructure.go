package usecase

import "context"

// EmbeddingProvider — внешний провайдер эмбеддингов (OpenAI-совместимый API).
type EmbeddingProvider interface {
	EmbedText(ctx context.Context, text string) (*EmbedTextRes, error)
}

// InsightProvider — внешний генеративный провайдер.
// Возвращает сырой текст модели; разбор и сверка с кандидатами — забота usecase.
type InsightProvider interface {
	GenerateInsights(ctx context.Context, prompt string) (string, error)
}

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
