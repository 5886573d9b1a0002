package http

import (
	_ "github.com/DRSN-tech/storefront-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, embUC usecase.EmbeddingUC, recUC usecase.RecommendationUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(prUC, r.logger)
		embHandler := NewEmbeddingHandler(embUC, r.logger)
		recHandler := NewRecommendationHandler(recUC, r.logger)

		registerProductRoutes(v1, prHandler, recHandler)
		registerEmbeddingRoutes(v1, embHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, recHandler *RecommendationHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.registerNewProduct)
		pr.Get("/", prHandler.listProducts)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Get("/{id}/recommendations", recHandler.getRecommendations)
	})
}

func registerEmbeddingRoutes(router chi.Router, embHandler *EmbeddingHandler) {
	router.Route("/embeddings", func(emb chi.Router) {
		emb.Post("/generate", embHandler.generateEmbeddings)
	})
}
