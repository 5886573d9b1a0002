package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/storefront-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/storefront-backend/internal/infrastructure/minio"
	openaiInfra "github.com/DRSN-tech/storefront-backend/internal/infrastructure/openai"
	s3Repo "github.com/DRSN-tech/storefront-backend/internal/repository/minio"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter/generated"
	qdrantRepo "github.com/DRSN-tech/storefront-backend/internal/repository/qdrant"
	"github.com/DRSN-tech/storefront-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/storefront-backend/internal/repository/redis/converter/generated"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/clients"
	"github.com/DRSN-tech/storefront-backend/pkg/closer"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/DRSN-tech/storefront-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App собирает все зависимости сервиса и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	db           *postgres.PgDatabase
	qdrantClient *clients.QdrantClient
	redisClient  *clients.RedisClient
	producer     *kafka.Producer
	outboxWorker *kafka.OutboxWorker
	imagesInfra  *minioInfra.MinioInfrastructure
	httpSrv      *v1Http.Server
	closer       *closer.Closer

	// bgCancel останавливает фоновые задачи (cleanup изображений, outbox worker).
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	const op = "app.NewApp"

	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(2 * time.Second),
	}
	a.bgCtx, a.bgCancel = context.WithCancel(context.Background())

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	a.db = db

	catConv := &pgdbConv.CategoryConverterImpl{}
	prConv := &pgdbConv.ProductConverterImpl{}
	outboxConv := &pgdbConv.OutboxEventConverterImpl{}
	infoConv := &redisConv.ProductInfoConverterImpl{}
	recsConv := &redisConv.RecommendationsConverterImpl{}

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, catConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		return nil, e.Wrap(op, err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	a.imagesInfra = minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, a.bgCtx)

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureCollection(qdrantCtx, qdrantClient); err != nil {
		qdrantCancel()
		return nil, e.Wrap(op, err)
	}
	qdrantCancel()
	a.qdrantClient = qdrantClient

	embRepo := qdrantRepo.NewEmbeddingRepo(qdrantClient.Client, cfg.Qdrant)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(op, err)
	}
	a.redisClient = redisClient
	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, recsConv, cfg.Redis, log)

	aiClient := openaiInfra.NewClient(cfg.OpenAI, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		return nil, e.Wrap(op, err)
	}
	a.producer = producer
	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	productUC := usecase.NewProductUC(
		productRepo,
		categoryRepo,
		outboxRepo,
		db.Pool,
		a.imagesInfra,
		cacheRepo,
		log,
	)

	embeddingUC := usecase.NewEmbeddingUC(
		productRepo,
		embRepo,
		outboxRepo,
		aiClient,
		db.Pool,
		cfg.Qdrant,
		cfg.Recs,
		log,
	)

	recommendationUC := usecase.NewRecommendationUC(
		productRepo,
		embRepo,
		cacheRepo,
		embeddingUC,
		aiClient,
		cfg.Recs,
		log,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC, embeddingUC, recommendationUC)

	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	a.registerClosers()

	return a, nil
}

// Run запускает фоновые задачи и HTTP-сервер, блокируется до сигнала
// завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	a.outboxWorker.Start(a.bgCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

// registerClosers регистрирует закрытие ресурсов в порядке, обратном запуску (LIFO).
func (a *App) registerClosers() {
	a.closer.Add(func(ctx context.Context) error {
		a.db.Close()
		return nil
	})
	a.closer.Add(func(ctx context.Context) error {
		return a.redisClient.Client.Close()
	})
	a.closer.Add(func(ctx context.Context) error {
		return a.qdrantClient.Client.Close()
	})
	a.closer.Add(func(ctx context.Context) error {
		return a.producer.Close()
	})
	a.closer.Add(func(ctx context.Context) error {
		// Останавливаем фоновые задачи и дожидаемся компенсаций в MinIO.
		a.bgCancel()
		a.outboxWorker.Stop()
		return a.imagesInfra.WaitForCleanup(ctx)
	})
	a.closer.Add(func(ctx context.Context) error {
		return a.httpSrv.Stop(ctx)
	})
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
