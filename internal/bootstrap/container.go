package bootstrap

import (
	"context"
	"log"

	"hybrid-search-be/internal/config"
	"hybrid-search-be/internal/controller"
	"hybrid-search-be/internal/pkg/logger"
	"hybrid-search-be/internal/repository/implementation"
	"hybrid-search-be/internal/repository/unitofwork"
	"hybrid-search-be/internal/service"
	"hybrid-search-be/pkg/cache"
	"hybrid-search-be/pkg/embedding"
	"hybrid-search-be/pkg/embedding/jina"
	"hybrid-search-be/pkg/migration"
	"hybrid-search-be/pkg/search"

	pktNats "hybrid-search-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SearchController    controller.ISearchController
	IndexController     controller.IIndexController
	MigrationController controller.IMigrationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for the health endpoint and shutdown
	DB            *gorm.DB
	Redis         *redis.Client
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db, cfg.Ai.EmbeddingDimension)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding Provider based on Config
	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		provider = jina.NewJinaProvider(cfg.Ai.JinaApiKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		provider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}
	embeddingClient := embedding.NewClient(provider, cfg.Ai.ChunkSize, cfg.Ai.ChunkOverlap)

	// Neural reranking only works with a Jina key; without one the engine
	// falls back to hybrid ranking.
	var reranker embedding.Reranker
	if cfg.Ai.JinaApiKey != "" {
		reranker = jina.NewJinaReranker(cfg.Ai.JinaApiKey, cfg.Ai.RerankerModel)
	}

	// 3.5 Infrastructure
	// NATS
	natsPub, natsErr := pktNats.NewPublisher(cfg.App.NatsURL)
	if natsErr != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", natsErr)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 4. Cache Tiers
	tiered := cache.NewTieredCache(
		cache.NewRedisKV(rdb),
		implementation.NewCacheEntryRepository(db),
		cache.Options{
			L1Size: cfg.Cache.L1Size,
			L1TTL:  cfg.Cache.L1TTL,
			L2TTL:  cfg.Cache.L2TTL,
			L3TTL:  cfg.Cache.L3TTL,
		},
		sysLogger,
	)
	tiered.StartOptimizer(context.Background(), cfg.Cache.OptimizeInterval, cfg.Cache.HitRateFloor)

	// 5. Search Engine
	vectorRepo := implementation.NewVectorIndexRepository(db, cfg.Ai.EmbeddingDimension)
	docRepo := implementation.NewDocumentRepository(db)
	engine := search.NewEngine(
		vectorRepo,
		docRepo,
		embeddingClient,
		reranker,
		tiered,
		search.Config{
			DefaultTopK: cfg.Search.DefaultTopK,
			RerankDepth: cfg.Search.RerankDepth,
		},
		sysLogger,
	)

	// 6. Migration Pipeline
	var progressPublisher migration.ProgressPublisher
	if natsErr == nil {
		progressPublisher = natsPub
	}
	pipeline := migration.NewPipeline(
		docRepo,
		vectorRepo,
		implementation.NewMigrationRepository(db),
		embeddingClient,
		progressPublisher,
		sysLogger,
	)
	pipeline.AttachSearcher(engine)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.IndexTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IndexTopic,
		uowFactory,
		embeddingClient,
		cfg.Ai.ChunkSize,
		cfg.Ai.ChunkOverlap,
	)

	searchService := service.NewSearchService(engine, tiered, cfg.Search.RankingStrategy)
	indexService := service.NewIndexService(uowFactory, publisherService)
	migrationService := service.NewMigrationService(uowFactory, pipeline, cfg.Migration)

	return &Container{
		SearchController:    controller.NewSearchController(searchService),
		IndexController:     controller.NewIndexController(indexService),
		MigrationController: controller.NewMigrationController(migrationService),

		ConsumerService: consumerService,

		DB:            db,
		Redis:         rdb,
		NatsPublisher: natsPub,
	}
}
