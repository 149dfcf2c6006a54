package bootstrap

import (
	"log"
	"time"

	"catalog-chat-be/internal/config"
	"catalog-chat-be/internal/controller"
	"catalog-chat-be/internal/pkg/logger"
	"catalog-chat-be/internal/repository/file"
	"catalog-chat-be/internal/repository/memory"
	"catalog-chat-be/internal/service"
	"catalog-chat-be/pkg/assistant"
	"catalog-chat-be/pkg/embedding"
	"catalog-chat-be/pkg/pinecone"
	"catalog-chat-be/pkg/websearch"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	IngestController controller.IIngestController
	SearchController controller.ISearchController

	// Exposed for middleware and shutdown
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. External Providers
	embedder := embedding.NewOpenAIProvider(
		cfg.Keys.OpenAI,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingDimension,
	)

	index := pinecone.NewClient(cfg.Ai.IndexHost, cfg.Keys.Pinecone)

	assist := assistant.NewOpenAIAssistant(
		cfg.Keys.OpenAI,
		cfg.Ai.AssistantId,
		time.Duration(cfg.Ai.RunPollIntervalMs)*time.Millisecond,
		time.Duration(cfg.Ai.RunMaxWaitSeconds)*time.Second,
	)

	searcher := websearch.NewBingSearcher(cfg.Search.BaseURL, cfg.Search.Site)

	// 3. Repositories
	namespaceRepo, err := file.NewNamespaceRepository(cfg.App.NamespaceFile, cfg.Ai.CatalogNamespace, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize namespace registry: %v", err)
	}
	sessionRepo := memory.NewSessionRepository()

	// 4. Services
	chatService := service.NewChatService(
		embedder,
		index,
		assist,
		namespaceRepo,
		sessionRepo,
		sysLogger,
		service.ChatOptions{
			CatalogNamespace:   cfg.Ai.CatalogNamespace,
			RelevanceThreshold: cfg.Ai.RelevanceThreshold,
			TopK:               cfg.Ai.TopK,
			MultiNamespace:     cfg.Ai.MultiNamespace,
			HistoryWindow:      cfg.Ai.HistoryWindow,
		},
	)
	ingestService := service.NewIngestService(embedder, index, namespaceRepo, sysLogger)
	searchService := service.NewSearchService(searcher, sysLogger)

	// 5. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService),
		IngestController: controller.NewIngestController(ingestService),
		SearchController: controller.NewSearchController(searchService),
		Logger:           sysLogger,
	}
}
