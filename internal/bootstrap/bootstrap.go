package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/caselaw-assistant/internal/config"
	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
	"github.com/kirillkom/caselaw-assistant/internal/core/usecase"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/embedding"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/events/nats"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/llm"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/llm/openaicompat"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/metadata/postgres"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	SearchUC   ports.CaseSearchService
	DocumentUC ports.CaseDocumentService
	StatsUC    ports.CorpusStatsService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	metadataStore := postgres.NewStore(db)
	if err := metadataStore.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	publisher, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init event publisher: %w", err)
	}

	embedClient := embedding.New(cfg.EmbeddingURL, cfg.EmbeddingDimension)
	embedder := embedding.NewResilient(embedClient, executor)

	completion := completionClient(cfg, executor)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	if count, err := vectorDB.PointCount(ctx); err != nil {
		slog.Warn("vector_index_unreachable", "error", err)
	} else {
		slog.Info("vector_index_ready", "points", count)
	}

	analyzer := usecase.NewQueryAnalyzer(completion)
	synthesizer := usecase.NewAnswerSynthesizer(completion, usecase.DefaultSynthesisConfig())

	searchCfg := usecase.SearchConfig{
		SimilarityThreshold: cfg.SearchSimilarityThreshold,
		SubQueryThreshold:   cfg.SearchSubQueryThreshold,
		VectorLimit:         cfg.SearchVectorLimit,
		LexicalLimit:        cfg.SearchLexicalLimit,
		LexicalBaseline:     cfg.SearchLexicalBaseline,
		CallTimeout:         time.Duration(cfg.SearchCallTimeoutSeconds) * time.Second,
		RerankEnabled:       cfg.RerankEnabled,
		MaxLimit:            cfg.SearchMaxLimit,
	}
	fusionCfg := usecase.DefaultFusionConfig()
	fusionCfg.TopK = cfg.SearchTopK
	fusionCfg.MaxPerCase = cfg.SearchMaxPerCase
	fusionCfg.RerankPoolSize = cfg.RerankPoolSize
	fusionCfg.RerankCutoff = cfg.RerankCutoff

	searchUC := usecase.NewSearchUseCase(
		analyzer,
		embedder,
		vectorDB,
		metadataStore,
		completion,
		synthesizer,
		publisher,
		searchCfg,
		fusionCfg,
	)

	return &App{
		Config: cfg,

		SearchUC:   searchUC,
		DocumentUC: usecase.NewCaseDocumentUseCase(metadataStore),
		StatsUC:    usecase.NewCorpusStatsUseCase(metadataStore),

		closeFn: func() {
			publisher.Close()
			_ = db.Close()
		},
	}, nil
}

func completionClient(cfg config.Config, executor *resilience.Executor) ports.CompletionClient {
	var inner ports.CompletionClient
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "openai":
		inner = openaicompat.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		inner = ollama.New(cfg.OllamaURL, cfg.OllamaGenModel)
	}
	return llm.NewResilientCompletion(inner, executor, "llm.complete")
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
