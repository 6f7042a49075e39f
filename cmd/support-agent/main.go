package main

import (
	"context"
	"strings"
	"time"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/agent"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/cache"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/catalog"
	supportconfig "github.com/abhinavk0220/ecommerce-chat-assistant/internal/config"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/httpapi"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/rag"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/sessions"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/tools"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/config"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/database"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/llm"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/logging"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/monitoring"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/server"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("support-agent")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Support Agent (customer support orchestration API)")

	cfg := supportconfig.LoadConfig()

	// Connect to database; the service degrades to stateless chat without one.
	var db database.PostgresConn
	if cfg.DatabaseURL != "" {
		dbConfig := database.DefaultConfig()
		dbConfig.URL = cfg.DatabaseURL
		var err error
		db, err = database.Connect(dbConfig, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to database - sessions and retrieval disabled")
			db = nil
		} else {
			defer func() { _ = db.Close() }()
		}
	} else {
		logger.Warn("DATABASE_URL not set - sessions and retrieval disabled")
	}

	var llmProvider llm.Provider
	if cfg.LLMAPIKey != "" || strings.EqualFold(cfg.LLMProvider, "ollama") {
		var err error
		llmProvider, err = llm.NewProvider(llm.Config{
			Provider:  cfg.LLMProvider,
			Model:     cfg.LLMModel,
			APIKey:    cfg.LLMAPIKey,
			APIURL:    cfg.LLMAPIURL,
			MaxTokens: cfg.LLMMaxTokens,
			Timeout:   cfg.LLMTimeout,
		})
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize LLM provider")
			llmProvider = nil
		}
	} else {
		logger.Warn("LLM_API_KEY not set - agentic answering disabled")
	}

	var embeddingClient llm.EmbeddingClient
	if cfg.EmbeddingAPIKey != "" || strings.EqualFold(cfg.EmbeddingProvider, "ollama") {
		var err error
		embeddingClient, err = llm.NewEmbeddingClient(llm.Config{
			Provider: cfg.EmbeddingProvider,
			Model:    cfg.EmbeddingModel,
			APIKey:   cfg.EmbeddingAPIKey,
			APIURL:   cfg.EmbeddingAPIURL,
		})
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize embedding client")
			embeddingClient = nil
		}
	}
	if embeddingClient != nil && cfg.EmbeddingDimensions > 0 {
		probeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		dims, err := llm.ProbeEmbeddingDimensions(probeCtx, embeddingClient)
		cancel()
		switch {
		case err != nil:
			logger.WithError(err).Warn("Failed to probe embedding dimensions")
		case dims != cfg.EmbeddingDimensions:
			// The vector column is fixed-width; a mismatched model would
			// fail every query, so retrieval is disabled up front.
			logger.WithFields(logging.Fields{
				"configured": cfg.EmbeddingDimensions,
				"model":      dims,
			}).Warn("Embedding dimensions mismatch - retrieval disabled")
			embeddingClient = nil
		}
	}

	catalogStore, err := catalog.Load(cfg.DataDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load catalog data")
	}
	logger.WithFields(logging.Fields{
		"orders":   len(catalogStore.Orders()),
		"products": len(catalogStore.Products()),
		"users":    len(catalogStore.Users()),
	}).Info("Catalog data loaded")

	var sessionStore *sessions.Store
	if db != nil {
		sessionStore = sessions.NewStore(db)
		if err := sessionStore.EnsureSchema(context.Background()); err != nil {
			logger.WithError(err).Warn("Failed to ensure session schema - sessions disabled")
			sessionStore = nil
		}
	}

	var answerer *rag.Answerer
	if db != nil && embeddingClient != nil && llmProvider != nil {
		retriever := rag.NewPGStore(db, embeddingClient)
		answerer = rag.NewAnswerer(retriever, llmProvider, cfg.RetrievalTopK, logger)
	} else {
		logger.Warn("Document retrieval not configured - fallback answers degrade")
	}

	registry := tools.NewRegistry(logger)
	tools.RegisterCatalogTools(registry, catalogStore)
	if answerer != nil {
		registry.Register(agent.PolicySearchSpec(answerer))
	}
	logger.WithFields(logging.Fields{"tools": registry.Names()}).Info("Tool registry ready")

	now := time.Now
	if cfg.FixedToday != "" {
		pinned, err := time.Parse("2006-01-02", cfg.FixedToday)
		if err != nil {
			logger.WithError(err).WithFields(logging.Fields{"value": cfg.FixedToday}).
				Warn("Invalid AGENT_FIXED_TODAY; using wall clock")
		} else {
			now = func() time.Time { return pinned }
			logger.WithFields(logging.Fields{"today": cfg.FixedToday}).Info("Pinned assistant date")
		}
	}

	orchestratorOpts := agent.Options{
		Provider:      llmProvider,
		Registry:      registry,
		Logger:        logger,
		MaxToolRounds: cfg.MaxToolRounds,
		CallTimeout:   cfg.LLMTimeout,
		Now:           now,
	}
	if answerer != nil {
		orchestratorOpts.Answerer = answerer
	}
	orchestrator := agent.New(orchestratorOpts)

	responseCache := cache.New(cache.Options{
		MaxEntries: cfg.CacheMaxEntries,
		TTL:        cfg.CacheTTL,
	}, httpapi.CacheHooks())

	handler := httpapi.NewHandler(orchestrator, responseCache, sessionStore, logger)
	handler.MaxHistoryMessages = cfg.MaxHistoryMessages

	healthChecker := monitoring.NewHealthChecker("support-agent", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("support-agent", version.Version, version.GitCommit)
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"LLM_API_KEY": cfg.LLMAPIKey,
	}))

	router := server.SetupServiceRouter(logger, "support-agent", healthChecker, metricsCollector)
	httpapi.RegisterRoutes(router, handler)

	serverCfg := server.DefaultConfig("support-agent", cfg.Port)
	serverCfg.ReadTimeout = cfg.RequestTimeout
	serverCfg.WriteTimeout = cfg.RequestTimeout

	if err := server.Start(serverCfg, router, logger); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
}
