package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/synapse-med/synapse-core/internal/adapters/driven/ai"
	"github.com/synapse-med/synapse-core/internal/adapters/driven/postgres"
	"github.com/synapse-med/synapse-core/internal/adapters/driven/prompts"
	"github.com/synapse-med/synapse-core/internal/adapters/driven/qdrant"
	redisqueue "github.com/synapse-med/synapse-core/internal/adapters/driven/queue/redis"
	"github.com/synapse-med/synapse-core/internal/adapters/driven/telemetry"
	"github.com/synapse-med/synapse-core/internal/config"
	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
	"github.com/synapse-med/synapse-core/internal/core/services"
	"github.com/synapse-med/synapse-core/internal/pii"
	"github.com/synapse-med/synapse-core/internal/runtime"
	"github.com/synapse-med/synapse-core/internal/worker"
)

var version = "dev"

func main() {
	log.Printf("synapse-core %s starting", version)

	// Configuration from environment
	aiProvider := domain.AIProvider(getEnv("AI_PROVIDER", "openai"))
	openaiKey := getEnv("OPENAI_API_KEY", "")
	openaiBaseURL := getEnv("OPENAI_BASE_URL", "")
	embeddingModel := getEnv("EMBEDDING_MODEL", "")
	llmModel := getEnv("LLM_MODEL", "gpt-4o-mini")
	ollamaURL := getEnv("OLLAMA_URL", "http://localhost:11434")

	qdrantURL := getEnv("QDRANT_URL", "http://localhost:6333")
	qdrantKey := getEnv("QDRANT_API_KEY", "")
	collection := getEnv("QDRANT_COLLECTION", "synapse-docs")
	allowRecreate := getEnvBool("QDRANT_ALLOW_RECREATE", false)

	databaseURL := getEnv("DATABASE_URL", "")
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379/0")

	langfuseURL := getEnv("LANGFUSE_URL", "")
	langfusePublic := getEnv("LANGFUSE_PUBLIC_KEY", "")
	langfuseSecret := getEnv("LANGFUSE_SECRET_KEY", "")

	policyFile := getEnv("PII_POLICY_FILE", "")

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	logger := slog.Default()

	// ===== AI services =====
	runtimeServices := runtime.NewServices()
	defer runtimeServices.Close()

	aiFactory := ai.NewFactory()

	baseURL := openaiBaseURL
	if aiProvider == domain.AIProviderLocal {
		baseURL = ollamaURL
	}

	dense, err := aiFactory.CreateDenseEmbedder(&domain.EmbeddingSettings{
		Provider: aiProvider,
		Model:    embeddingModel,
		APIKey:   openaiKey,
		BaseURL:  baseURL,
	})
	if err != nil {
		log.Fatalf("Failed to create dense embedder: %v", err)
	}
	if dense == nil {
		log.Println("Warning: dense embedder not configured, ingestion and search are unavailable")
	} else {
		runtimeServices.SetDenseEmbedder(dense)
		log.Printf("Dense embedder: %s (%d dims)", dense.Model(), dense.Dimensions())
	}

	// The sparse encoder runs in-process and is always available
	runtimeServices.SetSparseEmbedder(ai.NewSparseEncoder())

	llm, err := aiFactory.CreateLLMService(&domain.LLMSettings{
		Provider: aiProvider,
		Model:    llmModel,
		APIKey:   openaiKey,
		BaseURL:  baseURL,
	})
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}
	if llm == nil {
		log.Println("Warning: LLM not configured, routing and answering are unavailable")
	} else {
		runtimeServices.SetLLMService(llm)
		log.Printf("LLM: %s", llm.Model())
	}

	// ===== Prompt source and telemetry (optional) =====
	if langfusePublic != "" && langfuseSecret != "" {
		promptSource, err := prompts.NewLangfuse(langfuseURL, langfusePublic, langfuseSecret)
		if err != nil {
			log.Fatalf("Failed to create prompt source: %v", err)
		}
		runtimeServices.SetPromptSource(promptSource)

		sink, err := telemetry.NewLangfuseSink(langfuseURL, langfusePublic, langfuseSecret, logger)
		if err != nil {
			log.Fatalf("Failed to create telemetry sink: %v", err)
		}
		runtimeServices.SetTelemetrySink(sink)
		defer sink.Flush()
		log.Println("Langfuse prompt source and telemetry enabled")
	}

	// ===== Vector index =====
	index, err := qdrant.NewClient(qdrantURL, qdrantKey, collection)
	if err != nil {
		log.Fatalf("Failed to create qdrant client: %v", err)
	}

	denseSize := collectionDenseSize(dense, aiProvider)
	manager := qdrant.NewManager(index, denseSize, allowRecreate, logger)
	if err := manager.EnsureCollection(ctx); err != nil {
		// Schema drift never blocks startup, the operator decides
		log.Printf("Warning: collection check failed: %v", err)
	} else {
		log.Printf("Collection %q ready (%d dims)", collection, denseSize)
	}

	// ===== Document registry (optional) =====
	var registry *postgres.DocumentStore
	if databaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(databaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		registry = postgres.NewDocumentStore(db)
		log.Println("Document registry enabled")
	} else {
		log.Println("DATABASE_URL not set, document registry disabled")
	}

	// ===== PII sanitizer =====
	policy, err := config.LoadPIIPolicy(policyFile)
	if err != nil {
		log.Fatalf("Failed to load PII policy: %v", err)
	}
	sanitizer := pii.NewTextSanitizer(policy, logger)

	// ===== Core services =====
	searchService := services.NewSearchService(runtimeServices, index, logger)
	ingestService := services.NewIngestService(runtimeServices, index, registryOrNil(registry), logger)
	gateway := services.NewGatewayService(runtimeServices, sanitizer, searchService, logger)

	// ===== Task queue and worker =====
	log.Println("Connecting to Redis...")
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	taskQueue, err := redisqueue.NewQueue(redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
	if err != nil {
		log.Fatalf("Failed to create task queue: %v", err)
	}

	w := worker.New(worker.Config{
		TaskQueue:      taskQueue,
		Gateway:        gateway,
		Ingest:         ingestService,
		Logger:         logger,
		Concurrency:    getEnvInt("WORKER_CONCURRENCY", 2),
		DequeueTimeout: getEnvInt("WORKER_DEQUEUE_TIMEOUT", 5),
	})
	if err := w.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
	log.Println("Worker started, processing ingest and research tasks...")

	<-ctx.Done()

	log.Println("Stopping worker...")
	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(30 * time.Second):
		log.Println("Worker did not stop in time")
	}
	log.Println("Worker stopped")
}

// collectionDenseSize returns the dense slot size the collection must
// carry: the configured embedder's actual output size, so non-default
// models (text-embedding-3-large, nomic-embed-text) get a matching
// collection. The provider default only applies when no embedder is
// configured and the size is just a placeholder for the schema check.
func collectionDenseSize(dense driven.DenseEmbedder, provider domain.AIProvider) int {
	if dense != nil {
		return dense.Dimensions()
	}
	return provider.DenseVectorSize()
}

// registryOrNil avoids storing a typed nil in the DocumentStore
// interface slot when no database is configured.
func registryOrNil(registry *postgres.DocumentStore) driven.DocumentStore {
	if registry == nil {
		return nil
	}
	return registry
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
