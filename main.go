package main

import (
	"context"
	"fmt"
	"log"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/yojana-mitra/server/internal/agent/evaluator"
	"github.com/yojana-mitra/server/internal/agent/executor"
	"github.com/yojana-mitra/server/internal/agent/llm"
	"github.com/yojana-mitra/server/internal/agent/memory"
	"github.com/yojana-mitra/server/internal/agent/model"
	"github.com/yojana-mitra/server/internal/agent/observers"
	"github.com/yojana-mitra/server/internal/agent/orchestrator"
	"github.com/yojana-mitra/server/internal/agent/planner"
	"github.com/yojana-mitra/server/internal/agent/repo"
	"github.com/yojana-mitra/server/internal/agent/tools"
	"github.com/yojana-mitra/server/internal/core"
	"github.com/yojana-mitra/server/internal/scheme"
	"github.com/yojana-mitra/server/internal/scheme/searchx"
	"github.com/yojana-mitra/server/internal/voice"
	logx "github.com/yojana-mitra/server/pkg/logger"
	pkgredis "github.com/yojana-mitra/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Analysis model.AnalysisModelConfig
	Response model.ResponseModelConfig
	Agent    model.AgentConfig
	Catalog  model.CatalogConfig
	Search   model.SearchConfig
	Memory   model.MemoryConfig
	Voice    model.VoiceConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.CurrentEnvironment()})
	einocb.AppendGlobalHandlers(observers.NewCallbacks())

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()
	logx.Info().Msg("Connected to Redis")

	clients, err := llm.NewGeminiClients(ctx, llm.GeminiConfig{
		APIKey:         envCfg.APIKey,
		BaseURL:        envCfg.BaseURL,
		AnalysisConfig: &envCfg.Analysis,
		ResponseConfig: &envCfg.Response,
	})
	if err != nil {
		log.Fatalf("Failed to build LLM clients: %v", err)
	}

	catalog := scheme.Load(envCfg.Catalog.Path)
	engine := scheme.NewEngine(catalog)

	// Semantic search is optional; without a database the retriever stays on
	// its deterministic keyword fallback.
	var index searchx.Index
	if envCfg.Search.DatabaseURL != "" {
		embedder := searchx.NewGeminiEmbedder(clients.Gemini, envCfg.Search.EmbeddingModel)
		pgIndex, err := searchx.NewPgVectorIndex(ctx, envCfg.Search.DatabaseURL, embedder)
		if err != nil {
			logx.Warn().Err(err).Msg("semantic index unavailable, keyword fallback only")
		} else {
			defer pgIndex.Close()
			docs := make([]searchx.Document, 0, catalog.Len())
			for _, s := range catalog.Schemes() {
				docs = append(docs, searchx.Document{ID: s.ID, Name: s.NameHI, Content: s.Document()})
			}
			if err := pgIndex.Populate(ctx, docs); err != nil {
				logx.Warn().Err(err).Msg("could not index scheme catalog")
			}
			index = pgIndex
		}
	}
	retriever := scheme.NewRetriever(catalog, index, envCfg.Search.TopK)

	ttl, err := time.ParseDuration(envCfg.Memory.TTL)
	if err != nil {
		log.Fatalf("Invalid MEMORY_TTL '%s': %v", envCfg.Memory.TTL, err)
	}

	// Speech synthesis is optional; without an API key the demo stays
	// text-only.
	var synthesizer voice.Synthesizer
	if envCfg.Voice.APIKey != "" {
		synthesizer = voice.NewSarvamClient(envCfg.Voice)
		logx.Info().Msg("Voice synthesis enabled")
	}

	handler := memory.NewContradictionHandler()
	sessions := orchestrator.NewSessionManager(orchestrator.Collaborators{
		Planner:        planner.New(clients.Analysis),
		Executor:       executor.New(tools.NewRegistry(engine, retriever)),
		Evaluator:      evaluator.New(clients.Analysis, handler),
		ResponseLLM:    clients.Response,
		Contradictions: handler,
		Repository:     repo.NewRedisMemoryRepository(rdb, ttl),
		Config:         &envCfg.Agent,
	})

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Farmer asking about schemes",
			query:       "मैं एक किसान हूं, मेरी उम्र 45 साल है। मेरे लिए कौन सी योजनाएं हैं?",
		},
		{
			description: "Adds income and category",
			query:       "मेरी वार्षिक आय 80,000 रुपये है और मैं OBC श्रेणी में आता हूं।",
		},
		{
			description: "Asks about housing support",
			query:       "क्या मुझे घर बनाने के लिए कोई सहायता मिल सकती है?",
		},
	}

	sessionID := "demo-session-1"

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		outcome := sessions.Process(ctx, sessionID, test.query)
		fmt.Printf("State: %s\n", outcome.State)
		fmt.Printf("Response %d: %s\n", i+1, outcome.Response)
		if len(outcome.SchemesFound) > 0 {
			fmt.Println("Schemes found:")
			for _, s := range outcome.SchemesFound {
				fmt.Printf("  - %s (%.2f)\n", s.Name, s.Score)
			}
		}
		if synthesizer != nil {
			audio, err := synthesizer.Synthesize(ctx, outcome.Response)
			if err != nil {
				logx.Warn().Err(err).Msg("could not synthesize response audio")
			} else {
				fmt.Printf("Audio: %d bytes\n", len(audio))
			}
		}
		fmt.Println("─────────────────────────────────────────────")

		time.Sleep(500 * time.Millisecond)
	}

	fmt.Printf("\nFinal profile: %v\n", sessions.Profile(sessionID))
}
