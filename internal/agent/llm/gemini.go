package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/yojana-mitra/server/internal/agent/model"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// GeminiConfig holds what is needed to build the Gemini-backed clients.
type GeminiConfig struct {
	APIKey         string
	BaseURL        string
	AnalysisConfig *model.AnalysisModelConfig
	ResponseConfig *model.ResponseModelConfig
}

// Clients bundles the two chat clients the agent runs on plus the shared
// Gemini client, which the embedder reuses.
type Clients struct {
	Analysis *ChatClient
	Response *ChatClient
	Gemini   *genai.Client
}

// NewGeminiClients builds the analysis and response chat clients over one
// shared Gemini connection.
func NewGeminiClients(ctx context.Context, config GeminiConfig) (*Clients, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	analysisModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.AnalysisConfig.Model,
		Temperature: &config.AnalysisConfig.Temperature,
		MaxTokens:   &config.AnalysisConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating analysis model")
		return nil, fmt.Errorf("error creating analysis model: %w", err)
	}

	responseModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ResponseConfig.Model,
		Temperature: &config.ResponseConfig.Temperature,
		MaxTokens:   &config.ResponseConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}

	return &Clients{
		Analysis: NewChatClient(analysisModel, config.AnalysisConfig.Model),
		Response: NewChatClient(responseModel, config.ResponseConfig.Model),
		Gemini:   client,
	}, nil
}
