package model

// ================ Config ================

// AnalysisModelConfig drives the low-temperature model used for planning,
// field extraction and evaluation.
type AnalysisModelConfig struct {
	Model       string  `envconfig:"ANALYSIS_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ANALYSIS_MAX_TOKENS" default:"2048"`
	Temperature float32 `envconfig:"ANALYSIS_TEMPERATURE" default:"0.2"`
}

// ResponseModelConfig drives the model used for final answer synthesis.
type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2048"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.7"`
}

// AgentConfig bounds the orchestration loop.
type AgentConfig struct {
	// MaxIterations caps plan/execute/evaluate cycles per user turn.
	MaxIterations int `envconfig:"AGENT_MAX_ITERATIONS" default:"5"`
	// MaxTurns bounds the in-memory conversation history.
	MaxTurns int `envconfig:"AGENT_MAX_TURNS" default:"20"`
	// MaxRetries caps user-visible planning errors before the terminal apology.
	MaxRetries int `envconfig:"AGENT_MAX_RETRIES" default:"3"`
	// RecentTurns is how much history the planner sees.
	RecentTurns int `envconfig:"AGENT_RECENT_TURNS" default:"3"`
}

// CatalogConfig locates the scheme catalog. An empty path or an unreadable
// file falls back to the built-in default catalog.
type CatalogConfig struct {
	Path string `envconfig:"SCHEME_CATALOG_PATH"`
}

// SearchConfig drives the semantic scheme index. An empty DatabaseURL leaves
// the retriever on its deterministic keyword fallback.
type SearchConfig struct {
	DatabaseURL    string `envconfig:"SEARCH_DATABASE_URL"`
	EmbeddingModel string `envconfig:"SEARCH_EMBEDDING_MODEL" default:"text-embedding-004"`
	TopK           int    `envconfig:"SEARCH_TOP_K" default:"5"`
}

// MemoryConfig drives long-term profile persistence.
type MemoryConfig struct {
	TTL string `envconfig:"MEMORY_TTL" default:"168h"`
}

// VoiceConfig drives the speech boundary (Sarvam-style HTTP API).
type VoiceConfig struct {
	APIKey   string `envconfig:"SARVAM_API_KEY"`
	BaseURL  string `envconfig:"SARVAM_BASE_URL" default:"https://api.sarvam.ai"`
	STTModel string `envconfig:"SARVAM_STT_MODEL" default:"saarika:v1"`
	TTSModel string `envconfig:"SARVAM_TTS_MODEL" default:"bulbul:v2"`
	Speaker  string `envconfig:"SARVAM_TTS_SPEAKER" default:"anushka"`
	Language string `envconfig:"SARVAM_LANGUAGE" default:"hi-IN"`
}
