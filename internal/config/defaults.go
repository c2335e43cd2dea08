package config

// Default configuration values
const (
	DefaultDataDir  = "~/.docuport/data"
	DefaultIndexDir = "~/.docuport/index"

	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultBatchSize    = 64
	DefaultMaxFileSize  = 50 * 1024 * 1024 // 50MB

	DefaultTopK           = 5
	DefaultScoreThreshold = 0.5

	DefaultEmbeddingProvider = "ollama"
	DefaultEmbeddingModel    = "nomic-embed-text"
	DefaultOllamaEndpoint    = "http://localhost:11434"

	DefaultLLMProvider = "ollama"
	DefaultLLMModel    = "llama3.2"

	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 8080

	DefaultWatchDebounce = "2s"
)
