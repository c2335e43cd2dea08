// Package config manages docuport configuration from files, environment
// variables, and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for docuport.
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Server     ServerConfig     `mapstructure:"server"`
	Watch      WatchConfig      `mapstructure:"watch"`
}

// StorageConfig holds document archive and index locations.
type StorageConfig struct {
	DataDir  string `mapstructure:"data_dir"`
	IndexDir string `mapstructure:"index_dir"`
}

// IngestConfig holds chunking and batching settings.
type IngestConfig struct {
	ChunkSize    int   `mapstructure:"chunk_size"`
	ChunkOverlap int   `mapstructure:"chunk_overlap"`
	BatchSize    int   `mapstructure:"batch_size"`
	MaxFileSize  int64 `mapstructure:"max_file_size"`
}

// RetrievalConfig holds search settings.
type RetrievalConfig struct {
	TopK           int     `mapstructure:"top_k"`
	ScoreThreshold float64 `mapstructure:"score_threshold"`
}

// EmbeddingsConfig holds embedding provider settings.
type EmbeddingsConfig struct {
	Provider       string `mapstructure:"provider"`
	Model          string `mapstructure:"model"`
	OllamaEndpoint string `mapstructure:"ollama_endpoint"`
	OpenAIAPIKey   string `mapstructure:"-"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider        string `mapstructure:"provider"`
	Model           string `mapstructure:"model"`
	OllamaEndpoint  string `mapstructure:"ollama_endpoint"`
	OpenAIAPIKey    string `mapstructure:"-"`
	AnthropicAPIKey string `mapstructure:"-"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// WatchConfig holds drop-folder watcher settings.
type WatchConfig struct {
	Dir      string        `mapstructure:"dir"`
	Debounce time.Duration `mapstructure:"debounce"`
}

var cfg *Config

// Load reads configuration from the given file (or discovers one), applying
// defaults, .env, and DOCUPORT_* environment overrides.
func Load(configFile string) (*Config, error) {
	// .env first so keys are visible to the env lookups below.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DOCUPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("docuport")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".docuport"))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	loadAPIKeysFromEnv(c)
	expandPaths(c)

	cfg = c
	return c, nil
}

// Get returns the loaded configuration, loading defaults if Load was never
// called.
func Get() *Config {
	if cfg == nil {
		c, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		return c
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.data_dir", DefaultDataDir)
	v.SetDefault("storage.index_dir", DefaultIndexDir)

	v.SetDefault("ingest.chunk_size", DefaultChunkSize)
	v.SetDefault("ingest.chunk_overlap", DefaultChunkOverlap)
	v.SetDefault("ingest.batch_size", DefaultBatchSize)
	v.SetDefault("ingest.max_file_size", DefaultMaxFileSize)

	v.SetDefault("retrieval.top_k", DefaultTopK)
	v.SetDefault("retrieval.score_threshold", DefaultScoreThreshold)

	v.SetDefault("embeddings.provider", DefaultEmbeddingProvider)
	v.SetDefault("embeddings.model", DefaultEmbeddingModel)
	v.SetDefault("embeddings.ollama_endpoint", DefaultOllamaEndpoint)

	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.ollama_endpoint", DefaultOllamaEndpoint)

	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)

	v.SetDefault("watch.debounce", DefaultWatchDebounce)
}

// loadAPIKeysFromEnv reads provider API keys from their conventional
// environment variables. Keys never live in config files.
func loadAPIKeysFromEnv(c *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Embeddings.OpenAIAPIKey = key
		c.LLM.OpenAIAPIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.AnthropicAPIKey = key
	}
}

func expandPaths(c *Config) {
	c.Storage.DataDir = expandHome(c.Storage.DataDir)
	c.Storage.IndexDir = expandHome(c.Storage.IndexDir)
	c.Watch.Dir = expandHome(c.Watch.Dir)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
