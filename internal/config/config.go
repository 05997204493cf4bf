package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port        string   `toml:"port"`
	LogLevel    string   `toml:"log_level"`
	CORSOrigins []string `toml:"cors_origins"`
}

type Neo4jConfig struct {
	URI            string `toml:"uri"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	QueryTimeoutMS int    `toml:"query_timeout_ms"`
	RowCap         int    `toml:"row_cap"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type SearchConfig struct {
	RRFK           int `toml:"rrf_k"`
	CandidateLimit int `toml:"candidate_limit"`
}

type InteractionConfig struct {
	AuthorRoles []string `toml:"author_roles"`
	WordCap     int      `toml:"word_cap"`
	DepthCap    int      `toml:"depth_cap"`
	CountCap    int      `toml:"count_cap"`
}

type QAConfig struct {
	MaxRowsToLLM int `toml:"max_rows_to_llm"`
}

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Neo4j       Neo4jConfig       `toml:"neo4j"`
	LLM         LLMConfig         `toml:"llm"`
	Search      SearchConfig      `toml:"search"`
	Interaction InteractionConfig `toml:"interaction"`
	QA          QAConfig          `toml:"qa"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			LogLevel:    "info",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Neo4j: Neo4jConfig{
			URI:            "bolt://localhost:7687",
			User:           "neo4j",
			QueryTimeoutMS: 15000,
			RowCap:         1000,
		},
		Search: SearchConfig{
			RRFK:           60,
			CandidateLimit: 50,
		},
		Interaction: InteractionConfig{
			AuthorRoles: []string{"rebuttal", "author_final_remarks"},
			WordCap:     10000,
			DepthCap:    5,
			CountCap:    20,
		},
		QA: QAConfig{
			MaxRowsToLLM: 50,
		},
	}
}

// Load reads a TOML config file, filling unset sections with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}
