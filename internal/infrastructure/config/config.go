package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	LLM        LLMConfig        `yaml:"llm"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Vector     VectorConfig     `yaml:"vector"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 数据库文件路径，留空使用 ~/.calenchat/calenchat.db
	Path string `yaml:"path"`
}

// EmbeddingConfig Embedding API 配置（OpenAI 兼容接口）
type EmbeddingConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// LLMConfig Chat API 配置（OpenAI 兼容接口）
// 意图识别与回答生成共用同一模型
type LLMConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// TranscribeConfig 语音转写服务配置（whisper 风格 HTTP 服务）
type TranscribeConfig struct {
	URL string `yaml:"url"`
}

// VectorConfig 向量索引配置
type VectorConfig struct {
	// Backend 索引后端：local（默认，磁盘目录）或 qdrant
	Backend string `yaml:"backend"`

	// DataPath local 后端的索引目录，留空使用 ~/.calenchat/calendar_index
	DataPath string `yaml:"data_path"`

	// Qdrant 后端连接参数
	QdrantHost string `yaml:"qdrant_host"`
	QdrantPort int    `yaml:"qdrant_port"`
	Collection string `yaml:"collection"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// 向量后端标识
const (
	VectorBackendLocal  = "local"
	VectorBackendQdrant = "qdrant"
)

// NewConfig 创建默认配置
// 默认值面向本地 Ollama 部署，与 whisper 风格转写服务
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":8642",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Embedding: EmbeddingConfig{
			URL:   "http://localhost:11434/v1",
			Model: "mxbai-embed-large",
		},
		LLM: LLMConfig{
			URL:   "http://localhost:11434/v1",
			Model: "deepseek-r1:1.5b",
		},
		Transcribe: TranscribeConfig{
			URL: "http://localhost:8643",
		},
		Vector: VectorConfig{
			Backend:    VectorBackendLocal,
			DataPath:   "",
			QdrantHost: "localhost",
			QdrantPort: 6334,
			Collection: "calendar_events",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ConfigPath 配置文件路径
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".calenchat", "config.yaml"), nil
}

// Load 加载配置
// 文件不存在时返回默认配置；文件存在时在默认值之上覆盖
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom 从指定路径加载配置
func LoadFrom(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Vector.Backend {
	case VectorBackendLocal, VectorBackendQdrant:
	default:
		return fmt.Errorf("unknown vector backend %q", c.Vector.Backend)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding model is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	return nil
}

// Save 写入配置文件
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewVectorConfig 创建向量索引配置
func NewVectorConfig(cfg *Config) *VectorConfig {
	return &cfg.Vector
}
