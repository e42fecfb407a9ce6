// Copyright 2026 ForgeQA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and persists the application's yaml configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AIConfig configures the completion and embedding providers.
type AIConfig struct {
	Provider       string `yaml:"provider"`
	OllamaHost     string `yaml:"ollama_host"`
	OllamaModel    string `yaml:"ollama_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	GroqAPIKeyEnv  string `yaml:"groq_api_key_env"`
	GroqModel      string `yaml:"groq_model"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	UploadsDir string `yaml:"uploads_dir"`
}

// IndexConfig configures the similarity index.
type IndexConfig struct {
	DBPath     string `yaml:"db_path"`
	Collection string `yaml:"collection"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Index  IndexConfig  `yaml:"index"`
	AI     AIConfig     `yaml:"ai"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/caseforge/config.yaml.
// If neither exists, it writes defaults to ~/.config/caseforge/config.yaml
// and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "caseforge", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			ListenAddr: ":8000",
			UploadsDir: "uploads",
		},
		Index: IndexConfig{
			DBPath:     "caseforge.db",
			Collection: "requirements",
		},
		AI: AIConfig{
			Provider:       "ollama",
			OllamaHost:     "http://localhost:11434",
			OllamaModel:    "llama3.2:3b",
			EmbeddingModel: "nomic-embed-text",
			GroqAPIKeyEnv:  "GROQ_API_KEY",
			GroqModel:      "llama-3.3-70b-versatile",
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = def.Server.ListenAddr
	}
	if cfg.Server.UploadsDir == "" {
		cfg.Server.UploadsDir = def.Server.UploadsDir
	}
	if cfg.Index.DBPath == "" {
		cfg.Index.DBPath = def.Index.DBPath
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = def.Index.Collection
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = def.AI.Provider
	}
	if cfg.AI.OllamaHost == "" {
		cfg.AI.OllamaHost = def.AI.OllamaHost
	}
	if cfg.AI.OllamaModel == "" {
		cfg.AI.OllamaModel = def.AI.OllamaModel
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if cfg.AI.GroqAPIKeyEnv == "" {
		cfg.AI.GroqAPIKeyEnv = def.AI.GroqAPIKeyEnv
	}
	if cfg.AI.GroqModel == "" {
		cfg.AI.GroqModel = def.AI.GroqModel
	}
}
