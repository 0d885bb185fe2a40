// Package config handles repository discovery and configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .wordhop/config.json.
type Config struct {
	OllamaURL      string `json:"ollama_url,omitempty"`      // Ollama base URL for embeddings
	EmbedModel     string `json:"embed_model,omitempty"`     // Embedding model name
	ChatURL        string `json:"chat_url,omitempty"`        // OpenAI-compatible chat endpoint
	ChatModel      string `json:"chat_model,omitempty"`      // Chat model for interactive play
	VocabularyFile string `json:"vocabulary_file,omitempty"` // Word list path, relative to the repo root
}

const (
	WordhopDir   = ".wordhop"
	ConfigFile   = "config.json"
	GameFile     = "game.yaml"
	VocabFile    = "vocab.gob"
	GraphFile    = "graph.json"
	PairsFile    = "daily_pairs.json"
	ResultsFile  = "results.jsonl"
	ProgressFile = "progress.json"
	CacheDir     = "cache"
	DBFile       = "results.db"
)

// EnvRoot overrides repository discovery when set.
const EnvRoot = "WH_ROOT"

// WordhopPath returns the path to the .wordhop directory from a root path.
func WordhopPath(root string) string {
	return filepath.Join(root, WordhopDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, WordhopDir, ConfigFile)
}

// GamePath returns the path to game.yaml from a root path.
func GamePath(root string) string {
	return filepath.Join(root, WordhopDir, GameFile)
}

// VocabPath returns the path to the embedding index from a root path.
func VocabPath(root string) string {
	return filepath.Join(root, WordhopDir, VocabFile)
}

// GraphPath returns the path to the graph artifact from a root path.
func GraphPath(root string) string {
	return filepath.Join(root, WordhopDir, GraphFile)
}

// PairsPath returns the path to the generated pairs batch from a root path.
func PairsPath(root string) string {
	return filepath.Join(root, WordhopDir, PairsFile)
}

// ResultsPath returns the path to the results JSONL from a root path.
func ResultsPath(root string) string {
	return filepath.Join(root, WordhopDir, ResultsFile)
}

// ProgressPath returns the path to the batch progress file from a root path.
func ProgressPath(root string) string {
	return filepath.Join(root, WordhopDir, ProgressFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, WordhopDir, CacheDir)
}

// DBPath returns the path to the results cache database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, WordhopDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a wordhop repository.
func IsRepository(root string) bool {
	info, err := os.Stat(WordhopPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a wordhop repository.
// The WH_ROOT environment variable short-circuits the walk when set.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		if !IsRepository(root) {
			return "", fmt.Errorf("%s=%s is not a wordhop repository (no .wordhop directory)", EnvRoot, root)
		}
		return root, nil
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a wordhop repository (no .wordhop directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
