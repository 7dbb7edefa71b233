package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".sentimentrag"

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/query-prompt.md
var defaultQueryPrompt string

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	SettingsPath    *string
	QueryPromptPath *string
}

// Settings represents the YAML configuration structure
type Settings struct {
	DataDirectory string `yaml:"data_directory"`
	Search        struct {
		StartURL           string `yaml:"start_url"`
		MaxPages           int    `yaml:"max_pages"`
		LinkSelector       string `yaml:"link_selector"`
		SettleDelaySeconds int    `yaml:"settle_delay_seconds"`
		OffsetParam        string `yaml:"offset_param"`
		OffsetStep         int    `yaml:"offset_step"`
		// Pointer so an absent key defaults to headless rather than headed.
		Headless *bool `yaml:"headless"`
	} `yaml:"search"`
	Archive struct {
		Enabled   bool   `yaml:"enabled"`
		Directory string `yaml:"directory"`
	} `yaml:"archive"`
	Chunking struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
	} `yaml:"chunking"`
	Query struct {
		Model          string `yaml:"model"`
		EmbeddingModel string `yaml:"embedding_model"`
		TopK           int    `yaml:"top_k"`
	} `yaml:"query"`
}

// Config holds settings and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig creates a new Config with settings and overrides
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	if err := ensureConfigExists(); err != nil {
		return nil, fmt.Errorf("ensuring config files exist: %w", err)
	}

	settingsPath := getConfigPath("settings.yaml")
	if overrides != nil && overrides.SettingsPath != nil {
		settingsPath = *overrides.SettingsPath
	}

	settings, err := loadSettings(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

// GetQueryPrompt returns the query prompt (from override file or embedded)
func (c *Config) GetQueryPrompt() string {
	if c.Overrides != nil && c.Overrides.QueryPromptPath != nil {
		if content, err := os.ReadFile(*c.Overrides.QueryPromptPath); err == nil {
			return string(content)
		}
	}
	return defaultQueryPrompt
}

// loadSettings loads settings from a YAML file, falling back to the embedded
// defaults when the file is absent.
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
		}
		data = []byte(defaultSettings)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	normalizeSettings(&settings)
	return &settings, nil
}

// normalizeSettings fills in zero values left by partial settings files.
func normalizeSettings(s *Settings) {
	if s.DataDirectory == "" {
		s.DataDirectory = "Data"
	}
	if s.Search.MaxPages <= 0 {
		log.Printf("Warning: search.max_pages is %d, defaulting to 15", s.Search.MaxPages)
		s.Search.MaxPages = 15
	}
	if s.Search.LinkSelector == "" {
		s.Search.LinkSelector = "div a.d-ib.va-top.mt-38.mb-4.mxw-100p"
	}
	if s.Search.SettleDelaySeconds <= 0 {
		s.Search.SettleDelaySeconds = 3
	}
	if s.Search.OffsetParam == "" {
		s.Search.OffsetParam = "b"
	}
	if s.Search.OffsetStep <= 0 {
		s.Search.OffsetStep = 10
	}
	if s.Search.Headless == nil {
		headless := true
		s.Search.Headless = &headless
	}
	if s.Archive.Directory == "" {
		s.Archive.Directory = filepath.Join(s.DataDirectory, "articles")
	}
	if s.Chunking.ChunkSize <= 0 {
		s.Chunking.ChunkSize = 1000
	}
	if s.Chunking.ChunkOverlap < 0 || s.Chunking.ChunkOverlap >= s.Chunking.ChunkSize {
		log.Printf("Warning: chunking.chunk_overlap is %d, defaulting to 200", s.Chunking.ChunkOverlap)
		s.Chunking.ChunkOverlap = 200
	}
	if s.Query.Model == "" {
		s.Query.Model = "gpt-4o"
	}
	if s.Query.EmbeddingModel == "" {
		s.Query.EmbeddingModel = "text-embedding-ada-002"
	}
	if s.Query.TopK <= 0 {
		s.Query.TopK = 10
	}
}

// getConfigPath returns the path to a config file in the .sentimentrag directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates the config directory and default files if they don't exist
func ensureConfigExists() error {
	if _, err := os.Stat(defaultConfigDir); os.IsNotExist(err) {
		if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	settingsPath := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("failed to write default settings: %w", err)
		}
	}

	return nil
}
