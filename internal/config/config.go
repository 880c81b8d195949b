package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

func checkFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return fmt.Errorf("config file %s has insecure permissions %04o; should be 0600", path, perm)
	}
	return nil
}

type Config struct {
	Model      ModelConfig     `yaml:"model"`
	Analysis   AnalysisConfig  `yaml:"analysis"`
	Responder  ResponderConfig `yaml:"responder"`
	Inbox      InboxConfig     `yaml:"inbox,omitempty"`
	Server     ServerConfig    `yaml:"server,omitempty"`
	Storage    StorageConfig   `yaml:"storage,omitempty"`
	Categories string          `yaml:"categories_file,omitempty"` // optional category/template override file
}

// ModelConfig holds the classifier and feature extraction settings
type ModelConfig struct {
	Algorithm           string  `yaml:"algorithm"` // "naive_bayes", "logistic_regression", "random_forest", "linear_svm"
	MaxFeatures         int     `yaml:"max_features"`
	TestSize            float64 `yaml:"test_size"`
	RandomState         int64   `yaml:"random_state"`
	MinWordLength       int     `yaml:"min_word_length"`
	EnableLemmatization bool    `yaml:"enable_lemmatization"`
	EnableStopwords     bool    `yaml:"enable_stopwords"`
	Language            string  `yaml:"language"` // stemmer language: "portuguese" or "english"
	MinExamples         int     `yaml:"min_examples"`
}

// AnalysisConfig holds sentiment and keyword extraction settings
type AnalysisConfig struct {
	SentimentThreshold float64 `yaml:"sentiment_threshold"`
	MaxKeywords        int     `yaml:"max_keywords"`
}

// ResponderConfig holds reply generation settings
type ResponderConfig struct {
	DefaultRecipient string `yaml:"default_recipient"` // used when the sender name is unknown
	SenderName       string `yaml:"sender_name"`
}

// InboxConfig holds IMAP settings for monitoring incoming email
type InboxConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Provider        string `yaml:"provider"` // "gmail", "outlook", "imap"
	Server          string `yaml:"server"`   // e.g., "imap.gmail.com"
	Port            int    `yaml:"port"`     // e.g., 993
	Email           string `yaml:"email"`    // Email address to monitor
	Password        string `yaml:"password"` // App password (not main password)
	Folder          string `yaml:"folder"`   // Folder to monitor (default: "INBOX")
	PollIntervalSec int    `yaml:"poll_interval_sec"`
}

// ServerConfig holds settings for the local JSON API
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig holds paths for persisted state
type StorageConfig struct {
	ModelPath string `yaml:"model_path"`
	HistoryDB string `yaml:"history_db"`
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".botemail"
	}
	return filepath.Join(home, ".botemail")
}

func DefaultConfigPath() string {
	return filepath.Join(dataDir(), "config.yaml")
}

// Default returns a config populated with the standard settings. Load
// unmarshals the file over this, so keys absent from the file keep their
// defaults.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Algorithm:           "naive_bayes",
			MaxFeatures:         5000,
			TestSize:            0.2,
			RandomState:         42,
			MinWordLength:       3,
			EnableLemmatization: true,
			EnableStopwords:     true,
			Language:            "portuguese",
			MinExamples:         10,
		},
		Analysis: AnalysisConfig{
			SentimentThreshold: 0.1,
			MaxKeywords:        10,
		},
		Responder: ResponderConfig{
			DefaultRecipient: "Cliente",
			SenderName:       "Assistente Virtual",
		},
		Inbox: InboxConfig{
			Folder:          "INBOX",
			PollIntervalSec: 300,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Storage: StorageConfig{
			ModelPath: filepath.Join(dataDir(), "model.json"),
			HistoryDB: filepath.Join(dataDir(), "history.db"),
		},
	}
}

func Load(path string) (*Config, error) {
	if err := checkFilePermissions(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "WARNING: %v\n", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set inbox defaults for known providers
	if cfg.Inbox.Provider == "gmail" && cfg.Inbox.Server == "" {
		cfg.Inbox.Server = "imap.gmail.com"
		cfg.Inbox.Port = 993
	}
	if cfg.Inbox.Provider == "outlook" && cfg.Inbox.Server == "" {
		cfg.Inbox.Server = "outlook.office365.com"
		cfg.Inbox.Port = 993
	}
	if cfg.Inbox.Folder == "" {
		cfg.Inbox.Folder = "INBOX"
	}
	if cfg.Inbox.PollIntervalSec == 0 {
		cfg.Inbox.PollIntervalSec = 300
	}

	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) Validate() error {
	switch c.Model.Algorithm {
	case "naive_bayes", "logistic_regression", "random_forest", "linear_svm":
	default:
		return fmt.Errorf("model: unknown algorithm %q", c.Model.Algorithm)
	}
	if c.Model.MaxFeatures <= 0 {
		return fmt.Errorf("model: max_features must be positive")
	}
	if c.Model.TestSize <= 0 || c.Model.TestSize >= 1 {
		return fmt.Errorf("model: test_size must be between 0 and 1")
	}
	if c.Model.MinWordLength <= 0 {
		return fmt.Errorf("model: min_word_length must be positive")
	}
	if c.Analysis.SentimentThreshold < 0 {
		return fmt.Errorf("analysis: sentiment_threshold must not be negative")
	}
	if c.Analysis.MaxKeywords <= 0 {
		return fmt.Errorf("analysis: max_keywords must be positive")
	}
	return nil
}

// ValidateInbox validates inbox settings (only called when monitoring is used)
func (c *Config) ValidateInbox() error {
	if !c.Inbox.Enabled {
		return fmt.Errorf("inbox: monitoring is not enabled in config")
	}
	if c.Inbox.Email == "" {
		return fmt.Errorf("inbox: email address is required")
	}
	if c.Inbox.Password == "" {
		return fmt.Errorf("inbox: password (app password) is required")
	}
	if c.Inbox.Server == "" {
		return fmt.Errorf("inbox: IMAP server is required")
	}
	if c.Inbox.Port == 0 {
		return fmt.Errorf("inbox: IMAP port is required")
	}
	return nil
}
