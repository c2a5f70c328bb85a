// Package config loads pipeline settings from the environment, with
// optional .env bootstrapping.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration for an analysis run.
type Config struct {
	ProModel1  string
	ProModel2  string
	ConModel1  string
	ConModel2  string
	JudgeModel string

	OpenAIKey    string
	AnthropicKey string
	GroqKey      string

	OllamaLocalURL  string
	OllamaRemoteURL string
	OllamaLocalList []string

	DebateRounds       int
	MaxArgumentLength  int
	MaxFactors         int
	EnableAnonymize    bool
	MaxSearchResults   int
	MaxScrapedPages    int
	MaxTranscriptChars int
	JudgeTimeout       time.Duration

	OutputDir       string
	SaveTranscripts bool
	LogLevel        string
}

// LoadDotEnv applies a .env file to the process environment without
// overriding variables already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from the environment, applying defaults and
// validating ranges.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PRO_MODEL_1", "openai/gpt-4o")
	v.SetDefault("PRO_MODEL_2", "anthropic/claude-3-5-sonnet-20241022")
	v.SetDefault("CON_MODEL_1", "groq/llama-3.3-70b-versatile")
	v.SetDefault("CON_MODEL_2", "ollama/qwen2.5:14b")
	v.SetDefault("JUDGE_MODEL", "openai/gpt-4o")

	v.SetDefault("OLLAMA_LOCAL_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_REMOTE_URL", "")
	v.SetDefault("OLLAMA_LOCAL_MODELS", "")

	v.SetDefault("DEBATE_ROUNDS", 3)
	v.SetDefault("MAX_ARGUMENT_LENGTH", 200)
	v.SetDefault("MAX_FACTORS", 5)
	v.SetDefault("ENABLE_ANONYMIZATION", true)
	v.SetDefault("MAX_SEARCH_RESULTS", 8)
	v.SetDefault("MAX_SCRAPED_PAGES_PER_FACTOR", 5)
	v.SetDefault("MAX_TRANSCRIPT_CHARS", 8000)
	v.SetDefault("JUDGE_TIMEOUT_SECONDS", 120)

	v.SetDefault("OUTPUT_DIR", "output")
	v.SetDefault("SAVE_TRANSCRIPTS", true)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		ProModel1:  v.GetString("PRO_MODEL_1"),
		ProModel2:  v.GetString("PRO_MODEL_2"),
		ConModel1:  v.GetString("CON_MODEL_1"),
		ConModel2:  v.GetString("CON_MODEL_2"),
		JudgeModel: v.GetString("JUDGE_MODEL"),

		OpenAIKey:    v.GetString("OPENAI_API_KEY"),
		AnthropicKey: v.GetString("ANTHROPIC_API_KEY"),
		GroqKey:      v.GetString("GROQ_API_KEY"),

		OllamaLocalURL:  v.GetString("OLLAMA_LOCAL_URL"),
		OllamaRemoteURL: v.GetString("OLLAMA_REMOTE_URL"),
		OllamaLocalList: splitList(v.GetString("OLLAMA_LOCAL_MODELS")),

		DebateRounds:       v.GetInt("DEBATE_ROUNDS"),
		MaxArgumentLength:  v.GetInt("MAX_ARGUMENT_LENGTH"),
		MaxFactors:         v.GetInt("MAX_FACTORS"),
		EnableAnonymize:    v.GetBool("ENABLE_ANONYMIZATION"),
		MaxSearchResults:   v.GetInt("MAX_SEARCH_RESULTS"),
		MaxScrapedPages:    v.GetInt("MAX_SCRAPED_PAGES_PER_FACTOR"),
		MaxTranscriptChars: v.GetInt("MAX_TRANSCRIPT_CHARS"),
		JudgeTimeout:       time.Duration(v.GetInt("JUDGE_TIMEOUT_SECONDS")) * time.Second,

		OutputDir:       v.GetString("OUTPUT_DIR"),
		SaveTranscripts: v.GetBool("SAVE_TRANSCRIPTS"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList parses a comma-separated env value into trimmed entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.DebateRounds < 1 {
		return fmt.Errorf("config: DEBATE_ROUNDS must be >= 1, got %d", c.DebateRounds)
	}
	if c.MaxFactors < 1 {
		return fmt.Errorf("config: MAX_FACTORS must be >= 1, got %d", c.MaxFactors)
	}
	if c.MaxArgumentLength < 50 {
		return fmt.Errorf("config: MAX_ARGUMENT_LENGTH must be >= 50, got %d", c.MaxArgumentLength)
	}
	for name, model := range map[string]string{
		"PRO_MODEL_1": c.ProModel1,
		"PRO_MODEL_2": c.ProModel2,
		"CON_MODEL_1": c.ConModel1,
		"CON_MODEL_2": c.ConModel2,
		"JUDGE_MODEL": c.JudgeModel,
	} {
		if model == "" {
			return fmt.Errorf("config: %s must not be empty", name)
		}
	}
	return nil
}
