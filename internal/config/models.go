package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI and compatible endpoints
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// NormalizerConfig selects how email text is condensed before the model call
type NormalizerConfig struct {
	Mode     string
	Language string
}

// PromptConfig overrides the built-in prompt templates when non-empty
type PromptConfig struct {
	SystemInstruction string
	UserTemplate      string
}

// ClassifierConfig holds the gateway's limits and fallbacks
type ClassifierConfig struct {
	RequestTimeout        time.Duration
	MaxContentSize        int
	DefaultClassification string
	DefaultReply          string
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress   string
	Mode            string
	MaxUploadBytes  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// SMTPConfig represents the SMTP content filter configuration
type SMTPConfig struct {
	Enabled              bool
	ListenAddress        string
	RelayEnabled         bool
	RelayAddress         string
	RelayPort            int
	WhitelistedDomains   []string
	ClassificationHeader string
	ReplyHeader          string
	StatusHeader         string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetNormalizer returns the normalizer configuration
func (c *Config) GetNormalizer() NormalizerConfig {
	return NormalizerConfig{
		Mode:     c.GetString("normalizer.mode"),
		Language: c.GetString("normalizer.language"),
	}
}

// GetPrompt returns the prompt template overrides
func (c *Config) GetPrompt() PromptConfig {
	return PromptConfig{
		SystemInstruction: c.GetString("prompt.system_instruction"),
		UserTemplate:      c.GetString("prompt.user_template"),
	}
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() (ClassifierConfig, error) {
	timeout, err := c.GetDuration("classifier.request_timeout")
	if err != nil {
		return ClassifierConfig{}, err
	}
	if timeout <= 0 {
		return ClassifierConfig{}, fmt.Errorf("classifier.request_timeout must be positive, got %s", timeout)
	}

	return ClassifierConfig{
		RequestTimeout:        timeout,
		MaxContentSize:        c.GetInt("classifier.max_content_size"),
		DefaultClassification: c.GetString("classifier.default_classification"),
		DefaultReply:          c.GetString("classifier.default_reply"),
	}, nil
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	shutdownTimeout, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, err
	}

	mode := c.GetString("server.mode")
	switch mode {
	case "debug", "release", "test":
	default:
		return ServerConfig{}, fmt.Errorf("server.mode must be debug, release or test, got %q", mode)
	}

	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		Mode:            mode,
		MaxUploadBytes:  c.GetInt64("server.max_upload_bytes"),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

// GetSMTP returns the SMTP content filter configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Enabled:              c.GetBool("smtp.enabled"),
		ListenAddress:        c.GetString("smtp.listen_address"),
		RelayEnabled:         c.GetBool("smtp.relay_enabled"),
		RelayAddress:         c.GetString("smtp.relay_address"),
		RelayPort:            c.GetInt("smtp.relay_port"),
		WhitelistedDomains:   c.GetStringSlice("smtp.whitelisted_domains"),
		ClassificationHeader: c.GetString("smtp.headers.classification"),
		ReplyHeader:          c.GetString("smtp.headers.reply"),
		StatusHeader:         c.GetString("smtp.headers.status"),
	}
}
